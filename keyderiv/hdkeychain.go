package keyderiv

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
)

// HDChildDeriver is the default ChildKeyDeriver, walking the
// m/352'/<coin>'/<account>'/{1,0}'/0 paths from a BIP-32 master extended
// key. Grounded on the same DeriveChildren/hardened-child-walk pattern
// guggero-chansummary's lnd.DeriveChildren and wesmoorhead-lnd's
// TxStore.GetPrivkey use: derive one hardened (or non-hardened, for the
// trailing /0) level at a time and bail on the first error.
//
// Hosts that already maintain their own BIP-32 tree are free to implement
// ChildKeyDeriver directly and skip this type entirely - nothing in this
// package depends on it.
type HDChildDeriver struct {
	Master *hdkeychain.ExtendedKey
}

const purpose = 352

func (h *HDChildDeriver) derive(coin Coin, account, change, index uint32) ([32]byte, error) {
	path := []uint32{
		hardened(purpose),
		hardened(uint32(coin)),
		hardened(account),
		hardened(change),
		index,
	}

	current := h.Master
	for _, step := range path {
		child, err := current.DeriveNonStandard(step)
		if err != nil {
			return [32]byte{}, fmt.Errorf("keyderiv: derive child %d: %w", step, err)
		}
		current = child
	}

	priv, err := current.ECPrivKey()
	if err != nil {
		return [32]byte{}, fmt.Errorf("keyderiv: extract private key: %w", err)
	}

	var out [32]byte
	copy(out[:], priv.Serialize())
	return out, nil
}

func hardened(index uint32) uint32 {
	return index + hdkeychain.HardenedKeyStart
}

// DeriveScanChild implements ChildKeyDeriver for m/352'/coin'/account'/1'/0.
func (h *HDChildDeriver) DeriveScanChild(coin Coin, account uint32) ([32]byte, error) {
	return h.derive(coin, account, 1, 0)
}

// DeriveSpendChild implements ChildKeyDeriver for m/352'/coin'/account'/0'/0.
func (h *HDChildDeriver) DeriveSpendChild(coin Coin, account uint32) ([32]byte, error) {
	return h.derive(coin, account, 0, 0)
}
