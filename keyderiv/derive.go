// Package keyderiv derives the scan and spend keypairs and label tweaks a
// silent-payment wallet needs from its master key. The core never performs
// BIP-32 itself; it receives two child private keys from the host through
// the ChildKeyDeriver capability.
package keyderiv

import (
	"encoding/binary"

	"github.com/bitcoindevkit/bdk-sp/primitives"
)

// Coin type selects the BIP-32 coin component of the BIP-352 descriptor
// paths m/352'/<coin>'/<account>'/{1,0}'/0.
type Coin uint32

const (
	CoinMainnet Coin = 0
	CoinTestnet Coin = 1
)

// ChildKeyDeriver is the host capability that hands this package the two
// child private keys it needs; it is the only place BIP-32 knowledge
// crosses into this module.
type ChildKeyDeriver interface {
	// DeriveScanChild returns the private key at
	// m/352'/<coin>'/<account>'/1'/0.
	DeriveScanChild(coin Coin, account uint32) (scanPriv [32]byte, err error)
	// DeriveSpendChild returns the private key at
	// m/352'/<coin>'/<account>'/0'/0.
	DeriveSpendChild(coin Coin, account uint32) (spendPriv [32]byte, err error)
}

// KeyPair is a (private, public) pair derived for either the scan or the
// spend role.
type KeyPair struct {
	Priv *primitives.Scalar
	Pub  *primitives.Point
}

// Derive walks both descriptor paths via the supplied ChildKeyDeriver and
// returns the wallet's scan and spend keypairs.
func Derive(d ChildKeyDeriver, coin Coin, account uint32) (scan, spend *KeyPair, err error) {
	scanPrivBytes, err := d.DeriveScanChild(coin, account)
	if err != nil {
		return nil, nil, err
	}
	scanPriv, err := primitives.NewScalar(scanPrivBytes)
	if err != nil {
		return nil, nil, err
	}

	spendPrivBytes, err := d.DeriveSpendChild(coin, account)
	if err != nil {
		return nil, nil, err
	}
	spendPriv, err := primitives.NewScalar(spendPrivBytes)
	if err != nil {
		return nil, nil, err
	}

	scan = &KeyPair{Priv: scanPriv, Pub: primitives.ScalarBaseMul(scanPriv)}
	spend = &KeyPair{Priv: spendPriv, Pub: primitives.ScalarBaseMul(spendPriv)}
	return scan, spend, nil
}

// LabelTweak is a BIP-352 label's (m, tweak, pubkey) triple. m=0 is
// reserved for the "change" label and is rejected here, the one place a
// label tweak is ever minted.
type LabelTweak struct {
	M      uint32
	Tweak  *primitives.Scalar
	Pubkey *primitives.Point
}

// DeriveLabel computes t_m = H_tag("BIP0352/Label", scan_priv || be32(m))
// and L_m = t_m*G.
func DeriveLabel(scanPriv *primitives.Scalar, m uint32) (*LabelTweak, error) {
	if m == 0 {
		return nil, &LabelError{Err: ErrReservedM, M: m}
	}

	scanPrivBytes := scanPriv.Bytes()
	var mBytes [4]byte
	binary.BigEndian.PutUint32(mBytes[:], m)

	tweak, err := primitives.TaggedHashScalar(primitives.TagLabel, scanPrivBytes[:], mBytes[:])
	if err != nil {
		return nil, err
	}

	return &LabelTweak{
		M:      m,
		Tweak:  tweak,
		Pubkey: primitives.ScalarBaseMul(tweak),
	}, nil
}

// LabelledSpendPubKey returns spend_pub + L_m, the spend component of a
// labelled silent-payment code per BIP-352: the label tweaks the spend
// key, not the scan key, so the ECDH shared secret (derived solely from
// the scan key) is unaffected by which label a sender addressed.
func LabelledSpendPubKey(spendPub *primitives.Point, label *LabelTweak) (*primitives.Point, error) {
	return spendPub.Add(label.Pubkey)
}
