// Package scanner implements the receiver side of silent payments: given
// a transaction's published input-sum pubkey and outpoint hash, it
// reconstructs the shared secret, enumerates candidate output keys, and
// matches them (directly or via a label) against the transaction's
// actual outputs.
package scanner

import (
	"encoding/binary"

	"github.com/bitcoindevkit/bdk-sp/primitives"
	"github.com/bitcoindevkit/bdk-sp/sharedsecret"
)

// Owned is one output this wallet can spend: its index in the
// transaction, the scalar to add to the spend private key, and the
// label that matched it, if any.
type Owned struct {
	OutputIndex int
	Tweak       *primitives.Scalar
	Label       *uint32
}

// candidate is a not-yet-matched transaction output under scan.
type candidate struct {
	index int
	xonly [32]byte
}

// Scan runs BIP-352's receiver scanning loop: it recomputes the ECDH
// shared secret from bScan and sum, then walks k = 0, 1, 2, ... deriving
// the candidate output key P_k = B_spend + t_k*G and matching it
// (directly, or via every remaining output's labelled-offset pair)
// against outputs. It stops at the first k with no match, since the
// sender always assigns k's contiguously starting at 0.
//
// sum.PubSum plays the role of A_sum and sum.OutpointHash the role of
// outpoint_hash; both are the same InputSum value a receiver computes
// from the block's published tweak data.
func Scan(bScan *primitives.Scalar, bSpend *primitives.Point, sum *sharedsecret.InputSum, outputs [][32]byte, labels *LabelTable) ([]Owned, error) {
	ecdh, err := sharedsecret.ReceiverSecret(bScan, sum)
	if err != nil {
		// Identity shared secret: nothing in this transaction can be
		// ours, so the scan is skipped rather than treated as an error.
		return nil, nil
	}
	ecdhCompressed := ecdh.Compressed()

	remaining := make([]candidate, len(outputs))
	for i, x := range outputs {
		remaining[i] = candidate{index: i, xonly: x}
	}

	var found []Owned
	for k := uint32(0); ; k++ {
		var kBytes [4]byte
		binary.BigEndian.PutUint32(kBytes[:], k)

		tk, err := primitives.TaggedHashScalar(primitives.TagSharedSecret, ecdhCompressed[:], kBytes[:])
		if err != nil {
			// Tag-hash overflow (~2^-128): retry with the next k.
			continue
		}
		pk, err := bSpend.Add(primitives.ScalarBaseMul(tk))
		if err != nil {
			break
		}
		xk, _ := pk.XOnly()

		if idx, ok := indexOfXOnly(remaining, xk); ok {
			found = append(found, Owned{OutputIndex: remaining[idx].index, Tweak: tk})
			remaining = removeAt(remaining, idx)
			continue
		}

		idx, entry, ok := matchLabel(remaining, pk, labels)
		if ok {
			combined := tk.Add(entry.Tweak)
			m := entry.M
			found = append(found, Owned{OutputIndex: remaining[idx].index, Tweak: combined, Label: &m})
			remaining = removeAt(remaining, idx)
			continue
		}

		break
	}

	return found, nil
}

func indexOfXOnly(remaining []candidate, x [32]byte) (int, bool) {
	for i, c := range remaining {
		if c.xonly == x {
			return i, true
		}
	}
	return -1, false
}

// matchLabel implements BIP-352's labelled-match step: for each remaining output
// Y, compute D = lift_x_even(Y) - P_k and D' = lift_x_even(Y) + P_k and
// look both up in the label table. A remaining output whose x-only key
// doesn't lift to a curve point at all cannot be a genuine taproot
// output; it is skipped rather than treated as a fatal error, so one
// malformed output never aborts the scan of the rest of the transaction.
func matchLabel(remaining []candidate, pk *primitives.Point, labels *LabelTable) (int, LabelEntry, bool) {
	negPk := pk.Negate()

	for i, c := range remaining {
		liftedY, err := primitives.PointFromXOnlyEven(c.xonly)
		if err != nil {
			continue
		}

		if d, err := liftedY.Add(negPk); err == nil {
			if entry, ok := labels.lookup(d.Compressed()); ok {
				return i, entry, true
			}
		}

		if dPrime, err := liftedY.Add(pk); err == nil {
			if entry, ok := labels.lookup(dPrime.Compressed()); ok {
				return i, entry, true
			}
		}
	}
	return 0, LabelEntry{}, false
}

func removeAt(s []candidate, i int) []candidate {
	s[i] = s[len(s)-1]
	return s[:len(s)-1]
}
