package sharedsecret

import (
	"bytes"

	"github.com/btcsuite/btcd/wire"

	"github.com/bitcoindevkit/bdk-sp/primitives"
)

// InputWithKey pairs a classifiable input with the private key that
// spends it, when the caller owns one. PrivKey is nil for receiver-side
// callers, who only ever see the broadcast input-sum pubkey.
type InputWithKey struct {
	Input   Input
	PrivKey *primitives.Scalar
}

// InputSum is the (a_sum?, A_sum, outpoint_hash) triple sender and
// receiver both derive from a transaction's inputs. PrivSum is nil
// unless every contributing input supplied a private key.
type InputSum struct {
	PrivSum      *primitives.Scalar
	PubSum       *primitives.Point
	OutpointHash *primitives.Scalar
}

// ComputeInputSum classifies every input, sums the contributing
// pubkeys (and, when fully known, the parity-adjusted private keys),
// and derives the outpoint hash scalar. Sender and receiver both call
// this against the same input set and must agree bit-for-bit on the
// result.
func ComputeInputSum(inputs []InputWithKey) (*InputSum, error) {
	var (
		pubSum      *primitives.Point
		privSum     *primitives.Scalar
		haveAllKeys = true
		outpoints   []wire.OutPoint
		n           int
	)

	for i := range inputs {
		kind := Classify(&inputs[i].Input)
		if kind == Other {
			continue
		}
		n++

		pub, err := ExtractPubKey(&inputs[i].Input, kind)
		if err != nil {
			return nil, &InputError{Err: err, Index: i}
		}

		if pubSum == nil {
			pubSum = pub
		} else {
			pubSum, err = pubSum.Add(pub)
			if err != nil {
				return nil, &ShareError{Err: ErrIdentitySum}
			}
		}
		outpoints = append(outpoints, inputs[i].Input.Outpoint)

		if inputs[i].PrivKey == nil {
			haveAllKeys = false
			continue
		}
		if !haveAllKeys {
			continue
		}
		adjusted, err := adjustPrivKey(inputs[i].PrivKey, pub)
		if err != nil {
			return nil, &InputError{Err: err, Index: i}
		}
		if privSum == nil {
			privSum = adjusted
		} else {
			privSum = privSum.Add(adjusted)
		}
	}

	if n == 0 || pubSum == nil {
		return nil, &ShareError{Err: ErrNoInputs}
	}
	if !haveAllKeys {
		privSum = nil
	}

	smallest := SmallestOutpoint(outpoints)
	outpointHash, err := outpointHashScalar(smallest, pubSum)
	if err != nil {
		return nil, err
	}

	return &InputSum{PrivSum: privSum, PubSum: pubSum, OutpointHash: outpointHash}, nil
}

// adjustPrivKey returns the private key contribution matching
// contribPub's parity: priv itself if it already generates contribPub,
// or -priv if contribPub is the x-only-even lift of priv's point.
func adjustPrivKey(priv *primitives.Scalar, contribPub *primitives.Point) (*primitives.Scalar, error) {
	actual := primitives.ScalarBaseMul(priv)
	if actual.Equal(contribPub) {
		return priv, nil
	}
	negated := priv.Negate()
	if primitives.ScalarBaseMul(negated).Equal(contribPub) {
		return negated, nil
	}
	return nil, ErrPrivKeyMismatch
}

// outpointKey serializes an outpoint as txid_le(32) || vout_le32(4),
// the wire-order encoding the lexicographic comparison below operates
// on.
func outpointKey(op wire.OutPoint) [36]byte {
	var key [36]byte
	copy(key[:32], op.Hash[:])
	var vout [4]byte
	vout[0] = byte(op.Index)
	vout[1] = byte(op.Index >> 8)
	vout[2] = byte(op.Index >> 16)
	vout[3] = byte(op.Index >> 24)
	copy(key[32:], vout[:])
	return key
}

// SmallestOutpoint returns the lexicographically smallest
// txid_le||vout_le32 encoding among outs. Exported so callers that
// need to cross-check or cache the selection can reuse the exact same
// comparison.
func SmallestOutpoint(outs []wire.OutPoint) wire.OutPoint {
	smallest := outs[0]
	smallestKey := outpointKey(smallest)
	for _, op := range outs[1:] {
		key := outpointKey(op)
		if bytes.Compare(key[:], smallestKey[:]) < 0 {
			smallest = op
			smallestKey = key
		}
	}
	return smallest
}

// outpointHashScalar computes H_tag("BIP0352/Inputs", smallest_outpoint
// || compressed(pubkey_sum)) as a scalar mod n.
func outpointHashScalar(smallest wire.OutPoint, pubSum *primitives.Point) (*primitives.Scalar, error) {
	key := outpointKey(smallest)
	compressed := pubSum.Compressed()
	scalar, err := primitives.TaggedHashScalar(primitives.TagInputs, key[:], compressed[:])
	if err != nil {
		return nil, &ShareError{Err: ErrZeroOutpoint}
	}
	return scalar, nil
}
