// Package sharedsecret computes the input-sum keys, outpoint hash, and
// ECDH shared secret both the sender and the receiver need to agree on
// bit-for-bit. Classification follows the same prevout-script prefix
// inspection guggero's btcd PSBT patch encodes in its
// SilentPaymentDummyP2TROutput constant: OP_1 OP_DATA_32 identifies a
// taproot output/input, and the remaining kinds fall out of the
// standard txscript script-class checks.
package sharedsecret

import (
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"

	"github.com/bitcoindevkit/bdk-sp/primitives"
)

// InputKind is the classification of a transaction input's prevout
// script for silent-payment input-sum purposes.
type InputKind int

const (
	Other InputKind = iota
	P2PKH
	P2SHP2WPKH
	P2WPKH
	P2TRKeyPath
)

// Input is the minimal view of a signed transaction input this package
// needs: the outpoint it spends, the prevout's scriptPubKey, and
// whatever spending material (sigScript/witness) carries the pubkey.
type Input struct {
	Outpoint      wire.OutPoint
	PrevoutScript []byte
	ScriptSig     []byte
	Witness       wire.TxWitness
}

// Classify returns the silent-payment input kind for in's prevout
// script. Only P2PKH, P2SH-P2WPKH, P2WPKH and P2TR-key-path
// contribute to the input sum; everything else is Other.
func Classify(in *Input) InputKind {
	switch {
	case txscript.IsPayToPubKeyHash(in.PrevoutScript):
		return P2PKH
	case txscript.IsPayToWitnessPubKeyHash(in.PrevoutScript):
		return P2WPKH
	case isTaprootKeyPath(in.PrevoutScript):
		return P2TRKeyPath
	case txscript.IsPayToScriptHash(in.PrevoutScript) && wrapsWitnessPubKeyHash(in):
		return P2SHP2WPKH
	default:
		return Other
	}
}

// isTaprootKeyPath recognizes a witness v1, 32-byte-program output:
// OP_1 OP_DATA_32 <32 bytes>, the same shape guggero's
// SilentPaymentDummyP2TROutput constant encodes.
func isTaprootKeyPath(script []byte) bool {
	return len(script) == 34 &&
		script[0] == txscript.OP_1 &&
		script[1] == txscript.OP_DATA_32
}

// wrapsWitnessPubKeyHash reports whether a P2SH input's redeem script
// (the sole data push in its sigScript) is itself a P2WPKH script.
func wrapsWitnessPubKeyHash(in *Input) bool {
	pushes, err := txscript.PushedData(in.ScriptSig)
	if err != nil || len(pushes) == 0 {
		return false
	}
	redeem := pushes[len(pushes)-1]
	return txscript.IsPayToWitnessPubKeyHash(redeem)
}

// ExtractPubKey recovers the contributing public key for a classified
// input, applying the parity adjustment BIP-352 requires: P2TR inputs
// use their x-only pubkey lifted to the even-parity point, the other
// three kinds use the full compressed pubkey carried in their witness
// or sigScript.
func ExtractPubKey(in *Input, kind InputKind) (*primitives.Point, error) {
	switch kind {
	case P2PKH:
		pushes, err := txscript.PushedData(in.ScriptSig)
		if err != nil || len(pushes) == 0 {
			return nil, ErrMissingPubkey
		}
		return primitives.PointFromCompressed(pushes[len(pushes)-1])

	case P2WPKH, P2SHP2WPKH:
		if len(in.Witness) < 2 {
			return nil, ErrMissingPubkey
		}
		return primitives.PointFromCompressed(in.Witness[len(in.Witness)-1])

	case P2TRKeyPath:
		var xonly [32]byte
		copy(xonly[:], in.PrevoutScript[2:34])
		return primitives.PointFromXOnlyEven(xonly)

	default:
		return nil, ErrMissingPubkey
	}
}
