// Package psbtsp reads and writes the silent-payment-specific
// proprietary PSBT fields and resolves them into final transaction
// outputs. Key/value layout and the Read/Write naming are grounded on
// guggero's upstream btcd proposal for silent-payment PSBT fields
// (ReadSilentPaymentShare / SerializeSilentPaymentShare), adapted from
// that proposal's fields to this package's three (SP_OUTPUT_CODE,
// SP_OUTPUT_AMOUNT, SP_ECDH_SHARE).
package psbtsp

import (
	"bytes"
	"encoding/binary"

	"github.com/btcsuite/btcd/btcutil/psbt"

	"github.com/bitcoindevkit/bdk-sp/primitives"
	"github.com/bitcoindevkit/bdk-sp/spcode"
)

// ProprietaryPrefix is the fixed 2-byte identifier for every proprietary
// key this package writes: the two ASCII bytes 0x73 0x70 ("sp").
var ProprietaryPrefix = []byte{0x73, 0x70} // "sp"

// Field discriminants, the third byte of every key this package writes.
const (
	KeyOutputCode   byte = 0x00
	KeyOutputAmount byte = 0x01
	KeyECDHShare    byte = 0x02
)

// codeValueLen is len(version || scan_pub || spend_pub).
const codeValueLen = 1 + 33 + 33

func fieldKey(discriminant byte) []byte {
	k := make([]byte, 0, len(ProprietaryPrefix)+1)
	k = append(k, ProprietaryPrefix...)
	k = append(k, discriminant)
	return k
}

func findUnknown(unknowns []*psbt.Unknown, discriminant byte) *psbt.Unknown {
	key := fieldKey(discriminant)
	for _, u := range unknowns {
		if bytes.Equal(u.Key, key) {
			return u
		}
	}
	return nil
}

func setUnknown(unknowns *[]*psbt.Unknown, discriminant byte, value []byte) {
	key := fieldKey(discriminant)
	for _, u := range *unknowns {
		if bytes.Equal(u.Key, key) {
			u.Value = value
			return
		}
	}
	*unknowns = append(*unknowns, &psbt.Unknown{Key: key, Value: value})
}

func removeUnknown(unknowns *[]*psbt.Unknown, discriminant byte) {
	key := fieldKey(discriminant)
	kept := (*unknowns)[:0]
	for _, u := range *unknowns {
		if !bytes.Equal(u.Key, key) {
			kept = append(kept, u)
		}
	}
	*unknowns = kept
}

// WriteOutputCode sets SP_OUTPUT_CODE on out to version || scan_pub ||
// spend_pub.
func WriteOutputCode(out *psbt.POutput, code spcode.SilentPaymentCode) error {
	value := make([]byte, 0, codeValueLen)
	value = append(value, code.Version)
	scanBytes := code.ScanPubKey.Compressed()
	spendBytes := code.SpendPubKey.Compressed()
	value = append(value, scanBytes[:]...)
	value = append(value, spendBytes[:]...)
	setUnknown(&out.Unknowns, KeyOutputCode, value)
	return nil
}

// ReadOutputCode reads SP_OUTPUT_CODE from out. The second return value
// is false when out carries no such field.
func ReadOutputCode(out *psbt.POutput) (*spcode.SilentPaymentCode, bool, error) {
	u := findUnknown(out.Unknowns, KeyOutputCode)
	if u == nil {
		return nil, false, nil
	}
	if len(u.Value) != codeValueLen {
		return nil, true, &PsbtError{Err: ErrMalformedField}
	}

	version := u.Value[0]
	scanPub, err := primitives.PointFromCompressed(u.Value[1:34])
	if err != nil {
		return nil, true, &PsbtError{Err: ErrMismatchedCode}
	}
	spendPub, err := primitives.PointFromCompressed(u.Value[34:67])
	if err != nil {
		return nil, true, &PsbtError{Err: ErrMismatchedCode}
	}

	return &spcode.SilentPaymentCode{
		Version:     version,
		ScanPubKey:  scanPub,
		SpendPubKey: spendPub,
	}, true, nil
}

// WriteOutputAmount sets SP_OUTPUT_AMOUNT, the little-endian u64 satoshi
// amount carried outside the unsigned output.
func WriteOutputAmount(out *psbt.POutput, amount uint64) error {
	value := make([]byte, 8)
	binary.LittleEndian.PutUint64(value, amount)
	setUnknown(&out.Unknowns, KeyOutputAmount, value)
	return nil
}

// ReadOutputAmount reads SP_OUTPUT_AMOUNT from out.
func ReadOutputAmount(out *psbt.POutput) (uint64, bool, error) {
	u := findUnknown(out.Unknowns, KeyOutputAmount)
	if u == nil {
		return 0, false, nil
	}
	if len(u.Value) != 8 {
		return 0, true, &PsbtError{Err: ErrMalformedField}
	}
	return binary.LittleEndian.Uint64(u.Value), true, nil
}

// WriteECDHShare sets SP_ECDH_SHARE on in to a signer's compressed
// per-input ECDH share.
func WriteECDHShare(in *psbt.PInput, share [33]byte) error {
	value := make([]byte, 33)
	copy(value, share[:])
	setUnknown(&in.Unknowns, KeyECDHShare, value)
	return nil
}

// ReadECDHShare reads SP_ECDH_SHARE from in.
func ReadECDHShare(in *psbt.PInput) ([33]byte, bool, error) {
	var out [33]byte
	u := findUnknown(in.Unknowns, KeyECDHShare)
	if u == nil {
		return out, false, nil
	}
	if len(u.Value) != 33 {
		return out, true, &PsbtError{Err: ErrMalformedField}
	}
	copy(out[:], u.Value)
	return out, true, nil
}

// stripFields removes all three proprietary fields from out's and in's
// Unknowns slices after resolution.
func stripOutputFields(out *psbt.POutput) {
	removeUnknown(&out.Unknowns, KeyOutputCode)
	removeUnknown(&out.Unknowns, KeyOutputAmount)
}

func stripInputFields(in *psbt.PInput) {
	removeUnknown(&in.Unknowns, KeyECDHShare)
}
