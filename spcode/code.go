// Package spcode implements Bech32m encoding and decoding of silent-payment
// codes per BIP-352.
package spcode

import (
	"strings"

	"github.com/btcsuite/btcd/btcutil/bech32"

	"github.com/bitcoindevkit/bdk-sp/primitives"
)

// CurrentVersion is the only version this implementation produces or
// accepts payload bytes for beyond the version byte itself: version 0 is
// the only version BIP-352 defines today, and higher versions are
// parseable but rejected on use.
const CurrentVersion = 0

// pubkeyPayloadLen is the serialized length of scan_pub(33) || spend_pub(33).
const pubkeyPayloadLen = 33 + 33

// SilentPaymentCode is a parsed (version, scan_pubkey, spend_pubkey, network)
// recipient identifier.
type SilentPaymentCode struct {
	Version    uint8
	ScanPubKey *primitives.Point
	SpendPubKey *primitives.Point
	Network    NetworkTag
}

// Encode renders a version-0 silent-payment code as Bech32m text.
func Encode(scanPub, spendPub *primitives.Point, network NetworkTag) (string, error) {
	hrp, ok := hrpForNetwork[network]
	if !ok {
		return "", &CodeError{Err: ErrHrp}
	}

	scanBytes := scanPub.Compressed()
	spendBytes := spendPub.Compressed()

	payload := make([]byte, 0, pubkeyPayloadLen)
	payload = append(payload, scanBytes[:]...)
	payload = append(payload, spendBytes[:]...)

	converted, err := bech32.ConvertBits(payload, 8, 5, true)
	if err != nil {
		return "", &CodeError{Err: ErrBech32}
	}

	data := make([]byte, 0, len(converted)+1)
	data = append(data, CurrentVersion)
	data = append(data, converted...)

	encoded, err := bech32.EncodeM(hrp, data)
	if err != nil {
		return "", &CodeError{Err: ErrBech32}
	}
	return encoded, nil
}

// Decode parses a Bech32m silent-payment code string.
//
// Decode is tolerant of all-uppercase or all-lowercase input (Bech32's own
// case-folding rule) but rejects mixed case, and rejects anything whose HRP
// is not one of {sp, sprt, tsp}. For version 0 the payload must be exactly
// 66 bytes (scan_pub || spend_pub); additional payload bytes are rejected.
// Versions above 0 are parsed structurally (HRP, checksum) but are not
// validated against the 66-byte length rule, and callers must reject them
// before using the result.
func Decode(s string) (*SilentPaymentCode, error) {
	if err := checkMixedCase(s); err != nil {
		return nil, err
	}

	hrp, data, version, err := bech32.DecodeGeneric(s)
	if err != nil {
		return nil, &CodeError{Err: ErrBech32, Source: s}
	}
	if version != bech32.VersionM {
		return nil, &CodeError{Err: ErrBech32, Source: s}
	}

	network, ok := networkForHRP[strings.ToLower(hrp)]
	if !ok {
		return nil, &CodeError{Err: ErrHrp, Source: hrp}
	}

	if len(data) == 0 {
		return nil, &CodeError{Err: ErrLength, Source: s}
	}
	spVersion := data[0]
	if spVersion > 31 {
		return nil, &CodeError{Err: ErrVersion, Source: s}
	}

	payload, err := bech32.ConvertBits(data[1:], 5, 8, false)
	if err != nil {
		return nil, &CodeError{Err: ErrBech32, Source: s}
	}

	if spVersion != CurrentVersion {
		// Higher versions are parseable (so a host can at least learn the
		// version and network) but this core only resolves version 0.
		return &SilentPaymentCode{
			Version: spVersion,
			Network: network,
		}, nil
	}

	if len(payload) != pubkeyPayloadLen {
		return nil, &CodeError{Err: ErrLength, Source: s}
	}

	scanPub, err := primitives.PointFromCompressed(payload[:33])
	if err != nil {
		return nil, &CodeError{Err: ErrInvalidScan, Source: s}
	}
	spendPub, err := primitives.PointFromCompressed(payload[33:])
	if err != nil {
		return nil, &CodeError{Err: ErrInvalidSpend, Source: s}
	}

	return &SilentPaymentCode{
		Version:     spVersion,
		ScanPubKey:  scanPub,
		SpendPubKey: spendPub,
		Network:     network,
	}, nil
}

func checkMixedCase(s string) error {
	hasUpper := strings.ToLower(s) != s
	hasLower := strings.ToUpper(s) != s
	if hasUpper && hasLower {
		return &CodeError{Err: ErrMixedCase, Source: s}
	}
	return nil
}
