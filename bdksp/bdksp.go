// Package bdksp re-exports this module's host-facing operations so a
// caller can depend on one import path instead of wiring primitives,
// spcode, keyderiv, sharedsecret, sender, scanner and psbtsp by hand.
// Every type here is an alias for the component package's own type;
// nothing is reimplemented.
package bdksp

import (
	"github.com/bitcoindevkit/bdk-sp/keyderiv"
	"github.com/bitcoindevkit/bdk-sp/primitives"
	"github.com/bitcoindevkit/bdk-sp/scanner"
	"github.com/bitcoindevkit/bdk-sp/sender"
	"github.com/bitcoindevkit/bdk-sp/sharedsecret"
	"github.com/bitcoindevkit/bdk-sp/spcode"
)

type (
	NetworkTag        = spcode.NetworkTag
	SilentPaymentCode = spcode.SilentPaymentCode
	Scalar            = primitives.Scalar
	Point             = primitives.Point
	LabelTweak        = keyderiv.LabelTweak
	InputSum          = sharedsecret.InputSum
	InputWithKey      = sharedsecret.InputWithKey
	Recipient         = sender.Recipient
	Output            = sender.Output
	Owned             = scanner.Owned
	LabelTable        = scanner.LabelTable
	LabelEntry        = scanner.LabelEntry
)

const (
	Mainnet         = spcode.Mainnet
	TestnetOrSignet = spcode.TestnetOrSignet
	Regtest         = spcode.Regtest
)

// CodeEncode Bech32m-encodes a silent-payment code from its scan and
// spend pubkeys.
func CodeEncode(scanPub, spendPub *Point, network NetworkTag) (string, error) {
	return spcode.Encode(scanPub, spendPub, network)
}

// CodeDecode parses a Bech32m-encoded silent-payment code.
func CodeDecode(s string) (*SilentPaymentCode, error) {
	return spcode.Decode(s)
}

// LabelledCode derives the label tweak for m and returns a code whose
// spend pubkey is code's spend pubkey offset by that tweak; the scan
// pubkey, and therefore the ECDH the sender performs against it, is
// unchanged.
func LabelledCode(code SilentPaymentCode, scanPriv *Scalar, m uint32) (*SilentPaymentCode, error) {
	label, err := keyderiv.DeriveLabel(scanPriv, m)
	if err != nil {
		return nil, err
	}
	labelledSpend, err := keyderiv.LabelledSpendPubKey(code.SpendPubKey, label)
	if err != nil {
		return nil, err
	}
	return &SilentPaymentCode{
		Version:     code.Version,
		ScanPubKey:  code.ScanPubKey,
		SpendPubKey: labelledSpend,
		Network:     code.Network,
	}, nil
}

// LabelTweakOf derives the scalar tweak for label m without constructing
// a full labelled code.
func LabelTweakOf(scanPriv *Scalar, m uint32) (*Scalar, error) {
	label, err := keyderiv.DeriveLabel(scanPriv, m)
	if err != nil {
		return nil, err
	}
	return label.Tweak, nil
}

// InputSumOf classifies inputs and computes their combined public (and,
// when every private key is supplied, private) silent-payment key.
func InputSumOf(inputs []InputWithKey) (*InputSum, error) {
	return sharedsecret.ComputeInputSum(inputs)
}

// SenderOutputs derives the destination taproot output for each
// recipient, grouping recipients that share a silent-payment code.
func SenderOutputs(sum *InputSum, recipients []Recipient) ([]Output, error) {
	return sender.Outputs(sum, recipients)
}

// ScanTx recovers the outputs in a transaction that belong to the
// wallet owning bScan/bSpend.
func ScanTx(bScan *Scalar, bSpend *Point, sum *InputSum, outputs [][32]byte, labels *LabelTable) ([]Owned, error) {
	return scanner.Scan(bScan, bSpend, sum, outputs, labels)
}

// NewLabelTable returns an empty label table.
func NewLabelTable() *LabelTable {
	return scanner.NewLabelTable()
}
