// Package sender implements the sender side of silent payments: given the
// sum of the spent inputs and a list of recipients, it derives the exact
// taproot output keys each recipient will later discover while scanning.
package sender

import (
	"encoding/binary"

	"github.com/bitcoindevkit/bdk-sp/primitives"
	"github.com/bitcoindevkit/bdk-sp/sharedsecret"
	"github.com/bitcoindevkit/bdk-sp/spcode"
)

// Recipient pairs a silent-payment code with the amount the sender wants
// to pay it.
type Recipient struct {
	Code   spcode.SilentPaymentCode
	Amount int64
}

// Output is one derived taproot destination: an x-only pubkey and the
// amount it carries.
type Output struct {
	XOnlyPubKey [32]byte
	Amount      int64
}

// codeKey is the full (scan_pubkey, spend_pubkey) pair used to group
// recipients: if two different recipient codes share a scan pubkey but
// differ in spend pubkey, they remain separate groups.
type codeKey [66]byte

func keyOf(code *spcode.SilentPaymentCode) codeKey {
	var k codeKey
	scan := code.ScanPubKey.Compressed()
	spend := code.SpendPubKey.Compressed()
	copy(k[:33], scan[:])
	copy(k[33:], spend[:])
	return k
}

// Outputs groups recipients by silent-payment code, deriving one shared
// ECDH point per group and assigning contiguous k's within it in request
// order; groups are emitted in first-appearance order and recipients
// within a group in request order. Recipients whose codes name different
// networks are rejected, since mixing them into one transaction would
// silently pay a destination meant for a different chain.
func Outputs(sum *sharedsecret.InputSum, recipients []Recipient) ([]Output, error) {
	if len(recipients) == 0 {
		return nil, nil
	}
	if sum.PrivSum == nil {
		return nil, &SenderError{Err: ErrNoPrivateSum}
	}

	network := recipients[0].Code.Network
	for _, r := range recipients[1:] {
		if r.Code.Network != network {
			return nil, &SenderError{Err: sharedsecret.ErrWrongNetwork}
		}
	}

	ecdhScalar := sharedsecret.EcdhScalar(sum)

	type group struct {
		key        codeKey
		spendPub   *primitives.Point
		scanPub    *primitives.Point
		recipients []Recipient
	}

	order := make([]codeKey, 0, len(recipients))
	groups := make(map[codeKey]*group, len(recipients))
	// scanCache avoids recomputing scan_pub * ecdhScalar for recipients
	// that share a scan pubkey but differ in spend pubkey.
	scanCache := make(map[[33]byte]*primitives.Point)

	for _, r := range recipients {
		k := keyOf(&r.Code)
		g, ok := groups[k]
		if !ok {
			g = &group{key: k, spendPub: r.Code.SpendPubKey, scanPub: r.Code.ScanPubKey}
			groups[k] = g
			order = append(order, k)
		}
		g.recipients = append(g.recipients, r)
	}

	outputs := make([]Output, 0, len(recipients))
	for _, k := range order {
		g := groups[k]

		scanKey := g.scanPub.Compressed()
		ecdh, ok := scanCache[scanKey]
		if !ok {
			var err error
			ecdh, err = g.scanPub.Mul(ecdhScalar)
			if err != nil {
				return nil, &SenderError{Err: err}
			}
			scanCache[scanKey] = ecdh
		}
		ecdhCompressed := ecdh.Compressed()

		for i, r := range g.recipients {
			var kBytes [4]byte
			binary.BigEndian.PutUint32(kBytes[:], uint32(i))

			tweak, err := primitives.TaggedHashScalar(primitives.TagSharedSecret, ecdhCompressed[:], kBytes[:])
			if err != nil {
				return nil, &SenderError{Err: err}
			}

			tweakPoint := primitives.ScalarBaseMul(tweak)
			outPub, err := g.spendPub.Add(tweakPoint)
			if err != nil {
				return nil, &SenderError{Err: err}
			}

			xonly, _ := outPub.XOnly()
			outputs = append(outputs, Output{XOnlyPubKey: xonly, Amount: r.Amount})
		}
	}

	return outputs, nil
}
