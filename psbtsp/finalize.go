package psbtsp

import (
	"github.com/btcsuite/btcd/btcutil/psbt"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"

	"github.com/bitcoindevkit/bdk-sp/primitives"
	"github.com/bitcoindevkit/bdk-sp/sender"
	"github.com/bitcoindevkit/bdk-sp/sharedsecret"
	"github.com/bitcoindevkit/bdk-sp/spcode"
)

// pendingOutput is a transaction-output index paired with the recipient
// request its SP_OUTPUT_CODE/SP_OUTPUT_AMOUNT fields decoded to.
type pendingOutput struct {
	index     int
	recipient sender.Recipient
}

// Finalize walks every per-output SP_OUTPUT_CODE entry, groups
// recipients exactly as sender.Outputs does, computes each destination
// output, rewrites tx.TxOut[i].PkScript in place while preserving output
// order, and strips the resolved proprietary fields afterward. outs must
// be the POutput slice belonging to tx (same length, same index order);
// outputs that carry no SP_OUTPUT_CODE field are left untouched.
func Finalize(tx *wire.MsgTx, outs []*psbt.POutput, sum *sharedsecret.InputSum) error {
	if len(outs) != len(tx.TxOut) {
		return &PsbtError{Err: ErrMalformedField}
	}

	var work []pendingOutput
	for i, out := range outs {
		code, present, err := ReadOutputCode(out)
		if err != nil {
			return err
		}
		if !present {
			continue
		}
		if code.Version != spcode.CurrentVersion {
			return &PsbtError{Err: ErrMismatchedCode}
		}

		amount, hasAmount, err := ReadOutputAmount(out)
		if err != nil {
			return err
		}
		if !hasAmount {
			if tx.TxOut[i].Value <= 0 {
				return &PsbtError{Err: ErrMissingAmount}
			}
			amount = uint64(tx.TxOut[i].Value)
		}

		work = append(work, pendingOutput{
			index:     i,
			recipient: sender.Recipient{Code: *code, Amount: int64(amount)},
		})
	}

	if len(work) == 0 {
		return nil
	}

	recipients := make([]sender.Recipient, len(work))
	for i, w := range work {
		recipients[i] = w.recipient
	}

	derived, err := sender.Outputs(sum, recipients)
	if err != nil {
		return err
	}
	if len(derived) != len(work) {
		return &PsbtError{Err: ErrMalformedField}
	}

	for i, w := range work {
		script, err := payToTaprootScript(derived[i].XOnlyPubKey)
		if err != nil {
			return &PsbtError{Err: err}
		}
		tx.TxOut[w.index].PkScript = script
		tx.TxOut[w.index].Value = derived[i].Amount
		stripOutputFields(outs[w.index])
	}

	return nil
}

// payToTaprootScript builds OP_1 <32-byte x-only pubkey>, the same
// scriptPubKey shape sharedsecret.isTaprootKeyPath recognizes on the
// way back in.
func payToTaprootScript(xonly [32]byte) ([]byte, error) {
	return txscript.NewScriptBuilder().
		AddOp(txscript.OP_1).
		AddData(xonly[:]).
		Script()
}

// SumECDHShares sums every input's SP_ECDH_SHARE into one compressed
// point, the receiver-side counterpart of a cooperative-signing flow
// where each signer contributes its own input's ECDH share rather than
// exposing its private key. Inputs without a share are skipped; the
// summed-over fields are stripped once consumed, the same way Finalize
// strips resolved output fields.
func SumECDHShares(ins []*psbt.PInput) (*primitives.Point, error) {
	var sum *primitives.Point
	for _, in := range ins {
		share, present, err := ReadECDHShare(in)
		if err != nil {
			return nil, err
		}
		if !present {
			continue
		}

		point, err := primitives.PointFromCompressed(share[:])
		if err != nil {
			return nil, &PsbtError{Err: ErrMalformedField}
		}
		if sum == nil {
			sum = point
		} else {
			sum, err = sum.Add(point)
			if err != nil {
				return nil, &PsbtError{Err: ErrMalformedField}
			}
		}
		stripInputFields(in)
	}
	if sum == nil {
		return nil, &PsbtError{Err: ErrMalformedField}
	}
	return sum, nil
}
