package sharedsecret

import "github.com/bitcoindevkit/bdk-sp/primitives"

// SenderSecret computes S = (a_sum * outpoint_hash) * B_scan, the ECDH
// point a sender derives against one recipient's scan pubkey. Callers
// that serve several recipients should compute ecdhSecret = a_sum *
// outpoint_hash once (EcdhScalar) and call Multiply per recipient to
// reuse it.
func SenderSecret(sum *InputSum, recipientScan *primitives.Point) (*primitives.Point, error) {
	if sum.PrivSum == nil {
		return nil, &ShareError{Err: ErrNoInputs}
	}
	ecdhScalar := EcdhScalar(sum)
	return recipientScan.Mul(ecdhScalar)
}

// EcdhScalar returns a_sum * outpoint_hash, the scalar a sender
// multiplies into every recipient's scan pubkey in turn.
func EcdhScalar(sum *InputSum) *primitives.Scalar {
	return sum.PrivSum.Mul(sum.OutpointHash)
}

// ReceiverSecret computes S = (b_scan * outpoint_hash) * A_sum, the
// same ECDH point from the receiving side.
func ReceiverSecret(scanPriv *primitives.Scalar, sum *InputSum) (*primitives.Point, error) {
	scalar := scanPriv.Mul(sum.OutpointHash)
	return sum.PubSum.Mul(scalar)
}
