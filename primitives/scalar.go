// Package primitives wraps secp256k1 scalar and point arithmetic and the
// tagged-hash families BIP-352 needs, so the rest of this module never
// touches curve math directly.
package primitives

import (
	"github.com/btcsuite/btcd/btcec/v2"
)

// Scalar is a nonzero integer modulo the secp256k1 group order n.
// The zero value is not a valid Scalar; always construct one through
// NewScalar, Add, Negate or Mul.
type Scalar struct {
	inner btcec.ModNScalar
}

// NewScalar parses a big-endian 32-byte value as a Scalar, enforcing the
// invariant that a Scalar is nonzero and in range.
func NewScalar(b32 [32]byte) (*Scalar, error) {
	var s Scalar
	overflow := s.inner.SetBytes(&b32)
	if overflow != 0 {
		return nil, newCurveError(ErrInvalidScalar, b32[:])
	}
	if s.inner.IsZero() {
		return nil, newCurveError(ErrInvalidScalar, b32[:])
	}
	return &s, nil
}

// scalarFromModNScalar wraps an already-validated ModNScalar (e.g. one
// produced by TaggedHashScalar, which has already checked range and
// nonzero-ness) without re-running NewScalar's checks.
func scalarFromModNScalar(s btcec.ModNScalar) *Scalar {
	return &Scalar{inner: s}
}

// Add returns s + o mod n. The result may be zero; callers that require a
// nonzero Scalar (e.g. a private key) must check IsZero themselves - a
// zero result is a caller-visible outcome, not a panic.
func (s *Scalar) Add(o *Scalar) *Scalar {
	var r Scalar
	r.inner.Add2(&s.inner, &o.inner)
	return &r
}

// Negate returns -s mod n.
func (s *Scalar) Negate() *Scalar {
	r := Scalar{inner: s.inner}
	r.inner.Negate()
	return &r
}

// Mul returns s * o mod n.
func (s *Scalar) Mul(o *Scalar) *Scalar {
	var r Scalar
	r.inner.Mul2(&s.inner, &o.inner)
	return &r
}

// IsZero reports whether s is the additive identity.
func (s *Scalar) IsZero() bool {
	return s.inner.IsZero()
}

// Equal reports whether s and o represent the same residue mod n.
func (s *Scalar) Equal(o *Scalar) bool {
	return s.inner.Equals(&o.inner)
}

// Bytes serializes s as 32 big-endian bytes.
func (s *Scalar) Bytes() [32]byte {
	return s.inner.Bytes()
}

// ScalarBaseMul returns s*G, the public point corresponding to the private
// scalar s.
func ScalarBaseMul(s *Scalar) *Point {
	var res btcec.JacobianPoint
	btcec.ScalarBaseMultNonConst(&s.inner, &res)
	res.ToAffine()
	return &Point{pub: btcec.NewPublicKey(&res.X, &res.Y)}
}
