package primitives

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
)

// Point is a non-identity secp256k1 group element.
type Point struct {
	pub *btcec.PublicKey
}

// PointFromCompressed parses a 33-byte SEC1-compressed point, rejecting the
// identity element and anything not on the curve.
func PointFromCompressed(b []byte) (*Point, error) {
	if len(b) != 33 {
		return nil, newCurveError(ErrInvalidPoint, b)
	}
	pub, err := btcec.ParsePubKey(b)
	if err != nil {
		return nil, newCurveError(ErrInvalidPoint, b)
	}
	return &Point{pub: pub}, nil
}

// PointFromXOnlyEven lifts a 32-byte x-only coordinate to the unique point
// with even Y, per BIP-340's lift_x.
func PointFromXOnlyEven(x [32]byte) (*Point, error) {
	pub, err := schnorr.ParsePubKey(x[:])
	if err != nil {
		return nil, newCurveError(ErrInvalidPoint, x[:])
	}
	return &Point{pub: pub}, nil
}

// Compressed serializes p as 33 SEC1-compressed bytes.
func (p *Point) Compressed() [33]byte {
	var out [33]byte
	copy(out[:], p.pub.SerializeCompressed())
	return out
}

// XOnly returns p's x-only (32-byte) coordinate and whether p's Y is odd.
func (p *Point) XOnly() (x [32]byte, odd bool) {
	b := p.pub.SerializeCompressed()
	copy(x[:], b[1:])
	odd = b[0] == 0x03
	return x, odd
}

// jacobian loads p into Jacobian coordinates for use with the AddNonConst /
// ScalarMultNonConst family.
func (p *Point) jacobian() btcec.JacobianPoint {
	var j btcec.JacobianPoint
	p.pub.AsJacobian(&j)
	return j
}

// pointFromJacobian converts an affine-reducible Jacobian point back into a
// Point, reporting CurveError::Identity if the point is at infinity. The Z
// coordinate must be checked for zero BEFORE calling ToAffine: dividing by a
// zero Z does not itself panic but silently yields (0,0), which would
// otherwise be mistaken for a valid point.
func pointFromJacobian(j *btcec.JacobianPoint) (*Point, error) {
	if j.Z.IsZero() {
		return nil, newCurveError(ErrIdentity, nil)
	}
	j.ToAffine()
	return &Point{pub: btcec.NewPublicKey(&j.X, &j.Y)}, nil
}

// Add returns p + o, or CurveError::Identity if the points cancel.
func (p *Point) Add(o *Point) (*Point, error) {
	j1, j2 := p.jacobian(), o.jacobian()
	var sum btcec.JacobianPoint
	btcec.AddNonConst(&j1, &j2, &sum)
	return pointFromJacobian(&sum)
}

// Negate returns -p.
func (p *Point) Negate() *Point {
	j := p.jacobian()
	j.ToAffine()
	j.Y.Negate(1)
	j.Y.Normalize()
	return &Point{pub: btcec.NewPublicKey(&j.X, &j.Y)}
}

// Mul returns s*p, or CurveError::Identity if s is zero relative to p's
// order (which cannot happen for a well-formed nonzero Scalar, but is
// checked defensively since Mul is on the hot path for shared secrets).
func (p *Point) Mul(s *Scalar) (*Point, error) {
	j := p.jacobian()
	var res btcec.JacobianPoint
	btcec.ScalarMultNonConst(&s.inner, &j, &res)
	return pointFromJacobian(&res)
}

// Equal reports whether p and o are the same point.
func (p *Point) Equal(o *Point) bool {
	return p.pub.IsEqual(o.pub)
}
