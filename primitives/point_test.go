package primitives

import (
	"bytes"
	"testing"
)

func generatorScalar(v byte) *Scalar {
	var b [32]byte
	b[31] = v
	s, err := NewScalar(b)
	if err != nil {
		panic(err)
	}
	return s
}

func TestPointAddMatchesScalarAddition(t *testing.T) {
	two := ScalarBaseMul(generatorScalar(2))
	three := ScalarBaseMul(generatorScalar(3))
	five := ScalarBaseMul(generatorScalar(5))

	sum, err := two.Add(three)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if !sum.Equal(five) {
		t.Fatalf("2G + 3G != 5G")
	}
}

func TestPointAddIdentityFails(t *testing.T) {
	g := ScalarBaseMul(generatorScalar(1))
	negG := g.Negate()

	if _, err := g.Add(negG); err == nil {
		t.Fatal("expected identity error from P + (-P)")
	}
}

func TestPointNegateRoundTrip(t *testing.T) {
	g := ScalarBaseMul(generatorScalar(1))
	negG := g.Negate()
	back := negG.Negate()
	if !back.Equal(g) {
		t.Fatal("double negation should return original point")
	}
}

func TestPointFromCompressedRoundTrip(t *testing.T) {
	g := ScalarBaseMul(generatorScalar(7))
	c := g.Compressed()

	p, err := PointFromCompressed(c[:])
	if err != nil {
		t.Fatalf("PointFromCompressed: %v", err)
	}
	if !p.Equal(g) {
		t.Fatal("round-trip through compressed bytes changed the point")
	}
}

func TestPointFromXOnlyEvenIsAlwaysEven(t *testing.T) {
	g := ScalarBaseMul(generatorScalar(3))
	x, _ := g.XOnly()

	p, err := PointFromXOnlyEven(x)
	if err != nil {
		t.Fatalf("PointFromXOnlyEven: %v", err)
	}
	c := p.Compressed()
	if c[0] != 0x02 {
		t.Fatalf("lifted point should have even Y, got prefix %x", c[0])
	}
}

func TestPointMulDistributesOverScalar(t *testing.T) {
	g := ScalarBaseMul(generatorScalar(1))
	six := generatorScalar(6)

	lhs, err := g.Mul(six)
	if err != nil {
		t.Fatalf("Mul: %v", err)
	}
	rhs := ScalarBaseMul(generatorScalar(6))
	if !lhs.Equal(rhs) {
		t.Fatal("(1*G)*6 != 6*G")
	}
}

func TestPointFromCompressedRejectsBadLength(t *testing.T) {
	if _, err := PointFromCompressed(bytes.Repeat([]byte{0}, 32)); err == nil {
		t.Fatal("expected error for 32-byte input")
	}
}
