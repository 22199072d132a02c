package geom

import (
	"math"
	"testing"
)

func TestVector3(t *testing.T) {
	a := &Vector3{X: 1, Y: 2, Z: 3}
	b := &Vector3{X: 4, Y: 5, Z: 6}

	if v := a.Add(b); v.Sub(&Vector3{X: 5, Y: 7, Z: 9}).Len() > eps {
		t.Error("add: ", v)
	}
	if d := a.Dot(b); d != 32 {
		t.Error("dot: ", d)
	}
	if v := a.Cross(b); v.Sub(&Vector3{X: -3, Y: 6, Z: -3}).Len() > eps {
		t.Error("cross: ", v)
	}
	if v := a.Scale(2); v.Sub(&Vector3{X: 2, Y: 4, Z: 6}).Len() > eps {
		t.Error("scale: ", v)
	}
}

func TestVector3Normalize(t *testing.T) {
	v := &Vector3{X: 3, Y: 0, Z: 4}
	v.Normalize()
	if math.Abs(v.Len()-1) > eps {
		t.Error("len: ", v.Len())
	}
	// Zero vectors normalize to the X axis instead of NaN.
	z := &Vector3{}
	z.Normalize()
	if z.X != 1 || z.Y != 0 || z.Z != 0 {
		t.Error("zero: ", z)
	}
}

func TestVector2(t *testing.T) {
	a := &Vector2{X: 3, Y: 4}
	if a.LenSqr() != 25 {
		t.Error("lensqr: ", a.LenSqr())
	}
	if v := a.Sub(&Vector2{X: 1, Y: 1}); v.X != 2 || v.Y != 3 {
		t.Error("sub: ", v)
	}
}
