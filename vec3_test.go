package detmath

import (
	"errors"
	"testing"
)

// v3i builds a vector from integer components.
func v3i(x, y, z int32) Vec3 {
	return V3(FromInt(x), FromInt(y), FromInt(z))
}

// TestV3Equality verifies construction and exact per-axis equality.
func TestV3Equality(t *testing.T) {
	v := v3i(1, 2, 3)
	if v != v3i(1, 2, 3) {
		t.Error("Expected identically constructed vectors to compare equal")
	}
	if v == v3i(1, 2, 4) {
		t.Error("Expected vectors differing in one axis to compare unequal")
	}
	if w := v3i(1, 2, 3); !(v == w && w == v) {
		t.Error("Expected equality to be symmetric")
	}
	// One raw step apart is unequal; there is no tolerance.
	if V3(FromRaw(Scale), FromInt(2), FromInt(3)) == V3(FromRaw(Scale+1), FromInt(2), FromInt(3)) {
		t.Error("Expected raw-exact equality")
	}
}

// TestV3AddSub ports the reference vector addition cases and the exact
// round-trip law (v1+v2)-v2 == v1.
func TestV3AddSub(t *testing.T) {
	v1 := v3i(1, 2, 3)
	v2 := v3i(4, 5, 6)
	sum := v1.Add(v2)
	if sum != v3i(5, 7, 9) {
		t.Errorf("Expected (5,7,9), got (%v,%v,%v)", sum.X, sum.Y, sum.Z)
	}
	if diff := sum.Sub(v2); diff != v1 {
		t.Errorf("Expected subtraction to invert addition, got (%v,%v,%v)", diff.X, diff.Y, diff.Z)
	}
}

// TestV3Compound checks compound use as value reassignment.
func TestV3Compound(t *testing.T) {
	v := v3i(1, 2, 3)
	v = v.Add(v3i(1, 1, 1))
	if v != v3i(2, 3, 4) {
		t.Errorf("Expected (2,3,4), got (%v,%v,%v)", v.X, v.Y, v.Z)
	}
	v = v.Sub(v3i(1, 1, 1))
	if v != v3i(1, 2, 3) {
		t.Errorf("Expected (1,2,3), got (%v,%v,%v)", v.X, v.Y, v.Z)
	}
}

// TestV3ScalarBroadcast checks scalar addition and subtraction against all
// axes.
func TestV3ScalarBroadcast(t *testing.T) {
	v := v3i(1, 2, 3)
	delta := FromInt(2)
	vPlus := v.AddScalar(delta)
	if vPlus != v3i(3, 4, 5) {
		t.Errorf("Expected (3,4,5), got (%v,%v,%v)", vPlus.X, vPlus.Y, vPlus.Z)
	}
	if vMinus := vPlus.SubScalar(delta); vMinus != v {
		t.Errorf("Expected the broadcast to round-trip, got (%v,%v,%v)", vMinus.X, vMinus.Y, vMinus.Z)
	}
}

// TestV3Mul checks elementwise and scalar multiplication, and that the
// broadcast form equals per-axis scalar Mul.
func TestV3Mul(t *testing.T) {
	v1 := v3i(1, 2, 3)
	v2 := v3i(4, 5, 6)
	if prod := v1.Mul(v2); prod != v3i(4, 10, 18) {
		t.Errorf("Expected (4,10,18), got (%v,%v,%v)", prod.X, prod.Y, prod.Z)
	}

	s := FromInt(3)
	prod := v1.MulScalar(s)
	if prod != v3i(3, 6, 9) {
		t.Errorf("Expected (3,6,9), got (%v,%v,%v)", prod.X, prod.Y, prod.Z)
	}
	want := V3(v1.X.Mul(s), v1.Y.Mul(s), v1.Z.Mul(s))
	if prod != want {
		t.Error("Expected MulScalar to match per-axis Mul exactly")
	}
}

// TestV3Div checks elementwise and scalar division with their error paths.
func TestV3Div(t *testing.T) {
	q, err := v3i(4, 10, 18).Div(v3i(4, 5, 6))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if q != v3i(1, 2, 3) {
		t.Errorf("Expected (1,2,3), got (%v,%v,%v)", q.X, q.Y, q.Z)
	}

	q, err = v3i(3, 6, 9).DivScalar(FromInt(3))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if q != v3i(1, 2, 3) {
		t.Errorf("Expected (1,2,3), got (%v,%v,%v)", q.X, q.Y, q.Z)
	}

	// A single zero component poisons the whole vector divide.
	for _, div := range []Vec3{v3i(0, 5, 6), v3i(4, 0, 6), v3i(4, 5, 0)} {
		q, err := v3i(1, 2, 3).Div(div)
		if !errors.Is(err, ErrDivisionByZero) {
			t.Errorf("Expected ErrDivisionByZero for divisor (%v,%v,%v), got %v", div.X, div.Y, div.Z, err)
		}
		if q != (Vec3{}) {
			t.Error("Expected zero vector alongside the error")
		}
	}
	if _, err := v3i(1, 2, 3).DivScalar(FromInt(0)); !errors.Is(err, ErrDivisionByZero) {
		t.Errorf("Expected ErrDivisionByZero for scalar zero, got %v", err)
	}
}

// TestV3Dot ports the reference dot product case.
func TestV3Dot(t *testing.T) {
	if dot := v3i(1, 2, 3).Dot(v3i(4, 5, 6)); dot != FromInt(32) {
		t.Errorf("Expected dot product 32, got %v", dot)
	}
}

// TestV3Float32 checks the componentwise debug mirror.
func TestV3Float32(t *testing.T) {
	vf := v3i(3, 4, 5).Float32()
	if !closeEnough(vf.X, 3.0) || !closeEnough(vf.Y, 4.0) || !closeEnough(vf.Z, 5.0) {
		t.Errorf("Expected (3,4,5), got (%v,%v,%v)", vf.X, vf.Y, vf.Z)
	}
}
