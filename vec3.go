package detmath

// Vec3 is a 3-component fixed-point vector. Pure composition over Unit:
// every operation applies the scalar operation per axis, so Unit rounding
// carries through componentwise. Vec3 values compare with == exactly (per
// axis raw equality, no tolerance) and copy by value; compound updates are
// reassignment (v = v.Add(w)).
type Vec3 struct {
	X, Y, Z Unit
}

// V3 builds a vector from three scalars.
func V3(x, y, z Unit) Vec3 { return Vec3{x, y, z} }

// --- Componentwise ---

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X.Add(o.X), v.Y.Add(o.Y), v.Z.Add(o.Z)} }
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X.Sub(o.X), v.Y.Sub(o.Y), v.Z.Sub(o.Z)} }
func (v Vec3) Mul(o Vec3) Vec3 { return Vec3{v.X.Mul(o.X), v.Y.Mul(o.Y), v.Z.Mul(o.Z)} }

// Div divides per axis. Any zero raw component in o fails the whole vector
// with ErrDivisionByZero.
func (v Vec3) Div(o Vec3) (Vec3, error) {
	x, err := v.X.Div(o.X)
	if err != nil {
		return Vec3{}, err
	}
	y, err := v.Y.Div(o.Y)
	if err != nil {
		return Vec3{}, err
	}
	z, err := v.Z.Div(o.Z)
	if err != nil {
		return Vec3{}, err
	}
	return Vec3{x, y, z}, nil
}

// --- Scalar broadcast ---

func (v Vec3) AddScalar(s Unit) Vec3 { return Vec3{v.X.Add(s), v.Y.Add(s), v.Z.Add(s)} }
func (v Vec3) SubScalar(s Unit) Vec3 { return Vec3{v.X.Sub(s), v.Y.Sub(s), v.Z.Sub(s)} }
func (v Vec3) MulScalar(s Unit) Vec3 { return Vec3{v.X.Mul(s), v.Y.Mul(s), v.Z.Mul(s)} }

// DivScalar divides every axis by s, or fails with ErrDivisionByZero when s
// has a zero raw encoding.
func (v Vec3) DivScalar(s Unit) (Vec3, error) {
	if s.raw == 0 {
		return Vec3{}, ErrDivisionByZero
	}
	return Vec3{
		FromRaw(divRaw(v.X.raw, s.raw)),
		FromRaw(divRaw(v.Y.raw, s.raw)),
		FromRaw(divRaw(v.Z.raw, s.raw)),
	}, nil
}

// Dot returns x1*x2 + y1*y2 + z1*z2 through Unit Mul and Add, two additions
// and three multiplications with no wider intermediate. The compounded
// rounding is part of the deterministic contract.
func (v Vec3) Dot(o Vec3) Unit {
	return v.X.Mul(o.X).Add(v.Y.Mul(o.Y)).Add(v.Z.Mul(o.Z))
}
