package detmath

// Vec3F is the float32 mirror of Vec3 for rendering and debugging. It is
// produced only by Vec3.Float32 and nothing converts it back; the float side
// carries no determinism guarantee.
type Vec3F struct {
	X, Y, Z float32
}

// Float32 converts componentwise through Unit.Float32.
func (v Vec3) Float32() Vec3F {
	return Vec3F{v.X.Float32(), v.Y.Float32(), v.Z.Float32()}
}
