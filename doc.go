// Package detmath implements deterministic Q17.15 fixed-point arithmetic:
// a 32-bit scalar type and a 3-component vector built on top of it.
//
// Every operation is integer-only and produces bit-identical results on any
// platform, compiler, and architecture, which float32/float64 cannot
// guarantee under differing rounding and extended-precision behavior. The
// package exists to be the numeric core of lockstep or replay-based
// simulations where peers must agree on every bit of state.
//
// Unit is a value type: operations return new values, and compound updates
// are plain reassignment (u = u.Add(v)). Construction is explicit and
// two-path: FromInt scales an integer, FromRaw wraps an existing raw
// encoding. The two are never interchangeable; keeping them apart is what
// keeps raw constants like Scale from silently becoming 32768.0.
//
// Float32 and Vec3.Float32 convert to floating point for rendering and
// debugging only. The conversion is one-way; no float ever feeds back into
// a Unit or Vec3, and no determinism guarantee covers the float side.
//
// Overflow is not checked anywhere: scaled construction and arithmetic wrap
// per two's complement, the same precision ceiling a native fixed-width
// implementation has.
package detmath
