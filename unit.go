package detmath

import (
	"errors"
	"strconv"
)

// Q17.15 fixed point constants
const (
	Shift     = 15
	Scale     = 1 << Shift       // raw encoding of 1.0
	Mask      = Scale - 1        // fractional bits
	HalfScale = 1 << (Shift - 1) // raw encoding of 0.5
)

// Sentinel errors
var (
	ErrDivisionByZero = errors.New("division by zero")
	ErrNegativeSqrt   = errors.New("square root of negative number")
)

// Unit is a Q17.15 fixed-point scalar: one signed 32-bit raw value read as
// raw/Scale. The zero value is 0.0. Units compare with == and copy by value.
type Unit struct {
	raw int32
}

// --- Construction ---

// FromInt returns the Unit for the integer n (raw = n*Scale, wrapping
// silently past the representable range).
func FromInt(n int32) Unit { return Unit{n * Scale} }

// FromRaw wraps a raw encoding as-is, without scaling.
func FromRaw(raw int32) Unit { return Unit{raw} }

// Raw returns the raw encoding.
func (u Unit) Raw() int32 { return u.raw }

// --- Comparison ---

// Ordering compares raw encodings directly; both operands share one scale.
func (u Unit) Lt(v Unit) bool  { return u.raw < v.raw }
func (u Unit) Lte(v Unit) bool { return u.raw <= v.raw }
func (u Unit) Gt(v Unit) bool  { return u.raw > v.raw }
func (u Unit) Gte(v Unit) bool { return u.raw >= v.raw }

// Raw-threshold ordering compares the raw encoding against r WITHOUT scaling
// it, so FromInt(2).GtRaw(2) is true (raw 65536 > 2). Use only against raw
// constants such as Scale or HalfScale; for logical integers scale with
// FromInt and compare Unit to Unit.
func (u Unit) LtRaw(r int32) bool  { return u.raw < r }
func (u Unit) LteRaw(r int32) bool { return u.raw <= r }
func (u Unit) GtRaw(r int32) bool  { return u.raw > r }
func (u Unit) GteRaw(r int32) bool { return u.raw >= r }

// --- Arithmetic ---

// Same-scale operations act on raw encodings directly.
func (u Unit) Neg() Unit       { return Unit{-u.raw} }
func (u Unit) Add(v Unit) Unit { return Unit{u.raw + v.raw} }
func (u Unit) Sub(v Unit) Unit { return Unit{u.raw - v.raw} }

// Mul returns u*v rounded to nearest. The HalfScale bias is added before the
// divide regardless of product sign, so ties and negative products land
// toward +inf. The divide must truncate: a shift would floor negative
// intermediates and change the result by one raw step.
func (u Unit) Mul(v Unit) Unit {
	return Unit{int32((int64(u.raw)*int64(v.raw) + HalfScale) / Scale)}
}

// Div returns u/v rounded to nearest, or ErrDivisionByZero when v has a zero
// raw encoding. The dividend is widened and pre-scaled, then biased by half
// the divisor magnitude in the divisor's direction before the truncating
// divide.
func (u Unit) Div(v Unit) (Unit, error) {
	if v.raw == 0 {
		return Unit{}, ErrDivisionByZero
	}
	return Unit{divRaw(u.raw, v.raw)}, nil
}

// divRaw is Div without the zero check, for divisors that are provably
// nonzero.
func divRaw(a, b int32) int32 {
	num := int64(a) * Scale
	adjust := int64(b) / 2 // truncation makes this |b|/2 carrying b's sign
	return int32((num + adjust) / int64(b))
}

// Min returns the smaller of a and b.
func Min(a, b Unit) Unit {
	if a.raw < b.raw {
		return a
	}
	return b
}

// Max returns the larger of a and b.
func Max(a, b Unit) Unit {
	if a.raw > b.raw {
		return a
	}
	return b
}

// --- Square root ---

// Sqrt returns the square root of u by Newton-Raphson, or ErrNegativeSqrt
// for negative inputs. Zero returns zero without iterating. The starting
// guess is the input or 1.0, whichever is larger; iteration stops when a
// step reproduces the previous raw value, capped at 10 rounds. Each step
// runs through the scalar's own operators, so Mul/Div rounding carries into
// the result.
func Sqrt(u Unit) (Unit, error) {
	if u.raw < 0 {
		return Unit{}, ErrNegativeSqrt
	}
	if u.raw == 0 {
		return Unit{}, nil
	}

	x := u
	if x.LtRaw(Scale) {
		x = FromRaw(Scale)
	}
	two := FromInt(2)
	for i := 0; i < 10; i++ {
		// x >= 1.0 throughout, so neither divisor can be zero
		q := FromRaw(divRaw(u.raw, x.raw))
		next := FromRaw(divRaw(x.Add(q).raw, two.raw))
		if next.raw == x.raw {
			break
		}
		x = next
	}
	return x, nil
}

// --- Integer extraction ---

// Floor returns the largest integer <= u.
func (u Unit) Floor() int32 { return u.raw >> Shift }

// Round returns the nearest integer, halves rounding up.
func (u Unit) Round() int32 { return (u.raw + HalfScale) >> Shift }

// Ceil returns the smallest integer >= u.
func (u Unit) Ceil() int32 { return (u.raw + Mask) >> Shift }

// --- Formatting and conversion ---

// String renders the exact decimal value using integer math only, so
// printing can never disturb a deterministic computation.
func (u Unit) String() string {
	r := int64(u.raw)
	var b []byte
	if r < 0 {
		b = append(b, '-')
		r = -r
	}
	b = strconv.AppendInt(b, r>>Shift, 10)
	frac := r & Mask
	if frac != 0 {
		b = append(b, '.')
		for frac != 0 {
			frac *= 10
			b = append(b, byte('0'+frac>>Shift))
			frac &= Mask
		}
	}
	return string(b)
}

// Float32 returns raw/Scale as a float32 for display and debugging. One-way:
// nothing in this package consumes the result.
func (u Unit) Float32() float32 { return float32(u.raw) / Scale }
