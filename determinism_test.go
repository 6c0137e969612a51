package detmath

import (
	"encoding/binary"
	"testing"

	"github.com/cespare/xxhash/v2"
)

// TestGoldenChain pins a chained tour across the operation surface to exact
// raw encodings, so any rounding drift fails loudly on the first divergent
// step.
func TestGoldenChain(t *testing.T) {
	check := func(step string, got, want int32) {
		if got != want {
			t.Fatalf("Expected raw %d after %s, got %d", want, step, got)
		}
	}

	u := FromInt(100)
	u = u.Mul(FromRaw(HalfScale))
	check("100 * 0.5", u.Raw(), 1638400)

	u = u.Add(FromInt(7))
	check("+ 7", u.Raw(), 1867776)

	u, err := u.Div(FromInt(-4))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	// Exact -14.25 is representable, but the sign-matched bias with a
	// truncating divide lands one raw step above it.
	check("/ -4", u.Raw(), -466943)

	u = u.Neg()
	check("negation", u.Raw(), 466943)

	s, err := Sqrt(FromInt(2))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	check("sqrt(2)", s.Raw(), 46341)

	u = u.Add(s)
	check("+ sqrt(2)", u.Raw(), 513284)

	w := V3(u, s, FromInt(-3)).MulScalar(FromRaw(3 * HalfScale))
	check("scaled X", w.X.Raw(), 769926)
	check("scaled Y", w.Y.Raw(), 69512)
	check("scaled Z", w.Z.Raw(), -147455)

	d := w.Dot(V3(FromInt(2), FromInt(1), FromInt(2)))
	check("dot", d.Raw(), 1314455)

	check("min", Min(d, u).Raw(), 513284)
	check("max", Max(d, u).Raw(), 1314455)
}

// opWalk tours the operation surface with xorshift-generated operands and
// feeds every result raw into the digest little-endian.
func opWalk(seed uint64, steps int, d *xxhash.Digest) {
	if seed == 0 {
		seed = 1
	}
	x := seed
	next := func() uint64 {
		x ^= x << 13
		x ^= x >> 17
		x ^= x << 5
		return x
	}

	var buf [4]byte
	put := func(r int32) {
		binary.LittleEndian.PutUint32(buf[:], uint32(r))
		d.Write(buf[:])
	}

	for i := 0; i < steps; i++ {
		a := FromRaw(int32(next()))
		b := FromRaw(int32(next()))
		if b == (Unit{}) {
			b = FromRaw(1)
		}

		put(a.Add(b).Raw())
		put(a.Sub(b).Raw())
		put(a.Neg().Raw())
		put(a.Mul(b).Raw())
		q, err := a.Div(b)
		if err != nil {
			panic(err) // unreachable, b is forced nonzero
		}
		put(q.Raw())
		put(Min(a, b).Raw())
		put(Max(a, b).Raw())

		r, err := Sqrt(FromRaw(int32(next() & 0x3FFFFFFF)))
		if err != nil {
			panic(err) // unreachable, operand is masked non-negative
		}
		put(r.Raw())

		v := V3(a, b, r)
		o := V3(b, r, a)
		put(v.Add(o).Dot(o).Raw())
		s := v.MulScalar(b)
		put(s.X.Raw())
		put(s.Y.Raw())
		put(s.Z.Raw())
	}
}

// TestWalkReplay runs the same walk twice and expects identical digests.
// Pure value arithmetic cannot diverge between runs; this guards against
// hidden shared state creeping into the operations.
func TestWalkReplay(t *testing.T) {
	d1 := xxhash.New()
	d2 := xxhash.New()
	opWalk(0x9E3779B97F4A7C15, 5000, d1)
	opWalk(0x9E3779B97F4A7C15, 5000, d2)
	if d1.Sum64() != d2.Sum64() {
		t.Errorf("Expected identical digests, got %x and %x", d1.Sum64(), d2.Sum64())
	}
}

var benchSink int32

func BenchmarkUnitMul(b *testing.B) {
	x, y := FromRaw(123457), FromRaw(-98765)
	var r Unit
	for i := 0; i < b.N; i++ {
		r = x.Mul(y)
	}
	benchSink = r.Raw()
}

func BenchmarkUnitDiv(b *testing.B) {
	x, y := FromRaw(123457), FromRaw(-98765)
	var r Unit
	for i := 0; i < b.N; i++ {
		r, _ = x.Div(y)
	}
	benchSink = r.Raw()
}

func BenchmarkSqrt(b *testing.B) {
	x := FromInt(123)
	var r Unit
	for i := 0; i < b.N; i++ {
		r, _ = Sqrt(x)
	}
	benchSink = r.Raw()
}

func BenchmarkVec3Dot(b *testing.B) {
	v := V3(FromInt(1), FromInt(-2), FromInt(3))
	o := V3(FromRaw(HalfScale), FromInt(5), FromRaw(-3*HalfScale))
	var r Unit
	for i := 0; i < b.N; i++ {
		r = v.Dot(o)
	}
	benchSink = r.Raw()
}
