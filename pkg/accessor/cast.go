package accessor

import (
	"fmt"
	"math"

	"github.com/Faultbox/midgard-gltf/pkg/gltf"
)

// Rule selects how components convert between stored representations.
type Rule int

const (
	// Normalized treats integers as fixed-point fractions of their maximum.
	// Integer to float divides by the maximum, float to integer multiplies by
	// it and truncates. Integers of the same signedness widen by the ratio of
	// maxima and narrow by an 8 bit shift per byte of width difference.
	Normalized Rule = iota
	// Integral preserves integer values, clamping to the target range.
	Integral
)

// String returns the rule name.
func (r Rule) String() string {
	if r == Integral {
		return "integral"
	}
	return "normalized"
}

// maxValue is the largest value of c, or 1 for float.
func maxValue(c gltf.ComponentType) float64 {
	switch c {
	case gltf.ComponentByte:
		return math.MaxInt8
	case gltf.ComponentUnsignedByte:
		return math.MaxUint8
	case gltf.ComponentShort:
		return math.MaxInt16
	case gltf.ComponentUnsignedShort:
		return math.MaxUint16
	case gltf.ComponentUnsignedInt:
		return math.MaxUint32
	default:
		return 1
	}
}

func minValue(c gltf.ComponentType) float64 {
	switch c {
	case gltf.ComponentByte:
		return math.MinInt8
	case gltf.ComponentShort:
		return math.MinInt16
	case gltf.ComponentFloat:
		return -math.MaxFloat32
	default:
		return 0
	}
}

// normalize maps an integer of type from onto [0,1] or [-1,1].
func normalize(v float64, from gltf.ComponentType) float64 {
	if from == gltf.ComponentUnsignedInt {
		return float64(float32(v / math.MaxUint32))
	}
	f := float32(v) / float32(maxValue(from))
	if from.Signed() {
		f = max(f, -1)
	}
	return float64(f)
}

// denormalize maps a fraction onto the integer range of to. The product is
// taken in float32 so that 8 and 16 bit values survive a round trip.
func denormalize(f float64, to gltf.ComponentType) float64 {
	lo := 0.0
	if to.Signed() {
		lo = -1
	}
	f = min(max(f, lo), 1)
	if to == gltf.ComponentUnsignedInt {
		return math.Trunc(f * math.MaxUint32)
	}
	return math.Trunc(float64(float32(f) * float32(maxValue(to))))
}

// rescale converts between integers of the same signedness. Widening scales
// by the ratio of maxima so that the source maximum maps onto the target
// maximum. Narrowing shifts right by 8 bits per byte of width difference.
func rescale(v float64, from, to gltf.ComponentType) float64 {
	if shift := 8 * (from.Size() - to.Size()); shift > 0 {
		return float64(int64(v) >> uint(shift))
	}
	w := math.Trunc(v * maxValue(to) / maxValue(from))
	return min(max(w, minValue(to)), maxValue(to))
}

// convert maps one stored component value from one type to another.
func convert(v float64, from, to gltf.ComponentType, rule Rule) float64 {
	if from == to {
		return v
	}
	if rule == Integral {
		if to.Float() {
			return float64(float32(v))
		}
		return math.Trunc(min(max(v, minValue(to)), maxValue(to)))
	}
	switch {
	case to.Float():
		return normalize(v, from)
	case from.Float():
		return denormalize(v, to)
	case from.Signed() == to.Signed():
		return rescale(v, from, to)
	default:
		return denormalize(normalize(v, from), to)
	}
}

// Lossy reports whether converting from one component type to another can
// lose information. Identity conversions and widening to a type that holds
// every source value are lossless.
func Lossy(from, to gltf.ComponentType) bool {
	switch {
	case from == to:
		return false
	case from.Float():
		return true
	case to.Float():
		return from == gltf.ComponentUnsignedInt
	case from.Signed() != to.Signed():
		return true
	default:
		return to.Size() < from.Size()
	}
}

// Attribute is a decoded accessor with up to four components per element,
// kept in its stored numeric range until cast.
type Attribute struct {
	ComponentType gltf.ComponentType
	Components    int
	Rule          Rule

	seq *Sequence[[4]float64]
}

// rawDecoder reads one component without normalizing it.
func rawDecoder(ct gltf.ComponentType) func([]byte) float64 {
	switch ct {
	case gltf.ComponentByte:
		d := decoder[int8]()
		return func(b []byte) float64 { return float64(d(b)) }
	case gltf.ComponentUnsignedByte:
		d := decoder[uint8]()
		return func(b []byte) float64 { return float64(d(b)) }
	case gltf.ComponentShort:
		d := decoder[int16]()
		return func(b []byte) float64 { return float64(d(b)) }
	case gltf.ComponentUnsignedShort:
		d := decoder[uint16]()
		return func(b []byte) float64 { return float64(d(b)) }
	case gltf.ComponentUnsignedInt:
		d := decoder[uint32]()
		return func(b []byte) float64 { return float64(d(b)) }
	default:
		d := decoder[float32]()
		return func(b []byte) float64 { return float64(d(b)) }
	}
}

// NewAttribute opens a SCALAR or vector accessor for casting under rule.
func NewAttribute(root *gltf.Root, buffers [][]byte, index gltf.Index[gltf.Accessor], rule Rule) (*Attribute, error) {
	a, err := lookup(root, index)
	if err != nil {
		return nil, err
	}
	n := a.Type.Components()
	if n == 0 || n > 4 || a.Type == gltf.Mat2 {
		return nil, fmt.Errorf("%w: cannot cast %s elements", ErrUnsupportedFormat, a.Type)
	}
	src, err := open(root, buffers, a)
	if err != nil {
		return nil, err
	}
	d, size := rawDecoder(a.ComponentType), a.ComponentType.Size()
	seq := newSequence(src, func(b []byte) [4]float64 {
		var e [4]float64
		for k := 0; k < n; k++ {
			e[k] = d(b[k*size:])
		}
		return e
	})
	return &Attribute{ComponentType: a.ComponentType, Components: n, Rule: rule, seq: seq}, nil
}

// Len returns the number of elements.
func (a *Attribute) Len() int {
	return a.seq.Len()
}

// Lossy reports whether casting a to components of type to loses information.
func (a *Attribute) Lossy(to gltf.ComponentType) bool {
	return Lossy(a.ComponentType, to)
}

func cast[T Component, E any](a *Attribute, build func(e [4]float64, c func(float64) T) E) *Sequence[E] {
	from, to, rule := a.ComponentType, componentType[T](), a.Rule
	conv := func(v float64) T { return T(convert(v, from, to, rule)) }
	return Map(a.seq, func(e [4]float64) E { return build(e, conv) })
}

func scalar[T Component](a *Attribute) *Sequence[T] {
	return cast(a, func(e [4]float64, c func(float64) T) T { return c(e[0]) })
}

func vec2[T Component](a *Attribute) *Sequence[[2]T] {
	return cast(a, func(e [4]float64, c func(float64) T) [2]T { return [2]T{c(e[0]), c(e[1])} })
}

// vec3 drops a fourth component when present.
func vec3[T Component](a *Attribute) *Sequence[[3]T] {
	return cast(a, func(e [4]float64, c func(float64) T) [3]T { return [3]T{c(e[0]), c(e[1]), c(e[2])} })
}

// vec4 appends an opaque alpha when the source has three components.
func vec4[T Component](a *Attribute) *Sequence[[4]T] {
	alpha := T(maxValue(componentType[T]()))
	if a.Components == 3 {
		return cast(a, func(e [4]float64, c func(float64) T) [4]T { return [4]T{c(e[0]), c(e[1]), c(e[2]), alpha} })
	}
	return cast(a, func(e [4]float64, c func(float64) T) [4]T { return [4]T{c(e[0]), c(e[1]), c(e[2]), c(e[3])} })
}

func wantComponents(a *Attribute, allowed ...int) error {
	for _, n := range allowed {
		if a.Components == n {
			return nil
		}
	}
	return fmt.Errorf("%w: %d components, want %v", ErrUnsupportedFormat, a.Components, allowed)
}

// As casts a scalar attribute to T.
func As[T Component](a *Attribute) (*Sequence[T], error) {
	if err := wantComponents(a, 1); err != nil {
		return nil, err
	}
	return scalar[T](a), nil
}

// AsVec2 casts a two component attribute to T.
func AsVec2[T Component](a *Attribute) (*Sequence[[2]T], error) {
	if err := wantComponents(a, 2); err != nil {
		return nil, err
	}
	return vec2[T](a), nil
}

// AsVec3 casts a three or four component attribute to three components of T.
func AsVec3[T Component](a *Attribute) (*Sequence[[3]T], error) {
	if err := wantComponents(a, 3, 4); err != nil {
		return nil, err
	}
	return vec3[T](a), nil
}

// AsVec4 casts a three or four component attribute to four components of T.
func AsVec4[T Component](a *Attribute) (*Sequence[[4]T], error) {
	if err := wantComponents(a, 3, 4); err != nil {
		return nil, err
	}
	return vec4[T](a), nil
}
