package accessor

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/midgard-gltf/pkg/gltf"
)

func read[T any](root *gltf.Root, buffers [][]byte, index gltf.Index[gltf.Accessor], typ gltf.AccessorType, ct gltf.ComponentType, decode func([]byte) T) (*Sequence[T], error) {
	a, err := lookup(root, index)
	if err != nil {
		return nil, err
	}
	if err := checkFormat(a, typ, ct); err != nil {
		return nil, err
	}
	src, err := open(root, buffers, a)
	if err != nil {
		return nil, err
	}
	return newSequence(src, decode), nil
}

// Scalars reads a SCALAR accessor stored as C.
func Scalars[C Component](root *gltf.Root, buffers [][]byte, index gltf.Index[gltf.Accessor]) (*Sequence[C], error) {
	return read(root, buffers, index, gltf.Scalar, componentType[C](), decoder[C]())
}

// Vec2s reads a VEC2 accessor stored as C.
func Vec2s[C Component](root *gltf.Root, buffers [][]byte, index gltf.Index[gltf.Accessor]) (*Sequence[[2]C], error) {
	d, n := decoder[C](), componentType[C]().Size()
	return read(root, buffers, index, gltf.Vec2, componentType[C](), func(b []byte) [2]C {
		return [2]C{d(b), d(b[n:])}
	})
}

// Vec3s reads a VEC3 accessor stored as C.
func Vec3s[C Component](root *gltf.Root, buffers [][]byte, index gltf.Index[gltf.Accessor]) (*Sequence[[3]C], error) {
	d, n := decoder[C](), componentType[C]().Size()
	return read(root, buffers, index, gltf.Vec3, componentType[C](), func(b []byte) [3]C {
		return [3]C{d(b), d(b[n:]), d(b[2*n:])}
	})
}

// Vec4s reads a VEC4 accessor stored as C.
func Vec4s[C Component](root *gltf.Root, buffers [][]byte, index gltf.Index[gltf.Accessor]) (*Sequence[[4]C], error) {
	d, n := decoder[C](), componentType[C]().Size()
	return read(root, buffers, index, gltf.Vec4, componentType[C](), func(b []byte) [4]C {
		return [4]C{d(b), d(b[n:]), d(b[2*n:]), d(b[3*n:])}
	})
}

// Mat4s reads a MAT4 float accessor. glTF and mgl32 both store matrices
// column-major, so components copy across in order.
func Mat4s(root *gltf.Root, buffers [][]byte, index gltf.Index[gltf.Accessor]) (*Sequence[mgl32.Mat4], error) {
	return read(root, buffers, index, gltf.Mat4, gltf.ComponentFloat, func(b []byte) mgl32.Mat4 {
		var m mgl32.Mat4
		for k := range m {
			m[k] = math.Float32frombits(binary.LittleEndian.Uint32(b[4*k:]))
		}
		return m
	})
}

// floatDecoder converts one stored component to float32, normalizing integer
// components when the accessor is marked normalized.
func floatDecoder(ct gltf.ComponentType, normalized bool) func([]byte) float32 {
	switch ct {
	case gltf.ComponentByte:
		if normalized {
			return func(b []byte) float32 { return max(float32(int8(b[0]))/127, -1) }
		}
		return func(b []byte) float32 { return float32(int8(b[0])) }
	case gltf.ComponentUnsignedByte:
		if normalized {
			return func(b []byte) float32 { return float32(b[0]) / 255 }
		}
		return func(b []byte) float32 { return float32(b[0]) }
	case gltf.ComponentShort:
		if normalized {
			return func(b []byte) float32 { return max(float32(int16(binary.LittleEndian.Uint16(b)))/32767, -1) }
		}
		return func(b []byte) float32 { return float32(int16(binary.LittleEndian.Uint16(b))) }
	case gltf.ComponentUnsignedShort:
		if normalized {
			return func(b []byte) float32 { return float32(binary.LittleEndian.Uint16(b)) / 65535 }
		}
		return func(b []byte) float32 { return float32(binary.LittleEndian.Uint16(b)) }
	case gltf.ComponentUnsignedInt:
		if normalized {
			return func(b []byte) float32 { return float32(float64(binary.LittleEndian.Uint32(b)) / math.MaxUint32) }
		}
		return func(b []byte) float32 { return float32(binary.LittleEndian.Uint32(b)) }
	default:
		return func(b []byte) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(b)) }
	}
}

func readFloats[T any](root *gltf.Root, buffers [][]byte, index gltf.Index[gltf.Accessor], typ gltf.AccessorType, build func(f func([]byte) float32, n int) func([]byte) T) (*Sequence[T], error) {
	a, err := lookup(root, index)
	if err != nil {
		return nil, err
	}
	if a.Type != typ {
		return nil, checkFormat(a, typ, a.ComponentType)
	}
	src, err := open(root, buffers, a)
	if err != nil {
		return nil, err
	}
	return newSequence(src, build(floatDecoder(a.ComponentType, a.Normalized), a.ComponentType.Size())), nil
}

// Floats reads a SCALAR accessor of any component type as float32.
func Floats(root *gltf.Root, buffers [][]byte, index gltf.Index[gltf.Accessor]) (*Sequence[float32], error) {
	return readFloats(root, buffers, index, gltf.Scalar, func(f func([]byte) float32, _ int) func([]byte) float32 {
		return f
	})
}

// Vec2f reads a VEC2 accessor of any component type as float32.
func Vec2f(root *gltf.Root, buffers [][]byte, index gltf.Index[gltf.Accessor]) (*Sequence[[2]float32], error) {
	return readFloats(root, buffers, index, gltf.Vec2, func(f func([]byte) float32, n int) func([]byte) [2]float32 {
		return func(b []byte) [2]float32 { return [2]float32{f(b), f(b[n:])} }
	})
}

// Vec3f reads a VEC3 accessor of any component type as float32.
func Vec3f(root *gltf.Root, buffers [][]byte, index gltf.Index[gltf.Accessor]) (*Sequence[[3]float32], error) {
	return readFloats(root, buffers, index, gltf.Vec3, func(f func([]byte) float32, n int) func([]byte) [3]float32 {
		return func(b []byte) [3]float32 { return [3]float32{f(b), f(b[n:]), f(b[2*n:])} }
	})
}

// Vec4f reads a VEC4 accessor of any component type as float32.
func Vec4f(root *gltf.Root, buffers [][]byte, index gltf.Index[gltf.Accessor]) (*Sequence[[4]float32], error) {
	return readFloats(root, buffers, index, gltf.Vec4, func(f func([]byte) float32, n int) func([]byte) [4]float32 {
		return func(b []byte) [4]float32 { return [4]float32{f(b), f(b[n:]), f(b[2*n:]), f(b[3*n:])} }
	})
}

// Elements reads any accessor as float32 slices of one entry per component.
func Elements(root *gltf.Root, buffers [][]byte, index gltf.Index[gltf.Accessor]) (*Sequence[[]float32], error) {
	a, err := lookup(root, index)
	if err != nil {
		return nil, err
	}
	src, err := open(root, buffers, a)
	if err != nil {
		return nil, err
	}
	f, n, comps := floatDecoder(a.ComponentType, a.Normalized), a.ComponentType.Size(), a.Type.Components()
	seq := newSequence(src, func(b []byte) []float32 {
		out := make([]float32, comps)
		for k := range out {
			out[k] = f(b[k*n:])
		}
		return out
	})
	seq.zero = func() []float32 { return make([]float32, comps) }
	return seq, nil
}
