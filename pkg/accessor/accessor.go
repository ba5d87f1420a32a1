// Package accessor reads typed element sequences out of glTF buffer data.
//
// Buffers are passed as a slice indexed like Root.Buffers. Every bounds
// check happens when a Sequence is built; iterating one never fails.
package accessor

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"math/bits"

	"github.com/Faultbox/midgard-gltf/pkg/gltf"
)

// Accessor read errors.
var (
	ErrOutOfBounds       = errors.New("index out of bounds")
	ErrMissingBuffer     = errors.New("buffer data not supplied")
	ErrBufferTooShort    = errors.New("buffer too short")
	ErrViewOverrun       = errors.New("accessor extends past its buffer view")
	ErrInvalidStride     = errors.New("byte stride smaller than element size")
	ErrUnsupportedFormat = errors.New("unsupported component type or dimensionality")
	ErrSparseIndices     = errors.New("invalid sparse indices")
	ErrNoData            = errors.New("accessor has neither buffer view nor sparse storage")
	ErrTooLarge          = errors.New("accessor size exceeds host limits")
)

// Component is a Go type that can hold one stored component.
type Component interface {
	int8 | uint8 | int16 | uint16 | uint32 | float32
}

// componentType maps a Go component type to its glTF constant.
func componentType[C Component]() gltf.ComponentType {
	switch any(*new(C)).(type) {
	case int8:
		return gltf.ComponentByte
	case uint8:
		return gltf.ComponentUnsignedByte
	case int16:
		return gltf.ComponentShort
	case uint16:
		return gltf.ComponentUnsignedShort
	case uint32:
		return gltf.ComponentUnsignedInt
	default:
		return gltf.ComponentFloat
	}
}

// decoder returns a little-endian reader for one component of type C.
func decoder[C Component]() func([]byte) C {
	var f any
	switch any(*new(C)).(type) {
	case int8:
		f = func(b []byte) int8 { return int8(b[0]) }
	case uint8:
		f = func(b []byte) uint8 { return b[0] }
	case int16:
		f = func(b []byte) int16 { return int16(binary.LittleEndian.Uint16(b)) }
	case uint16:
		f = func(b []byte) uint16 { return binary.LittleEndian.Uint16(b) }
	case uint32:
		f = func(b []byte) uint32 { return binary.LittleEndian.Uint32(b) }
	case float32:
		f = func(b []byte) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(b)) }
	}
	return f.(func([]byte) C)
}

// layout is a strided run of elements inside one buffer.
type layout struct {
	data   []byte
	stride int
	size   int
}

func (l *layout) at(i int) []byte {
	off := i * l.stride
	return l.data[off : off+l.size]
}

// span resolves count elements of size bytes that start offset bytes into a buffer view.
func span(root *gltf.Root, buffers [][]byte, vi gltf.Index[gltf.BufferView], offset uint64, count, size int) (*layout, error) {
	view, ok := root.BufferView(vi)
	if !ok {
		return nil, fmt.Errorf("%w: buffer view %d", ErrOutOfBounds, vi)
	}
	if _, ok := root.Buffer(view.Buffer); !ok {
		return nil, fmt.Errorf("%w: buffer %d", ErrOutOfBounds, view.Buffer)
	}
	if int(view.Buffer) >= len(buffers) || buffers[view.Buffer] == nil {
		return nil, fmt.Errorf("%w: buffer %d", ErrMissingBuffer, view.Buffer)
	}
	data := buffers[view.Buffer]

	stride := view.Stride()
	if stride == 0 {
		stride = size
	}
	if stride < size {
		return nil, fmt.Errorf("%w: stride %d, element %d", ErrInvalidStride, stride, size)
	}
	if count == 0 {
		return &layout{stride: stride, size: size}, nil
	}

	if uint64(count) > uint64(len(data)) {
		return nil, fmt.Errorf("%w: %d elements in %d bytes", ErrBufferTooShort, count, len(data))
	}

	// Bounds are compared by subtraction so that offsets near MaxUint64 from
	// unvalidated documents cannot wrap.
	hi, body := bits.Mul64(uint64(stride), uint64(count-1))
	if hi != 0 || offset > view.ByteLength || uint64(size) > view.ByteLength-offset ||
		body > view.ByteLength-offset-uint64(size) {
		return nil, fmt.Errorf("%w: %d elements at offset %d, view has %d bytes", ErrViewOverrun, count, offset, view.ByteLength)
	}
	extent := offset + body + uint64(size)
	if view.ByteOffset > uint64(len(data)) || extent > uint64(len(data))-view.ByteOffset {
		return nil, fmt.Errorf("%w: view at %d needs %d bytes, have %d", ErrBufferTooShort, view.ByteOffset, extent, len(data))
	}

	start := view.ByteOffset + offset
	end := view.ByteOffset + extent
	return &layout{data: data[start:end], stride: stride, size: size}, nil
}

// source is a resolved accessor: its base run and its sparse overlay.
type source struct {
	accessor *gltf.Accessor
	count    int
	base     *layout
	sparse   *overlay
}

// overlay holds decoded sparse indices and the layout of their values.
type overlay struct {
	indices []int
	values  *layout
}

func lookup(root *gltf.Root, index gltf.Index[gltf.Accessor]) (*gltf.Accessor, error) {
	a, ok := root.Accessor(index)
	if !ok {
		return nil, fmt.Errorf("%w: accessor %d", ErrOutOfBounds, index)
	}
	return a, nil
}

func elementCount(a *gltf.Accessor) (int, error) {
	if a.Count > uint64(math.MaxInt) {
		return 0, fmt.Errorf("%w: count %d", ErrTooLarge, a.Count)
	}
	return int(a.Count), nil
}

// baseLayout resolves the buffer view run of a, or nil for sparse-only accessors.
func baseLayout(root *gltf.Root, buffers [][]byte, a *gltf.Accessor) (*layout, error) {
	count, err := elementCount(a)
	if err != nil {
		return nil, err
	}
	if a.BufferView == nil {
		if a.Sparse == nil {
			return nil, ErrNoData
		}
		return nil, nil
	}
	return span(root, buffers, *a.BufferView, a.ByteOffset, count, a.ElementSize())
}

// sparseIndices decodes the overlay indices of a, checking that they are
// strictly increasing and below the accessor count.
func sparseIndices(root *gltf.Root, buffers [][]byte, a *gltf.Accessor) ([]int, error) {
	s := a.Sparse
	if s == nil || s.Count == 0 {
		return nil, nil
	}
	if s.Count > a.Count {
		return nil, fmt.Errorf("%w: %d overrides for %d elements", ErrSparseIndices, s.Count, a.Count)
	}
	n := int(s.Count)

	var read func([]byte) uint64
	switch s.Indices.ComponentType {
	case gltf.ComponentUnsignedByte:
		read = func(b []byte) uint64 { return uint64(b[0]) }
	case gltf.ComponentUnsignedShort:
		read = func(b []byte) uint64 { return uint64(binary.LittleEndian.Uint16(b)) }
	case gltf.ComponentUnsignedInt:
		read = func(b []byte) uint64 { return uint64(binary.LittleEndian.Uint32(b)) }
	default:
		return nil, fmt.Errorf("%w: sparse index type %s", ErrUnsupportedFormat, s.Indices.ComponentType)
	}

	l, err := span(root, buffers, s.Indices.BufferView, s.Indices.ByteOffset, n, s.Indices.ComponentType.Size())
	if err != nil {
		return nil, err
	}

	indices := make([]int, n)
	prev := -1
	for j := range indices {
		idx := read(l.at(j))
		if idx >= a.Count {
			return nil, fmt.Errorf("%w: index %d at %d is out of range", ErrSparseIndices, idx, j)
		}
		if int(idx) <= prev {
			return nil, fmt.Errorf("%w: index %d at %d is not increasing", ErrSparseIndices, idx, j)
		}
		indices[j] = int(idx)
		prev = int(idx)
	}
	return indices, nil
}

// sparseValues resolves the overlay values run of a.
func sparseValues(root *gltf.Root, buffers [][]byte, a *gltf.Accessor) (*layout, error) {
	s := a.Sparse
	return span(root, buffers, s.Values.BufferView, s.Values.ByteOffset, int(s.Count), a.ElementSize())
}

func open(root *gltf.Root, buffers [][]byte, a *gltf.Accessor) (*source, error) {
	if !a.ComponentType.Valid() || !a.Type.Valid() {
		return nil, fmt.Errorf("%w: %s %s", ErrUnsupportedFormat, a.ComponentType, a.Type)
	}
	count, err := elementCount(a)
	if err != nil {
		return nil, err
	}
	base, err := baseLayout(root, buffers, a)
	if err != nil {
		return nil, err
	}
	src := &source{accessor: a, count: count, base: base}

	indices, err := sparseIndices(root, buffers, a)
	if err != nil {
		return nil, err
	}
	if len(indices) > 0 {
		values, err := sparseValues(root, buffers, a)
		if err != nil {
			return nil, err
		}
		src.sparse = &overlay{indices: indices, values: values}
	}
	return src, nil
}

func checkFormat(a *gltf.Accessor, typ gltf.AccessorType, ct gltf.ComponentType) error {
	if a.Type != typ || a.ComponentType != ct {
		return fmt.Errorf("%w: accessor is %s %s, want %s %s", ErrUnsupportedFormat, a.ComponentType, a.Type, ct, typ)
	}
	return nil
}
