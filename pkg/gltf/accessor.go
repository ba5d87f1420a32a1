package gltf

import (
	"encoding/json"
	"fmt"
)

// ComponentType is the data type of a single accessor component.
type ComponentType uint32

// Component type constants (GL enum values).
const (
	ComponentByte          ComponentType = 5120
	ComponentUnsignedByte  ComponentType = 5121
	ComponentShort         ComponentType = 5122
	ComponentUnsignedShort ComponentType = 5123
	ComponentUnsignedInt   ComponentType = 5125
	ComponentFloat         ComponentType = 5126
)

// String returns a short name for the component type.
func (c ComponentType) String() string {
	switch c {
	case ComponentByte:
		return "i8"
	case ComponentUnsignedByte:
		return "u8"
	case ComponentShort:
		return "i16"
	case ComponentUnsignedShort:
		return "u16"
	case ComponentUnsignedInt:
		return "u32"
	case ComponentFloat:
		return "f32"
	default:
		return fmt.Sprintf("Unknown(%d)", uint32(c))
	}
}

// Size returns the byte size of one component, or 0 for an unknown type.
func (c ComponentType) Size() int {
	switch c {
	case ComponentByte, ComponentUnsignedByte:
		return 1
	case ComponentShort, ComponentUnsignedShort:
		return 2
	case ComponentUnsignedInt, ComponentFloat:
		return 4
	default:
		return 0
	}
}

// Valid reports whether c is one of the glTF 2.0 component types.
func (c ComponentType) Valid() bool {
	return c.Size() != 0
}

// Signed reports whether c is a signed integer type.
func (c ComponentType) Signed() bool {
	return c == ComponentByte || c == ComponentShort
}

// Float reports whether c is the float type.
func (c ComponentType) Float() bool {
	return c == ComponentFloat
}

// AccessorType is the dimensionality of an accessor element.
type AccessorType string

// Accessor types.
const (
	Scalar AccessorType = "SCALAR"
	Vec2   AccessorType = "VEC2"
	Vec3   AccessorType = "VEC3"
	Vec4   AccessorType = "VEC4"
	Mat2   AccessorType = "MAT2"
	Mat3   AccessorType = "MAT3"
	Mat4   AccessorType = "MAT4"
)

// Components returns the number of components per element, or 0 for an unknown type.
func (t AccessorType) Components() int {
	switch t {
	case Scalar:
		return 1
	case Vec2:
		return 2
	case Vec3:
		return 3
	case Vec4, Mat2:
		return 4
	case Mat3:
		return 9
	case Mat4:
		return 16
	default:
		return 0
	}
}

// Valid reports whether t is a defined accessor type.
func (t AccessorType) Valid() bool {
	return t.Components() != 0
}

// Accessor describes a typed view into a buffer view.
type Accessor struct {
	BufferView    *Index[BufferView] `json:"bufferView,omitempty"`
	ByteOffset    uint64             `json:"byteOffset,omitempty"`
	ComponentType ComponentType      `json:"componentType"`
	Normalized    bool               `json:"normalized,omitempty"`
	Count         uint64             `json:"count"`
	Type          AccessorType       `json:"type"`
	Min           json.RawMessage    `json:"min,omitempty"`
	Max           json.RawMessage    `json:"max,omitempty"`
	Sparse        *Sparse            `json:"sparse,omitempty"`
	Name          string             `json:"name,omitempty"`
	Extensible

	missing absent
}

// UnmarshalJSON decodes an accessor and records absent required fields.
func (a *Accessor) UnmarshalJSON(data []byte) error {
	type plain Accessor
	missing, err := decodeObject(data, (*plain)(a), "componentType", "count", "type")
	a.missing = missing
	return err
}

// ElementSize returns the byte size of one element. Column padding of
// matrix types is not included.
func (a *Accessor) ElementSize() int {
	return a.ComponentType.Size() * a.Type.Components()
}

// Bounds decodes the min and max arrays. ok is false when either is absent or not numeric.
func (a *Accessor) Bounds() (lo, hi []float64, ok bool) {
	if len(a.Min) == 0 || len(a.Max) == 0 {
		return nil, nil, false
	}
	if json.Unmarshal(a.Min, &lo) != nil || json.Unmarshal(a.Max, &hi) != nil {
		return nil, nil, false
	}
	return lo, hi, true
}

// Sparse stores the elements of an accessor that deviate from their base values.
type Sparse struct {
	Count   uint64        `json:"count"`
	Indices SparseIndices `json:"indices"`
	Values  SparseValues  `json:"values"`
	Extensible

	missing absent
}

// UnmarshalJSON decodes sparse storage and records absent required fields.
func (s *Sparse) UnmarshalJSON(data []byte) error {
	type plain Sparse
	missing, err := decodeObject(data, (*plain)(s), "count", "indices", "values")
	s.missing = missing
	return err
}

// SparseIndices locates the indices of the deviating elements.
type SparseIndices struct {
	BufferView    Index[BufferView] `json:"bufferView"`
	ByteOffset    uint64            `json:"byteOffset,omitempty"`
	ComponentType ComponentType     `json:"componentType"`
	Extensible

	missing absent
}

// UnmarshalJSON decodes sparse indices and records absent required fields.
func (s *SparseIndices) UnmarshalJSON(data []byte) error {
	type plain SparseIndices
	missing, err := decodeObject(data, (*plain)(s), "bufferView", "componentType")
	s.missing = missing
	return err
}

// SparseValues locates the replacement values of the deviating elements.
type SparseValues struct {
	BufferView Index[BufferView] `json:"bufferView"`
	ByteOffset uint64            `json:"byteOffset,omitempty"`
	Extensible

	missing absent
}

// UnmarshalJSON decodes sparse values and records absent required fields.
func (s *SparseValues) UnmarshalJSON(data []byte) error {
	type plain SparseValues
	missing, err := decodeObject(data, (*plain)(s), "bufferView")
	s.missing = missing
	return err
}
