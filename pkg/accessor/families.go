package accessor

import (
	"fmt"
	"slices"

	"github.com/Faultbox/midgard-gltf/pkg/gltf"
)

// Family names an attribute role and the storage formats glTF allows for it.
type Family struct {
	Name       string
	Types      []gltf.AccessorType
	Components []gltf.ComponentType
	Rule       Rule
}

var (
	normalizedFloat = []gltf.ComponentType{gltf.ComponentUnsignedByte, gltf.ComponentUnsignedShort, gltf.ComponentFloat}
	signedFloat     = []gltf.ComponentType{
		gltf.ComponentByte, gltf.ComponentUnsignedByte,
		gltf.ComponentShort, gltf.ComponentUnsignedShort,
		gltf.ComponentFloat,
	}
)

// Attribute families.
var (
	ColorFamily       = Family{"colors", []gltf.AccessorType{gltf.Vec3, gltf.Vec4}, normalizedFloat, Normalized}
	JointFamily       = Family{"joints", []gltf.AccessorType{gltf.Vec4}, []gltf.ComponentType{gltf.ComponentUnsignedByte, gltf.ComponentUnsignedShort}, Integral}
	WeightFamily      = Family{"weights", []gltf.AccessorType{gltf.Vec4}, normalizedFloat, Normalized}
	TexCoordFamily    = Family{"texture coordinates", []gltf.AccessorType{gltf.Vec2}, normalizedFloat, Normalized}
	RotationFamily    = Family{"rotations", []gltf.AccessorType{gltf.Vec4}, signedFloat, Normalized}
	MorphWeightFamily = Family{"morph weights", []gltf.AccessorType{gltf.Scalar}, signedFloat, Normalized}
	IndexFamily       = Family{"indices", []gltf.AccessorType{gltf.Scalar}, []gltf.ComponentType{gltf.ComponentUnsignedByte, gltf.ComponentUnsignedShort, gltf.ComponentUnsignedInt}, Integral}
)

// Allows reports whether f accepts elements of typ stored as ct.
func (f Family) Allows(typ gltf.AccessorType, ct gltf.ComponentType) bool {
	return slices.Contains(f.Types, typ) && slices.Contains(f.Components, ct)
}

// Open checks the accessor format against f and opens it for casting.
func (f Family) Open(root *gltf.Root, buffers [][]byte, index gltf.Index[gltf.Accessor]) (*Attribute, error) {
	a, err := lookup(root, index)
	if err != nil {
		return nil, err
	}
	if !f.Allows(a.Type, a.ComponentType) {
		return nil, fmt.Errorf("%w: %s cannot be %s %s", ErrUnsupportedFormat, f.Name, a.ComponentType, a.Type)
	}
	return NewAttribute(root, buffers, index, f.Rule)
}

// Colors are vertex colors in RGB or RGBA.
type Colors struct{ *Attribute }

// ReadColors opens a COLOR_n accessor.
func ReadColors(root *gltf.Root, buffers [][]byte, index gltf.Index[gltf.Accessor]) (Colors, error) {
	a, err := ColorFamily.Open(root, buffers, index)
	return Colors{a}, err
}

// HasAlpha reports whether the stored colors carry an alpha channel.
func (c Colors) HasAlpha() bool { return c.Components == 4 }

// RGBU8 drops alpha and casts to 8-bit.
func (c Colors) RGBU8() *Sequence[[3]uint8] { return vec3[uint8](c.Attribute) }

// RGBU16 drops alpha and casts to 16-bit.
func (c Colors) RGBU16() *Sequence[[3]uint16] { return vec3[uint16](c.Attribute) }

// RGBF32 drops alpha and casts to float.
func (c Colors) RGBF32() *Sequence[[3]float32] { return vec3[float32](c.Attribute) }

// RGBAU8 casts to 8-bit, adding alpha 255 to RGB colors.
func (c Colors) RGBAU8() *Sequence[[4]uint8] { return vec4[uint8](c.Attribute) }

// RGBAU16 casts to 16-bit, adding alpha 65535 to RGB colors.
func (c Colors) RGBAU16() *Sequence[[4]uint16] { return vec4[uint16](c.Attribute) }

// RGBAF32 casts to float, adding alpha 1.0 to RGB colors.
func (c Colors) RGBAF32() *Sequence[[4]float32] { return vec4[float32](c.Attribute) }

// Joints are skinning joint indices.
type Joints struct{ *Attribute }

// ReadJoints opens a JOINTS_n accessor.
func ReadJoints(root *gltf.Root, buffers [][]byte, index gltf.Index[gltf.Accessor]) (Joints, error) {
	a, err := JointFamily.Open(root, buffers, index)
	return Joints{a}, err
}

// U8 casts to 8-bit, clamping indices above 255.
func (j Joints) U8() *Sequence[[4]uint8] { return vec4[uint8](j.Attribute) }

// U16 widens to 16-bit.
func (j Joints) U16() *Sequence[[4]uint16] { return vec4[uint16](j.Attribute) }

// Weights are skinning weights.
type Weights struct{ *Attribute }

// ReadWeights opens a WEIGHTS_n accessor.
func ReadWeights(root *gltf.Root, buffers [][]byte, index gltf.Index[gltf.Accessor]) (Weights, error) {
	a, err := WeightFamily.Open(root, buffers, index)
	return Weights{a}, err
}

func (w Weights) U8() *Sequence[[4]uint8]    { return vec4[uint8](w.Attribute) }
func (w Weights) U16() *Sequence[[4]uint16]  { return vec4[uint16](w.Attribute) }
func (w Weights) F32() *Sequence[[4]float32] { return vec4[float32](w.Attribute) }

// TexCoords are texture coordinates.
type TexCoords struct{ *Attribute }

// ReadTexCoords opens a TEXCOORD_n accessor.
func ReadTexCoords(root *gltf.Root, buffers [][]byte, index gltf.Index[gltf.Accessor]) (TexCoords, error) {
	a, err := TexCoordFamily.Open(root, buffers, index)
	return TexCoords{a}, err
}

func (t TexCoords) U8() *Sequence[[2]uint8]    { return vec2[uint8](t.Attribute) }
func (t TexCoords) U16() *Sequence[[2]uint16]  { return vec2[uint16](t.Attribute) }
func (t TexCoords) F32() *Sequence[[2]float32] { return vec2[float32](t.Attribute) }

// Rotations are unit quaternions in x, y, z, w order.
type Rotations struct{ *Attribute }

// ReadRotations opens a rotation animation output accessor.
func ReadRotations(root *gltf.Root, buffers [][]byte, index gltf.Index[gltf.Accessor]) (Rotations, error) {
	a, err := RotationFamily.Open(root, buffers, index)
	return Rotations{a}, err
}

func (r Rotations) I8() *Sequence[[4]int8]     { return vec4[int8](r.Attribute) }
func (r Rotations) U8() *Sequence[[4]uint8]    { return vec4[uint8](r.Attribute) }
func (r Rotations) I16() *Sequence[[4]int16]   { return vec4[int16](r.Attribute) }
func (r Rotations) U16() *Sequence[[4]uint16]  { return vec4[uint16](r.Attribute) }
func (r Rotations) F32() *Sequence[[4]float32] { return vec4[float32](r.Attribute) }

// MorphWeights are morph target weights.
type MorphWeights struct{ *Attribute }

// ReadMorphWeights opens a weights animation output accessor.
func ReadMorphWeights(root *gltf.Root, buffers [][]byte, index gltf.Index[gltf.Accessor]) (MorphWeights, error) {
	a, err := MorphWeightFamily.Open(root, buffers, index)
	return MorphWeights{a}, err
}

func (m MorphWeights) I8() *Sequence[int8]     { return scalar[int8](m.Attribute) }
func (m MorphWeights) U8() *Sequence[uint8]    { return scalar[uint8](m.Attribute) }
func (m MorphWeights) I16() *Sequence[int16]   { return scalar[int16](m.Attribute) }
func (m MorphWeights) U16() *Sequence[uint16]  { return scalar[uint16](m.Attribute) }
func (m MorphWeights) F32() *Sequence[float32] { return scalar[float32](m.Attribute) }

// Indices are primitive vertex indices.
type Indices struct{ *Attribute }

// ReadIndices opens a primitive index accessor.
func ReadIndices(root *gltf.Root, buffers [][]byte, index gltf.Index[gltf.Accessor]) (Indices, error) {
	a, err := IndexFamily.Open(root, buffers, index)
	return Indices{a}, err
}

// U32 widens every index to 32 bits.
func (i Indices) U32() *Sequence[uint32] { return scalar[uint32](i.Attribute) }
