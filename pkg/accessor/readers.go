package accessor

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/midgard-gltf/pkg/gltf"
)

// ErrNoAttribute is returned when a primitive, channel or skin does not
// carry the requested data.
var ErrNoAttribute = errors.New("attribute not present")

// PrimitiveReader reads the vertex attributes of one mesh primitive.
type PrimitiveReader struct {
	root    *gltf.Root
	buffers [][]byte
	prim    *gltf.Primitive
}

// NewPrimitiveReader returns a reader for prim.
func NewPrimitiveReader(root *gltf.Root, buffers [][]byte, prim *gltf.Primitive) *PrimitiveReader {
	return &PrimitiveReader{root: root, buffers: buffers, prim: prim}
}

func (r *PrimitiveReader) attribute(s gltf.Semantic) (gltf.Index[gltf.Accessor], error) {
	i, ok := r.prim.Attribute(s)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrNoAttribute, s)
	}
	return i, nil
}

// Positions reads POSITION as float vectors.
func (r *PrimitiveReader) Positions() (*Sequence[[3]float32], error) {
	i, err := r.attribute(gltf.Position)
	if err != nil {
		return nil, err
	}
	return Vec3f(r.root, r.buffers, i)
}

// Normals reads NORMAL as float vectors.
func (r *PrimitiveReader) Normals() (*Sequence[[3]float32], error) {
	i, err := r.attribute(gltf.Normal)
	if err != nil {
		return nil, err
	}
	return Vec3f(r.root, r.buffers, i)
}

// Tangents reads TANGENT as float vectors with the handedness in w.
func (r *PrimitiveReader) Tangents() (*Sequence[[4]float32], error) {
	i, err := r.attribute(gltf.Tangent)
	if err != nil {
		return nil, err
	}
	return Vec4f(r.root, r.buffers, i)
}

// Colors reads COLOR_set.
func (r *PrimitiveReader) Colors(set uint32) (Colors, error) {
	i, err := r.attribute(gltf.Color(set))
	if err != nil {
		return Colors{}, err
	}
	return ReadColors(r.root, r.buffers, i)
}

// TexCoords reads TEXCOORD_set.
func (r *PrimitiveReader) TexCoords(set uint32) (TexCoords, error) {
	i, err := r.attribute(gltf.TexCoord(set))
	if err != nil {
		return TexCoords{}, err
	}
	return ReadTexCoords(r.root, r.buffers, i)
}

// Joints reads JOINTS_set.
func (r *PrimitiveReader) Joints(set uint32) (Joints, error) {
	i, err := r.attribute(gltf.Joints(set))
	if err != nil {
		return Joints{}, err
	}
	return ReadJoints(r.root, r.buffers, i)
}

// Weights reads WEIGHTS_set.
func (r *PrimitiveReader) Weights(set uint32) (Weights, error) {
	i, err := r.attribute(gltf.Weights(set))
	if err != nil {
		return Weights{}, err
	}
	return ReadWeights(r.root, r.buffers, i)
}

// Indices reads the index accessor. Non-indexed primitives return ErrNoAttribute.
func (r *PrimitiveReader) Indices() (Indices, error) {
	if r.prim.Indices == nil {
		return Indices{}, fmt.Errorf("%w: indices", ErrNoAttribute)
	}
	return ReadIndices(r.root, r.buffers, *r.prim.Indices)
}

// MorphTarget holds the displacements of one morph target. Absent
// attributes are nil.
type MorphTarget struct {
	Positions *Sequence[[3]float32]
	Normals   *Sequence[[3]float32]
	Tangents  *Sequence[[3]float32]
}

// MorphTargets reads every morph target of the primitive.
func (r *PrimitiveReader) MorphTargets() ([]MorphTarget, error) {
	targets := make([]MorphTarget, len(r.prim.Targets))
	for t, attrs := range r.prim.Targets {
		for _, m := range []struct {
			name string
			dst  **Sequence[[3]float32]
		}{
			{"POSITION", &targets[t].Positions},
			{"NORMAL", &targets[t].Normals},
			{"TANGENT", &targets[t].Tangents},
		} {
			i, ok := attrs[m.name]
			if !ok {
				continue
			}
			seq, err := Vec3f(r.root, r.buffers, i)
			if err != nil {
				return nil, fmt.Errorf("morph target %d %s: %w", t, m.name, err)
			}
			*m.dst = seq
		}
	}
	return targets, nil
}

// ChannelReader reads the keyframes that drive one animation channel.
type ChannelReader struct {
	root    *gltf.Root
	buffers [][]byte
	channel *gltf.Channel
	sampler *gltf.AnimationSampler
}

// NewChannelReader resolves the sampler of channel within anim.
func NewChannelReader(root *gltf.Root, buffers [][]byte, anim *gltf.Animation, channel *gltf.Channel) (*ChannelReader, error) {
	s, ok := anim.Sampler(channel.Sampler)
	if !ok {
		return nil, fmt.Errorf("%w: animation sampler %d", ErrOutOfBounds, channel.Sampler)
	}
	return &ChannelReader{root: root, buffers: buffers, channel: channel, sampler: s}, nil
}

// Interpolation returns the sampler interpolation mode.
func (r *ChannelReader) Interpolation() gltf.Interpolation {
	return r.sampler.Mode()
}

// Inputs reads the keyframe times in seconds.
func (r *ChannelReader) Inputs() (*Sequence[float32], error) {
	return Floats(r.root, r.buffers, r.sampler.Input)
}

// Outputs holds the keyframe values of a channel. Only the field matching
// Property is set.
type Outputs struct {
	Property     gltf.Property
	Translations *Sequence[[3]float32]
	Rotations    Rotations
	Scales       *Sequence[[3]float32]
	MorphWeights MorphWeights
}

// Outputs reads the keyframe values for the targeted property.
func (r *ChannelReader) Outputs() (Outputs, error) {
	out := Outputs{Property: r.channel.Target.Path}
	i := r.sampler.Output
	var err error
	switch out.Property {
	case gltf.PropertyTranslation:
		out.Translations, err = Vec3f(r.root, r.buffers, i)
	case gltf.PropertyRotation:
		out.Rotations, err = ReadRotations(r.root, r.buffers, i)
	case gltf.PropertyScale:
		out.Scales, err = Vec3f(r.root, r.buffers, i)
	case gltf.PropertyWeights:
		out.MorphWeights, err = ReadMorphWeights(r.root, r.buffers, i)
	default:
		err = fmt.Errorf("%w: target path %q", ErrUnsupportedFormat, out.Property)
	}
	return out, err
}

// SkinReader reads the binding data of a skin.
type SkinReader struct {
	root    *gltf.Root
	buffers [][]byte
	skin    *gltf.Skin
}

// NewSkinReader returns a reader for skin.
func NewSkinReader(root *gltf.Root, buffers [][]byte, skin *gltf.Skin) *SkinReader {
	return &SkinReader{root: root, buffers: buffers, skin: skin}
}

// InverseBindMatrices reads one matrix per joint. A skin without the
// accessor yields identity matrices.
func (r *SkinReader) InverseBindMatrices() (*Sequence[mgl32.Mat4], error) {
	if r.skin.InverseBindMatrices == nil {
		return &Sequence[mgl32.Mat4]{count: len(r.skin.Joints), zero: mgl32.Ident4}, nil
	}
	return Mat4s(r.root, r.buffers, *r.skin.InverseBindMatrices)
}
