package gltf

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Mode is the primitive topology.
type Mode uint32

// Primitive modes.
const (
	ModePoints        Mode = 0
	ModeLines         Mode = 1
	ModeLineLoop      Mode = 2
	ModeLineStrip     Mode = 3
	ModeTriangles     Mode = 4
	ModeTriangleStrip Mode = 5
	ModeTriangleFan   Mode = 6
)

// String returns the GL constant name.
func (m Mode) String() string {
	switch m {
	case ModePoints:
		return "POINTS"
	case ModeLines:
		return "LINES"
	case ModeLineLoop:
		return "LINE_LOOP"
	case ModeLineStrip:
		return "LINE_STRIP"
	case ModeTriangles:
		return "TRIANGLES"
	case ModeTriangleStrip:
		return "TRIANGLE_STRIP"
	case ModeTriangleFan:
		return "TRIANGLE_FAN"
	default:
		return fmt.Sprintf("Unknown(%d)", uint32(m))
	}
}

// Valid reports whether m is a defined mode.
func (m Mode) Valid() bool {
	return m <= ModeTriangleFan
}

// Mesh is a set of primitives to be rendered together.
type Mesh struct {
	Primitives []Primitive `json:"primitives"`
	Weights    []float32   `json:"weights,omitempty"`
	Name       string      `json:"name,omitempty"`
	Extensible

	missing absent
}

// UnmarshalJSON decodes a mesh and records absent required fields.
func (m *Mesh) UnmarshalJSON(data []byte) error {
	type plain Mesh
	missing, err := decodeObject(data, (*plain)(m), "primitives")
	m.missing = missing
	return err
}

// Attributes maps semantic names to accessors.
type Attributes map[string]Index[Accessor]

// Names returns the attribute names in sorted order.
func (a Attributes) Names() []string {
	names := make([]string, 0, len(a))
	for name := range a {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Primitive is geometry to be rendered with a material.
type Primitive struct {
	Attributes Attributes       `json:"attributes"`
	Indices    *Index[Accessor] `json:"indices,omitempty"`
	Material   *Index[Material] `json:"material,omitempty"`
	Mode       *Mode            `json:"mode,omitempty"`
	Targets    []Attributes     `json:"targets,omitempty"`
	Extensible

	missing absent
}

// UnmarshalJSON decodes a primitive and records absent required fields.
func (p *Primitive) UnmarshalJSON(data []byte) error {
	type plain Primitive
	missing, err := decodeObject(data, (*plain)(p), "attributes")
	p.missing = missing
	return err
}

// DrawMode returns the topology, defaulting to triangles.
func (p *Primitive) DrawMode() Mode {
	if p.Mode == nil {
		return ModeTriangles
	}
	return *p.Mode
}

// Attribute looks up the accessor bound to a semantic.
func (p *Primitive) Attribute(s Semantic) (Index[Accessor], bool) {
	i, ok := p.Attributes[s.String()]
	return i, ok
}

// SemanticKind classifies vertex attribute names.
type SemanticKind uint8

// Semantic kinds.
const (
	SemanticPosition SemanticKind = iota
	SemanticNormal
	SemanticTangent
	SemanticColor
	SemanticTexCoord
	SemanticJoints
	SemanticWeights
	SemanticCustom
)

// Semantic is a parsed attribute name such as TEXCOORD_1.
type Semantic struct {
	Kind SemanticKind
	Set  uint32
	// Name is the full attribute name for application-specific semantics.
	Name string
}

// Named semantics.
var (
	Position = Semantic{Kind: SemanticPosition}
	Normal   = Semantic{Kind: SemanticNormal}
	Tangent  = Semantic{Kind: SemanticTangent}
)

// Color returns the COLOR_n semantic.
func Color(set uint32) Semantic { return Semantic{Kind: SemanticColor, Set: set} }

// TexCoord returns the TEXCOORD_n semantic.
func TexCoord(set uint32) Semantic { return Semantic{Kind: SemanticTexCoord, Set: set} }

// Joints returns the JOINTS_n semantic.
func Joints(set uint32) Semantic { return Semantic{Kind: SemanticJoints, Set: set} }

// Weights returns the WEIGHTS_n semantic.
func Weights(set uint32) Semantic { return Semantic{Kind: SemanticWeights, Set: set} }

var setPrefixes = []struct {
	prefix string
	kind   SemanticKind
}{
	{"COLOR_", SemanticColor},
	{"TEXCOORD_", SemanticTexCoord},
	{"JOINTS_", SemanticJoints},
	{"WEIGHTS_", SemanticWeights},
}

// ParseSemantic parses an attribute name. Application-specific names start with an underscore.
func ParseSemantic(name string) (Semantic, bool) {
	switch name {
	case "POSITION":
		return Position, true
	case "NORMAL":
		return Normal, true
	case "TANGENT":
		return Tangent, true
	}
	if strings.HasPrefix(name, "_") {
		return Semantic{Kind: SemanticCustom, Name: name}, true
	}
	for _, p := range setPrefixes {
		rest, ok := strings.CutPrefix(name, p.prefix)
		if !ok {
			continue
		}
		set, err := strconv.ParseUint(rest, 10, 32)
		if err != nil {
			return Semantic{}, false
		}
		return Semantic{Kind: p.kind, Set: uint32(set)}, true
	}
	return Semantic{}, false
}

// String returns the attribute name.
func (s Semantic) String() string {
	switch s.Kind {
	case SemanticPosition:
		return "POSITION"
	case SemanticNormal:
		return "NORMAL"
	case SemanticTangent:
		return "TANGENT"
	case SemanticColor:
		return "COLOR_" + strconv.FormatUint(uint64(s.Set), 10)
	case SemanticTexCoord:
		return "TEXCOORD_" + strconv.FormatUint(uint64(s.Set), 10)
	case SemanticJoints:
		return "JOINTS_" + strconv.FormatUint(uint64(s.Set), 10)
	case SemanticWeights:
		return "WEIGHTS_" + strconv.FormatUint(uint64(s.Set), 10)
	default:
		return s.Name
	}
}
