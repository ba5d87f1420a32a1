package gltf

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Node is an element of the scene hierarchy.
type Node struct {
	Camera      *Index[Camera] `json:"camera,omitempty"`
	Children    []Index[Node]  `json:"children,omitempty"`
	Skin        *Index[Skin]   `json:"skin,omitempty"`
	Matrix      *[16]float32   `json:"matrix,omitempty"`
	Mesh        *Index[Mesh]   `json:"mesh,omitempty"`
	Rotation    *[4]float32    `json:"rotation,omitempty"`
	Scale       *[3]float32    `json:"scale,omitempty"`
	Translation *[3]float32    `json:"translation,omitempty"`
	Weights     []float32      `json:"weights,omitempty"`
	Name        string         `json:"name,omitempty"`
	Extensible
}

// HasTRS reports whether any of translation, rotation or scale is set.
func (n *Node) HasTRS() bool {
	return n.Translation != nil || n.Rotation != nil || n.Scale != nil
}

// TRS returns the translation, rotation and scale properties with glTF defaults applied.
func (n *Node) TRS() (t mgl32.Vec3, r mgl32.Quat, s mgl32.Vec3) {
	t = mgl32.Vec3{0, 0, 0}
	r = mgl32.QuatIdent()
	s = mgl32.Vec3{1, 1, 1}
	if n.Translation != nil {
		t = mgl32.Vec3(*n.Translation)
	}
	if n.Rotation != nil {
		q := *n.Rotation
		r = mgl32.Quat{W: q[3], V: mgl32.Vec3{q[0], q[1], q[2]}}
	}
	if n.Scale != nil {
		s = mgl32.Vec3(*n.Scale)
	}
	return t, r, s
}

// LocalMatrix returns the node transform relative to its parent, in column-major order.
// The matrix property wins over TRS when both are present.
func (n *Node) LocalMatrix() mgl32.Mat4 {
	if n.Matrix != nil {
		return mgl32.Mat4(*n.Matrix)
	}
	t, r, s := n.TRS()
	return mgl32.Translate3D(t[0], t[1], t[2]).
		Mul4(r.Mat4()).
		Mul4(mgl32.Scale3D(s[0], s[1], s[2]))
}

// Decomposed returns the node transform as translation, rotation and scale.
// A matrix with shear does not decompose exactly.
func (n *Node) Decomposed() (t mgl32.Vec3, r mgl32.Quat, s mgl32.Vec3) {
	if n.Matrix == nil {
		return n.TRS()
	}
	m := mgl32.Mat4(*n.Matrix)

	t = m.Col(3).Vec3()
	s = mgl32.Vec3{m.Col(0).Vec3().Len(), m.Col(1).Vec3().Len(), m.Col(2).Vec3().Len()}
	if m.Det() < 0 {
		s[0] = -s[0]
	}

	var rot mgl32.Mat4
	for c := 0; c < 3; c++ {
		col := m.Col(c).Vec3()
		if s[c] != 0 {
			col = col.Mul(1 / s[c])
		}
		rot.SetCol(c, col.Vec4(0))
	}
	rot.SetCol(3, mgl32.Vec4{0, 0, 0, 1})

	return t, mgl32.Mat4ToQuat(rot).Normalize(), s
}

// Scene is a set of root nodes.
type Scene struct {
	Nodes []Index[Node] `json:"nodes,omitempty"`
	Name  string        `json:"name,omitempty"`
	Extensible
}

// Skin binds a mesh to a joint hierarchy.
type Skin struct {
	InverseBindMatrices *Index[Accessor] `json:"inverseBindMatrices,omitempty"`
	Joints              []Index[Node]    `json:"joints"`
	Skeleton            *Index[Node]     `json:"skeleton,omitempty"`
	Name                string           `json:"name,omitempty"`
	Extensible

	missing absent
}

// UnmarshalJSON decodes a skin and records absent required fields.
func (s *Skin) UnmarshalJSON(data []byte) error {
	type plain Skin
	missing, err := decodeObject(data, (*plain)(s), "joints")
	s.missing = missing
	return err
}
