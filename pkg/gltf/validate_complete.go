package gltf

import (
	"encoding/json"
	"math/bits"
	"strings"
)

// complete runs range and cross-object checks. It assumes minimal passed,
// so every index resolves and every size fits in an int.
func (v *validator) complete() {
	r := v.root
	top := pathFn(rootPath)

	v.completeAsset(field(top, "asset"))

	for i := range r.Accessors {
		v.completeAccessor(&r.Accessors[i], item(field(top, "accessors"), i))
	}
	for i := range r.Animations {
		v.completeAnimation(&r.Animations[i], item(field(top, "animations"), i))
	}
	for i := range r.BufferViews {
		bv := &r.BufferViews[i]
		if bv.ByteStride == nil {
			continue
		}
		stride := *bv.ByteStride
		if stride%4 != 0 || stride < MinByteStride || stride > MaxByteStride {
			v.fail(field(item(field(top, "bufferViews"), i), "byteStride"), Invalid)
		}
	}
	for i := range r.Cameras {
		v.completeCamera(&r.Cameras[i], item(field(top, "cameras"), i))
	}
	for i, name := range r.ExtensionsRequired {
		if !r.UsesExtension(name) {
			v.fail(item(field(top, "extensionsRequired"), i), Invalid)
		}
	}
	for i := range r.Images {
		img := &r.Images[i]
		p := item(field(top, "images"), i)
		if img.MimeType != "" && !img.ValidMIMEType() {
			v.fail(field(p, "mimeType"), Invalid)
		}
		if img.BufferView != nil {
			if img.URI != "" {
				v.fail(field(p, "bufferView"), Invalid)
			}
			if img.MimeType == "" {
				v.fail(field(p, "mimeType"), Missing)
			}
		}
	}
	for i := range r.Materials {
		v.completeMaterial(&r.Materials[i], item(field(top, "materials"), i))
	}
	for i := range r.Meshes {
		v.completeMesh(&r.Meshes[i], item(field(top, "meshes"), i))
	}
	for i := range r.Nodes {
		v.completeNode(&r.Nodes[i], item(field(top, "nodes"), i))
	}
	for i := range r.Samplers {
		s := &r.Samplers[i]
		p := item(field(top, "samplers"), i)
		if s.MagFilter != 0 && !s.MagFilter.ValidMag() {
			v.fail(field(p, "magFilter"), Invalid)
		}
		if s.MinFilter != 0 && !s.MinFilter.ValidMin() {
			v.fail(field(p, "minFilter"), Invalid)
		}
		if s.WrapS != 0 && !s.WrapS.Valid() {
			v.fail(field(p, "wrapS"), Invalid)
		}
		if s.WrapT != 0 && !s.WrapT.Valid() {
			v.fail(field(p, "wrapT"), Invalid)
		}
	}
	for i := range r.Skins {
		v.completeSkin(&r.Skins[i], item(field(top, "skins"), i))
	}
}

func (v *validator) completeAsset(p pathFn) {
	a := &v.root.Asset
	major, _, _ := strings.Cut(a.Version, ".")
	if major != "2" {
		v.fail(field(p, "version"), Invalid)
	}
	if a.MinVersion != "" && a.MinVersion != "2.0" {
		v.fail(field(p, "minVersion"), Unsupported)
	}
}

func (v *validator) completeAccessor(a *Accessor, p pathFn) {
	n := a.Type.Components()

	if a.BufferView != nil {
		if len(a.Min) == 0 {
			v.fail(field(p, "min"), Missing)
		}
		if len(a.Max) == 0 {
			v.fail(field(p, "max"), Missing)
		}
	}
	v.boundLength(a.Min, n, field(p, "min"))
	v.boundLength(a.Max, n, field(p, "max"))

	if a.Normalized && (a.ComponentType == ComponentFloat || a.ComponentType == ComponentUnsignedInt) {
		v.fail(field(p, "normalized"), Invalid)
	}
	if a.ByteOffset%uint64(a.ComponentType.Size()) != 0 {
		v.fail(field(p, "byteOffset"), Invalid)
	}

	if a.BufferView != nil {
		bv, _ := v.root.BufferView(*a.BufferView)
		elem := uint64(a.ElementSize())
		stride := uint64(bv.Stride())
		if stride == 0 {
			stride = elem
		}
		if stride < elem {
			v.fail(field(p, "bufferView"), Invalid)
		} else if a.Count > 0 {
			if !fitsView(a.ByteOffset, stride, a.Count, elem, bv.ByteLength) {
				v.fail(field(p, "count"), Invalid)
			}
		}
	}

	if s := a.Sparse; s != nil {
		sp := field(p, "sparse")
		if s.Count < 1 || s.Count > a.Count {
			v.fail(field(sp, "count"), Invalid)
		}
		if bv, ok := v.root.BufferView(s.Indices.BufferView); ok && bv.Target != nil {
			v.fail(field(field(sp, "indices"), "bufferView"), Invalid)
		}
		if bv, ok := v.root.BufferView(s.Values.BufferView); ok && bv.Target != nil {
			v.fail(field(field(sp, "values"), "bufferView"), Invalid)
		}
	}
}

// boundLength checks that a min or max array holds one number per component.
func (v *validator) boundLength(raw json.RawMessage, n int, p pathFn) {
	if len(raw) == 0 {
		return
	}
	var values []float64
	if err := json.Unmarshal(raw, &values); err != nil || len(values) != n {
		v.fail(p, Invalid)
	}
}

func (v *validator) completeAnimation(a *Animation, p pathFn) {
	for j := range a.Samplers {
		s := &a.Samplers[j]
		sp := item(field(p, "samplers"), j)
		in, _ := v.root.Accessor(s.Input)
		if in.Type != Scalar || in.ComponentType != ComponentFloat {
			v.fail(field(sp, "input"), Invalid)
		}
		out, _ := v.root.Accessor(s.Output)
		if s.Mode() == InterpolationCubicSpline && in.Count > 0 && out.Count%3 != 0 {
			v.fail(field(sp, "output"), Invalid)
		}
	}

	for j := range a.Channels {
		c := &a.Channels[j]
		if c.Target.Path != PropertyWeights || c.Target.Node == nil {
			continue
		}
		node, _ := v.root.Node(*c.Target.Node)
		if node.Mesh == nil {
			v.fail(field(field(item(field(p, "channels"), j), "target"), "node"), Invalid)
		}
	}
}

func (v *validator) completeCamera(c *Camera, p pathFn) {
	if pc := c.Perspective; pc != nil {
		pp := field(p, "perspective")
		if pc.AspectRatio != nil && *pc.AspectRatio <= 0 {
			v.fail(field(pp, "aspectRatio"), Invalid)
		}
		if pc.Yfov <= 0 {
			v.fail(field(pp, "yfov"), Invalid)
		}
		if pc.Znear <= 0 {
			v.fail(field(pp, "znear"), Invalid)
		}
		if pc.Zfar != nil && *pc.Zfar <= pc.Znear {
			v.fail(field(pp, "zfar"), Invalid)
		}
	}
	if oc := c.Orthographic; oc != nil {
		op := field(p, "orthographic")
		if oc.Xmag == 0 {
			v.fail(field(op, "xmag"), Invalid)
		}
		if oc.Ymag == 0 {
			v.fail(field(op, "ymag"), Invalid)
		}
		if oc.Znear < 0 {
			v.fail(field(op, "znear"), Invalid)
		}
		if oc.Zfar <= 0 || oc.Zfar <= oc.Znear {
			v.fail(field(op, "zfar"), Invalid)
		}
	}
}

func (v *validator) unit(x float32, p pathFn) {
	if x < 0 || x > 1 {
		v.fail(p, Invalid)
	}
}

func (v *validator) completeMaterial(m *Material, p pathFn) {
	if pbr := m.PBRMetallicRoughness; pbr != nil {
		pp := field(p, "pbrMetallicRoughness")
		if pbr.BaseColorFactor != nil {
			for _, c := range pbr.BaseColorFactor {
				if c < 0 || c > 1 {
					v.fail(field(pp, "baseColorFactor"), Invalid)
					break
				}
			}
		}
		if pbr.MetallicFactor != nil {
			v.unit(*pbr.MetallicFactor, field(pp, "metallicFactor"))
		}
		if pbr.RoughnessFactor != nil {
			v.unit(*pbr.RoughnessFactor, field(pp, "roughnessFactor"))
		}
	}
	if m.EmissiveFactor != nil {
		for _, c := range m.EmissiveFactor {
			if c < 0 || c > 1 {
				v.fail(field(p, "emissiveFactor"), Invalid)
				break
			}
		}
	}
	if t := m.OcclusionTexture; t != nil && t.Strength != nil {
		v.unit(*t.Strength, field(field(p, "occlusionTexture"), "strength"))
	}
	if m.AlphaCutoff != nil && *m.AlphaCutoff < 0 {
		v.fail(field(p, "alphaCutoff"), Invalid)
	}
}

func (v *validator) completeMesh(m *Mesh, p pathFn) {
	for j := range m.Primitives {
		prim := &m.Primitives[j]
		pp := item(field(p, "primitives"), j)

		// Every attribute of a primitive describes the same vertices.
		var count uint64
		for k, name := range prim.Attributes.Names() {
			a, _ := v.root.Accessor(prim.Attributes[name])
			if k == 0 {
				count = a.Count
			} else if a.Count != count {
				v.fail(key(field(pp, "attributes"), name), Invalid)
			}
		}

		if prim.Indices != nil {
			a, _ := v.root.Accessor(*prim.Indices)
			switch {
			case a.Type != Scalar:
				v.fail(field(pp, "indices"), Invalid)
			case a.ComponentType != ComponentUnsignedByte &&
				a.ComponentType != ComponentUnsignedShort &&
				a.ComponentType != ComponentUnsignedInt:
				v.fail(field(pp, "indices"), Invalid)
			}
		}

		if j > 0 && len(prim.Targets) != len(m.Primitives[0].Targets) {
			v.fail(field(pp, "targets"), Invalid)
		}
	}

	if m.Weights != nil && len(m.Primitives) > 0 && len(m.Weights) != len(m.Primitives[0].Targets) {
		v.fail(field(p, "weights"), Invalid)
	}
}

func (v *validator) completeNode(n *Node, p pathFn) {
	if n.Matrix != nil && n.HasTRS() {
		v.fail(field(p, "matrix"), Invalid)
	}
	if n.Rotation != nil {
		for _, c := range n.Rotation {
			if c < -1 || c > 1 {
				v.fail(field(p, "rotation"), Invalid)
				break
			}
		}
	}
	if n.Weights != nil && n.Mesh == nil {
		v.fail(field(p, "weights"), Invalid)
	}
}

func (v *validator) completeSkin(s *Skin, p pathFn) {
	if s.InverseBindMatrices == nil {
		return
	}
	a, _ := v.root.Accessor(*s.InverseBindMatrices)
	if a.Type != Mat4 || a.ComponentType != ComponentFloat || a.Count < uint64(len(s.Joints)) {
		v.fail(field(p, "inverseBindMatrices"), Invalid)
	}
}

// fitsView reports whether count elements of size bytes, stride apart and
// starting at offset, lie inside length bytes. No intermediate sum can wrap.
func fitsView(offset, stride, count, size, length uint64) bool {
	if count == 0 {
		return true
	}
	hi, body := bits.Mul64(stride, count-1)
	return hi == 0 && offset <= length && size <= length-offset && body <= length-offset-size
}
