package gltf

import "encoding/json"

// minimal runs the checks every reader of the document depends on.
func (v *validator) minimal() {
	r := v.root
	top := pathFn(rootPath)

	for i := range r.Accessors {
		v.minimalAccessor(&r.Accessors[i], item(field(top, "accessors"), i))
	}
	for i := range r.Animations {
		v.minimalAnimation(&r.Animations[i], item(field(top, "animations"), i))
	}

	if r.missing.has("asset") {
		v.fail(field(top, "asset"), Missing)
	} else {
		v.missing(r.Asset.missing, field(top, "asset"))
	}

	for i := range r.Buffers {
		b := &r.Buffers[i]
		p := item(field(top, "buffers"), i)
		v.missing(b.missing, p)
		v.size(b.ByteLength, field(p, "byteLength"))
	}
	for i := range r.BufferViews {
		v.minimalBufferView(&r.BufferViews[i], item(field(top, "bufferViews"), i))
	}
	for i := range r.Cameras {
		v.minimalCamera(&r.Cameras[i], item(field(top, "cameras"), i))
	}

	for i, name := range r.ExtensionsRequired {
		if !v.supported[name] {
			v.fail(item(field(top, "extensionsRequired"), i), Unsupported)
		}
	}

	for i := range r.Images {
		img := &r.Images[i]
		p := item(field(top, "images"), i)
		checkOptional(v, img.BufferView, field(p, "bufferView"))
		if img.URI == "" && img.BufferView == nil {
			v.fail(field(p, "uri"), Missing)
		}
	}
	for i := range r.Materials {
		v.minimalMaterial(&r.Materials[i], item(field(top, "materials"), i))
	}
	for i := range r.Meshes {
		v.minimalMesh(&r.Meshes[i], item(field(top, "meshes"), i))
	}
	for i := range r.Nodes {
		n := &r.Nodes[i]
		p := item(field(top, "nodes"), i)
		checkOptional(v, n.Camera, field(p, "camera"))
		checkIndices(v, n.Children, field(p, "children"))
		checkOptional(v, n.Skin, field(p, "skin"))
		checkOptional(v, n.Mesh, field(p, "mesh"))
	}

	checkOptional(v, r.SceneIndex, field(top, "scene"))
	for i := range r.Scenes {
		checkIndices(v, r.Scenes[i].Nodes, field(item(field(top, "scenes"), i), "nodes"))
	}
	for i := range r.Skins {
		s := &r.Skins[i]
		p := item(field(top, "skins"), i)
		v.missing(s.missing, p)
		checkOptional(v, s.InverseBindMatrices, field(p, "inverseBindMatrices"))
		checkIndices(v, s.Joints, field(p, "joints"))
		checkOptional(v, s.Skeleton, field(p, "skeleton"))
	}
	for i := range r.Textures {
		t := &r.Textures[i]
		p := item(field(top, "textures"), i)
		checkOptional(v, t.Sampler, field(p, "sampler"))
		if t.Source == nil {
			v.fail(field(p, "source"), Missing)
		} else {
			checkIndex(v, *t.Source, field(p, "source"))
		}
	}
}

func (v *validator) minimalAccessor(a *Accessor, p pathFn) {
	v.missing(a.missing, p)
	checkOptional(v, a.BufferView, field(p, "bufferView"))
	v.size(a.ByteOffset, field(p, "byteOffset"))
	v.size(a.Count, field(p, "count"))

	if !a.missing.has("componentType") && !a.ComponentType.Valid() {
		v.fail(field(p, "componentType"), Invalid)
	}
	if !a.missing.has("type") && !a.Type.Valid() {
		v.fail(field(p, "type"), Invalid)
	}
	if a.BufferView == nil && a.Sparse == nil {
		v.fail(field(p, "bufferView"), Missing)
	}

	if s := a.Sparse; s != nil {
		sp := field(p, "sparse")
		v.missing(s.missing, sp)
		v.size(s.Count, field(sp, "count"))

		ip := field(sp, "indices")
		v.missing(s.Indices.missing, ip)
		if !s.Indices.missing.has("bufferView") {
			checkIndex(v, s.Indices.BufferView, field(ip, "bufferView"))
		}
		v.size(s.Indices.ByteOffset, field(ip, "byteOffset"))
		switch s.Indices.ComponentType {
		case ComponentUnsignedByte, ComponentUnsignedShort, ComponentUnsignedInt:
		default:
			if !s.Indices.missing.has("componentType") {
				v.fail(field(ip, "componentType"), Invalid)
			}
		}

		vp := field(sp, "values")
		v.missing(s.Values.missing, vp)
		if !s.Values.missing.has("bufferView") {
			checkIndex(v, s.Values.BufferView, field(vp, "bufferView"))
		}
		v.size(s.Values.ByteOffset, field(vp, "byteOffset"))
	}
}

func (v *validator) minimalAnimation(a *Animation, p pathFn) {
	v.missing(a.missing, p)

	for j := range a.Channels {
		c := &a.Channels[j]
		cp := item(field(p, "channels"), j)
		v.missing(c.missing, cp)
		if _, ok := a.Sampler(c.Sampler); !ok && !c.missing.has("sampler") {
			v.fail(field(cp, "sampler"), IndexOutOfBounds)
		}

		tp := field(cp, "target")
		v.missing(c.Target.missing, tp)
		checkOptional(v, c.Target.Node, field(tp, "node"))
		if !c.Target.missing.has("path") && !c.Target.Path.Valid() {
			v.fail(field(tp, "path"), Invalid)
		}
	}

	for j := range a.Samplers {
		s := &a.Samplers[j]
		sp := item(field(p, "samplers"), j)
		v.missing(s.missing, sp)
		if !s.missing.has("input") {
			checkIndex(v, s.Input, field(sp, "input"))
		}
		if !s.missing.has("output") {
			checkIndex(v, s.Output, field(sp, "output"))
		}
		if s.Interpolation != "" && !s.Interpolation.Valid() {
			v.fail(field(sp, "interpolation"), Invalid)
		}
	}
}

func (v *validator) minimalBufferView(bv *BufferView, p pathFn) {
	v.missing(bv.missing, p)
	okOffset := v.size(bv.ByteOffset, field(p, "byteOffset"))
	okLength := v.size(bv.ByteLength, field(p, "byteLength"))

	if bv.Target != nil && !bv.Target.Valid() {
		v.fail(field(p, "target"), Invalid)
	}
	if bv.missing.has("buffer") {
		return
	}
	if checkIndex(v, bv.Buffer, field(p, "buffer")) && okOffset && okLength {
		b, _ := v.root.Buffer(bv.Buffer)
		if bv.ByteOffset > b.ByteLength || bv.ByteLength > b.ByteLength-bv.ByteOffset {
			v.fail(field(p, "byteLength"), Invalid)
		}
	}
}

func (v *validator) minimalCamera(c *Camera, p pathFn) {
	v.missing(c.missing, p)
	if c.Perspective != nil {
		v.missing(c.Perspective.missing, field(p, "perspective"))
	}
	if c.Orthographic != nil {
		v.missing(c.Orthographic.missing, field(p, "orthographic"))
	}

	switch c.Type {
	case CameraPerspective:
		if c.Perspective == nil {
			v.fail(field(p, "perspective"), Missing)
		}
	case CameraOrthographic:
		if c.Orthographic == nil {
			v.fail(field(p, "orthographic"), Missing)
		}
	default:
		if !c.missing.has("type") {
			v.fail(field(p, "type"), Invalid)
		}
	}
}

func (v *validator) textureInfo(missing absent, i Index[Texture], p pathFn) {
	v.missing(missing, p)
	if !missing.has("index") {
		checkIndex(v, i, field(p, "index"))
	}
}

func (v *validator) minimalMaterial(m *Material, p pathFn) {
	if pbr := m.PBRMetallicRoughness; pbr != nil {
		pp := field(p, "pbrMetallicRoughness")
		if t := pbr.BaseColorTexture; t != nil {
			v.textureInfo(t.missing, t.Index, field(pp, "baseColorTexture"))
		}
		if t := pbr.MetallicRoughnessTexture; t != nil {
			v.textureInfo(t.missing, t.Index, field(pp, "metallicRoughnessTexture"))
		}
	}
	if t := m.NormalTexture; t != nil {
		v.textureInfo(t.missing, t.Index, field(p, "normalTexture"))
	}
	if t := m.OcclusionTexture; t != nil {
		v.textureInfo(t.missing, t.Index, field(p, "occlusionTexture"))
	}
	if t := m.EmissiveTexture; t != nil {
		v.textureInfo(t.missing, t.Index, field(p, "emissiveTexture"))
	}
	if m.AlphaMode != "" && !m.AlphaMode.Valid() {
		v.fail(field(p, "alphaMode"), Invalid)
	}
}

func (v *validator) minimalMesh(m *Mesh, p pathFn) {
	v.missing(m.missing, p)

	for j := range m.Primitives {
		prim := &m.Primitives[j]
		pp := item(field(p, "primitives"), j)
		v.missing(prim.missing, pp)

		ap := field(pp, "attributes")
		for _, name := range prim.Attributes.Names() {
			kp := key(ap, name)
			if _, ok := ParseSemantic(name); !ok {
				v.fail(kp, Invalid)
			}
			checkIndex(v, prim.Attributes[name], kp)
		}
		v.positionBounds(prim, ap)

		checkOptional(v, prim.Indices, field(pp, "indices"))
		checkOptional(v, prim.Material, field(pp, "material"))
		if prim.Mode != nil && !prim.Mode.Valid() {
			v.fail(field(pp, "mode"), Invalid)
		}

		for t, target := range prim.Targets {
			tp := item(field(pp, "targets"), t)
			for _, name := range target.Names() {
				kp := key(tp, name)
				if _, ok := ParseSemantic(name); !ok {
					v.fail(kp, Invalid)
				}
				checkIndex(v, target[name], kp)
			}
		}
	}
}

// positionBounds requires the POSITION accessor to declare three-component min and max.
func (v *validator) positionBounds(prim *Primitive, attributes pathFn) {
	pp := key(attributes, "POSITION")
	i, ok := prim.Attributes["POSITION"]
	if !ok {
		v.fail(pp, Missing)
		return
	}
	a, ok := v.root.Accessor(i)
	if !ok {
		return
	}
	v.vec3Bound(a.Min, field(pp, "min"))
	v.vec3Bound(a.Max, field(pp, "max"))
}

func (v *validator) vec3Bound(raw json.RawMessage, p pathFn) {
	if len(raw) == 0 {
		v.fail(p, Missing)
		return
	}
	var values []float32
	if err := json.Unmarshal(raw, &values); err != nil || len(values) != 3 {
		v.fail(p, Invalid)
	}
}
