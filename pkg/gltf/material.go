package gltf

// AlphaMode controls how the alpha channel is interpreted.
type AlphaMode string

// Alpha modes.
const (
	AlphaOpaque AlphaMode = "OPAQUE"
	AlphaMask   AlphaMode = "MASK"
	AlphaBlend  AlphaMode = "BLEND"
)

// Valid reports whether m is a defined alpha mode.
func (m AlphaMode) Valid() bool {
	return m == AlphaOpaque || m == AlphaMask || m == AlphaBlend
}

// Material describes surface appearance. Nil pointers mean the glTF default applies.
type Material struct {
	PBRMetallicRoughness *PBRMetallicRoughness `json:"pbrMetallicRoughness,omitempty"`
	NormalTexture        *NormalTextureInfo    `json:"normalTexture,omitempty"`
	OcclusionTexture     *OcclusionTextureInfo `json:"occlusionTexture,omitempty"`
	EmissiveTexture      *TextureInfo          `json:"emissiveTexture,omitempty"`
	EmissiveFactor       *[3]float32           `json:"emissiveFactor,omitempty"`
	AlphaMode            AlphaMode             `json:"alphaMode,omitempty"`
	AlphaCutoff          *float32              `json:"alphaCutoff,omitempty"`
	DoubleSided          bool                  `json:"doubleSided,omitempty"`
	Name                 string                `json:"name,omitempty"`
	Extensible
}

// Alpha returns the alpha mode, defaulting to opaque.
func (m *Material) Alpha() AlphaMode {
	if m.AlphaMode == "" {
		return AlphaOpaque
	}
	return m.AlphaMode
}

// Cutoff returns the alpha cutoff, defaulting to 0.5.
func (m *Material) Cutoff() float32 {
	if m.AlphaCutoff == nil {
		return 0.5
	}
	return *m.AlphaCutoff
}

// Emissive returns the emissive factor, defaulting to black.
func (m *Material) Emissive() [3]float32 {
	if m.EmissiveFactor == nil {
		return [3]float32{}
	}
	return *m.EmissiveFactor
}

// PBRMetallicRoughness is the metallic-roughness material model.
type PBRMetallicRoughness struct {
	BaseColorFactor          *[4]float32  `json:"baseColorFactor,omitempty"`
	BaseColorTexture         *TextureInfo `json:"baseColorTexture,omitempty"`
	MetallicFactor           *float32     `json:"metallicFactor,omitempty"`
	RoughnessFactor          *float32     `json:"roughnessFactor,omitempty"`
	MetallicRoughnessTexture *TextureInfo `json:"metallicRoughnessTexture,omitempty"`
	Extensible
}

// BaseColor returns the base color factor, defaulting to opaque white.
func (p *PBRMetallicRoughness) BaseColor() [4]float32 {
	if p == nil || p.BaseColorFactor == nil {
		return [4]float32{1, 1, 1, 1}
	}
	return *p.BaseColorFactor
}

// Metallic returns the metallic factor, defaulting to 1.
func (p *PBRMetallicRoughness) Metallic() float32 {
	if p == nil || p.MetallicFactor == nil {
		return 1
	}
	return *p.MetallicFactor
}

// Roughness returns the roughness factor, defaulting to 1.
func (p *PBRMetallicRoughness) Roughness() float32 {
	if p == nil || p.RoughnessFactor == nil {
		return 1
	}
	return *p.RoughnessFactor
}

// TextureInfo references a texture and the texture coordinate set it uses.
type TextureInfo struct {
	Index    Index[Texture] `json:"index"`
	TexCoord uint32         `json:"texCoord,omitempty"`
	Extensible

	missing absent
}

// UnmarshalJSON decodes a texture reference and records absent required fields.
func (t *TextureInfo) UnmarshalJSON(data []byte) error {
	type plain TextureInfo
	missing, err := decodeObject(data, (*plain)(t), "index")
	t.missing = missing
	return err
}

// NormalTextureInfo is a normal map reference.
type NormalTextureInfo struct {
	Index    Index[Texture] `json:"index"`
	TexCoord uint32         `json:"texCoord,omitempty"`
	Scale    *float32       `json:"scale,omitempty"`
	Extensible

	missing absent
}

// UnmarshalJSON decodes a normal map reference and records absent required fields.
func (t *NormalTextureInfo) UnmarshalJSON(data []byte) error {
	type plain NormalTextureInfo
	missing, err := decodeObject(data, (*plain)(t), "index")
	t.missing = missing
	return err
}

// NormalScale returns the scale, defaulting to 1.
func (t *NormalTextureInfo) NormalScale() float32 {
	if t.Scale == nil {
		return 1
	}
	return *t.Scale
}

// OcclusionTextureInfo is an occlusion map reference.
type OcclusionTextureInfo struct {
	Index    Index[Texture] `json:"index"`
	TexCoord uint32         `json:"texCoord,omitempty"`
	Strength *float32       `json:"strength,omitempty"`
	Extensible

	missing absent
}

// UnmarshalJSON decodes an occlusion map reference and records absent required fields.
func (t *OcclusionTextureInfo) UnmarshalJSON(data []byte) error {
	type plain OcclusionTextureInfo
	missing, err := decodeObject(data, (*plain)(t), "index")
	t.missing = missing
	return err
}

// OcclusionStrength returns the strength, defaulting to 1.
func (t *OcclusionTextureInfo) OcclusionStrength() float32 {
	if t.Strength == nil {
		return 1
	}
	return *t.Strength
}
