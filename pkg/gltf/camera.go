package gltf

// Camera projection types.
const (
	CameraPerspective  = "perspective"
	CameraOrthographic = "orthographic"
)

// Camera is a projection.
type Camera struct {
	Type         string        `json:"type"`
	Perspective  *Perspective  `json:"perspective,omitempty"`
	Orthographic *Orthographic `json:"orthographic,omitempty"`
	Name         string        `json:"name,omitempty"`
	Extensible

	missing absent
}

// UnmarshalJSON decodes a camera and records absent required fields.
func (c *Camera) UnmarshalJSON(data []byte) error {
	type plain Camera
	missing, err := decodeObject(data, (*plain)(c), "type")
	c.missing = missing
	return err
}

// Perspective is a perspective projection. A nil Zfar means an infinite projection.
type Perspective struct {
	AspectRatio *float32 `json:"aspectRatio,omitempty"`
	Yfov        float32  `json:"yfov"`
	Zfar        *float32 `json:"zfar,omitempty"`
	Znear       float32  `json:"znear"`
	Extensible

	missing absent
}

// UnmarshalJSON decodes a perspective projection and records absent required fields.
func (p *Perspective) UnmarshalJSON(data []byte) error {
	type plain Perspective
	missing, err := decodeObject(data, (*plain)(p), "yfov", "znear")
	p.missing = missing
	return err
}

// Orthographic is an orthographic projection.
type Orthographic struct {
	Xmag  float32 `json:"xmag"`
	Ymag  float32 `json:"ymag"`
	Zfar  float32 `json:"zfar"`
	Znear float32 `json:"znear"`
	Extensible

	missing absent
}

// UnmarshalJSON decodes an orthographic projection and records absent required fields.
func (o *Orthographic) UnmarshalJSON(data []byte) error {
	type plain Orthographic
	missing, err := decodeObject(data, (*plain)(o), "xmag", "ymag", "zfar", "znear")
	o.missing = missing
	return err
}
