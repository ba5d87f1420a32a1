package gltf

import "slices"

// Filter is a texture minification or magnification filter.
type Filter uint32

// Texture filters.
const (
	FilterNearest              Filter = 9728
	FilterLinear               Filter = 9729
	FilterNearestMipmapNearest Filter = 9984
	FilterLinearMipmapNearest  Filter = 9985
	FilterNearestMipmapLinear  Filter = 9986
	FilterLinearMipmapLinear   Filter = 9987
)

// ValidMag reports whether f may be used as a magnification filter.
func (f Filter) ValidMag() bool {
	return f == FilterNearest || f == FilterLinear
}

// ValidMin reports whether f may be used as a minification filter.
func (f Filter) ValidMin() bool {
	return f == FilterNearest || f == FilterLinear || (f >= FilterNearestMipmapNearest && f <= FilterLinearMipmapLinear)
}

// WrapMode is a texture coordinate wrapping mode.
type WrapMode uint32

// Wrapping modes.
const (
	WrapClampToEdge    WrapMode = 33071
	WrapMirroredRepeat WrapMode = 33648
	WrapRepeat         WrapMode = 10497
)

// Valid reports whether w is a defined wrapping mode.
func (w WrapMode) Valid() bool {
	return w == WrapClampToEdge || w == WrapMirroredRepeat || w == WrapRepeat
}

// Sampler holds texture filtering and wrapping state. Zero values mean unset.
type Sampler struct {
	MagFilter Filter   `json:"magFilter,omitempty"`
	MinFilter Filter   `json:"minFilter,omitempty"`
	WrapS     WrapMode `json:"wrapS,omitempty"`
	WrapT     WrapMode `json:"wrapT,omitempty"`
	Name      string   `json:"name,omitempty"`
	Extensible
}

// Wrap returns the S and T wrapping modes, defaulting to repeat.
func (s *Sampler) Wrap() (WrapMode, WrapMode) {
	ws, wt := s.WrapS, s.WrapT
	if ws == 0 {
		ws = WrapRepeat
	}
	if wt == 0 {
		wt = WrapRepeat
	}
	return ws, wt
}

// Texture pairs an image with a sampler.
type Texture struct {
	Sampler *Index[Sampler] `json:"sampler,omitempty"`
	Source  *Index[Image]   `json:"source,omitempty"`
	Name    string          `json:"name,omitempty"`
	Extensible
}

// MIME types an image may declare.
var ImageMIMETypes = []string{"image/jpeg", "image/png", "image/webp"}

// Image is texture data stored at a URI or in a buffer view.
type Image struct {
	URI        string             `json:"uri,omitempty"`
	MimeType   string             `json:"mimeType,omitempty"`
	BufferView *Index[BufferView] `json:"bufferView,omitempty"`
	Name       string             `json:"name,omitempty"`
	Extensible
}

// ValidMIMEType reports whether the declared MIME type is one glTF allows.
func (i *Image) ValidMIMEType() bool {
	return slices.Contains(ImageMIMETypes, i.MimeType)
}
