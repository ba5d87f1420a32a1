package gltf

// Interpolation is the keyframe interpolation algorithm.
type Interpolation string

// Interpolation algorithms.
const (
	InterpolationLinear      Interpolation = "LINEAR"
	InterpolationStep        Interpolation = "STEP"
	InterpolationCubicSpline Interpolation = "CUBICSPLINE"
)

// Valid reports whether i is a defined interpolation.
func (i Interpolation) Valid() bool {
	switch i {
	case InterpolationLinear, InterpolationStep, InterpolationCubicSpline:
		return true
	}
	return false
}

// Property is the node property an animation channel targets.
type Property string

// Animated properties.
const (
	PropertyTranslation Property = "translation"
	PropertyRotation    Property = "rotation"
	PropertyScale       Property = "scale"
	PropertyWeights     Property = "weights"
)

// Valid reports whether p is a defined property.
func (p Property) Valid() bool {
	switch p {
	case PropertyTranslation, PropertyRotation, PropertyScale, PropertyWeights:
		return true
	}
	return false
}

// Animation is a keyframe animation.
type Animation struct {
	Channels []Channel          `json:"channels"`
	Samplers []AnimationSampler `json:"samplers"`
	Name     string             `json:"name,omitempty"`
	Extensible

	missing absent
}

// UnmarshalJSON decodes an animation and records absent required fields.
func (a *Animation) UnmarshalJSON(data []byte) error {
	type plain Animation
	missing, err := decodeObject(data, (*plain)(a), "channels", "samplers")
	a.missing = missing
	return err
}

// Sampler resolves a channel's sampler index against this animation.
func (a *Animation) Sampler(i Index[AnimationSampler]) (*AnimationSampler, bool) {
	if uint64(i) >= uint64(len(a.Samplers)) {
		return nil, false
	}
	return &a.Samplers[i], true
}

// Channel connects an animation sampler to a node property.
type Channel struct {
	// Sampler indexes the owning animation's samplers, not a Root collection.
	Sampler Index[AnimationSampler] `json:"sampler"`
	Target  ChannelTarget           `json:"target"`
	Extensible

	missing absent
}

// UnmarshalJSON decodes a channel and records absent required fields.
func (c *Channel) UnmarshalJSON(data []byte) error {
	type plain Channel
	missing, err := decodeObject(data, (*plain)(c), "sampler", "target")
	c.missing = missing
	return err
}

// ChannelTarget names the node and property a channel animates.
type ChannelTarget struct {
	Node *Index[Node] `json:"node,omitempty"`
	Path Property     `json:"path"`
	Extensible

	missing absent
}

// UnmarshalJSON decodes a channel target and records absent required fields.
func (t *ChannelTarget) UnmarshalJSON(data []byte) error {
	type plain ChannelTarget
	missing, err := decodeObject(data, (*plain)(t), "path")
	t.missing = missing
	return err
}

// AnimationSampler pairs keyframe times with output values.
type AnimationSampler struct {
	Input         Index[Accessor] `json:"input"`
	Interpolation Interpolation   `json:"interpolation,omitempty"`
	Output        Index[Accessor] `json:"output"`
	Extensible

	missing absent
}

// UnmarshalJSON decodes a sampler and records absent required fields.
func (s *AnimationSampler) UnmarshalJSON(data []byte) error {
	type plain AnimationSampler
	missing, err := decodeObject(data, (*plain)(s), "input", "output")
	s.missing = missing
	return err
}

// Mode returns the interpolation, defaulting to linear.
func (s *AnimationSampler) Mode() Interpolation {
	if s.Interpolation == "" {
		return InterpolationLinear
	}
	return s.Interpolation
}
