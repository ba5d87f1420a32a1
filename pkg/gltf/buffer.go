package gltf

import "fmt"

// BinaryChunkURI is the marker URI used for a buffer stored in the GLB BIN chunk.
// It is a fragment, so it can never collide with a real relative file path.
const BinaryChunkURI = "#bin"

// Byte stride limits for vertex buffer views.
const (
	MinByteStride = 4
	MaxByteStride = 252
)

// Buffer points to binary data.
type Buffer struct {
	ByteLength uint64 `json:"byteLength"`
	URI        string `json:"uri,omitempty"`
	Name       string `json:"name,omitempty"`
	Extensible

	missing absent
}

// UnmarshalJSON decodes a buffer and records absent required fields.
func (b *Buffer) UnmarshalJSON(data []byte) error {
	type plain Buffer
	missing, err := decodeObject(data, (*plain)(b), "byteLength")
	b.missing = missing
	return err
}

// IsBinaryChunk reports whether the buffer refers to the GLB BIN chunk.
func (b *Buffer) IsBinaryChunk() bool {
	return b.URI == ""
}

// SourceURI returns the URI the buffer data comes from, or BinaryChunkURI.
func (b *Buffer) SourceURI() string {
	if b.IsBinaryChunk() {
		return BinaryChunkURI
	}
	return b.URI
}

// Target is the GPU buffer binding hint of a buffer view.
type Target uint32

// Buffer view targets.
const (
	TargetArrayBuffer        Target = 34962
	TargetElementArrayBuffer Target = 34963
)

// String returns the GL constant name.
func (t Target) String() string {
	switch t {
	case TargetArrayBuffer:
		return "ARRAY_BUFFER"
	case TargetElementArrayBuffer:
		return "ELEMENT_ARRAY_BUFFER"
	default:
		return fmt.Sprintf("Unknown(%d)", uint32(t))
	}
}

// Valid reports whether t is a defined target.
func (t Target) Valid() bool {
	return t == TargetArrayBuffer || t == TargetElementArrayBuffer
}

// BufferView is a contiguous byte range of a buffer.
type BufferView struct {
	Buffer     Index[Buffer] `json:"buffer"`
	ByteOffset uint64        `json:"byteOffset,omitempty"`
	ByteLength uint64        `json:"byteLength"`
	ByteStride *uint32       `json:"byteStride,omitempty"`
	Target     *Target       `json:"target,omitempty"`
	Name       string        `json:"name,omitempty"`
	Extensible

	missing absent
}

// UnmarshalJSON decodes a buffer view and records absent required fields.
func (v *BufferView) UnmarshalJSON(data []byte) error {
	type plain BufferView
	missing, err := decodeObject(data, (*plain)(v), "buffer", "byteLength")
	v.missing = missing
	return err
}

// Stride returns the declared byte stride, or 0 when elements are tightly packed.
func (v *BufferView) Stride() int {
	if v.ByteStride == nil {
		return 0
	}
	return int(*v.ByteStride)
}
