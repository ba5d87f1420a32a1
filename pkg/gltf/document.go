// Package gltf implements the glTF 2.0 document model and its validation rules.
package gltf

import (
	"bytes"
	"fmt"
	"os"

	"github.com/Faultbox/midgard-gltf/pkg/glb"
)

// Document is a decoded asset: the object graph, the JSON text it came from
// and the GLB binary payload, if any.
type Document struct {
	Root *Root
	JSON []byte
	Bin  []byte
}

// IsGLB reports whether data starts with the GLB magic.
func IsGLB(data []byte) bool {
	return bytes.HasPrefix(data, []byte(glb.Magic))
}

// Parse decodes either a GLB container or a plain JSON document.
func Parse(data []byte) (*Document, error) {
	if IsGLB(data) {
		g, err := glb.Decode(data)
		if err != nil {
			return nil, err
		}
		return ParseSplit(g.JSON, g.Bin)
	}
	return ParseSplit(data, nil)
}

// ParseSplit decodes a JSON document whose binary payload is supplied separately.
func ParseSplit(jsonData, bin []byte) (*Document, error) {
	root, err := Unmarshal(jsonData)
	if err != nil {
		return nil, err
	}
	return &Document{Root: root, JSON: jsonData, Bin: bin}, nil
}

// ParseFile reads and decodes a .gltf or .glb file.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading glTF file: %w", err)
	}
	return Parse(data)
}

// EncodeGLB packs the document JSON and binary payload into a GLB container.
func (d *Document) EncodeGLB() ([]byte, error) {
	return glb.New(d.JSON, d.Bin).Encode()
}
