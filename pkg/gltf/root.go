package gltf

import (
	"encoding/json"
	"slices"
)

// Extensible carries the open-ended payloads every glTF object may hold.
// Extension payloads are kept as raw JSON and re-encoded in compact form.
type Extensible struct {
	Extensions map[string]json.RawMessage `json:"extensions,omitempty"`
	Extras     json.RawMessage            `json:"extras,omitempty"`
}

// Extension returns the raw payload of a named extension.
func (e *Extensible) Extension(name string) (json.RawMessage, bool) {
	raw, ok := e.Extensions[name]
	return raw, ok
}

// Asset holds metadata about the glTF asset.
type Asset struct {
	Version    string `json:"version"`
	MinVersion string `json:"minVersion,omitempty"`
	Generator  string `json:"generator,omitempty"`
	Copyright  string `json:"copyright,omitempty"`
	Extensible

	missing absent
}

// UnmarshalJSON decodes an asset and records absent required fields.
func (a *Asset) UnmarshalJSON(data []byte) error {
	type plain Asset
	missing, err := decodeObject(data, (*plain)(a), "version")
	a.missing = missing
	return err
}

// Root is the top-level glTF document. It is built once by Unmarshal and
// never modified by this package afterwards.
type Root struct {
	Accessors          []Accessor     `json:"accessors,omitempty"`
	Animations         []Animation    `json:"animations,omitempty"`
	Asset              Asset          `json:"asset"`
	Buffers            []Buffer       `json:"buffers,omitempty"`
	BufferViews        []BufferView   `json:"bufferViews,omitempty"`
	Cameras            []Camera       `json:"cameras,omitempty"`
	ExtensionsUsed     []string       `json:"extensionsUsed,omitempty"`
	ExtensionsRequired []string       `json:"extensionsRequired,omitempty"`
	Images             []Image        `json:"images,omitempty"`
	Materials          []Material     `json:"materials,omitempty"`
	Meshes             []Mesh         `json:"meshes,omitempty"`
	Nodes              []Node         `json:"nodes,omitempty"`
	Samplers           []Sampler      `json:"samplers,omitempty"`
	SceneIndex         *Index[Scene]  `json:"scene,omitempty"`
	Scenes             []Scene        `json:"scenes,omitempty"`
	Skins              []Skin         `json:"skins,omitempty"`
	Textures           []Texture      `json:"textures,omitempty"`
	Extensible

	missing absent
}

// UnmarshalJSON decodes the document and records an absent asset object.
func (r *Root) UnmarshalJSON(data []byte) error {
	type plain Root
	missing, err := decodeObject(data, (*plain)(r), "asset")
	r.missing = missing
	return err
}

// DefaultScene returns the scene named by the top-level "scene" property.
func (r *Root) DefaultScene() (*Scene, bool) {
	if r.SceneIndex == nil {
		return nil, false
	}
	return r.Scene(*r.SceneIndex)
}

// SceneNodes returns every node reachable from the roots of scene, in depth-first order.
// Nodes reachable twice are listed once.
func (r *Root) SceneNodes(scene *Scene) []Index[Node] {
	var out []Index[Node]
	seen := make(map[Index[Node]]bool)

	var walk func(i Index[Node])
	walk = func(i Index[Node]) {
		if seen[i] {
			return
		}
		node, ok := r.Node(i)
		if !ok {
			return
		}
		seen[i] = true
		out = append(out, i)
		for _, child := range node.Children {
			walk(child)
		}
	}

	for _, i := range scene.Nodes {
		walk(i)
	}
	return out
}

// Parents maps every child node to its parent. Root nodes have no entry.
func (r *Root) Parents() map[Index[Node]]Index[Node] {
	parents := make(map[Index[Node]]Index[Node])
	for i := range r.Nodes {
		for _, child := range r.Nodes[i].Children {
			parents[child] = Index[Node](i)
		}
	}
	return parents
}

// UsesExtension reports whether name is listed in extensionsUsed.
func (r *Root) UsesExtension(name string) bool {
	return slices.Contains(r.ExtensionsUsed, name)
}

// RequiresExtension reports whether name is listed in extensionsRequired.
func (r *Root) RequiresExtension(name string) bool {
	return slices.Contains(r.ExtensionsRequired, name)
}
