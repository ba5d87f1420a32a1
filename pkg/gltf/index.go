package gltf

import "strconv"

// Index is a typed offset into one of the Root collections.
// An Index[Accessor] can only be resolved against Root.Accessors.
type Index[T any] uint32

// Int returns the index as an int.
func (i Index[T]) Int() int {
	return int(i)
}

// String returns the decimal index.
func (i Index[T]) String() string {
	return strconv.FormatUint(uint64(i), 10)
}

// Ref returns a pointer to a copy of i, for optional index fields.
func Ref[T any](i Index[T]) *Index[T] {
	return &i
}

// collection returns the slice of Root that an Index[T] refers to.
func collection[T any](r *Root) []T {
	var items any
	switch any((*T)(nil)).(type) {
	case *Accessor:
		items = r.Accessors
	case *Animation:
		items = r.Animations
	case *Buffer:
		items = r.Buffers
	case *BufferView:
		items = r.BufferViews
	case *Camera:
		items = r.Cameras
	case *Image:
		items = r.Images
	case *Material:
		items = r.Materials
	case *Mesh:
		items = r.Meshes
	case *Node:
		items = r.Nodes
	case *Sampler:
		items = r.Samplers
	case *Scene:
		items = r.Scenes
	case *Skin:
		items = r.Skins
	case *Texture:
		items = r.Textures
	}
	s, _ := items.([]T)
	return s
}

// Get resolves an index against the matching collection of root.
// It returns false when the index is out of bounds. The returned pointer
// is stable for the lifetime of root.
func Get[T any](root *Root, i Index[T]) (*T, bool) {
	if root == nil {
		return nil, false
	}
	items := collection[T](root)
	if uint64(i) >= uint64(len(items)) {
		return nil, false
	}
	return &items[i], true
}

// Count returns the number of objects an Index[T] can address in root.
func Count[T any](root *Root) int {
	if root == nil {
		return 0
	}
	return len(collection[T](root))
}

// Accessor resolves an accessor index.
func (r *Root) Accessor(i Index[Accessor]) (*Accessor, bool) { return Get(r, i) }

// Animation resolves an animation index.
func (r *Root) Animation(i Index[Animation]) (*Animation, bool) { return Get(r, i) }

// Buffer resolves a buffer index.
func (r *Root) Buffer(i Index[Buffer]) (*Buffer, bool) { return Get(r, i) }

// BufferView resolves a buffer view index.
func (r *Root) BufferView(i Index[BufferView]) (*BufferView, bool) { return Get(r, i) }

// Camera resolves a camera index.
func (r *Root) Camera(i Index[Camera]) (*Camera, bool) { return Get(r, i) }

// Image resolves an image index.
func (r *Root) Image(i Index[Image]) (*Image, bool) { return Get(r, i) }

// Material resolves a material index.
func (r *Root) Material(i Index[Material]) (*Material, bool) { return Get(r, i) }

// Mesh resolves a mesh index.
func (r *Root) Mesh(i Index[Mesh]) (*Mesh, bool) { return Get(r, i) }

// Node resolves a node index.
func (r *Root) Node(i Index[Node]) (*Node, bool) { return Get(r, i) }

// Sampler resolves a texture sampler index.
func (r *Root) Sampler(i Index[Sampler]) (*Sampler, bool) { return Get(r, i) }

// Scene resolves a scene index.
func (r *Root) Scene(i Index[Scene]) (*Scene, bool) { return Get(r, i) }

// Skin resolves a skin index.
func (r *Root) Skin(i Index[Skin]) (*Skin, bool) { return Get(r, i) }

// Texture resolves a texture index.
func (r *Root) Texture(i Index[Texture]) (*Texture, bool) { return Get(r, i) }
