package gltf

import (
	"strconv"
	"strings"
)

// Path locates a value in the JSON document, e.g. meshes[0].primitives[0].attributes["POSITION"].
type Path string

// Field appends a member name.
func (p Path) Field(name string) Path {
	if p == "" {
		return Path(name)
	}
	return p + "." + Path(name)
}

// Index appends an array position.
func (p Path) Index(i int) Path {
	return p + "[" + Path(strconv.Itoa(i)) + "]"
}

// Key appends a quoted object key.
func (p Path) Key(key string) Path {
	var b strings.Builder
	b.Grow(len(p) + len(key) + 4)
	b.WriteString(string(p))
	b.WriteString(`["`)
	b.WriteString(key)
	b.WriteString(`"]`)
	return Path(b.String())
}

// String returns the path text.
func (p Path) String() string {
	return string(p)
}

// pathFn builds a path on demand. Validation carries these instead of
// strings so nothing is formatted unless an error is reported.
type pathFn func() Path

func field(p pathFn, name string) pathFn {
	return func() Path { return p().Field(name) }
}

func item(p pathFn, i int) pathFn {
	return func() Path { return p().Index(i) }
}

func key(p pathFn, k string) pathFn {
	return func() Path { return p().Key(k) }
}

func rootPath() Path { return "" }
