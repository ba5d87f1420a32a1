package gltf

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/midgard-gltf/pkg/glb"
)

// triangleJSON is a small valid document: one indexed triangle.
const triangleJSON = `{
  "asset": {"version": "2.0", "generator": "test"},
  "buffers": [{"byteLength": 44}],
  "bufferViews": [
    {"buffer": 0, "byteLength": 36},
    {"buffer": 0, "byteOffset": 36, "byteLength": 6}
  ],
  "accessors": [
    {"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3", "min": [0, 0, 0], "max": [1, 1, 0]},
    {"bufferView": 1, "componentType": 5123, "count": 3, "type": "SCALAR", "min": [0], "max": [2]}
  ],
  "meshes": [{"primitives": [{"attributes": {"POSITION": 0}, "indices": 1}]}],
  "nodes": [{"mesh": 0, "children": [1]}, {"name": "child"}],
  "scenes": [{"nodes": [0]}],
  "scene": 0
}`

func mustUnmarshal(t *testing.T, data string) *Root {
	t.Helper()
	root, err := Unmarshal([]byte(data))
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	return root
}

func TestUnmarshal_Triangle(t *testing.T) {
	root := mustUnmarshal(t, triangleJSON)

	if root.Asset.Version != "2.0" {
		t.Errorf("expected version 2.0, got %q", root.Asset.Version)
	}
	if len(root.Accessors) != 2 {
		t.Fatalf("expected 2 accessors, got %d", len(root.Accessors))
	}

	a := root.Accessors[0]
	if a.ComponentType != ComponentFloat || a.Type != Vec3 || a.Count != 3 {
		t.Errorf("unexpected accessor %+v", a)
	}
	if a.ElementSize() != 12 {
		t.Errorf("expected element size 12, got %d", a.ElementSize())
	}

	prim := root.Meshes[0].Primitives[0]
	if prim.DrawMode() != ModeTriangles {
		t.Errorf("expected default mode TRIANGLES, got %s", prim.DrawMode())
	}
	if i, ok := prim.Attribute(Position); !ok || i != 0 {
		t.Errorf("expected POSITION -> 0, got %d %v", i, ok)
	}

	scene, ok := root.DefaultScene()
	if !ok {
		t.Fatal("expected default scene")
	}
	nodes := root.SceneNodes(scene)
	if len(nodes) != 2 || nodes[0] != 0 || nodes[1] != 1 {
		t.Errorf("unexpected scene nodes %v", nodes)
	}
	if parent, ok := root.Parents()[1]; !ok || parent != 0 {
		t.Errorf("expected node 1 parent 0, got %d %v", parent, ok)
	}
}

func TestUnmarshal_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{"asset":`},
		{"negative index", `{"asset":{"version":"2.0"},"nodes":[{"mesh":-1}]}`},
		{"fractional index", `{"asset":{"version":"2.0"},"nodes":[{"mesh":1.5}]}`},
		{"wrong type", `{"asset":{"version":"2.0"},"buffers":[{"byteLength":"ten"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal([]byte(tt.data))
			if !errors.Is(err, ErrMalformedJSON) {
				t.Errorf("expected ErrMalformedJSON, got %v", err)
			}
		})
	}
}

func TestUnmarshal_BOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, triangleJSON...)

	root, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if root.Asset.Generator != "test" {
		t.Errorf("expected generator test, got %q", root.Asset.Generator)
	}
}

func TestGet(t *testing.T) {
	root := mustUnmarshal(t, triangleJSON)

	a1, ok := Get(root, Index[Accessor](1))
	if !ok {
		t.Fatal("expected accessor 1")
	}
	a2, _ := root.Accessor(1)
	if a1 != a2 {
		t.Error("expected the same pointer for the same index")
	}

	if _, ok := Get(root, Index[Accessor](2)); ok {
		t.Error("expected accessor 2 to be out of bounds")
	}
	if _, ok := root.Material(0); ok {
		t.Error("expected no materials")
	}
	if Count[Node](root) != 2 {
		t.Errorf("expected 2 nodes, got %d", Count[Node](root))
	}
	if _, ok := Get[Node](nil, 0); ok {
		t.Error("expected lookup on nil root to fail")
	}
}

func TestExtensionsRoundTrip(t *testing.T) {
	data := `{"asset":{"version":"2.0"},` +
		`"extensionsUsed":["VENDOR_thing"],` +
		`"extensions":{"VENDOR_thing":{"a":[1,2,{"b":null}],"c":"d"}},` +
		`"nodes":[{"extensions":{"VENDOR_thing":{"light":3}},"extras":{"tag":[true,false]}}]}`

	root := mustUnmarshal(t, data)
	out, err := Marshal(root)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	again := mustUnmarshal(t, string(out))

	if got := string(again.Extensions["VENDOR_thing"]); got != `{"a":[1,2,{"b":null}],"c":"d"}` {
		t.Errorf("root extension changed: %s", got)
	}
	raw, ok := again.Nodes[0].Extension("VENDOR_thing")
	if !ok || string(raw) != `{"light":3}` {
		t.Errorf("node extension changed: %s", raw)
	}
	if string(again.Nodes[0].Extras) != `{"tag":[true,false]}` {
		t.Errorf("node extras changed: %s", again.Nodes[0].Extras)
	}
	if !again.UsesExtension("VENDOR_thing") || again.RequiresExtension("VENDOR_thing") {
		t.Error("unexpected extension lists")
	}
}

func TestMarshal_OmitsDefaults(t *testing.T) {
	root := mustUnmarshal(t, triangleJSON)
	out, err := Marshal(root)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	for _, unwanted := range []string{`"mode"`, `"normalized"`, `"extensions"`, `"byteStride"`} {
		if bytes.Contains(out, []byte(unwanted)) {
			t.Errorf("expected %s to be omitted: %s", unwanted, out)
		}
	}
	if !bytes.Contains(out, []byte(`"byteOffset":36`)) {
		t.Errorf("expected explicit byteOffset to survive: %s", out)
	}
}

func TestParse_JSONAndGLB(t *testing.T) {
	doc, err := Parse([]byte(triangleJSON))
	if err != nil {
		t.Fatalf("Parse JSON failed: %v", err)
	}
	if doc.Bin != nil {
		t.Error("expected no binary payload for plain JSON")
	}

	bin := make([]byte, 44)
	doc.Bin = bin
	packed, err := doc.EncodeGLB()
	if err != nil {
		t.Fatalf("EncodeGLB failed: %v", err)
	}
	if !IsGLB(packed) {
		t.Fatal("expected GLB magic")
	}

	again, err := Parse(packed)
	if err != nil {
		t.Fatalf("Parse GLB failed: %v", err)
	}
	if len(again.Bin) != 44 {
		t.Errorf("expected 44 byte BIN chunk, got %d", len(again.Bin))
	}
	if len(again.Root.Meshes) != 1 {
		t.Errorf("expected 1 mesh, got %d", len(again.Root.Meshes))
	}
}

func TestParse_BadGLB(t *testing.T) {
	packed, _ := glb.New([]byte(triangleJSON), nil).Encode()
	packed[4] = 1

	_, err := Parse(packed)
	if !errors.Is(err, glb.ErrUnsupportedVersion) {
		t.Errorf("expected ErrUnsupportedVersion, got %v", err)
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "triangle.gltf")
	if err := os.WriteFile(path, []byte(triangleJSON), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	doc, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if len(doc.Root.Nodes) != 2 {
		t.Errorf("expected 2 nodes, got %d", len(doc.Root.Nodes))
	}
}

func TestBuffer_SourceURI(t *testing.T) {
	b := Buffer{ByteLength: 4}
	if !b.IsBinaryChunk() || b.SourceURI() != BinaryChunkURI {
		t.Errorf("expected binary chunk marker, got %q", b.SourceURI())
	}

	b.URI = "data.bin"
	if b.IsBinaryChunk() || b.SourceURI() != "data.bin" {
		t.Errorf("expected data.bin, got %q", b.SourceURI())
	}
}

func TestParseSemantic(t *testing.T) {
	tests := []struct {
		name string
		want Semantic
		ok   bool
	}{
		{"POSITION", Position, true},
		{"NORMAL", Normal, true},
		{"TANGENT", Tangent, true},
		{"TEXCOORD_1", TexCoord(1), true},
		{"COLOR_0", Color(0), true},
		{"JOINTS_2", Joints(2), true},
		{"WEIGHTS_0", Weights(0), true},
		{"_TEMPERATURE", Semantic{Kind: SemanticCustom, Name: "_TEMPERATURE"}, true},
		{"TEXCOORD_", Semantic{}, false},
		{"TEXCOORD_x", Semantic{}, false},
		{"position", Semantic{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseSemantic(tt.name)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ParseSemantic(%q) = %+v, %v; want %+v, %v", tt.name, got, ok, tt.want, tt.ok)
			}
			if ok && got.String() != tt.name {
				t.Errorf("String() = %q, want %q", got.String(), tt.name)
			}
		})
	}
}

func TestComponentType(t *testing.T) {
	tests := []struct {
		ct   ComponentType
		size int
		name string
	}{
		{ComponentByte, 1, "i8"},
		{ComponentUnsignedByte, 1, "u8"},
		{ComponentShort, 2, "i16"},
		{ComponentUnsignedShort, 2, "u16"},
		{ComponentUnsignedInt, 4, "u32"},
		{ComponentFloat, 4, "f32"},
		{5124, 0, "Unknown(5124)"},
	}

	for _, tt := range tests {
		if tt.ct.Size() != tt.size {
			t.Errorf("%d: size %d, want %d", tt.ct, tt.ct.Size(), tt.size)
		}
		if tt.ct.String() != tt.name {
			t.Errorf("%d: name %s, want %s", tt.ct, tt.ct.String(), tt.name)
		}
	}
}

func TestMaterialDefaults(t *testing.T) {
	root := mustUnmarshal(t, `{"asset":{"version":"2.0"},"materials":[{}]}`)
	m := &root.Materials[0]

	if m.Alpha() != AlphaOpaque || m.Cutoff() != 0.5 || m.Emissive() != [3]float32{} {
		t.Errorf("unexpected material defaults")
	}
	if m.PBRMetallicRoughness.BaseColor() != [4]float32{1, 1, 1, 1} {
		t.Errorf("unexpected base color default")
	}
	if m.PBRMetallicRoughness.Metallic() != 1 || m.PBRMetallicRoughness.Roughness() != 1 {
		t.Errorf("unexpected metallic/roughness defaults")
	}
}
