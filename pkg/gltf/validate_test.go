package gltf

import (
	"strings"
	"testing"
)

func validate(t *testing.T, data string, level ValidationLevel, opts ...Option) Report {
	t.Helper()
	return Validate(mustUnmarshal(t, data), level, opts...)
}

// withTriangle splices extra top-level members into triangleJSON.
func withTriangle(extra string) string {
	return strings.Replace(triangleJSON, `"scene": 0`, `"scene": 0, `+extra, 1)
}

func TestValidate_ValidDocument(t *testing.T) {
	for _, level := range []ValidationLevel{ValidationMinimal, ValidationComplete} {
		report := validate(t, triangleJSON, level)
		if err := report.Err(); err != nil {
			t.Errorf("%s: expected no errors, got:\n%v", level, err)
		}
	}
}

func TestValidate_MaterialOutOfBounds(t *testing.T) {
	data := strings.Replace(triangleJSON, `"indices": 1}`, `"indices": 1, "material": 0}`, 1)
	report := validate(t, data, ValidationMinimal)

	if len(report) != 1 || !report.Has("meshes[0].primitives[0].material", IndexOutOfBounds) {
		t.Errorf("expected material IndexOutOfBounds, got:\n%v", report)
	}
}

func TestValidate_PositionBounds(t *testing.T) {
	data := `{
	  "asset": {"version": "2.0"},
	  "buffers": [{"byteLength": 36}],
	  "bufferViews": [{"buffer": 0, "byteLength": 36}],
	  "accessors": [{"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3", "max": [1, 1]}],
	  "meshes": [{"primitives": [{"attributes": {"POSITION": 0}}]}]
	}`
	report := validate(t, data, ValidationMinimal)

	want := Report{
		{Path: `meshes[0].primitives[0].attributes["POSITION"].min`, Kind: Missing},
		{Path: `meshes[0].primitives[0].attributes["POSITION"].max`, Kind: Invalid},
	}
	if len(report) != len(want) {
		t.Fatalf("expected %d errors, got:\n%v", len(want), report)
	}
	for i := range want {
		if report[i] != want[i] {
			t.Errorf("error %d = %v, want %v", i, report[i], want[i])
		}
	}
}

func TestValidate_MinimalFailures(t *testing.T) {
	tests := []struct {
		name  string
		extra string
		path  Path
		kind  ErrorKind
	}{
		{
			"texture without source",
			`"textures": [{}]`,
			"textures[0].source", Missing,
		},
		{
			"camera without projection",
			`"cameras": [{"type": "perspective"}]`,
			"cameras[0].perspective", Missing,
		},
		{
			"camera with unknown type",
			`"cameras": [{"type": "fisheye"}]`,
			"cameras[0].type", Invalid,
		},
		{
			"channel sampler out of range",
			`"animations": [{"channels": [{"sampler": 1, "target": {"node": 0, "path": "translation"}}], "samplers": [{"input": 1, "output": 0}]}]`,
			"animations[0].channels[0].sampler", IndexOutOfBounds,
		},
		{
			"channel with unknown path",
			`"animations": [{"channels": [{"sampler": 0, "target": {"node": 0, "path": "color"}}], "samplers": [{"input": 1, "output": 0}]}]`,
			"animations[0].channels[0].target.path", Invalid,
		},
		{
			"unsupported required extension",
			`"extensionsUsed": ["KHR_draco_mesh_compression"], "extensionsRequired": ["KHR_draco_mesh_compression"]`,
			"extensionsRequired[0]", Unsupported,
		},
		{
			"oversize buffer",
			`"buffers": [{"byteLength": 18446744073709551615}]`,
			"buffers[0].byteLength", Oversize,
		},
		{
			"skin joint out of range",
			`"skins": [{"joints": [5]}]`,
			"skins[0].joints[0]", IndexOutOfBounds,
		},
		{
			"skin without joints",
			`"skins": [{}]`,
			"skins[0].joints", Missing,
		},
		{
			"image without data",
			`"images": [{"name": "empty"}]`,
			"images[0].uri", Missing,
		},
		{
			"texture info without index",
			`"materials": [{"emissiveTexture": {"texCoord": 1}}]`,
			"materials[0].emissiveTexture.index", Missing,
		},
		{
			"unknown alpha mode",
			`"materials": [{"alphaMode": "DITHER"}]`,
			"materials[0].alphaMode", Invalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := withTriangle(tt.extra)
			report := validate(t, data, ValidationMinimal)
			if !report.Has(tt.path, tt.kind) {
				t.Errorf("expected %s at %s, got:\n%v", tt.kind, tt.path, report)
			}
		})
	}
}

func TestValidate_AccessorWithoutData(t *testing.T) {
	data := `{
	  "asset": {"version": "2.0"},
	  "accessors": [{"componentType": 5126, "count": 1, "type": "SCALAR"}]
	}`
	report := validate(t, data, ValidationMinimal)

	if len(report) != 1 || !report.Has("accessors[0].bufferView", Missing) {
		t.Errorf("expected bufferView Missing, got:\n%v", report)
	}
}

func TestValidate_MissingRequired(t *testing.T) {
	data := `{
	  "accessors": [{"bufferView": 0}],
	  "buffers": [{}],
	  "bufferViews": [{"buffer": 0}]
	}`
	report := validate(t, data, ValidationMinimal)

	for _, want := range []Path{
		"asset",
		"accessors[0].componentType",
		"accessors[0].count",
		"accessors[0].type",
		"buffers[0].byteLength",
		"bufferViews[0].byteLength",
	} {
		if !report.Has(want, Missing) {
			t.Errorf("expected Missing at %s, got:\n%v", want, report)
		}
	}
}

func TestValidate_InvalidEnums(t *testing.T) {
	data := `{
	  "asset": {"version": "2.0"},
	  "buffers": [{"byteLength": 8}],
	  "bufferViews": [{"buffer": 0, "byteLength": 8, "target": 1}],
	  "accessors": [{"bufferView": 0, "componentType": 5124, "count": 1, "type": "VEC5"}]
	}`
	report := validate(t, data, ValidationMinimal)

	for _, want := range []Path{"accessors[0].componentType", "accessors[0].type", "bufferViews[0].target"} {
		if !report.Has(want, Invalid) {
			t.Errorf("expected Invalid at %s, got:\n%v", want, report)
		}
	}
}

func TestValidate_BufferViewExceedsBuffer(t *testing.T) {
	data := `{
	  "asset": {"version": "2.0"},
	  "buffers": [{"byteLength": 8}],
	  "bufferViews": [{"buffer": 0, "byteOffset": 4, "byteLength": 8}, {"buffer": 3, "byteLength": 1}]
	}`
	report := validate(t, data, ValidationMinimal)

	if !report.Has("bufferViews[0].byteLength", Invalid) {
		t.Errorf("expected byteLength Invalid, got:\n%v", report)
	}
	if !report.Has("bufferViews[1].buffer", IndexOutOfBounds) {
		t.Errorf("expected buffer IndexOutOfBounds, got:\n%v", report)
	}
}

func TestValidate_ExtensionOption(t *testing.T) {
	data := withTriangle(`"extensionsUsed": ["VENDOR_x"], "extensionsRequired": ["VENDOR_x"]`)

	if report := validate(t, data, ValidationComplete); !report.Has("extensionsRequired[0]", Unsupported) {
		t.Errorf("expected Unsupported, got:\n%v", report)
	}
	if report := validate(t, data, ValidationComplete, WithExtensions("VENDOR_x")); report.Err() != nil {
		t.Errorf("expected no errors, got:\n%v", report)
	}
}

func TestValidate_CompleteFailures(t *testing.T) {
	tests := []struct {
		name string
		data string
		path Path
		kind ErrorKind
	}{
		{
			"byte stride not a multiple of 4",
			strings.Replace(triangleJSON, `{"buffer": 0, "byteLength": 36}`, `{"buffer": 0, "byteLength": 36, "byteStride": 14}`, 1),
			"bufferViews[0].byteStride", Invalid,
		},
		{
			"byte stride too large",
			strings.Replace(triangleJSON, `{"buffer": 0, "byteLength": 36}`, `{"buffer": 0, "byteLength": 36, "byteStride": 256}`, 1),
			"bufferViews[0].byteStride", Invalid,
		},
		{
			"rotation out of range",
			strings.Replace(triangleJSON, `{"name": "child"}`, `{"name": "child", "rotation": [0, 0, 2, 1]}`, 1),
			"nodes[1].rotation", Invalid,
		},
		{
			"matrix with TRS",
			strings.Replace(triangleJSON, `{"name": "child"}`, `{"scale": [1, 1, 1], "matrix": [1,0,0,0,0,1,0,0,0,0,1,0,0,0,0,1]}`, 1),
			"nodes[1].matrix", Invalid,
		},
		{
			"accessor without bounds",
			strings.Replace(triangleJSON, `"SCALAR", "min": [0], "max": [2]`, `"SCALAR"`, 1),
			"accessors[1].min", Missing,
		},
		{
			"accessor bounds of wrong length",
			strings.Replace(triangleJSON, `"min": [0], "max": [2]`, `"min": [0], "max": [2, 3]`, 1),
			"accessors[1].max", Invalid,
		},
		{
			"accessor past end of view",
			strings.Replace(triangleJSON, `"count": 3, "type": "SCALAR"`, `"count": 4, "type": "SCALAR"`, 1),
			"accessors[1].count", Invalid,
		},
		{
			"bad asset version",
			strings.Replace(triangleJSON, `"version": "2.0"`, `"version": "1.0"`, 1),
			"asset.version", Invalid,
		},
		{
			"bad mime type",
			withTriangle(`"images": [{"uri": "a.gif", "mimeType": "image/gif"}]`),
			"images[0].mimeType", Invalid,
		},
		{
			"buffer view image without mime type",
			withTriangle(`"images": [{"bufferView": 1}]`),
			"images[0].mimeType", Missing,
		},
		{
			"perspective znear",
			withTriangle(`"cameras": [{"type": "perspective", "perspective": {"yfov": 1, "znear": 0}}]`),
			"cameras[0].perspective.znear", Invalid,
		},
		{
			"perspective zfar before znear",
			withTriangle(`"cameras": [{"type": "perspective", "perspective": {"yfov": 1, "znear": 1, "zfar": 0.5}}]`),
			"cameras[0].perspective.zfar", Invalid,
		},
		{
			"sampler filter",
			withTriangle(`"samplers": [{"magFilter": 9984}]`),
			"samplers[0].magFilter", Invalid,
		},
		{
			"sampler wrap",
			withTriangle(`"samplers": [{"wrapS": 1}]`),
			"samplers[0].wrapS", Invalid,
		},
		{
			"metallic factor",
			withTriangle(`"materials": [{"pbrMetallicRoughness": {"metallicFactor": 1.5}}]`),
			"materials[0].pbrMetallicRoughness.metallicFactor", Invalid,
		},
		{
			"negative alpha cutoff",
			withTriangle(`"materials": [{"alphaCutoff": -0.1}]`),
			"materials[0].alphaCutoff", Invalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if report := validate(t, tt.data, ValidationMinimal); report.Err() != nil {
				t.Fatalf("expected minimal validation to pass, got:\n%v", report)
			}
			report := validate(t, tt.data, ValidationComplete)
			if !report.Has(tt.path, tt.kind) {
				t.Errorf("expected %s at %s, got:\n%v", tt.kind, tt.path, report)
			}
		})
	}
}

func TestValidate_SparseCount(t *testing.T) {
	data := `{
	  "asset": {"version": "2.0"},
	  "buffers": [{"byteLength": 16}],
	  "bufferViews": [{"buffer": 0, "byteLength": 8}, {"buffer": 0, "byteOffset": 8, "byteLength": 8}],
	  "accessors": [{
	    "componentType": 5126, "count": 1, "type": "SCALAR",
	    "sparse": {"count": 2, "indices": {"bufferView": 0, "componentType": 5121}, "values": {"bufferView": 1}}
	  }]
	}`
	report := validate(t, data, ValidationComplete)

	if !report.Has("accessors[0].sparse.count", Invalid) {
		t.Errorf("expected sparse count Invalid, got:\n%v", report)
	}
}

func TestValidate_AccessorExtentWraps(t *testing.T) {
	// 12 * (count-1) is exactly 3 * 2^64, which wraps to zero in uint64.
	data := `{
	  "asset": {"version": "2.0"},
	  "buffers": [{"byteLength": 4611686018427387920}],
	  "bufferViews": [{"buffer": 0, "byteLength": 4611686018427387920}],
	  "accessors": [{
	    "bufferView": 0, "componentType": 5126, "count": 4611686018427387905, "type": "VEC3",
	    "min": [0, 0, 0], "max": [0, 0, 0]
	  }]
	}`
	report := validate(t, data, ValidationComplete)
	if !report.Has("accessors[0].count", Invalid) {
		t.Errorf("expected count Invalid, got:\n%v", report)
	}
}

func TestFitsView(t *testing.T) {
	const max = ^uint64(0)
	tests := []struct {
		name                                string
		offset, stride, count, size, length uint64
		expected                            bool
	}{
		{"tight", 0, 12, 3, 12, 36, true},
		{"one byte over", 4, 12, 3, 12, 36, false},
		{"strided", 0, 16, 2, 12, 28, true},
		{"empty", max, 12, 0, 12, 0, true},
		{"offset near max", max - 3, 4, 1, 4, max, false},
		{"wrapping product", 0, 12, 1<<62 + 1, 12, 1<<62 + 16, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fitsView(tt.offset, tt.stride, tt.count, tt.size, tt.length); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestValidate_CompleteSkippedAfterMinimalFailure(t *testing.T) {
	data := strings.Replace(triangleJSON, `{"name": "child"}`, `{"mesh": 7, "rotation": [0, 0, 2, 1]}`, 1)
	report := validate(t, data, ValidationComplete)

	if len(report) != 1 || !report.Has("nodes[1].mesh", IndexOutOfBounds) {
		t.Errorf("expected only the minimal failure, got:\n%v", report)
	}
}

func TestValidateInto_CollectsEveryFailure(t *testing.T) {
	data := withTriangle(`"textures": [{"source": 3}, {"source": 4, "sampler": 1}]`)
	root := mustUnmarshal(t, data)

	var paths []string
	root.ValidateInto(ValidationMinimal, func(p Path, k ErrorKind) {
		if k != IndexOutOfBounds {
			t.Errorf("unexpected kind %s at %s", k, p)
		}
		paths = append(paths, p.String())
	})

	want := []string{"textures[0].source", "textures[1].sampler", "textures[1].source"}
	if strings.Join(paths, ",") != strings.Join(want, ",") {
		t.Errorf("paths = %v, want %v", paths, want)
	}
}

func TestPath(t *testing.T) {
	p := Path("").Field("meshes").Index(0).Field("primitives").Index(1).Field("attributes").Key("POSITION").Field("max")
	if p != `meshes[0].primitives[1].attributes["POSITION"].max` {
		t.Errorf("unexpected path %s", p)
	}
}

func TestReport_Err(t *testing.T) {
	var empty Report
	if empty.Err() != nil {
		t.Error("expected nil error for empty report")
	}

	r := Report{{Path: "a", Kind: Missing}, {Path: "b[0]", Kind: Oversize}}
	if r.Err() == nil {
		t.Fatal("expected error")
	}
	if r.Error() != "a: Missing data\nb[0]: Size exceeds system limits" {
		t.Errorf("unexpected message %q", r.Error())
	}
}

func TestParseValidationLevel(t *testing.T) {
	if l, err := ParseValidationLevel("Complete"); err != nil || l != ValidationComplete {
		t.Errorf("expected complete, got %v %v", l, err)
	}
	if l, err := ParseValidationLevel("minimal"); err != nil || l != ValidationMinimal {
		t.Errorf("expected minimal, got %v %v", l, err)
	}
	if _, err := ParseValidationLevel("strict"); err == nil {
		t.Error("expected error for unknown level")
	}
}
