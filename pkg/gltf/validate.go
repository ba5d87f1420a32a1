package gltf

import (
	"fmt"
	"math"
	"strings"
)

// ErrorKind classifies a validation failure.
type ErrorKind uint8

// Validation error kinds.
const (
	// IndexOutOfBounds means an index refers past the end of its collection.
	IndexOutOfBounds ErrorKind = iota + 1
	// Invalid means a value is outside its allowed set or range.
	Invalid
	// Missing means a required value is absent.
	Missing
	// Oversize means a size or offset does not fit in an int on this host.
	Oversize
	// Unsupported means a required extension is not implemented.
	Unsupported
)

// String returns a human-readable kind name.
func (k ErrorKind) String() string {
	switch k {
	case IndexOutOfBounds:
		return "Index out of bounds"
	case Invalid:
		return "Invalid value"
	case Missing:
		return "Missing data"
	case Oversize:
		return "Size exceeds system limits"
	case Unsupported:
		return "Unsupported extension"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(k))
	}
}

// ValidationLevel selects how much of the document is checked.
type ValidationLevel uint8

// Validation levels.
const (
	// ValidationMinimal checks what later reads rely on: indices, required fields,
	// enum values, size limits and required extensions.
	ValidationMinimal ValidationLevel = iota
	// ValidationComplete additionally checks value ranges and cross-object rules.
	ValidationComplete
)

// String returns the level name.
func (l ValidationLevel) String() string {
	switch l {
	case ValidationMinimal:
		return "minimal"
	case ValidationComplete:
		return "complete"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(l))
	}
}

// ParseValidationLevel converts "minimal" or "complete" into a level.
func ParseValidationLevel(s string) (ValidationLevel, error) {
	switch strings.ToLower(s) {
	case "minimal", "min":
		return ValidationMinimal, nil
	case "complete", "full":
		return ValidationComplete, nil
	default:
		return 0, fmt.Errorf("unknown validation level %q", s)
	}
}

// ValidationError is one located failure.
type ValidationError struct {
	Path Path
	Kind ErrorKind
}

// Error formats the failure as "path: kind".
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Kind)
}

// Report is the ordered list of failures found by Validate.
type Report []ValidationError

// Error lists every failure on its own line.
func (r Report) Error() string {
	lines := make([]string, len(r))
	for i, e := range r {
		lines[i] = e.Error()
	}
	return strings.Join(lines, "\n")
}

// Err returns r as an error, or nil when r is empty.
func (r Report) Err() error {
	if len(r) == 0 {
		return nil
	}
	return r
}

// Has reports whether r contains a failure of kind at path.
func (r Report) Has(path Path, kind ErrorKind) bool {
	for _, e := range r {
		if e.Path == path && e.Kind == kind {
			return true
		}
	}
	return false
}

// SupportedExtensions lists the extensions a document may require without
// being rejected. Their payloads stay raw JSON; none of them changes how
// buffers or accessors are decoded.
var SupportedExtensions = []string{
	"KHR_lights_punctual",
	"KHR_materials_pbrSpecularGlossiness",
	"KHR_materials_unlit",
	"KHR_texture_transform",
	"KHR_materials_transmission",
	"KHR_materials_ior",
	"KHR_materials_emissive_strength",
	"EXT_texture_webp",
}

// Option configures validation.
type Option func(*validator)

// WithExtensions accepts additional required extensions the caller handles itself.
func WithExtensions(names ...string) Option {
	return func(v *validator) {
		for _, name := range names {
			v.supported[name] = true
		}
	}
}

// Validate checks root and returns every failure found. Complete validation
// only runs once the minimal checks pass.
func Validate(root *Root, level ValidationLevel, opts ...Option) Report {
	var report Report
	root.ValidateInto(level, func(p Path, k ErrorKind) {
		report = append(report, ValidationError{Path: p, Kind: k})
	}, opts...)
	return report
}

// ValidateInto runs validation and passes each failure to collect as it is found.
func (r *Root) ValidateInto(level ValidationLevel, collect func(Path, ErrorKind), opts ...Option) {
	v := &validator{
		root:      r,
		supported: make(map[string]bool, len(SupportedExtensions)),
		collect:   collect,
	}
	for _, name := range SupportedExtensions {
		v.supported[name] = true
	}
	for _, opt := range opts {
		opt(v)
	}

	v.minimal()
	if level >= ValidationComplete && v.failures == 0 {
		v.complete()
	}
}

// validator walks a Root and reports failures without stopping.
type validator struct {
	root      *Root
	supported map[string]bool
	collect   func(Path, ErrorKind)
	failures  int
}

// maxSize is the largest size or offset addressable on this host.
const maxSize = uint64(math.MaxInt)

func (v *validator) fail(p pathFn, kind ErrorKind) {
	v.failures++
	v.collect(p(), kind)
}

func (v *validator) missing(m absent, p pathFn) {
	for _, k := range m {
		v.fail(field(p, k), Missing)
	}
}

func (v *validator) size(n uint64, p pathFn) bool {
	if n > maxSize {
		v.fail(p, Oversize)
		return false
	}
	return true
}

func (a absent) has(k string) bool {
	for _, m := range a {
		if m == k {
			return true
		}
	}
	return false
}

func checkIndex[T any](v *validator, i Index[T], p pathFn) bool {
	if _, ok := Get(v.root, i); !ok {
		v.fail(p, IndexOutOfBounds)
		return false
	}
	return true
}

func checkOptional[T any](v *validator, i *Index[T], p pathFn) {
	if i != nil {
		checkIndex(v, *i, p)
	}
}

func checkIndices[T any](v *validator, items []Index[T], p pathFn) {
	for j, i := range items {
		checkIndex(v, i, item(p, j))
	}
}
