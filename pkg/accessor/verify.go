package accessor

import (
	"errors"

	"github.com/Faultbox/midgard-gltf/pkg/gltf"
)

// Verify checks the supplied buffer data against every buffer and accessor of
// root. Failures use the same paths and kinds as gltf.Validate, so the two
// reports can be concatenated. Accessors whose format is already invalid are
// skipped.
func Verify(root *gltf.Root, buffers [][]byte) gltf.Report {
	var report gltf.Report
	fail := func(p gltf.Path, kind gltf.ErrorKind) {
		report = append(report, gltf.ValidationError{Path: p, Kind: kind})
	}

	for i, b := range root.Buffers {
		p := gltf.Path("buffers").Index(i)
		if i >= len(buffers) || buffers[i] == nil {
			fail(p, gltf.Missing)
			continue
		}
		if uint64(len(buffers[i])) < b.ByteLength {
			fail(p.Field("byteLength"), gltf.Invalid)
		}
	}

	for i := range root.Accessors {
		a := &root.Accessors[i]
		if !a.ComponentType.Valid() || !a.Type.Valid() {
			continue
		}
		p := gltf.Path("accessors").Index(i)
		if _, err := baseLayout(root, buffers, a); err != nil {
			if kind, ok := errorKind(err); ok {
				fail(p.Field("bufferView"), kind)
			}
		}
		if a.Sparse == nil {
			continue
		}
		sp := p.Field("sparse")
		indices, err := sparseIndices(root, buffers, a)
		if err != nil {
			if kind, ok := errorKind(err); ok {
				fail(sp.Field("indices"), kind)
			}
			continue
		}
		if len(indices) == 0 {
			continue
		}
		if _, err := sparseValues(root, buffers, a); err != nil {
			if kind, ok := errorKind(err); ok {
				fail(sp.Field("values"), kind)
			}
		}
	}
	return report
}

// errorKind classifies a read error. Missing buffer data is reported once
// per buffer, so it yields ok == false here.
func errorKind(err error) (gltf.ErrorKind, bool) {
	switch {
	case errors.Is(err, ErrMissingBuffer):
		return 0, false
	case errors.Is(err, ErrOutOfBounds):
		return gltf.IndexOutOfBounds, true
	case errors.Is(err, ErrNoData):
		return gltf.Missing, true
	case errors.Is(err, ErrTooLarge):
		return gltf.Oversize, true
	default:
		return gltf.Invalid, true
	}
}
