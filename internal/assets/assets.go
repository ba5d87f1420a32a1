// Package assets imports glTF assets: it parses the document, fetches every
// buffer, validates the result and caches fetched bytes.
package assets

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"path"
	"strings"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-gltf/pkg/accessor"
	"github.com/Faultbox/midgard-gltf/pkg/gltf"
)

// Import errors.
var (
	ErrExternalDisabled = errors.New("external resources disabled")
	ErrDataURIDisabled  = errors.New("data URIs disabled")
	ErrInvalidDataURI   = errors.New("invalid data URI")
	ErrNoBinaryChunk    = errors.New("buffer refers to a missing GLB binary chunk")
	ErrBufferTooLarge   = errors.New("buffer exceeds size limit")
	ErrNoSource         = errors.New("image has neither uri nor bufferView")
	ErrUnsupportedURI   = errors.New("unsupported uri")
)

// Options controls an import.
type Options struct {
	Level         gltf.ValidationLevel
	Extensions    []string
	VerifyBuffers bool
	AllowExternal bool
	AllowDataURI  bool
	MaxBufferSize int64
	Cache         bool
}

// DefaultOptions validates completely and allows every URI kind.
func DefaultOptions() Options {
	return Options{
		Level:         gltf.ValidationComplete,
		VerifyBuffers: true,
		AllowExternal: true,
		AllowDataURI:  true,
		Cache:         true,
	}
}

// Asset is an imported document with all buffer data resident.
type Asset struct {
	Name     string
	Document *gltf.Document
	Buffers  [][]byte

	m *Manager
}

// Root returns the document graph.
func (a *Asset) Root() *gltf.Root {
	return a.Document.Root
}

// Manager imports assets from a file system. Relative URIs resolve against
// the directory of the document that names them.
type Manager struct {
	fsys  fs.FS
	opts  Options
	log   *zap.Logger
	cache *Cache
}

// NewManager creates a manager reading from fsys.
func NewManager(fsys fs.FS, opts Options, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		fsys:  fsys,
		opts:  opts,
		log:   log,
		cache: NewCache(),
	}
}

// Import reads, parses, loads and validates the document at name. A
// validation failure is returned as a gltf.Report wrapped in the error.
func (m *Manager) Import(name string) (*Asset, error) {
	log := m.log.With(zap.String("asset", name))

	data, err := fs.ReadFile(m.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	doc, err := gltf.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	log.Debug("parsed document",
		zap.Bool("glb", gltf.IsGLB(data)),
		zap.Int("json_bytes", len(doc.JSON)),
		zap.Int("bin_bytes", len(doc.Bin)))

	opts := []gltf.Option{gltf.WithExtensions(m.opts.Extensions...)}
	if report := gltf.Validate(doc.Root, m.opts.Level, opts...); len(report) > 0 {
		log.Warn("validation failed", zap.Int("errors", len(report)), zap.Stringer("level", m.opts.Level))
		return nil, fmt.Errorf("validating %s: %w", name, report)
	}

	asset := &Asset{Name: name, Document: doc, m: m}
	asset.Buffers, err = m.loadBuffers(name, doc)
	if err != nil {
		return nil, fmt.Errorf("loading buffers of %s: %w", name, err)
	}

	if m.opts.VerifyBuffers {
		if report := accessor.Verify(doc.Root, asset.Buffers); len(report) > 0 {
			log.Warn("buffer data does not match accessors", zap.Int("errors", len(report)))
			return nil, fmt.Errorf("verifying %s: %w", name, report)
		}
	}

	log.Info("imported",
		zap.Int("buffers", len(asset.Buffers)),
		zap.Int("meshes", len(doc.Root.Meshes)),
		zap.Int("accessors", len(doc.Root.Accessors)))
	return asset, nil
}

// loadBuffers fetches every buffer, collecting all failures.
func (m *Manager) loadBuffers(name string, doc *gltf.Document) ([][]byte, error) {
	buffers := make([][]byte, len(doc.Root.Buffers))
	var errs error
	for i := range doc.Root.Buffers {
		b := &doc.Root.Buffers[i]
		data, err := m.loadBuffer(name, doc, b)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("buffer %d: %w", i, err))
			continue
		}
		m.log.Debug("loaded buffer",
			zap.String("asset", name),
			zap.Int("index", i),
			zap.String("uri", describeURI(b.URI)),
			zap.Int("bytes", len(data)))
		buffers[i] = data
	}
	return buffers, errs
}

func (m *Manager) loadBuffer(name string, doc *gltf.Document, b *gltf.Buffer) ([]byte, error) {
	if m.opts.MaxBufferSize > 0 && b.ByteLength > uint64(m.opts.MaxBufferSize) {
		return nil, fmt.Errorf("%w: %d bytes", ErrBufferTooLarge, b.ByteLength)
	}
	if b.IsBinaryChunk() {
		if doc.Bin == nil {
			return nil, ErrNoBinaryChunk
		}
		return doc.Bin, nil
	}
	return m.fetch(name, b.SourceURI())
}

// fetch resolves uri relative to the document name.
func (m *Manager) fetch(name, uri string) ([]byte, error) {
	if strings.HasPrefix(uri, "data:") {
		if !m.opts.AllowDataURI {
			return nil, ErrDataURIDisabled
		}
		return DecodeDataURI(uri)
	}
	if !m.opts.AllowExternal {
		return nil, fmt.Errorf("%w: %s", ErrExternalDisabled, uri)
	}
	p, err := Resolve(name, uri)
	if err != nil {
		return nil, err
	}
	return m.Load(p)
}

// Load reads a file through the cache.
func (m *Manager) Load(name string) ([]byte, error) {
	if m.opts.Cache {
		if data, ok := m.cache.Get(name); ok {
			return data, nil
		}
	}

	data, err := fs.ReadFile(m.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}

	if m.opts.Cache {
		m.cache.Set(name, data)
	}
	return data, nil
}

// Close drops cached data. The manager stays usable.
func (m *Manager) Close() {
	m.cache.Clear()
}

// CacheStats returns the cache hit and miss counts.
func (m *Manager) CacheStats() (hits, misses int) {
	return m.cache.Stats()
}

// Image returns the encoded bytes of image i and its MIME type, if known.
func (a *Asset) Image(i gltf.Index[gltf.Image]) ([]byte, string, error) {
	img, ok := a.Root().Image(i)
	if !ok {
		return nil, "", fmt.Errorf("%w: image %d", accessor.ErrOutOfBounds, i)
	}
	if img.BufferView != nil {
		view, ok := a.Root().BufferView(*img.BufferView)
		if !ok {
			return nil, "", fmt.Errorf("%w: buffer view %d", accessor.ErrOutOfBounds, *img.BufferView)
		}
		if int(view.Buffer) >= len(a.Buffers) {
			return nil, "", fmt.Errorf("%w: buffer %d", accessor.ErrOutOfBounds, view.Buffer)
		}
		data := a.Buffers[view.Buffer]
		end := view.ByteOffset + view.ByteLength
		if end > uint64(len(data)) {
			return nil, "", fmt.Errorf("%w: image %d", accessor.ErrBufferTooShort, i)
		}
		return data[view.ByteOffset:end], img.MimeType, nil
	}
	if img.URI == "" {
		return nil, "", fmt.Errorf("%w: image %d", ErrNoSource, i)
	}
	data, err := a.m.fetch(a.Name, img.URI)
	if err != nil {
		return nil, "", err
	}
	mime := img.MimeType
	if mime == "" {
		mime = mimeFromDataURI(img.URI)
	}
	return data, mime, nil
}

// Resolve joins a relative URI onto the directory of the document name.
// The result is a valid fs.FS path; URIs that escape the root fail.
func Resolve(name, uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("parsing uri %q: %w", uri, err)
	}
	if u.Scheme != "" || u.Host != "" || strings.HasPrefix(u.Path, "/") {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedURI, uri)
	}
	p := path.Join(path.Dir(name), u.Path)
	if !fs.ValidPath(p) {
		return "", fmt.Errorf("%w: %s escapes the asset directory", ErrUnsupportedURI, uri)
	}
	return p, nil
}

// DecodeDataURI decodes an RFC 2397 data URI with base64 payload.
func DecodeDataURI(uri string) ([]byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return nil, ErrInvalidDataURI
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return nil, fmt.Errorf("%w: only base64 payloads are supported", ErrInvalidDataURI)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
	}
	return data, nil
}

func mimeFromDataURI(uri string) string {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return ""
	}
	meta, _, _ := strings.Cut(rest, ",")
	mime, _, _ := strings.Cut(meta, ";")
	return mime
}

// describeURI shortens data URIs for logging.
func describeURI(uri string) string {
	switch {
	case uri == "":
		return gltf.BinaryChunkURI
	case strings.HasPrefix(uri, "data:"):
		return "data:" + mimeFromDataURI(uri)
	default:
		return uri
	}
}

// Cache is an in-memory cache of fetched files. Cached slices are shared and
// must not be modified.
type Cache struct {
	data map[string][]byte
	mu   sync.Mutex

	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]byte),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
