package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-gltf/internal/assets"
	"github.com/Faultbox/midgard-gltf/internal/config"
	"github.com/Faultbox/midgard-gltf/pkg/accessor"
	"github.com/Faultbox/midgard-gltf/pkg/glb"
	"github.com/Faultbox/midgard-gltf/pkg/gltf"
)

func (a *app) options() (assets.Options, error) {
	level, err := a.cfg.Validation.ParsedLevel()
	if err != nil {
		return assets.Options{}, err
	}
	return assets.Options{
		Level:         level,
		Extensions:    a.cfg.Validation.Extensions,
		VerifyBuffers: a.cfg.Validation.Buffers,
		AllowExternal: a.cfg.Import.AllowExternal,
		AllowDataURI:  a.cfg.Import.AllowDataURI,
		MaxBufferSize: a.cfg.Import.MaxBufferBytes(),
		Cache:         a.cfg.Import.Cache,
	}, nil
}

// managers hands out one asset manager per directory, so documents that
// share buffer files read each file once.
type managers struct {
	opts assets.Options
	log  *zap.Logger
	dirs map[string]*assets.Manager
}

func (a *app) newManagers() (*managers, error) {
	opts, err := a.options()
	if err != nil {
		return nil, err
	}
	return &managers{opts: opts, log: a.log, dirs: make(map[string]*assets.Manager)}, nil
}

// Import imports file with URIs resolved against its directory.
func (ms *managers) Import(file string) (*assets.Asset, error) {
	dir := filepath.Dir(file)
	m, ok := ms.dirs[dir]
	if !ok {
		m = assets.NewManager(os.DirFS(dir), ms.opts, ms.log)
		ms.dirs[dir] = m
	}
	return m.Import(filepath.Base(file))
}

// Close logs cache statistics and releases cached buffers.
func (ms *managers) Close() {
	for dir, m := range ms.dirs {
		hits, misses := m.CacheStats()
		ms.log.Debug("buffer cache",
			zap.String("dir", dir),
			zap.Int("hits", hits),
			zap.Int("misses", misses))
		m.Close()
	}
}

// importFile imports a single file.
func (a *app) importFile(file string) (*assets.Asset, error) {
	ms, err := a.newManagers()
	if err != nil {
		return nil, err
	}
	defer ms.Close()
	return ms.Import(file)
}

func (a *app) cmdInfo(args []string) error {
	if len(args) < 1 {
		return errors.New("usage: gltftool info <file>")
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	doc, err := gltf.Parse(data)
	if err != nil {
		return err
	}
	root := doc.Root

	format := "glTF JSON"
	if gltf.IsGLB(data) {
		format = fmt.Sprintf("GLB (%d byte binary chunk)", len(doc.Bin))
	}
	fmt.Fprintf(a.out, "File:      %s\n", args[0])
	fmt.Fprintf(a.out, "Format:    %s\n", format)
	fmt.Fprintf(a.out, "Version:   %s\n", root.Asset.Version)
	if root.Asset.Generator != "" {
		fmt.Fprintf(a.out, "Generator: %s\n", root.Asset.Generator)
	}
	if len(root.ExtensionsUsed) > 0 {
		fmt.Fprintf(a.out, "Extensions used:     %s\n", strings.Join(root.ExtensionsUsed, ", "))
	}
	if len(root.ExtensionsRequired) > 0 {
		fmt.Fprintf(a.out, "Extensions required: %s\n", strings.Join(root.ExtensionsRequired, ", "))
	}

	fmt.Fprintln(a.out)
	for _, c := range []struct {
		name  string
		count int
	}{
		{"scenes", len(root.Scenes)},
		{"nodes", len(root.Nodes)},
		{"meshes", len(root.Meshes)},
		{"materials", len(root.Materials)},
		{"textures", len(root.Textures)},
		{"images", len(root.Images)},
		{"samplers", len(root.Samplers)},
		{"accessors", len(root.Accessors)},
		{"bufferViews", len(root.BufferViews)},
		{"buffers", len(root.Buffers)},
		{"animations", len(root.Animations)},
		{"skins", len(root.Skins)},
		{"cameras", len(root.Cameras)},
	} {
		if c.count > 0 {
			fmt.Fprintf(a.out, "  %-12s %d\n", c.name, c.count)
		}
	}

	if scene, ok := root.DefaultScene(); ok {
		fmt.Fprintf(a.out, "\nDefault scene reaches %d nodes\n", len(root.SceneNodes(scene)))
	}

	if len(root.Buffers) > 0 {
		fmt.Fprintln(a.out, "\nBuffers:")
		for i, b := range root.Buffers {
			uri := b.SourceURI()
			if strings.HasPrefix(uri, "data:") {
				uri = "data URI"
			}
			fmt.Fprintf(a.out, "  [%d] %d bytes  %s\n", i, b.ByteLength, uri)
		}
	}
	return nil
}

func (a *app) cmdValidate(args []string) error {
	if len(args) < 1 {
		return errors.New("usage: gltftool validate <file>...")
	}

	ms, err := a.newManagers()
	if err != nil {
		return err
	}
	defer ms.Close()

	failed := 0
	for _, file := range args {
		_, err := ms.Import(file)
		if err == nil {
			fmt.Fprintf(a.out, "%s: OK\n", file)
			continue
		}

		failed++
		var report gltf.Report
		if errors.As(err, &report) {
			for _, e := range report {
				fmt.Fprintf(a.out, "%s: %s\n", file, e)
			}
			continue
		}
		fmt.Fprintf(a.out, "%s: %v\n", file, err)
	}

	a.log.Info("validation finished", zap.Int("files", len(args)), zap.Int("failed", failed))
	if failed > 0 {
		return errFailed
	}
	return nil
}

func (a *app) cmdPack(args []string) error {
	if len(args) < 1 {
		return errors.New("usage: gltftool pack <file.gltf> [output.glb]")
	}
	input := args[0]
	output := strings.TrimSuffix(input, filepath.Ext(input)) + ".glb"
	if len(args) > 1 {
		output = args[1]
	}

	asset, err := a.importFile(input)
	if err != nil {
		return err
	}
	root := asset.Root()
	if len(root.Buffers) > 1 {
		return fmt.Errorf("pack supports single-buffer assets, %s has %d", input, len(root.Buffers))
	}

	var bin []byte
	if len(root.Buffers) == 1 {
		n := root.Buffers[0].ByteLength
		if n > uint64(len(asset.Buffers[0])) {
			return fmt.Errorf("%w: buffer 0 holds %d of %d bytes", accessor.ErrBufferTooShort, len(asset.Buffers[0]), n)
		}
		bin = asset.Buffers[0][:n]
		root.Buffers[0].URI = ""
	}
	jsonData, err := gltf.Marshal(root)
	if err != nil {
		return err
	}
	data, err := glb.New(jsonData, bin).Encode()
	if err != nil {
		return err
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Packed: %s (%d bytes)\n", output, len(data))
	return nil
}

func (a *app) cmdUnpack(args []string) error {
	if len(args) < 1 {
		return errors.New("usage: gltftool unpack <file.glb> [output.gltf]")
	}
	input := args[0]
	output := strings.TrimSuffix(input, filepath.Ext(input)) + ".gltf"
	if len(args) > 1 {
		output = args[1]
	}

	doc, err := gltf.ParseFile(input)
	if err != nil {
		return err
	}
	root := doc.Root

	binName := a.cfg.Output.BinaryName
	if binName == "" {
		binName = strings.TrimSuffix(filepath.Base(output), filepath.Ext(output)) + ".bin"
	}

	for i := range root.Buffers {
		b := &root.Buffers[i]
		if !b.IsBinaryChunk() {
			continue
		}
		if doc.Bin == nil || b.ByteLength > uint64(len(doc.Bin)) {
			return fmt.Errorf("buffer %d: %w", i, assets.ErrNoBinaryChunk)
		}
		binPath := filepath.Join(filepath.Dir(output), binName)
		if err := os.WriteFile(binPath, doc.Bin[:b.ByteLength], 0644); err != nil {
			return err
		}
		b.URI = binName
		fmt.Fprintf(a.out, "Wrote: %s (%d bytes)\n", binPath, b.ByteLength)
	}

	var jsonData []byte
	if a.cfg.Output.Indent {
		jsonData, err = gltf.MarshalIndent(root, "", "  ")
	} else {
		jsonData, err = gltf.Marshal(root)
	}
	if err != nil {
		return err
	}
	if err := os.WriteFile(output, jsonData, 0644); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Wrote: %s (%d bytes)\n", output, len(jsonData))
	return nil
}

func (a *app) cmdDump(args []string) error {
	fs := flag.NewFlagSet("dump", flag.ContinueOnError)
	limit := fs.Int("n", 0, "Limit output to N elements (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return errors.New("usage: gltftool dump [-n N] <file> <accessor>")
	}

	index, err := strconv.ParseUint(fs.Arg(1), 10, 32)
	if err != nil {
		return fmt.Errorf("invalid accessor index %q", fs.Arg(1))
	}

	asset, err := a.importFile(fs.Arg(0))
	if err != nil {
		return err
	}
	i := gltf.Index[gltf.Accessor](index)
	acc, ok := asset.Root().Accessor(i)
	if !ok {
		return fmt.Errorf("%w: accessor %d", accessor.ErrOutOfBounds, index)
	}
	seq, err := accessor.Elements(asset.Root(), asset.Buffers, i)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "accessor %d: %d x %s %s", index, acc.Count, acc.Type, acc.ComponentType)
	if acc.Normalized {
		fmt.Fprint(a.out, " normalized")
	}
	if acc.Sparse != nil {
		fmt.Fprintf(a.out, " (%d sparse)", acc.Sparse.Count)
	}
	fmt.Fprintln(a.out)

	for n, e := range seq.All() {
		if *limit > 0 && n >= *limit {
			fmt.Fprintf(a.out, "... %d more\n", seq.Len()-n)
			break
		}
		fmt.Fprintf(a.out, "%d: %v\n", n, e)
	}
	return nil
}

func (a *app) cmdConfig(args []string) error {
	if len(args) > 0 {
		if err := a.cfg.SaveTo(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Wrote: %s\n", args[0])
		return nil
	}
	if err := a.cfg.Save(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Wrote: %s\n", filepath.Join(config.ConfigDir(), config.FileName))
	return nil
}
