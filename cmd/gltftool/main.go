// gltftool is a CLI utility for inspecting, validating and repacking glTF assets.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-gltf/internal/config"
	"github.com/Faultbox/midgard-gltf/internal/logger"
)

// errFailed marks a command that already printed its own diagnostics.
var errFailed = errors.New("failed")

type app struct {
	cfg *config.Config
	out io.Writer
	log *zap.Logger
}

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	logger.Debug("config loaded",
		zap.String("path", config.ConfigPath()),
		zap.String("level", cfg.Validation.Level))

	args := config.Args()
	if len(args) < 1 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	a := &app{cfg: cfg, out: os.Stdout, log: logger.Named("gltftool")}
	start := time.Now()
	if err := a.run(args[0], args[1:]); err != nil {
		if errors.Is(err, errFailed) {
			logger.Warn("command reported failures", zap.String("command", args[0]))
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		logger.Sync()
		os.Exit(1)
	}
	logger.Info("command finished", zap.String("command", args[0]), zap.Duration("elapsed", time.Since(start)))
}

func (a *app) run(command string, args []string) error {
	switch command {
	case "info":
		return a.cmdInfo(args)
	case "validate", "check":
		return a.cmdValidate(args)
	case "pack":
		return a.cmdPack(args)
	case "unpack":
		return a.cmdUnpack(args)
	case "dump":
		return a.cmdDump(args)
	case "config":
		return a.cmdConfig(args)
	case "help", "-h", "--help":
		printUsage(a.out)
		return nil
	default:
		printUsage(os.Stderr)
		return fmt.Errorf("unknown command: %s", command)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `gltftool - glTF 2.0 asset utility

Usage:
  gltftool [flags] <command> [options]

Commands:
  info <file>                        Show document summary
  validate <file>...                 Validate documents and their buffers
  pack <file.gltf> [output.glb]      Embed a single-buffer asset into a GLB
  unpack <file.glb> [output.gltf]    Split a GLB into JSON and a .bin file
  dump <file> <accessor>             Print the elements of an accessor
  config [path]                      Write the effective config (default: user config dir)

Flags:
  -config <path>    Config file (default ./gltftool.yaml)
  -level <level>    Validation level: minimal or complete
  -debug            Enable debug logging
  -log-file <path>  Also log to a rotating file
  -no-external      Refuse external buffer and image files
  -compact          Write compact JSON

Examples:
  gltftool info scene.glb
  gltftool -level minimal validate models/*.gltf
  gltftool pack scene.gltf scene.glb
  gltftool dump scene.glb 3`)
}
