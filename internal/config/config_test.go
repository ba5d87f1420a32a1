package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/midgard-gltf/pkg/gltf"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Validation.Level != "complete" {
		t.Errorf("expected validation level 'complete', got %s", cfg.Validation.Level)
	}
	if !cfg.Validation.Buffers {
		t.Error("expected buffer checks to be enabled by default")
	}
	if !cfg.Import.AllowExternal || !cfg.Import.AllowDataURI {
		t.Error("expected external files and data URIs to be allowed by default")
	}
	if cfg.Import.MaxBufferBytes() != 1<<30 {
		t.Errorf("expected 1 GiB buffer limit, got %d", cfg.Import.MaxBufferBytes())
	}
	if !cfg.Output.Indent {
		t.Error("expected indented output by default")
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected log level 'warn', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), FileName)

	yamlContent := `
validation:
  level: minimal
  extensions: [EXT_meshopt_compression]
  buffers: false

import:
  allow_external: false
  max_buffer_mb: 64

output:
  indent: false
  binary_name: scene.bin

logging:
  level: debug
  log_file: gltftool.log
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	level, err := cfg.Validation.ParsedLevel()
	if err != nil || level != gltf.ValidationMinimal {
		t.Errorf("expected minimal level, got %v (%v)", level, err)
	}
	if len(cfg.Validation.Extensions) != 1 || cfg.Validation.Extensions[0] != "EXT_meshopt_compression" {
		t.Errorf("unexpected extensions %v", cfg.Validation.Extensions)
	}
	if cfg.Validation.Buffers {
		t.Error("expected buffer checks to be disabled")
	}
	if cfg.Import.AllowExternal {
		t.Error("expected external files to be refused")
	}
	if !cfg.Import.AllowDataURI {
		t.Error("expected allow_data_uri to keep its default")
	}
	if cfg.Import.MaxBufferBytes() != 64<<20 {
		t.Errorf("expected 64 MiB limit, got %d", cfg.Import.MaxBufferBytes())
	}
	if cfg.Output.Indent || cfg.Output.BinaryName != "scene.bin" {
		t.Errorf("unexpected output config %+v", cfg.Output)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.LogFile != "gltftool.log" {
		t.Errorf("unexpected logging config %+v", cfg.Logging)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax", "validation:\n  level: minimal\n  invalid syntax here\n"},
		{"type", "import:\n  max_buffer_mb: lots\n"},
		{"unknown key", "validation:\n  levle: minimal\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "invalid.yaml")
			if err := os.WriteFile(configPath, []byte(tt.content), 0644); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}
			if err := loadFromFile(Default(), configPath); err == nil {
				t.Error("expected error loading invalid YAML, got nil")
			}
		})
	}
}

func TestLoadFromFileEmpty(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(configPath, nil, 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("expected empty file to load, got %v", err)
	}
	if cfg.Validation.Level != "complete" {
		t.Errorf("expected defaults to survive, got %s", cfg.Validation.Level)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if err := loadFromFile(Default(), "/nonexistent/path/gltftool.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	if err := os.WriteFile(filepath.Join(tmpDir, FileName), []byte("validation:\n  level: minimal\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}
	if path := findConfigFile(); path == "" {
		t.Errorf("expected to find %s in current directory", FileName)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "level flag",
			setup: func() { *flagLevel = "minimal" },
			verify: func(cfg *Config) {
				if cfg.Validation.Level != "minimal" {
					t.Errorf("expected level 'minimal', got %s", cfg.Validation.Level)
				}
			},
			teardown: func() { *flagLevel = "" },
		},
		{
			name:  "log file flag",
			setup: func() { *flagLogFile = "out.log" },
			verify: func(cfg *Config) {
				if cfg.Logging.LogFile != "out.log" {
					t.Errorf("expected log file 'out.log', got %s", cfg.Logging.LogFile)
				}
			},
			teardown: func() { *flagLogFile = "" },
		},
		{
			name:  "no-external flag",
			setup: func() { *flagNoExternal = true },
			verify: func(cfg *Config) {
				if cfg.Import.AllowExternal {
					t.Error("expected external files to be refused")
				}
			},
			teardown: func() { *flagNoExternal = false },
		},
		{
			name:  "compact flag",
			setup: func() { *flagCompact = true },
			verify: func(cfg *Config) {
				if cfg.Output.Indent {
					t.Error("expected compact output")
				}
			},
			teardown: func() { *flagCompact = false },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), FileName)
	yamlContent := `
validation:
  level: minimal
logging:
  level: error
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagLevel = "complete"
	defer func() {
		*flagConfig = ""
		*flagLevel = ""
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Flag beats file.
	if cfg.Validation.Level != "complete" {
		t.Errorf("expected level 'complete' from flag, got %s", cfg.Validation.Level)
	}
	// File beats default.
	if cfg.Logging.Level != "error" {
		t.Errorf("expected log level 'error' from file, got %s", cfg.Logging.Level)
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)

	cfg := Default()
	cfg.Validation.Extensions = []string{"KHR_draco_mesh_compression"}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload config: %v", err)
	}
	if len(loaded.Validation.Extensions) != 1 || loaded.Validation.Extensions[0] != "KHR_draco_mesh_compression" {
		t.Errorf("expected extensions to survive, got %v", loaded.Validation.Extensions)
	}
}
