package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagLevel      = flag.String("level", "", "Validation level (minimal or complete)")
	flagLogFile    = flag.String("log-file", "", "Write logs to a rotating file")
	flagNoExternal = flag.Bool("no-external", false, "Refuse to read external buffer and image files")
	flagCompact    = flag.Bool("compact", false, "Write compact JSON")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the non-flag arguments.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via -config.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLevel != "" {
		cfg.Validation.Level = *flagLevel
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagNoExternal {
		cfg.Import.AllowExternal = false
	}
	if *flagCompact {
		cfg.Output.Indent = false
	}
}
