package config

// Flags holds command-line overrides. Zero values leave the config untouched.
type Flags struct {
	ConfigPath string
	Debug      bool
	Verbose    bool
	PropRules  bool
	OutputDir  string
	FormatName string
	LogFile    string
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config, f Flags) {
	if f.Debug {
		cfg.Logging.Level = "debug"
		cfg.Export.Verbose = true
	}
	if f.Verbose {
		cfg.Export.Verbose = true
	}
	if f.PropRules {
		cfg.Export.WritePropRules = true
	}
	if f.OutputDir != "" {
		cfg.Export.OutputDir = f.OutputDir
	}
	if f.FormatName != "" {
		cfg.Export.FormatName = f.FormatName
	}
	if f.LogFile != "" {
		cfg.Logging.LogFile = f.LogFile
	}
}
