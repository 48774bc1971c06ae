// Package config handles exporter configuration loading and management.
package config

// Config holds all exporter settings.
type Config struct {
	Export  ExportConfig  `yaml:"export"`
	Logging LoggingConfig `yaml:"logging"`
}

// ExportConfig holds container output settings.
type ExportConfig struct {
	FormatName     string `yaml:"format_name"`      // Written after the km2B magic
	WritePropRules bool   `yaml:"write_prop_rules"` // Emit proprules.csv and propdefs.csv
	Verbose        bool   `yaml:"verbose"`          // Log every exported entity
	OutputDir      string `yaml:"output_dir"`       // Empty means next to the scene file
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Export: ExportConfig{
			FormatName:     "MidtownMadness2",
			WritePropRules: false,
			Verbose:        false,
			OutputDir:      "",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
