package types

// AppConfig is the unified application configuration, populated by viper from
// the config file, environment variables and flags.
type AppConfig struct {
	Verbose bool   `mapstructure:"verbose"`
	Project string `mapstructure:"project"`

	Log      LogConfig      `mapstructure:"log"`
	Platform PlatformConfig `mapstructure:"platform"`
	Defaults DefaultsConfig `mapstructure:"defaults"`
}

// LogConfig controls logging output.
type LogConfig struct {
	// Level is a zerolog level name (trace, debug, info, warn, error).
	Level string `mapstructure:"level"`
}

// PlatformConfig selects and configures the work-item source.
type PlatformConfig struct {
	// DataFile seeds the built-in in-memory source from a YAML fixture.
	DataFile string `mapstructure:"dataFile"`
	// Identity overrides the identity reported by the source, used to
	// resolve the @Me macro.
	Identity string `mapstructure:"identity"`
}

// DefaultsConfig carries engine defaults applied when a template omits them.
type DefaultsConfig struct {
	Rounding          string  `mapstructure:"rounding"`
	MinimumTaskPoints float64 `mapstructure:"minimumTaskPoints"`
	ContinueOnError   bool    `mapstructure:"continueOnError"`
}
