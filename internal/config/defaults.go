package config

const (
	defaultHost         = "0.0.0.0"
	defaultPort         = 4000
	defaultRegistryPath = "~/.config/langworker/languages.toml"
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Server: Server{
			Host: defaultHost,
			Port: defaultPort,
		},
		Registry: Registry{
			Path: defaultRegistryPath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
