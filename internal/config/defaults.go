package config

const (
	defaultDatabasePath      = "~/.local/share/vidsync/catalog.db"
	defaultLogDir            = "~/.local/share/vidsync/logs"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	defaultResolverBinary    = "yt-dlp"
	defaultResolverTimeout   = 120
	defaultResolverUserAgent = "vidsync/dev"
	defaultDuplicatePolicy   = "interactive"
	defaultScrapeFallback    = true
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			Database: defaultDatabasePath,
			LogDir:   defaultLogDir,
		},
		Resolver: Resolver{
			Binary:         defaultResolverBinary,
			TimeoutSeconds: defaultResolverTimeout,
			ScrapeFallback: defaultScrapeFallback,
			UserAgent:      defaultResolverUserAgent,
		},
		Import: Import{
			DuplicatePolicy: defaultDuplicatePolicy,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
