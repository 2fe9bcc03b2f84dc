package config

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource

	// Files lists the config files that were read, lowest priority first.
	Files []string
	// Unknown lists keys found in config files that no setting uses.
	Unknown []string
}

// Default values.
const (
	DefaultStore       = "file"
	DefaultDataDir     = "~/.nexus"
	DefaultRedisAddr   = "localhost:6379"
	DefaultRedisPrefix = "nexus:"
	DefaultSort        = "date"
	DefaultFilter      = "all"
	DefaultCategory    = "all"
	DefaultLocale      = "en"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"

	sqliteFileName = "nexus.db"
	logFileName    = "nexus.log"
)

// Config holds the full configuration for nexus.
type Config struct {
	// Storage backend: file, sqlite, redis or memory.
	Store         string `toml:"store"`
	DataDir       string `toml:"data_dir"`
	SQLitePath    string `toml:"sqlite_path"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	RedisPrefix   string `toml:"redis_prefix"`

	// Initial view selection
	DefaultSort     string `toml:"default_sort"`
	DefaultFilter   string `toml:"default_filter"`
	DefaultCategory string `toml:"default_category"`

	// Show confirmation toasts in the terminal UI. Failures are always shown.
	Notifications bool `toml:"notifications"`

	// Collation locale for title sorting (BCP 47).
	Locale string `toml:"locale"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`
	// LogFile is where the terminal UI logs. Empty means <data_dir>/nexus.log.
	LogFile string `toml:"log_file"`
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.Store = DefaultStore
	cfg.DataDir = DefaultDataDir
	cfg.SQLitePath = ""
	cfg.RedisAddr = DefaultRedisAddr
	cfg.RedisPrefix = DefaultRedisPrefix
	cfg.DefaultSort = DefaultSort
	cfg.DefaultFilter = DefaultFilter
	cfg.DefaultCategory = DefaultCategory
	cfg.Notifications = true
	cfg.Locale = DefaultLocale
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
}
