package config

import (
	"flag"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/nibzard/nexus-go/internal/kv"
	"github.com/nibzard/nexus-go/internal/view"
)

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file (~/.nexus/nexus.toml or OS-specific config dir)
// 3. Project config file (nexus.toml or .nexus.toml in current directory)
// 4. Environment variables
// 5. CLI flags
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cws, err := load(fs, args, false)
	if err != nil {
		return nil, err
	}
	return cws.Config, nil
}

// LoadWithSources loads configuration and tracks the source of each value.
// Returns ConfigWithSources containing the config and a map of field names to their sources.
func LoadWithSources(fs *flag.FlagSet, args []string) (*ConfigWithSources, error) {
	return load(fs, args, true)
}

func load(fs *flag.FlagSet, args []string, track bool) (*ConfigWithSources, error) {
	cws := &ConfigWithSources{Config: &Config{}}
	cfg := cws.Config

	// 1. Set defaults (all fields start with default source)
	setDefaults(cfg)
	if track {
		cws.Sources = make(map[string]ConfigSource)
		for _, field := range configFields() {
			cws.Sources[field] = SourceDefault
		}
	}

	// 2. User config file, then 3. project config file (overrides user config)
	files := []struct {
		path   string
		source ConfigSource
		label  string
	}{
		{findUserConfigFile(), SourceUserFile, "user"},
		{findProjectConfigFile(), SourceProjFile, "project"},
	}
	for _, f := range files {
		if f.path == "" {
			continue
		}
		unknown, err := loadConfigFileWithSources(cfg, f.path, cws.Sources, f.source)
		if err != nil {
			return nil, fmt.Errorf("loading %s config file %s: %w", f.label, f.path, err)
		}
		cws.Files = append(cws.Files, f.path)
		cws.Unknown = append(cws.Unknown, unknown...)
	}

	// 4. Override from environment
	if track {
		loadFromEnvWithSources(cfg, cws.Sources)
	} else {
		loadFromEnv(cfg)
	}

	// 5. Parse CLI flags (they override everything)
	var err error
	if track {
		err = parseFlagsWithSources(cfg, fs, args, cws.Sources)
	} else {
		err = parseFlags(cfg, fs, args)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	// 6. Compute derived values
	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}

	return cws, nil
}

// loadConfigFile loads TOML config from the given file.
func loadConfigFile(cfg *Config, path string) error {
	_, err := loadConfigFileWithSources(cfg, path, nil, "")
	return err
}

// loadConfigFileWithSources loads TOML config and records every key the
// file defines as coming from source. It returns the keys no field uses.
func loadConfigFileWithSources(cfg *Config, path string, sources map[string]ConfigSource, source ConfigSource) ([]string, error) {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, err
	}

	if sources != nil {
		for _, field := range configFields() {
			if md.IsDefined(field) {
				sources[field] = source
			}
		}
	}

	var unknown []string
	for _, key := range md.Undecoded() {
		unknown = append(unknown, key.String())
	}
	sort.Strings(unknown)
	return unknown, nil
}

// finalizeConfig computes derived values and validates enumerated settings.
func finalizeConfig(cfg *Config) error {
	// Expand ~ in paths
	cfg.DataDir = expandPath(cfg.DataDir)
	cfg.SQLitePath = expandPath(cfg.SQLitePath)
	cfg.LogFile = expandPath(cfg.LogFile)

	if cfg.SQLitePath == "" {
		cfg.SQLitePath = filepath.Join(cfg.DataDir, sqliteFileName)
	}

	kind, err := kv.ParseKind(cfg.Store)
	if err != nil {
		return err
	}
	cfg.Store = string(kind)

	sortKey, err := view.ParseSort(cfg.DefaultSort)
	if err != nil {
		return err
	}
	cfg.DefaultSort = string(sortKey)

	filter, err := view.ParseFilter(cfg.DefaultFilter)
	if err != nil {
		return err
	}
	cfg.DefaultFilter = string(filter)

	if cfg.DefaultCategory == "" {
		cfg.DefaultCategory = DefaultCategory
	}
	if cfg.RedisDB < 0 {
		return fmt.Errorf("invalid redis_db %d, must not be negative", cfg.RedisDB)
	}
	return nil
}

// UILogFile returns the file the terminal UI logs to.
func (c *Config) UILogFile() string {
	if c.LogFile != "" {
		return c.LogFile
	}
	return filepath.Join(c.DataDir, logFileName)
}

// KVOptions returns the backend options described by the config.
func (c *Config) KVOptions() kv.Options {
	return kv.Options{
		Kind:          kv.Kind(c.Store),
		Dir:           c.DataDir,
		SQLitePath:    c.SQLitePath,
		RedisAddr:     c.RedisAddr,
		RedisPassword: c.RedisPassword,
		RedisDB:       c.RedisDB,
		RedisPrefix:   c.RedisPrefix,
	}
}

// Selection returns the configured initial view selection.
func (c *Config) Selection() view.Selection {
	return view.Selection{
		Category: c.DefaultCategory,
		Filter:   view.Filter(c.DefaultFilter),
		Sort:     view.Sort(c.DefaultSort),
	}
}
