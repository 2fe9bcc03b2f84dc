package config

import (
	"fmt"
	"strconv"
	"strings"
)

// setting binds one configuration field to its file key, environment
// variable and CLI flag.
type setting struct {
	key   string
	env   string
	flag  string
	usage string
	field func(*Config) interface{}
}

// settings returns every configurable field in display order.
func settings() []setting {
	return []setting{
		{"store", "NEXUS_STORE", "store", "Storage backend (file, sqlite, redis, memory)", func(c *Config) interface{} { return &c.Store }},
		{"data_dir", "NEXUS_DATA_DIR", "data-dir", "Data directory for the file backend and logs", func(c *Config) interface{} { return &c.DataDir }},
		{"sqlite_path", "NEXUS_SQLITE_PATH", "sqlite-path", "SQLite database file (default <data-dir>/nexus.db)", func(c *Config) interface{} { return &c.SQLitePath }},
		{"redis_addr", "NEXUS_REDIS_ADDR", "redis-addr", "Redis address (host:port)", func(c *Config) interface{} { return &c.RedisAddr }},
		{"redis_password", "NEXUS_REDIS_PASSWORD", "redis-password", "Redis password", func(c *Config) interface{} { return &c.RedisPassword }},
		{"redis_db", "NEXUS_REDIS_DB", "redis-db", "Redis database index", func(c *Config) interface{} { return &c.RedisDB }},
		{"redis_prefix", "NEXUS_REDIS_PREFIX", "redis-prefix", "Prefix for redis keys", func(c *Config) interface{} { return &c.RedisPrefix }},
		{"default_sort", "NEXUS_DEFAULT_SORT", "sort", "Initial sort (date, priority, title)", func(c *Config) interface{} { return &c.DefaultSort }},
		{"default_filter", "NEXUS_DEFAULT_FILTER", "filter", "Initial filter (all, active, completed)", func(c *Config) interface{} { return &c.DefaultFilter }},
		{"default_category", "NEXUS_DEFAULT_CATEGORY", "category", "Initial category", func(c *Config) interface{} { return &c.DefaultCategory }},
		{"notifications", "NEXUS_NOTIFICATIONS", "notifications", "Show confirmation toasts", func(c *Config) interface{} { return &c.Notifications }},
		{"locale", "NEXUS_LOCALE", "locale", "Collation locale for title sorting", func(c *Config) interface{} { return &c.Locale }},
		{"log_level", "NEXUS_LOG_LEVEL", "log-level", "Log level (debug, info, warn, error)", func(c *Config) interface{} { return &c.LogLevel }},
		{"log_format", "NEXUS_LOG_FORMAT", "log-format", "Log format (text, json, logfmt)", func(c *Config) interface{} { return &c.LogFormat }},
		{"log_timestamps", "NEXUS_LOG_TIMESTAMPS", "log-timestamps", "Show timestamps in logs", func(c *Config) interface{} { return &c.LogTimestamps }},
		{"log_caller", "NEXUS_LOG_CALLER", "log-caller", "Show caller location in logs", func(c *Config) interface{} { return &c.LogCaller }},
		{"log_file", "NEXUS_LOG_FILE", "log-file", "Log file for the terminal UI", func(c *Config) interface{} { return &c.LogFile }},
	}
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	all := settings()
	fields := make([]string, len(all))
	for i, s := range all {
		fields[i] = s.key
	}
	return fields
}

// Fields returns the configurable field names in display order.
func Fields() []string {
	return configFields()
}

// Value returns the current value of a field formatted for display.
// Secrets are masked.
func (c *Config) Value(key string) string {
	for _, s := range settings() {
		if s.key != key {
			continue
		}
		v := formatValue(s.field(c))
		if key == "redis_password" && v != "" {
			return "********"
		}
		return v
	}
	return ""
}

func formatValue(ptr interface{}) string {
	switch p := ptr.(type) {
	case *string:
		return *p
	case *int:
		return strconv.Itoa(*p)
	case *bool:
		return strconv.FormatBool(*p)
	}
	return ""
}

// setValue parses raw into the field ptr points to.
func setValue(ptr interface{}, raw string) error {
	switch p := ptr.(type) {
	case *string:
		*p = raw
	case *int:
		i, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("invalid integer %q", raw)
		}
		*p = i
	case *bool:
		*p = boolFromString(raw)
	default:
		return fmt.Errorf("unsupported field type %T", ptr)
	}
	return nil
}

// boolFromString parses a boolean from a string.
func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}

// settingValue adapts a config field to flag.Value.
type settingValue struct {
	ptr interface{}
}

func (v settingValue) String() string {
	if v.ptr == nil {
		return ""
	}
	return formatValue(v.ptr)
}

func (v settingValue) Set(raw string) error {
	return setValue(v.ptr, raw)
}

// IsBoolFlag lets boolean settings be given as a bare -flag.
func (v settingValue) IsBoolFlag() bool {
	_, ok := v.ptr.(*bool)
	return ok
}
