package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# nexus configuration file
# Values can be overridden by NEXUS_* environment variables or CLI flags

# Storage backend: file, sqlite, redis or memory
store = "file"

# Data directory (supports ~ expansion and %VAR% on Windows)
# The file backend keeps one <key>.json record per key here.
data_dir = "~/.nexus"

# SQLite database file (default <data_dir>/nexus.db)
# sqlite_path = "~/.nexus/nexus.db"

# Redis backend
redis_addr = "localhost:6379"
# redis_password = ""
redis_db = 0
redis_prefix = "nexus:"

# Initial view
default_sort = "date"         # date, priority, title
default_filter = "all"        # all, active, completed
default_category = "all"

# Show confirmation toasts in the terminal UI (failures are always shown)
notifications = true

# Collation locale for sorting by title
locale = "en"

# Logging
log_level = "info"            # debug, info, warn, error
log_format = "text"           # text, json, logfmt
log_timestamps = false
log_caller = false
# log_file = "~/.nexus/nexus.log"
`
}
