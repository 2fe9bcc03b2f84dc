// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.nexus/nexus.toml or OS-specific config directory)
// 3. Project config file (nexus.toml or .nexus.toml in the working directory)
// 4. Environment variables (NEXUS_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// User-level config locations:
// - ~/.nexus/nexus.toml (preferred)
// - Windows: %APPDATA%\nexus\nexus.toml
// - macOS: ~/Library/Application Support/nexus/nexus.toml
// - Linux/BSD: $XDG_CONFIG_HOME/nexus/nexus.toml or ~/.config/nexus/nexus.toml
//
// Project-level config locations (overrides user config):
// - ./nexus.toml (preferred)
// - ./.nexus.toml
package config
