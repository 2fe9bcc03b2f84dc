package config

import (
	"flag"
)

// parseFlags defines and parses CLI flags.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) error {
	return parseFlagsHelper(cfg, fs, args, nil, "")
}

// parseFlagsWithSources parses CLI flags and updates source tracking.
func parseFlagsWithSources(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	return parseFlagsHelper(cfg, fs, args, sources, SourceFlag)
}

// parseFlagsHelper is the shared implementation for flag parsing.
// Flags bind straight to cfg, so only flags given on the command line
// change it. If sources is non-nil, it tracks the source of each value.
func parseFlagsHelper(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource, source ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("nexus", flag.ContinueOnError)
	}

	flagToSource := make(map[string]string)
	for _, s := range settings() {
		fs.Var(settingValue{ptr: s.field(cfg)}, s.flag, s.usage)
		flagToSource[s.flag] = s.key
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if sources != nil {
		fs.Visit(func(f *flag.Flag) {
			if fieldName, ok := flagToSource[f.Name]; ok {
				sources[fieldName] = source
			}
		})
	}
	return nil
}
