// Package logger provides configurable logging capabilities
package logger

import (
	"log/slog"
	"strings"
)

// Config holds all settings for the logger. It is decoded from the [logger]
// table of the config file.
type Config struct {
	// Level is the minimum level to log: "debug", "info", "warn" or "error".
	Level string `toml:"level"`

	// File is the path of the log file. Empty or "-" means stderr.
	File string `toml:"file"`

	// EnabledTags only logs messages with these tags (if non-empty).
	EnabledTags []string `toml:"enabled_tags"`
	// DisabledTags drops messages with these tags. Overrides EnabledTags.
	DisabledTags []string `toml:"disabled_tags"`

	// EnabledPackages only logs messages from these packages (if non-empty).
	// The package is the immediate directory name, e.g. "buffer" or "find".
	EnabledPackages []string `toml:"enabled_packages"`
	// DisabledPackages drops messages from these packages.
	DisabledPackages []string `toml:"disabled_packages"`

	// EnabledFiles and DisabledFiles filter by base filename.
	EnabledFiles  []string `toml:"enabled_files"`
	DisabledFiles []string `toml:"disabled_files"`
}

// NewConfig creates a Config with default values.
func NewConfig() Config {
	return Config{Level: "info"}
}

// ParseLevel converts a level name to a slog level, defaulting to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error", "err":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// filters is the processed, lower-cased form of the filter lists.
type filters struct {
	enabledTags      map[string]struct{}
	disabledTags     map[string]struct{}
	enabledPackages  map[string]struct{}
	disabledPackages map[string]struct{}
	enabledFiles     map[string]struct{}
	disabledFiles    map[string]struct{}
}

func (c Config) filters() *filters {
	return &filters{
		enabledTags:      sliceToSet(c.EnabledTags),
		disabledTags:     sliceToSet(c.DisabledTags),
		enabledPackages:  sliceToSet(c.EnabledPackages),
		disabledPackages: sliceToSet(c.DisabledPackages),
		enabledFiles:     sliceToSet(c.EnabledFiles),
		disabledFiles:    sliceToSet(c.DisabledFiles),
	}
}

// empty reports whether no filter is configured at all.
func (f *filters) empty() bool {
	return f.enabledTags == nil && f.disabledTags == nil &&
		f.enabledPackages == nil && f.disabledPackages == nil &&
		f.enabledFiles == nil && f.disabledFiles == nil
}

func sliceToSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		if item != "" {
			set[strings.ToLower(item)] = struct{}{}
		}
	}
	if len(set) == 0 {
		return nil // nil map simplifies checks later
	}
	return set
}
