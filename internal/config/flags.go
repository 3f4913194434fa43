// internal/config/flags.go
package config

import (
	"flag"
	"fmt"
	"strings"

	"github.com/bethropolis/textcore/internal/logger"
)

// Flags holds values parsed from command-line flags.
// Use pointers to distinguish between unset flags and zero-value flags.
type Flags struct {
	ConfigFilePath  *string
	LogLevel        *string
	LogFilePath     *string
	TabSize         *int
	Theme           *string
	NoSyntax        *bool
	Store           *string
	EnableTags      *string
	DisableTags     *string
	EnablePkgs      *string
	DisablePkgs     *string
	EnableFiles     *string
	DisableFiles    *string
	SystemClipboard *bool

	fs *flag.FlagSet
}

// DefineFlags registers the flags on fs.
func (f *Flags) DefineFlags(fs *flag.FlagSet) {
	f.fs = fs
	f.ConfigFilePath = fs.String("config", "", fmt.Sprintf("Path to TOML configuration file (default ~/.config/%s/%s)", AppName, DefaultConfigFileName))
	f.LogLevel = fs.String("loglevel", "", "Log level (debug, info, warn, error) - Overrides config file")
	f.LogFilePath = fs.String("logfile", "", "Path to write log file (use '-' for stderr) - Overrides config file")
	f.TabSize = fs.Int("tabsize", 0, "Columns per tab stop - Overrides config file")
	f.Theme = fs.String("theme", "", "Theme name - Overrides config file")
	f.NoSyntax = fs.Bool("no-syntax", false, "Disable syntax highlighting")
	f.Store = fs.String("store", "", "Buffer line store (block, slice) - Overrides config file")
	f.EnableTags = fs.String("log-tags", "", "Comma-separated list of tags to enable - Overrides config file")
	f.DisableTags = fs.String("log-disable-tags", "", "Comma-separated list of tags to disable - Overrides config file")
	f.EnablePkgs = fs.String("log-packages", "", "Comma-separated list of packages to enable - Overrides config file")
	f.DisablePkgs = fs.String("log-disable-packages", "", "Comma-separated list of packages to disable - Overrides config file")
	f.EnableFiles = fs.String("log-files", "", "Comma-separated list of files to enable - Overrides config file")
	f.DisableFiles = fs.String("log-disable-files", "", "Comma-separated list of files to disable - Overrides config file")
	f.SystemClipboard = fs.Bool("system-clipboard", false, "Use system clipboard instead of internal clipboard")
}

// ApplyOverrides updates cfg with the flags that were set on the command line.
func (f *Flags) ApplyOverrides(cfg *Config) {
	if f.fs == nil {
		return
	}
	f.fs.Visit(func(fl *flag.Flag) {
		logger.DebugTagf("config", "Applying flag override: %s", fl.Name)
		switch fl.Name {
		case "loglevel":
			if *f.LogLevel != "" {
				cfg.Logger.Level = *f.LogLevel
			}
		case "logfile":
			cfg.Logger.File = *f.LogFilePath
		case "tabsize":
			if *f.TabSize > 0 {
				cfg.Editor.TabSize = *f.TabSize
			}
		case "theme":
			if *f.Theme != "" {
				cfg.Syntax.DefaultTheme = *f.Theme
			}
		case "no-syntax":
			cfg.Syntax.Enabled = !*f.NoSyntax
		case "store":
			if *f.Store != "" {
				cfg.Buffer.Store = *f.Store
			}
		case "system-clipboard":
			cfg.Editor.SystemClipboard = *f.SystemClipboard
		case "log-tags":
			cfg.Logger.EnabledTags = splitCommaList(*f.EnableTags)
		case "log-disable-tags":
			cfg.Logger.DisabledTags = splitCommaList(*f.DisableTags)
		case "log-packages":
			cfg.Logger.EnabledPackages = splitCommaList(*f.EnablePkgs)
		case "log-disable-packages":
			cfg.Logger.DisabledPackages = splitCommaList(*f.DisablePkgs)
		case "log-files":
			cfg.Logger.EnabledFiles = splitCommaList(*f.EnableFiles)
		case "log-disable-files":
			cfg.Logger.DisabledFiles = splitCommaList(*f.DisableFiles)
		}
	})
	cfg.Validate()
}

// LoadWithFlags loads the file named by -config (or the default path) and
// applies the remaining overrides.
func (f *Flags) LoadWithFlags() (*Config, error) {
	path := ""
	if f.ConfigFilePath != nil {
		path = *f.ConfigFilePath
	}
	cfg, err := Load(path)
	f.ApplyOverrides(cfg)
	return cfg, err
}

func splitCommaList(list string) []string {
	if list == "" {
		return nil
	}
	items := strings.Split(list, ",")
	result := make([]string, 0, len(items))
	for _, item := range items {
		trimmed := strings.TrimSpace(item)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
