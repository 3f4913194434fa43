package core

import (
	"fmt"

	"github.com/bethropolis/textcore/internal/config"
	"github.com/bethropolis/textcore/internal/highlighter"
	"github.com/bethropolis/textcore/internal/highlighter/lang"
	"github.com/bethropolis/textcore/internal/logger"
	"github.com/bethropolis/textcore/internal/theme"
)

// Context carries the process-wide, read-mostly collaborators every editor
// needs. It is built once at startup and passed down.
type Context struct {
	Config    *config.Config
	Languages *lang.Registry
	Themes    *theme.Manager
}

// NewContext builds the language registry and theme manager from cfg. A nil
// cfg means the defaults.
func NewContext(cfg *config.Config) (*Context, error) {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}

	languages, err := highlighter.NewLanguageRegistry()
	if err != nil {
		return nil, fmt.Errorf("failed to build language registry: %w", err)
	}
	for ext, name := range cfg.Languages {
		if err := languages.MapExtension(ext, name); err != nil {
			logger.Warnf("Ignoring language mapping %s -> %s: %v", ext, name, err)
		}
	}

	themes := theme.NewManager(cfg.Syntax.DefaultTheme)
	if dir := cfg.ThemeDir(); dir != "" {
		if _, err := themes.LoadThemesFromDir(dir); err != nil {
			logger.Warnf("Failed to load custom themes: %v", err)
		}
	}

	return &Context{Config: cfg, Languages: languages, Themes: themes}, nil
}
