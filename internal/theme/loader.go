// internal/theme/loader.go
package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bethropolis/textcore/internal/logger"
	"github.com/bethropolis/textcore/internal/types"
	"github.com/gdamore/tcell/v2"
)

// defaultStyleKey names the base style in a theme file.
const defaultStyleKey = "default"

// TomlStyleDef represents a single style definition in the TOML file
type TomlStyleDef struct {
	Fg            *string `toml:"fg"` // Pointers detect missing values
	Bg            *string `toml:"bg"`
	Bold          *bool   `toml:"bold"`
	Italic        *bool   `toml:"italic"`
	Underline     *bool   `toml:"underline"`
	Strikethrough *bool   `toml:"strikethrough"`
}

// TomlTheme represents the structure of a theme file. Style keys are token
// type names ("keyword-control") or capture names ("keyword.control").
type TomlTheme struct {
	Name   string                  `toml:"name"`
	IsDark bool                    `toml:"is_dark"`
	Styles map[string]TomlStyleDef `toml:"styles"`
}

// LoadThemeFromFile parses a TOML file and converts it to a Theme object
func LoadThemeFromFile(filePath string) (*Theme, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read theme file '%s': %w", filePath, err)
	}
	theme, err := ParseTheme(string(data))
	if err != nil {
		return nil, fmt.Errorf("theme file '%s': %w", filePath, err)
	}
	if theme.Name == "" {
		theme.Name = strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
		logger.Debugf("Theme file '%s' missing 'name', using filename '%s'", filePath, theme.Name)
	}
	return theme, nil
}

// ParseTheme decodes theme TOML. Styles inherit unset attributes from the
// "default" style.
func ParseTheme(data string) (*Theme, error) {
	var tomlTheme TomlTheme
	metadata, err := toml.Decode(data, &tomlTheme)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TOML theme: %w", err)
	}
	if undecoded := metadata.Undecoded(); len(undecoded) > 0 {
		logger.Warnf("Theme '%s': unrecognized keys %v", tomlTheme.Name, undecoded)
	}

	theme := &Theme{
		Name:    tomlTheme.Name,
		IsDark:  tomlTheme.IsDark,
		Default: tcell.StyleDefault,
		Styles:  make(map[types.TokenType]tcell.Style),
	}

	for name, def := range tomlTheme.Styles {
		if strings.EqualFold(name, defaultStyleKey) {
			base, err := convertTomlStyle(def, tcell.StyleDefault)
			if err != nil {
				return nil, fmt.Errorf("style '%s': %w", name, err)
			}
			theme.Default = base
		}
	}

	for name, def := range tomlTheme.Styles {
		if strings.EqualFold(name, defaultStyleKey) {
			continue
		}
		tt, ok := types.ParseTokenType(name)
		if !ok {
			logger.Warnf("Theme '%s': unknown token type '%s', skipping", theme.Name, name)
			continue
		}
		style, err := convertTomlStyle(def, theme.Default)
		if err != nil {
			logger.Warnf("Theme '%s': failed to parse style '%s', skipping: %v", theme.Name, name, err)
			continue
		}
		theme.Styles[tt] = style
	}
	return theme, nil
}

// convertTomlStyle converts the TOML definition to a tcell.Style, inheriting from a base
func convertTomlStyle(def TomlStyleDef, base tcell.Style) (tcell.Style, error) {
	style := base

	if def.Fg != nil {
		color, err := parseColorString(*def.Fg)
		if err != nil {
			return style, fmt.Errorf("invalid foreground color '%s': %w", *def.Fg, err)
		}
		style = style.Foreground(color)
	}
	if def.Bg != nil {
		color, err := parseColorString(*def.Bg)
		if err != nil {
			return style, fmt.Errorf("invalid background color '%s': %w", *def.Bg, err)
		}
		style = style.Background(color)
	}
	if def.Bold != nil {
		style = style.Bold(*def.Bold)
	}
	if def.Italic != nil {
		style = style.Italic(*def.Italic)
	}
	if def.Underline != nil {
		style = style.Underline(*def.Underline)
	}
	if def.Strikethrough != nil {
		style = style.StrikeThrough(*def.Strikethrough)
	}
	return style, nil
}

// parseColorString converts "#RRGGBB", "reset" or "default" to a tcell.Color.
func parseColorString(s string) (tcell.Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if strings.HasPrefix(s, "#") {
		if len(s) != 7 {
			return tcell.ColorDefault, fmt.Errorf("invalid hex color format '%s', must be #RRGGBB", s)
		}
		val, err := strconv.ParseInt(s[1:], 16, 32)
		if err != nil {
			return tcell.ColorDefault, fmt.Errorf("invalid hex value '%s': %w", s, err)
		}
		return tcell.NewHexColor(int32(val)), nil
	}
	switch s {
	case "reset":
		return tcell.ColorReset, nil
	case "default":
		return tcell.ColorDefault, nil
	}
	if c, ok := tcell.ColorNames[s]; ok {
		return c, nil
	}
	return tcell.ColorDefault, fmt.Errorf("unknown color format or name '%s'", s)
}
