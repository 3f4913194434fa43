// internal/theme/theme.go
package theme

import (
	"fmt"
	"strings"

	"github.com/bethropolis/textcore/internal/types"
	"github.com/gdamore/tcell/v2"
)

// DefaultColor is reported for token types a theme does not color.
const DefaultColor = "#D4D4D4"

// Theme maps token types to terminal styles.
type Theme struct {
	Name    string
	IsDark  bool
	Default tcell.Style
	Styles  map[types.TokenType]tcell.Style
}

// Style returns the style of a token type, falling back to the theme default.
func (t *Theme) Style(tt types.TokenType) tcell.Style {
	if style, ok := t.Styles[tt]; ok {
		return style
	}
	return t.Default
}

// Color returns the foreground of a token type as "#RRGGBB".
func (t *Theme) Color(tt types.TokenType) string {
	fg, _, _ := t.Style(tt).Decompose()
	return colorHex(fg)
}

// TextStyles returns the rendering attributes of a token type.
func (t *Theme) TextStyles(tt types.TokenType) []types.TextStyle {
	_, _, attrs := t.Style(tt).Decompose()
	var out []types.TextStyle
	if attrs&tcell.AttrBold != 0 {
		out = append(out, types.StyleBold)
	}
	if attrs&tcell.AttrItalic != 0 {
		out = append(out, types.StyleItalic)
	}
	if attrs&tcell.AttrUnderline != 0 {
		out = append(out, types.StyleUnderline)
	}
	if attrs&tcell.AttrStrikeThrough != 0 {
		out = append(out, types.StyleStrikethrough)
	}
	return out
}

// Apply resolves colors and styles for a slice of tokens.
func (t *Theme) Apply(tokens []types.Token) []types.ThemedToken {
	out := make([]types.ThemedToken, len(tokens))
	for i, tok := range tokens {
		out[i] = types.ThemedToken{
			Token:  tok,
			Color:  t.Color(tok.Type),
			Styles: t.TextStyles(tok.Type),
		}
	}
	return out
}

// CSS renders the theme as a stylesheet with one ".syntax-<class>" rule for
// plain text and one for every token type the theme styles.
func (t *Theme) CSS() string {
	var sb strings.Builder
	for _, tt := range types.AllTokenTypes() {
		if _, styled := t.Styles[tt]; !styled && tt != types.TokenText {
			continue
		}
		themed := types.ThemedToken{Color: t.Color(tt), Styles: t.TextStyles(tt)}
		fmt.Fprintf(&sb, ".syntax-%s { %s }\n", tt.CSSClass(), themed.CSSStyle())
	}
	return sb.String()
}

// colorHex formats a tcell color. Unset or palette-only colors report
// DefaultColor.
func colorHex(c tcell.Color) string {
	hex := c.Hex()
	if hex < 0 {
		return DefaultColor
	}
	return fmt.Sprintf("#%06X", hex)
}
