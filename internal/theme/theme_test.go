package theme

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/textcore/internal/types"
)

func TestBuiltinColors(t *testing.T) {
	dark := Dark()
	assert.Equal(t, "#569CD6", dark.Color(types.TokenKeyword))
	assert.Equal(t, "#CE9178", dark.Color(types.TokenString))
	assert.Equal(t, "#FFD700", dark.Color(types.TokenPunctuationBracket))
	assert.Equal(t, "#D4D4D4", dark.Color(types.TokenText))

	light := Light()
	assert.Equal(t, "#0000FF", light.Color(types.TokenKeyword))
	assert.Equal(t, "#A31515", light.Color(types.TokenString))
}

func TestBuiltinAttributes(t *testing.T) {
	dark := Dark()
	assert.Equal(t, []types.TextStyle{types.StyleItalic}, dark.TextStyles(types.TokenComment))
	assert.Equal(t, []types.TextStyle{types.StyleBold, types.StyleUnderline}, dark.TextStyles(types.TokenError))
	assert.Empty(t, dark.TextStyles(types.TokenNumber))
}

func TestApply(t *testing.T) {
	tokens := []types.Token{{Type: types.TokenFunction, Text: "main"}}
	themed := Dark().Apply(tokens)
	require.Len(t, themed, 1)
	assert.Equal(t, "#DCDCAA", themed[0].Color)
	assert.Equal(t, "main", themed[0].Text)
}

const sampleTheme = `
name = "Solar"
is_dark = true

[styles.default]
fg = "#102030"

[styles."keyword.control"]
fg = "#AABBCC"
bold = true

[styles.comment]
italic = true

[styles.bogus]
fg = "#000000"
`

func TestParseTheme(t *testing.T) {
	th, err := ParseTheme(sampleTheme)
	require.NoError(t, err)
	assert.Equal(t, "Solar", th.Name)
	assert.True(t, th.IsDark)
	assert.Equal(t, "#AABBCC", th.Color(types.TokenKeywordControl))
	assert.Equal(t, []types.TextStyle{types.StyleBold}, th.TextStyles(types.TokenKeywordControl))
	// Comment inherits the default foreground.
	assert.Equal(t, "#102030", th.Color(types.TokenComment))
	// Unstyled types fall back to the default style.
	assert.Equal(t, "#102030", th.Color(types.TokenNumber))
}

func TestThemeCSS(t *testing.T) {
	th, err := ParseTheme(sampleTheme)
	require.NoError(t, err)
	assert.Equal(t, ".syntax-text { color: #102030; }\n"+
		".syntax-comment { color: #102030; font-style: italic; }\n"+
		".syntax-keyword-control { color: #AABBCC; font-weight: bold; }\n", th.CSS())

	css := Dark().CSS()
	assert.Contains(t, css, ".syntax-keyword { color: #569CD6; font-weight: bold; }\n")
	assert.Contains(t, css, ".syntax-error { color: #F44747; font-weight: bold; text-decoration: underline; }\n")
	assert.Contains(t, css, ".syntax-number { color: #B5CEA8; }\n")
}

func TestParseThemeWithoutDefaultColor(t *testing.T) {
	th, err := ParseTheme(`[styles.string]
fg = "#00FF00"`)
	require.NoError(t, err)
	assert.Equal(t, "#00FF00", th.Color(types.TokenString))
	assert.Equal(t, DefaultColor, th.Color(types.TokenKeyword))
}

func TestParseColorString(t *testing.T) {
	_, err := parseColorString("#12345")
	assert.Error(t, err)
	_, err = parseColorString("#GGGGGG")
	assert.Error(t, err)
	_, err = parseColorString("red")
	assert.NoError(t, err)
	_, err = parseColorString("not-a-color")
	assert.Error(t, err)
}

func TestManager(t *testing.T) {
	m := NewManager("LIGHT")
	assert.Equal(t, LightThemeName, m.Current().Name)

	err := m.SetTheme("missing")
	assert.ErrorIs(t, err, types.ErrOperationFailed)
	assert.Equal(t, LightThemeName, m.Current().Name)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "solar.toml"), []byte(sampleTheme), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.toml"), []byte("name = "), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	n, err := m.LoadThemesFromDir(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"Solar", "dark", "light"}, m.ListThemes())

	require.NoError(t, m.SetTheme("solar"))
	assert.Equal(t, "Solar", m.Current().Name)

	n, err = m.LoadThemesFromDir(filepath.Join(dir, "absent"))
	assert.NoError(t, err)
	assert.Zero(t, n)
}

func TestManagerUnknownDefault(t *testing.T) {
	m := NewManager("nope")
	assert.Equal(t, DarkThemeName, m.Current().Name)
}
