package theme

import (
	"github.com/bethropolis/textcore/internal/types"
	"github.com/gdamore/tcell/v2"
)

// Names of the built-in themes.
const (
	DarkThemeName  = "dark"
	LightThemeName = "light"
)

type palette map[types.TokenType]int32

// attributes every built-in theme applies on top of its colors.
var builtinAttrs = map[types.TokenType]tcell.AttrMask{
	types.TokenComment:        tcell.AttrItalic,
	types.TokenDocComment:     tcell.AttrItalic,
	types.TokenKeyword:        tcell.AttrBold,
	types.TokenKeywordControl: tcell.AttrBold,
	types.TokenTypeIdent:      tcell.AttrBold,
	types.TokenError:          tcell.AttrBold | tcell.AttrUnderline,
	types.TokenWarning:        tcell.AttrUnderline,
}

var darkPalette = palette{
	types.TokenText:                 0xD4D4D4,
	types.TokenComment:              0x6A9955,
	types.TokenDocComment:           0x608B4E,
	types.TokenDocKeyword:           0x569CD6,
	types.TokenString:               0xCE9178,
	types.TokenNumber:               0xB5CEA8,
	types.TokenBoolean:              0x569CD6,
	types.TokenNull:                 0x569CD6,
	types.TokenVariable:             0x9CDCFE,
	types.TokenParameter:            0x9CDCFE,
	types.TokenField:                0x9CDCFE,
	types.TokenProperty:             0x9CDCFE,
	types.TokenFunction:             0xDCDCAA,
	types.TokenMethod:               0xDCDCAA,
	types.TokenConstructor:          0x4EC9B0,
	types.TokenMacro:                0xC586C0,
	types.TokenDeriveMacro:          0xC586C0,
	types.TokenKeyword:              0x569CD6,
	types.TokenKeywordControl:       0xC586C0,
	types.TokenKeywordFunction:      0x569CD6,
	types.TokenKeywordReturn:        0xC586C0,
	types.TokenKeywordImport:        0x569CD6,
	types.TokenKeywordStorage:       0x569CD6,
	types.TokenKeywordOperator:      0x569CD6,
	types.TokenTypeIdent:            0x4EC9B0,
	types.TokenTypeBuiltin:          0x569CD6,
	types.TokenTypeParameter:        0x4EC9B0,
	types.TokenInterface:            0xB8D7A3,
	types.TokenStruct:               0x4EC9B0,
	types.TokenEnum:                 0x4EC9B0,
	types.TokenUnion:                0x4EC9B0,
	types.TokenTrait:                0xB8D7A3,
	types.TokenOperator:             0xD4D4D4,
	types.TokenPunctuation:          0xD4D4D4,
	types.TokenPunctuationBracket:   0xFFD700,
	types.TokenPunctuationDelimiter: 0xD4D4D4,
	types.TokenPunctuationSpecial:   0xC586C0,
	types.TokenLifetime:             0x4FC1FF,
	types.TokenLabel:                0x4FC1FF,
	types.TokenAttribute:            0xC586C0,
	types.TokenFormatSpecifier:      0xD7BA7D,
	types.TokenNamespace:            0x4EC9B0,
	types.TokenModule:               0x4EC9B0,
	types.TokenConstant:             0x4FC1FF,
	types.TokenConstantBuiltin:      0x569CD6,
	types.TokenError:                0xF44747,
	types.TokenWarning:              0xFF8C00,
}

var lightPalette = palette{
	types.TokenText:                 0x000000,
	types.TokenComment:              0x008000,
	types.TokenDocComment:           0x629755,
	types.TokenDocKeyword:           0x0000FF,
	types.TokenString:               0xA31515,
	types.TokenNumber:               0x098658,
	types.TokenBoolean:              0x0000FF,
	types.TokenNull:                 0x0000FF,
	types.TokenVariable:             0x001080,
	types.TokenParameter:            0x001080,
	types.TokenField:                0x001080,
	types.TokenProperty:             0x001080,
	types.TokenFunction:             0x795E26,
	types.TokenMethod:               0x795E26,
	types.TokenConstructor:          0x267F99,
	types.TokenMacro:                0xAF00DB,
	types.TokenDeriveMacro:          0xAF00DB,
	types.TokenKeyword:              0x0000FF,
	types.TokenKeywordControl:       0xAF00DB,
	types.TokenKeywordFunction:      0x0000FF,
	types.TokenKeywordReturn:        0xAF00DB,
	types.TokenKeywordImport:        0x0000FF,
	types.TokenKeywordStorage:       0x0000FF,
	types.TokenKeywordOperator:      0x0000FF,
	types.TokenTypeIdent:            0x267F99,
	types.TokenTypeBuiltin:          0x0000FF,
	types.TokenTypeParameter:        0x267F99,
	types.TokenInterface:            0x267F99,
	types.TokenStruct:               0x267F99,
	types.TokenEnum:                 0x267F99,
	types.TokenUnion:                0x267F99,
	types.TokenTrait:                0x267F99,
	types.TokenOperator:             0x000000,
	types.TokenPunctuation:          0x000000,
	types.TokenPunctuationBracket:   0x0431FA,
	types.TokenPunctuationDelimiter: 0x000000,
	types.TokenPunctuationSpecial:   0xAF00DB,
	types.TokenLifetime:             0x0070C1,
	types.TokenLabel:                0x0070C1,
	types.TokenAttribute:            0xAF00DB,
	types.TokenFormatSpecifier:      0xEE0000,
	types.TokenNamespace:            0x267F99,
	types.TokenModule:               0x267F99,
	types.TokenConstant:             0x0070C1,
	types.TokenConstantBuiltin:      0x0000FF,
	types.TokenError:                0xCD3131,
	types.TokenWarning:              0xB22222,
}

func buildTheme(name string, dark bool, colors palette) *Theme {
	base := tcell.StyleDefault.Background(tcell.ColorReset).Foreground(tcell.NewHexColor(colors[types.TokenText]))
	t := &Theme{
		Name:    name,
		IsDark:  dark,
		Default: base,
		Styles:  make(map[types.TokenType]tcell.Style, len(colors)),
	}
	for tt, hex := range colors {
		style := base.Foreground(tcell.NewHexColor(hex))
		if attrs, ok := builtinAttrs[tt]; ok {
			style = style.Attributes(attrs)
		}
		t.Styles[tt] = style
	}
	return t
}

// Dark returns a fresh copy of the built-in dark theme.
func Dark() *Theme { return buildTheme(DarkThemeName, true, darkPalette) }

// Light returns a fresh copy of the built-in light theme.
func Light() *Theme { return buildTheme(LightThemeName, false, lightPalette) }
