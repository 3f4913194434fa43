package types

import (
	"encoding/json"
	"strings"
)

// TokenType classifies a span of source text for highlighting.
type TokenType int

const (
	TokenText TokenType = iota
	TokenComment
	TokenString
	TokenNumber
	TokenBoolean
	TokenNull
	TokenVariable
	TokenParameter
	TokenField
	TokenProperty
	TokenFunction
	TokenMethod
	TokenConstructor
	TokenMacro
	TokenKeyword
	TokenKeywordControl
	TokenKeywordFunction
	TokenKeywordReturn
	TokenKeywordImport
	TokenKeywordStorage
	TokenKeywordOperator
	TokenTypeIdent
	TokenTypeBuiltin
	TokenTypeParameter
	TokenInterface
	TokenStruct
	TokenEnum
	TokenUnion
	TokenTrait
	TokenOperator
	TokenPunctuation
	TokenPunctuationBracket
	TokenPunctuationDelimiter
	TokenPunctuationSpecial
	TokenLifetime
	TokenLabel
	TokenAttribute
	TokenDeriveMacro
	TokenFormatSpecifier
	TokenNamespace
	TokenModule
	TokenConstant
	TokenConstantBuiltin
	TokenError
	TokenWarning
	TokenDocComment
	TokenDocKeyword

	tokenTypeCount
)

var tokenTypeNames = [tokenTypeCount]string{
	TokenText:                 "text",
	TokenComment:              "comment",
	TokenString:               "string",
	TokenNumber:               "number",
	TokenBoolean:              "boolean",
	TokenNull:                 "null",
	TokenVariable:             "variable",
	TokenParameter:            "parameter",
	TokenField:                "field",
	TokenProperty:             "property",
	TokenFunction:             "function",
	TokenMethod:               "method",
	TokenConstructor:          "constructor",
	TokenMacro:                "macro",
	TokenKeyword:              "keyword",
	TokenKeywordControl:       "keyword-control",
	TokenKeywordFunction:      "keyword-function",
	TokenKeywordReturn:        "keyword-return",
	TokenKeywordImport:        "keyword-import",
	TokenKeywordStorage:       "keyword-storage",
	TokenKeywordOperator:      "keyword-operator",
	TokenTypeIdent:            "type",
	TokenTypeBuiltin:          "type-builtin",
	TokenTypeParameter:        "type-parameter",
	TokenInterface:            "interface",
	TokenStruct:               "struct",
	TokenEnum:                 "enum",
	TokenUnion:                "union",
	TokenTrait:                "trait",
	TokenOperator:             "operator",
	TokenPunctuation:          "punctuation",
	TokenPunctuationBracket:   "punctuation-bracket",
	TokenPunctuationDelimiter: "punctuation-delimiter",
	TokenPunctuationSpecial:   "punctuation-special",
	TokenLifetime:             "lifetime",
	TokenLabel:                "label",
	TokenAttribute:            "attribute",
	TokenDeriveMacro:          "derive-macro",
	TokenFormatSpecifier:      "format-specifier",
	TokenNamespace:            "namespace",
	TokenModule:               "module",
	TokenConstant:             "constant",
	TokenConstantBuiltin:      "constant-builtin",
	TokenError:                "error",
	TokenWarning:              "warning",
	TokenDocComment:           "doc-comment",
	TokenDocKeyword:           "doc-keyword",
}

// Capture names used by common highlight queries that do not follow the
// "a.b" -> "a-b" convention.
var captureAliases = map[string]TokenType{
	"function.method":     TokenMethod,
	"function.macro":      TokenMacro,
	"function.builtin":    TokenFunction,
	"function.call":       TokenFunction,
	"method.call":         TokenMethod,
	"variable.parameter":  TokenParameter,
	"variable.builtin":    TokenConstantBuiltin,
	"variable.member":     TokenField,
	"string.special":      TokenString,
	"string.escape":       TokenFormatSpecifier,
	"escape":              TokenFormatSpecifier,
	"character":           TokenString,
	"float":               TokenNumber,
	"comment.doc":         TokenDocComment,
	"keyword.return":      TokenKeywordReturn,
	"keyword.repeat":      TokenKeywordControl,
	"keyword.conditional": TokenKeywordControl,
	"keyword.exception":   TokenKeywordControl,
	"include":             TokenKeywordImport,
	"tag":                 TokenTypeIdent,
	"constructor":         TokenConstructor,
}

// AllTokenTypes returns every token type in declaration order.
func AllTokenTypes() []TokenType {
	out := make([]TokenType, 0, tokenTypeCount)
	for t := TokenText; t < tokenTypeCount; t++ {
		out = append(out, t)
	}
	return out
}

// String returns the kebab-case name of the token type.
func (t TokenType) String() string {
	if t < 0 || t >= tokenTypeCount {
		return "text"
	}
	return tokenTypeNames[t]
}

// CSSClass returns the class name a renderer attaches to the token.
func (t TokenType) CSSClass() string { return t.String() }

// Precedence decides which classification wins when captures overlap.
func (t TokenType) Precedence() int {
	switch t {
	case TokenError, TokenWarning:
		return 100
	case TokenString, TokenComment, TokenDocComment:
		return 90
	case TokenAttribute, TokenDeriveMacro:
		return 85
	case TokenMacro, TokenFormatSpecifier:
		return 80
	case TokenKeyword, TokenKeywordControl, TokenKeywordFunction:
		return 70
	case TokenTypeIdent, TokenTypeBuiltin, TokenStruct, TokenEnum:
		return 60
	case TokenFunction, TokenMethod, TokenConstructor:
		return 50
	case TokenVariable, TokenParameter, TokenField:
		return 40
	case TokenOperator, TokenPunctuation:
		return 30
	case TokenNumber, TokenBoolean:
		return 20
	case TokenText:
		return 10
	}
	return 50
}

// ParseTokenType maps a css name ("keyword-control") or a query capture name
// ("keyword.control", "@keyword.control") to a token type. Unknown dotted
// names fall back to their longest known prefix.
func ParseTokenType(name string) (TokenType, bool) {
	name = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), "@")
	if name == "" {
		return TokenText, false
	}
	if t, ok := captureAliases[name]; ok {
		return t, true
	}
	for {
		kebab := strings.ReplaceAll(name, ".", "-")
		for t, n := range tokenTypeNames {
			if n == kebab {
				return TokenType(t), true
			}
		}
		dot := strings.LastIndexByte(name, '.')
		if dot < 0 {
			return TokenText, false
		}
		name = name[:dot]
		if t, ok := captureAliases[name]; ok {
			return t, true
		}
	}
}

// MarshalJSON encodes the token type as its css name.
func (t TokenType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON accepts the css name.
func (t *TokenType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, _ := ParseTokenType(s)
	*t = parsed
	return nil
}

// Token is a classified span of text.
type Token struct {
	Range Range     `json:"range"`
	Type  TokenType `json:"token_type"`
	Text  string    `json:"text"`
}

// TextStyle is an extra rendering attribute carried by a themed token.
type TextStyle string

const (
	StyleBold          TextStyle = "bold"
	StyleItalic        TextStyle = "italic"
	StyleUnderline     TextStyle = "underline"
	StyleStrikethrough TextStyle = "strikethrough"
)

// ThemedToken is a token with its resolved color ("#RRGGBB") and styles.
type ThemedToken struct {
	Token
	Color  string      `json:"color"`
	Styles []TextStyle `json:"styles,omitempty"`
}

// CSSStyle returns the token's color and styles as CSS declarations, for
// example "color: #569CD6; font-weight: bold;".
func (t ThemedToken) CSSStyle() string {
	var sb strings.Builder
	sb.WriteString("color: " + t.Color + ";")
	var decorations []string
	for _, s := range t.Styles {
		switch s {
		case StyleBold:
			sb.WriteString(" font-weight: bold;")
		case StyleItalic:
			sb.WriteString(" font-style: italic;")
		case StyleUnderline:
			decorations = append(decorations, "underline")
		case StyleStrikethrough:
			decorations = append(decorations, "line-through")
		}
	}
	if len(decorations) > 0 {
		sb.WriteString(" text-decoration: " + strings.Join(decorations, " ") + ";")
	}
	return sb.String()
}
