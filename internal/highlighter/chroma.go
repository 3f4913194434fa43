package highlighter

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"

	"github.com/bethropolis/textcore/internal/types"
)

// chromaLexer looks up a lexer by name and coalesces its output.
func chromaLexer(name string) chroma.Lexer {
	lex := lexers.Get(name)
	if lex == nil {
		return nil
	}
	return chroma.Coalesce(lex)
}

// lexSpans tokenises text and returns one span per classified token.
func lexSpans(lex chroma.Lexer, text []byte) ([]span, error) {
	it, err := lex.Tokenise(nil, string(text))
	if err != nil {
		return nil, fmt.Errorf("chroma tokenise: %v: %w", err, types.ErrSyntax)
	}
	var spans []span
	off := 0
	for i, tok := range it.Tokens() {
		start := off
		off += len(tok.Value)
		if start >= len(text) {
			break
		}
		tt, ok := chromaTokenType(tok.Type, tok.Value)
		if !ok {
			continue
		}
		end := off
		if end > len(text) {
			end = len(text)
		}
		spans = append(spans, span{start: start, end: end, typ: tt, seq: i})
	}
	return spans, nil
}

// chromaTokenType maps a chroma token type to ours. Plain text and
// whitespace report false so they fall into gaps.
func chromaTokenType(t chroma.TokenType, value string) (types.TokenType, bool) {
	switch t {
	case chroma.KeywordConstant:
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "true", "false":
			return types.TokenBoolean, true
		case "null", "nil", "none":
			return types.TokenNull, true
		}
		return types.TokenConstant, true
	case chroma.KeywordType:
		return types.TokenTypeBuiltin, true
	case chroma.KeywordNamespace:
		return types.TokenKeywordImport, true
	case chroma.KeywordDeclaration:
		return types.TokenKeywordStorage, true
	case chroma.NameTag, chroma.NameProperty:
		return types.TokenProperty, true
	case chroma.NameFunction, chroma.NameFunctionMagic, chroma.NameBuiltin:
		return types.TokenFunction, true
	case chroma.NameClass, chroma.NameException:
		return types.TokenTypeIdent, true
	case chroma.NameAttribute, chroma.NameDecorator:
		return types.TokenAttribute, true
	case chroma.NameConstant:
		return types.TokenConstant, true
	case chroma.NameNamespace:
		return types.TokenNamespace, true
	case chroma.NameLabel:
		return types.TokenLabel, true
	case chroma.NameBuiltinPseudo:
		return types.TokenConstantBuiltin, true
	case chroma.LiteralStringEscape, chroma.LiteralStringInterpol, chroma.LiteralStringAffix:
		return types.TokenFormatSpecifier, true
	case chroma.OperatorWord:
		return types.TokenKeywordOperator, true
	case chroma.CommentPreproc, chroma.CommentPreprocFile:
		return types.TokenAttribute, true
	case chroma.GenericHeading, chroma.GenericSubheading:
		return types.TokenKeyword, true
	case chroma.GenericDeleted, chroma.GenericError, chroma.Error:
		return types.TokenError, true
	case chroma.GenericInserted:
		return types.TokenString, true
	}

	switch {
	case t.InCategory(chroma.Comment):
		return types.TokenComment, true
	case t.InCategory(chroma.Keyword):
		return types.TokenKeyword, true
	case t.InSubCategory(chroma.LiteralString):
		return types.TokenString, true
	case t.InSubCategory(chroma.LiteralNumber):
		return types.TokenNumber, true
	case t.InCategory(chroma.Literal):
		return types.TokenConstant, true
	case t.InCategory(chroma.Operator):
		return types.TokenOperator, true
	case t.InCategory(chroma.Punctuation):
		return types.TokenPunctuation, true
	case t.InCategory(chroma.Name):
		return types.TokenVariable, true
	}
	return types.TokenText, false
}
