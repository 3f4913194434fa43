package lang

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// Language describes how one language is highlighted. It uses tree-sitter when
// TreeSitterLang is set and a chroma lexer otherwise.
type Language struct {
	// Name is the canonical lower-case name, e.g. "rust".
	Name string
	// Aliases are alternative names accepted by lookups.
	Aliases []string
	// Extensions maps file extensions (with the dot) to this language.
	Extensions []string
	// CommentPrefix starts a line comment; empty when the language has none.
	CommentPrefix string

	// TreeSitterLang is the tree-sitter grammar.
	TreeSitterLang *sitter.Language
	// Query is the highlight query source for TreeSitterLang.
	Query []byte

	// ChromaLexer names the chroma lexer used without a grammar. Defaults to
	// Name.
	ChromaLexer string
}

// UsesTreeSitter reports whether the language is parsed with tree-sitter.
func (l *Language) UsesTreeSitter() bool {
	return l.TreeSitterLang != nil
}

// LexerName returns the chroma lexer name.
func (l *Language) LexerName() string {
	if l.ChromaLexer != "" {
		return l.ChromaLexer
	}
	return l.Name
}

// names returns the lower-cased name and aliases.
func (l *Language) names() []string {
	out := []string{strings.ToLower(l.Name)}
	for _, a := range l.Aliases {
		out = append(out, strings.ToLower(a))
	}
	return out
}
