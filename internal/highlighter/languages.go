// internal/highlighter/languages.go
package highlighter

import (
	"embed"
	"fmt"
	"path"

	"github.com/bethropolis/textcore/internal/highlighter/lang"
	"github.com/bethropolis/textcore/internal/logger"
	"github.com/bethropolis/textcore/internal/types"
	sitter "github.com/smacker/go-tree-sitter"

	gosrc "github.com/smacker/go-tree-sitter/golang"
	jssrc "github.com/smacker/go-tree-sitter/javascript"
	pythonsrc "github.com/smacker/go-tree-sitter/python"
	rustsrc "github.com/smacker/go-tree-sitter/rust"
	tomlsrc "github.com/smacker/go-tree-sitter/toml"
	yamlsrc "github.com/smacker/go-tree-sitter/yaml"
)

//go:embed queries/*/*.scm
var embeddedQueries embed.FS

type grammar struct {
	name       string
	aliases    []string
	extensions []string
	comment    string
	language   func() *sitter.Language
}

var grammars = []grammar{
	{"rust", []string{"rs"}, []string{".rs"}, "//", rustsrc.GetLanguage},
	{"go", []string{"golang"}, []string{".go"}, "//", gosrc.GetLanguage},
	{"python", []string{"py"}, []string{".py", ".pyw"}, "#", pythonsrc.GetLanguage},
	{"javascript", []string{"js"}, []string{".js", ".mjs", ".cjs"}, "//", jssrc.GetLanguage},
	{"toml", nil, []string{".toml"}, "#", tomlsrc.GetLanguage},
	{"yaml", []string{"yml"}, []string{".yaml", ".yml"}, "#", yamlsrc.GetLanguage},
}

// Languages without a bundled grammar; chroma lexes them.
var lexed = []*lang.Language{
	{Name: "json", Extensions: []string{".json"}},
	{Name: "markdown", Aliases: []string{"md"}, Extensions: []string{".md", ".markdown"}},
}

// QuerySource returns the embedded highlight query for a language.
func QuerySource(name string) ([]byte, error) {
	data, err := embeddedQueries.ReadFile(path.Join("queries", name, "highlights.scm"))
	if err != nil {
		return nil, fmt.Errorf("no highlight query for %s: %w", name, types.ErrOperationFailed)
	}
	return data, nil
}

// RegisterBuiltins adds the bundled languages to r.
func RegisterBuiltins(r *lang.Registry) error {
	logger.Debugf("Registering languages...")
	for _, g := range grammars {
		query, err := QuerySource(g.name)
		if err != nil {
			return err
		}
		r.Register(&lang.Language{
			Name:           g.name,
			Aliases:        g.aliases,
			Extensions:     g.extensions,
			CommentPrefix:  g.comment,
			TreeSitterLang: g.language(),
			Query:          query,
		})
	}
	for _, l := range lexed {
		copied := *l
		r.Register(&copied)
	}
	logger.Debugf("Registration complete. Registered %d languages.", len(r.All()))
	return nil
}

// NewLanguageRegistry returns a registry holding the bundled languages.
func NewLanguageRegistry() (*lang.Registry, error) {
	r := lang.NewRegistry()
	if err := RegisterBuiltins(r); err != nil {
		return nil, err
	}
	return r, nil
}
