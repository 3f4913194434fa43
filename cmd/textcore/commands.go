package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/bethropolis/textcore/internal/config"
	"github.com/bethropolis/textcore/internal/core"
	"github.com/bethropolis/textcore/internal/core/find"
	"github.com/bethropolis/textcore/internal/fileio"
	"github.com/bethropolis/textcore/internal/logger"
	"github.com/bethropolis/textcore/internal/plugin"
	"github.com/bethropolis/textcore/internal/render"
	"github.com/bethropolis/textcore/internal/types"
	"github.com/bethropolis/textcore/plugins/wordcount"
)

type command func(env *env, args []string) error

var commands = map[string]command{
	"highlight": highlightCmd,
	"search":    searchCmd,
	"stats":     statsCmd,
	"convert":   convertCmd,
}

// env is shared by the commands of one run.
type env struct {
	out      io.Writer
	registry *core.Registry
	plugins  *plugin.Manager
}

func run(cfg *config.Config, out io.Writer, name string, args []string) error {
	cmd, ok := commands[name]
	if !ok {
		return fmt.Errorf("unknown command %q", name)
	}
	ctx, err := core.NewContext(cfg)
	if err != nil {
		return err
	}
	reg := core.NewRegistry(ctx)
	defer reg.Close()

	pm := plugin.NewManager(reg, cfg)
	if err := pm.Register(wordcount.New()); err != nil {
		logger.Warnf("Failed to register WordCount plugin: %v", err)
	}
	pm.InitializePlugins()
	defer pm.ShutdownPlugins()

	return cmd(&env{out: out, registry: reg, plugins: pm}, args)
}

// open loads path into a new editor.
func (e *env) open(path string) (*core.Editor, error) {
	doc, err := fileio.ReadDocument(path)
	if err != nil {
		return nil, err
	}
	if !doc.Exists {
		return nil, fmt.Errorf("%s: file does not exist: %w", path, types.ErrIO)
	}
	ed, err := e.registry.Create()
	if err != nil {
		return nil, err
	}
	// Load detects the line ending from the raw text.
	if err := ed.Load(doc.Path, types.ConvertLineEndings(doc.Text, doc.LineEnding)); err != nil {
		return nil, err
	}
	return ed, nil
}

// save writes ed back to its file.
func save(ed *core.Editor) error {
	st := ed.State()
	if err := fileio.WriteDocument(st.FilePath, ed.Text(), st.LineEnding); err != nil {
		return err
	}
	ed.MarkSaved(st.FilePath)
	return nil
}

// parseArgs parses fs from args, allowing flags after positional arguments.
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		rest := fs.Args()
		if len(rest) == 0 {
			return positional, nil
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}

func newFlagSet(name string, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	return fs
}

func highlightCmd(e *env, args []string) error {
	fs := newFlagSet("highlight", e.out)
	lineNumbers := fs.Bool("n", false, "Show line numbers")
	plain := fs.Bool("plain", false, "Disable colors")
	asJSON := fs.Bool("json", false, "Print themed tokens as JSON")
	asCSS := fs.Bool("css", false, "Print the theme as a CSS stylesheet instead of the file")
	lang := fs.String("lang", "", "Language to use instead of detecting it from the file name")
	pos, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(pos) != 1 {
		return fmt.Errorf("highlight: expected one FILE")
	}

	ed, err := e.open(pos[0])
	if err != nil {
		return err
	}
	if *lang != "" {
		if err := ed.SetLanguage(*lang); err != nil {
			return err
		}
	}

	th, _ := e.registry.Context().Themes.GetTheme(ed.ThemeName())
	if *asCSS {
		if th == nil {
			return fmt.Errorf("highlight: theme %q not found: %w", ed.ThemeName(), types.ErrOperationFailed)
		}
		_, err := io.WriteString(e.out, th.CSS())
		return err
	}

	if *asJSON {
		text := ed.Text()
		toks, err := ed.ThemedTokens(types.NewRange(types.Pos(0, 0), types.EndOfText(types.Pos(0, 0), text)))
		if err != nil {
			return err
		}
		enc := json.NewEncoder(e.out)
		enc.SetIndent("", "  ")
		return enc.Encode(toks)
	}

	r := render.New(th, render.Options{LineNumbers: *lineNumbers, Color: !*plain})
	return r.Lines(e.out, 0, strings.Split(ed.Text(), "\n"), ed.AllTokens(), nil)
}

func searchCmd(e *env, args []string) error {
	fs := newFlagSet("search", e.out)
	replace := fs.String("replace", "", "Replace every match with this text and save the file")
	regex := fs.Bool("regex", false, "Treat QUERY as a regular expression")
	ignoreCase := fs.Bool("i", false, "Ignore case")
	word := fs.Bool("word", false, "Match whole words only")
	plain := fs.Bool("plain", false, "Disable colors")
	pos, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	doReplace := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "replace" {
			doReplace = true
		}
	})
	if len(pos) != 2 {
		return fmt.Errorf("search: expected FILE and QUERY")
	}

	ed, err := e.open(pos[0])
	if err != nil {
		return err
	}
	results, err := ed.Search(find.Options{
		Query:         pos[1],
		CaseSensitive: !*ignoreCase,
		WholeWord:     *word,
		UseRegex:      *regex,
		Forward:       true,
		WrapAround:    true,
	})
	if err != nil {
		return err
	}

	if doReplace {
		n, err := ed.ReplaceAll(*replace)
		if err != nil {
			return err
		}
		if n > 0 {
			if err := save(ed); err != nil {
				return err
			}
		}
		fmt.Fprintf(e.out, "%s: %d replacement(s)\n", pos[0], n)
		return nil
	}

	th, _ := e.registry.Context().Themes.GetTheme(ed.ThemeName())
	r := render.New(th, render.Options{Color: !*plain})
	ranges := make([]types.Range, len(results))
	for i, res := range results {
		ranges[i] = res.Range
	}
	for _, res := range results {
		n := res.Range.Start.Line
		line, err := ed.Line(n)
		if err != nil {
			return err
		}
		fmt.Fprintf(e.out, "%s:%d:%d: ", pos[0], n+1, res.Range.Start.Col+1)
		toks, err := ed.Tokens(types.NewRange(types.Pos(n, 0), types.Pos(n, len([]rune(line)))))
		if err != nil {
			return err
		}
		if err := r.Lines(e.out, n, []string{line}, toks, ranges); err != nil {
			return err
		}
	}
	fmt.Fprintf(e.out, "%d match(es)\n", len(results))
	return nil
}

func statsCmd(e *env, args []string) error {
	fs := newFlagSet("stats", e.out)
	pos, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(pos) == 0 {
		return fmt.Errorf("stats: expected at least one FILE")
	}
	for _, path := range pos {
		ed, err := e.open(path)
		if err != nil {
			return err
		}
		st := ed.State()
		lang := st.Language
		if lang == "" {
			lang = "plain"
		}
		fmt.Fprintf(e.out, "%s: %s, %s line endings\n", path, lang, st.LineEnding)
	}
	out, err := e.plugins.Execute("wc", nil)
	if err != nil {
		return err
	}
	fmt.Fprintln(e.out, out)
	return nil
}

func convertCmd(e *env, args []string) error {
	fs := newFlagSet("convert", e.out)
	eol := fs.String("eol", "", "Target line ending: unix, windows or mac")
	pos, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(pos) != 1 {
		return fmt.Errorf("convert: expected one FILE")
	}
	le, err := types.ParseLineEnding(*eol)
	if err != nil {
		return err
	}

	ed, err := e.open(pos[0])
	if err != nil {
		return err
	}
	from := ed.State().LineEnding
	if from == le {
		fmt.Fprintf(e.out, "%s: already %s\n", pos[0], le)
		return nil
	}
	ed.SetLineEnding(le)
	if err := save(ed); err != nil {
		return err
	}
	fmt.Fprintf(e.out, "%s: %s -> %s\n", pos[0], from, le)
	return nil
}
