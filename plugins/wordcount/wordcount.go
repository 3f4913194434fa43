// Package wordcount provides the :wc command, reporting lines, words and
// bytes of the open documents.
package wordcount

import (
	"fmt"
	"strings"

	"github.com/bethropolis/textcore/internal/core"
	"github.com/bethropolis/textcore/internal/plugin"
)

var _ plugin.Plugin = (*WordCount)(nil)

// WordCount registers the wc command.
type WordCount struct {
	api plugin.API
}

// New creates a new instance of the WordCount plugin.
func New() *WordCount {
	return &WordCount{}
}

// Name returns the unique name of the plugin.
func (p *WordCount) Name() string {
	return "wordcount"
}

// Initialize registers the wc command.
func (p *WordCount) Initialize(api plugin.API) error {
	p.api = api
	if err := api.RegisterCommand("wc", p.executeWordCount); err != nil {
		return fmt.Errorf("failed to register 'wc' command: %w", err)
	}
	return nil
}

// Shutdown has nothing to release.
func (p *WordCount) Shutdown() error {
	return nil
}

// Counts are the statistics of one document.
type Counts struct {
	Lines int
	Words int
	Bytes int
}

func (c Counts) String() string {
	return fmt.Sprintf("Lines: %d, Words: %d, Bytes: %d", c.Lines, c.Words, c.Bytes)
}

// Count returns the statistics of e.
func Count(e *core.Editor) Counts {
	m := e.Metrics()
	_, content := e.Save()
	return Counts{Lines: m.LineCount, Words: m.WordCount, Bytes: len(content)}
}

// executeWordCount reports every open editor, or only those whose file path
// is among args.
func (p *WordCount) executeWordCount(args []string) (string, error) {
	if p.api == nil {
		return "", fmt.Errorf("wordcount plugin not initialized with API")
	}
	want := make(map[string]bool, len(args))
	for _, a := range args {
		want[a] = true
	}

	var lines []string
	var total Counts
	for _, e := range p.api.Editors() {
		path := e.FilePath()
		if len(want) > 0 && !want[path] {
			continue
		}
		c := Count(e)
		total.Lines += c.Lines
		total.Words += c.Words
		total.Bytes += c.Bytes
		if path == "" {
			path = "[untitled]"
		}
		lines = append(lines, fmt.Sprintf("%s: %s", path, c))
	}
	if len(lines) == 0 {
		return "", fmt.Errorf("wc: no matching documents")
	}
	if len(lines) > 1 {
		lines = append(lines, "total: "+total.String())
	}
	return strings.Join(lines, "\n"), nil
}
