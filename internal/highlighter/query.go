package highlighter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/bethropolis/textcore/internal/logger"
	"github.com/bethropolis/textcore/internal/types"
	sitter "github.com/smacker/go-tree-sitter"
)

// compileQuery compiles a highlight query. When the whole source fails, it is
// split into top-level patterns and every pattern the grammar accepts is kept,
// so one stale node name does not disable highlighting for the language.
func compileQuery(source []byte, language *sitter.Language) (*sitter.Query, error) {
	q, err := sitter.NewQuery(source, language)
	if err == nil {
		return q, nil
	}
	logger.Warnf("Highlight query failed to compile (%v), retrying per pattern", err)

	var kept [][]byte
	skipped := 0
	for _, pattern := range splitPatterns(source) {
		pq, perr := sitter.NewQuery(pattern, language)
		if perr != nil {
			logger.DebugTagf("highlight", "Skipping query pattern %q: %v", firstLine(pattern), perr)
			skipped++
			continue
		}
		pq.Close()
		kept = append(kept, pattern)
	}
	if len(kept) == 0 {
		return nil, fmt.Errorf("no usable highlight patterns (%v): %w", err, types.ErrSyntax)
	}
	q, err = sitter.NewQuery(bytes.Join(kept, []byte("\n")), language)
	if err != nil {
		return nil, fmt.Errorf("highlight query: %v: %w", err, types.ErrSyntax)
	}
	logger.Warnf("Highlight query compiled with %d of %d patterns", len(kept), len(kept)+skipped)
	return q, nil
}

// splitPatterns cuts a query into its top-level patterns. A pattern starts on
// a line that begins outside any parenthesis or bracket with "(", "[", "\""
// or "_", and runs until the next such line.
func splitPatterns(source []byte) [][]byte {
	var patterns [][]byte
	var current []byte
	depth := 0

	flush := func() {
		if len(bytes.TrimSpace(current)) > 0 {
			patterns = append(patterns, current)
		}
		current = nil
	}

	for _, line := range bytes.SplitAfter(source, []byte("\n")) {
		trimmed := bytes.TrimSpace(line)
		if depth == 0 && len(trimmed) > 0 && bytes.IndexByte([]byte("([\"_"), trimmed[0]) >= 0 {
			flush()
		}
		if depth == 0 && len(current) == 0 && (len(trimmed) == 0 || trimmed[0] == ';') {
			continue
		}
		current = append(current, line...)
		depth += nesting(line)
		if depth < 0 {
			depth = 0
		}
	}
	flush()
	return patterns
}

// nesting returns the change in bracket depth over one line, ignoring
// strings and comments.
func nesting(line []byte) int {
	delta := 0
	inString := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case inString && c == '\\':
			i++
		case c == '"':
			inString = !inString
		case inString:
		case c == ';':
			return delta
		case c == '(' || c == '[':
			delta++
		case c == ')' || c == ']':
			delta--
		}
	}
	return delta
}

func firstLine(b []byte) string {
	s := strings.TrimSpace(string(b))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
