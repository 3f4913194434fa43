// Package find implements search and replace over an editor's document.
package find

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/bethropolis/textcore/internal/logger"
	"github.com/bethropolis/textcore/internal/types"
	"github.com/bethropolis/textcore/internal/utils"
)

// Host is what the find manager needs from its editor. The editor calls the
// manager while holding its own lock, so Host methods must not lock it again.
type Host interface {
	Version() uint64
	Bytes() []byte
	PrimaryPosition() types.Position
	// ApplyEdits runs a batch through the editor's edit path.
	ApplyEdits(edits []types.TextEdit) error
	// Select puts the primary cursor on r.
	Select(r types.Range)
}

// Options control a search.
type Options struct {
	Query         string `json:"query"`
	CaseSensitive bool   `json:"case_sensitive"`
	WholeWord     bool   `json:"whole_word"`
	UseRegex      bool   `json:"use_regex"`
	Forward       bool   `json:"forward"`
	WrapAround    bool   `json:"wrap_around"`
}

// DefaultOptions searches forward, case-insensitively, with wrap-around.
func DefaultOptions(query string) Options {
	return Options{Query: query, Forward: true, WrapAround: true}
}

// Result is one match.
type Result struct {
	Range        types.Range `json:"range"`
	Text         string      `json:"text"`
	MatchIndex   int         `json:"match_index"`
	TotalMatches int         `json:"total_matches"`
}

type match struct {
	Result
	groups []int // submatch byte offsets into the searched text
}

// Manager holds the state of the active search. It is owned by one editor
// and guarded by the editor's lock.
type Manager struct {
	host    Host
	opts    Options
	re      *regexp.Regexp
	matches []match
	text    []byte
	version uint64
	anchor  types.Position
	current int // index into matches, -1 before the first step
}

// NewManager creates a find manager for host.
func NewManager(host Host) *Manager {
	return &Manager{host: host, current: -1}
}

// Options returns the options of the active search.
func (m *Manager) Options() Options { return m.opts }

// Search compiles opts, anchors at the primary cursor, and returns every
// match in document order. An invalid pattern fails with types.ErrSearch and
// leaves the previous search untouched.
func (m *Manager) Search(opts Options) ([]Result, error) {
	re, err := compile(opts)
	if err != nil {
		return nil, err
	}
	m.opts = opts
	m.re = re
	m.anchor = m.host.PrimaryPosition()
	m.run()
	logger.DebugTagf("find", "search %q: %d match(es) from %s", opts.Query, len(m.matches), m.anchor)
	return m.Results(), nil
}

// Results returns the current matches.
func (m *Manager) Results() []Result {
	out := make([]Result, len(m.matches))
	for i, mt := range m.matches {
		out[i] = mt.Result
	}
	return out
}

// Current returns the match the last step landed on.
func (m *Manager) Current() (Result, bool) {
	if m.current < 0 || m.current >= len(m.matches) {
		return Result{}, false
	}
	return m.matches[m.current].Result, true
}

// Clear forgets the active search.
func (m *Manager) Clear() {
	*m = Manager{host: m.host, current: -1}
}

// FindNext steps to the next match in the search direction and selects it.
func (m *Manager) FindNext() (Result, bool) {
	return m.step(m.opts.Forward)
}

// FindPrevious steps against the search direction. It undoes FindNext.
func (m *Manager) FindPrevious() (Result, bool) {
	return m.step(!m.opts.Forward)
}

// ReplaceCurrent replaces the current match, or the next one when no step
// has been taken, and moves to the first match after the replacement.
func (m *Manager) ReplaceCurrent(replacement string) (bool, error) {
	if m.re == nil {
		return false, nil
	}
	m.refresh()
	if m.current < 0 {
		if _, ok := m.FindNext(); !ok {
			return false, nil
		}
	}
	mt := m.matches[m.current]
	text := m.expand(mt, replacement)
	if err := m.host.ApplyEdits([]types.TextEdit{types.ReplaceEdit(mt.Range, text)}); err != nil {
		return false, err
	}

	after := types.EndOfText(mt.Range.Start, text)
	m.anchor = mt.Range.Start
	m.run()
	m.current = m.firstAtOrAfter(after)
	if m.current < 0 && m.opts.WrapAround && len(m.matches) > 0 {
		m.current = 0
	}
	if m.current >= 0 {
		m.host.Select(m.matches[m.current].Range)
	}
	return true, nil
}

// ReplaceAll replaces every match as one batch and returns how many were
// replaced. The batch is applied atomically; on error nothing changed.
func (m *Manager) ReplaceAll(replacement string) (int, error) {
	if m.re == nil {
		return 0, nil
	}
	m.refresh()
	if len(m.matches) == 0 {
		return 0, nil
	}
	edits := make([]types.TextEdit, len(m.matches))
	for i, mt := range m.matches {
		edits[i] = types.ReplaceEdit(mt.Range, m.expand(mt, replacement))
	}
	if err := m.host.ApplyEdits(edits); err != nil {
		return 0, err
	}
	count := len(edits)
	m.matches = nil
	m.current = -1
	logger.DebugTagf("find", "replaced %d match(es) of %q", count, m.opts.Query)
	return count, nil
}

func (m *Manager) step(forward bool) (Result, bool) {
	if m.re == nil {
		return Result{}, false
	}
	m.refresh()
	n := len(m.matches)
	if n == 0 {
		return Result{}, false
	}

	var idx int
	switch {
	case m.current < 0 && forward:
		idx = m.firstAtOrAfter(m.anchor)
		if idx < 0 && m.opts.WrapAround {
			idx = 0
		}
	case m.current < 0:
		first := m.firstAtOrAfter(m.anchor)
		switch {
		case first < 0:
			idx = n - 1
		case first > 0:
			idx = first - 1
		case m.opts.WrapAround:
			idx = n - 1
		default:
			idx = -1
		}
	case forward:
		idx = m.current + 1
		if idx >= n {
			idx = -1
			if m.opts.WrapAround {
				idx = 0
			}
		}
	default:
		idx = m.current - 1
		if idx < 0 && m.opts.WrapAround {
			idx = n - 1
		}
	}
	if idx < 0 {
		return Result{}, false
	}
	m.current = idx
	r := m.matches[idx].Result
	m.host.Select(r.Range)
	return r, true
}

// firstAtOrAfter returns the index of the first match starting at or after
// p, or -1.
func (m *Manager) firstAtOrAfter(p types.Position) int {
	i := sort.Search(len(m.matches), func(i int) bool {
		return !m.matches[i].Range.Start.Before(p)
	})
	if i == len(m.matches) {
		return -1
	}
	return i
}

// refresh re-runs the search when the document changed since the last run.
func (m *Manager) refresh() {
	if m.re != nil && m.host.Version() != m.version {
		logger.DebugTagf("find", "document changed (v%d -> v%d), re-running search", m.version, m.host.Version())
		m.anchor = m.host.PrimaryPosition()
		m.run()
	}
}

func (m *Manager) run() {
	m.text = m.host.Bytes()
	m.version = m.host.Version()
	m.current = -1
	m.matches = findAll(m.re, m.text, m.opts.WholeWord)
}

func (m *Manager) expand(mt match, replacement string) string {
	if !m.opts.UseRegex {
		return replacement
	}
	return string(m.re.Expand(nil, []byte(replacement), m.text, mt.groups))
}

func compile(opts Options) (*regexp.Regexp, error) {
	if opts.Query == "" {
		return nil, fmt.Errorf("empty search query: %w", types.ErrSearch)
	}
	pattern := opts.Query
	if !opts.UseRegex {
		pattern = regexp.QuoteMeta(pattern)
	}
	if !opts.CaseSensitive {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid search pattern %q: %v: %w", opts.Query, err, types.ErrSearch)
	}
	return re, nil
}

func findAll(re *regexp.Regexp, text []byte, wholeWord bool) []match {
	li := utils.NewLineIndex(text)
	var out []match
	for _, loc := range re.FindAllSubmatchIndex(text, -1) {
		start, end := loc[0], loc[1]
		if start == end {
			continue
		}
		if wholeWord && !isWordBounded(text, start, end) {
			continue
		}
		out = append(out, match{
			Result: Result{
				Range: types.Range{Start: li.Position(start), End: li.Position(end)},
				Text:  string(text[start:end]),
			},
			groups: loc,
		})
	}
	for i := range out {
		out[i].MatchIndex = i
		out[i].TotalMatches = len(out)
	}
	return out
}

// isWordBounded reports whether text[start:end] has a non-word character or
// the document edge on both sides.
func isWordBounded(text []byte, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRune(text[:start])
		if utils.IsWordChar(r) {
			return false
		}
	}
	if end < len(text) {
		r, _ := utf8.DecodeRune(text[end:])
		if utils.IsWordChar(r) {
			return false
		}
	}
	return true
}

// ParseSubstituteCommand parses "/pattern/replacement/[flags]". Flags: g
// replaces every match, i ignores case, w matches whole words. The pattern is
// a regular expression.
func ParseSubstituteCommand(cmd string) (opts Options, replacement string, global bool, err error) {
	parts := strings.SplitN(cmd, "/", 4)
	if len(parts) < 3 || parts[0] != "" {
		err = fmt.Errorf("invalid format %q, use /pattern/replacement/[flags]: %w", cmd, types.ErrSearch)
		return
	}
	if parts[1] == "" {
		err = fmt.Errorf("search pattern cannot be empty: %w", types.ErrSearch)
		return
	}

	opts = Options{Query: parts[1], UseRegex: true, CaseSensitive: true, Forward: true, WrapAround: true}
	replacement = parts[2]
	if len(parts) > 3 {
		for _, f := range parts[3] {
			switch f {
			case 'g':
				global = true
			case 'i':
				opts.CaseSensitive = false
			case 'w':
				opts.WholeWord = true
			default:
				err = fmt.Errorf("unknown substitute flag %q: %w", f, types.ErrSearch)
				return
			}
		}
	}
	return
}
