// Package highlighter turns document text into classified tokens. Languages
// with a bundled tree-sitter grammar are parsed incrementally and queried with
// their highlight query; everything else chroma knows is lexed.
package highlighter

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/alecthomas/chroma/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/bethropolis/textcore/internal/highlighter/lang"
	"github.com/bethropolis/textcore/internal/logger"
	"github.com/bethropolis/textcore/internal/theme"
	"github.com/bethropolis/textcore/internal/types"
	"github.com/bethropolis/textcore/internal/utils"
)

const (
	DefaultCacheSize   = 100
	DefaultMaxFileSize = 8 << 20
)

// Options configures a Highlighter.
type Options struct {
	CacheSize   int // tokenizations kept; DefaultCacheSize when <= 0
	MaxFileSize int // bytes; larger documents get no tokens. 0 disables the guard
}

// Stats reports highlighter activity.
type Stats struct {
	TotalTime         time.Duration
	LastParseDuration time.Duration
	CacheHits         uint64
	CacheMisses       uint64
	Parses            uint64
	Errors            uint64
	LastError         error
}

// CacheHitRate returns hits / lookups, or 0 before the first lookup.
func (s Stats) CacheHitRate() float64 {
	total := s.CacheHits + s.CacheMisses
	if total == 0 {
		return 0
	}
	return float64(s.CacheHits) / float64(total)
}

type cacheKey struct {
	version uint64
	rng     types.Range
}

// Highlighter tokenizes one document. It is safe for concurrent use; the
// editor and the background scheduler share it.
//
// Lock order is computeMu before mu. Compute holds computeMu for its whole run
// but mu only briefly, so Invalidate never waits for a background parse.
type Highlighter struct {
	computeMu sync.Mutex
	bgParser  *sitter.Parser // used by Compute only, under computeMu

	mu       sync.Mutex
	registry *lang.Registry
	opts     Options

	language *lang.Language
	parser   *sitter.Parser
	query    *sitter.Query
	lexer    chroma.Lexer

	tree        *sitter.Tree
	treeVersion uint64
	treeDirty   bool // edits applied to tree, reparse pending

	lexVersion uint64
	lexSpans   []span
	lexValid   bool

	latest uint64 // newest document version seen
	cache  *lru.Cache[cacheKey, []types.Token]
	stats  Stats
}

// New creates a highlighter resolving language names through registry.
func New(registry *lang.Registry, opts Options) *Highlighter {
	if opts.CacheSize <= 0 {
		opts.CacheSize = DefaultCacheSize
	}
	cache, err := lru.New[cacheKey, []types.Token](opts.CacheSize)
	if err != nil {
		// Only a non-positive size fails, and that is ruled out above.
		panic(err)
	}
	if registry == nil {
		registry = lang.NewRegistry()
	}
	return &Highlighter{registry: registry, opts: opts, cache: cache}
}

// SetLanguage selects the language by name or alias. Names the registry does
// not know are tried as chroma lexers. An empty name clears the language.
func (h *Highlighter) SetLanguage(name string) error {
	h.computeMu.Lock()
	defer h.computeMu.Unlock()
	h.mu.Lock()
	defer h.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		h.resetLocked(nil)
		return nil
	}

	l, ok := h.registry.Get(name)
	if !ok {
		if chromaLexer(name) == nil {
			return fmt.Errorf("unsupported language %q: %w", name, types.ErrOperationFailed)
		}
		l = &lang.Language{Name: strings.ToLower(name)}
	}
	if h.language == l {
		return nil
	}
	h.resetLocked(l)
	logger.Debugf("Highlighter: language set to %s", l.Name)
	return nil
}

// Language returns the active language name, or "" when none is set.
func (h *Highlighter) Language() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.language == nil {
		return ""
	}
	return h.language.Name
}

// resetLocked drops all parse state and installs l.
func (h *Highlighter) resetLocked(l *lang.Language) {
	h.closeTreeLocked()
	if h.query != nil {
		h.query.Close()
		h.query = nil
	}
	if h.parser != nil {
		h.parser.Close()
		h.parser = nil
	}
	if h.bgParser != nil {
		h.bgParser.Close()
		h.bgParser = nil
	}
	h.lexer = nil
	h.lexSpans, h.lexValid = nil, false
	h.cache.Purge()
	h.language = l
	if l == nil {
		return
	}

	if l.UsesTreeSitter() {
		q, err := compileQuery(l.Query, l.TreeSitterLang)
		if err == nil {
			h.query = q
			h.parser = sitter.NewParser()
			h.parser.SetLanguage(l.TreeSitterLang)
			h.bgParser = sitter.NewParser()
			h.bgParser.SetLanguage(l.TreeSitterLang)
			return
		}
		h.recordErrorLocked(err)
		logger.Warnf("Highlighter: %s query unusable, trying lexer: %v", l.Name, err)
	}
	h.lexer = chromaLexer(l.LexerName())
	if h.lexer == nil {
		logger.Warnf("Highlighter: no lexer for %s, highlighting disabled", l.Name)
	}
}

func (h *Highlighter) closeTreeLocked() {
	if h.tree != nil {
		h.tree.Close()
		h.tree = nil
	}
	h.treeDirty = false
}

// Invalidate tells the highlighter the document moved to version. When the
// edits continue the version of the kept syntax tree they are applied to it,
// so the next parse is incremental; otherwise the tree is dropped.
func (h *Highlighter) Invalidate(version uint64, edits []types.EditInfo) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if version > h.latest {
		h.latest = version
	}
	h.cache.Purge()
	h.lexValid = false

	if h.tree == nil {
		return
	}
	if version != h.treeVersion+1 {
		logger.DebugTagf("highlight", "Dropping syntax tree at v%d, document is at v%d", h.treeVersion, version)
		h.closeTreeLocked()
		return
	}
	for _, e := range edits {
		h.tree.Edit(e.InputEdit())
	}
	h.treeVersion = version
	h.treeDirty = true
}

// TokensFor returns the tokens partitioning r in src, using the cache.
func (h *Highlighter) TokensFor(src Source, r types.Range) []types.Token {
	return h.TokensForCtx(context.Background(), src, r)
}

// TokensForCtx is TokensFor with a context bounding the parse.
func (h *Highlighter) TokensForCtx(ctx context.Context, src Source, r types.Range) []types.Token {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.language == nil {
		return nil
	}
	r = r.Normalize()
	key := cacheKey{version: src.Version(), rng: r}
	if toks, ok := h.cache.Get(key); ok {
		h.stats.CacheHits++
		return copyTokens(toks)
	}
	h.stats.CacheMisses++

	toks, err := h.computeLocked(ctx, src, r)
	if err != nil {
		h.recordErrorLocked(err)
		logger.Warnf("Highlighter: %v", err)
		return nil
	}
	if src.Version() >= h.latest {
		h.cache.Add(key, toks)
	}
	return copyTokens(toks)
}

// AllTokens returns the tokens of the whole document.
func (h *Highlighter) AllTokens(src Source) []types.Token {
	return h.TokensFor(src, types.Range{End: EndOf(src.Bytes())})
}

// Compute tokenizes r without touching the cache. The scheduler uses it on
// snapshots and publishes the result with Store. Parsing and querying run
// without mu on a copy of the kept tree, and stop early once ctx is done.
func (h *Highlighter) Compute(ctx context.Context, src Source, r types.Range) ([]types.Token, error) {
	h.computeMu.Lock()
	defer h.computeMu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	started := time.Now()
	version, text := src.Version(), src.Bytes()
	r = r.Normalize()

	h.mu.Lock()
	if h.language == nil || (h.query == nil && h.lexer == nil) {
		h.mu.Unlock()
		return nil, nil
	}
	if err := checkSize(len(text), h.opts.MaxFileSize); err != nil {
		h.recordErrorLocked(err)
		h.mu.Unlock()
		return nil, err
	}
	if version > h.latest {
		h.latest = version
	}
	name, query, lexer := h.language.Name, h.query, h.lexer
	var base *sitter.Tree
	reuse := false
	if query != nil && h.tree != nil && h.treeVersion == version {
		base, reuse = h.tree.Copy(), !h.treeDirty
	}
	h.mu.Unlock()

	var (
		spans    []span
		tree     *sitter.Tree
		parsed   bool
		parseDur time.Duration
		err      error
	)
	if query != nil {
		tree = base
		if !reuse {
			parseStart := time.Now()
			tree, err = h.bgParser.ParseCtx(ctx, base, text)
			parsed, parseDur = true, time.Since(parseStart)
			if base != nil {
				base.Close()
			}
			if err != nil {
				err = fmt.Errorf("parse %s: %v: %w", name, err, types.ErrSyntax)
			}
		}
		if err == nil {
			spans, err = captureSpans(ctx, query, tree, text, r)
		}
	} else {
		parseStart := time.Now()
		spans, err = lexSpans(lexer, text)
		parsed, parseDur = true, time.Since(parseStart)
	}
	lexed := query == nil && err == nil

	var toks []types.Token
	if err == nil {
		toks, err = buildTokens(ctx, text, spans, r)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.stats.TotalTime += time.Since(started)
	if parsed {
		h.stats.Parses++
		h.stats.LastParseDuration = parseDur
	}
	if tree != nil {
		// Keep a fresh parse when nothing newer reached the kept tree.
		current := version == h.latest && (h.tree == nil || (h.treeVersion == version && h.treeDirty))
		if !reuse && current {
			h.closeTreeLocked()
			h.tree, h.treeVersion = tree, version
		} else {
			tree.Close()
		}
	}
	if lexed && version == h.latest {
		h.lexSpans, h.lexVersion, h.lexValid = spans, version, true
	}
	if err != nil {
		if ctx.Err() == nil {
			h.recordErrorLocked(err)
		}
		return nil, err
	}
	return toks, nil
}

// Store caches tokens computed for version. Results for a version older than
// the newest one seen are discarded; Store reports whether it kept them.
func (h *Highlighter) Store(version uint64, r types.Range, tokens []types.Token) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if version < h.latest {
		logger.DebugTagf("highlight", "Discarding stale tokens for v%d (current v%d)", version, h.latest)
		return false
	}
	h.latest = version
	h.cache.Add(cacheKey{version: version, rng: r.Normalize()}, copyTokens(tokens))
	return true
}

// ApplyTheme resolves colors and styles for tokens. A nil theme means the
// built-in dark theme.
func (h *Highlighter) ApplyTheme(tokens []types.Token, th *theme.Theme) []types.ThemedToken {
	if th == nil {
		th = theme.Dark()
	}
	return th.Apply(tokens)
}

// PerformanceStats returns a copy of the counters.
func (h *Highlighter) PerformanceStats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stats
}

// Close releases parser resources.
func (h *Highlighter) Close() {
	h.computeMu.Lock()
	defer h.computeMu.Unlock()
	h.mu.Lock()
	defer h.mu.Unlock()
	h.resetLocked(nil)
}

func (h *Highlighter) recordErrorLocked(err error) {
	h.stats.Errors++
	h.stats.LastError = err
}

func (h *Highlighter) computeLocked(ctx context.Context, src Source, r types.Range) ([]types.Token, error) {
	started := time.Now()
	defer func() { h.stats.TotalTime += time.Since(started) }()

	text := src.Bytes()
	if err := checkSize(len(text), h.opts.MaxFileSize); err != nil {
		return nil, err
	}
	if src.Version() > h.latest {
		h.latest = src.Version()
	}

	var spans []span
	var err error
	switch {
	case h.query != nil:
		spans, err = h.captureSpansLocked(ctx, src.Version(), text, r)
	case h.lexer != nil:
		spans, err = h.lexedSpansLocked(src.Version(), text)
	default:
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return buildTokens(ctx, text, spans, r)
}

func checkSize(n, limit int) error {
	if limit > 0 && n > limit {
		return fmt.Errorf("document of %d bytes exceeds highlight limit of %d: %w", n, limit, types.ErrSyntax)
	}
	return nil
}

// buildTokens partitions the part of text covered by r among spans.
func buildTokens(ctx context.Context, text []byte, spans []span, r types.Range) ([]types.Token, error) {
	li := utils.NewLineIndex(text)
	from, to := li.Offset(r.Start), li.Offset(r.End)
	segs, err := partition(ctx, spans, from, to)
	if err != nil {
		return nil, err
	}
	toks := make([]types.Token, 0, len(segs))
	for _, s := range segs {
		toks = append(toks, types.Token{
			Range: types.Range{Start: li.Position(s.start), End: li.Position(s.end)},
			Type:  s.typ,
			Text:  string(text[s.start:s.end]),
		})
	}
	return toks, nil
}

// treeLocked returns a syntax tree for text at version. The kept tree is
// reused, or reparsed incrementally after Invalidate applied edits to it. A
// tree for a version older than the kept one is parsed from scratch and
// returned with owned set, and the caller must close it.
func (h *Highlighter) treeLocked(ctx context.Context, version uint64, text []byte) (tree *sitter.Tree, owned bool, err error) {
	if h.tree != nil && h.treeVersion == version && !h.treeDirty {
		return h.tree, false, nil
	}

	var old *sitter.Tree
	if h.tree != nil && h.treeVersion == version {
		old = h.tree
	}
	started := time.Now()
	parsed, err := h.parser.ParseCtx(ctx, old, text)
	h.stats.LastParseDuration = time.Since(started)
	h.stats.Parses++
	if err != nil {
		return nil, false, fmt.Errorf("parse %s: %v: %w", h.language.Name, err, types.ErrSyntax)
	}
	if parsed.RootNode().HasError() {
		logger.DebugTagf("highlight", "Syntax tree for v%d contains errors", version)
	}

	if h.tree != nil && version < h.treeVersion {
		return parsed, true, nil
	}
	h.closeTreeLocked()
	h.tree = parsed
	h.treeVersion = version
	return parsed, false, nil
}

func (h *Highlighter) captureSpansLocked(ctx context.Context, version uint64, text []byte, r types.Range) ([]span, error) {
	tree, owned, err := h.treeLocked(ctx, version, text)
	if err != nil {
		return nil, err
	}
	if owned {
		defer tree.Close()
	}
	return captureSpans(ctx, h.query, tree, text, r)
}

// captureSpans runs q over the lines of r in tree.
func captureSpans(ctx context.Context, q *sitter.Query, tree *sitter.Tree, text []byte, r types.Range) ([]span, error) {
	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.SetPointRange(
		sitter.Point{Row: uint32(r.Start.Line)},
		sitter.Point{Row: uint32(r.End.Line + 1)},
	)
	qc.Exec(q, tree.RootNode())

	var spans []span
	seq := 0
	for n := 0; ; n++ {
		if n%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		m, ok := qc.NextMatch()
		if !ok {
			break
		}
		m = qc.FilterPredicates(m, text)
		for _, c := range m.Captures {
			name := q.CaptureNameForId(c.Index)
			tt, known := types.ParseTokenType(name)
			if !known {
				continue
			}
			spans = append(spans, span{
				start:   int(c.Node.StartByte()),
				end:     int(c.Node.EndByte()),
				typ:     tt,
				pattern: int(m.PatternIndex),
				seq:     seq,
			})
			seq++
		}
	}
	return spans, nil
}

func (h *Highlighter) lexedSpansLocked(version uint64, text []byte) ([]span, error) {
	if h.lexValid && h.lexVersion == version {
		return h.lexSpans, nil
	}
	started := time.Now()
	spans, err := lexSpans(h.lexer, text)
	h.stats.LastParseDuration = time.Since(started)
	h.stats.Parses++
	if err != nil {
		return nil, err
	}
	if version >= h.lexVersion || !h.lexValid {
		h.lexSpans, h.lexVersion, h.lexValid = spans, version, true
	}
	return spans, nil
}

func copyTokens(toks []types.Token) []types.Token {
	if toks == nil {
		return nil
	}
	out := make([]types.Token, len(toks))
	copy(out, toks)
	return out
}
