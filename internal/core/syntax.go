package core

import (
	"fmt"

	"github.com/bethropolis/textcore/internal/highlighter"
	"github.com/bethropolis/textcore/internal/logger"
	"github.com/bethropolis/textcore/internal/types"
)

// SetLanguage selects the highlighting language by name or alias. An empty
// name turns highlighting off. Unknown names fail with
// types.ErrOperationFailed and keep the current language.
func (e *Editor) SetLanguage(name string) error {
	return e.update(func() error {
		// Switching languages waits for a running computation to stop.
		e.scheduler.Cancel()
		if err := e.highlighter.SetLanguage(name); err != nil {
			return err
		}
		e.scheduleHighlightLocked()
		return nil
	})
}

// Language returns the active language name, or "".
func (e *Editor) Language() string {
	return e.highlighter.Language()
}

// Tokens returns the tokens partitioning r. Highlighting failures degrade to
// no tokens; only an invalid range is an error.
func (e *Editor) Tokens(r types.Range) ([]types.Token, error) {
	var (
		toks []types.Token
		err  error
	)
	e.read(func() {
		r = r.Normalize()
		if err = e.buffer.ValidateRange(r); err != nil {
			return
		}
		toks = e.tokensLocked(r)
	})
	return toks, err
}

// AllTokens returns the tokens of the whole document.
func (e *Editor) AllTokens() []types.Token {
	var toks []types.Token
	e.read(func() {
		toks = e.tokensLocked(types.Range{End: e.buffer.EndPosition()})
	})
	return toks
}

// ThemedTokens returns the tokens of r with colors from the editor's theme.
func (e *Editor) ThemedTokens(r types.Range) ([]types.ThemedToken, error) {
	toks, err := e.Tokens(r)
	if err != nil {
		return nil, err
	}
	var out []types.ThemedToken
	e.read(func() { out = e.highlighter.ApplyTheme(toks, e.theme) })
	return out, nil
}

// VisibleTokens returns themed tokens for the lines in the viewport.
func (e *Editor) VisibleTokens() []types.ThemedToken {
	var out []types.ThemedToken
	e.read(func() {
		first, last := e.visibleRangeLocked()
		r := types.NewRange(types.Pos(first, 0), types.Pos(last, e.buffer.LineLength(last)))
		out = e.highlighter.ApplyTheme(e.tokensLocked(r), e.theme)
	})
	return out
}

func (e *Editor) tokensLocked(r types.Range) []types.Token {
	if !e.cfg.Syntax.Enabled {
		return nil
	}
	return e.highlighter.TokensFor(e.buffer, r)
}

// SetTheme selects the theme used for themed tokens, by name.
func (e *Editor) SetTheme(name string) error {
	return e.update(func() error {
		t, ok := e.ctx.Themes.GetTheme(name)
		if !ok {
			return fmt.Errorf("theme %q not found: %w", name, types.ErrOperationFailed)
		}
		e.theme = t
		logger.Debugf("Editor %s: theme set to %s", e.id, t.Name)
		return nil
	})
}

// ThemeName returns the name of the editor's theme.
func (e *Editor) ThemeName() string {
	var name string
	e.read(func() {
		if e.theme != nil {
			name = e.theme.Name
		}
	})
	return name
}

// HighlightStats returns the highlighter's counters.
func (e *Editor) HighlightStats() highlighter.Stats {
	return e.highlighter.PerformanceStats()
}
