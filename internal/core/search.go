package core

import "github.com/bethropolis/textcore/internal/core/find"

// Search runs a new search anchored at the primary cursor and returns every
// match. An invalid pattern fails with types.ErrSearch.
func (e *Editor) Search(opts find.Options) ([]find.Result, error) {
	var results []find.Result
	err := e.update(func() error {
		var err error
		results, err = e.finder.Search(opts)
		return err
	})
	return results, err
}

// SearchResults returns the matches of the active search.
func (e *Editor) SearchResults() []find.Result {
	var results []find.Result
	e.read(func() { results = e.finder.Results() })
	return results
}

// FindNext selects the next match in the search direction.
func (e *Editor) FindNext() (find.Result, bool) {
	var (
		r  find.Result
		ok bool
	)
	_ = e.update(func() error {
		r, ok = e.finder.FindNext()
		return nil
	})
	return r, ok
}

// FindPrevious selects the match before the current one. It reverses
// FindNext.
func (e *Editor) FindPrevious() (find.Result, bool) {
	var (
		r  find.Result
		ok bool
	)
	_ = e.update(func() error {
		r, ok = e.finder.FindPrevious()
		return nil
	})
	return r, ok
}

// ReplaceCurrent replaces the current match and selects the next one.
func (e *Editor) ReplaceCurrent(replacement string) (bool, error) {
	var ok bool
	err := e.update(func() error {
		var err error
		ok, err = e.finder.ReplaceCurrent(replacement)
		return err
	})
	return ok, err
}

// ReplaceAll replaces every match in one undoable step and one version
// increment, and returns the number of replacements.
func (e *Editor) ReplaceAll(replacement string) (int, error) {
	var n int
	err := e.update(func() error {
		var err error
		n, err = e.finder.ReplaceAll(replacement)
		return err
	})
	return n, err
}

// Substitute runs a "/pattern/replacement/flags" command: every match with
// the g flag, otherwise the first one after the primary cursor.
func (e *Editor) Substitute(cmd string) (int, error) {
	opts, replacement, global, err := find.ParseSubstituteCommand(cmd)
	if err != nil {
		return 0, err
	}
	var n int
	err = e.update(func() error {
		if _, err := e.finder.Search(opts); err != nil {
			return err
		}
		if global {
			var err error
			n, err = e.finder.ReplaceAll(replacement)
			return err
		}
		ok, err := e.finder.ReplaceCurrent(replacement)
		if ok {
			n = 1
		}
		return err
	})
	return n, err
}

// ClearSearch forgets the active search.
func (e *Editor) ClearSearch() {
	e.read(e.finder.Clear)
}
