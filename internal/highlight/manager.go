// Package highlight runs syntax highlighting off the edit path.
package highlight

import (
	"context"
	"sync"
	"time"

	"github.com/bethropolis/textcore/internal/highlighter"
	"github.com/bethropolis/textcore/internal/logger"
	"github.com/bethropolis/textcore/internal/types"
	"github.com/bethropolis/textcore/internal/utils"
)

// DebounceHighlightDuration is the default quiet period before a refresh runs.
const DebounceHighlightDuration = 65 * time.Millisecond

// SnapshotFunc returns the document text at version. It reports false when
// the document has already moved past version.
type SnapshotFunc func(version uint64) (highlighter.Snapshot, bool)

// PublishFunc receives tokens computed for a document version. It reports
// whether the result was still current and kept.
type PublishFunc func(version uint64, r types.Range, tokens []types.Token) bool

// Stats counts scheduler outcomes.
type Stats struct {
	Scheduled uint64
	Completed uint64
	Discarded uint64
	Cancelled uint64
}

// Manager debounces refresh requests and tokenizes the latest version in a
// background goroutine. The document is copied only when the debounce fires,
// and a newer request cancels the one in flight.
type Manager struct {
	highlighter *highlighter.Highlighter
	snapshot    SnapshotFunc
	publish     PublishFunc
	delay       time.Duration
	debouncer   utils.Debouncer

	mu       sync.Mutex
	idle     *sync.Cond // signalled when inFlight drops to zero
	pending  uint64     // version to refresh, valid while queued
	queued   bool
	cancel   context.CancelFunc
	closed   bool
	stats    Stats
	inFlight int
}

// NewManager creates a scheduler. A non-positive delay selects
// DebounceHighlightDuration.
func NewManager(h *highlighter.Highlighter, snapshot SnapshotFunc, publish PublishFunc, delay time.Duration) *Manager {
	if delay <= 0 {
		delay = DebounceHighlightDuration
	}
	m := &Manager{highlighter: h, snapshot: snapshot, publish: publish, delay: delay}
	m.idle = sync.NewCond(&m.mu)
	return m
}

// Schedule queues a refresh for version, replacing any queued version and
// cancelling a running task.
func (m *Manager) Schedule(version uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.cancelLocked()
	m.pending, m.queued = version, true
	m.stats.Scheduled++
	logger.DebugTagf("highlight", "HighlightManager: scheduled v%d", version)
	m.debouncer.Debounce(m.delay, m.run)
}

// Cancel aborts the running task, if any. A queued refresh stays queued.
func (m *Manager) Cancel() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelLocked()
}

func (m *Manager) cancelLocked() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

func (m *Manager) run() {
	m.mu.Lock()
	if m.closed || !m.queued {
		m.mu.Unlock()
		return
	}
	version := m.pending
	m.queued = false
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.inFlight++
	m.mu.Unlock()

	go func() {
		defer m.done()
		defer cancel()

		// snapshot takes the editor lock, so m.mu must not be held here.
		snap, ok := m.snapshot(version)
		if !ok {
			m.finish(func() {
				logger.DebugTagf("highlight", "HighlightManager: v%d is stale before start", version)
				m.stats.Discarded++
			})
			return
		}
		full := types.Range{End: highlighter.EndOf(snap.Bytes())}
		tokens, err := m.highlighter.Compute(ctx, snap, full)

		switch {
		case ctx.Err() != nil:
			m.finish(func() {
				logger.DebugTagf("highlight", "HighlightManager: v%d cancelled", version)
				m.stats.Cancelled++
			})
		case err != nil:
			m.finish(func() {
				logger.Warnf("HighlightManager: background highlighting failed: %v", err)
				m.stats.Discarded++
			})
		default:
			kept := m.publish(version, full, tokens)
			m.finish(func() {
				if kept {
					m.stats.Completed++
					return
				}
				logger.DebugTagf("highlight", "HighlightManager: v%d is stale, discarded", version)
				m.stats.Discarded++
			})
		}
	}()
}

func (m *Manager) finish(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn()
}

func (m *Manager) done() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inFlight--
	if m.inFlight == 0 {
		m.idle.Broadcast()
	}
}

// Wait blocks until no background task is running.
func (m *Manager) Wait() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for m.inFlight > 0 {
		m.idle.Wait()
	}
}

// Stats returns a copy of the counters.
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

// Shutdown cancels queued and running work. Later Schedule calls are ignored.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	m.closed = true
	m.queued = false
	if m.cancel != nil {
		logger.DebugTagf("highlight", "HighlightManager: shutting down, cancelling running task")
	}
	m.cancelLocked()
	m.mu.Unlock()
	m.debouncer.Stop()
}
