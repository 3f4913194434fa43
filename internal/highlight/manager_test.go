package highlight

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/textcore/internal/highlighter"
	"github.com/bethropolis/textcore/internal/types"
)

// document is a fake editor: it hands out text for its current version and
// records what gets published.
type document struct {
	mu       sync.Mutex
	current  uint64
	text     []byte
	versions []uint64
	tokens   []types.Token
	// gate, when set, blocks snapshot until closed.
	gate    chan struct{}
	entered chan struct{}
}

func (d *document) snapshot(version uint64) (highlighter.Snapshot, bool) {
	if d.gate != nil {
		close(d.entered)
		<-d.gate
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if version != d.current {
		return highlighter.Snapshot{}, false
	}
	return highlighter.NewSnapshot(version, d.text), true
}

func (d *document) publish(version uint64, _ types.Range, tokens []types.Token) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if version != d.current {
		return false
	}
	d.versions = append(d.versions, version)
	d.tokens = tokens
	return true
}

func (d *document) published() []uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]uint64(nil), d.versions...)
}

func newHighlighter(t *testing.T) *highlighter.Highlighter {
	t.Helper()
	reg, err := highlighter.NewLanguageRegistry()
	require.NoError(t, err)
	h := highlighter.New(reg, highlighter.Options{})
	require.NoError(t, h.SetLanguage("rust"))
	t.Cleanup(h.Close)
	return h
}

func TestScheduleDebouncesToLatest(t *testing.T) {
	doc := &document{current: 3, text: []byte("fn c() {}")}
	m := NewManager(newHighlighter(t), doc.snapshot, doc.publish, 10*time.Millisecond)
	defer m.Shutdown()

	m.Schedule(1)
	m.Schedule(2)
	m.Schedule(3)

	require.Eventually(t, func() bool { return len(doc.published()) == 1 }, time.Second, 5*time.Millisecond)
	m.Wait()
	assert.Equal(t, []uint64{3}, doc.published())
	assert.NotEmpty(t, doc.tokens)

	stats := m.Stats()
	assert.Equal(t, uint64(3), stats.Scheduled)
	assert.Equal(t, uint64(1), stats.Completed)
}

func TestStaleVersionIsDiscarded(t *testing.T) {
	doc := &document{current: 5, text: []byte("fn a() {}")}
	m := NewManager(newHighlighter(t), doc.snapshot, doc.publish, time.Millisecond)
	defer m.Shutdown()

	m.Schedule(4)
	require.Eventually(t, func() bool { return m.Stats().Discarded == 1 }, time.Second, 5*time.Millisecond)
	m.Wait()
	assert.Empty(t, doc.published())
}

func TestVersionZeroIsScheduled(t *testing.T) {
	doc := &document{current: 0, text: []byte("fn a() {}")}
	m := NewManager(newHighlighter(t), doc.snapshot, doc.publish, time.Millisecond)
	defer m.Shutdown()

	m.Schedule(0)
	require.Eventually(t, func() bool { return m.Stats().Completed == 1 }, time.Second, 5*time.Millisecond)
}

func TestCancelStopsRunningTask(t *testing.T) {
	doc := &document{
		current: 1,
		text:    []byte("fn a() {}"),
		gate:    make(chan struct{}),
		entered: make(chan struct{}),
	}
	m := NewManager(newHighlighter(t), doc.snapshot, doc.publish, time.Millisecond)
	defer m.Shutdown()

	m.Schedule(1)
	select {
	case <-doc.entered:
	case <-time.After(time.Second):
		t.Fatal("task did not start")
	}
	m.Cancel()
	close(doc.gate)
	m.Wait()

	stats := m.Stats()
	assert.Equal(t, uint64(1), stats.Cancelled)
	assert.Zero(t, stats.Completed)
	assert.Empty(t, doc.published())
}

func TestWaitWhileScheduling(t *testing.T) {
	doc := &document{current: 1, text: []byte("fn a() {}")}
	m := NewManager(newHighlighter(t), doc.snapshot, doc.publish, time.Millisecond)
	defer m.Shutdown()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				m.Schedule(1)
				time.Sleep(time.Millisecond)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				m.Wait()
			}
		}()
	}
	wg.Wait()
	require.Eventually(t, func() bool {
		m.Wait()
		return m.Stats().Completed > 0
	}, time.Second, 5*time.Millisecond)
}

func TestShutdownIgnoresLaterWork(t *testing.T) {
	doc := &document{current: 1, text: []byte("fn a() {}")}
	m := NewManager(newHighlighter(t), doc.snapshot, doc.publish, 20*time.Millisecond)
	m.Schedule(1)
	m.Shutdown()
	m.Schedule(1)

	time.Sleep(60 * time.Millisecond)
	m.Wait()
	assert.Empty(t, doc.published())
}
