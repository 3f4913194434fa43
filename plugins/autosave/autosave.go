// Package autosave periodically writes modified documents back to disk.
package autosave

import (
	"sync"
	"time"

	"github.com/bethropolis/textcore/internal/core"
	"github.com/bethropolis/textcore/internal/fileio"
	"github.com/bethropolis/textcore/internal/logger"
	"github.com/bethropolis/textcore/internal/plugin"
)

var _ plugin.Plugin = (*AutoSave)(nil)

const (
	defaultEnabled  = false
	defaultInterval = 1 * time.Minute
)

// AutoSave saves every modified editor that has a file path, on a fixed
// interval. It is configured by [plugins.autosave] enabled and interval.
type AutoSave struct {
	api plugin.API

	mutex    sync.RWMutex
	enabled  bool
	interval time.Duration

	stopChan chan struct{}
	wg       sync.WaitGroup
}

// New creates a new instance of the AutoSave plugin.
func New() *AutoSave {
	return &AutoSave{
		enabled:  defaultEnabled,
		interval: defaultInterval,
	}
}

// Name returns the unique name of the plugin.
func (p *AutoSave) Name() string {
	return "autosave"
}

// Initialize reads configuration and starts the save loop if enabled.
func (p *AutoSave) Initialize(api plugin.API) error {
	p.api = api
	name := p.Name()

	p.mutex.Lock()
	if v, ok := api.ConfigValue(name, "enabled"); ok {
		if b, isBool := v.(bool); isBool {
			p.enabled = b
		} else {
			logger.Warnf("%s: Invalid type for 'enabled' config (%T), using default (%v)", name, v, p.enabled)
		}
	}
	if v, ok := api.ConfigValue(name, "interval"); ok {
		if s, isStr := v.(string); isStr {
			d, err := time.ParseDuration(s)
			switch {
			case err != nil:
				logger.Warnf("%s: Invalid format for 'interval' config ('%s'): %v. Using default (%v)", name, s, err, p.interval)
			case d <= 0:
				logger.Warnf("%s: 'interval' config must be positive ('%s'). Using default (%v)", name, s, p.interval)
			default:
				p.interval = d
			}
		} else {
			logger.Warnf("%s: Invalid type for 'interval' config (%T), using default (%v)", name, v, p.interval)
		}
	}
	enabled, interval := p.enabled, p.interval
	p.mutex.Unlock()

	logger.Infof("%s initialized. Enabled: %v, Interval: %v", name, enabled, interval)
	if enabled {
		p.stopChan = make(chan struct{})
		p.wg.Add(1)
		go p.saverLoop(interval)
	}
	return nil
}

// Shutdown stops the save loop and waits for it.
func (p *AutoSave) Shutdown() error {
	if p.stopChan != nil {
		close(p.stopChan)
		p.wg.Wait()
		p.stopChan = nil
		logger.Debugf("%s: Saver goroutine stopped.", p.Name())
	}
	return nil
}

func (p *AutoSave) saverLoop(interval time.Duration) {
	defer p.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.SaveModified()
		case <-p.stopChan:
			return
		}
	}
}

// SaveModified writes every modified editor that has a file path and returns
// how many were saved. Failures are logged and leave the editor modified.
func (p *AutoSave) SaveModified() int {
	if p.api == nil {
		logger.Errorf("%s: API is nil in SaveModified!", p.Name())
		return 0
	}
	saved := 0
	for _, e := range p.api.Editors() {
		if saveIfModified(e) {
			saved++
		}
	}
	return saved
}

func saveIfModified(e *core.Editor) bool {
	st := e.State()
	if !st.Dirty {
		return false
	}
	if st.FilePath == "" {
		logger.Debugf("autosave: editor %s is modified but has no path, skipping", st.ID)
		return false
	}
	if err := fileio.WriteDocument(st.FilePath, e.Text(), st.LineEnding); err != nil {
		logger.Errorf("autosave: saving '%s' failed: %v", st.FilePath, err)
		return false
	}
	e.MarkSaved(st.FilePath)
	logger.Infof("autosave: saved %s", st.FilePath)
	return true
}
