package limiter

import (
	"context"
	"sync"

	"github.com/shandysiswandi/mailotp/internal/emailverify/entity"
)

// Memory keeps one window per origin in process. It never returns an error.
type Memory struct {
	opts Options

	mu      sync.Mutex
	windows map[string]entity.RateWindow
}

func NewMemory(opts Options) *Memory {
	return &Memory{
		opts:    opts.withDefaults(),
		windows: make(map[string]entity.RateWindow),
	}
}

// Allow counts one request for key and reports whether it fits the window.
func (m *Memory) Allow(_ context.Context, key string) (bool, error) {
	now := m.opts.Clock.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.windows[key]
	if !ok || w.Elapsed(now, m.opts.Window) {
		m.windows[key] = entity.RateWindow{Count: 1, WindowStart: now}
		return true, nil
	}

	w.Count++
	m.windows[key] = w

	return w.Count <= m.opts.Max, nil
}

// Sweep drops elapsed windows and returns how many were removed.
func (m *Memory) Sweep(_ context.Context) (int, error) {
	now := m.opts.Clock.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for key, w := range m.windows {
		if w.Elapsed(now, m.opts.Window) {
			delete(m.windows, key)
			removed++
		}
	}

	return removed, nil
}
