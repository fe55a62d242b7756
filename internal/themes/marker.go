package themes

import "sync"

// Marker receives the active theme id whenever it is applied. The rendering
// layer keys all theme CSS off this value.
type Marker interface {
	Apply(themeID string)
}

// DocumentMarker holds the value rendered as <html data-theme="...">.
type DocumentMarker struct {
	mu    sync.RWMutex
	value string
}

func (m *DocumentMarker) Apply(themeID string) {
	m.mu.Lock()
	m.value = themeID
	m.mu.Unlock()
}

func (m *DocumentMarker) Value() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.value
}
