// Package stats persists usage statistics across runs.
package stats

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Stats holds the persisted counters
type Stats struct {
	FreedLifetime int64     `json:"freed_lifetime"`
	DeleteCount   int64     `json:"delete_count"`
	LastFreedAt   time.Time `json:"last_freed_at,omitzero"`
	DefaultRoot   string    `json:"default_root,omitempty"` // root to explore when none is given
}

// Manager loads and saves stats with debounced writes so rapid deletions
// don't hammer the disk
type Manager struct {
	path         string
	stats        Stats
	mu           sync.RWMutex
	dirty        bool
	saveTimer    *time.Timer
	saveDuration time.Duration
}

// NewManager creates a manager using the default stats path
func NewManager() *Manager {
	return NewManagerAt(defaultPath())
}

// NewManagerAt creates a manager writing to an explicit path
func NewManagerAt(path string) *Manager {
	return &Manager{
		path:         path,
		saveDuration: 2 * time.Second,
	}
}

func defaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".burrow-stats.json"
	}
	return filepath.Join(home, ".burrow", "stats.json")
}

// Load reads stats from disk; a missing file starts fresh
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			m.stats = Stats{}
			return nil
		}
		return err
	}

	return json.Unmarshal(data, &m.stats)
}

// Save writes stats to disk immediately
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.saveLocked()
}

func (m *Manager) saveLocked() error {
	dir := filepath.Dir(m.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(m.stats, "", "  ")
	if err != nil {
		return err
	}

	m.dirty = false
	return os.WriteFile(m.path, data, 0644)
}

// Stats returns a copy of the current counters
func (m *Manager) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stats
}

// FreedLifetime returns the total bytes freed across all sessions
func (m *Manager) FreedLifetime() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stats.FreedLifetime
}

// DefaultRoot returns the remembered starting root, if any
func (m *Manager) DefaultRoot() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stats.DefaultRoot
}

// SetDefaultRoot remembers the root to open next time
func (m *Manager) SetDefaultRoot(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stats.DefaultRoot == path {
		return
	}

	m.stats.DefaultRoot = path
	m.dirty = true
	m.scheduleSaveLocked()
}

// AddFreed records bytes freed by one deletion batch
func (m *Manager) AddFreed(bytes int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stats.FreedLifetime += bytes
	m.stats.DeleteCount++
	m.stats.LastFreedAt = time.Now()
	m.dirty = true
	m.scheduleSaveLocked()
}

func (m *Manager) scheduleSaveLocked() {
	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}
	m.saveTimer = time.AfterFunc(m.saveDuration, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.dirty {
			_ = m.saveLocked() // background save, errors dropped
		}
	})
}

// Close flushes any pending save
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.saveTimer != nil {
		m.saveTimer.Stop()
		m.saveTimer = nil
	}

	if m.dirty {
		return m.saveLocked()
	}
	return nil
}
