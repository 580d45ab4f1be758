// SPDX-License-Identifier: BSD-3-Clause

package sm

import (
	"fmt"
	"sync"
)

// Manager tracks a set of named descriptors, an ambient convenience for
// once more than one machine lives in the same process.
type Manager struct {
	mu          sync.RWMutex
	descriptors map[string]*Descriptor
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{descriptors: make(map[string]*Descriptor)}
}

// Add registers a descriptor under name. It fails if name is already in use.
func (m *Manager) Add(name string, d *Descriptor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.descriptors[name]; exists {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, name)
	}
	m.descriptors[name] = d
	return nil
}

// Get retrieves a descriptor by name.
func (m *Manager) Get(name string) (*Descriptor, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.descriptors[name]
	return d, ok
}

// Remove drops a descriptor from the manager without stopping it.
func (m *Manager) Remove(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.descriptors, name)
}

// Names lists the registered descriptor names.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.descriptors))
	for n := range m.descriptors {
		names = append(names, n)
	}
	return names
}

// StopAll stops every registered, started descriptor, collecting any errors.
func (m *Manager) StopAll() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var firstErr error
	for _, d := range m.descriptors {
		if err := d.Stop(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
