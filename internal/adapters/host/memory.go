// Package host provides the hosts entities are registered with: an in-memory host and a
// file-backed journal that keeps registrations across restarts.
package host

import (
	"sync"

	"github.com/christocomm/homebridge-ecowitt/internal/domain"
	"github.com/christocomm/homebridge-ecowitt/internal/ports"
)

// Memory keeps registrations for the process lifetime only.
type Memory struct {
	mu    sync.Mutex
	order []domain.EntityID
	live  map[domain.EntityID]domain.EntityInfo
}

func NewMemory() *Memory {
	return &Memory{live: make(map[domain.EntityID]domain.EntityInfo)}
}

func (m *Memory) CachedEntities() ([]domain.EntityID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.EntityID(nil), m.order...), nil
}

func (m *Memory) RegisterEntity(id domain.EntityID, info domain.EntityInfo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.live[id]; !ok {
		m.order = append(m.order, id)
	}
	m.live[id] = info
	return nil
}

func (m *Memory) UnregisterEntities(ids []domain.EntityID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		delete(m.live, id)
	}
	kept := m.order[:0]
	for _, id := range m.order {
		if _, ok := m.live[id]; ok {
			kept = append(kept, id)
		}
	}
	m.order = kept
	return nil
}

// Entities returns the registration info of every live entity, oldest first.
func (m *Memory) Entities() []domain.EntityInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.EntityInfo, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.live[id])
	}
	return out
}

var _ ports.Host = (*Memory)(nil)
