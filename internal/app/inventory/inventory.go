// Package inventory tracks the sensors registered for one station and decides which
// newly discovered sensors still need registering.
package inventory

import (
	"fmt"

	"github.com/christocomm/homebridge-ecowitt/internal/domain"
	"github.com/christocomm/homebridge-ecowitt/internal/ports"
)

// Entry binds a registered descriptor to its entity.
type Entry struct {
	Descriptor domain.Descriptor
	ID         domain.EntityID
	Entity     ports.Entity
}

// Inventory is ordered by registration and holds at most one entry per descriptor.
// It is not safe for concurrent use; the owning station serializes access.
type Inventory struct {
	entries []Entry
	index   map[domain.Descriptor]int
}

func New() *Inventory {
	return &Inventory{index: make(map[domain.Descriptor]int)}
}

// Add appends an entry. Duplicate descriptors are rejected.
func (inv *Inventory) Add(e Entry) error {
	if e.Entity == nil {
		return fmt.Errorf("inventory: nil entity for %s", e.Descriptor)
	}
	if _, ok := inv.index[e.Descriptor]; ok {
		return fmt.Errorf("inventory: %s already registered", e.Descriptor)
	}
	inv.index[e.Descriptor] = len(inv.entries)
	inv.entries = append(inv.entries, e)
	return nil
}

// Lookup returns the entry registered for d.
func (inv *Inventory) Lookup(d domain.Descriptor) (Entry, bool) {
	i, ok := inv.index[d]
	if !ok {
		return Entry{}, false
	}
	return inv.entries[i], true
}

func (inv *Inventory) Contains(d domain.Descriptor) bool {
	_, ok := inv.index[d]
	return ok
}

func (inv *Inventory) Len() int { return len(inv.entries) }

// Entries returns a copy of the entries in registration order.
func (inv *Inventory) Entries() []Entry {
	out := make([]Entry, len(inv.entries))
	copy(out, inv.entries)
	return out
}

// Descriptors returns the registered descriptors in order.
func (inv *Inventory) Descriptors() []domain.Descriptor {
	out := make([]domain.Descriptor, len(inv.entries))
	for i, e := range inv.entries {
		out[i] = e.Descriptor
	}
	return out
}
