package inventory

import "github.com/christocomm/homebridge-ecowitt/internal/domain"

// Dispatch applies rec to every bound entity in inventory order and returns their
// snapshots in the same order. Entities whose fields are absent still get the call.
func Dispatch(inv *Inventory, rec *domain.Record) []*domain.Reading {
	out := make([]*domain.Reading, 0, inv.Len())
	for _, e := range inv.entries {
		e.Entity.Update(rec)
		snap := e.Entity.Snapshot()
		snap.EntityID = e.ID
		out = append(out, &snap)
	}
	return out
}
