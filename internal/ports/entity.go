package ports

import "github.com/christocomm/homebridge-ecowitt/internal/domain"

// Entity is the per-sensor state updated from every accepted report.
// Update must tolerate records that do not carry the entity's fields.
type Entity interface {
	Descriptor() domain.Descriptor
	Update(rec *domain.Record)
	Snapshot() domain.Reading
}
