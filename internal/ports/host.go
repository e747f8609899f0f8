package ports

import "github.com/christocomm/homebridge-ecowitt/internal/domain"

// Host is the bridge host entities are registered with. Hosts may keep registrations
// across restarts; CachedEntities reports what survived.
type Host interface {
	CachedEntities() ([]domain.EntityID, error)
	RegisterEntity(id domain.EntityID, info domain.EntityInfo) error
	UnregisterEntities(ids []domain.EntityID) error
}

// IDGenerator turns an identity key into the host's durable identifier.
type IDGenerator func(key string) domain.EntityID
