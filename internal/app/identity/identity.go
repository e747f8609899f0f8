// Package identity derives durable entity identifiers for discovered sensors.
package identity

import (
	"strconv"

	"github.com/google/uuid"

	"github.com/christocomm/homebridge-ecowitt/internal/domain"
	"github.com/christocomm/homebridge-ecowitt/internal/ports"
)

// Namespace seeds the name-based UUIDs produced by UUIDGenerator.
var Namespace = uuid.MustParse("5b0f6a8e-3c1d-4e44-9a57-6f2b0c8d1e37")

// Key builds "<station>-<type>[-<channel>]".
func Key(station string, d domain.Descriptor) string {
	key := station + "-" + string(d.Type)
	if d.Channel > 0 {
		key += "-" + strconv.Itoa(d.Channel)
	}
	return key
}

// UUIDGenerator is the default generator: a SHA-1 name-based UUID of the key.
func UUIDGenerator(key string) domain.EntityID {
	return domain.EntityID(uuid.NewSHA1(Namespace, []byte(key)).String())
}

// Resolver maps descriptors to entity ids for one station.
type Resolver struct {
	station  string
	generate ports.IDGenerator
}

// NewResolver uses gen, or UUIDGenerator when gen is nil.
func NewResolver(station string, gen ports.IDGenerator) *Resolver {
	if gen == nil {
		gen = UUIDGenerator
	}
	return &Resolver{station: station, generate: gen}
}

// Identify returns the entity id and the key it was derived from.
func (r *Resolver) Identify(d domain.Descriptor) (domain.EntityID, string) {
	key := Key(r.station, d)
	return r.generate(key), key
}
