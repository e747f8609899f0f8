package identity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/christocomm/homebridge-ecowitt/internal/domain"
)

const station = "AA:BB:CC:DD:EE:FF"

func TestKey(t *testing.T) {
	assert.Equal(t, "AA:BB:CC:DD:EE:FF-WH25", Key(station, domain.Descriptor{Type: domain.SensorWH25}))
	assert.Equal(t, "AA:BB:CC:DD:EE:FF-WH31-3", Key(station, domain.Descriptor{Type: domain.SensorWH31, Channel: 3}))
}

func TestIdentifyIsStable(t *testing.T) {
	d := domain.Descriptor{Type: domain.SensorWH41, Channel: 2}

	a, keyA := NewResolver(station, nil).Identify(d)
	b, keyB := NewResolver(station, nil).Identify(d)
	assert.Equal(t, a, b)
	assert.Equal(t, keyA, keyB)

	parsed, err := uuid.Parse(string(a))
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(5), parsed.Version())
}

func TestIdentifyDistinguishesDescriptors(t *testing.T) {
	r := NewResolver(station, nil)
	descriptors := []domain.Descriptor{
		{Type: domain.SensorGW1000},
		{Type: domain.SensorWH25},
		{Type: domain.SensorWH57},
		{Type: domain.SensorWH65},
	}
	for ch := 1; ch <= 8; ch++ {
		descriptors = append(descriptors,
			domain.Descriptor{Type: domain.SensorWH31, Channel: ch},
			domain.Descriptor{Type: domain.SensorWH51, Channel: ch})
	}
	for ch := 1; ch <= 4; ch++ {
		descriptors = append(descriptors,
			domain.Descriptor{Type: domain.SensorWH41, Channel: ch},
			domain.Descriptor{Type: domain.SensorWH55, Channel: ch})
	}

	seen := make(map[domain.EntityID]domain.Descriptor)
	for _, d := range descriptors {
		id, _ := r.Identify(d)
		prev, dup := seen[id]
		require.False(t, dup, "id collision between %s and %s", prev, d)
		seen[id] = d
	}
}

func TestIdentifyDependsOnStation(t *testing.T) {
	d := domain.Descriptor{Type: domain.SensorWH25}
	a, _ := NewResolver(station, nil).Identify(d)
	b, _ := NewResolver("11:22:33:44:55:66", nil).Identify(d)
	assert.NotEqual(t, a, b)
}

func TestIdentifyUsesHostGenerator(t *testing.T) {
	r := NewResolver(station, func(key string) domain.EntityID { return domain.EntityID("host:" + key) })
	id, key := r.Identify(domain.Descriptor{Type: domain.SensorWH55, Channel: 1})
	assert.Equal(t, domain.EntityID("host:AA:BB:CC:DD:EE:FF-WH55-1"), id)
	assert.Equal(t, "AA:BB:CC:DD:EE:FF-WH55-1", key)
}
