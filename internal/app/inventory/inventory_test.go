package inventory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/christocomm/homebridge-ecowitt/internal/domain"
)

var (
	wh25  = domain.Descriptor{Type: domain.SensorWH25}
	wh31a = domain.Descriptor{Type: domain.SensorWH31, Channel: 1}
	wh31b = domain.Descriptor{Type: domain.SensorWH31, Channel: 2}
)

type countingEntity struct {
	d       domain.Descriptor
	updates int
	last    *domain.Record
}

func (c *countingEntity) Descriptor() domain.Descriptor { return c.d }
func (c *countingEntity) Update(rec *domain.Record) {
	c.updates++
	c.last = rec
}
func (c *countingEntity) Snapshot() domain.Reading {
	return domain.Reading{SensorType: c.d.Type, Channel: c.d.Channel}
}

func mustAdd(t *testing.T, inv *Inventory, d domain.Descriptor) *countingEntity {
	t.Helper()
	e := &countingEntity{d: d}
	require.NoError(t, inv.Add(Entry{Descriptor: d, ID: domain.EntityID(d.String()), Entity: e}))
	return e
}

func TestReconcileEmptyInventoryAddsEverything(t *testing.T) {
	plan := Reconcile(New(), []domain.Descriptor{wh25, wh31a})
	assert.Equal(t, []domain.Descriptor{wh25, wh31a}, plan.ToAdd)
	assert.Empty(t, plan.ToKeep)
}

func TestReconcileKeepsAndAdds(t *testing.T) {
	inv := New()
	mustAdd(t, inv, wh25)

	plan := Reconcile(inv, []domain.Descriptor{wh25, wh31a, wh31a})
	assert.Equal(t, []domain.Descriptor{wh31a}, plan.ToAdd)
	assert.Equal(t, []domain.Descriptor{wh25}, plan.ToKeep)
}

func TestReconcileNeverRemoves(t *testing.T) {
	inv := New()
	mustAdd(t, inv, wh25)
	mustAdd(t, inv, wh31a)

	plan := Reconcile(inv, []domain.Descriptor{wh25})
	assert.Empty(t, plan.ToAdd)
	assert.Equal(t, []domain.Descriptor{wh25}, plan.ToKeep)
	assert.Equal(t, 2, inv.Len())

	plan = Reconcile(inv, nil)
	assert.Empty(t, plan.ToAdd)
	assert.Empty(t, plan.ToKeep)
	assert.Equal(t, []domain.Descriptor{wh25, wh31a}, inv.Descriptors())
}

func TestInventoryRejectsDuplicates(t *testing.T) {
	inv := New()
	mustAdd(t, inv, wh31a)

	err := inv.Add(Entry{Descriptor: wh31a, Entity: &countingEntity{d: wh31a}})
	assert.Error(t, err)
	assert.Equal(t, 1, inv.Len())

	assert.Error(t, inv.Add(Entry{Descriptor: wh31b}))
}

func TestDispatchUpdatesEveryEntityInOrder(t *testing.T) {
	inv := New()
	a := mustAdd(t, inv, wh25)
	b := mustAdd(t, inv, wh31a)
	c := mustAdd(t, inv, wh31b)

	rec := domain.NewRecord(map[string]string{"wh25batt": "0"}, time.Now())
	readings := Dispatch(inv, rec)

	require.Len(t, readings, 3)
	assert.Equal(t, domain.EntityID("WH25"), readings[0].EntityID)
	assert.Equal(t, domain.EntityID("WH31-1"), readings[1].EntityID)
	assert.Equal(t, domain.EntityID("WH31-2"), readings[2].EntityID)

	for _, e := range []*countingEntity{a, b, c} {
		assert.Equal(t, 1, e.updates)
		assert.Same(t, rec, e.last)
	}
}

func TestLookup(t *testing.T) {
	inv := New()
	e := mustAdd(t, inv, wh31b)

	got, ok := inv.Lookup(wh31b)
	require.True(t, ok)
	assert.Same(t, e, got.Entity)

	_, ok = inv.Lookup(wh31a)
	assert.False(t, ok)
}
