package sensors

import (
	"fmt"
	"strings"
	"time"

	"github.com/christocomm/homebridge-ecowitt/internal/domain"
)

// field maps one report key onto a snapshot value. src may contain a %d verb that is
// replaced by the entity's channel.
type field struct {
	src  string
	dst  string
	conv func(float64) float64
}

type base struct {
	desc    domain.Descriptor
	values  map[string]float64
	updated time.Time
	seq     uint64
}

func newBase(d domain.Descriptor) base {
	return base{desc: d, values: make(map[string]float64)}
}

func (b *base) Descriptor() domain.Descriptor { return b.desc }

// Snapshot copies the current values.
func (b *base) Snapshot() domain.Reading {
	vals := make(map[string]float64, len(b.values))
	for k, v := range b.values {
		vals[k] = v
	}
	return domain.Reading{
		SensorType: b.desc.Type,
		Channel:    b.desc.Channel,
		Timestamp:  b.updated,
		Seq:        b.seq,
		Values:     vals,
	}
}

// Value returns one current value.
func (b *base) Value(key string) (float64, bool) {
	v, ok := b.values[key]
	return v, ok
}

func (b *base) key(src string) string {
	if strings.Contains(src, "%d") {
		return fmt.Sprintf(src, b.desc.Channel)
	}
	return src
}

// read fetches the channel-expanded key from rec.
func (b *base) read(rec *domain.Record, src string) (float64, bool) {
	return rec.Float(b.key(src))
}

// apply copies every parseable field and reports whether anything changed.
func (b *base) apply(rec *domain.Record, fields []field) bool {
	changed := false
	for _, f := range fields {
		v, ok := b.read(rec, f.src)
		if !ok {
			continue
		}
		if f.conv != nil {
			v = f.conv(v)
		}
		b.values[f.dst] = v
		changed = true
	}
	return changed
}

// commit stamps the entity with the report time once something was applied.
func (b *base) commit(rec *domain.Record, changed bool) {
	if !changed {
		return
	}
	b.seq++
	b.updated = rec.Time
}

func (b *base) set(key string, v float64) { b.values[key] = v }

func boolValue(v bool) float64 {
	if v {
		return 1
	}
	return 0
}

// binaryBattery handles sensors that report 0 for ok and 1 for low.
func (b *base) binaryBattery(rec *domain.Record, src string) bool {
	v, ok := b.read(rec, src)
	if !ok {
		return false
	}
	low := v != 0
	b.set(KeyBatteryLow, boolValue(low))
	if low {
		b.set(KeyBatteryLevel, 10)
	} else {
		b.set(KeyBatteryLevel, 100)
	}
	return true
}

// levelBattery handles sensors that report a 0..5 bar level. 6 means external power.
func (b *base) levelBattery(rec *domain.Record, src string) bool {
	v, ok := b.read(rec, src)
	if !ok {
		return false
	}
	level := v * 20
	if level > 100 {
		level = 100
	}
	if level < 0 {
		level = 0
	}
	b.set(KeyBatteryLevel, level)
	b.set(KeyBatteryLow, boolValue(v <= 1))
	return true
}

// voltageBattery handles sensors that report their cell voltage.
func (b *base) voltageBattery(rec *domain.Record, src string, lowBelow float64) bool {
	v, ok := b.read(rec, src)
	if !ok {
		return false
	}
	b.set(KeyBatteryVoltage, v)
	b.set(KeyBatteryLow, boolValue(v < lowBelow))
	return true
}
