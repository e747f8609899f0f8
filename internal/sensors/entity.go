// Package sensors implements one entity per Ecowitt sensor model. Every entity reads
// only its own fields from a report and keeps its last known values.
package sensors

import (
	"fmt"
	"strings"

	"github.com/christocomm/homebridge-ecowitt/internal/domain"
	"github.com/christocomm/homebridge-ecowitt/internal/ports"
)

// Value keys shared by the entities' snapshots.
const (
	KeyTemperature    = "temperature_c"
	KeyHumidity       = "humidity_pct"
	KeyPressureRel    = "pressure_rel_hpa"
	KeyPressureAbs    = "pressure_abs_hpa"
	KeyBatteryLow     = "battery_low"
	KeyBatteryLevel   = "battery_level_pct"
	KeyBatteryVoltage = "battery_voltage"
)

// Constructor builds the entity for one descriptor.
type Constructor func(d domain.Descriptor) ports.Entity

var constructors = map[domain.SensorType]Constructor{
	domain.SensorGW1000: func(d domain.Descriptor) ports.Entity { return NewGW1000(d) },
	domain.SensorWH25:   func(d domain.Descriptor) ports.Entity { return NewWH25(d) },
	domain.SensorWH31:   func(d domain.Descriptor) ports.Entity { return NewWH31(d) },
	domain.SensorWH41:   func(d domain.Descriptor) ports.Entity { return NewWH41(d) },
	domain.SensorWH51:   func(d domain.Descriptor) ports.Entity { return NewWH51(d) },
	domain.SensorWH55:   func(d domain.Descriptor) ports.Entity { return NewWH55(d) },
	domain.SensorWH57:   func(d domain.Descriptor) ports.Entity { return NewWH57(d) },
	domain.SensorWH65:   func(d domain.Descriptor) ports.Entity { return NewWH65(d) },
}

var displayNames = map[domain.SensorType]string{
	domain.SensorGW1000: "Gateway",
	domain.SensorWH25:   "Indoor Temperature/Humidity/Pressure",
	domain.SensorWH31:   "Temperature/Humidity",
	domain.SensorWH41:   "PM2.5 Air Quality",
	domain.SensorWH51:   "Soil Moisture",
	domain.SensorWH55:   "Water Leak",
	domain.SensorWH57:   "Lightning",
	domain.SensorWH65:   "Outdoor Weather",
}

// Registry resolves sensor types to constructors.
type Registry map[domain.SensorType]Constructor

// DefaultRegistry returns a copy of the built-in constructor table.
func DefaultRegistry() Registry {
	r := make(Registry, len(constructors))
	for t, c := range constructors {
		r[t] = c
	}
	return r
}

// New builds the entity for d, or fails with an UnknownSensorTypeError.
func (r Registry) New(d domain.Descriptor) (ports.Entity, error) {
	c, ok := r[d.Type]
	if !ok || c == nil {
		return nil, &domain.UnknownSensorTypeError{Descriptor: d}
	}
	return c(d), nil
}

// DisplayName renders a human readable name such as "WH31 Temperature/Humidity CH2".
func DisplayName(d domain.Descriptor) string {
	parts := []string{string(d.Type)}
	if name, ok := displayNames[d.Type]; ok {
		parts = append(parts, name)
	}
	if d.Channel > 0 {
		parts = append(parts, fmt.Sprintf("CH%d", d.Channel))
	}
	return strings.Join(parts, " ")
}
