package domain

import "strconv"

// SensorType tags one kind of physical sensor the base unit can report.
type SensorType string

const (
	SensorGW1000 SensorType = "GW1000"
	SensorWH25   SensorType = "WH25"
	SensorWH31   SensorType = "WH31"
	SensorWH41   SensorType = "WH41"
	SensorWH51   SensorType = "WH51"
	SensorWH55   SensorType = "WH55"
	SensorWH57   SensorType = "WH57"
	SensorWH65   SensorType = "WH65"
)

// Descriptor identifies one attached sensor. Channel is 0 for single-instance types.
type Descriptor struct {
	Type    SensorType `json:"type"`
	Channel int        `json:"channel,omitempty"`
}

// String renders "TYPE" or "TYPE-channel".
func (d Descriptor) String() string {
	if d.Channel > 0 {
		return string(d.Type) + "-" + strconv.Itoa(d.Channel)
	}
	return string(d.Type)
}

// EntityID is the durable identifier a host registers an entity under.
type EntityID string

// EntityInfo is what the host needs to register an entity.
type EntityInfo struct {
	Descriptor   Descriptor `json:"descriptor"`
	Key          string     `json:"key"`
	DisplayName  string     `json:"display_name"`
	Manufacturer string     `json:"manufacturer"`
	SerialNumber string     `json:"serial_number"`
}
