package domain

import "time"

// Reading is the published state of one sensor entity after a report was applied.
type Reading struct {
	EntityID   EntityID           `json:"entity_id"`
	SensorType SensorType         `json:"sensor_type"`
	Channel    int                `json:"channel,omitempty"`
	Station    string             `json:"station"`
	Timestamp  time.Time          `json:"ts"`
	Seq        uint64             `json:"seq"`
	Values     map[string]float64 `json:"values"`
}

// Submission is one inbound push as delivered by a receiver.
type Submission struct {
	Fields     map[string]any
	RemoteAddr string
	ReceivedAt time.Time

	// Result receives the processing outcome when non-nil. It must be buffered.
	Result chan error
}

// Reply delivers err to the submitter if it is waiting.
func (s *Submission) Reply(err error) {
	if s == nil || s.Result == nil {
		return
	}
	select {
	case s.Result <- err:
	default:
	}
}
