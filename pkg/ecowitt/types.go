package ecowitt

import (
	"github.com/christocomm/homebridge-ecowitt/internal/domain"
	"github.com/christocomm/homebridge-ecowitt/internal/ports"
)

// Reading is the published state of one sensor entity after a report was applied.
type Reading = domain.Reading

// Submission is one inbound station push.
type Submission = domain.Submission

// EntityID is the durable identifier of a registered sensor entity.
type EntityID = domain.EntityID

// EntityInfo is what a host receives when an entity is registered.
type EntityInfo = domain.EntityInfo

// Descriptor identifies an attached sensor by type and channel.
type Descriptor = domain.Descriptor

// Receiver delivers station pushes (HTTP by default) into the bridge.
type Receiver = ports.Receiver

// Host is where discovered entities are registered.
type Host = ports.Host

// IDGenerator turns an identity key into the host's entity id.
type IDGenerator = ports.IDGenerator

// ReadingQueue is the bounded queue between the station and the sink.
type ReadingQueue = ports.ReadingQueue

// Sink consumes batches of readings and persists them to any downstream system.
type Sink = ports.Sink

// Observability emits logs and metrics about reports, discovery and publishing.
type Observability = ports.Observability

// Field is a structured log/metric field used by Observability implementations.
type Field = ports.Field

var (
	// ErrAuthentication marks a report with a missing or wrong PASSKEY.
	ErrAuthentication = domain.ErrAuthentication
	// ErrMalformedPayload marks a report that could not be parsed.
	ErrMalformedPayload = domain.ErrMalformedPayload
)

// Passkey returns the secret a station with the given MAC sends with every report.
func Passkey(mac string) string { return domain.Passkey(mac) }
