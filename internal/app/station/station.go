// Package station owns the per-station pipeline: decode, discover, reconcile and
// dispatch. A Station is not safe for concurrent use; callers feed it one report at a time.
package station

import (
	"errors"
	"fmt"
	"time"

	"github.com/christocomm/homebridge-ecowitt/internal/app/discovery"
	"github.com/christocomm/homebridge-ecowitt/internal/app/identity"
	"github.com/christocomm/homebridge-ecowitt/internal/app/inventory"
	"github.com/christocomm/homebridge-ecowitt/internal/app/report"
	"github.com/christocomm/homebridge-ecowitt/internal/domain"
	"github.com/christocomm/homebridge-ecowitt/internal/ports"
	"github.com/christocomm/homebridge-ecowitt/internal/sensors"
)

// ErrNotStarted is returned by Handle before Start ran.
var ErrNotStarted = errors.New("station not started")

// State is the station lifecycle.
type State int

const (
	Uninitialized State = iota
	Active
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Active:
		return "active"
	default:
		return "unknown"
	}
}

// Options tune discovery and registration. Zero values select the defaults.
type Options struct {
	Catalog       discovery.Catalog
	Hidden        discovery.Hidden
	Registry      sensors.Registry
	IDGenerator   ports.IDGenerator
	StartupPolicy string
	Manufacturer  string
}

type Station struct {
	identity domain.StationIdentity
	catalog  discovery.Catalog
	hidden   discovery.Hidden
	registry sensors.Registry
	resolver *identity.Resolver
	policy   string
	maker    string

	host ports.Host
	obs  ports.Observability

	inv     *inventory.Inventory
	state   State
	started bool
	cached  map[domain.EntityID]struct{}
}

// New builds a station for the configured address.
func New(mac string, host ports.Host, obs ports.Observability, opts Options) (*Station, error) {
	if mac == "" {
		return nil, fmt.Errorf("station address is required")
	}
	if host == nil {
		return nil, fmt.Errorf("host is required")
	}
	if obs == nil {
		return nil, fmt.Errorf("observability is required")
	}

	if opts.Catalog == nil {
		opts.Catalog = discovery.DefaultCatalog()
	}
	if opts.Registry == nil {
		opts.Registry = sensors.DefaultRegistry()
	}
	switch opts.StartupPolicy {
	case "":
		opts.StartupPolicy = ports.StartupUnregisterAll
	case ports.StartupUnregisterAll, ports.StartupReuseCached:
	default:
		return nil, fmt.Errorf("unknown startup policy %q", opts.StartupPolicy)
	}
	if opts.Manufacturer == "" {
		opts.Manufacturer = "Ecowitt"
	}

	return &Station{
		identity: domain.NewStationIdentity(mac),
		catalog:  opts.Catalog,
		hidden:   opts.Hidden,
		registry: opts.Registry,
		resolver: identity.NewResolver(mac, opts.IDGenerator),
		policy:   opts.StartupPolicy,
		maker:    opts.Manufacturer,
		host:     host,
		obs:      obs,
		inv:      inventory.New(),
		cached:   make(map[domain.EntityID]struct{}),
	}, nil
}

// Start applies the startup policy to the host's cached entities. It runs once.
func (s *Station) Start() error {
	if s.started {
		return nil
	}

	cached, err := s.host.CachedEntities()
	if err != nil {
		return fmt.Errorf("load cached entities: %w", err)
	}

	switch s.policy {
	case ports.StartupReuseCached:
		for _, id := range cached {
			s.cached[id] = struct{}{}
		}
		s.obs.LogInfo("reusing_cached_entities", ports.F("count", len(cached)))
	default:
		s.obs.LogInfo("unregistering_cached_entities", ports.F("count", len(cached)))
		if len(cached) > 0 {
			if err := s.host.UnregisterEntities(cached); err != nil {
				return fmt.Errorf("unregister cached entities: %w", err)
			}
		}
	}

	s.started = true
	return nil
}

// Handle runs one submission through the pipeline and returns the readings of every
// registered entity. Rejected submissions leave the station untouched.
func (s *Station) Handle(sub *domain.Submission) ([]*domain.Reading, error) {
	if !s.started {
		return nil, ErrNotStarted
	}
	start := time.Now()

	var remote string
	if sub != nil {
		remote = sub.RemoteAddr
	}

	rec, err := report.Decode(sub, s.identity.Secret)
	if err != nil {
		s.obs.IncCounter(ports.MetricReportsRejected, 1)
		s.obs.LogError("report_rejected", err, ports.F("remote", remote))
		return nil, err
	}

	if rec.TimeIssue != nil {
		s.obs.LogWarn("report_time_fallback", ports.F("remote", remote), ports.F("reason", rec.TimeIssue.Error()))
	}
	s.obs.LogInfo("report_received",
		ports.F("remote", remote),
		ports.F("report_time", rec.Time),
		ports.F("fields", rec.Len()))

	if s.state == Uninitialized {
		s.identity.Observe(rec)
		s.obs.LogInfo("station_identified",
			ports.F("serial", s.identity.SerialNumber),
			ports.F("model", s.identity.Model),
			ports.F("hardware", s.identity.HardwareRevision),
			ports.F("software", s.identity.SoftwareRevision),
			ports.F("firmware", s.identity.FirmwareRevision),
			ports.F("frequency", s.identity.Frequency))
		s.state = Active
	}

	discovered := discovery.Discover(rec, s.catalog, s.hidden)
	plan := inventory.Reconcile(s.inv, discovered)
	for _, d := range plan.ToAdd {
		s.register(d)
	}

	readings := inventory.Dispatch(s.inv, rec)
	for _, r := range readings {
		r.Station = s.identity.SerialNumber
	}

	s.obs.IncCounter(ports.MetricReportsAccepted, 1)
	s.obs.SetGauge(ports.MetricInventorySize, float64(s.inv.Len()))
	s.obs.ObserveLatency(ports.MetricReportLatency, time.Since(start).Seconds())
	return readings, nil
}

func (s *Station) register(d domain.Descriptor) {
	entity, err := s.registry.New(d)
	if err != nil {
		s.obs.IncCounter(ports.MetricUnknownSensor, 1)
		s.obs.LogError("sensor_skipped", err, ports.F("sensor", d.String()))
		return
	}

	id, key := s.resolver.Identify(d)
	info := domain.EntityInfo{
		Descriptor:   d,
		Key:          key,
		DisplayName:  sensors.DisplayName(d),
		Manufacturer: s.maker,
		SerialNumber: s.identity.SerialNumber,
	}

	if _, ok := s.cached[id]; ok {
		delete(s.cached, id)
		s.obs.LogInfo("entity_restored", ports.F("sensor", d.String()), ports.F("id", id))
	} else {
		if err := s.host.RegisterEntity(id, info); err != nil {
			s.obs.LogError("entity_register_failed", err, ports.F("sensor", d.String()), ports.F("id", id))
			return
		}
		s.obs.LogInfo("sensor_discovered", ports.F("sensor", d.String()), ports.F("key", key), ports.F("id", id))
	}

	if err := s.inv.Add(inventory.Entry{Descriptor: d, ID: id, Entity: entity}); err != nil {
		s.obs.LogError("inventory_add_failed", err, ports.F("sensor", d.String()))
	}
}

// Identity returns a copy of the station identity.
func (s *Station) Identity() domain.StationIdentity { return s.identity }

func (s *Station) State() State { return s.state }

// Inventory returns the registered entries in registration order.
func (s *Station) Inventory() []inventory.Entry { return s.inv.Entries() }
