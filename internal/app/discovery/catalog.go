// Package discovery infers the attached sensors from the fields present in a report.
package discovery

import (
	"fmt"
	"regexp"

	"github.com/christocomm/homebridge-ecowitt/internal/domain"
)

// Category groups multi-channel sensor types that can be hidden from configuration.
type Category string

const (
	CategoryNone Category = ""
	CategoryTH   Category = "th"
	CategoryPM25 Category = "pm25"
	CategorySoil Category = "soil"
	CategoryLeak Category = "leak"
)

// Rule detects one sensor type. Single-instance rules use Present; channel rules use
// PresentOn for every channel in 1..Channels.
type Rule struct {
	Type      domain.SensorType
	Channels  int
	Category  Category
	Present   func(rec *domain.Record) bool
	PresentOn func(rec *domain.Record, channel int) bool
}

// Catalog is an ordered, read-only list of rules.
type Catalog []Rule

var gatewayModel = regexp.MustCompile(`^GW1000`)

// DefaultCatalog returns the rules for every sensor the GW1000 family reports.
// Order here is the order of discovered descriptors.
func DefaultCatalog() Catalog {
	return Catalog{
		{Type: domain.SensorGW1000, Present: func(rec *domain.Record) bool {
			model, _ := rec.String("model")
			return gatewayModel.MatchString(model)
		}},
		{Type: domain.SensorWH25, Present: fieldPresent("wh25batt")},
		{Type: domain.SensorWH57, Present: fieldPresent("wh57batt")},
		{Type: domain.SensorWH65, Present: fieldPresent("wh65batt")},
		{Type: domain.SensorWH31, Channels: 8, Category: CategoryTH, PresentOn: channelPresent("batt%d")},
		{Type: domain.SensorWH41, Channels: 4, Category: CategoryPM25, PresentOn: channelPresent("pm25batt%d")},
		{Type: domain.SensorWH51, Channels: 8, Category: CategorySoil, PresentOn: channelPresent("soilbatt%d")},
		{Type: domain.SensorWH55, Channels: 4, Category: CategoryLeak, PresentOn: channelPresent("leakbatt%d")},
	}
}

func fieldPresent(key string) func(*domain.Record) bool {
	return func(rec *domain.Record) bool { return rec.Has(key) }
}

func channelPresent(format string) func(*domain.Record, int) bool {
	return func(rec *domain.Record, channel int) bool {
		return rec.Has(fmt.Sprintf(format, channel))
	}
}
