package discovery

import "github.com/christocomm/homebridge-ecowitt/internal/domain"

// Hidden reports whether a category is suppressed regardless of field presence.
type Hidden map[Category]bool

// Discover evaluates every rule against rec. The result follows catalog order and,
// within a channel rule, ascending channel. Nothing is inferred from absent fields.
func Discover(rec *domain.Record, catalog Catalog, hidden Hidden) []domain.Descriptor {
	var out []domain.Descriptor
	for _, rule := range catalog {
		if rule.Channels == 0 {
			if rule.Present != nil && rule.Present(rec) {
				out = append(out, domain.Descriptor{Type: rule.Type})
			}
			continue
		}

		if rule.Category != CategoryNone && hidden[rule.Category] {
			continue
		}
		if rule.PresentOn == nil {
			continue
		}
		for ch := 1; ch <= rule.Channels; ch++ {
			if rule.PresentOn(rec, ch) {
				out = append(out, domain.Descriptor{Type: rule.Type, Channel: ch})
			}
		}
	}
	return out
}
