package inventory

import "github.com/christocomm/homebridge-ecowitt/internal/domain"

// Plan is the outcome of reconciling one discovery pass.
type Plan struct {
	ToAdd  []domain.Descriptor
	ToKeep []domain.Descriptor
}

// Reconcile splits discovered into descriptors already registered and new ones.
// Registered descriptors missing from discovered are left alone: reports are sparse and
// a sensor absent from one push is not gone. Repeated descriptors are planned once.
func Reconcile(inv *Inventory, discovered []domain.Descriptor) Plan {
	var plan Plan
	seen := make(map[domain.Descriptor]struct{}, len(discovered))
	for _, d := range discovered {
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}

		if inv != nil && inv.Contains(d) {
			plan.ToKeep = append(plan.ToKeep, d)
			continue
		}
		plan.ToAdd = append(plan.ToAdd, d)
	}
	return plan
}
