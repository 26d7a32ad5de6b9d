// Package discover manages the package-manager license discoverers.
package discover

import (
	"github.com/licenseforge/copyrightgen/domain"
)

// Registry holds the registered discoverers in a fixed order. The order of
// registration is the order the engine runs them in, which makes the final
// document deterministic.
type Registry struct {
	discoverers []domain.Discoverer
}

// NewRegistry creates an empty discoverer registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends a discoverer. Registering the same name twice replaces
// the earlier entry in place.
func (r *Registry) Register(d domain.Discoverer) {
	for i, existing := range r.discoverers {
		if existing.Name() == d.Name() {
			r.discoverers[i] = d
			return
		}
	}
	r.discoverers = append(r.discoverers, d)
}

// Get returns the discoverer with the given name, or nil if not registered.
func (r *Registry) Get(name string) domain.Discoverer {
	for _, d := range r.discoverers {
		if d.Name() == name {
			return d
		}
	}
	return nil
}

// All returns every registered discoverer in registration order.
func (r *Registry) All() []domain.Discoverer {
	result := make([]domain.Discoverer, len(r.discoverers))
	copy(result, r.discoverers)
	return result
}

// Names returns the registered discoverer names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.discoverers))
	for _, d := range r.discoverers {
		names = append(names, d.Name())
	}
	return names
}
