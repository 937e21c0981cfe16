// Package extract routes processing requests to extraction strategies.
package extract

import (
	"fmt"

	"fieldlens/internal/domain"
	"fieldlens/internal/port"
)

// Registry maps model names to extraction strategies. Populated at
// startup; reads are not synchronized.
type Registry struct {
	strategies map[domain.ModelName]port.Extractor
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{strategies: make(map[domain.ModelName]port.Extractor)}
}

// Register binds a model name to a strategy, replacing any prior binding.
func (r *Registry) Register(name domain.ModelName, e port.Extractor) {
	r.strategies[name] = e
}

// Resolve returns the strategy for a model name.
func (r *Registry) Resolve(name domain.ModelName) (port.Extractor, error) {
	e, ok := r.strategies[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownModel, name)
	}
	return e, nil
}
