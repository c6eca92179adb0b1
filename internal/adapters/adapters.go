// Package adapters converts raw source payloads into canonical import
// records. Each supported source carries its own JSON Schema; payloads are
// validated against it before any field mapping runs.
package adapters

import (
	"fmt"

	"github.com/civicatlas/artcatalog/constants"
	"github.com/civicatlas/artcatalog/internal/entity"
)

// Adapter converts one raw payload into the canonical import record.
// Adapters are pure: no storage access, no mutation of shared state.
type Adapter func(payload []byte) (*entity.ImportRecord, error)

// Registry dispatches payloads to the adapter registered for their source
// type. The four built-in sources are registered by NewRegistry.
type Registry struct {
	adapters map[constants.SourceType]Adapter
}

// NewRegistry builds a registry with the built-in adapters. Fails only when
// a built-in schema does not compile.
func NewRegistry() (*Registry, error) {
	r := &Registry{adapters: make(map[constants.SourceType]Adapter)}

	builtins := map[constants.SourceType]func() (Adapter, error){
		constants.SourceOSMImport:   newOSMAdapter,
		constants.SourceAPIImport:   newAPIAdapter,
		constants.SourceCrowdImport: newCrowdAdapter,
		constants.SourceManualEntry: newManualAdapter,
	}
	for source, build := range builtins {
		adapter, err := build()
		if err != nil {
			return nil, fmt.Errorf("build %s adapter: %w", source, err)
		}
		r.adapters[source] = adapter
	}
	return r, nil
}

// Register adds or replaces the adapter for a source type.
func (r *Registry) Register(source constants.SourceType, adapter Adapter) {
	r.adapters[source] = adapter
}

// Convert runs the payload through the adapter for its source type.
func (r *Registry) Convert(source constants.SourceType, payload []byte) (*entity.ImportRecord, error) {
	adapter, ok := r.adapters[source]
	if !ok {
		return nil, fmt.Errorf("no adapter registered for source type %q", source)
	}
	return adapter(payload)
}

// Sources returns the registered source types as strings.
func (r *Registry) Sources() []string {
	out := make([]string, 0, len(r.adapters))
	for source := range r.adapters {
		out = append(out, string(source))
	}
	return out
}
