package vocabulary

import (
	"sync"
)

// HierarchyDirection defines which way a hierarchy predicate points relative
// to the subject of a triple carrying it.
type HierarchyDirection string

const (
	// DirectionBroader means the object is broader than the subject
	// (e.g. skos:broader, rdfs:subClassOf).
	DirectionBroader HierarchyDirection = "broader"

	// DirectionNarrower means the object is narrower than the subject
	// (e.g. skos:narrower).
	DirectionNarrower HierarchyDirection = "narrower"
)

// PredicateMetadata describes a registered hierarchy predicate.
type PredicateMetadata struct {
	IRI         string
	Direction   HierarchyDirection
	Description string
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]PredicateMetadata)
)

// RegisterOption configures predicate registration.
type RegisterOption func(*PredicateMetadata)

// WithDescription attaches a human-readable description to the predicate.
func WithDescription(desc string) RegisterOption {
	return func(m *PredicateMetadata) {
		m.Description = desc
	}
}

// Register adds a hierarchy predicate to the registry. Re-registering an IRI
// replaces its metadata.
func Register(iri string, direction HierarchyDirection, opts ...RegisterOption) {
	meta := PredicateMetadata{IRI: iri, Direction: direction}
	for _, opt := range opts {
		opt(&meta)
	}

	registryMu.Lock()
	registry[iri] = meta
	registryMu.Unlock()
}

// HierarchyPredicates returns a copy of the registered hierarchy predicates
// keyed by IRI.
func HierarchyPredicates() map[string]PredicateMetadata {
	registryMu.RLock()
	defer registryMu.RUnlock()

	out := make(map[string]PredicateMetadata, len(registry))
	for iri, meta := range registry {
		out[iri] = meta
	}
	return out
}

// IsHierarchyPredicate reports whether the IRI is registered as hierarchy-relating.
func IsHierarchyPredicate(iri string) bool {
	registryMu.RLock()
	_, ok := registry[iri]
	registryMu.RUnlock()
	return ok
}

// GetPredicateMetadata returns metadata for a registered predicate, or nil.
func GetPredicateMetadata(iri string) *PredicateMetadata {
	registryMu.RLock()
	defer registryMu.RUnlock()

	if meta, ok := registry[iri]; ok {
		return &meta
	}
	return nil
}

func init() {
	Register(RDFSSubClassOf, DirectionBroader,
		WithDescription("Class specialization (subject is narrower than object)"))

	Register(RDFSSubPropertyOf, DirectionBroader,
		WithDescription("Property specialization (subject is narrower than object)"))

	Register(SKOSBroader, DirectionBroader,
		WithDescription("SKOS broader concept (object is broader than subject)"))

	Register(SKOSNarrower, DirectionNarrower,
		WithDescription("SKOS narrower concept (object is narrower than subject)"))
}
