package store

import (
	"fmt"
	"sort"

	"github.com/c360studio/semgraph/errors"
	"github.com/c360studio/semgraph/rdf"
	"github.com/c360studio/semgraph/vocabulary"
)

// TraversalDirection selects which way a hierarchy query walks.
type TraversalDirection string

const (
	// TraverseBroader walks toward more general terms.
	TraverseBroader TraversalDirection = "broader"
	// TraverseNarrower walks toward more specific terms.
	TraverseNarrower TraversalDirection = "narrower"
	// TraverseBoth walks both ways and unions the results.
	TraverseBoth TraversalDirection = "both"
)

// hierarchyIndex holds the two directed adjacency maps derived from triples
// whose predicate is registered as hierarchy-relating. Keys and values are
// term strings.
type hierarchyIndex struct {
	broader  map[string]map[string]struct{}
	narrower map[string]map[string]struct{}
}

func newHierarchyIndex() *hierarchyIndex {
	return &hierarchyIndex{
		broader:  make(map[string]map[string]struct{}),
		narrower: make(map[string]map[string]struct{}),
	}
}

// observes reports whether the triple carries a hierarchy predicate.
func (h *hierarchyIndex) observes(triple rdf.Triple) bool {
	return vocabulary.IsHierarchyPredicate(triple.Predicate().Value())
}

// add records the triple's hierarchy edge. The registered direction decides
// whether the object is the broader or narrower end.
func (h *hierarchyIndex) add(triple rdf.Triple) {
	meta := vocabulary.GetPredicateMetadata(triple.Predicate().Value())
	if meta == nil {
		return
	}
	subject := triple.Subject().String()
	object := triple.Object().String()

	switch meta.Direction {
	case vocabulary.DirectionBroader:
		addEdge(h.broader, subject, object)
		addEdge(h.narrower, object, subject)
	case vocabulary.DirectionNarrower:
		addEdge(h.narrower, subject, object)
		addEdge(h.broader, object, subject)
	}
}

// remove deletes the triple's hierarchy edge.
func (h *hierarchyIndex) remove(triple rdf.Triple) {
	meta := vocabulary.GetPredicateMetadata(triple.Predicate().Value())
	if meta == nil {
		return
	}
	subject := triple.Subject().String()
	object := triple.Object().String()

	switch meta.Direction {
	case vocabulary.DirectionBroader:
		removeEdge(h.broader, subject, object)
		removeEdge(h.narrower, object, subject)
	case vocabulary.DirectionNarrower:
		removeEdge(h.narrower, subject, object)
		removeEdge(h.broader, object, subject)
	}
}

func (h *hierarchyIndex) clear() {
	h.broader = make(map[string]map[string]struct{})
	h.narrower = make(map[string]map[string]struct{})
}

// closure returns the transitive closure from start in the given direction,
// bounded by maxDepth. The visited set guards against cycles in the
// hierarchy data, which cannot be assumed acyclic. The start term itself is
// not included. Results are sorted for deterministic output.
func (h *hierarchyIndex) closure(start string, direction TraversalDirection, maxDepth int) ([]string, error) {
	visited := make(map[string]struct{})

	switch direction {
	case TraverseBroader:
		h.walk(h.broader, start, maxDepth, visited)
	case TraverseNarrower:
		h.walk(h.narrower, start, maxDepth, visited)
	case TraverseBoth:
		// Each walk needs its own visited set: the first marks start as
		// seen, which would stop the second at its root.
		h.walk(h.broader, start, maxDepth, visited)
		narrowerVisited := make(map[string]struct{})
		h.walk(h.narrower, start, maxDepth, narrowerVisited)
		for term := range narrowerVisited {
			visited[term] = struct{}{}
		}
	default:
		return nil, errors.WrapInvalid(errors.ErrInvalidPattern, "store", "closure",
			fmt.Sprintf("unknown traversal direction %q", direction))
	}

	delete(visited, start)
	out := make([]string, 0, len(visited))
	for term := range visited {
		out = append(out, term)
	}
	sort.Strings(out)
	return out, nil
}

// walk is a depth-budgeted DFS over one adjacency map.
func (h *hierarchyIndex) walk(adjacency map[string]map[string]struct{}, node string, depth int, visited map[string]struct{}) {
	if depth < 0 {
		return
	}
	if _, seen := visited[node]; seen {
		return
	}
	visited[node] = struct{}{}
	for next := range adjacency[node] {
		h.walk(adjacency, next, depth-1, visited)
	}
}

func addEdge(adjacency map[string]map[string]struct{}, from, to string) {
	set, ok := adjacency[from]
	if !ok {
		set = make(map[string]struct{})
		adjacency[from] = set
	}
	set[to] = struct{}{}
}

func removeEdge(adjacency map[string]map[string]struct{}, from, to string) {
	set, ok := adjacency[from]
	if !ok {
		return
	}
	delete(set, to)
	if len(set) == 0 {
		delete(adjacency, from)
	}
}
