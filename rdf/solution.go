package rdf

// SolutionMapping is one row of variable-to-term bindings flowing through the
// execution pipeline. Iteration order follows binding insertion order.
// Variables are unbound until bound; an unbound variable is simply absent.
type SolutionMapping struct {
	order    []string
	bindings map[string]Term
}

// NewSolutionMapping creates an empty solution mapping.
func NewSolutionMapping() *SolutionMapping {
	return &SolutionMapping{
		bindings: make(map[string]Term),
	}
}

// Bind sets the value for a variable. Rebinding an existing variable keeps
// its original position in iteration order.
func (s *SolutionMapping) Bind(variable string, value Term) {
	if _, exists := s.bindings[variable]; !exists {
		s.order = append(s.order, variable)
	}
	s.bindings[variable] = value
}

// Get returns the bound term for a variable and whether it is bound.
func (s *SolutionMapping) Get(variable string) (Term, bool) {
	t, ok := s.bindings[variable]
	return t, ok
}

// Bound reports whether the variable has a binding.
func (s *SolutionMapping) Bound(variable string) bool {
	_, ok := s.bindings[variable]
	return ok
}

// Variables returns the bound variable names in insertion order.
func (s *SolutionMapping) Variables() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of bound variables.
func (s *SolutionMapping) Len() int {
	return len(s.bindings)
}

// Clone returns an independent copy of the mapping. Terms are immutable so
// they are shared.
func (s *SolutionMapping) Clone() *SolutionMapping {
	clone := &SolutionMapping{
		order:    make([]string, len(s.order)),
		bindings: make(map[string]Term, len(s.bindings)),
	}
	copy(clone.order, s.order)
	for k, v := range s.bindings {
		clone.bindings[k] = v
	}
	return clone
}
