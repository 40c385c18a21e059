package security

// Structural cost weights. Optional clauses dominate because each one can
// multiply the intermediate solution set.
const (
	weightPattern  = 2
	weightOptional = 10
	weightFilter   = 5
)

// ComplexityScore breaks a query's estimated cost down by the structural
// features that produced it.
type ComplexityScore struct {
	Patterns  int `json:"patterns"`
	Optionals int `json:"optionals"`
	Filters   int `json:"filters"`
	Score     int `json:"score"`
}

// scoreComplexity estimates execution cost from the query's structural
// feature counts.
func scoreComplexity(q Query) ComplexityScore {
	score := ComplexityScore{
		Patterns:  q.Patterns,
		Optionals: q.Optionals,
		Filters:   q.Filters,
	}
	score.Score = q.Patterns*weightPattern +
		q.Optionals*weightOptional +
		q.Filters*weightFilter
	return score
}
