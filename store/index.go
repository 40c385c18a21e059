package store

import (
	"github.com/c360studio/semgraph/rdf"
)

// tripleIndex is one three-level mapping: level-1 term string, level-2 term
// string, then triples keyed by their uniqueness key. The store keeps three
// of these with different term orderings so any two-bound-term lookup hits a
// leaf directly.
type tripleIndex struct {
	entries map[string]map[string]map[string]rdf.Triple
}

func newTripleIndex() *tripleIndex {
	return &tripleIndex{
		entries: make(map[string]map[string]map[string]rdf.Triple),
	}
}

func (ix *tripleIndex) add(k1, k2 string, triple rdf.Triple) {
	level2, ok := ix.entries[k1]
	if !ok {
		level2 = make(map[string]map[string]rdf.Triple)
		ix.entries[k1] = level2
	}
	leaf, ok := level2[k2]
	if !ok {
		leaf = make(map[string]rdf.Triple)
		level2[k2] = leaf
	}
	leaf[triple.Key()] = triple
}

// remove deletes a triple and prunes emptied levels so the index does not
// accumulate dead map shells.
func (ix *tripleIndex) remove(k1, k2, tripleKey string) {
	level2, ok := ix.entries[k1]
	if !ok {
		return
	}
	leaf, ok := level2[k2]
	if !ok {
		return
	}
	delete(leaf, tripleKey)
	if len(leaf) == 0 {
		delete(level2, k2)
	}
	if len(level2) == 0 {
		delete(ix.entries, k1)
	}
}

// lookupTwo returns the triples at a fully-specified leaf.
func (ix *tripleIndex) lookupTwo(k1, k2 string) []rdf.Triple {
	level2, ok := ix.entries[k1]
	if !ok {
		return nil
	}
	leaf, ok := level2[k2]
	if !ok {
		return nil
	}
	out := make([]rdf.Triple, 0, len(leaf))
	for _, t := range leaf {
		out = append(out, t)
	}
	return out
}

// lookupOne returns all triples under one level-1 key.
func (ix *tripleIndex) lookupOne(k1 string) []rdf.Triple {
	level2, ok := ix.entries[k1]
	if !ok {
		return nil
	}
	var out []rdf.Triple
	for _, leaf := range level2 {
		for _, t := range leaf {
			out = append(out, t)
		}
	}
	return out
}

// countOne returns the number of triples under one level-1 key without
// materializing them.
func (ix *tripleIndex) countOne(k1 string) int {
	n := 0
	for _, leaf := range ix.entries[k1] {
		n += len(leaf)
	}
	return n
}

// size returns the total number of index entries.
func (ix *tripleIndex) size() int {
	n := 0
	for _, level2 := range ix.entries {
		for _, leaf := range level2 {
			n += len(leaf)
		}
	}
	return n
}

func (ix *tripleIndex) clear() {
	ix.entries = make(map[string]map[string]map[string]rdf.Triple)
}
