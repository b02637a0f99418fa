// Package catalog models the small slice of schema metadata the
// materialization stage actually needs: whether a given index operator
// requires the executor to recheck the qual against the heap tuple (a
// lossy-index question, spec.md §4.2/§4.3). A real optimizer's catalog is
// far larger; this stage is injected only the one method it consumes, in
// keeping with the teacher's habit of depending on narrow interfaces
// rather than a God object.
package catalog

// Catalog answers schema questions the Index-Qual Rewriter and the Scan
// Specializer need while turning an IndexScan path into an IndexScan plan.
type Catalog interface {
	// OpRequiresRecheck reports whether a qual built with the named
	// operator, under the named operator class, can return false
	// positives when evaluated by the index access method alone (e.g. a
	// GiST/GIN lossy operator) and therefore must be rechecked against the
	// actual heap row.
	OpRequiresRecheck(op, opClass string) bool
}

// Static is a fixed-table Catalog, sufficient for tests and for embedders
// that already know their operator classes' recheck behavior ahead of
// time (no live schema to consult).
type Static struct {
	lossy map[string]bool
}

// NewStatic builds a Static catalog. lossyOps names "op/opClass" pairs
// that require recheck; any pair not present defaults to false.
func NewStatic(lossyOps ...string) *Static {
	s := &Static{lossy: make(map[string]bool, len(lossyOps))}
	for _, pair := range lossyOps {
		s.lossy[pair] = true
	}
	return s
}

func (s *Static) OpRequiresRecheck(op, opClass string) bool {
	return s.lossy[op+"/"+opClass]
}
