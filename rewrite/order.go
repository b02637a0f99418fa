package rewrite

import "github.com/relplan/planmat/expr"

// OrderQualClauses ports order_qual_clauses: moves any clause containing a
// correlated SubPlan reference (but not a mere InitPlan reference) to the
// end of the list, preserving the relative order within each partition.
// There is no real cost/selectivity-driven ordering here, just as the
// original's comment admits — this stage has no statistics to reason with.
func OrderQualClauses(clauses []expr.Expr) []expr.Expr {
	var withoutSubplans, withSubplans []expr.Expr
	for _, c := range clauses {
		if expr.ContainSubplans(c) {
			withSubplans = append(withSubplans, c)
		} else {
			withoutSubplans = append(withoutSubplans, c)
		}
	}
	return append(withoutSubplans, withSubplans...)
}
