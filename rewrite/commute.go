package rewrite

import (
	"github.com/relplan/planmat/expr"
	"github.com/relplan/planmat/planerrors"
	"github.com/relplan/planmat/relid"
)

// GetSwitchedClauses ports get_switched_clauses: given a merge or hash
// joinclause list (RestrictInfo wrappers) and the outer side's relids, it
// extracts the bare clauses, commuting each one whose right-hand side
// belongs to the outer relation so that the outer variable ends up on the
// left. The source RestrictInfo list is never touched; clauses that need
// commuting get a shallow copy (just enough structure to swap Left/Right
// without disturbing the original), exactly as the original's comment
// explains a full copyObject would be overkill here.
func GetSwitchedClauses(clauses []*expr.RestrictInfo, outerRelids relid.Set) ([]expr.Expr, error) {
	out := make([]expr.Expr, 0, len(clauses))
	for _, ri := range clauses {
		if ri.IsOrClause() {
			return nil, planerrors.ErrMergeHashClauseShape.New(ri)
		}
		clause, ok := ri.Clause.(*expr.OpExpr)
		if !ok {
			return nil, planerrors.ErrMergeHashClauseShape.New(ri.Clause)
		}

		rightRelids := expr.PullVarnos(clause.Right)
		if rightRelids.SubsetOf(outerRelids) {
			out = append(out, shallowCommute(clause))
		} else {
			out = append(out, clause)
		}
	}
	return out, nil
}

// shallowCommute duplicates just enough of an OpExpr's structure to commute
// it without touching the source clause or deep-copying its arguments —
// the arguments themselves are shared with the original.
func shallowCommute(clause *expr.OpExpr) *expr.OpExpr {
	temp := &expr.OpExpr{
		Op:         clause.Op,
		Left:       clause.Left,
		Right:      clause.Right,
		ResultType: clause.ResultType,
	}
	return expr.CommuteClause(temp)
}

// SetDifferenceIdentity returns the elements of a that are not present in
// b, comparing by pointer identity (Go's == on interface values holding
// pointer dynamic types) rather than structural equality. This is the
// resolution to the Open Question in the Design Notes: every expr.Expr
// implementation is a pointer type specifically so this comparison means
// "is this literally the same node", matching the original's List-of-
// pointers set_difference_ptr semantics.
func SetDifferenceIdentity(a, b []expr.Expr) []expr.Expr {
	out := make([]expr.Expr, 0, len(a))
	for _, x := range a {
		found := false
		for _, y := range b {
			if x == y {
				found = true
				break
			}
		}
		if !found {
			out = append(out, x)
		}
	}
	return out
}
