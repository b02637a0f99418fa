package expr

import "github.com/relplan/planmat/relid"

// RestrictInfo wraps a qual clause, either a plain clause or an OR-of-ANDs
// restriction; it carries no further optimizer bookkeeping. The
// Index-Qual Rewriter and clause-order stages of this package both consume
// RestrictInfo rather than bare Expr so they can tell a plain clause from
// an OR-of-ANDs clause without a type switch at every call site.
type RestrictInfo struct {
	Clause Expr

	// OrClause holds the per-disjunct AND-lists when Clause represents an
	// OR-of-ANDs restriction (spec.md §4.3, "OR-of-ANDs index qual
	// structure"). Nil for an ordinary clause.
	OrClause [][]Expr
}

// NewRestrictInfo wraps a plain (non-OR) clause.
func NewRestrictInfo(clause Expr) *RestrictInfo {
	return &RestrictInfo{Clause: clause}
}

// NewOrRestrictInfo wraps an OR-of-ANDs clause given as a list of
// conjunctions (each inner slice is implicitly AND'd, the outer list is
// implicitly OR'd).
func NewOrRestrictInfo(disjuncts [][]Expr) *RestrictInfo {
	return &RestrictInfo{OrClause: disjuncts}
}

// IsOrClause reports whether ri represents an OR-of-ANDs restriction.
func (ri *RestrictInfo) IsOrClause() bool {
	return ri.OrClause != nil
}

// GetActualClause returns the single clause represented by ri. It panics if
// ri is an OR-clause; callers that may see OR-clauses must use
// GetActualClauses instead. This mirrors the original's
// get_actual_clauses/make_ands_explicit pattern of separating the common
// single-clause case from the rarer list case.
func (ri *RestrictInfo) GetActualClause() Expr {
	if ri.IsOrClause() {
		panic("expr: GetActualClause called on an OR-of-ANDs RestrictInfo")
	}
	return ri.Clause
}

// GetActualClauses extracts the bare clauses from a list of RestrictInfos,
// unwrapping the wrapper (spec.md §4.1: "un-wrap clauses from their
// RestrictInfo wrapper"). An OR-clause is rendered as a single expression:
// each disjunct's clauses joined by OpExpr "AND", the disjuncts joined by
// OpExpr "OR"; this stage does not need to
// evaluate the result, only to carry it through to the scan/join plan
// node's qual list.
func GetActualClauses(infos []*RestrictInfo) []Expr {
	out := make([]Expr, 0, len(infos))
	for _, ri := range infos {
		if ri.IsOrClause() {
			out = append(out, flattenOr(ri.OrClause))
			continue
		}
		out = append(out, ri.Clause)
	}
	return out
}

func flattenOr(disjuncts [][]Expr) Expr {
	var terms []Expr
	for _, conj := range disjuncts {
		var t Expr
		for _, c := range conj {
			if t == nil {
				t = c
				continue
			}
			t = NewOpExpr("AND", t, c, "bool")
		}
		if t != nil {
			terms = append(terms, t)
		}
	}
	var out Expr
	for _, t := range terms {
		if out == nil {
			out = t
			continue
		}
		out = NewOpExpr("OR", out, t, "bool")
	}
	return out
}

// ContainSubplans reports whether e, or any of its subexpressions,
// references a correlated SubPlan. InitPlanRef nodes do not count (spec.md
// §4.6: order_qual_clauses moves only SubPlan-bearing clauses to the end).
func ContainSubplans(e Expr) bool {
	if _, ok := e.(*SubPlanRef); ok {
		return true
	}
	for _, child := range Children(e) {
		if ContainSubplans(child) {
			return true
		}
	}
	return false
}

// PullVarnos collects the set of relids referenced by Vars anywhere in e.
func PullVarnos(e Expr) relid.Set {
	out := relid.New()
	pullVarnos(e, out)
	return out
}

func pullVarnos(e Expr, out relid.Set) {
	if v, ok := e.(*Var); ok {
		out.Add(v.RelID)
		return
	}
	for _, child := range Children(e) {
		pullVarnos(child, out)
	}
}

// NumRelids returns the count of distinct relids referenced by e, the Go
// equivalent of the original's bms_num_members(pull_varnos(...)).
func NumRelids(e Expr) int {
	return PullVarnos(e).Len()
}

// CopyObject performs a deep copy of e and everything reachable from it.
// The materializer never mutates a source Path or RestrictInfo tree in
// place (spec.md invariant 10). It uses CopyObject for target lists,
// rewritten index quals and recheck clauses; scan and join quals, merge/hash
// clause arguments and hash keys share expression nodes with the Path tree.
func CopyObject(e Expr) Expr {
	if e == nil {
		return nil
	}
	ce, ok := e.(childExpr)
	if !ok {
		return e
	}
	kids := ce.children()
	if len(kids) == 0 {
		return ce.clone()
	}
	copied := make([]Expr, len(kids))
	for i, k := range kids {
		copied[i] = CopyObject(k)
	}
	return ce.withChildren(copied)
}

// CommuteClause returns a new OpExpr with left and right swapped and
// OpFuncID cleared, without mutating op. fix_indxqual_references always
// produces a fresh commuted clause rather than swapping in place, because
// the original (outer-relation-qualified) clause may still be needed
// elsewhere in the RestrictInfo list (spec.md §4.7).
func CommuteClause(op *OpExpr) *OpExpr {
	return &OpExpr{
		Op:         op.Op,
		Left:       op.Right,
		Right:      op.Left,
		ResultType: op.ResultType,
		OpFuncID:   nil,
	}
}
