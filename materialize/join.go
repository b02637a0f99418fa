package materialize

import (
	"github.com/sirupsen/logrus"

	"github.com/relplan/planmat/expr"
	"github.com/relplan/planmat/path"
	"github.com/relplan/planmat/plan"
	"github.com/relplan/planmat/planerrors"
	"github.com/relplan/planmat/relid"
	"github.com/relplan/planmat/rewrite"
)

// createJoinPlan ports create_join_plan: recurse into both children, then
// dispatch to the concrete join specializer. The join's own filter clauses
// split into joinclauses (evaluated while probing, drive the join
// strategy's own redistribution logic) and otherclauses (a plain filter
// applied to the joined row, stored as the Plan node's Qual).
func (m *Materializer) createJoinPlan(p path.Node, log *logrus.Entry) (plan.Plan, error) {
	jh, err := joinHeaderOf(p)
	if err != nil {
		return nil, err
	}

	outerPlan, err := m.createPlan(jh.Outer, log)
	if err != nil {
		return nil, err
	}
	innerPlan, err := m.createPlan(jh.Inner, log)
	if err != nil {
		return nil, err
	}

	tlist := buildTargetList(jh.Rel)
	joinclauses := rewrite.OrderQualClauses(expr.GetActualClauses(jh.JoinQuals))
	otherclauses := rewrite.OrderQualClauses(expr.GetActualClauses(jh.OtherQuals))

	switch n := p.(type) {
	case *path.NestLoop:
		return m.createNestLoopPlan(n, outerPlan, innerPlan, tlist, joinclauses, otherclauses)
	case *path.MergeJoin:
		if !m.enableMergeJoin() {
			return nil, planerrors.ErrUnknownJoinVariant.New(p)
		}
		return m.createMergeJoinPlan(n, outerPlan, innerPlan, tlist, joinclauses, otherclauses, log)
	case *path.HashJoin:
		if !m.enableHashJoin() {
			return nil, planerrors.ErrUnknownJoinVariant.New(p)
		}
		return m.createHashJoinPlan(n, outerPlan, innerPlan, tlist, joinclauses, otherclauses)
	default:
		return nil, planerrors.ErrUnknownJoinVariant.New(p)
	}
}

func joinHeaderOf(p path.Node) (*path.JoinHeader, error) {
	switch n := p.(type) {
	case *path.NestLoop:
		return &n.JoinHeader, nil
	case *path.MergeJoin:
		return &n.JoinHeader, nil
	case *path.HashJoin:
		return &n.JoinHeader, nil
	default:
		return nil, planerrors.ErrUnknownJoinVariant.New(p)
	}
}

func sublistRelids(exprs []expr.Expr) relid.Set {
	out := relid.New()
	for _, e := range exprs {
		out = out.Union(expr.PullVarnos(e))
	}
	return out
}

// createNestLoopPlan ports create_nestloop_plan. Its one special case: when
// the inner side is itself an IndexScan whose index qual came from a
// single AND-list spanning more than one relation (i.e. the index qual
// used an outer-relation variable to probe the index), those clauses are
// already being enforced by the index probe itself on every inner
// iteration, so leaving them in this join's own joinclauses would
// double-apply them as a redundant filter. The removal only applies to
// plain inner joins: an outer join's join clauses carry null-extension
// semantics the index probe does not implement, so they must stay.
func (m *Materializer) createNestLoopPlan(n *path.NestLoop, outerPlan, innerPlan plan.Plan, tlist []*plan.TargetEntry, joinclauses, otherclauses []expr.Expr) (*plan.NestLoop, error) {
	if !n.JoinType.IsOuter() {
		if idx, ok := innerPlan.(*plan.IndexScan); ok && len(idx.IndexQualOrig) == 1 {
			sub := idx.IndexQualOrig[0]
			if sublistRelids(sub).Len() > 1 {
				joinclauses = rewrite.SetDifferenceIdentity(joinclauses, sub)
			}
		}
	}

	out := plan.NewNestLoop(tlist, joinclauses, otherclauses, outerPlan, innerPlan, int(n.JoinType))
	plan.CopyPathCostSize(&out.PlanHeader, n)
	return out, nil
}

// createMergeJoinPlan ports create_mergejoin_plan: the merge clauses are
// pulled out of joinclauses (by identity — they are the same clause
// objects, just reached through a different RestrictInfo list) and
// separately commuted so the outer variable leads each clause. A Sort is
// inserted below either side whose own pathkeys the search determined
// were not already satisfied by its subplan's natural output order.
func (m *Materializer) createMergeJoinPlan(n *path.MergeJoin, outerPlan, innerPlan plan.Plan, tlist []*plan.TargetEntry, joinclauses, otherclauses []expr.Expr, log *logrus.Entry) (*plan.MergeJoin, error) {
	outerRelids := n.Outer.Head().Rel.Relids

	mergeClausesOrig := expr.GetActualClauses(n.MergeClauses)
	joinclauses = rewrite.SetDifferenceIdentity(joinclauses, mergeClausesOrig)

	mergeclauses, err := rewrite.GetSwitchedClauses(n.MergeClauses, outerRelids)
	if err != nil {
		return nil, err
	}

	if len(n.OuterSortKeys) > 0 {
		sorted, err := rewrite.MakeSortFromPathKeys(outerPlan, outerRelids, n.OuterSortKeys, m.Model)
		if err != nil {
			return nil, err
		}
		outerPlan = sorted
		log.Trace("inserted sort below merge join outer side")
	}
	if len(n.InnerSortKeys) > 0 {
		innerRelids := n.Inner.Head().Rel.Relids
		sorted, err := rewrite.MakeSortFromPathKeys(innerPlan, innerRelids, n.InnerSortKeys, m.Model)
		if err != nil {
			return nil, err
		}
		innerPlan = sorted
		log.Trace("inserted sort below merge join inner side")
	}

	out := plan.NewMergeJoin(tlist, joinclauses, mergeclauses, otherclauses, outerPlan, innerPlan, int(n.JoinType))
	plan.CopyPathCostSize(&out.PlanHeader, n)
	return out, nil
}

// createHashJoinPlan ports create_hashjoin_plan: like merge join, the hash
// clauses are pulled out of joinclauses by identity and commuted so the
// outer variable leads; the commuted clauses' right-hand (now inner)
// operands become the Hash node's probe keys.
func (m *Materializer) createHashJoinPlan(n *path.HashJoin, outerPlan, innerPlan plan.Plan, tlist []*plan.TargetEntry, joinclauses, otherclauses []expr.Expr) (*plan.HashJoin, error) {
	outerRelids := n.Outer.Head().Rel.Relids

	hashClausesOrig := expr.GetActualClauses(n.HashClauses)
	joinclauses = rewrite.SetDifferenceIdentity(joinclauses, hashClausesOrig)

	hashclauses, err := rewrite.GetSwitchedClauses(n.HashClauses, outerRelids)
	if err != nil {
		return nil, err
	}

	innerHashKeys := make([]expr.Expr, len(hashclauses))
	for i, c := range hashclauses {
		op, ok := c.(*expr.OpExpr)
		if !ok {
			return nil, planerrors.ErrMergeHashClauseShape.New(c)
		}
		innerHashKeys[i] = op.Right
	}

	hashNode := plan.NewHash(innerPlan, innerHashKeys)
	out := plan.NewHashJoin(tlist, joinclauses, hashclauses, otherclauses, outerPlan, hashNode, int(n.JoinType))
	plan.CopyPathCostSize(&out.PlanHeader, n)
	return out, nil
}
