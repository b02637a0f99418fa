package materialize

import (
	"github.com/sirupsen/logrus"

	"github.com/relplan/planmat/expr"
	"github.com/relplan/planmat/path"
	"github.com/relplan/planmat/plan"
	"github.com/relplan/planmat/planerrors"
	"github.com/relplan/planmat/rewrite"
)

// buildTargetList copies a relation's projected columns into a fresh
// plan.TargetEntry list. A fresh copy, never the source slice itself: the
// Plan tree must not share backing arrays with the Path tree it was built
// from (invariant 10 — no source mutation), since the Sort synthesizer
// downstream appends resjunk entries onto a node's own tlist in place.
func buildTargetList(rel *path.RelOptInfo) []*plan.TargetEntry {
	if rel == nil {
		return nil
	}
	out := make([]*plan.TargetEntry, len(rel.TargetList))
	for i, item := range rel.TargetList {
		out[i] = &plan.TargetEntry{
			Expr:    expr.CopyObject(item.Expr),
			ResNo:   item.ResNo,
			ResName: item.Name,
		}
	}
	return out
}

// createScanPlan ports create_scan_plan: extract and order this scan's
// filter clauses, then dispatch to the concrete scan specializer.
func (m *Materializer) createScanPlan(p path.Node, log *logrus.Entry) (plan.Plan, error) {
	switch n := p.(type) {
	case *path.SeqScan:
		tlist := buildTargetList(n.Rel)
		qual := rewrite.OrderQualClauses(expr.GetActualClauses(n.Quals))
		out := plan.NewSeqScan(tlist, qual, n.RTEIndex)
		plan.CopyPathCostSize(&out.PlanHeader, n)
		return out, nil

	case *path.IndexScan:
		return m.createIndexScanPlan(n, log)

	case *path.TidScan:
		tlist := buildTargetList(n.Rel)
		qual := rewrite.OrderQualClauses(expr.GetActualClauses(n.Quals))
		tidQuals := expr.GetActualClauses(n.TidQuals)
		out := plan.NewTidScan(tlist, qual, n.RTEIndex, tidQuals)
		plan.CopyPathCostSize(&out.PlanHeader, n)
		return out, nil

	case *path.SubqueryScan:
		sub, err := m.createPlan(n.Subplan, log)
		if err != nil {
			return nil, err
		}
		tlist := buildTargetList(n.Rel)
		qual := rewrite.OrderQualClauses(expr.GetActualClauses(n.Quals))
		return plan.NewSubqueryScan(tlist, qual, n.RTEIndex, sub), nil

	case *path.FunctionScan:
		tlist := buildTargetList(n.Rel)
		qual := rewrite.OrderQualClauses(expr.GetActualClauses(n.Quals))
		out := plan.NewFunctionScan(tlist, qual, n.RTEIndex, n.Func)
		plan.CopyPathCostSize(&out.PlanHeader, n)
		return out, nil

	default:
		return nil, planerrors.ErrUnknownPathVariant.New(p)
	}
}

// indexQualLists normalizes an IndexScan path's index qual — a list of
// RestrictInfo that is either a single OR-of-ANDs wrapper (one disjunct per
// index probed) or an ordinary AND list of plain clauses —
// into the [][]Expr shape FixIndexQualReferences expects: outer slice
// implicitly OR'd, inner slice implicitly AND'd.
func indexQualLists(quals []*expr.RestrictInfo) [][]expr.Expr {
	if len(quals) == 1 && quals[0].IsOrClause() {
		return quals[0].OrClause
	}
	return [][]expr.Expr{expr.GetActualClauses(quals)}
}

// orOfAndsCopy rebuilds the full OR-of-ANDs expression an index qual
// represents, deep-copying every leaf clause. Used only for the
// conservative multi-index recheck case, where the executor must
// re-evaluate the whole disjunction rather than a single flagged clause.
func orOfAndsCopy(disjuncts [][]expr.Expr) expr.Expr {
	var terms []expr.Expr
	for _, conj := range disjuncts {
		var t expr.Expr
		for _, c := range conj {
			cc := expr.CopyObject(c)
			if t == nil {
				t = cc
				continue
			}
			t = expr.NewOpExpr("AND", t, cc, "bool")
		}
		if t != nil {
			terms = append(terms, t)
		}
	}
	var out expr.Expr
	for _, t := range terms {
		if out == nil {
			out = t
			continue
		}
		out = expr.NewOpExpr("OR", out, t, "bool")
	}
	return out
}

// createIndexScanPlan ports create_indexscan_plan, the most involved
// specializer: renumber and commute the index qual via the rewrite
// package, then decide what survives as a filter qual (qpqual).
//
// When the index qual is a single AND-list, every one of its clauses is
// guaranteed evaluated by the index access method itself, so they can be
// dropped from qpqual (by pointer identity — they are literally the same
// clause objects counted in the scan's general filter list). When it is
// an OR-of-ANDs restriction, only one disjunct is known to have applied to
// any given tuple, so none of its clauses can be safely dropped: qpqual
// keeps the scan's full filter list. When a lossy index operator flags a
// clause for recheck, the single AND-list case appends the flagged clauses
// back onto qpqual and the OR-of-ANDs case appends a copy of the whole OR
// expression, since the index alone cannot be trusted to have evaluated it
// correctly.
func (m *Materializer) createIndexScanPlan(n *path.IndexScan, log *logrus.Entry) (*plan.IndexScan, error) {
	indexQualOrig := indexQualLists(n.IndexQual)

	fixed, recheck, err := rewrite.FixIndexQualReferences(indexQualOrig, n.Indexes, m.Catalog)
	if err != nil {
		return nil, err
	}

	scanClauses := rewrite.OrderQualClauses(expr.GetActualClauses(n.Quals))

	var qpqual []expr.Expr
	switch {
	case len(indexQualOrig) == 1:
		// Single AND-list: every clause in it is guaranteed evaluated by
		// the index, so it can be dropped from the filter list; any
		// clause flagged lossy is appended back, in its original form.
		qpqual = rewrite.SetDifferenceIdentity(scanClauses, indexQualOrig[0])
		qpqual = append(qpqual, recheck...)
	case len(indexQualOrig) > 1:
		// OR-of-ANDs: no single disjunct is known to have matched every
		// tuple, so qpqual keeps every filter clause; a lossy operator
		// anywhere forces re-evaluating the whole OR expression, not just
		// the clause that happened to be flagged.
		qpqual = scanClauses
		if len(recheck) > 0 {
			qpqual = append(qpqual, orOfAndsCopy(indexQualOrig))
		}
	default:
		qpqual = scanClauses
	}

	indexNames := make([]string, len(n.Indexes))
	for i, idx := range n.Indexes {
		indexNames[i] = idx.Name
	}

	tlist := buildTargetList(n.Rel)
	out := plan.NewIndexScan(tlist, qpqual, n.RTEIndex, indexNames, fixed, indexQualOrig, int(n.Direction))
	plan.CopyPathCostSize(&out.PlanHeader, n)

	// The parent relation's row estimate reflects its generic selectivity;
	// this specific index choice may narrow it further (or this rel may be
	// scanned by several competing index paths with different estimates),
	// so the scan's own row count wins, per the original's explicit
	// override in create_indexscan_plan.
	out.PlanRows = n.Rows

	log.WithField("indexes", indexNames).WithField("recheck_count", len(recheck)).Trace("materialized index scan")
	return out, nil
}
