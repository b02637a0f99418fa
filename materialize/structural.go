package materialize

import (
	"github.com/sirupsen/logrus"

	"github.com/relplan/planmat/expr"
	"github.com/relplan/planmat/path"
	"github.com/relplan/planmat/plan"
	"github.com/relplan/planmat/rewrite"
)

// createAppendPlan ports create_append_plan: materialize each subpath
// independently and concatenate. Append has no row/cost estimate of its
// own to copy forward — plan.NewAppend sums its children's, exactly as
// make_append does.
func (m *Materializer) createAppendPlan(n *path.Append, log *logrus.Entry) (*plan.Append, error) {
	subplans := make([]plan.Plan, len(n.Subpaths))
	for i, sp := range n.Subpaths {
		child, err := m.createPlan(sp, log)
		if err != nil {
			return nil, err
		}
		subplans[i] = child
	}
	tlist := buildTargetList(n.Rel)
	return plan.NewAppend(tlist, subplans), nil
}

// createResultPlan ports create_result_plan: either wraps a single child
// purely to reproject (resConstantQual nil), or stands alone evaluating a
// constant target list guarded by a single constant-folded qual built by
// ANDing together whatever filter clauses attached at this level.
func (m *Materializer) createResultPlan(n *path.Result, log *logrus.Entry) (*plan.Result, error) {
	var child plan.Plan
	if n.Subpath != nil {
		c, err := m.createPlan(n.Subpath, log)
		if err != nil {
			return nil, err
		}
		child = c
	}

	tlist := buildTargetList(n.Rel)

	var resConstantQual expr.Expr
	if len(n.Quals) > 0 {
		quals := rewrite.OrderQualClauses(expr.GetActualClauses(n.Quals))
		resConstantQual = andTogether(quals)
	}

	return plan.NewResult(tlist, resConstantQual, child, m.Model.CPUTupleCost(), m.Model.CPUOperatorCost()), nil
}

// createMaterialPlan ports create_material_plan: wraps child to force
// spooling of its output, with cost/size copied from the Material Path's
// own precomputed estimate, exactly the copy_path_costsize convention every
// other specializer in this package follows.
func (m *Materializer) createMaterialPlan(n *path.Material, log *logrus.Entry) (*plan.Material, error) {
	child, err := m.createPlan(n.Subpath, log)
	if err != nil {
		return nil, err
	}
	tlist := buildTargetList(n.Rel)
	out := plan.NewMaterial(tlist, child)
	plan.CopyPathCostSize(&out.PlanHeader, n)
	return out, nil
}

// andTogether combines a list of clauses into a single conjunction,
// analogous to the original's make_ands_explicit for a Result node's
// resconstantqual.
func andTogether(exprs []expr.Expr) expr.Expr {
	if len(exprs) == 0 {
		return nil
	}
	out := exprs[0]
	for _, e := range exprs[1:] {
		out = expr.NewOpExpr("AND", out, e, "bool")
	}
	return out
}
