package plan

import (
	"github.com/relplan/planmat/expr"
	"github.com/relplan/planmat/path"
)

// CopyPathCostSize transfers cost and size estimates from a Path node to
// the freshly built Plan node derived from it. The executor never reads
// these fields; EXPLAIN does (spec.md §4.8, original's copy_path_costsize).
func CopyPathCostSize(dest *PlanHeader, src path.Node) {
	if src == nil {
		dest.StartupCost, dest.TotalCost, dest.PlanRows, dest.PlanWidth = 0, 0, 0, 0
		return
	}
	h := src.Head()
	dest.StartupCost = h.StartupCost
	dest.TotalCost = h.TotalCost
	if h.Rel != nil {
		dest.PlanRows = h.Rel.Rows
		dest.PlanWidth = h.Rel.Width
	}
}

// CopyPlanCostSize transfers cost and size estimates from one Plan node
// to another, used when a node is synthesized directly atop an existing
// Plan rather than derived from a Path (Sort, Agg, Group, Unique, SetOp,
// Limit, Result, Hash and SubqueryScan all start this way per original's
// copy_plan_costsize).
func CopyPlanCostSize(dest *PlanHeader, src Plan) {
	if src == nil {
		dest.StartupCost, dest.TotalCost, dest.PlanRows, dest.PlanWidth = 0, 0, 0, 0
		return
	}
	h := src.Head()
	dest.StartupCost = h.StartupCost
	dest.TotalCost = h.TotalCost
	dest.PlanRows = h.PlanRows
	dest.PlanWidth = h.PlanWidth
}

// QualCost is the {startup, per-tuple} cost pair cost_qual_eval returns for
// a list of expressions. This stage does not walk expression trees to
// price individual operators (that is the cost model's job on the Path
// side); make_agg and make_group only need a model-supplied constant per
// clause/tlist entry, which the costmodel.Model interface provides via
// CPUOperatorCost.
type QualCost struct {
	Startup  float64
	PerTuple float64
}

// evalQualCost approximates cost_qual_eval: one CPUOperatorCost per
// top-level expression, with zero startup cost. This mirrors the
// original's treatment of ordinary scalar quals/tlist entries; it does not
// attempt to discount Aggref nodes specially, since the materializer's
// Agg/Group builders already operate on a plain, non-recursive estimate.
func evalQualCost(exprs []expr.Expr, cpuOperatorCost float64) QualCost {
	return QualCost{PerTuple: cpuOperatorCost * float64(len(exprs))}
}
