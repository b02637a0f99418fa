package plan

import "github.com/relplan/planmat/expr"

// NewSeqScan builds a sequential scan plan. Cost/size must already be set
// on the returned header by the caller via CopyPathCostSize, matching the
// original's "cost should be inserted by caller" convention for the scan
// builders.
func NewSeqScan(tlist []*TargetEntry, qual []expr.Expr, scanRelID int) *SeqScan {
	return &SeqScan{
		PlanHeader: PlanHeader{TargetList: tlist, Qual: qual},
		ScanRelID:  scanRelID,
	}
}

// NewIndexScan builds an index scan plan. indexQual is the rewritten,
// key-renumbered qual; indexQualOrig is the original clause retained for
// EXPLAIN and for the nested-loop join's clause elimination (spec.md §4.3);
// lossy-operator rechecks go into qual instead. indexNames has one entry per disjunct of
// indexQual/indexQualOrig.
func NewIndexScan(tlist []*TargetEntry, qual []expr.Expr, scanRelID int, indexNames []string, indexQual, indexQualOrig [][]expr.Expr, direction int) *IndexScan {
	return &IndexScan{
		PlanHeader:    PlanHeader{TargetList: tlist, Qual: qual},
		ScanRelID:     scanRelID,
		IndexNames:    indexNames,
		IndexQual:     indexQual,
		IndexQualOrig: indexQualOrig,
		Direction:     direction,
	}
}

// NewTidScan builds a direct tuple-id scan plan.
func NewTidScan(tlist []*TargetEntry, qual []expr.Expr, scanRelID int, tidQuals []expr.Expr) *TidScan {
	return &TidScan{
		PlanHeader: PlanHeader{TargetList: tlist, Qual: qual},
		ScanRelID:  scanRelID,
		TidQuals:   tidQuals,
	}
}

// NewSubqueryScan builds a subquery-scan plan wrapping an already built
// subplan. Unlike the other scan builders it fills in cost/size itself,
// copied from the subplan, "for the convenience" of callers outside the
// main CreatePlan path (original's make_subqueryscan).
func NewSubqueryScan(tlist []*TargetEntry, qual []expr.Expr, scanRelID int, subplan Plan) *SubqueryScan {
	n := &SubqueryScan{
		PlanHeader: PlanHeader{TargetList: tlist, Qual: qual},
		ScanRelID:  scanRelID,
		Subplan:    subplan,
	}
	CopyPlanCostSize(&n.PlanHeader, subplan)
	return n
}

// NewFunctionScan builds a set-returning-function scan plan.
func NewFunctionScan(tlist []*TargetEntry, qual []expr.Expr, scanRelID int, fn *expr.FuncExpr) *FunctionScan {
	return &FunctionScan{
		PlanHeader: PlanHeader{TargetList: tlist, Qual: qual},
		ScanRelID:  scanRelID,
		Func:       fn,
	}
}

// NewNestLoop builds a nested-loop join plan.
func NewNestLoop(tlist []*TargetEntry, joinQual, otherQual []expr.Expr, outer, inner Plan, joinType int) *NestLoop {
	return &NestLoop{
		JoinHeader: JoinHeader{
			PlanHeader: PlanHeader{TargetList: tlist, Qual: otherQual, Left: outer, Right: inner},
			JoinType:   joinType,
			JoinQual:   joinQual,
		},
	}
}

// NewMergeJoin builds a sort-merge join plan.
func NewMergeJoin(tlist []*TargetEntry, joinClauses, mergeClauses, otherClauses []expr.Expr, outer, inner Plan, joinType int) *MergeJoin {
	return &MergeJoin{
		JoinHeader: JoinHeader{
			PlanHeader: PlanHeader{TargetList: tlist, Qual: otherClauses, Left: outer, Right: inner},
			JoinType:   joinType,
			JoinQual:   joinClauses,
		},
		MergeClauses: mergeClauses,
	}
}

// NewHashJoin builds a hash join plan, with hashNode as the already-built
// Hash wrapper over the inner side.
func NewHashJoin(tlist []*TargetEntry, joinClauses, hashClauses, otherClauses []expr.Expr, outer Plan, hashNode *Hash, joinType int) *HashJoin {
	return &HashJoin{
		JoinHeader: JoinHeader{
			PlanHeader: PlanHeader{TargetList: tlist, Qual: otherClauses, Left: outer, Right: hashNode},
			JoinType:   joinType,
			JoinQual:   joinClauses,
		},
		HashClauses: hashClauses,
	}
}

// NewHash wraps child as the inner, hash-table side of a HashJoin. Startup
// cost is set equal to total cost "for plausibility" — it only affects
// EXPLAIN display, never a planning decision, per the original's comment.
func NewHash(child Plan, hashKeys []expr.Expr) *Hash {
	n := &Hash{PlanHeader: PlanHeader{TargetList: child.Head().TargetList, Left: child}, HashKeys: hashKeys}
	CopyPlanCostSize(&n.PlanHeader, child)
	n.StartupCost = n.TotalCost
	return n
}

// NewAppend concatenates the output of subplans under a shared tlist.
func NewAppend(tlist []*TargetEntry, subplans []Plan) *Append {
	n := &Append{PlanHeader: PlanHeader{TargetList: tlist}, Subplans: subplans}
	var rows float64
	var cost float64
	width := 0
	for _, sp := range subplans {
		h := sp.Head()
		rows += h.PlanRows
		cost += h.TotalCost
		if h.PlanWidth > width {
			width = h.PlanWidth
		}
	}
	n.PlanRows, n.TotalCost, n.PlanWidth = rows, cost, width
	if len(subplans) > 0 {
		n.StartupCost = subplans[0].Head().StartupCost
	}
	return n
}

// NewResult builds a Result node. If subplan is non-nil its cost/size are
// copied forward and Result does no more than project; if subplan is nil,
// Result evaluates tlist against a single conceptual input row and
// resConstantQual gates whether that row is emitted at all (original's
// make_result). Either way, a non-nil resConstantQual adds its one-time
// evaluation cost to both startup and total cost, matching make_result's
// cost_qual_eval call over resconstantqual.
func NewResult(tlist []*TargetEntry, resConstantQual expr.Expr, subplan Plan, cpuTupleCost, cpuOperatorCost float64) *Result {
	n := &Result{PlanHeader: PlanHeader{TargetList: tlist}, ResConstantQual: resConstantQual}
	if subplan != nil {
		CopyPlanCostSize(&n.PlanHeader, subplan)
		n.Left = subplan
	} else {
		n.StartupCost = 0
		n.TotalCost = cpuTupleCost
		n.PlanRows = 1
		n.PlanWidth = 0
	}

	if resConstantQual != nil {
		qc := evalQualCost([]expr.Expr{resConstantQual}, cpuOperatorCost)
		n.StartupCost += qc.Startup + qc.PerTuple
		n.TotalCost += qc.Startup + qc.PerTuple
	}

	return n
}

// NewMaterial wraps child to force materialization of its output. Cost/size
// must already be set on the returned header by the caller via
// CopyPathCostSize, matching the original's "cost should be inserted by
// caller" convention for make_material: the Path's own precomputed
// cost_material estimate wins, not a copy of the child Plan's cost.
func NewMaterial(tlist []*TargetEntry, child Plan) *Material {
	return &Material{PlanHeader: PlanHeader{TargetList: tlist, Left: child}}
}

// NewSort builds a Sort plan directly from a tlist that has already had
// its sort-key entries marked (SortKeyNum/SortOp set). Callers that start
// from pathkeys instead should use the rewrite package's sort synthesizer,
// which marks up the tlist and then calls this constructor. startupCost
// and totalCost come from the cost model's CostSort (spec.md §4.5).
func NewSort(tlist []*TargetEntry, child Plan, keyCount int, startupCost, totalCost float64) *Sort {
	n := &Sort{PlanHeader: PlanHeader{TargetList: tlist, Left: child}, KeyCount: keyCount}
	CopyPlanCostSize(&n.PlanHeader, child)
	n.StartupCost = startupCost
	n.TotalCost = totalCost
	return n
}

// NewAgg builds an Agg plan. numGroups is the estimated distinct-group
// count (ignored, treated as 1, when strategy is "plain"); startupCost/
// totalCost come from the cost model's CostAgg, to which this constructor
// adds the qual/tlist evaluation overhead the original folds into
// make_agg directly (spec.md §4.8, "the only ones in this file that worry
// about tlist eval cost").
func NewAgg(tlist []*TargetEntry, qual []expr.Expr, strategy string, groupColIdx []int, numGroups float64, child Plan, startupCost, totalCost, cpuOperatorCost float64) *Agg {
	n := &Agg{
		PlanHeader:  PlanHeader{TargetList: tlist, Qual: qual, Left: child},
		Strategy:    strategy,
		NumCols:     len(groupColIdx),
		GroupColIdx: groupColIdx,
		NumGroups:   numGroups,
	}
	CopyPlanCostSize(&n.PlanHeader, child)
	n.StartupCost = startupCost
	n.TotalCost = totalCost

	if strategy == "plain" {
		n.PlanRows = 1
	} else {
		n.PlanRows = numGroups
	}

	if len(qual) > 0 {
		qc := evalQualCost(qual, cpuOperatorCost)
		n.StartupCost += qc.Startup
		n.TotalCost += qc.Startup
		n.TotalCost += qc.PerTuple * n.PlanRows
	}
	tc := evalQualCost(tlistExprs(tlist), cpuOperatorCost)
	n.StartupCost += tc.Startup
	n.TotalCost += tc.Startup
	n.TotalCost += tc.PerTuple * n.PlanRows

	return n
}

// NewGroup builds a Group plan (duplicate-elimination by leading sorted
// columns, no aggregate computation). startupCost/totalCost come from the
// cost model's CostGroup.
func NewGroup(tlist []*TargetEntry, groupColIdx []int, numGroups float64, child Plan, startupCost, totalCost, cpuOperatorCost float64) *Group {
	n := &Group{
		PlanHeader:  PlanHeader{TargetList: tlist, Left: child},
		NumCols:     len(groupColIdx),
		GroupColIdx: groupColIdx,
	}
	CopyPlanCostSize(&n.PlanHeader, child)
	n.StartupCost = startupCost
	n.TotalCost = totalCost
	n.PlanRows = numGroups

	tc := evalQualCost(tlistExprs(tlist), cpuOperatorCost)
	n.StartupCost += tc.Startup
	n.TotalCost += tc.Startup
	n.TotalCost += tc.PerTuple * n.PlanRows

	return n
}

// NewUnique builds a Unique plan, charging one CPUOperatorCost per
// comparison per input tuple across all distinctColIdx columns (original's
// make_unique). Output row count is left equal to the input's; the caller
// revises it if it has a better estimate.
func NewUnique(tlist []*TargetEntry, child Plan, distinctColIdx []int, cpuOperatorCost float64) *Unique {
	n := &Unique{PlanHeader: PlanHeader{TargetList: tlist, Left: child}, DistinctColIdx: distinctColIdx}
	CopyPlanCostSize(&n.PlanHeader, child)
	n.TotalCost += cpuOperatorCost * n.PlanRows * float64(len(distinctColIdx))
	return n
}

// NewSetOp builds a SetOp plan implementing an INTERSECT/EXCEPT-style
// filter over its (already unioned and flag-tagged) input. Output rows
// are estimated at 10% of input, floored at 1 (original's make_setop, with
// its own acknowledged "unsupported assumption").
func NewSetOp(cmd string, tlist []*TargetEntry, child Plan, distinctColIdx []int, flagColIdx int, cpuOperatorCost float64) *SetOp {
	n := &SetOp{
		PlanHeader:     PlanHeader{TargetList: tlist, Left: child},
		Cmd:            cmd,
		DistinctColIdx: distinctColIdx,
		FlagColIdx:     flagColIdx,
	}
	CopyPlanCostSize(&n.PlanHeader, child)
	n.TotalCost += cpuOperatorCost * n.PlanRows * float64(len(distinctColIdx))

	n.PlanRows *= 0.1
	if n.PlanRows < 1 {
		n.PlanRows = 1
	}
	return n
}

// NewLimit builds a Limit plan. When offset/count are *expr.Const values
// (rather than parameters to be bound later), the output row count and
// cost are adjusted proportionally so an outer planner sees an accurate
// estimate even though this stage does no actual execution (original's
// make_limit).
func NewLimit(tlist []*TargetEntry, child Plan, offset, count expr.Expr) *Limit {
	n := &Limit{PlanHeader: PlanHeader{TargetList: tlist, Left: child}, Offset: offset, Count: count}
	CopyPlanCostSize(&n.PlanHeader, child)

	if c, ok := offset.(*expr.Const); ok && !c.IsNull {
		if off, ok := asNonNegativeInt(c.Value); ok && off > 0 {
			if float64(off) > n.PlanRows {
				off = int64(n.PlanRows)
			}
			if n.PlanRows > 0 {
				n.StartupCost += (n.TotalCost - n.StartupCost) * float64(off) / n.PlanRows
			}
			n.PlanRows -= float64(off)
			if n.PlanRows < 1 {
				n.PlanRows = 1
			}
		}
	}
	if c, ok := count.(*expr.Const); ok && !c.IsNull {
		if cnt, ok := asNonNegativeInt(c.Value); ok {
			if float64(cnt) > n.PlanRows {
				cnt = int64(n.PlanRows)
			}
			if n.PlanRows > 0 {
				n.TotalCost = n.StartupCost + (n.TotalCost-n.StartupCost)*float64(cnt)/n.PlanRows
			}
			n.PlanRows = float64(cnt)
			if n.PlanRows < 1 {
				n.PlanRows = 1
			}
		}
	}

	return n
}

func asNonNegativeInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), n >= 0
	case int32:
		return int64(n), n >= 0
	case int64:
		return n, n >= 0
	default:
		return 0, false
	}
}

func tlistExprs(tlist []*TargetEntry) []expr.Expr {
	out := make([]expr.Expr, len(tlist))
	for i, te := range tlist {
		out[i] = te.Expr
	}
	return out
}
