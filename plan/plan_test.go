package plan

import (
	"testing"

	"github.com/relplan/planmat/expr"
	"github.com/relplan/planmat/path"
	"github.com/relplan/planmat/relid"
	"github.com/stretchr/testify/require"
)

func childPlan(rows float64, cost float64, width int) Plan {
	return &SeqScan{PlanHeader: PlanHeader{PlanRows: rows, TotalCost: cost, StartupCost: 0, PlanWidth: width}}
}

func TestCopyPathCostSizeCopiesRelEstimates(t *testing.T) {
	require := require.New(t)

	p := &path.SeqScan{
		PathHeader: path.PathHeader{
			Rel:         &path.RelOptInfo{Relids: relid.New(1), Rows: 42, Width: 8},
			StartupCost: 1.5,
			TotalCost:   10.5,
		},
	}

	var h PlanHeader
	CopyPathCostSize(&h, p)

	require.Equal(1.5, h.StartupCost)
	require.Equal(10.5, h.TotalCost)
	require.Equal(float64(42), h.PlanRows)
	require.Equal(8, h.PlanWidth)
}

func TestCopyPathCostSizeNilSourceZeroes(t *testing.T) {
	require := require.New(t)

	h := PlanHeader{StartupCost: 9, TotalCost: 9, PlanRows: 9, PlanWidth: 9}
	CopyPathCostSize(&h, nil)

	require.Zero(h.StartupCost)
	require.Zero(h.TotalCost)
	require.Zero(h.PlanRows)
	require.Zero(h.PlanWidth)
}

func TestNewUniqueChargesPerColumnPerRow(t *testing.T) {
	require := require.New(t)

	child := childPlan(100, 50, 20)
	u := NewUnique(nil, child, []int{1, 2}, 0.01)

	require.Equal(float64(100), u.PlanRows)
	require.InDelta(50+0.01*100*2, u.TotalCost, 1e-9)
}

func TestNewSetOpAppliesTenPercentRowFloor(t *testing.T) {
	require := require.New(t)

	child := childPlan(5, 10, 8)
	so := NewSetOp("EXCEPT", nil, child, []int{1}, 2, 0.01)

	require.InDelta(1.0, so.PlanRows, 1e-9)

	child2 := childPlan(0, 10, 8)
	so2 := NewSetOp("EXCEPT", nil, child2, []int{1}, 2, 0.01)
	require.Equal(float64(1), so2.PlanRows)
}

func TestNewLimitAdjustsConstantOffsetAndCount(t *testing.T) {
	require := require.New(t)

	child := childPlan(100, 200, 8)
	offset := expr.NewConst(int64(10), "int4")
	count := expr.NewConst(int64(20), "int4")

	lim := NewLimit(nil, child, offset, count)

	// After offset=10: rows 90, startup += (200-0)*10/100 = 20 -> startup 20
	// After count=20: total = startup + (total-startup)*20/90
	require.InDelta(20.0, lim.StartupCost, 1e-9)
	require.InDelta(20.0, lim.PlanRows, 1e-9)
	expectedTotal := 20.0 + (200.0-20.0)*20.0/90.0
	require.InDelta(expectedTotal, lim.TotalCost, 1e-9)
}

func TestNewLimitWithNonConstantBoundsLeavesCostUnchanged(t *testing.T) {
	require := require.New(t)

	child := childPlan(100, 200, 8)
	lim := NewLimit(nil, child, expr.NewVar(1, 1, "int4"), nil)

	require.Equal(float64(100), lim.PlanRows)
	require.Equal(200.0, lim.TotalCost)
}

func TestNewAggPlainStrategyProducesSingleRow(t *testing.T) {
	require := require.New(t)

	child := childPlan(1000, 500, 16)
	tlist := []*TargetEntry{{Expr: expr.NewVar(1, 1, "int4"), ResNo: 1}}

	agg := NewAgg(tlist, nil, "plain", nil, 0, child, 500, 500, 0.01)
	require.Equal(float64(1), agg.PlanRows)
}

func TestNewResultWithNilSubplanUsesCPUTupleCost(t *testing.T) {
	require := require.New(t)

	r := NewResult(nil, nil, nil, 0.02, 0.0025)
	require.Equal(float64(0), r.StartupCost)
	require.Equal(0.02, r.TotalCost)
	require.Equal(float64(1), r.PlanRows)
}

func TestNewResultWithConstantQualAddsEvalCostToBothEstimates(t *testing.T) {
	require := require.New(t)

	qual := expr.NewOpExpr("=", expr.NewVar(1, 1, "int4"), expr.NewConst(int64(1), "int4"), "bool")
	r := NewResult(nil, qual, nil, 0.02, 0.0025)

	require.Equal(0.0025, r.StartupCost)
	require.Equal(0.02+0.0025, r.TotalCost)
}

func TestNewResultWithSubplanAndConstantQualAddsEvalCostOnTopOfCopiedCost(t *testing.T) {
	require := require.New(t)

	child := childPlan(100, 40, 16)
	qual := expr.NewOpExpr("=", expr.NewVar(1, 1, "int4"), expr.NewConst(int64(1), "int4"), "bool")
	r := NewResult(nil, qual, child, 0.02, 0.0025)

	require.Equal(0.0025, r.StartupCost)
	require.Equal(40+0.0025, r.TotalCost)
}

func TestNewAppendSumsRowsAndCostTakesMaxWidth(t *testing.T) {
	require := require.New(t)

	a := NewAppend(nil, []Plan{childPlan(10, 5, 8), childPlan(20, 15, 16)})
	require.Equal(float64(30), a.PlanRows)
	require.Equal(20.0, a.TotalCost)
	require.Equal(16, a.PlanWidth)
}
