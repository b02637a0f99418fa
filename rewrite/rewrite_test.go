package rewrite

import (
	"testing"

	"github.com/relplan/planmat/catalog"
	"github.com/relplan/planmat/costmodel"
	"github.com/relplan/planmat/expr"
	"github.com/relplan/planmat/path"
	"github.com/relplan/planmat/plan"
	"github.com/relplan/planmat/relid"
	"github.com/stretchr/testify/require"
)

func TestFixIndexQualReferencesCommutesAndRenumbers(t *testing.T) {
	require := require.New(t)

	idx := &path.IndexInfo{
		Name:        "idx_b",
		Relation:    1,
		KeyAttrNums: []int{3},
		OpClasses:   []string{"int4_ops"},
	}

	// Indexkey on the right: = (const, var) should end up commuted so the
	// var (renumbered to key position 1) ends up on the left.
	outerConst := expr.NewConst(int64(7), "int4")
	v := expr.NewVar(1, 3, "int4")
	clause := expr.NewOpExpr("=", outerConst, v, "bool")

	cat := catalog.NewStatic()
	fixed, recheck, err := FixIndexQualReferences([][]expr.Expr{{clause}}, []*path.IndexInfo{idx}, cat)
	require.NoError(err)
	require.Empty(recheck)
	require.Len(fixed, 1)
	require.Len(fixed[0], 1)

	out, ok := fixed[0][0].(*expr.OpExpr)
	require.True(ok)
	lv, ok := out.Left.(*expr.Var)
	require.True(ok)
	require.Equal(1, lv.AttrNum)
	require.Equal(1, lv.RelID)

	// source untouched
	require.Same(outerConst, clause.Left)
	require.Same(v, clause.Right)
	require.Equal(3, v.AttrNum)
}

func TestFixIndexQualReferencesFlagsLossyRecheck(t *testing.T) {
	require := require.New(t)

	idx := &path.IndexInfo{
		Name:        "idx_gist",
		Relation:    1,
		KeyAttrNums: []int{1},
		OpClasses:   []string{"box_ops"},
	}
	clause := expr.NewOpExpr("&&", expr.NewVar(1, 1, "box"), expr.NewConst("x", "box"), "bool")

	cat := catalog.NewStatic("&&/box_ops")
	_, recheck, err := FixIndexQualReferences([][]expr.Expr{{clause}}, []*path.IndexInfo{idx}, cat)
	require.NoError(err)
	require.Len(recheck, 1)
}

func TestFixIndexQualReferencesRejectsLengthMismatch(t *testing.T) {
	require := require.New(t)

	idx := &path.IndexInfo{Name: "idx_a", Relation: 1, KeyAttrNums: []int{1}, OpClasses: []string{"int4_ops"}}
	clause := expr.NewOpExpr("=", expr.NewVar(1, 1, "int4"), expr.NewConst(int64(1), "int4"), "bool")

	cat := catalog.NewStatic()
	_, _, err := FixIndexQualReferences([][]expr.Expr{{clause}, {clause}}, []*path.IndexInfo{idx}, cat)
	require.Error(err)
}

func TestGetSwitchedClausesCommutesOuterSide(t *testing.T) {
	require := require.New(t)

	// inner.col = outer.col, outer relid 1
	inner := expr.NewVar(2, 1, "int4")
	outer := expr.NewVar(1, 1, "int4")
	clause := expr.NewOpExpr("=", inner, outer, "bool")
	ri := expr.NewRestrictInfo(clause)

	out, err := GetSwitchedClauses([]*expr.RestrictInfo{ri}, relid.New(1))
	require.NoError(err)
	require.Len(out, 1)

	op := out[0].(*expr.OpExpr)
	require.Same(Expr(outer), op.Left)
	require.Same(Expr(inner), op.Right)

	// original untouched
	require.Same(inner, clause.Left)
	require.Same(outer, clause.Right)
}

// Expr is a tiny local alias so test assertions read naturally without
// importing expr.Expr twice under two names.
type Expr = expr.Expr

func TestSetDifferenceIdentityUsesPointerIdentity(t *testing.T) {
	require := require.New(t)

	a := expr.NewConst(int64(1), "int4")
	b := expr.NewConst(int64(1), "int4") // structurally equal, distinct pointer

	diff := SetDifferenceIdentity([]expr.Expr{a, b}, []expr.Expr{a})
	require.Len(diff, 1)
	require.Same(Expr(b), diff[0])
}

func TestOrderQualClausesMovesSubplansToEnd(t *testing.T) {
	require := require.New(t)

	c1 := expr.NewOpExpr("=", expr.NewVar(1, 1, "int4"), expr.NewConst(int64(1), "int4"), "bool")
	c2 := expr.NewOpExpr("=", expr.NewVar(1, 2, "int4"), expr.NewSubPlanRef("sp"), "bool")
	c3 := expr.NewOpExpr("=", expr.NewVar(1, 3, "int4"), expr.NewInitPlanRef("ip"), "bool")

	ordered := OrderQualClauses([]expr.Expr{c2, c1, c3})
	require.Equal([]expr.Expr{c1, c3, c2}, ordered)
}

func TestMakeSortFromPathKeysReusesExistingTlistEntry(t *testing.T) {
	require := require.New(t)

	v := expr.NewVar(1, 1, "int4")
	child := &plan.SeqScan{
		PlanHeader: plan.PlanHeader{
			TargetList: []*plan.TargetEntry{{Expr: v, ResNo: 1}},
			PlanRows:   100,
			TotalCost:  10,
			PlanWidth:  8,
		},
	}

	pk := &path.PathKey{Keys: []path.PathKeyItem{{Key: v, SortOp: "<"}}}
	model := costmodel.NewStandard(0.01, 0.0025)

	sort, err := MakeSortFromPathKeys(child, relid.New(1), []*path.PathKey{pk}, model)
	require.NoError(err)
	require.Equal(1, sort.KeyCount)
	require.Len(sort.TargetList, 1)
	require.Equal(1, sort.TargetList[0].SortKeyNum)
	require.Equal("<", sort.TargetList[0].SortOp)
}

func TestMakeSortFromPathKeysInsertsResultBelowAppend(t *testing.T) {
	require := require.New(t)

	leaf1 := &plan.SeqScan{PlanHeader: plan.PlanHeader{TargetList: []*plan.TargetEntry{{Expr: expr.NewVar(1, 1, "int4"), ResNo: 1}}, PlanRows: 10, TotalCost: 5, PlanWidth: 8}}
	leaf2 := &plan.SeqScan{PlanHeader: plan.PlanHeader{TargetList: []*plan.TargetEntry{{Expr: expr.NewVar(2, 1, "int4"), ResNo: 1}}, PlanRows: 10, TotalCost: 5, PlanWidth: 8}}
	app := plan.NewAppend([]*plan.TargetEntry{{Expr: expr.NewVar(1, 1, "int4"), ResNo: 1}}, []plan.Plan{leaf1, leaf2})

	// pathkey expression not present in Append's tlist, but computable
	// from its relids (1,2): forces resjunk + Result insertion.
	extra := expr.NewVar(1, 2, "int4")
	pk := &path.PathKey{Keys: []path.PathKeyItem{{Key: extra, SortOp: "<"}}}
	model := costmodel.NewStandard(0.01, 0.0025)

	sort, err := MakeSortFromPathKeys(app, relid.New(1, 2), []*path.PathKey{pk}, model)
	require.NoError(err)

	result, ok := sort.Left.(*plan.Result)
	require.True(ok)
	require.Same(plan.Plan(app), result.Left)
	require.Equal(1, sort.KeyCount)
}

func TestMakeSortFromPathKeysErrorsWhenNoItemFits(t *testing.T) {
	require := require.New(t)

	child := &plan.SeqScan{PlanHeader: plan.PlanHeader{TargetList: nil, PlanRows: 1, TotalCost: 1, PlanWidth: 8}}
	unreachable := expr.NewVar(99, 1, "int4")
	pk := &path.PathKey{Keys: []path.PathKeyItem{{Key: unreachable, SortOp: "<"}}}
	model := costmodel.NewStandard(0.01, 0.0025)

	_, err := MakeSortFromPathKeys(child, relid.New(1), []*path.PathKey{pk}, model)
	require.Error(err)
}
