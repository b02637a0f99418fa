package path

import (
	"testing"

	"github.com/relplan/planmat/expr"
	"github.com/relplan/planmat/relid"
	"github.com/stretchr/testify/require"
)

func TestHeaderEmbeddingSatisfiesNode(t *testing.T) {
	require := require.New(t)

	s := &SeqScan{
		PathHeader: PathHeader{
			Rel:  &RelOptInfo{Relids: relid.New(1), Rows: 100},
			Rows: 100,
		},
		RTEIndex: 1,
	}

	var n Node = s
	require.Same(&s.PathHeader, n.Head())
	require.Equal(float64(100), n.Head().Rows)
}

func TestJoinTypeIsOuter(t *testing.T) {
	require := require.New(t)

	require.True(LeftJoin.IsOuter())
	require.True(FullJoin.IsOuter())
	require.True(AntiJoin.IsOuter())
	require.False(InnerJoin.IsOuter())
	require.False(SemiJoin.IsOuter())
}

func TestJoinHeaderEmbedsOuterInner(t *testing.T) {
	require := require.New(t)

	outer := &SeqScan{PathHeader: PathHeader{Rel: &RelOptInfo{Relids: relid.New(1)}}, RTEIndex: 1}
	inner := &SeqScan{PathHeader: PathHeader{Rel: &RelOptInfo{Relids: relid.New(2)}}, RTEIndex: 2}

	clause := expr.NewOpExpr("=", expr.NewVar(1, 1, "int4"), expr.NewVar(2, 1, "int4"), "bool")

	nl := &NestLoop{
		JoinHeader: JoinHeader{
			PathHeader: PathHeader{Rel: &RelOptInfo{Relids: relid.New(1, 2)}},
			JoinType:  InnerJoin,
			Outer:     outer,
			Inner:     inner,
			JoinQuals: []*expr.RestrictInfo{expr.NewRestrictInfo(clause)},
		},
	}

	var n Node = nl
	require.Equal(n.Head(), &nl.PathHeader)
	require.Same(outer, nl.Outer)
	require.Same(inner, nl.Inner)
}

func TestIndexScanCarriesOrOfAndsQual(t *testing.T) {
	require := require.New(t)

	idx := &IndexInfo{
		Name:        "idx_a",
		Relation:    1,
		KeyAttrNums: []int{2},
		OpClasses:   []string{"int4_ops"},
	}

	c1 := expr.NewOpExpr("=", expr.NewVar(1, 2, "int4"), expr.NewConst(int64(1), "int4"), "bool")
	c2 := expr.NewOpExpr("=", expr.NewVar(1, 2, "int4"), expr.NewConst(int64(2), "int4"), "bool")

	is := &IndexScan{
		PathHeader: PathHeader{Rel: &RelOptInfo{Relids: relid.New(1)}},
		RTEIndex:  1,
		Indexes:   []*IndexInfo{idx, idx},
		IndexQual: []*expr.RestrictInfo{expr.NewOrRestrictInfo([][]expr.Expr{{c1}, {c2}})},
	}

	require.True(is.IndexQual[0].IsOrClause())
	require.Len(is.IndexQual[0].OrClause, 2)
}
