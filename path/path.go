// Package path models the input side of the materialization stage: the
// Path tree a cost-based search would hand off to the materializer, along
// with the ancillary structures (RelOptInfo, IndexInfo, PathKey) needed to
// describe a scan or join choice well enough to turn it into an executable
// Plan.
package path

import (
	"github.com/relplan/planmat/expr"
	"github.com/relplan/planmat/relid"
)

// RTEKind classifies what a base relation's range-table entry denotes.
type RTEKind int

const (
	RTERelation RTEKind = iota
	RTESubquery
	RTEFunction
)

// ScanDirection is the direction an IndexScan walks its index.
type ScanDirection int

const (
	Forward ScanDirection = iota
	Backward
	NoMovement
)

// JoinType names the kind of join a join Path represents.
type JoinType int

const (
	InnerJoin JoinType = iota
	LeftJoin
	FullJoin
	SemiJoin
	AntiJoin
)

// IsOuter reports whether jt is one of the outer-join variants. The
// materializer threads this through to the Plan header unchanged (spec.md
// §4.4).
func (jt JoinType) IsOuter() bool {
	switch jt {
	case LeftJoin, FullJoin, AntiJoin:
		return true
	default:
		return false
	}
}

// PathKeyItem is one member of a pathkey's equivalence class: an
// expression together with the sort operator that orders it.
type PathKeyItem struct {
	Key      expr.Expr
	SortOp   string
	Nulls    string // "first" or "last"
}

// PathKey is an ordering constraint: any one member of Keys may be used to
// satisfy it, since they are known equal by some equivalence class.
type PathKey struct {
	Keys []PathKeyItem
}

// IndexInfo describes an index usable by an IndexScan path.
type IndexInfo struct {
	Name        string
	Relation    int
	KeyAttrNums []int   // base-relation attribute numbers, in index key order
	KeyExprs    []expr.Expr // non-nil entries are functional-index operands
	OpClasses   []string    // operator class name per key, parallel to KeyAttrNums
	Unique      bool
}

// RelOptInfo describes the base or join relation a Path produces rows for.
type RelOptInfo struct {
	Relids     relid.Set
	Rows       float64
	Width      int
	TargetList []*TargetListItem
}

// TargetListItem is one column a relation projects: an expression and its
// 1-based output position. The materializer copies these into the Plan
// tree's own plan.TargetEntry values rather than sharing them, per the
// no-mutation invariant.
type TargetListItem struct {
	Expr  expr.Expr
	ResNo int
	Name  string
}

// PathHeader is the common bookkeeping every Path node carries: the relation
// it scans/produces, cost estimates, row estimate, and any pathkeys
// describing its output order. Concrete Path node types embed PathHeader,
// exactly as spec.md §9's Design Notes recommend for this tagged-tree
// shape.
type PathHeader struct {
	Rel         *RelOptInfo
	StartupCost float64
	TotalCost   float64
	Rows        float64
	PathKeys    []*PathKey
}

// Node is any node of a Path tree. Head is named distinctly from the
// embedded PathHeader field itself: a promoted method sharing the embedded
// field's name would be shadowed by that field, breaking Node conformance.
type Node interface {
	Head() *PathHeader
}

func (h *PathHeader) Head() *PathHeader { return h }

// SeqScan is a sequential scan of a base relation.
type SeqScan struct {
	PathHeader
	RTEIndex int
	Quals    []*expr.RestrictInfo
}

// IndexScan is an index scan, possibly with a bitmap-style OR-of-ANDs qual.
// Indexes holds one *IndexInfo per IndexQual disjunct: an ordinary
// single-index scan has exactly one, but a bitmap-style OR-of-ANDs qual may
// probe a different index for each disjunct, so the indexQual and indexinfo
// lists must have the same length (spec.md §3, §8 testable property 3).
type IndexScan struct {
	PathHeader
	RTEIndex  int
	Indexes   []*IndexInfo
	IndexQual []*expr.RestrictInfo
	Quals     []*expr.RestrictInfo // non-index-qual filter clauses
	Direction ScanDirection
	Recheck   bool
}

// TidScan is a direct tuple-id scan.
type TidScan struct {
	PathHeader
	RTEIndex int
	TidQuals []*expr.RestrictInfo
	Quals    []*expr.RestrictInfo
}

// SubqueryScan wraps a planned subquery as a scan.
type SubqueryScan struct {
	PathHeader
	RTEIndex   int
	Subplan    Node
	Quals      []*expr.RestrictInfo
}

// FunctionScan scans the output of a set-returning function.
type FunctionScan struct {
	PathHeader
	RTEIndex int
	Func     *expr.FuncExpr
	Quals    []*expr.RestrictInfo
}

// JoinHeader is the bookkeeping common to every join Path variant.
type JoinHeader struct {
	PathHeader
	JoinType   JoinType
	Outer      Node
	Inner      Node
	JoinQuals  []*expr.RestrictInfo // true join clauses (touch both sides)
	OtherQuals []*expr.RestrictInfo // filter-only clauses attached at this join
}

// NestLoop is a nested-loop join path.
type NestLoop struct {
	JoinHeader
}

// MergeJoin is a sort-merge join path. OuterSortKeys/InnerSortKeys are
// non-nil when the cost-based search determined an explicit Sort must be
// inserted below that side (its sort cost was already accounted for in
// the path's own cost estimate).
type MergeJoin struct {
	JoinHeader
	MergeClauses   []*expr.RestrictInfo
	OuterSortKeys  []*PathKey
	InnerSortKeys  []*PathKey
}

// HashJoin is a hash join path.
type HashJoin struct {
	JoinHeader
	HashClauses []*expr.RestrictInfo
}

// Append unions the output of several subpaths (e.g. inheritance/partition
// scan or UNION ALL).
type Append struct {
	PathHeader
	Subpaths []Node
}

// Result produces a single constant-ish row, or wraps a child whose output
// needs no further combination (the original's "dummy" top path).
type Result struct {
	PathHeader
	Subpath Node // nil for a childless Result
	Quals   []*expr.RestrictInfo
}

// Material forces materialization of its child's output.
type Material struct {
	PathHeader
	Subpath Node
}
