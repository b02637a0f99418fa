// Package plan models the executable output of the materialization stage:
// the Plan tree returned from a Path tree, plus the builders
// (`New*` constructors) and local cost-propagation helpers the
// `materialize` package calls while walking down a Path.
package plan

import "github.com/relplan/planmat/expr"

// TargetEntry is one projected column: an expression, its output position
// (1-based, matching the original's resno), and whether it is a resjunk
// entry present only to feed a Sort/Group/Agg key and not part of the
// externally visible row shape.
type TargetEntry struct {
	Expr    expr.Expr
	ResNo   int
	ResName string
	Resjunk bool

	// SortKeyNum is nonzero when this entry doubles as a sort key; it
	// gives the key's ordinal position (1-based) among the Sort node's
	// keys, the Go stand-in for the original's resdom->reskey.
	SortKeyNum int
	SortOp     string
}

// PlanHeader is the bookkeeping every Plan node carries: cost/row/width
// estimates (copied forward from the source Path, see CopyPathCostSize/
// CopyPlanCostSize) plus the target list and filter qual common to every
// node type. Concrete Plan node types embed PlanHeader.
type PlanHeader struct {
	TargetList  []*TargetEntry
	Qual        []expr.Expr
	StartupCost float64
	TotalCost   float64
	PlanRows    float64
	PlanWidth   int

	Left  Plan
	Right Plan
}

// Plan is any node of a Plan tree.
type Plan interface {
	Head() *PlanHeader
}

func (h *PlanHeader) Head() *PlanHeader { return h }

// SeqScan is a sequential scan of a base relation.
type SeqScan struct {
	PlanHeader
	ScanRelID int
}

// IndexScan is an index scan. IndexQual is the rewritten, key-renumbered
// qual used by the executor; IndexQualOrig is the pre-rewrite clause kept
// for EXPLAIN and for the nested-loop join's clause elimination (spec.md
// §4.3). Clauses rechecked after a lossy index op are copies placed in Qual.
// IndexNames holds one name per IndexQual disjunct, in lockstep with it and
// with IndexQualOrig.
type IndexScan struct {
	PlanHeader
	ScanRelID     int
	IndexNames    []string
	IndexQual     [][]expr.Expr
	IndexQualOrig [][]expr.Expr
	Direction     int
}

// TidScan is a direct tuple-id scan.
type TidScan struct {
	PlanHeader
	ScanRelID int
	TidQuals  []expr.Expr
}

// SubqueryScan wraps an already-materialized subquery plan as a scan.
type SubqueryScan struct {
	PlanHeader
	ScanRelID int
	Subplan   Plan
}

// FunctionScan scans the output of a set-returning function.
type FunctionScan struct {
	PlanHeader
	ScanRelID int
	Func      *expr.FuncExpr
}

// JoinHeader is the bookkeeping common to every join Plan variant.
type JoinHeader struct {
	PlanHeader
	JoinType   int
	JoinQual   []expr.Expr
}

// NestLoop is a nested-loop join plan.
type NestLoop struct {
	JoinHeader
}

// MergeJoin is a sort-merge join plan; MergeClauses is the commuted,
// left-is-outer qual list the executor steps through in lockstep.
type MergeJoin struct {
	JoinHeader
	MergeClauses []expr.Expr
}

// HashJoin is a hash join plan: Hash materializes the inner side,
// HashClauses is the commuted qual list used to probe it.
type HashJoin struct {
	JoinHeader
	HashClauses []expr.Expr
}

// Hash builds an in-memory hash table over its child's output, for use as
// the inner side of a HashJoin. HashKeys are the (commuted) right-hand
// operands of the hash join's clauses, evaluated against each inner tuple
// to build the table.
type Hash struct {
	PlanHeader
	HashKeys []expr.Expr
}

// Append concatenates the output of several subplans.
type Append struct {
	PlanHeader
	Subplans []Plan
}

// Result either evaluates a constant target list with no input, or simply
// projects its single child (used to insert a projection point a
// non-projecting child, such as Append, cannot provide itself).
type Result struct {
	PlanHeader
	ResConstantQual expr.Expr
}

// Material forces materialization (spooling) of its child's output.
type Material struct {
	PlanHeader
}

// Sort orders its child's output by the KeyCount sort-marked entries of its
// target list, taken in SortKeyNum order wherever they sit in the list.
type Sort struct {
	PlanHeader
	KeyCount int
}

// Agg computes aggregate values, optionally grouped by the leading
// NumCols columns of its target list (Strategy "plain" when NumCols==0).
type Agg struct {
	PlanHeader
	Strategy    string
	NumCols     int
	GroupColIdx []int
	NumGroups   float64
}

// Group collapses consecutive duplicate rows (its input must already be
// sorted on the grouping columns) without computing aggregates.
type Group struct {
	PlanHeader
	NumCols     int
	GroupColIdx []int
}

// Unique removes adjacent duplicate rows by the columns named in
// DistinctColIdx (its input must already be sorted on those columns).
type Unique struct {
	PlanHeader
	DistinctColIdx []int
}

// SetOp implements INTERSECT/EXCEPT style set operations over two unioned,
// flag-tagged input streams.
type SetOp struct {
	PlanHeader
	Cmd         string
	DistinctColIdx []int
	FlagColIdx  int
}

// Limit restricts its child's output to a window described by Offset/Count
// expressions, which may or may not be constant-foldable at plan time.
type Limit struct {
	PlanHeader
	Offset expr.Expr
	Count  expr.Expr
}
