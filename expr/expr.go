// Package expr is the minimal expression representation this stage needs:
// enough structure to commute binary operator clauses, renumber index-key
// Vars, detect SubPlan references, and deep-copy argument subtrees that may
// contain them. It is deliberately not a full evaluator — expression
// evaluation belongs to the executor, out of scope for this stage (see
// spec.md §1, Non-goals).
//
// Every concrete node is a pointer type. That is load-bearing: the scan and
// join specializers' set_difference relies on Go's interface equality (==)
// reducing to pointer identity, exactly the semantics the original's
// List-of-pointers gave it. (The Sort Synthesizer matches pathkeys with the
// structural Equal instead.)
package expr

import "fmt"

// Expr is any node in an expression tree carried by a Path or Plan.
type Expr interface {
	fmt.Stringer

	// ExprType names the result type of this expression. A real catalog
	// would return a richer type descriptor; this stage only needs it to
	// synthesize Vars for functional-index operands (spec.md §4.3).
	ExprType() string
}

// Var is a reference to a column: varno is the relation id it is taken
// from, varattno its 1-based position (within the base relation, or within
// an index's key list once rewritten).
type Var struct {
	RelID   int
	AttrNum int
	Typ     string
}

func NewVar(relID, attrNum int, typ string) *Var { return &Var{RelID: relID, AttrNum: attrNum, Typ: typ} }

func (v *Var) String() string      { return fmt.Sprintf("var(%d,%d)", v.RelID, v.AttrNum) }
func (v *Var) ExprType() string    { return v.Typ }
func (v *Var) children() []Expr    { return nil }
func (v *Var) clone() Expr         { c := *v; return &c }
func (v *Var) withChildren([]Expr) Expr { c := *v; return &c }

// Const is a literal value. This stage never evaluates it; it exists so
// Limit's constant-offset/constant-count detection (spec.md §4.8) has
// something to type-assert against.
type Const struct {
	Value  any
	IsNull bool
	Typ    string
}

func NewConst(v any, typ string) *Const { return &Const{Value: v, Typ: typ} }
func NewNullConst(typ string) *Const    { return &Const{IsNull: true, Typ: typ} }

func (c *Const) String() string {
	if c.IsNull {
		return "NULL"
	}
	return fmt.Sprintf("%v", c.Value)
}
func (c *Const) ExprType() string    { return c.Typ }
func (c *Const) children() []Expr    { return nil }
func (c *Const) clone() Expr         { cc := *c; return &cc }
func (c *Const) withChildren([]Expr) Expr { cc := *c; return &cc }

// RelabelType is a binary-compatible cast wrapper (e.g. varchar -> text)
// that fix_indxqual_operand strips before matching a Var against an index
// key (spec.md §12 / original_source fix_indxqual_operand).
type RelabelType struct {
	Arg Expr
	Typ string
}

func NewRelabelType(arg Expr, typ string) *RelabelType { return &RelabelType{Arg: arg, Typ: typ} }

func (r *RelabelType) String() string   { return fmt.Sprintf("relabel(%s)", r.Arg) }
func (r *RelabelType) ExprType() string { return r.Typ }
func (r *RelabelType) children() []Expr { return []Expr{r.Arg} }
func (r *RelabelType) clone() Expr      { c := *r; return &c }
func (r *RelabelType) withChildren(kids []Expr) Expr {
	c := *r
	c.Arg = kids[0]
	return &c
}

// FuncExpr is a function-call expression; its only role here is as the
// operand of a functional index.
type FuncExpr struct {
	Name string
	Args []Expr
	Typ  string
}

func NewFuncExpr(name string, typ string, args ...Expr) *FuncExpr {
	return &FuncExpr{Name: name, Args: args, Typ: typ}
}

func (f *FuncExpr) String() string   { return fmt.Sprintf("%s(...)", f.Name) }
func (f *FuncExpr) ExprType() string { return f.Typ }
func (f *FuncExpr) children() []Expr { return f.Args }
func (f *FuncExpr) clone() Expr {
	c := *f
	c.Args = append([]Expr(nil), f.Args...)
	return &c
}
func (f *FuncExpr) withChildren(kids []Expr) Expr {
	c := *f
	c.Args = kids
	return &c
}

// OpExpr is a binary operator clause: op(Left, Right). This is the only
// clause shape the Index-Qual Rewriter and the Merge/Hash commutation logic
// operate on (spec.md invariants 2 and 5 both speak of "binary operator
// clause").
type OpExpr struct {
	Op         string
	Left       Expr
	Right      Expr
	ResultType string
	// OpFuncID models the original's cached opfuncid: a lookup cache that
	// must be invalidated whenever the clause is commuted (spec.md §4.7).
	OpFuncID *string
}

func NewOpExpr(op string, left, right Expr, resultType string) *OpExpr {
	return &OpExpr{Op: op, Left: left, Right: right, ResultType: resultType}
}

func (o *OpExpr) String() string   { return fmt.Sprintf("(%s %s %s)", o.Left, o.Op, o.Right) }
func (o *OpExpr) ExprType() string { return o.ResultType }
func (o *OpExpr) children() []Expr { return []Expr{o.Left, o.Right} }
func (o *OpExpr) clone() Expr {
	c := *o
	return &c
}
func (o *OpExpr) withChildren(kids []Expr) Expr {
	c := *o
	c.Left, c.Right = kids[0], kids[1]
	return &c
}

// SubPlanRef marks the presence of a correlated subplan within an
// expression tree. order_qual_clauses moves clauses containing one of
// these to the end of the qual list (spec.md §4.6); InitPlanRef (below)
// must NOT trigger the same treatment.
type SubPlanRef struct {
	Name string
}

func NewSubPlanRef(name string) *SubPlanRef { return &SubPlanRef{Name: name} }

func (s *SubPlanRef) String() string   { return fmt.Sprintf("$subplan(%s)", s.Name) }
func (s *SubPlanRef) ExprType() string { return "" }
func (s *SubPlanRef) children() []Expr { return nil }
func (s *SubPlanRef) clone() Expr      { c := *s; return &c }
func (s *SubPlanRef) withChildren([]Expr) Expr { c := *s; return &c }

// InitPlanRef marks an uncorrelated, once-per-query subplan reference.
// Unlike SubPlanRef it does not affect clause ordering (spec.md §4.6: "not
// merely InitPlan references").
type InitPlanRef struct {
	Name string
}

func NewInitPlanRef(name string) *InitPlanRef { return &InitPlanRef{Name: name} }

func (s *InitPlanRef) String() string   { return fmt.Sprintf("$initplan(%s)", s.Name) }
func (s *InitPlanRef) ExprType() string { return "" }
func (s *InitPlanRef) children() []Expr { return nil }
func (s *InitPlanRef) clone() Expr      { c := *s; return &c }
func (s *InitPlanRef) withChildren([]Expr) Expr { c := *s; return &c }

// childExpr is implemented by every concrete node above; it is unexported
// because callers outside this package use the free functions (Children,
// CopyObject, ...) rather than walking nodes by hand.
type childExpr interface {
	children() []Expr
	clone() Expr
	withChildren([]Expr) Expr
}

// Children returns the immediate subexpressions of e, or nil for a leaf.
func Children(e Expr) []Expr {
	if c, ok := e.(childExpr); ok {
		return c.children()
	}
	return nil
}
