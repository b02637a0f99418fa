package expr

// Equal reports structural equality of two expression trees: same node
// shape and same leaf values, regardless of whether they are the same
// allocation. This is deliberately distinct from == (pointer identity),
// which set_difference-style code relies on elsewhere in this module;
// Equal exists for the one place that needs value equality instead —
// matching a pathkey's key expression against a target list entry
// (tlist_member), where the two expressions may be independently built
// but denote the same column.
func Equal(a, b Expr) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case *Var:
		y, ok := b.(*Var)
		return ok && x.RelID == y.RelID && x.AttrNum == y.AttrNum
	case *Const:
		y, ok := b.(*Const)
		return ok && x.IsNull == y.IsNull && x.Value == y.Value
	case *RelabelType:
		y, ok := b.(*RelabelType)
		return ok && Equal(x.Arg, y.Arg)
	case *FuncExpr:
		y, ok := b.(*FuncExpr)
		if !ok || x.Name != y.Name || len(x.Args) != len(y.Args) {
			return false
		}
		for i := range x.Args {
			if !Equal(x.Args[i], y.Args[i]) {
				return false
			}
		}
		return true
	case *OpExpr:
		y, ok := b.(*OpExpr)
		return ok && x.Op == y.Op && Equal(x.Left, y.Left) && Equal(x.Right, y.Right)
	case *SubPlanRef:
		y, ok := b.(*SubPlanRef)
		return ok && x.Name == y.Name
	case *InitPlanRef:
		y, ok := b.(*InitPlanRef)
		return ok && x.Name == y.Name
	default:
		return false
	}
}
