// Package rewrite holds the expression- and target-list-level
// transformations the materializer applies while turning a Path into a
// Plan: renumbering index quals to key positions, commuting merge/hash
// clauses to put the outer variable on the left, ordering quals so
// SubPlan-bearing ones run last, and synthesizing a Sort node's marked-up
// target list from pathkeys. Each function here is a direct port of one
// createplan.c static helper (see the doc comment on each for which).
package rewrite

import (
	"github.com/relplan/planmat/catalog"
	"github.com/relplan/planmat/expr"
	"github.com/relplan/planmat/path"
	"github.com/relplan/planmat/planerrors"
)

// FixIndexQualReferences renumbers every clause in indexQual (an
// OR-of-ANDs structure, outer slice implicitly OR'd, inner implicitly
// AND'd) to use index-key attribute numbers in place of base-relation
// attribute numbers, commuting each clause so the indexkey operand is on
// the left. idxs supplies one index per indexQual disjunct — an ordinary
// single-index scan has exactly one, but a bitmap-style OR-of-ANDs qual may
// probe a different index per disjunct — and must have the same length as
// indexQual (original's "the indexqual and indexinfo lists must have the
// same length"). It returns the fixed quals plus any original-form clauses
// that must be rechecked against the heap row because the index is lossy
// for that operator (original's fix_indxqual_references).
func FixIndexQualReferences(indexQual [][]expr.Expr, idxs []*path.IndexInfo, cat catalog.Catalog) (fixed [][]expr.Expr, recheck []expr.Expr, err error) {
	if len(indexQual) != len(idxs) {
		return nil, nil, planerrors.ErrIndexQualIndexCountMismatch.New(len(indexQual), len(idxs))
	}
	for i, conj := range indexQual {
		fixedConj, recheckConj, err := fixIndexQualSublist(conj, idxs[i], cat)
		if err != nil {
			return nil, nil, err
		}
		fixed = append(fixed, fixedConj)
		recheck = append(recheck, recheckConj...)
	}
	return fixed, recheck, nil
}

// fixIndexQualSublist ports fix_indxqual_sublist: for each clause in a
// single conjunction, commute if needed, renumber the indexkey operand,
// and flag it for recheck if the index is lossy for the resulting
// operator/opclass pair.
func fixIndexQualSublist(conj []expr.Expr, idx *path.IndexInfo, cat catalog.Catalog) ([]expr.Expr, []expr.Expr, error) {
	var fixed []expr.Expr
	var recheck []expr.Expr

	for _, c := range conj {
		clause, ok := c.(*expr.OpExpr)
		if !ok {
			return nil, nil, planerrors.ErrMalformedIndexQual.New(c)
		}

		// Full deep copy, never a shallow one: the original clause may
		// carry a subplan, and fix_indxqual_sublist's own comment warns a
		// shallow copy fails for that case.
		newClause := expr.CopyObject(clause).(*expr.OpExpr)

		leftVarnos := expr.PullVarnos(newClause.Left)
		relID, single := leftVarnos.Single()
		if !single || relID != idx.Relation {
			newClause = expr.CommuteClause(newClause)
		}

		renamed, opClass, err := fixIndexQualOperand(newClause.Left, idx)
		if err != nil {
			return nil, nil, err
		}
		newClause.Left = renamed

		fixed = append(fixed, newClause)

		if cat.OpRequiresRecheck(newClause.Op, opClass) {
			recheck = append(recheck, expr.CopyObject(clause))
		}
	}

	return fixed, recheck, nil
}

// fixIndexQualOperand ports fix_indxqual_operand: strip a RelabelType
// wrapper, then match the operand against the index's key list (either a
// plain Var at one of the base relation's key attribute numbers, or — for
// a functional index — any expression, synthesizing the index's single
// key Var in its place).
func fixIndexQualOperand(node expr.Expr, idx *path.IndexInfo) (expr.Expr, string, error) {
	if r, ok := node.(*expr.RelabelType); ok {
		node = r.Arg
	}

	if v, ok := node.(*expr.Var); ok {
		if v.RelID == idx.Relation {
			for pos, attrNum := range idx.KeyAttrNums {
				if attrNum == v.AttrNum {
					renamed := expr.NewVar(idx.Relation, pos+1, v.Typ)
					return renamed, idx.OpClasses[pos], nil
				}
			}
		}
		return nil, "", planerrors.ErrIndexKeyNotFound.New(node, idx.Name)
	}

	// Functional index: the operand is the function-call expression
	// itself; only single-column functional indexes are supported, so the
	// synthesized key Var is always position 1.
	if len(idx.KeyExprs) == 0 || idx.KeyExprs[0] == nil {
		return nil, "", planerrors.ErrIndexKeyNotFound.New(node, idx.Name)
	}
	synthesized := expr.NewVar(idx.Relation, 1, node.ExprType())
	return synthesized, idx.OpClasses[0], nil
}
