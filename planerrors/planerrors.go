// Package planerrors declares the fatal error kinds CreatePlan and its
// helpers raise, in the teacher's own idiom: errors.NewKind(...).New(...)
// over gopkg.in/src-d/go-errors.v1, callers compare with errors.Is or
// Kind.Is rather than string-matching messages.
package planerrors

import errors "gopkg.in/src-d/go-errors.v1"

var (
	// ErrUnknownPathVariant is raised when CreatePlan is handed a
	// path.Node whose concrete type has no registered specializer.
	ErrUnknownPathVariant = errors.NewKind("materialize: unrecognized path node type %T")

	// ErrUnknownJoinVariant is raised for a join path.Node whose concrete
	// type is none of NestLoop, MergeJoin, HashJoin.
	ErrUnknownJoinVariant = errors.NewKind("materialize: unrecognized join path node type %T")

	// ErrMalformedIndexQual is raised when an IndexScan path's index qual
	// does not have the OpExpr binary-clause shape the rewriter expects.
	ErrMalformedIndexQual = errors.NewKind("rewrite: malformed index qual clause: %v")

	// ErrIndexKeyNotFound is raised when fix_indxqual_operand cannot match
	// an index qual's operand against any key of the target index.
	ErrIndexKeyNotFound = errors.NewKind("rewrite: operand %v does not match any key of index %q")

	// ErrMissingPathkey is raised when the sort synthesizer is given a
	// pathkey sublist none of whose items correspond to either a tlist
	// entry or an expression computable from the input's relids.
	ErrMissingPathkey = errors.NewKind("rewrite: cannot find pathkey item to sort")

	// ErrShapeAssertion guards internal invariants that should be
	// impossible to violate given a well-formed Path tree (e.g. a join
	// path whose Outer/Inner is nil). Raised rather than silently
	// continuing with a malformed Plan.
	ErrShapeAssertion = errors.NewKind("materialize: internal shape assertion failed: %s")

	// ErrMergeHashClauseShape is raised when a merge/hash join path's
	// clause list contains a RestrictInfo that is not a plain binary
	// OpExpr, which cannot be commuted or redistributed.
	ErrMergeHashClauseShape = errors.NewKind("rewrite: merge/hash clause is not a binary operator expression: %v")

	// ErrIndexQualIndexCountMismatch is raised when an IndexScan path's
	// indexQual and its per-disjunct index list do not have the same
	// length — the indexqual and indexinfo lists must march in lockstep,
	// one index per OR-disjunct.
	ErrIndexQualIndexCountMismatch = errors.NewKind("rewrite: indexQual has %d disjunct(s) but %d index(es) were given")
)
