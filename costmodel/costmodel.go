// Package costmodel supplies the cost constants and the handful of cost
// formulas the `plan` builders need but do not compute locally (Sort, Agg,
// Group — the three node types the original's createplan.c itself defers
// to cost_sort/cost_agg/cost_group rather than folding inline, see
// comments at make_sort/make_agg/make_group). costsize.c itself was not
// part of the retrieved reference material; the formulas below follow the
// well-known logarithmic/linear shape the original's comments describe
// (sort is O(n log n) comparisons, Agg/Group are O(n)) rather than
// reproducing its exact constants line for line.
package costmodel

import "math"

// Model is the cost-constant and cost-formula surface the materializer
// depends on. Implementations are expected to source constants from
// config.Config rather than hardcoding them, per the "cost constants
// threaded via config, not globals" design note.
type Model interface {
	CPUTupleCost() float64
	CPUOperatorCost() float64

	// CostSort estimates the {startup, total} cost of sorting
	// inputRows rows of inputWidth average width whose unsorted source
	// cost was inputCost, on keyCount sort keys.
	CostSort(inputCost float64, inputRows float64, inputWidth int, keyCount int) (startup, total float64)

	// CostAgg estimates the {startup, total} cost of aggregating
	// inputRows rows with aggregate strategy "plain" or "grouped" over
	// numGroupCols columns, producing numGroups output groups.
	CostAgg(strategy string, numAggs, numGroupCols int, numGroups float64, inputStartup, inputTotal, inputRows float64) (startup, total float64)

	// CostGroup estimates the {startup, total} cost of collapsing
	// inputRows (already-sorted) rows on numGroupCols columns into
	// numGroups output rows.
	CostGroup(numGroupCols int, numGroups float64, inputStartup, inputTotal, inputRows float64) (startup, total float64)
}

// Standard is the default Model, parameterized by the classic
// cpu_tuple_cost/cpu_operator_cost constants (expressed as a fraction of
// one sequential page fetch, seq_page_cost == 1.0).
type Standard struct {
	TupleCost    float64
	OperatorCost float64
}

// NewStandard builds a Standard model from the given constants. Callers
// typically source tupleCost/operatorCost from config.Config rather than
// hardcoding the classic 0.01/0.0025 defaults.
func NewStandard(tupleCost, operatorCost float64) *Standard {
	return &Standard{TupleCost: tupleCost, OperatorCost: operatorCost}
}

func (s *Standard) CPUTupleCost() float64    { return s.TupleCost }
func (s *Standard) CPUOperatorCost() float64 { return s.OperatorCost }

// CostSort charges the input cost plus 2*OperatorCost per sort key per
// tuple per log2(rows) for the sort proper, and one TupleCost per tuple
// for the eventual output pass, matching cost_sort's documented shape
// (startup cost equals the full sort cost since no rows emerge until the
// sort completes; total cost adds the linear retrieval cost).
func (s *Standard) CostSort(inputCost float64, inputRows float64, inputWidth int, keyCount int) (float64, float64) {
	if inputRows < 2 {
		return inputCost, inputCost + s.TupleCost*inputRows
	}
	comparisonCost := 2 * s.OperatorCost * float64(keyCount)
	logRows := math.Log2(inputRows)
	startup := inputCost + comparisonCost*inputRows*logRows
	total := startup + s.TupleCost*inputRows
	return startup, total
}

// CostAgg charges one OperatorCost per input row per aggregate function,
// all incurred before the first output row can be produced for a
// hash/grouped strategy, or folded into the single plain-aggregate output
// row otherwise.
func (s *Standard) CostAgg(strategy string, numAggs, numGroupCols int, numGroups float64, inputStartup, inputTotal, inputRows float64) (float64, float64) {
	transCost := s.OperatorCost * inputRows * float64(maxInt(numAggs, 1))
	if strategy == "plain" {
		startup := inputTotal + transCost
		total := startup + s.CPUTupleCost()
		return startup, total
	}
	startup := inputTotal + transCost
	total := startup + s.CPUTupleCost()*numGroups
	return startup, total
}

// CostGroup charges one OperatorCost per input row per grouping column to
// detect group boundaries, plus the usual per-output-row tuple cost.
func (s *Standard) CostGroup(numGroupCols int, numGroups float64, inputStartup, inputTotal, inputRows float64) (float64, float64) {
	startup := inputTotal + s.OperatorCost*inputRows*float64(maxInt(numGroupCols, 1))
	total := startup + s.CPUTupleCost()*numGroups
	return startup, total
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
