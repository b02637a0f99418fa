package rewrite

import (
	"github.com/relplan/planmat/costmodel"
	"github.com/relplan/planmat/expr"
	"github.com/relplan/planmat/path"
	"github.com/relplan/planmat/plan"
	"github.com/relplan/planmat/planerrors"
	"github.com/relplan/planmat/relid"
)

// NewUnsortedTargetList ports new_unsorted_tlist: a fresh copy of tlist
// with every entry's sort-key marking cleared, ready to have some subset
// of its entries marked as this Sort node's keys.
func NewUnsortedTargetList(tlist []*plan.TargetEntry) []*plan.TargetEntry {
	out := make([]*plan.TargetEntry, len(tlist))
	for i, te := range tlist {
		cp := *te
		cp.SortKeyNum = 0
		cp.SortOp = ""
		out[i] = &cp
	}
	return out
}

// TlistMember ports tlist_member: returns the first entry of tlist whose
// expression is structurally equal to key, or nil if none matches.
func TlistMember(key expr.Expr, tlist []*plan.TargetEntry) *plan.TargetEntry {
	for _, te := range tlist {
		if expr.Equal(te.Expr, key) {
			return te
		}
	}
	return nil
}

// MakeSortFromPathKeys ports make_sort_from_pathkeys: builds a Sort plan
// ordering child's output by pathkeys. relids is the set of relids
// produced by child, needed to tell whether a pathkey item not already
// present in child's target list can still be computed from child's
// output (and so added as a resjunk entry) versus being altogether out of
// reach.
//
// If a pathkey item must be added as a resjunk entry but child cannot
// project (the only such case this stage sees is *plan.Append), a Result
// node is inserted below the Sort purely to perform that projection — the
// same "insert Result just to do the projection" step the original takes.
func MakeSortFromPathKeys(child plan.Plan, relids relid.Set, pathkeys []*path.PathKey, model costmodel.Model) (*plan.Sort, error) {
	tlist := child.Head().TargetList
	sortTlist := NewUnsortedTargetList(tlist)
	lefttree := child
	numSortKeys := 0

	for _, pk := range pathkeys {
		var chosen *path.PathKeyItem
		var resdom *plan.TargetEntry

		for i := range pk.Keys {
			item := &pk.Keys[i]
			if te := TlistMember(item.Key, sortTlist); te != nil {
				chosen, resdom = item, te
				break
			}
		}

		if resdom == nil {
			for i := range pk.Keys {
				item := &pk.Keys[i]
				if expr.PullVarnos(item.Key).SubsetOf(relids) {
					chosen = item
					break
				}
			}
			if chosen == nil {
				return nil, planerrors.ErrMissingPathkey.New()
			}

			if _, isAppend := lefttree.(*plan.Append); isAppend {
				tlist = NewUnsortedTargetList(tlist)
				result := plan.NewResult(tlist, nil, lefttree, model.CPUTupleCost(), model.CPUOperatorCost())
				lefttree = result
			}

			junk := &plan.TargetEntry{
				Expr:    chosen.Key,
				ResNo:   len(tlist) + 1,
				Resjunk: true,
			}
			tlist = append(tlist, junk)
			lefttree.Head().TargetList = tlist

			sortJunk := &plan.TargetEntry{
				Expr:    chosen.Key,
				ResNo:   len(sortTlist) + 1,
				Resjunk: true,
			}
			sortTlist = append(sortTlist, sortJunk)
			resdom = sortJunk
		}

		if resdom.SortKeyNum == 0 {
			numSortKeys++
			resdom.SortKeyNum = numSortKeys
			resdom.SortOp = chosen.SortOp
		}
	}

	h := lefttree.Head()
	startup, total := model.CostSort(h.TotalCost, h.PlanRows, h.PlanWidth, numSortKeys)
	return plan.NewSort(sortTlist, lefttree, numSortKeys, startup, total), nil
}
