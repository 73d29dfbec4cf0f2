// Package balance rolls a flat list of accounts with their own balances
// up into the account tree used by reports and budget views.
package balance

import (
	"github.com/biker2000on/gnucash-web-sub001/lib/common/compare"
	"github.com/biker2000on/gnucash-web-sub001/lib/common/set"
	"github.com/shopspring/decimal"
)

// AccountBalance is one account together with its own (non-recursive)
// balance.
type AccountBalance struct {
	GUID       string
	Name       string
	ParentGUID string
	Own        decimal.Decimal
}

// LineItem is one node of the rolled-up tree. Amount is the account's
// own balance plus the recursive sum of its children's amounts; Depth is
// the distance from the root the tree was built for.
type LineItem struct {
	GUID     string
	Name     string
	Amount   decimal.Decimal
	Depth    int
	Children []*LineItem
}

func compareItems(l1, l2 *LineItem) compare.Order {
	if o := compare.Ordered(l1.Name, l2.Name); o != compare.Equal {
		return o
	}
	return compare.Ordered(l1.GUID, l2.GUID)
}

// Build constructs the tree of line items for the accounts below
// rootGUID. An account whose parent is neither rootGUID nor part of the
// input set becomes a synthetic root, so that account lists scoped to a
// single book still render without the full global tree. Children are
// ordered by name. Aggregation never fails: a corrupted parent pointer
// cycle is cut at the account already on the current path instead of
// recursing into it.
func Build(items []AccountBalance, rootGUID string) []*LineItem {
	var (
		index    = make(map[string]AccountBalance, len(items))
		children = make(map[string][]string)
		roots    []string
	)
	for _, item := range items {
		index[item.GUID] = item
	}
	for _, item := range items {
		if item.ParentGUID == rootGUID {
			roots = append(roots, item.GUID)
			continue
		}
		if _, ok := index[item.ParentGUID]; !ok {
			roots = append(roots, item.GUID)
			continue
		}
		children[item.ParentGUID] = append(children[item.ParentGUID], item.GUID)
	}

	visited := set.New[string]()
	var res []*LineItem
	for _, guid := range roots {
		res = append(res, build(guid, 0, index, children, visited, set.New[string]()))
	}
	// Accounts forming a parent cycle are reachable from no root; they
	// still must show up rather than silently vanish.
	for _, item := range items {
		if !visited.Has(item.GUID) {
			res = append(res, build(item.GUID, 0, index, children, visited, set.New[string]()))
		}
	}
	compare.Sort(res, compareItems)
	return res
}

func build(guid string, depth int, index map[string]AccountBalance, children map[string][]string, visited, path set.Set[string]) *LineItem {
	item := index[guid]
	visited.Add(guid)
	path.Add(guid)
	defer path.Remove(guid)

	res := &LineItem{
		GUID:   guid,
		Name:   item.Name,
		Amount: item.Own,
		Depth:  depth,
	}
	for _, childGUID := range children[guid] {
		if path.Has(childGUID) || visited.Has(childGUID) {
			continue
		}
		child := build(childGUID, depth+1, index, children, visited, path)
		res.Amount = res.Amount.Add(child.Amount)
		res.Children = append(res.Children, child)
	}
	compare.Sort(res.Children, compareItems)
	return res
}
