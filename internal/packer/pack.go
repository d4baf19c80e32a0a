package packer

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"
)

// Pack is an immutable candidate selection. Totals are always derived from the
// contained items and never set independently.
type Pack struct {
	weightLimit decimal.Decimal
	items       []Item
	totalWeight decimal.Decimal
	totalCost   decimal.Decimal
}

// NewPack builds a pack for the given weight limit. Items are copied and kept
// sorted by index so two packs holding the same items compare equal.
func NewPack(weightLimit decimal.Decimal, items []Item) Pack {
	sorted := slices.Clone(items)
	slices.SortFunc(sorted, func(a, b Item) int { return cmp.Compare(a.Index, b.Index) })

	weight, cost := decimal.Zero, decimal.Zero
	for _, item := range sorted {
		weight = weight.Add(item.Weight)
		cost = cost.Add(item.Cost)
	}

	return Pack{
		weightLimit: weightLimit,
		items:       sorted,
		totalWeight: weight,
		totalCost:   cost,
	}
}

// EmptyPack is the winning pack of a line where nothing fits.
func EmptyPack(weightLimit decimal.Decimal) Pack {
	return NewPack(weightLimit, nil)
}

// WeightLimit returns the limit the pack was built against.
func (p Pack) WeightLimit() decimal.Decimal { return p.weightLimit }

// TotalWeight returns the summed weight of the contained items.
func (p Pack) TotalWeight() decimal.Decimal { return p.totalWeight }

// TotalCost returns the summed cost of the contained items.
func (p Pack) TotalCost() decimal.Decimal { return p.totalCost }

// Len returns the number of contained items.
func (p Pack) Len() int { return len(p.items) }

// IsEmpty reports whether the pack holds no items.
func (p Pack) IsEmpty() bool { return len(p.items) == 0 }

// Items returns a copy of the contained items ordered by index.
func (p Pack) Items() []Item {
	return slices.Clone(p.items)
}

// Indexes returns the item indexes in ascending order.
func (p Pack) Indexes() []int {
	indexes := make([]int, len(p.items))
	for i, item := range p.items {
		indexes[i] = item.Index
	}
	return indexes
}

// Feasible reports whether the total weight stays within the weight limit.
func (p Pack) Feasible() bool {
	return p.totalWeight.LessThanOrEqual(p.weightLimit)
}

// Equal compares packs by value.
func (p Pack) Equal(other Pack) bool {
	if !p.weightLimit.Equal(other.weightLimit) ||
		!p.totalWeight.Equal(other.totalWeight) ||
		!p.totalCost.Equal(other.totalCost) {
		return false
	}
	return slices.EqualFunc(p.items, other.items, Item.Equal)
}

// IsBetter decides whether candidate should replace current. current may be nil
// when no pack has been accepted yet. An infeasible candidate never wins; otherwise
// the higher total cost wins and, on equal cost, the lower total weight wins.
func IsBetter(current *Pack, candidate Pack) bool {
	if !candidate.Feasible() {
		return false
	}
	if current == nil {
		return true
	}

	switch candidate.totalCost.Cmp(current.totalCost) {
	case 1:
		return true
	case 0:
		return candidate.totalWeight.LessThan(current.totalWeight)
	default:
		return false
	}
}
