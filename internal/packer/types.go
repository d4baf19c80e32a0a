package packer

import "github.com/shopspring/decimal"

// Item is a single purchasable unit parsed from an input line.
type Item struct {
	Index  int
	Weight decimal.Decimal
	Cost   decimal.Decimal
}

// Equal reports whether two items carry the same index, weight, and cost.
// Weight and cost are compared numerically so 72.3 equals 72.30.
func (i Item) Equal(other Item) bool {
	return i.Index == other.Index && i.Weight.Equal(other.Weight) && i.Cost.Equal(other.Cost)
}

// LineContent is the result of splitting a raw line: the weight limit and the
// raw item tokens in the order they appeared.
type LineContent struct {
	WeightLimit decimal.Decimal
	Tokens      []string
}

// Selector describes the behaviour required from a pack selection engine.
//
// Select returns the winning pack for a line. The boolean is false when the line
// produces no selection at all (blank line or a line-level constraint violation),
// which is distinct from a winning pack that holds zero items.
type Selector interface {
	Select(line string) (Pack, bool, error)
}
