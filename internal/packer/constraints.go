package packer

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Fixed limits applied to every line.
const (
	MaxWeightLimit = 100
	MaxItems       = 15
	MaxItemWeight  = 100
	MaxItemCost    = 100
)

var (
	maxWeightLimit = decimal.NewFromInt(MaxWeightLimit)
	maxItemWeight  = decimal.NewFromInt(MaxItemWeight)
	maxItemCost    = decimal.NewFromInt(MaxItemCost)
)

// LineViolations lists the line-level limits broken by content. The token count is
// taken before duplicate indices are resolved. An empty result means the line is admissible.
func LineViolations(content LineContent) []string {
	var violations []string
	if content.WeightLimit.GreaterThan(maxWeightLimit) {
		violations = append(violations, fmt.Sprintf("weight limit %s exceeds %d", content.WeightLimit, MaxWeightLimit))
	}
	if n := len(content.Tokens); n > MaxItems {
		violations = append(violations, fmt.Sprintf("item count %d exceeds %d", n, MaxItems))
	}
	return violations
}

// ItemViolations lists the reasons an item cannot enter the candidate set of a line
// with the given weight limit. An empty result means the item is admitted.
func ItemViolations(item Item, weightLimit decimal.Decimal) []string {
	var violations []string
	if item.Weight.GreaterThan(weightLimit) {
		violations = append(violations, fmt.Sprintf("weight %s is heavier than limit %s", item.Weight, weightLimit))
	}
	if item.Weight.GreaterThan(maxItemWeight) {
		violations = append(violations, fmt.Sprintf("weight %s exceeds %d", item.Weight, MaxItemWeight))
	}
	if item.Cost.GreaterThan(maxItemCost) {
		violations = append(violations, fmt.Sprintf("cost %s exceeds %d", item.Cost, MaxItemCost))
	}
	if item.Weight.IsNegative() || item.Cost.IsNegative() {
		violations = append(violations, "weight and cost must not be negative")
	}
	return violations
}
