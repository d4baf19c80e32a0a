package packer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

const (
	tokenSeparator = " "
	fieldSeparator = ","
	itemFieldCount = 3
)

// ParseLine splits a line of the form "81 : (1,53.38,€45) (2,88.62,€98)" into
// its weight limit and raw item tokens. The second token (the colon) is dropped.
//
// A blank line yields ok == false and no error.
func ParseLine(line string) (content LineContent, ok bool, err error) {
	if strings.TrimSpace(line) == "" {
		return LineContent{}, false, nil
	}

	parts := strings.Split(line, tokenSeparator)
	limit, err := decimal.NewFromString(parts[0])
	if err != nil {
		return LineContent{}, false, newParseError(line, "cannot convert weight limit to number", err)
	}

	tokens := make([]string, 0, len(parts))
	if len(parts) > 2 {
		for _, part := range parts[2:] {
			// Trailing or doubled separators leave empty fragments behind. They are
			// dropped rather than rejected, so they never count toward MaxItems.
			if part == "" {
				continue
			}
			tokens = append(tokens, part)
		}
	}

	return LineContent{WeightLimit: limit, Tokens: tokens}, true, nil
}

// ParseItem converts a token such as "(2,88.62,€98)" into an Item.
// Parentheses and currency symbols are stripped before the token is split on commas.
func ParseItem(token string) (Item, error) {
	fields := strings.Split(stripDecoration(token), fieldSeparator)
	if len(fields) != itemFieldCount {
		reason := fmt.Sprintf("expected %d fields but got %d", itemFieldCount, len(fields))
		return Item{}, newParseError(token, reason, nil)
	}

	index, err := strconv.Atoi(fields[0])
	if err != nil {
		return Item{}, newParseError(token, "cannot convert index to number", err)
	}
	if index <= 0 {
		return Item{}, newParseError(token, "index must be a positive integer", nil)
	}

	weight, err := decimal.NewFromString(fields[1])
	if err != nil {
		return Item{}, newParseError(token, "cannot convert weight to number", err)
	}

	cost, err := decimal.NewFromString(fields[2])
	if err != nil {
		return Item{}, newParseError(token, "cannot convert cost to number", err)
	}

	return Item{Index: index, Weight: weight, Cost: cost}, nil
}

func stripDecoration(token string) string {
	return strings.Map(func(r rune) rune {
		if r == '(' || r == ')' || unicode.Is(unicode.Sc, r) {
			return -1
		}
		return r
	}, token)
}
