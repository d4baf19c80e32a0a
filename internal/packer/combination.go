package packer

import (
	"fmt"
	"math/bits"
	"slices"
)

// maxEnumerable bounds Combinations so a caller cannot request an unbounded 2^N walk.
const maxEnumerable = 24

// Combinations returns every non-empty subset of ids exactly once.
//
// Duplicate ids collapse to one element and the input order is irrelevant:
// subsets are identified by a bitmask over the sorted distinct ids, and each
// returned subset is sorted ascending. For N distinct ids the result holds 2^N-1 subsets.
func Combinations(ids []int) ([][]int, error) {
	elements := slices.Clone(ids)
	slices.Sort(elements)
	elements = slices.Compact(elements)

	n := len(elements)
	if n > maxEnumerable {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyElements, n, maxEnumerable)
	}

	total := uint64(1)<<n - 1
	subsets := make([][]int, 0, total)
	for mask := uint64(1); mask <= total; mask++ {
		subsets = append(subsets, subsetFromMask(elements, mask))
	}
	return subsets, nil
}

func subsetFromMask(elements []int, mask uint64) []int {
	subset := make([]int, 0, bits.OnesCount64(mask))
	for bit, id := range elements {
		if mask&(1<<bit) != 0 {
			subset = append(subset, id)
		}
	}
	return subset
}
