package packer

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSelect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		line         string
		wantSelected bool
		wantIndexes  []int
		wantWeight   string
		wantCost     string
	}{
		{
			name:         "SingleBestItem",
			line:         "81 : (1,53.38,€45) (2,88.62,€98) (3,78.48,€3) (4,72.30,€76) (5,30.18,€9) (6,46.34,€48)",
			wantSelected: true,
			wantIndexes:  []int{4},
			wantWeight:   "72.30",
			wantCost:     "76",
		},
		{
			name:         "OnlyItemTooHeavy",
			line:         "8 : (1,15.3,€34)",
			wantSelected: true,
			wantIndexes:  []int{},
			wantWeight:   "0",
			wantCost:     "0",
		},
		{
			name:         "TwoItemsWithEqualCost",
			line:         "75 : (1,85.31,€29) (2,14.55,€74) (3,3.98,€16) (4,26.24,€55) (5,63.69,€52) (6,76.25,€75) (7,60.02,€74) (8,93.18,€35) (9,89.95,€78)",
			wantSelected: true,
			wantIndexes:  []int{2, 7},
			wantWeight:   "74.57",
			wantCost:     "148",
		},
		{
			name:         "TwoLightItems",
			line:         "56 : (1,90.72,€13) (2,33.80,€40) (3,43.15,€10) (4,37.97,€16) (5,46.81,€36) (6,48.77,€79) (7,81.80,€45) (8,19.36,€79) (9,6.76,€64)",
			wantSelected: true,
			wantIndexes:  []int{8, 9},
			wantWeight:   "26.12",
			wantCost:     "143",
		},
		{
			name:         "FastPathAllFit",
			line:         "50 : (1,10,€5) (2,20,€6) (3,20,€7)",
			wantSelected: true,
			wantIndexes:  []int{1, 2, 3},
			wantWeight:   "50",
			wantCost:     "18",
		},
		{
			name:         "OnlyWeightLimit",
			line:         "87.65 : ",
			wantSelected: true,
			wantIndexes:  []int{},
			wantWeight:   "0",
			wantCost:     "0",
		},
		{
			name:         "ItemWeightEqualsLimit",
			line:         "15.311 : (1,15.311,€8.01)",
			wantSelected: true,
			wantIndexes:  []int{1},
			wantWeight:   "15.311",
			wantCost:     "8.01",
		},
		{
			name:         "EqualCostPrefersLighter",
			line:         "10 : (1,6,€10) (2,5,€10) (3,7,€10)",
			wantSelected: true,
			wantIndexes:  []int{2},
			wantWeight:   "5",
			wantCost:     "10",
		},
		{
			name:         "ExpensiveItemExcluded",
			line:         "20 : (1,5,€101) (2,5,€3)",
			wantSelected: true,
			wantIndexes:  []int{2},
			wantWeight:   "5",
			wantCost:     "3",
		},
		{
			name:         "DuplicateIndexLastWins",
			line:         "10 : (1,9,€50) (1,2,€5) (2,8,€6)",
			wantSelected: true,
			wantIndexes:  []int{1, 2},
			wantWeight:   "10",
			wantCost:     "11",
		},
		{
			name:         "WeightLimitTooHigh",
			line:         "101.01 : (1,15.3,€34)",
			wantSelected: false,
		},
		{
			name:         "Blank",
			line:         "  ",
			wantSelected: false,
		},
	}

	selector := New()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pack, selected, err := selector.Select(tc.line)
			require.NoError(t, err)
			require.Equal(t, tc.wantSelected, selected)
			if !selected {
				return
			}

			assert.Equal(t, tc.wantIndexes, pack.Indexes())
			assert.True(t, pack.TotalWeight().Equal(limit(tc.wantWeight)), "total weight %s", pack.TotalWeight())
			assert.True(t, pack.TotalCost().Equal(limit(tc.wantCost)), "total cost %s", pack.TotalCost())
			assert.True(t, pack.Feasible())
		})
	}
}

func TestSelectTooManyTokens(t *testing.T) {
	t.Parallel()

	tokens := make([]string, 0, MaxItems+1)
	for i := 1; i <= MaxItems+1; i++ {
		tokens = append(tokens, "(1,1,€1)")
	}

	// Sixteen tokens that all share one index still exceed the raw token limit.
	line := "100 : " + strings.Join(tokens, " ")
	_, selected, err := New().Select(line)
	require.NoError(t, err)
	assert.False(t, selected)

	_, selected, err = New().Select("100 : " + strings.Join(tokens[:MaxItems], " "))
	require.NoError(t, err)
	assert.True(t, selected)
}

func TestSelectMalformedTokenAbortsLine(t *testing.T) {
	t.Parallel()

	_, selected, err := New().Select("8 : (1,15.3,€34) (1,A,€34)")
	require.ErrorIs(t, err, ErrParse)
	assert.False(t, selected)
	assert.Contains(t, err.Error(), "(1,A,€34)")
}

func TestSelectMalformedWeightLimit(t *testing.T) {
	t.Parallel()

	_, _, err := New().Select("RPR : ")
	require.ErrorIs(t, err, ErrParse)
	assert.Contains(t, err.Error(), "RPR : ")
}

func TestSelectLogsExclusionsAtDebug(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	selector := New(WithLogger(zap.New(core)))

	_, _, err := selector.Select("8 : (1,15.3,€34)")
	require.NoError(t, err)

	entries := logs.FilterMessage("item excluded").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Zero(t, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
}

func TestBestFullSetShortcut(t *testing.T) {
	t.Parallel()

	candidates := map[int]Item{
		1: item(1, "1", "1"),
		2: item(2, "2", "2"),
	}
	pack, err := Best(limit("3"), candidates)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, pack.Indexes())
}

func TestBestNothingFits(t *testing.T) {
	t.Parallel()

	pack, err := Best(limit("-1"), map[int]Item{1: item(1, "0", "5")})
	require.NoError(t, err)
	assert.True(t, pack.IsEmpty())
	assert.True(t, pack.WeightLimit().Equal(limit("-1")))
}

func TestBestMatchesExhaustiveMaximum(t *testing.T) {
	t.Parallel()

	line := "40 : (1,12.5,€30) (2,13.5,€31) (3,14,€29) (4,9.75,€18) (5,20,€44) (6,7.25,€12)"
	pack, selected, err := New().Select(line)
	require.NoError(t, err)
	require.True(t, selected)

	content, _, err := ParseLine(line)
	require.NoError(t, err)
	items := make(map[int]Item)
	for _, token := range content.Tokens {
		it, err := ParseItem(token)
		require.NoError(t, err)
		items[it.Index] = it
	}

	ids := make([]int, 0, len(items))
	for id := range items {
		ids = append(ids, id)
	}
	subsets, err := Combinations(ids)
	require.NoError(t, err)

	for _, subset := range subsets {
		members := make([]Item, 0, len(subset))
		for _, id := range subset {
			members = append(members, items[id])
		}
		other := NewPack(content.WeightLimit, members)
		if !other.Feasible() {
			continue
		}
		assert.False(t, other.TotalCost().GreaterThan(pack.TotalCost()), "subset %v beats winner", subset)
	}
}

func BenchmarkSelectSlowPath(b *testing.B) {
	tokens := make([]string, 0, MaxItems)
	for i := 1; i <= MaxItems; i++ {
		tokens = append(tokens, fmt.Sprintf("(%d,%d.5,€%d)", i, 10+i, 20+i))
	}
	line := "100 : " + strings.Join(tokens, " ")

	selector := New()
	for i := 0; i < b.N; i++ {
		if _, _, err := selector.Select(line); err != nil {
			b.Fatalf("unexpected error: %v", err)
		}
	}
}
