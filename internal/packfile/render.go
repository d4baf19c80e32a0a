package packfile

import (
	"strconv"
	"strings"

	"github.com/eugenenazirov/packer/internal/packer"
)

// Sentinel marks a line with no selected items.
const Sentinel = "-"

const (
	indexSeparator = ","
	lineSeparator  = "\n"
)

// Render formats one line's outcome.
func Render(pack packer.Pack, selected bool) string {
	if !selected || pack.IsEmpty() {
		return Sentinel
	}

	indexes := pack.Indexes()
	parts := make([]string, len(indexes))
	for i, idx := range indexes {
		parts[i] = strconv.Itoa(idx)
	}
	return strings.Join(parts, indexSeparator)
}

// Join concatenates rendered results into the final output text.
func Join(results []LineResult) string {
	lines := make([]string, len(results))
	for i, res := range results {
		lines[i] = res.Selection
	}
	return strings.Join(lines, lineSeparator)
}
