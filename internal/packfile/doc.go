// Package packfile feeds text lines to the pack selector and renders the answers.
// Each input line yields exactly one output line: the selected item indexes in
// ascending order joined by commas, or "-" when nothing is selected. Output lines
// keep the order of the input and are joined with a newline.
package packfile
