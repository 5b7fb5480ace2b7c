package query

import "strings"

// ParseColumns parses a requested column list.
//
// The input is a comma-separated string; backticks around individual names
// are stripped (bracketed-identifier compatibility). The literal values
// "*" and a blank string both mean "all columns" and yield nil rather than
// a literal single-element list.
func ParseColumns(list string) []string {
	list = strings.TrimSpace(list)
	if list == "" || list == "*" {
		return nil
	}
	parts := strings.Split(list, ",")
	cols := make([]string, 0, len(parts))
	for _, p := range parts {
		cols = append(cols, strings.Trim(strings.TrimSpace(p), "`"))
	}
	return cols
}

// Resolve maps requested column names to their positions in the table's
// column list. A nil or empty request resolves to every column in schema
// order. Unresolved names are returned in missing; the caller decides
// whether that is fatal.
func Resolve(requested, columns []string) (indices []int, missing []string) {
	if len(requested) == 0 {
		indices = make([]int, len(columns))
		for i := range columns {
			indices[i] = i
		}
		return indices, nil
	}
	for _, name := range requested {
		found := -1
		for i, col := range columns {
			if col == name {
				found = i
				break
			}
		}
		if found < 0 {
			missing = append(missing, name)
			continue
		}
		indices = append(indices, found)
	}
	return indices, missing
}
