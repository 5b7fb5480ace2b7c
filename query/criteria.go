// Package query evaluates criteria expressions, resolves column
// projections, and sorts record sets in natural order.
package query

import (
	"regexp"
	"strings"

	"github.com/dtfdb/dtfdb/dtf"
)

// Criteria is a parsed filter expression: a target column and either a
// plain comparison value or a regular expression pattern.
type Criteria struct {
	Column string
	Value  string
	Regex  bool
}

// ParseCriteria parses a raw criteria string.
//
// The form COLUMN=VALUE splits on the first '='; a bare VALUE targets the
// table's primary-key column. The literal values true and false normalize
// to "1" and "" before regex classification. A value wrapped in slashes
// (/…/) is a regular expression.
func ParseCriteria(raw, key string) Criteria {
	c := Criteria{Column: key}
	if col, val, ok := strings.Cut(raw, "="); ok {
		c.Column = strings.TrimSpace(col)
		c.Value = strings.TrimSpace(val)
	} else {
		c.Value = strings.TrimSpace(raw)
	}
	switch c.Value {
	case "true":
		c.Value = "1"
	case "false":
		c.Value = ""
	}
	if len(c.Value) >= 2 && c.Value[0] == '/' && c.Value[len(c.Value)-1] == '/' {
		c.Regex = true
		c.Value = c.Value[1 : len(c.Value)-1]
	}
	return c
}

// Match returns the indices of records matching the criteria, in original
// order. col is the criteria column's position in the record layout; a
// negative col (unknown column) matches nothing.
//
// Plain values compare by text equality against the stored representation.
// Regex values match case-insensitively; no other modifier is supported.
func (c Criteria) Match(records []dtf.Record, col int) []int {
	if col < 0 {
		return nil
	}
	var re *regexp.Regexp
	if c.Regex {
		var err error
		re, err = regexp.Compile("(?i)" + c.Value)
		if err != nil {
			// An unparseable pattern matches nothing, consistent with
			// unknown-column leniency.
			return nil
		}
	}
	var matched []int
	for i, rec := range records {
		v := rec.Field(col)
		if c.Regex {
			if re.MatchString(v) {
				matched = append(matched, i)
			}
		} else if v == c.Value {
			matched = append(matched, i)
		}
	}
	return matched
}
