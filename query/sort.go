package query

import (
	"sort"
	"strings"

	"github.com/dtfdb/dtfdb/dtf"
)

// Order is a parsed sort specification: a column name and direction.
type Order struct {
	Column string
	Desc   bool
}

// ParseOrder parses a sort specification of the form "<column> [ASC|DESC]".
// The modifier is case-insensitive and defaults to ascending; surrounding
// whitespace is tolerated.
func ParseOrder(spec string) Order {
	fields := strings.Fields(spec)
	o := Order{}
	if len(fields) > 0 {
		o.Column = fields[0]
	}
	if len(fields) > 1 && strings.EqualFold(fields[1], "desc") {
		o.Desc = true
	}
	return o
}

// Sort orders records in place by the values at column position col using
// natural-order comparison. The sort is stable: equal keys keep their
// relative original order. Descending order reverses the fully-sorted
// ascending sequence. A negative col (unknown sort column) is a no-op.
func Sort(records []dtf.Record, col int, desc bool) {
	if col < 0 {
		return
	}
	sort.SliceStable(records, func(i, j int) bool {
		return NaturalCompare(records[i].Field(col), records[j].Field(col)) < 0
	})
	if desc {
		for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
			records[i], records[j] = records[j], records[i]
		}
	}
}

// NaturalCompare compares two strings in natural order: runs of
// consecutive ASCII digits compare as integers, everything else compares
// by code point, segment by segment left to right.
func NaturalCompare(a, b string) int {
	for a != "" && b != "" {
		aSeg, aNum := nextSegment(a)
		bSeg, bNum := nextSegment(b)
		if aNum && bNum {
			if c := compareDigits(aSeg, bSeg); c != 0 {
				return c
			}
		} else if c := strings.Compare(aSeg, bSeg); c != 0 {
			return c
		}
		a = a[len(aSeg):]
		b = b[len(bSeg):]
	}
	switch {
	case a == "" && b == "":
		return 0
	case a == "":
		return -1
	default:
		return 1
	}
}

// nextSegment returns the leading run of digits or non-digits.
func nextSegment(s string) (string, bool) {
	isDigit := s[0] >= '0' && s[0] <= '9'
	for i := 1; i < len(s); i++ {
		if (s[i] >= '0' && s[i] <= '9') != isDigit {
			return s[:i], isDigit
		}
	}
	return s, isDigit
}

// compareDigits compares two digit runs as integers of arbitrary length.
func compareDigits(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}
