package query

import (
	"slices"
	"testing"

	"github.com/dtfdb/dtfdb/dtf"
)

func TestParseCriteria(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Criteria
	}{
		{"column equals value", "name=sherlock", Criteria{Column: "name", Value: "sherlock"}},
		{"bare value targets key", "12", Criteria{Column: "id", Value: "12"}},
		{"splits on first equals", "note=a=b", Criteria{Column: "note", Value: "a=b"}},
		{"trims both sides", " name = watson ", Criteria{Column: "name", Value: "watson"}},
		{"regex value", "name=/s/", Criteria{Column: "name", Value: "s", Regex: true}},
		{"bare regex targets key", "/^4/", Criteria{Column: "id", Value: "^4", Regex: true}},
		{"true normalizes to 1", "active=true", Criteria{Column: "active", Value: "1"}},
		{"false normalizes to empty", "active=false", Criteria{Column: "active", Value: ""}},
		{"lone slash is not a regex", "name=/", Criteria{Column: "name", Value: "/"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseCriteria(tt.raw, "id"); got != tt.want {
				t.Errorf("ParseCriteria(%q) = %+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestMatch(t *testing.T) {
	records := []dtf.Record{
		{"12", "sherlock", "1925-09-09"},
		{"47", "watson", "1931-10-31"},
		{"58", "moriarty", "1935-01-01"},
	}

	tests := []struct {
		name string
		raw  string
		col  int
		want []int
	}{
		{"equality", "name=watson", 1, []int{1}},
		{"equality no rows", "name=lestrade", 1, nil},
		{"regex multiple rows", "name=/s/", 1, []int{0, 1}},
		{"regex is case-insensitive", "name=/SHERLOCK/", 1, []int{0}},
		{"regex anchors", "name=/^m/", 1, []int{2}},
		{"bare key value", "47", 0, []int{1}},
		{"unknown column matches nothing", "ghost=x", -1, nil},
		{"invalid pattern matches nothing", "name=/(/", 1, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := ParseCriteria(tt.raw, "id")
			if got := c.Match(records, tt.col); !slices.Equal(got, tt.want) {
				t.Errorf("Match(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}
