// Package schema parses and models dtfdb schema definition files.
//
// A schema definition file (conventional extension .dbd) declares a set of
// tables, one directive per line. Each directive is recognized by a
// 3-character tag prefix:
//
//	TAB <name>   begins a new table
//	KEY <name>   declares the primary-key column (first column by convention)
//	COL <name>   appends a column
//	**           terminates the current table definition
//
// All other lines are ignored. The parsed [Schema] is immutable once built
// and safe to share across goroutines.
package schema

import "slices"

// Table describes a single table: its name, ordered column list, and
// primary-key column. The key is always a member of Columns.
type Table struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
	Key     string   `json:"key"`
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	c := *t
	c.Columns = slices.Clone(t.Columns)
	return &c
}

// ColumnIndex returns the position of name in the table's column list, or
// -1 if the table has no such column.
func (t *Table) ColumnIndex(name string) int {
	return slices.Index(t.Columns, name)
}

// Schema is an ordered sequence of tables, in declaration order.
type Schema struct {
	Tables []*Table `json:"tables"`
}

// Clone returns a deep copy of the schema.
func (s *Schema) Clone() *Schema {
	c := &Schema{Tables: make([]*Table, len(s.Tables))}
	for i, t := range s.Tables {
		c.Tables[i] = t.Clone()
	}
	return c
}

// Find returns the first table whose name matches, or nil. Degenerate
// tables (blank name or zero columns, a parsing artifact) are never
// matched.
func (s *Schema) Find(name string) *Table {
	if name == "" {
		return nil
	}
	for _, t := range s.Tables {
		if t.Name == name && len(t.Columns) > 0 {
			return t
		}
	}
	return nil
}

// Names returns the table names in declaration order, skipping degenerate
// entries left over from parsing.
func (s *Schema) Names() []string {
	names := make([]string, 0, len(s.Tables))
	for _, t := range s.Tables {
		if t.Name != "" && len(t.Columns) > 0 {
			names = append(names, t.Name)
		}
	}
	return names
}
