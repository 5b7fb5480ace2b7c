// Package dtf encodes and decodes table data files.
//
// A data file (conventional extension .dtf) holds one table's records as
// raw bytes: each row is its column values joined by a one-byte unit
// separator, terminated by a one-byte row separator followed by a line
// feed. The codec performs no escaping; values must not contain the
// delimiter bytes themselves. Any other byte sequence, including commas,
// line feeds, and multi-byte text, round-trips unchanged.
package dtf

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Ext is the conventional table data file extension.
const Ext = ".dtf"

// Delimiter bytes. The default pair is ASCII unit separator and record
// separator; legacy mode swaps in the adjacent group/file separator pair
// written by older encoders.
const (
	UnitSep       byte = 0x1F
	RowSep        byte = 0x1E
	LegacyUnitSep byte = 0x1D
	LegacyRowSep  byte = 0x1C
)

// Record is one row's values, in column order. A record does not carry
// its own schema; callers supply the owning table's column list.
type Record []string

// Field returns the value at position i, or the empty string when the raw
// row carried fewer fields than the schema declares.
func (r Record) Field(i int) string {
	if i < 0 || i >= len(r) {
		return ""
	}
	return r[i]
}

// Codec reads and writes a database's table data files. It is stateless
// apart from its configuration and safe for concurrent reads.
type Codec struct {
	datapath string
	database string
	prepend  bool
	unit     byte
	row      byte
}

// New creates a codec for the database rooted at datapath.
//
// When prepend is set, table filenames are prefixed with the database
// name. Legacy swaps the delimiter pair for compatibility with files
// written by old encoders.
func New(datapath, database string, prepend, legacy bool) *Codec {
	c := &Codec{
		datapath: datapath,
		database: database,
		prepend:  prepend,
		unit:     UnitSep,
		row:      RowSep,
	}
	if legacy {
		c.unit = LegacyUnitSep
		c.row = LegacyRowSep
	}
	return c
}

// TablePath returns the data file path for a table.
func (c *Codec) TablePath(table string) string {
	name := table + Ext
	if c.prepend {
		name = c.database + "." + name
	}
	return filepath.Join(c.datapath, name)
}

// Empty reports whether the table's data file is absent or holds no bytes.
func (c *Codec) Empty(table string) bool {
	fi, err := os.Stat(c.TablePath(table))
	return err != nil || fi.Size() == 0
}

// Decode reads all records of a table. An absent or zero-length data file
// yields an empty set, not an error.
//
// No validation against the table's declared column count happens here; a
// raw row may carry fewer or extra fields than the schema declares.
func (c *Codec) Decode(table string) ([]Record, error) {
	raw, err := os.ReadFile(c.TablePath(table))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read table file %s: %w", c.TablePath(table), err)
	}
	if len(raw) == 0 {
		return nil, nil
	}

	rows := bytes.Split(raw, []byte{c.row})
	// The segment after the last row terminator is a trailing artifact
	// (normally just the final line feed).
	rows = rows[:len(rows)-1]

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		line := strings.TrimLeft(string(row), " \t\r\n")
		records = append(records, strings.Split(line, string(c.unit)))
	}
	return records, nil
}

// Encode replaces the table's data file with the given record set. The
// file is truncated and fully rewritten, never appended.
func (c *Codec) Encode(table string, records []Record) error {
	path := c.TablePath(table)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create table file %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	w := bufio.NewWriter(f)
	for _, rec := range records {
		row := c.stripEscapes(strings.Join(rec, string(c.unit)))
		if _, err := w.WriteString(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
		if _, err := w.Write([]byte{c.row, '\n'}); err != nil {
			return fmt.Errorf("failed to write row terminator: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush table file %s: %w", path, err)
	}
	return nil
}

// stripEscapes removes a backslash directly preceding a delimiter byte, an
// artifact of the historical input path.
func (c *Codec) stripEscapes(row string) string {
	row = strings.ReplaceAll(row, `\`+string(c.unit), string(c.unit))
	return strings.ReplaceAll(row, `\`+string(c.row), string(c.row))
}
