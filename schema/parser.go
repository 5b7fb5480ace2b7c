package schema

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Ext is the conventional schema definition file extension.
const Ext = ".dbd"

var (
	// ErrFileMissing is returned when the schema definition file cannot
	// be opened.
	ErrFileMissing = errors.New("schema definition file missing")
	// ErrFileEmpty is returned when the schema definition file contains
	// no lines.
	ErrFileEmpty = errors.New("schema definition file empty")
)

// FilePath returns the path of the schema definition file for a database.
func FilePath(datapath, database string) string {
	return filepath.Join(datapath, database+Ext)
}

// Load opens and parses the schema definition file for a database.
func Load(datapath, database string) (*Schema, error) {
	f, err := os.Open(FilePath(datapath, database))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileMissing, err)
	}
	defer func() {
		_ = f.Close()
	}()
	return Parse(f)
}

// Parse reads a schema definition from r.
//
// Column order is preserved as declared, key or not. A `**` line closes
// the current table and starts a new, empty one; the trailing empty table
// is kept in Tables as a transient artifact and filtered by [Schema.Names]
// and [Schema.Find].
func Parse(r io.Reader) (*Schema, error) {
	s := &Schema{}
	cur := &Table{}
	s.Tables = append(s.Tables, cur)

	lines := 0
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		lines++
		if strings.TrimSpace(line) == "**" {
			cur = &Table{}
			s.Tables = append(s.Tables, cur)
			continue
		}
		if len(line) < 4 {
			continue
		}
		val := strings.TrimSpace(line[3:])
		switch line[:3] {
		case "TAB":
			cur.Name = val
		case "KEY":
			cur.Key = val
			cur.Columns = append(cur.Columns, val)
		case "COL":
			cur.Columns = append(cur.Columns, val)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read schema definition: %w", err)
	}
	if lines == 0 {
		return nil, ErrFileEmpty
	}
	return s, nil
}
