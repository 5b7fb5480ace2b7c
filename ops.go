// The four query operations. Each is a complete, independent
// read-(optionally)write-back cycle; no transaction or cursor state is
// carried between calls.

package dtfdb

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dtfdb/dtfdb/dtf"
	"github.com/dtfdb/dtfdb/query"
	"github.com/dtfdb/dtfdb/schema"
)

// Select returns the rows of table matching criteria, ordered by order,
// projected to columns.
//
// columns is a comma-separated list; "*" or blank selects every column in
// schema order. An empty criteria matches all rows; an empty order keeps
// file order. Zero matching rows is not an error. A criteria or order
// column absent from the table is lenient: criteria matches nothing, order
// is a no-op.
func (db *DB) Select(ctx context.Context, table, columns, criteria, order string) ([]Row, error) {
	t, err := db.resolveTable(table)
	if err != nil {
		return nil, err
	}
	records, err := db.codec.Decode(t.Name)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(criteria) != "" {
		crit := query.ParseCriteria(criteria, t.Key)
		matched := crit.Match(records, t.ColumnIndex(crit.Column))
		subset := make([]dtf.Record, 0, len(matched))
		for _, i := range matched {
			subset = append(subset, records[i])
		}
		records = subset
	}

	if strings.TrimSpace(order) != "" {
		o := query.ParseOrder(order)
		query.Sort(records, t.ColumnIndex(o.Column), o.Desc)
	}

	names, indices, err := db.resolveColumns(t, columns)
	if err != nil {
		return nil, err
	}
	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		row := make(Row, len(names))
		for k, ci := range indices {
			row[names[k]] = rec.Field(ci)
		}
		rows = append(rows, row)
	}
	db.log.DebugContext(ctx, "select", "table", t.Name, "rows", len(rows))
	return rows, nil
}

// Insert adds one record to table and returns the key value used.
//
// columns names the supplied value positions ("*" or blank means every
// declared column in order); the value count must match or the insert
// fails with [CodeColumnListMismatch]. When the primary-key column is
// among the supplied columns its value must be unique ([CodeDuplicateKey]);
// when absent, a key one greater than the current numeric maximum is
// assigned (1 on an empty table). Unsupplied columns default to empty
// text.
func (db *DB) Insert(ctx context.Context, table, columns string, values []string) (string, error) {
	t, err := db.resolveTable(table)
	if err != nil {
		return "", err
	}
	records, err := db.codec.Decode(t.Name)
	if err != nil {
		return "", err
	}

	names, indices, err := db.resolveColumns(t, columns)
	if err != nil {
		return "", err
	}
	if len(indices) != len(values) {
		return "", errColumnListMismatch(len(indices), len(values))
	}

	keyPos := t.ColumnIndex(t.Key)
	key := ""
	auto := true
	for k, name := range names {
		if name == t.Key {
			key = canonicalKey(values[k])
			auto = false
			break
		}
	}
	if auto {
		// A new table (absent or empty data file) starts its keys at 1.
		var maxK int64
		if !db.codec.Empty(t.Name) {
			maxK = maxKey(records, keyPos)
		}
		if maxK == autoKeyBound {
			return "", errAutoKeyOverflow(t.Name)
		}
		key = strconv.FormatInt(maxK+1, 10)
	} else {
		for _, rec := range records {
			if canonicalKey(rec.Field(keyPos)) == key {
				return "", errDuplicateKey(key)
			}
		}
	}

	rec := make(dtf.Record, len(t.Columns))
	for k, ci := range indices {
		rec[ci] = values[k]
	}
	if auto && keyPos >= 0 {
		rec[keyPos] = key
	}

	records = append(records, rec)
	if err := db.writeBack(ctx, t, records, "insert"); err != nil {
		return "", err
	}
	db.log.InfoContext(ctx, "insert", "table", t.Name, "key", key)
	return key, nil
}

// Update overwrites the named columns of every row matching criteria with
// the supplied values and returns the count of rows touched. An empty
// criteria targets every row; zero touched rows is not an error.
func (db *DB) Update(ctx context.Context, table, columns string, values []string, criteria string) (int, error) {
	t, err := db.resolveTable(table)
	if err != nil {
		return 0, err
	}
	records, err := db.codec.Decode(t.Name)
	if err != nil {
		return 0, err
	}

	targets := db.targetRows(t, records, criteria)
	_, indices, err := db.resolveColumns(t, columns)
	if err != nil {
		return 0, err
	}
	if len(indices) != len(values) {
		return 0, errColumnListMismatch(len(indices), len(values))
	}

	for _, ri := range targets {
		rec := records[ri]
		// Raw rows may carry fewer fields than the schema declares;
		// widen before assignment.
		if len(rec) < len(t.Columns) {
			widened := make(dtf.Record, len(t.Columns))
			copy(widened, rec)
			rec = widened
		}
		for k, ci := range indices {
			rec[ci] = values[k]
		}
		records[ri] = rec
	}

	if err := db.writeBack(ctx, t, records, "update"); err != nil {
		return 0, err
	}
	db.log.InfoContext(ctx, "update", "table", t.Name, "rows", len(targets))
	return len(targets), nil
}

// Delete removes every row matching criteria, preserving the relative
// order of the remainder, and returns the count removed. An empty
// criteria removes every row.
func (db *DB) Delete(ctx context.Context, table, criteria string) (int, error) {
	t, err := db.resolveTable(table)
	if err != nil {
		return 0, err
	}
	records, err := db.codec.Decode(t.Name)
	if err != nil {
		return 0, err
	}

	targets := db.targetRows(t, records, criteria)
	drop := make(map[int]bool, len(targets))
	for _, ri := range targets {
		drop[ri] = true
	}
	kept := make([]dtf.Record, 0, len(records)-len(targets))
	for i, rec := range records {
		if !drop[i] {
			kept = append(kept, rec)
		}
	}

	if err := db.writeBack(ctx, t, kept, "delete"); err != nil {
		return 0, err
	}
	db.log.InfoContext(ctx, "delete", "table", t.Name, "rows", len(targets))
	return len(targets), nil
}

// targetRows returns the row indices a mutating operation affects: every
// row when criteria is blank, otherwise the matching subset.
func (db *DB) targetRows(t *schema.Table, records []dtf.Record, criteria string) []int {
	if strings.TrimSpace(criteria) == "" {
		all := make([]int, len(records))
		for i := range records {
			all[i] = i
		}
		return all
	}
	crit := query.ParseCriteria(criteria, t.Key)
	return crit.Match(records, t.ColumnIndex(crit.Column))
}

// resolveColumns parses and validates a requested column list against the
// table. A blank or "*" list resolves to every declared column in order.
func (db *DB) resolveColumns(t *schema.Table, columns string) (names []string, indices []int, err error) {
	requested := query.ParseColumns(columns)
	indices, missing := query.Resolve(requested, t.Columns)
	if len(missing) > 0 {
		return nil, nil, errColumnNotFound(t.Name, missing)
	}
	if requested == nil {
		return t.Columns, indices, nil
	}
	return requested, indices, nil
}

// writeBack rewrites the whole table file and, when history tracking is
// enabled, commits the change. The in-memory record set is not durable
// until the rewrite completes.
func (db *DB) writeBack(ctx context.Context, t *schema.Table, records []dtf.Record, op string) error {
	if err := db.codec.Encode(t.Name, records); err != nil {
		return fmt.Errorf("failed to write table %s: %w", t.Name, err)
	}
	if db.hist != nil {
		rel, err := filepath.Rel(db.datapath, db.codec.TablePath(t.Name))
		if err != nil {
			rel = filepath.Base(db.codec.TablePath(t.Name))
		}
		msg := fmt.Sprintf("%s %s", op, t.Name)
		if err := db.hist.Commit(ctx, msg, rel); err != nil {
			db.log.WarnContext(ctx, "history commit failed", "table", t.Name, "err", err)
		}
	}
	return nil
}
