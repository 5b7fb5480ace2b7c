// Package dtfdb is a minimal file-backed record store: a schema-defined
// set of tables, each persisted as a delimited text file, queried through
// a small relational-like interface with equality/regex criteria and
// single-column natural-order sort.
//
// All stored values are text. Every operation is a complete, independent
// read/compute/write-back cycle; mutations rewrite the whole table file.
// There is no locking of the underlying files: the store assumes exclusive
// single-writer access per process, and concurrent external writers can
// corrupt results.
package dtfdb

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/dtfdb/dtfdb/dtf"
	"github.com/dtfdb/dtfdb/history"
	"github.com/dtfdb/dtfdb/schema"
)

// Row is one result record, keyed by the requested column names.
type Row map[string]string

// Options configures a database at open. The zero value enables schema
// caching (when a Cache is supplied), standard delimiters, and plain
// table filenames.
type Options struct {
	// PrependDatabaseName prefixes table data filenames with
	// "<database>.".
	PrependDatabaseName bool

	// NoCache skips the schema-cache read at open. A cold parse still
	// refreshes the cache unconditionally.
	NoCache bool

	// LegacyDelimiters swaps the delimiter pair for files written by old
	// encoders.
	LegacyDelimiters bool

	// Cache is the schema-cache collaborator. Nil disables caching
	// entirely.
	Cache schema.Cache

	// TrackHistory commits every successful table rewrite to a git
	// repository rooted at the datapath.
	TrackHistory bool

	// Logger defaults to slog.Default.
	Logger *slog.Logger
}

// DB is an open database. The schema model is read-only shared state
// after construction; query operations never mutate it. DB is safe for
// concurrent readers, but concurrent mutations of the same table race on
// the underlying file.
type DB struct {
	datapath string
	database string
	opts     Options
	codec    *dtf.Codec
	log      *slog.Logger
	hist     *history.Tracker

	mu  sync.RWMutex // guards sch, swapped by Watch reloads
	sch *schema.Schema
}

// Open loads the schema model for the named database under datapath.
//
// The schema comes from the cache when one is configured and NoCache is
// unset; otherwise it is parsed from the schema definition file, and the
// parse result always refreshes the cache. A missing or empty schema file
// fails with [CodeDatabaseNotFound].
func Open(datapath, database string, opts *Options) (*DB, error) {
	o := Options{}
	if opts != nil {
		o = *opts
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}

	db := &DB{
		datapath: datapath,
		database: database,
		opts:     o,
		codec:    dtf.New(datapath, database, o.PrependDatabaseName, o.LegacyDelimiters),
		log:      o.Logger,
	}

	key := schema.CacheKey(datapath, database)
	if o.Cache != nil && !o.NoCache {
		s, err := o.Cache.Get(key)
		if err != nil {
			db.log.Warn("schema cache read failed", "key", key, "err", err)
		}
		db.sch = s
	}
	if db.sch == nil {
		s, err := schema.Load(datapath, database)
		if err != nil {
			if errors.Is(err, schema.ErrFileMissing) || errors.Is(err, schema.ErrFileEmpty) {
				return nil, errDatabaseNotFound(database, err)
			}
			return nil, fmt.Errorf("failed to load schema for %s: %w", database, err)
		}
		db.sch = s
		// The cache is refreshed on every cold parse, even with NoCache.
		if o.Cache != nil {
			if err := o.Cache.Put(key, s); err != nil {
				db.log.Warn("schema cache write failed", "key", key, "err", err)
			}
		}
	}

	if o.TrackHistory {
		hist, err := history.New(datapath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize history tracking: %w", err)
		}
		db.hist = hist
	}
	return db, nil
}

// ListTables returns the table names in schema declaration order.
func (db *DB) ListTables() []string {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.sch.Names()
}

// TableSchema returns the table's columns, key first, in declaration
// order.
func (db *DB) TableSchema(table string) ([]string, error) {
	t, err := db.resolveTable(table)
	if err != nil {
		return nil, err
	}
	return t.Columns, nil
}

// PrimaryKey returns the table's primary-key column name.
func (db *DB) PrimaryKey(table string) (string, error) {
	t, err := db.resolveTable(table)
	if err != nil {
		return "", err
	}
	return t.Key, nil
}

// Table returns a copy of the table's schema model.
func (db *DB) Table(table string) (*schema.Table, error) {
	return db.resolveTable(table)
}

// resolveTable validates the table name and returns a clone of its schema
// entry, detached from the live model.
func (db *DB) resolveTable(table string) (*schema.Table, error) {
	if strings.TrimSpace(table) == "" {
		return nil, errMissingTableParam()
	}
	db.mu.RLock()
	t := db.sch.Find(table)
	db.mu.RUnlock()
	if t == nil {
		return nil, errTableNotFound(table)
	}
	return t.Clone(), nil
}

// canonicalKey normalizes a key value for comparison: integer-parseable
// text reduces to its canonical decimal form, anything else compares as
// trimmed text.
func canonicalKey(v string) string {
	v = strings.TrimSpace(v)
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return strconv.FormatInt(n, 10)
	}
	return v
}

// maxKey returns the largest numeric key among records. Keys that do not
// parse as integers are ignored.
func maxKey(records []dtf.Record, keyPos int) int64 {
	var maxK int64
	for _, rec := range records {
		if n, err := strconv.ParseInt(strings.TrimSpace(rec.Field(keyPos)), 10, 64); err == nil && n > maxK {
			maxK = n
		}
	}
	return maxK
}

// autoKeyBound is the largest assignable automatic key.
const autoKeyBound = math.MaxInt64
