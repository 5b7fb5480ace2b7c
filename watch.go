// Schema hot reload via fsnotify.

package dtfdb

import (
	"context"
	"errors"

	"github.com/dtfdb/dtfdb/schema"
	"github.com/fsnotify/fsnotify"
)

// Watch reloads the schema model whenever the schema definition file is
// rewritten, until ctx is canceled. A reload failure is logged and keeps
// the previous schema. The refreshed schema is also written to the cache
// when one is configured.
func (db *DB) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	path := schema.FilePath(db.datapath, db.database)
	if err := w.Add(path); err != nil {
		_ = w.Close()
		return err
	}
	go func() {
		defer func() { _ = w.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
					db.reloadSchema(ctx)
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				db.log.WarnContext(ctx, "error watching schema file", "path", path, "err", err)
			}
		}
	}()
	return nil
}

func (db *DB) reloadSchema(ctx context.Context) {
	s, err := schema.Load(db.datapath, db.database)
	if err != nil {
		// Editors often truncate before rewriting; keep the last good
		// schema and wait for the next event.
		if !errors.Is(err, schema.ErrFileEmpty) {
			db.log.WarnContext(ctx, "schema reload failed", "database", db.database, "err", err)
		}
		return
	}
	db.mu.Lock()
	db.sch = s
	db.mu.Unlock()
	if db.opts.Cache != nil {
		key := schema.CacheKey(db.datapath, db.database)
		if err := db.opts.Cache.Put(key, s); err != nil {
			db.log.WarnContext(ctx, "schema cache write failed", "key", key, "err", err)
		}
	}
	db.log.InfoContext(ctx, "schema reloaded", "database", db.database, "tables", len(s.Names()))
}
