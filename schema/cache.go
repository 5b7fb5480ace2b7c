package schema

import "path/filepath"

// Cache is the schema-cache collaborator consulted at database open.
//
// Get returns the cached schema for a key, or nil when absent. Put stores
// or replaces the entry. Invalidation and eviction policy belong to the
// implementation; the engine only reads conditionally and always refreshes
// after a cold parse.
type Cache interface {
	Get(key string) (*Schema, error)
	Put(key string, s *Schema) error
}

// CacheKey derives the cache key for a database from its datapath and name.
func CacheKey(datapath, database string) string {
	return filepath.Join(filepath.Clean(datapath), database)
}
