// Package schemacache provides schema.Cache implementations: an
// in-process map for single-process use and a SQLite file shared across
// invocations.
package schemacache

import (
	"sync"

	"github.com/dtfdb/dtfdb/schema"
)

// Memory is an in-process schema cache. Safe for concurrent use.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]*schema.Schema
}

// NewMemory creates an empty in-process cache.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]*schema.Schema)}
}

// Get returns a copy of the cached schema, or nil when absent.
func (m *Memory) Get(key string) (*schema.Schema, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.entries[key]
	if !ok {
		return nil, nil
	}
	return s.Clone(), nil
}

// Put stores a copy of the schema, detached from the caller.
func (m *Memory) Put(key string, s *schema.Schema) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = s.Clone()
	return nil
}
