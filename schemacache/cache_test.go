package schemacache

import (
	"path/filepath"
	"slices"
	"testing"

	"github.com/dtfdb/dtfdb/schema"
)

func testSchema() *schema.Schema {
	return &schema.Schema{Tables: []*schema.Table{
		{Name: "elementary", Columns: []string{"id", "name", "date"}, Key: "id"},
	}}
}

func TestMemory(t *testing.T) {
	t.Run("miss returns nil", func(t *testing.T) {
		m := NewMemory()
		s, err := m.Get("absent")
		if err != nil || s != nil {
			t.Errorf("Get = %v, %v, want nil, nil", s, err)
		}
	})

	t.Run("put then get", func(t *testing.T) {
		m := NewMemory()
		if err := m.Put("k", testSchema()); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		s, err := m.Get("k")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if s == nil || s.Find("elementary") == nil {
			t.Errorf("Get = %v, want cached schema", s)
		}
	})

	t.Run("entries are detached copies", func(t *testing.T) {
		m := NewMemory()
		orig := testSchema()
		if err := m.Put("k", orig); err != nil {
			t.Fatal(err)
		}
		orig.Tables[0].Columns[0] = "mutated"
		s, err := m.Get("k")
		if err != nil {
			t.Fatal(err)
		}
		if s.Tables[0].Columns[0] != "id" {
			t.Error("cache shares storage with the caller")
		}
		s.Tables[0].Columns[0] = "mutated"
		again, err := m.Get("k")
		if err != nil {
			t.Fatal(err)
		}
		if again.Tables[0].Columns[0] != "id" {
			t.Error("returned schema shares storage with the cache")
		}
	})
}

func TestSQLite(t *testing.T) {
	t.Run("miss returns nil", func(t *testing.T) {
		c, err := OpenSQLite(filepath.Join(t.TempDir(), "cache.db"))
		if err != nil {
			t.Fatalf("OpenSQLite failed: %v", err)
		}
		defer func() { _ = c.Close() }()
		s, err := c.Get("absent")
		if err != nil || s != nil {
			t.Errorf("Get = %v, %v, want nil, nil", s, err)
		}
	})

	t.Run("survives reopen", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cache.db")
		c, err := OpenSQLite(path)
		if err != nil {
			t.Fatalf("OpenSQLite failed: %v", err)
		}
		if err := c.Put("k", testSchema()); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		if err := c.Close(); err != nil {
			t.Fatal(err)
		}

		c, err = OpenSQLite(path)
		if err != nil {
			t.Fatalf("OpenSQLite reopen failed: %v", err)
		}
		defer func() { _ = c.Close() }()
		s, err := c.Get("k")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if s == nil || s.Find("elementary") == nil {
			t.Fatalf("Get = %v, want cached schema", s)
		}
		if got := s.Find("elementary").Columns; !slices.Equal(got, []string{"id", "name", "date"}) {
			t.Errorf("Columns = %v", got)
		}
	})

	t.Run("put replaces", func(t *testing.T) {
		c, err := OpenSQLite(filepath.Join(t.TempDir(), "cache.db"))
		if err != nil {
			t.Fatalf("OpenSQLite failed: %v", err)
		}
		defer func() { _ = c.Close() }()
		if err := c.Put("k", testSchema()); err != nil {
			t.Fatal(err)
		}
		repl := &schema.Schema{Tables: []*schema.Table{
			{Name: "cases", Columns: []string{"num"}, Key: "num"},
		}}
		if err := c.Put("k", repl); err != nil {
			t.Fatal(err)
		}
		s, err := c.Get("k")
		if err != nil {
			t.Fatal(err)
		}
		if s.Find("cases") == nil || s.Find("elementary") != nil {
			t.Errorf("Get = %v, want replaced schema", s)
		}
	})
}
