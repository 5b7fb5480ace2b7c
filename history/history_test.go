package history

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	gogit "github.com/go-git/go-git/v5"
)

func TestTracker(t *testing.T) {
	ctx := context.Background()

	t.Run("commits a changed file", func(t *testing.T) {
		dir := t.TempDir()
		tr, err := New(dir)
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		if err := os.WriteFile(filepath.Join(dir, "things.dtf"), []byte("data"), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := tr.Commit(ctx, "insert things", "things.dtf"); err != nil {
			t.Fatalf("Commit failed: %v", err)
		}

		repo, err := gogit.PlainOpen(dir)
		if err != nil {
			t.Fatal(err)
		}
		head, err := repo.Head()
		if err != nil {
			t.Fatalf("Head failed: %v", err)
		}
		commit, err := repo.CommitObject(head.Hash())
		if err != nil {
			t.Fatal(err)
		}
		if commit.Message != "insert things" {
			t.Errorf("commit message = %q, want %q", commit.Message, "insert things")
		}
	})

	t.Run("no changes is a no-op", func(t *testing.T) {
		dir := t.TempDir()
		tr, err := New(dir)
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		if err := os.WriteFile(filepath.Join(dir, "things.dtf"), []byte("data"), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := tr.Commit(ctx, "first", "things.dtf"); err != nil {
			t.Fatal(err)
		}
		if err := tr.Commit(ctx, "second", "things.dtf"); err != nil {
			t.Fatalf("Commit failed: %v", err)
		}

		repo, err := gogit.PlainOpen(dir)
		if err != nil {
			t.Fatal(err)
		}
		head, err := repo.Head()
		if err != nil {
			t.Fatal(err)
		}
		commit, err := repo.CommitObject(head.Hash())
		if err != nil {
			t.Fatal(err)
		}
		if commit.Message != "first" {
			t.Errorf("commit message = %q, want %q", commit.Message, "first")
		}
	})

	t.Run("reopens an existing repository", func(t *testing.T) {
		dir := t.TempDir()
		if _, err := New(dir); err != nil {
			t.Fatalf("New failed: %v", err)
		}
		if _, err := New(dir); err != nil {
			t.Fatalf("New on existing repo failed: %v", err)
		}
	})
}
