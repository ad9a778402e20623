package backend

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/vango-dev/todoview/pkg/todo"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "todos.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreSeedOnce(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	seeded, err := store.Seed(ctx, SeedRecords)
	if err != nil || !seeded {
		t.Fatalf("Seed() = %v, %v", seeded, err)
	}
	seeded, err = store.Seed(ctx, []todo.Record{{ID: 99, Text: "extra"}})
	if err != nil || seeded {
		t.Fatalf("second Seed() = %v, %v; want false, nil", seeded, err)
	}

	records, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(records) != len(SeedRecords) {
		t.Fatalf("got %d records, want %d", len(records), len(SeedRecords))
	}
	for i, r := range records {
		if r != SeedRecords[i] {
			t.Errorf("record %d = %+v, want %+v", i, r, SeedRecords[i])
		}
	}
	if n := todo.Remaining(records); n != 5 {
		t.Errorf("seed has %d open items, want 5", n)
	}
}

func TestStoreToggle(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	if _, err := store.Seed(ctx, []todo.Record{{ID: 3, Text: "x"}}); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}

	rec, err := store.Toggle(ctx, 3)
	if err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	if !rec.Completed || rec.Text != "x" {
		t.Errorf("unexpected record %+v", rec)
	}

	rec, err = store.Toggle(ctx, 3)
	if err != nil || rec.Completed {
		t.Errorf("second toggle = %+v, %v", rec, err)
	}

	if _, err := store.Toggle(ctx, 42); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStoreEmptyList(t *testing.T) {
	store := openTestStore(t)
	records, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if records == nil || len(records) != 0 {
		t.Errorf("expected empty non-nil list, got %#v", records)
	}
}
