package jsonfile

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/alastify/vufind/internal/core/history"
)

func TestHistoryStore_SaveNewestFirst(t *testing.T) {
	store := NewHistoryStore(filepath.Join(t.TempDir(), "history.json"), 0)
	ctx := context.Background()

	for i := range 3 {
		err := store.Save(ctx, history.Entry{
			ID:        fmt.Sprintf("id-%d", i),
			Submodule: "Feedback",
			Action:    "Home",
			Timestamp: time.Now(),
		})
		if err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	entries, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("len = %d, want 3", len(entries))
	}
	if entries[0].ID != "id-2" {
		t.Errorf("first entry = %q, want newest id-2", entries[0].ID)
	}
}

func TestHistoryStore_PrunesToMax(t *testing.T) {
	store := NewHistoryStore(filepath.Join(t.TempDir(), "history.json"), 2)
	ctx := context.Background()

	for i := range 5 {
		err := store.Save(ctx, history.Entry{ID: fmt.Sprintf("id-%d", i)})
		if err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	entries, _ := store.List(ctx)
	if len(entries) != 2 {
		t.Fatalf("len = %d, want 2", len(entries))
	}
	if entries[0].ID != "id-4" || entries[1].ID != "id-3" {
		t.Errorf("kept %q and %q, want id-4 and id-3", entries[0].ID, entries[1].ID)
	}
}

func TestHistoryStore_Clear(t *testing.T) {
	store := NewHistoryStore(filepath.Join(t.TempDir(), "history.json"), 0)
	ctx := context.Background()

	if err := store.Save(ctx, history.Entry{ID: "x"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	entries, _ := store.List(ctx)
	if len(entries) != 0 {
		t.Errorf("len = %d, want 0", len(entries))
	}
}
