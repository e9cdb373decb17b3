package jsonfile

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/alastify/vufind/internal/core/session"
)

func TestStore_SaveAndGet(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "cookies.json"))
	ctx := context.Background()

	now := time.Now()
	sess := session.Session{
		Host:      "catalog.example.edu",
		Cookies:   []session.Cookie{{Name: "PHPSESSID", Value: "abc"}},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := store.Save(ctx, sess); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.Get(ctx, "catalog.example.edu")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Host != sess.Host {
		t.Errorf("Host = %q, want %q", got.Host, sess.Host)
	}
	if len(got.Cookies) != 1 || got.Cookies[0].Value != "abc" {
		t.Errorf("Cookies = %+v, want one PHPSESSID=abc", got.Cookies)
	}
}

func TestStore_GetNotFound(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "cookies.json"))

	_, err := store.Get(context.Background(), "nowhere.example.edu")
	if !errors.Is(err, session.ErrNotFound) {
		t.Errorf("Get error = %v, want ErrNotFound", err)
	}
}

func TestStore_SavePreservesCreatedAt(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "cookies.json"))
	ctx := context.Background()

	created := time.Now().Add(-time.Hour)
	first := session.Session{Host: "h", CreatedAt: created, UpdatedAt: created}
	if err := store.Save(ctx, first); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	later := time.Now()
	second := session.Session{
		Host:      "h",
		Cookies:   []session.Cookie{{Name: "c", Value: "v"}},
		CreatedAt: later,
		UpdatedAt: later,
	}
	if err := store.Save(ctx, second); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.Get(ctx, "h")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want original %v", got.CreatedAt, created)
	}
	if len(got.Cookies) != 1 {
		t.Errorf("Cookies not updated: %+v", got.Cookies)
	}
}

func TestStore_Delete(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "cookies.json"))
	ctx := context.Background()

	if err := store.Save(ctx, session.Session{Host: "h"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := store.Delete(ctx, "h"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if err := store.Delete(ctx, "h"); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("second Delete error = %v, want ErrNotFound", err)
	}
}

func TestStore_ListEmpty(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "cookies.json"))

	sessions, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("List = %v, want empty", sessions)
	}
}
