package adapters

import (
	"path/filepath"
	"testing"
)

func newTestSQLiteStorage(t *testing.T) *SQLiteStorageAdapter {
	t.Helper()
	s, err := NewSQLiteStorageAdapter(filepath.Join(t.TempDir(), "pulse.db"))
	if err != nil {
		t.Fatalf("failed to open storage: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStorage_SetGet(t *testing.T) {
	s := newTestSQLiteStorage(t)

	if err := s.Set("auth_token", "tok_abc"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	value, ok, err := s.Get("auth_token")
	if err != nil || !ok || value != "tok_abc" {
		t.Fatalf("expected stored value, got %q ok=%v err=%v", value, ok, err)
	}
}

func TestSQLiteStorage_GetMissing(t *testing.T) {
	s := newTestSQLiteStorage(t)
	_, ok, err := s.Get("missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected missing key")
	}
}

func TestSQLiteStorage_Overwrite(t *testing.T) {
	s := newTestSQLiteStorage(t)
	s.Set("key", "one")
	if err := s.Set("key", "two"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	value, _, _ := s.Get("key")
	if value != "two" {
		t.Fatalf("expected overwritten value, got %q", value)
	}
}

func TestSQLiteStorage_RemoveAndClear(t *testing.T) {
	s := newTestSQLiteStorage(t)
	s.Set("a", "1")
	s.Set("b", "2")

	if err := s.Remove("a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok, _ := s.Get("a"); ok {
		t.Fatal("expected key to be removed")
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok, _ := s.Get("b"); ok {
		t.Fatal("expected storage to be empty after clear")
	}
}

func TestSQLiteStorage_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pulse.db")

	first, err := NewSQLiteStorageAdapter(path)
	if err != nil {
		t.Fatalf("failed to open storage: %v", err)
	}
	if err := first.Set("session_id", "sess_42"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first.Close()

	second, err := NewSQLiteStorageAdapter(path)
	if err != nil {
		t.Fatalf("failed to reopen storage: %v", err)
	}
	defer second.Close()

	value, ok, err := second.Get("session_id")
	if err != nil || !ok || value != "sess_42" {
		t.Fatalf("expected persisted value, got %q ok=%v err=%v", value, ok, err)
	}
}
