package store

import (
	"testing"
	"time"

	"sws/internal/errors"
	"sws/internal/logging"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir(), logging.NewNopLogger())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testSession(id, manifestRoot string, createdAt time.Time) *Session {
	return &Session{
		ID:           id,
		Project:      "wallet",
		ManifestRoot: manifestRoot,
		ShadowRoot:   "/tmp/sws-shadow-" + id + "/wallet",
		CreatedAt:    createdAt,
	}
}

func TestRecordAndGet(t *testing.T) {
	s := openTestStore(t)
	created := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)

	if err := s.Record(testSession("a1", "/home/user/wallet", created)); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	got, err := s.Get("a1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Project != "wallet" || got.ManifestRoot != "/home/user/wallet" {
		t.Errorf("Unexpected session: %+v", got)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("Expected created_at %v, got %v", created, got.CreatedAt)
	}
}

func TestGetMissing(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Get("nope")
	if !errors.HasCode(err, errors.SessionNotFound) {
		t.Errorf("Expected SESSION_NOT_FOUND, got %v", err)
	}
}

func TestRecordReplacesExisting(t *testing.T) {
	s := openTestStore(t)
	base := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)

	if err := s.Record(testSession("a1", "/home/user/wallet", base)); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	updated := testSession("a1", "/home/user/wallet-moved", base)
	if err := s.Record(updated); err != nil {
		t.Fatalf("Second Record failed: %v", err)
	}

	got, err := s.Get("a1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.ManifestRoot != "/home/user/wallet-moved" {
		t.Errorf("Expected replacement to win, got %s", got.ManifestRoot)
	}

	all, err := s.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("Expected 1 session after replace, got %d", len(all))
	}
}

func TestFindByManifestRootPicksNewest(t *testing.T) {
	s := openTestStore(t)
	base := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)

	if err := s.Record(testSession("old", "/home/user/wallet", base)); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := s.Record(testSession("new", "/home/user/wallet", base.Add(time.Hour))); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	got, err := s.FindByManifestRoot("/home/user/wallet")
	if err != nil {
		t.Fatalf("FindByManifestRoot failed: %v", err)
	}
	if got.ID != "new" {
		t.Errorf("Expected newest session, got %s", got.ID)
	}

	_, err = s.FindByManifestRoot("/elsewhere")
	if !errors.HasCode(err, errors.SessionNotFound) {
		t.Errorf("Expected SESSION_NOT_FOUND, got %v", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	s := openTestStore(t)
	base := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		if err := s.Record(testSession(id, "/p/"+id, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	all, err := s.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("Expected 3 sessions, got %d", len(all))
	}
	if all[0].ID != "c" || all[2].ID != "a" {
		t.Errorf("Expected newest first, got %s .. %s", all[0].ID, all[2].ID)
	}
}

func TestDelete(t *testing.T) {
	s := openTestStore(t)

	if err := s.Record(testSession("a1", "/p", time.Now().UTC())); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := s.Delete("a1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.Get("a1"); !errors.HasCode(err, errors.SessionNotFound) {
		t.Errorf("Expected SESSION_NOT_FOUND after delete, got %v", err)
	}

	// Deleting a missing row is not an error.
	if err := s.Delete("a1"); err != nil {
		t.Errorf("Second Delete failed: %v", err)
	}
}

func TestReopenKeepsSessions(t *testing.T) {
	dir := t.TempDir()
	logger := logging.NewNopLogger()

	s, err := Open(dir, logger)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := s.Record(testSession("a1", "/p", time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC))); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	s2, err := Open(dir, logger)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer func() { _ = s2.Close() }()

	if _, err := s2.Get("a1"); err != nil {
		t.Errorf("Session lost across reopen: %v", err)
	}
}
