package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/assignhub/assignment-portal/internal/core/domain"
)

func newTestStore(t *testing.T, ttl time.Duration) *FileStore {
	t.Helper()
	store, err := NewFileStore(t.TempDir(), ttl)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return store
}

func TestFileStore_SaveAndFind(t *testing.T) {
	store := newTestStore(t, time.Hour)

	session := &domain.Session{
		ID:          "abc-123",
		PrincipalID: "principal-1",
		Kind:        domain.KindUser,
		CreatedAt:   time.Now().UTC(),
	}
	if err := store.Save(context.Background(), session); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got, err := store.Find(context.Background(), "abc-123")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if got.PrincipalID != "principal-1" || got.Kind != domain.KindUser {
		t.Fatalf("unexpected session: %+v", got)
	}
}

func TestFileStore_Find_Unknown(t *testing.T) {
	store := newTestStore(t, time.Hour)

	if _, err := store.Find(context.Background(), "nope"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestFileStore_Find_Expired(t *testing.T) {
	store := newTestStore(t, time.Minute)

	session := &domain.Session{
		ID:          "old",
		PrincipalID: "principal-1",
		Kind:        domain.KindUser,
		CreatedAt:   time.Now().Add(-2 * time.Minute),
	}
	if err := store.Save(context.Background(), session); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if _, err := store.Find(context.Background(), "old"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected expired session to read as absent, got %v", err)
	}
	// Lazy expiry removes the backing file too.
	if _, err := os.Stat(filepath.Join(store.dir, "old.json")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected expired file to be removed, stat err: %v", err)
	}
}

func TestFileStore_Delete(t *testing.T) {
	store := newTestStore(t, time.Hour)

	session := &domain.Session{ID: "gone", PrincipalID: "p", Kind: domain.KindAdmin, CreatedAt: time.Now().UTC()}
	if err := store.Save(context.Background(), session); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	existed, err := store.Delete(context.Background(), "gone")
	if err != nil || !existed {
		t.Fatalf("first delete: existed=%v err=%v", existed, err)
	}
	existed, err = store.Delete(context.Background(), "gone")
	if err != nil || existed {
		t.Fatalf("second delete: existed=%v err=%v", existed, err)
	}
}

func TestFileStore_PathTraversalID(t *testing.T) {
	store := newTestStore(t, time.Hour)

	session := &domain.Session{ID: "../escape", PrincipalID: "p", Kind: domain.KindUser, CreatedAt: time.Now().UTC()}
	if err := store.Save(context.Background(), session); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	entries, err := os.ReadDir(store.dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected session file inside the store dir, found %d entries", len(entries))
	}
	if _, err := store.Find(context.Background(), "../escape"); err != nil {
		t.Fatalf("find with same id failed: %v", err)
	}
}

func TestJanitor_Sweep(t *testing.T) {
	store := newTestStore(t, time.Minute)

	fresh := &domain.Session{ID: "fresh", PrincipalID: "p", Kind: domain.KindUser, CreatedAt: time.Now().UTC()}
	stale := &domain.Session{ID: "stale", PrincipalID: "p", Kind: domain.KindUser, CreatedAt: time.Now().Add(-time.Hour)}
	for _, s := range []*domain.Session{fresh, stale} {
		if err := store.Save(context.Background(), s); err != nil {
			t.Fatalf("save %s: %v", s.ID, err)
		}
	}
	// A corrupt file counts as expired.
	if err := os.WriteFile(filepath.Join(store.dir, "junk.json"), []byte("not json"), 0o600); err != nil {
		t.Fatalf("write junk: %v", err)
	}

	janitor := NewJanitor(store, time.Minute, zerolog.Nop())
	removed, err := janitor.Sweep()
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 removals, got %d", removed)
	}

	if _, err := store.Find(context.Background(), "fresh"); err != nil {
		t.Fatalf("fresh session gone after sweep: %v", err)
	}
	if _, err := store.Find(context.Background(), "stale"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("stale session survived sweep: %v", err)
	}
}

func TestJanitor_Sweep_NoTTL(t *testing.T) {
	store := newTestStore(t, 0)

	old := &domain.Session{ID: "old", PrincipalID: "p", Kind: domain.KindUser, CreatedAt: time.Now().Add(-24 * time.Hour)}
	if err := store.Save(context.Background(), old); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	janitor := NewJanitor(store, time.Minute, zerolog.Nop())
	removed, err := janitor.Sweep()
	if err != nil || removed != 0 {
		t.Fatalf("expected no-op sweep with expiry disabled, removed=%d err=%v", removed, err)
	}
}
