package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chynybekuuludastan/content_mapper/internal/logging"
	"github.com/chynybekuuludastan/content_mapper/internal/models"
	"github.com/chynybekuuludastan/content_mapper/internal/storage/images"
)

func TestSessionDiscardsStaleResult(t *testing.T) {
	store := images.NewMemoryStore()
	workspaces := NewWorkspaces(store, WorkspaceOptions{Logger: logging.NopLogger{}})
	session := workspaces.Get("s1")
	ctx := context.Background()

	slowImage, _ := store.Put(ctx, []byte("a"), "image/png", "a.png")
	slow := session.Begin()

	fastImage, _ := store.Put(ctx, []byte("b"), "image/png", "b.png")
	fast := session.Begin()

	fastResult := &models.AnalysisResult{PageType: "fast"}
	if err := session.Commit(ctx, fast, fastResult, fastImage); err != nil {
		t.Fatalf("commit latest: %v", err)
	}

	err := session.Commit(ctx, slow, &models.AnalysisResult{PageType: "slow"}, slowImage)
	if !errors.Is(err, ErrSuperseded) {
		t.Fatalf("expected ErrSuperseded, got %v", err)
	}
	if session.Current() != fastResult {
		t.Error("stale result overwrote the latest one")
	}
	if _, _, err := store.Open(ctx, slowImage.ID); !errors.Is(err, images.ErrNotFound) {
		t.Error("stale image should be released")
	}
	if _, _, err := store.Open(ctx, fastImage.ID); err != nil {
		t.Errorf("current image released too early: %v", err)
	}
}

func TestSessionReleasesSupersededImage(t *testing.T) {
	store := images.NewMemoryStore()
	workspaces := NewWorkspaces(store, WorkspaceOptions{Logger: logging.NopLogger{}})
	session := workspaces.Get("s1")
	ctx := context.Background()

	first, _ := store.Put(ctx, []byte("a"), "image/png", "a.png")
	session.Commit(ctx, session.Begin(), &models.AnalysisResult{}, first)

	second, _ := store.Put(ctx, []byte("b"), "image/png", "b.png")
	session.Commit(ctx, session.Begin(), &models.AnalysisResult{}, second)

	if store.Len() != 1 {
		t.Errorf("expected only the current image to be held, got %d", store.Len())
	}

	workspaces.Close(ctx, "s1")
	if store.Len() != 0 || workspaces.Len() != 0 {
		t.Errorf("close did not release: images=%d sessions=%d", store.Len(), workspaces.Len())
	}
}

// fakeClock drives session timestamps in tests
type fakeClock struct {
	at time.Time
}

func (c *fakeClock) now() time.Time { return c.at }

func newTestWorkspaces(store images.Store, opts WorkspaceOptions) (*Workspaces, *fakeClock) {
	opts.Logger = logging.NopLogger{}
	workspaces := NewWorkspaces(store, opts)
	clock := &fakeClock{at: time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)}
	workspaces.now = clock.now
	return workspaces, clock
}

func commitImage(t *testing.T, store images.Store, session *Session) images.Handle {
	t.Helper()
	ctx := context.Background()
	handle, err := store.Put(ctx, []byte("png"), "image/png", "shot.png")
	if err != nil {
		t.Fatal(err)
	}
	if err := session.Commit(ctx, session.Begin(), &models.AnalysisResult{}, handle); err != nil {
		t.Fatal(err)
	}
	return handle
}

func TestSweepClosesIdleSessions(t *testing.T) {
	store := images.NewMemoryStore()
	workspaces, clock := newTestWorkspaces(store, WorkspaceOptions{IdleTTL: time.Hour})
	ctx := context.Background()

	idle := workspaces.Get("idle")
	idleImage := commitImage(t, store, idle)
	connected := workspaces.Attach("connected")
	commitImage(t, store, connected)

	clock.at = clock.at.Add(30 * time.Minute)
	fresh := workspaces.Get("fresh")
	commitImage(t, store, fresh)

	clock.at = clock.at.Add(45 * time.Minute)
	if n := workspaces.Sweep(ctx); n != 1 {
		t.Fatalf("expected 1 session swept, got %d", n)
	}

	if _, ok := workspaces.Lookup("idle"); ok {
		t.Error("idle session still registered")
	}
	if _, ok := workspaces.Lookup("connected"); !ok {
		t.Error("session with an open connection was swept")
	}
	if _, ok := workspaces.Lookup("fresh"); !ok {
		t.Error("recently used session was swept")
	}
	if _, _, err := store.Open(ctx, idleImage.ID); !errors.Is(err, images.ErrNotFound) {
		t.Error("swept session kept its image")
	}
	if store.Len() != 2 {
		t.Errorf("expected 2 images held, got %d", store.Len())
	}
}

func TestMaxSessionsEvictsLeastRecentlyUsed(t *testing.T) {
	store := images.NewMemoryStore()
	workspaces, clock := newTestWorkspaces(store, WorkspaceOptions{MaxSessions: 2})
	ctx := context.Background()

	oldest := commitImage(t, store, workspaces.Get("a"))
	clock.at = clock.at.Add(time.Minute)
	commitImage(t, store, workspaces.Get("b"))
	clock.at = clock.at.Add(time.Minute)
	commitImage(t, store, workspaces.Get("c"))

	if workspaces.Len() != 2 {
		t.Fatalf("expected 2 sessions, got %d", workspaces.Len())
	}
	if _, ok := workspaces.Lookup("a"); ok {
		t.Error("least recently used session not evicted")
	}
	if _, _, err := store.Open(ctx, oldest.ID); !errors.Is(err, images.ErrNotFound) {
		t.Error("evicted session kept its image")
	}
}

func TestMaxSessionsKeepsConnectedSessions(t *testing.T) {
	store := images.NewMemoryStore()
	workspaces, clock := newTestWorkspaces(store, WorkspaceOptions{MaxSessions: 2})

	workspaces.Attach("a")
	clock.at = clock.at.Add(time.Minute)
	workspaces.Get("b")
	clock.at = clock.at.Add(time.Minute)
	workspaces.Get("c")

	if _, ok := workspaces.Lookup("a"); !ok {
		t.Error("connected session evicted")
	}
	if _, ok := workspaces.Lookup("b"); ok {
		t.Error("expected the unconnected session to be evicted")
	}
}

func TestDetachClosesLastConnection(t *testing.T) {
	store := images.NewMemoryStore()
	workspaces, _ := newTestWorkspaces(store, WorkspaceOptions{})
	ctx := context.Background()

	session := workspaces.Attach("s1")
	workspaces.Attach("s1")
	commitImage(t, store, session)

	workspaces.Detach(ctx, "s1")
	if _, ok := workspaces.Lookup("s1"); !ok {
		t.Fatal("session closed while a connection remains")
	}

	workspaces.Detach(ctx, "s1")
	if workspaces.Len() != 0 || store.Len() != 0 {
		t.Errorf("detach did not release: sessions=%d images=%d", workspaces.Len(), store.Len())
	}
}

func TestLookupDoesNotCreate(t *testing.T) {
	workspaces, _ := newTestWorkspaces(images.NewMemoryStore(), WorkspaceOptions{})

	if _, ok := workspaces.Lookup("missing"); ok {
		t.Error("lookup found a session that was never created")
	}
	if workspaces.Len() != 0 {
		t.Errorf("lookup inserted a session, len=%d", workspaces.Len())
	}
}

func TestCommitAfterCloseReleasesImages(t *testing.T) {
	store := images.NewMemoryStore()
	workspaces, _ := newTestWorkspaces(store, WorkspaceOptions{})
	ctx := context.Background()

	session := workspaces.Get("s1")
	gen := session.Begin()
	handle, _ := store.Put(ctx, []byte("a"), "image/png", "a.png")

	workspaces.Close(ctx, "s1")
	if err := session.Commit(ctx, gen, &models.AnalysisResult{}, handle); !errors.Is(err, ErrSuperseded) {
		t.Fatalf("expected ErrSuperseded, got %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("late commit leaked %d images", store.Len())
	}
	if session.Current() != nil {
		t.Error("closed session accepted a result")
	}
}
