package analysis

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/chynybekuuludastan/content_mapper/internal/logging"
	"github.com/chynybekuuludastan/content_mapper/internal/models"
	"github.com/chynybekuuludastan/content_mapper/internal/storage/images"
)

// ErrSuperseded is returned when a newer analysis started in the same
// session before this one completed
var ErrSuperseded = errors.New("analysis superseded by a newer request")

// Defaults for WorkspaceOptions
const (
	DefaultSessionIdleTTL = time.Hour
	DefaultMaxSessions    = 1000
)

// Session is the server-side view of one client workspace. It owns the
// images backing the current result and a generation counter that lets
// late responses be discarded.
type Session struct {
	mu         sync.Mutex
	generation uint64
	current    *models.AnalysisResult
	handles    []images.Handle
	closed     bool
	lastUsed   time.Time
	images     images.Store
	logger     logging.Logger
	now        func() time.Time

	// Open websocket connections, guarded by Workspaces.mu
	conns int
}

func (s *Session) touchLocked() {
	s.lastUsed = s.now()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

// Begin starts a new analysis and returns its generation
func (s *Session) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	s.touchLocked()
	return s.generation
}

// Generation returns the latest generation handed out
func (s *Session) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// Commit installs result if gen is still the latest generation and the
// session is open. The images of the previous result are released; on
// ErrSuperseded the given handles are released instead.
func (s *Session) Commit(ctx context.Context, gen uint64, result *models.AnalysisResult, handles ...images.Handle) error {
	s.mu.Lock()
	if s.closed || gen != s.generation {
		s.mu.Unlock()
		s.release(ctx, handles)
		return ErrSuperseded
	}

	previous := s.handles
	s.current = result
	s.handles = handles
	s.touchLocked()
	s.mu.Unlock()

	s.release(ctx, previous)
	return nil
}

// Discard releases images of an analysis that will not be committed
func (s *Session) Discard(ctx context.Context, handles ...images.Handle) {
	s.release(ctx, handles)
}

// Current returns the last committed result
func (s *Session) Current() *models.AnalysisResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Close releases everything the session holds. In-flight analyses are
// invalidated and later commits fail with ErrSuperseded.
func (s *Session) Close(ctx context.Context) {
	s.mu.Lock()
	s.generation++
	s.closed = true
	held := s.handles
	s.handles = nil
	s.current = nil
	s.mu.Unlock()

	s.release(ctx, held)
}

func (s *Session) release(ctx context.Context, handles []images.Handle) {
	if s.images == nil {
		return
	}
	for _, h := range handles {
		if err := s.images.Release(ctx, h.ID); err != nil {
			s.logger.Warn("Failed to release image", "image", h.ID, "error", err)
		}
	}
}

// WorkspaceOptions bounds how long and how many sessions are kept
type WorkspaceOptions struct {
	// IdleTTL closes sessions without a connection after this long unused
	IdleTTL time.Duration
	// MaxSessions evicts the least recently used unconnected session
	MaxSessions int
	Logger      logging.Logger
}

// Workspaces maps session ids to sessions. Sessions with an open websocket
// are kept; the rest are closed when idle past IdleTTL or when the registry
// is full.
type Workspaces struct {
	mu          sync.Mutex
	sessions    map[string]*Session
	images      images.Store
	idleTTL     time.Duration
	maxSessions int
	logger      logging.Logger
	now         func() time.Time
}

// NewWorkspaces creates an empty registry
func NewWorkspaces(store images.Store, opts WorkspaceOptions) *Workspaces {
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = DefaultSessionIdleTTL
	}
	if opts.MaxSessions <= 0 {
		opts.MaxSessions = DefaultMaxSessions
	}
	if opts.Logger == nil {
		opts.Logger = &logging.DefaultLogger{}
	}
	return &Workspaces{
		sessions:    make(map[string]*Session),
		images:      store,
		idleTTL:     opts.IdleTTL,
		maxSessions: opts.MaxSessions,
		logger:      opts.Logger,
		now:         time.Now,
	}
}

// Get returns the session for id, creating it on first use
func (w *Workspaces) Get(id string) *Session {
	return w.acquire(id, false)
}

func (w *Workspaces) acquire(id string, connect bool) *Session {
	w.mu.Lock()
	session, ok := w.sessions[id]
	var evicted *Session
	if !ok {
		evicted = w.evictLocked()
		session = &Session{images: w.images, logger: w.logger, now: w.now}
		w.sessions[id] = session
	}
	if connect {
		session.conns++
	}
	w.mu.Unlock()

	session.mu.Lock()
	session.touchLocked()
	session.mu.Unlock()

	if evicted != nil {
		evicted.Close(context.Background())
	}
	return session
}

// Lookup returns the session for id without creating one
func (w *Workspaces) Lookup(id string) (*Session, bool) {
	w.mu.Lock()
	session, ok := w.sessions[id]
	w.mu.Unlock()
	if !ok {
		return nil, false
	}

	session.mu.Lock()
	session.touchLocked()
	session.mu.Unlock()
	return session, true
}

// evictLocked makes room for one more session by removing the least
// recently used one without connections. Callers hold mu and close the
// returned session after unlocking.
func (w *Workspaces) evictLocked() *Session {
	if len(w.sessions) < w.maxSessions {
		return nil
	}

	var (
		oldestID string
		oldest   *Session
		at       time.Time
	)
	for id, session := range w.sessions {
		if session.conns > 0 {
			continue
		}
		used := session.idleSince()
		if oldest == nil || used.Before(at) {
			oldestID, oldest, at = id, session, used
		}
	}
	if oldest != nil {
		delete(w.sessions, oldestID)
		w.logger.Debug("Workspace evicted", "session", oldestID)
	}
	return oldest
}

// Attach returns the session for id and marks one more open connection
func (w *Workspaces) Attach(id string) *Session {
	return w.acquire(id, true)
}

// Detach drops one connection; the session is closed when none remain
func (w *Workspaces) Detach(ctx context.Context, id string) {
	w.mu.Lock()
	session, ok := w.sessions[id]
	if !ok {
		w.mu.Unlock()
		return
	}
	if session.conns > 0 {
		session.conns--
	}
	if session.conns > 0 {
		w.mu.Unlock()
		return
	}
	delete(w.sessions, id)
	w.mu.Unlock()

	session.Close(ctx)
	w.logger.Debug("Workspace closed", "session", id)
}

// Close releases and forgets the session
func (w *Workspaces) Close(ctx context.Context, id string) {
	w.mu.Lock()
	session, ok := w.sessions[id]
	delete(w.sessions, id)
	w.mu.Unlock()

	if ok {
		session.Close(ctx)
		w.logger.Debug("Workspace closed", "session", id)
	}
}

// Sweep closes unconnected sessions idle longer than IdleTTL and reports
// how many were closed
func (w *Workspaces) Sweep(ctx context.Context) int {
	cutoff := w.now().Add(-w.idleTTL)

	w.mu.Lock()
	var idle []*Session
	for id, session := range w.sessions {
		if session.conns == 0 && session.idleSince().Before(cutoff) {
			idle = append(idle, session)
			delete(w.sessions, id)
		}
	}
	w.mu.Unlock()

	for _, session := range idle {
		session.Close(ctx)
	}
	if len(idle) > 0 {
		w.logger.Debug("Idle workspaces closed", "count", len(idle))
	}
	return len(idle)
}

// Run sweeps idle sessions every interval until ctx is done
func (w *Workspaces) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Sweep(ctx)
		}
	}
}

// Len reports the number of open sessions
func (w *Workspaces) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.sessions)
}
