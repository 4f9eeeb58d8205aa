package storage

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/chynybekuuludastan/content_mapper/internal/logging"
	"github.com/chynybekuuludastan/content_mapper/internal/models"
)

// Record keys inside the namespace
const (
	KeyHistory         = "history"
	KeyBrandVoice      = "brand-voice"
	KeyPreferences     = "preferences"
	KeyRecentKeywords  = "recent-keywords"
	KeyRecentAudiences = "recent-audiences"
)

// Caps on the ordered records
const (
	MaxHistory         = 50
	MaxRecentKeywords  = 20
	MaxRecentAudiences = 10
)

// ErrCorrupt marks stored bytes that could not be decoded
var ErrCorrupt = errors.New("stored record is corrupt")

// Read is the outcome of a storage read. Value is always usable: on
// failure it holds the safe default and Err says why.
type Read[T any] struct {
	Value T
	Err   error
}

// Degraded reports whether Value is a fallback rather than stored data
func (r Read[T]) Degraded() bool {
	return r.Err != nil
}

// StoreOptions configures a Store
type StoreOptions struct {
	Namespace string
	Logger    logging.Logger
	Now       func() time.Time
}

// Store is the persistence layer for history, brand voice, preferences and
// recency lists. Read-modify-write sequences are serialised by mu.
type Store struct {
	backend   Backend
	namespace string
	logger    logging.Logger
	now       func() time.Time
	entropy   io.Reader
	mu        sync.Mutex
}

// NewStore creates a store over the given backend
func NewStore(backend Backend, opts StoreOptions) *Store {
	if opts.Namespace == "" {
		opts.Namespace = "content-mapper"
	}
	if opts.Logger == nil {
		opts.Logger = &logging.DefaultLogger{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Store{
		backend:   backend,
		namespace: opts.Namespace,
		logger:    opts.Logger,
		now:       opts.Now,
		entropy:   ulid.Monotonic(rand.Reader, 0),
	}
}

// Close releases the backend
func (s *Store) Close() error {
	return s.backend.Close()
}

func (s *Store) key(name string) string {
	return s.namespace + ":" + name
}

// load decodes key into out. found is false when nothing is stored.
func (s *Store) load(ctx context.Context, name string, out interface{}) (bool, error) {
	data, err := s.backend.Get(ctx, s.key(name))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		s.logger.Warn("Failed to read from storage", "key", name, "error", err)
		return false, err
	}

	if err := json.Unmarshal(data, out); err != nil {
		s.logger.Warn("Discarding corrupt stored record", "key", name, "error", err)
		return false, fmt.Errorf("%w: %s: %v", ErrCorrupt, name, err)
	}
	return true, nil
}

func (s *Store) save(ctx context.Context, name string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("Failed to encode record", "key", name, "error", err)
		return err
	}

	if err := s.backend.Set(ctx, s.key(name), data); err != nil {
		s.logger.Warn("Failed to write to storage", "key", name, "error", err)
		return err
	}
	return nil
}

func (s *Store) remove(ctx context.Context, name string) error {
	if err := s.backend.Delete(ctx, s.key(name)); err != nil {
		s.logger.Warn("Failed to delete from storage", "key", name, "error", err)
		return err
	}
	return nil
}

func (s *Store) newID() string {
	return ulid.MustNew(ulid.Timestamp(s.now()), s.entropy).String()
}

func (s *Store) loadHistory(ctx context.Context) ([]models.HistoryRecord, error) {
	var history []models.HistoryRecord
	if _, err := s.load(ctx, KeyHistory, &history); err != nil {
		return []models.HistoryRecord{}, err
	}
	if history == nil {
		history = []models.HistoryRecord{}
	}
	return history, nil
}

// SaveHistory prepends a new record and evicts everything past MaxHistory
func (s *Store) SaveHistory(ctx context.Context, result *models.AnalysisResult, config models.AnalysisConfig) (*models.HistoryRecord, error) {
	if result == nil {
		return nil, errors.New("nil analysis result")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// A corrupt list is replaced rather than blocking new saves
	history, _ := s.loadHistory(ctx)

	record := models.HistoryRecord{
		ID:        s.newID(),
		Result:    *result,
		Timestamp: s.now().UTC(),
		Config:    config,
	}

	history = append([]models.HistoryRecord{record}, history...)
	if len(history) > MaxHistory {
		history = history[:MaxHistory]
	}

	if err := s.save(ctx, KeyHistory, history); err != nil {
		return nil, err
	}
	return &record, nil
}

// GetHistory returns every record, newest first
func (s *Store) GetHistory(ctx context.Context) Read[[]models.HistoryRecord] {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, err := s.loadHistory(ctx)
	return Read[[]models.HistoryRecord]{Value: history, Err: err}
}

// GetByID returns the record with the given id or nil
func (s *Store) GetByID(ctx context.Context, id string) Read[*models.HistoryRecord] {
	history := s.GetHistory(ctx)
	for i := range history.Value {
		if history.Value[i].ID == id {
			return Read[*models.HistoryRecord]{Value: &history.Value[i]}
		}
	}
	return Read[*models.HistoryRecord]{Err: history.Err}
}

// DeleteByID removes one record. It reports whether the record existed.
func (s *Store) DeleteByID(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, err := s.loadHistory(ctx)
	if err != nil {
		return false, err
	}

	kept := make([]models.HistoryRecord, 0, len(history))
	for _, record := range history {
		if record.ID != id {
			kept = append(kept, record)
		}
	}
	if len(kept) == len(history) {
		return false, nil
	}

	if err := s.save(ctx, KeyHistory, kept); err != nil {
		return false, err
	}
	return true, nil
}

// ClearAll removes the whole history
func (s *Store) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.remove(ctx, KeyHistory)
}
