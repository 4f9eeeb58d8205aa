package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/chynybekuuludastan/content_mapper/internal/models"
)

// SnapshotVersion is written into every export
const SnapshotVersion = "1.0"

// ErrInvalidSnapshot is returned when an import payload cannot be decoded
var ErrInvalidSnapshot = errors.New("invalid history snapshot")

// Snapshot is the export document
type Snapshot struct {
	History     []models.HistoryRecord    `json:"history"`
	BrandVoice  *models.BrandVoiceProfile `json:"brandVoice"`
	Preferences models.UserPreferences    `json:"preferences"`
	ExportDate  time.Time                 `json:"exportDate"`
	Version     string                    `json:"version"`
}

// ExportHistoryJSON serialises history, brand voice and preferences
func (s *Store) ExportHistoryJSON(ctx context.Context) ([]byte, error) {
	snapshot := Snapshot{
		History:     s.GetHistory(ctx).Value,
		BrandVoice:  s.GetBrandVoice(ctx).Value,
		Preferences: s.GetPreferences(ctx).Value,
		ExportDate:  s.now().UTC(),
		Version:     SnapshotVersion,
	}
	return json.MarshalIndent(snapshot, "", "  ")
}

type importPayload struct {
	History     json.RawMessage `json:"history"`
	BrandVoice  json.RawMessage `json:"brandVoice"`
	Preferences json.RawMessage `json:"preferences"`
}

func present(raw json.RawMessage) bool {
	return len(raw) > 0
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// ImportHistoryJSON restores the fields present in data. Every present field
// is decoded before anything is written; a decode failure writes nothing.
// An explicit null brand voice clears the stored profile.
func (s *Store) ImportHistoryJSON(ctx context.Context, data []byte) error {
	var payload importPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}

	var history []models.HistoryRecord
	if present(payload.History) && !isNull(payload.History) {
		if err := json.Unmarshal(payload.History, &history); err != nil {
			return fmt.Errorf("%w: history: %v", ErrInvalidSnapshot, err)
		}
		if len(history) > MaxHistory {
			history = history[:MaxHistory]
		}
	}

	var brandVoice *models.BrandVoiceProfile
	if present(payload.BrandVoice) && !isNull(payload.BrandVoice) {
		if err := json.Unmarshal(payload.BrandVoice, &brandVoice); err != nil {
			return fmt.Errorf("%w: brandVoice: %v", ErrInvalidSnapshot, err)
		}
	}

	prefs := models.DefaultPreferences()
	if present(payload.Preferences) && !isNull(payload.Preferences) {
		if err := json.Unmarshal(payload.Preferences, &prefs); err != nil {
			return fmt.Errorf("%w: preferences: %v", ErrInvalidSnapshot, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if present(payload.History) && !isNull(payload.History) {
		if history == nil {
			history = []models.HistoryRecord{}
		}
		if err := s.save(ctx, KeyHistory, history); err != nil {
			return err
		}
	}

	if present(payload.BrandVoice) {
		if brandVoice == nil {
			if err := s.remove(ctx, KeyBrandVoice); err != nil {
				return err
			}
		} else if err := s.save(ctx, KeyBrandVoice, brandVoice); err != nil {
			return err
		}
	}

	if present(payload.Preferences) && !isNull(payload.Preferences) {
		if err := s.save(ctx, KeyPreferences, prefs); err != nil {
			return err
		}
	}

	s.logger.Info("Imported history snapshot", "records", len(history))
	return nil
}
