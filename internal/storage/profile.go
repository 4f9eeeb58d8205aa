package storage

import (
	"context"
	"strings"

	"github.com/chynybekuuludastan/content_mapper/internal/models"
)

// SaveBrandVoice overwrites the stored profile
func (s *Store) SaveBrandVoice(ctx context.Context, profile models.BrandVoiceProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.save(ctx, KeyBrandVoice, profile)
}

// GetBrandVoice returns the stored profile or nil
func (s *Store) GetBrandVoice(ctx context.Context) Read[*models.BrandVoiceProfile] {
	s.mu.Lock()
	defer s.mu.Unlock()

	var profile models.BrandVoiceProfile
	found, err := s.load(ctx, KeyBrandVoice, &profile)
	if err != nil || !found {
		return Read[*models.BrandVoiceProfile]{Err: err}
	}
	return Read[*models.BrandVoiceProfile]{Value: &profile}
}

// ClearBrandVoice removes the stored profile
func (s *Store) ClearBrandVoice(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.remove(ctx, KeyBrandVoice)
}

func (s *Store) loadPreferences(ctx context.Context) (models.UserPreferences, error) {
	prefs := models.DefaultPreferences()
	if _, err := s.load(ctx, KeyPreferences, &prefs); err != nil {
		return models.DefaultPreferences(), err
	}
	return prefs, nil
}

// SavePreferences merges patch over the current preferences and stores the
// full record. It returns the merged preferences.
func (s *Store) SavePreferences(ctx context.Context, patch models.PreferencesPatch) (models.UserPreferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, _ := s.loadPreferences(ctx)
	merged := patch.Apply(current)
	if err := s.save(ctx, KeyPreferences, merged); err != nil {
		return current, err
	}
	return merged, nil
}

// GetPreferences returns stored preferences merged over the defaults
func (s *Store) GetPreferences(ctx context.Context) Read[models.UserPreferences] {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefs, err := s.loadPreferences(ctx)
	return Read[models.UserPreferences]{Value: prefs, Err: err}
}

// AddRecentKeyword records a keyword in the recency list
func (s *Store) AddRecentKeyword(ctx context.Context, keyword string) error {
	return s.addRecent(ctx, KeyRecentKeywords, keyword, MaxRecentKeywords)
}

// GetRecentKeywords returns recently used keywords, newest first
func (s *Store) GetRecentKeywords(ctx context.Context) Read[[]string] {
	return s.getRecent(ctx, KeyRecentKeywords)
}

// AddRecentAudience records a target audience in the recency list
func (s *Store) AddRecentAudience(ctx context.Context, audience string) error {
	return s.addRecent(ctx, KeyRecentAudiences, audience, MaxRecentAudiences)
}

// GetRecentAudiences returns recently used audiences, newest first
func (s *Store) GetRecentAudiences(ctx context.Context) Read[[]string] {
	return s.getRecent(ctx, KeyRecentAudiences)
}

func (s *Store) loadStrings(ctx context.Context, name string) ([]string, error) {
	var values []string
	if _, err := s.load(ctx, name, &values); err != nil {
		return []string{}, err
	}
	if values == nil {
		values = []string{}
	}
	return values, nil
}

// addRecent prepends value unless it is already present, then caps the list.
// A value already in the list keeps its position.
func (s *Store) addRecent(ctx context.Context, name, value string, limit int) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	values, _ := s.loadStrings(ctx, name)
	for _, v := range values {
		if v == value {
			return nil
		}
	}

	values = append([]string{value}, values...)
	if len(values) > limit {
		values = values[:limit]
	}
	return s.save(ctx, name, values)
}

func (s *Store) getRecent(ctx context.Context, name string) Read[[]string] {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.loadStrings(ctx, name)
	return Read[[]string]{Value: values, Err: err}
}
