package storage

import (
	"context"
	"errors"
	"math"

	"github.com/chynybekuuludastan/content_mapper/internal/models"
)

// ErrRecordNotFound is returned when a history id does not resolve
var ErrRecordNotFound = errors.New("history record not found")

// How sections were paired across two results
const (
	MatchedByID       = "id"
	MatchedByPosition = "position"
)

// maxCenterDistance bounds positional matches, in percentage points
const maxCenterDistance = 25.0

// AnalysisComparison is the section-level diff between two results
type AnalysisComparison struct {
	SeoScoreDelta      int      `json:"seoScoreDelta"`
	SectionsAdded      []string `json:"sectionsAdded"`
	SectionsRemoved    []string `json:"sectionsRemoved"`
	SectionsImproved   []string `json:"sectionsImproved"`
	SectionsDeclined   []string `json:"sectionsDeclined"`
	OverallImprovement bool     `json:"overallImprovement"`
	MatchedBy          string   `json:"matchedBy"`
}

// CompareAnalyses diffs b against a. Sections are paired by id; when the two
// results share no id at all they are paired by type and nearest centre.
func CompareAnalyses(a, b *models.AnalysisResult) AnalysisComparison {
	delta := b.OverallSeoScore - a.OverallSeoScore
	cmp := AnalysisComparison{
		SeoScoreDelta:      delta,
		SectionsAdded:      []string{},
		SectionsRemoved:    []string{},
		SectionsImproved:   []string{},
		SectionsDeclined:   []string{},
		OverallImprovement: delta > 0,
		MatchedBy:          MatchedByID,
	}

	pairs := pairByID(a, b)
	if len(pairs) == 0 && len(a.Sections) > 0 && len(b.Sections) > 0 {
		pairs = pairByPosition(a, b)
		cmp.MatchedBy = MatchedByPosition
	}

	matchedA := make(map[int]bool, len(pairs))
	matchedB := make(map[int]bool, len(pairs))
	for ib, ia := range pairs {
		matchedA[ia] = true
		matchedB[ib] = true
	}

	for ib, section := range b.Sections {
		ia, ok := pairs[ib]
		if !ok {
			cmp.SectionsAdded = append(cmp.SectionsAdded, section.Label)
			continue
		}
		before := a.Sections[ia].SeoScore
		switch {
		case section.SeoScore > before:
			cmp.SectionsImproved = append(cmp.SectionsImproved, section.Label)
		case section.SeoScore < before:
			cmp.SectionsDeclined = append(cmp.SectionsDeclined, section.Label)
		}
	}

	for ia, section := range a.Sections {
		if !matchedA[ia] {
			cmp.SectionsRemoved = append(cmp.SectionsRemoved, section.Label)
		}
	}

	return cmp
}

// pairByID maps indexes in b to indexes in a for sections sharing an id
func pairByID(a, b *models.AnalysisResult) map[int]int {
	index := make(map[string]int, len(a.Sections))
	for i, section := range a.Sections {
		index[section.ID] = i
	}

	pairs := make(map[int]int)
	for i, section := range b.Sections {
		if j, ok := index[section.ID]; ok {
			pairs[i] = j
		}
	}
	return pairs
}

// pairByPosition greedily pairs each section of b with the closest unpaired
// section of a of the same type
func pairByPosition(a, b *models.AnalysisResult) map[int]int {
	pairs := make(map[int]int)
	taken := make(map[int]bool)

	for i, sb := range b.Sections {
		bx, by := sb.Position.Center()
		best, bestDist := -1, math.MaxFloat64
		for j, sa := range a.Sections {
			if taken[j] || sa.Type != sb.Type {
				continue
			}
			ax, ay := sa.Position.Center()
			if d := math.Hypot(ax-bx, ay-by); d < bestDist {
				best, bestDist = j, d
			}
		}
		if best >= 0 && bestDist <= maxCenterDistance {
			pairs[i] = best
			taken[best] = true
		}
	}
	return pairs
}

// CompareRecords loads two history records and diffs the second against the first
func (s *Store) CompareRecords(ctx context.Context, firstID, secondID string) (*AnalysisComparison, error) {
	first := s.GetByID(ctx, firstID)
	if first.Value == nil {
		return nil, errors.Join(ErrRecordNotFound, first.Err)
	}
	second := s.GetByID(ctx, secondID)
	if second.Value == nil {
		return nil, errors.Join(ErrRecordNotFound, second.Err)
	}

	cmp := CompareAnalyses(&first.Value.Result, &second.Value.Result)
	return &cmp, nil
}
