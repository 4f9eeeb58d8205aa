package storage

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/chynybekuuludastan/content_mapper/internal/models"
)

const (
	topKeywordsLimit  = 10
	topPageTypesLimit = 5
)

// KeywordCount is a keyword and how many analyses used it
type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

// DayCount is the number of analyses saved on one day
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// PageTypeCount is a page type and how often it was detected
type PageTypeCount struct {
	PageType string `json:"pageType"`
	Count    int    `json:"count"`
}

// Statistics aggregates the history list
type Statistics struct {
	TotalAnalyses    int             `json:"totalAnalyses"`
	AverageSeoScore  int             `json:"averageSeoScore"`
	TopKeywords      []KeywordCount  `json:"topKeywords"`
	AnalysisOverTime []DayCount      `json:"analysisOverTime"`
	TopPageTypes     []PageTypeCount `json:"topPageTypes"`
}

// GetStatistics aggregates over the current history
func (s *Store) GetStatistics(ctx context.Context) Read[Statistics] {
	history := s.GetHistory(ctx)
	return Read[Statistics]{Value: ComputeStatistics(history.Value), Err: history.Err}
}

// ComputeStatistics aggregates records. An empty list yields a zeroed shape.
func ComputeStatistics(records []models.HistoryRecord) Statistics {
	stats := Statistics{
		TotalAnalyses:    len(records),
		TopKeywords:      []KeywordCount{},
		AnalysisOverTime: []DayCount{},
		TopPageTypes:     []PageTypeCount{},
	}
	if len(records) == 0 {
		return stats
	}

	keywords := make(map[string]int)
	days := make(map[string]int)
	pageTypes := make(map[string]int)
	total := 0

	for _, record := range records {
		total += record.Result.OverallSeoScore
		for _, k := range record.Config.Keywords {
			k = strings.TrimSpace(k)
			if k != "" {
				keywords[k]++
			}
		}
		days[record.Timestamp.UTC().Format("2006-01-02")]++
		if pt := strings.TrimSpace(record.Result.PageType); pt != "" {
			pageTypes[pt]++
		}
	}

	stats.AverageSeoScore = int(math.Round(float64(total) / float64(len(records))))

	for k, n := range keywords {
		stats.TopKeywords = append(stats.TopKeywords, KeywordCount{Keyword: k, Count: n})
	}
	sort.Slice(stats.TopKeywords, func(i, j int) bool {
		if stats.TopKeywords[i].Count != stats.TopKeywords[j].Count {
			return stats.TopKeywords[i].Count > stats.TopKeywords[j].Count
		}
		return stats.TopKeywords[i].Keyword < stats.TopKeywords[j].Keyword
	})
	if len(stats.TopKeywords) > topKeywordsLimit {
		stats.TopKeywords = stats.TopKeywords[:topKeywordsLimit]
	}

	for d, n := range days {
		stats.AnalysisOverTime = append(stats.AnalysisOverTime, DayCount{Date: d, Count: n})
	}
	sort.Slice(stats.AnalysisOverTime, func(i, j int) bool {
		return stats.AnalysisOverTime[i].Date < stats.AnalysisOverTime[j].Date
	})

	for pt, n := range pageTypes {
		stats.TopPageTypes = append(stats.TopPageTypes, PageTypeCount{PageType: pt, Count: n})
	}
	sort.Slice(stats.TopPageTypes, func(i, j int) bool {
		if stats.TopPageTypes[i].Count != stats.TopPageTypes[j].Count {
			return stats.TopPageTypes[i].Count > stats.TopPageTypes[j].Count
		}
		return stats.TopPageTypes[i].PageType < stats.TopPageTypes[j].PageType
	})
	if len(stats.TopPageTypes) > topPageTypesLimit {
		stats.TopPageTypes = stats.TopPageTypes[:topPageTypesLimit]
	}

	return stats
}
