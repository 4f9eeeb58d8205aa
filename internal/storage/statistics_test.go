package storage

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/chynybekuuludastan/content_mapper/internal/models"
)

func record(day string, score int, pageType string, keywords ...string) models.HistoryRecord {
	ts, _ := time.Parse("2006-01-02", day)
	return models.HistoryRecord{
		Timestamp: ts.Add(10 * time.Hour),
		Result:    models.AnalysisResult{OverallSeoScore: score, PageType: pageType},
		Config:    models.AnalysisConfig{Keywords: keywords},
	}
}

func TestComputeStatisticsEmpty(t *testing.T) {
	stats := ComputeStatistics(nil)
	if stats.TotalAnalyses != 0 || stats.AverageSeoScore != 0 {
		t.Errorf("expected zeroed stats, got %+v", stats)
	}
	if stats.TopKeywords == nil || stats.AnalysisOverTime == nil || stats.TopPageTypes == nil {
		t.Error("expected empty, non-nil lists")
	}
}

func TestComputeStatistics(t *testing.T) {
	records := []models.HistoryRecord{
		record("2025-03-02", 81, "landing", "seo", "saas"),
		record("2025-03-01", 70, "landing", "seo"),
		record("2025-03-01", 60, "blog", "content"),
	}

	stats := ComputeStatistics(records)

	if stats.TotalAnalyses != 3 {
		t.Errorf("TotalAnalyses = %d", stats.TotalAnalyses)
	}
	if stats.AverageSeoScore != 70 {
		t.Errorf("AverageSeoScore = %d, want 70", stats.AverageSeoScore)
	}
	wantKeywords := []KeywordCount{{"seo", 2}, {"content", 1}, {"saas", 1}}
	if !reflect.DeepEqual(stats.TopKeywords, wantKeywords) {
		t.Errorf("TopKeywords = %v", stats.TopKeywords)
	}
	wantDays := []DayCount{{"2025-03-01", 2}, {"2025-03-02", 1}}
	if !reflect.DeepEqual(stats.AnalysisOverTime, wantDays) {
		t.Errorf("AnalysisOverTime = %v", stats.AnalysisOverTime)
	}
	wantTypes := []PageTypeCount{{"landing", 2}, {"blog", 1}}
	if !reflect.DeepEqual(stats.TopPageTypes, wantTypes) {
		t.Errorf("TopPageTypes = %v", stats.TopPageTypes)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	source, _ := newTestStore(t)
	ctx := context.Background()

	source.SaveHistory(ctx, result(42, "landing"), models.AnalysisConfig{Keywords: []string{"seo"}, TargetAudience: "founders"})
	source.SaveBrandVoice(ctx, models.BrandVoiceProfile{Tone: models.ToneFriendly, Formality: 4})
	theme := "light"
	source.SavePreferences(ctx, models.PreferencesPatch{Theme: &theme})

	data, err := source.ExportHistoryJSON(ctx)
	if err != nil {
		t.Fatal(err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if snapshot.Version != SnapshotVersion || len(snapshot.History) != 1 {
		t.Errorf("unexpected snapshot: %+v", snapshot)
	}

	target, _ := newTestStore(t)
	if err := target.ImportHistoryJSON(ctx, data); err != nil {
		t.Fatal(err)
	}

	if h := target.GetHistory(ctx).Value; len(h) != 1 || h[0].Result.OverallSeoScore != 42 {
		t.Errorf("history not restored: %+v", h)
	}
	if bv := target.GetBrandVoice(ctx).Value; bv == nil || bv.Tone != models.ToneFriendly {
		t.Errorf("brand voice not restored: %+v", bv)
	}
	if p := target.GetPreferences(ctx).Value; p.Theme != "light" {
		t.Errorf("preferences not restored: %+v", p)
	}
}

func TestImportOnlyTouchesPresentFields(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	store.SaveHistory(ctx, result(10, "x"), models.AnalysisConfig{})
	store.SaveBrandVoice(ctx, models.BrandVoiceProfile{Tone: models.TonePlayful})

	if err := store.ImportHistoryJSON(ctx, []byte(`{"preferences":{"theme":"light"}}`)); err != nil {
		t.Fatal(err)
	}
	if n := len(store.GetHistory(ctx).Value); n != 1 {
		t.Errorf("history changed by import without history field: %d", n)
	}
	if store.GetBrandVoice(ctx).Value == nil {
		t.Error("brand voice removed by import without brandVoice field")
	}

	if err := store.ImportHistoryJSON(ctx, []byte(`{"brandVoice":null}`)); err != nil {
		t.Fatal(err)
	}
	if store.GetBrandVoice(ctx).Value != nil {
		t.Error("explicit null brand voice should clear the profile")
	}
}

func TestImportRejectsMalformedPayload(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	store.SaveHistory(ctx, result(10, "x"), models.AnalysisConfig{})

	cases := []string{
		`not json`,
		`{"history":"nope","preferences":{"theme":"light"}}`,
		`{"history":[],"brandVoice":[1,2]}`,
	}
	for _, payload := range cases {
		err := store.ImportHistoryJSON(ctx, []byte(payload))
		if !errors.Is(err, ErrInvalidSnapshot) {
			t.Errorf("payload %q: expected ErrInvalidSnapshot, got %v", payload, err)
		}
	}

	if n := len(store.GetHistory(ctx).Value); n != 1 {
		t.Errorf("failed import modified history: %d records", n)
	}
	if p := store.GetPreferences(ctx).Value; p.Theme != "dark" {
		t.Errorf("failed import modified preferences: %+v", p)
	}
}
