package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestBatchAnalyzeSkipsFailedItem(t *testing.T) {
	client, gen := newTestClient(
		reply{text: validAnalysisJSON},
		reply{err: errors.New("model overloaded")},
		reply{text: validAnalysisJSON},
	)

	var percents []int
	var names []string
	result, err := client.BatchAnalyze(context.Background(), BatchRequest{
		Images:         []Image{png("a.png"), png("b.png"), png("c.png")},
		Keywords:       []string{"acme"},
		TargetAudience: "founders",
		OnProgress: func(p int, name string) {
			percents = append(percents, p)
			names = append(names, name)
		},
	})
	if err != nil {
		t.Fatalf("BatchAnalyze: %v", err)
	}

	if len(result.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(result.Results))
	}
	if result.Results[0].ImageFileName != "a.png" || result.Results[1].ImageFileName != "c.png" {
		t.Errorf("unexpected result order: %s, %s", result.Results[0].ImageFileName, result.Results[1].ImageFileName)
	}
	if len(result.Failures) != 1 || result.Failures[0].Index != 1 || result.Failures[0].FileName != "b.png" {
		t.Errorf("unexpected failures: %+v", result.Failures)
	}

	wantPercents := []int{0, 33, 66, 100}
	if len(percents) != len(wantPercents) {
		t.Fatalf("progress calls = %v", percents)
	}
	for i := range wantPercents {
		if percents[i] != wantPercents[i] {
			t.Errorf("progress[%d] = %d, want %d", i, percents[i], wantPercents[i])
		}
	}
	if names[1] != "b.png" {
		t.Errorf("progress reported %q before second item", names[1])
	}
	if n := len(gen.calls()); n != 3 {
		t.Errorf("expected 3 sequential calls, got %d", n)
	}
}

func TestBatchAnalyzeStopsOnCancellation(t *testing.T) {
	client, _ := newTestClient(reply{text: validAnalysisJSON}, reply{text: validAnalysisJSON})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	result, err := client.BatchAnalyze(ctx, BatchRequest{
		Images:         []Image{png("a.png"), png("b.png")},
		Keywords:       []string{"acme"},
		TargetAudience: "founders",
		OnProgress: func(p int, _ string) {
			if p > 0 {
				cancel()
			}
		},
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result == nil || len(result.Results) != 1 {
		t.Errorf("expected the partial result to be returned, got %+v", result)
	}
}

func TestBatchAnalyzeRequiresImages(t *testing.T) {
	client, _ := newTestClient()
	if _, err := client.BatchAnalyze(context.Background(), BatchRequest{}); !errors.Is(err, ErrNoImages) {
		t.Errorf("expected ErrNoImages, got %v", err)
	}
}

const insightsJSON = `[{"competitor":"Competitor 1","strengths":["clear pricing"],"weaknesses":["slow"],"differentiators":["free tier"],"keywordGaps":["ci/cd"]}]`

func TestCompare(t *testing.T) {
	client, gen := newTestClient(
		reply{text: validAnalysisJSON},
		reply{text: validAnalysisJSON},
		reply{err: errors.New("blocked")},
		reply{text: insightsJSON},
	)

	result, err := client.Compare(context.Background(), CompareRequest{
		YourImage:        png("ours.png"),
		CompetitorImages: []Image{png("them1.png"), png("them2.png")},
		WebsiteURL:       "https://acme.dev",
		Keywords:         []string{"acme"},
		TargetAudience:   "founders",
	})
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}

	if result.YourAnalysis == nil || len(result.CompetitorAnalyses) != 1 {
		t.Fatalf("unexpected comparison: %+v", result)
	}
	if len(result.Insights) != 1 || result.Insights[0].KeywordGaps[0] != "ci/cd" {
		t.Errorf("unexpected insights: %+v", result.Insights)
	}

	calls := gen.calls()
	if len(calls) != 4 {
		t.Fatalf("expected 4 calls, got %d", len(calls))
	}
	if !strings.Contains(calls[0].Prompt, "https://acme.dev") {
		t.Error("primary analysis should carry the real website")
	}
	if strings.Contains(calls[1].Prompt, "https://acme.dev") || !strings.Contains(calls[1].Prompt, CompetitorPlaceholder) {
		t.Error("competitor analysis should use the placeholder label")
	}
	if len(calls[3].Images) != 0 || calls[3].Schema == nil {
		t.Error("insight synthesis should be a text-only structured call")
	}
}

func TestCompareInsightFailureYieldsEmptyList(t *testing.T) {
	client, _ := newTestClient(
		reply{text: validAnalysisJSON},
		reply{text: validAnalysisJSON},
		reply{text: "not json at all"},
	)

	result, err := client.Compare(context.Background(), CompareRequest{
		YourImage:        png("ours.png"),
		CompetitorImages: []Image{png("them.png")},
		Keywords:         []string{"acme"},
		TargetAudience:   "founders",
	})
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if result.Insights == nil || len(result.Insights) != 0 {
		t.Errorf("expected empty insights, got %v", result.Insights)
	}
	if len(result.CompetitorAnalyses) != 1 {
		t.Errorf("core comparison lost: %+v", result.CompetitorAnalyses)
	}
}

func TestComparePrimaryFailurePropagates(t *testing.T) {
	boom := errors.New("unavailable")
	client, _ := newTestClient(reply{err: boom})

	_, err := client.Compare(context.Background(), CompareRequest{
		YourImage:        png("ours.png"),
		CompetitorImages: []Image{png("them.png")},
		Keywords:         []string{"acme"},
		TargetAudience:   "founders",
	})
	if !errors.Is(err, boom) {
		t.Errorf("expected primary failure, got %v", err)
	}
}
