package analysis

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/chynybekuuludastan/content_mapper/internal/logging"
	"github.com/chynybekuuludastan/content_mapper/internal/models"
	"github.com/chynybekuuludastan/content_mapper/internal/storage/images"
)

func TestStartBatchCompletes(t *testing.T) {
	client, _ := newTestClient(
		reply{text: validAnalysisJSON},
		reply{err: errors.New("boom")},
	)
	jobs := NewJobs(images.NewMemoryStore(), 10, logging.NopLogger{})

	var mu sync.Mutex
	var updates []models.BatchAnalysisJob
	done := make(chan struct{})

	job := jobs.StartBatch(context.Background(), client, BatchRequest{
		Images:         []Image{png("a.png"), png("b.png")},
		Keywords:       []string{"acme"},
		TargetAudience: "founders",
	}, nil, func(j models.BatchAnalysisJob) {
		mu.Lock()
		updates = append(updates, j)
		mu.Unlock()
		if j.Status == models.JobCompleted || j.Status == models.JobFailed {
			close(done)
		}
	})

	if job.Status != models.JobPending || job.Total != 2 {
		t.Errorf("unexpected initial job %+v", job)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("batch did not finish")
	}

	final, ok := jobs.Get(job.ID)
	if !ok {
		t.Fatal("job not found")
	}
	if final.Status != models.JobCompleted || final.Progress != 100 {
		t.Errorf("unexpected final job %+v", final)
	}
	if len(final.Results) != 1 || len(final.Failures) != 1 || final.CompletedAt == nil {
		t.Errorf("unexpected results=%d failures=%d", len(final.Results), len(final.Failures))
	}

	mu.Lock()
	defer mu.Unlock()
	last := -1
	for _, u := range updates {
		if u.Progress < last {
			t.Errorf("progress went backwards: %d after %d", u.Progress, last)
		}
		last = u.Progress
	}
}

func TestJobsEvictFinishedAndReleaseImages(t *testing.T) {
	store := images.NewMemoryStore()
	jobs := NewJobs(store, 2, logging.NopLogger{})
	ctx := context.Background()

	h1, _ := store.Put(ctx, []byte("1"), "image/png", "1.png")
	first := jobs.create(1, []images.Handle{h1})
	jobs.update(first.ID, func(j *models.BatchAnalysisJob) { j.Status = models.JobCompleted })
	if _, _, err := store.Open(ctx, h1.ID); err != nil {
		t.Fatalf("finished job released its image before eviction: %v", err)
	}

	second := jobs.create(1, nil)
	if store.Len() != 1 {
		t.Fatal("image released while the registry had room")
	}
	jobs.create(1, nil)

	if _, ok := jobs.Get(first.ID); ok {
		t.Error("oldest finished job should have been evicted")
	}
	if _, ok := jobs.Get(second.ID); !ok {
		t.Error("pending job must not be evicted")
	}
	if store.Len() != 0 {
		t.Error("evicted job image was not released")
	}
}
