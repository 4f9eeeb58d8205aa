package analysis

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/chynybekuuludastan/content_mapper/internal/logging"
	"github.com/chynybekuuludastan/content_mapper/internal/models"
	"github.com/chynybekuuludastan/content_mapper/internal/storage/images"
)

// DefaultMaxJobs bounds how many finished jobs are retained
const DefaultMaxJobs = 100

// Notifier receives a job snapshot every time the job changes
type Notifier func(job models.BatchAnalysisJob)

type jobEntry struct {
	job     models.BatchAnalysisJob
	handles []images.Handle
}

// Jobs tracks background batch runs. Images uploaded for a job stay served
// after it finishes, since its results link to them, and are released when
// the job is evicted. At most maxJobs jobs are retained.
type Jobs struct {
	mu      sync.RWMutex
	jobs    map[string]*jobEntry
	images  images.Store
	maxJobs int
	logger  logging.Logger
	now     func() time.Time
}

// NewJobs creates an empty registry
func NewJobs(store images.Store, maxJobs int, logger logging.Logger) *Jobs {
	if maxJobs <= 0 {
		maxJobs = DefaultMaxJobs
	}
	if logger == nil {
		logger = &logging.DefaultLogger{}
	}
	return &Jobs{
		jobs:    make(map[string]*jobEntry),
		images:  store,
		maxJobs: maxJobs,
		logger:  logger,
		now:     time.Now,
	}
}

func snapshot(job *models.BatchAnalysisJob) models.BatchAnalysisJob {
	out := *job
	out.Results = append([]*models.AnalysisResult(nil), job.Results...)
	out.Failures = append([]models.BatchFailure(nil), job.Failures...)
	if out.Results == nil {
		out.Results = []*models.AnalysisResult{}
	}
	return out
}

// Get returns a snapshot of the job
func (j *Jobs) Get(id string) (models.BatchAnalysisJob, bool) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	entry, ok := j.jobs[id]
	if !ok {
		return models.BatchAnalysisJob{}, false
	}
	return snapshot(&entry.job), true
}

func (j *Jobs) create(total int, handles []images.Handle) models.BatchAnalysisJob {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.evictLocked()

	entry := &jobEntry{
		job: models.BatchAnalysisJob{
			ID:        uuid.New().String(),
			Status:    models.JobPending,
			Total:     total,
			Results:   []*models.AnalysisResult{},
			StartedAt: j.now().UTC(),
		},
		handles: handles,
	}
	j.jobs[entry.job.ID] = entry
	return snapshot(&entry.job)
}

func (j *Jobs) update(id string, fn func(job *models.BatchAnalysisJob)) (models.BatchAnalysisJob, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()

	entry, ok := j.jobs[id]
	if !ok {
		return models.BatchAnalysisJob{}, false
	}
	fn(&entry.job)
	return snapshot(&entry.job), true
}

// evictLocked drops the oldest finished jobs beyond the limit. Callers hold mu.
func (j *Jobs) evictLocked() {
	if len(j.jobs) < j.maxJobs {
		return
	}

	finished := make([]*jobEntry, 0, len(j.jobs))
	for _, entry := range j.jobs {
		if entry.job.Status == models.JobCompleted || entry.job.Status == models.JobFailed {
			finished = append(finished, entry)
		}
	}
	sort.Slice(finished, func(a, b int) bool {
		return finished[a].job.StartedAt.Before(finished[b].job.StartedAt)
	})

	for _, entry := range finished {
		if len(j.jobs) < j.maxJobs {
			break
		}
		delete(j.jobs, entry.job.ID)
		j.releaseHandles(entry.handles)
	}
}

func (j *Jobs) releaseHandles(handles []images.Handle) {
	if j.images == nil {
		return
	}
	for _, h := range handles {
		if err := j.images.Release(context.Background(), h.ID); err != nil {
			j.logger.Warn("Failed to release job image", "image", h.ID, "error", err)
		}
	}
}

// StartBatch registers a job and runs the batch in the background. handles
// are the stored copies of the request images; the job owns them from now on.
func (j *Jobs) StartBatch(ctx context.Context, client *Client, req BatchRequest, handles []images.Handle, notify Notifier) models.BatchAnalysisJob {
	if notify == nil {
		notify = func(models.BatchAnalysisJob) {}
	}

	job := j.create(len(req.Images), handles)
	go j.runBatch(ctx, job.ID, client, req, notify)
	return job
}

func (j *Jobs) runBatch(ctx context.Context, id string, client *Client, req BatchRequest, notify Notifier) {
	if job, ok := j.update(id, func(job *models.BatchAnalysisJob) {
		job.Status = models.JobProcessing
	}); ok {
		notify(job)
	}

	req.OnProgress = func(percent int, fileName string) {
		if job, ok := j.update(id, func(job *models.BatchAnalysisJob) {
			job.Progress = percent
			job.CurrentItem = fileName
		}); ok {
			notify(job)
		}
	}

	result, err := client.BatchAnalyze(ctx, req)

	job, ok := j.update(id, func(job *models.BatchAnalysisJob) {
		completed := j.now().UTC()
		job.CompletedAt = &completed
		job.CurrentItem = ""
		if result != nil {
			job.Results = result.Results
			job.Failures = result.Failures
		}
		if err != nil {
			job.Status = models.JobFailed
			job.Error = err.Error()
			return
		}
		job.Status = models.JobCompleted
		job.Progress = 100
	})
	if !ok {
		return
	}

	j.logger.Info("Batch job finished",
		"job", id,
		"status", job.Status,
		"results", len(job.Results),
		"failures", len(job.Failures))
	notify(job)
}
