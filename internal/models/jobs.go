package models

import "time"

// JobStatus of a transient multi-image operation
type JobStatus string

const (
	JobPending    JobStatus = "pending"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
)

// BatchFailure identifies an input image whose analysis failed
type BatchFailure struct {
	Index    int    `json:"index"`
	FileName string `json:"fileName"`
	Error    string `json:"error"`
}

// BatchAnalysisJob describes an in-flight or completed batch run
type BatchAnalysisJob struct {
	ID          string            `json:"id"`
	Status      JobStatus         `json:"status"`
	Progress    int               `json:"progress"`
	CurrentItem string            `json:"currentItem,omitempty"`
	Total       int               `json:"total"`
	Results     []*AnalysisResult `json:"results"`
	Failures    []BatchFailure    `json:"failures,omitempty"`
	Error       string            `json:"error,omitempty"`
	StartedAt   time.Time         `json:"startedAt"`
	CompletedAt *time.Time        `json:"completedAt,omitempty"`
}

// ComparisonResult is the output of competitor mode
type ComparisonResult struct {
	YourAnalysis       *AnalysisResult     `json:"yourAnalysis"`
	CompetitorAnalyses []*AnalysisResult   `json:"competitorAnalyses"`
	Insights           []CompetitorInsight `json:"insights"`
}
