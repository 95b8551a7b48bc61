package model

import "time"

// Processing job types.
const (
	JobTypeCourseSync         = "course_sync"
	JobTypeSubmissionAnalysis = "submission_analysis"
	JobTypeCandidateAnalysis  = "candidate_analysis"
)

// Processing job statuses. A job is created in processing state and moves
// one-way to completed or failed; a failed job is never retried, a new job
// is created instead.
const (
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

// ProcessingJob is the mutable progress record polled by the dashboard
// while a sync or analysis operation runs.
type ProcessingJob struct {
	ID             int            `json:"id"`
	Type           string         `json:"type"`
	Status         string         `json:"status"`
	Progress       int            `json:"progress"`
	TotalItems     int            `json:"totalItems"`
	ProcessedItems int            `json:"processedItems"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	Error          string         `json:"error,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// CandidateInsights is the aggregate assessment produced from a
// candidate's full analysis history.
type CandidateInsights struct {
	OverallAssessment   string   `json:"overallAssessment"`
	TopStrengths        []string `json:"topStrengths"`
	AreasForImprovement []string `json:"areasForImprovement"`
	InterviewFocus      []string `json:"interviewFocus"`
	ReadinessLevel      string   `json:"readinessLevel"`
	ConfidenceScore     float64  `json:"confidenceScore"`
}
