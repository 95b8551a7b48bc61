package model

import "time"

// Candidate readiness statuses. Status must always be one of these three
// values; the store rejects anything else.
const (
	StatusInProgress     = "in_progress"
	StatusInterviewReady = "interview_ready"
	StatusNeedsReview    = "needs_review"
)

// ValidStatus reports whether s is one of the three readiness statuses.
func ValidStatus(s string) bool {
	return s == StatusInProgress || s == StatusInterviewReady || s == StatusNeedsReview
}

// Candidate is a student pulled from a Canvas roster, enriched with
// AI-derived insight fields by the analysis pipeline.
type Candidate struct {
	ID           int    `json:"id"`
	CanvasUserID string `json:"canvasUserId"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	CourseID     int    `json:"courseId"`

	OverallScore    *float64 `json:"overallScore"`
	SubmissionCount int      `json:"submissionCount"`
	CompletionRate  float64  `json:"completionRate"`
	Status          string   `json:"status"`

	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
	AIInsights string   `json:"aiInsights"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
