package model

import "time"

// Attachment is a file attached to a submission, referenced by its
// Canvas download URL.
type Attachment struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Type string `json:"type"`
}

// RubricAssessment is the AI's (or Canvas's) scoring of one rubric
// criterion.
type RubricAssessment struct {
	CriterionID       string  `json:"criteriaId"`
	Points            float64 `json:"points"`
	RatingDescription string  `json:"ratingDescription"`
	Comments          string  `json:"comments,omitempty"`
}

// SubmissionAnalysis is the structured result of analyzing a single
// submission with the AI gateway.
type SubmissionAnalysis struct {
	Summary           string             `json:"summary"`
	Strengths         []string           `json:"strengths"`
	Improvements      []string           `json:"improvements"`
	SkillsIdentified  []string           `json:"skillsIdentified"`
	Confidence        float64            `json:"confidence"`
	RubricAssessments []RubricAssessment `json:"rubricAssessments,omitempty"`
	OverallRubricScore *float64          `json:"overallRubricScore,omitempty"`
	MaxPossibleScore   *float64          `json:"maxPossibleScore,omitempty"`
}

// CanvasRubricAssessment is the raw grader assessment as returned by
// Canvas, kept verbatim alongside the AI analysis.
type CanvasRubricAssessment struct {
	Score float64 `json:"score"`
	Data  []struct {
		CriterionID string  `json:"criterion_id"`
		Points      float64 `json:"points"`
		Comments    string  `json:"comments"`
	} `json:"data"`
}

// Submission mirrors a Canvas submission. A submission is created once per
// Canvas ID and its content fields never change afterwards; the analysis
// pipeline flips IsAnalyzed to true exactly once and attaches AIAnalysis.
type Submission struct {
	ID             int          `json:"id"`
	CanvasID       string       `json:"canvasId"`
	AssignmentID   int          `json:"assignmentId"`
	CandidateID    int          `json:"candidateId"`
	Score          *float64     `json:"score"`
	Grade          string       `json:"grade"`
	SubmissionType string       `json:"submissionType"`
	Content        string       `json:"content"`
	Attachments    []Attachment `json:"attachments"`
	SubmittedAt    *time.Time   `json:"submittedAt"`

	AIAnalysis       *SubmissionAnalysis     `json:"aiAnalysis"`
	RubricAssessment *CanvasRubricAssessment `json:"rubricAssessment"`
	IsAnalyzed       bool                    `json:"isAnalyzed"`

	CreatedAt time.Time `json:"createdAt"`
}

// SubmissionWithAssignment is the joined shape served to the dashboard.
type SubmissionWithAssignment struct {
	Submission
	Assignment *Assignment `json:"assignment"`
}

// CandidateWithSubmissions is a candidate including their joined
// submissions, as consumed by the candidate table and detail views.
type CandidateWithSubmissions struct {
	Candidate
	Submissions []SubmissionWithAssignment `json:"submissions"`
}
