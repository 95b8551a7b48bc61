package model

import "time"

// RubricRating is one discrete level of a rubric criterion.
type RubricRating struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Points      float64 `json:"points"`
}

// RubricCriterion is a single weighted criterion of an assignment rubric.
type RubricCriterion struct {
	ID          string         `json:"id"`
	Description string         `json:"description"`
	Points      float64        `json:"points"`
	Ratings     []RubricRating `json:"ratings"`
}

// Assignment mirrors a Canvas assignment. Assignments are created once per
// Canvas ID and never updated afterwards: rubric or point edits on the
// Canvas side do not propagate.
type Assignment struct {
	ID              int               `json:"id"`
	CanvasID        string            `json:"canvasId"`
	CourseID        int               `json:"courseId"`
	Name            string            `json:"name"`
	Description     string            `json:"description"`
	PointsPossible  float64           `json:"pointsPossible"`
	DueAt           *time.Time        `json:"dueAt"`
	SubmissionTypes []string          `json:"submissionTypes"`
	HasRubric       bool              `json:"hasRubric"`
	Rubric          []RubricCriterion `json:"rubricData"`
	CreatedAt       time.Time         `json:"createdAt"`
}
