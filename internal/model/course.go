// Package model contains the entities shared by the store, the sync
// pipeline and the HTTP layer.
package model

import "time"

// Course mirrors a Canvas course that has been pulled into local storage.
type Course struct {
	ID              int       `json:"id"`
	CanvasID        string    `json:"canvasId"`
	Name            string    `json:"name"`
	Code            string    `json:"code"`
	EnrollmentCount int       `json:"enrollmentCount"`
	AssignmentCount int       `json:"assignmentCount"`
	IsActive        bool      `json:"isActive"`
	CreatedAt       time.Time `json:"createdAt"`
}
