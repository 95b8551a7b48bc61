// Package controller contains the gin handlers behind the dashboard API.
package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/MekhyW/Link-AutoJourney/internal/ai"
	"github.com/MekhyW/Link-AutoJourney/internal/canvas"
	"github.com/MekhyW/Link-AutoJourney/internal/model"
	"github.com/MekhyW/Link-AutoJourney/internal/pipeline"
	"github.com/MekhyW/Link-AutoJourney/internal/storage"
)

// Controller holds the dependencies shared by every handler.
type Controller struct {
	Store    *storage.Store
	Canvas   *canvas.Client
	AI       *ai.Client
	Pipeline *pipeline.Pipeline
	Log      zerolog.Logger
}

// NewController creates a new Controller with the provided dependencies.
func NewController(store *storage.Store, cv *canvas.Client, gateway *ai.Client, p *pipeline.Pipeline, log zerolog.Logger) *Controller {
	return &Controller{
		Store:    store,
		Canvas:   cv,
		AI:       gateway,
		Pipeline: p,
		Log:      log.With().Str("component", "controller").Logger(),
	}
}

// intParam parses a numeric path parameter, answering 400 and returning
// false when it is not a number.
func intParam(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return v, true
}

// withSubmissions joins a candidate with their submissions and each
// submission's assignment.
func (ctrl *Controller) withSubmissions(candidate model.Candidate) model.CandidateWithSubmissions {
	subs := ctrl.Store.Submissions(storage.SubmissionFilter{CandidateID: candidate.ID})

	joined := make([]model.SubmissionWithAssignment, 0, len(subs))
	for _, sub := range subs {
		entry := model.SubmissionWithAssignment{Submission: sub}
		if assignment, err := ctrl.Store.Assignment(sub.AssignmentID); err == nil {
			entry.Assignment = &assignment
		}
		joined = append(joined, entry)
	}

	return model.CandidateWithSubmissions{Candidate: candidate, Submissions: joined}
}
