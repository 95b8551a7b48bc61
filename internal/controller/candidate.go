package controller

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MekhyW/Link-AutoJourney/internal/model"
	"github.com/MekhyW/Link-AutoJourney/internal/storage"
)

// GetCandidate returns one candidate with their joined submissions.
func (ctrl *Controller) GetCandidate(c *gin.Context) {
	candidateID, ok := intParam(c, "candidateId")
	if !ok {
		return
	}

	candidate, err := ctrl.Store.Candidate(candidateID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Candidate not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, ctrl.withSubmissions(candidate))
}

// AnalyzeCandidate regenerates one candidate's analyses and insights.
func (ctrl *Controller) AnalyzeCandidate(c *gin.Context) {
	candidateID, ok := intParam(c, "candidateId")
	if !ok {
		return
	}

	if _, err := ctrl.Store.Candidate(candidateID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Candidate not found"})
		return
	}

	job := ctrl.Store.CreateJob(model.JobTypeCandidateAnalysis, map[string]any{"candidateId": candidateID})

	go func() {
		_ = ctrl.Pipeline.RunCandidateAnalysis(context.Background(), job.ID, candidateID)
	}()

	c.JSON(http.StatusOK, gin.H{"jobId": job.ID, "message": "Analysis started"})
}
