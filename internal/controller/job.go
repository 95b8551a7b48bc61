package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MekhyW/Link-AutoJourney/internal/storage"
)

// GetJob returns one processing job for polling.
func (ctrl *Controller) GetJob(c *gin.Context) {
	jobID, ok := intParam(c, "jobId")
	if !ok {
		return
	}

	job, err := ctrl.Store.Job(jobID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, job)
}

// ListJobs returns the ten most recent processing jobs.
func (ctrl *Controller) ListJobs(c *gin.Context) {
	jobs := ctrl.Store.Jobs()
	if len(jobs) > 10 {
		jobs = jobs[len(jobs)-10:]
	}
	c.JSON(http.StatusOK, jobs)
}
