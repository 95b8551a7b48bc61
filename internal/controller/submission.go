package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MekhyW/Link-AutoJourney/internal/storage"
)

// ListAssignmentSubmissions returns an assignment's stored submissions.
func (ctrl *Controller) ListAssignmentSubmissions(c *gin.Context) {
	assignmentID, ok := intParam(c, "assignmentId")
	if !ok {
		return
	}

	if _, err := ctrl.Store.Assignment(assignmentID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Assignment not found"})
		return
	}

	c.JSON(http.StatusOK, ctrl.Store.Submissions(storage.SubmissionFilter{AssignmentID: assignmentID}))
}
