package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MekhyW/Link-AutoJourney/internal/model"
)

// SyncCourses starts a full Canvas reconciliation in the background and
// returns the job to poll.
func (ctrl *Controller) SyncCourses(c *gin.Context) {
	if !ctrl.Canvas.Configured() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Canvas API is not configured"})
		return
	}

	job := ctrl.Store.CreateJob(model.JobTypeCourseSync, nil)

	// The sync outlives the request; errors land on the job record.
	go func() {
		_ = ctrl.Pipeline.RunCourseSync(context.Background(), job.ID)
	}()

	c.JSON(http.StatusOK, gin.H{"jobId": job.ID, "message": "Sync started"})
}

// ListCourses returns every synced course.
func (ctrl *Controller) ListCourses(c *gin.Context) {
	c.JSON(http.StatusOK, ctrl.Store.Courses())
}

// ListCourseCandidates returns a course's candidates, each with their
// submissions joined to the owning assignment.
func (ctrl *Controller) ListCourseCandidates(c *gin.Context) {
	courseID, ok := intParam(c, "courseId")
	if !ok {
		return
	}

	candidates := ctrl.Store.Candidates(courseID)
	out := make([]model.CandidateWithSubmissions, 0, len(candidates))
	for _, candidate := range candidates {
		out = append(out, ctrl.withSubmissions(candidate))
	}

	c.JSON(http.StatusOK, out)
}

// ListCourseAssignments returns a course's assignments.
func (ctrl *Controller) ListCourseAssignments(c *gin.Context) {
	courseID, ok := intParam(c, "courseId")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ctrl.Store.Assignments(courseID))
}

// AnalyzeCourse starts submission analysis for one course and returns
// the job to poll.
func (ctrl *Controller) AnalyzeCourse(c *gin.Context) {
	courseID, ok := intParam(c, "courseId")
	if !ok {
		return
	}

	if _, err := ctrl.Store.Course(courseID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		return
	}

	job := ctrl.Store.CreateJob(model.JobTypeSubmissionAnalysis, map[string]any{"courseId": courseID})

	go func() {
		_ = ctrl.Pipeline.RunSubmissionAnalysis(context.Background(), job.ID, courseID)
	}()

	c.JSON(http.StatusOK, gin.H{"jobId": job.ID, "message": "Analysis started"})
}
