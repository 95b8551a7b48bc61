package controller

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MekhyW/Link-AutoJourney/internal/export"
	"github.com/MekhyW/Link-AutoJourney/internal/model"
)

// ExportCourseCandidates streams a course's candidate triage sheet as an
// xlsx download.
func (ctrl *Controller) ExportCourseCandidates(c *gin.Context) {
	courseID, ok := intParam(c, "courseId")
	if !ok {
		return
	}

	course, err := ctrl.Store.Course(courseID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		return
	}

	candidates := ctrl.Store.Candidates(courseID)
	joined := make([]model.CandidateWithSubmissions, 0, len(candidates))
	for _, candidate := range candidates {
		joined = append(joined, ctrl.withSubmissions(candidate))
	}

	workbook, err := export.CandidateWorkbook(course, joined)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprint("Failed to build workbook: ", err)})
		return
	}

	filename := fmt.Sprintf("candidates-%s.xlsx", course.Code)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := workbook.Write(c.Writer); err != nil {
		ctrl.Log.Error().Err(err).Msg("workbook write failed")
	}
}
