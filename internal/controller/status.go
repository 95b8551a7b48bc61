package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetStatus reports upstream connectivity. Canvas is probed with a live
// course listing so a revoked token shows up here and not mid-sync.
func (ctrl *Controller) GetStatus(c *gin.Context) {
	if _, err := ctrl.Canvas.GetCourses(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": err.Error(),
			"canvas":  false,
			"ai":      ctrl.AI.Configured(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "connected",
		"canvas": true,
		"ai":     ctrl.AI.Configured(),
	})
}
