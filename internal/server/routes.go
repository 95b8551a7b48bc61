package server

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/MekhyW/Link-AutoJourney/internal/metrics"
	"github.com/MekhyW/Link-AutoJourney/internal/middleware"
)

// RegisterRoutes will register each http endpoint route to the bound
// Server instance.
func (s *Server) RegisterRoutes() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(s.log))
	r.Use(middleware.SafeHeader())
	r.Use(middleware.RateLimiterMiddleware(s.cfg.RateLimit.RequestsPerSecond))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     s.cfg.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.GET("/health", s.healthHandler)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")
	{
		api.GET("/status", s.ctrl.GetStatus)

		api.POST("/sync/courses", s.ctrl.SyncCourses)
		api.GET("/courses", s.ctrl.ListCourses)

		courses := api.Group("/courses/:courseId")
		{
			courses.GET("/candidates", s.ctrl.ListCourseCandidates)
			courses.GET("/candidates/export", s.ctrl.ExportCourseCandidates)
			courses.GET("/assignments", s.ctrl.ListCourseAssignments)
			courses.POST("/analyze", s.ctrl.AnalyzeCourse)
		}

		api.GET("/assignments/:assignmentId/submissions", s.ctrl.ListAssignmentSubmissions)

		candidates := api.Group("/candidates/:candidateId")
		{
			candidates.GET("", s.ctrl.GetCandidate)
			candidates.POST("/analyze", s.ctrl.AnalyzeCandidate)
		}

		api.GET("/jobs", s.ctrl.ListJobs)
		api.GET("/jobs/:jobId", s.ctrl.GetJob)
	}

	return r
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Health())
}
