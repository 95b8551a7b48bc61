package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MekhyW/Link-AutoJourney/internal/ai"
	"github.com/MekhyW/Link-AutoJourney/internal/batch"
	"github.com/MekhyW/Link-AutoJourney/internal/canvas"
	"github.com/MekhyW/Link-AutoJourney/internal/model"
	"github.com/MekhyW/Link-AutoJourney/internal/pipeline"
	"github.com/MekhyW/Link-AutoJourney/internal/storage"
	"github.com/MekhyW/Link-AutoJourney/internal/testutil"
)

func newTestRouter(t *testing.T, store *storage.Store) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cv := canvas.NewClient(canvas.Config{BaseURL: "http://unused.invalid"}, zerolog.Nop())
	gateway := ai.NewClient(ai.Config{}, zerolog.Nop())
	queue := batch.New(3, time.Millisecond, zerolog.Nop())
	pipe := pipeline.New(store, cv, gateway, queue, zerolog.Nop())
	ctrl := NewController(store, cv, gateway, pipe, zerolog.Nop())

	r := gin.New()
	r.GET("/api/courses", ctrl.ListCourses)
	r.POST("/api/sync/courses", ctrl.SyncCourses)
	r.GET("/api/courses/:courseId/candidates", ctrl.ListCourseCandidates)
	r.GET("/api/courses/:courseId/candidates/export", ctrl.ExportCourseCandidates)
	r.GET("/api/courses/:courseId/assignments", ctrl.ListCourseAssignments)
	r.POST("/api/courses/:courseId/analyze", ctrl.AnalyzeCourse)
	r.GET("/api/assignments/:assignmentId/submissions", ctrl.ListAssignmentSubmissions)
	r.GET("/api/candidates/:candidateId", ctrl.GetCandidate)
	r.GET("/api/jobs", ctrl.ListJobs)
	r.GET("/api/jobs/:jobId", ctrl.GetJob)
	return r
}

func seedCourse(t *testing.T, store *storage.Store) (model.Course, model.Candidate, model.Assignment) {
	t.Helper()
	course := store.CreateCourse(model.Course{CanvasID: "c-1", Name: "Hiring 101", Code: "H101"})
	assignment := store.CreateAssignment(model.Assignment{CanvasID: "a-1", CourseID: course.ID, Name: "Essay"})
	candidate, err := store.CreateCandidate(model.Candidate{
		CanvasUserID: "u-1", Name: "Ana Silva", Email: "ana@example.com", CourseID: course.ID,
	})
	require.NoError(t, err)
	store.CreateSubmission(model.Submission{
		CanvasID: "s-1", AssignmentID: assignment.ID, CandidateID: candidate.ID,
		Content: "essay text", Score: testutil.FloatPtr(88),
	})
	return course, candidate, assignment
}

func TestListCourses(t *testing.T) {
	store := storage.New()
	seedCourse(t, store)
	r := newTestRouter(t, store)

	rec := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/courses", nil)
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var courses []model.Course
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &courses))
	require.Len(t, courses, 1)
	assert.Equal(t, "Hiring 101", courses[0].Name)
}

func TestListCourseCandidatesJoinsSubmissions(t *testing.T) {
	store := storage.New()
	course, _, _ := seedCourse(t, store)
	r := newTestRouter(t, store)

	rec := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/courses/"+itoa(course.ID)+"/candidates", nil)
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var candidates []model.CandidateWithSubmissions
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &candidates))
	require.Len(t, candidates, 1)
	require.Len(t, candidates[0].Submissions, 1)
	require.NotNil(t, candidates[0].Submissions[0].Assignment)
	assert.Equal(t, "Essay", candidates[0].Submissions[0].Assignment.Name)
}

func TestGetCandidateNotFound(t *testing.T) {
	r := newTestRouter(t, storage.New())

	rec, resp := testutil.MakeJSONRequest(nil, r, "/api/candidates/42", http.MethodGet)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Candidate not found", resp["error"])
}

func TestGetCandidateRejectsBadID(t *testing.T) {
	r := newTestRouter(t, storage.New())

	rec, resp := testutil.MakeJSONRequest(nil, r, "/api/candidates/abc", http.MethodGet)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, resp["error"], "candidateId")
}

func TestAnalyzeCourseUnknownCourse(t *testing.T) {
	r := newTestRouter(t, storage.New())

	rec, resp := testutil.MakeJSONRequest(nil, r, "/api/courses/42/analyze", http.MethodPost)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Course not found", resp["error"])
}

func TestSyncCoursesRequiresCanvasConfig(t *testing.T) {
	// The test router's Canvas client has no API key.
	r := newTestRouter(t, storage.New())

	rec, resp := testutil.MakeJSONRequest(nil, r, "/api/sync/courses", http.MethodPost)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "Canvas API is not configured", resp["error"])
}

func TestListAssignmentSubmissions(t *testing.T) {
	store := storage.New()
	_, _, assignment := seedCourse(t, store)
	r := newTestRouter(t, store)

	rec := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/assignments/"+itoa(assignment.ID)+"/submissions", nil)
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var subs []model.Submission
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &subs))
	require.Len(t, subs, 1)
	require.NotNil(t, subs[0].Score)
	assert.InDelta(t, 88, *subs[0].Score, 1e-9)
}

func TestListJobsReturnsLastTen(t *testing.T) {
	store := storage.New()
	for i := 0; i < 13; i++ {
		store.CreateJob(model.JobTypeCourseSync, nil)
	}
	r := newTestRouter(t, store)

	rec := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/jobs", nil)
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var jobs []model.ProcessingJob
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &jobs))
	require.Len(t, jobs, 10)
	// Most recent jobs survive the cut.
	assert.Greater(t, jobs[0].ID, 3)
}

func TestGetJob(t *testing.T) {
	store := storage.New()
	job := store.CreateJob(model.JobTypeSubmissionAnalysis, map[string]any{"courseId": 1})
	r := newTestRouter(t, store)

	rec, resp := testutil.MakeJSONRequest(nil, r, "/api/jobs/"+itoa(job.ID), http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.JobStatusProcessing, resp["status"])

	rec, _ = testutil.MakeJSONRequest(nil, r, "/api/jobs/999", http.MethodGet)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExportCourseCandidates(t *testing.T) {
	store := storage.New()
	course, _, _ := seedCourse(t, store)
	r := newTestRouter(t, store)

	rec := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/courses/"+itoa(course.ID)+"/candidates/export", nil)
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "candidates-H101.xlsx")
	assert.NotZero(t, rec.Body.Len())
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
