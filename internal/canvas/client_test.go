package canvas

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url string) *Client {
	return NewClient(Config{BaseURL: url, APIKey: "token"}, zerolog.Nop())
}

func TestUnconfiguredClientFailsFast(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://unused.invalid"}, zerolog.Nop())

	_, err := c.GetCourses(context.Background())
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestGetCoursesSendsBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"id": 1, "name": "Hiring 101", "course_code": "H101", "workflow_state": "available", "total_students": 12},
			{"id": 2, "name": "Archived", "course_code": "OLD", "workflow_state": "completed"},
		})
	}))
	defer srv.Close()

	courses, err := newTestClient(srv.URL).GetCourses(context.Background())
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, "1", courses[0].ID)
	assert.True(t, courses[0].Active())
	assert.False(t, courses[1].Active())
	assert.Equal(t, 12, courses[0].EnrollmentCount)
}

func TestGetCourseStudentsFollowsLinkHeader(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page") {
		case "2":
			_ = json.NewEncoder(w).Encode([]map[string]any{
				{"id": 3, "name": "Carla Dias", "email": "carla@example.com"},
			})
		default:
			w.Header().Set("Link", fmt.Sprintf(`<%s/api/v1/courses/1/users?page=2>; rel="next"`, srv.URL))
			_ = json.NewEncoder(w).Encode([]map[string]any{
				{"id": 1, "name": "Ana Silva", "email": "ana@example.com"},
				{"id": 2, "first_name": "Bruno", "last_name": "Costa", "login_id": "bruno@example.com"},
			})
		}
	}))
	defer srv.Close()

	students, err := newTestClient(srv.URL).GetCourseStudents(context.Background(), "1")
	require.NoError(t, err)
	require.Len(t, students, 3)
	assert.Equal(t, "Bruno Costa", students[1].Name, "name assembled from first/last fallback")
	assert.Equal(t, "bruno@example.com", students[1].Email, "login id stands in for a missing email")
	assert.Equal(t, "Carla Dias", students[2].Name)
}

func TestGetCourseAssignmentsFiltersTypes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"id": 1, "name": "Essay", "submission_types": []string{"online_text_entry"}},
			{"id": 2, "name": "Quiz", "submission_types": []string{"online_quiz"}},
			{"id": 3, "name": "Upload", "submission_types": []string{"online_upload", "online_quiz"}},
		})
	}))
	defer srv.Close()

	assignments, err := newTestClient(srv.URL).GetCourseAssignments(context.Background(), "1")
	require.NoError(t, err)
	require.Len(t, assignments, 2)
	assert.Equal(t, "Essay", assignments[0].Name)
	assert.Equal(t, "Upload", assignments[1].Name)
}

func TestGetAssignmentSubmissionsKeepFilter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]any{
			// Kept: has user and a body.
			{"id": 1, "body": "text", "user": map[string]any{"id": 10, "name": "Ana"}},
			// Dropped: no user reference.
			{"id": 2, "body": "orphan"},
			// Dropped: user but zero activity.
			{"id": 3, "user": map[string]any{"id": 11, "name": "Bruno"}},
			// Kept: score counts as activity.
			{"id": 4, "score": 88.5, "user": map[string]any{"id": 12, "name": "Carla"}},
		})
	}))
	defer srv.Close()

	subs, err := newTestClient(srv.URL).GetAssignmentSubmissions(context.Background(), "1", "10")
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, "1", subs[0].ID)
	assert.Equal(t, "4", subs[1].ID)
	require.NotNil(t, subs[1].Score)
	assert.InDelta(t, 88.5, *subs[1].Score, 1e-9)
}

func TestGetPropagatesHTTPErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "revoked", http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).GetCourses(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestNextPageURL(t *testing.T) {
	link := `<https://canvas.test/api/v1/courses?page=2>; rel="next", <https://canvas.test/api/v1/courses?page=5>; rel="last"`
	assert.Equal(t, "https://canvas.test/api/v1/courses?page=2", nextPageURL(link))
	assert.Equal(t, "", nextPageURL(`<https://canvas.test/x>; rel="last"`))
	assert.Equal(t, "", nextPageURL(""))
}
