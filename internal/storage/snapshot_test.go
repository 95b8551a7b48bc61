package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MekhyW/Link-AutoJourney/internal/model"
)

func TestLoadSnapshotMissingFileIsFine(t *testing.T) {
	s := New()

	err := s.LoadSnapshot(filepath.Join(t.TempDir(), "nope.json"), zerolog.Nop())
	require.NoError(t, err)
	assert.Empty(t, s.Courses())
}

func TestLoadSnapshotRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	err := New().LoadSnapshot(path, zerolog.Nop())
	assert.Error(t, err)
}

func TestLoadSnapshotHydratesAndIndexes(t *testing.T) {
	payload := `{
		"courses": [{"id": 1, "canvasId": "c-1", "name": "Hiring 101", "code": "H101"}],
		"candidates": [{"id": 2, "canvasUserId": "u-7", "name": "Ana Silva", "courseId": 1, "status": "interview_ready"}],
		"assignments": [{"id": 3, "canvasId": "a-1", "courseId": 1, "name": "Essay"}],
		"submissions": [{"id": 4, "canvasId": "s-1", "assignmentId": 3, "candidateId": 2}],
		"currentId": 9
	}`
	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

	s := New()
	require.NoError(t, s.LoadSnapshot(path, zerolog.Nop()))

	course, err := s.CourseByCanvasID("c-1")
	require.NoError(t, err)
	assert.Equal(t, "Hiring 101", course.Name)

	candidate, err := s.CandidateByCanvasUserID("u-7")
	require.NoError(t, err)
	assert.Equal(t, model.StatusInterviewReady, candidate.Status)

	sub, err := s.SubmissionByCanvasID("s-1")
	require.NoError(t, err)
	assert.Equal(t, 3, sub.AssignmentID)

	// New records must allocate past the snapshot's counter.
	created := s.CreateCourse(model.Course{CanvasID: "c-2"})
	assert.GreaterOrEqual(t, created.ID, 9)
}

func TestLoadSnapshotNormalizesInvalidStatus(t *testing.T) {
	payload := `{"candidates": [{"id": 1, "canvasUserId": "u-1", "status": "wat"}]}`
	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

	s := New()
	require.NoError(t, s.LoadSnapshot(path, zerolog.Nop()))

	candidate, err := s.CandidateByCanvasUserID("u-1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusInProgress, candidate.Status)
}
