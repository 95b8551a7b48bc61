package storage

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/MekhyW/Link-AutoJourney/internal/model"
)

// snapshot is the on-disk shape of a storage export. Field names match
// the flat JSON file produced by the dashboard tooling.
type snapshot struct {
	Courses     []model.Course        `json:"courses"`
	Candidates  []model.Candidate     `json:"candidates"`
	Assignments []model.Assignment    `json:"assignments"`
	Submissions []model.Submission    `json:"submissions"`
	Jobs        []model.ProcessingJob `json:"jobs"`
	CurrentID   int                   `json:"currentId"`
}

// LoadSnapshot hydrates the store from a JSON snapshot file. A missing
// file is not an error, just an empty starting state. The store never
// writes the file back; it is read-only seed data.
func (s *Store) LoadSnapshot(path string, log zerolog.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Info().Str("path", path).Msg("No storage snapshot found, starting fresh")
			return nil
		}
		return fmt.Errorf("read snapshot %s: %w", path, err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("decode snapshot %s: %w", path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	maxID := 0
	for _, c := range snap.Courses {
		s.courses[c.ID] = c
		s.courseByCanvasID[c.CanvasID] = c.ID
		maxID = max(maxID, c.ID)
	}
	for _, c := range snap.Candidates {
		if c.Status == "" || !model.ValidStatus(c.Status) {
			c.Status = model.StatusInProgress
		}
		s.candidates[c.ID] = c
		s.candidateByCanvasID[c.CanvasUserID] = c.ID
		maxID = max(maxID, c.ID)
	}
	for _, a := range snap.Assignments {
		s.assignments[a.ID] = a
		s.assignmentByCanvasID[a.CanvasID] = a.ID
		maxID = max(maxID, a.ID)
	}
	for _, sub := range snap.Submissions {
		s.submissions[sub.ID] = sub
		s.submissionByCanvasID[sub.CanvasID] = sub.ID
		maxID = max(maxID, sub.ID)
	}
	for _, j := range snap.Jobs {
		s.jobs[j.ID] = j
		maxID = max(maxID, j.ID)
	}

	if snap.CurrentID > maxID {
		s.nextID = snap.CurrentID
	} else {
		s.nextID = maxID + 1
	}

	log.Info().
		Int("courses", len(snap.Courses)).
		Int("candidates", len(snap.Candidates)).
		Int("assignments", len(snap.Assignments)).
		Int("submissions", len(snap.Submissions)).
		Msg("Loaded storage snapshot")
	return nil
}
