// Package storage implements the entity store backing the dashboard: a
// mutex-guarded in-memory map keyed by numeric surrogate IDs, with
// secondary indexes on Canvas IDs. The store can be hydrated once at
// startup from a JSON snapshot; the running process never writes the
// snapshot back out.
package storage

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/MekhyW/Link-AutoJourney/internal/model"
)

// ErrNotFound is returned when a looked-up entity does not exist.
var ErrNotFound = errors.New("storage: not found")

// ErrInvalidStatus is returned when a candidate update would leave the
// candidate with a status outside the three readiness values.
var ErrInvalidStatus = errors.New("storage: invalid candidate status")

// ErrAlreadyAnalyzed is returned when a submission's analysis would be
// overwritten. The analyzed flag transitions false to true exactly once.
var ErrAlreadyAnalyzed = errors.New("storage: submission already analyzed")

// Store holds all entities in memory. Safe for concurrent use.
type Store struct {
	mu sync.RWMutex

	courses     map[int]model.Course
	candidates  map[int]model.Candidate
	assignments map[int]model.Assignment
	submissions map[int]model.Submission
	jobs        map[int]model.ProcessingJob

	courseByCanvasID     map[string]int
	candidateByCanvasID  map[string]int
	assignmentByCanvasID map[string]int
	submissionByCanvasID map[string]int

	nextID int
}

// New returns an empty store.
func New() *Store {
	return &Store{
		courses:              make(map[int]model.Course),
		candidates:           make(map[int]model.Candidate),
		assignments:          make(map[int]model.Assignment),
		submissions:          make(map[int]model.Submission),
		jobs:                 make(map[int]model.ProcessingJob),
		courseByCanvasID:     make(map[string]int),
		candidateByCanvasID:  make(map[string]int),
		assignmentByCanvasID: make(map[string]int),
		submissionByCanvasID: make(map[string]int),
		nextID:               1,
	}
}

func (s *Store) allocID() int {
	id := s.nextID
	s.nextID++
	return id
}

// Health reports store status and entity counts, in the same shape the
// dashboard's status widgets consume.
func (s *Store) Health() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]string{
		"status":      "up",
		"courses":     strconv.Itoa(len(s.courses)),
		"candidates":  strconv.Itoa(len(s.candidates)),
		"assignments": strconv.Itoa(len(s.assignments)),
		"submissions": strconv.Itoa(len(s.submissions)),
		"jobs":        strconv.Itoa(len(s.jobs)),
	}
}

// ----- courses -----

// CreateCourse stores a new course and assigns its ID and creation time.
func (s *Store) CreateCourse(c model.Course) model.Course {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.allocID()
	c.CreatedAt = time.Now()
	s.courses[c.ID] = c
	s.courseByCanvasID[c.CanvasID] = c.ID
	return c
}

// Courses returns every stored course.
func (s *Store) Courses() []model.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Course, 0, len(s.courses))
	for _, c := range s.courses {
		out = append(out, c)
	}
	sortByID(out, func(c model.Course) int { return c.ID })
	return out
}

// Course looks a course up by its local ID.
func (s *Store) Course(id int) (model.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.courses[id]
	if !ok {
		return model.Course{}, fmt.Errorf("course %d: %w", id, ErrNotFound)
	}
	return c, nil
}

// CourseByCanvasID looks a course up by its Canvas ID.
func (s *Store) CourseByCanvasID(canvasID string) (model.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.courseByCanvasID[canvasID]
	if !ok {
		return model.Course{}, fmt.Errorf("course canvas_id=%s: %w", canvasID, ErrNotFound)
	}
	return s.courses[id], nil
}

// UpdateCourse applies fn to the stored course under the write lock.
func (s *Store) UpdateCourse(id int, fn func(*model.Course)) (model.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.courses[id]
	if !ok {
		return model.Course{}, fmt.Errorf("course %d: %w", id, ErrNotFound)
	}
	fn(&c)
	c.ID = id
	s.courses[id] = c
	return c, nil
}

// ----- candidates -----

// CreateCandidate stores a new candidate. An empty status defaults to
// in_progress; anything outside the readiness enum is rejected.
func (s *Store) CreateCandidate(c model.Candidate) (model.Candidate, error) {
	if c.Status == "" {
		c.Status = model.StatusInProgress
	}
	if !model.ValidStatus(c.Status) {
		return model.Candidate{}, fmt.Errorf("status %q: %w", c.Status, ErrInvalidStatus)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.allocID()
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	s.candidates[c.ID] = c
	s.candidateByCanvasID[c.CanvasUserID] = c.ID
	return c, nil
}

// Candidates returns candidates, scoped to a course when courseID is
// non-zero.
func (s *Store) Candidates(courseID int) []model.Candidate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Candidate, 0, len(s.candidates))
	for _, c := range s.candidates {
		if courseID == 0 || c.CourseID == courseID {
			out = append(out, c)
		}
	}
	sortByID(out, func(c model.Candidate) int { return c.ID })
	return out
}

// Candidate looks a candidate up by its local ID.
func (s *Store) Candidate(id int) (model.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.candidates[id]
	if !ok {
		return model.Candidate{}, fmt.Errorf("candidate %d: %w", id, ErrNotFound)
	}
	return c, nil
}

// CandidateByCanvasUserID looks a candidate up by Canvas user ID.
func (s *Store) CandidateByCanvasUserID(canvasUserID string) (model.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.candidateByCanvasID[canvasUserID]
	if !ok {
		return model.Candidate{}, fmt.Errorf("candidate canvas_user_id=%s: %w", canvasUserID, ErrNotFound)
	}
	return s.candidates[id], nil
}

// UpdateCandidate applies fn to the stored candidate under the write
// lock, bumping UpdatedAt and validating the resulting status.
func (s *Store) UpdateCandidate(id int, fn func(*model.Candidate)) (model.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.candidates[id]
	if !ok {
		return model.Candidate{}, fmt.Errorf("candidate %d: %w", id, ErrNotFound)
	}
	fn(&c)
	if !model.ValidStatus(c.Status) {
		return model.Candidate{}, fmt.Errorf("status %q: %w", c.Status, ErrInvalidStatus)
	}
	c.ID = id
	c.UpdatedAt = time.Now()
	s.candidates[id] = c
	return c, nil
}

// ----- assignments -----

// CreateAssignment stores a new assignment. If the Canvas ID is already
// known the existing assignment is returned untouched: assignments are
// immutable after creation.
func (s *Store) CreateAssignment(a model.Assignment) model.Assignment {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.assignmentByCanvasID[a.CanvasID]; ok {
		return s.assignments[id]
	}
	a.ID = s.allocID()
	a.CreatedAt = time.Now()
	s.assignments[a.ID] = a
	s.assignmentByCanvasID[a.CanvasID] = a.ID
	return a
}

// Assignments returns assignments, scoped to a course when courseID is
// non-zero.
func (s *Store) Assignments(courseID int) []model.Assignment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Assignment, 0, len(s.assignments))
	for _, a := range s.assignments {
		if courseID == 0 || a.CourseID == courseID {
			out = append(out, a)
		}
	}
	sortByID(out, func(a model.Assignment) int { return a.ID })
	return out
}

// Assignment looks an assignment up by its local ID.
func (s *Store) Assignment(id int) (model.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.assignments[id]
	if !ok {
		return model.Assignment{}, fmt.Errorf("assignment %d: %w", id, ErrNotFound)
	}
	return a, nil
}

// AssignmentByCanvasID looks an assignment up by Canvas ID.
func (s *Store) AssignmentByCanvasID(canvasID string) (model.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.assignmentByCanvasID[canvasID]
	if !ok {
		return model.Assignment{}, fmt.Errorf("assignment canvas_id=%s: %w", canvasID, ErrNotFound)
	}
	return s.assignments[id], nil
}

// ----- submissions -----

// SubmissionFilter narrows Submissions listings. Zero fields match all.
type SubmissionFilter struct {
	AssignmentID int
	CandidateID  int
}

// CreateSubmission stores a new submission. Re-creating a submission with
// a known Canvas ID is a no-op returning the existing record, so a second
// sync never duplicates.
func (s *Store) CreateSubmission(sub model.Submission) model.Submission {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.submissionByCanvasID[sub.CanvasID]; ok {
		return s.submissions[id]
	}
	sub.ID = s.allocID()
	sub.CreatedAt = time.Now()
	s.submissions[sub.ID] = sub
	s.submissionByCanvasID[sub.CanvasID] = sub.ID
	return sub
}

// Submissions returns submissions matching the filter.
func (s *Store) Submissions(f SubmissionFilter) []model.Submission {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Submission, 0, len(s.submissions))
	for _, sub := range s.submissions {
		if f.AssignmentID != 0 && sub.AssignmentID != f.AssignmentID {
			continue
		}
		if f.CandidateID != 0 && sub.CandidateID != f.CandidateID {
			continue
		}
		out = append(out, sub)
	}
	sortByID(out, func(sub model.Submission) int { return sub.ID })
	return out
}

// Submission looks a submission up by its local ID.
func (s *Store) Submission(id int) (model.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.submissions[id]
	if !ok {
		return model.Submission{}, fmt.Errorf("submission %d: %w", id, ErrNotFound)
	}
	return sub, nil
}

// SubmissionByCanvasID looks a submission up by Canvas ID.
func (s *Store) SubmissionByCanvasID(canvasID string) (model.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.submissionByCanvasID[canvasID]
	if !ok {
		return model.Submission{}, fmt.Errorf("submission canvas_id=%s: %w", canvasID, ErrNotFound)
	}
	return s.submissions[id], nil
}

// MarkAnalyzed attaches the analysis to a submission and flips its
// analyzed flag. The transition happens at most once per submission.
func (s *Store) MarkAnalyzed(id int, analysis *model.SubmissionAnalysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.submissions[id]
	if !ok {
		return fmt.Errorf("submission %d: %w", id, ErrNotFound)
	}
	if sub.IsAnalyzed {
		return fmt.Errorf("submission %d: %w", id, ErrAlreadyAnalyzed)
	}
	sub.AIAnalysis = analysis
	sub.IsAnalyzed = true
	s.submissions[id] = sub
	return nil
}

// ----- processing jobs -----

// CreateJob opens a new processing job in the processing state with zero
// progress.
func (s *Store) CreateJob(jobType string, metadata map[string]any) model.ProcessingJob {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	j := model.ProcessingJob{
		ID:        s.allocID(),
		Type:      jobType,
		Status:    model.JobStatusProcessing,
		Metadata:  metadata,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.jobs[j.ID] = j
	return j
}

// Job looks a job up by ID.
func (s *Store) Job(id int) (model.ProcessingJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	j, ok := s.jobs[id]
	if !ok {
		return model.ProcessingJob{}, fmt.Errorf("job %d: %w", id, ErrNotFound)
	}
	return j, nil
}

// Jobs returns all jobs ordered by ID.
func (s *Store) Jobs() []model.ProcessingJob {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.ProcessingJob, 0, len(s.jobs))
	for _, j := range s.jobs {
		out = append(out, j)
	}
	sortByID(out, func(j model.ProcessingJob) int { return j.ID })
	return out
}

// UpdateJob applies fn to the stored job under the write lock, bumping
// UpdatedAt.
func (s *Store) UpdateJob(id int, fn func(*model.ProcessingJob)) (model.ProcessingJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok {
		return model.ProcessingJob{}, fmt.Errorf("job %d: %w", id, ErrNotFound)
	}
	fn(&j)
	j.ID = id
	j.UpdatedAt = time.Now()
	s.jobs[id] = j
	return j, nil
}

// CompleteJob marks a job completed with progress forced to 100.
func (s *Store) CompleteJob(id int) error {
	_, err := s.UpdateJob(id, func(j *model.ProcessingJob) {
		j.Status = model.JobStatusCompleted
		j.Progress = 100
	})
	return err
}

// FailJob marks a job failed and records the error message.
func (s *Store) FailJob(id int, cause error) error {
	msg := "unknown error"
	if cause != nil {
		msg = cause.Error()
	}
	_, err := s.UpdateJob(id, func(j *model.ProcessingJob) {
		j.Status = model.JobStatusFailed
		j.Error = msg
	})
	return err
}

func sortByID[T any](items []T, id func(T) int) {
	sort.Slice(items, func(i, j int) bool { return id(items[i]) < id(items[j]) })
}
