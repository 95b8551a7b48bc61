package pipeline

import (
	"context"
	"math"
	"time"

	"github.com/MekhyW/Link-AutoJourney/internal/canvas"
	"github.com/MekhyW/Link-AutoJourney/internal/identity"
	"github.com/MekhyW/Link-AutoJourney/internal/metrics"
	"github.com/MekhyW/Link-AutoJourney/internal/model"
)

// RunCourseSync reconciles every Canvas course into local storage under
// the given job. Courses are processed sequentially; a failure inside one
// course fails the whole job, while per-assignment submission fetches
// only log and continue.
func (p *Pipeline) RunCourseSync(ctx context.Context, jobID int) error {
	start := time.Now()

	courses, err := p.canvas.GetCourses(ctx)
	if err != nil {
		return p.failJob(jobID, model.JobTypeCourseSync, err)
	}

	p.store.UpdateJob(jobID, func(j *model.ProcessingJob) {
		j.TotalItems = len(courses)
		j.Progress = 10
	})

	processed := 0
	for _, cc := range courses {
		if err := p.reconcileCourse(ctx, cc); err != nil {
			p.log.Error().Err(err).Str("course", cc.Name).Msg("course reconciliation failed")
			return p.failJob(jobID, model.JobTypeCourseSync, err)
		}

		processed++
		progress := percent(processed, len(courses))
		p.store.UpdateJob(jobID, func(j *model.ProcessingJob) {
			j.ProcessedItems = processed
			j.Progress = progress
		})
	}

	p.store.CompleteJob(jobID)
	metrics.JobsFinished.WithLabelValues(model.JobTypeCourseSync, model.JobStatusCompleted).Inc()
	metrics.SyncDuration.Observe(time.Since(start).Seconds())
	p.log.Info().Int("courses", processed).Dur("took", time.Since(start)).Msg("course sync completed")
	return nil
}

// reconcileCourse pulls one course's assignments, roster and submissions
// into the store.
func (p *Pipeline) reconcileCourse(ctx context.Context, cc canvas.Course) error {
	course, err := p.store.CourseByCanvasID(cc.ID)
	if err != nil {
		course = p.store.CreateCourse(model.Course{
			CanvasID:        cc.ID,
			Name:            cc.Name,
			Code:            cc.Code,
			EnrollmentCount: cc.EnrollmentCount,
			IsActive:        cc.Active(),
		})
	} else {
		course, _ = p.store.UpdateCourse(course.ID, func(c *model.Course) {
			c.Name = cc.Name
			c.Code = cc.Code
			c.EnrollmentCount = cc.EnrollmentCount
			c.IsActive = cc.Active()
		})
	}

	canvasAssignments, err := p.canvas.GetCourseAssignments(ctx, cc.ID)
	if err != nil {
		return err
	}
	p.store.UpdateCourse(course.ID, func(c *model.Course) {
		c.AssignmentCount = len(canvasAssignments)
	})

	assignments := make([]model.Assignment, 0, len(canvasAssignments))
	for _, ca := range canvasAssignments {
		assignments = append(assignments, p.store.CreateAssignment(model.Assignment{
			CanvasID:        ca.ID,
			CourseID:        course.ID,
			Name:            ca.Name,
			Description:     ca.Description,
			PointsPossible:  ca.PointsPossible,
			DueAt:           ca.DueAt,
			SubmissionTypes: ca.SubmissionTypes,
			HasRubric:       len(ca.Rubric) > 0,
			Rubric:          ca.Rubric,
		}))
	}

	students, err := p.canvas.GetCourseStudents(ctx, cc.ID)
	if err != nil {
		return err
	}
	p.log.Info().Int("students", len(students)).Str("course", cc.Name).Msg("syncing roster")

	for _, student := range students {
		existing, err := p.store.CandidateByCanvasUserID(student.ID)
		if err != nil {
			p.store.CreateCandidate(model.Candidate{
				CanvasUserID: student.ID,
				Name:         student.Name,
				Email:        student.Email,
				CourseID:     course.ID,
				Status:       model.StatusInProgress,
			})
			continue
		}
		p.store.UpdateCandidate(existing.ID, func(c *model.Candidate) {
			c.Name = student.Name
			c.Email = student.Email
			c.CourseID = course.ID
		})
	}

	candidates := p.store.Candidates(course.ID)
	for _, assignment := range assignments {
		subs, err := p.canvas.GetAssignmentSubmissions(ctx, cc.ID, assignment.CanvasID)
		if err != nil {
			p.log.Error().Err(err).Str("assignment", assignment.Name).Msg("submission fetch failed, skipping assignment")
			continue
		}
		p.syncSubmissions(assignment, subs, candidates)
	}

	return nil
}

// syncSubmissions resolves each submission's user to a candidate and
// records the submission if it is new. Unresolved users are skipped.
func (p *Pipeline) syncSubmissions(assignment model.Assignment, subs []canvas.Submission, candidates []model.Candidate) {
	matched, unmatched := 0, 0
	for _, cs := range subs {
		if !cs.HasUser() {
			p.log.Debug().Str("submission", cs.ID).Msg("submission without user reference, skipping")
			continue
		}

		candidate, tier := identity.Match(cs.User.ID, cs.User.Name, cs.User.Email, candidates)
		if candidate == nil {
			unmatched++
			metrics.SubmissionsUnmatched.Inc()
			p.log.Warn().
				Str("user", cs.User.Name).
				Str("canvasUserId", cs.User.ID).
				Str("assignment", assignment.Name).
				Msg("no candidate found for submission user")
			continue
		}

		matched++
		metrics.SubmissionsMatched.WithLabelValues(string(tier)).Inc()
		if tier == identity.TierFuzzyName {
			p.log.Warn().
				Str("submissionUser", cs.User.Name).
				Str("candidate", candidate.Name).
				Msg("fuzzy name match, verify this pairing")
		}

		content := cs.Body
		if content == "" {
			content = cs.URL
		}
		p.store.CreateSubmission(model.Submission{
			CanvasID:         cs.ID,
			AssignmentID:     assignment.ID,
			CandidateID:      candidate.ID,
			Score:            cs.Score,
			Grade:            cs.Grade,
			SubmissionType:   cs.SubmissionType,
			Content:          content,
			Attachments:      cs.Attachments,
			SubmittedAt:      cs.SubmittedAt,
			RubricAssessment: cs.RubricAssessment,
		})
	}

	p.log.Info().
		Str("assignment", assignment.Name).
		Int("matched", matched).
		Int("unmatched", unmatched).
		Msg("assignment submissions reconciled")
}

func (p *Pipeline) failJob(jobID int, jobType string, err error) error {
	p.store.FailJob(jobID, err)
	metrics.JobsFinished.WithLabelValues(jobType, model.JobStatusFailed).Inc()
	return err
}

func percent(processed, total int) int {
	if total == 0 {
		return 100
	}
	return int(math.Round(float64(processed) / float64(total) * 100))
}
