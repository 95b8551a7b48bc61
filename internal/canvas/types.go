package canvas

import (
	"strconv"
	"time"

	"github.com/MekhyW/Link-AutoJourney/internal/model"
)

// Course is a Canvas course as consumed by the sync pipeline.
type Course struct {
	ID              string
	Name            string
	Code            string
	State           string
	EnrollmentCount int
}

// Active reports whether the course is open on the Canvas side.
func (c Course) Active() bool { return c.State == "available" }

// Assignment is a Canvas assignment with its expanded rubric.
type Assignment struct {
	ID              string
	Name            string
	Description     string
	PointsPossible  float64
	DueAt           *time.Time
	SubmissionTypes []string
	Rubric          []model.RubricCriterion
}

// User is one roster entry of a course.
type User struct {
	ID    string
	Name  string
	Email string
}

// SubmissionUser is the user reference embedded in a submission payload.
// All fields may be empty when Canvas returns a detached submission row.
type SubmissionUser struct {
	ID    string
	Name  string
	Email string
}

// Submission is a Canvas submission kept by the activity filter.
type Submission struct {
	ID               string
	Score            *float64
	Grade            string
	SubmissionType   string
	Body             string
	URL              string
	SubmittedAt      *time.Time
	User             SubmissionUser
	Attachments      []model.Attachment
	RubricAssessment *model.CanvasRubricAssessment
}

// HasUser reports whether the submission carries a user reference. Rows
// without one cannot be attributed and are dropped before reconciliation.
func (s Submission) HasUser() bool { return s.User.ID != "" }

// hasActivity is the keep-filter: a submission row with no timestamp, no
// score, no grade, no body and no attachments is pure noise.
func (s Submission) hasActivity() bool {
	return s.SubmittedAt != nil || s.Score != nil || s.Grade != "" ||
		s.Body != "" || len(s.Attachments) > 0
}

// ----- raw wire shapes -----

type rawCourse struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	CourseCode    string `json:"course_code"`
	WorkflowState string `json:"workflow_state"`
	TotalStudents int    `json:"total_students"`
}

type rawRating struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Points      float64 `json:"points"`
}

type rawCriterion struct {
	ID          string      `json:"id"`
	Description string      `json:"description"`
	Points      float64     `json:"points"`
	Ratings     []rawRating `json:"ratings"`
}

type rawAssignment struct {
	ID              int64          `json:"id"`
	Name            string         `json:"name"`
	Description     string         `json:"description"`
	PointsPossible  float64        `json:"points_possible"`
	DueAt           string         `json:"due_at"`
	SubmissionTypes []string       `json:"submission_types"`
	Rubric          []rawCriterion `json:"rubric"`
}

type rawUser struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	LoginID   string `json:"login_id"`
}

type rawAttachment struct {
	ID           int64  `json:"id"`
	DisplayName  string `json:"display_name"`
	URL          string `json:"url"`
	ContentType  string `json:"content-type"`
	ContentType2 string `json:"content_type"`
}

type rawSubmission struct {
	ID               int64           `json:"id"`
	Score            *float64        `json:"score"`
	Grade            string          `json:"grade"`
	SubmissionType   string          `json:"submission_type"`
	Body             string          `json:"body"`
	URL              string          `json:"url"`
	SubmittedAt      string          `json:"submitted_at"`
	User             *rawUser        `json:"user"`
	Attachments      []rawAttachment `json:"attachments"`
	RubricAssessment map[string]struct {
		Points   float64 `json:"points"`
		Comments string  `json:"comments"`
	} `json:"rubric_assessment"`
}

func id64(id int64) string { return strconv.FormatInt(id, 10) }

// parseTime decodes the ISO8601 timestamps Canvas emits, returning nil
// for absent values rather than the zero time.
func parseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}

func (r rawCourse) toCourse() Course {
	return Course{
		ID:              id64(r.ID),
		Name:            r.Name,
		Code:            r.CourseCode,
		State:           r.WorkflowState,
		EnrollmentCount: r.TotalStudents,
	}
}

func (r rawAssignment) toAssignment() Assignment {
	a := Assignment{
		ID:              id64(r.ID),
		Name:            r.Name,
		Description:     r.Description,
		PointsPossible:  r.PointsPossible,
		DueAt:           parseTime(r.DueAt),
		SubmissionTypes: r.SubmissionTypes,
	}
	for _, c := range r.Rubric {
		crit := model.RubricCriterion{
			ID:          c.ID,
			Description: c.Description,
			Points:      c.Points,
		}
		for _, rt := range c.Ratings {
			crit.Ratings = append(crit.Ratings, model.RubricRating{
				ID:          rt.ID,
				Description: rt.Description,
				Points:      rt.Points,
			})
		}
		a.Rubric = append(a.Rubric, crit)
	}
	return a
}

func (r rawUser) toUser() User {
	name := r.Name
	if name == "" {
		name = trimJoin(r.FirstName, r.LastName)
	}
	email := r.Email
	if email == "" {
		email = r.LoginID
	}
	return User{ID: id64(r.ID), Name: name, Email: email}
}

func (r rawSubmission) toSubmission() Submission {
	s := Submission{
		ID:             id64(r.ID),
		Score:          r.Score,
		Grade:          r.Grade,
		SubmissionType: r.SubmissionType,
		Body:           r.Body,
		URL:            r.URL,
		SubmittedAt:    parseTime(r.SubmittedAt),
	}
	if r.User != nil && r.User.ID != 0 {
		s.User = SubmissionUser{
			ID:    id64(r.User.ID),
			Name:  r.User.Name,
			Email: r.User.Email,
		}
	}
	for _, att := range r.Attachments {
		ct := att.ContentType
		if ct == "" {
			ct = att.ContentType2
		}
		s.Attachments = append(s.Attachments, model.Attachment{
			Name: att.DisplayName,
			URL:  att.URL,
			Type: ct,
		})
	}
	if len(r.RubricAssessment) > 0 {
		ra := &model.CanvasRubricAssessment{}
		for criterionID, entry := range r.RubricAssessment {
			ra.Score += entry.Points
			ra.Data = append(ra.Data, struct {
				CriterionID string  `json:"criterion_id"`
				Points      float64 `json:"points"`
				Comments    string  `json:"comments"`
			}{CriterionID: criterionID, Points: entry.Points, Comments: entry.Comments})
		}
		s.RubricAssessment = ra
	}
	return s
}

func trimJoin(first, last string) string {
	switch {
	case first == "":
		return last
	case last == "":
		return first
	default:
		return first + " " + last
	}
}
