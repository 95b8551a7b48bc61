package canvas

import (
	"context"
	"encoding/json"
	"fmt"
)

// GetCourses lists the courses visible to the configured token.
func (c *Client) GetCourses(ctx context.Context) ([]Course, error) {
	body, _, err := c.get(ctx, c.cfg.BaseURL+"/api/v1/courses?include[]=total_students&per_page=100")
	if err != nil {
		return nil, err
	}

	var raw []rawCourse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("canvas: decode courses: %w", err)
	}

	courses := make([]Course, 0, len(raw))
	for _, r := range raw {
		courses = append(courses, r.toCourse())
	}
	return courses, nil
}

// GetCourseAssignments lists a course's assignments with rubric expansion,
// keeping only the types whose submissions can be analyzed (uploads and
// text entries).
func (c *Client) GetCourseAssignments(ctx context.Context, courseID string) ([]Assignment, error) {
	url := fmt.Sprintf("%s/api/v1/courses/%s/assignments?include[]=rubric&per_page=100", c.cfg.BaseURL, courseID)
	body, _, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	var raw []rawAssignment
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("canvas: decode assignments: %w", err)
	}

	var assignments []Assignment
	for _, r := range raw {
		a := r.toAssignment()
		if containsAny(a.SubmissionTypes, "online_upload", "online_text_entry") {
			assignments = append(assignments, a)
		}
	}
	return assignments, nil
}

// GetCourseStudents pages through a course roster via the Link header.
// Pagination stops at maxStudentPages as a guard against a Canvas
// instance that keeps handing out next links.
func (c *Client) GetCourseStudents(ctx context.Context, courseID string) ([]User, error) {
	url := fmt.Sprintf(
		"%s/api/v1/courses/%s/users?enrollment_type[]=student&include[]=enrollments&include[]=email&per_page=100",
		c.cfg.BaseURL, courseID,
	)

	var students []User
	for page := 1; url != ""; page++ {
		if page > maxStudentPages {
			c.log.Warn().
				Str("course_id", courseID).
				Int("max_pages", maxStudentPages).
				Msg("Reached student pagination cap")
			break
		}

		body, link, err := c.get(ctx, url)
		if err != nil {
			return nil, err
		}

		var raw []rawUser
		if err := json.Unmarshal(body, &raw); err != nil {
			return nil, fmt.Errorf("canvas: decode students page %d: %w", page, err)
		}
		for _, r := range raw {
			students = append(students, r.toUser())
		}

		c.log.Debug().
			Str("course_id", courseID).
			Int("page", page).
			Int("page_size", len(raw)).
			Int("total", len(students)).
			Msg("Fetched student page")

		if len(raw) == 0 {
			break
		}
		url = nextPageURL(link)
	}

	return students, nil
}

// GetAssignmentSubmissions pages through an assignment's submissions,
// keeping only rows that carry a user reference and show some activity.
func (c *Client) GetAssignmentSubmissions(ctx context.Context, courseID, assignmentID string) ([]Submission, error) {
	url := fmt.Sprintf(
		"%s/api/v1/courses/%s/assignments/%s/submissions?include[]=user&include[]=attachments&include[]=rubric_assessment&per_page=100",
		c.cfg.BaseURL, courseID, assignmentID,
	)

	var submissions []Submission
	for page := 1; url != ""; page++ {
		if page > maxSubmissionPages {
			c.log.Warn().
				Str("assignment_id", assignmentID).
				Int("max_pages", maxSubmissionPages).
				Msg("Reached submission pagination cap")
			break
		}

		body, link, err := c.get(ctx, url)
		if err != nil {
			return nil, err
		}

		var raw []rawSubmission
		if err := json.Unmarshal(body, &raw); err != nil {
			return nil, fmt.Errorf("canvas: decode submissions page %d: %w", page, err)
		}
		for _, r := range raw {
			s := r.toSubmission()
			if s.HasUser() && s.hasActivity() {
				submissions = append(submissions, s)
			}
		}

		if len(raw) == 0 {
			break
		}
		url = nextPageURL(link)
	}

	return submissions, nil
}

func containsAny(haystack []string, needles ...string) bool {
	for _, h := range haystack {
		for _, n := range needles {
			if h == n {
				return true
			}
		}
	}
	return false
}
