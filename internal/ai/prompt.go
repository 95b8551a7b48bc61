package ai

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/MekhyW/Link-AutoJourney/internal/model"
)

const truncationMarker = "\n\n[content truncated]"

// Truncate bounds text to limit bytes. When cutting, it prefers a
// paragraph or sentence boundary found in the last 20% of the window so
// the model never sees a half word, and appends a truncation marker.
func Truncate(text string, limit int) string {
	if limit <= 0 || len(text) <= limit {
		return text
	}

	window := text[:limit]
	tail := limit * 4 / 5

	cut := limit
	if i := strings.LastIndex(window[tail:], "\n\n"); i >= 0 {
		cut = tail + i
	} else if i := strings.LastIndex(window[tail:], "\n"); i >= 0 {
		cut = tail + i
	} else if i := strings.LastIndex(window[tail:], ". "); i >= 0 {
		cut = tail + i + 1
	} else if i := strings.LastIndex(window[tail:], " "); i >= 0 {
		cut = tail + i
	}

	// No boundary found leaves cut at the raw byte limit, which can sit
	// inside a multi-byte rune; back up to the rune start.
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}

	return strings.TrimRight(window[:cut], " \n\t") + truncationMarker
}

func formatRubric(rubric []model.RubricCriterion) string {
	if len(rubric) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\nRUBRIC CRITERIA:\n")
	for _, crit := range rubric {
		fmt.Fprintf(&b, "\n%s (%.0f points max):\n", crit.Description, crit.Points)
		for _, r := range crit.Ratings {
			fmt.Fprintf(&b, "- %s (%.0f pts)\n", r.Description, r.Points)
		}
	}
	b.WriteString("\nPlease evaluate this submission against each rubric criteria and provide specific scores and feedback.\n")
	return b.String()
}

const rubricOutputContract = `
Respond with a JSON object containing:
- summary: A brief overall assessment
- strengths: Array of specific strengths identified
- improvements: Array of areas that need improvement
- skillsIdentified: Array of skills demonstrated
- confidence: Confidence score of your analysis (0-1)
- rubricAssessments: Array of objects with {criteriaId, points, ratingDescription, comments}
- overallRubricScore: Total points earned
- maxPossibleScore: Maximum possible points
Respond ONLY with the raw JSON object, without markdown fences or extra text.`

const plainOutputContract = `
Respond with a JSON object containing:
- summary: A brief overall assessment
- strengths: Array of specific strengths identified
- improvements: Array of areas that need improvement
- skillsIdentified: Array of skills demonstrated
- confidence: Confidence score of your analysis (0-1)
Respond ONLY with the raw JSON object, without markdown fences or extra text.`

func outputContract(rubric []model.RubricCriterion) string {
	if len(rubric) > 0 {
		return rubricOutputContract
	}
	return plainOutputContract
}

func buildSubmissionPrompt(kind, content, assignmentContext string, rubric []model.RubricCriterion) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert evaluator analyzing %s.\n\n", kind)
	fmt.Fprintf(&b, "Assignment Context: %s\n", assignmentContext)
	b.WriteString(formatRubric(rubric))
	fmt.Fprintf(&b, "\nSubmission Content:\n%s\n", content)
	b.WriteString(outputContract(rubric))
	return b.String()
}

func buildMediaPrompt(mediaType, assignmentContext string, rubric []model.RubricCriterion) string {
	kind := "visual"
	if strings.HasPrefix(mediaType, "video/") {
		kind = "video frame"
	} else if strings.HasPrefix(mediaType, "image/") {
		kind = "image"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are analyzing a %s submission for an assignment.\n\n", kind)
	fmt.Fprintf(&b, "Assignment Context: %s\n", assignmentContext)
	b.WriteString(formatRubric(rubric))
	b.WriteString("\nThe submission is attached as an image.\n")
	b.WriteString(outputContract(rubric))
	return b.String()
}

func buildInsightsPrompt(history []SubmissionRecord) (string, error) {
	serialized, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return "", fmt.Errorf("ai: marshal submission history: %w", err)
	}

	var b strings.Builder
	b.WriteString("You are an expert technical recruiter analyzing a candidate's performance across multiple assignments.\n\n")
	fmt.Fprintf(&b, "Candidate Submission History:\n%s\n\n", serialized)
	b.WriteString(`Based on this comprehensive data, provide insights for interview preparation. Consider:
1. Overall technical competency
2. Consistency across assignments
3. Growth and learning trajectory
4. Interview readiness
5. Specific areas to focus on during interviews

Respond with a JSON object containing:
- overallAssessment: Comprehensive assessment paragraph
- topStrengths: Array of top 3-5 strengths
- areasForImprovement: Array of key improvement areas
- interviewFocus: Array of topics to focus on during interviews
- readinessLevel: One of "interview_ready", "needs_review", or "in_progress"
- confidenceScore: Overall confidence in this assessment (0-1)
Respond ONLY with the raw JSON object, without markdown fences or extra text.`)
	return b.String(), nil
}

// cleanJSONReply strips markdown fences the model sometimes wraps around
// its JSON and slices out the outermost object.
func cleanJSONReply(reply string) string {
	reply = strings.TrimSpace(reply)
	reply = strings.TrimPrefix(reply, "```json")
	reply = strings.TrimPrefix(reply, "```")
	reply = strings.TrimSuffix(reply, "```")
	reply = strings.TrimSpace(reply)

	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start != -1 && end > start {
		reply = reply[start : end+1]
	}
	return strings.TrimSpace(reply)
}
