package ai

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/MekhyW/Link-AutoJourney/internal/model"
)

func TestTruncateShortTextUntouched(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 100))
	assert.Equal(t, "", Truncate("", 100))
}

func TestTruncateBoundsAndMarks(t *testing.T) {
	text := strings.Repeat("word ", 1000)

	got := Truncate(text, 500)
	assert.True(t, strings.HasSuffix(got, truncationMarker))
	assert.LessOrEqual(t, len(got), 500+len(truncationMarker))
}

func TestTruncatePrefersParagraphBoundary(t *testing.T) {
	// The paragraph break sits inside the last 20% of a 100-byte window.
	text := strings.Repeat("a", 90) + "\n\n" + strings.Repeat("b", 200)

	got := Truncate(text, 100)
	body := strings.TrimSuffix(got, truncationMarker)
	assert.Equal(t, strings.Repeat("a", 90), body)
}

func TestTruncatePrefersSentenceBoundary(t *testing.T) {
	text := strings.Repeat("a", 85) + ". " + strings.Repeat("b", 200)

	got := Truncate(text, 100)
	body := strings.TrimSuffix(got, truncationMarker)
	assert.True(t, strings.HasSuffix(body, "."), "cut should land after the period, got %q", body)
}

func TestTruncateNeverSplitsRunes(t *testing.T) {
	// No space or sentence boundary anywhere, so the cut falls back to
	// the raw byte limit, which lands mid-rune for 3-byte runes.
	text := strings.Repeat("日本語", 100)

	got := Truncate(text, 100)
	body := strings.TrimSuffix(got, truncationMarker)
	assert.True(t, utf8.ValidString(body), "truncated text must stay valid UTF-8: %q", body)
	assert.LessOrEqual(t, len(body), 100)
}

func TestCleanJSONReplyStripsFences(t *testing.T) {
	reply := "```json\n{\"summary\": \"ok\"}\n```"
	assert.Equal(t, `{"summary": "ok"}`, cleanJSONReply(reply))

	reply = "Here is the analysis:\n{\"summary\": \"ok\"}\nHope that helps!"
	assert.Equal(t, `{"summary": "ok"}`, cleanJSONReply(reply))

	assert.Equal(t, "no object here", cleanJSONReply("no object here"))
}

func TestBuildSubmissionPromptIncludesRubric(t *testing.T) {
	rubric := []model.RubricCriterion{{
		ID:          "crit1",
		Description: "Code quality",
		Points:      10,
		Ratings:     []model.RubricRating{{ID: "r1", Description: "Excellent", Points: 10}},
	}}

	prompt := buildSubmissionPrompt("a student's submission", "content", "Essay: write things", rubric)
	assert.Contains(t, prompt, "Code quality")
	assert.Contains(t, prompt, "Excellent")
	assert.Contains(t, prompt, "rubricAssessments")

	plain := buildSubmissionPrompt("a student's submission", "content", "Essay: write things", nil)
	assert.NotContains(t, plain, "rubricAssessments")
}
