package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MekhyW/Link-AutoJourney/internal/model"
)

func TestMatchPrefersCanvasUserID(t *testing.T) {
	candidates := []model.Candidate{
		{ID: 1, CanvasUserID: "100", Name: "Ana Silva", Email: "ana@example.com"},
		{ID: 2, CanvasUserID: "200", Name: "Bruno Costa", Email: "bruno@example.com"},
	}

	// Email and name point at Ana on purpose; the ID must still win.
	got, tier := Match("200", "Ana Silva", "ana@example.com", candidates)
	require.NotNil(t, got)
	assert.Equal(t, 2, got.ID)
	assert.Equal(t, TierID, tier)
}

func TestMatchFallsBackToEmail(t *testing.T) {
	candidates := []model.Candidate{
		{ID: 1, CanvasUserID: "100", Name: "Ana Silva", Email: "ana@example.com"},
	}

	got, tier := Match("999", "Someone Else", "ana@example.com", candidates)
	require.NotNil(t, got)
	assert.Equal(t, 1, got.ID)
	assert.Equal(t, TierEmail, tier)
}

func TestMatchEmailIsCaseSensitive(t *testing.T) {
	candidates := []model.Candidate{
		{ID: 1, CanvasUserID: "100", Name: "Ana Silva", Email: "ana@example.com"},
	}

	got, tier := Match("", "", "ANA@example.com", candidates)
	assert.Nil(t, got)
	assert.Equal(t, TierNone, tier)
}

func TestMatchExactNameBeatsFuzzy(t *testing.T) {
	candidates := []model.Candidate{
		{ID: 1, CanvasUserID: "100", Name: "Ana Silva Costa"},
		{ID: 2, CanvasUserID: "200", Name: "Ana Silva"},
	}

	// "Ana Silva" is a substring of candidate 1's name, but candidate 2
	// matches exactly and must be picked.
	got, tier := Match("999", "Ana Silva", "", candidates)
	require.NotNil(t, got)
	assert.Equal(t, 2, got.ID)
	assert.Equal(t, TierExactName, tier)
}

func TestMatchNormalizedSubstring(t *testing.T) {
	candidates := []model.Candidate{
		{ID: 1, CanvasUserID: "100", Name: "Ana Silva Costa"},
	}

	got, tier := Match("999", "  ana silva  ", "", candidates)
	require.NotNil(t, got)
	assert.Equal(t, 1, got.ID)
	assert.Equal(t, TierFuzzyName, tier)

	// The containment check runs both directions.
	got, tier = Match("999", "Ana Silva Costa Junior", "", candidates)
	require.NotNil(t, got)
	assert.Equal(t, 1, got.ID)
	assert.Equal(t, TierFuzzyName, tier)
}

func TestMatchNoCandidate(t *testing.T) {
	candidates := []model.Candidate{
		{ID: 1, CanvasUserID: "100", Name: "Ana Silva", Email: "ana@example.com"},
	}

	got, tier := Match("999", "Carlos Pereira", "carlos@example.com", candidates)
	assert.Nil(t, got)
	assert.Equal(t, TierNone, tier)
}

func TestMatchEmptyInputsNeverMatchEmptyFields(t *testing.T) {
	candidates := []model.Candidate{
		{ID: 1, CanvasUserID: "", Name: "", Email: ""},
	}

	got, tier := Match("", "", "", candidates)
	assert.Nil(t, got)
	assert.Equal(t, TierNone, tier)
}
