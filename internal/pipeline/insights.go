package pipeline

import (
	"context"
	"fmt"

	"github.com/MekhyW/Link-AutoJourney/internal/ai"
	"github.com/MekhyW/Link-AutoJourney/internal/model"
	"github.com/MekhyW/Link-AutoJourney/internal/storage"
)

// refreshCandidateInsights recomputes a candidate's aggregate fields from
// their analyzed submissions and asks the gateway for an updated
// readiness assessment. A candidate with no analyzed submissions is left
// untouched.
func (p *Pipeline) refreshCandidateInsights(ctx context.Context, candidate model.Candidate, assignments []model.Assignment) error {
	subs := p.store.Submissions(storage.SubmissionFilter{CandidateID: candidate.ID})

	var analyzed []model.Submission
	for _, sub := range subs {
		if sub.AIAnalysis != nil {
			analyzed = append(analyzed, sub)
		}
	}
	if len(analyzed) == 0 {
		p.log.Debug().Str("candidate", candidate.Name).Msg("no analyzed submissions, keeping prior insights")
		return nil
	}

	names := make(map[int]string, len(assignments))
	for _, a := range assignments {
		names[a.ID] = a.Name
	}

	history := make([]ai.SubmissionRecord, 0, len(analyzed))
	confidenceSum := 0.0
	for _, sub := range analyzed {
		confidenceSum += sub.AIAnalysis.Confidence

		name, ok := names[sub.AssignmentID]
		if !ok {
			name = "Unknown"
		}
		score := 0.0
		if sub.Score != nil {
			score = *sub.Score
		}
		history = append(history, ai.SubmissionRecord{
			AssignmentName: name,
			Score:          score,
			Summary:        sub.AIAnalysis.Summary,
			Strengths:      sub.AIAnalysis.Strengths,
			Improvements:   sub.AIAnalysis.Improvements,
			Skills:         sub.AIAnalysis.SkillsIdentified,
		})
	}

	insights, err := p.ai.GenerateCandidateInsights(ctx, history)
	if err != nil {
		return fmt.Errorf("generate insights for %s: %w", candidate.Name, err)
	}

	overall := confidenceSum / float64(len(analyzed))
	completion := 0.0
	if len(assignments) > 0 {
		// Deliberately not clamped to 1.0: duplicate or extra submissions
		// push the rate above 100% and that is worth seeing.
		completion = float64(len(subs)) / float64(len(assignments))
	}

	_, err = p.store.UpdateCandidate(candidate.ID, func(c *model.Candidate) {
		c.OverallScore = &overall
		c.SubmissionCount = len(subs)
		c.CompletionRate = completion
		c.Status = insights.ReadinessLevel
		c.Strengths = insights.TopStrengths
		c.Weaknesses = insights.AreasForImprovement
		c.AIInsights = insights.OverallAssessment
	})
	return err
}
