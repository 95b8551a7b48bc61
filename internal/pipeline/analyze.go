package pipeline

import (
	"context"
	"encoding/base64"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/MekhyW/Link-AutoJourney/internal/batch"
	"github.com/MekhyW/Link-AutoJourney/internal/metrics"
	"github.com/MekhyW/Link-AutoJourney/internal/model"
	"github.com/MekhyW/Link-AutoJourney/internal/storage"
)

// workItem pairs a stored submission with its assignment for the
// analysis queue.
type workItem struct {
	submission model.Submission
	assignment model.Assignment
}

// RunSubmissionAnalysis syncs a course's submissions from Canvas, then
// drains every unanalyzed submission through the batch queue and the AI
// gateway, and finally regenerates each candidate's insight fields.
// Progress: 30 after the sync phase, 30..90 through the analysis loop,
// 100 on completion.
func (p *Pipeline) RunSubmissionAnalysis(ctx context.Context, jobID, courseID int) error {
	course, err := p.store.Course(courseID)
	if err != nil {
		return p.failJob(jobID, model.JobTypeSubmissionAnalysis, err)
	}

	assignments := p.store.Assignments(courseID)

	if p.canvas.Configured() {
		candidates := p.store.Candidates(courseID)
		for _, assignment := range assignments {
			subs, err := p.canvas.GetAssignmentSubmissions(ctx, course.CanvasID, assignment.CanvasID)
			if err != nil {
				p.log.Error().Err(err).Str("assignment", assignment.Name).Msg("submission fetch failed, skipping assignment")
				continue
			}
			p.syncSubmissions(assignment, subs, candidates)
		}
	}

	items := p.unanalyzedItems(assignments)
	p.store.UpdateJob(jobID, func(j *model.ProcessingJob) {
		j.TotalItems = len(items)
		j.Progress = 30
	})

	p.drainAnalyses(ctx, jobID, items, func(processed, total int) int {
		return 30 + int(math.Round(float64(processed)/float64(total)*60))
	})

	for _, candidate := range p.store.Candidates(courseID) {
		if err := p.refreshCandidateInsights(ctx, candidate, assignments); err != nil {
			p.log.Error().Err(err).Str("candidate", candidate.Name).Msg("insight generation failed")
		}
	}

	p.store.CompleteJob(jobID)
	metrics.JobsFinished.WithLabelValues(model.JobTypeSubmissionAnalysis, model.JobStatusCompleted).Inc()
	p.log.Info().Int("course", courseID).Int("submissions", len(items)).Msg("submission analysis completed")
	return nil
}

// RunCandidateAnalysis re-analyzes a single candidate's pending
// submissions and regenerates their insights.
func (p *Pipeline) RunCandidateAnalysis(ctx context.Context, jobID, candidateID int) error {
	candidate, err := p.store.Candidate(candidateID)
	if err != nil {
		return p.failJob(jobID, model.JobTypeCandidateAnalysis, err)
	}

	assignments := p.store.Assignments(candidate.CourseID)
	byID := make(map[int]model.Assignment, len(assignments))
	for _, a := range assignments {
		byID[a.ID] = a
	}

	var items []workItem
	for _, sub := range p.store.Submissions(storage.SubmissionFilter{CandidateID: candidateID}) {
		if sub.IsAnalyzed {
			continue
		}
		assignment, ok := byID[sub.AssignmentID]
		if !ok {
			p.log.Warn().Int("submission", sub.ID).Msg("submission references unknown assignment, skipping")
			continue
		}
		items = append(items, workItem{submission: sub, assignment: assignment})
	}

	p.store.UpdateJob(jobID, func(j *model.ProcessingJob) { j.TotalItems = len(items) })

	p.drainAnalyses(ctx, jobID, items, func(processed, total int) int {
		return int(math.Round(float64(processed) / float64(total) * 90))
	})

	if err := p.refreshCandidateInsights(ctx, candidate, assignments); err != nil {
		p.log.Error().Err(err).Str("candidate", candidate.Name).Msg("insight generation failed")
		return p.failJob(jobID, model.JobTypeCandidateAnalysis, err)
	}

	p.store.CompleteJob(jobID)
	metrics.JobsFinished.WithLabelValues(model.JobTypeCandidateAnalysis, model.JobStatusCompleted).Inc()
	return nil
}

func (p *Pipeline) unanalyzedItems(assignments []model.Assignment) []workItem {
	var items []workItem
	for _, assignment := range assignments {
		for _, sub := range p.store.Submissions(storage.SubmissionFilter{AssignmentID: assignment.ID}) {
			if sub.IsAnalyzed {
				continue
			}
			items = append(items, workItem{submission: sub, assignment: assignment})
		}
	}
	return items
}

// drainAnalyses enqueues every item and waits for each future in turn,
// updating job progress as results settle. A failed analysis is logged
// and leaves the submission unanalyzed; it never aborts the batch.
func (p *Pipeline) drainAnalyses(ctx context.Context, jobID int, items []workItem, progressOf func(processed, total int) int) {
	if len(items) == 0 {
		return
	}

	futures := make([]<-chan batch.Result, len(items))
	for i, item := range items {
		item := item
		futures[i] = p.queue.Enqueue(func() (any, error) {
			return p.analyzeSubmission(ctx, item.submission, item.assignment)
		})
	}

	processed := 0
	for i, future := range futures {
		res := <-future
		processed++

		if res.Err != nil {
			metrics.AnalysesFailed.Inc()
			p.log.Error().Err(res.Err).Int("submission", items[i].submission.ID).Msg("submission analysis failed")
		} else if analysis, ok := res.Value.(*model.SubmissionAnalysis); ok {
			if err := p.store.MarkAnalyzed(items[i].submission.ID, analysis); err != nil {
				p.log.Warn().Err(err).Int("submission", items[i].submission.ID).Msg("could not store analysis")
			} else {
				metrics.AnalysesCompleted.Inc()
			}
		}

		progress := progressOf(processed, len(items))
		p.store.UpdateJob(jobID, func(j *model.ProcessingJob) {
			j.ProcessedItems = processed
			j.Progress = progress
		})
	}
}

// analyzeSubmission routes one submission to the right gateway call.
func (p *Pipeline) analyzeSubmission(ctx context.Context, sub model.Submission, assignment model.Assignment) (*model.SubmissionAnalysis, error) {
	assignmentContext := fmt.Sprintf("%s: %s", assignment.Name, assignment.Description)

	switch {
	case sub.Content != "":
		return p.ai.AnalyzeTextSubmission(ctx, sub.Content, assignmentContext, assignment.Rubric)
	case len(sub.Attachments) > 0:
		return p.analyzeAttachment(ctx, sub.Attachments[0], assignmentContext, assignment.Rubric)
	default:
		return &model.SubmissionAnalysis{
			Summary:      "No content to analyze",
			Improvements: []string{"No submission content found"},
			Confidence:   0.1,
		}, nil
	}
}

// analyzeAttachment downloads the first attachment and analyzes it
// according to its content type. Download and decode problems degrade to low
// confidence placeholder analyses; only gateway errors propagate, so the
// caller can leave the submission unanalyzed.
func (p *Pipeline) analyzeAttachment(ctx context.Context, att model.Attachment, assignmentContext string, rubric []model.RubricCriterion) (*model.SubmissionAnalysis, error) {
	if att.URL == "" {
		return &model.SubmissionAnalysis{
			Summary:          "File attachment without URL",
			Strengths:        []string{"File submitted"},
			Improvements:     []string{"Attachment URL not available for analysis"},
			SkillsIdentified: []string{"File submission"},
			Confidence:       0.2,
		}, nil
	}

	p.log.Debug().Str("name", att.Name).Str("type", att.Type).Msg("processing attachment")

	data, err := p.canvas.DownloadAttachment(ctx, att.URL)
	if err != nil {
		return &model.SubmissionAnalysis{
			Summary:          "File analysis failed",
			Strengths:        []string{"File submitted"},
			Improvements:     []string{fmt.Sprintf("File download failed: %v", err)},
			SkillsIdentified: []string{"File submission"},
			Confidence:       0.2,
		}, nil
	}

	switch {
	case strings.Contains(att.Type, "pdf"):
		text, err := extractPDFText(data)
		if err == nil && strings.TrimSpace(text) != "" {
			return p.ai.AnalyzeTextSubmission(ctx, text, assignmentContext, rubric)
		}
		p.log.Debug().Err(err).Str("name", att.Name).Msg("PDF text extraction failed, using document analysis")
		return p.ai.AnalyzeDocumentSubmission(ctx, string(data), assignmentContext, rubric)

	case strings.HasPrefix(att.Type, "image/") || strings.HasPrefix(att.Type, "video/"):
		encoded := base64.StdEncoding.EncodeToString(data)
		return p.ai.AnalyzeMediaSubmission(ctx, encoded, att.Type, assignmentContext, rubric)

	default:
		if utf8.Valid(data) && strings.TrimSpace(string(data)) != "" {
			return p.ai.AnalyzeTextSubmission(ctx, string(data), assignmentContext, rubric)
		}
	}

	return &model.SubmissionAnalysis{
		Summary:          fmt.Sprintf("File submitted: %s", att.Name),
		Strengths:        []string{"File submitted on time"},
		Improvements:     []string{fmt.Sprintf("Unable to analyze %s file type automatically", att.Type)},
		SkillsIdentified: []string{"File management"},
		Confidence:       0.3,
	}, nil
}
