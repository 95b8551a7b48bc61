// Package export builds the downloadable triage workbook for a course.
package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/MekhyW/Link-AutoJourney/internal/model"
)

var triageHeader = []string{
	"Candidate", "Email", "Status", "Overall Score",
	"Submissions", "Completion Rate", "Strengths", "Weaknesses", "Assessment",
}

// CandidateWorkbook renders a course's candidates into a single-sheet
// workbook with a bold, filterable header.
func CandidateWorkbook(course model.Course, candidates []model.CandidateWithSubmissions) (*excelize.File, error) {
	f := excelize.NewFile()

	sheet := "Candidates"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	for col, h := range triageHeader {
		cell := fmt.Sprintf("%s1", colName(col+1))
		if err := f.SetCellStr(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("set cell %s: %w", cell, err)
		}
	}

	bold, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	end := colName(len(triageHeader)) + "1"
	_ = f.SetCellStyle(sheet, "A1", end, bold)
	_ = f.AutoFilter(sheet, "A1:"+end, nil)

	for r, candidate := range candidates {
		row := candidateRow(candidate)
		for c, val := range row {
			cell := fmt.Sprintf("%s%d", colName(c+1), r+2)
			if err := f.SetCellStr(sheet, cell, val); err != nil {
				return nil, fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
	}

	for c := 1; c <= len(triageHeader); c++ {
		w := float64(len(triageHeader[c-1])) * 1.2
		if w < 14 {
			w = 14
		}
		if w > 50 {
			w = 50
		}
		_ = f.SetColWidth(sheet, colName(c), colName(c), w)
	}

	if err := f.SetDocProps(&excelize.DocProperties{Title: course.Name + " candidates"}); err != nil {
		return nil, fmt.Errorf("set doc properties: %w", err)
	}
	return f, nil
}

func candidateRow(c model.CandidateWithSubmissions) []string {
	score := ""
	if c.OverallScore != nil {
		score = fmt.Sprintf("%.2f", *c.OverallScore)
	}
	return []string{
		c.Name,
		c.Email,
		c.Status,
		score,
		fmt.Sprintf("%d", len(c.Submissions)),
		fmt.Sprintf("%.0f%%", c.CompletionRate*100),
		strings.Join(c.Strengths, "; "),
		strings.Join(c.Weaknesses, "; "),
		c.AIInsights,
	}
}

// colName converts a 1-based column index to its A1 letter form.
func colName(n int) string {
	name := ""
	for n > 0 {
		n--
		name = string(rune('A'+n%26)) + name
		n /= 26
	}
	return name
}
