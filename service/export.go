package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"

	"admitcheck-backend/compliance"

	"github.com/google/uuid"
)

// ExportRow is one flattened per-evidence per-rule scoring row
type ExportRow struct {
	EvidenceID    uuid.UUID `json:"evidence_id"`
	Description   string    `json:"description"`
	EvidenceType  string    `json:"evidence_type"`
	RuleID        string    `json:"rule_id"`
	Citation      string    `json:"citation"`
	Score         int       `json:"score"`
	MaxScore      int       `json:"max_score"`
	Compliant     bool      `json:"compliant"`
	Likelihood    string    `json:"likelihood"`
	AdverseCount  int       `json:"adverse_count"`
	TopFinding    string    `json:"top_finding"`
	Remediation   string    `json:"remediation"`
	OverallScore  int       `json:"overall_score"`
}

// ExportResult holds the rendered export payload
type ExportResult struct {
	ContentType string
	Filename    string
	Rows        []ExportRow
}

// BuildExportRows scores every evidence item in the assessment and
// flattens the per-rule results into export rows
func (s *AssessmentService) BuildExportRows(ctx context.Context, assessmentID uuid.UUID) ([]ExportRow, error) {
	if s.evaluator == nil {
		return nil, errors.New("compliance evaluator not set")
	}

	items, err := s.ListEvidence(ctx, assessmentID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNoEvidence
	}

	catalog := s.evaluator.Catalog()
	var rows []ExportRow

	for _, item := range items {
		itemAssessment := s.evaluator.Assess(item)

		for _, result := range itemAssessment.Results {
			citation := ""
			if rule, ok := catalog.RuleByID(result.RuleID); ok {
				citation = rule.Citation
			}

			rows = append(rows, ExportRow{
				EvidenceID:   item.ID,
				Description:  item.Description,
				EvidenceType: item.Type,
				RuleID:       result.RuleID,
				Citation:     citation,
				Score:        result.Score,
				MaxScore:     result.MaxScore,
				Compliant:    result.Compliant,
				Likelihood:   string(itemAssessment.Likelihood),
				AdverseCount: countAdverse(result.Findings),
				TopFinding:   topFinding(result.Findings),
				Remediation:  strings.Join(result.Recommendations, "; "),
				OverallScore: itemAssessment.OverallCompliance,
			})
		}
	}

	return rows, nil
}

func countAdverse(findings []compliance.Finding) int {
	n := 0
	for _, f := range findings {
		if f.Type != compliance.FindingStrength {
			n++
		}
	}
	return n
}

// topFinding returns the highest-impact adverse finding, or the first
// finding when nothing adverse was flagged
func topFinding(findings []compliance.Finding) string {
	var best *compliance.Finding
	for i := range findings {
		f := &findings[i]
		if f.Type == compliance.FindingStrength {
			continue
		}
		if best == nil || impactRank(f.Impact) > impactRank(best.Impact) {
			best = f
		}
	}
	if best != nil {
		return best.Description
	}
	if len(findings) > 0 {
		return findings[0].Description
	}
	return ""
}

func impactRank(impact compliance.Impact) int {
	switch impact {
	case compliance.ImpactHigh:
		return 3
	case compliance.ImpactMedium:
		return 2
	case compliance.ImpactLow:
		return 1
	}
	return 0
}

// WriteCSV renders export rows as CSV with a header row
func WriteCSV(w io.Writer, rows []ExportRow) error {
	writer := csv.NewWriter(w)

	header := []string{
		"evidence_id", "description", "evidence_type", "rule_id", "citation",
		"score", "max_score", "compliant", "likelihood",
		"adverse_count", "top_finding", "remediation", "overall_score",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, row := range rows {
		record := []string{
			row.EvidenceID.String(),
			row.Description,
			row.EvidenceType,
			row.RuleID,
			row.Citation,
			strconv.Itoa(row.Score),
			strconv.Itoa(row.MaxScore),
			strconv.FormatBool(row.Compliant),
			row.Likelihood,
			strconv.Itoa(row.AdverseCount),
			row.TopFinding,
			row.Remediation,
			strconv.Itoa(row.OverallScore),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteJSON renders export rows as an indented JSON array
func WriteJSON(w io.Writer, rows []ExportRow) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(rows)
}

// Export scores the assessment's evidence and renders it in the
// requested format. Supported formats: json, csv.
func (s *AssessmentService) Export(ctx context.Context, assessmentID uuid.UUID, format string, w io.Writer) (string, error) {
	rows, err := s.BuildExportRows(ctx, assessmentID)
	if err != nil {
		return "", err
	}

	switch format {
	case "csv":
		return "text/csv", WriteCSV(w, rows)
	case "json", "":
		return "application/json", WriteJSON(w, rows)
	default:
		return "", errors.New("unsupported export format: " + format)
	}
}
