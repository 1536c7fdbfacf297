package service

import (
	"encoding/json"
	"strings"
	"testing"

	"admitcheck-backend/compliance"
	"admitcheck-backend/models"
)

func TestCleanJSONStripsCodeFences(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "fenced with language",
			in:   "```json\n{\"likelihood\": \"high\"}\n```",
			want: `{"likelihood": "high"}`,
		},
		{
			name: "fenced without language",
			in:   "```\n{\"likelihood\": \"low\"}\n```",
			want: `{"likelihood": "low"}`,
		},
		{
			name: "plain",
			in:   `{"likelihood": "medium"}`,
			want: `{"likelihood": "medium"}`,
		},
		{
			name: "surrounding whitespace",
			in:   "  \n{\"a\": 1}\n  ",
			want: `{"a": 1}`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := string(cleanJSON([]byte(tc.in)))
			if got != tc.want {
				t.Errorf("cleanJSON = %q, want %q", got, tc.want)
			}

			var probe map[string]interface{}
			if err := json.Unmarshal([]byte(got), &probe); err != nil {
				t.Errorf("cleaned output is not valid JSON: %v", err)
			}
		})
	}
}

func TestDeterministicOpinionTakesWorstLikelihood(t *testing.T) {
	cases := []struct {
		name        string
		likelihoods []compliance.Likelihood
		want        string
	}{
		{"all high", []compliance.Likelihood{compliance.LikelihoodHigh, compliance.LikelihoodHigh}, "high"},
		{"one medium", []compliance.Likelihood{compliance.LikelihoodHigh, compliance.LikelihoodMedium}, "medium"},
		{"one low dominates", []compliance.Likelihood{compliance.LikelihoodHigh, compliance.LikelihoodLow, compliance.LikelihoodMedium}, "low"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var assessments []compliance.AdmissibilityAssessment
			for _, l := range tc.likelihoods {
				assessments = append(assessments, compliance.AdmissibilityAssessment{Likelihood: l})
			}

			got := deterministicOpinion(assessments)
			if got.Likelihood != tc.want {
				t.Errorf("likelihood = %q, want %q", got.Likelihood, tc.want)
			}
			if got.Summary == "" {
				t.Error("expected a non-empty summary")
			}
		})
	}
}

func TestOverallAcrossItems(t *testing.T) {
	if got := overallAcrossItems(nil); got != 0 {
		t.Errorf("empty input: got %d, want 0", got)
	}

	assessments := []compliance.AdmissibilityAssessment{
		{OverallCompliance: 80},
		{OverallCompliance: 60},
		{OverallCompliance: 71},
	}
	if got := overallAcrossItems(assessments); got != 70 {
		t.Errorf("got %d, want 70", got)
	}
}

func TestInitializeSteps(t *testing.T) {
	s := &ReportService{}
	items := []*models.EvidenceItem{
		{Description: "Email thread between the parties"},
		{Description: "A very long description of an exhibit that exceeds the forty character step name cap"},
	}

	steps := s.initializeSteps(items)

	if len(steps) != 4 {
		t.Fatalf("steps = %d, want per-item steps plus opinion and assembly", len(steps))
	}
	for _, step := range steps {
		if step.Status != "pending" {
			t.Errorf("step %q status = %q, want pending", step.Name, step.Status)
		}
	}
	if steps[2].Name != opinionStepName {
		t.Errorf("step 3 = %q, want %q", steps[2].Name, opinionStepName)
	}
	if steps[3].Name != assembleStepName {
		t.Errorf("step 4 = %q, want %q", steps[3].Name, assembleStepName)
	}

	if !strings.HasSuffix(steps[1].Name, "...") {
		t.Errorf("long description not truncated: %q", steps[1].Name)
	}
}

func TestFormatScoringIncludesFindingsAndOverall(t *testing.T) {
	a := &compliance.AdmissibilityAssessment{
		OverallCompliance: 72,
		Likelihood:        compliance.LikelihoodMedium,
		Results: []compliance.ComplianceResult{
			{
				RuleID:    "fre-901",
				Score:     85,
				MaxScore:  100,
				Compliant: true,
				Findings: []compliance.Finding{
					{Type: compliance.FindingWeakness, Impact: compliance.ImpactMedium, Description: "No content hash recorded"},
				},
				Recommendations: []string{"Compute and record a cryptographic hash"},
			},
		},
	}

	got := formatScoring(a)

	for _, want := range []string{
		"Rule fre-901: 85/100 (compliant)",
		"No content hash recorded",
		"recommendation: Compute and record a cryptographic hash",
		"Overall compliance: 72%, likelihood of admission: medium",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("formatScoring output missing %q:\n%s", want, got)
		}
	}
}
