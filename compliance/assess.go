package compliance

import "admitcheck-backend/models"

// Likelihood classifies how likely an evidence item is to be admitted
type Likelihood string

const (
	LikelihoodHigh   Likelihood = "high"
	LikelihoodMedium Likelihood = "medium"
	LikelihoodLow    Likelihood = "low"
)

// AdmissibilityAssessment is the richer aggregate over one evidence
// item: the full per-rule results plus an overall score and a
// likelihood classification.
type AdmissibilityAssessment struct {
	OverallCompliance int                `json:"overall_compliance"`
	Likelihood        Likelihood         `json:"likelihood"`
	Results           []ComplianceResult `json:"results"`
	KeyFindings       []Finding          `json:"key_findings"`
	Recommendations   []string           `json:"recommendations"`
}

// Assess runs the full applicable rule set against one evidence item
// and classifies the admissibility likelihood: High at overall >= 85
// with no high-impact adverse findings, Medium at >= 70 with at most
// one, otherwise Low. Strength findings never count against the
// classification.
func (e *Evaluator) Assess(item *models.EvidenceItem) AdmissibilityAssessment {
	results := e.AnalyzeEvidence(item)
	overall := overallCompliance(results)

	var keyFindings []Finding
	var recommendations []string
	highImpactAdverse := 0

	for _, r := range results {
		for _, f := range r.Findings {
			if f.Type == FindingStrength {
				continue
			}
			if f.Impact == ImpactHigh {
				highImpactAdverse++
				keyFindings = append(keyFindings, f)
			}
		}
		recommendations = append(recommendations, r.Recommendations...)
	}

	likelihood := LikelihoodLow
	switch {
	case overall >= 85 && highImpactAdverse == 0:
		likelihood = LikelihoodHigh
	case overall >= 70 && highImpactAdverse <= 1:
		likelihood = LikelihoodMedium
	}

	return AdmissibilityAssessment{
		OverallCompliance: overall,
		Likelihood:        likelihood,
		Results:           results,
		KeyFindings:       keyFindings,
		Recommendations:   recommendations,
	}
}
