package compliance

import (
	"testing"

	"admitcheck-backend/models"
)

func TestAssessHighLikelihood(t *testing.T) {
	e := newTestEvaluator()

	// Fully documented item: high overall, no high-impact adverse findings
	item := testItem(models.EvidenceMetadata{
		DigitalSignature: strPtr("x509:serial-12"),
		HashValue:        strPtr("sha256:91f3"),
		ChainOfCustody:   []models.CustodyEntry{{Handler: "examiner", Action: "imaged"}},
		DocumentType:     strPtr("public_record"),
		IsOriginal:       boolPtr(true),
		RegularCourse:    boolPtr(true),
		RecordKeeper:     strPtr("county clerk"),
		RelevanceScore:   intPtr(90),
	})

	got := e.Assess(item)

	if got.Likelihood != LikelihoodHigh {
		t.Errorf("likelihood = %s, want high (overall %d)", got.Likelihood, got.OverallCompliance)
	}
	if got.OverallCompliance < 85 {
		t.Errorf("overall = %d, want >= 85", got.OverallCompliance)
	}
	if len(got.KeyFindings) != 0 {
		t.Errorf("expected no high-impact adverse findings, got %d", len(got.KeyFindings))
	}
}

func TestAssessMediumLikelihood(t *testing.T) {
	e := newTestEvaluator()

	// Same item minus the signature: one high-impact adverse finding,
	// overall still above 70
	item := testItem(models.EvidenceMetadata{
		HashValue:      strPtr("sha256:91f3"),
		ChainOfCustody: []models.CustodyEntry{{Handler: "examiner", Action: "imaged"}},
		DocumentType:   strPtr("public_record"),
		IsOriginal:     boolPtr(true),
		RegularCourse:  boolPtr(true),
		RecordKeeper:   strPtr("county clerk"),
		RelevanceScore: intPtr(90),
	})

	got := e.Assess(item)

	if got.Likelihood != LikelihoodMedium {
		t.Errorf("likelihood = %s, want medium (overall %d, key findings %d)",
			got.Likelihood, got.OverallCompliance, len(got.KeyFindings))
	}
	if len(got.KeyFindings) != 1 {
		t.Fatalf("key findings = %d, want 1", len(got.KeyFindings))
	}
	if got.KeyFindings[0].RuleID != "fre-901" {
		t.Errorf("key finding from %s, want fre-901", got.KeyFindings[0].RuleID)
	}
}

func TestAssessLowLikelihood(t *testing.T) {
	e := newTestEvaluator()

	got := e.Assess(testItem(models.EvidenceMetadata{}))

	if got.Likelihood != LikelihoodLow {
		t.Errorf("likelihood = %s, want low", got.Likelihood)
	}
	if got.OverallCompliance != 45 {
		t.Errorf("overall = %d, want 45", got.OverallCompliance)
	}
	if len(got.Recommendations) == 0 {
		t.Error("expected aggregated recommendations for an undocumented item")
	}
}

func TestAssessKeyFindingsExcludeStrengths(t *testing.T) {
	e := newTestEvaluator()

	got := e.Assess(testItem(models.EvidenceMetadata{
		PrejudicialRisk: strPtr("high"),
	}))

	for _, f := range got.KeyFindings {
		if f.Type == FindingStrength {
			t.Errorf("strength finding leaked into key findings: %+v", f)
		}
		if f.Impact != ImpactHigh {
			t.Errorf("non-high-impact finding in key findings: %+v", f)
		}
	}
	if len(got.KeyFindings) == 0 {
		t.Error("expected high-impact adverse findings for an undocumented, prejudicial item")
	}
}

func TestAssessResultsCoverFixedRuleSet(t *testing.T) {
	e := newTestEvaluator()

	got := e.Assess(testItem(models.EvidenceMetadata{}))
	if len(got.Results) != 6 {
		t.Fatalf("results = %d, want 6", len(got.Results))
	}
}
