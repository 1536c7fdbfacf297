package compliance

import (
	"errors"
	"testing"

	"admitcheck-backend/models"

	"github.com/google/go-cmp/cmp"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
func intPtr(n int) *int       { return &n }

func testItem(md models.EvidenceMetadata) *models.EvidenceItem {
	return &models.EvidenceItem{
		Type:        "email",
		Description: "Email thread between the parties",
		Source:      "Exchange server export",
		Metadata:    md,
	}
}

func newTestEvaluator() *Evaluator {
	return NewEvaluator(NewCatalog())
}

func TestEvaluateRuleUnknownID(t *testing.T) {
	e := newTestEvaluator()
	item := testItem(models.EvidenceMetadata{})

	for _, id := range []string{"fre-999", "", "not-a-rule"} {
		_, err := e.EvaluateRule(id, item)
		if !errors.Is(err, ErrUnknownRule) {
			t.Errorf("EvaluateRule(%q): got %v, want ErrUnknownRule", id, err)
		}
	}

	// Catalog-present but unscored rules are also unknown to the evaluator
	_, err := e.EvaluateRule("fre-501", item)
	if !errors.Is(err, ErrUnknownRule) {
		t.Errorf("EvaluateRule(fre-501): got %v, want ErrUnknownRule", err)
	}
}

func TestEvaluateRuleAliasEquivalence(t *testing.T) {
	e := newTestEvaluator()
	item := testItem(models.EvidenceMetadata{
		IsOriginal: boolPtr(true),
	})

	canonical, err := e.EvaluateRule("fre-1001", item)
	if err != nil {
		t.Fatalf("canonical id failed: %v", err)
	}
	legacy, err := e.EvaluateRule("FRE_1002", item)
	if err != nil {
		t.Fatalf("legacy id failed: %v", err)
	}

	if diff := cmp.Diff(canonical, legacy); diff != "" {
		t.Errorf("alias produced a different result (-canonical +legacy):\n%s", diff)
	}
	if legacy.RuleID != "fre-1001" {
		t.Errorf("result rule id = %q, want canonical fre-1001", legacy.RuleID)
	}
}

func TestEvaluateRuleDeterministic(t *testing.T) {
	e := newTestEvaluator()
	item := testItem(models.EvidenceMetadata{
		DigitalSignature: strPtr("pgp:ab12"),
		HashValue:        strPtr("deadbeef"),
		RelevanceScore:   intPtr(72),
	})

	first := e.Assess(item)
	second := e.Assess(item)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated assessment differs (-first +second):\n%s", diff)
	}
}

func TestAuthenticationSignatureAndCustody(t *testing.T) {
	e := newTestEvaluator()
	item := testItem(models.EvidenceMetadata{
		DigitalSignature: strPtr("x509:serial-0042"),
		ChainOfCustody: []models.CustodyEntry{
			{Handler: "Det. Ruiz", Action: "collected"},
			{Handler: "Evidence clerk", Action: "checked in"},
		},
	})

	result, err := e.EvaluateRule("fre-901", item)
	if err != nil {
		t.Fatalf("EvaluateRule: %v", err)
	}

	if result.Score != 85 {
		t.Errorf("score = %d, want 85", result.Score)
	}
	if !result.Compliant {
		t.Error("expected compliant at 85/100")
	}

	// The missing hash still surfaces as a weakness with a remediation
	var sawHashWeakness bool
	for _, f := range result.Findings {
		if f.Type == FindingWeakness && f.Impact == ImpactMedium {
			sawHashWeakness = true
		}
		if f.RuleID != "fre-901" {
			t.Errorf("finding rule id = %q, want fre-901", f.RuleID)
		}
	}
	if !sawHashWeakness {
		t.Error("expected a medium-impact weakness for the missing hash")
	}
	if len(result.Recommendations) != 1 {
		t.Errorf("recommendations = %d, want 1", len(result.Recommendations))
	}
}

func TestAuthenticationBareMetadata(t *testing.T) {
	e := newTestEvaluator()

	result, err := e.EvaluateRule("fre-901", testItem(models.EvidenceMetadata{}))
	if err != nil {
		t.Fatalf("EvaluateRule: %v", err)
	}

	if result.Score != 40 {
		t.Errorf("score = %d, want base 40", result.Score)
	}
	if result.Compliant {
		t.Error("expected non-compliant with no authentication support")
	}
	if len(result.Recommendations) != 3 {
		t.Errorf("recommendations = %d, want 3", len(result.Recommendations))
	}
}

func TestBestEvidenceOriginal(t *testing.T) {
	e := newTestEvaluator()

	result, err := e.EvaluateRule("fre-1001", testItem(models.EvidenceMetadata{
		IsOriginal: boolPtr(true),
	}))
	if err != nil {
		t.Fatalf("EvaluateRule: %v", err)
	}

	if result.Score != 85 {
		t.Errorf("score = %d, want 85", result.Score)
	}
	if !result.Compliant {
		t.Error("expected original to be compliant")
	}
}

func TestBestEvidenceCopyWithoutJustification(t *testing.T) {
	e := newTestEvaluator()

	result, err := e.EvaluateRule("fre-1001", testItem(models.EvidenceMetadata{
		IsOriginal: boolPtr(false),
	}))
	if err != nil {
		t.Fatalf("EvaluateRule: %v", err)
	}

	if result.Score != 40 {
		t.Errorf("score = %d, want base 40", result.Score)
	}
	if result.Compliant {
		t.Error("unjustified copy must not be compliant")
	}
	if len(result.Recommendations) == 0 {
		t.Error("expected a remediation step for the unjustified copy")
	}

	// Adding the justification raises the score past the threshold
	justified, err := e.EvaluateRule("fre-1001", testItem(models.EvidenceMetadata{
		IsOriginal:        boolPtr(false),
		CopyJustification: strPtr("original destroyed in routine retention cycle"),
	}))
	if err != nil {
		t.Fatalf("EvaluateRule: %v", err)
	}
	if justified.Score <= result.Score {
		t.Errorf("justified copy score %d should exceed unjustified %d", justified.Score, result.Score)
	}
}

func TestHearsayOverrideBeatsBusinessRecords(t *testing.T) {
	e := newTestEvaluator()

	// Hearsay with no exception caps the score even when business-record
	// foundations are otherwise present
	overridden, err := e.EvaluateRule("fre-803", testItem(models.EvidenceMetadata{
		IsHearsay:     boolPtr(true),
		RegularCourse: boolPtr(true),
		RecordKeeper:  strPtr("custodian of records"),
	}))
	if err != nil {
		t.Fatalf("EvaluateRule: %v", err)
	}

	if overridden.Score != 20 {
		t.Errorf("score = %d, want overridden 20", overridden.Score)
	}
	if overridden.Compliant {
		t.Error("unexcepted hearsay must not be compliant")
	}

	// Identifying the exception restores the business-records path
	excepted, err := e.EvaluateRule("fre-803", testItem(models.EvidenceMetadata{
		IsHearsay:        boolPtr(true),
		HearsayException: strPtr("business_records"),
		RegularCourse:    boolPtr(true),
		RecordKeeper:     strPtr("custodian of records"),
	}))
	if err != nil {
		t.Fatalf("EvaluateRule: %v", err)
	}
	if excepted.Score != 85 {
		t.Errorf("score = %d, want 85", excepted.Score)
	}
	if !excepted.Compliant {
		t.Error("expected business records with exception to be compliant")
	}
}

func TestRelevanceScaling(t *testing.T) {
	e := newTestEvaluator()

	cases := []struct {
		name      string
		score     *int
		want      int
		compliant bool
	}{
		{"unassessed", nil, 25, false},
		{"low", intPtr(30), 45, false},      // 25 + round(30*0.65)
		{"moderate", intPtr(60), 64, false}, // 25 + 39
		{"high", intPtr(80), 77, true},      // 25 + 52
		{"maximal", intPtr(100), 90, true},  // 25 + 65
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := e.EvaluateRule("fre-401", testItem(models.EvidenceMetadata{
				RelevanceScore: tc.score,
			}))
			if err != nil {
				t.Fatalf("EvaluateRule: %v", err)
			}
			if result.Score != tc.want {
				t.Errorf("score = %d, want %d", result.Score, tc.want)
			}
			if result.Compliant != tc.compliant {
				t.Errorf("compliant = %v, want %v", result.Compliant, tc.compliant)
			}
		})
	}
}

func TestRelevanceScoreClamped(t *testing.T) {
	e := newTestEvaluator()

	result, err := e.EvaluateRule("fre-401", testItem(models.EvidenceMetadata{
		RelevanceScore: intPtr(250),
	}))
	if err != nil {
		t.Fatalf("EvaluateRule: %v", err)
	}
	if result.Score > result.MaxScore {
		t.Errorf("score %d exceeds max %d", result.Score, result.MaxScore)
	}
	if result.Score != 90 {
		t.Errorf("score = %d, want clamped 90", result.Score)
	}
}

func TestPrejudiceTiers(t *testing.T) {
	e := newTestEvaluator()

	cases := []struct {
		risk      *string
		want      int
		compliant bool
	}{
		{nil, 80, true},
		{strPtr("low"), 80, true},
		{strPtr("medium"), 60, false},
		{strPtr("HIGH"), 40, false},
	}

	for _, tc := range cases {
		result, err := e.EvaluateRule("fre-403", testItem(models.EvidenceMetadata{
			PrejudicialRisk: tc.risk,
		}))
		if err != nil {
			t.Fatalf("EvaluateRule: %v", err)
		}
		if result.Score != tc.want {
			t.Errorf("risk %v: score = %d, want %d", tc.risk, result.Score, tc.want)
		}
		if result.Compliant != tc.compliant {
			t.Errorf("risk %v: compliant = %v, want %v", tc.risk, result.Compliant, tc.compliant)
		}
	}
}

func TestSelfAuthenticationClasses(t *testing.T) {
	e := newTestEvaluator()

	cases := []struct {
		docType *string
		want    int
	}{
		{strPtr("public_record"), 80},
		{strPtr("Certified_Record"), 70},
		{strPtr("contract"), 35},
		{nil, 35},
	}

	for _, tc := range cases {
		result, err := e.EvaluateRule("fre-902", testItem(models.EvidenceMetadata{
			DocumentType: tc.docType,
		}))
		if err != nil {
			t.Fatalf("EvaluateRule: %v", err)
		}
		if result.Score != tc.want {
			t.Errorf("docType %v: score = %d, want %d", tc.docType, result.Score, tc.want)
		}
	}
}

// Adding supportive metadata must never lower any rule score or the
// overall percentage.
func TestScoreMonotonicity(t *testing.T) {
	e := newTestEvaluator()

	bare := models.EvidenceMetadata{}
	enriched := models.EvidenceMetadata{
		DigitalSignature: strPtr("x509:serial-7"),
		HashValue:        strPtr("cafef00d"),
		ChainOfCustody:   []models.CustodyEntry{{Handler: "examiner", Action: "imaged"}},
		IsOriginal:       boolPtr(true),
		RegularCourse:    boolPtr(true),
		RecordKeeper:     strPtr("IT custodian"),
		RelevanceScore:   intPtr(90),
	}

	bareResults := e.AnalyzeEvidence(testItem(bare))
	richResults := e.AnalyzeEvidence(testItem(enriched))

	if len(bareResults) != len(richResults) {
		t.Fatalf("result count changed: %d vs %d", len(bareResults), len(richResults))
	}

	for i := range bareResults {
		if richResults[i].Score < bareResults[i].Score {
			t.Errorf("%s: enriched score %d below bare %d",
				bareResults[i].RuleID, richResults[i].Score, bareResults[i].Score)
		}
	}

	bareOverall := e.CalculateOverallCompliance(testItem(bare))
	richOverall := e.CalculateOverallCompliance(testItem(enriched))
	if richOverall < bareOverall {
		t.Errorf("overall dropped: %d -> %d", bareOverall, richOverall)
	}
}

func TestAnalyzeEvidenceFixedSetAndBounds(t *testing.T) {
	e := newTestEvaluator()

	results := e.AnalyzeEvidence(testItem(models.EvidenceMetadata{
		PrejudicialRisk: strPtr("high"),
		RelevanceScore:  intPtr(10),
	}))

	wantOrder := []string{"fre-901", "fre-902", "fre-1001", "fre-803", "fre-401", "fre-403"}
	if len(results) != len(wantOrder) {
		t.Fatalf("got %d results, want %d", len(results), len(wantOrder))
	}
	for i, r := range results {
		if r.RuleID != wantOrder[i] {
			t.Errorf("result %d: rule %q, want %q", i, r.RuleID, wantOrder[i])
		}
		if r.Score < 0 || r.Score > r.MaxScore {
			t.Errorf("%s: score %d outside [0, %d]", r.RuleID, r.Score, r.MaxScore)
		}
		wantCompliant := r.Score*100 >= 70*r.MaxScore
		if r.Compliant != wantCompliant {
			t.Errorf("%s: compliant flag %v inconsistent with score %d/%d",
				r.RuleID, r.Compliant, r.Score, r.MaxScore)
		}
	}
}

func TestOverallComplianceMatchesResultSums(t *testing.T) {
	e := newTestEvaluator()
	item := testItem(models.EvidenceMetadata{
		HashValue:      strPtr("0xabc"),
		RelevanceScore: intPtr(70),
	})

	results := e.AnalyzeEvidence(item)
	totalScore, totalMax := 0, 0
	for _, r := range results {
		totalScore += r.Score
		totalMax += r.MaxScore
	}

	got := e.CalculateOverallCompliance(item)
	want := (totalScore*100 + totalMax/2) / totalMax
	if got != want {
		t.Errorf("overall = %d, want %d (%d/%d)", got, want, totalScore, totalMax)
	}
	if got < 0 || got > 100 {
		t.Errorf("overall %d outside [0, 100]", got)
	}
}

func TestOverallComplianceBareMetadata(t *testing.T) {
	e := newTestEvaluator()

	// Base scores only: (40+35+40+50+25+80)/600 = 45%
	got := e.CalculateOverallCompliance(testItem(models.EvidenceMetadata{}))
	if got != 45 {
		t.Errorf("overall = %d, want 45", got)
	}
}
