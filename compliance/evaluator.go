package compliance

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"admitcheck-backend/models"
)

// FindingType classifies one evaluation observation
type FindingType string

const (
	FindingStrength FindingType = "strength"
	FindingWeakness FindingType = "weakness"
	FindingMissing  FindingType = "missing"
	FindingConcern  FindingType = "concern"
)

// Impact grades how much a finding moves the admissibility needle
type Impact string

const (
	ImpactHigh   Impact = "high"
	ImpactMedium Impact = "medium"
	ImpactLow    Impact = "low"
)

// Finding is one observation produced by a rule evaluation
type Finding struct {
	Type        FindingType `json:"type"`
	Description string      `json:"description"`
	Impact      Impact      `json:"impact"`
	RuleID      string      `json:"rule_id"`
}

// ComplianceResult is the outcome of evaluating one rule against one
// evidence item. Immutable once returned.
type ComplianceResult struct {
	RuleID          string    `json:"rule_id"`
	Compliant       bool      `json:"compliant"`
	Score           int       `json:"score"`
	MaxScore        int       `json:"max_score"`
	Findings        []Finding `json:"findings"`
	Recommendations []string  `json:"recommendations"`
}

// ErrUnknownRule is returned when a rule id cannot be resolved to a
// catalog rule with scoring criteria. The only hard failure in this
// package; callers decide how to surface it.
var ErrUnknownRule = errors.New("unknown rule id")

// compliantThresholdPct marks a rule as compliant when the score reaches
// this percentage of the rule's maximum. Shared by every rule evaluator
// and the aggregator; UI badges and likelihood classification key off it.
const compliantThresholdPct = 70

// applicableRuleSet is the fixed, ordered set of rules evaluated for
// every evidence item. All ids are catalog-present, so AnalyzeEvidence
// can never fail.
var applicableRuleSet = []string{
	"fre-901",
	"fre-902",
	"fre-1001",
	"fre-803",
	"fre-401",
	"fre-403",
}

// Evaluator scores evidence items against the rule catalog. It is a
// pure, synchronous computation: no I/O, no shared mutable state, safe
// for concurrent use.
type Evaluator struct {
	catalog *Catalog
}

// NewEvaluator creates an evaluator over the given catalog
func NewEvaluator(catalog *Catalog) *Evaluator {
	return &Evaluator{catalog: catalog}
}

// Catalog returns the catalog the evaluator was built with
func (e *Evaluator) Catalog() *Catalog {
	return e.catalog
}

// EvaluateRule evaluates one rule against one evidence item. The rule id
// may be in catalog form ("fre-901") or legacy form ("FRE_901"); aliases
// are resolved before lookup. Fails with ErrUnknownRule when no
// rule/criteria pair exists after normalization.
func (e *Evaluator) EvaluateRule(ruleID string, item *models.EvidenceItem) (*ComplianceResult, error) {
	canonical := e.catalog.Canonical(ruleID)

	if _, ok := e.catalog.RuleByID(canonical); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRule, ruleID)
	}
	crit, ok := e.catalog.CriteriaForRule(canonical)
	if !ok {
		return nil, fmt.Errorf("%w: %q has no analysis criteria", ErrUnknownRule, ruleID)
	}

	md := item.Metadata

	var sc scorecard
	switch canonical {
	case "fre-901":
		sc = scoreAuthentication(md)
	case "fre-902":
		sc = scoreSelfAuthentication(md)
	case "fre-1001":
		sc = scoreBestEvidence(md)
	case "fre-803":
		sc = scoreHearsay(md)
	case "fre-401":
		sc = scoreRelevance(md)
	case "fre-403":
		sc = scorePrejudice(md)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownRule, ruleID)
	}

	maxScore := crit.MaxScore()
	score := clamp(sc.score, 0, maxScore)

	findings := make([]Finding, len(sc.findings))
	for i, f := range sc.findings {
		f.RuleID = canonical
		findings[i] = f
	}

	return &ComplianceResult{
		RuleID:          canonical,
		Compliant:       score*100 >= compliantThresholdPct*maxScore,
		Score:           score,
		MaxScore:        maxScore,
		Findings:        findings,
		Recommendations: sc.recommendations,
	}, nil
}

// AnalyzeEvidence evaluates the fixed applicable rule set against one
// evidence item, in stable catalog order. Never fails: the set contains
// only catalog-present ids.
func (e *Evaluator) AnalyzeEvidence(item *models.EvidenceItem) []ComplianceResult {
	results := make([]ComplianceResult, 0, len(applicableRuleSet))
	for _, ruleID := range applicableRuleSet {
		result, err := e.EvaluateRule(ruleID, item)
		if err != nil {
			// Unreachable with the fixed rule set; skip defensively.
			continue
		}
		results = append(results, *result)
	}
	return results
}

// CalculateOverallCompliance returns the aggregate compliance percentage
// (0-100) across the fixed applicable rule set
func (e *Evaluator) CalculateOverallCompliance(item *models.EvidenceItem) int {
	return overallCompliance(e.AnalyzeEvidence(item))
}

func overallCompliance(results []ComplianceResult) int {
	totalScore := 0
	totalMax := 0
	for _, r := range results {
		totalScore += r.Score
		totalMax += r.MaxScore
	}
	if totalMax == 0 {
		return 0
	}
	return int(math.Round(float64(totalScore) / float64(totalMax) * 100))
}

// scorecard accumulates the score, findings, and recommendations of one
// rule evaluation
type scorecard struct {
	score           int
	findings        []Finding
	recommendations []string
}

func (s *scorecard) add(points int) {
	s.score += points
}

func (s *scorecard) finding(t FindingType, impact Impact, description string) {
	s.findings = append(s.findings, Finding{Type: t, Impact: impact, Description: description})
}

func (s *scorecard) recommend(msg string) {
	s.recommendations = append(s.recommendations, msg)
}

// scoreAuthentication evaluates FRE 901. Base score plus bonuses for a
// digital signature, a documented chain of custody, and a recorded hash.
func scoreAuthentication(md models.EvidenceMetadata) scorecard {
	sc := scorecard{score: 40}

	if md.DigitalSignature != nil && *md.DigitalSignature != "" {
		sc.add(25)
		sc.finding(FindingStrength, ImpactHigh, "Digital signature present, supporting authentication of the item")
	} else {
		sc.finding(FindingMissing, ImpactHigh, "No digital signature or equivalent cryptographic authentication")
		sc.recommend("Obtain a digital signature, certificate, or sponsoring-witness affidavit to authenticate the item")
	}

	if n := len(md.ChainOfCustody); n > 0 {
		sc.add(20)
		sc.finding(FindingStrength, ImpactMedium, fmt.Sprintf("Chain of custody documented with %d entries", n))
	} else {
		sc.finding(FindingMissing, ImpactHigh, "No chain of custody documentation")
		sc.recommend("Reconstruct and document the chain of custody from collection to present")
	}

	if md.HashValue != nil && *md.HashValue != "" {
		sc.add(15)
		sc.finding(FindingStrength, ImpactMedium, "Content hash recorded, supporting integrity verification")
	} else {
		sc.finding(FindingWeakness, ImpactMedium, "No content hash recorded at collection time")
		sc.recommend("Compute and record a cryptographic hash of the item to demonstrate integrity")
	}

	return sc
}

// scoreSelfAuthentication evaluates FRE 902. Self-authenticating
// document classes take a large bonus; everything else needs extrinsic
// authentication under 901.
func scoreSelfAuthentication(md models.EvidenceMetadata) scorecard {
	sc := scorecard{score: 35}

	docType := ""
	if md.DocumentType != nil {
		docType = strings.ToLower(*md.DocumentType)
	}

	switch docType {
	case "public_record":
		sc.add(45)
		sc.finding(FindingStrength, ImpactHigh, "Public record: self-authenticating under FRE 902")
	case "certified_record":
		sc.add(35)
		sc.finding(FindingStrength, ImpactMedium, "Certified record: self-authenticating with proper certification under FRE 902(11)-(14)")
	default:
		sc.finding(FindingWeakness, ImpactMedium, "Item does not fall within a self-authenticating class")
		sc.recommend("Plan for extrinsic authentication under FRE 901, or obtain certification under FRE 902(13)-(14)")
	}

	return sc
}

// scoreBestEvidence evaluates FRE 1001/1002. Originals take the largest
// bonus; a justified duplicate a medium one; an unjustified copy stays
// at the base score.
func scoreBestEvidence(md models.EvidenceMetadata) scorecard {
	sc := scorecard{score: 40}

	if md.IsOriginal != nil && *md.IsOriginal {
		sc.add(45)
		sc.finding(FindingStrength, ImpactHigh, "Original item (or qualifying ESI output) satisfies the best evidence rule")
		return sc
	}

	if md.IsOriginal == nil {
		sc.finding(FindingMissing, ImpactMedium, "Originality of the item is not documented")
	}

	if md.CopyJustification != nil && *md.CopyJustification != "" {
		sc.add(25)
		sc.finding(FindingStrength, ImpactMedium, "Duplicate offered with a stated justification for the original's absence")
	} else {
		sc.finding(FindingWeakness, ImpactHigh, "Duplicate offered without justification for not producing the original")
		sc.recommend("Document why the original cannot be produced, or obtain the original (FRE 1004)")
	}

	return sc
}

// scoreHearsay evaluates FRE 803. Hearsay with no identified exception
// resets the score to a low fixed value; that override takes priority
// over the business-records path.
func scoreHearsay(md models.EvidenceMetadata) scorecard {
	var sc scorecard

	isHearsay := md.IsHearsay != nil && *md.IsHearsay
	hasException := md.HearsayException != nil && *md.HearsayException != ""
	regularCourse := md.RegularCourse != nil && *md.RegularCourse
	hasKeeper := md.RecordKeeper != nil && *md.RecordKeeper != ""

	if isHearsay && !hasException {
		sc.score = 20
		sc.finding(FindingWeakness, ImpactHigh, "Hearsay with no identified exception; presumptively inadmissible")
		sc.recommend("Identify an applicable hearsay exception (e.g. FRE 803(6) business records) or a non-hearsay purpose")
		return sc
	}

	sc.score = 50

	switch {
	case regularCourse && hasKeeper:
		sc.add(35)
		sc.finding(FindingStrength, ImpactHigh, fmt.Sprintf("Business records exception supported: regular course of business with record keeper %s", *md.RecordKeeper))
	case isHearsay && hasException:
		sc.add(20)
		sc.finding(FindingStrength, ImpactMedium, fmt.Sprintf("Hearsay exception identified: %s", *md.HearsayException))
	default:
		sc.finding(FindingConcern, ImpactLow, "Hearsay posture not documented; confirm whether the item contains out-of-court statements")
		sc.recommend("Document the hearsay posture and, if applicable, the foundation for an exception")
	}

	return sc
}

// relevanceMultiplier scales the caller-supplied 0-100 relevance score
// onto the rule's range above the base.
const relevanceMultiplier = 0.65

// scoreRelevance evaluates FRE 401. The score scales with the
// caller-supplied relevance estimate; findings are bucketed at 80/60.
func scoreRelevance(md models.EvidenceMetadata) scorecard {
	sc := scorecard{score: 25}

	if md.RelevanceScore == nil {
		sc.finding(FindingMissing, ImpactMedium, "No relevance assessment recorded for this item")
		sc.recommend("Assess and record how the item bears on a fact of consequence")
		return sc
	}

	rs := clamp(*md.RelevanceScore, 0, 100)
	sc.add(int(math.Round(float64(rs) * relevanceMultiplier)))

	switch {
	case rs >= 80:
		sc.finding(FindingStrength, ImpactHigh, "Highly relevant to a fact of consequence")
	case rs >= 60:
		sc.finding(FindingConcern, ImpactLow, "Moderately relevant; the connection to a material fact could be stronger")
	default:
		sc.finding(FindingWeakness, ImpactHigh, "Questionable relevance to any fact of consequence")
		sc.recommend("Articulate the specific fact of consequence the item makes more or less probable")
	}

	return sc
}

// scorePrejudice evaluates FRE 403. Relevant evidence is admissible by
// default; elevated prejudicial risk subtracts from the base.
func scorePrejudice(md models.EvidenceMetadata) scorecard {
	sc := scorecard{score: 80}

	risk := ""
	if md.PrejudicialRisk != nil {
		risk = strings.ToLower(*md.PrejudicialRisk)
	}

	switch risk {
	case "high":
		sc.add(-40)
		sc.finding(FindingWeakness, ImpactHigh, "High risk of unfair prejudice may substantially outweigh probative value")
		sc.recommend("Prepare a limiting instruction or narrow the exhibit to reduce prejudicial effect")
	case "medium":
		sc.add(-20)
		sc.finding(FindingConcern, ImpactMedium, "Moderate prejudicial risk; be prepared to argue the FRE 403 balance")
		sc.recommend("Anticipate a Rule 403 objection and document the item's probative value")
	default:
		sc.finding(FindingStrength, ImpactLow, "No significant prejudicial risk identified; admissible by default under FRE 403")
	}

	return sc
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
