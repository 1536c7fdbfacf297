package compliance

import "strings"

// Jurisdiction identifies which rules of evidence a catalog entry belongs to
type Jurisdiction string

const (
	JurisdictionFederal Jurisdiction = "Federal"
	JurisdictionIndiana Jurisdiction = "Indiana"
	JurisdictionBoth    Jurisdiction = "Both"
)

// Category classifies a rule by the admissibility concern it addresses
type Category string

const (
	CategoryAuthentication Category = "Authentication"
	CategoryBestEvidence   Category = "BestEvidence"
	CategoryHearsay        Category = "Hearsay"
	CategoryRelevance      Category = "Relevance"
	CategoryPrivilege      Category = "Privilege"
	CategoryDiscovery      Category = "Discovery"
)

// LegalRule is one immutable catalog entry
type LegalRule struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Jurisdiction Jurisdiction `json:"jurisdiction"`
	Category     Category     `json:"category"`
	Requirements []string     `json:"requirements"`
	Exceptions   []string     `json:"exceptions,omitempty"`
	Citation     string       `json:"citation"`
}

// ScoringFactor is one scored sub-factor of a rule's analysis criteria
type ScoringFactor struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	MaxPoints   int      `json:"max_points"`
	Checklist   []string `json:"checklist,omitempty"`
}

// AnalysisCriteria is the scoring configuration for one rule. The sum of
// its factors' max points defines the rule's maximum attainable score.
type AnalysisCriteria struct {
	RuleID           string          `json:"rule_id"`
	Weight           int             `json:"weight"` // importance, 1-10
	RequiredElements []string        `json:"required_elements"`
	Factors          []ScoringFactor `json:"factors"`
}

// MaxScore returns the maximum attainable score for these criteria
func (c AnalysisCriteria) MaxScore() int {
	total := 0
	for _, f := range c.Factors {
		total += f.MaxPoints
	}
	return total
}

// Catalog holds the static rule list and analysis criteria. It is built
// once at startup and read-only afterward, so it is safe to share across
// goroutines without locking.
type Catalog struct {
	rules    []LegalRule
	byID     map[string]*LegalRule
	criteria map[string]*AnalysisCriteria
	aliases  map[string]string
}

// NewCatalog builds the catalog from embedded static data
func NewCatalog() *Catalog {
	c := &Catalog{
		rules:    catalogRules(),
		byID:     make(map[string]*LegalRule),
		criteria: make(map[string]*AnalysisCriteria),
		aliases:  legacyAliases(),
	}
	for i := range c.rules {
		c.byID[c.rules[i].ID] = &c.rules[i]
	}
	for _, crit := range catalogCriteria() {
		crit := crit
		c.criteria[crit.RuleID] = &crit
	}
	return c
}

// Canonical normalizes a rule id to its catalog form: case-folded,
// underscores mapped to hyphens, then legacy aliases resolved (e.g.
// "FRE_1002" -> "fre-1001"). The result is not guaranteed to exist in
// the catalog.
func (c *Catalog) Canonical(id string) string {
	id = strings.ToLower(strings.TrimSpace(id))
	id = strings.ReplaceAll(id, "_", "-")
	if target, ok := c.aliases[id]; ok {
		return target
	}
	return id
}

// RuleByID looks up a rule by id, resolving aliases. Absence is a valid,
// expected outcome for unknown ids.
func (c *Catalog) RuleByID(id string) (*LegalRule, bool) {
	rule, ok := c.byID[c.Canonical(id)]
	return rule, ok
}

// RulesByCategory returns all rules in a category, in catalog order
func (c *Catalog) RulesByCategory(cat Category) []LegalRule {
	var out []LegalRule
	for _, r := range c.rules {
		if r.Category == cat {
			out = append(out, r)
		}
	}
	return out
}

// Rules returns all catalog entries in catalog order
func (c *Catalog) Rules() []LegalRule {
	out := make([]LegalRule, len(c.rules))
	copy(out, c.rules)
	return out
}

// CriteriaForRule looks up the analysis criteria for a rule, resolving
// aliases. Rules without scoring criteria return absent.
func (c *Catalog) CriteriaForRule(id string) (*AnalysisCriteria, bool) {
	crit, ok := c.criteria[c.Canonical(id)]
	return crit, ok
}

// Citations returns citation strings for the given rule ids, silently
// skipping ids not present in the catalog. Display-only helper.
func (c *Catalog) Citations(ids []string) []string {
	citations := make([]string, 0, len(ids))
	for _, id := range ids {
		if rule, ok := c.RuleByID(id); ok {
			citations = append(citations, rule.Citation)
		}
	}
	return citations
}

// legacyAliases maps rule ids used by older clients to canonical catalog
// ids. Resolved after case-folding and underscore-to-hyphen mapping.
func legacyAliases() map[string]string {
	return map[string]string{
		"fre-1002":  "fre-1001", // best evidence scored as a single 1001/1002 entry
		"fre-803-6": "fre-803",  // business records exception folded into 803
		"ire-1002":  "ire-1001",
	}
}

func catalogRules() []LegalRule {
	return []LegalRule{
		{
			ID:           "fre-901",
			Title:        "Authenticating or Identifying Evidence",
			Jurisdiction: JurisdictionBoth,
			Category:     CategoryAuthentication,
			Requirements: []string{
				"Produce evidence sufficient to support a finding that the item is what the proponent claims it is",
				"For digital evidence: establish integrity through hash values or digital signatures",
				"Document an unbroken chain of custody from collection to presentation",
			},
			Exceptions: []string{
				"Distinctive characteristics considered with all the circumstances (901(b)(4))",
			},
			Citation: "Fed. R. Evid. 901",
		},
		{
			ID:           "fre-902",
			Title:        "Evidence That Is Self-Authenticating",
			Jurisdiction: JurisdictionBoth,
			Category:     CategoryAuthentication,
			Requirements: []string{
				"Item falls within an enumerated self-authenticating class (public records, certified records, official publications)",
				"Certified electronic records require certification by a qualified person (902(13)-(14))",
			},
			Citation: "Fed. R. Evid. 902",
		},
		{
			ID:           "fre-1001",
			Title:        "Best Evidence Rule (Definitions; Requirement of the Original)",
			Jurisdiction: JurisdictionBoth,
			Category:     CategoryBestEvidence,
			Requirements: []string{
				"Produce the original writing, recording, or photograph to prove its content",
				"For electronically stored information, any printout or readable output shown to reflect the data accurately is an original",
				"A duplicate is admissible unless a genuine question is raised about the original's authenticity",
			},
			Exceptions: []string{
				"Original lost or destroyed, not in bad faith (1004(a))",
				"Original not obtainable by judicial process (1004(b))",
			},
			Citation: "Fed. R. Evid. 1001-1002",
		},
		{
			ID:           "fre-803",
			Title:        "Exceptions to the Rule Against Hearsay",
			Jurisdiction: JurisdictionBoth,
			Category:     CategoryHearsay,
			Requirements: []string{
				"Out-of-court statements offered for their truth must fall within a recognized exception",
				"Business records: made at or near the time, kept in the course of a regularly conducted activity, by a person with knowledge (803(6))",
				"Foundation through the custodian or another qualified witness",
			},
			Exceptions: []string{
				"Records of a regularly conducted activity (803(6))",
				"Public records (803(8))",
				"Present sense impression (803(1))",
			},
			Citation: "Fed. R. Evid. 803",
		},
		{
			ID:           "fre-401",
			Title:        "Test for Relevant Evidence",
			Jurisdiction: JurisdictionBoth,
			Category:     CategoryRelevance,
			Requirements: []string{
				"Evidence must have a tendency to make a fact more or less probable",
				"The fact must be of consequence in determining the action",
			},
			Citation: "Fed. R. Evid. 401",
		},
		{
			ID:           "fre-403",
			Title:        "Excluding Relevant Evidence for Prejudice or Other Reasons",
			Jurisdiction: JurisdictionBoth,
			Category:     CategoryRelevance,
			Requirements: []string{
				"Probative value must not be substantially outweighed by unfair prejudice, confusing the issues, or undue delay",
			},
			Citation: "Fed. R. Evid. 403",
		},
		{
			ID:           "fre-501",
			Title:        "Privilege in General",
			Jurisdiction: JurisdictionFederal,
			Category:     CategoryPrivilege,
			Requirements: []string{
				"Confirm the evidence is not protected by attorney-client privilege or work-product doctrine",
				"Screen communications for inadvertent disclosure before production",
			},
			Citation: "Fed. R. Evid. 501",
		},
		{
			ID:           "frcp-26",
			Title:        "Duty to Disclose; Discovery Scope and Limits",
			Jurisdiction: JurisdictionFederal,
			Category:     CategoryDiscovery,
			Requirements: []string{
				"Electronically stored information must be produced in the form requested or ordinarily maintained",
				"Disclose the evidence during discovery; undisclosed evidence risks exclusion under Rule 37",
			},
			Citation: "Fed. R. Civ. P. 26(b)",
		},
		{
			ID:           "ire-901",
			Title:        "Authenticating or Identifying Evidence (Indiana)",
			Jurisdiction: JurisdictionIndiana,
			Category:     CategoryAuthentication,
			Requirements: []string{
				"Produce evidence sufficient to support a finding that the item is what the proponent claims it is",
			},
			Citation: "Ind. R. Evid. 901",
		},
		{
			ID:           "ire-1001",
			Title:        "Best Evidence Rule (Indiana)",
			Jurisdiction: JurisdictionIndiana,
			Category:     CategoryBestEvidence,
			Requirements: []string{
				"Produce the original writing, recording, or photograph to prove its content",
			},
			Citation: "Ind. R. Evid. 1001-1002",
		},
		{
			ID:           "ire-803",
			Title:        "Exceptions to the Rule Against Hearsay (Indiana)",
			Jurisdiction: JurisdictionIndiana,
			Category:     CategoryHearsay,
			Requirements: []string{
				"Out-of-court statements offered for their truth must fall within a recognized exception",
			},
			Citation: "Ind. R. Evid. 803",
		},
	}
}

func catalogCriteria() []AnalysisCriteria {
	return []AnalysisCriteria{
		{
			RuleID: "fre-901",
			Weight: 9,
			RequiredElements: []string{
				"Proof the item is what it is claimed to be",
			},
			Factors: []ScoringFactor{
				{
					Name:        "Digital signature",
					Description: "Cryptographic signature tying the item to its source",
					MaxPoints:   30,
					Checklist: []string{
						"Signature present and verifiable",
						"Signing identity documented",
					},
				},
				{
					Name:        "Chain of custody",
					Description: "Documented sequence of handlers and transfers",
					MaxPoints:   30,
					Checklist: []string{
						"Every transfer logged with handler, time, and action",
						"No unexplained gaps",
					},
				},
				{
					Name:        "Hash verification",
					Description: "Content digest recorded at collection time",
					MaxPoints:   25,
					Checklist: []string{
						"Hash value and algorithm recorded",
					},
				},
				{
					Name:        "Source reliability",
					Description: "Provenance of the collecting system or witness",
					MaxPoints:   15,
				},
			},
		},
		{
			RuleID: "fre-902",
			Weight: 6,
			RequiredElements: []string{
				"Membership in a self-authenticating class",
			},
			Factors: []ScoringFactor{
				{
					Name:        "Self-authenticating class",
					Description: "Public record, official publication, or certified record",
					MaxPoints:   50,
				},
				{
					Name:        "Certification",
					Description: "Certification by custodian or qualified person",
					MaxPoints:   30,
				},
				{
					Name:        "Seal or attestation",
					Description: "Official seal or equivalent attestation",
					MaxPoints:   20,
				},
			},
		},
		{
			RuleID: "fre-1001",
			Weight: 8,
			RequiredElements: []string{
				"Original, or an admissible duplicate with justification",
			},
			Factors: []ScoringFactor{
				{
					Name:        "Originality",
					Description: "Item is the original or qualifies as one (ESI output)",
					MaxPoints:   50,
				},
				{
					Name:        "Duplicate justification",
					Description: "Stated reason the original is unavailable",
					MaxPoints:   30,
				},
				{
					Name:        "Content completeness",
					Description: "Content reflects the full original without alteration",
					MaxPoints:   20,
				},
			},
		},
		{
			RuleID: "fre-803",
			Weight: 8,
			RequiredElements: []string{
				"Non-hearsay posture, or a recognized exception",
			},
			Factors: []ScoringFactor{
				{
					Name:        "Hearsay posture",
					Description: "Whether the item is offered for the truth of an out-of-court statement",
					MaxPoints:   40,
				},
				{
					Name:        "Business records foundation",
					Description: "Made and kept in the regular course of business",
					MaxPoints:   40,
					Checklist: []string{
						"Record made at or near the time of the event",
						"Regular practice of the business to make the record",
					},
				},
				{
					Name:        "Record keeper",
					Description: "Custodian or qualified witness identified",
					MaxPoints:   20,
				},
			},
		},
		{
			RuleID: "fre-401",
			Weight: 7,
			RequiredElements: []string{
				"Tendency to make a consequential fact more or less probable",
			},
			Factors: []ScoringFactor{
				{
					Name:        "Material fact connection",
					Description: "Strength of the link to a fact of consequence",
					MaxPoints:   60,
				},
				{
					Name:        "Probative value",
					Description: "Degree to which the item moves the needle",
					MaxPoints:   40,
				},
			},
		},
		{
			RuleID: "fre-403",
			Weight: 7,
			RequiredElements: []string{
				"Probative value not substantially outweighed by prejudice",
			},
			Factors: []ScoringFactor{
				{
					Name:        "Prejudice balance",
					Description: "Risk of unfair prejudice against probative value",
					MaxPoints:   60,
				},
				{
					Name:        "Confusion and delay",
					Description: "Risk of confusing the issues or wasting time",
					MaxPoints:   40,
				},
			},
		},
	}
}
