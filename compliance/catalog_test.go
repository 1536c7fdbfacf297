package compliance

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCanonicalNormalization(t *testing.T) {
	c := NewCatalog()

	cases := []struct {
		in   string
		want string
	}{
		{"fre-901", "fre-901"},
		{"FRE_901", "fre-901"},
		{"  Fre-901  ", "fre-901"},
		{"FRE_1002", "fre-1001"},
		{"fre-1002", "fre-1001"},
		{"fre-803-6", "fre-803"},
		{"FRE_803_6", "fre-803"},
		{"IRE_1002", "ire-1001"},
		{"fre-999", "fre-999"},
	}

	for _, tc := range cases {
		if got := c.Canonical(tc.in); got != tc.want {
			t.Errorf("Canonical(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRuleLookupResolvesAliases(t *testing.T) {
	c := NewCatalog()

	direct, ok := c.RuleByID("fre-1001")
	if !ok {
		t.Fatal("expected fre-1001 to be present")
	}

	aliased, ok := c.RuleByID("FRE_1002")
	if !ok {
		t.Fatal("expected FRE_1002 to resolve via alias")
	}

	if direct != aliased {
		t.Errorf("alias lookup returned a different rule: %q vs %q", direct.ID, aliased.ID)
	}
}

func TestRuleLookupUnknown(t *testing.T) {
	c := NewCatalog()

	if _, ok := c.RuleByID("fre-999"); ok {
		t.Error("expected fre-999 to be absent")
	}
	if _, ok := c.RuleByID(""); ok {
		t.Error("expected empty id to be absent")
	}
}

func TestRulesByCategoryPreservesOrder(t *testing.T) {
	c := NewCatalog()

	got := c.RulesByCategory(CategoryAuthentication)
	var ids []string
	for _, r := range got {
		ids = append(ids, r.ID)
	}

	want := []string{"fre-901", "fre-902", "ire-901"}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Errorf("authentication rules mismatch (-want +got):\n%s", diff)
	}
}

func TestCitationsSkipUnknownIDs(t *testing.T) {
	c := NewCatalog()

	got := c.Citations([]string{"fre-901", "fre-999", "FRE_1002"})
	want := []string{"Fed. R. Evid. 901", "Fed. R. Evid. 1001-1002"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("citations mismatch (-want +got):\n%s", diff)
	}
}

func TestScoredRulesHaveFullCriteria(t *testing.T) {
	c := NewCatalog()

	scored := []string{"fre-901", "fre-902", "fre-1001", "fre-803", "fre-401", "fre-403"}
	for _, id := range scored {
		crit, ok := c.CriteriaForRule(id)
		if !ok {
			t.Errorf("expected criteria for %s", id)
			continue
		}
		if crit.MaxScore() != 100 {
			t.Errorf("%s: MaxScore = %d, want 100", id, crit.MaxScore())
		}
		if crit.Weight < 1 || crit.Weight > 10 {
			t.Errorf("%s: weight %d out of range", id, crit.Weight)
		}
	}
}

func TestUnscoredRulesHaveNoCriteria(t *testing.T) {
	c := NewCatalog()

	unscored := []string{"fre-501", "frcp-26", "ire-901", "ire-1001", "ire-803"}
	for _, id := range unscored {
		if _, ok := c.CriteriaForRule(id); ok {
			t.Errorf("did not expect criteria for %s", id)
		}
	}
}

func TestEveryRuleHasCitationAndRequirements(t *testing.T) {
	c := NewCatalog()

	for _, rule := range c.Rules() {
		if rule.Citation == "" {
			t.Errorf("%s: empty citation", rule.ID)
		}
		if len(rule.Requirements) == 0 {
			t.Errorf("%s: no requirements", rule.ID)
		}
	}
}
