package service

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"admitcheck-backend/compliance"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

func sampleRows() []ExportRow {
	return []ExportRow{
		{
			EvidenceID:   uuid.MustParse("11111111-1111-1111-1111-111111111111"),
			Description:  "Email thread, \"smoking gun\"",
			EvidenceType: "email",
			RuleID:       "fre-901",
			Citation:     "Fed. R. Evid. 901",
			Score:        85,
			MaxScore:     100,
			Compliant:    true,
			Likelihood:   "medium",
			AdverseCount: 1,
			TopFinding:   "No content hash recorded at collection time",
			Remediation:  "Compute and record a cryptographic hash of the item to demonstrate integrity",
			OverallScore: 78,
		},
		{
			EvidenceID:   uuid.MustParse("22222222-2222-2222-2222-222222222222"),
			Description:  "Server log excerpt",
			EvidenceType: "log",
			RuleID:       "fre-803",
			Citation:     "Fed. R. Evid. 803",
			Score:        20,
			MaxScore:     100,
			Compliant:    false,
			Likelihood:   "low",
			AdverseCount: 1,
			TopFinding:   "Hearsay with no identified exception; presumptively inadmissible",
			OverallScore: 41,
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleRows()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("re-parsing CSV: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("records = %d, want header + 2 rows", len(records))
	}
	if records[0][0] != "evidence_id" || records[0][3] != "rule_id" {
		t.Errorf("unexpected header: %v", records[0])
	}

	// Quoting survives the round trip
	if records[1][1] != `Email thread, "smoking gun"` {
		t.Errorf("description mangled: %q", records[1][1])
	}
	if records[2][7] != "false" {
		t.Errorf("compliant column = %q, want false", records[2][7])
	}
	if records[1][5] != "85" {
		t.Errorf("score column = %q, want 85", records[1][5])
	}
}

func TestWriteJSONRoundTrip(t *testing.T) {
	rows := sampleRows()

	var buf bytes.Buffer
	if err := WriteJSON(&buf, rows); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var decoded []ExportRow
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if diff := cmp.Diff(rows, decoded); diff != "" {
		t.Errorf("JSON round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestTopFindingPrefersHighImpactAdverse(t *testing.T) {
	findings := []compliance.Finding{
		{Type: compliance.FindingStrength, Impact: compliance.ImpactHigh, Description: "strong point"},
		{Type: compliance.FindingConcern, Impact: compliance.ImpactLow, Description: "minor concern"},
		{Type: compliance.FindingWeakness, Impact: compliance.ImpactHigh, Description: "fatal flaw"},
		{Type: compliance.FindingMissing, Impact: compliance.ImpactMedium, Description: "gap"},
	}

	if got := topFinding(findings); got != "fatal flaw" {
		t.Errorf("topFinding = %q, want the high-impact weakness", got)
	}

	// All strengths: fall back to the first finding
	strengths := []compliance.Finding{
		{Type: compliance.FindingStrength, Impact: compliance.ImpactHigh, Description: "first strength"},
		{Type: compliance.FindingStrength, Impact: compliance.ImpactLow, Description: "second strength"},
	}
	if got := topFinding(strengths); got != "first strength" {
		t.Errorf("topFinding = %q, want first finding fallback", got)
	}

	if got := topFinding(nil); got != "" {
		t.Errorf("topFinding(nil) = %q, want empty", got)
	}
}

func TestCountAdverseIgnoresStrengths(t *testing.T) {
	findings := []compliance.Finding{
		{Type: compliance.FindingStrength},
		{Type: compliance.FindingWeakness},
		{Type: compliance.FindingMissing},
		{Type: compliance.FindingConcern},
	}
	if got := countAdverse(findings); got != 3 {
		t.Errorf("countAdverse = %d, want 3", got)
	}
}

func TestWriteCSVHeaderMatchesRowWidth(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleRows()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	header, err := csv.NewReader(strings.NewReader(lines[0])).Read()
	if err != nil {
		t.Fatalf("parsing header: %v", err)
	}
	row, err := csv.NewReader(strings.NewReader(lines[1])).Read()
	if err != nil {
		t.Fatalf("parsing row: %v", err)
	}
	if len(header) != len(row) {
		t.Errorf("header has %d columns, row has %d", len(header), len(row))
	}
}
