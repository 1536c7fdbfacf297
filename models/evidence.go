package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// CustodyEntry represents one transfer in a chain of custody
type CustodyEntry struct {
	Handler   string    `json:"handler"`
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	Notes     string    `json:"notes,omitempty"`
}

// EvidenceMetadata holds the admissibility-relevant attributes of an
// evidence item. Every field is optional; the compliance evaluator treats
// an absent field as absent/negative evidence, never as an error.
type EvidenceMetadata struct {
	HashValue        *string        `json:"hashValue,omitempty"`
	HashAlgorithm    *string        `json:"hashAlgorithm,omitempty"`
	DigitalSignature *string        `json:"digitalSignature,omitempty"`
	ChainOfCustody   []CustodyEntry `json:"chainOfCustody,omitempty"`

	IsOriginal        *bool   `json:"isOriginal,omitempty"`
	CopyJustification *string `json:"copyJustification,omitempty"`

	DocumentType  *string `json:"documentType,omitempty"`
	RecordKeeper  *string `json:"recordKeeper,omitempty"`
	RegularCourse *bool   `json:"regularCourse,omitempty"`

	IsHearsay        *bool   `json:"isHearsay,omitempty"`
	HearsayException *string `json:"hearsayException,omitempty"`

	RelevanceScore  *int    `json:"relevanceScore,omitempty"`
	PrejudicialRisk *string `json:"prejudicialRisk,omitempty"` // "low", "medium", "high"
}

// Value implements driver.Valuer for JSONB
func (m EvidenceMetadata) Value() (driver.Value, error) {
	return json.Marshal(m)
}

// Scan implements sql.Scanner for JSONB
func (m *EvidenceMetadata) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	// Handle different types that pgx might return for JSONB
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	if len(bytes) == 0 {
		return nil
	}

	return json.Unmarshal(bytes, m)
}

// EvidenceItem represents one piece of evidence under an assessment
type EvidenceItem struct {
	ID            uuid.UUID        `json:"id"`
	AssessmentID  uuid.UUID        `json:"assessment_id"`
	Type          string           `json:"type"` // e.g. "digital", "document", "photograph"
	Description   string           `json:"description"`
	Source        string           `json:"source"`
	CollectedAt   *time.Time       `json:"collected_at,omitempty"`
	Metadata      EvidenceMetadata `json:"metadata"`
	ExhibitFileID *uuid.UUID       `json:"exhibit_file_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
