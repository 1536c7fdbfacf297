package models

import (
	"time"

	"github.com/google/uuid"
)

// AssessmentStatus represents the status of an assessment
type AssessmentStatus string

const (
	StatusDraft      AssessmentStatus = "draft"
	StatusInProgress AssessmentStatus = "in_progress"
	StatusCompleted  AssessmentStatus = "completed"
	StatusArchived   AssessmentStatus = "archived"
)

// Jurisdiction represents the governing rules of evidence
type Jurisdiction string

const (
	JurisdictionFederal Jurisdiction = "federal"
	JurisdictionIndiana Jurisdiction = "indiana"
)

// Assessment represents one admissibility assessment session
type Assessment struct {
	ID           uuid.UUID        `json:"id"`
	UserID       uuid.UUID        `json:"user_id"`
	Status       AssessmentStatus `json:"status"`
	CaseName     string           `json:"case_name"`
	CaseNumber   *string          `json:"case_number,omitempty"`
	Jurisdiction Jurisdiction     `json:"jurisdiction"`
	Notes        *string          `json:"notes,omitempty"`

	// Filled in by compliance scoring / report generation
	OverallCompliance *int    `json:"overall_compliance,omitempty"`
	GeneratedReport   *string `json:"generated_report,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
