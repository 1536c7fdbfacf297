package models

import (
	"time"

	"github.com/google/uuid"
)

// AnnotationSourceType classifies where a rule annotation came from
type AnnotationSourceType string

const (
	SourceCommentary   AnnotationSourceType = "commentary"
	SourceCaseLaw      AnnotationSourceType = "case_law"
	SourcePracticeNote AnnotationSourceType = "practice_note"
)

// RuleAnnotation is a commentary or case-law snippet attached to a
// catalog rule, used to ground AI report prompts.
type RuleAnnotation struct {
	ID         uuid.UUID            `json:"id"`
	RuleID     string               `json:"rule_id"` // canonical catalog id, e.g. "fre-901"
	SourceType AnnotationSourceType `json:"source_type"`
	Citation   *string              `json:"citation,omitempty"`
	Text       string               `json:"text"`
	CreatedAt  time.Time            `json:"created_at"`
}
