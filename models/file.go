package models

import (
	"time"

	"github.com/google/uuid"
)

// File represents an uploaded exhibit file
type File struct {
	ID           uuid.UUID  `json:"id"`
	UserID       uuid.UUID  `json:"user_id"`
	AssessmentID *uuid.UUID `json:"assessment_id,omitempty"`
	Filename     string     `json:"filename"`
	MimeType     string     `json:"mime_type"`
	Size         int64      `json:"size"`
	StoragePath  string     `json:"storage_path"`
	Sha256       string     `json:"sha256"`
	CreatedAt    time.Time  `json:"created_at"`
}
