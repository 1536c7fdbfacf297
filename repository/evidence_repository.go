package repository

import (
	"context"

	"admitcheck-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EvidenceRepository handles database operations for evidence items
type EvidenceRepository struct {
	db *pgxpool.Pool
}

// NewEvidenceRepository creates a new evidence repository
func NewEvidenceRepository(db *pgxpool.Pool) *EvidenceRepository {
	return &EvidenceRepository{db: db}
}

// Create creates a new evidence item
func (r *EvidenceRepository) Create(ctx context.Context, item *models.EvidenceItem) error {
	query := `
		INSERT INTO evidence_items (
			assessment_id, type, description, source, collected_at,
			metadata, exhibit_file_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(
		ctx, query,
		item.AssessmentID,
		item.Type,
		item.Description,
		item.Source,
		item.CollectedAt,
		item.Metadata,
		item.ExhibitFileID,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)

	return err
}

// GetByID retrieves an evidence item by ID
func (r *EvidenceRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.EvidenceItem, error) {
	item := &models.EvidenceItem{}
	query := `
		SELECT id, assessment_id, type, description, source, collected_at,
			metadata, exhibit_file_id, created_at, updated_at
		FROM evidence_items
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&item.ID,
		&item.AssessmentID,
		&item.Type,
		&item.Description,
		&item.Source,
		&item.CollectedAt,
		&item.Metadata,
		&item.ExhibitFileID,
		&item.CreatedAt,
		&item.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	return item, nil
}

// ListByAssessmentID retrieves all evidence items for an assessment,
// oldest first so report sections keep a stable order
func (r *EvidenceRepository) ListByAssessmentID(ctx context.Context, assessmentID uuid.UUID) ([]*models.EvidenceItem, error) {
	query := `
		SELECT id, assessment_id, type, description, source, collected_at,
			metadata, exhibit_file_id, created_at, updated_at
		FROM evidence_items
		WHERE assessment_id = $1
		ORDER BY created_at ASC`

	rows, err := r.db.Query(ctx, query, assessmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.EvidenceItem
	for rows.Next() {
		item := &models.EvidenceItem{}
		err := rows.Scan(
			&item.ID,
			&item.AssessmentID,
			&item.Type,
			&item.Description,
			&item.Source,
			&item.CollectedAt,
			&item.Metadata,
			&item.ExhibitFileID,
			&item.CreatedAt,
			&item.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// Update updates an evidence item
func (r *EvidenceRepository) Update(ctx context.Context, item *models.EvidenceItem) error {
	query := `
		UPDATE evidence_items SET
			type = $2,
			description = $3,
			source = $4,
			collected_at = $5,
			metadata = $6,
			exhibit_file_id = $7,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(
		ctx, query,
		item.ID,
		item.Type,
		item.Description,
		item.Source,
		item.CollectedAt,
		item.Metadata,
		item.ExhibitFileID,
	).Scan(&item.UpdatedAt)

	return err
}

// Delete deletes an evidence item
func (r *EvidenceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM evidence_items WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}
