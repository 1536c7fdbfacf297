package repository

import (
	"context"
	"fmt"

	"admitcheck-backend/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RuleAnnotationRepository handles database operations for rule annotations
type RuleAnnotationRepository struct {
	db *pgxpool.Pool
}

// NewRuleAnnotationRepository creates a new rule annotation repository
func NewRuleAnnotationRepository(db *pgxpool.Pool) *RuleAnnotationRepository {
	return &RuleAnnotationRepository{db: db}
}

// Create inserts one annotation
func (r *RuleAnnotationRepository) Create(ctx context.Context, annotation *models.RuleAnnotation) error {
	query := `
		INSERT INTO rule_annotations (
			rule_id, source_type, citation, annotation_text
		) VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRow(
		ctx, query,
		annotation.RuleID,
		annotation.SourceType,
		annotation.Citation,
		annotation.Text,
	).Scan(&annotation.ID, &annotation.CreatedAt)

	return err
}

// ListByRuleID retrieves annotations for a canonical rule id, optionally
// filtered by source type. Used to ground AI report prompts.
func (r *RuleAnnotationRepository) ListByRuleID(
	ctx context.Context,
	ruleID string,
	sourceType models.AnnotationSourceType,
	limit int,
) ([]models.RuleAnnotation, error) {
	query := `
		SELECT id, rule_id, source_type, citation, annotation_text, created_at
		FROM rule_annotations
		WHERE rule_id = $1`

	args := []interface{}{ruleID}
	if sourceType != "" {
		query += " AND source_type = $2"
		args = append(args, sourceType)
	}

	query += fmt.Sprintf(" ORDER BY created_at ASC LIMIT $%d", len(args)+1)
	args = append(args, limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query rule annotations: %w", err)
	}
	defer rows.Close()

	var annotations []models.RuleAnnotation
	for rows.Next() {
		var annotation models.RuleAnnotation
		err := rows.Scan(
			&annotation.ID,
			&annotation.RuleID,
			&annotation.SourceType,
			&annotation.Citation,
			&annotation.Text,
			&annotation.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rule annotation: %w", err)
		}
		annotations = append(annotations, annotation)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rule annotations: %w", err)
	}

	return annotations, nil
}

// DeleteByRuleID removes all annotations for a rule (used by the seeder)
func (r *RuleAnnotationRepository) DeleteByRuleID(ctx context.Context, ruleID string) error {
	query := `DELETE FROM rule_annotations WHERE rule_id = $1`
	_, err := r.db.Exec(ctx, query, ruleID)
	return err
}
