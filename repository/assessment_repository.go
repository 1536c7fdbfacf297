package repository

import (
	"context"
	"fmt"

	"admitcheck-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AssessmentRepository handles database operations for assessments
type AssessmentRepository struct {
	db *pgxpool.Pool
}

// NewAssessmentRepository creates a new assessment repository
func NewAssessmentRepository(db *pgxpool.Pool) *AssessmentRepository {
	return &AssessmentRepository{db: db}
}

// Create creates a new assessment
func (r *AssessmentRepository) Create(ctx context.Context, assessment *models.Assessment) error {
	query := `
		INSERT INTO assessments (
			user_id, status, case_name, case_number, jurisdiction, notes,
			overall_compliance, generated_report
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		) RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(
		ctx, query,
		assessment.UserID,
		assessment.Status,
		assessment.CaseName,
		assessment.CaseNumber,
		assessment.Jurisdiction,
		assessment.Notes,
		assessment.OverallCompliance,
		assessment.GeneratedReport,
	).Scan(&assessment.ID, &assessment.CreatedAt, &assessment.UpdatedAt)

	return err
}

// GetByID retrieves an assessment by ID
func (r *AssessmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Assessment, error) {
	assessment := &models.Assessment{}
	query := `
		SELECT id, user_id, status, case_name, case_number, jurisdiction, notes,
			overall_compliance, generated_report,
			created_at, updated_at, completed_at
		FROM assessments
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&assessment.ID,
		&assessment.UserID,
		&assessment.Status,
		&assessment.CaseName,
		&assessment.CaseNumber,
		&assessment.Jurisdiction,
		&assessment.Notes,
		&assessment.OverallCompliance,
		&assessment.GeneratedReport,
		&assessment.CreatedAt,
		&assessment.UpdatedAt,
		&assessment.CompletedAt,
	)

	if err != nil {
		return nil, err
	}

	return assessment, nil
}

// Update updates an assessment
func (r *AssessmentRepository) Update(ctx context.Context, assessment *models.Assessment) error {
	query := `
		UPDATE assessments SET
			status = $2,
			case_name = $3,
			case_number = $4,
			jurisdiction = $5,
			notes = $6,
			overall_compliance = $7,
			generated_report = $8,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(
		ctx, query,
		assessment.ID,
		assessment.Status,
		assessment.CaseName,
		assessment.CaseNumber,
		assessment.Jurisdiction,
		assessment.Notes,
		assessment.OverallCompliance,
		assessment.GeneratedReport,
	).Scan(&assessment.UpdatedAt)

	return err
}

// UpdateGeneratedReport updates only the generated report and overall
// compliance for an assessment
func (r *AssessmentRepository) UpdateGeneratedReport(ctx context.Context, id uuid.UUID, report string, overallCompliance int) error {
	query := `
		UPDATE assessments SET
			generated_report = $2,
			overall_compliance = $3,
			updated_at = NOW()
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, report, overallCompliance)
	return err
}

// ListByUserID retrieves all assessments for a user
func (r *AssessmentRepository) ListByUserID(ctx context.Context, userID uuid.UUID, status *models.AssessmentStatus, limit, offset int) ([]*models.Assessment, error) {
	query := `
		SELECT id, user_id, status, case_name, case_number, jurisdiction, notes,
			overall_compliance, generated_report,
			created_at, updated_at, completed_at
		FROM assessments
		WHERE user_id = $1`

	args := []interface{}{userID}
	argIndex := 2

	if status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIndex)
		args = append(args, *status)
		argIndex++
	}

	query += " ORDER BY created_at DESC"

	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, limit)
		argIndex++
		if offset > 0 {
			query += fmt.Sprintf(" OFFSET $%d", argIndex)
			args = append(args, offset)
		}
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assessments []*models.Assessment
	for rows.Next() {
		assessment := &models.Assessment{}
		err := rows.Scan(
			&assessment.ID,
			&assessment.UserID,
			&assessment.Status,
			&assessment.CaseName,
			&assessment.CaseNumber,
			&assessment.Jurisdiction,
			&assessment.Notes,
			&assessment.OverallCompliance,
			&assessment.GeneratedReport,
			&assessment.CreatedAt,
			&assessment.UpdatedAt,
			&assessment.CompletedAt,
		)
		if err != nil {
			return nil, err
		}
		assessments = append(assessments, assessment)
	}

	return assessments, rows.Err()
}

// Delete deletes an assessment
func (r *AssessmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM assessments WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}
