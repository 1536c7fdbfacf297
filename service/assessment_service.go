package service

import (
	"context"
	"errors"

	"admitcheck-backend/compliance"
	"admitcheck-backend/models"
	"admitcheck-backend/repository"

	"github.com/google/uuid"
)

var (
	ErrAssessmentNotFound = errors.New("assessment not found")
	ErrEvidenceNotFound   = errors.New("evidence item not found")
	ErrNoEvidence         = errors.New("assessment has no evidence items")
	ErrJobCreationFailed  = errors.New("failed to create analysis job")
	ErrReportFailed       = errors.New("failed to generate report")
	ErrJobNotFound        = errors.New("analysis job not found")
)

// AssessmentService handles business logic for assessments and their
// evidence items
type AssessmentService struct {
	assessmentRepo *repository.AssessmentRepository
	evidenceRepo   *repository.EvidenceRepository
	evaluator      *compliance.Evaluator
}

// AssessmentServiceOption is a functional option for AssessmentService
type AssessmentServiceOption func(*AssessmentService)

// WithAssessmentRepository sets the assessment repository
func WithAssessmentRepository(repo *repository.AssessmentRepository) AssessmentServiceOption {
	return func(s *AssessmentService) {
		s.assessmentRepo = repo
	}
}

// WithEvidenceRepository sets the evidence repository
func WithEvidenceRepository(repo *repository.EvidenceRepository) AssessmentServiceOption {
	return func(s *AssessmentService) {
		s.evidenceRepo = repo
	}
}

// WithEvaluator sets the compliance evaluator
func WithEvaluator(evaluator *compliance.Evaluator) AssessmentServiceOption {
	return func(s *AssessmentService) {
		s.evaluator = evaluator
	}
}

// NewAssessmentService creates a new assessment service
func NewAssessmentService(opts ...AssessmentServiceOption) *AssessmentService {
	s := &AssessmentService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateAssessmentRequest represents a request to create an assessment
type CreateAssessmentRequest struct {
	UserID       uuid.UUID
	CaseName     string
	CaseNumber   *string
	Jurisdiction models.Jurisdiction
	Status       models.AssessmentStatus
}

// CreateAssessmentResult represents the result of creating an assessment
type CreateAssessmentResult struct {
	Assessment *models.Assessment
}

// CreateAssessment creates a new assessment with default values
func (s *AssessmentService) CreateAssessment(ctx context.Context, req CreateAssessmentRequest) (*CreateAssessmentResult, error) {
	if s.assessmentRepo == nil {
		return nil, errors.New("assessment repository not set")
	}

	assessment := &models.Assessment{
		UserID:       req.UserID,
		Status:       req.Status,
		CaseName:     req.CaseName,
		CaseNumber:   req.CaseNumber,
		Jurisdiction: req.Jurisdiction,
	}

	if assessment.Status == "" {
		assessment.Status = models.StatusDraft
	}
	if assessment.Jurisdiction == "" {
		assessment.Jurisdiction = models.JurisdictionFederal
	}

	err := s.assessmentRepo.Create(ctx, assessment)
	if err != nil {
		return nil, err
	}

	return &CreateAssessmentResult{Assessment: assessment}, nil
}

// GetAssessmentRequest represents a request to get an assessment
type GetAssessmentRequest struct {
	ID uuid.UUID
}

// GetAssessmentResult represents the result of getting an assessment
type GetAssessmentResult struct {
	Assessment *models.Assessment
}

// GetAssessment retrieves an assessment by ID
func (s *AssessmentService) GetAssessment(ctx context.Context, req GetAssessmentRequest) (*GetAssessmentResult, error) {
	if s.assessmentRepo == nil {
		return nil, errors.New("assessment repository not set")
	}

	assessment, err := s.assessmentRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, ErrAssessmentNotFound
	}

	return &GetAssessmentResult{Assessment: assessment}, nil
}

// UpdateAssessmentRequest represents a request to update an assessment
type UpdateAssessmentRequest struct {
	Assessment *models.Assessment
}

// UpdateAssessmentResult represents the result of updating an assessment
type UpdateAssessmentResult struct {
	Assessment *models.Assessment
}

// UpdateAssessment updates an assessment
func (s *AssessmentService) UpdateAssessment(ctx context.Context, req UpdateAssessmentRequest) (*UpdateAssessmentResult, error) {
	if s.assessmentRepo == nil {
		return nil, errors.New("assessment repository not set")
	}

	err := s.assessmentRepo.Update(ctx, req.Assessment)
	if err != nil {
		return nil, err
	}

	return &UpdateAssessmentResult{Assessment: req.Assessment}, nil
}

// ListAssessmentsRequest represents a request to list assessments
type ListAssessmentsRequest struct {
	UserID uuid.UUID
	Status *models.AssessmentStatus
	Limit  int
	Offset int
}

// ListAssessmentsResult represents the result of listing assessments
type ListAssessmentsResult struct {
	Assessments []*models.Assessment
}

// ListAssessments lists assessments for a user
func (s *AssessmentService) ListAssessments(ctx context.Context, req ListAssessmentsRequest) (*ListAssessmentsResult, error) {
	if s.assessmentRepo == nil {
		return nil, errors.New("assessment repository not set")
	}

	assessments, err := s.assessmentRepo.ListByUserID(ctx, req.UserID, req.Status, req.Limit, req.Offset)
	if err != nil {
		return nil, err
	}

	return &ListAssessmentsResult{Assessments: assessments}, nil
}

// DeleteAssessment deletes an assessment and its dependent records
func (s *AssessmentService) DeleteAssessment(ctx context.Context, id uuid.UUID) error {
	if s.assessmentRepo == nil {
		return errors.New("assessment repository not set")
	}

	return s.assessmentRepo.Delete(ctx, id)
}

// AddEvidenceRequest represents a request to add an evidence item
type AddEvidenceRequest struct {
	Evidence *models.EvidenceItem
}

// AddEvidenceResult represents the result of adding an evidence item
type AddEvidenceResult struct {
	Evidence *models.EvidenceItem
}

// AddEvidence adds an evidence item to an assessment
func (s *AssessmentService) AddEvidence(ctx context.Context, req AddEvidenceRequest) (*AddEvidenceResult, error) {
	if s.assessmentRepo == nil || s.evidenceRepo == nil {
		return nil, errors.New("repositories not set")
	}

	// Validate the parent assessment exists
	if _, err := s.assessmentRepo.GetByID(ctx, req.Evidence.AssessmentID); err != nil {
		return nil, ErrAssessmentNotFound
	}

	err := s.evidenceRepo.Create(ctx, req.Evidence)
	if err != nil {
		return nil, err
	}

	return &AddEvidenceResult{Evidence: req.Evidence}, nil
}

// GetEvidence retrieves one evidence item by ID
func (s *AssessmentService) GetEvidence(ctx context.Context, id uuid.UUID) (*models.EvidenceItem, error) {
	if s.evidenceRepo == nil {
		return nil, errors.New("evidence repository not set")
	}

	item, err := s.evidenceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrEvidenceNotFound
	}

	return item, nil
}

// ListEvidence retrieves all evidence items for an assessment
func (s *AssessmentService) ListEvidence(ctx context.Context, assessmentID uuid.UUID) ([]*models.EvidenceItem, error) {
	if s.evidenceRepo == nil {
		return nil, errors.New("evidence repository not set")
	}

	return s.evidenceRepo.ListByAssessmentID(ctx, assessmentID)
}

// UpdateEvidence updates an evidence item
func (s *AssessmentService) UpdateEvidence(ctx context.Context, item *models.EvidenceItem) error {
	if s.evidenceRepo == nil {
		return errors.New("evidence repository not set")
	}

	return s.evidenceRepo.Update(ctx, item)
}

// DeleteEvidence deletes an evidence item
func (s *AssessmentService) DeleteEvidence(ctx context.Context, id uuid.UUID) error {
	if s.evidenceRepo == nil {
		return errors.New("evidence repository not set")
	}

	return s.evidenceRepo.Delete(ctx, id)
}

// ScoreEvidence runs the full compliance evaluation for one evidence
// item. Pure computation over the stored metadata; the one hard failure
// (unknown rule id) cannot occur here because the evaluator's fixed
// rule set is catalog-guaranteed.
func (s *AssessmentService) ScoreEvidence(ctx context.Context, evidenceID uuid.UUID) (*compliance.AdmissibilityAssessment, error) {
	if s.evaluator == nil {
		return nil, errors.New("compliance evaluator not set")
	}

	item, err := s.GetEvidence(ctx, evidenceID)
	if err != nil {
		return nil, err
	}

	assessment := s.evaluator.Assess(item)
	return &assessment, nil
}

// ScoreEvidenceRule evaluates a single rule against one evidence item.
// Unknown rule ids propagate compliance.ErrUnknownRule to the caller.
func (s *AssessmentService) ScoreEvidenceRule(ctx context.Context, evidenceID uuid.UUID, ruleID string) (*compliance.ComplianceResult, error) {
	if s.evaluator == nil {
		return nil, errors.New("compliance evaluator not set")
	}

	item, err := s.GetEvidence(ctx, evidenceID)
	if err != nil {
		return nil, err
	}

	return s.evaluator.EvaluateRule(ruleID, item)
}
