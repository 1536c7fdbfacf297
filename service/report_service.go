package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"admitcheck-backend/compliance"
	"admitcheck-backend/models"
	"admitcheck-backend/repository"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
)

// ReportService handles AI report generation for assessments
type ReportService struct {
	assessmentRepo *repository.AssessmentRepository
	evidenceRepo   *repository.EvidenceRepository
	jobRepo        *repository.AnalysisJobRepository
	annotationRepo *repository.RuleAnnotationRepository
	evaluator      *compliance.Evaluator
	geminiClient   *genai.Client
}

// ReportServiceOption is a functional option for ReportService
type ReportServiceOption func(*ReportService)

// ReportWithAssessmentRepository sets the assessment repository
func ReportWithAssessmentRepository(repo *repository.AssessmentRepository) ReportServiceOption {
	return func(s *ReportService) {
		s.assessmentRepo = repo
	}
}

// ReportWithEvidenceRepository sets the evidence repository
func ReportWithEvidenceRepository(repo *repository.EvidenceRepository) ReportServiceOption {
	return func(s *ReportService) {
		s.evidenceRepo = repo
	}
}

// ReportWithAnalysisJobRepository sets the analysis job repository
func ReportWithAnalysisJobRepository(repo *repository.AnalysisJobRepository) ReportServiceOption {
	return func(s *ReportService) {
		s.jobRepo = repo
	}
}

// ReportWithRuleAnnotationRepository sets the rule annotation repository
func ReportWithRuleAnnotationRepository(repo *repository.RuleAnnotationRepository) ReportServiceOption {
	return func(s *ReportService) {
		s.annotationRepo = repo
	}
}

// ReportWithEvaluator sets the compliance evaluator
func ReportWithEvaluator(evaluator *compliance.Evaluator) ReportServiceOption {
	return func(s *ReportService) {
		s.evaluator = evaluator
	}
}

// ReportWithGeminiClient sets the Gemini client
func ReportWithGeminiClient(client *genai.Client) ReportServiceOption {
	return func(s *ReportService) {
		s.geminiClient = client
	}
}

// NewReportService creates a new report service
func NewReportService(opts ...ReportServiceOption) *ReportService {
	s := &ReportService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GenerateReportRequest represents a request to generate a report
type GenerateReportRequest struct {
	AssessmentID uuid.UUID
}

// GenerateReportResult represents the result of creating an analysis job
type GenerateReportResult struct {
	JobID uuid.UUID
}

// GetJobStatusRequest represents a request to get job status
type GetJobStatusRequest struct {
	JobID uuid.UUID
}

// GetJobStatusResult represents the result of getting job status
type GetJobStatusResult struct {
	Job *models.AnalysisJob
}

const (
	generationAPI  = "https://generativelanguage.googleapis.com/v1beta/models/gemini-3-pro-preview:generateContent"
	maxRetries     = 3
	initialBackoff = time.Second
	maxPromptChars = 30000

	opinionStepName  = "Admissibility Opinion"
	assembleStepName = "Assembling Report"
)

// GenerateReport creates an analysis job and returns immediately.
// This method must complete quickly to avoid HTTP timeouts; the actual
// work happens in ProcessReport on a background goroutine.
func (s *ReportService) GenerateReport(
	ctx context.Context,
	req GenerateReportRequest,
) (*GenerateReportResult, error) {
	if s.assessmentRepo == nil {
		return nil, errors.New("assessment repository not set")
	}
	if s.evidenceRepo == nil {
		return nil, errors.New("evidence repository not set")
	}
	if s.jobRepo == nil {
		return nil, errors.New("analysis job repository not set")
	}

	// 1. Validate assessment exists
	if _, err := s.assessmentRepo.GetByID(ctx, req.AssessmentID); err != nil {
		return nil, ErrAssessmentNotFound
	}

	// 2. Validate there is something to analyze
	items, err := s.evidenceRepo.ListByAssessmentID(ctx, req.AssessmentID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNoEvidence
	}

	// 3. Create analysis job with initial steps
	job := &models.AnalysisJob{
		ID:           uuid.New(),
		AssessmentID: req.AssessmentID,
		Status:       models.JobStatusPending,
		Steps:        s.initializeSteps(items),
	}

	err = s.jobRepo.Create(ctx, job)
	if err != nil {
		return nil, ErrJobCreationFailed
	}

	return &GenerateReportResult{
		JobID: job.ID,
	}, nil
}

// GetJobStatus retrieves the status of an analysis job
func (s *ReportService) GetJobStatus(
	ctx context.Context,
	req GetJobStatusRequest,
) (*GetJobStatusResult, error) {
	if s.jobRepo == nil {
		return nil, errors.New("analysis job repository not set")
	}

	job, err := s.jobRepo.GetByID(ctx, req.JobID)
	if err != nil {
		return nil, ErrJobNotFound
	}

	return &GetJobStatusResult{
		Job: job,
	}, nil
}

// initializeSteps creates the initial analysis steps for each evidence
// item plus the closing steps
func (s *ReportService) initializeSteps(items []*models.EvidenceItem) models.AnalysisSteps {
	steps := make(models.AnalysisSteps, 0, len(items)+2)

	for _, item := range items {
		steps = append(steps, models.AnalysisStep{
			Name:   evidenceStepName(item),
			Status: "pending",
		})
	}

	steps = append(steps, models.AnalysisStep{
		Name:   opinionStepName,
		Status: "pending",
	})
	steps = append(steps, models.AnalysisStep{
		Name:   assembleStepName,
		Status: "pending",
	})

	return steps
}

// evidenceStepName returns a human-readable step name for an evidence item
func evidenceStepName(item *models.EvidenceItem) string {
	desc := item.Description
	if len(desc) > 40 {
		desc = desc[:40] + "..."
	}
	if desc == "" {
		desc = item.ID.String()[:8]
	}
	return "Analyzing Evidence: " + desc
}

// reportSection represents one section of the generated report
type reportSection struct {
	Title     string
	Content   string
	Citations []string
}

// ProcessReport performs the actual analysis work in the background.
// This method runs in a goroutine and can take tens of seconds.
func (s *ReportService) ProcessReport(
	ctx context.Context,
	jobID uuid.UUID,
) error {
	if s.jobRepo == nil {
		return errors.New("analysis job repository not set")
	}
	if s.assessmentRepo == nil {
		return errors.New("assessment repository not set")
	}
	if s.evaluator == nil {
		return errors.New("compliance evaluator not set")
	}

	// 1. Load job and assessment
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("failed to load analysis job: %w", err)
	}

	assessment, err := s.assessmentRepo.GetByID(ctx, job.AssessmentID)
	if err != nil {
		s.markJobFailed(ctx, jobID, "failed to load assessment: "+err.Error())
		return err
	}

	items, err := s.evidenceRepo.ListByAssessmentID(ctx, job.AssessmentID)
	if err != nil {
		s.markJobFailed(ctx, jobID, "failed to load evidence items: "+err.Error())
		return err
	}

	// 2. Update job status to in_progress
	err = s.jobRepo.UpdateStatus(ctx, jobID, models.JobStatusInProgress)
	if err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}

	// 3. Score and narrate each evidence item
	sections := make([]reportSection, 0, len(items))
	assessments := make([]compliance.AdmissibilityAssessment, 0, len(items))

	for _, item := range items {
		stepName := evidenceStepName(item)

		err = s.updateStepStatus(ctx, jobID, stepName, "in_progress")
		if err != nil {
			s.markJobFailed(ctx, jobID, "failed to update step: "+err.Error())
			return err
		}

		// Deterministic compliance scoring; the AI only narrates it
		itemAssessment := s.evaluator.Assess(item)
		assessments = append(assessments, itemAssessment)

		content, err := s.generateEvidenceSection(ctx, item, &itemAssessment)
		if err != nil {
			s.markJobFailed(ctx, jobID, fmt.Sprintf("failed to generate section for evidence %s: %v", item.ID, err))
			return fmt.Errorf("failed to generate section for evidence %s: %w", item.ID, err)
		}

		sections = append(sections, reportSection{
			Title:     sectionTitle(item),
			Content:   content,
			Citations: s.resultCitations(&itemAssessment),
		})

		err = s.updateStepStatus(ctx, jobID, stepName, "completed")
		if err != nil {
			s.markJobFailed(ctx, jobID, "failed to update step: "+err.Error())
			return err
		}
	}

	// 4. Generate the admissibility opinion
	err = s.updateStepStatus(ctx, jobID, opinionStepName, "in_progress")
	if err != nil {
		s.markJobFailed(ctx, jobID, "failed to update step: "+err.Error())
		return err
	}

	opinion := s.generateOpinion(ctx, assessment, items, assessments)

	err = s.updateStepStatus(ctx, jobID, opinionStepName, "completed")
	if err != nil {
		s.markJobFailed(ctx, jobID, "failed to update step: "+err.Error())
		return err
	}

	// 5. Assemble report
	err = s.updateStepStatus(ctx, jobID, assembleStepName, "in_progress")
	if err != nil {
		s.markJobFailed(ctx, jobID, "failed to update step: "+err.Error())
		return err
	}

	overall := overallAcrossItems(assessments)
	assembled := s.assembleReport(assessment, items, assessments, sections, opinion, overall)

	err = s.updateStepStatus(ctx, jobID, assembleStepName, "completed")
	if err != nil {
		s.markJobFailed(ctx, jobID, "failed to update step: "+err.Error())
		return err
	}

	// 6. Store result
	err = s.assessmentRepo.UpdateGeneratedReport(ctx, job.AssessmentID, assembled, overall)
	if err != nil {
		s.markJobFailed(ctx, jobID, "failed to store generated report: "+err.Error())
		return err
	}

	// 7. Mark job as completed
	err = s.jobRepo.Complete(ctx, jobID)
	if err != nil {
		return fmt.Errorf("failed to complete job: %w", err)
	}

	return nil
}

// overallAcrossItems averages per-item overall compliance; one item's
// overall is already normalized against the fixed rule set.
func overallAcrossItems(assessments []compliance.AdmissibilityAssessment) int {
	if len(assessments) == 0 {
		return 0
	}
	total := 0
	for _, a := range assessments {
		total += a.OverallCompliance
	}
	return total / len(assessments)
}

// updateStepStatus updates the status of a specific step in the analysis job
func (s *ReportService) updateStepStatus(ctx context.Context, jobID uuid.UUID, stepName, status string) error {
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return err
	}

	steps := job.Steps
	var currentStep string
	if job.CurrentStep != nil {
		currentStep = *job.CurrentStep
	}

	for i := range steps {
		if steps[i].Name == stepName {
			steps[i].Status = status
			if status == "in_progress" {
				currentStep = stepName
			}
			break
		}
	}

	return s.jobRepo.UpdateProgress(ctx, jobID, currentStep, steps)
}

// markJobFailed marks a job as failed with an error message
func (s *ReportService) markJobFailed(ctx context.Context, jobID uuid.UUID, errorMessage string) {
	err := s.jobRepo.Fail(ctx, jobID, errorMessage)
	if err != nil {
		log.Printf("Warning: failed to mark job %s as failed: %v", jobID, err)
	}
}

func sectionTitle(item *models.EvidenceItem) string {
	if item.Description != "" {
		return item.Description
	}
	return "Evidence " + item.ID.String()[:8]
}

// resultCitations collects the catalog citations for every rule that
// produced a finding on this item
func (s *ReportService) resultCitations(a *compliance.AdmissibilityAssessment) []string {
	ids := make([]string, 0, len(a.Results))
	for _, r := range a.Results {
		ids = append(ids, r.RuleID)
	}
	return s.evaluator.Catalog().Citations(ids)
}

// annotationContext fetches annotation snippets for the rules that
// flagged adverse findings, to ground the narrative prompt. Retrieval
// failure is survivable; we fall back to catalog requirement text.
func (s *ReportService) annotationContext(ctx context.Context, a *compliance.AdmissibilityAssessment) string {
	var builder strings.Builder

	for _, result := range a.Results {
		if s.annotationRepo != nil {
			annotations, err := s.annotationRepo.ListByRuleID(ctx, result.RuleID, "", 2)
			if err != nil {
				log.Printf("Warning: failed to retrieve annotations for %s: %v", result.RuleID, err)
			}
			for _, annotation := range annotations {
				builder.WriteString(annotation.Text)
				if annotation.Citation != nil {
					builder.WriteString(" " + *annotation.Citation)
				}
				builder.WriteString("\n\n")
			}
			if len(annotations) > 0 {
				continue
			}
		}

		// Fallback: catalog requirement text prevents the model from
		// inventing legal standards when no annotations are seeded.
		if rule, ok := s.evaluator.Catalog().RuleByID(result.RuleID); ok {
			builder.WriteString(rule.Title + " (" + rule.Citation + "): ")
			builder.WriteString(strings.Join(rule.Requirements, "; "))
			builder.WriteString("\n\n")
		}
	}

	return builder.String()
}

// formatScoring renders the deterministic evaluation for the prompt
func formatScoring(a *compliance.AdmissibilityAssessment) string {
	var builder strings.Builder

	for _, result := range a.Results {
		builder.WriteString(fmt.Sprintf("Rule %s: %d/%d", result.RuleID, result.Score, result.MaxScore))
		if result.Compliant {
			builder.WriteString(" (compliant)")
		} else {
			builder.WriteString(" (non-compliant)")
		}
		builder.WriteString("\n")
		for _, f := range result.Findings {
			builder.WriteString(fmt.Sprintf("  - [%s/%s] %s\n", f.Type, f.Impact, f.Description))
		}
		for _, rec := range result.Recommendations {
			builder.WriteString(fmt.Sprintf("  - recommendation: %s\n", rec))
		}
	}

	builder.WriteString(fmt.Sprintf("Overall compliance: %d%%, likelihood of admission: %s\n",
		a.OverallCompliance, a.Likelihood))

	return builder.String()
}

// generateEvidenceSection generates the narrative for one evidence item,
// grounded in the deterministic scoring results
func (s *ReportService) generateEvidenceSection(
	ctx context.Context,
	item *models.EvidenceItem,
	itemAssessment *compliance.AdmissibilityAssessment,
) (string, error) {
	if s.geminiClient == nil {
		return "", errors.New("gemini client not set")
	}

	legalContext := s.annotationContext(ctx, itemAssessment)
	scoring := formatScoring(itemAssessment)

	prompt := fmt.Sprintf(`You are an evidence-law attorney writing an admissibility analysis for a piece of digital evidence.

LEGAL CONTEXT:
%s

EVIDENCE:
Type: %s
Description: %s
Source: %s

RULE-BY-RULE SCORING (authoritative - do not contradict it):
%s

TASK:
Write the admissibility analysis section for this item:

1. Open with one paragraph describing the item and its role
2. Walk through each evaluated rule in the order given, explaining what the scoring found and why it matters
3. Close with the practical steps from the recommendations above

OUTPUT REQUIREMENTS:
- Use formal legal language and cite the rules by their citations
- 4-6 paragraphs, no markdown formatting (plain text)
- Do NOT include a section header/title - the content will be inserted under an existing header
- CRITICAL: Use the EXACT scores and findings above. Do NOT invent scores, findings, or rule outcomes.

TONE CONSTRAINTS (CRITICAL):
- Do NOT use flowery adjectives or hyperbole
- Use objective descriptors only
- This is an internal work product, not an advocacy piece; state weaknesses plainly

Write the section now:`,
		legalContext,
		item.Type,
		item.Description,
		item.Source,
		scoring,
	)

	return s.generateWithRetry(ctx, prompt, 0.2)
}

// aiOpinion is the structured admissibility opinion requested from the model
type aiOpinion struct {
	Likelihood string `json:"likelihood"`
	Summary    string `json:"summary"`
}

// generateOpinion asks the model for a JSON admissibility opinion over
// the whole assessment. The core never depends on the AI being right:
// on any failure the deterministic classification is used instead.
func (s *ReportService) generateOpinion(
	ctx context.Context,
	assessment *models.Assessment,
	items []*models.EvidenceItem,
	assessments []compliance.AdmissibilityAssessment,
) aiOpinion {
	fallback := deterministicOpinion(assessments)

	if s.geminiClient == nil {
		return fallback
	}

	var summary strings.Builder
	for i, a := range assessments {
		summary.WriteString(fmt.Sprintf("Item %d (%s): overall %d%%, likelihood %s\n",
			i+1, sectionTitle(items[i]), a.OverallCompliance, a.Likelihood))
	}

	prompt := fmt.Sprintf(`You are an evidence-law attorney. Based on the per-item compliance summary below, produce an overall admissibility opinion for the case "%s".

PER-ITEM SUMMARY (authoritative):
%s

Respond with ONLY a JSON object, no prose, in this exact shape:
{"likelihood": "high" | "medium" | "low", "summary": "<3-5 sentence overall opinion>"}

The likelihood must be consistent with the per-item likelihoods above.`,
		assessment.CaseName,
		summary.String(),
	)

	raw, err := s.generateWithRetry(ctx, prompt, 0.1)
	if err != nil {
		log.Printf("Warning: opinion generation failed, using deterministic classification: %v", err)
		return fallback
	}

	var opinion aiOpinion
	if err := json.Unmarshal(cleanJSON([]byte(raw)), &opinion); err != nil {
		log.Printf("Warning: failed to parse opinion JSON, using deterministic classification: %v", err)
		return fallback
	}

	switch opinion.Likelihood {
	case string(compliance.LikelihoodHigh), string(compliance.LikelihoodMedium), string(compliance.LikelihoodLow):
	default:
		opinion.Likelihood = fallback.Likelihood
	}
	if opinion.Summary == "" {
		opinion.Summary = fallback.Summary
	}

	return opinion
}

// deterministicOpinion derives an opinion from the evaluator output
// alone, for when the AI call fails or is unavailable
func deterministicOpinion(assessments []compliance.AdmissibilityAssessment) aiOpinion {
	worst := compliance.LikelihoodHigh
	for _, a := range assessments {
		if a.Likelihood == compliance.LikelihoodLow {
			worst = compliance.LikelihoodLow
			break
		}
		if a.Likelihood == compliance.LikelihoodMedium {
			worst = compliance.LikelihoodMedium
		}
	}

	return aiOpinion{
		Likelihood: string(worst),
		Summary: fmt.Sprintf(
			"Based on rule-by-rule compliance scoring across %d evidence item(s), the overall likelihood of admission is %s. See the per-item analysis for the specific findings and curative steps.",
			len(assessments), worst),
	}
}

// cleanJSON strips markdown code fences and surrounding whitespace from
// a model response so it can be unmarshalled
func cleanJSON(raw []byte) []byte {
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimSuffix(trimmed, "```")
		trimmed = strings.TrimSpace(trimmed)
	}
	return []byte(trimmed)
}

// generateWithRetry calls the generation API with retry and exponential
// backoff, truncating over-long prompts
func (s *ReportService) generateWithRetry(ctx context.Context, prompt string, temperature float64) (string, error) {
	var content string
	var err error
	backoff := initialBackoff
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(backoff)
			backoff *= 2
		}

		truncatedPrompt := prompt
		if len(prompt) > maxPromptChars {
			truncatedPrompt = prompt[:maxPromptChars] + "\n\n[Content truncated due to length...]"
			log.Printf("Warning: Prompt too long (%d chars), truncating to %d chars", len(prompt), maxPromptChars)
		}

		content, err = s.callGenerationAPI(ctx, truncatedPrompt, temperature)
		if err != nil {
			if attempt == maxRetries-1 {
				return "", fmt.Errorf("failed to generate content after %d attempts: %w", maxRetries, err)
			}
			continue
		}

		if content != "" {
			return content, nil
		}

		if attempt == maxRetries-1 {
			return "", ErrReportFailed
		}
	}

	if content == "" {
		return "", ErrReportFailed
	}
	return content, nil
}

// callGenerationAPI calls the Gemini generation API directly via HTTP
func (s *ReportService) callGenerationAPI(ctx context.Context, prompt string, temperature float64) (string, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return "", fmt.Errorf("GEMINI_API_KEY not set")
	}

	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]interface{}{
					{"text": prompt},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"temperature": temperature,
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", generationAPI, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", apiKey)

	client := &http.Client{Timeout: 120 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		log.Printf("Gemini API error: Status %d, Body: %s", resp.StatusCode, string(bodyBytes))
		return "", fmt.Errorf("API error: %d - %s", resp.StatusCode, string(bodyBytes))
	}

	var apiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
			FinishReason string `json:"finishReason,omitempty"`
		} `json:"candidates"`
		PromptFeedback struct {
			BlockReason string `json:"blockReason,omitempty"`
		} `json:"promptFeedback,omitempty"`
		Error struct {
			Code    int    `json:"code,omitempty"`
			Message string `json:"message,omitempty"`
		} `json:"error,omitempty"`
	}

	bodyBytes, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(bodyBytes, &apiResp); err != nil {
		log.Printf("Failed to decode response. Body: %s", string(bodyBytes))
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if apiResp.Error.Message != "" {
		return "", fmt.Errorf("API error: %s (code: %d)", apiResp.Error.Message, apiResp.Error.Code)
	}

	if apiResp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("API blocked prompt: %s", apiResp.PromptFeedback.BlockReason)
	}

	if len(apiResp.Candidates) == 0 {
		log.Printf("API returned no candidates. Full response: %s", string(bodyBytes))
		return "", fmt.Errorf("API returned no candidates")
	}

	var responseText strings.Builder
	for i, candidate := range apiResp.Candidates {
		if candidate.FinishReason != "" && candidate.FinishReason != "STOP" {
			log.Printf("Warning: Candidate %d finished with reason: %s", i, candidate.FinishReason)
		}

		if len(candidate.Content.Parts) == 0 {
			return "", fmt.Errorf("API candidate has no parts (finish reason: %s)", candidate.FinishReason)
		}

		for j, part := range candidate.Content.Parts {
			if part.Text == "" {
				log.Printf("Warning: Candidate %d, part %d has empty text", i, j)
				continue
			}
			responseText.WriteString(part.Text)
		}
	}

	result := responseText.String()
	if result == "" {
		return "", fmt.Errorf("API returned empty content")
	}

	return result, nil
}

// assembleReport combines all sections into a complete report
func (s *ReportService) assembleReport(
	assessment *models.Assessment,
	items []*models.EvidenceItem,
	assessments []compliance.AdmissibilityAssessment,
	sections []reportSection,
	opinion aiOpinion,
	overall int,
) string {
	var builder strings.Builder

	builder.WriteString("DIGITAL EVIDENCE ADMISSIBILITY REPORT\n\n")
	builder.WriteString("I. MATTER\n")
	builder.WriteString(assessment.CaseName)
	if assessment.CaseNumber != nil {
		builder.WriteString(fmt.Sprintf(" (No. %s)", *assessment.CaseNumber))
	}
	builder.WriteString(fmt.Sprintf("\nJurisdiction: %s rules of evidence\n\n", assessment.Jurisdiction))

	builder.WriteString("II. COMPLIANCE SUMMARY\n")
	builder.WriteString(fmt.Sprintf("Overall compliance: %d%%\n", overall))
	for i, a := range assessments {
		builder.WriteString(fmt.Sprintf("%d. %s - %d%%, likelihood of admission: %s\n",
			i+1, sectionTitle(items[i]), a.OverallCompliance, a.Likelihood))
	}
	builder.WriteString("\n")

	builder.WriteString("III. EVIDENCE ANALYSIS\n\n")
	for _, section := range sections {
		builder.WriteString(section.Title + "\n")
		builder.WriteString(section.Content + "\n")
		if len(section.Citations) > 0 {
			builder.WriteString("Authorities: " + strings.Join(section.Citations, "; ") + "\n")
		}
		builder.WriteString("\n")
	}

	builder.WriteString("IV. ADMISSIBILITY OPINION\n")
	builder.WriteString(fmt.Sprintf("Likelihood of admission: %s\n", opinion.Likelihood))
	builder.WriteString(opinion.Summary + "\n\n")

	builder.WriteString("V. DISCLAIMER\n")
	builder.WriteString("This report is an analytical work product generated from structured evidence metadata. It is not legal advice and does not constitute a legal determination of admissibility.\n")

	return builder.String()
}
