package handlers

import (
	"bytes"
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"admitcheck-backend/compliance"
	"admitcheck-backend/models"
	"admitcheck-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AssessmentHandler handles HTTP requests for assessments and evidence
type AssessmentHandler struct {
	assessmentService *service.AssessmentService
	reportService     *service.ReportService
}

// NewAssessmentHandler creates a new assessment handler
func NewAssessmentHandler(assessmentService *service.AssessmentService, reportService *service.ReportService) *AssessmentHandler {
	return &AssessmentHandler{
		assessmentService: assessmentService,
		reportService:     reportService,
	}
}

// CreateAssessmentRequest represents the request body for creating an assessment
type CreateAssessmentRequest struct {
	UserID       string  `json:"user_id" binding:"required"`
	CaseName     string  `json:"case_name" binding:"required"`
	CaseNumber   *string `json:"case_number"`
	Jurisdiction string  `json:"jurisdiction"`
	Status       string  `json:"status"`
}

// CreateAssessment handles POST /api/assessments
func (h *AssessmentHandler) CreateAssessment(c *gin.Context) {
	var req CreateAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_USER_ID",
				"message": "Invalid user_id format",
			},
		})
		return
	}

	if req.Jurisdiction != "" &&
		req.Jurisdiction != string(models.JurisdictionFederal) &&
		req.Jurisdiction != string(models.JurisdictionIndiana) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_JURISDICTION",
				"message": "Jurisdiction must be 'federal' or 'indiana'",
			},
		})
		return
	}

	serviceReq := service.CreateAssessmentRequest{
		UserID:       userID,
		CaseName:     req.CaseName,
		CaseNumber:   req.CaseNumber,
		Jurisdiction: models.Jurisdiction(req.Jurisdiction),
		Status:       models.AssessmentStatus(req.Status),
	}

	result, err := h.assessmentService.CreateAssessment(c.Request.Context(), serviceReq)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CREATE_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    result.Assessment,
	})
}

// GetAssessment handles GET /api/assessments/:id
func (h *AssessmentHandler) GetAssessment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.assessmentService.GetAssessment(c.Request.Context(), service.GetAssessmentRequest{ID: id})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Assessment not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Assessment,
	})
}

// ListAssessments handles GET /api/assessments?user_id=...&status=...
func (h *AssessmentHandler) ListAssessments(c *gin.Context) {
	userID, err := uuid.Parse(c.Query("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_USER_ID",
				"message": "user_id query parameter is required and must be a UUID",
			},
		})
		return
	}

	var status *models.AssessmentStatus
	if s := c.Query("status"); s != "" {
		st := models.AssessmentStatus(s)
		status = &st
	}

	serviceReq := service.ListAssessmentsRequest{
		UserID: userID,
		Status: status,
		Limit:  50,
		Offset: 0,
	}

	result, err := h.assessmentService.ListAssessments(c.Request.Context(), serviceReq)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "LIST_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Assessments,
	})
}

// UpdateAssessmentRequest represents the request body for updating an assessment
type UpdateAssessmentRequest struct {
	Status       string  `json:"status"`
	CaseName     string  `json:"case_name"`
	CaseNumber   *string `json:"case_number"`
	Jurisdiction string  `json:"jurisdiction"`
	Notes        *string `json:"notes"`
}

// UpdateAssessment handles PUT /api/assessments/:id
func (h *AssessmentHandler) UpdateAssessment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	getResult, err := h.assessmentService.GetAssessment(c.Request.Context(), service.GetAssessmentRequest{ID: id})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Assessment not found",
			},
		})
		return
	}

	assessment := getResult.Assessment

	var req UpdateAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	if req.Status != "" {
		assessment.Status = models.AssessmentStatus(req.Status)
		if assessment.Status == models.StatusCompleted && assessment.CompletedAt == nil {
			now := time.Now()
			assessment.CompletedAt = &now
		}
	}
	if req.CaseName != "" {
		assessment.CaseName = req.CaseName
	}
	if req.CaseNumber != nil {
		assessment.CaseNumber = req.CaseNumber
	}
	if req.Jurisdiction != "" {
		assessment.Jurisdiction = models.Jurisdiction(req.Jurisdiction)
	}
	if req.Notes != nil {
		assessment.Notes = req.Notes
	}

	updateResult, err := h.assessmentService.UpdateAssessment(c.Request.Context(), service.UpdateAssessmentRequest{
		Assessment: assessment,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPDATE_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    updateResult.Assessment,
	})
}

// DeleteAssessment handles DELETE /api/assessments/:id
func (h *AssessmentHandler) DeleteAssessment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	err := h.assessmentService.DeleteAssessment(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DELETE_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"deleted": true},
	})
}

// AddEvidenceRequest represents the request body for adding evidence
type AddEvidenceRequest struct {
	Type          string                   `json:"type" binding:"required"`
	Description   string                   `json:"description"`
	Source        string                   `json:"source"`
	CollectedAt   *time.Time               `json:"collected_at"`
	Metadata      *models.EvidenceMetadata `json:"metadata"`
	ExhibitFileID *string                  `json:"exhibit_file_id"`
}

// AddEvidence handles POST /api/assessments/:id/evidence
func (h *AssessmentHandler) AddEvidence(c *gin.Context) {
	assessmentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req AddEvidenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	item := &models.EvidenceItem{
		AssessmentID: assessmentID,
		Type:         req.Type,
		Description:  req.Description,
		Source:       req.Source,
		CollectedAt:  req.CollectedAt,
	}
	if req.Metadata != nil {
		item.Metadata = *req.Metadata
	}
	if req.ExhibitFileID != nil {
		fileID, err := uuid.Parse(*req.ExhibitFileID)
		if err == nil {
			item.ExhibitFileID = &fileID
		}
	}

	result, err := h.assessmentService.AddEvidence(c.Request.Context(), service.AddEvidenceRequest{Evidence: item})
	if err != nil {
		if errors.Is(err, service.ErrAssessmentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Assessment not found",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CREATE_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    result.Evidence,
	})
}

// ListEvidence handles GET /api/assessments/:id/evidence
func (h *AssessmentHandler) ListEvidence(c *gin.Context) {
	assessmentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	items, err := h.assessmentService.ListEvidence(c.Request.Context(), assessmentID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "LIST_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    items,
	})
}

// UpdateEvidenceRequest represents the request body for updating evidence
type UpdateEvidenceRequest struct {
	Type          string                   `json:"type"`
	Description   string                   `json:"description"`
	Source        string                   `json:"source"`
	CollectedAt   *time.Time               `json:"collected_at"`
	Metadata      *models.EvidenceMetadata `json:"metadata"`
	ExhibitFileID *string                  `json:"exhibit_file_id"`
}

// UpdateEvidence handles PUT /api/evidence/:id
func (h *AssessmentHandler) UpdateEvidence(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	item, err := h.assessmentService.GetEvidence(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Evidence item not found",
			},
		})
		return
	}

	var req UpdateEvidenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	if req.Type != "" {
		item.Type = req.Type
	}
	if req.Description != "" {
		item.Description = req.Description
	}
	if req.Source != "" {
		item.Source = req.Source
	}
	if req.CollectedAt != nil {
		item.CollectedAt = req.CollectedAt
	}
	if req.Metadata != nil {
		item.Metadata = *req.Metadata
	}
	if req.ExhibitFileID != nil {
		fileID, err := uuid.Parse(*req.ExhibitFileID)
		if err == nil {
			item.ExhibitFileID = &fileID
		}
	}

	if err := h.assessmentService.UpdateEvidence(c.Request.Context(), item); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPDATE_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    item,
	})
}

// DeleteEvidence handles DELETE /api/evidence/:id
func (h *AssessmentHandler) DeleteEvidence(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.assessmentService.DeleteEvidence(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DELETE_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"deleted": true},
	})
}

// GetEvidenceCompliance handles GET /api/evidence/:id/compliance
func (h *AssessmentHandler) GetEvidenceCompliance(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.assessmentService.ScoreEvidence(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrEvidenceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Evidence item not found",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "EVALUATION_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}

// GetEvidenceRuleCompliance handles GET /api/evidence/:id/rules/:ruleId
func (h *AssessmentHandler) GetEvidenceRuleCompliance(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.assessmentService.ScoreEvidenceRule(c.Request.Context(), id, c.Param("ruleId"))
	if err != nil {
		if errors.Is(err, compliance.ErrUnknownRule) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "RULE_UNKNOWN",
					"message": err.Error(),
				},
			})
			return
		}
		if errors.Is(err, service.ErrEvidenceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Evidence item not found",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "EVALUATION_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}

// GenerateReport handles POST /api/assessments/:id/report
func (h *AssessmentHandler) GenerateReport(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	// Create job (synchronous, fast)
	result, err := h.reportService.GenerateReport(c.Request.Context(), service.GenerateReportRequest{
		AssessmentID: id,
	})
	if err != nil {
		if errors.Is(err, service.ErrAssessmentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Assessment not found",
				},
			})
			return
		}
		if errors.Is(err, service.ErrNoEvidence) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NO_EVIDENCE",
					"message": "Assessment has no evidence items to analyze",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "GENERATION_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	// Spawn background goroutine for actual processing
	// Use background context (not request context) to avoid cancellation
	go func() {
		bgCtx := context.Background()
		if err := h.reportService.ProcessReport(bgCtx, result.JobID); err != nil {
			// Error is logged and stored in job.ErrorMessage
			// No need to return to HTTP client (they'll poll status)
			log.Printf("Analysis job %s failed: %v", result.JobID, err)
		}
	}()

	// Return immediately (within 100ms)
	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"data": gin.H{
			"job_id":  result.JobID,
			"status":  "pending",
			"message": "Analysis job created. Poll /api/jobs/:id for updates.",
		},
	})
}

// GetJobStatus handles GET /api/jobs/:id
func (h *AssessmentHandler) GetJobStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.reportService.GetJobStatus(c.Request.Context(), service.GetJobStatusRequest{JobID: id})
	if err != nil {
		if errors.Is(err, service.ErrJobNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Analysis job not found",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "RETRIEVAL_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Job,
	})
}

// ExportAssessment handles GET /api/assessments/:id/export?format=json|csv
func (h *AssessmentHandler) ExportAssessment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	format := c.DefaultQuery("format", "json")

	var buf bytes.Buffer
	contentType, err := h.assessmentService.Export(c.Request.Context(), id, format, &buf)
	if err != nil {
		if errors.Is(err, service.ErrNoEvidence) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NO_EVIDENCE",
					"message": "Assessment has no evidence items to export",
				},
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "EXPORT_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	filename := "assessment-" + id.String() + "." + format
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

// parseIDParam parses a UUID path parameter and writes the error
// response itself when the value is malformed
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid " + name + " format",
			},
		})
		return uuid.Nil, false
	}
	return id, true
}
