package handlers

import (
	"net/http"

	"admitcheck-backend/compliance"
	"admitcheck-backend/models"
	"admitcheck-backend/repository"

	"github.com/gin-gonic/gin"
)

// RuleHandler serves the read-only legal rule catalog
type RuleHandler struct {
	catalog        *compliance.Catalog
	annotationRepo *repository.RuleAnnotationRepository
}

// NewRuleHandler creates a new rule handler
func NewRuleHandler(catalog *compliance.Catalog, annotationRepo *repository.RuleAnnotationRepository) *RuleHandler {
	return &RuleHandler{
		catalog:        catalog,
		annotationRepo: annotationRepo,
	}
}

// ListRules handles GET /api/rules?category=...
func (h *RuleHandler) ListRules(c *gin.Context) {
	var rules []compliance.LegalRule
	if category := c.Query("category"); category != "" {
		rules = h.catalog.RulesByCategory(compliance.Category(category))
	} else {
		rules = h.catalog.Rules()
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    rules,
	})
}

// GetRule handles GET /api/rules/:ruleId
func (h *RuleHandler) GetRule(c *gin.Context) {
	rule, ok := h.catalog.RuleByID(c.Param("ruleId"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "RULE_UNKNOWN",
				"message": "No rule with that id in the catalog",
			},
		})
		return
	}

	payload := gin.H{"rule": rule}
	if criteria, ok := h.catalog.CriteriaForRule(rule.ID); ok {
		payload["criteria"] = criteria
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    payload,
	})
}

// GetRuleAnnotations handles GET /api/rules/:ruleId/annotations?source_type=...
func (h *RuleHandler) GetRuleAnnotations(c *gin.Context) {
	rule, ok := h.catalog.RuleByID(c.Param("ruleId"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "RULE_UNKNOWN",
				"message": "No rule with that id in the catalog",
			},
		})
		return
	}

	sourceType := models.AnnotationSourceType(c.Query("source_type"))

	annotations, err := h.annotationRepo.ListByRuleID(c.Request.Context(), rule.ID, sourceType, 20)
	if err != nil {
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
		"data":    annotations,
	})
}
