package ghg

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"esg-dashboard/ghg-backend/internal/auth"
)

// Handler handles HTTP requests for the GHG calculator
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new GHG handler
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers calculator routes
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	ghg := router.Group("/ghg")
	{
		ghg.GET("/state", h.getState)
		ghg.PUT("/questionnaire", h.submitQuestionnaire)
		ghg.GET("/questionnaire/options", h.getQuestionnaireOptions)
		ghg.PUT("/selection", h.updateSelection)
		ghg.PUT("/step", h.setStep)
		ghg.DELETE("/session", h.resetSession)
		ghg.GET("/session/keys", h.listStoredKeys)

		// Reference data
		ghg.GET("/factors", h.getFactors)
		ghg.GET("/factors/resolve", h.resolveFactor)
		ghg.POST("/factors/custom", h.addCustomFactor)
		ghg.DELETE("/factors/custom", h.deleteCustomFactor)
		ghg.GET("/units", h.getUnits)
		ghg.GET("/equipment", h.getEquipment)

		// Ledger
		ghg.POST("/calculate", h.calculate)
		ghg.GET("/entries", h.listEntries)
		ghg.DELETE("/entries", h.clearEntries)
		ghg.DELETE("/entries/:id", h.removeEntry)
		ghg.GET("/summary", h.getSummary)
	}
}

// CustomFactorRequest is the body of the custom factor endpoints.
type CustomFactorRequest struct {
	Scope        string  `json:"scope" binding:"required"`
	Category     string  `json:"category"`
	FuelCategory string  `json:"fuelCategory" binding:"required"`
	Name         string  `json:"name" binding:"required"`
	Factor       float64 `json:"factor"`
}

// CalculateRequest optionally updates the selection before calculating.
type CalculateRequest struct {
	Selection *Selection `json:"selection"`
}

// StepRequest is the body of PUT /step.
type StepRequest struct {
	Step Step `json:"step" binding:"required"`
}

// getState handles GET /api/v1/ghg/state
func (h *Handler) getState(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Snapshot(c.Request.Context(), auth.UserID(c)))
}

// submitQuestionnaire handles PUT /api/v1/ghg/questionnaire
func (h *Handler) submitQuestionnaire(c *gin.Context) {
	var q Questionnaire
	if err := c.ShouldBindJSON(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	submitted, err := h.service.SubmitQuestionnaire(c.Request.Context(), auth.UserID(c), q)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, submitted)
}

func (h *Handler) getQuestionnaireOptions(c *gin.Context) {
	c.JSON(http.StatusOK, QuestionnaireOptions())
}

// updateSelection handles PUT /api/v1/ghg/selection
func (h *Handler) updateSelection(c *gin.Context) {
	var sel Selection
	if err := c.ShouldBindJSON(&sel); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	userID := auth.UserID(c)
	derived := h.service.UpdateSelection(ctx, userID, sel)
	_, factor := h.service.CurrentFactor(ctx, userID)

	c.JSON(http.StatusOK, gin.H{
		"selection": derived,
		"factor":    factor,
	})
}

func (h *Handler) setStep(c *gin.Context) {
	var req StepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.SetStep(c.Request.Context(), auth.UserID(c), req.Step); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"currentStep": req.Step})
}

// resetSession handles DELETE /api/v1/ghg/session
func (h *Handler) resetSession(c *gin.Context) {
	h.service.Reset(c.Request.Context(), auth.UserID(c))
	c.JSON(http.StatusOK, gin.H{"message": "Session cleared"})
}

func (h *Handler) listStoredKeys(c *gin.Context) {
	keys, err := h.service.StoredKeys(c.Request.Context(), auth.UserID(c))
	if err != nil {
		h.logger.Error("Failed to list stored keys", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"keys": keys})
}

// getFactors handles GET /api/v1/ghg/factors
func (h *Handler) getFactors(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Factors(c.Request.Context(), auth.UserID(c)))
}

// resolveFactor handles GET /api/v1/ghg/factors/resolve
func (h *Handler) resolveFactor(c *gin.Context) {
	sel, factor := h.service.CurrentFactor(c.Request.Context(), auth.UserID(c))
	c.JSON(http.StatusOK, gin.H{
		"selection": sel,
		"factor":    factor,
		"found":     factor > 0,
	})
}

// addCustomFactor handles POST /api/v1/ghg/factors/custom
func (h *Handler) addCustomFactor(c *gin.Context) {
	var req CustomFactorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p := NewPath(req.Scope, req.Category, req.FuelCategory)
	f, err := h.service.AddCustomFactor(c.Request.Context(), auth.UserID(c), p, req.Name, req.Factor)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"path": p, "factor": f})
}

// deleteCustomFactor handles DELETE /api/v1/ghg/factors/custom
func (h *Handler) deleteCustomFactor(c *gin.Context) {
	var req CustomFactorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p := NewPath(req.Scope, req.Category, req.FuelCategory)
	if err := h.service.DeleteCustomFactor(c.Request.Context(), auth.UserID(c), p, req.Name); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Custom factor deleted"})
}

func (h *Handler) getUnits(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"baseUnit": BaseUnit, "units": h.service.Units().Units()})
}

// getEquipment handles GET /api/v1/ghg/equipment?category=Stationary
func (h *Handler) getEquipment(c *gin.Context) {
	category := c.DefaultQuery("category", "Stationary")
	c.JSON(http.StatusOK, gin.H{"category": category, "equipment": EquipmentTypes(category)})
}

// calculate handles POST /api/v1/ghg/calculate
func (h *Handler) calculate(c *gin.Context) {
	var req CalculateRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	ctx := c.Request.Context()
	userID := auth.UserID(c)
	if req.Selection != nil {
		h.service.UpdateSelection(ctx, userID, *req.Selection)
	}

	entry, err := h.service.Calculate(ctx, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

func (h *Handler) listEntries(c *gin.Context) {
	entries := h.service.Entries(c.Request.Context(), auth.UserID(c))
	c.JSON(http.StatusOK, gin.H{"entries": entries, "total": len(entries)})
}

func (h *Handler) clearEntries(c *gin.Context) {
	h.service.ClearEntries(c.Request.Context(), auth.UserID(c))
	c.JSON(http.StatusOK, gin.H{"message": "Entries cleared"})
}

// removeEntry handles DELETE /api/v1/ghg/entries/:id
func (h *Handler) removeEntry(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entry ID"})
		return
	}

	if err := h.service.RemoveEntry(c.Request.Context(), auth.UserID(c), id); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Entry deleted"})
}

// getSummary handles GET /api/v1/ghg/summary
func (h *Handler) getSummary(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Summary(c.Request.Context(), auth.UserID(c)))
}

func (h *Handler) respondError(c *gin.Context, err error) {
	var list ValidationErrors
	if errors.As(err, &list) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": list})
		return
	}

	var ve *ValidationError
	if errors.As(err, &ve) {
		status := http.StatusUnprocessableEntity
		if ve.Code == CodeEntryNotFound || ve.Code == CodeLookupMiss {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"errors": []ValidationError{*ve}})
		return
	}

	h.logger.Error("GHG request failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
