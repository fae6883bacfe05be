package reports

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"esg-dashboard/ghg-backend/internal/auth"
)

// ArchiveURLHeader carries the presigned link of an archived report.
const ArchiveURLHeader = "X-Report-Archive-URL"

// Handler handles HTTP requests for report exports
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new reports handler
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers reporting routes
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/ghg/export", h.exportReport)
}

// exportReport handles GET /api/v1/ghg/export
func (h *Handler) exportReport(c *gin.Context) {
	format, err := ParseFormat(c.DefaultQuery("format", string(ExportFormatExcel)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	archive := false
	if raw := c.Query("archive"); raw != "" {
		if archive, err = strconv.ParseBool(raw); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid archive flag"})
			return
		}
	}

	userID := auth.UserID(c)
	file, err := h.service.Export(c.Request.Context(), userID, format)
	if err != nil {
		var exportErr *ExportError
		retryable := errors.As(err, &exportErr) && exportErr.Retryable()
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "retryable": retryable})
		return
	}

	if archive {
		url, err := h.service.Archive(c.Request.Context(), userID, file)
		if err != nil {
			// The download still succeeds without the archive link.
			h.logger.Warn("Failed to archive report",
				zap.String("user_id", userID),
				zap.String("file", file.Name),
				zap.Error(err))
		} else {
			c.Header(ArchiveURLHeader, url)
		}
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
