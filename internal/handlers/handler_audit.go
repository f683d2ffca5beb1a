package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kopranet/koperasi_ledger/internal/apperrors"
	portssvc "github.com/kopranet/koperasi_ledger/internal/core/ports/services"
	"github.com/kopranet/koperasi_ledger/internal/dto"
	"github.com/kopranet/koperasi_ledger/internal/middleware"
)

// auditHandler handles HTTP requests for audit trail resolution.
type auditHandler struct {
	auditService portssvc.AuditSvcFacade
}

// newAuditHandler creates a new auditHandler.
func newAuditHandler(auditService portssvc.AuditSvcFacade) *auditHandler {
	return &auditHandler{auditService: auditService}
}

func registerAuditRoutes(rg *gin.RouterGroup, auditService portssvc.AuditSvcFacade) {
	h := newAuditHandler(auditService)
	rg.GET("/audit-trail", h.resolveAuditTrail)
}

// resolveAuditTrail godoc
// @Summary Resolve an audit trail from a single reference
// @Description Tries transaction id, journal business reference, entity id, then system log correlation; the first match wins
// @Tags audit
// @Produce  json
// @Param   q query string true "Search term"
// @Success 200 {object} dto.AuditTrailResponse
// @Failure 404 {object} map[string]string "No trail matches the term"
// @Router /audit-trail [get]
func (h *auditHandler) resolveAuditTrail(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	searchTerm := c.Query("q")

	koperasiID, _, ok := callerIdentity(c)
	if !ok {
		return
	}

	trail, err := h.auditService.ResolveAuditTrail(c.Request.Context(), koperasiID, searchTerm)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "No audit trail matches the search term"})
		default:
			logger.Error("Failed to resolve audit trail", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve audit trail"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToAuditTrailResponse(trail))
}
