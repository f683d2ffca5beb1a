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

// reconciliationHandler handles HTTP requests for the reconciliation engine.
type reconciliationHandler struct {
	reconciliationService portssvc.ReconciliationSvcFacade
	defaultThreshold      int
}

// newReconciliationHandler creates a new reconciliationHandler.
func newReconciliationHandler(reconciliationService portssvc.ReconciliationSvcFacade, defaultThreshold int) *reconciliationHandler {
	return &reconciliationHandler{
		reconciliationService: reconciliationService,
		defaultThreshold:      defaultThreshold,
	}
}

func registerReconciliationRoutes(rg *gin.RouterGroup, reconciliationService portssvc.ReconciliationSvcFacade, defaultThreshold int) {
	h := newReconciliationHandler(reconciliationService, defaultThreshold)
	recon := rg.Group("/reconciliation")
	{
		recon.GET("/stuck", h.listStuck)
		recon.POST("/run", h.run)
	}
}

// listStuck godoc
// @Summary List stuck transactions
// @Description Lists transactions in journal_locked or fulfilled older than the threshold
// @Tags reconciliation
// @Produce  json
// @Param   thresholdMinutes query int false "Staleness threshold in minutes"
// @Success 200 {array} dto.TransactionResponse
// @Router /reconciliation/stuck [get]
func (h *reconciliationHandler) listStuck(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	koperasiID, _, ok := callerIdentity(c)
	if !ok {
		return
	}

	threshold := h.defaultThreshold
	var params dto.ReconcileRequest
	if err := c.ShouldBindQuery(&params); err == nil && params.ThresholdMinutes > 0 {
		threshold = params.ThresholdMinutes
	}

	stuck, err := h.reconciliationService.FindStuckTransactions(c.Request.Context(), koperasiID, threshold)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to list stuck transactions", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list stuck transactions"})
		return
	}

	out := make([]dto.TransactionResponse, len(stuck))
	for i := range stuck {
		out[i] = dto.ToTransactionResponse(&stuck[i], nil)
	}
	c.JSON(http.StatusOK, out)
}

// run godoc
// @Summary Run an auto-reconcile pass
// @Description Settles confirmed stuck transactions and reverses the rest; one failure never aborts the batch
// @Tags reconciliation
// @Accept  json
// @Produce  json
// @Param   request body dto.ReconcileRequest false "Options"
// @Success 200 {object} dto.ReconcileResponse
// @Router /reconciliation/run [post]
func (h *reconciliationHandler) run(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	koperasiID, actor, ok := callerIdentity(c)
	if !ok {
		return
	}

	// The body is optional; everything defaults.
	var req dto.ReconcileRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
			return
		}
	}
	threshold := h.defaultThreshold
	if req.ThresholdMinutes > 0 {
		threshold = req.ThresholdMinutes
	}

	results, err := h.reconciliationService.AutoReconcile(c.Request.Context(), koperasiID, threshold, actor)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Auto-reconcile pass failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run reconciliation"})
		return
	}

	resp := dto.ReconcileResponse{Processed: len(results), Results: results}
	for _, res := range results {
		if res.Error != "" {
			resp.Failed++
		}
	}
	c.JSON(http.StatusOK, resp)
}
