package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/kopranet/koperasi_ledger/internal/core/ports/services"
	"github.com/kopranet/koperasi_ledger/internal/dto"
	"github.com/kopranet/koperasi_ledger/internal/middleware"
)

// reportingHandler handles HTTP requests for financial reports.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

// newReportingHandler creates a new reportingHandler.
func newReportingHandler(reportingService portssvc.ReportingSvcFacade) *reportingHandler {
	return &reportingHandler{reportingService: reportingService}
}

func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := newReportingHandler(reportingService)
	reports := rg.Group("/reports")
	{
		reports.GET("/balance-sheet", h.getBalanceSheet)
		reports.GET("/income-statement", h.getIncomeStatement)
		reports.GET("/cash-flow", h.getCashFlow)
	}
}

// getBalanceSheet godoc
// @Summary Balance sheet
// @Description Groups net balances into assets, liabilities and equity; the summary reports whether the accounting identity holds
// @Tags reports
// @Produce  json
// @Param   from query string false "Start date (YYYY-MM-DD)"
// @Param   to query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} domain.BalanceSheetReport
// @Router /reports/balance-sheet [get]
func (h *reportingHandler) getBalanceSheet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	koperasiID, _, ok := callerIdentity(c)
	if !ok {
		return
	}
	dateRange, ok := bindDateRange(c)
	if !ok {
		return
	}

	report, err := h.reportingService.GetBalanceSheet(c.Request.Context(), koperasiID, dateRange)
	if err != nil {
		logger.Error("Failed to build balance sheet", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build balance sheet"})
		return
	}
	c.JSON(http.StatusOK, report)
}

// getIncomeStatement godoc
// @Summary Income statement
// @Description Folds revenue and expense balances into net profit for the period
// @Tags reports
// @Produce  json
// @Param   from query string false "Start date (YYYY-MM-DD)"
// @Param   to query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} domain.IncomeStatementReport
// @Router /reports/income-statement [get]
func (h *reportingHandler) getIncomeStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	koperasiID, _, ok := callerIdentity(c)
	if !ok {
		return
	}
	dateRange, ok := bindDateRange(c)
	if !ok {
		return
	}

	report, err := h.reportingService.GetIncomeStatement(c.Request.Context(), koperasiID, dateRange)
	if err != nil {
		logger.Error("Failed to build income statement", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build income statement"})
		return
	}
	c.JSON(http.StatusOK, report)
}

// getCashFlow godoc
// @Summary Cash flow statement
// @Description Classifies cash movements into operating, investing and financing activities
// @Tags reports
// @Produce  json
// @Param   from query string false "Start date (YYYY-MM-DD)"
// @Param   to query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} domain.CashFlowReport
// @Router /reports/cash-flow [get]
func (h *reportingHandler) getCashFlow(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	koperasiID, _, ok := callerIdentity(c)
	if !ok {
		return
	}
	dateRange, ok := bindDateRange(c)
	if !ok {
		return
	}

	report, err := h.reportingService.GetCashFlowStatement(c.Request.Context(), koperasiID, dateRange)
	if err != nil {
		logger.Error("Failed to build cash flow statement", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build cash flow statement"})
		return
	}
	c.JSON(http.StatusOK, report)
}

func bindDateRange(c *gin.Context) (dto.ReportDateRange, bool) {
	var dateRange dto.ReportDateRange
	if err := c.ShouldBindQuery(&dateRange); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date range, expected YYYY-MM-DD"})
		return dateRange, false
	}
	return dateRange, true
}
