package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/azsoft/erp_accounting_backend/internal/core/domain"
	portssvc "github.com/azsoft/erp_accounting_backend/internal/core/ports/services"
	"github.com/azsoft/erp_accounting_backend/internal/dto"
	"github.com/azsoft/erp_accounting_backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// reportingHandler handles HTTP requests for ledger reports.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

func newReportingHandler(reportingService portssvc.ReportingSvcFacade) *reportingHandler {
	return &reportingHandler{reportingService: reportingService}
}

// toParams applies the report defaults: the period defaults to everything up
// to today and the target to posted entries.
func toParams(req dto.TrialBalanceRequest) domain.TrialBalanceParams {
	params := domain.TrialBalanceParams{CompanyID: req.CompanyID}
	if req.DateFrom != nil {
		params.DateFrom = *req.DateFrom
	}
	if req.DateTo != nil {
		params.DateTo = *req.DateTo
	} else {
		params.DateTo = time.Now().UTC()
	}
	if req.Target != nil {
		params.Target = *req.Target
	}
	if req.Show != nil {
		params.Show = *req.Show
	}
	return params
}

func (h *reportingHandler) trialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.TrialBalanceRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		logger.Warn("Failed to bind trial balance params", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	rows, err := h.reportingService.TrialBalance(c.Request.Context(), toParams(req))
	if err != nil {
		respondError(c, logger, err, "compute trial balance")
		return
	}

	resp := dto.TrialBalanceResponse{
		Rows:        make([]dto.TrialBalanceRowResponse, 0, len(rows)),
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}
	for _, row := range rows {
		resp.Rows = append(resp.Rows, dto.TrialBalanceRowResponse{
			AccountID:   row.AccountID,
			AccountCode: row.AccountCode,
			AccountName: row.AccountName,
			Debit:       row.Debit,
			Credit:      row.Credit,
			Balance:     row.Balance,
		})
		resp.TotalDebit = resp.TotalDebit.Add(row.Debit)
		resp.TotalCredit = resp.TotalCredit.Add(row.Credit)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *reportingHandler) accountHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	var req dto.TrialBalanceRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		logger.Warn("Failed to bind account history params", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	lines, err := h.reportingService.AccountHistory(c.Request.Context(), accountID, toParams(req))
	if err != nil {
		respondError(c, logger, err, "fetch account history")
		return
	}

	resp := make([]dto.AccountHistoryLineResponse, 0, len(lines))
	for _, line := range lines {
		resp = append(resp, dto.AccountHistoryLineResponse{
			EntryID:   line.EntryID,
			LineID:    line.LineID,
			Date:      line.Date,
			Label:     line.Label,
			PartnerID: line.PartnerID,
			Debit:     line.Debit,
			Credit:    line.Credit,
		})
	}
	c.JSON(http.StatusOK, gin.H{"lines": resp})
}

// registerReportingRoutes registers report specific routes.
func registerReportingRoutes(group *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := newReportingHandler(reportingService)

	reports := group.Group("/reports")
	{
		reports.GET("/trial-balance", h.trialBalance)
		reports.GET("/account-history/:accountID", h.accountHistory)
	}
}
