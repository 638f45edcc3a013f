package dto

import (
	"time"

	"github.com/azsoft/erp_accounting_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TrialBalanceRequest carries the report filters.
type TrialBalanceRequest struct {
	CompanyID string                `form:"companyID" binding:"required"`
	DateFrom  *time.Time            `form:"dateFrom" time_format:"2006-01-02"`
	DateTo    *time.Time            `form:"dateTo" time_format:"2006-01-02"`
	Target    *domain.TargetEntries `form:"target"`
	Show      *domain.ShowAccounts  `form:"show"`
}

// TrialBalanceRowResponse is one account row of the trial balance.
type TrialBalanceRowResponse struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal `json:"balance"`
}

// TrialBalanceResponse is the full report payload.
type TrialBalanceResponse struct {
	Rows        []TrialBalanceRowResponse `json:"rows"`
	TotalDebit  decimal.Decimal           `json:"totalDebit"`
	TotalCredit decimal.Decimal           `json:"totalCredit"`
}

// AccountHistoryLineResponse is one ledger line behind a report row.
type AccountHistoryLineResponse struct {
	EntryID   string          `json:"entryID"`
	LineID    string          `json:"lineID"`
	Date      time.Time       `json:"date"`
	Label     string          `json:"label,omitempty"`
	PartnerID string          `json:"partnerID,omitempty"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
}
