package dto

import (
	"time"

	"github.com/azsoft/erp_accounting_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateWipRunRequest is the payload for starting a WIP costing run.
type CreateWipRunRequest struct {
	CompanyID    string     `json:"companyID" binding:"required"`
	OrderIDs     []string   `json:"orderIDs" binding:"required,min=1"`
	Date         time.Time  `json:"date" binding:"required"`
	ReversalDate *time.Time `json:"reversalDate"`
	JournalID    string     `json:"journalID"`
	Reference    string     `json:"reference"`
}

// WipLineResponse is the API representation of one preview line.
type WipLineResponse struct {
	Sequence  int                `json:"sequence"`
	Label     string             `json:"label"`
	LineType  domain.WipLineType `json:"lineType"`
	Debit     decimal.Decimal    `json:"debit"`
	Credit    decimal.Decimal    `json:"credit"`
	AccountID string             `json:"accountID"`
	OrderID   string             `json:"orderID,omitempty"`
}

// WipRunResponse is the API representation of a WIP costing run.
type WipRunResponse struct {
	RunID           string             `json:"runID"`
	Date            time.Time          `json:"date"`
	ReversalDate    *time.Time         `json:"reversalDate,omitempty"`
	JournalID       string             `json:"journalID"`
	Reference       string             `json:"reference"`
	OrderIDs        []string           `json:"orderIDs"`
	State           domain.WipRunState `json:"state"`
	EntryID         string             `json:"entryID,omitempty"`
	ReversalEntryID string             `json:"reversalEntryID,omitempty"`
	CompanyID       string             `json:"companyID"`
	TotalDebit      decimal.Decimal    `json:"totalDebit"`
	TotalCredit     decimal.Decimal    `json:"totalCredit"`
	Lines           []WipLineResponse  `json:"lines"`
}

// ToWipRunResponse maps a domain run to its API representation.
func ToWipRunResponse(run *domain.WipRun) WipRunResponse {
	var reversalDate *time.Time
	if !run.ReversalDate.IsZero() {
		rd := run.ReversalDate
		reversalDate = &rd
	}
	lines := make([]WipLineResponse, 0, len(run.Lines))
	for _, l := range run.Lines {
		lines = append(lines, WipLineResponse{
			Sequence:  l.Sequence,
			Label:     l.Label,
			LineType:  l.LineType,
			Debit:     l.Debit,
			Credit:    l.Credit,
			AccountID: l.AccountID,
			OrderID:   l.OrderID,
		})
	}
	return WipRunResponse{
		RunID:           run.RunID,
		Date:            run.Date,
		ReversalDate:    reversalDate,
		JournalID:       run.JournalID,
		Reference:       run.Reference,
		OrderIDs:        run.OrderIDs,
		State:           run.State,
		EntryID:         run.EntryID,
		ReversalEntryID: run.ReversalEntryID,
		CompanyID:       run.CompanyID,
		TotalDebit:      run.TotalDebit(),
		TotalCredit:     run.TotalCredit(),
		Lines:           lines,
	}
}
