package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// WipRunState is the state of a WIP posting wizard run.
type WipRunState string

const (
	WipRunDraft    WipRunState = "DRAFT"
	WipRunPosted   WipRunState = "POSTED"
	WipRunReversed WipRunState = "REVERSED"
)

// WipLineType tags a WIP accounting line for account resolution.
type WipLineType string

const (
	WipLineComponent WipLineType = "COMPONENT"
	WipLineOverhead  WipLineType = "OVERHEAD"
	WipLineWip       WipLineType = "WIP"
	WipLineVariance  WipLineType = "VARIANCE"
	WipLineOther     WipLineType = "OTHER"
)

// WipLine is one debit or credit line of a WIP run. Debit and credit are
// mutually exclusive; both-positive lines are invalid.
type WipLine struct {
	LineID               string                     `json:"lineID"`
	RunID                string                     `json:"runID"`
	Sequence             int                        `json:"sequence"`
	Label                string                     `json:"label"`
	LineType             WipLineType                `json:"lineType"`
	Debit                decimal.Decimal            `json:"debit"`
	Credit               decimal.Decimal            `json:"credit"`
	AccountID            string                     `json:"accountID"`
	OrderID              string                     `json:"orderID,omitempty"`
	AnalyticDistribution map[string]decimal.Decimal `json:"analyticDistribution,omitempty"`
}

// WipRun is an ephemeral per-session record of a WIP posting wizard. Lines
// are fully recomputed whenever the selected orders or the date change;
// posting freezes them into an immutable ledger entry. Runs are cleaned up
// periodically and are not part of durable accounting state once posted.
type WipRun struct {
	RunID        string      `json:"runID"`
	Date         time.Time   `json:"date"`
	ReversalDate time.Time   `json:"reversalDate"`
	JournalID    string      `json:"journalID"`
	Reference    string      `json:"reference"`
	OrderIDs     []string    `json:"orderIDs"`
	State        WipRunState `json:"state"`

	EntryID         string `json:"entryID,omitempty"`
	ReversalEntryID string `json:"reversalEntryID,omitempty"`

	CompanyID string    `json:"companyID"`
	Lines     []WipLine `json:"lines,omitempty"`
	AuditFields
}

// TotalDebit returns the sum of all debit amounts over the run's lines.
func (r *WipRun) TotalDebit() decimal.Decimal {
	total := decimal.Zero
	for _, line := range r.Lines {
		total = total.Add(line.Debit)
	}
	return total
}

// TotalCredit returns the sum of all credit amounts over the run's lines.
func (r *WipRun) TotalCredit() decimal.Decimal {
	total := decimal.Zero
	for _, line := range r.Lines {
		total = total.Add(line.Credit)
	}
	return total
}
