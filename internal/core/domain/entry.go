package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the state of a journal entry in the ledger.
type EntryStatus string

const (
	EntryStatusDraft  EntryStatus = "DRAFT"
	EntryStatusPosted EntryStatus = "POSTED"
)

// JournalType classifies a journal book.
type JournalType string

const (
	JournalGeneral JournalType = "GENERAL"
	JournalBank    JournalType = "BANK"
	JournalStock   JournalType = "STOCK"
)

// Journal is a book of entries (general, bank, stock). Bank journals carry a
// default account used as the bank side of clearing entries.
type Journal struct {
	JournalID        string      `json:"journalID"`
	Code             string      `json:"code"`
	Name             string      `json:"name"`
	Type             JournalType `json:"type"`
	DefaultAccountID string      `json:"defaultAccountID"`
	CompanyID        string      `json:"companyID"`
	IsLocked         bool        `json:"isLocked"`
	AuditFields
}

// EntryLine is a single debit or credit line within a journal entry.
// Exactly one of Debit/Credit is positive on a persisted line.
type EntryLine struct {
	LineID               string          `json:"lineID"`
	EntryID              string          `json:"entryID"`
	Sequence             int             `json:"sequence"`
	AccountID            string          `json:"accountID"`
	PartnerID            string          `json:"partnerID,omitempty"`
	Label                string          `json:"label"`
	Debit                decimal.Decimal `json:"debit"`
	Credit               decimal.Decimal `json:"credit"`
	Date                 time.Time       `json:"date"`
	AnalyticDistribution map[string]decimal.Decimal `json:"analyticDistribution,omitempty"`
}

// JournalEntry represents a balanced set of debit and credit lines recorded
// against accounts. Entries start as DRAFT and become immutable once POSTED.
type JournalEntry struct {
	EntryID    string      `json:"entryID"`
	JournalID  string      `json:"journalID"`
	Date       time.Time   `json:"date"`
	Reference  string      `json:"reference"`
	PartnerID  string      `json:"partnerID,omitempty"`
	Status     EntryStatus `json:"status"`
	Narration  string      `json:"narration,omitempty"`
	ReversalOf string      `json:"reversalOf,omitempty"`
	CompanyID  string      `json:"companyID"`
	Lines      []EntryLine `json:"lines,omitempty"`
	AuditFields
}

// TotalDebit returns the sum of all debit amounts on the entry's lines.
func (e *JournalEntry) TotalDebit() decimal.Decimal {
	total := decimal.Zero
	for _, line := range e.Lines {
		total = total.Add(line.Debit)
	}
	return total
}

// TotalCredit returns the sum of all credit amounts on the entry's lines.
func (e *JournalEntry) TotalCredit() decimal.Decimal {
	total := decimal.Zero
	for _, line := range e.Lines {
		total = total.Add(line.Credit)
	}
	return total
}

// EntryDraft is the validated, not-yet-persisted form of a journal entry
// produced by the entry builder. Persistence and posting are the ledger's
// responsibility.
type EntryDraft struct {
	JournalID  string
	Date       time.Time
	Reference  string
	PartnerID  string
	Narration  string
	ReversalOf string
	CompanyID  string
	Lines      []EntryLine
}
