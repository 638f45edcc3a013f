package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// GiroState is the lifecycle state of a giro instrument.
type GiroState string

const (
	GiroDraft            GiroState = "DRAFT"
	GiroConfirmed        GiroState = "CONFIRMED"
	GiroCleared          GiroState = "CLEARED"
	GiroClearingReversed GiroState = "CLEARING_REVERSED"
	GiroReversed         GiroState = "REVERSED"
	GiroCancelled        GiroState = "CANCELLED"
)

// PartnerType indicates whether a giro is drawn against a customer or a
// vendor. It decides which partner control account takes the credit side of
// the primary entry.
type PartnerType string

const (
	PartnerCustomer PartnerType = "CUSTOMER"
	PartnerVendor   PartnerType = "VENDOR"
)

// GiroInstrument is a deferred-payment instrument (e.g. a post-dated cheque)
// held in a dedicated account until it is cleared against a bank account.
//
// Up to four journal entries are linked over its lifetime: the primary entry
// (confirm), the clearing entry (clear), and their reversals. The cleared /
// reversed / clearing-reversed flags are derived from link presence, never
// stored.
type GiroInstrument struct {
	GiroID          string          `json:"giroID"`
	Reference       string          `json:"reference"`
	PartnerType     PartnerType     `json:"partnerType"`
	PartnerID       string          `json:"partnerID"`
	Amount          decimal.Decimal `json:"amount"`
	Date            time.Time       `json:"date"`
	ChequeReference string          `json:"chequeReference,omitempty"`
	Memo            string          `json:"memo,omitempty"`
	GiroAccountID   string          `json:"giroAccountID"`
	BankJournalID   string          `json:"bankJournalID,omitempty"`
	State           GiroState       `json:"state"`

	EntryID                string `json:"entryID,omitempty"`
	ClearingEntryID        string `json:"clearingEntryID,omitempty"`
	ReverseEntryID         string `json:"reverseEntryID,omitempty"`
	ReverseClearingEntryID string `json:"reverseClearingEntryID,omitempty"`

	CompanyID    string `json:"companyID"`
	CurrencyCode string `json:"currencyCode"`
	Version      int64  `json:"-"`
	AuditFields
}

// IsCleared reports whether a clearing entry has been linked.
func (g *GiroInstrument) IsCleared() bool {
	return g.ClearingEntryID != ""
}

// IsReversed reports whether the primary entry has been reversed.
func (g *GiroInstrument) IsReversed() bool {
	return g.ReverseEntryID != ""
}

// IsClearingReversed reports whether the clearing entry has been reversed.
func (g *GiroInstrument) IsClearingReversed() bool {
	return g.ReverseClearingEntryID != ""
}

// EntryLink names one of the four journal entries a giro may reference.
type EntryLink string

const (
	LinkPrimary         EntryLink = "primary"
	LinkClearing        EntryLink = "clearing"
	LinkReverse         EntryLink = "reverse"
	LinkReverseClearing EntryLink = "reverse-clearing"
)

// LinkedEntryID returns the entry ID behind the named link, or "" when the
// entry has not been created yet.
func (g *GiroInstrument) LinkedEntryID(which EntryLink) string {
	switch which {
	case LinkPrimary:
		return g.EntryID
	case LinkClearing:
		return g.ClearingEntryID
	case LinkReverse:
		return g.ReverseEntryID
	case LinkReverseClearing:
		return g.ReverseClearingEntryID
	}
	return ""
}
