package dto

import (
	"time"

	"github.com/azsoft/erp_accounting_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateGiroRequest is the payload for creating a giro instrument in draft.
type CreateGiroRequest struct {
	PartnerType     domain.PartnerType `json:"partnerType" binding:"required,oneof=CUSTOMER VENDOR"`
	PartnerID       string             `json:"partnerID" binding:"required"`
	Amount          decimal.Decimal    `json:"amount" binding:"required"`
	Date            time.Time          `json:"date" binding:"required"`
	ChequeReference string             `json:"chequeReference"`
	Memo            string             `json:"memo"`
	GiroAccountID   string             `json:"giroAccountID" binding:"required"`
	BankJournalID   string             `json:"bankJournalID"`
	CompanyID       string             `json:"companyID" binding:"required"`
}

// ListGirosParams are the query parameters for listing giros.
type ListGirosParams struct {
	CompanyID string            `form:"companyID" binding:"required"`
	State     *domain.GiroState `form:"state"`
	Limit     int               `form:"limit"`
	NextToken *string           `form:"nextToken"`
}

// GiroResponse is the API representation of a giro instrument, with the
// derived flags materialized.
type GiroResponse struct {
	GiroID          string             `json:"giroID"`
	Reference       string             `json:"reference"`
	PartnerType     domain.PartnerType `json:"partnerType"`
	PartnerID       string             `json:"partnerID"`
	Amount          decimal.Decimal    `json:"amount"`
	Date            time.Time          `json:"date"`
	ChequeReference string             `json:"chequeReference,omitempty"`
	Memo            string             `json:"memo,omitempty"`
	GiroAccountID   string             `json:"giroAccountID"`
	BankJournalID   string             `json:"bankJournalID,omitempty"`
	State           domain.GiroState   `json:"state"`

	EntryID                string `json:"entryID,omitempty"`
	ClearingEntryID        string `json:"clearingEntryID,omitempty"`
	ReverseEntryID         string `json:"reverseEntryID,omitempty"`
	ReverseClearingEntryID string `json:"reverseClearingEntryID,omitempty"`

	IsCleared          bool `json:"isCleared"`
	IsReversed         bool `json:"isReversed"`
	IsClearingReversed bool `json:"isClearingReversed"`

	CompanyID    string    `json:"companyID"`
	CurrencyCode string    `json:"currencyCode"`
	CreatedAt    time.Time `json:"createdAt"`
	CreatedBy    string    `json:"createdBy"`
}

// ToGiroResponse maps a domain giro to its API representation.
func ToGiroResponse(g *domain.GiroInstrument) GiroResponse {
	return GiroResponse{
		GiroID:                 g.GiroID,
		Reference:              g.Reference,
		PartnerType:            g.PartnerType,
		PartnerID:              g.PartnerID,
		Amount:                 g.Amount,
		Date:                   g.Date,
		ChequeReference:        g.ChequeReference,
		Memo:                   g.Memo,
		GiroAccountID:          g.GiroAccountID,
		BankJournalID:          g.BankJournalID,
		State:                  g.State,
		EntryID:                g.EntryID,
		ClearingEntryID:        g.ClearingEntryID,
		ReverseEntryID:         g.ReverseEntryID,
		ReverseClearingEntryID: g.ReverseClearingEntryID,
		IsCleared:              g.IsCleared(),
		IsReversed:             g.IsReversed(),
		IsClearingReversed:     g.IsClearingReversed(),
		CompanyID:              g.CompanyID,
		CurrencyCode:           g.CurrencyCode,
		CreatedAt:              g.CreatedAt,
		CreatedBy:              g.CreatedBy,
	}
}

// ListGirosResponse is the paginated list payload.
type ListGirosResponse struct {
	Giros     []GiroResponse `json:"giros"`
	NextToken *string        `json:"nextToken,omitempty"`
}
