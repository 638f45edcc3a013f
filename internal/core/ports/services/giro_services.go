package services

import (
	"context"

	"github.com/azsoft/erp_accounting_backend/internal/core/domain"
	"github.com/azsoft/erp_accounting_backend/internal/dto"
)

// GiroSvcFacade drives the giro instrument lifecycle. Every transition that
// touches the ledger runs atomically: the entry is built, posted and linked
// in the same transaction that moves the state.
type GiroSvcFacade interface {
	// CreateGiro registers a new instrument in draft and assigns a reference.
	CreateGiro(ctx context.Context, req dto.CreateGiroRequest, userID string) (*domain.GiroInstrument, error)

	// GetGiroByID retrieves a single instrument.
	GetGiroByID(ctx context.Context, giroID string) (*domain.GiroInstrument, error)

	// ListGiros returns a page of instruments for a company, optionally
	// filtered by state.
	ListGiros(ctx context.Context, params dto.ListGirosParams) ([]domain.GiroInstrument, *string, error)

	// DeleteGiro removes a draft or cancelled instrument.
	DeleteGiro(ctx context.Context, giroID string, userID string) error

	// Confirm posts the primary recognition entry and moves the giro to
	// confirmed.
	Confirm(ctx context.Context, giroID string, userID string) (*domain.GiroInstrument, error)

	// ResetToDraft unlinks the primary entry and returns the giro to draft.
	ResetToDraft(ctx context.Context, giroID string, userID string) (*domain.GiroInstrument, error)

	// Cancel voids the instrument. From confirmed the primary entry is
	// unlinked first.
	Cancel(ctx context.Context, giroID string, userID string) (*domain.GiroInstrument, error)

	// Clear posts the settlement entry against the bank journal and moves
	// the giro to cleared.
	Clear(ctx context.Context, giroID string, userID string) (*domain.GiroInstrument, error)

	// ReversePrimary posts a mirror of the primary entry and moves the giro
	// to reversed.
	ReversePrimary(ctx context.Context, giroID string, userID string) (*domain.GiroInstrument, error)

	// ReverseClearing posts a mirror of the clearing entry and moves the
	// giro back to clearing_reversed, from which it can clear again.
	ReverseClearing(ctx context.Context, giroID string, userID string) (*domain.GiroInstrument, error)

	// OpenLinkedEntry returns the journal entry linked to the giro under the
	// given link slot (primary, clearing, reverse, reverse-clearing).
	OpenLinkedEntry(ctx context.Context, giroID string, which string) (*domain.JournalEntry, error)
}
