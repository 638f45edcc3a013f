package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/azsoft/erp_accounting_backend/internal/apperrors"
	"github.com/azsoft/erp_accounting_backend/internal/core/domain"
	portsrepo "github.com/azsoft/erp_accounting_backend/internal/core/ports/repositories"
	"github.com/azsoft/erp_accounting_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const giroSequenceCode = "GIRO"

// giroEvent names one lifecycle action on a giro instrument.
type giroEvent string

const (
	eventConfirm         giroEvent = "confirm"
	eventResetToDraft    giroEvent = "reset-to-draft"
	eventCancel          giroEvent = "cancel"
	eventClear           giroEvent = "clear"
	eventReversePrimary  giroEvent = "reverse-primary"
	eventReverseClearing giroEvent = "reverse-clearing"
)

// giroTransition declares the legal source states and the target state of
// one event. Guards beyond state membership live in the event's effect.
type giroTransition struct {
	from []domain.GiroState
	to   domain.GiroState
}

// giroTransitions is the full lifecycle table. Legality is checked here,
// centrally, before any effect runs.
var giroTransitions = map[giroEvent]giroTransition{
	eventConfirm:         {from: []domain.GiroState{domain.GiroDraft}, to: domain.GiroConfirmed},
	eventResetToDraft:    {from: []domain.GiroState{domain.GiroConfirmed}, to: domain.GiroDraft},
	eventCancel:          {from: []domain.GiroState{domain.GiroDraft, domain.GiroConfirmed}, to: domain.GiroCancelled},
	eventClear:           {from: []domain.GiroState{domain.GiroConfirmed}, to: domain.GiroCleared},
	eventReversePrimary:  {from: []domain.GiroState{domain.GiroConfirmed, domain.GiroCleared, domain.GiroClearingReversed}, to: domain.GiroReversed},
	eventReverseClearing: {from: []domain.GiroState{domain.GiroCleared, domain.GiroReversed}, to: domain.GiroClearingReversed},
}

// checkGiroTransition verifies that the event is legal in the giro's
// current state.
func checkGiroTransition(giro *domain.GiroInstrument, event giroEvent) error {
	t, ok := giroTransitions[event]
	if !ok {
		return fmt.Errorf("%w: unknown giro event %q", apperrors.ErrInternal, event)
	}
	for _, from := range t.from {
		if giro.State == from {
			return nil
		}
	}
	return fmt.Errorf("%w: cannot %s giro %s while it is %s", apperrors.ErrConflict, event, giro.Reference, giro.State)
}

// GiroService implements the giro instrument lifecycle.
type GiroService struct {
	BaseService
	giroRepo   portsrepo.GiroRepositoryWithTx
	configRepo portsrepo.ConfigurationRepository
	seqRepo    portsrepo.SequenceRepository
	ledger     *LedgerService
}

// NewGiroService creates a GiroService.
func NewGiroService(giroRepo portsrepo.GiroRepositoryWithTx, configRepo portsrepo.ConfigurationRepository, seqRepo portsrepo.SequenceRepository, ledger *LedgerService) *GiroService {
	return &GiroService{
		giroRepo:   giroRepo,
		configRepo: configRepo,
		seqRepo:    seqRepo,
		ledger:     ledger,
	}
}

// CreateGiro registers a new instrument in draft state.
func (s *GiroService) CreateGiro(ctx context.Context, req dto.CreateGiroRequest, userID string) (*domain.GiroInstrument, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: giro amount must be positive", apperrors.ErrValidation)
	}
	account, err := s.configRepo.FindAccountByID(ctx, req.GiroAccountID)
	if err != nil {
		return nil, fmt.Errorf("finding giro account %s: %w", req.GiroAccountID, err)
	}
	if account.AccountType.IsPartnerControl() {
		return nil, fmt.Errorf("%w: giro account %s is a partner control account; use a dedicated holding account", apperrors.ErrValidation, account.Code)
	}
	if _, err := s.configRepo.FindPartnerByID(ctx, req.PartnerID); err != nil {
		return nil, fmt.Errorf("finding partner %s: %w", req.PartnerID, err)
	}
	settings, err := s.configRepo.FindCompanySettings(ctx, req.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("finding company settings for %s: %w", req.CompanyID, err)
	}

	reference, err := s.seqRepo.NextReference(ctx, giroSequenceCode)
	if err != nil {
		return nil, fmt.Errorf("generating giro reference: %w", err)
	}

	now := time.Now()
	giro := domain.GiroInstrument{
		GiroID:          uuid.NewString(),
		Reference:       reference,
		PartnerType:     req.PartnerType,
		PartnerID:       req.PartnerID,
		Amount:          req.Amount,
		Date:            req.Date,
		ChequeReference: req.ChequeReference,
		Memo:            req.Memo,
		GiroAccountID:   req.GiroAccountID,
		BankJournalID:   req.BankJournalID,
		State:           domain.GiroDraft,
		CompanyID:       req.CompanyID,
		CurrencyCode:    settings.CurrencyCode,
		Version:         1,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.giroRepo.SaveGiro(ctx, giro); err != nil {
		return nil, fmt.Errorf("saving giro: %w", err)
	}
	s.LogInfo(ctx, "giro created", slog.String("giro_id", giro.GiroID), slog.String("reference", reference))
	return &giro, nil
}

// GetGiroByID retrieves a single instrument.
func (s *GiroService) GetGiroByID(ctx context.Context, giroID string) (*domain.GiroInstrument, error) {
	return s.giroRepo.FindGiroByID(ctx, giroID)
}

// ListGiros returns a page of instruments.
func (s *GiroService) ListGiros(ctx context.Context, params dto.ListGirosParams) ([]domain.GiroInstrument, *string, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	return s.giroRepo.ListGiros(ctx, params.CompanyID, params.State, limit, params.NextToken)
}

// DeleteGiro removes an instrument. Deletion is blocked once the giro left
// draft or has ever cleared.
func (s *GiroService) DeleteGiro(ctx context.Context, giroID string, userID string) error {
	giro, err := s.giroRepo.FindGiroByID(ctx, giroID)
	if err != nil {
		return err
	}
	if giro.State != domain.GiroDraft || giro.IsCleared() {
		return fmt.Errorf("%w: giro %s cannot be deleted while it is %s", apperrors.ErrConflict, giro.Reference, giro.State)
	}
	if err := s.giroRepo.DeleteGiro(ctx, giroID); err != nil {
		return fmt.Errorf("deleting giro %s: %w", giroID, err)
	}
	s.LogInfo(ctx, "giro deleted", slog.String("giro_id", giroID), slog.String("user_id", userID))
	return nil
}

// transition runs one lifecycle event end to end: lock the row, check
// legality, run the event's ledger effect, then move the state. Everything
// commits or aborts together, so a posting failure leaves the giro exactly
// as it was.
func (s *GiroService) transition(ctx context.Context, giroID string, userID string, event giroEvent, effect func(context.Context, pgx.Tx, *domain.GiroInstrument) error) (*domain.GiroInstrument, error) {
	tx, err := s.giroRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		_ = s.giroRepo.Rollback(ctx, tx)
	}()

	giro, err := s.giroRepo.FindGiroByIDForUpdateTx(ctx, tx, giroID)
	if err != nil {
		return nil, err
	}
	if err := checkGiroTransition(giro, event); err != nil {
		return nil, err
	}
	if effect != nil {
		if err := effect(ctx, tx, giro); err != nil {
			return nil, err
		}
	}

	giro.State = giroTransitions[event].to
	giro.LastUpdatedAt = time.Now()
	giro.LastUpdatedBy = userID
	if err := s.giroRepo.UpdateGiroStateTx(ctx, tx, *giro); err != nil {
		return nil, fmt.Errorf("updating giro state: %w", err)
	}
	if err := s.giroRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	giro.Version++
	s.LogInfo(ctx, "giro transition applied",
		slog.String("giro_id", giro.GiroID),
		slog.String("event", string(event)),
		slog.String("state", string(giro.State)))
	return giro, nil
}

// Confirm posts the primary recognition entry: debit the instrument account,
// credit the partner's control account.
func (s *GiroService) Confirm(ctx context.Context, giroID string, userID string) (*domain.GiroInstrument, error) {
	return s.transition(ctx, giroID, userID, eventConfirm, func(ctx context.Context, tx pgx.Tx, giro *domain.GiroInstrument) error {
		if giro.GiroAccountID == "" {
			return fmt.Errorf("%w: giro %s has no instrument account configured", apperrors.ErrValidation, giro.Reference)
		}
		partner, err := s.configRepo.FindPartnerByID(ctx, giro.PartnerID)
		if err != nil {
			return fmt.Errorf("finding partner %s: %w", giro.PartnerID, err)
		}
		controlAccountID := partner.ReceivableAccountID
		if giro.PartnerType == domain.PartnerVendor {
			controlAccountID = partner.PayableAccountID
		}
		if controlAccountID == "" {
			return fmt.Errorf("%w: partner %s has no %s control account", apperrors.ErrValidation, partner.Name, giro.PartnerType)
		}

		journal, err := s.primaryJournal(ctx, giro)
		if err != nil {
			return err
		}

		draft := domain.EntryDraft{
			JournalID: journal.JournalID,
			Date:      giro.Date,
			Reference: giro.Reference,
			PartnerID: giro.PartnerID,
			CompanyID: giro.CompanyID,
			Lines: []domain.EntryLine{
				{AccountID: giro.GiroAccountID, Label: giroLineLabel(giro, "receipt"), Debit: giro.Amount, Credit: decimal.Zero},
				{AccountID: controlAccountID, PartnerID: giro.PartnerID, Label: giroLineLabel(giro, "receipt"), Debit: decimal.Zero, Credit: giro.Amount},
			},
		}
		entry, err := s.ledger.CreateAndPostTx(ctx, tx, draft, userID)
		if err != nil {
			return err
		}
		giro.EntryID = entry.EntryID
		return nil
	})
}

// ResetToDraft rolls a confirmed instrument back to draft, removing the
// primary entry. A posted primary entry blocks the rollback until it is
// cancelled or reversed in accounting.
func (s *GiroService) ResetToDraft(ctx context.Context, giroID string, userID string) (*domain.GiroInstrument, error) {
	return s.transition(ctx, giroID, userID, eventResetToDraft, func(ctx context.Context, tx pgx.Tx, giro *domain.GiroInstrument) error {
		if giro.IsCleared() {
			return fmt.Errorf("%w: giro %s has a clearing entry; reverse the clearing first", apperrors.ErrValidation, giro.Reference)
		}
		if err := s.ledger.UnlinkUnpostedEntryTx(ctx, tx, giro.EntryID); err != nil {
			return err
		}
		giro.EntryID = ""
		return nil
	})
}

// Cancel voids the instrument. From confirmed the primary entry is removed
// the same way reset-to-draft removes it.
func (s *GiroService) Cancel(ctx context.Context, giroID string, userID string) (*domain.GiroInstrument, error) {
	return s.transition(ctx, giroID, userID, eventCancel, func(ctx context.Context, tx pgx.Tx, giro *domain.GiroInstrument) error {
		if giro.State == domain.GiroDraft {
			return nil
		}
		if giro.IsCleared() {
			return fmt.Errorf("%w: giro %s has cleared; reverse it instead of cancelling", apperrors.ErrValidation, giro.Reference)
		}
		if err := s.ledger.UnlinkUnpostedEntryTx(ctx, tx, giro.EntryID); err != nil {
			return err
		}
		giro.EntryID = ""
		return nil
	})
}

// Clear posts the settlement entry: debit the bank journal's default
// account, credit the instrument account.
func (s *GiroService) Clear(ctx context.Context, giroID string, userID string) (*domain.GiroInstrument, error) {
	return s.transition(ctx, giroID, userID, eventClear, func(ctx context.Context, tx pgx.Tx, giro *domain.GiroInstrument) error {
		if giro.IsCleared() {
			return fmt.Errorf("%w: giro %s is already cleared", apperrors.ErrValidation, giro.Reference)
		}
		if giro.BankJournalID == "" {
			return fmt.Errorf("%w: giro %s has no bank journal configured", apperrors.ErrValidation, giro.Reference)
		}
		journal, err := s.ledger.GetJournal(ctx, giro.BankJournalID)
		if err != nil {
			return fmt.Errorf("finding bank journal %s: %w", giro.BankJournalID, err)
		}
		if journal.DefaultAccountID == "" {
			return fmt.Errorf("%w: bank journal %s has no default bank account", apperrors.ErrValidation, journal.Code)
		}

		draft := domain.EntryDraft{
			JournalID: journal.JournalID,
			Date:      time.Now(),
			Reference: giro.Reference + "/CLR",
			PartnerID: giro.PartnerID,
			CompanyID: giro.CompanyID,
			Lines: []domain.EntryLine{
				{AccountID: journal.DefaultAccountID, Label: giroLineLabel(giro, "clearing"), Debit: giro.Amount, Credit: decimal.Zero},
				{AccountID: giro.GiroAccountID, Label: giroLineLabel(giro, "clearing"), Debit: decimal.Zero, Credit: giro.Amount},
			},
		}
		entry, err := s.ledger.CreateAndPostTx(ctx, tx, draft, userID)
		if err != nil {
			return err
		}
		giro.ClearingEntryID = entry.EntryID
		return nil
	})
}

// ReversePrimary posts the mirror of the primary entry.
func (s *GiroService) ReversePrimary(ctx context.Context, giroID string, userID string) (*domain.GiroInstrument, error) {
	return s.transition(ctx, giroID, userID, eventReversePrimary, func(ctx context.Context, tx pgx.Tx, giro *domain.GiroInstrument) error {
		if giro.IsReversed() {
			return fmt.Errorf("%w: giro %s is already reversed", apperrors.ErrValidation, giro.Reference)
		}
		entry, err := s.reverseLinkedEntry(ctx, tx, giro, giro.EntryID, "primary", userID)
		if err != nil {
			return err
		}
		giro.ReverseEntryID = entry.EntryID
		return nil
	})
}

// ReverseClearing posts the mirror of the clearing entry, moving funds back
// from the bank account to the instrument account.
func (s *GiroService) ReverseClearing(ctx context.Context, giroID string, userID string) (*domain.GiroInstrument, error) {
	return s.transition(ctx, giroID, userID, eventReverseClearing, func(ctx context.Context, tx pgx.Tx, giro *domain.GiroInstrument) error {
		if giro.IsClearingReversed() {
			return fmt.Errorf("%w: clearing of giro %s is already reversed", apperrors.ErrValidation, giro.Reference)
		}
		entry, err := s.reverseLinkedEntry(ctx, tx, giro, giro.ClearingEntryID, "clearing", userID)
		if err != nil {
			return err
		}
		giro.ReverseClearingEntryID = entry.EntryID
		return nil
	})
}

// reverseLinkedEntry loads one of the giro's entries, checks it is posted,
// and posts its mirror.
func (s *GiroService) reverseLinkedEntry(ctx context.Context, tx pgx.Tx, giro *domain.GiroInstrument, entryID string, kind string, userID string) (*domain.JournalEntry, error) {
	if entryID == "" {
		return nil, fmt.Errorf("%w: giro %s has no %s entry to reverse", apperrors.ErrValidation, giro.Reference, kind)
	}
	original, err := s.ledger.GetEntry(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("finding %s entry %s: %w", kind, entryID, err)
	}
	if original.Status != domain.EntryStatusPosted {
		return nil, fmt.Errorf("%w: %s entry of giro %s is not posted", apperrors.ErrValidation, kind, giro.Reference)
	}
	draft := ReverseEntry(original, time.Now(), "REV/"+original.Reference)
	return s.ledger.CreateAndPostTx(ctx, tx, draft, userID)
}

// OpenLinkedEntry returns the entry behind one of the giro's link slots.
func (s *GiroService) OpenLinkedEntry(ctx context.Context, giroID string, which string) (*domain.JournalEntry, error) {
	link := domain.EntryLink(which)
	switch link {
	case domain.LinkPrimary, domain.LinkClearing, domain.LinkReverse, domain.LinkReverseClearing:
	default:
		return nil, fmt.Errorf("%w: unknown entry link %q", apperrors.ErrValidation, which)
	}
	giro, err := s.giroRepo.FindGiroByID(ctx, giroID)
	if err != nil {
		return nil, err
	}
	entryID := giro.LinkedEntryID(link)
	if entryID == "" {
		return nil, fmt.Errorf("%w: giro %s has no %s entry", apperrors.ErrNotFound, giro.Reference, which)
	}
	return s.ledger.GetEntry(ctx, entryID)
}

// primaryJournal picks the journal for the recognition entry: the company
// default general journal. The giro's bank journal is reserved for the
// clearing entry.
func (s *GiroService) primaryJournal(ctx context.Context, giro *domain.GiroInstrument) (*domain.Journal, error) {
	settings, err := s.configRepo.FindCompanySettings(ctx, giro.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("finding company settings for %s: %w", giro.CompanyID, err)
	}
	return s.ledger.ResolveDefaultJournal(ctx, nil, settings, giro.CompanyID)
}

func giroLineLabel(giro *domain.GiroInstrument, step string) string {
	label := fmt.Sprintf("Giro %s %s", giro.Reference, step)
	if giro.ChequeReference != "" {
		label += " (" + giro.ChequeReference + ")"
	}
	return label
}
