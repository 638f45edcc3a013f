package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/azsoft/erp_accounting_backend/internal/apperrors"
	"github.com/azsoft/erp_accounting_backend/internal/core/domain"
	portsrepo "github.com/azsoft/erp_accounting_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
)

// LedgerService owns journal entry creation and posting. It is not exposed
// over HTTP directly; the giro, WIP and production services drive it inside
// their own transactions so that ledger writes and state changes land
// atomically.
type LedgerService struct {
	BaseService
	ledgerRepo portsrepo.LedgerRepository
}

// NewLedgerService creates a LedgerService.
func NewLedgerService(ledgerRepo portsrepo.LedgerRepository) *LedgerService {
	return &LedgerService{ledgerRepo: ledgerRepo}
}

// GetJournal retrieves a journal book.
func (s *LedgerService) GetJournal(ctx context.Context, journalID string) (*domain.Journal, error) {
	return s.ledgerRepo.FindJournalByID(ctx, journalID)
}

// GetEntry retrieves a journal entry with its lines.
func (s *LedgerService) GetEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return s.ledgerRepo.FindEntryByID(ctx, entryID)
}

// CreateEntryTx validates and persists a draft entry inside the caller's
// transaction. The target journal must exist and be open for posting.
func (s *LedgerService) CreateEntryTx(ctx context.Context, tx pgx.Tx, draft domain.EntryDraft, userID string) (*domain.JournalEntry, error) {
	journal, err := s.ledgerRepo.FindJournalByID(ctx, draft.JournalID)
	if err != nil {
		return nil, fmt.Errorf("finding journal %s: %w", draft.JournalID, err)
	}
	entry, err := BuildEntry(draft, userID, time.Now())
	if err != nil {
		return nil, err
	}
	if journal.IsLocked {
		return nil, &apperrors.PostingError{EntryID: entry.EntryID, Reason: fmt.Sprintf("journal %s is locked", journal.Code)}
	}
	if err := s.ledgerRepo.SaveEntryTx(ctx, tx, *entry); err != nil {
		return nil, fmt.Errorf("saving entry: %w", err)
	}
	return entry, nil
}

// PostEntryTx transitions a draft entry to POSTED inside the caller's
// transaction.
func (s *LedgerService) PostEntryTx(ctx context.Context, tx pgx.Tx, entry *domain.JournalEntry, userID string) error {
	if entry.Status == domain.EntryStatusPosted {
		return &apperrors.PostingError{EntryID: entry.EntryID, Reason: "entry is already posted"}
	}
	if err := s.ledgerRepo.MarkEntryPostedTx(ctx, tx, entry.EntryID, userID); err != nil {
		return fmt.Errorf("posting entry %s: %w", entry.EntryID, err)
	}
	entry.Status = domain.EntryStatusPosted
	s.LogDebug(ctx, "journal entry posted", slog.String("entry_id", entry.EntryID))
	return nil
}

// CreateAndPostTx builds, saves and posts an entry in one step. This is the
// construct-then-commit path every lifecycle transition uses.
func (s *LedgerService) CreateAndPostTx(ctx context.Context, tx pgx.Tx, draft domain.EntryDraft, userID string) (*domain.JournalEntry, error) {
	entry, err := s.CreateEntryTx(ctx, tx, draft, userID)
	if err != nil {
		return nil, err
	}
	if err := s.PostEntryTx(ctx, tx, entry, userID); err != nil {
		return nil, err
	}
	return entry, nil
}

// UnlinkEntryTx removes an entry from the ledger inside the caller's
// transaction. Used when a document returns to draft and its recognition
// entry must disappear with it.
func (s *LedgerService) UnlinkEntryTx(ctx context.Context, tx pgx.Tx, entryID string) error {
	if entryID == "" {
		return nil
	}
	if err := s.ledgerRepo.DeleteEntryTx(ctx, tx, entryID); err != nil {
		return fmt.Errorf("unlinking entry %s: %w", entryID, err)
	}
	return nil
}

// UnlinkUnpostedEntryTx removes a document's recognition entry, refusing to
// touch it while it is posted. A posted entry has ledger effect and must be
// cancelled or reversed in accounting before the document can roll back.
func (s *LedgerService) UnlinkUnpostedEntryTx(ctx context.Context, tx pgx.Tx, entryID string) error {
	if entryID == "" {
		return nil
	}
	entry, err := s.ledgerRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return fmt.Errorf("finding entry %s: %w", entryID, err)
	}
	if entry.Status == domain.EntryStatusPosted {
		return fmt.Errorf("%w: entry %s is posted; cancel or reverse it first", apperrors.ErrConflict, entry.Reference)
	}
	return s.UnlinkEntryTx(ctx, tx, entryID)
}

// AppendNarrationTx appends an audit line to an entry's narration.
func (s *LedgerService) AppendNarrationTx(ctx context.Context, tx pgx.Tx, entryID string, text string) error {
	return s.ledgerRepo.AppendNarrationTx(ctx, tx, entryID, text)
}

// ResolveDefaultJournal picks the journal for stock valuation entries: the
// category's stock journal first, then the company default, then the first
// general journal of the company.
func (s *LedgerService) ResolveDefaultJournal(ctx context.Context, cat *domain.ProductCategory, co *domain.CompanySettings, companyID string) (*domain.Journal, error) {
	if cat != nil && cat.StockJournalID != "" {
		return s.ledgerRepo.FindJournalByID(ctx, cat.StockJournalID)
	}
	if co != nil && co.DefaultJournalID != "" {
		return s.ledgerRepo.FindJournalByID(ctx, co.DefaultJournalID)
	}
	journal, err := s.ledgerRepo.FindFirstGeneralJournal(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("%w: no journal configured for company %s", apperrors.ErrValidation, companyID)
	}
	return journal, nil
}
