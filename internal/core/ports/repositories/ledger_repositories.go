package repositories

import (
	"context"

	"github.com/azsoft/erp_accounting_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// LedgerReader defines read operations on journal entries and journals.
type LedgerReader interface {
	// FindEntryByID retrieves a journal entry including its lines.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindJournalByID retrieves a journal book by its ID.
	FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error)

	// FindFirstGeneralJournal retrieves the first general journal of a company.
	FindFirstGeneralJournal(ctx context.Context, companyID string) (*domain.Journal, error)
}

// LedgerWriter defines write operations on journal entries. All writer
// methods take the caller's transaction so that entry creation, posting and
// the caller's own state updates commit or abort together.
type LedgerWriter interface {
	// SaveEntryTx persists a draft entry and its lines.
	SaveEntryTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error

	// MarkEntryPostedTx transitions a draft entry to POSTED.
	MarkEntryPostedTx(ctx context.Context, tx pgx.Tx, entryID string, updatedBy string) error

	// DeleteEntryTx removes a draft entry and its lines.
	DeleteEntryTx(ctx context.Context, tx pgx.Tx, entryID string) error

	// AppendNarrationTx appends free text to an entry's narration.
	AppendNarrationTx(ctx context.Context, tx pgx.Tx, entryID string, text string) error
}

// LedgerRepository combines ledger read and write operations.
type LedgerRepository interface {
	LedgerReader
	LedgerWriter
}

// LedgerRepositoryWithTx extends LedgerRepository with transaction control.
type LedgerRepositoryWithTx interface {
	LedgerRepository
	TransactionManager
}
