package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/azsoft/erp_accounting_backend/internal/apperrors"
	"github.com/azsoft/erp_accounting_backend/internal/core/domain"
	portsrepo "github.com/azsoft/erp_accounting_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PgxLedgerRepository persists journal entries, their lines, and journals.
type PgxLedgerRepository struct {
	baseRepository
}

// NewPgxLedgerRepository creates a new ledger repository.
func NewPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryWithTx {
	return &PgxLedgerRepository{baseRepository{pool: pool}}
}

const entryColumns = `entry_id, journal_id, entry_date, reference, partner_id, status, narration, reversal_of, company_id, created_at, created_by, last_updated_at, last_updated_by`

func scanEntry(row pgx.Row) (*domain.JournalEntry, error) {
	var entry domain.JournalEntry
	var partnerID, narration, reversalOf *string
	err := row.Scan(
		&entry.EntryID,
		&entry.JournalID,
		&entry.Date,
		&entry.Reference,
		&partnerID,
		&entry.Status,
		&narration,
		&reversalOf,
		&entry.CompanyID,
		&entry.CreatedAt,
		&entry.CreatedBy,
		&entry.LastUpdatedAt,
		&entry.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	if partnerID != nil {
		entry.PartnerID = *partnerID
	}
	if narration != nil {
		entry.Narration = *narration
	}
	if reversalOf != nil {
		entry.ReversalOf = *reversalOf
	}
	return &entry, nil
}

// FindEntryByID retrieves a journal entry including its lines.
func (r *PgxLedgerRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_id = $1;`
	entry, err := scanEntry(r.pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}

	linesQuery := `
		SELECT line_id, entry_id, sequence, account_id, partner_id, label, debit, credit, line_date, analytic_distribution
		FROM journal_entry_lines
		WHERE entry_id = $1
		ORDER BY sequence;
	`
	rows, err := r.pool.Query(ctx, linesQuery, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines of entry %s: %w", entryID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.EntryLine
		var partnerID *string
		var analytic []byte
		if err := rows.Scan(
			&line.LineID,
			&line.EntryID,
			&line.Sequence,
			&line.AccountID,
			&partnerID,
			&line.Label,
			&line.Debit,
			&line.Credit,
			&line.Date,
			&analytic,
		); err != nil {
			return nil, fmt.Errorf("failed to scan line of entry %s: %w", entryID, err)
		}
		if partnerID != nil {
			line.PartnerID = *partnerID
		}
		if len(analytic) > 0 {
			if err := json.Unmarshal(analytic, &line.AnalyticDistribution); err != nil {
				return nil, fmt.Errorf("failed to decode analytic distribution of line %s: %w", line.LineID, err)
			}
		}
		entry.Lines = append(entry.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate lines of entry %s: %w", entryID, err)
	}
	return entry, nil
}

// FindJournalByID retrieves a journal book by its ID.
func (r *PgxLedgerRepository) FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	query := `
		SELECT journal_id, code, name, journal_type, default_account_id, company_id, is_locked, created_at, created_by, last_updated_at, last_updated_by
		FROM journals
		WHERE journal_id = $1;
	`
	return r.scanJournal(ctx, query, journalID)
}

// FindFirstGeneralJournal retrieves the oldest general journal of a company.
func (r *PgxLedgerRepository) FindFirstGeneralJournal(ctx context.Context, companyID string) (*domain.Journal, error) {
	query := `
		SELECT journal_id, code, name, journal_type, default_account_id, company_id, is_locked, created_at, created_by, last_updated_at, last_updated_by
		FROM journals
		WHERE company_id = $1 AND journal_type = 'GENERAL'
		ORDER BY created_at
		LIMIT 1;
	`
	return r.scanJournal(ctx, query, companyID)
}

func (r *PgxLedgerRepository) scanJournal(ctx context.Context, query string, arg any) (*domain.Journal, error) {
	var journal domain.Journal
	var defaultAccountID *string
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&journal.JournalID,
		&journal.Code,
		&journal.Name,
		&journal.Type,
		&defaultAccountID,
		&journal.CompanyID,
		&journal.IsLocked,
		&journal.CreatedAt,
		&journal.CreatedBy,
		&journal.LastUpdatedAt,
		&journal.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find journal: %w", err)
	}
	if defaultAccountID != nil {
		journal.DefaultAccountID = *defaultAccountID
	}
	return &journal, nil
}

// SaveEntryTx persists a draft entry and its lines within the caller's
// transaction, batching the line inserts.
func (r *PgxLedgerRepository) SaveEntryTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error {
	entryQuery := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := tx.Exec(ctx, entryQuery,
		entry.EntryID,
		entry.JournalID,
		entry.Date,
		entry.Reference,
		nullable(entry.PartnerID),
		entry.Status,
		entry.Narration,
		nullable(entry.ReversalOf),
		entry.CompanyID,
		entry.CreatedAt,
		entry.CreatedBy,
		entry.LastUpdatedAt,
		entry.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert entry %s: %w", entry.EntryID, err)
	}

	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO journal_entry_lines (line_id, entry_id, sequence, account_id, partner_id, label, debit, credit, line_date, analytic_distribution)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	for _, line := range entry.Lines {
		analytic, err := encodeAnalytic(line.AnalyticDistribution)
		if err != nil {
			return fmt.Errorf("failed to encode analytic distribution of line %s: %w", line.LineID, err)
		}
		batch.Queue(lineQuery,
			line.LineID,
			line.EntryID,
			line.Sequence,
			line.AccountID,
			nullable(line.PartnerID),
			line.Label,
			line.Debit,
			line.Credit,
			line.Date,
			analytic,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to insert lines of entry %s: %w", entry.EntryID, err)
	}
	return nil
}

// MarkEntryPostedTx transitions a draft entry to POSTED.
func (r *PgxLedgerRepository) MarkEntryPostedTx(ctx context.Context, tx pgx.Tx, entryID string, updatedBy string) error {
	cmd, err := tx.Exec(ctx, `
		UPDATE journal_entries
		SET status = 'POSTED', last_updated_at = now(), last_updated_by = $2
		WHERE entry_id = $1 AND status = 'DRAFT';
	`, entryID, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to post entry %s: %w", entryID, err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: entry %s is not in draft", apperrors.ErrConflict, entryID)
	}
	return nil
}

// DeleteEntryTx removes a draft entry and its lines. Posted entries cannot
// be deleted.
func (r *PgxLedgerRepository) DeleteEntryTx(ctx context.Context, tx pgx.Tx, entryID string) error {
	if _, err := tx.Exec(ctx, `DELETE FROM journal_entry_lines WHERE entry_id = $1;`, entryID); err != nil {
		return fmt.Errorf("failed to delete lines of entry %s: %w", entryID, err)
	}
	cmd, err := tx.Exec(ctx, `DELETE FROM journal_entries WHERE entry_id = $1 AND status = 'DRAFT';`, entryID)
	if err != nil {
		return fmt.Errorf("failed to delete entry %s: %w", entryID, err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: entry %s is posted or missing", apperrors.ErrConflict, entryID)
	}
	return nil
}

// AppendNarrationTx appends free text to an entry's narration.
func (r *PgxLedgerRepository) AppendNarrationTx(ctx context.Context, tx pgx.Tx, entryID string, text string) error {
	cmd, err := tx.Exec(ctx, `
		UPDATE journal_entries
		SET narration = CASE WHEN narration = '' THEN $2 ELSE narration || E'\n' || $2 END
		WHERE entry_id = $1;
	`, entryID, text)
	if err != nil {
		return fmt.Errorf("failed to append narration to entry %s: %w", entryID, err)
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// nullable maps empty strings to SQL NULL for optional reference columns.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func encodeAnalytic(dist map[string]decimal.Decimal) ([]byte, error) {
	if len(dist) == 0 {
		return nil, nil
	}
	return json.Marshal(dist)
}
