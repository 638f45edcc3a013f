package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/azsoft/erp_accounting_backend/internal/apperrors"
	"github.com/azsoft/erp_accounting_backend/internal/core/domain"
	portsrepo "github.com/azsoft/erp_accounting_backend/internal/core/ports/repositories"
	"github.com/azsoft/erp_accounting_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxGiroRepository persists giro instruments.
type PgxGiroRepository struct {
	baseRepository
}

// NewPgxGiroRepository creates a new giro repository.
func NewPgxGiroRepository(pool *pgxpool.Pool) portsrepo.GiroRepositoryWithTx {
	return &PgxGiroRepository{baseRepository{pool: pool}}
}

const giroColumns = `giro_id, reference, partner_type, partner_id, amount, giro_date, cheque_reference, memo, giro_account_id, bank_journal_id, state, entry_id, clearing_entry_id, reverse_entry_id, reverse_clearing_entry_id, company_id, currency_code, version, created_at, created_by, last_updated_at, last_updated_by`

func scanGiro(row pgx.Row) (*domain.GiroInstrument, error) {
	var giro domain.GiroInstrument
	var chequeRef, memo, bankJournalID *string
	var entryID, clearingEntryID, reverseEntryID, reverseClearingEntryID *string
	err := row.Scan(
		&giro.GiroID,
		&giro.Reference,
		&giro.PartnerType,
		&giro.PartnerID,
		&giro.Amount,
		&giro.Date,
		&chequeRef,
		&memo,
		&giro.GiroAccountID,
		&bankJournalID,
		&giro.State,
		&entryID,
		&clearingEntryID,
		&reverseEntryID,
		&reverseClearingEntryID,
		&giro.CompanyID,
		&giro.CurrencyCode,
		&giro.Version,
		&giro.CreatedAt,
		&giro.CreatedBy,
		&giro.LastUpdatedAt,
		&giro.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	assignIfSet(&giro.ChequeReference, chequeRef)
	assignIfSet(&giro.Memo, memo)
	assignIfSet(&giro.BankJournalID, bankJournalID)
	assignIfSet(&giro.EntryID, entryID)
	assignIfSet(&giro.ClearingEntryID, clearingEntryID)
	assignIfSet(&giro.ReverseEntryID, reverseEntryID)
	assignIfSet(&giro.ReverseClearingEntryID, reverseClearingEntryID)
	return &giro, nil
}

func assignIfSet(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// FindGiroByID retrieves a giro by its unique identifier.
func (r *PgxGiroRepository) FindGiroByID(ctx context.Context, giroID string) (*domain.GiroInstrument, error) {
	query := `SELECT ` + giroColumns + ` FROM giros WHERE giro_id = $1;`
	giro, err := scanGiro(r.pool.QueryRow(ctx, query, giroID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find giro %s: %w", giroID, err)
	}
	return giro, nil
}

// FindGiroByIDForUpdateTx retrieves a giro holding an exclusive row lock so
// that concurrent state transitions on the same instrument serialize.
func (r *PgxGiroRepository) FindGiroByIDForUpdateTx(ctx context.Context, tx pgx.Tx, giroID string) (*domain.GiroInstrument, error) {
	query := `SELECT ` + giroColumns + ` FROM giros WHERE giro_id = $1 FOR UPDATE;`
	giro, err := scanGiro(tx.QueryRow(ctx, query, giroID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock giro %s: %w", giroID, err)
	}
	return giro, nil
}

// ListGiros retrieves a page of giros ordered by creation time, newest
// first, using (created_at, giro_id) keyset pagination.
func (r *PgxGiroRepository) ListGiros(ctx context.Context, companyID string, state *domain.GiroState, limit int, nextToken *string) ([]domain.GiroInstrument, *string, error) {
	query := `SELECT ` + giroColumns + ` FROM giros WHERE company_id = $1`
	args := []any{companyID}

	if state != nil {
		args = append(args, *state)
		query += fmt.Sprintf(" AND state = $%d", len(args))
	}
	if nextToken != nil && *nextToken != "" {
		createdAt, id, err := pagination.DecodeCursor(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		args = append(args, createdAt, id)
		query += fmt.Sprintf(" AND (created_at, giro_id) < ($%d, $%d)", len(args)-1, len(args))
	}
	args = append(args, limit+1)
	query += fmt.Sprintf(" ORDER BY created_at DESC, giro_id DESC LIMIT $%d;", len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list giros: %w", err)
	}
	defer rows.Close()

	giros := make([]domain.GiroInstrument, 0, limit)
	for rows.Next() {
		giro, err := scanGiro(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan giro row: %w", err)
		}
		giros = append(giros, *giro)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to iterate giro rows: %w", err)
	}

	var newToken *string
	if len(giros) > limit {
		giros = giros[:limit]
		last := giros[len(giros)-1]
		token := pagination.EncodeCursor(last.CreatedAt, last.GiroID)
		newToken = &token
	}
	return giros, newToken, nil
}

// SaveGiro persists a newly created giro.
func (r *PgxGiroRepository) SaveGiro(ctx context.Context, giro domain.GiroInstrument) error {
	query := `
		INSERT INTO giros (` + giroColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22);
	`
	_, err := r.pool.Exec(ctx, query,
		giro.GiroID,
		giro.Reference,
		giro.PartnerType,
		giro.PartnerID,
		giro.Amount,
		giro.Date,
		nullable(giro.ChequeReference),
		nullable(giro.Memo),
		giro.GiroAccountID,
		nullable(giro.BankJournalID),
		giro.State,
		nullable(giro.EntryID),
		nullable(giro.ClearingEntryID),
		nullable(giro.ReverseEntryID),
		nullable(giro.ReverseClearingEntryID),
		giro.CompanyID,
		giro.CurrencyCode,
		giro.Version,
		giro.CreatedAt,
		giro.CreatedBy,
		giro.LastUpdatedAt,
		giro.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert giro %s: %w", giro.GiroID, err)
	}
	return nil
}

// UpdateGiroStateTx updates a giro's state and entry links. The version
// predicate fails with ErrConflict if the row changed since it was read.
func (r *PgxGiroRepository) UpdateGiroStateTx(ctx context.Context, tx pgx.Tx, giro domain.GiroInstrument) error {
	query := `
		UPDATE giros
		SET state = $2,
		    entry_id = $3,
		    clearing_entry_id = $4,
		    reverse_entry_id = $5,
		    reverse_clearing_entry_id = $6,
		    version = version + 1,
		    last_updated_at = $7,
		    last_updated_by = $8
		WHERE giro_id = $1 AND version = $9;
	`
	cmd, err := tx.Exec(ctx, query,
		giro.GiroID,
		giro.State,
		nullable(giro.EntryID),
		nullable(giro.ClearingEntryID),
		nullable(giro.ReverseEntryID),
		nullable(giro.ReverseClearingEntryID),
		giro.LastUpdatedAt,
		giro.LastUpdatedBy,
		giro.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update giro %s: %w", giro.GiroID, err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: giro %s was modified concurrently", apperrors.ErrConflict, giro.GiroID)
	}
	return nil
}

// DeleteGiro removes a giro record. The service only allows this for drafts
// without linked entries.
func (r *PgxGiroRepository) DeleteGiro(ctx context.Context, giroID string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM giros WHERE giro_id = $1;`, giroID)
	if err != nil {
		return fmt.Errorf("failed to delete giro %s: %w", giroID, err)
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
