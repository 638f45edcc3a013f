package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/azsoft/erp_accounting_backend/internal/apperrors"
	"github.com/azsoft/erp_accounting_backend/internal/core/domain"
	portsrepo "github.com/azsoft/erp_accounting_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxWipRunRepository persists WIP wizard runs and their lines.
type PgxWipRunRepository struct {
	baseRepository
}

// NewPgxWipRunRepository creates a new WIP run repository.
func NewPgxWipRunRepository(pool *pgxpool.Pool) portsrepo.WipRunRepositoryWithTx {
	return &PgxWipRunRepository{baseRepository{pool: pool}}
}

const wipRunColumns = `run_id, run_date, reversal_date, journal_id, reference, order_ids, state, entry_id, reversal_entry_id, company_id, created_at, created_by, last_updated_at, last_updated_by`

func scanWipRun(row pgx.Row) (*domain.WipRun, error) {
	var run domain.WipRun
	var entryID, reversalEntryID *string
	err := row.Scan(
		&run.RunID,
		&run.Date,
		&run.ReversalDate,
		&run.JournalID,
		&run.Reference,
		&run.OrderIDs,
		&run.State,
		&entryID,
		&reversalEntryID,
		&run.CompanyID,
		&run.CreatedAt,
		&run.CreatedBy,
		&run.LastUpdatedAt,
		&run.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	assignIfSet(&run.EntryID, entryID)
	assignIfSet(&run.ReversalEntryID, reversalEntryID)
	return &run, nil
}

// SaveRun persists a run together with its lines.
func (r *PgxWipRunRepository) SaveRun(ctx context.Context, run domain.WipRun) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO wip_runs (` + wipRunColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err = tx.Exec(ctx, query,
		run.RunID,
		run.Date,
		run.ReversalDate,
		run.JournalID,
		run.Reference,
		run.OrderIDs,
		run.State,
		nullable(run.EntryID),
		nullable(run.ReversalEntryID),
		run.CompanyID,
		run.CreatedAt,
		run.CreatedBy,
		run.LastUpdatedAt,
		run.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert wip run %s: %w", run.RunID, err)
	}
	if err := insertWipLines(ctx, tx, run.RunID, run.Lines); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit wip run %s: %w", run.RunID, err)
	}
	return nil
}

func insertWipLines(ctx context.Context, tx pgx.Tx, runID string, lines []domain.WipLine) error {
	if len(lines) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	query := `
		INSERT INTO wip_run_lines (line_id, run_id, sequence, label, line_type, debit, credit, account_id, order_id, analytic_distribution)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	for _, line := range lines {
		analytic, err := encodeAnalytic(line.AnalyticDistribution)
		if err != nil {
			return fmt.Errorf("failed to encode analytic distribution of wip line %s: %w", line.LineID, err)
		}
		batch.Queue(query,
			line.LineID,
			runID,
			line.Sequence,
			line.Label,
			line.LineType,
			line.Debit,
			line.Credit,
			line.AccountID,
			nullable(line.OrderID),
			analytic,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to insert lines of wip run %s: %w", runID, err)
	}
	return nil
}

// FindRunByID retrieves a run including its lines.
func (r *PgxWipRunRepository) FindRunByID(ctx context.Context, runID string) (*domain.WipRun, error) {
	query := `SELECT ` + wipRunColumns + ` FROM wip_runs WHERE run_id = $1;`
	run, err := scanWipRun(r.pool.QueryRow(ctx, query, runID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find wip run %s: %w", runID, err)
	}
	run.Lines, err = r.findRunLines(ctx, runID)
	if err != nil {
		return nil, err
	}
	return run, nil
}

// FindRunByIDForUpdateTx retrieves a run (with lines) holding an exclusive
// row lock, serializing concurrent posting attempts.
func (r *PgxWipRunRepository) FindRunByIDForUpdateTx(ctx context.Context, tx pgx.Tx, runID string) (*domain.WipRun, error) {
	query := `SELECT ` + wipRunColumns + ` FROM wip_runs WHERE run_id = $1 FOR UPDATE;`
	run, err := scanWipRun(tx.QueryRow(ctx, query, runID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock wip run %s: %w", runID, err)
	}
	run.Lines, err = r.findRunLines(ctx, runID)
	if err != nil {
		return nil, err
	}
	return run, nil
}

func (r *PgxWipRunRepository) findRunLines(ctx context.Context, runID string) ([]domain.WipLine, error) {
	query := `
		SELECT line_id, run_id, sequence, label, line_type, debit, credit, account_id, order_id, analytic_distribution
		FROM wip_run_lines
		WHERE run_id = $1
		ORDER BY sequence;
	`
	rows, err := r.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines of wip run %s: %w", runID, err)
	}
	defer rows.Close()

	var lines []domain.WipLine
	for rows.Next() {
		var line domain.WipLine
		var orderID *string
		var analytic []byte
		if err := rows.Scan(
			&line.LineID,
			&line.RunID,
			&line.Sequence,
			&line.Label,
			&line.LineType,
			&line.Debit,
			&line.Credit,
			&line.AccountID,
			&orderID,
			&analytic,
		); err != nil {
			return nil, fmt.Errorf("failed to scan wip run line: %w", err)
		}
		if orderID != nil {
			line.OrderID = *orderID
		}
		if len(analytic) > 0 {
			if err := json.Unmarshal(analytic, &line.AnalyticDistribution); err != nil {
				return nil, fmt.Errorf("failed to decode analytic distribution of wip line %s: %w", line.LineID, err)
			}
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate lines of wip run %s: %w", runID, err)
	}
	return lines, nil
}

// ReplaceRunLines deletes all lines of a run and inserts the given set.
func (r *PgxWipRunRepository) ReplaceRunLines(ctx context.Context, runID string, lines []domain.WipLine) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM wip_run_lines WHERE run_id = $1;`, runID); err != nil {
		return fmt.Errorf("failed to delete lines of wip run %s: %w", runID, err)
	}
	if err := insertWipLines(ctx, tx, runID, lines); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit line replacement of wip run %s: %w", runID, err)
	}
	return nil
}

// UpdateRunStateTx updates a run's state, dates and entry links within the
// caller's transaction.
func (r *PgxWipRunRepository) UpdateRunStateTx(ctx context.Context, tx pgx.Tx, run domain.WipRun) error {
	cmd, err := tx.Exec(ctx, `
		UPDATE wip_runs
		SET state = $2,
		    run_date = $3,
		    reversal_date = $4,
		    entry_id = $5,
		    reversal_entry_id = $6,
		    last_updated_at = $7,
		    last_updated_by = $8
		WHERE run_id = $1;
	`,
		run.RunID,
		run.State,
		run.Date,
		run.ReversalDate,
		nullable(run.EntryID),
		nullable(run.ReversalEntryID),
		run.LastUpdatedAt,
		run.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update wip run %s: %w", run.RunID, err)
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteRunsBefore purges unposted runs created before the cutoff. Posted
// runs are kept; they carry the link back to their ledger entries.
func (r *PgxWipRunRepository) DeleteRunsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		DELETE FROM wip_run_lines
		WHERE run_id IN (SELECT run_id FROM wip_runs WHERE created_at < $1 AND state = 'DRAFT');
	`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge stale wip run lines: %w", err)
	}
	cmd, err := tx.Exec(ctx, `DELETE FROM wip_runs WHERE created_at < $1 AND state = 'DRAFT';`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge stale wip runs: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit wip run purge: %w", err)
	}
	return cmd.RowsAffected(), nil
}
