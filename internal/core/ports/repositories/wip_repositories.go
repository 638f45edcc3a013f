package repositories

import (
	"context"
	"time"

	"github.com/azsoft/erp_accounting_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// WipRunRepository persists the ephemeral WIP wizard runs and their lines.
type WipRunRepository interface {
	// SaveRun persists a run together with its lines.
	SaveRun(ctx context.Context, run domain.WipRun) error

	// FindRunByID retrieves a run including its lines.
	FindRunByID(ctx context.Context, runID string) (*domain.WipRun, error)

	// FindRunByIDForUpdateTx retrieves a run (with lines) holding an
	// exclusive row lock, serializing concurrent posting attempts.
	FindRunByIDForUpdateTx(ctx context.Context, tx pgx.Tx, runID string) (*domain.WipRun, error)

	// ReplaceRunLines deletes all lines of a run and inserts the given set.
	ReplaceRunLines(ctx context.Context, runID string, lines []domain.WipLine) error

	// UpdateRunStateTx updates a run's state, dates and entry links within
	// the caller's transaction.
	UpdateRunStateTx(ctx context.Context, tx pgx.Tx, run domain.WipRun) error

	// DeleteRunsBefore purges runs created before the cutoff that were never
	// posted. Posted runs only carry links; the ledger entries stay.
	DeleteRunsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// WipRunRepositoryWithTx extends WipRunRepository with transaction control.
type WipRunRepositoryWithTx interface {
	WipRunRepository
	TransactionManager
}
