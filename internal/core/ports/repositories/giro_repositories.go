package repositories

import (
	"context"

	"github.com/azsoft/erp_accounting_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// GiroReader defines read operations for giro instruments.
type GiroReader interface {
	// FindGiroByID retrieves a giro by its unique identifier.
	FindGiroByID(ctx context.Context, giroID string) (*domain.GiroInstrument, error)

	// FindGiroByIDForUpdateTx retrieves a giro while holding an exclusive row
	// lock for the duration of the caller's transaction, serializing
	// concurrent state transitions on the same instrument.
	FindGiroByIDForUpdateTx(ctx context.Context, tx pgx.Tx, giroID string) (*domain.GiroInstrument, error)

	// ListGiros retrieves a paginated list of giros using token-based
	// pagination, optionally filtered by state.
	ListGiros(ctx context.Context, companyID string, state *domain.GiroState, limit int, nextToken *string) ([]domain.GiroInstrument, *string, error)
}

// GiroWriter defines write operations for giro instruments.
type GiroWriter interface {
	// SaveGiro persists a newly created giro.
	SaveGiro(ctx context.Context, giro domain.GiroInstrument) error

	// UpdateGiroStateTx updates a giro's state and entry links within the
	// caller's transaction. The version check fails with ErrConflict if the
	// row changed since it was read.
	UpdateGiroStateTx(ctx context.Context, tx pgx.Tx, giro domain.GiroInstrument) error

	// DeleteGiro removes a giro record.
	DeleteGiro(ctx context.Context, giroID string) error
}

// GiroRepository combines giro read and write operations.
type GiroRepository interface {
	GiroReader
	GiroWriter
}

// GiroRepositoryWithTx extends GiroRepository with transaction control.
type GiroRepositoryWithTx interface {
	GiroRepository
	TransactionManager
}
