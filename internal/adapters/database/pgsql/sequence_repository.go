package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/azsoft/erp_accounting_backend/internal/apperrors"
	portsrepo "github.com/azsoft/erp_accounting_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxSequenceRepository generates human-readable document references backed
// by a counter table.
type PgxSequenceRepository struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// NewPgxSequenceRepository creates a new sequence repository.
func NewPgxSequenceRepository(pool *pgxpool.Pool) portsrepo.SequenceRepository {
	return &PgxSequenceRepository{pool: pool, now: time.Now}
}

// NextReference atomically advances the named sequence and formats the
// reference as PREFIX/YYYY/NNNNN. The single UPDATE...RETURNING keeps the
// counter advance race-free without an explicit transaction.
func (r *PgxSequenceRepository) NextReference(ctx context.Context, code string) (string, error) {
	query := `
		UPDATE sequences
		SET next_number = next_number + 1
		WHERE code = $1
		RETURNING prefix, padding, next_number - 1;
	`
	var prefix string
	var padding int
	var number int64
	err := r.pool.QueryRow(ctx, query, code).Scan(&prefix, &padding, &number)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("%w: sequence %s is not configured", apperrors.ErrNotFound, code)
		}
		return "", fmt.Errorf("failed to advance sequence %s: %w", code, err)
	}
	return fmt.Sprintf("%s/%d/%0*d", prefix, r.now().UTC().Year(), padding, number), nil
}
