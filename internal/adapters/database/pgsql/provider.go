package pgsql

import (
	portsrepo "github.com/azsoft/erp_accounting_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every pgsql repository onto one pool.
func NewRepositoryProvider(pool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		GiroRepo:          NewPgxGiroRepository(pool),
		LedgerRepo:        NewPgxLedgerRepository(pool),
		ConfigRepo:        NewPgxConfigurationRepository(pool),
		SequenceRepo:      NewPgxSequenceRepository(pool),
		ManufacturingRepo: NewPgxManufacturingRepository(pool),
		WipRepo:           NewPgxWipRunRepository(pool),
		ReportingRepo:     NewPgxReportingRepository(pool),
	}
}
