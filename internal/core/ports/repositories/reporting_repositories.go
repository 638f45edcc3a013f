package repositories

import (
	"context"

	"github.com/azsoft/erp_accounting_backend/internal/core/domain"
)

// ReportingRepository provides the aggregated ledger reads behind reports.
type ReportingRepository interface {
	// GetTrialBalanceData returns per-account debit/credit sums over entry
	// lines in the given date range, honoring the target entry filter.
	GetTrialBalanceData(ctx context.Context, params domain.TrialBalanceParams) ([]domain.TrialBalanceRow, error)

	// GetAccountHistory returns the entry lines behind one trial balance row.
	GetAccountHistory(ctx context.Context, accountID string, params domain.TrialBalanceParams) ([]domain.EntryLine, error)
}
