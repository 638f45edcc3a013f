package services

import (
	"context"

	"github.com/azsoft/erp_accounting_backend/internal/core/domain"
)

// ReportingSvcFacade produces the ledger reports.
type ReportingSvcFacade interface {
	// TrialBalance aggregates per-account debit/credit totals over the
	// requested period, honoring the target-entry and show-account filters.
	TrialBalance(ctx context.Context, params domain.TrialBalanceParams) ([]domain.TrialBalanceRow, error)

	// AccountHistory returns the entry lines behind one trial balance row.
	AccountHistory(ctx context.Context, accountID string, params domain.TrialBalanceParams) ([]domain.EntryLine, error)
}
