package services

import (
	"context"

	"github.com/azsoft/erp_accounting_backend/internal/core/domain"
	"github.com/azsoft/erp_accounting_backend/internal/dto"
)

// WipSvcFacade drives the work-in-progress costing runs.
type WipSvcFacade interface {
	// CreateRun snapshots the cost of the given manufacturing orders at the
	// run date and stores the preview lines.
	CreateRun(ctx context.Context, req dto.CreateWipRunRequest, userID string) (*domain.WipRun, error)

	// GetRun retrieves a run including its preview lines.
	GetRun(ctx context.Context, runID string) (*domain.WipRun, error)

	// RefreshLines recomputes the preview lines of a draft run from the
	// current state of its orders.
	RefreshLines(ctx context.Context, runID string, userID string) (*domain.WipRun, error)

	// Post turns the preview lines into a posted journal entry.
	Post(ctx context.Context, runID string, userID string) (*domain.WipRun, error)

	// PostAndReverse posts the run and immediately posts its mirror entry at
	// the reversal date.
	PostAndReverse(ctx context.Context, runID string, userID string) (*domain.WipRun, error)

	// PurgeStaleRuns deletes unposted runs older than the retention window
	// and returns how many were removed.
	PurgeStaleRuns(ctx context.Context) (int64, error)
}

// ProductionSvcFacade covers the order-completion hooks that feed the ledger.
type ProductionSvcFacade interface {
	// MarkDone completes a manufacturing order. When auto-posting is enabled
	// for the company it also posts the finished-goods receipt entry.
	MarkDone(ctx context.Context, orderID string, userID string) (*domain.ManufacturingOrder, error)

	// ListOrderEntries returns the journal entries linked to an order.
	ListOrderEntries(ctx context.Context, orderID string) ([]domain.JournalEntry, error)
}
