package repositories

import (
	"context"

	"github.com/azsoft/erp_accounting_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// ManufacturingRepository provides the read model of manufacturing orders
// and their cost carriers, plus the order-side writes performed when
// production completes.
type ManufacturingRepository interface {
	// FindOrderByID retrieves a manufacturing order.
	FindOrderByID(ctx context.Context, orderID string) (*domain.ManufacturingOrder, error)

	// FindOrdersByIDs retrieves manufacturing orders preserving input order;
	// unknown IDs are skipped.
	FindOrdersByIDs(ctx context.Context, orderIDs []string) ([]domain.ManufacturingOrder, error)

	// FindRawMoveLines retrieves the consumed-component move lines of the
	// given orders.
	FindRawMoveLines(ctx context.Context, orderIDs []string) ([]domain.RawMoveLine, error)

	// FindWorkOrders retrieves the work orders of the given orders.
	FindWorkOrders(ctx context.Context, orderIDs []string) ([]domain.WorkOrder, error)

	// FindFinishedMoveLines retrieves the finished-goods move lines of an order.
	FindFinishedMoveLines(ctx context.Context, orderID string) ([]domain.FinishedMoveLine, error)

	// UpdateOrderStateTx updates the state of an order within the caller's
	// transaction.
	UpdateOrderStateTx(ctx context.Context, tx pgx.Tx, orderID string, state domain.ProductionState, updatedBy string) error

	// LinkEntryToOrderTx records the association between a posted journal
	// entry and a manufacturing order.
	LinkEntryToOrderTx(ctx context.Context, tx pgx.Tx, orderID string, entryID string) error

	// FindEntryIDsByOrder returns the IDs of journal entries linked to an order.
	FindEntryIDsByOrder(ctx context.Context, orderID string) ([]string, error)
}
