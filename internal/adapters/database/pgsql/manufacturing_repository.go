package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/azsoft/erp_accounting_backend/internal/apperrors"
	"github.com/azsoft/erp_accounting_backend/internal/core/domain"
	portsrepo "github.com/azsoft/erp_accounting_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxManufacturingRepository reads manufacturing orders and their cost
// carriers, and performs the order-side writes of production completion.
type PgxManufacturingRepository struct {
	pool *pgxpool.Pool
}

// NewPgxManufacturingRepository creates a new manufacturing repository.
func NewPgxManufacturingRepository(pool *pgxpool.Pool) portsrepo.ManufacturingRepository {
	return &PgxManufacturingRepository{pool: pool}
}

const orderColumns = `order_id, reference, state, product_id, category_id, company_id, created_at, created_by, last_updated_at, last_updated_by`

func scanOrder(row pgx.Row) (*domain.ManufacturingOrder, error) {
	var order domain.ManufacturingOrder
	err := row.Scan(
		&order.OrderID,
		&order.Reference,
		&order.State,
		&order.ProductID,
		&order.CategoryID,
		&order.CompanyID,
		&order.CreatedAt,
		&order.CreatedBy,
		&order.LastUpdatedAt,
		&order.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindOrderByID retrieves a manufacturing order.
func (r *PgxManufacturingRepository) FindOrderByID(ctx context.Context, orderID string) (*domain.ManufacturingOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM manufacturing_orders WHERE order_id = $1;`
	order, err := scanOrder(r.pool.QueryRow(ctx, query, orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find order %s: %w", orderID, err)
	}
	return order, nil
}

// FindOrdersByIDs retrieves manufacturing orders preserving input order.
// Unknown IDs are skipped; the caller decides whether that is an error.
func (r *PgxManufacturingRepository) FindOrdersByIDs(ctx context.Context, orderIDs []string) ([]domain.ManufacturingOrder, error) {
	if len(orderIDs) == 0 {
		return nil, nil
	}
	query := `SELECT ` + orderColumns + ` FROM manufacturing_orders WHERE order_id = ANY($1);`
	rows, err := r.pool.Query(ctx, query, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]domain.ManufacturingOrder, len(orderIDs))
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order row: %w", err)
		}
		byID[order.OrderID] = *order
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate order rows: %w", err)
	}

	orders := make([]domain.ManufacturingOrder, 0, len(byID))
	for _, id := range orderIDs {
		if order, ok := byID[id]; ok {
			orders = append(orders, order)
		}
	}
	return orders, nil
}

// FindRawMoveLines retrieves the consumed-component move lines of the given
// orders, with the product and lot valuation data the costing engine needs.
func (r *PgxManufacturingRepository) FindRawMoveLines(ctx context.Context, orderIDs []string) ([]domain.RawMoveLine, error) {
	if len(orderIDs) == 0 {
		return nil, nil
	}
	query := `
		SELECT move_line_id, order_id, product_id, category_id, picked, quantity, consumed_at,
		       lot_id, lot_valuated, lot_standard_price, product_standard_price
		FROM raw_move_lines
		WHERE order_id = ANY($1)
		ORDER BY order_id, consumed_at;
	`
	rows, err := r.pool.Query(ctx, query, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query raw move lines: %w", err)
	}
	defer rows.Close()

	var lines []domain.RawMoveLine
	for rows.Next() {
		var line domain.RawMoveLine
		var lotID *string
		if err := rows.Scan(
			&line.MoveLineID,
			&line.OrderID,
			&line.ProductID,
			&line.CategoryID,
			&line.Picked,
			&line.Quantity,
			&line.ConsumedAt,
			&lotID,
			&line.LotValuated,
			&line.LotStandardPrice,
			&line.ProductStandardPrice,
		); err != nil {
			return nil, fmt.Errorf("failed to scan raw move line: %w", err)
		}
		if lotID != nil {
			line.LotID = *lotID
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate raw move lines: %w", err)
	}
	return lines, nil
}

// FindWorkOrders retrieves the work orders of the given orders.
func (r *PgxManufacturingRepository) FindWorkOrders(ctx context.Context, orderIDs []string) ([]domain.WorkOrder, error) {
	if len(orderIDs) == 0 {
		return nil, nil
	}
	query := `
		SELECT work_order_id, order_id, name, state, duration_minutes, cost_per_hour, cost_override
		FROM work_orders
		WHERE order_id = ANY($1)
		ORDER BY order_id, work_order_id;
	`
	rows, err := r.pool.Query(ctx, query, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query work orders: %w", err)
	}
	defer rows.Close()

	var workOrders []domain.WorkOrder
	for rows.Next() {
		var wo domain.WorkOrder
		if err := rows.Scan(
			&wo.WorkOrderID,
			&wo.OrderID,
			&wo.Name,
			&wo.State,
			&wo.DurationMinutes,
			&wo.CostPerHour,
			&wo.CostOverride,
		); err != nil {
			return nil, fmt.Errorf("failed to scan work order: %w", err)
		}
		workOrders = append(workOrders, wo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate work orders: %w", err)
	}
	return workOrders, nil
}

// FindFinishedMoveLines retrieves the finished-goods move lines of an order.
func (r *PgxManufacturingRepository) FindFinishedMoveLines(ctx context.Context, orderID string) ([]domain.FinishedMoveLine, error) {
	query := `
		SELECT move_line_id, order_id, product_id, quantity, valuation_value, product_standard_price, done
		FROM finished_move_lines
		WHERE order_id = $1
		ORDER BY move_line_id;
	`
	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query finished move lines of order %s: %w", orderID, err)
	}
	defer rows.Close()

	var lines []domain.FinishedMoveLine
	for rows.Next() {
		var line domain.FinishedMoveLine
		if err := rows.Scan(
			&line.MoveLineID,
			&line.OrderID,
			&line.ProductID,
			&line.Quantity,
			&line.ValuationValue,
			&line.ProductStandardPrice,
			&line.Done,
		); err != nil {
			return nil, fmt.Errorf("failed to scan finished move line: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate finished move lines: %w", err)
	}
	return lines, nil
}

// UpdateOrderStateTx updates the state of an order within the caller's
// transaction.
func (r *PgxManufacturingRepository) UpdateOrderStateTx(ctx context.Context, tx pgx.Tx, orderID string, state domain.ProductionState, updatedBy string) error {
	cmd, err := tx.Exec(ctx, `
		UPDATE manufacturing_orders
		SET state = $2, last_updated_at = now(), last_updated_by = $3
		WHERE order_id = $1;
	`, orderID, state, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to update state of order %s: %w", orderID, err)
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// LinkEntryToOrderTx records the association between a posted journal entry
// and a manufacturing order.
func (r *PgxManufacturingRepository) LinkEntryToOrderTx(ctx context.Context, tx pgx.Tx, orderID string, entryID string) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO order_entry_links (order_id, entry_id, created_at)
		VALUES ($1, $2, now())
		ON CONFLICT (order_id, entry_id) DO NOTHING;
	`, orderID, entryID)
	if err != nil {
		return fmt.Errorf("failed to link entry %s to order %s: %w", entryID, orderID, err)
	}
	return nil
}

// FindEntryIDsByOrder returns the IDs of journal entries linked to an order,
// oldest link first.
func (r *PgxManufacturingRepository) FindEntryIDsByOrder(ctx context.Context, orderID string) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT entry_id FROM order_entry_links WHERE order_id = $1 ORDER BY created_at;
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query entry links of order %s: %w", orderID, err)
	}
	defer rows.Close()

	var entryIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan entry link: %w", err)
		}
		entryIDs = append(entryIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate entry links: %w", err)
	}
	return entryIDs, nil
}
