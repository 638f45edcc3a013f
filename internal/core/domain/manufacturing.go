package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductionState is the lifecycle state of a manufacturing order.
type ProductionState string

const (
	ProductionConfirmed ProductionState = "CONFIRMED"
	ProductionProgress  ProductionState = "PROGRESS"
	ProductionToClose   ProductionState = "TO_CLOSE"
	ProductionDone      ProductionState = "DONE"
	ProductionCancelled ProductionState = "CANCELLED"
)

// WipEligible reports whether an order in this state may be selected for WIP
// accounting.
func (s ProductionState) WipEligible() bool {
	return s == ProductionConfirmed || s == ProductionProgress || s == ProductionToClose
}

// ManufacturingOrder is the read model of a production order as seen by the
// accounting engines.
type ManufacturingOrder struct {
	OrderID    string          `json:"orderID"`
	Reference  string          `json:"reference"`
	State      ProductionState `json:"state"`
	ProductID  string          `json:"productID"`
	CategoryID string          `json:"categoryID"`
	CompanyID  string          `json:"companyID"`
	AuditFields
}

// RawMoveLine is a consumed-component move line of a manufacturing order.
// Unit valuation comes from the lot's standard price when the product is
// lot-valuated and a lot is set, otherwise from the product standard price.
type RawMoveLine struct {
	MoveLineID           string          `json:"moveLineID"`
	OrderID              string          `json:"orderID"`
	ProductID            string          `json:"productID"`
	CategoryID           string          `json:"categoryID"`
	Picked               bool            `json:"picked"`
	Quantity             decimal.Decimal `json:"quantity"`
	ConsumedAt           time.Time       `json:"consumedAt"`
	LotID                string          `json:"lotID,omitempty"`
	LotValuated          bool            `json:"lotValuated"`
	LotStandardPrice     decimal.Decimal `json:"lotStandardPrice"`
	ProductStandardPrice decimal.Decimal `json:"productStandardPrice"`
}

// UnitPrice returns the valuation unit price for the line.
func (l *RawMoveLine) UnitPrice() decimal.Decimal {
	if l.LotValuated && l.LotID != "" && l.LotStandardPrice.IsPositive() {
		return l.LotStandardPrice
	}
	return l.ProductStandardPrice
}

// WorkOrderState is the lifecycle state of a work order.
type WorkOrderState string

const (
	WorkOrderPending  WorkOrderState = "PENDING"
	WorkOrderProgress WorkOrderState = "PROGRESS"
	WorkOrderDone     WorkOrderState = "DONE"
)

// WorkOrder is a workcenter operation of a manufacturing order. Overhead is
// CostOverride when supplied, otherwise duration-hours times the workcenter
// hourly cost.
type WorkOrder struct {
	WorkOrderID     string           `json:"workOrderID"`
	OrderID         string           `json:"orderID"`
	Name            string           `json:"name"`
	State           WorkOrderState   `json:"state"`
	DurationMinutes decimal.Decimal  `json:"durationMinutes"`
	CostPerHour     decimal.Decimal  `json:"costPerHour"`
	CostOverride    *decimal.Decimal `json:"costOverride,omitempty"`
}

// Cost returns the overhead cost contributed by the work order.
func (w *WorkOrder) Cost() decimal.Decimal {
	if w.CostOverride != nil {
		return *w.CostOverride
	}
	hours := w.DurationMinutes.Div(decimal.NewFromInt(60))
	return hours.Mul(w.CostPerHour)
}

// FinishedMoveLine is a finished-goods move line of a manufacturing order,
// used to value report-as-finished entries. ValuationValue is the stock
// valuation layer value; when zero the quantity times standard price is used.
type FinishedMoveLine struct {
	MoveLineID           string          `json:"moveLineID"`
	OrderID              string          `json:"orderID"`
	ProductID            string          `json:"productID"`
	Quantity             decimal.Decimal `json:"quantity"`
	ValuationValue       decimal.Decimal `json:"valuationValue"`
	ProductStandardPrice decimal.Decimal `json:"productStandardPrice"`
	Done                 bool            `json:"done"`
}

// Value returns the finished-goods value for the line.
func (l *FinishedMoveLine) Value() decimal.Decimal {
	value := l.ValuationValue.Abs()
	if value.IsZero() {
		value = l.Quantity.Mul(l.ProductStandardPrice)
	}
	return value
}
