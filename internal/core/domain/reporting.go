package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TargetEntries selects which entry states a report aggregates over.
type TargetEntries string

const (
	TargetPosted TargetEntries = "POSTED"
	TargetAll    TargetEntries = "ALL"
)

// ShowAccounts filters which accounts appear in a trial balance.
type ShowAccounts string

const (
	ShowAll          ShowAccounts = "ALL"
	ShowWithMovement ShowAccounts = "WITH_MOVEMENT"
	ShowNotZero      ShowAccounts = "NOT_ZERO"
)

// TrialBalanceParams are the inputs of a trial balance run.
type TrialBalanceParams struct {
	CompanyID string
	DateFrom  time.Time
	DateTo    time.Time
	Target    TargetEntries
	Show      ShowAccounts
}

// TrialBalanceRow is one account's aggregated debit/credit totals.
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal `json:"balance"`
}
