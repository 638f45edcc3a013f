package domain

// AccountType defines the fundamental accounting type of an account.
// RECEIVABLE and PAYABLE mark partner control accounts, which may not be
// used as giro holding accounts.
type AccountType string

const (
	Asset      AccountType = "ASSET"
	Liability  AccountType = "LIABILITY"
	Equity     AccountType = "EQUITY"
	Revenue    AccountType = "REVENUE"
	Expense    AccountType = "EXPENSE"
	Receivable AccountType = "RECEIVABLE"
	Payable    AccountType = "PAYABLE"
	Bank       AccountType = "BANK"
)

// IsPartnerControl reports whether the type is a partner control account
// (receivable/payable).
func (t AccountType) IsPartnerControl() bool {
	return t == Receivable || t == Payable
}

// Account represents a general-ledger account.
type Account struct {
	AccountID    string      `json:"accountID"`
	Code         string      `json:"code"`
	Name         string      `json:"name"`
	AccountType  AccountType `json:"accountType"`
	CompanyID    string      `json:"companyID"`
	CurrencyCode string      `json:"currencyCode"`
	IsActive     bool        `json:"isActive"`
	AuditFields
}

// AccountRole names the purpose an account plays in manufacturing
// accounting. Roles are mapped to concrete accounts through the product
// category and company configuration.
type AccountRole string

const (
	RoleRawMaterial    AccountRole = "raw_material"
	RoleWip            AccountRole = "wip"
	RoleOverhead       AccountRole = "overhead"
	RoleRaf            AccountRole = "raf"
	RoleStockValuation AccountRole = "stock_valuation"
	RoleOther          AccountRole = "other"
)

// AccountSource indicates where a resolved account came from in the
// fallback chain.
type AccountSource string

const (
	SourceCategory AccountSource = "CATEGORY"
	SourceCompany  AccountSource = "COMPANY"
	SourceFallback AccountSource = "FALLBACK"
)

// ResolvedAccount is the outcome of resolving one account role.
type ResolvedAccount struct {
	AccountID string        `json:"accountID"`
	Source    AccountSource `json:"source"`
}

// ResolvedAccountSet maps account roles to resolved accounts for a given
// (category, company) pair. It is a transient value object and is never
// persisted.
type ResolvedAccountSet map[AccountRole]ResolvedAccount

// Partner represents a customer or vendor with its control accounts.
type Partner struct {
	PartnerID           string `json:"partnerID"`
	Name                string `json:"name"`
	IsCustomer          bool   `json:"isCustomer"`
	IsVendor            bool   `json:"isVendor"`
	ReceivableAccountID string `json:"receivableAccountID"`
	PayableAccountID    string `json:"payableAccountID"`
	AuditFields
}
