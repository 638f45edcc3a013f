package domain

// ProductCategory carries the per-category account configuration consumed by
// the account resolver. All account references are optional; resolution falls
// back to company-level defaults when a category slot is empty.
type ProductCategory struct {
	CategoryID string `json:"categoryID"`
	Name       string `json:"name"`
	CompanyID  string `json:"companyID"`

	RawMaterialAccountID    string `json:"rawMaterialAccountID,omitempty"`
	WipAccountID            string `json:"wipAccountID,omitempty"`
	OverheadAccountID       string `json:"overheadAccountID,omitempty"`
	RafAccountID            string `json:"rafAccountID,omitempty"`
	StockValuationAccountID string `json:"stockValuationAccountID,omitempty"`
	StockInputAccountID     string `json:"stockInputAccountID,omitempty"`
	ProductionCostAccountID string `json:"productionCostAccountID,omitempty"`

	StockJournalID string `json:"stockJournalID,omitempty"`
	AuditFields
}

// CompanySettings holds the company-level defaults and toggles that the
// posting engines receive explicitly at invocation time.
type CompanySettings struct {
	CompanyID                   string `json:"companyID"`
	CurrencyCode                string `json:"currencyCode"`
	DefaultWipAccountID         string `json:"defaultWipAccountID,omitempty"`
	DefaultWipOverheadAccountID string `json:"defaultWipOverheadAccountID,omitempty"`
	FallbackValuationAccountID  string `json:"fallbackValuationAccountID,omitempty"`
	DefaultJournalID            string `json:"defaultJournalID,omitempty"`

	// AutoPostOnProduce enables automatic RAF/pick entry generation when a
	// manufacturing order is marked done.
	AutoPostOnProduce bool `json:"autoPostOnProduce"`
}
