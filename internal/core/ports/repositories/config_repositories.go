package repositories

import (
	"context"

	"github.com/azsoft/erp_accounting_backend/internal/core/domain"
)

// ConfigurationRepository provides read access to the master-data and
// configuration stores this module consumes: accounts, partners, product
// categories and company settings.
type ConfigurationRepository interface {
	// FindAccountByID retrieves an account by its ID.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts keyed by ID.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// FindPartnerByID retrieves a partner by its ID.
	FindPartnerByID(ctx context.Context, partnerID string) (*domain.Partner, error)

	// FindCategoryByID retrieves a product category by its ID.
	FindCategoryByID(ctx context.Context, categoryID string) (*domain.ProductCategory, error)

	// FindCompanySettings retrieves the configuration defaults of a company.
	FindCompanySettings(ctx context.Context, companyID string) (*domain.CompanySettings, error)
}

// SequenceRepository generates human-readable document references.
type SequenceRepository interface {
	// NextReference atomically advances the named sequence and returns the
	// formatted reference (e.g. GIRO/2026/00042).
	NextReference(ctx context.Context, code string) (string, error)
}
