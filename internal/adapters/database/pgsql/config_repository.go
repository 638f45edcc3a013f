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

// PgxConfigurationRepository reads the master-data and configuration stores:
// accounts, partners, product categories and company settings.
type PgxConfigurationRepository struct {
	pool *pgxpool.Pool
}

// NewPgxConfigurationRepository creates a new configuration repository.
func NewPgxConfigurationRepository(pool *pgxpool.Pool) portsrepo.ConfigurationRepository {
	return &PgxConfigurationRepository{pool: pool}
}

const accountColumns = `account_id, code, name, account_type, company_id, currency_code, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var acc domain.Account
	err := row.Scan(
		&acc.AccountID,
		&acc.Code,
		&acc.Name,
		&acc.AccountType,
		&acc.CompanyID,
		&acc.CurrencyCode,
		&acc.IsActive,
		&acc.CreatedAt,
		&acc.CreatedBy,
		&acc.LastUpdatedAt,
		&acc.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxConfigurationRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`
	acc, err := scanAccount(r.pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	return acc, nil
}

// FindAccountsByIDs retrieves multiple accounts keyed by ID. Missing IDs are
// simply absent from the result map.
func (r *PgxConfigurationRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	accounts := make(map[string]domain.Account, len(accountIDs))
	if len(accountIDs) == 0 {
		return accounts, nil
	}
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ANY($1);`
	rows, err := r.pool.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts[acc.AccountID] = *acc
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate account rows: %w", err)
	}
	return accounts, nil
}

// FindPartnerByID retrieves a partner by its ID.
func (r *PgxConfigurationRepository) FindPartnerByID(ctx context.Context, partnerID string) (*domain.Partner, error) {
	query := `
		SELECT partner_id, name, is_customer, is_vendor, receivable_account_id, payable_account_id, created_at, created_by, last_updated_at, last_updated_by
		FROM partners
		WHERE partner_id = $1;
	`
	var partner domain.Partner
	var receivableID, payableID *string
	err := r.pool.QueryRow(ctx, query, partnerID).Scan(
		&partner.PartnerID,
		&partner.Name,
		&partner.IsCustomer,
		&partner.IsVendor,
		&receivableID,
		&payableID,
		&partner.CreatedAt,
		&partner.CreatedBy,
		&partner.LastUpdatedAt,
		&partner.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find partner %s: %w", partnerID, err)
	}
	assignIfSet(&partner.ReceivableAccountID, receivableID)
	assignIfSet(&partner.PayableAccountID, payableID)
	return &partner, nil
}

// FindCategoryByID retrieves a product category with its account slots.
func (r *PgxConfigurationRepository) FindCategoryByID(ctx context.Context, categoryID string) (*domain.ProductCategory, error) {
	query := `
		SELECT category_id, name, company_id,
		       raw_material_account_id, wip_account_id, overhead_account_id, raf_account_id,
		       stock_valuation_account_id, stock_input_account_id, production_cost_account_id,
		       stock_journal_id,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM product_categories
		WHERE category_id = $1;
	`
	var cat domain.ProductCategory
	slots := make([]*string, 8)
	err := r.pool.QueryRow(ctx, query, categoryID).Scan(
		&cat.CategoryID,
		&cat.Name,
		&cat.CompanyID,
		&slots[0], &slots[1], &slots[2], &slots[3],
		&slots[4], &slots[5], &slots[6],
		&slots[7],
		&cat.CreatedAt,
		&cat.CreatedBy,
		&cat.LastUpdatedAt,
		&cat.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find category %s: %w", categoryID, err)
	}
	assignIfSet(&cat.RawMaterialAccountID, slots[0])
	assignIfSet(&cat.WipAccountID, slots[1])
	assignIfSet(&cat.OverheadAccountID, slots[2])
	assignIfSet(&cat.RafAccountID, slots[3])
	assignIfSet(&cat.StockValuationAccountID, slots[4])
	assignIfSet(&cat.StockInputAccountID, slots[5])
	assignIfSet(&cat.ProductionCostAccountID, slots[6])
	assignIfSet(&cat.StockJournalID, slots[7])
	return &cat, nil
}

// FindCompanySettings retrieves the configuration defaults of a company.
func (r *PgxConfigurationRepository) FindCompanySettings(ctx context.Context, companyID string) (*domain.CompanySettings, error) {
	query := `
		SELECT company_id, currency_code,
		       default_wip_account_id, default_wip_overhead_account_id, fallback_valuation_account_id,
		       default_journal_id, auto_post_on_produce
		FROM company_settings
		WHERE company_id = $1;
	`
	var settings domain.CompanySettings
	var wipID, overheadID, fallbackID, journalID *string
	err := r.pool.QueryRow(ctx, query, companyID).Scan(
		&settings.CompanyID,
		&settings.CurrencyCode,
		&wipID,
		&overheadID,
		&fallbackID,
		&journalID,
		&settings.AutoPostOnProduce,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find settings of company %s: %w", companyID, err)
	}
	assignIfSet(&settings.DefaultWipAccountID, wipID)
	assignIfSet(&settings.DefaultWipOverheadAccountID, overheadID)
	assignIfSet(&settings.FallbackValuationAccountID, fallbackID)
	assignIfSet(&settings.DefaultJournalID, journalID)
	return &settings, nil
}
