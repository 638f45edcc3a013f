package services

import (
	"github.com/azsoft/erp_accounting_backend/internal/apperrors"
	"github.com/azsoft/erp_accounting_backend/internal/core/domain"
)

// accountCandidate is one rung of a resolution ladder: where to look and
// what source to attribute the hit to.
type accountCandidate struct {
	pick   func(cat *domain.ProductCategory, co *domain.CompanySettings) string
	source domain.AccountSource
}

// resolutionLadders holds the ordered candidate list per role. First
// non-empty candidate wins; the order is load-bearing and mirrors how the
// valuation configuration degrades from specific to generic.
var resolutionLadders = map[domain.AccountRole][]accountCandidate{
	domain.RoleRawMaterial: {
		{func(c *domain.ProductCategory, _ *domain.CompanySettings) string { return c.RawMaterialAccountID }, domain.SourceCategory},
		{func(c *domain.ProductCategory, _ *domain.CompanySettings) string { return c.StockValuationAccountID }, domain.SourceCategory},
	},
	domain.RoleWip: {
		{func(c *domain.ProductCategory, _ *domain.CompanySettings) string { return c.WipAccountID }, domain.SourceCategory},
		{func(_ *domain.ProductCategory, co *domain.CompanySettings) string { return co.DefaultWipAccountID }, domain.SourceCompany},
	},
	domain.RoleOverhead: {
		{func(c *domain.ProductCategory, _ *domain.CompanySettings) string { return c.OverheadAccountID }, domain.SourceCategory},
		{func(_ *domain.ProductCategory, co *domain.CompanySettings) string { return co.DefaultWipOverheadAccountID }, domain.SourceCompany},
		{func(c *domain.ProductCategory, _ *domain.CompanySettings) string { return c.ProductionCostAccountID }, domain.SourceCategory},
		{func(c *domain.ProductCategory, _ *domain.CompanySettings) string { return c.StockInputAccountID }, domain.SourceCategory},
	},
	domain.RoleRaf: {
		{func(c *domain.ProductCategory, _ *domain.CompanySettings) string { return c.RafAccountID }, domain.SourceCategory},
	},
	domain.RoleStockValuation: {
		{func(c *domain.ProductCategory, _ *domain.CompanySettings) string { return c.StockValuationAccountID }, domain.SourceCategory},
		{func(_ *domain.ProductCategory, co *domain.CompanySettings) string { return co.FallbackValuationAccountID }, domain.SourceFallback},
	},
	domain.RoleOther: {
		{func(c *domain.ProductCategory, _ *domain.CompanySettings) string { return c.StockValuationAccountID }, domain.SourceCategory},
		{func(_ *domain.ProductCategory, co *domain.CompanySettings) string { return co.FallbackValuationAccountID }, domain.SourceFallback},
	},
}

// ResolveAccount walks the ladder for one role and returns the first
// configured account, tagged with where it came from. Without a category
// the category rungs are skipped and resolution degrades straight to the
// company-level candidates.
func ResolveAccount(role domain.AccountRole, cat *domain.ProductCategory, co *domain.CompanySettings) (domain.ResolvedAccount, bool) {
	for _, cand := range resolutionLadders[role] {
		if cat == nil && cand.source == domain.SourceCategory {
			continue
		}
		if id := cand.pick(cat, co); id != "" {
			return domain.ResolvedAccount{AccountID: id, Source: cand.source}, true
		}
	}
	return domain.ResolvedAccount{}, false
}

// ResolveAccountSet resolves all requested roles at once. When any role
// cannot be satisfied it fails with a single ConfigurationMissingError
// naming the category and every missing role, so the caller surfaces the
// full gap instead of the first one.
func ResolveAccountSet(roles []domain.AccountRole, cat *domain.ProductCategory, co *domain.CompanySettings) (domain.ResolvedAccountSet, error) {
	resolved := make(domain.ResolvedAccountSet, len(roles))
	var missing []string
	for _, role := range roles {
		acc, ok := ResolveAccount(role, cat, co)
		if !ok {
			missing = append(missing, string(role))
			continue
		}
		resolved[role] = acc
	}
	if len(missing) > 0 {
		var categoryName string
		if cat != nil {
			categoryName = cat.Name
		}
		return nil, &apperrors.ConfigurationMissingError{CategoryName: categoryName, Roles: missing}
	}
	return resolved, nil
}
