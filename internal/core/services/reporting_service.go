package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/azsoft/erp_accounting_backend/internal/apperrors"
	"github.com/azsoft/erp_accounting_backend/internal/core/domain"
	portsrepo "github.com/azsoft/erp_accounting_backend/internal/core/ports/repositories"
)

// ReportingService produces trial balance reports over the ledger.
type ReportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
	configRepo    portsrepo.ConfigurationRepository
}

// NewReportingService creates a ReportingService.
func NewReportingService(reportingRepo portsrepo.ReportingRepository, configRepo portsrepo.ConfigurationRepository) *ReportingService {
	return &ReportingService{reportingRepo: reportingRepo, configRepo: configRepo}
}

// TrialBalance aggregates per-account totals over the period. The target
// filter defaults to posted entries; the show filter defaults to all
// accounts with the date range applied.
func (s *ReportingService) TrialBalance(ctx context.Context, params domain.TrialBalanceParams) ([]domain.TrialBalanceRow, error) {
	if params.CompanyID == "" {
		return nil, fmt.Errorf("%w: companyID is required", apperrors.ErrValidation)
	}
	if !params.DateFrom.IsZero() && !params.DateTo.IsZero() && params.DateTo.Before(params.DateFrom) {
		return nil, fmt.Errorf("%w: dateTo precedes dateFrom", apperrors.ErrValidation)
	}
	if params.Target == "" {
		params.Target = domain.TargetPosted
	}
	if params.Show == "" {
		params.Show = domain.ShowAll
	}

	rows, err := s.reportingRepo.GetTrialBalanceData(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("fetching trial balance data: %w", err)
	}

	filtered := make([]domain.TrialBalanceRow, 0, len(rows))
	for _, row := range rows {
		switch params.Show {
		case domain.ShowWithMovement:
			if row.Debit.IsZero() && row.Credit.IsZero() {
				continue
			}
		case domain.ShowNotZero:
			if row.Balance.IsZero() {
				continue
			}
		}
		filtered = append(filtered, row)
	}
	s.LogDebug(ctx, "trial balance computed",
		slog.String("company_id", params.CompanyID),
		slog.Int("rows", len(filtered)))
	return filtered, nil
}

// AccountHistory returns the entry lines behind one trial balance row,
// honoring the same period and target filters.
func (s *ReportingService) AccountHistory(ctx context.Context, accountID string, params domain.TrialBalanceParams) ([]domain.EntryLine, error) {
	if _, err := s.configRepo.FindAccountByID(ctx, accountID); err != nil {
		return nil, err
	}
	if params.Target == "" {
		params.Target = domain.TargetPosted
	}
	lines, err := s.reportingRepo.GetAccountHistory(ctx, accountID, params)
	if err != nil {
		return nil, fmt.Errorf("fetching account history: %w", err)
	}
	return lines, nil
}
