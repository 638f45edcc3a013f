package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/azsoft/erp_accounting_backend/internal/apperrors"
	"github.com/azsoft/erp_accounting_backend/internal/core/domain"
	portsrepo "github.com/azsoft/erp_accounting_backend/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// ProductionService owns the order-completion hook. When the company enables
// auto-posting, finishing an order also posts the report-as-finished entry
// moving the finished-goods value out of WIP.
type ProductionService struct {
	BaseService
	txManager  portsrepo.TransactionManager
	mfgRepo    portsrepo.ManufacturingRepository
	configRepo portsrepo.ConfigurationRepository
	ledger     *LedgerService
}

// NewProductionService creates a ProductionService.
func NewProductionService(txManager portsrepo.TransactionManager, mfgRepo portsrepo.ManufacturingRepository, configRepo portsrepo.ConfigurationRepository, ledger *LedgerService) *ProductionService {
	return &ProductionService{
		txManager:  txManager,
		mfgRepo:    mfgRepo,
		configRepo: configRepo,
		ledger:     ledger,
	}
}

// MarkDone completes a manufacturing order, posting the finished-goods
// receipt entry first when the company auto-posts on produce.
func (s *ProductionService) MarkDone(ctx context.Context, orderID string, userID string) (*domain.ManufacturingOrder, error) {
	order, err := s.mfgRepo.FindOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	switch order.State {
	case domain.ProductionDone:
		return nil, fmt.Errorf("%w: order %s is already done", apperrors.ErrConflict, order.Reference)
	case domain.ProductionCancelled:
		return nil, fmt.Errorf("%w: order %s is cancelled", apperrors.ErrConflict, order.Reference)
	}

	settings, err := s.configRepo.FindCompanySettings(ctx, order.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("finding company settings for %s: %w", order.CompanyID, err)
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		_ = s.txManager.Rollback(ctx, tx)
	}()

	if settings.AutoPostOnProduce {
		category, err := s.configRepo.FindCategoryByID(ctx, order.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("finding product category %s: %w", order.CategoryID, err)
		}
		lines, err := s.completionLines(ctx, order, category, settings)
		if err != nil {
			return nil, err
		}
		if len(lines) > 0 {
			journal, err := s.ledger.ResolveDefaultJournal(ctx, category, settings, order.CompanyID)
			if err != nil {
				return nil, err
			}
			draft := domain.EntryDraft{
				JournalID: journal.JournalID,
				Date:      time.Now(),
				Reference: order.Reference,
				CompanyID: order.CompanyID,
				Lines:     lines,
			}
			entry, err := s.ledger.CreateAndPostTx(ctx, tx, draft, userID)
			if err != nil {
				return nil, err
			}
			if err := s.mfgRepo.LinkEntryToOrderTx(ctx, tx, orderID, entry.EntryID); err != nil {
				return nil, fmt.Errorf("linking entry to order %s: %w", orderID, err)
			}
			s.LogInfo(ctx, "production completion entry posted",
				slog.String("order_id", orderID),
				slog.String("entry_id", entry.EntryID),
				slog.Int("lines", len(lines)))
		}
	}

	if err := s.mfgRepo.UpdateOrderStateTx(ctx, tx, orderID, domain.ProductionDone, userID); err != nil {
		return nil, fmt.Errorf("updating order state: %w", err)
	}
	if err := s.txManager.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	order.State = domain.ProductionDone
	order.LastUpdatedAt = time.Now()
	order.LastUpdatedBy = userID
	return order, nil
}

// ListOrderEntries returns the journal entries linked to an order.
func (s *ProductionService) ListOrderEntries(ctx context.Context, orderID string) ([]domain.JournalEntry, error) {
	if _, err := s.mfgRepo.FindOrderByID(ctx, orderID); err != nil {
		return nil, err
	}
	entryIDs, err := s.mfgRepo.FindEntryIDsByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("finding entries of order %s: %w", orderID, err)
	}
	entries := make([]domain.JournalEntry, 0, len(entryIDs))
	for _, entryID := range entryIDs {
		entry, err := s.ledger.GetEntry(ctx, entryID)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, nil
}

// completionLines builds the legs of the order-completion entry. Consumed
// components are credited out of each component category's raw-material
// account and debited into the finished category's WIP account; the finished
// goods value then moves from WIP into the report-as-finished account. Both
// legs share one entry so the order's cost flow posts atomically.
func (s *ProductionService) completionLines(ctx context.Context, order *domain.ManufacturingOrder, category *domain.ProductCategory, settings *domain.CompanySettings) ([]domain.EntryLine, error) {
	groups, rawTotal, err := s.rawConsumption(ctx, order, settings)
	if err != nil {
		return nil, err
	}
	finishedValue, err := s.finishedValue(ctx, order.OrderID)
	if err != nil {
		return nil, err
	}
	if !rawTotal.IsPositive() && !finishedValue.IsPositive() {
		return nil, nil
	}

	wip, ok := ResolveAccount(domain.RoleWip, category, settings)
	if !ok {
		return nil, &apperrors.ConfigurationMissingError{CategoryName: category.Name, Roles: []string{string(domain.RoleWip)}}
	}

	var lines []domain.EntryLine
	for _, group := range groups {
		lines = append(lines, domain.EntryLine{
			AccountID: group.accountID,
			Label:     "Raw material consumption " + order.Reference,
			Debit:     decimal.Zero,
			Credit:    group.amount,
		})
	}
	if rawTotal.IsPositive() {
		lines = append(lines, domain.EntryLine{
			AccountID: wip.AccountID,
			Label:     "WIP material consumption " + order.Reference,
			Debit:     rawTotal,
			Credit:    decimal.Zero,
		})
	}
	if finishedValue.IsPositive() {
		raf, ok := ResolveAccount(domain.RoleRaf, category, settings)
		if !ok {
			return nil, &apperrors.ConfigurationMissingError{CategoryName: category.Name, Roles: []string{string(domain.RoleRaf)}}
		}
		lines = append(lines,
			domain.EntryLine{AccountID: raf.AccountID, Label: "Report as finished " + order.Reference, Debit: finishedValue, Credit: decimal.Zero},
			domain.EntryLine{AccountID: wip.AccountID, Label: "WIP finished goods " + order.Reference, Debit: decimal.Zero, Credit: finishedValue},
		)
	}
	return lines, nil
}

// rawAccountGroup accumulates consumed-component cost per credited account.
type rawAccountGroup struct {
	accountID string
	amount    decimal.Decimal
}

// rawConsumption sums the picked raw move cost of an order, grouped by each
// component category's resolved raw-material account. Group order follows
// first appearance so the resulting lines are stable.
func (s *ProductionService) rawConsumption(ctx context.Context, order *domain.ManufacturingOrder, settings *domain.CompanySettings) ([]rawAccountGroup, decimal.Decimal, error) {
	rawLines, err := s.mfgRepo.FindRawMoveLines(ctx, []string{order.OrderID})
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("finding raw move lines: %w", err)
	}
	categories := make(map[string]*domain.ProductCategory)
	index := make(map[string]int)
	var groups []rawAccountGroup
	for i := range rawLines {
		line := &rawLines[i]
		if !line.Picked {
			continue
		}
		cost := line.Quantity.Mul(line.UnitPrice())
		if !cost.IsPositive() {
			continue
		}
		compCat, ok := categories[line.CategoryID]
		if !ok {
			compCat, err = s.configRepo.FindCategoryByID(ctx, line.CategoryID)
			if err != nil {
				return nil, decimal.Zero, fmt.Errorf("finding component category %s: %w", line.CategoryID, err)
			}
			categories[line.CategoryID] = compCat
		}
		rm, ok := ResolveAccount(domain.RoleRawMaterial, compCat, settings)
		if !ok {
			return nil, decimal.Zero, &apperrors.ConfigurationMissingError{CategoryName: compCat.Name, Roles: []string{string(domain.RoleRawMaterial)}}
		}
		j, ok := index[rm.AccountID]
		if !ok {
			j = len(groups)
			index[rm.AccountID] = j
			groups = append(groups, rawAccountGroup{accountID: rm.AccountID})
		}
		groups[j].amount = groups[j].amount.Add(cost)
	}
	total := decimal.Zero
	for i := range groups {
		groups[i].amount = groups[i].amount.Round(2)
		total = total.Add(groups[i].amount)
	}
	return groups, total, nil
}

// finishedValue sums the done finished-goods move lines of an order.
func (s *ProductionService) finishedValue(ctx context.Context, orderID string) (decimal.Decimal, error) {
	lines, err := s.mfgRepo.FindFinishedMoveLines(ctx, orderID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("finding finished move lines: %w", err)
	}
	total := decimal.Zero
	for i := range lines {
		line := &lines[i]
		if !line.Done {
			continue
		}
		total = total.Add(line.Value())
	}
	return total.Round(2), nil
}
