package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/azsoft/erp_accounting_backend/internal/apperrors"
	"github.com/azsoft/erp_accounting_backend/internal/core/domain"
	portsrepo "github.com/azsoft/erp_accounting_backend/internal/core/ports/repositories"
	"github.com/azsoft/erp_accounting_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const wipSequenceCode = "WIP"

// WipService implements the work-in-progress costing runs: snapshot the
// consumed-component and overhead cost of a set of manufacturing orders,
// preview the resulting lines, and post them as one balanced entry.
type WipService struct {
	BaseService
	wipRepo      portsrepo.WipRunRepositoryWithTx
	mfgRepo      portsrepo.ManufacturingRepository
	configRepo   portsrepo.ConfigurationRepository
	seqRepo      portsrepo.SequenceRepository
	ledger       *LedgerService
	runRetention time.Duration
}

// NewWipService creates a WipService. runRetention bounds how long unposted
// runs survive before the periodic purge removes them.
func NewWipService(wipRepo portsrepo.WipRunRepositoryWithTx, mfgRepo portsrepo.ManufacturingRepository, configRepo portsrepo.ConfigurationRepository, seqRepo portsrepo.SequenceRepository, ledger *LedgerService, runRetention time.Duration) *WipService {
	return &WipService{
		wipRepo:      wipRepo,
		mfgRepo:      mfgRepo,
		configRepo:   configRepo,
		seqRepo:      seqRepo,
		ledger:       ledger,
		runRetention: runRetention,
	}
}

// CreateRun validates the selected orders, computes the preview lines as of
// the run date, and stores the run in draft.
func (s *WipService) CreateRun(ctx context.Context, req dto.CreateWipRunRequest, userID string) (*domain.WipRun, error) {
	orders, err := s.loadEligibleOrders(ctx, req.OrderIDs, req.CompanyID)
	if err != nil {
		return nil, err
	}

	category, settings, err := s.loadCostingConfig(ctx, orders[0].CategoryID, req.CompanyID)
	if err != nil {
		return nil, err
	}

	journalID := req.JournalID
	if journalID == "" {
		journal, err := s.ledger.ResolveDefaultJournal(ctx, category, settings, req.CompanyID)
		if err != nil {
			return nil, err
		}
		journalID = journal.JournalID
	}

	reference := req.Reference
	if reference == "" {
		reference, err = s.seqRepo.NextReference(ctx, wipSequenceCode)
		if err != nil {
			return nil, fmt.Errorf("generating run reference: %w", err)
		}
	}

	reversalDate := req.Date.AddDate(0, 0, 1)
	if req.ReversalDate != nil {
		reversalDate = *req.ReversalDate
	}

	lines, err := s.computeLines(ctx, orders, req.Date, category, settings)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	run := domain.WipRun{
		RunID:        uuid.NewString(),
		Date:         req.Date,
		ReversalDate: reversalDate,
		JournalID:    journalID,
		Reference:    reference,
		OrderIDs:     req.OrderIDs,
		State:        domain.WipRunDraft,
		CompanyID:    req.CompanyID,
		Lines:        lines,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	for i := range run.Lines {
		run.Lines[i].RunID = run.RunID
	}
	if err := s.wipRepo.SaveRun(ctx, run); err != nil {
		return nil, fmt.Errorf("saving run: %w", err)
	}
	s.LogInfo(ctx, "wip run created",
		slog.String("run_id", run.RunID),
		slog.Int("orders", len(orders)),
		slog.Int("lines", len(lines)))
	return &run, nil
}

// GetRun retrieves a run including its preview lines.
func (s *WipService) GetRun(ctx context.Context, runID string) (*domain.WipRun, error) {
	return s.wipRepo.FindRunByID(ctx, runID)
}

// RefreshLines recomputes a draft run's lines from the current order state.
// Lines are replaced wholesale, never merged.
func (s *WipService) RefreshLines(ctx context.Context, runID string, userID string) (*domain.WipRun, error) {
	run, err := s.wipRepo.FindRunByID(ctx, runID)
	if err != nil {
		return nil, err
	}
	if run.State != domain.WipRunDraft {
		return nil, fmt.Errorf("%w: run %s is %s; only draft runs can be refreshed", apperrors.ErrConflict, run.Reference, run.State)
	}
	orders, err := s.loadEligibleOrders(ctx, run.OrderIDs, run.CompanyID)
	if err != nil {
		return nil, err
	}
	category, settings, err := s.loadCostingConfig(ctx, orders[0].CategoryID, run.CompanyID)
	if err != nil {
		return nil, err
	}
	lines, err := s.computeLines(ctx, orders, run.Date, category, settings)
	if err != nil {
		return nil, err
	}
	for i := range lines {
		lines[i].RunID = run.RunID
	}
	if err := s.wipRepo.ReplaceRunLines(ctx, run.RunID, lines); err != nil {
		return nil, fmt.Errorf("replacing run lines: %w", err)
	}
	run.Lines = lines
	s.LogDebug(ctx, "wip run lines refreshed", slog.String("run_id", run.RunID), slog.Int("lines", len(lines)))
	return run, nil
}

// Post freezes the run's lines into a posted journal entry.
func (s *WipService) Post(ctx context.Context, runID string, userID string) (*domain.WipRun, error) {
	return s.post(ctx, runID, userID, false)
}

// PostAndReverse posts the run and immediately posts the mirror entry dated
// at the run's reversal date.
func (s *WipService) PostAndReverse(ctx context.Context, runID string, userID string) (*domain.WipRun, error) {
	return s.post(ctx, runID, userID, true)
}

func (s *WipService) post(ctx context.Context, runID string, userID string, withReversal bool) (*domain.WipRun, error) {
	tx, err := s.wipRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		_ = s.wipRepo.Rollback(ctx, tx)
	}()

	run, err := s.wipRepo.FindRunByIDForUpdateTx(ctx, tx, runID)
	if err != nil {
		return nil, err
	}
	if run.State != domain.WipRunDraft {
		return nil, fmt.Errorf("%w: run %s is already %s", apperrors.ErrConflict, run.Reference, run.State)
	}
	if len(run.Lines) == 0 {
		return nil, fmt.Errorf("%w: run %s has no lines to post", apperrors.ErrValidation, run.Reference)
	}
	if err := s.checkLineAccounts(ctx, run); err != nil {
		return nil, err
	}

	entry, err := s.ledger.CreateAndPostTx(ctx, tx, s.entryDraftFromRun(run), userID)
	if err != nil {
		return nil, err
	}
	run.EntryID = entry.EntryID
	run.State = domain.WipRunPosted

	orders, err := s.mfgRepo.FindOrdersByIDs(ctx, run.OrderIDs)
	if err != nil {
		return nil, fmt.Errorf("finding orders of run %s: %w", run.RunID, err)
	}
	refs := make([]string, 0, len(orders))
	for _, order := range orders {
		if err := s.mfgRepo.LinkEntryToOrderTx(ctx, tx, order.OrderID, entry.EntryID); err != nil {
			return nil, fmt.Errorf("linking entry to order %s: %w", order.OrderID, err)
		}
		refs = append(refs, order.Reference)
	}
	if err := s.ledger.AppendNarrationTx(ctx, tx, entry.EntryID, "WIP accounting for "+strings.Join(refs, ", ")); err != nil {
		return nil, err
	}

	if withReversal {
		reversalDate := run.ReversalDate
		if reversalDate.IsZero() {
			reversalDate = run.Date.AddDate(0, 0, 1)
		}
		reversal, err := s.ledger.CreateAndPostTx(ctx, tx, ReverseEntry(entry, reversalDate, "REV/"+entry.Reference), userID)
		if err != nil {
			return nil, err
		}
		run.ReversalEntryID = reversal.EntryID
		run.State = domain.WipRunReversed
	}

	run.LastUpdatedAt = time.Now()
	run.LastUpdatedBy = userID
	if err := s.wipRepo.UpdateRunStateTx(ctx, tx, *run); err != nil {
		return nil, fmt.Errorf("updating run state: %w", err)
	}
	if err := s.wipRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	s.LogInfo(ctx, "wip run posted",
		slog.String("run_id", run.RunID),
		slog.String("entry_id", run.EntryID),
		slog.Bool("reversed", withReversal))
	return run, nil
}

// PurgeStaleRuns removes unposted runs older than the retention window.
func (s *WipService) PurgeStaleRuns(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-s.runRetention)
	removed, err := s.wipRepo.DeleteRunsBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purging stale runs: %w", err)
	}
	if removed > 0 {
		s.LogInfo(ctx, "stale wip runs purged", slog.Int64("count", removed))
	}
	return removed, nil
}

// loadEligibleOrders fetches the selected orders and checks they all belong
// to the requesting company and sit in a WIP-eligible state.
func (s *WipService) loadEligibleOrders(ctx context.Context, orderIDs []string, companyID string) ([]domain.ManufacturingOrder, error) {
	if len(orderIDs) == 0 {
		return nil, fmt.Errorf("%w: no manufacturing orders selected", apperrors.ErrValidation)
	}
	orders, err := s.mfgRepo.FindOrdersByIDs(ctx, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("finding manufacturing orders: %w", err)
	}
	if len(orders) != len(orderIDs) {
		return nil, fmt.Errorf("%w: one or more manufacturing orders do not exist", apperrors.ErrNotFound)
	}
	for _, order := range orders {
		if order.CompanyID != companyID {
			return nil, fmt.Errorf("%w: order %s belongs to another company", apperrors.ErrValidation, order.Reference)
		}
		if !order.State.WipEligible() {
			return nil, fmt.Errorf("%w: order %s is %s and cannot carry WIP", apperrors.ErrValidation, order.Reference, order.State)
		}
	}
	return orders, nil
}

// loadCostingConfig fetches the category and company settings driving
// account resolution. Batches spanning categories follow the first order's
// category; they are not split.
func (s *WipService) loadCostingConfig(ctx context.Context, categoryID string, companyID string) (*domain.ProductCategory, *domain.CompanySettings, error) {
	category, err := s.configRepo.FindCategoryByID(ctx, categoryID)
	if err != nil {
		return nil, nil, fmt.Errorf("finding product category %s: %w", categoryID, err)
	}
	settings, err := s.configRepo.FindCompanySettings(ctx, companyID)
	if err != nil {
		return nil, nil, fmt.Errorf("finding company settings for %s: %w", companyID, err)
	}
	return category, settings, nil
}

// computeLines snapshots component and overhead cost as of the cutoff date
// and emits at most three lines: credit stock valuation for components,
// credit overhead, debit WIP for the sum. Accounts are resolved before any
// amount is computed so a configuration gap surfaces on its own.
func (s *WipService) computeLines(ctx context.Context, orders []domain.ManufacturingOrder, asOf time.Time, category *domain.ProductCategory, settings *domain.CompanySettings) ([]domain.WipLine, error) {
	resolved, err := ResolveAccountSet([]domain.AccountRole{domain.RoleStockValuation, domain.RoleWip, domain.RoleOverhead}, category, settings)
	if err != nil {
		return nil, err
	}

	orderIDs := make([]string, 0, len(orders))
	for _, order := range orders {
		orderIDs = append(orderIDs, order.OrderID)
	}
	cutoff := endOfDay(asOf)

	rawLines, err := s.mfgRepo.FindRawMoveLines(ctx, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("finding raw move lines: %w", err)
	}
	component := decimal.Zero
	for i := range rawLines {
		line := &rawLines[i]
		if !line.Picked || line.ConsumedAt.After(cutoff) {
			continue
		}
		component = component.Add(line.Quantity.Mul(line.UnitPrice()))
	}

	workOrders, err := s.mfgRepo.FindWorkOrders(ctx, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("finding work orders: %w", err)
	}
	overhead := decimal.Zero
	for i := range workOrders {
		wo := &workOrders[i]
		if wo.State != domain.WorkOrderDone && wo.State != domain.WorkOrderProgress {
			continue
		}
		overhead = overhead.Add(wo.Cost())
	}

	component = component.Round(2)
	overhead = overhead.Round(2)
	total := component.Add(overhead)

	var backRef string
	if len(orders) == 1 {
		backRef = orders[0].OrderID
	}
	dateTag := asOf.Format("2006-01-02")

	var lines []domain.WipLine
	if component.IsPositive() {
		lines = append(lines, domain.WipLine{
			LineID:    uuid.NewString(),
			Sequence:  10,
			Label:     "WIP components as of " + dateTag,
			LineType:  domain.WipLineComponent,
			Debit:     decimal.Zero,
			Credit:    component,
			AccountID: resolved[domain.RoleStockValuation].AccountID,
			OrderID:   backRef,
		})
	}
	if overhead.IsPositive() {
		lines = append(lines, domain.WipLine{
			LineID:    uuid.NewString(),
			Sequence:  20,
			Label:     "WIP overhead as of " + dateTag,
			LineType:  domain.WipLineOverhead,
			Debit:     decimal.Zero,
			Credit:    overhead,
			AccountID: resolved[domain.RoleOverhead].AccountID,
			OrderID:   backRef,
		})
	}
	if total.IsPositive() {
		lines = append(lines, domain.WipLine{
			LineID:    uuid.NewString(),
			Sequence:  30,
			Label:     "Work in progress as of " + dateTag,
			LineType:  domain.WipLineWip,
			Debit:     total,
			Credit:    decimal.Zero,
			AccountID: resolved[domain.RoleWip].AccountID,
			OrderID:   backRef,
		})
	}
	return lines, nil
}

// checkLineAccounts verifies every run line posts to an existing account of
// the run's own company. Resolved accounts can drift after the preview was
// computed, so the check runs again at post time.
func (s *WipService) checkLineAccounts(ctx context.Context, run *domain.WipRun) error {
	accountIDs := make([]string, 0, len(run.Lines))
	seen := make(map[string]bool, len(run.Lines))
	for _, line := range run.Lines {
		if seen[line.AccountID] {
			continue
		}
		seen[line.AccountID] = true
		accountIDs = append(accountIDs, line.AccountID)
	}
	accounts, err := s.configRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return fmt.Errorf("finding line accounts of run %s: %w", run.Reference, err)
	}
	for _, line := range run.Lines {
		account, ok := accounts[line.AccountID]
		if !ok {
			return fmt.Errorf("%w: account %s on run %s does not exist", apperrors.ErrValidation, line.AccountID, run.Reference)
		}
		if account.CompanyID != "" && account.CompanyID != run.CompanyID {
			return fmt.Errorf("%w: account %s belongs to another company than run %s", apperrors.ErrValidation, account.Code, run.Reference)
		}
	}
	return nil
}

// entryDraftFromRun converts the run's preview lines into an entry draft.
func (s *WipService) entryDraftFromRun(run *domain.WipRun) domain.EntryDraft {
	lines := make([]domain.EntryLine, 0, len(run.Lines))
	for _, l := range run.Lines {
		lines = append(lines, domain.EntryLine{
			Sequence:             l.Sequence,
			AccountID:            l.AccountID,
			Label:                l.Label,
			Debit:                l.Debit,
			Credit:               l.Credit,
			Date:                 run.Date,
			AnalyticDistribution: l.AnalyticDistribution,
		})
	}
	return domain.EntryDraft{
		JournalID: run.JournalID,
		Date:      run.Date,
		Reference: run.Reference,
		CompanyID: run.CompanyID,
		Lines:     lines,
	}
}

// endOfDay normalizes a cutoff date to the last instant of its calendar day.
func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
