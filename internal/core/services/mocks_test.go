package services_test

import (
	"context"
	"time"

	"github.com/azsoft/erp_accounting_backend/internal/core/domain"
	portsrepo "github.com/azsoft/erp_accounting_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

// --- Mock transaction manager embedding ---

type mockTxManager struct {
	mock.Mock
}

func (m *mockTxManager) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *mockTxManager) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *mockTxManager) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// expectTx wires Begin/Commit/Rollback for one happy-path transaction.
func (m *mockTxManager) expectTx() {
	m.On("Begin", mock.Anything).Return(nil, nil)
	m.On("Commit", mock.Anything, nil).Return(nil)
	m.On("Rollback", mock.Anything, nil).Return(nil).Maybe()
}

// expectTxRollback wires Begin/Rollback for a transaction expected to abort.
func (m *mockTxManager) expectTxRollback() {
	m.On("Begin", mock.Anything).Return(nil, nil)
	m.On("Rollback", mock.Anything, nil).Return(nil)
}

// --- Mock GiroRepository ---

type MockGiroRepository struct {
	mockTxManager
}

var _ portsrepo.GiroRepositoryWithTx = (*MockGiroRepository)(nil)

func (m *MockGiroRepository) FindGiroByID(ctx context.Context, giroID string) (*domain.GiroInstrument, error) {
	args := m.Called(ctx, giroID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GiroInstrument), args.Error(1)
}

func (m *MockGiroRepository) FindGiroByIDForUpdateTx(ctx context.Context, tx pgx.Tx, giroID string) (*domain.GiroInstrument, error) {
	args := m.Called(ctx, tx, giroID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GiroInstrument), args.Error(1)
}

func (m *MockGiroRepository) ListGiros(ctx context.Context, companyID string, state *domain.GiroState, limit int, nextToken *string) ([]domain.GiroInstrument, *string, error) {
	args := m.Called(ctx, companyID, state, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var token *string
	if args.Get(1) != nil {
		v := args.Get(1).(string)
		token = &v
	}
	return args.Get(0).([]domain.GiroInstrument), token, args.Error(2)
}

func (m *MockGiroRepository) SaveGiro(ctx context.Context, giro domain.GiroInstrument) error {
	args := m.Called(ctx, giro)
	return args.Error(0)
}

func (m *MockGiroRepository) UpdateGiroStateTx(ctx context.Context, tx pgx.Tx, giro domain.GiroInstrument) error {
	args := m.Called(ctx, tx, giro)
	return args.Error(0)
}

func (m *MockGiroRepository) DeleteGiro(ctx context.Context, giroID string) error {
	args := m.Called(ctx, giroID)
	return args.Error(0)
}

// --- Mock LedgerRepository ---

type MockLedgerRepository struct {
	mockTxManager
}

var _ portsrepo.LedgerRepositoryWithTx = (*MockLedgerRepository)(nil)

func (m *MockLedgerRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockLedgerRepository) FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	args := m.Called(ctx, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockLedgerRepository) FindFirstGeneralJournal(ctx context.Context, companyID string) (*domain.Journal, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockLedgerRepository) SaveEntryTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error {
	args := m.Called(ctx, tx, entry)
	return args.Error(0)
}

func (m *MockLedgerRepository) MarkEntryPostedTx(ctx context.Context, tx pgx.Tx, entryID string, updatedBy string) error {
	args := m.Called(ctx, tx, entryID, updatedBy)
	return args.Error(0)
}

func (m *MockLedgerRepository) DeleteEntryTx(ctx context.Context, tx pgx.Tx, entryID string) error {
	args := m.Called(ctx, tx, entryID)
	return args.Error(0)
}

func (m *MockLedgerRepository) AppendNarrationTx(ctx context.Context, tx pgx.Tx, entryID string, text string) error {
	args := m.Called(ctx, tx, entryID, text)
	return args.Error(0)
}

// --- Mock ConfigurationRepository ---

type MockConfigurationRepository struct {
	mock.Mock
}

var _ portsrepo.ConfigurationRepository = (*MockConfigurationRepository)(nil)

func (m *MockConfigurationRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockConfigurationRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockConfigurationRepository) FindPartnerByID(ctx context.Context, partnerID string) (*domain.Partner, error) {
	args := m.Called(ctx, partnerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Partner), args.Error(1)
}

func (m *MockConfigurationRepository) FindCategoryByID(ctx context.Context, categoryID string) (*domain.ProductCategory, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProductCategory), args.Error(1)
}

func (m *MockConfigurationRepository) FindCompanySettings(ctx context.Context, companyID string) (*domain.CompanySettings, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CompanySettings), args.Error(1)
}

// --- Mock SequenceRepository ---

type MockSequenceRepository struct {
	mock.Mock
}

var _ portsrepo.SequenceRepository = (*MockSequenceRepository)(nil)

func (m *MockSequenceRepository) NextReference(ctx context.Context, code string) (string, error) {
	args := m.Called(ctx, code)
	return args.String(0), args.Error(1)
}

// --- Mock ManufacturingRepository ---

type MockManufacturingRepository struct {
	mock.Mock
}

var _ portsrepo.ManufacturingRepository = (*MockManufacturingRepository)(nil)

func (m *MockManufacturingRepository) FindOrderByID(ctx context.Context, orderID string) (*domain.ManufacturingOrder, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ManufacturingOrder), args.Error(1)
}

func (m *MockManufacturingRepository) FindOrdersByIDs(ctx context.Context, orderIDs []string) ([]domain.ManufacturingOrder, error) {
	args := m.Called(ctx, orderIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ManufacturingOrder), args.Error(1)
}

func (m *MockManufacturingRepository) FindRawMoveLines(ctx context.Context, orderIDs []string) ([]domain.RawMoveLine, error) {
	args := m.Called(ctx, orderIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RawMoveLine), args.Error(1)
}

func (m *MockManufacturingRepository) FindWorkOrders(ctx context.Context, orderIDs []string) ([]domain.WorkOrder, error) {
	args := m.Called(ctx, orderIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.WorkOrder), args.Error(1)
}

func (m *MockManufacturingRepository) FindFinishedMoveLines(ctx context.Context, orderID string) ([]domain.FinishedMoveLine, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FinishedMoveLine), args.Error(1)
}

func (m *MockManufacturingRepository) UpdateOrderStateTx(ctx context.Context, tx pgx.Tx, orderID string, state domain.ProductionState, updatedBy string) error {
	args := m.Called(ctx, tx, orderID, state, updatedBy)
	return args.Error(0)
}

func (m *MockManufacturingRepository) LinkEntryToOrderTx(ctx context.Context, tx pgx.Tx, orderID string, entryID string) error {
	args := m.Called(ctx, tx, orderID, entryID)
	return args.Error(0)
}

func (m *MockManufacturingRepository) FindEntryIDsByOrder(ctx context.Context, orderID string) ([]string, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// --- Mock WipRunRepository ---

type MockWipRunRepository struct {
	mockTxManager
}

var _ portsrepo.WipRunRepositoryWithTx = (*MockWipRunRepository)(nil)

func (m *MockWipRunRepository) SaveRun(ctx context.Context, run domain.WipRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockWipRunRepository) FindRunByID(ctx context.Context, runID string) (*domain.WipRun, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WipRun), args.Error(1)
}

func (m *MockWipRunRepository) FindRunByIDForUpdateTx(ctx context.Context, tx pgx.Tx, runID string) (*domain.WipRun, error) {
	args := m.Called(ctx, tx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WipRun), args.Error(1)
}

func (m *MockWipRunRepository) ReplaceRunLines(ctx context.Context, runID string, lines []domain.WipLine) error {
	args := m.Called(ctx, runID, lines)
	return args.Error(0)
}

func (m *MockWipRunRepository) UpdateRunStateTx(ctx context.Context, tx pgx.Tx, run domain.WipRun) error {
	args := m.Called(ctx, tx, run)
	return args.Error(0)
}

func (m *MockWipRunRepository) DeleteRunsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// --- Mock ReportingRepository ---

type MockReportingRepository struct {
	mock.Mock
}

var _ portsrepo.ReportingRepository = (*MockReportingRepository)(nil)

func (m *MockReportingRepository) GetTrialBalanceData(ctx context.Context, params domain.TrialBalanceParams) ([]domain.TrialBalanceRow, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TrialBalanceRow), args.Error(1)
}

func (m *MockReportingRepository) GetAccountHistory(ctx context.Context, accountID string, params domain.TrialBalanceParams) ([]domain.EntryLine, error) {
	args := m.Called(ctx, accountID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EntryLine), args.Error(1)
}
