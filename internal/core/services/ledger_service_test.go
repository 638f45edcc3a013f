package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/azsoft/erp_accounting_backend/internal/apperrors"
	"github.com/azsoft/erp_accounting_backend/internal/core/domain"
	"github.com/azsoft/erp_accounting_backend/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func balancedDraft(journalID string) domain.EntryDraft {
	return domain.EntryDraft{
		JournalID: journalID,
		Date:      time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		CompanyID: "co-1",
		Lines: []domain.EntryLine{
			{AccountID: "acc-a", Debit: decimal.NewFromInt(75)},
			{AccountID: "acc-b", Credit: decimal.NewFromInt(75)},
		},
	}
}

func TestCreateEntryTx_LockedJournalFailsWithPostingError(t *testing.T) {
	repo := new(MockLedgerRepository)
	svc := services.NewLedgerService(repo)
	ctx := context.Background()

	locked := &domain.Journal{JournalID: "j1", Code: "GEN", IsLocked: true}
	repo.On("FindJournalByID", ctx, "j1").Return(locked, nil).Once()

	_, err := svc.CreateEntryTx(ctx, nil, balancedDraft("j1"), "user-1")

	require.Error(t, err)
	var posting *apperrors.PostingError
	require.ErrorAs(t, err, &posting)
	assert.Contains(t, posting.Reason, "locked")
	repo.AssertNotCalled(t, "SaveEntryTx", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateAndPostTx_PostsInOneStep(t *testing.T) {
	repo := new(MockLedgerRepository)
	svc := services.NewLedgerService(repo)
	ctx := context.Background()

	repo.On("FindJournalByID", ctx, "j1").Return(&domain.Journal{JournalID: "j1", Code: "GEN"}, nil).Once()
	repo.On("SaveEntryTx", ctx, nil, mock.AnythingOfType("domain.JournalEntry")).Return(nil).Once()
	repo.On("MarkEntryPostedTx", ctx, nil, mock.AnythingOfType("string"), "user-1").Return(nil).Once()

	entry, err := svc.CreateAndPostTx(ctx, nil, balancedDraft("j1"), "user-1")

	require.NoError(t, err)
	assert.Equal(t, domain.EntryStatusPosted, entry.Status)
	repo.AssertExpectations(t)
}

func TestResolveDefaultJournal_ChainOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("category stock journal wins", func(t *testing.T) {
		repo := new(MockLedgerRepository)
		svc := services.NewLedgerService(repo)
		cat := &domain.ProductCategory{StockJournalID: "j-stock"}
		co := &domain.CompanySettings{DefaultJournalID: "j-default"}
		repo.On("FindJournalByID", ctx, "j-stock").Return(&domain.Journal{JournalID: "j-stock"}, nil).Once()

		journal, err := svc.ResolveDefaultJournal(ctx, cat, co, "co-1")

		require.NoError(t, err)
		assert.Equal(t, "j-stock", journal.JournalID)
	})

	t.Run("company default next", func(t *testing.T) {
		repo := new(MockLedgerRepository)
		svc := services.NewLedgerService(repo)
		co := &domain.CompanySettings{DefaultJournalID: "j-default"}
		repo.On("FindJournalByID", ctx, "j-default").Return(&domain.Journal{JournalID: "j-default"}, nil).Once()

		journal, err := svc.ResolveDefaultJournal(ctx, nil, co, "co-1")

		require.NoError(t, err)
		assert.Equal(t, "j-default", journal.JournalID)
	})

	t.Run("first general journal last", func(t *testing.T) {
		repo := new(MockLedgerRepository)
		svc := services.NewLedgerService(repo)
		repo.On("FindFirstGeneralJournal", ctx, "co-1").Return(&domain.Journal{JournalID: "j-gen"}, nil).Once()

		journal, err := svc.ResolveDefaultJournal(ctx, nil, &domain.CompanySettings{}, "co-1")

		require.NoError(t, err)
		assert.Equal(t, "j-gen", journal.JournalID)
	})

	t.Run("nothing configured fails", func(t *testing.T) {
		repo := new(MockLedgerRepository)
		svc := services.NewLedgerService(repo)
		repo.On("FindFirstGeneralJournal", ctx, "co-1").Return(nil, apperrors.ErrNotFound).Once()

		_, err := svc.ResolveDefaultJournal(ctx, nil, &domain.CompanySettings{}, "co-1")

		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})
}
