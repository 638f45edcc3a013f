package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/azsoft/erp_accounting_backend/internal/apperrors"
	"github.com/azsoft/erp_accounting_backend/internal/core/domain"
	"github.com/azsoft/erp_accounting_backend/internal/core/services"
	"github.com/azsoft/erp_accounting_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type GiroServiceTestSuite struct {
	suite.Suite
	giroRepo   *MockGiroRepository
	ledgerRepo *MockLedgerRepository
	configRepo *MockConfigurationRepository
	seqRepo    *MockSequenceRepository
	service    *services.GiroService

	userID         string
	companyID      string
	bankJournal    domain.Journal
	generalJournal domain.Journal
	vendor         domain.Partner
	giroAccount    domain.Account
}

func TestGiroServiceTestSuite(t *testing.T) {
	suite.Run(t, new(GiroServiceTestSuite))
}

func (s *GiroServiceTestSuite) SetupTest() {
	s.giroRepo = new(MockGiroRepository)
	s.ledgerRepo = new(MockLedgerRepository)
	s.configRepo = new(MockConfigurationRepository)
	s.seqRepo = new(MockSequenceRepository)
	s.service = services.NewGiroService(s.giroRepo, s.configRepo, s.seqRepo, services.NewLedgerService(s.ledgerRepo))

	s.userID = uuid.NewString()
	s.companyID = uuid.NewString()
	s.bankJournal = domain.Journal{
		JournalID:        "journal-bank",
		Code:             "BNK1",
		Type:             domain.JournalBank,
		DefaultAccountID: "acc-bank",
		CompanyID:        s.companyID,
	}
	s.generalJournal = domain.Journal{
		JournalID: "journal-general",
		Code:      "GEN",
		Type:      domain.JournalGeneral,
		CompanyID: s.companyID,
	}
	s.vendor = domain.Partner{
		PartnerID:           "partner-vendor",
		Name:                "Acme Supplies",
		IsVendor:            true,
		PayableAccountID:    "acc-payable",
		ReceivableAccountID: "acc-receivable",
	}
	s.giroAccount = domain.Account{
		AccountID:   "acc-giro",
		Code:        "110500",
		Name:        "Giro Holding",
		AccountType: domain.Asset,
		CompanyID:   s.companyID,
	}
}

func (s *GiroServiceTestSuite) draftGiro() *domain.GiroInstrument {
	return &domain.GiroInstrument{
		GiroID:        "giro-1",
		Reference:     "GIRO/2026/00001",
		PartnerType:   domain.PartnerVendor,
		PartnerID:     s.vendor.PartnerID,
		Amount:        decimal.NewFromInt(100),
		Date:          time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		GiroAccountID: s.giroAccount.AccountID,
		BankJournalID: s.bankJournal.JournalID,
		State:         domain.GiroDraft,
		CompanyID:     s.companyID,
		CurrencyCode:  "IDR",
		Version:       1,
	}
}

func (s *GiroServiceTestSuite) TestCreateGiro() {
	ctx := context.Background()
	req := dto.CreateGiroRequest{
		PartnerType:   domain.PartnerVendor,
		PartnerID:     s.vendor.PartnerID,
		Amount:        decimal.NewFromInt(250),
		Date:          time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		GiroAccountID: s.giroAccount.AccountID,
		BankJournalID: s.bankJournal.JournalID,
		CompanyID:     s.companyID,
	}

	s.configRepo.On("FindAccountByID", ctx, s.giroAccount.AccountID).Return(&s.giroAccount, nil).Once()
	s.configRepo.On("FindPartnerByID", ctx, s.vendor.PartnerID).Return(&s.vendor, nil).Once()
	s.configRepo.On("FindCompanySettings", ctx, s.companyID).Return(&domain.CompanySettings{CompanyID: s.companyID, CurrencyCode: "IDR"}, nil).Once()
	s.seqRepo.On("NextReference", ctx, "GIRO").Return("GIRO/2026/00042", nil).Once()
	s.giroRepo.On("SaveGiro", ctx, mock.AnythingOfType("domain.GiroInstrument")).Return(nil).Once()

	giro, err := s.service.CreateGiro(ctx, req, s.userID)

	s.Require().NoError(err)
	s.Equal("GIRO/2026/00042", giro.Reference)
	s.Equal(domain.GiroDraft, giro.State)
	s.Equal("IDR", giro.CurrencyCode)
	s.Equal(int64(1), giro.Version)
	s.False(giro.IsCleared())
	s.False(giro.IsReversed())
	s.giroRepo.AssertExpectations(s.T())
	s.seqRepo.AssertExpectations(s.T())
}

func (s *GiroServiceTestSuite) TestCreateGiroRejectsControlAccount() {
	ctx := context.Background()
	control := s.giroAccount
	control.AccountType = domain.Payable
	req := dto.CreateGiroRequest{
		PartnerType:   domain.PartnerVendor,
		PartnerID:     s.vendor.PartnerID,
		Amount:        decimal.NewFromInt(10),
		Date:          time.Now(),
		GiroAccountID: control.AccountID,
		CompanyID:     s.companyID,
	}

	s.configRepo.On("FindAccountByID", ctx, control.AccountID).Return(&control, nil).Once()

	_, err := s.service.CreateGiro(ctx, req, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.giroRepo.AssertNotCalled(s.T(), "SaveGiro", mock.Anything, mock.Anything)
}

func (s *GiroServiceTestSuite) TestCreateGiroRejectsNonPositiveAmount() {
	ctx := context.Background()
	req := dto.CreateGiroRequest{
		PartnerType:   domain.PartnerVendor,
		PartnerID:     s.vendor.PartnerID,
		Amount:        decimal.Zero,
		GiroAccountID: s.giroAccount.AccountID,
		CompanyID:     s.companyID,
	}

	_, err := s.service.CreateGiro(ctx, req, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *GiroServiceTestSuite) TestConfirmPostsPrimaryEntry() {
	ctx := context.Background()
	giro := s.draftGiro()

	s.giroRepo.expectTx()
	s.giroRepo.On("FindGiroByIDForUpdateTx", ctx, nil, giro.GiroID).Return(giro, nil).Once()
	s.configRepo.On("FindPartnerByID", ctx, s.vendor.PartnerID).Return(&s.vendor, nil).Once()
	s.configRepo.On("FindCompanySettings", ctx, s.companyID).
		Return(&domain.CompanySettings{CompanyID: s.companyID, DefaultJournalID: s.generalJournal.JournalID}, nil).Once()
	s.ledgerRepo.On("FindJournalByID", ctx, s.generalJournal.JournalID).Return(&s.generalJournal, nil)

	var saved domain.JournalEntry
	s.ledgerRepo.On("SaveEntryTx", ctx, nil, mock.AnythingOfType("domain.JournalEntry")).
		Run(func(args mock.Arguments) { saved = args.Get(2).(domain.JournalEntry) }).
		Return(nil).Once()
	s.ledgerRepo.On("MarkEntryPostedTx", ctx, nil, mock.AnythingOfType("string"), s.userID).Return(nil).Once()
	s.giroRepo.On("UpdateGiroStateTx", ctx, nil, mock.MatchedBy(func(g domain.GiroInstrument) bool {
		return g.State == domain.GiroConfirmed && g.EntryID != ""
	})).Return(nil).Once()

	updated, err := s.service.Confirm(ctx, giro.GiroID, s.userID)

	s.Require().NoError(err)
	s.Equal(domain.GiroConfirmed, updated.State)
	s.Equal(saved.EntryID, updated.EntryID)

	// The recognition entry lands in the general journal; the bank journal
	// is only used when the giro clears.
	s.Equal(s.generalJournal.JournalID, saved.JournalID)
	s.Require().Len(saved.Lines, 2)
	s.Equal(s.giroAccount.AccountID, saved.Lines[0].AccountID)
	s.True(saved.Lines[0].Debit.Equal(decimal.NewFromInt(100)))
	s.True(saved.Lines[0].Credit.IsZero())
	s.Equal(s.vendor.PayableAccountID, saved.Lines[1].AccountID)
	s.True(saved.Lines[1].Credit.Equal(decimal.NewFromInt(100)))
	s.Equal(s.vendor.PartnerID, saved.Lines[1].PartnerID)
	s.True(saved.TotalDebit().Equal(saved.TotalCredit()))
	s.giroRepo.AssertExpectations(s.T())
	s.ledgerRepo.AssertExpectations(s.T())
}

func (s *GiroServiceTestSuite) TestConfirmOnConfirmedFails() {
	ctx := context.Background()
	giro := s.draftGiro()
	giro.State = domain.GiroConfirmed
	giro.EntryID = "entry-1"

	s.giroRepo.expectTxRollback()
	s.giroRepo.On("FindGiroByIDForUpdateTx", ctx, nil, giro.GiroID).Return(giro, nil).Once()

	_, err := s.service.Confirm(ctx, giro.GiroID, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrConflict)
	s.ledgerRepo.AssertNotCalled(s.T(), "SaveEntryTx", mock.Anything, mock.Anything, mock.Anything)
	s.giroRepo.AssertNotCalled(s.T(), "UpdateGiroStateTx", mock.Anything, mock.Anything, mock.Anything)
}

func (s *GiroServiceTestSuite) TestClearOnDraftFailsWithoutEntry() {
	ctx := context.Background()
	giro := s.draftGiro()

	s.giroRepo.expectTxRollback()
	s.giroRepo.On("FindGiroByIDForUpdateTx", ctx, nil, giro.GiroID).Return(giro, nil).Once()

	_, err := s.service.Clear(ctx, giro.GiroID, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrConflict)
	s.ledgerRepo.AssertNotCalled(s.T(), "SaveEntryTx", mock.Anything, mock.Anything, mock.Anything)
}

func (s *GiroServiceTestSuite) TestClearPostsClearingEntry() {
	ctx := context.Background()
	giro := s.draftGiro()
	giro.State = domain.GiroConfirmed
	giro.EntryID = "entry-primary"

	s.giroRepo.expectTx()
	s.giroRepo.On("FindGiroByIDForUpdateTx", ctx, nil, giro.GiroID).Return(giro, nil).Once()
	s.ledgerRepo.On("FindJournalByID", ctx, s.bankJournal.JournalID).Return(&s.bankJournal, nil)

	var saved domain.JournalEntry
	s.ledgerRepo.On("SaveEntryTx", ctx, nil, mock.AnythingOfType("domain.JournalEntry")).
		Run(func(args mock.Arguments) { saved = args.Get(2).(domain.JournalEntry) }).
		Return(nil).Once()
	s.ledgerRepo.On("MarkEntryPostedTx", ctx, nil, mock.AnythingOfType("string"), s.userID).Return(nil).Once()
	s.giroRepo.On("UpdateGiroStateTx", ctx, nil, mock.MatchedBy(func(g domain.GiroInstrument) bool {
		return g.State == domain.GiroCleared && g.ClearingEntryID != ""
	})).Return(nil).Once()

	updated, err := s.service.Clear(ctx, giro.GiroID, s.userID)

	s.Require().NoError(err)
	s.Equal(domain.GiroCleared, updated.State)
	s.True(updated.IsCleared())

	s.Require().Len(saved.Lines, 2)
	s.Equal("acc-bank", saved.Lines[0].AccountID)
	s.True(saved.Lines[0].Debit.Equal(giro.Amount))
	s.Equal(s.giroAccount.AccountID, saved.Lines[1].AccountID)
	s.True(saved.Lines[1].Credit.Equal(giro.Amount))
}

func (s *GiroServiceTestSuite) TestReversePrimarySwapsLines() {
	ctx := context.Background()
	giro := s.draftGiro()
	giro.State = domain.GiroConfirmed
	giro.EntryID = "entry-primary"

	primary := &domain.JournalEntry{
		EntryID:   "entry-primary",
		JournalID: s.bankJournal.JournalID,
		Reference: giro.Reference,
		Status:    domain.EntryStatusPosted,
		CompanyID: s.companyID,
		Lines: []domain.EntryLine{
			{AccountID: s.giroAccount.AccountID, Debit: decimal.NewFromInt(100)},
			{AccountID: s.vendor.PayableAccountID, PartnerID: s.vendor.PartnerID, Credit: decimal.NewFromInt(100)},
		},
	}

	s.giroRepo.expectTx()
	s.giroRepo.On("FindGiroByIDForUpdateTx", ctx, nil, giro.GiroID).Return(giro, nil).Once()
	s.ledgerRepo.On("FindEntryByID", ctx, "entry-primary").Return(primary, nil).Once()
	s.ledgerRepo.On("FindJournalByID", ctx, s.bankJournal.JournalID).Return(&s.bankJournal, nil)

	var saved domain.JournalEntry
	s.ledgerRepo.On("SaveEntryTx", ctx, nil, mock.AnythingOfType("domain.JournalEntry")).
		Run(func(args mock.Arguments) { saved = args.Get(2).(domain.JournalEntry) }).
		Return(nil).Once()
	s.ledgerRepo.On("MarkEntryPostedTx", ctx, nil, mock.AnythingOfType("string"), s.userID).Return(nil).Once()
	s.giroRepo.On("UpdateGiroStateTx", ctx, nil, mock.MatchedBy(func(g domain.GiroInstrument) bool {
		return g.State == domain.GiroReversed && g.ReverseEntryID != ""
	})).Return(nil).Once()

	updated, err := s.service.ReversePrimary(ctx, giro.GiroID, s.userID)

	s.Require().NoError(err)
	s.Equal(domain.GiroReversed, updated.State)
	s.True(updated.IsReversed())

	s.Require().Len(saved.Lines, 2)
	s.True(saved.Lines[0].Credit.Equal(decimal.NewFromInt(100)))
	s.True(saved.Lines[1].Debit.Equal(decimal.NewFromInt(100)))
	s.Equal("entry-primary", saved.ReversalOf)
}

func (s *GiroServiceTestSuite) TestReversePrimaryTwiceFails() {
	ctx := context.Background()
	giro := s.draftGiro()
	giro.State = domain.GiroCleared
	giro.EntryID = "entry-primary"
	giro.ClearingEntryID = "entry-clearing"
	giro.ReverseEntryID = "entry-reverse"

	s.giroRepo.expectTxRollback()
	s.giroRepo.On("FindGiroByIDForUpdateTx", ctx, nil, giro.GiroID).Return(giro, nil).Once()

	_, err := s.service.ReversePrimary(ctx, giro.GiroID, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.ledgerRepo.AssertNotCalled(s.T(), "SaveEntryTx", mock.Anything, mock.Anything, mock.Anything)
}

func (s *GiroServiceTestSuite) TestResetToDraftUnlinksDraftEntry() {
	ctx := context.Background()
	giro := s.draftGiro()
	giro.State = domain.GiroConfirmed
	giro.EntryID = "entry-primary"

	primary := &domain.JournalEntry{EntryID: "entry-primary", Status: domain.EntryStatusDraft}

	s.giroRepo.expectTx()
	s.giroRepo.On("FindGiroByIDForUpdateTx", ctx, nil, giro.GiroID).Return(giro, nil).Once()
	s.ledgerRepo.On("FindEntryByID", ctx, "entry-primary").Return(primary, nil).Once()
	s.ledgerRepo.On("DeleteEntryTx", ctx, nil, "entry-primary").Return(nil).Once()
	s.giroRepo.On("UpdateGiroStateTx", ctx, nil, mock.MatchedBy(func(g domain.GiroInstrument) bool {
		return g.State == domain.GiroDraft && g.EntryID == ""
	})).Return(nil).Once()

	updated, err := s.service.ResetToDraft(ctx, giro.GiroID, s.userID)

	s.Require().NoError(err)
	s.Equal(domain.GiroDraft, updated.State)
	s.Empty(updated.EntryID)
	s.ledgerRepo.AssertExpectations(s.T())
}

func (s *GiroServiceTestSuite) TestResetToDraftBlockedWhileEntryPosted() {
	ctx := context.Background()
	giro := s.draftGiro()
	giro.State = domain.GiroConfirmed
	giro.EntryID = "entry-primary"

	primary := &domain.JournalEntry{EntryID: "entry-primary", Reference: giro.Reference, Status: domain.EntryStatusPosted}

	s.giroRepo.expectTxRollback()
	s.giroRepo.On("FindGiroByIDForUpdateTx", ctx, nil, giro.GiroID).Return(giro, nil).Once()
	s.ledgerRepo.On("FindEntryByID", ctx, "entry-primary").Return(primary, nil).Once()

	_, err := s.service.ResetToDraft(ctx, giro.GiroID, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrConflict)
	s.ledgerRepo.AssertNotCalled(s.T(), "DeleteEntryTx", mock.Anything, mock.Anything, mock.Anything)
	s.giroRepo.AssertNotCalled(s.T(), "UpdateGiroStateTx", mock.Anything, mock.Anything, mock.Anything)
}

func (s *GiroServiceTestSuite) TestCancelBlockedWhileEntryPosted() {
	ctx := context.Background()
	giro := s.draftGiro()
	giro.State = domain.GiroConfirmed
	giro.EntryID = "entry-primary"

	primary := &domain.JournalEntry{EntryID: "entry-primary", Reference: giro.Reference, Status: domain.EntryStatusPosted}

	s.giroRepo.expectTxRollback()
	s.giroRepo.On("FindGiroByIDForUpdateTx", ctx, nil, giro.GiroID).Return(giro, nil).Once()
	s.ledgerRepo.On("FindEntryByID", ctx, "entry-primary").Return(primary, nil).Once()

	_, err := s.service.Cancel(ctx, giro.GiroID, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrConflict)
	s.ledgerRepo.AssertNotCalled(s.T(), "DeleteEntryTx", mock.Anything, mock.Anything, mock.Anything)
	s.giroRepo.AssertNotCalled(s.T(), "UpdateGiroStateTx", mock.Anything, mock.Anything, mock.Anything)
}

func (s *GiroServiceTestSuite) TestResetToDraftBlockedWhenCleared() {
	ctx := context.Background()
	giro := s.draftGiro()
	giro.State = domain.GiroConfirmed
	giro.EntryID = "entry-primary"
	giro.ClearingEntryID = "entry-clearing"

	s.giroRepo.expectTxRollback()
	s.giroRepo.On("FindGiroByIDForUpdateTx", ctx, nil, giro.GiroID).Return(giro, nil).Once()

	_, err := s.service.ResetToDraft(ctx, giro.GiroID, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.ledgerRepo.AssertNotCalled(s.T(), "DeleteEntryTx", mock.Anything, mock.Anything, mock.Anything)
}

func (s *GiroServiceTestSuite) TestCancelFromDraft() {
	ctx := context.Background()
	giro := s.draftGiro()

	s.giroRepo.expectTx()
	s.giroRepo.On("FindGiroByIDForUpdateTx", ctx, nil, giro.GiroID).Return(giro, nil).Once()
	s.giroRepo.On("UpdateGiroStateTx", ctx, nil, mock.MatchedBy(func(g domain.GiroInstrument) bool {
		return g.State == domain.GiroCancelled
	})).Return(nil).Once()

	updated, err := s.service.Cancel(ctx, giro.GiroID, s.userID)

	s.Require().NoError(err)
	s.Equal(domain.GiroCancelled, updated.State)
}

func (s *GiroServiceTestSuite) TestCancelFromCancelledFails() {
	ctx := context.Background()
	giro := s.draftGiro()
	giro.State = domain.GiroCancelled

	s.giroRepo.expectTxRollback()
	s.giroRepo.On("FindGiroByIDForUpdateTx", ctx, nil, giro.GiroID).Return(giro, nil).Once()

	_, err := s.service.Cancel(ctx, giro.GiroID, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrConflict)
}

func (s *GiroServiceTestSuite) TestDeleteGiroBlockedOnceConfirmed() {
	ctx := context.Background()
	giro := s.draftGiro()
	giro.State = domain.GiroConfirmed

	s.giroRepo.On("FindGiroByID", ctx, giro.GiroID).Return(giro, nil).Once()

	err := s.service.DeleteGiro(ctx, giro.GiroID, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrConflict)
	s.giroRepo.AssertNotCalled(s.T(), "DeleteGiro", mock.Anything, mock.Anything)
}

func (s *GiroServiceTestSuite) TestOpenLinkedEntry() {
	ctx := context.Background()
	giro := s.draftGiro()
	giro.State = domain.GiroConfirmed
	giro.EntryID = "entry-primary"
	entry := &domain.JournalEntry{EntryID: "entry-primary", Status: domain.EntryStatusPosted}

	s.giroRepo.On("FindGiroByID", ctx, giro.GiroID).Return(giro, nil).Once()
	s.ledgerRepo.On("FindEntryByID", ctx, "entry-primary").Return(entry, nil).Once()

	got, err := s.service.OpenLinkedEntry(ctx, giro.GiroID, "primary")

	s.Require().NoError(err)
	s.Equal("entry-primary", got.EntryID)
}

func (s *GiroServiceTestSuite) TestOpenLinkedEntryMissingLink() {
	ctx := context.Background()
	giro := s.draftGiro()

	s.giroRepo.On("FindGiroByID", ctx, giro.GiroID).Return(giro, nil).Once()

	_, err := s.service.OpenLinkedEntry(ctx, giro.GiroID, "clearing")

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrNotFound)
}
