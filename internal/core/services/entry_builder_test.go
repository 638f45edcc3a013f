package services_test

import (
	"testing"
	"time"

	"github.com/azsoft/erp_accounting_backend/internal/apperrors"
	"github.com/azsoft/erp_accounting_backend/internal/core/domain"
	"github.com/azsoft/erp_accounting_backend/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDraft(lines ...domain.EntryLine) domain.EntryDraft {
	return domain.EntryDraft{
		JournalID: "journal-1",
		Date:      time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		Reference: "TEST/2026/00001",
		CompanyID: "company-1",
		Lines:     lines,
	}
}

func TestBuildEntry_Balanced(t *testing.T) {
	draft := testDraft(
		domain.EntryLine{AccountID: "acc-a", Debit: decimal.NewFromInt(100)},
		domain.EntryLine{AccountID: "acc-b", Credit: decimal.NewFromInt(100)},
	)

	entry, err := services.BuildEntry(draft, "user-1", time.Now())

	require.NoError(t, err)
	require.Len(t, entry.Lines, 2)
	assert.Equal(t, domain.EntryStatusDraft, entry.Status)
	assert.NotEmpty(t, entry.EntryID)
	assert.Equal(t, entry.EntryID, entry.Lines[0].EntryID)
	assert.True(t, entry.TotalDebit().Equal(entry.TotalCredit()))
	assert.Equal(t, 10, entry.Lines[0].Sequence)
	assert.Equal(t, 20, entry.Lines[1].Sequence)
}

func TestBuildEntry_DropsEmptyLines(t *testing.T) {
	draft := testDraft(
		domain.EntryLine{AccountID: "acc-a", Debit: decimal.NewFromInt(50)},
		domain.EntryLine{AccountID: "acc-zero"},
		domain.EntryLine{AccountID: "acc-b", Credit: decimal.NewFromInt(50)},
	)

	entry, err := services.BuildEntry(draft, "user-1", time.Now())

	require.NoError(t, err)
	require.Len(t, entry.Lines, 2)
	for _, line := range entry.Lines {
		assert.NotEqual(t, "acc-zero", line.AccountID)
	}
}

func TestBuildEntry_RejectsDebitAndCreditOnSameLine(t *testing.T) {
	draft := testDraft(
		domain.EntryLine{AccountID: "acc-a", Debit: decimal.NewFromInt(10), Credit: decimal.NewFromInt(10)},
		domain.EntryLine{AccountID: "acc-b", Credit: decimal.NewFromInt(10)},
	)

	_, err := services.BuildEntry(draft, "user-1", time.Now())

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestBuildEntry_RejectsImbalanceOfTwoCents(t *testing.T) {
	draft := testDraft(
		domain.EntryLine{AccountID: "acc-a", Debit: decimal.NewFromFloat(100.00)},
		domain.EntryLine{AccountID: "acc-b", Credit: decimal.NewFromFloat(99.98)},
	)

	_, err := services.BuildEntry(draft, "user-1", time.Now())

	require.Error(t, err)
	var unbalanced *apperrors.UnbalancedEntryError
	require.ErrorAs(t, err, &unbalanced)
	assert.True(t, unbalanced.TotalDebit.Equal(decimal.NewFromInt(100)))
	assert.True(t, unbalanced.TotalCredit.Equal(decimal.NewFromFloat(99.98)))
}

func TestBuildEntry_ToleratesSubCentRounding(t *testing.T) {
	draft := testDraft(
		domain.EntryLine{AccountID: "acc-a", Debit: decimal.NewFromFloat(33.333).Round(2)},
		domain.EntryLine{AccountID: "acc-b", Debit: decimal.NewFromFloat(66.667).Round(2)},
		domain.EntryLine{AccountID: "acc-c", Credit: decimal.NewFromFloat(100.00)},
	)

	_, err := services.BuildEntry(draft, "user-1", time.Now())

	assert.NoError(t, err)
}

func TestBuildEntry_PromotesFirstLinePartner(t *testing.T) {
	draft := testDraft(
		domain.EntryLine{AccountID: "acc-a", PartnerID: "partner-7", Debit: decimal.NewFromInt(20)},
		domain.EntryLine{AccountID: "acc-b", Credit: decimal.NewFromInt(20)},
	)

	entry, err := services.BuildEntry(draft, "user-1", time.Now())

	require.NoError(t, err)
	assert.Equal(t, "partner-7", entry.PartnerID)
}

func TestBuildEntry_RequiresTwoLines(t *testing.T) {
	draft := testDraft(
		domain.EntryLine{AccountID: "acc-a"},
	)

	_, err := services.BuildEntry(draft, "user-1", time.Now())

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestReverseEntry_SwapsDebitAndCredit(t *testing.T) {
	date := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	original := &domain.JournalEntry{
		EntryID:   "entry-1",
		JournalID: "journal-1",
		Date:      time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		Reference: "GIRO/2026/00001",
		PartnerID: "partner-1",
		CompanyID: "company-1",
		Lines: []domain.EntryLine{
			{AccountID: "acc-a", Debit: decimal.NewFromInt(100), Credit: decimal.Zero},
			{AccountID: "acc-b", PartnerID: "partner-1", Debit: decimal.Zero, Credit: decimal.NewFromInt(100)},
		},
	}

	reversed := services.ReverseEntry(original, date, "REV/GIRO/2026/00001")

	require.Len(t, reversed.Lines, 2)
	assert.Equal(t, date, reversed.Date)
	assert.Equal(t, "entry-1", reversed.ReversalOf)
	assert.True(t, reversed.Lines[0].Credit.Equal(decimal.NewFromInt(100)))
	assert.True(t, reversed.Lines[0].Debit.IsZero())
	assert.True(t, reversed.Lines[1].Debit.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, "acc-b", reversed.Lines[1].AccountID)
	assert.Equal(t, "partner-1", reversed.Lines[1].PartnerID)
}

func TestReverseEntry_DoubleReversalIsIdentityOnAmounts(t *testing.T) {
	original := &domain.JournalEntry{
		EntryID:   "entry-1",
		JournalID: "journal-1",
		Date:      time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		CompanyID: "company-1",
		Lines: []domain.EntryLine{
			{AccountID: "acc-a", Debit: decimal.NewFromFloat(42.50)},
			{AccountID: "acc-b", Credit: decimal.NewFromFloat(42.50)},
		},
	}

	once := services.ReverseEntry(original, original.Date, "REV")
	onceEntry, err := services.BuildEntry(once, "user-1", time.Now())
	require.NoError(t, err)
	twice := services.ReverseEntry(onceEntry, original.Date, "REV/REV")

	require.Len(t, twice.Lines, 2)
	for i := range original.Lines {
		assert.True(t, twice.Lines[i].Debit.Equal(original.Lines[i].Debit), "line %d debit", i)
		assert.True(t, twice.Lines[i].Credit.Equal(original.Lines[i].Credit), "line %d credit", i)
		assert.Equal(t, original.Lines[i].AccountID, twice.Lines[i].AccountID)
	}
}
