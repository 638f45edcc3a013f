package services

import (
	"fmt"
	"time"

	"github.com/azsoft/erp_accounting_backend/internal/apperrors"
	"github.com/azsoft/erp_accounting_backend/internal/core/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// balanceEpsilon is the tolerance under which an entry counts as balanced.
// Sums are compared after rounding to currency precision, so a 0.02 gap
// must fail while sub-cent rounding noise passes.
var balanceEpsilon = decimal.NewFromFloat(0.01)

// BuildEntry validates a draft and materializes it into an unposted journal
// entry. Lines with zero debit and zero credit are dropped; a line carrying
// both a debit and a credit is rejected. The remaining lines must balance
// within balanceEpsilon. When the draft has no partner, the partner of the
// first line (if any) is promoted to the entry header.
func BuildEntry(draft domain.EntryDraft, createdBy string, now time.Time) (*domain.JournalEntry, error) {
	if draft.JournalID == "" {
		return nil, fmt.Errorf("%w: journalID is required", apperrors.ErrValidation)
	}
	if draft.Date.IsZero() {
		return nil, fmt.Errorf("%w: entry date is required", apperrors.ErrValidation)
	}

	entryID := uuid.NewString()
	kept := make([]domain.EntryLine, 0, len(draft.Lines))
	for i, line := range draft.Lines {
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			return nil, fmt.Errorf("%w: line %d has a negative amount", apperrors.ErrValidation, i+1)
		}
		if line.Debit.IsPositive() && line.Credit.IsPositive() {
			return nil, fmt.Errorf("%w: line %d carries both a debit and a credit", apperrors.ErrValidation, i+1)
		}
		if line.Debit.IsZero() && line.Credit.IsZero() {
			continue
		}
		if line.AccountID == "" {
			return nil, fmt.Errorf("%w: line %d has no account", apperrors.ErrValidation, i+1)
		}
		line.LineID = uuid.NewString()
		line.EntryID = entryID
		if line.Sequence == 0 {
			line.Sequence = (len(kept) + 1) * 10
		}
		if line.Date.IsZero() {
			line.Date = draft.Date
		}
		kept = append(kept, line)
	}

	if len(kept) < 2 {
		return nil, fmt.Errorf("%w: an entry needs at least two non-empty lines", apperrors.ErrValidation)
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, line := range kept {
		totalDebit = totalDebit.Add(line.Debit.Round(2))
		totalCredit = totalCredit.Add(line.Credit.Round(2))
	}
	if totalDebit.Sub(totalCredit).Abs().GreaterThanOrEqual(balanceEpsilon) {
		return nil, &apperrors.UnbalancedEntryError{TotalDebit: totalDebit, TotalCredit: totalCredit}
	}

	partnerID := draft.PartnerID
	if partnerID == "" {
		partnerID = kept[0].PartnerID
	}

	entry := &domain.JournalEntry{
		EntryID:    entryID,
		JournalID:  draft.JournalID,
		Date:       draft.Date,
		Reference:  draft.Reference,
		PartnerID:  partnerID,
		Status:     domain.EntryStatusDraft,
		Narration:  draft.Narration,
		ReversalOf: draft.ReversalOf,
		CompanyID:  draft.CompanyID,
		Lines:      kept,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     createdBy,
			LastUpdatedAt: now,
			LastUpdatedBy: createdBy,
		},
	}
	return entry, nil
}

// ReverseEntry produces the mirror draft of a posted entry at the given
// date: every line swaps its debit and credit, everything else carries over.
// Reversing the mirror again reproduces the original amounts.
func ReverseEntry(original *domain.JournalEntry, date time.Time, reference string) domain.EntryDraft {
	lines := make([]domain.EntryLine, 0, len(original.Lines))
	for _, line := range original.Lines {
		lines = append(lines, domain.EntryLine{
			Sequence:             line.Sequence,
			AccountID:            line.AccountID,
			PartnerID:            line.PartnerID,
			Label:                line.Label,
			Debit:                line.Credit,
			Credit:               line.Debit,
			Date:                 date,
			AnalyticDistribution: line.AnalyticDistribution,
		})
	}
	return domain.EntryDraft{
		JournalID:  original.JournalID,
		Date:       date,
		Reference:  reference,
		PartnerID:  original.PartnerID,
		ReversalOf: original.EntryID,
		CompanyID:  original.CompanyID,
		Lines:      lines,
	}
}
