package apperrors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that a precondition was not met or input data
// failed validation checks. The wrapping message names the violated rule.
var ErrValidation = errors.New("validation error")

// ErrConflict indicates that the operation conflicts with the current state
// of the resource (e.g. an illegal lifecycle transition).
var ErrConflict = errors.New("state conflict")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// ConfigurationMissingError is returned by account resolution when no account
// could be found for one or more roles. It names the product category and the
// missing role(s) so the user knows exactly what to configure.
type ConfigurationMissingError struct {
	CategoryName string
	Roles        []string
}

func (e *ConfigurationMissingError) Error() string {
	category := e.CategoryName
	if category == "" {
		category = "(no category)"
	}
	return fmt.Sprintf("no account configured for role(s) %s on product category %s",
		strings.Join(e.Roles, ", "), category)
}

func (e *ConfigurationMissingError) Is(target error) bool {
	return target == ErrValidation
}

// UnbalancedEntryError indicates that a journal entry's debit and credit
// totals differ by more than the allowed tolerance. Under normal operation it
// should never surface to a user: the builders refuse to emit unbalanced
// drafts, so seeing this points at a configuration or programming defect.
type UnbalancedEntryError struct {
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
}

func (e *UnbalancedEntryError) Error() string {
	return fmt.Sprintf("journal entry is not balanced: total debit %s, total credit %s",
		e.TotalDebit.String(), e.TotalCredit.String())
}

// PostingError wraps a failure reported by the ledger while posting an entry
// (e.g. locked journal). It is propagated verbatim to the caller.
type PostingError struct {
	EntryID string
	Reason  string
}

func (e *PostingError) Error() string {
	return fmt.Sprintf("failed to post entry %s: %s", e.EntryID, e.Reason)
}
