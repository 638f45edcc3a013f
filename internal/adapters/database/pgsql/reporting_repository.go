package pgsql

import (
	"context"
	"fmt"

	"github.com/azsoft/erp_accounting_backend/internal/core/domain"
	portsrepo "github.com/azsoft/erp_accounting_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxReportingRepository runs the aggregated ledger queries behind reports.
type PgxReportingRepository struct {
	pool *pgxpool.Pool
}

// NewPgxReportingRepository creates a new reporting repository.
func NewPgxReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepository {
	return &PgxReportingRepository{pool: pool}
}

// GetTrialBalanceData returns per-account debit/credit sums over entry lines
// in the date range. Accounts without movement still appear with zero sums so
// the ALL filter can show them.
func (r *PgxReportingRepository) GetTrialBalanceData(ctx context.Context, params domain.TrialBalanceParams) ([]domain.TrialBalanceRow, error) {
	query := `
		SELECT a.account_id, a.code, a.name,
		       COALESCE(SUM(l.debit), 0) AS debit,
		       COALESCE(SUM(l.credit), 0) AS credit
		FROM accounts a
		LEFT JOIN journal_entry_lines l ON l.account_id = a.account_id
		LEFT JOIN journal_entries e ON e.entry_id = l.entry_id
		    AND e.entry_date >= $2 AND e.entry_date <= $3
		    AND ($4 = 'ALL' OR e.status = 'POSTED')
		WHERE a.company_id = $1 AND a.is_active
		GROUP BY a.account_id, a.code, a.name
		ORDER BY a.code;
	`
	rows, err := r.pool.Query(ctx, query, params.CompanyID, params.DateFrom, params.DateTo, string(params.Target))
	if err != nil {
		return nil, fmt.Errorf("failed to query trial balance: %w", err)
	}
	defer rows.Close()

	var result []domain.TrialBalanceRow
	for rows.Next() {
		var row domain.TrialBalanceRow
		if err := rows.Scan(&row.AccountID, &row.AccountCode, &row.AccountName, &row.Debit, &row.Credit); err != nil {
			return nil, fmt.Errorf("failed to scan trial balance row: %w", err)
		}
		row.Balance = row.Debit.Sub(row.Credit)
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trial balance rows: %w", err)
	}
	return result, nil
}

// GetAccountHistory returns the entry lines behind one trial balance row,
// ordered by entry date.
func (r *PgxReportingRepository) GetAccountHistory(ctx context.Context, accountID string, params domain.TrialBalanceParams) ([]domain.EntryLine, error) {
	query := `
		SELECT l.line_id, l.entry_id, l.sequence, l.account_id, l.partner_id, l.label, l.debit, l.credit, l.line_date
		FROM journal_entry_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE l.account_id = $1
		  AND e.company_id = $2
		  AND e.entry_date >= $3 AND e.entry_date <= $4
		  AND ($5 = 'ALL' OR e.status = 'POSTED')
		ORDER BY e.entry_date, l.entry_id, l.sequence;
	`
	rows, err := r.pool.Query(ctx, query, accountID, params.CompanyID, params.DateFrom, params.DateTo, string(params.Target))
	if err != nil {
		return nil, fmt.Errorf("failed to query history of account %s: %w", accountID, err)
	}
	defer rows.Close()

	var lines []domain.EntryLine
	for rows.Next() {
		var line domain.EntryLine
		var partnerID *string
		if err := rows.Scan(
			&line.LineID,
			&line.EntryID,
			&line.Sequence,
			&line.AccountID,
			&partnerID,
			&line.Label,
			&line.Debit,
			&line.Credit,
			&line.Date,
		); err != nil {
			return nil, fmt.Errorf("failed to scan account history line: %w", err)
		}
		if partnerID != nil {
			line.PartnerID = *partnerID
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate account history lines: %w", err)
	}
	return lines, nil
}
