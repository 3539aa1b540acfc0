// Package postgres provides PostgreSQL implementations of the domain
// repositories backing posting derivation: financial-account lookups,
// campaign configuration, and the posting outbox.
package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aivl-fintrxn-generator/internal/domain/account"
	"github.com/aivl-fintrxn-generator/internal/platform/persistence"
)

// AccountRepository implements the account.Repository interface for PostgreSQL
type AccountRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewAccountRepository creates a new PostgreSQL financial-account repository
func NewAccountRepository(logger *slog.Logger, db *persistence.PostgresDB) account.Repository {
	return &AccountRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// FindByIBAN retrieves the active financial account whose name is the given
// IBAN. Zero matches and multiple matches are reported as distinct errors so
// the resolver can memoize the failure with a precise reason.
func (r *AccountRepository) FindByIBAN(ctx context.Context, iban string) (*account.FinancialAccount, error) {
	query := `
		SELECT id, name, accounting_code, account_type_code, is_active, created_at
		FROM financial_accounts
		WHERE name = $1 AND is_active = TRUE
	`

	return r.findOne(ctx, query, "iban", iban)
}

// FindByAccountingCode retrieves the active financial account with the given
// accounting code
func (r *AccountRepository) FindByAccountingCode(ctx context.Context, code string) (*account.FinancialAccount, error) {
	query := `
		SELECT id, name, accounting_code, account_type_code, is_active, created_at
		FROM financial_accounts
		WHERE accounting_code = $1 AND is_active = TRUE
	`

	return r.findOne(ctx, query, "accounting_code", code)
}

// findOne runs a lookup expected to match exactly one account. The scan
// collects every row so an ambiguous match surfaces with its count instead
// of silently returning the first hit.
func (r *AccountRepository) findOne(ctx context.Context, query, lookup, value string) (*account.FinancialAccount, error) {
	rows, err := r.querier.Query(ctx, query, value)
	if err != nil {
		r.logger.Error("Failed to query financial accounts", "lookup", lookup, "value", value, "error", err)
		return nil, fmt.Errorf("failed to query financial accounts by %s: %w", lookup, err)
	}
	defer rows.Close()

	var matches []*account.FinancialAccount
	for rows.Next() {
		var acc account.FinancialAccount
		err := rows.Scan(
			&acc.ID,
			&acc.Name,
			&acc.AccountingCode,
			&acc.AccountTypeCode,
			&acc.IsActive,
			&acc.CreatedAt,
		)
		if err != nil {
			r.logger.Error("Failed to scan financial account", "lookup", lookup, "value", value, "error", err)
			return nil, fmt.Errorf("failed to scan financial account: %w", err)
		}
		matches = append(matches, &acc)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over financial accounts", "lookup", lookup, "value", value, "error", err)
		return nil, fmt.Errorf("error iterating over financial accounts: %w", err)
	}

	switch len(matches) {
	case 0:
		return nil, account.ErrAccountNotFound{Lookup: lookup, Value: value}
	case 1:
		return matches[0], nil
	default:
		return nil, account.ErrAmbiguousAccount{Lookup: lookup, Value: value, Matches: len(matches)}
	}
}
