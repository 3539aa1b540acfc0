package account

import (
	"context"
	"fmt"
)

// Repository defines financial-account lookup operations. Both lookups must
// match exactly one account; zero matches and multiple matches are distinct
// failures so callers can tell bad data from bad configuration.
type Repository interface {
	FindByIBAN(ctx context.Context, iban string) (*FinancialAccount, error)
	FindByAccountingCode(ctx context.Context, code string) (*FinancialAccount, error)
}

// ErrAccountNotFound indicates no account matched the lookup
type ErrAccountNotFound struct {
	Lookup string // "iban" or "accounting_code"
	Value  string
}

func (e ErrAccountNotFound) Error() string {
	return fmt.Sprintf("financial account not found by %s %q", e.Lookup, e.Value)
}

// Is implements the errors.Is interface for ErrAccountNotFound
func (e ErrAccountNotFound) Is(target error) bool {
	t, ok := target.(ErrAccountNotFound)
	if !ok {
		return false
	}
	if t.Lookup == "" && t.Value == "" {
		return true
	}
	return e.Lookup == t.Lookup && e.Value == t.Value
}

// ErrAmbiguousAccount indicates more than one account matched the lookup
type ErrAmbiguousAccount struct {
	Lookup  string
	Value   string
	Matches int
}

func (e ErrAmbiguousAccount) Error() string {
	return fmt.Sprintf("financial account lookup by %s %q matched %d accounts", e.Lookup, e.Value, e.Matches)
}

// Is implements the errors.Is interface for ErrAmbiguousAccount
func (e ErrAmbiguousAccount) Is(target error) bool {
	t, ok := target.(ErrAmbiguousAccount)
	if !ok {
		return false
	}
	if t.Lookup == "" && t.Value == "" {
		return true
	}
	return e.Lookup == t.Lookup && e.Value == t.Value
}
