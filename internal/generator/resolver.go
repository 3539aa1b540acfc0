package generator

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync"

	"github.com/aivl-fintrxn-generator/internal/domain/account"
	"github.com/aivl-fintrxn-generator/internal/domain/campaign"
	"github.com/aivl-fintrxn-generator/internal/domain/contribution"
)

// AccountResolver resolves financial-account ids either from a bank-account
// IBAN or from a contribution's campaign accounting-code classification.
//
// Every lookup is memoized for the lifetime of the resolver, keyed by entity
// kind and lookup parameters. Failures are memoized too, so one missing
// account does not hammer the store for every posting that needs it.
// The cache is safe for concurrent lookups; re-computation on a race is
// idempotent.
type AccountResolver struct {
	accounts  account.Repository
	campaigns campaign.Repository
	policy    Policy
	logger    *slog.Logger

	mu    sync.Mutex
	cache map[string]cacheEntry
}

type cacheEntry struct {
	accountID int64
	campaign  *campaign.Campaign
	err       error
}

func NewAccountResolver(accounts account.Repository, campaigns campaign.Repository, policy Policy, logger *slog.Logger) *AccountResolver {
	return &AccountResolver{
		accounts:  accounts,
		campaigns: campaigns,
		policy:    policy,
		logger:    logger,
		cache:     make(map[string]cacheEntry),
	}
}

// ByBankAccount resolves the financial account registered under the given
// IBAN. Zero or multiple matches fail with UnresolvedAccountError.
func (r *AccountResolver) ByBankAccount(ctx context.Context, iban string) (int64, error) {
	if iban == "" {
		return 0, UnresolvedAccountError{Lookup: "iban", Value: ""}
	}
	return r.cachedAccountLookup(ctx, "iban", iban, func(ctx context.Context) (*account.FinancialAccount, error) {
		return r.accounts.FindByIBAN(ctx, iban)
	})
}

// ByCampaign resolves the target financial account for a contribution state:
// the campaign's accounting-code classification selects a code by receive
// date, and the code selects the account. There is deliberately no fallback
// account; a contribution without a resolvable campaign fails derivation.
func (r *AccountResolver) ByCampaign(ctx context.Context, state contribution.FieldSet) (int64, error) {
	campaignID := state.Int64(contribution.FieldCampaignID)
	if campaignID == 0 {
		return 0, UnresolvedAccountError{Lookup: "campaign", Value: state.String(contribution.FieldCampaignID)}
	}

	cmp, err := r.cachedCampaignLookup(ctx, campaignID)
	if err != nil {
		return 0, err
	}

	receiveDate, err := state.Date(contribution.FieldReceiveDate)
	if err != nil {
		return 0, UnresolvedAccountError{
			Lookup: "campaign",
			Value:  strconv.FormatInt(campaignID, 10),
			Cause:  err,
		}
	}

	code := r.policy.ResolveAccountingCode(cmp.Codes, receiveDate)
	return r.cachedAccountLookup(ctx, "accounting_code", code, func(ctx context.Context) (*account.FinancialAccount, error) {
		return r.accounts.FindByAccountingCode(ctx, code)
	})
}

func (r *AccountResolver) cachedAccountLookup(ctx context.Context, lookup, value string, fetch func(ctx context.Context) (*account.FinancialAccount, error)) (int64, error) {
	key := "FinancialAccount\x00" + lookup + "\x00" + value

	r.mu.Lock()
	entry, ok := r.cache[key]
	r.mu.Unlock()
	if ok {
		return entry.accountID, entry.err
	}

	acc, err := fetch(ctx)
	var resolved int64
	if err != nil {
		// NotFound and AmbiguousMatch fail the same way; anything else is a
		// store error and is not memoized.
		if errors.Is(err, account.ErrAccountNotFound{}) || errors.Is(err, account.ErrAmbiguousAccount{}) {
			err = UnresolvedAccountError{Lookup: lookup, Value: value, Cause: err}
		} else {
			return 0, err
		}
	} else {
		resolved = acc.ID
	}

	r.mu.Lock()
	r.cache[key] = cacheEntry{accountID: resolved, err: err}
	r.mu.Unlock()

	return resolved, err
}

func (r *AccountResolver) cachedCampaignLookup(ctx context.Context, id int64) (*campaign.Campaign, error) {
	key := "Campaign\x00" + strconv.FormatInt(id, 10)

	r.mu.Lock()
	entry, ok := r.cache[key]
	r.mu.Unlock()
	if ok {
		return entry.campaign, entry.err
	}

	cmp, err := r.campaigns.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, campaign.ErrCampaignNotFound{}) {
			return nil, err
		}
		err = UnresolvedAccountError{Lookup: "campaign", Value: strconv.FormatInt(id, 10), Cause: err}
	} else if validateErr := cmp.Validate(); validateErr != nil {
		cmp = nil
		err = UnresolvedAccountError{Lookup: "campaign", Value: strconv.FormatInt(id, 10), Cause: validateErr}
	}

	r.mu.Lock()
	r.cache[key] = cacheEntry{campaign: cmp, err: err}
	r.mu.Unlock()

	return cmp, err
}
