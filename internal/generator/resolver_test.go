package generator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aivl-fintrxn-generator/internal/domain/account"
	"github.com/aivl-fintrxn-generator/internal/domain/campaign"
	"github.com/aivl-fintrxn-generator/internal/domain/contribution"
)

func newTestResolver(accounts *MockAccountRepository, campaigns *MockCampaignRepository) *AccountResolver {
	policy := NewPolicy(testPolicyConfig(), new(MockJournalRepository), newTestLogger())
	return NewAccountResolver(accounts, campaigns, policy, newTestLogger())
}

func testCampaign() *campaign.Campaign {
	return &campaign.Campaign{
		ID:    7,
		Title: "Spring Appeal",
		Codes: campaign.AccountingCodes{
			AcquisitionYear: 2024,
			Acquisition:     "4100",
			FollowingYears:  "4200",
		},
	}
}

func TestAccountResolver_ByBankAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves and caches", func(t *testing.T) {
		accounts := new(MockAccountRepository)
		accounts.On("FindByIBAN", ctx, "NL02ABNA0123456789").
			Return(&account.FinancialAccount{ID: 11, Name: "NL02ABNA0123456789"}, nil).Once()
		resolver := newTestResolver(accounts, new(MockCampaignRepository))

		id, err := resolver.ByBankAccount(ctx, "NL02ABNA0123456789")
		require.NoError(t, err)
		assert.Equal(t, int64(11), id)

		// Second resolution must come from the cache.
		id, err = resolver.ByBankAccount(ctx, "NL02ABNA0123456789")
		require.NoError(t, err)
		assert.Equal(t, int64(11), id)
		accounts.AssertNumberOfCalls(t, "FindByIBAN", 1)
	})

	t.Run("empty iban", func(t *testing.T) {
		resolver := newTestResolver(new(MockAccountRepository), new(MockCampaignRepository))

		_, err := resolver.ByBankAccount(ctx, "")
		assert.ErrorIs(t, err, UnresolvedAccountError{})
	})

	t.Run("missing account is memoized", func(t *testing.T) {
		accounts := new(MockAccountRepository)
		accounts.On("FindByIBAN", ctx, "NL99MISSING").
			Return(nil, account.ErrAccountNotFound{Lookup: "iban", Value: "NL99MISSING"}).Once()
		resolver := newTestResolver(accounts, new(MockCampaignRepository))

		_, err := resolver.ByBankAccount(ctx, "NL99MISSING")
		assert.ErrorIs(t, err, UnresolvedAccountError{})
		assert.ErrorIs(t, err, account.ErrAccountNotFound{})

		_, err = resolver.ByBankAccount(ctx, "NL99MISSING")
		assert.ErrorIs(t, err, UnresolvedAccountError{})
		accounts.AssertNumberOfCalls(t, "FindByIBAN", 1)
	})

	t.Run("store errors are not memoized", func(t *testing.T) {
		accounts := new(MockAccountRepository)
		accounts.On("FindByIBAN", ctx, "NL02ABNA0123456789").
			Return(nil, errors.New("connection refused")).Once()
		accounts.On("FindByIBAN", ctx, "NL02ABNA0123456789").
			Return(&account.FinancialAccount{ID: 11}, nil).Once()
		resolver := newTestResolver(accounts, new(MockCampaignRepository))

		_, err := resolver.ByBankAccount(ctx, "NL02ABNA0123456789")
		require.Error(t, err)
		assert.NotErrorIs(t, err, UnresolvedAccountError{})

		// The transient failure must not poison the cache.
		id, err := resolver.ByBankAccount(ctx, "NL02ABNA0123456789")
		require.NoError(t, err)
		assert.Equal(t, int64(11), id)
	})

	t.Run("ambiguous match", func(t *testing.T) {
		accounts := new(MockAccountRepository)
		accounts.On("FindByIBAN", ctx, "NL02ABNA0123456789").
			Return(nil, account.ErrAmbiguousAccount{Lookup: "iban", Value: "NL02ABNA0123456789", Matches: 2}).Once()
		resolver := newTestResolver(accounts, new(MockCampaignRepository))

		_, err := resolver.ByBankAccount(ctx, "NL02ABNA0123456789")
		assert.ErrorIs(t, err, UnresolvedAccountError{})
		assert.ErrorIs(t, err, account.ErrAmbiguousAccount{})
	})
}

func TestAccountResolver_ByCampaign(t *testing.T) {
	ctx := context.Background()

	state := contribution.FieldSet{
		contribution.FieldID:          int64(42),
		contribution.FieldCampaignID:  int64(7),
		contribution.FieldReceiveDate: "2024-06-01",
	}

	t.Run("acquisition year selects acquisition code", func(t *testing.T) {
		accounts := new(MockAccountRepository)
		accounts.On("FindByAccountingCode", ctx, "4100").
			Return(&account.FinancialAccount{ID: 21, AccountingCode: "4100"}, nil).Once()
		campaigns := new(MockCampaignRepository)
		campaigns.On("GetByID", ctx, int64(7)).Return(testCampaign(), nil).Once()
		resolver := newTestResolver(accounts, campaigns)

		id, err := resolver.ByCampaign(ctx, state)
		require.NoError(t, err)
		assert.Equal(t, int64(21), id)
	})

	t.Run("later year selects following-years code", func(t *testing.T) {
		accounts := new(MockAccountRepository)
		accounts.On("FindByAccountingCode", ctx, "4200").
			Return(&account.FinancialAccount{ID: 22, AccountingCode: "4200"}, nil).Once()
		campaigns := new(MockCampaignRepository)
		campaigns.On("GetByID", ctx, int64(7)).Return(testCampaign(), nil).Once()
		resolver := newTestResolver(accounts, campaigns)

		laterState := state.Clone()
		laterState[contribution.FieldReceiveDate] = "2025-06-01"

		id, err := resolver.ByCampaign(ctx, laterState)
		require.NoError(t, err)
		assert.Equal(t, int64(22), id)
	})

	t.Run("campaign lookup is cached across states", func(t *testing.T) {
		accounts := new(MockAccountRepository)
		accounts.On("FindByAccountingCode", ctx, "4100").
			Return(&account.FinancialAccount{ID: 21}, nil).Once()
		accounts.On("FindByAccountingCode", ctx, "4200").
			Return(&account.FinancialAccount{ID: 22}, nil).Once()
		campaigns := new(MockCampaignRepository)
		campaigns.On("GetByID", ctx, int64(7)).Return(testCampaign(), nil).Once()
		resolver := newTestResolver(accounts, campaigns)

		_, err := resolver.ByCampaign(ctx, state)
		require.NoError(t, err)

		laterState := state.Clone()
		laterState[contribution.FieldReceiveDate] = "2025-06-01"
		_, err = resolver.ByCampaign(ctx, laterState)
		require.NoError(t, err)

		campaigns.AssertNumberOfCalls(t, "GetByID", 1)
	})

	t.Run("no campaign id", func(t *testing.T) {
		resolver := newTestResolver(new(MockAccountRepository), new(MockCampaignRepository))

		_, err := resolver.ByCampaign(ctx, contribution.FieldSet{contribution.FieldID: int64(42)})
		assert.ErrorIs(t, err, UnresolvedAccountError{})
	})

	t.Run("missing campaign", func(t *testing.T) {
		campaigns := new(MockCampaignRepository)
		campaigns.On("GetByID", ctx, int64(7)).
			Return(nil, campaign.ErrCampaignNotFound{ID: 7}).Once()
		resolver := newTestResolver(new(MockAccountRepository), campaigns)

		_, err := resolver.ByCampaign(ctx, state)
		assert.ErrorIs(t, err, UnresolvedAccountError{})
		assert.ErrorIs(t, err, campaign.ErrCampaignNotFound{})
	})

	t.Run("incomplete accounting codes", func(t *testing.T) {
		incomplete := testCampaign()
		incomplete.Codes.FollowingYears = ""
		campaigns := new(MockCampaignRepository)
		campaigns.On("GetByID", ctx, int64(7)).Return(incomplete, nil).Once()
		resolver := newTestResolver(new(MockAccountRepository), campaigns)

		_, err := resolver.ByCampaign(ctx, state)
		assert.ErrorIs(t, err, UnresolvedAccountError{})
		assert.ErrorIs(t, err, campaign.ErrIncompleteAccountingCodes)
	})

	t.Run("unparseable receive date", func(t *testing.T) {
		campaigns := new(MockCampaignRepository)
		campaigns.On("GetByID", ctx, int64(7)).Return(testCampaign(), nil).Once()
		resolver := newTestResolver(new(MockAccountRepository), campaigns)

		badState := state.Clone()
		badState[contribution.FieldReceiveDate] = "someday"

		_, err := resolver.ByCampaign(ctx, badState)
		assert.ErrorIs(t, err, UnresolvedAccountError{})
	})
}
