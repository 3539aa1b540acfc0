package generator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aivl-fintrxn-generator/internal/domain/account"
	"github.com/aivl-fintrxn-generator/internal/domain/contribution"
	"github.com/aivl-fintrxn-generator/internal/domain/posting"
)

func newTestDeriver(accounts *MockAccountRepository, campaigns *MockCampaignRepository) *TransactionDeriver {
	policy := NewPolicy(testPolicyConfig(), new(MockJournalRepository), newTestLogger())
	resolver := NewAccountResolver(accounts, campaigns, policy, newTestLogger())
	deriver := NewTransactionDeriver(resolver, policy, newTestLogger())
	deriver.now = func() time.Time { return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC) }
	return deriver
}

func completedState() contribution.FieldSet {
	return contribution.FieldSet{
		contribution.FieldID:          int64(42),
		contribution.FieldStatusID:    "1",
		contribution.FieldTotalAmount: "150.00",
		contribution.FieldFeeAmount:   "3.50",
		contribution.FieldNetAmount:   "146.50",
		contribution.FieldCurrency:    "EUR",
		contribution.FieldTrxnID:      "TRX-1001",
		contribution.FieldCampaignID:  int64(7),
		contribution.FieldReceiveDate: "2024-06-01",
		"incoming_bank_account":       "NL02ABNA0123456789",
	}
}

func TestTransactionDeriver_Incoming(t *testing.T) {
	ctx := context.Background()

	accounts := new(MockAccountRepository)
	accounts.On("FindByIBAN", ctx, "NL02ABNA0123456789").
		Return(&account.FinancialAccount{ID: 11}, nil).Once()
	accounts.On("FindByAccountingCode", ctx, "4100").
		Return(&account.FinancialAccount{ID: 21}, nil).Once()
	campaigns := new(MockCampaignRepository)
	campaigns.On("GetByID", ctx, int64(7)).Return(testCampaign(), nil).Once()

	deriver := newTestDeriver(accounts, campaigns)

	postings, err := deriver.Derive(ctx, posting.CaseIncoming, contribution.FieldSet{}, completedState())
	require.NoError(t, err)
	require.Len(t, postings, 1)

	p := postings[0]
	assert.Equal(t, int64(42), p.SubjectID)
	assert.Equal(t, posting.CaseIncoming, p.Case)
	assert.Equal(t, int64(11), p.FromAccountID)
	assert.Equal(t, int64(21), p.ToAccountID)
	assert.Equal(t, 150.00, p.TotalAmount)
	assert.Equal(t, 3.50, p.FeeAmount)
	assert.Equal(t, 146.50, p.NetAmount)
	assert.Equal(t, "EUR", p.Currency)
	assert.Equal(t, "TRX-1001", p.TrxnID)
	assert.Equal(t, "1", p.StatusID)
	assert.NotEqual(t, p.ID.String(), "00000000-0000-0000-0000-000000000000")
}

func TestTransactionDeriver_IncomingIBANFallsBackToOldState(t *testing.T) {
	ctx := context.Background()

	accounts := new(MockAccountRepository)
	accounts.On("FindByIBAN", ctx, "NL02ABNA0123456789").
		Return(&account.FinancialAccount{ID: 11}, nil).Once()
	accounts.On("FindByAccountingCode", ctx, "4100").
		Return(&account.FinancialAccount{ID: 21}, nil).Once()
	campaigns := new(MockCampaignRepository)
	campaigns.On("GetByID", ctx, int64(7)).Return(testCampaign(), nil).Once()

	deriver := newTestDeriver(accounts, campaigns)

	old := contribution.FieldSet{"incoming_bank_account": "NL02ABNA0123456789"}
	new := completedState()
	delete(new, "incoming_bank_account")

	postings, err := deriver.Derive(ctx, posting.CaseIncoming, old, new)
	require.NoError(t, err)
	assert.Equal(t, int64(11), postings[0].FromAccountID)
}

func TestTransactionDeriver_NetAmountDefaultsToTotal(t *testing.T) {
	ctx := context.Background()

	accounts := new(MockAccountRepository)
	accounts.On("FindByIBAN", ctx, "NL02ABNA0123456789").
		Return(&account.FinancialAccount{ID: 11}, nil).Once()
	accounts.On("FindByAccountingCode", ctx, "4100").
		Return(&account.FinancialAccount{ID: 21}, nil).Once()
	campaigns := new(MockCampaignRepository)
	campaigns.On("GetByID", ctx, int64(7)).Return(testCampaign(), nil).Once()

	deriver := newTestDeriver(accounts, campaigns)

	state := completedState()
	delete(state, contribution.FieldNetAmount)

	postings, err := deriver.Derive(ctx, posting.CaseIncoming, contribution.FieldSet{}, state)
	require.NoError(t, err)
	assert.Equal(t, 150.00, postings[0].NetAmount)
}

func TestTransactionDeriver_Outgoing(t *testing.T) {
	ctx := context.Background()

	accounts := new(MockAccountRepository)
	accounts.On("FindByAccountingCode", ctx, "4100").
		Return(&account.FinancialAccount{ID: 21}, nil).Once()
	accounts.On("FindByIBAN", ctx, "NL55REFUND123").
		Return(&account.FinancialAccount{ID: 12}, nil).Once()
	campaigns := new(MockCampaignRepository)
	campaigns.On("GetByID", ctx, int64(7)).Return(testCampaign(), nil).Once()

	deriver := newTestDeriver(accounts, campaigns)

	old := completedState()
	new := completedState()
	new[contribution.FieldStatusID] = "13"
	new["refund_bank_account"] = "NL55REFUND123"

	postings, err := deriver.Derive(ctx, posting.CaseOutgoing, old, new)
	require.NoError(t, err)
	require.Len(t, postings, 1)

	// Outgoing reverses the flow: campaign account pays the refund IBAN,
	// with the campaign resolved from the old state.
	assert.Equal(t, int64(21), postings[0].FromAccountID)
	assert.Equal(t, int64(12), postings[0].ToAccountID)
	assert.Equal(t, "13", postings[0].StatusID)
}

func TestTransactionDeriver_RebookingPair(t *testing.T) {
	ctx := context.Background()

	oldCampaign := testCampaign()
	newCampaign := testCampaign()
	newCampaign.ID = 9
	newCampaign.Codes.Acquisition = "4300"

	accounts := new(MockAccountRepository)
	accounts.On("FindByAccountingCode", ctx, "4100").
		Return(&account.FinancialAccount{ID: 21}, nil).Once()
	accounts.On("FindByAccountingCode", ctx, "4300").
		Return(&account.FinancialAccount{ID: 23}, nil).Once()
	campaigns := new(MockCampaignRepository)
	campaigns.On("GetByID", ctx, int64(7)).Return(oldCampaign, nil).Once()
	campaigns.On("GetByID", ctx, int64(9)).Return(newCampaign, nil).Once()

	deriver := newTestDeriver(accounts, campaigns)

	old := completedState()
	new := completedState()
	new[contribution.FieldCampaignID] = int64(9)

	postings, err := deriver.Derive(ctx, posting.CaseRebooking, old, new)
	require.NoError(t, err)
	require.Len(t, postings, 2)

	first, second := postings[0], postings[1]
	assert.Equal(t, int64(21), first.FromAccountID)
	assert.Equal(t, int64(23), first.ToAccountID)
	assert.Equal(t, 150.00, first.TotalAmount)

	// The pair must net to zero: accounts swapped, amount negated.
	assert.Equal(t, int64(23), second.FromAccountID)
	assert.Equal(t, int64(21), second.ToAccountID)
	assert.Equal(t, -150.00, second.TotalAmount)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestTransactionDeriver_UnresolvedAccountFailsTheCase(t *testing.T) {
	ctx := context.Background()

	accounts := new(MockAccountRepository)
	accounts.On("FindByIBAN", ctx, "NL02ABNA0123456789").
		Return(nil, account.ErrAccountNotFound{Lookup: "iban", Value: "NL02ABNA0123456789"}).Once()
	deriver := newTestDeriver(accounts, new(MockCampaignRepository))

	postings, err := deriver.Derive(ctx, posting.CaseIncoming, contribution.FieldSet{}, completedState())
	assert.Nil(t, postings)
	assert.ErrorIs(t, err, UnresolvedAccountError{})
}

func TestTransactionDeriver_CorrectionCasesUnsupported(t *testing.T) {
	ctx := context.Background()
	deriver := newTestDeriver(new(MockAccountRepository), new(MockCampaignRepository))

	for _, c := range []posting.Case{
		posting.CaseAmountCorrection,
		posting.CaseReceiveDateCorrection,
		posting.CaseRefundDateCorrection,
	} {
		t.Run(string(c), func(t *testing.T) {
			postings, err := deriver.Derive(ctx, c, contribution.FieldSet{}, completedState())
			assert.Nil(t, postings)
			assert.ErrorIs(t, err, UnsupportedCaseError{Case: c})
		})
	}
}
