package generator

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aivl-fintrxn-generator/internal/domain/contribution"
	"github.com/aivl-fintrxn-generator/internal/domain/posting"
)

// TransactionDeriver turns one classified case plus the record's states into
// the ledger postings that case implies.
type TransactionDeriver struct {
	resolver *AccountResolver
	policy   Policy
	logger   *slog.Logger
	now      func() time.Time
}

func NewTransactionDeriver(resolver *AccountResolver, policy Policy, logger *slog.Logger) *TransactionDeriver {
	return &TransactionDeriver{
		resolver: resolver,
		policy:   policy,
		logger:   logger,
		now:      time.Now,
	}
}

// Derive produces the postings for one case. Incoming and outgoing yield one
// posting, rebooking a symmetric pair, correction cases an
// UnsupportedCaseError. An account that cannot be resolved fails the whole
// derivation for the case; a posting is never produced with a missing
// account.
func (d *TransactionDeriver) Derive(ctx context.Context, c posting.Case, old, new contribution.FieldSet) ([]*posting.Posting, error) {
	switch c {
	case posting.CaseIncoming:
		return d.deriveIncoming(ctx, old, new)
	case posting.CaseOutgoing:
		return d.deriveOutgoing(ctx, old, new)
	case posting.CaseRebooking:
		return d.deriveRebooking(ctx, old, new)
	case posting.CaseAmountCorrection, posting.CaseReceiveDateCorrection, posting.CaseRefundDateCorrection:
		// Posting semantics for corrections are not finalized upstream.
		return nil, UnsupportedCaseError{Case: c}
	default:
		return nil, UnsupportedCaseError{Case: c}
	}
}

func (d *TransactionDeriver) deriveIncoming(ctx context.Context, old, new contribution.FieldSet) ([]*posting.Posting, error) {
	// The incoming IBAN may only be present on the captured before-state
	// when the update did not resend it.
	field := d.policy.IncomingBankAccountField()
	iban := new.String(field)
	if iban == "" {
		iban = old.String(field)
	}

	from, err := d.resolver.ByBankAccount(ctx, iban)
	if err != nil {
		return nil, err
	}
	to, err := d.resolver.ByCampaign(ctx, new)
	if err != nil {
		return nil, err
	}

	p := d.template(posting.CaseIncoming, new)
	p.FromAccountID = from
	p.ToAccountID = to
	return []*posting.Posting{p}, nil
}

func (d *TransactionDeriver) deriveOutgoing(ctx context.Context, old, new contribution.FieldSet) ([]*posting.Posting, error) {
	from, err := d.resolver.ByCampaign(ctx, old)
	if err != nil {
		return nil, err
	}
	to, err := d.resolver.ByBankAccount(ctx, new.String(d.policy.RefundBankAccountField()))
	if err != nil {
		return nil, err
	}

	p := d.template(posting.CaseOutgoing, new)
	p.FromAccountID = from
	p.ToAccountID = to
	return []*posting.Posting{p}, nil
}

func (d *TransactionDeriver) deriveRebooking(ctx context.Context, old, new contribution.FieldSet) ([]*posting.Posting, error) {
	from, err := d.resolver.ByCampaign(ctx, old)
	if err != nil {
		return nil, err
	}
	to, err := d.resolver.ByCampaign(ctx, new)
	if err != nil {
		return nil, err
	}

	// Double-entry pair: accounts swapped, amount negated, netting to zero
	// across both accounts.
	first := d.template(posting.CaseRebooking, new)
	first.FromAccountID = from
	first.ToAccountID = to

	second := d.template(posting.CaseRebooking, new)
	second.FromAccountID = to
	second.ToAccountID = from
	second.TotalAmount = -second.TotalAmount

	return []*posting.Posting{first, second}, nil
}

// template builds the account-less part of a posting from the record state.
// net_amount defaults to total_amount when the host did not supply it.
func (d *TransactionDeriver) template(c posting.Case, state contribution.FieldSet) *posting.Posting {
	netAmount := state.Float(contribution.FieldNetAmount)
	if state.Empty(contribution.FieldNetAmount) {
		netAmount = state.Float(contribution.FieldTotalAmount)
	}

	now := d.now()
	return &posting.Posting{
		ID:                  uuid.New(),
		SubjectID:           state.Int64(contribution.FieldID),
		Case:                c,
		TrxnDate:            now,
		TotalAmount:         state.Float(contribution.FieldTotalAmount),
		FeeAmount:           state.Float(contribution.FieldFeeAmount),
		NetAmount:           netAmount,
		Currency:            state.String(contribution.FieldCurrency),
		TrxnID:              state.String(contribution.FieldTrxnID),
		StatusID:            state.String(contribution.FieldStatusID),
		PaymentProcessorID:  state.String(contribution.FieldPaymentProcessorID),
		PaymentInstrumentID: state.String(contribution.FieldPaymentInstrumentID),
		CheckNumber:         state.String(contribution.FieldCheckNumber),
		CreatedAt:           now,
	}
}
