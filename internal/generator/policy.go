package generator

import (
	"context"
	"log/slog"
	"time"

	"github.com/aivl-fintrxn-generator/internal/config"
	"github.com/aivl-fintrxn-generator/internal/domain/campaign"
	"github.com/aivl-fintrxn-generator/internal/domain/contribution"
	"github.com/aivl-fintrxn-generator/internal/domain/posting"
)

// Policy exposes the named predicates the classifier and deriver consult.
// Everything here is a table lookup over configuration resolved at startup;
// the one exception is HasExistingPostings, which asks the journal.
type Policy interface {
	IsCompletedStatus(status string) bool
	IsReturnedStatus(status string) bool
	IsNewRecordChange(changes contribution.ChangeSet) bool
	IsAccountRelevantChange(changes contribution.ChangeSet) bool
	IsAmountChange(changes contribution.ChangeSet) bool
	HasExistingPostings(ctx context.Context, state contribution.FieldSet) bool
	IncomingBankAccountField() string
	RefundBankAccountField() string
	ResolveAccountingCode(codes campaign.AccountingCodes, receiveDate time.Time) string
}

// ConfigPolicy implements Policy from the startup configuration tables
type ConfigPolicy struct {
	completed       map[string]struct{}
	returned        map[string]struct{}
	incomingField   string
	refundField     string
	accountRelevant []string
	amountFields    []string
	journal         posting.Repository
	logger          *slog.Logger
}

// NewPolicy builds a ConfigPolicy from the policy configuration. The journal
// backs the has-existing-postings predicate.
func NewPolicy(cfg *config.PolicyConfig, journal posting.Repository, logger *slog.Logger) *ConfigPolicy {
	return &ConfigPolicy{
		completed:       toSet(cfg.CompletedStatuses),
		returned:        toSet(cfg.ReturnedStatuses),
		incomingField:   cfg.IncomingBankAccountField,
		refundField:     cfg.RefundBankAccountField,
		accountRelevant: cfg.AccountRelevantFields,
		amountFields:    cfg.AmountFields,
		journal:         journal,
		logger:          logger,
	}
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// IsCompletedStatus reports whether the status means money has definitively arrived
func (p *ConfigPolicy) IsCompletedStatus(status string) bool {
	_, ok := p.completed[status]
	return ok
}

// IsReturnedStatus reports whether the status means the money went back to the donor
func (p *ConfigPolicy) IsReturnedStatus(status string) bool {
	_, ok := p.returned[status]
	return ok
}

// IsNewRecordChange reports whether the change-set represents a brand-new
// record: a record that just received its id has no prior economic event to
// reverse.
func (p *ConfigPolicy) IsNewRecordChange(changes contribution.ChangeSet) bool {
	return changes.Contains(contribution.FieldID)
}

// IsAccountRelevantChange reports whether a field that determines the target
// account changed.
func (p *ConfigPolicy) IsAccountRelevantChange(changes contribution.ChangeSet) bool {
	return changes.ContainsAny(p.accountRelevant)
}

// IsAmountChange reports whether any amount field changed
func (p *ConfigPolicy) IsAmountChange(changes contribution.ChangeSet) bool {
	return changes.ContainsAny(p.amountFields)
}

// HasExistingPostings reports whether the record already has journal
// postings. Journal errors are logged and treated as "no postings", which
// only suppresses a date-correction classification, never a money movement.
func (p *ConfigPolicy) HasExistingPostings(ctx context.Context, state contribution.FieldSet) bool {
	subjectID := state.Int64(contribution.FieldID)
	if subjectID == 0 {
		return false
	}
	count, err := p.journal.CountBySubjectID(ctx, subjectID)
	if err != nil {
		p.logger.Error("Failed to count existing postings", "subject_id", subjectID, "error", err)
		return false
	}
	return count > 0
}

// IncomingBankAccountField names the field holding the incoming IBAN
func (p *ConfigPolicy) IncomingBankAccountField() string {
	return p.incomingField
}

// RefundBankAccountField names the field holding the refund IBAN
func (p *ConfigPolicy) RefundBankAccountField() string {
	return p.refundField
}

// ResolveAccountingCode picks the acquisition-year code when the receive
// date falls inside the campaign's acquisition year, the following-years
// code otherwise.
func (p *ConfigPolicy) ResolveAccountingCode(codes campaign.AccountingCodes, receiveDate time.Time) string {
	if receiveDate.Year() == codes.AcquisitionYear {
		return codes.Acquisition
	}
	return codes.FollowingYears
}
