package generator

import (
	"context"
	"log/slog"

	"github.com/aivl-fintrxn-generator/internal/domain/contribution"
	"github.com/aivl-fintrxn-generator/internal/domain/posting"
)

// CaseClassifier turns a record's old state, new state and change-set into
// an ordered list of accounting cases.
type CaseClassifier struct {
	policy Policy
	logger *slog.Logger
}

func NewCaseClassifier(policy Policy, logger *slog.Logger) *CaseClassifier {
	return &CaseClassifier{
		policy: policy,
		logger: logger,
	}
}

// Classify evaluates the decision policy. A status flip to or from completed
// dominates: it is the creation or reversal of the entire economic event, so
// any co-occurring account or amount change is already covered by the single
// incoming/outgoing posting and no other case is evaluated.
func (c *CaseClassifier) Classify(ctx context.Context, old, new contribution.FieldSet, changes contribution.ChangeSet) []posting.Case {
	newStatus := new.String(contribution.FieldStatusID)

	if changes.Contains(contribution.FieldStatusID) {
		oldStatus := old.String(contribution.FieldStatusID)
		c.logger.Debug("Contribution status changed",
			"subject_id", new.Int64(contribution.FieldID),
			"old_status", oldStatus,
			"new_status", newStatus,
		)

		if !c.policy.IsCompletedStatus(oldStatus) && c.policy.IsCompletedStatus(newStatus) {
			return []posting.Case{posting.CaseIncoming}
		}

		if c.policy.IsCompletedStatus(oldStatus) &&
			!c.policy.IsCompletedStatus(newStatus) &&
			!c.policy.IsNewRecordChange(changes) {
			return []posting.Case{posting.CaseOutgoing}
		}
	}

	// The remaining checks are independent, not mutually exclusive.
	var cases []posting.Case

	if c.policy.IsAccountRelevantChange(changes) {
		cases = append(cases, posting.CaseRebooking)
	}

	if c.policy.IsAmountChange(changes) {
		cases = append(cases, posting.CaseAmountCorrection)
	}

	// A receive date set on first creation is not a correction; it only
	// corrects something once postings exist.
	if changes.Contains(contribution.FieldReceiveDate) && c.policy.HasExistingPostings(ctx, new) {
		cases = append(cases, posting.CaseReceiveDateCorrection)
	}

	if changes.Contains(contribution.FieldRefundDate) && c.policy.IsReturnedStatus(newStatus) {
		cases = append(cases, posting.CaseRefundDateCorrection)
	}

	return cases
}
