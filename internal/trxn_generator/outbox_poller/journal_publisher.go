package outbox_poller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aivl-fintrxn-generator/internal/domain/outbox"
	"github.com/aivl-fintrxn-generator/internal/domain/posting"
	"github.com/aivl-fintrxn-generator/internal/domain/shared"
)

// JournalPublisher publishes staged outbox postings to the journal
type JournalPublisher interface {
	PublishToJournal(ctx context.Context, message *outbox.Message) error
}

// JournalPublisherImpl implements JournalPublisher
type JournalPublisherImpl struct {
	outboxRepo  outbox.Repository
	journalRepo posting.Repository
	logger      *slog.Logger
}

// NewJournalPublisher creates a new publisher
func NewJournalPublisher(
	outboxRepo outbox.Repository,
	journalRepo posting.Repository,
	logger *slog.Logger,
) JournalPublisher {
	return &JournalPublisherImpl{
		outboxRepo:  outboxRepo,
		journalRepo: journalRepo,
		logger:      logger,
	}
}

// PublishToJournal writes one staged posting into the journal and marks the
// outbox message processed. A posting already present in the journal counts
// as published; re-delivery is idempotent.
func (p *JournalPublisherImpl) PublishToJournal(ctx context.Context, message *outbox.Message) error {
	var stagedPosting posting.Posting
	if err := json.Unmarshal(message.Payload, &stagedPosting); err != nil {
		p.logger.Error("Failed to unmarshal posting from outbox payload",
			"outbox_id", message.ID, "posting_id", message.PostingID, "error", err,
		)
		if updateErr := p.outboxRepo.UpdateStatus(ctx, message.ID, shared.OutboxStatusFailedToPublish); updateErr != nil {
			p.logger.Error("Also failed to update outbox status to FAILED_TO_PUBLISH after unmarshal error", "outbox_id", message.ID, "update_error", updateErr)
		}
		return fmt.Errorf("unmarshal payload for outbox %d failed: %w", message.ID, err)
	}

	logger := p.logger
	if stagedPosting.CorrelationID != "" {
		logger = p.logger.With("correlation_id", stagedPosting.CorrelationID)
	}

	logger.Info("Attempting to publish outbox posting to journal", "outbox_id", message.ID, "posting_id", message.PostingID)

	existing, err := p.journalRepo.GetByID(ctx, stagedPosting.ID)
	if err != nil && !errors.Is(err, posting.ErrPostingNotFound{}) {
		logger.Error("Failed to check existing journal posting before publishing", "posting_id", stagedPosting.ID, "error", err)
		return fmt.Errorf("failed to check existing posting %s: %w", stagedPosting.ID, err)
	}

	if existing != nil {
		logger.Info("Posting already present in journal", "posting_id", stagedPosting.ID)
	} else {
		if err = p.journalRepo.Create(ctx, &stagedPosting); err != nil {
			logger.Error("Failed to create journal posting", "posting_id", stagedPosting.ID, "error", err)
			return fmt.Errorf("failed to create posting %s: %w", stagedPosting.ID, err)
		}
		logger.Info("Successfully created journal posting",
			"posting_id", stagedPosting.ID,
			"subject_id", stagedPosting.SubjectID,
			"case", string(stagedPosting.Case),
		)
	}

	// Mark outbox message as processed
	if err := p.outboxRepo.UpdateStatus(ctx, message.ID, shared.OutboxStatusProcessed); err != nil {
		logger.Error("Failed to update outbox message status to PROCESSED",
			"outbox_id", message.ID, "posting_id", message.PostingID, "error", err,
		)
		return fmt.Errorf("journal write for %s OK, but failed to mark outbox %d as PROCESSED: %w", message.PostingID, message.ID, err)
	}

	logger.Info("Outbox posting successfully processed and marked as PROCESSED", "outbox_id", message.ID, "posting_id", message.PostingID)
	return nil
}
