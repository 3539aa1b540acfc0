package service

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/aivl-fintrxn-generator/internal/domain/shared"
	"github.com/aivl-fintrxn-generator/internal/platform/messaging/producers"
)

// HookServiceImpl implements the HookService interface
type HookServiceImpl struct {
	producer producers.MessagePublisher
	logger   *slog.Logger
}

// NewHookService creates a new hook announcement service
func NewHookService(logger *slog.Logger, producer producers.MessagePublisher) HookService {
	return &HookServiceImpl{
		producer: producer,
		logger:   logger,
	}
}

// Announce publishes a hook event to the hook topic. The message key is the
// subject id so the pre and post notifications of one edit land on the same
// partition in order; a create's pre notification has no id yet, so it falls
// back to the correlation id the CRM sends with both notifications.
func (s *HookServiceImpl) Announce(ctx context.Context, event *shared.HookEvent) error {
	key := event.CorrelationID
	if event.SubjectID != 0 && event.Operation != shared.OperationCreate {
		key = strconv.FormatInt(event.SubjectID, 10)
	}

	if err := s.producer.Publish(ctx, key, event); err != nil {
		s.logger.Error("Failed to publish hook event",
			"event_id", event.EventID,
			"phase", string(event.Phase),
			"operation", string(event.Operation),
			"subject_id", event.SubjectID,
			"error", err,
		)
		return err
	}

	s.logger.Info("Hook event published",
		"event_id", event.EventID,
		"phase", string(event.Phase),
		"operation", string(event.Operation),
		"subject_id", event.SubjectID,
	)

	return nil
}
