package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aivl-fintrxn-generator/internal/domain/shared"
	"github.com/aivl-fintrxn-generator/internal/platform/messaging/producers"
	"github.com/aivl-fintrxn-generator/internal/trxn_generator/service"
)

// HookEventHandler handles incoming contribution hook events from Kafka
type HookEventHandler struct {
	processingService service.ProcessingService
	producer          producers.DeadLetterPublisher
	logger            *slog.Logger
}

// NewHookEventHandler creates a new handler
func NewHookEventHandler(
	logger *slog.Logger,
	processingService service.ProcessingService,
	producer producers.DeadLetterPublisher,
) *HookEventHandler {
	return &HookEventHandler{
		processingService: processingService,
		producer:          producer,
		logger:            logger,
	}
}

// HandleMessage processes Kafka messages
func (h *HookEventHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	var event shared.HookEvent
	if err := json.Unmarshal(value, &event); err != nil {
		unmarshalErrorMsg := "Failed to unmarshal hook event from Kafka message"
		h.logger.Error(unmarshalErrorMsg,
			"error", err,
			"message_key", string(key),
		)

		// Send to DLQ if available
		if h.producer != nil {
			dlqReason := fmt.Sprintf("%s: %s", unmarshalErrorMsg, err.Error())
			if dlqErr := h.producer.PublishToDLQ(ctx, string(key), value, dlqReason); dlqErr != nil {
				h.logger.Error("Failed to publish message to DLQ after unmarshal error",
					"dlq_error", dlqErr,
					"original_error", err,
					"message_key", string(key),
				)
			} else {
				h.logger.Info("Successfully published unprocessable message to DLQ", "message_key", string(key), "reason", dlqReason)
				// Message handled, commit offset
				return nil
			}
		}
		// Allow Kafka retries
		return fmt.Errorf("failed to unmarshal message value: %w", err)
	}

	// Add correlation ID to logger
	logger := h.logger
	if event.CorrelationID != "" {
		logger = h.logger.With("correlation_id", event.CorrelationID)
	}

	logger.Info("Received hook event for processing",
		"event_id", event.EventID.String(),
		"phase", string(event.Phase),
		"operation", string(event.Operation),
		"subject_id", event.SubjectID,
	)

	if err := h.processingService.ProcessHookEvent(ctx, &event); err != nil {
		logger.Error("Failed to process hook event",
			"event_id", event.EventID.String(),
			"subject_id", event.SubjectID,
			"error", err,
		)
		return fmt.Errorf("processing hook event %s failed: %w", event.EventID.String(), err)
	}

	logger.Info("Successfully processed hook event", "event_id", event.EventID.String())
	return nil // Success, commit offset
}
