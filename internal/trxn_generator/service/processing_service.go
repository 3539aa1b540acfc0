package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aivl-fintrxn-generator/internal/domain/contribution"
	"github.com/aivl-fintrxn-generator/internal/domain/shared"
	"github.com/aivl-fintrxn-generator/internal/generator"
)

type ProcessingServiceImpl struct {
	generator *generator.Generator
	logger    *slog.Logger
}

func NewProcessingService(gen *generator.Generator, logger *slog.Logger) ProcessingService {
	return &ProcessingServiceImpl{
		generator: gen,
		logger:    logger,
	}
}

// ProcessHookEvent routes one hook notification into the generator. A pre
// event captures the before-state; a post event completes the session.
//
// Terminal outcomes (protocol violations, unresolved accounts, unsupported
// cases) are logged and acknowledged so the consumer commits the offset:
// retrying cannot fix them. Persistence failures propagate uncommitted; the
// host's redelivery is the retry policy.
func (s *ProcessingServiceImpl) ProcessHookEvent(ctx context.Context, event *shared.HookEvent) error {
	logger := s.logger
	if event.CorrelationID != "" {
		logger = s.logger.With("correlation_id", event.CorrelationID)
	}

	logger.Info("Processing hook event",
		"event_id", event.EventID.String(),
		"phase", string(event.Phase),
		"operation", string(event.Operation),
		"subject_id", event.SubjectID,
	)

	switch event.Phase {
	case shared.HookPhasePre:
		s.generator.Begin(ctx, event.Operation, event.SubjectID, event.CorrelationID, contribution.FieldSet(event.Values))
		return nil

	case shared.HookPhasePost:
		err := s.generator.Complete(ctx, event.Operation, event.SubjectID, event.CorrelationID, contribution.FieldSet(event.Values))
		if err == nil {
			return nil
		}

		if errors.Is(err, generator.PersistenceError{}) {
			logger.Error("Posting persistence failed, event will be redelivered",
				"event_id", event.EventID.String(),
				"subject_id", event.SubjectID,
				"error", err,
			)
			return err
		}

		// Everything else is terminal for this event: the error taxonomy has
		// already been logged per case by the generator with subject id and
		// case label.
		logger.Warn("Hook event completed with terminal errors",
			"event_id", event.EventID.String(),
			"subject_id", event.SubjectID,
			"error", err,
		)
		return nil

	default:
		logger.Error("Unknown hook phase, dropping event",
			"event_id", event.EventID.String(),
			"phase", string(event.Phase),
		)
		return nil
	}
}
