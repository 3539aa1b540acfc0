package service

import (
	"context"

	"github.com/aivl-fintrxn-generator/internal/domain/shared"
)

// ProcessingService defines the interface for processing contribution hook events.
type ProcessingService interface {
	ProcessHookEvent(ctx context.Context, event *shared.HookEvent) error
}
