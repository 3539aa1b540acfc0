package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/aivl-fintrxn-generator/internal/domain/posting"
	"github.com/aivl-fintrxn-generator/internal/domain/shared"
)

// HookService defines the interface for announcing contribution hook
// notifications to the generator
type HookService interface {
	// Announce publishes a hook event for asynchronous processing.
	// Events of one subject are keyed so they stay in notification order.
	Announce(ctx context.Context, event *shared.HookEvent) error
}

// PostingService defines the interface for reading the posting journal
type PostingService interface {
	// GetPostingByID retrieves a posting by its ID.
	// Returns nil if the posting is not found
	GetPostingByID(ctx context.Context, id uuid.UUID) (*posting.Posting, error)

	// GetPostingsBySubjectID retrieves the paginated postings derived from
	// one contribution. Returns postings, total count, and any error
	GetPostingsBySubjectID(ctx context.Context, subjectID int64, page, perPage int) ([]*posting.Posting, int64, error)
}
