package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/aivl-fintrxn-generator/internal/domain/posting"
)

// PostingServiceImpl implements the PostingService interface
type PostingServiceImpl struct {
	journalRepo posting.Repository
	logger      *slog.Logger
}

// NewPostingService creates a new posting journal read service
func NewPostingService(logger *slog.Logger, journalRepo posting.Repository) PostingService {
	return &PostingServiceImpl{
		journalRepo: journalRepo,
		logger:      logger,
	}
}

// GetPostingByID retrieves a posting by its ID. Returns nil if not found
func (s *PostingServiceImpl) GetPostingByID(ctx context.Context, id uuid.UUID) (*posting.Posting, error) {
	res, err := s.journalRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, posting.ErrPostingNotFound{}) {
			s.logger.Info("Posting not found", "posting_id", id.String())
			return nil, nil
		}
		s.logger.Error("Failed to get posting by ID", "posting_id", id.String(), "error", err)
		return nil, err
	}
	return res, nil
}

// GetPostingsBySubjectID retrieves paginated postings for a contribution.
// Returns postings, total count, and any error
func (s *PostingServiceImpl) GetPostingsBySubjectID(ctx context.Context, subjectID int64, page, perPage int) ([]*posting.Posting, int64, error) {
	offset := (page - 1) * perPage

	postings, err := s.journalRepo.GetBySubjectID(ctx, subjectID, perPage, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.journalRepo.CountBySubjectID(ctx, subjectID)
	if err != nil {
		return nil, 0, err
	}

	return postings, total, nil
}
