package posting

import (
	"context"

	"github.com/google/uuid"
)

// Repository manages the durable posting journal
type Repository interface {
	Create(ctx context.Context, p *Posting) error
	GetByID(ctx context.Context, id uuid.UUID) (*Posting, error)
	GetBySubjectID(ctx context.Context, subjectID int64, limit, offset int) ([]*Posting, error)
	CountBySubjectID(ctx context.Context, subjectID int64) (int64, error)
}

// ErrPostingNotFound indicates a missing journal posting
type ErrPostingNotFound struct {
	ID uuid.UUID
}

func (e ErrPostingNotFound) Error() string {
	return "posting not found: " + e.ID.String()
}

// Is implements the errors.Is interface for ErrPostingNotFound
func (e ErrPostingNotFound) Is(target error) bool {
	t, ok := target.(ErrPostingNotFound)
	if !ok {
		return false
	}
	// A zero target ID matches any ErrPostingNotFound
	if t.ID == uuid.Nil {
		return true
	}
	return e.ID == t.ID
}

// ErrDuplicatePosting indicates a posting id uniqueness violation
type ErrDuplicatePosting struct {
	ID uuid.UUID
}

func (e ErrDuplicatePosting) Error() string {
	return "duplicate posting: " + e.ID.String()
}

// Is implements the errors.Is interface for ErrDuplicatePosting
func (e ErrDuplicatePosting) Is(target error) bool {
	t, ok := target.(ErrDuplicatePosting)
	if !ok {
		return false
	}
	if t.ID == uuid.Nil {
		return true
	}
	return e.ID == t.ID
}
