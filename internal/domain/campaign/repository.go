package campaign

import (
	"context"
	"strconv"
)

// Repository defines campaign lookup operations
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Campaign, error)
}

// ErrCampaignNotFound indicates a missing campaign
type ErrCampaignNotFound struct {
	ID int64
}

func (e ErrCampaignNotFound) Error() string {
	return "campaign not found: " + strconv.FormatInt(e.ID, 10)
}

// Is implements the errors.Is interface for ErrCampaignNotFound
func (e ErrCampaignNotFound) Is(target error) bool {
	t, ok := target.(ErrCampaignNotFound)
	if !ok {
		return false
	}
	if t.ID == 0 {
		return true
	}
	return e.ID == t.ID
}
