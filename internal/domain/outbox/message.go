package outbox

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/aivl-fintrxn-generator/internal/domain/posting"
	"github.com/aivl-fintrxn-generator/internal/domain/shared"
)

// Message stages a derived posting for reliable hand-off to the journal
type Message struct {
	ID            int64               `json:"id"`
	PostingID     uuid.UUID           `json:"posting_id"`
	SubjectID     int64               `json:"subject_id"`
	Payload       json.RawMessage     `json:"payload"`
	Status        shared.OutboxStatus `json:"status"`
	Attempts      int                 `json:"attempts"`
	CreatedAt     time.Time           `json:"created_at"`
	LastAttemptAt *time.Time          `json:"last_attempt_at,omitempty"`
}

func NewMessage(p *posting.Posting) (*Message, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}

	return &Message{
		PostingID: p.ID,
		SubjectID: p.SubjectID,
		Payload:   payload,
		Status:    shared.OutboxStatusPending,
		Attempts:  0,
		CreatedAt: time.Now(),
	}, nil
}

func (m *Message) IncrementAttempts() {
	m.Attempts++
	now := time.Now()
	m.LastAttemptAt = &now
}

func (m *Message) MarkAsProcessed() {
	m.Status = shared.OutboxStatusProcessed
	now := time.Now()
	m.LastAttemptAt = &now
}

func (m *Message) MarkAsFailed() {
	m.Status = shared.OutboxStatusFailedToPublish
	now := time.Now()
	m.LastAttemptAt = &now
}

// GetPosting extracts the staged posting from the payload
func (m *Message) GetPosting() (*posting.Posting, error) {
	var p posting.Posting
	if err := json.Unmarshal(m.Payload, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
