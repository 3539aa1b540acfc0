package shared

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidOperation = errors.New("invalid hook operation")
	ErrInvalidHookPhase = errors.New("invalid hook phase")
)

// Operation identifies the host operation a hook pair belongs to
type Operation string

const (
	OperationCreate Operation = "create"
	OperationEdit   Operation = "edit"
)

// HookPhase distinguishes the before and after notification of one operation
type HookPhase string

const (
	HookPhasePre  HookPhase = "pre"
	HookPhasePost HookPhase = "post"
)

// HookEvent defines a Kafka message carrying one contribution hook notification.
// For phase "pre" Values holds the record state at the start of the operation;
// for phase "post" it holds only the fields the update actually supplied.
type HookEvent struct {
	EventID       uuid.UUID      `json:"event_id"`
	Phase         HookPhase      `json:"phase"`
	Operation     Operation      `json:"operation"`
	SubjectID     int64          `json:"subject_id"`
	Values        map[string]any `json:"values"`
	CorrelationID string         `json:"correlation_id"`
	Timestamp     time.Time      `json:"timestamp"`
}
