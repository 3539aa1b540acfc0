package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/aivl-fintrxn-generator/internal/domain/contribution"
	"github.com/aivl-fintrxn-generator/internal/domain/posting"
	"github.com/aivl-fintrxn-generator/internal/domain/shared"
)

// PostingWriter hands derived postings to durable storage. All postings of
// one call belong to one case and must be written atomically, so a rebooking
// pair never lands half-written.
type PostingWriter interface {
	Write(ctx context.Context, postings []*posting.Posting) error
}

// Session captures one before/after lifecycle for a subject record. Fields
// are write-once per phase: the before-state at creation, everything else on
// completion.
type Session struct {
	Operation     shared.Operation
	SubjectID     int64
	CorrelationID string
	oldState      contribution.FieldSet
}

// sessionKey identifies one pending before/after pair. Edits key by subject
// id. A create's before-notification carries no id yet, so it keys by the
// correlation id instead, which the host holds stable across both phases of
// one operation; without it, interleaved creates would collide on a single
// shared slot.
type sessionKey string

func subjectSessionKey(subjectID int64) sessionKey {
	return sessionKey("subject:" + strconv.FormatInt(subjectID, 10))
}

func correlationSessionKey(correlationID string) sessionKey {
	return sessionKey("correlation:" + correlationID)
}

// Generator orchestrates generation sessions. Concurrent subjects never
// share state; at most one in-flight before/after pair per key is
// meaningful, enforced by the guard in Complete.
type Generator struct {
	classifier *CaseClassifier
	deriver    *TransactionDeriver
	writer     PostingWriter
	logger     *slog.Logger

	mu       sync.Mutex
	sessions map[sessionKey]*Session
}

func NewGenerator(classifier *CaseClassifier, deriver *TransactionDeriver, writer PostingWriter, logger *slog.Logger) *Generator {
	return &Generator{
		classifier: classifier,
		deriver:    deriver,
		writer:     writer,
		logger:     logger,
		sessions:   make(map[sessionKey]*Session),
	}
}

// Begin captures the before-state of an operation, creating or overwriting
// the session for the subject. For a create the old state is empty: the
// record has no prior version. Operations other than create and edit are
// acknowledged and ignored.
func (g *Generator) Begin(ctx context.Context, op shared.Operation, subjectID int64, correlationID string, state contribution.FieldSet) {
	var oldState contribution.FieldSet
	switch op {
	case shared.OperationCreate:
		oldState = contribution.FieldSet{}
	case shared.OperationEdit:
		oldState = state.Clone()
	default:
		g.logger.Warn("Ignoring hook operation", "operation", string(op), "subject_id", subjectID)
		return
	}

	session := &Session{
		Operation:     op,
		SubjectID:     subjectID,
		CorrelationID: correlationID,
		oldState:      oldState,
	}

	key := subjectSessionKey(subjectID)
	if subjectID == 0 && correlationID != "" {
		key = correlationSessionKey(correlationID)
	}

	g.mu.Lock()
	g.sessions[key] = session
	g.mu.Unlock()

	g.logger.Debug("Captured before-state", "operation", string(op), "subject_id", subjectID)
}

// Complete matches an after-notification against its captured session and
// runs diff, classification, derivation and posting write. The session is
// discarded whatever the outcome. A mismatched operation or subject id is a
// ProtocolViolationError; each classified case derives in isolation and the
// per-case failures are joined, so one failing case never suppresses
// another's postings.
func (g *Generator) Complete(ctx context.Context, op shared.Operation, subjectID int64, correlationID string, supplied contribution.FieldSet) error {
	session, err := g.takeSession(op, subjectID, correlationID)
	if err != nil {
		return err
	}
	if correlationID == "" {
		correlationID = session.CorrelationID
	}

	newState, changes := contribution.Merge(session.oldState, supplied)
	// A create's before-notification carries no id; the after-state does.
	if subjectID == 0 {
		subjectID = newState.Int64(contribution.FieldID)
	}

	cases := g.classifier.Classify(ctx, session.oldState, newState, changes)
	g.logger.Info("Classified contribution change",
		"operation", string(op),
		"subject_id", subjectID,
		"changed_fields", changes.Fields(),
		"cases", caseLabels(cases),
	)

	var caseErrs []error
	for _, c := range cases {
		postings, deriveErr := g.deriver.Derive(ctx, c, session.oldState, newState)
		if deriveErr != nil {
			if errors.Is(deriveErr, UnsupportedCaseError{}) {
				g.logger.Warn("Case has no posting derivation yet",
					"subject_id", subjectID, "case", string(c))
			} else {
				g.logger.Error("Failed to derive postings",
					"subject_id", subjectID, "case", string(c), "error", deriveErr)
			}
			caseErrs = append(caseErrs, fmt.Errorf("case %s: %w", c, deriveErr))
			continue
		}

		for _, p := range postings {
			p.CorrelationID = correlationID
		}

		if writeErr := g.writer.Write(ctx, postings); writeErr != nil {
			g.logger.Error("Failed to write postings",
				"subject_id", subjectID, "case", string(c), "error", writeErr)
			caseErrs = append(caseErrs, PersistenceError{Case: c, SubjectID: subjectID, Cause: writeErr})
			continue
		}

		g.logger.Info("Postings written",
			"subject_id", subjectID, "case", string(c), "count", len(postings))
	}

	return errors.Join(caseErrs...)
}

// takeSession removes and returns the session for the notification, guarding
// against interleaved or unmatched pairs. Lookup order: subject id first,
// then the correlation id under which an id-less create was captured, then
// the bare zero-subject slot for hosts that send no correlation id at all.
func (g *Generator) takeSession(op shared.Operation, subjectID int64, correlationID string) (*Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	key := subjectSessionKey(subjectID)
	session, ok := g.sessions[key]
	if !ok && correlationID != "" {
		key = correlationSessionKey(correlationID)
		session, ok = g.sessions[key]
	}
	if !ok && subjectID != 0 {
		key = subjectSessionKey(0)
		session, ok = g.sessions[key]
	}
	if !ok {
		return nil, ProtocolViolationError{
			Operation: op,
			SubjectID: subjectID,
			Reason:    "after-notification without matching before-notification",
		}
	}
	delete(g.sessions, key)

	if session.Operation != op {
		return nil, ProtocolViolationError{
			Operation: op,
			SubjectID: subjectID,
			Reason: fmt.Sprintf("operation mismatch: before-notification captured %q",
				session.Operation),
		}
	}
	if session.SubjectID != 0 && session.SubjectID != subjectID {
		return nil, ProtocolViolationError{
			Operation: op,
			SubjectID: subjectID,
			Reason: fmt.Sprintf("subject mismatch: before-notification captured %d",
				session.SubjectID),
		}
	}

	return session, nil
}

func caseLabels(cases []posting.Case) []string {
	labels := make([]string, len(cases))
	for i, c := range cases {
		labels[i] = string(c)
	}
	return labels
}
