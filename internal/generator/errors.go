package generator

import (
	"fmt"
	"strconv"

	"github.com/aivl-fintrxn-generator/internal/domain/posting"
	"github.com/aivl-fintrxn-generator/internal/domain/shared"
)

// ProtocolViolationError indicates an after-notification that does not match
// a captured before-notification. Non-retryable; the notification is dropped.
type ProtocolViolationError struct {
	Operation shared.Operation
	SubjectID int64
	Reason    string
}

func (e ProtocolViolationError) Error() string {
	return fmt.Sprintf("hook protocol violation for subject %d (operation %s): %s",
		e.SubjectID, e.Operation, e.Reason)
}

// Is implements the errors.Is interface for ProtocolViolationError
func (e ProtocolViolationError) Is(target error) bool {
	t, ok := target.(ProtocolViolationError)
	if !ok {
		return false
	}
	if t.SubjectID == 0 && t.Operation == "" && t.Reason == "" {
		return true
	}
	return e.SubjectID == t.SubjectID && e.Operation == t.Operation
}

// UnresolvedAccountError indicates an account lookup that returned no usable
// account during posting derivation. The lookup key identifies what could
// not be resolved so operators can fix data or configuration.
type UnresolvedAccountError struct {
	Lookup string // "iban", "accounting_code" or "campaign"
	Value  string
	Cause  error
}

func (e UnresolvedAccountError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("unresolved account by %s %q: %v", e.Lookup, e.Value, e.Cause)
	}
	return fmt.Sprintf("unresolved account by %s %q", e.Lookup, e.Value)
}

func (e UnresolvedAccountError) Unwrap() error {
	return e.Cause
}

// Is implements the errors.Is interface for UnresolvedAccountError
func (e UnresolvedAccountError) Is(target error) bool {
	t, ok := target.(UnresolvedAccountError)
	if !ok {
		return false
	}
	if t.Lookup == "" && t.Value == "" {
		return true
	}
	return e.Lookup == t.Lookup && e.Value == t.Value
}

// UnsupportedCaseError indicates a classified case whose posting derivation
// is intentionally not implemented. Distinct from UnresolvedAccountError so
// "we don't know the account" never masquerades as "we haven't decided what
// this means yet".
type UnsupportedCaseError struct {
	Case posting.Case
}

func (e UnsupportedCaseError) Error() string {
	return "posting derivation not supported for case " + string(e.Case)
}

// Is implements the errors.Is interface for UnsupportedCaseError
func (e UnsupportedCaseError) Is(target error) bool {
	t, ok := target.(UnsupportedCaseError)
	if !ok {
		return false
	}
	return t.Case == "" || e.Case == t.Case
}

// PersistenceError indicates the posting writer failed. Propagated to the
// caller; retry policy belongs to the host.
type PersistenceError struct {
	Case      posting.Case
	SubjectID int64
	Cause     error
}

func (e PersistenceError) Error() string {
	return "failed to persist postings for case " + string(e.Case) +
		" of subject " + strconv.FormatInt(e.SubjectID, 10) + ": " + e.Cause.Error()
}

func (e PersistenceError) Unwrap() error {
	return e.Cause
}

// Is implements the errors.Is interface for PersistenceError
func (e PersistenceError) Is(target error) bool {
	t, ok := target.(PersistenceError)
	if !ok {
		return false
	}
	if t.Case == "" && t.SubjectID == 0 {
		return true
	}
	return e.Case == t.Case && e.SubjectID == t.SubjectID
}
