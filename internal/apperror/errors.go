package apperror

import (
	"errors"

	"github.com/samber/oops"
)

// Sentinel errors. Everything returned by the services wraps one of these,
// so callers match with errors.Is while logs keep the oops context.
var (
	ErrValidation       = errors.New("validation failed")
	ErrNotFound         = errors.New("not found")
	ErrAlreadyRecording = errors.New("a trail is already being recorded")
	ErrNotRecording     = errors.New("no trail is being recorded")
	ErrPersistence      = errors.New("persistence failed")
)

// Error codes attached to the oops errors
const (
	CodeValidation       = "VALIDATION"
	CodeNotFound         = "NOT_FOUND"
	CodeAlreadyRecording = "ALREADY_RECORDING"
	CodeNotRecording     = "NOT_RECORDING"
	CodePersistence      = "PERSISTENCE"
)

// Validation reports caller-supplied data that fails a precondition
func Validation(domain, field, message string) error {
	return oops.
		Code(CodeValidation).
		In(domain).
		With("field", field).
		Wrapf(ErrValidation, "%s", message)
}

// NotFound reports a missing record
func NotFound(domain string, id int64) error {
	return oops.
		Code(CodeNotFound).
		In(domain).
		With("id", id).
		Wrapf(ErrNotFound, "%s %d not found", domain, id)
}

// AlreadyRecording reports a second start while a trail is active
func AlreadyRecording(activeTrailID int64) error {
	return oops.
		Code(CodeAlreadyRecording).
		In("trail").
		With("active_trail_id", activeTrailID).
		Wrapf(ErrAlreadyRecording, "trail %d is already recording", activeTrailID)
}

// NotRecording reports a stop while idle
func NotRecording() error {
	return oops.
		Code(CodeNotRecording).
		In("trail").
		Wrapf(ErrNotRecording, "recorder is idle")
}

// Persistence wraps a durable write failure
func Persistence(collection string, err error) error {
	return oops.
		Code(CodePersistence).
		In("storage").
		With("collection", collection).
		Wrapf(errors.Join(ErrPersistence, err), "failed to persist %s", collection)
}

// IsValidation reports whether err is a validation error
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsNotFound reports whether err is a not-found error
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsStateConflict reports whether err is a recorder state-machine conflict
func IsStateConflict(err error) bool {
	return errors.Is(err, ErrAlreadyRecording) || errors.Is(err, ErrNotRecording)
}
