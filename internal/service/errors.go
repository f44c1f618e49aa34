package service

import (
	"errors"
)

// Error categories. Every error a service returns on purpose wraps exactly one
// of them, anything else is an internal error.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
	ErrConflict     = errors.New("conflict")
	ErrValidation   = errors.New("validation error")
)

// Error is a classified failure carrying a message that is safe to show.
type Error struct {
	category error
	message  string
}

func newError(category error, message string) *Error {
	return &Error{category: category, message: message}
}

func (e *Error) Error() string {
	return e.message
}

func (e *Error) Unwrap() error {
	return e.category
}

var (
	ErrWrongCredentials = newError(ErrUnauthorized, "wrong email or password")
	ErrUserEmailExists  = newError(ErrConflict, "a user with this email already exists")
	ErrUserNotFound     = newError(ErrNotFound, "user not found")
	ErrAdminRequired    = newError(ErrForbidden, "admin role required")
	ErrSelfRoleChange   = newError(ErrInvalidState, "admins cannot change their own role")
	ErrRoleUnchanged    = newError(ErrInvalidState, "user already has this role")
	ErrInvalidRole      = newError(ErrValidation, "role must be one of user, creator, admin")

	ErrContestNotFound     = newError(ErrNotFound, "contest not found")
	ErrContestExists       = newError(ErrConflict, "you already have a contest with this name")
	ErrContestNameRequired = newError(ErrValidation, "contest name is required")
	ErrNegativeAmount      = newError(ErrValidation, "entry fee and prize money cannot be negative")
	ErrEmptyPatch          = newError(ErrValidation, "nothing to update")
	ErrInvalidStatus       = newError(ErrValidation, "unknown contest status")
	ErrNotCreator          = newError(ErrForbidden, "only the contest creator can do this")
	ErrCreatorMismatch     = newError(ErrForbidden, "contests can only be created for yourself")
	ErrCreateNotAllowed    = newError(ErrForbidden, "your role cannot create contests")
	ErrContestHidden       = newError(ErrForbidden, "this contest is not public")
	ErrContestNotPending   = newError(ErrInvalidState, "contest is no longer pending")
	ErrAlreadyApproved     = newError(ErrInvalidState, "contest cannot be approved from its current status")
	ErrCannotReject        = newError(ErrInvalidState, "contest cannot be rejected from its current status")
	ErrContestNotOpen      = newError(ErrInvalidState, "contest is not open")
	ErrDeadlinePassed      = newError(ErrInvalidState, "contest deadline has passed")
	ErrListForbidden       = newError(ErrForbidden, "you can only list your own contests")

	ErrAlreadyRegistered   = newError(ErrConflict, "you are already registered for this contest")
	ErrCreatorRegistration = newError(ErrForbidden, "creators cannot register for their own contest")
	ErrPaymentOwner        = newError(ErrForbidden, "this checkout session belongs to another user")
	ErrConfirmInProgress   = newError(ErrConflict, "this checkout session is already being confirmed")
	ErrSessionRequired     = newError(ErrValidation, "session id is required")
	ErrSessionMetadata     = newError(ErrValidation, "checkout session is missing contest metadata")

	ErrSubmissionNotFound = newError(ErrNotFound, "submission not found")
	ErrSubmissionExists   = newError(ErrConflict, "you have already submitted to this contest")
	ErrContentRequired    = newError(ErrValidation, "submission content is required")
	ErrNotParticipant     = newError(ErrForbidden, "you are not registered for this contest")
	ErrCreatorSubmission  = newError(ErrForbidden, "creators cannot submit to their own contest")
	ErrWinnerDeclared     = newError(ErrConflict, "a winner has already been declared for this contest")
)

// Category names the failure class of err as exposed to clients.
func Category(err error) string {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return "Unauthorized"
	case errors.Is(err, ErrForbidden):
		return "Forbidden"
	case errors.Is(err, ErrNotFound):
		return "NotFound"
	case errors.Is(err, ErrInvalidState):
		return "InvalidState"
	case errors.Is(err, ErrConflict):
		return "Conflict"
	case errors.Is(err, ErrValidation):
		return "ValidationError"
	default:
		return "InternalError"
	}
}

// Message returns the client-facing text of a classified error.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.message
	}
	return "internal server error"
}
