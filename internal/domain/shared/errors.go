package shared

import "fmt"

// DomainError is the base error type for all domain errors
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// NotFoundError indicates a referenced entity, base or empire does not exist.
// Not retryable - the caller sent a bad reference.
type NotFoundError struct {
	*DomainError
	Resource string
	Key      string
}

func NewNotFoundError(resource, key string) *NotFoundError {
	return &NotFoundError{
		DomainError: &DomainError{Message: fmt.Sprintf("%s not found: %s", resource, key)},
		Resource:    resource,
		Key:         key,
	}
}

// ForbiddenError indicates an ownership violation (acting on another
// empire's base or queue item). Not retryable.
type ForbiddenError struct {
	*DomainError
}

func NewForbiddenError(message string) *ForbiddenError {
	return &ForbiddenError{DomainError: &DomainError{Message: message}}
}

// InvalidArgumentError indicates a malformed level, key or coordinate.
// Not retryable.
type InvalidArgumentError struct {
	*DomainError
	Field string
}

func NewInvalidArgumentError(field, message string) *InvalidArgumentError {
	return &InvalidArgumentError{
		DomainError: &DomainError{Message: fmt.Sprintf("%s: %s", field, message)},
		Field:       field,
	}
}

// InsufficientCapacityError indicates a base has zero or negative throughput
// for the requested work, so no completion time can be produced. The caller
// must wait for capacity to change before retrying.
type InsufficientCapacityError struct {
	*DomainError
	RatePerHour float64
}

func NewInsufficientCapacityError(ratePerHour float64) *InsufficientCapacityError {
	return &InsufficientCapacityError{
		DomainError: &DomainError{Message: fmt.Sprintf("insufficient capacity: rate is %.2f credits/hour", ratePerHour)},
		RatePerHour: ratePerHour,
	}
}

// InsufficientCreditsError indicates the empire cannot pay for the
// requested action. Not retryable until the balance changes.
type InsufficientCreditsError struct {
	*DomainError
	Required  int64
	Available int64
}

func NewInsufficientCreditsError(required, available int64) *InsufficientCreditsError {
	return &InsufficientCreditsError{
		DomainError: &DomainError{Message: fmt.Sprintf("insufficient credits: need %d, have %d", required, available)},
		Required:    required,
		Available:   available,
	}
}

// AlreadyInProgressError indicates the caller lost the race for a queue
// slot: an item with the exact same identity key already exists. The caller
// should re-fetch queue state rather than blindly retry the same call.
type AlreadyInProgressError struct {
	*DomainError
	IdentityKey string
}

func NewAlreadyInProgressError(identityKey string) *AlreadyInProgressError {
	return &AlreadyInProgressError{
		DomainError: &DomainError{Message: fmt.Sprintf("already in progress: %s", identityKey)},
		IdentityKey: identityKey,
	}
}

// InvalidTransitionError indicates a queue item state change that the
// lifecycle state machine does not allow (e.g. cancelling active work).
type InvalidTransitionError struct {
	*DomainError
	From string
	To   string
}

func NewInvalidTransitionError(from, to string) *InvalidTransitionError {
	return &InvalidTransitionError{
		DomainError: &DomainError{Message: fmt.Sprintf("invalid transition from %s to %s", from, to)},
		From:        from,
		To:          to,
	}
}

// TransientError indicates the store was unavailable or a conditional write
// exhausted its retry budget. State is unchanged and the call is safe to
// retry with backoff.
type TransientError struct {
	*DomainError
	Cause error
}

func NewTransientError(message string, cause error) *TransientError {
	if cause != nil {
		message = fmt.Sprintf("%s: %v", message, cause)
	}
	return &TransientError{
		DomainError: &DomainError{Message: message},
		Cause:       cause,
	}
}

func (e *TransientError) Unwrap() error {
	return e.Cause
}
