package workday

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTransition        = errors.New("workday: invalid transition")
	ErrReasonRequired           = errors.New("workday: pause reason is required")
	ErrSignatureRequired        = errors.New("workday: signature is required")
	ErrSignatureAlreadyAttached = errors.New("workday: signature already attached")
	ErrInvalidEntry             = errors.New("workday: invalid entry")
)

// TransitionError reports an action attempted from a status that does not
// allow it.
type TransitionError struct {
	Action Action
	From   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("workday: cannot %s from %s", e.Action, e.From)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidEntry}, args...)...)
}
