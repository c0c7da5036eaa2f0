package notebook

import (
	"errors"
	"fmt"
)

// ErrValidation is wrapped by every locally rejected submission. A rejected
// submission never changes state and never reaches a collaborator.
var ErrValidation = errors.New("invalid submission")

var (
	ErrAlreadyCompleted = fmt.Errorf("%w: question already completed", ErrValidation)
	ErrOptionRejected   = fmt.Errorf("%w: option was already rejected", ErrValidation)
	ErrUnknownOption    = fmt.Errorf("%w: option is not one of the question's choices", ErrValidation)
)
