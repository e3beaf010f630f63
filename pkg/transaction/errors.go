package transaction

import (
	"errors"
	"fmt"

	"k8s.io/apimachinery/pkg/util/validation/field"
)

// ErrValidation matches every *ValidationError via errors.Is
var ErrValidation = errors.New("transaction validation failed")

// ValidationError lists every missing or malformed field of a transaction
type ValidationError struct {
	Errors field.ErrorList
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), e.Errors.ToAggregate().Error())
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func newValidationError(errs field.ErrorList) error {
	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Errors: errs}
}
