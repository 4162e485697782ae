package contract

import "errors"

var (
	ErrModelInvoke     = errors.New("model invoke failed")
	ErrSchemaViolation = errors.New("model response violates schema")
	ErrValidation      = errors.New("validation failed")
	ErrStepBudget      = errors.New("step budget exhausted")
	ErrDateMissing     = errors.New("request date missing")
)
