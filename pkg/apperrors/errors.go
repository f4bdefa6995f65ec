package apperrors

import "errors"

var (
	ErrConfiguration        = errors.New("configuration error")
	ErrValidation           = errors.New("validation failed")
	ErrCompatibility        = errors.New("version compatibility check failed")
	ErrExecutionTimeout     = errors.New("execution timed out")
	ErrExecutionSpawn       = errors.New("failed to start process")
	ErrConfirmationRequired = errors.New("confirmation required")
	ErrCommandRejected      = errors.New("command rejected")
)
