package tools

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jinzhu/inflection"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ekaya-inc/fasttransfer-mcp/pkg/apperrors"
	"github.com/ekaya-inc/fasttransfer-mcp/pkg/logging"
	"github.com/ekaya-inc/fasttransfer-mcp/pkg/models"
	"github.com/ekaya-inc/fasttransfer-mcp/pkg/validation"
)

// Error codes returned in ErrorResponse.Code.
const (
	CodeInvalidParameters    = "invalid_parameters"
	CodeValidation           = "validation_error"
	CodeCompatibility        = "compatibility_error"
	CodeConfirmationRequired = "confirmation_required"
	CodeCommandRejected      = "command_rejected"
	CodeExecutionTimeout     = "execution_timeout"
	CodeExecutionSpawn       = "execution_spawn_failed"
	CodeBinaryUnavailable    = "binary_unavailable"
)

// ErrorResponse represents a structured error in tool results.
// This is used to return actionable error information to the client
// as a tool result, ensuring error details are visible
// rather than being swallowed by the MCP client.
type ErrorResponse struct {
	Error   bool   `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// NewErrorResult creates a tool result containing a structured error.
// Use this for recoverable errors the caller can fix (invalid parameters,
// missing confirmation). System failures should still return Go errors.
//
// Example:
//
//	if !confirmed {
//	    return NewErrorResult("confirmation_required", "set confirmation to true"), nil
//	}
func NewErrorResult(code, message string) *mcp.CallToolResult {
	return NewErrorResultWithDetails(code, message, nil)
}

// NewErrorResultWithDetails creates an error result with additional context.
//
// Example:
//
//	return NewErrorResultWithDetails(
//	    "validation_error",
//	    "request has 2 violations",
//	    map[string]any{"violations": violations},
//	), nil
func NewErrorResultWithDetails(code, message string, details any) *mcp.CallToolResult {
	resp := ErrorResponse{
		Error:   true,
		Code:    code,
		Message: message,
		Details: details,
	}
	jsonBytes, _ := json.Marshal(resp)
	result := mcp.NewToolResultText(string(jsonBytes))
	result.IsError = true
	return result
}

// NewServiceErrorResult converts an error from the transfer service into a
// structured error result. Returns nil if the error is not one the caller can
// act on (the tool should return it as a Go error instead).
func NewServiceErrorResult(err error) *mcp.CallToolResult {
	if err == nil {
		return nil
	}

	var decodeErr *models.DecodeError
	if errors.As(err, &decodeErr) {
		details := map[string]any{}
		if decodeErr.Field != "" {
			details["field"] = decodeErr.Field
		}
		return NewErrorResultWithDetails(CodeInvalidParameters, decodeErr.Error(), details)
	}

	var validationErr *validation.ValidationError
	if errors.As(err, &validationErr) {
		code := CodeValidation
		if validationErr.HasKind(validation.KindCompatibility) {
			code = CodeCompatibility
		}
		return NewErrorResultWithDetails(code,
			fmt.Sprintf("request has %s", countNoun(len(validationErr.Violations), "violation")),
			map[string]any{"violations": validationErr.Violations, "fields": validationErr.Fields()})
	}

	message := logging.SanitizeError(err)
	switch {
	case errors.Is(err, apperrors.ErrConfirmationRequired):
		return NewErrorResult(CodeConfirmationRequired, message)
	case errors.Is(err, apperrors.ErrCommandRejected):
		return NewErrorResult(CodeCommandRejected, message)
	case errors.Is(err, apperrors.ErrExecutionTimeout):
		return NewErrorResult(CodeExecutionTimeout, message)
	case errors.Is(err, apperrors.ErrExecutionSpawn):
		return NewErrorResult(CodeExecutionSpawn, message)
	case errors.Is(err, apperrors.ErrConfiguration):
		return NewErrorResult(CodeBinaryUnavailable, message)
	}
	return nil
}

// IsInputError returns true if the error was caused by the caller's arguments
// rather than a server failure. Input errors are logged at DEBUG level.
func IsInputError(err error) bool {
	if err == nil {
		return false
	}
	var decodeErr *models.DecodeError
	return errors.As(err, &decodeErr) ||
		errors.Is(err, apperrors.ErrValidation) ||
		errors.Is(err, apperrors.ErrConfirmationRequired) ||
		errors.Is(err, apperrors.ErrCommandRejected)
}

// countNoun renders "1 violation" or "3 violations".
func countNoun(n int, noun string) string {
	if n != 1 {
		noun = inflection.Plural(noun)
	}
	return fmt.Sprintf("%d %s", n, noun)
}
