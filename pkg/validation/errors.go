// Package validation checks transfer requests before a command is synthesized.
//
// Every problem found is collected into a single ValidationError so callers can
// fix a request in one round trip.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ekaya-inc/fasttransfer-mcp/pkg/apperrors"
)

// Kind classifies a violation.
type Kind string

const (
	// KindStructural marks missing, malformed, or conflicting fields.
	KindStructural Kind = "structural"
	// KindCompatibility marks values the source engine or the installed binary cannot honor.
	KindCompatibility Kind = "compatibility"
)

// Violation is one problem with a request. Message never contains credential values.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Kind    Kind   `json:"kind"`
}

func (v Violation) String() string {
	if v.Field == "" {
		return v.Message
	}
	return v.Field + ": " + v.Message
}

// ValidationError carries every violation found in a request.
// It matches apperrors.ErrValidation, and apperrors.ErrCompatibility when any
// violation is of compatibility kind.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.String()
	}
	return fmt.Sprintf("%s: %s", apperrors.ErrValidation, strings.Join(parts, "; "))
}

// Is supports errors.Is against the validation and compatibility sentinels.
func (e *ValidationError) Is(target error) bool {
	switch target {
	case apperrors.ErrValidation:
		return true
	case apperrors.ErrCompatibility:
		return e.HasKind(KindCompatibility)
	default:
		return false
	}
}

// HasKind reports whether any violation has the given kind.
func (e *ValidationError) HasKind(kind Kind) bool {
	for _, v := range e.Violations {
		if v.Kind == kind {
			return true
		}
	}
	return false
}

// Fields returns the distinct field paths with violations, in order of first appearance.
func (e *ValidationError) Fields() []string {
	seen := make(map[string]bool, len(e.Violations))
	var fields []string
	for _, v := range e.Violations {
		if !seen[v.Field] {
			seen[v.Field] = true
			fields = append(fields, v.Field)
		}
	}
	return fields
}

// Violations extracts the violations from err, or nil when err is not a ValidationError.
func Violations(err error) []Violation {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Violations
	}
	return nil
}

type collector struct {
	violations []Violation
}

func (c *collector) add(field string, kind Kind, format string, args ...any) {
	c.violations = append(c.violations, Violation{
		Field:   field,
		Message: fmt.Sprintf(format, args...),
		Kind:    kind,
	})
}

func (c *collector) structural(field, format string, args ...any) {
	c.add(field, KindStructural, format, args...)
}

func (c *collector) compatibility(field, format string, args ...any) {
	c.add(field, KindCompatibility, format, args...)
}

func (c *collector) err() error {
	if len(c.violations) == 0 {
		return nil
	}
	return &ValidationError{Violations: c.violations}
}
