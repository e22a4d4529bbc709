package effect

import (
	"fmt"
	"maps"
)

// Error codes carried by ErrorDetails.
const (
	CodeNotFound              = "NOT_FOUND"
	CodeDuplicateID           = "DUPLICATE_ID"
	CodeForbidden             = "FORBIDDEN"
	CodeBusinessRuleViolation = "BUSINESS_RULE_VIOLATION"
	CodeStorageError          = "STORAGE_ERROR"
	CodeValidationError       = "VALIDATION_ERROR"
)

// ErrorDetails is the failure payload used across repositories and services.
type ErrorDetails struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

func NewError(code, message string, details map[string]string) ErrorDetails {
	return ErrorDetails{Code: code, Message: message, Details: details}
}

func NotFound(message string, details map[string]string) ErrorDetails {
	return NewError(CodeNotFound, message, details)
}

func DuplicateID(message string, details map[string]string) ErrorDetails {
	return NewError(CodeDuplicateID, message, details)
}

func Forbidden(message string, details map[string]string) ErrorDetails {
	return NewError(CodeForbidden, message, details)
}

func BusinessRule(message string, details map[string]string) ErrorDetails {
	return NewError(CodeBusinessRuleViolation, message, details)
}

func StorageError(message string, details map[string]string) ErrorDetails {
	return NewError(CodeStorageError, message, details)
}

func ValidationError(message string, details map[string]string) ErrorDetails {
	return NewError(CodeValidationError, message, details)
}

// With returns a copy of e with one more detail entry.
func (e ErrorDetails) With(key, value string) ErrorDetails {
	out := e
	out.Details = make(map[string]string, len(e.Details)+1)
	maps.Copy(out.Details, e.Details)
	out.Details[key] = value
	return out
}

// Is matches on code so errors.Is works against code-only sentinels.
func (e ErrorDetails) Is(target error) bool {
	t, ok := target.(ErrorDetails)
	return ok && t.Code == e.Code
}

func (e ErrorDetails) Equal(other ErrorDetails) bool {
	return e.Code == other.Code && e.Message == other.Message && maps.Equal(e.Details, other.Details)
}

func (e ErrorDetails) Error() string {
	if len(e.Details) == 0 {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s %v", e.Code, e.Message, e.Details)
}
