package types

import "fmt"

// ErrorCode is the closed set of engine error kinds.
type ErrorCode string

const (
	ErrFilterInvalid      ErrorCode = "FILTER_INVALID"
	ErrTemplateInvalid    ErrorCode = "TEMPLATE_INVALID"
	ErrConditionMalformed ErrorCode = "CONDITION_MALFORMED"
	ErrCycleDetected      ErrorCode = "CYCLE_DETECTED"
	ErrCreationFailed     ErrorCode = "CREATION_FAILED"
	ErrStoryFailed        ErrorCode = "STORY_FAILED"
	ErrLearningFailed     ErrorCode = "LEARNING_FAILED"
)

// EngineError provides structured error information with a stable code and
// optional payload details (cycle path, platform name, field errors).
type EngineError struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewEngineError creates a new structured engine error.
func NewEngineError(code ErrorCode, message string, details map[string]any) *EngineError {
	return &EngineError{Code: code, Message: message, Details: details}
}
