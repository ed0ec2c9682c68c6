package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"internship-recommender/internal/catalog"
	"internship-recommender/internal/recommender"
)

type ErrorCode string

const (
	ErrCodeCatalogEmpty        ErrorCode = "CATALOG_EMPTY"
	ErrCodeCatalogInvalid      ErrorCode = "CATALOG_INVALID"
	ErrCodeCatalogNotLoaded    ErrorCode = "CATALOG_NOT_LOADED"
	ErrCodeCatalogSourceFailed ErrorCode = "CATALOG_SOURCE_FAILED"
	ErrCodeInternshipNotFound  ErrorCode = "INTERNSHIP_NOT_FOUND"
	ErrCodeInvalidInput        ErrorCode = "INVALID_INPUT"
	ErrCodeTimeout             ErrorCode = "TIMEOUT_ERROR"
	ErrCodeBrokerUnavailable   ErrorCode = "BROKER_UNAVAILABLE"
	ErrCodeInternal            ErrorCode = "INTERNAL_ERROR"
)

type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	for k, v := range e.ErrorVariables {
		vars[k] = v
	}

	return vars
}

func NewCatalogEmptyError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCatalogEmpty,
		Message:   "Catalog contains no internships",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewCatalogInvalidError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCatalogInvalid,
		Message:   "Catalog contents cannot be indexed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewCatalogNotLoadedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCatalogNotLoaded,
		Message:   "Catalog index has not been loaded",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewCatalogSourceFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCatalogSourceFailed,
		Message:   "Catalog source could not be read",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewInternshipNotFoundError(internshipID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternshipNotFound,
		Message:   "Internship not found in catalog",
		Details:   fmt.Sprintf("internshipId: %s", internshipID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     recommender.ErrInternshipNotFound,
	}
}

func NewInvalidInputError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidInput,
		Message:   "Job variables failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewTimeoutError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeTimeout,
		Message:   fmt.Sprintf("Operation '%s' timed out", operation),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewBrokerUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeBrokerUnavailable,
		Message:   "Zeebe gateway unavailable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// FromEngineError maps recommender and catalog errors to a StandardError.
// Errors that are already StandardErrors pass through unchanged.
func FromEngineError(err error) *StandardError {
	if err == nil {
		return nil
	}

	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}

	var fetchErr *catalog.FetchError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return NewTimeoutError("catalog", err)
	case errors.As(err, &fetchErr):
		return NewCatalogSourceFailedError(err)
	case errors.Is(err, recommender.ErrEmptyCatalog):
		return NewCatalogEmptyError(err)
	case errors.Is(err, recommender.ErrEmptyVocabulary), errors.Is(err, recommender.ErrDuplicateID):
		return NewCatalogInvalidError(err)
	case errors.Is(err, recommender.ErrNotLoaded):
		return NewCatalogNotLoadedError(err)
	case errors.Is(err, recommender.ErrInternshipNotFound):
		e := NewInternshipNotFoundError("")
		e.Details = err.Error()
		e.cause = err
		return e
	default:
		return NewInternalError(err)
	}
}

var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeCatalogEmpty:        "CATALOG_EMPTY",
	ErrCodeCatalogInvalid:      "CATALOG_INVALID",
	ErrCodeCatalogNotLoaded:    "CATALOG_NOT_LOADED",
	ErrCodeCatalogSourceFailed: "CATALOG_SOURCE_FAILED",
	ErrCodeInternshipNotFound:  "INTERNSHIP_NOT_FOUND",
	ErrCodeInvalidInput:        "INVALID_INPUT",
	ErrCodeTimeout:             "TIMEOUT_ERROR",
	ErrCodeBrokerUnavailable:   "BROKER_UNAVAILABLE",
	ErrCodeInternal:            "INTERNAL_ERROR",
}

func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeCatalogSourceFailed,
		ErrCodeBrokerUnavailable:
		return 3 // Retryable technical errors

	case ErrCodeCatalogNotLoaded,
		ErrCodeTimeout:
		return 2

	default:
		return 0 // Business errors: no retry
	}
}

func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "CATALOG"):
		return "CATALOG"
	case strings.Contains(codeStr, "NOT_FOUND"):
		return "LOOKUP"
	case strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	case strings.Contains(codeStr, "TIMEOUT"):
		return "TIMEOUT"
	case strings.HasPrefix(codeStr, "BROKER"):
		return "WORKFLOW"
	default:
		return "OTHER"
	}
}
