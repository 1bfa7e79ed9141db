// Package errors provides the error codes workers report to the workflow engine.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeAuditInputInvalid     ErrorCode = "AUDIT_INPUT_INVALID"
	ErrCodeAuditGenerationFailed ErrorCode = "AUDIT_GENERATION_FAILED"

	ErrCodeCacheUnavailable ErrorCode = "CACHE_UNAVAILABLE"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeDatabaseInsertFailed     ErrorCode = "DATABASE_INSERT_FAILED"
	ErrCodeDuplicateAudit           ErrorCode = "DUPLICATE_AUDIT"

	ErrCodeIndexFailed ErrorCode = "INDEX_FAILED"

	ErrCodeCRMSyncFailed          ErrorCode = "CRM_SYNC_FAILED"
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeEventPublishFailed     ErrorCode = "EVENT_PUBLISH_FAILED"

	ErrCodeCalculatorNotFound     ErrorCode = "CALCULATOR_NOT_FOUND"
	ErrCodeCalculatorInputInvalid ErrorCode = "CALCULATOR_INPUT_INVALID"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
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

func newError(code ErrorCode, message string, cause error, retryable bool) *StandardError {
	e := &StandardError{
		Code:      code,
		Message:   message,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
	if cause != nil {
		e.Details = cause.Error()
	}
	return e
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
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

// ToErrorVariables returns the process variables set on a failed or thrown job.
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

// ==========================
// 3. Error Constructors
// ==========================

// NewAuditInputInvalidError is raised when a form fails schema or engine
// validation. fields lists the offending form fields.
func NewAuditInputInvalidError(details string, fields []string) *StandardError {
	e := newError(ErrCodeAuditInputInvalid, "Audit form validation failed", nil, false)
	e.Details = details
	if len(fields) > 0 {
		e.Metadata = map[string]interface{}{"fields": fields}
	}
	return e
}

func NewAuditGenerationFailedError(err error) *StandardError {
	return newError(ErrCodeAuditGenerationFailed, "Audit report generation failed", err, false)
}

func NewCacheUnavailableError(err error) *StandardError {
	return newError(ErrCodeCacheUnavailable, "Audit cache unavailable", err, true)
}

func NewDatabaseConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseConnectionFailed, "Database connection error", err, true)
}

func NewDatabaseInsertFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseInsertFailed, "Database insert operation failed", err, true)
}

// NewDuplicateAuditError is raised when an audit with the same id was already stored.
func NewDuplicateAuditError(auditID string) *StandardError {
	e := newError(ErrCodeDuplicateAudit, "Audit record already exists", nil, false)
	e.Details = fmt.Sprintf("auditId: %s", auditID)
	return e
}

func NewIndexFailedError(index string, err error) *StandardError {
	e := newError(ErrCodeIndexFailed, "Audit indexing failed", err, true)
	e.Metadata = map[string]interface{}{"index": index}
	return e
}

func NewCRMSyncFailedError(err error) *StandardError {
	return newError(ErrCodeCRMSyncFailed, "CRM lead sync failed", err, true)
}

func NewNotificationSendFailedError(channel string, err error) *StandardError {
	e := newError(ErrCodeNotificationSendFailed, "Notification delivery failed", err, true)
	e.Details = fmt.Sprintf("channel: %s, error: %s", channel, e.Details)
	return e
}

func NewEventPublishFailedError(eventType string, err error) *StandardError {
	e := newError(ErrCodeEventPublishFailed, "Event publish failed", err, true)
	e.Metadata = map[string]interface{}{"eventType": eventType}
	return e
}

func NewCalculatorNotFoundError(name string) *StandardError {
	e := newError(ErrCodeCalculatorNotFound, "Calculator not found", nil, false)
	e.Details = fmt.Sprintf("calculator: %s", name)
	return e
}

func NewCalculatorInputInvalidError(err error) *StandardError {
	return newError(ErrCodeCalculatorInputInvalid, "Calculator input invalid", err, false)
}

// NewInternalError wraps an unexpected error.
func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", err, false)
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal codes to the error codes modelled on the
// BPMN boundary events. They are identical today.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeAuditInputInvalid:        "AUDIT_INPUT_INVALID",
	ErrCodeAuditGenerationFailed:    "AUDIT_GENERATION_FAILED",
	ErrCodeCacheUnavailable:         "CACHE_UNAVAILABLE",
	ErrCodeDatabaseConnectionFailed: "DATABASE_CONNECTION_FAILED",
	ErrCodeDatabaseInsertFailed:     "DATABASE_INSERT_FAILED",
	ErrCodeDuplicateAudit:           "DUPLICATE_AUDIT",
	ErrCodeIndexFailed:              "INDEX_FAILED",
	ErrCodeCRMSyncFailed:            "CRM_SYNC_FAILED",
	ErrCodeNotificationSendFailed:   "NOTIFICATION_SEND_FAILED",
	ErrCodeEventPublishFailed:       "EVENT_PUBLISH_FAILED",
	ErrCodeCalculatorNotFound:       "CALCULATOR_NOT_FOUND",
	ErrCodeCalculatorInputInvalid:   "CALCULATOR_INPUT_INVALID",
	ErrCodeInternal:                 "INTERNAL_ERROR",
}

// GetRetryCount returns the retry budget for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseConnectionFailed,
		ErrCodeDatabaseInsertFailed,
		ErrCodeIndexFailed,
		ErrCodeCRMSyncFailed,
		ErrCodeNotificationSendFailed,
		ErrCodeEventPublishFailed:
		return 3

	case ErrCodeCacheUnavailable:
		return 2

	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           bpmnCode,
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// GetErrorCategory groups codes for logging and metrics labels.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "AUDIT"):
		return "AUDIT"
	case strings.HasPrefix(codeStr, "CALCULATOR"):
		return "CALCULATOR"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "DUPLICATE"):
		return "DATABASE"
	case strings.Contains(codeStr, "CACHE"):
		return "CACHE"
	case strings.Contains(codeStr, "INDEX"):
		return "SEARCH"
	case strings.Contains(codeStr, "CRM") || strings.Contains(codeStr, "NOTIFICATION") || strings.Contains(codeStr, "EVENT"):
		return "INTEGRATION"
	default:
		return "OTHER"
	}
}
