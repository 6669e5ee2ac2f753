// Package errors provides standardized error handling for the ITSM bridge.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Configuration errors are detected eagerly before any network attempt
	// and are never retried.
	ErrCodeConfigurationInvalid ErrorCode = "CONFIGURATION_INVALID"

	// Communication errors. Unauthorized and timeout are classified so the
	// caller can decide on retry.
	ErrCodeUnauthorized        ErrorCode = "UNAUTHORIZED"
	ErrCodeRequestTimeout      ErrorCode = "REQUEST_TIMEOUT"
	ErrCodeProtocolFault       ErrorCode = "PROTOCOL_FAULT"
	ErrCodeCommunicationFailed ErrorCode = "COMMUNICATION_FAILED"

	// The remote system accepted the transport call but reported a
	// business-level ERROR. Fatal for that ticket.
	ErrCodeRemoteOperationError ErrorCode = "REMOTE_OPERATION_ERROR"

	ErrCodeTemplateRenderFailed ErrorCode = "TEMPLATE_RENDER_FAILED"

	// A business status outside the known vocabulary. Logged and degraded
	// to an UNKNOWN outcome, never raised.
	ErrCodeTicketStatusUnrecognized ErrorCode = "TICKET_STATUS_UNRECOGNIZED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithCause attaches the underlying error for errors.Is/As chains.
func (e *StandardError) WithCause(cause error) *StandardError {
	e.cause = cause
	return e
}

// ==========================
// 2. Error Constructors
// ==========================

// NewConfigurationError creates a fatal configuration error.
func NewConfigurationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfigurationInvalid,
		Message:   "Configuration is not valid",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now(),
	}
}

// NewUnauthorizedError creates a retryable communication error for an
// HTTP 401 from the integration endpoint.
func NewUnauthorizedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnauthorized,
		Message:   "Unauthorized",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now(),
	}
}

// NewTimeoutError creates a retryable communication error for an HTTP 408
// or a socket-level timeout.
func NewTimeoutError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRequestTimeout,
		Message:   "Timeout",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now(),
	}
}

// NewProtocolFaultError wraps a structured remote fault payload. The remote
// system gives no machine-actionable error detail, so the fault is surfaced
// as-is and not retried automatically.
func NewProtocolFaultError(faultCode, faultString string) *StandardError {
	return &StandardError{
		Code:      ErrCodeProtocolFault,
		Message:   "Service raised a protocol fault",
		Details:   fmt.Sprintf("%s: %s", faultCode, faultString),
		Retryable: false,
		Timestamp: time.Now(),
	}
}

// NewCommunicationError creates a non-retryable error for an unclassified
// transport failure.
func NewCommunicationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCommunicationFailed,
		Message:   "Calling integration endpoint failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now(),
	}
}

// NewRemoteOperationError records a business-level ERROR response. The
// remote message text is preserved verbatim in Details.
func NewRemoteOperationError(remoteMessage string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRemoteOperationError,
		Message:   "Service responds with ERROR",
		Details:   remoteMessage,
		Retryable: false,
		Timestamp: time.Now(),
	}
}

// NewTemplateRenderError reports a failed template rendering.
func NewTemplateRenderError(templateID string, cause error) *StandardError {
	e := &StandardError{
		Code:      ErrCodeTemplateRenderFailed,
		Message:   fmt.Sprintf("Rendering template %q failed", templateID),
		Details:   cause.Error(),
		Retryable: false,
		Timestamp: time.Now(),
	}
	return e.WithCause(cause)
}

// ==========================
// 3. Predicates
// ==========================

// AsStandardError extracts a StandardError from an error chain.
func AsStandardError(err error) (*StandardError, bool) {
	var se *StandardError
	if stderrors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// IsRetryable reports whether the caller may retry the failed operation.
// Retry policy itself belongs to the caller; the bridge never retries,
// because it cannot tell whether a ticket was already created on a failed
// attempt.
func IsRetryable(err error) bool {
	if se, ok := AsStandardError(err); ok {
		return se.Retryable
	}
	return false
}

// IsCommunication reports whether the error is a classified transport
// failure (unauthorized, timeout, protocol fault or unclassified).
func IsCommunication(err error) bool {
	se, ok := AsStandardError(err)
	if !ok {
		return false
	}
	switch se.Code {
	case ErrCodeUnauthorized, ErrCodeRequestTimeout, ErrCodeProtocolFault, ErrCodeCommunicationFailed:
		return true
	}
	return false
}

// IsConfiguration reports whether the error is a configuration error.
func IsConfiguration(err error) bool {
	se, ok := AsStandardError(err)
	return ok && se.Code == ErrCodeConfigurationInvalid
}
