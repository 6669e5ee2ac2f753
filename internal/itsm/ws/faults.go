package ws

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// FaultKind is the typed taxonomy of low-level transport failures. It
// determines whether the caller may retry.
type FaultKind int

const (
	// FaultUnclassified covers everything the classifier cannot name.
	// Non-retryable by default.
	FaultUnclassified FaultKind = iota

	// FaultUnauthorized is an HTTP 401 from the endpoint. Reported as a
	// communication error so the caller can decide on retry.
	FaultUnauthorized

	// FaultTimeout is an HTTP 408 or a socket-level timeout.
	FaultTimeout

	// FaultProtocol is a structured fault payload from the remote service.
	// Surfaced as-is; the remote system gives no machine-actionable detail.
	FaultProtocol
)

func (k FaultKind) String() string {
	switch k {
	case FaultUnauthorized:
		return "UNAUTHORIZED"
	case FaultTimeout:
		return "TIMEOUT"
	case FaultProtocol:
		return "PROTOCOL"
	default:
		return "UNCLASSIFIED"
	}
}

// Fault is a classified transport failure.
type Fault struct {
	Kind       FaultKind
	Code       string // remote fault code, protocol faults only
	Message    string
	HTTPStatus int
	cause      error
}

func (f *Fault) Error() string {
	if f.Code != "" {
		return fmt.Sprintf("transport fault %s [%s]: %s", f.Kind, f.Code, f.Message)
	}
	return fmt.Sprintf("transport fault %s: %s", f.Kind, f.Message)
}

func (f *Fault) Unwrap() error {
	return f.cause
}

// Retryable reports whether the failure is worth retrying from the caller's
// point of view. The client itself never retries: it cannot tell whether the
// remote side effect already happened.
func (f *Fault) Retryable() bool {
	return f.Kind == FaultUnauthorized || f.Kind == FaultTimeout
}

// AsFault extracts a Fault from an error chain.
func AsFault(err error) (*Fault, bool) {
	var f *Fault
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// classifyError maps a failed HTTP round trip onto the fault taxonomy.
func classifyError(err error) *Fault {
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return &Fault{Kind: FaultTimeout, Message: err.Error(), cause: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &Fault{Kind: FaultTimeout, Message: err.Error(), cause: err}
	}
	return &Fault{Kind: FaultUnclassified, Message: err.Error(), cause: err}
}

// classifyHTTPStatus maps a non-success HTTP status onto the fault taxonomy.
func classifyHTTPStatus(status int) *Fault {
	switch status {
	case http.StatusUnauthorized:
		return &Fault{Kind: FaultUnauthorized, Message: "Unauthorized", HTTPStatus: status}
	case http.StatusRequestTimeout:
		return &Fault{Kind: FaultTimeout, Message: "Timeout", HTTPStatus: status}
	default:
		return &Fault{
			Kind:       FaultUnclassified,
			Message:    fmt.Sprintf("endpoint returned HTTP status %d", status),
			HTTPStatus: status,
		}
	}
}
