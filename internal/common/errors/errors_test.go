package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name      string
		err       *StandardError
		wantCode  ErrorCode
		retryable bool
	}{
		{"configuration", NewConfigurationError("ws_url missing"), ErrCodeConfigurationInvalid, false},
		{"unauthorized", NewUnauthorizedError("401"), ErrCodeUnauthorized, true},
		{"timeout", NewTimeoutError("deadline exceeded"), ErrCodeRequestTimeout, true},
		{"protocol fault", NewProtocolFaultError("soap:Server", "boom"), ErrCodeProtocolFault, false},
		{"communication", NewCommunicationError("connection refused"), ErrCodeCommunicationFailed, false},
		{"remote operation", NewRemoteOperationError("entry does not exist"), ErrCodeRemoteOperationError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, tt.err.Code)
			assert.Equal(t, tt.retryable, tt.err.Retryable)
			assert.False(t, tt.err.Timestamp.IsZero())
		})
	}
}

func TestRemoteOperationError_KeepsMessageVerbatim(t *testing.T) {
	err := NewRemoteOperationError("Fehler: Eintrag existiert nicht.")
	assert.Equal(t, "Fehler: Eintrag existiert nicht.", err.Details)
}

func TestProtocolFaultError_Details(t *testing.T) {
	err := NewProtocolFaultError("soap:Server", "profile not found")
	assert.Equal(t, "soap:Server: profile not found", err.Details)
}

func TestWithCause_Unwrap(t *testing.T) {
	cause := fmt.Errorf("dial tcp: connection refused")
	err := NewCommunicationError("call failed").WithCause(cause)

	assert.True(t, stderrors.Is(err, cause))
	assert.Equal(t, cause, err.Unwrap())
}

func TestAsStandardError(t *testing.T) {
	inner := NewTimeoutError("slow endpoint")
	wrapped := fmt.Errorf("sending ticket: %w", inner)

	se, ok := AsStandardError(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrCodeRequestTimeout, se.Code)

	_, ok = AsStandardError(fmt.Errorf("plain"))
	assert.False(t, ok)
}

func TestPredicates(t *testing.T) {
	t.Run("retryable", func(t *testing.T) {
		assert.True(t, IsRetryable(NewTimeoutError("t")))
		assert.True(t, IsRetryable(NewUnauthorizedError("u")))
		assert.False(t, IsRetryable(NewRemoteOperationError("r")))
		assert.False(t, IsRetryable(fmt.Errorf("plain")))
	})

	t.Run("communication", func(t *testing.T) {
		assert.True(t, IsCommunication(NewUnauthorizedError("u")))
		assert.True(t, IsCommunication(NewTimeoutError("t")))
		assert.True(t, IsCommunication(NewProtocolFaultError("c", "s")))
		assert.True(t, IsCommunication(NewCommunicationError("c")))
		assert.False(t, IsCommunication(NewConfigurationError("c")))
		assert.False(t, IsCommunication(NewRemoteOperationError("r")))
	})

	t.Run("configuration", func(t *testing.T) {
		assert.True(t, IsConfiguration(NewConfigurationError("c")))
		assert.False(t, IsConfiguration(NewTimeoutError("t")))
	})
}
