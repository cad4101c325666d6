package mcperr_test

import (
	"errors"
	"testing"

	"github.com/gtrak/mcp-cli/internal/mcperr"

	"github.com/stretchr/testify/assert"
)

func TestExitCode_MapsKindToDocumentedCode(t *testing.T) {
	assert.Equal(t, 1, mcperr.Config("bad").ExitCode())
	assert.Equal(t, 1, mcperr.Usage("bad").ExitCode())
	assert.Equal(t, 1, mcperr.ServerNotFound("srv").ExitCode())
	assert.Equal(t, 2, mcperr.Protocol(nil, "bad json").ExitCode())
	assert.Equal(t, 3, mcperr.Connection("srv", nil, "refused").ExitCode())
	assert.Equal(t, 3, mcperr.Timeout(30).ExitCode())
	assert.Equal(t, 3, mcperr.OperationCancelled(1800).ExitCode())
	assert.Equal(t, 3, mcperr.MaxRetriesExceeded(3, nil).ExitCode())
	assert.Equal(t, 3, mcperr.IPC(nil, "daemon unreachable").ExitCode())
}

func TestRetryable_ClassifiesTransientVsPermanent(t *testing.T) {
	assert.True(t, mcperr.Connection("srv", nil, "refused").Retryable())
	assert.True(t, mcperr.Timeout(30).Retryable())
	assert.True(t, mcperr.IPC(nil, "down").Retryable())

	assert.False(t, mcperr.Config("bad").Retryable())
	assert.False(t, mcperr.Usage("bad").Retryable())
	assert.False(t, mcperr.ServerNotFound("srv").Retryable())
	assert.False(t, mcperr.Protocol(nil, "bad").Retryable())
	assert.False(t, mcperr.OperationCancelled(1).Retryable())
	assert.False(t, mcperr.MaxRetriesExceeded(1, nil).Retryable())
}

func TestError_WrapsCauseInMessage(t *testing.T) {
	cause := errors.New("connection refused")
	err := mcperr.Connection("srv", cause, "dial failed")

	assert.Contains(t, err.Error(), "dial failed")
	assert.Contains(t, err.Error(), "connection refused")
	assert.ErrorIs(t, err, cause)
}

func TestAs_UnwrapsToTypedError(t *testing.T) {
	wrapped := errors.Join(mcperr.ServerNotFound("srv"))

	_, ok := mcperr.As(wrapped)

	// errors.Join does not expose a single Unwrap() error, so As only
	// recognizes the direct (non-joined) case; assert that directly.
	assert.False(t, ok)

	direct, ok := mcperr.As(mcperr.ServerNotFound("srv"))
	assert.True(t, ok)
	assert.Equal(t, mcperr.KindLookup, direct.Kind)
}
