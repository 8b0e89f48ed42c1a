package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindAuth, http.StatusUnauthorized},
		{KindNotFound, http.StatusNotFound},
		{KindValidation, http.StatusBadRequest},
		{KindInvalidArgument, http.StatusBadRequest},
		{KindInvalidSignature, http.StatusBadRequest},
		{KindQuotaExceeded, http.StatusForbidden},
		{KindConflict, http.StatusConflict},
		{KindUpstream, http.StatusBadGateway},
		{KindInternal, http.StatusInternalServerError},
		{Kind("unknown"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.kind), string(tt.kind))
	}
}

func TestKindOfWrapped(t *testing.T) {
	base := New(KindQuotaExceeded, "limit").WithCode("SCREENSHOT_LIMIT_REACHED").WithDetail("limit", 3)
	wrapped := fmt.Errorf("add screenshot: %w", base)

	assert.Equal(t, KindQuotaExceeded, KindOf(wrapped))
	ae, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, "SCREENSHOT_LIMIT_REACHED", ae.Code)
	assert.Equal(t, 3, ae.Details["limit"])

	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
	assert.False(t, Is(nil, KindInternal))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(KindUpstream, "payment provider unavailable", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection reset")
	assert.True(t, Retryable(err.Kind))
	assert.False(t, Retryable(KindInvalidSignature))
}
