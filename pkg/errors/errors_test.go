package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"configuration", Configuration("missing %s", "client_email"), http.StatusInternalServerError},
		{"provider", Provider("quota exceeded"), http.StatusInternalServerError},
		{"not found sentinel", ErrNotFound, http.StatusNotFound},
		{"wrapped method sentinel", fmt.Errorf("route: %w", ErrMethodNotAllowed), http.StatusMethodNotAllowed},
		{"timeout", ErrTimeout, http.StatusGatewayTimeout},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatusCode(tt.err))
		})
	}
}

func TestSentinelsSurviveWrapping(t *testing.T) {
	err := fmt.Errorf("realtime report: %w", Provider("permission denied"))

	assert.True(t, errors.Is(err, ErrProvider))
	assert.False(t, errors.Is(err, ErrConfiguration))
	assert.Equal(t, "permission denied", MessageOf(err))
}

func TestMessageOfPlainError(t *testing.T) {
	assert.Equal(t, "dial tcp: refused", MessageOf(errors.New("dial tcp: refused")))
}
