package apierrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMessage_RuleOrder(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		name string
		in   error
		want string
	}{
		{"api_error", NewHTTP("post not found", 404, []byte(`{"message":"post not found"}`)), "post not found"},
		{"api_error_wrapped", fmt.Errorf("client.PostByID: %w", NewHTTP("post not found", 404, nil)), "post not found"},
		{"api_error_empty_message", &APIError{Status: 500}, FallbackMessage},
		{"plain_error", errors.New("connection refused"), "connection refused"},
		{"nil", nil, FallbackMessage},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Message(tc.in))
		})
	}
}

func TestStatus(t *testing.T) {
	t.Parallel()

	require.Equal(t, 404, Status(NewHTTP("x", 404, nil)))
	require.Equal(t, 404, Status(fmt.Errorf("wrap: %w", NewHTTP("x", 404, nil))))
	require.Equal(t, 0, Status(New("network error")))
	require.Equal(t, 0, Status(errors.New("x")))
	require.Equal(t, 0, Status(nil))
}

func TestAPIError_Error(t *testing.T) {
	t.Parallel()

	require.Equal(t, "api error (status 502): bad gateway", NewHTTP("bad gateway", 502, nil).Error())
	require.Equal(t, "api error: network error", New("network error").Error())
}
