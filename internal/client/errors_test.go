package client

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestError_unwrapsToSentinel(t *testing.T) {
	tests := []struct {
		kind     Kind
		sentinel error
	}{
		{KindAuthentication, ErrAuthentication},
		{KindValidation, ErrValidation},
		{KindAuthorization, ErrAuthorization},
		{KindTransport, ErrTransport},
		{KindUnexpected, ErrUnexpected},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			err := fmt.Errorf("wrapped: %w", NewError(tt.kind, "boom"))
			require.ErrorIs(t, err, tt.sentinel)
			require.Equal(t, tt.kind, KindOf(err))
		})
	}
}

func TestError_keepsCause(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := WrapError(KindTransport, "backend down", cause)

	require.ErrorIs(t, err, cause)
	require.ErrorIs(t, err, ErrTransport)
	require.Equal(t, "backend down", err.Error())
}

func TestError_emptyMessageFallsBack(t *testing.T) {
	err := &Error{Kind: KindUnexpected}
	require.Equal(t, fallbackMessage, err.Error())
}

func TestKindOf_plainErrors(t *testing.T) {
	require.Equal(t, KindUnexpected, KindOf(errors.New("other")))
	require.Equal(t, KindValidation, KindOf(fmt.Errorf("bad: %w", ErrValidation)))
}

func TestStatusOfAndRedirect(t *testing.T) {
	err := &Error{Kind: KindAuthentication, Status: 401, RedirectToLogin: true}
	wrapped := fmt.Errorf("get cart: %w", err)

	require.Equal(t, 401, StatusOf(wrapped))
	require.True(t, RedirectsToLogin(wrapped))
	require.Zero(t, StatusOf(errors.New("x")))
	require.False(t, RedirectsToLogin(errors.New("x")))
}
