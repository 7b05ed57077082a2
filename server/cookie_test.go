package server

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSessionCookieCodec(t *testing.T) {
	codec := newSessionCookieCodec("test-session-secret", 3600)

	t.Run("round trip", func(t *testing.T) {
		value, err := codec.encode("session-123")
		require.NoError(t, err)
		require.NotEqual(t, "session-123", value) // never the bare id

		sessionID, err := codec.decode(value)
		require.NoError(t, err)
		require.Equal(t, "session-123", sessionID)
	})

	t.Run("garbage value", func(t *testing.T) {
		_, err := codec.decode("not-a-token")
		require.Error(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := newSessionCookieCodec("different-secret", 3600)
		value, err := other.encode("session-123")
		require.NoError(t, err)

		_, err = codec.decode(value)
		require.Error(t, err)
	})

	t.Run("empty session id claim", func(t *testing.T) {
		value, err := codec.encode("")
		require.NoError(t, err)

		_, err = codec.decode(value)
		require.Error(t, err)
	})
}
