package principal_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-login-server/internal/errors"
	"github.com/jrsteele09/go-login-server/principal"
)

func validClaims() principal.Claims {
	return principal.Claims{
		Subject:       "42",
		Email:         "a@x.com",
		EmailVerified: true,
		Name:          "A",
		Picture:       "http://img",
	}
}

func TestFromClaims(t *testing.T) {
	t.Run("valid profile", func(t *testing.T) {
		p, err := principal.FromClaims(principal.ProviderGoogle, validClaims())
		require.NoError(t, err)
		require.Equal(t, &principal.Principal{
			ExternalID:  "42",
			Email:       "a@x.com",
			DisplayName: "A",
			Provider:    principal.ProviderGoogle,
			AvatarURL:   "http://img",
		}, p)
	})

	t.Run("missing subject", func(t *testing.T) {
		claims := validClaims()
		claims.Subject = ""
		_, err := principal.FromClaims(principal.ProviderGoogle, claims)
		require.ErrorIs(t, err, errors.ErrAuthenticationFailed)
	})

	t.Run("missing email", func(t *testing.T) {
		claims := validClaims()
		claims.Email = ""
		_, err := principal.FromClaims(principal.ProviderGoogle, claims)
		require.ErrorIs(t, err, errors.ErrAuthenticationFailed)
	})

	t.Run("unverified email", func(t *testing.T) {
		claims := validClaims()
		claims.EmailVerified = false
		_, err := principal.FromClaims(principal.ProviderGoogle, claims)
		require.ErrorIs(t, err, errors.ErrAuthenticationFailed)
	})

	t.Run("avatar is optional", func(t *testing.T) {
		claims := validClaims()
		claims.Picture = ""
		p, err := principal.FromClaims(principal.ProviderGoogle, claims)
		require.NoError(t, err)
		require.Empty(t, p.AvatarURL)
	})
}

func TestToUserResponse(t *testing.T) {
	t.Run("full profile", func(t *testing.T) {
		p, err := principal.FromClaims(principal.ProviderGoogle, validClaims())
		require.NoError(t, err)

		body, err := json.Marshal(p.ToUserResponse())
		require.NoError(t, err)
		require.JSONEq(t, `{"id":"42","email":"a@x.com","name":"A","provider":"google","avatarUrl":"http://img"}`, string(body))
	})

	t.Run("avatar omitted when empty", func(t *testing.T) {
		claims := validClaims()
		claims.Picture = ""
		p, err := principal.FromClaims(principal.ProviderGoogle, claims)
		require.NoError(t, err)

		body, err := json.Marshal(p.ToUserResponse())
		require.NoError(t, err)
		require.JSONEq(t, `{"id":"42","email":"a@x.com","name":"A","provider":"google"}`, string(body))
	})
}
