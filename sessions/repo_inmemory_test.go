package sessions_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-login-server/internal/errors"
	"github.com/jrsteele09/go-login-server/principal"
	"github.com/jrsteele09/go-login-server/sessions"
)

const sessionLifetime = 24 * time.Hour

func testPrincipal() *principal.Principal {
	return &principal.Principal{
		ExternalID:  "42",
		Email:       "a@x.com",
		DisplayName: "A",
		Provider:    principal.ProviderGoogle,
		AvatarURL:   "http://img",
	}
}

func TestInMemoryRepo_Create(t *testing.T) {
	repo := sessions.NewInMemoryRepo(sessionLifetime)

	first, err := repo.Create()
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)
	require.False(t, first.Authenticated())
	require.Equal(t, sessionLifetime, first.ExpiresAt.Sub(first.CreatedAt))

	second, err := repo.Create()
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)
}

func TestInMemoryRepo_Get(t *testing.T) {
	t.Run("unknown id", func(t *testing.T) {
		repo := sessions.NewInMemoryRepo(sessionLifetime)
		_, err := repo.Get("no-such-session")
		require.ErrorIs(t, err, errors.ErrSessionNotFound)
	})

	t.Run("empty id", func(t *testing.T) {
		repo := sessions.NewInMemoryRepo(sessionLifetime)
		_, err := repo.Get("")
		require.ErrorIs(t, err, errors.ErrSessionNotFound)
	})

	t.Run("live session round trip", func(t *testing.T) {
		repo := sessions.NewInMemoryRepo(sessionLifetime)
		created, err := repo.Create()
		require.NoError(t, err)

		got, err := repo.Get(created.ID)
		require.NoError(t, err)
		require.Equal(t, created.ID, got.ID)
		require.Nil(t, got.Principal)
	})

	t.Run("expired session is lazily evicted", func(t *testing.T) {
		now := time.Now()
		repo := sessions.NewInMemoryRepo(sessionLifetime, sessions.WithNowTime(func() time.Time { return now }))

		created, err := repo.Create()
		require.NoError(t, err)
		require.Equal(t, 1, repo.Len())

		now = now.Add(sessionLifetime) // exactly at expiry counts as expired
		_, err = repo.Get(created.ID)
		require.ErrorIs(t, err, errors.ErrSessionNotFound)
		require.Equal(t, 0, repo.Len())
	})
}

func TestInMemoryRepo_Attach(t *testing.T) {
	t.Run("attaches principal to live session", func(t *testing.T) {
		repo := sessions.NewInMemoryRepo(sessionLifetime)
		created, err := repo.Create()
		require.NoError(t, err)

		require.NoError(t, repo.Attach(created.ID, testPrincipal()))

		got, err := repo.Get(created.ID)
		require.NoError(t, err)
		require.True(t, got.Authenticated())
		require.Equal(t, "42", got.Principal.ExternalID)
	})

	t.Run("unknown session", func(t *testing.T) {
		repo := sessions.NewInMemoryRepo(sessionLifetime)
		err := repo.Attach("no-such-session", testPrincipal())
		require.ErrorIs(t, err, errors.ErrSessionNotFound)
	})

	t.Run("after expiry", func(t *testing.T) {
		now := time.Now()
		repo := sessions.NewInMemoryRepo(sessionLifetime, sessions.WithNowTime(func() time.Time { return now }))

		created, err := repo.Create()
		require.NoError(t, err)

		now = now.Add(sessionLifetime + time.Minute)
		err = repo.Attach(created.ID, testPrincipal())
		require.ErrorIs(t, err, errors.ErrSessionNotFound)
	})

	t.Run("re-login replaces the principal", func(t *testing.T) {
		repo := sessions.NewInMemoryRepo(sessionLifetime)
		created, err := repo.Create()
		require.NoError(t, err)

		require.NoError(t, repo.Attach(created.ID, testPrincipal()))

		replacement := testPrincipal()
		replacement.DisplayName = "B"
		require.NoError(t, repo.Attach(created.ID, replacement))

		got, err := repo.Get(created.ID)
		require.NoError(t, err)
		require.Equal(t, "B", got.Principal.DisplayName)
	})
}

func TestInMemoryRepo_Destroy(t *testing.T) {
	repo := sessions.NewInMemoryRepo(sessionLifetime)
	created, err := repo.Create()
	require.NoError(t, err)

	require.NoError(t, repo.Destroy(created.ID))
	_, err = repo.Get(created.ID)
	require.ErrorIs(t, err, errors.ErrSessionNotFound)

	// Destroying an already-absent session is not an error
	require.NoError(t, repo.Destroy(created.ID))
	require.NoError(t, repo.Destroy("never-existed"))
}

func TestInMemoryRepo_DeleteExpired(t *testing.T) {
	now := time.Now()
	repo := sessions.NewInMemoryRepo(sessionLifetime, sessions.WithNowTime(func() time.Time { return now }))

	expired, err := repo.Create()
	require.NoError(t, err)

	now = now.Add(sessionLifetime + time.Minute)
	live, err := repo.Create()
	require.NoError(t, err)

	removed := repo.DeleteExpired(now)
	require.Equal(t, 1, removed)

	_, err = repo.Get(expired.ID)
	require.ErrorIs(t, err, errors.ErrSessionNotFound)
	_, err = repo.Get(live.ID)
	require.NoError(t, err)
}

func TestInMemoryRepo_ConcurrentAccess(t *testing.T) {
	repo := sessions.NewInMemoryRepo(sessionLifetime)
	created, err := repo.Create()
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			_ = repo.Attach(created.ID, testPrincipal())
		}()
		go func() {
			defer wg.Done()
			_, _ = repo.Get(created.ID)
		}()
		go func() {
			defer wg.Done()
			_ = repo.Destroy(created.ID)
		}()
	}
	wg.Wait()

	// Whatever interleaving happened, destroying again must still be safe
	require.NoError(t, repo.Destroy(created.ID))
}
