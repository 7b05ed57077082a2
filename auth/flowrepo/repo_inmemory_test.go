package flowrepo_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-login-server/auth/flowrepo"
)

func TestInMemoryRepo_UpsertAndGet(t *testing.T) {
	repo := flowrepo.NewInMemoryRepo()

	flow := &flowrepo.FlowState{
		State:     "abc123",
		ReturnURL: "/profile",
		CreatedAt: time.Now(),
	}
	require.NoError(t, repo.Upsert("session-1", flow))

	got, err := repo.Get("session-1")
	require.NoError(t, err)
	require.Equal(t, flow.State, got.State)
	require.Equal(t, flow.ReturnURL, got.ReturnURL)

	// Stored copy is isolated from later mutation of the original
	flow.State = "mutated"
	got, err = repo.Get("session-1")
	require.NoError(t, err)
	require.Equal(t, "abc123", got.State)
}

func TestInMemoryRepo_UpsertReplaces(t *testing.T) {
	repo := flowrepo.NewInMemoryRepo()

	require.NoError(t, repo.Upsert("session-1", &flowrepo.FlowState{State: "first"}))
	require.NoError(t, repo.Upsert("session-1", &flowrepo.FlowState{State: "second"}))

	got, err := repo.Get("session-1")
	require.NoError(t, err)
	require.Equal(t, "second", got.State)
}

func TestInMemoryRepo_Validation(t *testing.T) {
	repo := flowrepo.NewInMemoryRepo()

	require.Error(t, repo.Upsert("", &flowrepo.FlowState{State: "s"}))
	require.Error(t, repo.Upsert("session-1", nil))

	_, err := repo.Get("")
	require.Error(t, err)

	require.Error(t, repo.Delete(""))
}

func TestInMemoryRepo_Delete(t *testing.T) {
	repo := flowrepo.NewInMemoryRepo()

	require.NoError(t, repo.Upsert("session-1", &flowrepo.FlowState{State: "abc123"}))
	require.NoError(t, repo.Delete("session-1"))

	_, err := repo.Get("session-1")
	require.Error(t, err)

	// Deleting an absent flow is not an error
	require.NoError(t, repo.Delete("session-1"))
}
