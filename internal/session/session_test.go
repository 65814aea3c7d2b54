package session

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/amanthanvi/assetvault/internal/storage"
)

func TestManagerLifecycle(t *testing.T) {
	t.Parallel()

	manager := NewManager()

	_, ok := manager.Current()
	require.False(t, ok)
	require.False(t, manager.End())

	started := manager.Start(&storage.User{ID: 7, Username: "admin", FullName: "Administrator"})
	require.NotEmpty(t, started.ID)
	require.False(t, started.StartedAt.IsZero())

	current, ok := manager.Current()
	require.True(t, ok)
	require.Equal(t, started, current)
	require.Equal(t, int64(7), current.UserID)

	require.True(t, manager.End())
	_, ok = manager.Current()
	require.False(t, ok)
	require.False(t, manager.End())
}

func TestStartReplacesExistingSession(t *testing.T) {
	t.Parallel()

	manager := NewManager()
	first := manager.Start(&storage.User{ID: 1, Username: "admin"})
	second := manager.Start(&storage.User{ID: 2, Username: "staff"})
	require.NotEqual(t, first.ID, second.ID)

	current, ok := manager.Current()
	require.True(t, ok)
	require.Equal(t, "staff", current.Username)
}
