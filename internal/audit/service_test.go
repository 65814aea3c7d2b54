package audit

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/amanthanvi/assetvault/internal/storage"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "registry.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	service, err := NewService(store.Audit)
	require.NoError(t, err)
	return service
}

func TestRecordRequiresAction(t *testing.T) {
	t.Parallel()

	service := newTestService(t)
	err := service.Record(context.Background(), Event{Actor: "admin"})
	require.Error(t, err)
}

func TestRecordAndListWithDetails(t *testing.T) {
	t.Parallel()

	service := newTestService(t)
	ctx := context.Background()

	err := service.Record(ctx, Event{
		Action:   ActionAssetCreate,
		Actor:    "admin",
		TargetID: "42",
		Details:  map[string]string{"name": "Projector"},
	})
	require.NoError(t, err)

	err = service.Record(ctx, Event{Action: ActionLogout, Actor: "admin"})
	require.NoError(t, err)

	events, err := service.List(ctx, ActionAssetCreate, 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, "42", events[0].TargetID)
	require.JSONEq(t, `{"name":"Projector"}`, events[0].Details)

	all, err := service.List(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestNewServiceRejectsNilRepository(t *testing.T) {
	t.Parallel()

	_, err := NewService(nil)
	require.Error(t, err)
}
