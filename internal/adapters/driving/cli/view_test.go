package cli

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/meshdrop/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/meshdrop/internal/adapters/driving/web"
	"github.com/custodia-labs/meshdrop/internal/core/domain"
)

func viewServices(t *testing.T, viewer *mockViewer) *Services {
	t.Helper()
	server, err := web.NewServer(&web.Ports{
		Viewer:  viewer,
		Objects: memory.NewObjectStore(),
	}, web.Config{RescaleRate: 30})
	require.NoError(t, err)
	return &Services{Viewer: viewer, Server: server, Settings: newMockSettings()}
}

// runFor executes args with a context that ends after d.
func runFor(t *testing.T, d time.Duration, services *Services, args ...string) (string, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	return execute(t, ctx, services, args...)
}

func TestViewCmd_ServesUntilCancelled(t *testing.T) {
	viewer := &mockViewer{}

	out, err := runFor(t, 200*time.Millisecond, viewServices(t, viewer), "view", "--addr", "127.0.0.1:0")

	require.NoError(t, err)
	assert.Contains(t, out, "Viewer: http://127.0.0.1:")
	assert.Empty(t, viewer.Folders())
}

func TestViewCmd_SelectsFolder(t *testing.T) {
	viewer := &mockViewer{outcome: domain.LoadOutcome{
		Generation: 1,
		Model:      &domain.LoadedModel{Name: "Duck.gltf", Assets: make([]domain.AssetRef, 2)},
	}}

	out, err := runFor(t, 200*time.Millisecond, viewServices(t, viewer), "view", "--addr", "127.0.0.1:0", "./Duck")

	require.NoError(t, err)
	assert.Equal(t, []string{"./Duck"}, viewer.Folders())
	assert.Contains(t, out, "Loaded Duck.gltf (2 assets)")
}

func TestViewCmd_ReportsLoadFailure(t *testing.T) {
	viewer := &mockViewer{outcome: domain.LoadOutcome{Generation: 1, Err: errors.New("bad json")}}

	out, err := runFor(t, 200*time.Millisecond, viewServices(t, viewer), "view", "--addr", "127.0.0.1:0", "./Duck")

	require.NoError(t, err)
	assert.Contains(t, out, "Load failed: bad json")
}

func TestViewCmd_SelectionRejected(t *testing.T) {
	viewer := &mockViewer{selectErr: domain.ErrInvalidSelection}

	_, err := runFor(t, 5*time.Second, viewServices(t, viewer), "view", "--addr", "127.0.0.1:0", "./empty")

	assert.ErrorIs(t, err, domain.ErrInvalidSelection)
}

func TestViewCmd_Watch(t *testing.T) {
	viewer := &mockViewer{}
	reloader := &mockReloader{}
	services := viewServices(t, viewer)
	services.Reloader = reloader

	_, err := runFor(t, 200*time.Millisecond, services, "view", "--addr", "127.0.0.1:0", "--watch", "./Duck")

	require.NoError(t, err)
	assert.Equal(t, []string{"./Duck"}, reloader.Dirs())
}

func TestViewCmd_PanelSkippedWithoutTerminal(t *testing.T) {
	original := isTerminal
	isTerminal = func() bool { return false }
	defer func() { isTerminal = original }()

	_, err := runFor(t, 200*time.Millisecond, viewServices(t, &mockViewer{}), "view", "--addr", "127.0.0.1:0", "--tui")

	assert.NoError(t, err)
}

func TestViewCmd_Errors(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		_, err := runFor(t, time.Second, nil, "view")
		assert.EqualError(t, err, "viewer not configured")
	})

	t.Run("watch without folder", func(t *testing.T) {
		_, err := runFor(t, time.Second, viewServices(t, &mockViewer{}), "view", "--watch")
		assert.EqualError(t, err, "--watch needs a folder")
	})

	t.Run("address in use", func(t *testing.T) {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		defer ln.Close()

		_, err = runFor(t, time.Second, viewServices(t, &mockViewer{}), "view", "--addr", ln.Addr().String())
		assert.ErrorContains(t, err, "listen on")
	})

	t.Run("too many args", func(t *testing.T) {
		_, err := runFor(t, time.Second, viewServices(t, &mockViewer{}), "view", "a", "b")
		assert.Error(t, err)
	})
}

func TestResolveAddr(t *testing.T) {
	defer SetServices(nil)

	SetServices(nil)
	addr, err := resolveAddr("")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAppSettings().Viewer.Addr, addr)

	settings := newMockSettings()
	settings.settings.Viewer.Addr = "127.0.0.1:9999"
	SetServices(&Services{Settings: settings})

	addr, err = resolveAddr("")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9999", addr)

	addr, err = resolveAddr("0.0.0.0:1")
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:1", addr)
}
