package mcp

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/meshdrop/internal/core/domain"
)

func duck() *domain.LoadedModel {
	return &domain.LoadedModel{
		ID:         "m1",
		Name:       "duck.gltf",
		Generation: 1,
		Kind:       domain.ContentText,
		Scale:      domain.Uniform(1),
		Summary:    domain.ModelSummary{Version: "2.0", Meshes: 1},
		Assets:     []domain.AssetRef{{URI: "duck.bin", Resolved: "/objects/x", Kind: domain.AssetBuffer}},
	}
}

func TestServer_handleSelectFolder(t *testing.T) {
	ctx := context.Background()

	t.Run("returns immediately without wait", func(t *testing.T) {
		viewer := &mockViewerService{
			block: true,
			status: domain.ViewerStatus{
				State:      domain.LoadReading,
				Generation: 1,
				Selection:  &domain.SelectionSummary{Root: "duck/duck.gltf", FileCount: 3},
			},
		}
		server, err := NewServer(&Ports{Viewer: viewer})
		require.NoError(t, err)

		_, output, err := server.handleSelectFolder(ctx, nil, SelectFolderInput{Path: "/models/duck"})

		require.NoError(t, err)
		assert.Equal(t, []string{"/models/duck"}, viewer.folders)
		assert.Equal(t, uint64(1), output.Generation)
		assert.Equal(t, "duck/duck.gltf", output.Root)
		assert.Equal(t, 3, output.FileCount)
		assert.Equal(t, "reading", output.State)
		assert.Nil(t, output.Model)
	})

	t.Run("waits for the loaded model", func(t *testing.T) {
		viewer := &mockViewerService{outcome: domain.LoadOutcome{Generation: 1, Model: duck()}}
		server, err := NewServer(&Ports{Viewer: viewer})
		require.NoError(t, err)

		_, output, err := server.handleSelectFolder(ctx, nil, SelectFolderInput{Path: "/models/duck", Wait: true})

		require.NoError(t, err)
		assert.Equal(t, "ready", output.State)
		require.NotNil(t, output.Model)
		assert.Equal(t, "m1", output.Model.ID)
		assert.Equal(t, 1.0, output.Model.Scale)
		assert.Len(t, output.Model.Assets, 1)
	})

	t.Run("wait reports load failure", func(t *testing.T) {
		viewer := &mockViewerService{outcome: domain.LoadOutcome{
			Generation: 2,
			Err:        fmt.Errorf("%w: tex.png not found", domain.ErrParseFailure),
		}}
		server, err := NewServer(&Ports{Viewer: viewer})
		require.NoError(t, err)

		_, output, err := server.handleSelectFolder(ctx, nil, SelectFolderInput{Path: "/m", Wait: true})

		require.NoError(t, err)
		assert.Equal(t, "failed", output.State)
		assert.Contains(t, output.Error, "tex.png")
	})

	t.Run("wait reports superseded load", func(t *testing.T) {
		viewer := &mockViewerService{outcome: domain.LoadOutcome{Generation: 1, Stale: true}}
		server, err := NewServer(&Ports{Viewer: viewer})
		require.NoError(t, err)

		_, output, err := server.handleSelectFolder(ctx, nil, SelectFolderInput{Path: "/m", Wait: true})

		require.NoError(t, err)
		assert.Equal(t, "superseded", output.State)
	})

	t.Run("wait honours cancellation", func(t *testing.T) {
		viewer := &mockViewerService{block: true}
		server, err := NewServer(&Ports{Viewer: viewer})
		require.NoError(t, err)

		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, _, err = server.handleSelectFolder(cancelled, nil, SelectFolderInput{Path: "/m", Wait: true})

		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("requires path", func(t *testing.T) {
		server, err := NewServer(&Ports{Viewer: &mockViewerService{}})
		require.NoError(t, err)

		_, _, err = server.handleSelectFolder(ctx, nil, SelectFolderInput{})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("returns selection error", func(t *testing.T) {
		viewer := &mockViewerService{selectErr: domain.ErrInvalidSelection}
		server, err := NewServer(&Ports{Viewer: viewer})
		require.NoError(t, err)

		_, _, err = server.handleSelectFolder(ctx, nil, SelectFolderInput{Path: "/empty"})

		assert.ErrorIs(t, err, domain.ErrInvalidSelection)
	})
}

func TestServer_handleRescale(t *testing.T) {
	ctx := context.Background()

	t.Run("applies to latest model", func(t *testing.T) {
		viewer := &mockViewerService{status: domain.ViewerStatus{Model: duck()}}
		server, err := NewServer(&Ports{Viewer: viewer})
		require.NoError(t, err)

		_, output, err := server.handleRescale(ctx, nil, RescaleInput{Factor: 2})

		require.NoError(t, err)
		assert.Equal(t, []float64{2}, viewer.rescaled)
		assert.True(t, output.Applied)
		assert.Equal(t, "m1", output.ModelID)
		assert.Equal(t, 2.0, output.Scale)
	})

	t.Run("no model is a no-op", func(t *testing.T) {
		server, err := NewServer(&Ports{Viewer: &mockViewerService{}})
		require.NoError(t, err)

		_, output, err := server.handleRescale(ctx, nil, RescaleInput{Factor: 2})

		require.NoError(t, err)
		assert.False(t, output.Applied)
	})

	t.Run("returns rescale error", func(t *testing.T) {
		viewer := &mockViewerService{rescaleErr: errors.New("out of bounds")}
		server, err := NewServer(&Ports{Viewer: viewer})
		require.NoError(t, err)

		_, _, err = server.handleRescale(ctx, nil, RescaleInput{Factor: 99})

		assert.EqualError(t, err, "out of bounds")
	})
}

func TestServer_handleStatus(t *testing.T) {
	viewer := &mockViewerService{status: domain.ViewerStatus{
		State:      domain.LoadReady,
		Generation: 4,
		Models:     2,
		Selection:  &domain.SelectionSummary{Root: "duck/duck.gltf"},
		Model:      duck(),
		Scale:      domain.DefaultAppSettings().Scale,
	}}
	server, err := NewServer(&Ports{Viewer: viewer})
	require.NoError(t, err)

	_, output, err := server.handleStatus(context.Background(), nil, StatusInput{})

	require.NoError(t, err)
	assert.Equal(t, "ready", output.State)
	assert.Equal(t, uint64(4), output.Generation)
	assert.Equal(t, 2, output.Models)
	assert.Equal(t, "duck/duck.gltf", output.Root)
	require.NotNil(t, output.Model)
	assert.Equal(t, "duck.gltf", output.Model.Name)
	assert.Equal(t, 0.05, output.ScaleMin)
	assert.Equal(t, 5.0, output.ScaleMax)
}
