package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/meshdrop/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/meshdrop/internal/core/domain"
)

func newTestInspector(parser *mockParser, source *mockSource) (*Inspector, *memory.ObjectStore) {
	objects := memory.NewObjectStore()
	return NewInspector(source, objects, parser, domain.DefaultAppSettings().Decoder), objects
}

func TestInspector_Inspect(t *testing.T) {
	source := &mockSource{files: duckFiles()}
	inspector, objects := newTestInspector(&mockParser{uris: []string{"Duck0.bin", "DuckCM.png"}}, source)

	got, err := inspector.Inspect(context.Background(), "/models/DuckFolder")

	require.NoError(t, err)
	assert.Equal(t, []string{"/models/DuckFolder"}, source.dirs)
	assert.Equal(t, "DuckFolder/Duck.gltf", got.Selection.Root)
	assert.Equal(t, 3, got.Selection.FileCount)
	require.Len(t, got.Files, 3)
	assert.Equal(t, "DuckFolder/Duck.gltf", got.Files[0].Path)
	assert.Equal(t, int64(2), got.Files[0].Size)

	require.NotNil(t, got.Model)
	assert.Equal(t, "Duck.gltf", got.Model.Name)
	assert.Len(t, got.Model.Assets, 2)

	// Nothing outlives the inspection.
	assert.Equal(t, 0, objects.Len())
}

func TestInspector_ParseFailureKeepsSelection(t *testing.T) {
	source := &mockSource{files: duckFiles()}
	inspector, objects := newTestInspector(&mockParser{err: errors.New("bad json")}, source)

	got, err := inspector.Inspect(context.Background(), "/models/DuckFolder")

	assert.ErrorIs(t, err, domain.ErrParseFailure)
	require.NotNil(t, got)
	assert.Nil(t, got.Model)
	assert.Len(t, got.Files, 3)
	assert.Equal(t, 0, objects.Len())
}

func TestInspector_Errors(t *testing.T) {
	t.Run("no source", func(t *testing.T) {
		inspector, _ := newTestInspector(&mockParser{}, nil)
		inspector.source = nil
		_, err := inspector.Inspect(context.Background(), "/x")
		assert.Error(t, err)
	})

	t.Run("read failure", func(t *testing.T) {
		inspector, _ := newTestInspector(&mockParser{}, &mockSource{err: domain.ErrNotFound})
		_, err := inspector.Inspect(context.Background(), "/x")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("no manifest", func(t *testing.T) {
		source := &mockSource{files: []domain.SelectedFile{file("a/readme.txt", "hi")}}
		inspector, _ := newTestInspector(&mockParser{}, source)
		got, err := inspector.Inspect(context.Background(), "/x")
		assert.ErrorIs(t, err, domain.ErrInvalidSelection)
		assert.Nil(t, got)
	})
}
