package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/meshdrop/internal/core/domain"
)

func file(rel string, data string) domain.SelectedFile {
	name := rel
	for i := len(rel) - 1; i >= 0; i-- {
		if rel[i] == '/' {
			name = rel[i+1:]
			break
		}
	}
	return domain.SelectedFile{
		RelativePath: rel,
		Handle:       &domain.BytesFile{FileName: name, Data: []byte(data)},
	}
}

func TestIsManifestName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"Duck.gltf", true},
		{"duck.GLB", true},
		{"scene.Gltf", true},
		{"scene.bin", false},
		{"gltf", false},
		{"model.gltf.bak", false},
		{"texture.png", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsManifestName(tt.name))
		})
	}
}

func TestCollectSelection_FolderWithManifest(t *testing.T) {
	files := []domain.SelectedFile{
		file("DuckFolder/Duck.gltf", "{}"),
		file("DuckFolder/Duck0.bin", "bin"),
		file("DuckFolder/DuckCM.png", "png"),
	}

	sel, err := CollectSelection(files)

	require.NoError(t, err)
	assert.Len(t, sel.Files, 3)
	assert.Equal(t, "DuckFolder/Duck.gltf", sel.Root.Path)
	assert.Equal(t, "DuckFolder/", sel.RootPath())
	assert.Equal(t, "Duck.gltf", sel.Root.Name())
	assert.False(t, sel.Root.IsBinary())
	assert.Equal(t, uint64(0), sel.Generation)
}

func TestCollectSelection_FlatSelection(t *testing.T) {
	files := []domain.SelectedFile{
		file("model.glb", "glTF"),
	}

	sel, err := CollectSelection(files)

	require.NoError(t, err)
	assert.Equal(t, "model.glb", sel.Root.Path)
	assert.Equal(t, "", sel.RootPath())
	assert.True(t, sel.Root.IsBinary())
}

func TestCollectSelection_LastManifestWins(t *testing.T) {
	files := []domain.SelectedFile{
		file("pack/a.gltf", "{}"),
		file("pack/b.glb", "glTF"),
		file("pack/sub/c.gltf", "{}"),
	}

	sel, err := CollectSelection(files)

	require.NoError(t, err)
	assert.Equal(t, "pack/sub/c.gltf", sel.Root.Path)
	assert.Equal(t, "pack/sub/", sel.RootPath())
	assert.Len(t, sel.Files, 3)
}

func TestCollectSelection_NoManifest(t *testing.T) {
	files := []domain.SelectedFile{
		file("textures/a.png", "png"),
		file("textures/b.jpg", "jpg"),
	}

	sel, err := CollectSelection(files)

	assert.ErrorIs(t, err, domain.ErrInvalidSelection)
	assert.Nil(t, sel)
}

func TestCollectSelection_Empty(t *testing.T) {
	sel, err := CollectSelection(nil)

	assert.ErrorIs(t, err, domain.ErrInvalidSelection)
	assert.Nil(t, sel)
}

func TestCollectSelection_NilHandle(t *testing.T) {
	files := []domain.SelectedFile{{RelativePath: "a.gltf"}}

	_, err := CollectSelection(files)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCollectSelection_NormalisesPaths(t *testing.T) {
	files := []domain.SelectedFile{
		file(`Folder\Model.gltf`, "{}"),
		{RelativePath: "", Handle: &domain.BytesFile{FileName: "loose.bin"}},
	}

	sel, err := CollectSelection(files)

	require.NoError(t, err)
	assert.Contains(t, sel.Files, "Folder/Model.gltf")
	assert.Contains(t, sel.Files, "loose.bin")
	assert.Equal(t, "Folder/", sel.RootPath())
}

func TestCollectSelection_DuplicatePathLastWins(t *testing.T) {
	first := file("dir/scene.bin", "old")
	second := file("dir/scene.bin", "new")

	sel, err := CollectSelection([]domain.SelectedFile{file("dir/m.gltf", "{}"), first, second})

	require.NoError(t, err)
	assert.Same(t, second.Handle, sel.Files["dir/scene.bin"])
}
