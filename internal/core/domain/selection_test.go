package domain

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBytesFile(t *testing.T) {
	f := &BytesFile{FileName: "tex.png", Data: []byte("png!")}

	assert.Equal(t, "tex.png", f.Name())
	assert.Equal(t, int64(4), f.Size())

	rc, err := f.Open()
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "png!", string(data))
}

func TestCollectedFileSet_Paths(t *testing.T) {
	set := CollectedFileSet{
		"b/tex.png":    &BytesFile{FileName: "tex.png", Data: []byte("12")},
		"b/model.gltf": &BytesFile{FileName: "model.gltf", Data: []byte("{}")},
		"a.bin":        &BytesFile{FileName: "a.bin", Data: []byte("1234")},
	}

	assert.Equal(t, []string{"a.bin", "b/model.gltf", "b/tex.png"}, set.Paths())
	assert.Equal(t, int64(8), set.TotalSize())
}

func TestRootManifest(t *testing.T) {
	gltf := RootManifest{Path: "Duck/Duck.gltf", Dir: "Duck/"}
	glb := RootManifest{Path: "Duck.GLB"}

	assert.Equal(t, "Duck.gltf", gltf.Name())
	assert.False(t, gltf.IsBinary())
	assert.True(t, glb.IsBinary())
}

func TestSelection_Summary(t *testing.T) {
	sel := &Selection{
		Generation: 3,
		Files: CollectedFileSet{
			"Duck/Duck.gltf": &BytesFile{FileName: "Duck.gltf", Data: []byte("{}")},
		},
		Root: RootManifest{Path: "Duck/Duck.gltf", Dir: "Duck/"},
	}

	summary := sel.Summary()

	assert.Equal(t, uint64(3), summary.Generation)
	assert.Equal(t, "Duck/", summary.RootPath)
	assert.Equal(t, "Duck/", sel.RootPath())
	assert.Equal(t, 1, summary.FileCount)
	assert.Equal(t, int64(2), summary.TotalBytes)
}

func TestManifestContent_Text(t *testing.T) {
	text := ManifestContent{Kind: ContentText, Data: []byte(`{"asset":{}}`)}
	bin := ManifestContent{Kind: ContentBinary, Data: []byte("glTF")}

	s, ok := text.Text()
	assert.True(t, ok)
	assert.Equal(t, `{"asset":{}}`, s)

	_, ok = bin.Text()
	assert.False(t, ok)
}

func TestLoadedModel_AssetMap(t *testing.T) {
	m := &LoadedModel{Assets: []AssetRef{
		{URI: "./tex.png", Resolved: "/objects/1"},
		{URI: "scene.bin", Resolved: "/objects/2"},
	}}

	assert.Equal(t, map[string]string{
		"./tex.png": "/objects/1",
		"scene.bin": "/objects/2",
	}, m.AssetMap())
}

func TestLoadState_IsTerminal(t *testing.T) {
	assert.False(t, LoadIdle.IsTerminal())
	assert.False(t, LoadReading.IsTerminal())
	assert.False(t, LoadParsing.IsTerminal())
	assert.True(t, LoadReady.IsTerminal())
	assert.True(t, LoadFailed.IsTerminal())
}
