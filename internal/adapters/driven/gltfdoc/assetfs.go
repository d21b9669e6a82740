package gltfdoc

import (
	"bytes"
	"errors"
	"io/fs"
	"path"
	"time"

	"github.com/custodia-labs/meshdrop/internal/core/ports/driven"
)

// assetFS exposes an AssetSource as a read-only fs.FS for the decoder.
type assetFS struct {
	assets   driven.AssetSource
	basePath string
}

var (
	_ fs.FS         = (*assetFS)(nil)
	_ fs.ReadFileFS = (*assetFS)(nil)
)

func (a *assetFS) uri(name string) string {
	if a.basePath == "" {
		return name
	}
	return path.Join(a.basePath, name)
}

// ReadFile fetches name through the asset source.
func (a *assetFS) ReadFile(name string) ([]byte, error) {
	data, err := a.assets.Fetch(a.uri(name))
	if err != nil {
		return nil, &fs.PathError{Op: "read", Path: name, Err: errors.Join(fs.ErrNotExist, err)}
	}
	return data, nil
}

// Open fetches name and wraps it as an in-memory file.
func (a *assetFS) Open(name string) (fs.File, error) {
	data, err := a.ReadFile(name)
	if err != nil {
		return nil, err
	}
	return &memFile{Reader: bytes.NewReader(data), name: path.Base(name), size: int64(len(data))}, nil
}

type memFile struct {
	*bytes.Reader
	name string
	size int64
}

func (f *memFile) Stat() (fs.FileInfo, error) { return f, nil }
func (f *memFile) Close() error               { return nil }

func (f *memFile) Name() string       { return f.name }
func (f *memFile) Size() int64        { return f.size }
func (f *memFile) Mode() fs.FileMode  { return 0o444 }
func (f *memFile) ModTime() time.Time { return time.Time{} }
func (f *memFile) IsDir() bool        { return false }
func (f *memFile) Sys() any           { return nil }
