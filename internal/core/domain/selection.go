package domain

import (
	"bytes"
	"io"
	"path"
	"sort"
	"strings"
)

// FileHandle is an opaque handle to the bytes of one selected file.
// Handles are read lazily; collecting a selection never opens them.
type FileHandle interface {
	// Name returns the base file name.
	Name() string

	// Size returns the file size in bytes.
	Size() int64

	// Open returns a reader over the file contents.
	Open() (io.ReadCloser, error)
}

// SelectedFile is one entry of a folder or file picker result.
type SelectedFile struct {
	// RelativePath is the path relative to the selection root,
	// slash separated, including the selected folder name.
	RelativePath string

	// Handle gives access to the file contents.
	Handle FileHandle
}

// BytesFile is an in-memory FileHandle.
type BytesFile struct {
	FileName string
	Data     []byte
}

// Name returns the file name.
func (f *BytesFile) Name() string { return f.FileName }

// Size returns the data length.
func (f *BytesFile) Size() int64 { return int64(len(f.Data)) }

// Open returns a reader over the data.
func (f *BytesFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.Data)), nil
}

// CollectedFileSet maps relative paths to file handles.
// It is built fresh for every selection and never updated in place.
type CollectedFileSet map[string]FileHandle

// Paths returns the collected paths in lexical order.
func (s CollectedFileSet) Paths() []string {
	paths := make([]string, 0, len(s))
	for p := range s {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// TotalSize returns the sum of all handle sizes.
func (s CollectedFileSet) TotalSize() int64 {
	var total int64
	for _, h := range s {
		total += h.Size()
	}
	return total
}

// RootManifest is the .gltf or .glb entry point of a selection.
type RootManifest struct {
	// Path is the manifest's key in the CollectedFileSet.
	Path string

	// Dir is the containing directory with a trailing slash,
	// empty for flat selections.
	Dir string

	// Handle gives access to the manifest bytes.
	Handle FileHandle
}

// Name returns the manifest file name.
func (m RootManifest) Name() string {
	return path.Base(m.Path)
}

// IsBinary reports whether the manifest is a binary .glb container.
func (m RootManifest) IsBinary() bool {
	return strings.HasSuffix(strings.ToLower(m.Path), ".glb")
}

// Selection is the value object produced by file collection.
// It travels through the load chain explicitly so that a newer
// selection can never mutate state an older load still reads.
type Selection struct {
	// Generation orders selections; newer selections have larger values.
	// Zero until the viewer accepts the selection.
	Generation uint64

	// Files is the collected path to handle mapping.
	Files CollectedFileSet

	// Root is the manifest to load.
	Root RootManifest
}

// RootPath returns the directory the parser resolves relative URIs against.
func (s *Selection) RootPath() string {
	return s.Root.Dir
}

// Summary returns a display-friendly description of the selection.
func (s *Selection) Summary() SelectionSummary {
	return SelectionSummary{
		Generation: s.Generation,
		Root:       s.Root.Path,
		RootPath:   s.Root.Dir,
		FileCount:  len(s.Files),
		TotalBytes: s.Files.TotalSize(),
	}
}

// SelectionSummary describes a selection without exposing handles.
type SelectionSummary struct {
	Generation uint64 `json:"generation"`
	Root       string `json:"root"`
	RootPath   string `json:"root_path"`
	FileCount  int    `json:"file_count"`
	TotalBytes int64  `json:"total_bytes"`
}

// InspectedFile is one entry of an inspection's collected set.
type InspectedFile struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// Inspection is a selection loaded without registering it in the scene.
type Inspection struct {
	Selection SelectionSummary `json:"selection"`
	Files     []InspectedFile  `json:"files"`
	Model     *LoadedModel     `json:"model,omitempty"`
}
