package domain

import (
	"time"
	"unicode/utf8"
)

// ContentKind selects how the root manifest is read.
type ContentKind string

const (
	// ContentText is a JSON .gltf manifest.
	ContentText ContentKind = "text"

	// ContentBinary is a .glb container.
	ContentBinary ContentKind = "binary"
)

// ManifestContent is the root manifest after reading.
type ManifestContent struct {
	Name string
	Kind ContentKind
	Data []byte
}

// Text returns the content as a string.
// Only meaningful for ContentText, and only when the bytes are valid UTF-8.
func (c ManifestContent) Text() (string, bool) {
	if c.Kind != ContentText || !utf8.Valid(c.Data) {
		return "", false
	}
	return string(c.Data), true
}

// Vec3 is a three component vector.
type Vec3 [3]float64

// Uniform returns a vector with all components set to f.
func Uniform(f float64) Vec3 {
	return Vec3{f, f, f}
}

// AssetKind classifies an external URI referenced by a manifest.
type AssetKind string

const (
	AssetBuffer AssetKind = "buffer"
	AssetImage  AssetKind = "image"
)

// Resolution describes how the resolver handled a URI.
type Resolution string

const (
	// ResolvedObject means the URI was rewritten to an object reference.
	ResolvedObject Resolution = "object"

	// ResolvedDecoder means the URI is a decoder asset passed through.
	ResolvedDecoder Resolution = "decoder"

	// ResolvedMissing means nothing matched and the URI was passed through.
	ResolvedMissing Resolution = "missing"
)

// AssetRef is one row of a model's asset resolution table.
type AssetRef struct {
	URI        string     `json:"uri"`
	Resolved   string     `json:"resolved"`
	Kind       AssetKind  `json:"kind"`
	Resolution Resolution `json:"resolution"`
	Bytes      int        `json:"bytes,omitempty"`
	Width      int        `json:"width,omitempty"`
	Height     int        `json:"height,omitempty"`
	Format     string     `json:"format,omitempty"`
}

// ModelSummary counts the main glTF collections.
type ModelSummary struct {
	Version    string   `json:"version"`
	Generator  string   `json:"generator,omitempty"`
	Scenes     int      `json:"scenes"`
	Nodes      int      `json:"nodes"`
	Meshes     int      `json:"meshes"`
	Materials  int      `json:"materials"`
	Textures   int      `json:"textures"`
	Images     int      `json:"images"`
	Buffers    int      `json:"buffers"`
	Animations int      `json:"animations"`
	Extensions []string `json:"extensions,omitempty"`
}

// ParsedModel is what a ManifestParser returns.
type ParsedModel struct {
	Summary ModelSummary
	Assets  []AssetRef

	// Handle is the parser's own document, opaque to the core.
	Handle any
}

// LoadedModel is a parsed model registered in the scene.
type LoadedModel struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	RootPath   string       `json:"root_path"`
	Generation uint64       `json:"generation"`
	Kind       ContentKind  `json:"kind"`
	Manifest   string       `json:"manifest"`
	Assets     []AssetRef   `json:"assets"`
	Summary    ModelSummary `json:"summary"`
	Scale      Vec3         `json:"scale"`
	LoadedAt   time.Time    `json:"loaded_at"`

	Handle any `json:"-"`
}

// AssetMap returns the URI to resolved reference mapping the viewport
// applies when its loader requests assets.
func (m *LoadedModel) AssetMap() map[string]string {
	out := make(map[string]string, len(m.Assets))
	for _, a := range m.Assets {
		out[a.URI] = a.Resolved
	}
	return out
}

// LoadState is a step of the ingestion state machine.
type LoadState string

const (
	LoadIdle    LoadState = "idle"
	LoadReading LoadState = "reading"
	LoadParsing LoadState = "parsing"
	LoadReady   LoadState = "ready"
	LoadFailed  LoadState = "failed"
)

// IsTerminal reports whether no further transition follows.
func (s LoadState) IsTerminal() bool {
	return s == LoadReady || s == LoadFailed
}

// LoadOutcome is delivered once per accepted selection.
type LoadOutcome struct {
	Generation uint64
	Model      *LoadedModel
	Err        error

	// Stale is set when a newer selection superseded this one;
	// the model was not added to the scene.
	Stale bool
}

// ViewerStatus is a snapshot of the viewer.
type ViewerStatus struct {
	State      LoadState         `json:"state"`
	Generation uint64            `json:"generation"`
	Selection  *SelectionSummary `json:"selection,omitempty"`
	Model      *LoadedModel      `json:"model,omitempty"`
	Models     int               `json:"models"`
	LastError  string            `json:"last_error,omitempty"`
	Scale      ScaleSettings     `json:"scale_bounds"`
}
