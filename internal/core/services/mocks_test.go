package services

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/custodia-labs/meshdrop/internal/core/domain"
	"github.com/custodia-labs/meshdrop/internal/core/ports/driven"
)

// mockParser resolves a fixed list of URIs and returns a model naming them.
type mockParser struct {
	mu       sync.Mutex
	uris     []string
	err      error
	calls    int
	contents []domain.ManifestContent
	bases    []string

	// gate, when set, blocks Parse until a value arrives for the call.
	gate chan struct{}
}

func (m *mockParser) Parse(
	ctx context.Context,
	content domain.ManifestContent,
	basePath string,
	assets driven.AssetSource,
) (*domain.ParsedModel, error) {
	m.mu.Lock()
	m.calls++
	m.contents = append(m.contents, content)
	m.bases = append(m.bases, basePath)
	gate, uris, parseErr := m.gate, m.uris, m.err
	m.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if parseErr != nil {
		return nil, parseErr
	}

	parsed := &domain.ParsedModel{Summary: domain.ModelSummary{Version: "2.0", Meshes: 1}}
	for _, uri := range uris {
		if _, err := assets.Fetch(uri); err != nil {
			return nil, err
		}
		parsed.Assets = append(parsed.Assets, domain.AssetRef{
			URI:        uri,
			Resolved:   assets.Resolve(uri),
			Kind:       domain.AssetBuffer,
			Resolution: assets.Classify(uri),
		})
	}
	return parsed, nil
}

func (m *mockParser) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// failingHandle fails to open.
type failingHandle struct{ name string }

func (h *failingHandle) Name() string                 { return h.name }
func (h *failingHandle) Size() int64                  { return 0 }
func (h *failingHandle) Open() (io.ReadCloser, error) { return nil, errors.New("permission denied") }

// mockSource returns fixed files for any directory.
type mockSource struct {
	files []domain.SelectedFile
	err   error
	dirs  []string
}

func (s *mockSource) ReadSelection(_ context.Context, dir string) ([]domain.SelectedFile, error) {
	s.dirs = append(s.dirs, dir)
	return s.files, s.err
}
