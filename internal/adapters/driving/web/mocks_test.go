package web

import (
	"context"
	"sync"

	"github.com/custodia-labs/meshdrop/internal/core/domain"
)

// mockViewer is a mock implementation of driving.ViewerService.
type mockViewer struct {
	mu         sync.Mutex
	selected   [][]domain.SelectedFile
	folders    []string
	rescaled   []float64
	outcome    domain.LoadOutcome
	selectErr  error
	rescaleErr error
	status     domain.ViewerStatus
	bounds     domain.ScaleSettings
}

func newMockViewer() *mockViewer {
	return &mockViewer{bounds: domain.DefaultAppSettings().Scale}
}

func (m *mockViewer) Select(_ context.Context, files []domain.SelectedFile) (<-chan domain.LoadOutcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.selectErr != nil {
		return nil, m.selectErr
	}
	m.selected = append(m.selected, files)
	out := make(chan domain.LoadOutcome, 1)
	out <- m.outcome
	close(out)
	return out, nil
}

func (m *mockViewer) SelectFolder(ctx context.Context, dir string) (<-chan domain.LoadOutcome, error) {
	m.mu.Lock()
	m.folders = append(m.folders, dir)
	m.mu.Unlock()
	return m.Select(ctx, nil)
}

func (m *mockViewer) Rescale(factor float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rescaleErr != nil {
		return m.rescaleErr
	}
	m.rescaled = append(m.rescaled, factor)
	return nil
}

func (m *mockViewer) Status() domain.ViewerStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

func (m *mockViewer) ScaleBounds() domain.ScaleSettings {
	return m.bounds
}

func (m *mockViewer) Close() {}

func (m *mockViewer) rescaleCalls() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.rescaled...)
}

func (m *mockViewer) selections() [][]domain.SelectedFile {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]domain.SelectedFile(nil), m.selected...)
}
