package mcp

import (
	"context"

	"github.com/custodia-labs/meshdrop/internal/core/domain"
)

// mockViewerService is a mock implementation of driving.ViewerService.
type mockViewerService struct {
	status     domain.ViewerStatus
	outcome    domain.LoadOutcome
	folders    []string
	rescaled   []float64
	selectErr  error
	rescaleErr error
	block      bool
}

func (m *mockViewerService) Select(_ context.Context, _ []domain.SelectedFile) (<-chan domain.LoadOutcome, error) {
	out := make(chan domain.LoadOutcome, 1)
	if !m.block {
		out <- m.outcome
	}
	return out, nil
}

func (m *mockViewerService) SelectFolder(ctx context.Context, dir string) (<-chan domain.LoadOutcome, error) {
	m.folders = append(m.folders, dir)
	if m.selectErr != nil {
		return nil, m.selectErr
	}
	return m.Select(ctx, nil)
}

func (m *mockViewerService) Rescale(factor float64) error {
	if m.rescaleErr != nil {
		return m.rescaleErr
	}
	m.rescaled = append(m.rescaled, factor)
	return nil
}

func (m *mockViewerService) Status() domain.ViewerStatus {
	return m.status
}

func (m *mockViewerService) ScaleBounds() domain.ScaleSettings {
	return domain.DefaultAppSettings().Scale
}

func (m *mockViewerService) Close() {}

// mockScene is a mock implementation of driven.Scene.
type mockScene struct {
	models []domain.LoadedModel
}

func (m *mockScene) Add(model *domain.LoadedModel) {
	m.models = append(m.models, *model)
}

func (m *mockScene) Remove(_ string) bool { return false }

func (m *mockScene) SetScale(_ string, _ domain.Vec3) error { return nil }

func (m *mockScene) Models() []domain.LoadedModel {
	return m.models
}
