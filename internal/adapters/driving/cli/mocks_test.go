package cli

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/custodia-labs/meshdrop/internal/core/domain"
)

// mockViewer implements driving.ViewerService for command tests.
type mockViewer struct {
	mu        sync.Mutex
	folders   []string
	outcome   domain.LoadOutcome
	selectErr error
}

func (m *mockViewer) Select(_ context.Context, _ []domain.SelectedFile) (<-chan domain.LoadOutcome, error) {
	out := make(chan domain.LoadOutcome, 1)
	out <- m.outcome
	close(out)
	return out, nil
}

func (m *mockViewer) SelectFolder(ctx context.Context, dir string) (<-chan domain.LoadOutcome, error) {
	m.mu.Lock()
	m.folders = append(m.folders, dir)
	m.mu.Unlock()
	if m.selectErr != nil {
		return nil, m.selectErr
	}
	return m.Select(ctx, nil)
}

func (m *mockViewer) Folders() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.folders...)
}

func (m *mockViewer) Rescale(float64) error             { return nil }
func (m *mockViewer) Status() domain.ViewerStatus       { return domain.ViewerStatus{State: domain.LoadIdle} }
func (m *mockViewer) ScaleBounds() domain.ScaleSettings { return domain.DefaultAppSettings().Scale }
func (m *mockViewer) Close()                            {}

// mockInspector implements driving.InspectService.
type mockInspector struct {
	inspection *domain.Inspection
	err        error
	dirs       []string
}

func (m *mockInspector) Inspect(_ context.Context, dir string) (*domain.Inspection, error) {
	m.dirs = append(m.dirs, dir)
	return m.inspection, m.err
}

// mockReloader implements driving.FolderReloader and blocks until cancelled.
type mockReloader struct {
	mu   sync.Mutex
	dirs []string
}

func (m *mockReloader) Run(ctx context.Context, dir string) error {
	m.mu.Lock()
	m.dirs = append(m.dirs, dir)
	m.mu.Unlock()
	<-ctx.Done()
	return ctx.Err()
}

func (m *mockReloader) Dirs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.dirs...)
}

// mockSettings implements driving.SettingsService.
type mockSettings struct {
	settings domain.AppSettings
	setErr   error
	set      map[string]string
}

func newMockSettings() *mockSettings {
	return &mockSettings{settings: domain.DefaultAppSettings(), set: map[string]string{}}
}

func (m *mockSettings) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettings) Save(s *domain.AppSettings) error {
	m.settings = *s
	return nil
}

func (m *mockSettings) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.set[key] = value
	return nil
}

func (m *mockSettings) Keys() []string {
	return []string{"scale.max", "viewer.addr"}
}

func (m *mockSettings) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// execute runs the root command with args and returns its combined output.
// Package state touched by the commands is restored afterwards.
func execute(t *testing.T, ctx context.Context, services *Services, args ...string) (string, error) {
	t.Helper()

	SetServices(services)
	viewAddr, viewWatch, viewPanel, inspectJSON = "", false, false, false
	t.Cleanup(func() {
		SetServices(nil)
		viewAddr, viewWatch, viewPanel, inspectJSON = "", false, false, false
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(ctx)
	return buf.String(), err
}
