package driving

import (
	"context"

	"github.com/custodia-labs/meshdrop/internal/core/domain"
)

// InspectService loads a folder for reporting only.
type InspectService interface {
	// Inspect reads dir, collects it and parses its root manifest.
	// The scene and the viewer's current selection are untouched.
	// On a parse or read failure the inspection is returned alongside
	// the error with Model unset.
	Inspect(ctx context.Context, dir string) (*domain.Inspection, error)
}

// FolderReloader reselects a folder whenever its contents change.
type FolderReloader interface {
	// Run watches dir and blocks until ctx is cancelled.
	Run(ctx context.Context, dir string) error
}
