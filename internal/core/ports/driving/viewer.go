package driving

import (
	"context"

	"github.com/custodia-labs/meshdrop/internal/core/domain"
)

// ViewerService is the entry point for selecting, loading and rescaling models.
type ViewerService interface {
	// Select collects the files, makes them the current selection and
	// starts loading the root manifest in the background.
	// Returns domain.ErrInvalidSelection when no manifest is present;
	// in that case nothing changes. The channel receives exactly one outcome.
	Select(ctx context.Context, files []domain.SelectedFile) (<-chan domain.LoadOutcome, error)

	// SelectFolder reads a directory as a selection and calls Select.
	SelectFolder(ctx context.Context, dir string) (<-chan domain.LoadOutcome, error)

	// Rescale sets the uniform scale of the most recently loaded model.
	// It is a no-op when no model is loaded.
	Rescale(factor float64) error

	// Status returns a snapshot of the viewer.
	Status() domain.ViewerStatus

	// ScaleBounds returns the bounds accepted by Rescale.
	ScaleBounds() domain.ScaleSettings

	// Close releases every object reference the viewer minted.
	Close()
}
