package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/meshdrop/internal/core/domain"
)

// SelectionSource turns a directory into picker-style selected files.
type SelectionSource interface {
	// ReadSelection lists every file under dir. Relative paths start
	// with the directory's own name, as a browser folder picker reports them.
	ReadSelection(ctx context.Context, dir string) ([]domain.SelectedFile, error)
}

// FolderWatcher reports debounced batches of changes under a directory.
type FolderWatcher interface {
	// Watch watches dir recursively until ctx is cancelled, then closes
	// the channel.
	Watch(ctx context.Context, dir string, debounce time.Duration) (<-chan []domain.FileChange, error)
}
