// Package filesystem reads local folders as model selections and watches
// them for changes.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/meshdrop/internal/core/domain"
	"github.com/custodia-labs/meshdrop/internal/core/ports/driven"
	"github.com/custodia-labs/meshdrop/internal/logger"
)

// Ensure Connector implements the interfaces.
var (
	_ driven.SelectionSource = (*Connector)(nil)
	_ driven.FolderWatcher   = (*Connector)(nil)
)

// Connector reads and watches local folders.
type Connector struct {
	mu       sync.Mutex
	watchers []*fsnotify.Watcher
	closed   bool
}

// New creates a filesystem connector.
func New() *Connector {
	return &Connector{}
}

// File is a FileHandle backed by a file on disk. It is opened lazily.
type File struct {
	path string
	name string
	size int64
}

// NewFile creates a handle for path.
func NewFile(path string, size int64) *File {
	return &File{path: path, name: filepath.Base(path), size: size}
}

// Name returns the base file name.
func (f *File) Name() string { return f.name }

// Size returns the size recorded when the folder was read.
func (f *File) Size() int64 { return f.size }

// Open opens the file for reading.
func (f *File) Open() (io.ReadCloser, error) { return os.Open(f.path) }

// Path returns the absolute file path.
func (f *File) Path() string { return f.path }

// ReadSelection lists every visible file under dir. Relative paths start
// with dir's own name, matching what a browser folder picker reports.
// Hidden files and directories are skipped.
func (c *Connector) ReadSelection(ctx context.Context, dir string) ([]domain.SelectedFile, error) {
	root, err := checkRoot(dir)
	if err != nil {
		return nil, err
	}
	prefix := filepath.Base(root)

	var files []domain.SelectedFile
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			logger.Warn("filesystem: skipping %s: %v", path, walkErr)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel != "." && isHidden(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			logger.Warn("filesystem: stat %s: %v", path, err)
			return nil
		}
		files = append(files, domain.SelectedFile{
			RelativePath: prefix + "/" + filepath.ToSlash(rel),
			Handle:       NewFile(path, info.Size()),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Debug("filesystem: read %d files from %s", len(files), root)
	return files, nil
}

// Watch reports batches of changes under dir. Events are coalesced until
// debounce has passed without a new one. The channel closes when ctx ends.
func (c *Connector) Watch(ctx context.Context, dir string, debounce time.Duration) (<-chan []domain.FileChange, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, errors.New("connector is closed")
	}
	c.mu.Unlock()

	root, err := checkRoot(dir)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := addRecursive(watcher, root); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", root, err)
	}

	c.mu.Lock()
	c.watchers = append(c.watchers, watcher)
	c.mu.Unlock()

	out := make(chan []domain.FileChange)
	go c.watchLoop(ctx, watcher, root, debounce, out)
	return out, nil
}

func (c *Connector) watchLoop(
	ctx context.Context,
	watcher *fsnotify.Watcher,
	root string,
	debounce time.Duration,
	out chan<- []domain.FileChange,
) {
	defer close(out)
	defer watcher.Close()

	var (
		pending []domain.FileChange
		timer   *time.Timer
		fire    <-chan time.Time
	)

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !hiddenUnder(root, event.Name) {
					if err := addRecursive(watcher, event.Name); err != nil {
						logger.Warn("filesystem: watch %s: %v", event.Name, err)
					}
				}
			}
			change := c.handleFsEvent(root, event)
			if change == nil {
				continue
			}
			pending = append(pending, *change)
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(debounce)
			}
			fire = timer.C

		case <-fire:
			batch := pending
			pending = nil
			fire = nil
			select {
			case out <- batch:
			case <-ctx.Done():
				return
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("filesystem: watcher error: %v", err)
		}
	}
}

// handleFsEvent maps an fsnotify event to a change, or nil when the event
// is irrelevant (chmod, directories, hidden paths below root).
func (c *Connector) handleFsEvent(root string, event fsnotify.Event) *domain.FileChange {
	if hiddenUnder(root, event.Name) {
		return nil
	}

	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return &domain.FileChange{Type: domain.ChangeDeleted, Path: event.Name}
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		info, err := os.Stat(event.Name)
		if err != nil || info.IsDir() {
			return nil
		}
		t := domain.ChangeUpdated
		if event.Has(fsnotify.Create) {
			t = domain.ChangeCreated
		}
		return &domain.FileChange{Type: t, Path: event.Name}
	default:
		return nil
	}
}

// Close stops every active watch. Safe to call more than once.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	var errs []error
	for _, w := range c.watchers {
		if err := w.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	c.watchers = nil
	return errors.Join(errs...)
}

func checkRoot(dir string) (string, error) {
	root, err := filepath.Abs(ResolvePath(dir))
	if err != nil {
		return "", fmt.Errorf("root path error: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("root path error: %s does not exist: %w", root, domain.ErrNotFound)
		}
		return "", fmt.Errorf("root path error: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("root path error: %s is not a directory: %w", root, domain.ErrInvalidInput)
	}
	return root, nil
}

func addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && isHidden(d.Name()) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

// isHidden reports whether any element of path starts with a dot.
// "." and ".." are not hidden.
// hiddenUnder reports whether path has a hidden component below root.
// Dots in root's own ancestors do not count.
func hiddenUnder(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return isHidden(filepath.Base(path))
	}
	return isHidden(rel)
}

func isHidden(path string) bool {
	for _, part := range strings.FieldsFunc(filepath.ToSlash(path), func(r rune) bool { return r == '/' }) {
		if part == "." || part == ".." {
			continue
		}
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
