package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/custodia-labs/meshdrop/internal/core/domain"
	"github.com/custodia-labs/meshdrop/internal/core/ports/driven"
	"github.com/custodia-labs/meshdrop/internal/core/ports/driving"
	"github.com/custodia-labs/meshdrop/internal/logger"
	"github.com/custodia-labs/meshdrop/internal/metrics"
)

// Ensure Viewer implements the interface.
var _ driving.ViewerService = (*Viewer)(nil)

// Load result labels for metrics.
const (
	resultReady        = "ready"
	resultReadFailure  = "read_failure"
	resultParseFailure = "parse_failure"
	resultStale        = "stale"
)

// Viewer owns the current selection and the most recently loaded model.
//
// Each accepted selection gets the next generation number. A load finishing
// after a newer selection was accepted is reported as stale and never
// reaches the scene.
//
// A resolver whose model became resident keeps its references until the
// viewer closes, so late viewports can still fetch every model in the
// scene. Resolvers that produced nothing are released on the next selection.
type Viewer struct {
	source   driven.SelectionSource
	objects  driven.ObjectStore
	scene    driven.Scene
	ingestor *Ingestor
	decoder  domain.DecoderSettings
	scale    domain.ScaleSettings

	mu         sync.Mutex
	generation uint64
	selection  *domain.Selection
	resolver   *AssetResolver
	resident   map[string]*AssetResolver // model id -> resolver
	state      domain.LoadState
	model      *domain.LoadedModel
	lastErr    error
	listeners  []func(domain.LoadOutcome)
}

// NewViewer creates a viewer. source may be nil when only Select is used.
func NewViewer(
	source driven.SelectionSource,
	objects driven.ObjectStore,
	scene driven.Scene,
	parser driven.ManifestParser,
	settings domain.AppSettings,
) *Viewer {
	return &Viewer{
		source:   source,
		objects:  objects,
		scene:    scene,
		ingestor: NewIngestor(parser),
		decoder:  settings.Decoder,
		scale:    settings.Scale,
		state:    domain.LoadIdle,
		resident: make(map[string]*AssetResolver),
	}
}

// OnOutcome registers fn to receive every load outcome, stale ones included.
func (v *Viewer) OnOutcome(fn func(domain.LoadOutcome)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.listeners = append(v.listeners, fn)
}

// SelectFolder reads dir through the selection source and selects it.
func (v *Viewer) SelectFolder(ctx context.Context, dir string) (<-chan domain.LoadOutcome, error) {
	if v.source == nil {
		return nil, errors.New("selection source not configured")
	}
	files, err := v.source.ReadSelection(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("read selection %s: %w", dir, err)
	}
	return v.Select(ctx, files)
}

// Select collects files and starts loading the root manifest.
func (v *Viewer) Select(ctx context.Context, files []domain.SelectedFile) (<-chan domain.LoadOutcome, error) {
	sel, err := CollectSelection(files)
	if err != nil {
		metrics.RecordSelection(false)
		logger.Warn("selection rejected: %v", err)
		return nil, err
	}
	metrics.RecordSelection(true)

	v.mu.Lock()
	v.generation++
	sel.Generation = v.generation
	if v.resolver != nil && !v.holdsResident(v.resolver) {
		v.resolver.Release()
	}
	resolver := NewAssetResolver(sel, v.decoder, v.objects)
	v.selection = sel
	v.resolver = resolver
	v.state = domain.LoadIdle
	v.lastErr = nil
	v.mu.Unlock()

	logger.With(
		zap.Uint64("generation", sel.Generation),
		zap.String("root", sel.Root.Path),
		zap.Int("files", len(sel.Files)),
	).Info("selection accepted")

	out := make(chan domain.LoadOutcome, 1)
	go v.load(ctx, sel, resolver, out)
	return out, nil
}

func (v *Viewer) load(
	ctx context.Context,
	sel *domain.Selection,
	resolver *AssetResolver,
	out chan<- domain.LoadOutcome,
) {
	defer close(out)
	start := time.Now()

	model, err := v.ingestor.Ingest(ctx, sel, resolver, func(state domain.LoadState) {
		v.setState(sel.Generation, state)
	})

	outcome := domain.LoadOutcome{Generation: sel.Generation, Model: model, Err: err}

	v.mu.Lock()
	switch {
	case sel.Generation != v.generation:
		outcome.Stale = true
		outcome.Model = nil
		// A newer selection already released this resolver.
		resolver.Release()
	case err != nil:
		v.lastErr = err
	default:
		v.model = model
		// Earlier models stay resident; nothing is removed here.
		v.resident[model.ID] = resolver
		v.scene.Add(model)
		snapshot := *model
		outcome.Model = &snapshot
	}
	listeners := append([]func(domain.LoadOutcome){}, v.listeners...)
	v.mu.Unlock()

	switch {
	case outcome.Stale:
		metrics.RecordLoad(resultStale, time.Since(start))
		logger.Debug("generation %d superseded, discarding result", sel.Generation)
	case err != nil:
		metrics.RecordLoad(failureResult(err), time.Since(start))
		logger.Error("load %s failed: %v", sel.Root.Path, err)
	default:
		metrics.RecordLoad(resultReady, time.Since(start))
		logger.Info("loaded %s as %s", model.Name, model.ID)
	}

	for _, fn := range listeners {
		fn(outcome)
	}
	out <- outcome
}

func (v *Viewer) holdsResident(r *AssetResolver) bool {
	for _, held := range v.resident {
		if held == r {
			return true
		}
	}
	return false
}

func (v *Viewer) setState(generation uint64, state domain.LoadState) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if generation == v.generation {
		v.state = state
	}
}

func failureResult(err error) string {
	if errors.Is(err, domain.ErrReadFailure) {
		return resultReadFailure
	}
	return resultParseFailure
}

// Rescale sets the latest model's uniform scale to (f, f, f).
// With no model loaded it does nothing, whatever the factor.
func (v *Viewer) Rescale(factor float64) error {
	v.mu.Lock()
	model := v.model
	if model == nil {
		v.mu.Unlock()
		metrics.RecordRescale(false)
		return nil
	}
	if !v.scale.Contains(factor) {
		v.mu.Unlock()
		metrics.RecordRescale(false)
		return fmt.Errorf("%w: scale %g outside [%g, %g]",
			domain.ErrInvalidInput, factor, v.scale.Min, v.scale.Max)
	}
	model.Scale = domain.Uniform(factor)
	v.mu.Unlock()

	if err := v.scene.SetScale(model.ID, domain.Uniform(factor)); err != nil {
		return fmt.Errorf("rescale %s: %w", model.ID, err)
	}
	metrics.RecordRescale(true)
	logger.Debug("rescaled %s to %g", model.ID, factor)
	return nil
}

// Status returns a snapshot of the viewer.
func (v *Viewer) Status() domain.ViewerStatus {
	v.mu.Lock()
	defer v.mu.Unlock()

	status := domain.ViewerStatus{
		State:      v.state,
		Generation: v.generation,
		Models:     len(v.scene.Models()),
		Scale:      v.scale,
	}
	if v.selection != nil {
		summary := v.selection.Summary()
		status.Selection = &summary
	}
	if v.model != nil {
		m := *v.model
		status.Model = &m
	}
	if v.lastErr != nil {
		status.LastError = v.lastErr.Error()
	}
	return status
}

// ScaleBounds returns the bounds accepted by Rescale.
func (v *Viewer) ScaleBounds() domain.ScaleSettings {
	return v.scale
}

// Close releases the current selection's references and those of every
// resident model.
func (v *Viewer) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.resolver != nil {
		v.resolver.Release()
	}
	for _, r := range v.resident {
		r.Release()
	}
}
