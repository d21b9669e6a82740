package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/meshdrop/internal/core/domain"
	"github.com/custodia-labs/meshdrop/internal/core/ports/driven"
	"github.com/custodia-labs/meshdrop/internal/logger"
)

// StateFunc observes ingestion state transitions.
type StateFunc func(state domain.LoadState)

// Ingestor reads a selection's root manifest and parses it.
//
// States run Idle -> Reading -> Parsing -> Ready, or end in Failed from
// Reading or Parsing. Nothing is retried.
type Ingestor struct {
	parser driven.ManifestParser
	now    func() time.Time
}

// NewIngestor creates an ingestor using parser.
func NewIngestor(parser driven.ManifestParser) *Ingestor {
	return &Ingestor{parser: parser, now: time.Now}
}

// Ingest loads sel's root manifest with every asset URI routed through
// resolver. Read errors wrap domain.ErrReadFailure and parse errors wrap
// domain.ErrParseFailure.
func (i *Ingestor) Ingest(
	ctx context.Context,
	sel *domain.Selection,
	resolver *AssetResolver,
	onState StateFunc,
) (*domain.LoadedModel, error) {
	if onState == nil {
		onState = func(domain.LoadState) {}
	}
	if i.parser == nil {
		onState(domain.LoadFailed)
		return nil, fmt.Errorf("%w: manifest parser not configured", domain.ErrParseFailure)
	}

	onState(domain.LoadReading)
	content, err := ReadManifest(ctx, sel.Root)
	if err != nil {
		onState(domain.LoadFailed)
		return nil, err
	}

	onState(domain.LoadParsing)
	// Base path stays empty: the resolver already knows the root path.
	parsed, err := i.parser.Parse(ctx, content, "", resolver)
	if err != nil {
		onState(domain.LoadFailed)
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrParseFailure, sel.Root.Path, err)
	}

	manifestRef, err := resolver.Reference(sel.Root.Path)
	if err != nil {
		onState(domain.LoadFailed)
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrParseFailure, sel.Root.Path, err)
	}

	model := &domain.LoadedModel{
		ID:         uuid.NewString(),
		Name:       sel.Root.Name(),
		RootPath:   sel.RootPath(),
		Generation: sel.Generation,
		Kind:       content.Kind,
		Manifest:   manifestRef,
		Assets:     parsed.Assets,
		Summary:    parsed.Summary,
		Scale:      domain.Uniform(1),
		LoadedAt:   i.now(),
		Handle:     parsed.Handle,
	}

	logger.Debug("ingest: %s ready (%d assets, %d meshes)",
		model.Name, len(model.Assets), model.Summary.Meshes)
	onState(domain.LoadReady)
	return model, nil
}

// ReadManifest reads the root manifest, as binary for .glb and as text
// otherwise. Errors wrap domain.ErrReadFailure.
func ReadManifest(ctx context.Context, root domain.RootManifest) (domain.ManifestContent, error) {
	kind := domain.ContentText
	if root.IsBinary() {
		kind = domain.ContentBinary
	}

	if err := ctx.Err(); err != nil {
		return domain.ManifestContent{}, fmt.Errorf("%w: %s: %w", domain.ErrReadFailure, root.Path, err)
	}
	if root.Handle == nil {
		return domain.ManifestContent{}, fmt.Errorf("%w: %s: no file handle", domain.ErrReadFailure, root.Path)
	}

	rc, err := root.Handle.Open()
	if err != nil {
		return domain.ManifestContent{}, fmt.Errorf("%w: %s: %w", domain.ErrReadFailure, root.Path, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return domain.ManifestContent{}, fmt.Errorf("%w: %s: %w", domain.ErrReadFailure, root.Path, err)
	}

	return domain.ManifestContent{Name: root.Name(), Kind: kind, Data: data}, nil
}
