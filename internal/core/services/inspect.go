package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/meshdrop/internal/core/domain"
	"github.com/custodia-labs/meshdrop/internal/core/ports/driven"
	"github.com/custodia-labs/meshdrop/internal/core/ports/driving"
)

// Ensure Inspector implements the interface.
var _ driving.InspectService = (*Inspector)(nil)

// Inspector runs the load chain for a folder without touching the scene.
type Inspector struct {
	source   driven.SelectionSource
	objects  driven.ObjectStore
	ingestor *Ingestor
	decoder  domain.DecoderSettings
}

// NewInspector creates an inspector.
func NewInspector(
	source driven.SelectionSource,
	objects driven.ObjectStore,
	parser driven.ManifestParser,
	decoder domain.DecoderSettings,
) *Inspector {
	return &Inspector{
		source:   source,
		objects:  objects,
		ingestor: NewIngestor(parser),
		decoder:  decoder,
	}
}

// Inspect reads, collects and parses dir.
func (i *Inspector) Inspect(ctx context.Context, dir string) (*domain.Inspection, error) {
	if i.source == nil {
		return nil, errors.New("selection source not configured")
	}
	files, err := i.source.ReadSelection(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("read selection %s: %w", dir, err)
	}
	sel, err := CollectSelection(files)
	if err != nil {
		return nil, err
	}

	inspection := &domain.Inspection{Selection: sel.Summary()}
	for _, p := range sel.Files.Paths() {
		inspection.Files = append(inspection.Files, domain.InspectedFile{
			Path: p,
			Size: sel.Files[p].Size(),
		})
	}

	resolver := NewAssetResolver(sel, i.decoder, i.objects)
	defer resolver.Release()

	model, err := i.ingestor.Ingest(ctx, sel, resolver, nil)
	if err != nil {
		return inspection, err
	}
	inspection.Model = model
	return inspection, nil
}
