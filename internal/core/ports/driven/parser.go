package driven

import (
	"context"

	"github.com/custodia-labs/meshdrop/internal/core/domain"
)

// AssetSource is what a parser sees of the asset resolver.
type AssetSource interface {
	// Resolve rewrites a URI requested by the parser.
	// The result is an object reference for collected files and the
	// URI itself for decoder assets and unknown URIs.
	Resolve(uri string) string

	// Fetch resolves uri and returns the referenced bytes.
	// Unresolved URIs fail with domain.ErrNotFound.
	Fetch(uri string) ([]byte, error)

	// Classify reports how Resolve treats uri without minting anything.
	Classify(uri string) domain.Resolution
}

// ManifestParser turns manifest content into a model.
type ManifestParser interface {
	// Parse decodes content. Relative URIs are resolved against basePath
	// and then handed to assets; callers pass an empty basePath when the
	// AssetSource already knows the selection root.
	Parse(
		ctx context.Context,
		content domain.ManifestContent,
		basePath string,
		assets AssetSource,
	) (*domain.ParsedModel, error)
}
