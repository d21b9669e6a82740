package services

import (
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"sync"

	"github.com/custodia-labs/meshdrop/internal/core/domain"
	"github.com/custodia-labs/meshdrop/internal/core/ports/driven"
	"github.com/custodia-labs/meshdrop/internal/logger"
	"github.com/custodia-labs/meshdrop/internal/metrics"
)

// Ensure AssetResolver implements the parser-facing interface.
var _ driven.AssetSource = (*AssetResolver)(nil)

// AssetResolver rewrites URIs requested while parsing a manifest.
//
// Decoder assets pass through untouched. URIs naming a collected file are
// rewritten to an object reference. Anything else passes through so the
// fetch fails where the parser can report it.
//
// References are cached per collected path for the lifetime of the
// selection and revoked together by Release.
type AssetResolver struct {
	files    domain.CollectedFileSet
	rootPath string
	decoder  domain.DecoderSettings
	objects  driven.ObjectStore

	mu       sync.Mutex
	minted   map[string]string // collected path -> reference
	released bool
}

// NewAssetResolver creates a resolver for one selection.
func NewAssetResolver(
	sel *domain.Selection,
	decoder domain.DecoderSettings,
	objects driven.ObjectStore,
) *AssetResolver {
	return &AssetResolver{
		files:    sel.Files,
		rootPath: sel.RootPath(),
		decoder:  decoder,
		objects:  objects,
		minted:   make(map[string]string),
	}
}

// Resolve rewrites uri. It never fails; unresolvable URIs come back as is.
func (r *AssetResolver) Resolve(uri string) string {
	if r.decoder.Matches(uri) {
		metrics.RecordResolverLookup(string(domain.ResolvedDecoder))
		return uri
	}

	key, ok := r.lookup(uri)
	if !ok {
		metrics.RecordResolverLookup(string(domain.ResolvedMissing))
		logger.Debug("resolver: no collected file for %q", uri)
		return uri
	}

	ref, err := r.reference(key)
	if err != nil {
		metrics.RecordResolverLookup(string(domain.ResolvedMissing))
		logger.Debug("resolver: %q not minted: %v", uri, err)
		return uri
	}
	metrics.RecordResolverLookup(string(domain.ResolvedObject))
	return ref
}

// Classify reports how Resolve treats uri without minting a reference.
func (r *AssetResolver) Classify(uri string) domain.Resolution {
	if r.decoder.Matches(uri) {
		return domain.ResolvedDecoder
	}
	if _, ok := r.lookup(uri); ok {
		return domain.ResolvedObject
	}
	return domain.ResolvedMissing
}

// Fetch resolves uri and reads the referenced file.
func (r *AssetResolver) Fetch(uri string) ([]byte, error) {
	ref := r.Resolve(uri)
	handle, ok := r.objects.Lookup(ref)
	if !ok {
		return nil, fmt.Errorf("fetch %q: %w", uri, domain.ErrNotFound)
	}
	rc, err := handle.Open()
	if err != nil {
		return nil, fmt.Errorf("fetch %q: %w", uri, err)
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// Reference returns the object reference for a collected path, minting it
// on first use. Used for the manifest itself, which is keyed by its full
// relative path rather than a URI relative to the root.
func (r *AssetResolver) Reference(collectedPath string) (string, error) {
	if _, ok := r.files[collectedPath]; !ok {
		return "", fmt.Errorf("%q: %w", collectedPath, domain.ErrNotFound)
	}
	return r.reference(collectedPath)
}

// Release revokes every reference minted for this selection.
// After Release the resolver mints nothing and resolves URIs to themselves.
func (r *AssetResolver) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return
	}
	r.released = true
	for _, ref := range r.minted {
		r.objects.Revoke(ref)
	}
	logger.Debug("resolver: released %d references", len(r.minted))
	r.minted = nil
}

// Minted returns the number of live references owned by the resolver.
func (r *AssetResolver) Minted() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.minted)
}

func (r *AssetResolver) reference(key string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return "", domain.ErrResolverReleased
	}
	if ref, ok := r.minted[key]; ok {
		return ref, nil
	}
	ref, err := r.objects.Mint(r.files[key])
	if err != nil {
		return "", err
	}
	r.minted[key] = ref
	return ref, nil
}

// lookup finds the collected path a URI names: relative to the root path
// after percent-decoding and cleaning first, then verbatim.
func (r *AssetResolver) lookup(uri string) (string, bool) {
	if uri == "" || hasScheme(uri) {
		return "", false
	}

	p := uri
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if unescaped, err := url.PathUnescape(p); err == nil {
		p = unescaped
	}
	p = strings.ReplaceAll(p, "\\", "/")

	candidates := []string{path.Clean(r.rootPath + p)}
	// A parser configured with the root as its resource path hands us
	// URIs that already carry the root prefix.
	if r.rootPath != "" && strings.HasPrefix(p, r.rootPath) {
		candidates = append(candidates, path.Clean(p))
	}
	candidates = append(candidates, uri)
	for _, c := range candidates {
		if _, ok := r.files[c]; ok {
			return c, true
		}
	}
	return "", false
}

// hasScheme reports whether uri is absolute (http:, data:, blob:, ...).
func hasScheme(uri string) bool {
	i := strings.Index(uri, ":")
	if i <= 0 {
		return false
	}
	for _, c := range uri[:i] {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9', c == '+', c == '-', c == '.':
		default:
			return false
		}
	}
	return true
}
