package gltfdoc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"strings"

	"github.com/qmuntal/gltf"
	_ "golang.org/x/image/bmp"  // register decoder
	_ "golang.org/x/image/tiff" // register decoder
	_ "golang.org/x/image/webp" // register decoder

	"github.com/custodia-labs/meshdrop/internal/core/domain"
	"github.com/custodia-labs/meshdrop/internal/core/ports/driven"
	"github.com/custodia-labs/meshdrop/internal/logger"
)

// Ensure Parser implements the interface.
var _ driven.ManifestParser = (*Parser)(nil)

// glbMagic opens every binary container.
var glbMagic = []byte("glTF")

// ErrContentMismatch is returned when content does not match its kind.
var ErrContentMismatch = errors.New("manifest content does not match its file type")

// Parser decodes glTF and GLB manifests.
type Parser struct{}

// NewParser creates a parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse decodes content, reading external buffers and images through assets.
// A referenced buffer or image that cannot be fetched fails the parse.
func (p *Parser) Parse(
	ctx context.Context,
	content domain.ManifestContent,
	basePath string,
	assets driven.AssetSource,
) (*domain.ParsedModel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkKind(content); err != nil {
		return nil, err
	}

	fsys := &assetFS{assets: assets, basePath: basePath}
	var doc gltf.Document
	if err := gltf.NewDecoderFS(bytes.NewReader(content.Data), fsys).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", content.Name, err)
	}

	parsed := &domain.ParsedModel{
		Summary: summarize(&doc),
		Handle:  &doc,
	}

	for i, buf := range doc.Buffers {
		if buf.URI == "" || buf.IsEmbeddedResource() {
			continue
		}
		uri := fsys.uri(buf.URI)
		parsed.Assets = append(parsed.Assets, domain.AssetRef{
			URI:        buf.URI,
			Resolved:   assets.Resolve(uri),
			Kind:       domain.AssetBuffer,
			Resolution: assets.Classify(uri),
			Bytes:      len(buf.Data),
		})
		logger.Debug("gltf: buffer %d %q (%d bytes)", i, buf.URI, len(buf.Data))
	}

	for i, img := range doc.Images {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if img.URI == "" || img.IsEmbeddedResource() {
			continue
		}
		ref, err := imageRef(fsys, img.URI)
		if err != nil {
			return nil, fmt.Errorf("image %d: %w", i, err)
		}
		parsed.Assets = append(parsed.Assets, ref)
	}

	return parsed, nil
}

// checkKind rejects content whose bytes contradict its file extension.
func checkKind(content domain.ManifestContent) error {
	switch content.Kind {
	case domain.ContentBinary:
		if !bytes.HasPrefix(content.Data, glbMagic) {
			return fmt.Errorf("%w: %s has no glTF header", ErrContentMismatch, content.Name)
		}
	default:
		text, ok := content.Text()
		if !ok || !strings.HasPrefix(strings.TrimSpace(text), "{") {
			return fmt.Errorf("%w: %s is not a JSON document", ErrContentMismatch, content.Name)
		}
	}
	return nil
}

// imageRef fetches an external image and reads its dimensions.
// Formats no registered decoder understands (KTX2 and friends) keep
// their byte count only.
func imageRef(fsys *assetFS, uri string) (domain.AssetRef, error) {
	full := fsys.uri(uri)
	data, err := fsys.ReadFile(uri)
	if err != nil {
		return domain.AssetRef{}, err
	}

	ref := domain.AssetRef{
		URI:        uri,
		Resolved:   fsys.assets.Resolve(full),
		Kind:       domain.AssetImage,
		Resolution: fsys.assets.Classify(full),
		Bytes:      len(data),
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		logger.Debug("gltf: image %q not measured: %v", uri, err)
		return ref, nil
	}
	ref.Width = cfg.Width
	ref.Height = cfg.Height
	ref.Format = format
	return ref, nil
}

func summarize(doc *gltf.Document) domain.ModelSummary {
	return domain.ModelSummary{
		Version:    doc.Asset.Version,
		Generator:  doc.Asset.Generator,
		Scenes:     len(doc.Scenes),
		Nodes:      len(doc.Nodes),
		Meshes:     len(doc.Meshes),
		Materials:  len(doc.Materials),
		Textures:   len(doc.Textures),
		Images:     len(doc.Images),
		Buffers:    len(doc.Buffers),
		Animations: len(doc.Animations),
		Extensions: append([]string(nil), doc.ExtensionsUsed...),
	}
}
