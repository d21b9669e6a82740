package services

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/custodia-labs/meshdrop/internal/core/domain"
)

// manifestPattern matches root manifest file names.
var manifestPattern = regexp.MustCompile(`(?i)\.(gltf|glb)$`)

// IsManifestName reports whether name looks like a .gltf or .glb manifest.
func IsManifestName(name string) bool {
	return manifestPattern.MatchString(name)
}

// CollectSelection builds a selection from picker results.
//
// Every file is keyed by its relative path. A file whose name ends in
// .gltf or .glb becomes the root manifest; when several do, the last one in
// input order wins. Without any manifest the result is
// domain.ErrInvalidSelection and no selection is produced.
func CollectSelection(files []domain.SelectedFile) (*domain.Selection, error) {
	set := make(domain.CollectedFileSet, len(files))
	var root *domain.RootManifest

	for _, f := range files {
		if f.Handle == nil {
			return nil, fmt.Errorf("%w: %q has no file handle", domain.ErrInvalidInput, f.RelativePath)
		}
		rel := normaliseRelativePath(f.RelativePath, f.Handle.Name())
		set[rel] = f.Handle

		if IsManifestName(fileName(rel, f.Handle)) {
			root = &domain.RootManifest{
				Path:   rel,
				Dir:    rel[:strings.LastIndex(rel, "/")+1],
				Handle: f.Handle,
			}
		}
	}

	if root == nil {
		return nil, domain.ErrInvalidSelection
	}

	return &domain.Selection{Files: set, Root: *root}, nil
}

// normaliseRelativePath converts separators to slashes and falls back to
// the handle name when the picker reported no relative path.
func normaliseRelativePath(rel, name string) string {
	rel = strings.ReplaceAll(rel, "\\", "/")
	rel = strings.TrimPrefix(rel, "/")
	if rel == "" {
		return name
	}
	return rel
}

func fileName(rel string, h domain.FileHandle) string {
	if name := h.Name(); name != "" {
		return name
	}
	return path.Base(rel)
}
