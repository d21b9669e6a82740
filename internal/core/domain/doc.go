// Package domain defines the core entities for meshdrop.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - SelectedFile: One user-selected file with its relative path
//   - Selection: A collected file set plus its root manifest
//   - ManifestContent: The root manifest read as text or binary
//   - LoadedModel: A parsed model resident in the scene
//   - AppSettings: Decoder allowlist, viewer and scale configuration
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
