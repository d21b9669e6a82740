// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - ManifestParser: Parses a glTF/GLB manifest, fetching assets through an AssetSource
//   - ObjectStore: Mints and revokes object references for selected files
//   - Scene: Holds resident models and their scale
//   - SelectionSource: Reads a directory as a list of selected files
//   - ConfigStore: Application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
