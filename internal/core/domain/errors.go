package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Load Errors.

	// ErrInvalidSelection indicates the selection holds no .gltf or .glb manifest.
	// Nothing is loaded and the previous selection stays current.
	ErrInvalidSelection = errors.New("no .gltf or .glb file found in the selection")

	// ErrReadFailure indicates the root manifest could not be read.
	ErrReadFailure = errors.New("manifest read failed")

	// ErrParseFailure indicates the manifest is malformed or references
	// an asset that could not be resolved.
	ErrParseFailure = errors.New("manifest parse failed")

	// ErrResolverReleased indicates the selection owning a resolver was replaced.
	ErrResolverReleased = errors.New("resolver released")
)
