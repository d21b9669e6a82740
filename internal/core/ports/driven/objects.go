package driven

import "github.com/custodia-labs/meshdrop/internal/core/domain"

// ObjectStore hands out short-lived references standing in for fetchable
// URLs, each backed by a file handle.
type ObjectStore interface {
	// Mint registers handle and returns its reference.
	Mint(handle domain.FileHandle) (string, error)

	// Lookup returns the handle behind ref.
	Lookup(ref string) (domain.FileHandle, bool)

	// Revoke forgets ref. Unknown refs are ignored.
	Revoke(ref string)

	// Len returns the number of live references.
	Len() int
}
