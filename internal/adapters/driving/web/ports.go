package web

import (
	"github.com/custodia-labs/meshdrop/internal/core/ports/driven"
	"github.com/custodia-labs/meshdrop/internal/core/ports/driving"
)

// Ports aggregates the services the web server drives.
type Ports struct {
	// Viewer selects, loads and rescales models.
	Viewer driving.ViewerService

	// Objects backs the /objects/ route.
	Objects driven.ObjectStore

	// Scene lists resident models for new viewport connections.
	Scene driven.Scene
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Viewer == nil {
		return ErrMissingViewerService
	}
	if p.Objects == nil {
		return ErrMissingObjectStore
	}
	// Scene is optional; snapshots are empty without it.
	return nil
}
