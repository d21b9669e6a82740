package mcp

import (
	"github.com/custodia-labs/meshdrop/internal/core/ports/driven"
	"github.com/custodia-labs/meshdrop/internal/core/ports/driving"
)

// Ports aggregates the services the MCP server drives.
type Ports struct {
	// Viewer selects folders, rescales and reports status.
	Viewer driving.ViewerService

	// Scene lists resident models. Optional; model resources are
	// unavailable without it.
	Scene driven.Scene

	// ViewerURL is where the browser viewport is served, when it is.
	ViewerURL string
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Viewer == nil {
		return ErrMissingViewerService
	}
	return nil
}
