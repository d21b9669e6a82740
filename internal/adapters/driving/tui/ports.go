// Package tui provides a terminal control panel for the viewer.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/meshdrop/internal/core/ports/driving"
)

// Ports aggregates the driving ports the TUI needs.
type Ports struct {
	// Viewer selects folders, rescales and reports status.
	Viewer driving.ViewerService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Viewer == nil {
		return ErrMissingViewerService
	}
	return nil
}
