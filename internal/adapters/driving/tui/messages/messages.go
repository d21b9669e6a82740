// Package messages defines Bubbletea message types for the TUI.
package messages

import (
	"time"

	"github.com/custodia-labs/meshdrop/internal/core/domain"
)

// Tick asks the app to poll the viewer again.
type Tick struct {
	At time.Time
}

// StatusUpdated carries a fresh viewer snapshot.
type StatusUpdated struct {
	Status domain.ViewerStatus
}

// RescaleCompleted reports the result of a rescale request.
type RescaleCompleted struct {
	Factor float64
	Err    error
}

// SelectionStarted reports whether a folder was accepted for loading.
// Outcomes is nil when Err is set.
type SelectionStarted struct {
	Dir      string
	Outcomes <-chan domain.LoadOutcome
	Err      error
}

// LoadCompleted carries the outcome of a folder load.
type LoadCompleted struct {
	Outcome domain.LoadOutcome
}

// Mode identifies what the keyboard currently drives.
type Mode int

const (
	// ModeScale drives the scale slider and asset list.
	ModeScale Mode = iota
	// ModePrompt drives the folder path prompt.
	ModePrompt
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeScale:
		return "scale"
	case ModePrompt:
		return "prompt"
	default:
		return "unknown"
	}
}
