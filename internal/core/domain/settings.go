package domain

import (
	"fmt"
	"math"
	"path"
	"strings"
)

// Default decoder assets, served from the application's own static root.
const (
	DefaultDecoderPath    = "/decoders/draco/"
	DefaultDecoderBinary  = "draco_decoder.wasm"
	DefaultDecoderWrapper = "draco_wasm_wrapper.js"
)

// DecoderSettings is the decoder allowlist plus where to serve it from.
type DecoderSettings struct {
	// Path is the decoder directory URL prefix.
	// Any URI containing it is passed through untouched.
	Path string

	// Files are decoder file names passed through untouched.
	Files []string

	// Root is a local directory served under /decoders/. Optional.
	Root string
}

// Matches reports whether uri is a decoder asset.
func (d DecoderSettings) Matches(uri string) bool {
	if d.Path != "" && strings.Contains(uri, d.Path) {
		return true
	}
	base := path.Base(uri)
	for _, f := range d.Files {
		if f != "" && base == f {
			return true
		}
	}
	return false
}

// ViewerSettings configures the browser viewport server.
type ViewerSettings struct {
	// Addr is the HTTP listen address.
	Addr string

	// RescaleRate caps rescale messages per second per websocket client.
	RescaleRate int
}

// ScaleSettings bounds the uniform scale control.
type ScaleSettings struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Step float64 `json:"step"`
}

// Contains reports whether f lies within the bounds.
func (s ScaleSettings) Contains(f float64) bool {
	return !math.IsNaN(f) && f >= s.Min && f <= s.Max
}

// Clamp limits f to the bounds.
func (s ScaleSettings) Clamp(f float64) float64 {
	return math.Min(s.Max, math.Max(s.Min, f))
}

// Snap rounds f to the nearest step above Min, then clamps.
func (s ScaleSettings) Snap(f float64) float64 {
	if s.Step <= 0 {
		return s.Clamp(f)
	}
	steps := math.Round((f - s.Min) / s.Step)
	snapped := s.Min + steps*s.Step
	// Trim float noise so 1.0000000002 prints as 1.
	snapped = math.Round(snapped*1e6) / 1e6
	return s.Clamp(snapped)
}

// WatchSettings configures folder watching.
type WatchSettings struct {
	// DebounceMS coalesces bursts of filesystem events.
	DebounceMS int
}

// AppSettings holds all application settings.
type AppSettings struct {
	Decoder DecoderSettings
	Viewer  ViewerSettings
	Scale   ScaleSettings
	Watch   WatchSettings
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Decoder: DecoderSettings{
			Path:  DefaultDecoderPath,
			Files: []string{DefaultDecoderBinary, DefaultDecoderWrapper},
		},
		Viewer: ViewerSettings{
			Addr:        "127.0.0.1:8765",
			RescaleRate: 30,
		},
		Scale: ScaleSettings{
			Min:  0.05,
			Max:  5,
			Step: 0.005,
		},
		Watch: WatchSettings{
			DebounceMS: 250,
		},
	}
}

// Validate checks the settings are usable.
func (s AppSettings) Validate() error {
	if s.Scale.Min <= 0 || s.Scale.Max < s.Scale.Min {
		return fmt.Errorf("%w: scale bounds [%g, %g]", ErrInvalidInput, s.Scale.Min, s.Scale.Max)
	}
	if s.Scale.Step < 0 {
		return fmt.Errorf("%w: scale step %g", ErrInvalidInput, s.Scale.Step)
	}
	if s.Viewer.Addr == "" {
		return fmt.Errorf("%w: viewer address is empty", ErrInvalidInput)
	}
	if s.Viewer.RescaleRate <= 0 {
		return fmt.Errorf("%w: rescale rate %d", ErrInvalidInput, s.Viewer.RescaleRate)
	}
	if s.Watch.DebounceMS < 0 {
		return fmt.Errorf("%w: watch debounce %d", ErrInvalidInput, s.Watch.DebounceMS)
	}
	return nil
}
