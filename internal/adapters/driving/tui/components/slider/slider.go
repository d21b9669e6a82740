// Package slider provides the scale slider component for the TUI.
package slider

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/meshdrop/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/meshdrop/internal/core/domain"
)

// DefaultValue is the scale a freshly loaded model starts at.
const DefaultValue = 1.0

// Slider is a horizontal bar over a bounded range, moved in fixed steps.
type Slider struct {
	bounds domain.ScaleSettings
	value  float64
	styles *styles.Styles
	width  int
}

// New creates a slider at DefaultValue, clamped to bounds.
func New(s *styles.Styles, bounds domain.ScaleSettings) *Slider {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &Slider{
		bounds: bounds,
		value:  bounds.Clamp(DefaultValue),
		styles: s,
		width:  40,
	}
}

// Step moves the value by n steps and returns the new value.
func (s *Slider) Step(n int) float64 {
	step := s.bounds.Step
	if step <= 0 {
		step = (s.bounds.Max - s.bounds.Min) / 100
	}
	s.value = s.bounds.Snap(s.value + float64(n)*step)
	return s.value
}

// Set moves the slider to v, clamped to the bounds.
func (s *Slider) Set(v float64) {
	s.value = s.bounds.Clamp(v)
}

// Reset moves the slider back to DefaultValue.
func (s *Slider) Reset() float64 {
	s.Set(DefaultValue)
	return s.value
}

// Value returns the current value.
func (s *Slider) Value() float64 {
	return s.value
}

// Bounds returns the slider range.
func (s *Slider) Bounds() domain.ScaleSettings {
	return s.bounds
}

// SetWidth sets the rendered bar width.
func (s *Slider) SetWidth(width int) {
	s.width = width
}

// View renders the bar and value.
func (s *Slider) View() string {
	bar := s.width - 12
	if bar < 10 {
		bar = 10
	}

	filled := 0
	if span := s.bounds.Max - s.bounds.Min; span > 0 {
		filled = int(float64(bar) * (s.value - s.bounds.Min) / span)
	}
	if filled > bar {
		filled = bar
	}

	return s.styles.SliderFill.Render(strings.Repeat("━", filled)) +
		s.styles.SliderTrack.Render(strings.Repeat("─", bar-filled)) +
		" " + s.styles.Value.Render(fmt.Sprintf("%.3f", s.value))
}
