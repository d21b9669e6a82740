// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/meshdrop/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/meshdrop/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/meshdrop/internal/core/domain"
)

// Bar displays the viewer state and keybinding hints.
type Bar struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	status   domain.ViewerStatus
	message  string
	isError  bool
	bindings []key.Binding
	width    int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles:   s,
		keymap:   km,
		status:   domain.ViewerStatus{State: domain.LoadIdle},
		bindings: km.ShortHelp(),
		width:    80,
	}
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (s *Bar) renderLeft() string {
	if s.message != "" {
		if s.isError {
			return s.styles.Error.Render(s.message)
		}
		return s.styles.Normal.Render(s.message)
	}

	state := s.styles.ForState(s.status.State).Render(string(s.status.State))
	if s.status.Generation == 0 {
		return state
	}
	return state + s.styles.Muted.Render(
		fmt.Sprintf(" · gen %d · %d resident", s.status.Generation, s.status.Models),
	)
}

func (s *Bar) renderRight() string {
	hints := make([]string, 0, len(s.bindings))
	for _, b := range s.bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetStatus sets the viewer snapshot shown on the left.
func (s *Bar) SetStatus(status domain.ViewerStatus) {
	s.status = status
}

// Status returns the current viewer snapshot.
func (s *Bar) Status() domain.ViewerStatus {
	return s.status
}

// SetMessage shows a message in place of the state.
func (s *Bar) SetMessage(message string) {
	s.message = message
	s.isError = false
}

// SetError shows an error in place of the state.
func (s *Bar) SetError(err error) {
	if err == nil {
		s.Clear()
		return
	}
	s.message = err.Error()
	s.isError = true
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// IsError reports whether the message is an error.
func (s *Bar) IsError() bool {
	return s.isError
}

// SetBindings sets the hints shown on the right.
func (s *Bar) SetBindings(bindings []key.Binding) {
	s.bindings = bindings
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear drops the message so the state shows again.
func (s *Bar) Clear() {
	s.message = ""
	s.isError = false
}
