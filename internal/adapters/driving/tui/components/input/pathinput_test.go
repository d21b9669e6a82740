package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPathInput(t *testing.T) {
	p := NewPathInput(nil)

	require.NotNil(t, p)
	assert.False(t, p.Focused())
	assert.Empty(t, p.Value())
}

func TestPathInput_Typing(t *testing.T) {
	p := NewPathInput(nil)
	p.Focus()

	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("  models/duck ")})

	assert.Equal(t, "models/duck", p.Value())
	assert.Contains(t, p.View(), "Folder:")
}

func TestPathInput_IgnoresKeysWhenBlurred(t *testing.T) {
	p := NewPathInput(nil)

	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})

	assert.Empty(t, p.Value())
}

func TestPathInput_SetValueAndReset(t *testing.T) {
	p := NewPathInput(nil)

	p.SetValue("/tmp/scene")
	assert.Equal(t, "/tmp/scene", p.Value())

	p.Reset()
	assert.Empty(t, p.Value())
}

func TestPathInput_FocusBlur(t *testing.T) {
	p := NewPathInput(nil)

	p.Focus()
	assert.True(t, p.Focused())

	p.Blur()
	assert.False(t, p.Focused())
}

func TestPathInput_SetWidth(t *testing.T) {
	p := NewPathInput(nil)

	p.SetWidth(100)
	assert.Equal(t, 86, p.textinput.Width)

	p.SetWidth(10)
	assert.Equal(t, 20, p.textinput.Width)
}
