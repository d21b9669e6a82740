package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPorts_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, (&Ports{Viewer: &MockViewer{}}).Validate())
	})

	t.Run("missing viewer", func(t *testing.T) {
		assert.ErrorIs(t, (&Ports{}).Validate(), ErrMissingViewerService)
	})

	t.Run("nil", func(t *testing.T) {
		var p *Ports
		assert.ErrorIs(t, p.Validate(), ErrInvalidPorts)
	})
}

func TestErrors_AreDistinct(t *testing.T) {
	assert.NotEqual(t, ErrMissingViewerService.Error(), ErrInvalidPorts.Error())
	assert.Contains(t, ErrMissingViewerService.Error(), "viewer service")
}
