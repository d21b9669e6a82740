package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/meshdrop/internal/logger"
)

func TestRootCmd_Subcommands(t *testing.T) {
	registered := map[string]bool{}
	for _, cmd := range rootCmd.Commands() {
		registered[cmd.Name()] = true
	}

	for _, name := range []string{"view", "inspect", "settings", "mcp", "version"} {
		assert.True(t, registered[name], "%s command should be registered", name)
	}
}

func TestSetServices(t *testing.T) {
	viewer := &mockViewer{}
	settings := newMockSettings()
	SetServices(&Services{Viewer: viewer, Settings: settings})
	defer SetServices(nil)

	assert.Same(t, viewer, viewerService)
	assert.Same(t, settings, settingsService)
	assert.Nil(t, inspectService)

	SetServices(nil)
	assert.Nil(t, viewerService)
	assert.Nil(t, viewerServer)
}

func TestRootCmd_VerboseFlag(t *testing.T) {
	defer logger.SetVerbose(false)

	_, err := execute(t, t.Context(), nil, "--verbose", "version")

	assert.NoError(t, err)
	assert.True(t, logger.IsVerbose())
	verbose = false
}
