package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/meshdrop/internal/adapters/driving/mcp"
)

func TestMCPServeCmd_Flags(t *testing.T) {
	port := mcpServeCmd.Flags().Lookup("port")
	if assert.NotNil(t, port) {
		assert.Equal(t, "p", port.Shorthand)
		assert.Equal(t, "0", port.DefValue)
	}
	assert.NotNil(t, mcpServeCmd.Flags().Lookup("no-viewer"))
}

func TestMCPServeCmd_RequiresViewer(t *testing.T) {
	_, err := execute(t, context.Background(), nil, "mcp", "serve")

	assert.ErrorIs(t, err, mcp.ErrMissingViewerService)
}

func TestViewerURL(t *testing.T) {
	tests := []struct {
		addr string
		want string
	}{
		{":7171", "http://localhost:7171"},
		{"127.0.0.1:7171", "http://127.0.0.1:7171"},
		{"viewer.lan:80", "http://viewer.lan:80"},
	}

	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			assert.Equal(t, tt.want, viewerURL(tt.addr))
		})
	}
}
