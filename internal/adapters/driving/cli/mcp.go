package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/meshdrop/internal/adapters/driving/mcp"
	"github.com/custodia-labs/meshdrop/internal/logger"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so an AI assistant can select
folders, rescale the latest model and read the scene.

By default, the server communicates over stdio using JSON-RPC. Use --port to
start an HTTP server instead. The browser viewport is served alongside on
viewer.addr unless --no-viewer is given, so models loaded by the assistant
can be watched live.

Examples:
  # Stdio mode
  meshdrop mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  meshdrop mcp serve --port 8080

Client configuration:
  {
    "mcpServers": {
      "meshdrop": {
        "command": "/path/to/meshdrop",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().Bool("no-viewer", false, "do not serve the browser viewport")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	noViewer, err := cmd.Flags().GetBool("no-viewer")
	if err != nil {
		return fmt.Errorf("getting no-viewer flag: %w", err)
	}

	ports := &mcp.Ports{
		Viewer: viewerService,
		Scene:  scene,
	}
	var viewportAddr string
	if !noViewer && viewerServer != nil {
		if viewportAddr, err = resolveAddr(""); err != nil {
			return err
		}
		ports.ViewerURL = viewerURL(viewportAddr)
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if viewportAddr != "" {
		go serveViewport(ctx, viewportAddr)
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		cmd.Printf("MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(ctx, addr)
	}

	return server.Run(ctx)
}

// viewerURL turns a listen address into a browsable URL.
func viewerURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr
}

// serveViewport runs the viewport server in the background. A failure is
// logged rather than returned so the MCP session keeps working.
func serveViewport(ctx context.Context, addr string) {
	ln, err := listen(addr)
	if err != nil {
		logger.Warn("viewport not served: %v", err)
		return
	}
	if err := viewerServer.Serve(ctx, ln); err != nil && !errors.Is(err, context.Canceled) {
		logger.Warn("viewport stopped: %v", err)
	}
}
