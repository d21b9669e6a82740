package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/custodia-labs/meshdrop/internal/logger"
)

// Version is the MCP server version.
const Version = "0.1.0"

// shutdownTimeout bounds how long open MCP sessions get to finish.
const shutdownTimeout = 5 * time.Second

// Server exposes the viewer to MCP clients.
type Server struct {
	ports  *Ports
	server *mcp.Server
}

// NewServer creates a new MCP server with the given ports.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	impl := &mcp.Implementation{
		Name:    "meshdrop",
		Title:   "meshdrop glTF viewer",
		Version: Version,
	}

	s := &Server{
		ports: ports,
		server: mcp.NewServer(impl, &mcp.ServerOptions{
			Instructions: Instructions(ports),
		}),
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Instructions tells the assistant how to drive the viewer: the tool
// order, the accepted scale range and where the viewport is served.
func Instructions(ports *Ports) string {
	bounds := ports.Viewer.ScaleBounds()

	var b strings.Builder
	b.WriteString("meshdrop loads glTF 2.0 models (.gltf or .glb) from local folders into a browser viewport.\n")
	b.WriteString("Call select_folder with a folder that holds the model and its buffers and textures. ")
	b.WriteString("The last .gltf or .glb file found becomes the root; earlier models stay in the scene.\n")
	fmt.Fprintf(&b, "Call rescale with a factor in [%g, %g] to resize the most recently loaded model.\n",
		bounds.Min, bounds.Max)
	b.WriteString("Call status, or read meshdrop://status, to check load state and errors.\n")
	if ports.Scene != nil {
		b.WriteString("Read meshdrop://models for resident models and meshdrop://models/{modelId} for one model's asset table.\n")
	}
	if ports.ViewerURL != "" {
		fmt.Fprintf(&b, "The user watches the scene at %s.\n", ports.ViewerURL)
	}
	return b.String()
}

// Handler returns the streamable HTTP handler.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)
}

// Run serves one MCP session over stdio until ctx ends.
func (s *Server) Run(ctx context.Context) error {
	logger.Debug("mcp: serving on stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP serves MCP over streamable HTTP on addr until ctx ends.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		httpServer.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	logger.With(
		zap.String("addr", addr),
		zap.String("viewer", s.ports.ViewerURL),
	).Info("mcp: listening")
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
