package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for meshdrop resources.
	uriScheme = "meshdrop://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "status",
		Name:        "status",
		Description: "Viewer state and the most recently loaded model",
		MIMEType:    "application/json",
	}, s.handleStatusResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "models",
		Name:        "models",
		Description: "Models resident in the scene",
		MIMEType:    "application/json",
	}, s.handleModelsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "models/{modelId}",
		Name:        "model",
		Description: "A resident model with its asset resolution table",
		MIMEType:    "application/json",
	}, s.handleModelResource)
}

// handleStatusResource returns the viewer status.
func (s *Server) handleStatusResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	return jsonResource(req.Params.URI, newStatusOutput(s.ports.Viewer.Status()))
}

// handleModelsResource lists resident models without their asset tables.
func (s *Server) handleModelsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	type modelInfo struct {
		ID    string  `json:"id"`
		Name  string  `json:"name"`
		Scale float64 `json:"scale"`
	}

	infos := []modelInfo{}
	if s.ports.Scene != nil {
		for _, m := range s.ports.Scene.Models() {
			infos = append(infos, modelInfo{ID: m.ID, Name: m.Name, Scale: m.Scale[0]})
		}
	}
	return jsonResource(req.Params.URI, infos)
}

// handleModelResource returns one resident model.
func (s *Server) handleModelResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Scene == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	id := extractModelID(req.Params.URI)
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	for _, m := range s.ports.Scene.Models() {
		if m.ID == id {
			return jsonResource(req.Params.URI, newModelOutput(&m))
		}
	}
	return nil, mcp.ResourceNotFoundError(req.Params.URI)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractModelID extracts the model ID from a URI like meshdrop://models/{modelId}.
func extractModelID(uri string) string {
	const prefix = uriScheme + "models/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
