// Package mcp provides an MCP (Model Context Protocol) server adapter for meshdrop.
// It lets AI assistants load model folders, rescale the latest model and
// inspect what the viewer has resident.
package mcp

import "errors"

// ErrMissingViewerService is returned when the viewer service is not provided.
var ErrMissingViewerService = errors.New("mcp: viewer service is required")
