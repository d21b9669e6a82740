package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/meshdrop/internal/core/domain"
)

// SelectFolderInput is the input schema for the select_folder tool.
type SelectFolderInput struct {
	Path string `json:"path" jsonschema:"folder containing a .gltf or .glb file and its assets"`
	Wait bool   `json:"wait,omitempty" jsonschema:"wait for the load to finish before returning"`
}

// SelectFolderOutput is the output schema for the select_folder tool.
type SelectFolderOutput struct {
	Generation uint64       `json:"generation"`
	Root       string       `json:"root"`
	FileCount  int          `json:"file_count"`
	State      string       `json:"state"`
	Model      *ModelOutput `json:"model,omitempty"`
	Error      string       `json:"error,omitempty"`
}

// RescaleInput is the input schema for the rescale tool.
type RescaleInput struct {
	Factor float64 `json:"factor" jsonschema:"uniform scale applied to the most recently loaded model"`
}

// RescaleOutput is the output schema for the rescale tool.
type RescaleOutput struct {
	ModelID string  `json:"model_id,omitempty"`
	Scale   float64 `json:"scale"`
	Applied bool    `json:"applied"`
}

// StatusInput is the empty input schema for the status tool.
type StatusInput struct{}

// StatusOutput is the output schema for the status tool.
type StatusOutput struct {
	State      string       `json:"state"`
	Generation uint64       `json:"generation"`
	Root       string       `json:"root,omitempty"`
	Models     int          `json:"models"`
	Model      *ModelOutput `json:"model,omitempty"`
	LastError  string       `json:"last_error,omitempty"`
	ScaleMin   float64      `json:"scale_min"`
	ScaleMax   float64      `json:"scale_max"`
}

// ModelOutput describes a loaded model.
type ModelOutput struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	Generation uint64              `json:"generation"`
	Kind       string              `json:"kind"`
	Scale      float64             `json:"scale"`
	Summary    domain.ModelSummary `json:"summary"`
	Assets     []domain.AssetRef   `json:"assets,omitempty"`
}

func newModelOutput(m *domain.LoadedModel) *ModelOutput {
	if m == nil {
		return nil
	}
	return &ModelOutput{
		ID:         m.ID,
		Name:       m.Name,
		Generation: m.Generation,
		Kind:       string(m.Kind),
		Scale:      m.Scale[0],
		Summary:    m.Summary,
		Assets:     m.Assets,
	}
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "select_folder",
		Description: "Load the .gltf or .glb model found in a local folder into the viewer",
	}, s.handleSelectFolder)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "rescale",
		Description: "Set the uniform scale of the most recently loaded model",
	}, s.handleRescale)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "status",
		Description: "Report the viewer state and the most recently loaded model",
	}, s.handleStatus)
}

// handleSelectFolder handles the select_folder tool invocation.
func (s *Server) handleSelectFolder(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SelectFolderInput,
) (*mcp.CallToolResult, SelectFolderOutput, error) {
	if input.Path == "" {
		return nil, SelectFolderOutput{}, fmt.Errorf("%w: path is required", domain.ErrInvalidInput)
	}

	// Loads outlive the tool call unless the caller waits.
	loadCtx := context.WithoutCancel(ctx)
	outcomes, err := s.ports.Viewer.SelectFolder(loadCtx, input.Path)
	if err != nil {
		return nil, SelectFolderOutput{}, err
	}

	status := s.ports.Viewer.Status()
	output := SelectFolderOutput{
		Generation: status.Generation,
		State:      string(status.State),
	}
	if status.Selection != nil {
		output.Root = status.Selection.Root
		output.FileCount = status.Selection.FileCount
	}
	if !input.Wait {
		return nil, output, nil
	}

	select {
	case outcome := <-outcomes:
		output.Generation = outcome.Generation
		switch {
		case outcome.Stale:
			output.State = "superseded"
		case outcome.Err != nil:
			output.State = string(domain.LoadFailed)
			output.Error = outcome.Err.Error()
		default:
			output.State = string(domain.LoadReady)
			output.Model = newModelOutput(outcome.Model)
		}
		return nil, output, nil
	case <-ctx.Done():
		return nil, SelectFolderOutput{}, ctx.Err()
	}
}

// handleRescale handles the rescale tool invocation.
func (s *Server) handleRescale(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input RescaleInput,
) (*mcp.CallToolResult, RescaleOutput, error) {
	if err := s.ports.Viewer.Rescale(input.Factor); err != nil {
		return nil, RescaleOutput{}, err
	}

	output := RescaleOutput{Scale: input.Factor}
	if m := s.ports.Viewer.Status().Model; m != nil {
		output.ModelID = m.ID
		output.Applied = true
	}
	return nil, output, nil
}

// handleStatus handles the status tool invocation.
func (s *Server) handleStatus(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ StatusInput,
) (*mcp.CallToolResult, StatusOutput, error) {
	return nil, newStatusOutput(s.ports.Viewer.Status()), nil
}

func newStatusOutput(status domain.ViewerStatus) StatusOutput {
	output := StatusOutput{
		State:      string(status.State),
		Generation: status.Generation,
		Models:     status.Models,
		Model:      newModelOutput(status.Model),
		LastError:  status.LastError,
		ScaleMin:   status.Scale.Min,
		ScaleMax:   status.Scale.Max,
	}
	if status.Selection != nil {
		output.Root = status.Selection.Root
	}
	return output
}
