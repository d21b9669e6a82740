package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/meshdrop/internal/core/domain"
)

var inspectJSON bool

var inspectCmd = &cobra.Command{
	Use:   "inspect <folder>",
	Short: "Report how a folder would load",
	Long: `Collect a folder, pick its root manifest and parse it without serving it.

Prints the collected files, the chosen root and the asset resolution table:
every external URI the manifest references and whether it resolved to a
collected file, a decoder asset or nothing.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "output the inspection as JSON")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	if inspectService == nil {
		return errors.New("inspect service not configured")
	}

	inspection, err := inspectService.Inspect(cmd.Context(), args[0])
	if inspection == nil {
		if errors.Is(err, domain.ErrInvalidSelection) {
			return fmt.Errorf("%s: no .gltf or .glb file found", args[0])
		}
		return err
	}

	if inspectJSON {
		if jsonErr := outputInspectionJSON(cmd, inspection); jsonErr != nil {
			return jsonErr
		}
	} else {
		outputInspection(cmd, inspection)
	}
	return err
}

func outputInspectionJSON(cmd *cobra.Command, inspection *domain.Inspection) error {
	data, err := json.MarshalIndent(inspection, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal inspection: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputInspection(cmd *cobra.Command, inspection *domain.Inspection) {
	sel := inspection.Selection
	cmd.Printf("Root: %s\n", sel.Root)
	cmd.Printf("Files: %d (%s)\n", sel.FileCount, humanBytes(sel.TotalBytes))
	for _, f := range inspection.Files {
		marker := " "
		if f.Path == sel.Root {
			marker = "*"
		}
		cmd.Printf("  %s %s  %s\n", marker, f.Path, humanBytes(f.Size))
	}

	m := inspection.Model
	if m == nil {
		return
	}

	cmd.Println()
	sum := m.Summary
	cmd.Printf("glTF %s", sum.Version)
	if sum.Generator != "" {
		cmd.Printf(" (%s)", sum.Generator)
	}
	cmd.Println()
	cmd.Printf("  %d scenes, %d nodes, %d meshes, %d materials, %d textures, %d animations\n",
		sum.Scenes, sum.Nodes, sum.Meshes, sum.Materials, sum.Textures, sum.Animations)
	for _, ext := range sum.Extensions {
		cmd.Printf("  uses %s\n", ext)
	}

	if len(m.Assets) == 0 {
		cmd.Println()
		cmd.Println("No external assets.")
		return
	}

	cmd.Println()
	cmd.Println(assetTable(m.Assets))
}

func assetTable(assets []domain.AssetRef) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("URI", "KIND", "RESOLUTION", "DETAIL")
	for _, a := range assets {
		t.Row(a.URI, string(a.Kind), string(a.Resolution), assetDetail(a))
	}
	return t.String()
}

func assetDetail(a domain.AssetRef) string {
	switch {
	case a.Width > 0:
		return a.Format + " " + strconv.Itoa(a.Width) + "x" + strconv.Itoa(a.Height)
	case a.Bytes > 0:
		return humanBytes(int64(a.Bytes))
	default:
		return ""
	}
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
