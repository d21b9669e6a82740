// Package cli provides the meshdrop command line interface.
package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/meshdrop/internal/adapters/driving/web"
	"github.com/custodia-labs/meshdrop/internal/core/ports/driven"
	"github.com/custodia-labs/meshdrop/internal/core/ports/driving"
	"github.com/custodia-labs/meshdrop/internal/logger"
)

// version is set at build time via SetVersion.
var version = "dev"

var verbose bool

// Services wired in by the composition root.
var (
	viewerService   driving.ViewerService
	inspectService  driving.InspectService
	folderReloader  driving.FolderReloader
	settingsService driving.SettingsService
	scene           driven.Scene
	viewerServer    *web.Server
)

var rootCmd = &cobra.Command{
	Use:   "meshdrop",
	Short: "View glTF models from a folder in the browser",
	Long: `meshdrop serves a browser viewport for glTF 2.0 models.

Pick a folder containing a .gltf or .glb file, in the page or on the command
line, and the model is loaded with its buffers and textures resolved from the
same folder. A scale slider in the page, the terminal panel or an MCP client
resizes the most recently loaded model.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Services holds everything the commands drive.
type Services struct {
	Viewer   driving.ViewerService
	Inspect  driving.InspectService
	Reloader driving.FolderReloader
	Settings driving.SettingsService
	Scene    driven.Scene
	Server   *web.Server
}

// SetServices installs the services used by the commands.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	viewerService = s.Viewer
	inspectService = s.Inspect
	folderReloader = s.Reloader
	settingsService = s.Settings
	scene = s.Scene
	viewerServer = s.Server
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	rootCmd.SetOut(os.Stdout)
	return rootCmd.ExecuteContext(ctx)
}
