package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change viewer settings.

Settings live in config.toml in the meshdrop config directory. Any key can be
overridden for one run with an environment variable, for example
MESHDROP_VIEWER_ADDR=0.0.0.0:8765.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Long: `Change one setting by its dotted key.

List values such as decoder.files are comma separated.

Examples:
  meshdrop settings set viewer.addr 127.0.0.1:9000
  meshdrop settings set scale.max 10
  meshdrop settings set decoder.root ./third_party/draco`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List setting keys",
	RunE:  runSettingsKeys,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Viewer]")
	cmd.Printf("  Address: %s\n", settings.Viewer.Addr)
	cmd.Printf("  Rescale rate: %d/s per client\n", settings.Viewer.RescaleRate)
	cmd.Println()

	cmd.Println("[Scale]")
	cmd.Printf("  Range: %g to %g\n", settings.Scale.Min, settings.Scale.Max)
	cmd.Printf("  Step: %g\n", settings.Scale.Step)
	cmd.Println()

	cmd.Println("[Decoder]")
	cmd.Printf("  Path: %s\n", settings.Decoder.Path)
	cmd.Printf("  Files: %s\n", strings.Join(settings.Decoder.Files, ", "))
	if settings.Decoder.Root != "" {
		cmd.Printf("  Served from: %s\n", settings.Decoder.Root)
	} else {
		cmd.Printf("  Served from: (not served)\n")
	}
	cmd.Println()

	cmd.Println("[Watch]")
	cmd.Printf("  Debounce: %dms\n", settings.Watch.DebounceMS)
	cmd.Println()

	if err := settings.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'meshdrop settings set' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	cmd.Printf("%s = %s\n", key, value)
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	for _, key := range settingsService.Keys() {
		cmd.Println(key)
	}
	return nil
}
