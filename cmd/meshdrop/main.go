// Command meshdrop serves a browser viewport for glTF model folders.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/custodia-labs/meshdrop/internal/adapters/driven/config/file"
	"github.com/custodia-labs/meshdrop/internal/adapters/driven/gltfdoc"
	"github.com/custodia-labs/meshdrop/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/meshdrop/internal/adapters/driving/cli"
	"github.com/custodia-labs/meshdrop/internal/adapters/driving/web"
	"github.com/custodia-labs/meshdrop/internal/connectors/filesystem"
	"github.com/custodia-labs/meshdrop/internal/core/domain"
	"github.com/custodia-labs/meshdrop/internal/core/ports/driving"
	"github.com/custodia-labs/meshdrop/internal/core/services"
	"github.com/custodia-labs/meshdrop/internal/logger"
)

// version is set by the linker.
var version = "dev"

// configDirEnv points at an alternative config directory.
const configDirEnv = "MESHDROP_HOME"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	defer logger.Sync() //nolint:errcheck

	configStore, err := file.NewConfigStore(os.Getenv(configDirEnv))
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)
	settings := loadSettings(settingsService, configStore.Path())

	objects := memory.NewObjectStore()
	scene := memory.NewScene()
	connector := filesystem.New()
	defer connector.Close() //nolint:errcheck
	parser := gltfdoc.NewParser()

	viewer := services.NewViewer(connector, objects, scene, parser, *settings)
	defer viewer.Close()

	server, err := web.NewServer(&web.Ports{
		Viewer:  viewer,
		Objects: objects,
		Scene:   scene,
	}, web.Config{
		Addr:        settings.Viewer.Addr,
		RescaleRate: settings.Viewer.RescaleRate,
		Decoder:     settings.Decoder,
	})
	if err != nil {
		return err
	}
	scene.Subscribe(server.Hub())
	viewer.OnOutcome(server.Hub().LoadOutcome)

	cli.SetVersion(version)
	cli.SetServices(&cli.Services{
		Viewer:   viewer,
		Inspect:  services.NewInspector(connector, objects, parser, settings.Decoder),
		Reloader: services.NewReloader(viewer, connector, settings.Watch),
		Settings: settingsService,
		Scene:    scene,
		Server:   server,
	})

	return cli.Execute(context.Background())
}

// loadSettings returns the stored settings, or the defaults when they do
// not validate. It runs before --verbose is parsed, so the fallback is
// logged at error level to stay visible.
func loadSettings(svc driving.SettingsService, path string) *domain.AppSettings {
	settings, err := svc.Get()
	if err != nil {
		logger.Error("invalid settings in %s, using defaults: %v", path, err)
		defaults := svc.GetDefaults()
		return &defaults
	}
	return settings
}
