package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/custodia-labs/meshdrop/internal/adapters/driving/tui"
	"github.com/custodia-labs/meshdrop/internal/logger"
)

// runPanel runs the terminal control panel until it quits or ctx ends.
// Log output is silenced while the panel owns the screen.
func runPanel(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	app, err := tui.NewApp(&tui.Ports{Viewer: viewerService})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	logger.SetOutput(io.Discard)
	defer logger.SetOutput(os.Stderr)

	if err := app.WithContext(ctx).Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
