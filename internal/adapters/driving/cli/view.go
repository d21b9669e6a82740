package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/meshdrop/internal/core/domain"
	"github.com/custodia-labs/meshdrop/internal/logger"
)

var (
	viewAddr  string
	viewWatch bool
	viewPanel bool
)

// isTerminal reports whether stdout can host the control panel.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

var viewCmd = &cobra.Command{
	Use:   "view [folder]",
	Short: "Serve the browser viewport",
	Long: `Start the viewport server and print its URL.

With a folder argument the folder is selected immediately, exactly as if it
had been picked in the page. Earlier models stay in the scene when another
folder is selected.

Examples:
  meshdrop view
  meshdrop view ./models/Duck --watch
  meshdrop view ./models/Duck --tui --addr 127.0.0.1:9000`,
	Args: cobra.MaximumNArgs(1),
	RunE: runView,
}

func init() {
	viewCmd.Flags().StringVar(&viewAddr, "addr", "", "listen address (default from viewer.addr)")
	viewCmd.Flags().BoolVarP(&viewWatch, "watch", "w", false, "reselect the folder when its files change")
	viewCmd.Flags().BoolVar(&viewPanel, "tui", false, "show the terminal control panel")
	rootCmd.AddCommand(viewCmd)
}

func runView(cmd *cobra.Command, args []string) error {
	if viewerService == nil || viewerServer == nil {
		return errors.New("viewer not configured")
	}
	var folder string
	if len(args) == 1 {
		folder = args[0]
	}
	if viewWatch && folder == "" {
		return errors.New("--watch needs a folder")
	}

	addr, err := resolveAddr(viewAddr)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := listen(addr)
	if err != nil {
		return err
	}
	cmd.Printf("Viewer: http://%s\n", ln.Addr())

	var wg sync.WaitGroup
	serveErr := make(chan error, 1)
	wg.Add(1)
	go func() {
		defer wg.Done()
		serveErr <- viewerServer.Serve(ctx, ln)
	}()

	if folder != "" {
		outcomes, err := viewerService.SelectFolder(ctx, folder)
		if err != nil {
			stop()
			wg.Wait()
			return fmt.Errorf("select %s: %w", folder, err)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			reportOutcome(cmd.OutOrStdout(), outcomes)
		}()
	}

	if viewWatch {
		if folderReloader == nil {
			logger.Warn("folder watching not configured")
		} else {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := folderReloader.Run(ctx, folder); err != nil && !errors.Is(err, context.Canceled) {
					logger.Error("watch %s: %v", folder, err)
				}
			}()
		}
	}

	if viewPanel && isTerminal() {
		if err := runPanel(ctx); err != nil {
			stop()
			wg.Wait()
			return err
		}
		stop()
	}

	select {
	case <-ctx.Done():
		wg.Wait()
		return <-serveErr
	case err := <-serveErr:
		stop()
		wg.Wait()
		return err
	}
}

// resolveAddr prefers the flag, then the viewer.addr setting.
func resolveAddr(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if settingsService == nil {
		return domain.DefaultAppSettings().Viewer.Addr, nil
	}
	settings, err := settingsService.Get()
	if err != nil {
		return "", fmt.Errorf("failed to get settings: %w", err)
	}
	return settings.Viewer.Addr, nil
}

func listen(addr string) (net.Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}
	return ln, nil
}

func reportOutcome(w io.Writer, outcomes <-chan domain.LoadOutcome) {
	outcome, ok := <-outcomes
	if !ok {
		return
	}
	switch {
	case outcome.Stale:
	case outcome.Err != nil:
		fmt.Fprintf(w, "Load failed: %v\n", outcome.Err)
	case outcome.Model != nil:
		fmt.Fprintf(w, "Loaded %s (%d assets)\n", outcome.Model.Name, len(outcome.Model.Assets))
	}
}
