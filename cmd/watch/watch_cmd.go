package watch

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/LegacyCodeHQ/rsbundle/internal/logging"
	"github.com/LegacyCodeHQ/rsbundle/layout"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type watchOptions struct {
	projectDir string
	port       int
	bin        string
	modules    []string
}

// NewCommand returns a new watch command instance.
func NewCommand() *cobra.Command {
	opts := &watchOptions{
		port: 4900,
	}

	cmd := &cobra.Command{
		Use:   "watch [module_names...]",
		Short: "Watch module files and serve a live module graph",
		Long: `Watch the module directory for changes to .rs files, rebuild the graph of
modules reachable from the seed modules, and serve a live-updating
visualization at localhost.

With no module names, every module directly under src/ is a seed.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.modules = args
			return runWatch(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.projectDir, "dir", "C", "", "Project directory containing src/ (default: current directory)")
	cmd.Flags().IntVarP(&opts.port, "port", "P", opts.port, "HTTP server port")
	cmd.Flags().StringVar(&opts.bin, "bin", "", "Entry file under src/bin whose embedded modules are marked")

	return cmd
}

func runWatch(cmd *cobra.Command, opts *watchOptions) error {
	l, err := layout.New(opts.projectDir)
	if err != nil {
		return fmt.Errorf("failed to resolve project directory: %w", err)
	}
	opts.projectDir = l.BaseDir()
	logger := logging.FromCommand(cmd)

	b := newBroker()
	srv := newServer(b, opts.port)

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", opts.port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", opts.port, err)
	}

	initial, err := buildSnapshot(ctx, opts, logger)
	if err != nil {
		ln.Close()
		return fmt.Errorf("initial graph build failed: %w", err)
	}
	b.publish(initial)

	fmt.Fprintf(cmd.OutOrStdout(), "Watching %s\n", l.ModuleRoot())
	fmt.Fprintf(cmd.OutOrStdout(), "Serving at http://localhost:%d\n", opts.port)
	fmt.Fprintf(cmd.OutOrStdout(), "Press Ctrl+C to stop\n")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server stopped: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		defer srv.Close()
		return watchAndRebuild(gctx, l.ModuleRoot(), opts, b, logger)
	})
	return g.Wait()
}
