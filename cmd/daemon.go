package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/mcpscout/mcpscout/internal/cmd"
	"github.com/mcpscout/mcpscout/internal/daemon"
)

// DaemonCmd should be used to represent the 'daemon' command.
type DaemonCmd struct {
	*cmd.BaseCmd
	Dev  bool
	Addr string
}

// NewDaemonCmd creates a newly configured (Cobra) command.
func NewDaemonCmd(logger hclog.Logger) *cobra.Command {
	c := &DaemonCmd{
		BaseCmd: &cmd.BaseCmd{},
	}
	c.SetLogger(logger)

	cobraCommand := &cobra.Command{
		Use:   "daemon [--dev] [--addr]",
		Short: "Launches an `mcpscout` daemon instance",
		Long:  "Launches an `mcpscout` daemon instance, which serves the stored catalog via HTTP API",
		RunE:  c.run,
	}

	cobraCommand.Flags().BoolVar(
		&c.Dev,
		"dev",
		false,
		"Run the daemon in development-focused mode",
	)

	cobraCommand.Flags().StringVar(
		&c.Addr,
		"addr",
		"",
		"Address for the daemon to bind (defaults to the configured api.addr)",
	)

	cobraCommand.MarkFlagsMutuallyExclusive("dev", "addr")

	return cobraCommand
}

// run is configured (via NewDaemonCmd) to be called by the Cobra framework when the command is executed.
// It may return an error (or nil, when there is no error).
func (c *DaemonCmd) run(_ *cobra.Command, _ []string) error {
	logger := c.Logger()

	cfg, err := c.LoadConfig()
	if err != nil {
		return err
	}

	addr := strings.TrimSpace(c.Addr)
	if addr == "" {
		addr = cfg.API.Addr
	}

	// Override address for dev mode.
	if c.Dev {
		devAddr := "localhost:8090"
		logger.Info("Development-focused mode", "addr", addr, "override", devAddr)
		addr = devAddr
	}

	st, err := c.OpenStore(cfg)
	if err != nil {
		return err
	}
	defer func() {
		_ = st.Close()
	}()

	deps, err := daemon.NewAPIDependencies(logger, st, addr)
	if err != nil {
		return fmt.Errorf("error configuring mcpscout daemon: %w", err)
	}

	opts := []daemon.APIOption{
		daemon.WithShutdownTimeout(cfg.ShutdownTimeout()),
	}
	if cfg.API.CORSEnabled {
		opts = append(opts,
			daemon.WithCORSEnabled(true),
			daemon.WithCORSAllowOrigins(cfg.API.CORSOrigins),
		)
	}

	srv, err := daemon.NewAPIServer(deps, opts...)
	if err != nil {
		return fmt.Errorf("failed to create mcpscout daemon instance: %w", err)
	}

	// Create the signal handling context for the application.
	daemonCtx, daemonCtxCancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM, syscall.SIGINT,
	)
	defer daemonCtxCancel()

	if err := srv.Start(daemonCtx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	return nil
}
