package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"nutrisnap/internal/server"
)

func (c *cli) serveCmd() *cobra.Command {
	var (
		host   string
		port   int
		dbPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and MCP tool endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("host") {
				c.cfg.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				c.cfg.Server.Port = port
			}
			if cmd.Flags().Changed("db-path") {
				c.cfg.Storage.DatabasePath = dbPath
			}
			return c.serve(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Host address (overrides config)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port for HTTP transport (overrides config)")
	cmd.Flags().StringVar(&dbPath, "db-path", "", "Database path (overrides config)")
	return cmd
}

func (c *cli) serve(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := c.openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.ConnectProvider(ctx); err != nil {
		// History and settings stay usable; analysis answers 503 and tips
		// degrade to a warning.
		c.logger.Warn("image analysis disabled", zap.Error(err))
	}

	srv := server.New(a)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		<-gctx.Done()
		c.logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Stop(shutdownCtx)
	})
	return g.Wait()
}
