package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"nutrisnap/internal/app"
	"nutrisnap/internal/config"
	"nutrisnap/internal/logging"
)

const version = "1.0.0"

// cli carries global flags and what PersistentPreRunE builds from them.
type cli struct {
	configPath string
	envFiles   []string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "nutrisnap",
		Short: "NutriSnap - snap a photo of food, get a nutrition estimate",
		Long: `NutriSnap identifies the food in a photo with a hosted generative model,
attaches a placeholder nutrition estimate and keeps every scan in a local history.

Run "nutrisnap serve" for the HTTP and MCP API, or use the subcommands directly.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "nutrisnap.yaml", "Path to the config file")
	root.PersistentFlags().StringSliceVar(&c.envFiles, "env-file", []string{".env"}, ".env files to load before reading the environment")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		c.serveCmd(),
		c.analyzeCmd(),
		c.historyCmd(),
		c.settingsCmd(),
		c.tipsCmd(),
		c.configCmd(),
		versionCmd(),
	)
	return root
}

func (c *cli) setup() error {
	if err := config.LoadDotEnv(c.envFiles...); err != nil {
		return err
	}

	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(cfg.Logging, c.verbose)
	if err != nil {
		return err
	}

	c.cfg = cfg
	c.logger = logger
	return nil
}

func (c *cli) openApp(ctx context.Context) (*app.App, error) {
	return app.New(ctx, c.cfg, c.logger)
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		// No config or logger needed.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "nutrisnap version %s\n", version)
		},
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
