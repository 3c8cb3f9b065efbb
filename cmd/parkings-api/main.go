package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	parkings "github.com/theoremus-urban-solutions/parkings-aggregator"
	"github.com/theoremus-urban-solutions/parkings-aggregator/config"
	"github.com/theoremus-urban-solutions/parkings-aggregator/internal/logging"
	"github.com/theoremus-urban-solutions/parkings-aggregator/source"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "parkings-api",
		Short:        "Aggregated parking availability API",
		SilenceUsage: true,
	}
	cmd.AddCommand(newServeCmd())
	return cmd
}

func newServeCmd() *cobra.Command {
	var (
		configPath string
		port       int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the aggregation API over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(configPath, port)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "config.yml", "path to configuration file")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides configuration)")
	return cmd
}

func serve(configPath string, port int) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if port != 0 {
		cfg.Server.Port = port
	}

	log, err := logging.New(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() { _ = log.Sync() }()

	reg, err := source.NewRegistry(cfg, log)
	if err != nil {
		return err
	}
	log.Info("registry built",
		zap.Int("cities", len(reg.Cities())),
		zap.Duration("cache_ttl", cfg.CacheTTL()))

	return parkings.NewServer(cfg.Server, reg, log).Run()
}
