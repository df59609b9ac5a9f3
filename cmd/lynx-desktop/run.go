package main

import (
	"context"
	"fmt"
	"os"
	"time"

	kconf "github.com/go-kratos/kratos/v2/config"
	"github.com/spf13/cobra"

	"github.com/go-lynx/desktop"
	"github.com/go-lynx/desktop/buildinfo"
	"github.com/go-lynx/desktop/conf"
	"github.com/go-lynx/desktop/host"
	"github.com/go-lynx/desktop/log"
)

const flushTimeout = 2 * time.Second

var flagName string

var cmdRun = &cobra.Command{
	Use:   "run",
	Short: "Bootstrap the core plugins and run the host until interrupted",
	Example: `  # Run with configuration from the environment
  lynx-desktop run

  # Run with a configuration file
  lynx-desktop run -c ./configs/desktop.yaml --name my-app`,
	RunE: runHost,
}

func init() {
	cmdRun.Flags().StringVar(&flagName, "name", buildinfo.Name(), "application name, used for the data directory")
}

func runHost(cmd *cobra.Command, _ []string) error {
	cfg, kc, err := loadConfig()
	if err != nil {
		return err
	}
	if kc != nil {
		defer kc.Close()
	}

	hostname, _ := os.Hostname()
	if err := initLogger(hostname, kc); err != nil {
		return err
	}
	defer log.Cleanup()

	b, g, err := desktop.CreateBuilderWithConfig(cfg, host.WithName(flagName))
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	// The guard stays open until the host has shut down.
	defer g.Close(flushTimeout)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return b.Run(ctx)
}

// loadConfig reads --conf when given, otherwise resolves from the environment.
func loadConfig() (conf.Config, kconf.Config, error) {
	if flagConf == "" {
		return conf.ResolveDefault(), nil, nil
	}
	return conf.LoadFile(flagConf)
}

func initLogger(id string, kc kconf.Config) error {
	_, err := log.Init(flagName, id, desktop.Version(), kc, log.WithLevel(flagLogLevel))
	return err
}
