package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/go-lynx/desktop"
	"github.com/go-lynx/desktop/log"
)

var (
	flagConf     string
	flagLogLevel string
)

// rootCmd is the root command of the desktop host.
var rootCmd = &cobra.Command{
	Use:           "lynx-desktop",
	Short:         "Lynx Desktop: bootstrap host for desktop applications",
	Long:          `Lynx Desktop registers the core capability plugins, opens crash reporting when configured, and runs the application host.`,
	Version:       desktop.Version(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(cmdRun, cmdVersion, cmdPlugins, cmdConfig)
	rootCmd.PersistentFlags().StringVarP(&flagConf, "conf", "c", "", "config path, eg: -c config.yaml")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: error|warn|info|debug (overrides config)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		_ = log.Cleanup()
		os.Exit(1)
	}
}
