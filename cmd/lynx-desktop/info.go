package main

import (
	"fmt"
	"net/url"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/go-lynx/desktop"
	"github.com/go-lynx/desktop/buildinfo"
	"github.com/go-lynx/desktop/conf"
	"github.com/go-lynx/desktop/factory"
)

var cmdVersion = &cobra.Command{
	Use:   "version",
	Short: "Print the core version, release and build mode",
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s\n", color.CyanString("version:"), desktop.Version())
		fmt.Fprintf(out, "%s %s\n", color.CyanString("release:"), buildinfo.ReleaseName())
		fmt.Fprintf(out, "%s %s\n", color.CyanString("mode:   "), buildinfo.CurrentMode())
		return nil
	},
}

var cmdPlugins = &cobra.Command{
	Use:   "plugins",
	Short: "List the core plugins in registration order",
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()
		f := factory.GlobalPluginFactory()
		for i, name := range desktop.CorePlugins() {
			p, err := f.CreatePlugin(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%d. %s  %s\n", i+1, color.GreenString("%-10s", name), p.Description())
		}
		return nil
	},
}

var cmdConfig = &cobra.Command{
	Use:   "config",
	Short: "Print the resolved bootstrap configuration",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, kc, err := loadConfig()
		if err != nil {
			return err
		}
		if kc != nil {
			defer kc.Close()
		}
		printConfig(cmd, cfg)
		return nil
	},
}

func printConfig(cmd *cobra.Command, cfg conf.Config) {
	out := cmd.OutOrStdout()
	endpoint := color.YellowString("(disabled)")
	if cfg.ReportingEnabled() {
		endpoint = redact(cfg.Endpoint)
	}
	fmt.Fprintf(out, "%s %s\n", color.CyanString("sentry_dsn:        "), endpoint)
	fmt.Fprintf(out, "%s %v\n", color.CyanString("sentry_sample_rate:"), cfg.SampleRate)
	fmt.Fprintf(out, "%s %t\n", color.CyanString("enable_devtools:   "), cfg.Devtools)
}

// redact hides the key part of a DSN.
func redact(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.User == nil {
		return dsn
	}
	u.User = url.User("redacted")
	return u.String()
}
