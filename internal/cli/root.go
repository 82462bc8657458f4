// Package cli holds the cobra commands of the headlines binary.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/samvad-hq/headline-sentiment/internal/app"
	"github.com/samvad-hq/headline-sentiment/internal/config"
	"github.com/samvad-hq/headline-sentiment/internal/logger"
)

type rootOptions struct {
	cfgFile  string
	logLevel string
	version  string

	v   *viper.Viper
	cfg config.Config
	log logger.Logger

	appOpts []app.Option
}

// Execute runs the root command with os.Args.
func Execute(version string) error {
	return newRootCmd(version).Execute()
}

func newRootCmd(version string, appOpts ...app.Option) *cobra.Command {
	opts := &rootOptions{version: version, v: config.New(), appOpts: appOpts}

	root := &cobra.Command{
		Use:   "headlines",
		Short: "Top news headlines with market sentiment",
		Long: `headlines fetches the top news feed for a country and labels every
headline Positive, Negative or Neutral with a financial sentiment model.

Example usage:
  headlines serve                          # Start the web UI and JSON API
  headlines show --country India           # Print the first page for India
  headlines show --country Japan --page 2  # Print the second page
  headlines countries                      # List supported countries`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.init()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if opts.log != nil {
				_ = opts.log.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (yaml, json or toml)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override log.level")
	_ = opts.v.BindPFlag("log.level", root.PersistentFlags().Lookup("log-level"))

	root.AddCommand(
		newServeCmd(opts),
		newShowCmd(opts),
		newCountriesCmd(opts),
	)
	return root
}

func (o *rootOptions) init() error {
	cfg, err := config.Load(o.v, o.cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	o.cfg = cfg
	o.log = log
	log.DebugObj("configuration loaded", "config_loaded", map[string]any{
		"version":           o.version,
		"http_addr":         cfg.HTTP.Addr,
		"sentiment_backend": cfg.Sentiment.Backend,
		"countries_file":    cfg.Countries.File,
		"publishers_file":   cfg.Publishers.File,
	})
	return nil
}

func (o *rootOptions) build(ctx context.Context) (*app.App, error) {
	return app.New(ctx, o.cfg, o.log, o.appOpts...)
}
