package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"esg-dashboard/ghg-backend/internal/config"
	"esg-dashboard/ghg-backend/internal/logging"
)

// options shared by every subcommand.
type rootOptions struct {
	configPath string
	dbPath     string
	debug      bool
}

// NewRootCmd creates the root command for the ghgctl CLI.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "ghgctl",
		Short:         "GHG calculator administration tool",
		Long:          "ghgctl works against the same configuration and database as the API server.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: `  # List the built-in Scope 2 factors
  ghgctl factors --scope "Scope 2"

  # Export a user's assessment as a CSV bundle
  ghgctl export --user alice --format csv --out ./reports

  # Mint a bearer token for local testing
  ghgctl token --user alice`,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "config.json", "path to the JSON config file")
	cmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "SQLite database path (overrides config)")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	cmd.AddCommand(
		newFactorsCmd(),
		newUnitsCmd(),
		newExportCmd(opts),
		newTokenCmd(opts),
	)
	return cmd
}

func (o *rootOptions) load() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(o.configPath)
	if err != nil {
		return nil, nil, err
	}
	if o.dbPath != "" {
		cfg.Database.Driver = "sqlite"
		cfg.Database.Path = o.dbPath
	}

	logCfg := config.LoggingConfig{Level: "error", Development: true}
	if o.debug {
		logCfg.Level = "debug"
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}
