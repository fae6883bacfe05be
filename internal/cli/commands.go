package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"esg-dashboard/ghg-backend/internal/app"
	"esg-dashboard/ghg-backend/internal/auth"
	"esg-dashboard/ghg-backend/internal/ghg"
	"esg-dashboard/ghg-backend/internal/reports"
)

const tabwriterPadding = 2

func newFactorsCmd() *cobra.Command {
	var scope string

	cmd := &cobra.Command{
		Use:   "factors",
		Short: "List the built-in emission factors",
		RunE: func(cmd *cobra.Command, _ []string) error {
			table := ghg.DefaultFactorTable()
			if scope != "" && !slices.Contains(table.ScopeNames(), scope) {
				return fmt.Errorf("unknown scope %q", scope)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, tabwriterPadding, ' ', 0)
			fmt.Fprintln(tw, "SCOPE\tCATEGORY\tFUEL CATEGORY\tFUEL TYPE\tKG CO2E/UNIT")
			for _, s := range table.Scopes {
				if scope != "" && s.Name != scope {
					continue
				}
				for _, c := range s.Categories {
					for _, fc := range c.FuelCategories {
						for _, f := range fc.Fuels {
							fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
								s.Name, c.Name, fc.Name, f.Name, strconv.FormatFloat(f.Factor, 'f', -1, 64))
						}
					}
				}
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&scope, "scope", "", "only list factors for this scope")
	return cmd
}

func newUnitsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "units",
		Short: "List the supported activity units and their multipliers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, tabwriterPadding, ' ', 0)
			fmt.Fprintln(tw, "UNIT\tMULTIPLIER")
			for _, u := range ghg.DefaultUnitTable().Units() {
				fmt.Fprintf(tw, "%s\t%s\n", u.Name, strconv.FormatFloat(u.Multiplier, 'f', -1, 64))
			}
			return tw.Flush()
		},
	}
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	var (
		userID  string
		format  string
		outDir  string
		archive bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a stored assessment",
		RunE: func(cmd *cobra.Command, _ []string) error {
			exportFormat, err := reports.ParseFormat(format)
			if err != nil {
				return err
			}

			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx := cmd.Context()
			application, err := app.New(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer application.Close()

			file, err := application.Reports.Export(ctx, userID, exportFormat)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(outDir, 0o750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
			path := filepath.Join(outDir, file.Name)
			if err := os.WriteFile(path, file.Data, 0o600); err != nil {
				return fmt.Errorf("failed to write report: %w", err)
			}
			cmd.Printf("Report written to %s\n", path)

			if archive {
				url, err := application.Reports.Archive(ctx, userID, file)
				if err != nil {
					return err
				}
				cmd.Printf("Archived: %s\n", url)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user identity whose session is exported")
	cmd.Flags().StringVar(&format, "format", string(reports.ExportFormatExcel), "xlsx, csv or pdf")
	cmd.Flags().StringVar(&outDir, "out", ".", "output directory")
	cmd.Flags().BoolVar(&archive, "archive", false, "also upload the report to the configured bucket")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newTokenCmd(opts *rootOptions) *cobra.Command {
	var (
		userID string
		email  string
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for development",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			defer logger.Sync()

			tokens := auth.NewTokenManager(cfg.Security.JWTSecret, cfg.Security.TokenTTL)
			token, err := tokens.Issue(userID, email, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "subject of the token")
	cmd.Flags().StringVar(&email, "email", "", "optional email claim")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
