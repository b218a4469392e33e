package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/danyan90/TA/cmd/cli/commands"
	"github.com/danyan90/TA/internal/config"
	"github.com/danyan90/TA/pkg/clients/sheetsclient"
	"github.com/danyan90/TA/pkg/postgres"
	"github.com/danyan90/TA/pkg/table"
	"github.com/danyan90/TA/pkg/utils/logging"
)

var (
	env      string
	verbose  bool
	app      = &commands.AppContext{}
	database *postgres.DB
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ta",
		Short: "Station rotation CLI - Allocate lab stations for each session",
		Long: `A CLI tool that reads a roster of station assignments and appends new session columns,
spreading each previous station group across different stations.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if database != nil {
				database.Close()
			}
			if app.Logger != nil {
				app.Logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug output on the console")
	rootCmd.MarkPersistentFlagRequired("env")

	rootCmd.AddCommand(commands.AddColumnsCmd(app))
	rootCmd.AddCommand(commands.ShowColumnCmd(app))
	rootCmd.AddCommand(commands.ListRunsCmd(app))
	rootCmd.AddCommand(commands.InteractiveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config, roster, and database
func initApp() error {
	var err error
	app.Ctx = context.Background()

	app.Logger, err = logging.InitLogger(env, verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application", zap.String("environment", env))

	app.Logger.Info("Loading configuration")
	app.Cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully", zap.String("source", app.Cfg.Source))

	switch app.Cfg.Source {
	case config.SourceCSV:
		app.Logger.Info("Loading roster", zap.String("path", app.Cfg.CSV.InputPath))
		app.Table, err = table.LoadCSVFile(app.Cfg.CSV.InputPath)
		if err != nil {
			return fmt.Errorf("failed to load roster: %w", err)
		}
	case config.SourceSheets:
		app.Logger.Info("Loading OAuth client configuration")
		oauthCfg, err := config.LoadOAuthClientWithEnv(env)
		if err != nil {
			return fmt.Errorf("failed to load OAuth client config: %w", err)
		}

		app.Logger.Info("Initializing sheets client")
		app.SheetsClient, err = sheetsclient.NewClient(app.Ctx, oauthCfg, env)
		if err != nil {
			return fmt.Errorf("failed to create sheets client: %w", err)
		}

		app.Logger.Info("Loading roster",
			zap.String("spreadsheet_id", app.Cfg.Sheets.SpreadsheetID),
			zap.String("tab", app.Cfg.Sheets.Tab))
		app.Table, err = sheetsclient.LoadTable(app.SheetsClient, app.Cfg.Sheets.SpreadsheetID, app.Cfg.Sheets.Tab)
		if err != nil {
			return fmt.Errorf("failed to load roster: %w", err)
		}
	}
	app.Logger.Debug("Roster loaded",
		zap.Int("rows", app.Table.RowCount()),
		zap.Strings("columns", app.Table.ColumnNames()))

	if app.Cfg.DatabaseURL == "" {
		app.Logger.Info("No database configured, runs will not be recorded")
		return nil
	}

	app.Logger.Info("Connecting to database")
	database, err = postgres.NewDB(app.Ctx, app.Cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := database.RunMigrations(app.Ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	app.Runs = database
	app.Logger.Info("Database initialized successfully")

	return nil
}
