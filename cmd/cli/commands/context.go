package commands

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/danyan90/TA/internal/config"
	"github.com/danyan90/TA/pkg/clients/sheetsclient"
	"github.com/danyan90/TA/pkg/db"
	"github.com/danyan90/TA/pkg/table"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg          *config.Config
	Table        *table.Table
	SheetsClient *sheetsclient.Client
	Runs         db.RunStore // nil when no database is configured
	Logger       *zap.Logger
	Ctx          context.Context
}

// SaveTable writes the roster back to its source. outputPath overrides the
// configured CSV output path and is ignored for sheets.
func (app *AppContext) SaveTable(outputPath string) error {
	switch app.Cfg.Source {
	case config.SourceCSV:
		path := app.Cfg.CSV.OutputPath
		if outputPath != "" {
			path = outputPath
		}
		app.Logger.Info("Saving roster", zap.String("path", path))
		return app.Table.SaveCSVFile(path)
	case config.SourceSheets:
		app.Logger.Info("Saving roster",
			zap.String("spreadsheet_id", app.Cfg.Sheets.SpreadsheetID),
			zap.String("tab", app.Cfg.Sheets.Tab))
		return sheetsclient.SaveTable(app.SheetsClient, app.Cfg.Sheets.SpreadsheetID, app.Cfg.Sheets.Tab, app.Table)
	default:
		return fmt.Errorf("unknown roster source %q", app.Cfg.Source)
	}
}
