package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kiddomusic/riyaz/internal/cli"
	"github.com/kiddomusic/riyaz/internal/sheets"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Publish the class calendar to Google Sheets",
		Long: `Write the extracted class calendar to a Google Sheets spreadsheet so the
whole class can see upcoming dates, cancellations and reschedules.

Authentication uses either a service account key file or OAuth2
credentials, provided via GOOGLE_SHEETS_* environment variables.`,
		RunE: runExport,
	}

	cmd.Flags().String("spreadsheet-id", "", "Existing spreadsheet to update (default: create a new one)")
	_ = viper.BindPFlag("sheets.spreadsheet_id", cmd.Flags().Lookup("spreadsheet-id"))

	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	sheetsConfig := sheets.DefaultConfig()
	if err := sheetsConfig.LoadFromEnv(); err != nil {
		return err
	}
	if id := viper.GetString("sheets.spreadsheet_id"); id != "" {
		sheetsConfig.SpreadsheetID = id
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Error("Failed to close storage", "error", closeErr)
		}
	}()

	dates, err := store.GetClassDates(ctx)
	if err != nil {
		return fmt.Errorf("failed to load class dates: %w", err)
	}
	if len(dates) == 0 {
		return fmt.Errorf("no class dates to export; run riyaz classes first")
	}

	slog.Info(cli.FormatTitle("Exporting class calendar"), "class_dates", len(dates))

	writer, err := sheets.NewWriter(ctx, sheetsConfig, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to create sheets writer: %w", err)
	}

	if err := writer.Write(ctx, dates); err != nil {
		return fmt.Errorf("failed to export calendar: %w", err)
	}

	slog.Info(cli.FormatSuccess("Calendar exported"))

	return nil
}
