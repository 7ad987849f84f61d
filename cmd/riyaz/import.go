package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kiddomusic/riyaz/internal/cli"
	"github.com/kiddomusic/riyaz/internal/whatsapp"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <export>...",
		Short: "Import WhatsApp chat exports",
		Long: `Import one or more WhatsApp chat exports (zip archives or bare _chat.txt
files), merge them, and store the deduplicated message archive.

Overlapping exports are safe: messages already imported are skipped.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImport,
	}

	cmd.Flags().Bool("dry-run", false, "Parse and merge without saving to the database")
	_ = viper.BindPFlag("import.dry_run", cmd.Flags().Lookup("dry-run"))

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	slog.Info(cli.FormatTitle("Importing chat exports"), "exports", len(args))

	messages, report := whatsapp.Merge(args)

	for _, failure := range report.Failed {
		slog.Warn(cli.FormatWarning("Skipped unreadable export"),
			"path", failure.Path, "error", failure.Err)
	}

	slog.Info("Merged exports",
		"archives_read", report.ArchivesRead,
		"parsed", report.ParsedTotal,
		"duplicates", report.Duplicates,
		"undated", report.Undated,
		"kept", len(messages))

	if viper.GetBool("import.dry_run") {
		slog.Info(cli.FormatWarning("Dry run mode - not saving to database"))
		return nil
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

	saved, err := store.SaveMessages(ctx, messages)
	if err != nil {
		return fmt.Errorf("failed to save messages: %w", err)
	}

	total, err := store.GetMessageCount(ctx)
	if err != nil {
		return fmt.Errorf("failed to count messages: %w", err)
	}

	slog.Info(cli.FormatSuccess(fmt.Sprintf("Imported %d new messages (%d total in archive)", saved, total)))

	return nil
}
