package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kiddomusic/riyaz/internal/cli"
	"github.com/kiddomusic/riyaz/internal/media"
)

func mediaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "media <export>...",
		Short: "Extract and organize media from chat exports",
		Long: `Extract the audio, video and photo attachments from WhatsApp export
archives into audio/, video/ and photos/ directories, renaming each file
with its date and the context inferred from nearby teacher messages.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runMedia,
	}

	cmd.Flags().StringP("output", "o", "media", "Directory to extract media into")
	_ = viper.BindPFlag("media.output", cmd.Flags().Lookup("output"))

	return cmd
}

func runMedia(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	teacher, err := getTeacher()
	if err != nil {
		return err
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

	// Context labels come from the imported archive; an empty archive still
	// works, files just get generic names.
	messages, err := loadAllMessages(ctx, store)
	if err != nil {
		return err
	}
	if len(messages) == 0 {
		slog.Warn(cli.FormatWarning("No imported messages; media will be organized without context labels"))
	}

	outputDir := viper.GetString("media.output")
	slog.Info(cli.FormatTitle("Organizing media"), "exports", len(args), "output", outputDir)

	organizer := media.NewOrganizer(messages, teacher)
	stats, files, err := organizer.Organize(args, outputDir)
	if err != nil {
		return fmt.Errorf("failed to organize media: %w", err)
	}

	labeled := 0
	for _, f := range files {
		if f.Context != "" {
			labeled++
		}
	}

	slog.Info(cli.FormatSuccess(fmt.Sprintf("Extracted %d media files", len(files))),
		"audio", stats.Audio,
		"video", stats.Video,
		"photos", stats.Photos,
		"labeled", labeled)

	return nil
}
