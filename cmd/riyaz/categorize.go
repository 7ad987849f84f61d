package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kiddomusic/riyaz/internal/cli"
	"github.com/kiddomusic/riyaz/internal/common"
	"github.com/kiddomusic/riyaz/internal/model"
	"github.com/kiddomusic/riyaz/internal/tagger"
)

func categorizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categorize [dir]",
		Args:  cobra.MaximumNArgs(1),
		Short: "Tag practice recordings by raga with Gemini",
		Long: `Analyze each organized audio recording with the Gemini API and store its
raga, composition type, taal and paltaa classification.

Tags are saved as each file completes, so an interrupted run picks up
where it left off.`,
		RunE: runCategorize,
	}

	cmd.Flags().String("audio-dir", "media/audio", "Directory of organized audio recordings")
	cmd.Flags().Int("rpm", 0, "Requests per minute (default: Gemini free tier)")
	_ = viper.BindPFlag("gemini.audio_dir", cmd.Flags().Lookup("audio-dir"))
	_ = viper.BindPFlag("gemini.rpm", cmd.Flags().Lookup("rpm"))

	return cmd
}

func runCategorize(cmd *cobra.Command, args []string) error {
	apiKey := viper.GetString("gemini.api_key")
	if apiKey == "" {
		return common.NewUserError(
			"no Gemini API key configured; set gemini.api_key in the config file or RIYAZ_GEMINI_API_KEY",
			common.ErrMissingConfig)
	}

	client, err := tagger.NewClient(tagger.Config{
		APIKey:            apiKey,
		Models:            viper.GetStringSlice("gemini.models"),
		RequestsPerMinute: viper.GetInt("gemini.rpm"),
	})
	if err != nil {
		return fmt.Errorf("failed to create tagging client: %w", err)
	}
	defer func() {
		if closeErr := client.Close(); closeErr != nil {
			slog.Warn("Failed to close tagging client", "error", closeErr)
		}
	}()

	store, err := initStorage(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Error("Failed to close storage", "error", closeErr)
		}
	}()

	// Ctrl-C cancels the run; finished tags are already saved.
	handler := cli.NewInterruptHandler(os.Stdout)
	ctx := handler.HandleInterrupts(cmd.Context(), true)

	audioDir := viper.GetString("gemini.audio_dir")
	if len(args) > 0 {
		audioDir = args[0]
	}
	slog.Info(cli.FormatTitle("Tagging recordings"), "dir", audioDir)

	var bar *progressbar.ProgressBar
	report, err := tagger.New(client, store).Run(ctx, audioDir, func(done, total int, tag *model.AudioTag) {
		if bar == nil {
			bar = newTaggingProgressBar(total)
		}
		if tag != nil {
			slog.Debug("Tagged recording",
				"file", tag.FileName, "raga", tag.Raga, "type", tag.CompositionType, "model", tag.Model)
		}
		if addErr := bar.Add(1); addErr != nil {
			slog.Warn("Failed to update progress bar", "error", addErr)
		}
	})
	if err != nil {
		if errors.Is(err, common.ErrNoAudioFiles) {
			return common.NewUserError(
				fmt.Sprintf("no audio files found in %s; run riyaz media first", audioDir), err)
		}
		if handler.WasInterrupted() {
			slog.Info("Tagging interrupted", "tagged", report.Tagged, "skipped", report.Skipped)
			return nil
		}
		return fmt.Errorf("tagging run failed: %w", err)
	}

	slog.Info(cli.FormatSuccess("Tagging complete"),
		"found", report.Total,
		"already_tagged", report.Skipped,
		"tagged", report.Tagged,
		"failed", report.Failed)

	return nil
}

func newTaggingProgressBar(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stdout),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Tagging recordings...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(os.Stdout); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
}
