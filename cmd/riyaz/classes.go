package main

import (
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kiddomusic/riyaz/internal/classes"
	"github.com/kiddomusic/riyaz/internal/cli"
	"github.com/kiddomusic/riyaz/internal/model"
	"github.com/kiddomusic/riyaz/internal/whatsapp"
)

func classesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classes [export...]",
		Short: "Extract the class calendar from the imported archive",
		Long: `Scan the teacher's messages for scheduling announcements and rebuild the
class calendar: regular classes, online classes, performances, and
cancellations or reschedules.

With no arguments the imported archive is scanned; passing export files
extracts directly from them instead.`,
		RunE: runClasses,
	}

	cmd.Flags().Bool("dry-run", false, "Print the calendar without saving it")
	_ = viper.BindPFlag("classes.dry_run", cmd.Flags().Lookup("dry-run"))

	return cmd
}

func runClasses(cmd *cobra.Command, args []string) error {
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

	var messages []model.Message
	if len(args) > 0 {
		var report whatsapp.MergeReport
		messages, report = whatsapp.Merge(args)
		for _, failure := range report.Failed {
			slog.Warn(cli.FormatWarning("Skipped unreadable export"),
				"path", failure.Path, "error", failure.Err)
		}
	} else {
		messages, err = loadAllMessages(ctx, store)
		if err != nil {
			return err
		}
	}
	if len(messages) == 0 {
		return fmt.Errorf("no messages in the archive; run riyaz import first")
	}

	slog.Info(cli.FormatTitle("Extracting class dates"), "messages", len(messages))

	dates := classes.Extract(messages, teacher)
	printCalendar(dates)

	summary := classes.Summary(dates)
	slog.Info("Calendar extracted",
		"total", len(dates),
		"classes", summary[model.EventClass],
		"online", summary[model.EventOnline],
		"performances", summary[model.EventPerformance],
		"cancelled", summary[model.EventCancelled],
		"rescheduled", summary[model.EventRescheduled])

	if viper.GetBool("classes.dry_run") {
		slog.Info(cli.FormatWarning("Dry run mode - not saving to database"))
		return nil
	}

	if err := store.ReplaceClassDates(ctx, dates); err != nil {
		return fmt.Errorf("failed to save class dates: %w", err)
	}

	slog.Info(cli.FormatSuccess(fmt.Sprintf("Saved %d class dates", len(dates))))

	return nil
}

func printCalendar(dates []model.ClassDate) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, cli.TableHeaderStyle.Render("DATE")+"\tTIME\tTYPE\tEVIDENCE")

	for _, d := range dates {
		evidence := d.Evidence
		typeLabel := string(d.Type)
		if d.Type.IsCancellation() {
			typeLabel = cli.StyleWarning(typeLabel)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.Date, d.Time, typeLabel, evidence)
	}

	if err := w.Flush(); err != nil {
		slog.Error("Failed to render calendar table", "error", err)
	}
}
