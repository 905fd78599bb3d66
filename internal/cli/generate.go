package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kijins-dev/chatwork-task-generator/internal/app"
	"github.com/kijins-dev/chatwork-task-generator/internal/domain"
	"github.com/kijins-dev/chatwork-task-generator/internal/usecase"
)

// newGenerateCommand creates the generate command.
func newGenerateCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Date        string
		MetricsFile string
		Today       bool
		All         bool
		Notify      bool
		Clear       bool
		DryRun      bool
	}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Extract tasks from daily reports",
		Long: `Extract tasks from the daily chat-log reports and store the new ones.

Report selection (default --today):
  -t, --today   today's report, or the newest one if today has none
  -a, --all     every report in the log directory
  -d, --date    the report of one day (YYYY-MM-DD)

Tasks already in the store (same assignee and content) are not added again.
With --notify the team list and daily summary are posted to Chatwork.

Examples:
  taskbot generate
  taskbot generate --all --dry-run
  taskbot generate -d 2025-01-15 --notify
  taskbot generate --clear --metrics-file /var/lib/node_exporter/taskbot.prom`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sel := domain.Selection{Mode: domain.SelectToday}
			switch {
			case opts.All:
				sel.Mode = domain.SelectAll
			case opts.Date != "":
				sel.Mode = domain.SelectDate
				sel.Date = opts.Date
			}
			if err := sel.Validate(); err != nil {
				return fmt.Errorf("%w: --date must be YYYY-MM-DD", err)
			}

			uc, err := c.GenerateTasksUseCase(cmd.Context())
			if err != nil {
				return err
			}
			out, runErr := uc.Execute(cmd.Context(), usecase.GenerateTasksInput{
				Selection: sel,
				Notify:    opts.Notify,
				Clear:     opts.Clear,
				DryRun:    opts.DryRun,
			})

			if opts.MetricsFile != "" {
				if err := c.Metrics.WriteToTextfile(opts.MetricsFile); err != nil {
					return errors.Join(runErr, fmt.Errorf("write metrics: %w", err))
				}
			}
			if runErr != nil {
				return runErr
			}

			printGenerateResult(cmd.OutOrStdout(), out, opts.DryRun)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&opts.Today, "today", "t", false, "Process today's report (default)")
	cmd.Flags().BoolVarP(&opts.All, "all", "a", false, "Process every report")
	cmd.Flags().StringVarP(&opts.Date, "date", "d", "", "Process the report of this date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&opts.Notify, "notify", false, "Post the team list and summary to Chatwork")
	cmd.Flags().BoolVar(&opts.Clear, "clear", false, "Remove stored tasks before adding")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Extract and print without storing, writing or posting")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", "", "Write Prometheus metrics to this file")
	cmd.MarkFlagsMutuallyExclusive("today", "all", "date")

	return cmd
}

// printGenerateResult prints a run summary followed by the task list.
func printGenerateResult(w io.Writer, out *usecase.GenerateTasksOutput, dryRun bool) {
	styles := newListStyles()

	for _, r := range out.Reports {
		_, _ = fmt.Fprintf(w, "%s %s (%s): %d rooms, 次アクション %d, 要対応 %d\n",
			styles.muted.Render("report"), r.Source, r.Date, r.Rooms, r.NextActions, r.RequiredActions)
	}
	for _, s := range out.Skipped {
		_, _ = fmt.Fprintf(w, "%s %s\n", styles.warning.Render("skipped"), s)
	}

	st := out.Stats
	_, _ = fmt.Fprintf(w, "\n%d tasks extracted (defaulted %d, duplicates %d, excluded rooms %d)\n",
		len(out.Tasks), st.Defaulted, st.Duplicates, st.ExcludedRooms)
	if out.Rejected > 0 {
		_, _ = fmt.Fprintf(w, "%d rejected by validation\n", out.Rejected)
	}
	if out.NonMember > 0 {
		_, _ = fmt.Fprintf(w, "%d dropped (not on the roster)\n", out.NonMember)
	}

	if dryRun {
		_, _ = fmt.Fprintln(w, styles.warning.Render("dry run: nothing stored"))
	} else {
		_, _ = fmt.Fprintf(w, "%d new tasks stored\n", len(out.Added))
	}
	for _, path := range out.Written {
		_, _ = fmt.Fprintf(w, "wrote %s\n", path)
	}
	if out.Notified {
		_, _ = fmt.Fprintln(w, styles.success.Render("posted to Chatwork"))
	}

	if len(out.Groups) > 0 {
		_, _ = fmt.Fprintln(w)
		printGroups(w, out.Groups, styles)
	}
}
