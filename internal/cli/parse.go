package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kijins-dev/chatwork-task-generator/internal/app"
	"github.com/kijins-dev/chatwork-task-generator/internal/usecase"
)

// newParseCommand creates the parse command.
func newParseCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <file>",
		Short: "Show how a report is parsed",
		Long: `Parse one report and show every room and how each action line resolves.
Nothing is stored.

Examples:
  taskbot parse logs/2025-01-15.md`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.ParseReportUseCase().Execute(cmd.Context(), usecase.ParseReportInput{Path: args[0]})
			if err != nil {
				return err
			}
			printParseResult(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func printParseResult(w io.Writer, out *usecase.ParseReportOutput) {
	_, _ = fmt.Fprintf(w, "Report: %s\nDate:   %s\nRooms:  %d\n\n", out.Report.Source, out.Report.Date, len(out.Report.Rooms))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ROOM\tNEXT\tREQUIRED\tMENTION\tMESSAGE")
	for _, r := range out.Report.Rooms {
		mention, message := "-", "-"
		if r.SelfRelation != nil {
			mention, message = yesNo(r.SelfRelation.HasMention), yesNo(r.SelfRelation.HasMessage)
		}
		_, _ = fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\n",
			r.Name, len(r.NextActions), len(r.RequiredActions), mention, message)
	}
	_ = tw.Flush()
	_, _ = fmt.Fprintln(w)

	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ROOM\tKIND\tOUTCOME\tMATCHER\tASSIGNEE\tCONTENT\tDEADLINE")
	for _, l := range out.Lines {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			l.Room, l.Kind.Display(), l.Outcome, dash(l.Matcher), dash(l.Assignee), dash(l.Content), dash(l.Deadline))
	}
	_ = tw.Flush()

	st := out.Stats
	_, _ = fmt.Fprintf(w, "\n%d tasks (defaulted %d, dropped %d, duplicates %d, excluded rooms %d)\n",
		len(out.Tasks), st.Defaulted, st.Dropped, st.Duplicates, st.ExcludedRooms)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
