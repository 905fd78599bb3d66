package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kijins-dev/chatwork-task-generator/internal/app"
	"github.com/kijins-dev/chatwork-task-generator/internal/usecase"
)

// newNotifyCommand creates the notify command.
func newNotifyCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Personal    string
		AllPersonal bool
		Reminder    bool
	}

	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Post stored tasks to Chatwork",
		Long: `Post pending tasks to the configured Chatwork room.

Modes:
  (default)          team list and daily summary
  --personal NAME    one message mentioning NAME with their tasks
  --all-personal     one mention message per assignee
  --reminder         tasks whose deadline is today, tomorrow, this week or a date

Requires CHATWORK_API_TOKEN and chatwork.room_id.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := usecase.NotifyTasksInput{Mode: usecase.NotifyAll}
			switch {
			case opts.Reminder:
				in.Mode = usecase.NotifyReminder
			case opts.Personal != "" || opts.AllPersonal:
				in.Mode = usecase.NotifyPersonal
				in.Assignee = opts.Personal
			}

			uc, err := c.NotifyTasksUseCase(cmd.Context())
			if err != nil {
				return err
			}
			out, err := uc.Execute(cmd.Context(), in)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Posted %d messages (%d tasks)\n", out.Posted, out.Tasks)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Personal, "personal", "", "Mention one assignee with their tasks")
	cmd.Flags().BoolVar(&opts.AllPersonal, "all-personal", false, "Mention every assignee with their tasks")
	cmd.Flags().BoolVar(&opts.Reminder, "reminder", false, "Post tasks with near deadlines")
	cmd.MarkFlagsMutuallyExclusive("personal", "all-personal", "reminder")

	return cmd
}
