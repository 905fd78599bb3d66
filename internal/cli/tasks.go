package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kijins-dev/chatwork-task-generator/internal/app"
	"github.com/kijins-dev/chatwork-task-generator/internal/usecase"
)

// newListCommand creates the list command.
func newListCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Assignee string
		All      bool
	}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored tasks",
		Long: `Display stored tasks grouped by assignee.

The operator's tasks come first; other assignees follow in Japanese
collation order. Completed tasks are hidden unless --all is given.

Examples:
  taskbot list
  taskbot list --assignee 宮内良明
  taskbot list --all`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc, err := c.ListTasksUseCase(cmd.Context())
			if err != nil {
				return err
			}
			out, err := uc.Execute(cmd.Context(), usecase.ListTasksInput{
				Assignee:         opts.Assignee,
				IncludeCompleted: opts.All,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(out.Tasks) == 0 {
				_, _ = fmt.Fprintln(w, "No tasks.")
				return nil
			}
			printGroups(w, out.Groups, newListStyles())
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Assignee, "assignee", "", "Show only this assignee's tasks")
	cmd.Flags().BoolVarP(&opts.All, "all", "a", false, "Include completed tasks")

	return cmd
}

// newCompleteCommand creates the complete command.
func newCompleteCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "complete <id>",
		Short: "Mark a task completed",
		Long: `Mark a pending task completed.

Examples:
  taskbot complete T12`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := c.CompleteTaskUseCase(cmd.Context())
			if err != nil {
				return err
			}
			out, err := uc.Execute(cmd.Context(), usecase.CompleteTaskInput{TaskID: args[0]})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Completed %s\n", out.TaskID)
			return nil
		},
	}
}

// newClearCommand creates the clear command.
func newClearCommand(c *app.Container) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every stored task",
		Long: `Remove every task from the store. Task IDs keep counting up afterwards.

Requires --yes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return fmt.Errorf("refusing to clear the store without --yes")
			}
			uc, err := c.ClearTasksUseCase(cmd.Context())
			if err != nil {
				return err
			}
			out, err := uc.Execute(cmd.Context(), usecase.ClearTasksInput{})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed %d tasks\n", out.Removed)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm removal")

	return cmd
}
