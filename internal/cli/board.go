package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/kijins-dev/chatwork-task-generator/internal/app"
	"github.com/kijins-dev/chatwork-task-generator/internal/tui"
)

// launchBoardFunc is a function variable for launching the board, allowing it to be mocked in tests.
var launchBoardFunc = launchBoard

// newBoardCommand creates the board command.
func newBoardCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Review and complete tasks interactively",
		Long: `Open the terminal task board.

Keys:
  c   complete the selected task
  a   show or hide completed tasks
  r   reload from the store
  /   filter
  q   quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return launchBoardFunc(cmd, c)
		},
	}
}

func launchBoard(cmd *cobra.Command, c *app.Container) error {
	lister, err := c.ListTasksUseCase(cmd.Context())
	if err != nil {
		return err
	}
	completer, err := c.CompleteTaskUseCase(cmd.Context())
	if err != nil {
		return err
	}
	p := tea.NewProgram(tui.New(lister, completer), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
