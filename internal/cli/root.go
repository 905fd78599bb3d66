// Package cli provides the command-line interface for taskbot.
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kijins-dev/chatwork-task-generator/internal/app"
)

// Command group IDs.
const (
	groupSetup = "setup"
	groupTask  = "task"
)

// NewRootCommand creates the root command for taskbot.
// It receives the container for dependency injection and version for display.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "taskbot",
		Short: "Turn Chatwork daily logs into tracked tasks",
		Long: `taskbot reads the daily chat-log reports (YYYY-MM-DD.md), extracts the
next actions and required actions of every room, attributes each one to a
team member and keeps them in a task store.

Typical use:
  taskbot generate --notify   # today's report, post the team list to Chatwork
  taskbot list                # pending tasks grouped by assignee
  taskbot board               # review and complete tasks in the terminal`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if c == nil {
				return nil
			}
			for _, w := range c.Config.Warnings {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
			}
			return nil
		},
	}

	// Parsed before the container is built; see ConfigPathFromArgs.
	root.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ./taskbot.toml)")

	root.AddGroup(
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
		&cobra.Group{ID: groupTask, Title: "Task Commands:"},
	)

	configCmd := newConfigCommand(c)
	configCmd.GroupID = groupSetup

	parseCmd := newParseCommand(c)
	parseCmd.GroupID = groupSetup

	generateCmd := newGenerateCommand(c)
	generateCmd.GroupID = groupTask

	listCmd := newListCommand(c)
	listCmd.GroupID = groupTask

	completeCmd := newCompleteCommand(c)
	completeCmd.GroupID = groupTask

	clearCmd := newClearCommand(c)
	clearCmd.GroupID = groupTask

	notifyCmd := newNotifyCommand(c)
	notifyCmd.GroupID = groupTask

	boardCmd := newBoardCommand(c)
	boardCmd.GroupID = groupTask

	root.AddCommand(
		configCmd,
		parseCmd,
		generateCmd,
		listCmd,
		completeCmd,
		clearCmd,
		notifyCmd,
		boardCmd,
	)

	return root
}

// ConfigPathFromArgs returns the value of --config in args, or "".
func ConfigPathFromArgs(args []string) string {
	for i, arg := range args {
		if arg == "--" {
			return ""
		}
		if v, ok := strings.CutPrefix(arg, "--config="); ok {
			return v
		}
		if arg == "--config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}
