package commands

import (
	"io"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/dataviewer/internal/core"
	"github.com/JonMunkholm/dataviewer/internal/logging"
	"github.com/JonMunkholm/dataviewer/internal/tui"
)

// NewTUICommand creates the interactive viewer command.
func NewTUICommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tui <file>",
		Short: "Browse and search a data file interactively",
		Long: `Open a data file in an interactive viewer. Type to search the selected
column, press tab to change column and use the arrow keys to pick a record.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// The viewer owns the terminal; load errors are shown in it.
			slog.SetDefault(logging.New(io.Discard, "error", "text"))

			sess := core.NewSession()
			m := tui.New(sess, tui.LoadFile(sess, args[0], maxSize(cmd)))

			p := tea.NewProgram(m,
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
				tea.WithAltScreen(),
			)
			_, err := p.Run()
			return err
		},
	}
}
