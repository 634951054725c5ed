package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewViewCommand creates the view command.
func NewViewCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "view <file>",
		Short: "Print a data file as a table",
		Long: `Load a .csv, .xlsx or .xls file and print its rows as a grid.
The first row of the file is the header.`,
		Example: `  dataviewer view people.csv
  dataviewer view report.xlsx --limit 0`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd, args[0])
			if err != nil {
				return err
			}

			t := sess.Table()
			idx := allRows(t)
			if limit > 0 && len(idx) > limit {
				idx = idx[:limit]
			}

			out := cmd.OutOrStdout()
			renderGrid(out, t.Columns, textRows(t, idx))
			if len(idx) < t.Len() {
				_, _ = fmt.Fprintf(out, "(showing %d of %d rows)\n", len(idx), t.Len())
			} else {
				_, _ = fmt.Fprintf(out, "(%d rows)\n", t.Len())
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "Maximum rows to print (0 for all)")
	return cmd
}
