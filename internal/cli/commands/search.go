package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/dataviewer/internal/core"
)

// Output formats accepted by the search command.
const (
	OutputRecords = "records"
	OutputTable   = "table"
	OutputJSON    = "json"
)

type searchOutput struct {
	File    string         `json:"file"`
	Column  string         `json:"column"`
	Query   string         `json:"query"`
	Active  bool           `json:"active"`
	Count   int            `json:"count"`
	Status  string         `json:"status"`
	Records []recordOutput `json:"records"`
}

type recordOutput struct {
	Index  int    `json:"index"`
	Number int    `json:"number"`
	Text   string `json:"text"`
}

// NewSearchCommand creates the search command.
func NewSearchCommand() *cobra.Command {
	var (
		column string
		text   string
		output string
	)

	cmd := &cobra.Command{
		Use:   "search <file>",
		Short: "Find rows whose column contains a text",
		Long: `Load a data file and list the rows whose value in --column contains
--text, ignoring case. Matches print as "column: value" records ready to
paste elsewhere. An empty --text runs no search.`,
		Example: `  dataviewer search people.csv --column Name --text ana
  dataviewer search people.csv -c City -t par -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch output {
			case OutputRecords, OutputTable, OutputJSON:
			default:
				return fmt.Errorf("unknown output %q (want %s, %s or %s)", output, OutputRecords, OutputTable, OutputJSON)
			}

			sess, err := openSession(cmd, args[0])
			if err != nil {
				return err
			}

			t := sess.Table()
			if column == "" {
				column = t.Columns[0]
			}

			res, err := sess.Search(column, text)
			if err != nil {
				return err
			}
			records := core.FormatRecords(t, res)

			out := cmd.OutOrStdout()
			switch output {
			case OutputJSON:
				v := searchOutput{
					File:    sess.FileName(),
					Column:  res.Column,
					Query:   res.Text,
					Active:  res.Active,
					Count:   res.Count,
					Status:  core.Status(res),
					Records: []recordOutput{},
				}
				for _, rec := range records {
					v.Records = append(v.Records, recordOutput(rec))
				}
				return renderJSON(out, v)

			case OutputTable:
				_, _ = fmt.Fprintln(out, core.Status(res))
				if res.Count > 0 {
					renderGrid(out, t.Columns, textRows(t, res.Rows))
				}

			default:
				_, _ = fmt.Fprintln(out, core.Status(res))
				for _, rec := range records {
					_, _ = fmt.Fprintf(out, "\nRecord %d:\n%s\n", rec.Number, rec.Text)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&column, "column", "c", "", "Column to search (default: first column)")
	cmd.Flags().StringVarP(&text, "text", "t", "", "Text to look for, ignoring case")
	cmd.Flags().StringVarP(&output, "output", "o", OutputRecords, "Output format (records|table|json)")

	_ = cmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{OutputRecords, OutputTable, OutputJSON}, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}
