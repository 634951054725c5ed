// Package commands holds the dataviewer subcommands.
package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/dataviewer/internal/core"
)

// DefaultMaxSize is used when the root --max-size flag is absent.
const DefaultMaxSize int64 = 200 << 20

func maxSize(cmd *cobra.Command) int64 {
	if v, err := cmd.Flags().GetInt64("max-size"); err == nil {
		return v
	}
	return DefaultMaxSize
}

// openSession loads path into a new session.
func openSession(cmd *cobra.Command, path string) (*core.Session, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	start := time.Now()
	sess := core.NewSession()
	if err := sess.LoadReader(f, filepath.Base(path), maxSize(cmd)); err != nil {
		return nil, err
	}

	t := sess.Table()
	slog.Debug("file loaded",
		"file", sess.FileName(),
		"rows", t.Len(),
		"columns", len(t.Columns),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return sess, nil
}

// textRows renders the rows at idx as text.
func textRows(t *core.Table, idx []int) [][]string {
	out := make([][]string, 0, len(idx))
	for _, i := range idx {
		row := t.Row(i)
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = v.String()
		}
		out = append(out, cells)
	}
	return out
}

func allRows(t *core.Table) []int {
	idx := make([]int, t.Len())
	for i := range idx {
		idx[i] = i
	}
	return idx
}
