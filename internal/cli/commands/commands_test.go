package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/dataviewer/internal/core"
)

const peopleCSV = "Name,Dept,City\nBob,Sales,Paris\nana,Eng,\nDana,Eng,Rome\n"

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestNewVersionCommand(t *testing.T) {
	out, err := run(t, NewVersionCommand("1.2.3"))

	require.NoError(t, err)
	assert.Contains(t, out, "dataviewer v1.2.3")
}

func TestCommandMetadata(t *testing.T) {
	tests := []struct {
		cmd   *cobra.Command
		use   string
		flags []string
	}{
		{cmd: NewViewCommand(), use: "view <file>", flags: []string{"limit"}},
		{cmd: NewSearchCommand(), use: "search <file>", flags: []string{"column", "text", "output"}},
		{cmd: NewTUICommand(), use: "tui <file>"},
		{cmd: NewVersionCommand("test"), use: "version"},
	}

	for _, tt := range tests {
		t.Run(tt.use, func(t *testing.T) {
			assert.Equal(t, tt.use, tt.cmd.Use)
			assert.NotEmpty(t, tt.cmd.Short)
			assert.NotEmpty(t, tt.cmd.Long)
			for _, flag := range tt.flags {
				assert.NotNil(t, tt.cmd.Flags().Lookup(flag), "flag %q should exist", flag)
			}
		})
	}
}

func TestViewCommand(t *testing.T) {
	path := writeFile(t, "people.csv", peopleCSV)

	out, err := run(t, NewViewCommand(), path)
	require.NoError(t, err)
	assert.Contains(t, out, "│ Name │ Dept  │ City  │")
	assert.Contains(t, out, "│ Bob  │ Sales │ Paris │")
	assert.Contains(t, out, "│ ana  │ Eng   │       │")
	assert.Contains(t, out, "(3 rows)")

	out, err = run(t, NewViewCommand(), path, "--limit", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Bob")
	assert.NotContains(t, out, "Dana")
	assert.Contains(t, out, "(showing 1 of 3 rows)")
}

func TestViewCommand_Errors(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		check func(t *testing.T, err error)
	}{
		{
			name: "unsupported suffix",
			path: writeFile(t, "notes.txt", "a,b\n"),
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, core.ErrUnsupportedFormat)
			},
		},
		{
			name: "empty file",
			path: writeFile(t, "empty.csv", ""),
			check: func(t *testing.T, err error) {
				assert.True(t, core.IsLoadError(err))
				assert.ErrorIs(t, err, core.ErrEmptyFile)
			},
		},
		{
			name: "missing file",
			path: filepath.Join(t.TempDir(), "gone.csv"),
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, os.ErrNotExist)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, NewViewCommand(), tt.path)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestSearchCommand_Records(t *testing.T) {
	path := writeFile(t, "people.csv", peopleCSV)

	out, err := run(t, NewSearchCommand(), path, "--column", "Name", "--text", "AN")
	require.NoError(t, err)

	want := "Found 2 record(s)\n" +
		"\nRecord 1:\nName: ana\nDept: Eng\nCity: \n" +
		"\nRecord 2:\nName: Dana\nDept: Eng\nCity: Rome\n"
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestSearchCommand_Outcomes(t *testing.T) {
	path := writeFile(t, "people.csv", peopleCSV)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "no search", args: []string{"--column", "Dept"}, want: core.StatusNoSearch + "\n"},
		{name: "no matches", args: []string{"-c", "Dept", "-t", "zzz"}, want: core.StatusNoMatches + "\n"},
		{name: "default column", args: []string{"-t", "bob"}, want: "Found 1 record(s)\n\nRecord 1:\nName: Bob\nDept: Sales\nCity: Paris\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, NewSearchCommand(), append([]string{path}, tt.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestSearchCommand_Table(t *testing.T) {
	path := writeFile(t, "people.csv", peopleCSV)

	out, err := run(t, NewSearchCommand(), path, "-c", "Dept", "-t", "eng", "-o", "table")
	require.NoError(t, err)
	assert.Contains(t, out, "Found 2 record(s)")
	assert.Contains(t, out, "Dana")
	assert.NotContains(t, out, "Bob")
}

func TestSearchCommand_JSON(t *testing.T) {
	path := writeFile(t, "people.csv", peopleCSV)

	out, err := run(t, NewSearchCommand(), path, "-c", "City", "-t", "par", "-o", "json")
	require.NoError(t, err)

	var got searchOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	want := searchOutput{
		File:    "people.csv",
		Column:  "City",
		Query:   "par",
		Active:  true,
		Count:   1,
		Status:  "Found 1 record(s)",
		Records: []recordOutput{{Index: 0, Number: 1, Text: "Name: Bob\nDept: Sales\nCity: Paris"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("json mismatch (-want +got):\n%s", diff)
	}
}

func TestSearchCommand_Errors(t *testing.T) {
	path := writeFile(t, "people.csv", peopleCSV)

	_, err := run(t, NewSearchCommand(), path, "-c", "Nope", "-t", "x")
	require.Error(t, err)
	assert.True(t, core.IsQueryError(err))
	assert.ErrorIs(t, err, core.ErrColumnNotFound)

	_, err = run(t, NewSearchCommand(), path, "-o", "yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output")
}
