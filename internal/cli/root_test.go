package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/dataviewer/internal/core"
)

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err = root.Execute()
	return out.String(), errOut.String(), err
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := NewRootCmd()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"view", "search", "tui", "version"} {
		assert.Contains(t, names, want)
	}
	for _, flag := range []string{"max-size", "log-level", "log-format"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestRootCmd_Search(t *testing.T) {
	path := filepath.Join(t.TempDir(), "people.csv")
	require.NoError(t, os.WriteFile(path, []byte("Name,City\nAda,London\n"), 0o600))

	stdout, _, err := execute(t, "search", path, "-c", "City", "-t", "lon")

	require.NoError(t, err)
	assert.Equal(t, "Found 1 record(s)\n\nRecord 1:\nName: Ada\nCity: London\n", stdout)
}

func TestRootCmd_DebugLogsGoToStderr(t *testing.T) {
	path := filepath.Join(t.TempDir(), "people.csv")
	require.NoError(t, os.WriteFile(path, []byte("Name\nAda\n"), 0o600))

	stdout, stderr, err := execute(t, "--log-level", "debug", "view", path)

	require.NoError(t, err)
	assert.Contains(t, stderr, "file loaded")
	assert.NotContains(t, stdout, "file loaded")
}

func TestRootCmd_MaxSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.csv")
	require.NoError(t, os.WriteFile(path, []byte("Name\n"+strings.Repeat("x\n", 64)), 0o600))

	_, _, err := execute(t, "--max-size", "16", "view", path)

	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrFileTooLarge)
}

func TestDescribe(t *testing.T) {
	loadErr := &core.LoadError{FileName: "a.txt", Err: core.ErrUnsupportedFormat}
	assert.Contains(t, describe(loadErr), "(Code: FILE006)")
	assert.Contains(t, describe(loadErr), "load a.txt")

	plain := errors.New("accepts 1 arg(s), received 0")
	assert.Equal(t, plain.Error(), describe(plain))
}
