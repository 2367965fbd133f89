package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const treeYAML = `
id: app
children:
  - id: header
  - id: list
    emit: picked
`

func writeTree(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "arbor.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// execute runs the root command with args and restores every flag afterwards,
// since the command tree is shared between tests.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		resetFlags(rootCmd)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "arbor version "))
}

func TestValidateCommand(t *testing.T) {
	t.Run("Valid tree", func(t *testing.T) {
		out, err := execute(t, "validate", writeTree(t, treeYAML))
		require.NoError(t, err)
		assert.Contains(t, out, "Tree 'app' is valid (3 components)")
	})

	t.Run("Duplicate sibling IDs", func(t *testing.T) {
		_, err := execute(t, "validate", writeTree(t, "id: app\nchildren:\n  - id: a\n  - id: a\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "validation failed")
	})

	t.Run("Missing file", func(t *testing.T) {
		_, err := execute(t, "validate", filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}

func TestGraphCommand(t *testing.T) {
	tree := writeTree(t, treeYAML)

	out, err := execute(t, "graph", tree, "--highlight", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "graph TD")
	assert.Contains(t, out, `n -- "1" --> n_1`)
	assert.Contains(t, out, "class n_1 current;")

	_, err = execute(t, "graph", tree, "--highlight", "missing")
	assert.Error(t, err)
}

func TestDispatchCommand(t *testing.T) {
	tree := writeTree(t, treeYAML)

	t.Run("Multicast from the root", func(t *testing.T) {
		out, err := execute(t, "dispatch", "refresh", "--tree", tree, "--multicast")
		require.NoError(t, err)
		assert.Contains(t, out, "  + state header\n")
		assert.Contains(t, out, "  header refresh multicast ok\n")
		assert.Contains(t, out, "^ picked list -> app\n")
		assert.Contains(t, out, "app refresh multicast ok\n")
		assert.Contains(t, out, "# app")
		assert.Contains(t, out, "· header")
	})

	t.Run("Call by child IDs", func(t *testing.T) {
		out, err := execute(t, "dispatch", "select", "--tree", tree, "--call", "list")
		require.NoError(t, err)
		assert.Contains(t, out, "  list select targeted ok\n")
		assert.NotContains(t, out, "header select")
	})

	t.Run("Route out of range", func(t *testing.T) {
		_, err := execute(t, "dispatch", "select", "--tree", tree, "--path", "5")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "dispatch failed")
	})

	t.Run("Stateless", func(t *testing.T) {
		out, err := execute(t, "dispatch", "refresh", "--tree", tree, "--multicast", "--stateless")
		require.NoError(t, err)
		assert.NotContains(t, out, "+ state")
		assert.NotContains(t, out, "State |")
	})
}

func TestLogFlags(t *testing.T) {
	_, err := execute(t, "dispatch", "x", "--tree", writeTree(t, treeYAML), "--log-level", "loud")
	assert.Error(t, err)

	_, err = execute(t, "dispatch", "x", "--tree", writeTree(t, treeYAML), "--log-format", "xml")
	assert.Error(t, err)
}
