// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/hgfnet/netfile"
)

// referenceModel: four roots, then a value parent of 2, then a value parent of 3.
const referenceModel = `
nodes:
  - count: 4
  - value_children: [2]
  - value_children: [3]
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())

	return out.String(), err
}

func modelFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.yaml")
	require.NoError(t, os.WriteFile(path, []byte(referenceModel), 0o600))

	return path
}

func TestRootCommand(t *testing.T) {
	root := newRootCmd()
	assert.Equal(t, "hgfnet", root.Use)
	assert.True(t, root.HasSubCommands())
	for _, name := range []string{"validate", "schedule", "branches", "add-parent", "remove-node"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}
}

func TestValidate(t *testing.T) {
	out, err := execute(t, "validate", modelFile(t))
	require.NoError(t, err)
	assert.Contains(t, out, "nodes: 6\n")
	assert.Contains(t, out, "records: 7\n")
	assert.Contains(t, out, "couplings: 2\n")
}

func TestSchedule(t *testing.T) {
	out, err := execute(t, "schedule", modelFile(t))
	require.NoError(t, err)
	assert.Equal(t, `predictions:
  wave 0: prediction(2) prediction(3)
updates:
  wave 0: prediction-error(0) prediction-error(1) prediction-error(2) prediction-error(3)
  wave 1: posterior(4) posterior(5)
`, out)

	out, err = execute(t, "schedule", modelFile(t), "-o", "yaml", "--update-type", "standard")
	require.NoError(t, err)
	var doc struct {
		Fingerprint string           `yaml:"fingerprint"`
		Predictions []map[string]any `yaml:"predictions"`
		Updates     []map[string]any `yaml:"updates"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Len(t, doc.Fingerprint, 16)
	assert.Len(t, doc.Predictions, 2)
	require.Len(t, doc.Updates, 6)
	assert.Equal(t, "standard", doc.Updates[4]["variant"])

	_, err = execute(t, "schedule", modelFile(t), "-o", "json")
	assert.Error(t, err)
	_, err = execute(t, "schedule", modelFile(t), "--update-type", "fast")
	assert.Error(t, err)
}

func TestBranches(t *testing.T) {
	path := modelFile(t)

	out, err := execute(t, "branches", path, "--from", "4")
	require.NoError(t, err)
	assert.Equal(t, "4,2\n", out)

	out, err = execute(t, "branches", path, "--from", "2", "--orphans")
	require.NoError(t, err)
	assert.Equal(t, "2,4\n", out)

	_, err = execute(t, "branches", path)
	assert.Error(t, err)
	_, err = execute(t, "branches", path, "--from", "9")
	assert.Error(t, err)
}

func TestAddParent(t *testing.T) {
	out, err := execute(t, "add-parent", modelFile(t), "--child", "1", "--kind", "volatility", "--mean", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "nodes: 7\n")
	assert.Contains(t, out, "records: 8\n")
	assert.Contains(t, out, "couplings: 3\n")
	assert.Contains(t, out, "posterior(6)")

	out, err = execute(t, "add-parent", modelFile(t), "--child", "1", "--kind", "value", "--mean", "2", "--emit")
	require.NoError(t, err)
	doc, err := netfile.Decode("edited.yaml", []byte(out), nil)
	require.NoError(t, err)
	attrs, edges, err := doc.Build()
	require.NoError(t, err)
	assert.Equal(t, 7, edges.Len())
	assert.Equal(t, 2.0, attrs.Nodes[6].Mean)

	_, err = execute(t, "add-parent", modelFile(t), "--child", "1", "--kind", "drift")
	assert.Error(t, err)
}

func TestRemoveNode(t *testing.T) {
	out, err := execute(t, "remove-node", modelFile(t), "--index", "2", "--branch")
	require.NoError(t, err)
	assert.Contains(t, out, "removed: 2,4\n")
	assert.Contains(t, out, "nodes: 4\n")
	assert.Contains(t, out, "couplings: 1\n")

	out, err = execute(t, "remove-node", modelFile(t), "--index", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "nodes: 5\n")

	_, err = execute(t, "remove-node", modelFile(t), "--index", "6")
	assert.Error(t, err)
}

func TestLogLevel(t *testing.T) {
	_, err := execute(t, "validate", modelFile(t), "--log-level", "loud")
	assert.Error(t, err)

	_, err = execute(t, "validate", modelFile(t), "--log-level", "debug")
	assert.NoError(t, err)
}

func TestWatchFile(t *testing.T) {
	path := modelFile(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var reloads atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- watchFile(ctx, path, slog.New(slog.DiscardHandler), func() error {
			reloads.Add(1)
			return nil
		})
	}()

	assert.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte(referenceModel), 0o600)
		return reloads.Load() > 0
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watchFile did not stop after cancel")
	}
}
