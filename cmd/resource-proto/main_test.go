package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang/snappy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-resgraph/pkg/matcher"
)

func runApp(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := newApp(&stdout, &stderr).Run(append([]string{"resource-proto"}, args...))
	return stdout.String(), stderr.String(), err
}

func TestRunDefault(t *testing.T) {
	out, logs, err := runApp(t)
	require.NoError(t, err)

	assert.Contains(t, out, "[INFO] Load the matcher ...")
	assert.Contains(t, out, "Elapse time")
	assert.Contains(t, out, "Start Time:")
	assert.Contains(t, out, "Matcher: CA  Visited: 33")
	assert.Contains(t, logs, `"msg":"traversal finished"`)
}

func TestListSubsystems(t *testing.T) {
	out, _, err := runApp(t, "--list-subsystems")
	require.NoError(t, err)
	assert.Equal(t, "containment\nibnet\nibnetbw\npfs1bw\npower\n", out)
}

func TestDisplayMatchers(t *testing.T) {
	out, _, err := runApp(t, "--display-matchers")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, len(matcher.Catalog()))
	assert.True(t, strings.HasPrefix(lines[0], "CA "))
	assert.Contains(t, out, "containment:contains")
}

func TestRunRejectsBadFlags(t *testing.T) {
	tests := [][]string{
		{"--graph-scale", "huge"},
		{"--matcher", "XYZ"},
		{"--graph-format", "json"},
		{"--request-type", "core"},
		{"--parallel", "CA,nope"},
	}
	for _, args := range tests {
		_, _, err := runApp(t, args...)
		assert.Error(t, err, "%v", args)
	}
}

func TestRunWritesOutput(t *testing.T) {
	base := filepath.Join(t.TempDir(), "mini")

	out, _, err := runApp(t, "--matcher", "pa", "--output", base)
	require.NoError(t, err)
	assert.Contains(t, out, "Write the target graph")

	data, err := os.ReadFile(base + ".dot")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("digraph G {\n")))
	assert.Contains(t, string(data), "power:drawn")
	assert.NotContains(t, string(data), "containment:contains")
}

func TestRunWritesCompressedOutput(t *testing.T) {
	base := filepath.Join(t.TempDir(), "mini")

	_, _, err := runApp(t, "--output", base, "--compress")
	require.NoError(t, err)

	f, err := os.Open(base + ".dot.sz")
	require.NoError(t, err)
	defer f.Close()
	data, err := io.ReadAll(snappy.NewReader(f))
	require.NoError(t, err)
	assert.Contains(t, string(data), `[label="cluster0"]`)
}

func TestRunUnimplementedFormat(t *testing.T) {
	base := filepath.Join(t.TempDir(), "mini")
	_, _, err := runApp(t, "--output", base, "--graph-format", "graphml")
	assert.ErrorContains(t, err, "not implemented")
}

func TestRunRequest(t *testing.T) {
	out, _, err := runApp(t, "--request-type", "core", "--request-count", "1", "--request-within", "node")
	require.NoError(t, err)
	assert.Contains(t, out, "pools of node hold at least 1 core")
	assert.Contains(t, out, "  node0\n")
}

func TestRunParallelAndVerify(t *testing.T) {
	out, _, err := runApp(t, "--graph-scale", "small", "--parallel", "PA, IBA ,ALL", "--workers", "3", "--verify")
	require.NoError(t, err)

	for _, name := range []string{"PA", "IBA", "ALL"} {
		assert.Contains(t, out, "[INFO] "+name+": visited")
	}
	assert.Equal(t, 4, strings.Count(out, "[VERIFY]"))
	assert.NotContains(t, out, "unreachable=1")
}

func TestRunSpecFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tiny.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: tiny
hierarchies:
  - subsystem: containment
    units:
      - type: cluster
        count: 1
        children:
          - type: node
            count: 2
`), 0o644))

	out, _, err := runApp(t, "--spec", path, "--list-subsystems")
	require.NoError(t, err)
	assert.Equal(t, "containment\n", out)

	out, _, err = runApp(t, "--spec", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Visited: 3")
}

func TestRunConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("matcher: IBA\nlog_level: error\n"), 0o644))

	out, logs, err := runApp(t, "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Matcher: IBA")
	assert.Empty(t, logs, "error level drops info logs")

	out, _, err = runApp(t, "--config", path, "--matcher", "PA")
	require.NoError(t, err)
	assert.Contains(t, out, "Matcher: PA", "flags override the file")
}
