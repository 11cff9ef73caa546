package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/gridlevels/deplevel"
	"github.com/vk/gridlevels/internal/cli"
)

func writeGrid(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "main.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600), "failed to set up test file")
	return path
}

func TestRun_PrintsLevels(t *testing.T) {
	path := writeGrid(t, `
item "a" {}
item "b" { depends_on = [item.a] }
`)
	var out, logs bytes.Buffer

	err := run(context.Background(), &out, &logs, []string{"--log-level", "debug", path})

	require.NoError(t, err)
	assert.Equal(t, "level 0: a\nlevel 1: b\n", out.String())
	assert.Contains(t, logs.String(), "Resolved level.")
}

func TestRun_ShouldExit(t *testing.T) {
	var out bytes.Buffer

	// The "-h" (help) flag should cause cli.Parse to return `shouldExit=true`.
	err := run(context.Background(), &out, &bytes.Buffer{}, []string{"-h"})

	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_InvalidSinkConfig(t *testing.T) {
	path := writeGrid(t, `item "a" {}`)

	err := run(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, []string{"--emit-url", "nohost", path})

	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

func TestRun_CycleFails(t *testing.T) {
	path := writeGrid(t, `
item "a" { depends_on = ["b"] }
item "b" { depends_on = ["a"] }
`)

	err := run(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, []string{path})

	require.ErrorIs(t, err, deplevel.ErrIslandsOrCircular)
	assert.Contains(t, err.Error(), "failed to resolve dependency levels")
}

func TestRun_ParseFailure(t *testing.T) {
	path := writeGrid(t, `item "a" {`)

	err := run(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, []string{path})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse HCL file")
}
