// Package testutil provides shared helpers for tests that drive the
// application end to end.
package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/gridlevels/internal/app"
	"github.com/vk/gridlevels/internal/hclgraph"
	"github.com/vk/gridlevels/internal/plan"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// WriteFiles writes files (relative path -> content) into a fresh temporary
// directory and returns its path.
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return dir
}

// RecordingSink keeps every plan it receives.
type RecordingSink struct {
	mu    sync.Mutex
	Plans []*plan.Plan
	Err   error
}

// Name identifies the sink in logs.
func (s *RecordingSink) Name() string { return "recording" }

// Publish records pl and returns the configured error.
func (s *RecordingSink) Publish(_ context.Context, pl *plan.Plan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Plans = append(s.Plans, pl)
	return s.Err
}

// HarnessResult holds the outcomes of an application run.
type HarnessResult struct {
	Output    string
	LogOutput string
	Err       error
}

// RunGrid writes the grid files, runs the application over them with the HCL
// loader and returns what it printed and logged. mutate may adjust the
// configuration before the app is built.
func RunGrid(t *testing.T, files map[string]string, mutate func(*app.Config), sinks ...app.Sink) *HarnessResult {
	t.Helper()

	dir := WriteFiles(t, files)
	cfg := app.Config{
		GridPaths:    []string{dir},
		LogLevel:     "debug",
		LogFormat:    "text",
		OutputFormat: "text",
		WorkerCount:  4,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	appConfig, err := app.NewConfig(cfg)
	require.NoError(t, err)

	out := &SafeBuffer{}
	logs := &SafeBuffer{}
	a := app.NewApp(out, logs, appConfig, hclgraph.NewLoader(), sinks...)
	runErr := a.Run(context.Background())

	if os.Getenv("GRIDLEVELS_TEST_LOGS") == "true" {
		t.Logf("--- APP LOGS ---\n%s", logs.String())
	}

	return &HarnessResult{
		Output:    out.String(),
		LogOutput: logs.String(),
		Err:       runErr,
	}
}
