// Package testutil runs the application end to end for integration tests.
package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/specialistvlad/layergraph/internal/app"
	"github.com/stretchr/testify/require"
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

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	LogOutput string
	Output    string
	// Plan is decoded from Output when the run succeeded.
	Plan app.Plan
	Err  error
}

// BlueprintFile is the name under which the harness expects the blueprint
// in the files map. Every other file is placed in the templates directory.
const BlueprintFile = "network.hcl"

// RunIntegrationTest provides a standardized harness for running integration tests
// using a default background context.
func RunIntegrationTest(t *testing.T, files map[string]string) *HarnessResult {
	t.Helper()
	return RunIntegrationTestWithContext(context.Background(), t, files)
}

// RunIntegrationTestWithContext writes files to a temporary tree, runs the
// app on it with JSON output and debug logs, and collects the results.
func RunIntegrationTestWithContext(ctx context.Context, t *testing.T, files map[string]string) *HarnessResult {
	t.Helper()

	tmpDir := t.TempDir()
	templatesDir := filepath.Join(tmpDir, "templates")
	require.NoError(t, os.Mkdir(templatesDir, 0o755))

	// Template paths are relative to the templates directory, so tests can
	// nest them ("activations/relu.yaml").
	for name, content := range files {
		filePath := filepath.Join(templatesDir, name)
		if name == BlueprintFile {
			filePath = filepath.Join(tmpDir, name)
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0o755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0o644))
	}

	appConfig, err := app.NewConfig(app.Config{
		BlueprintPath: filepath.Join(tmpDir, BlueprintFile),
		TemplatesPath: templatesDir,
		OutputFormat:  "json",
		LogFormat:     "text",
		LogLevel:      "debug",
	})
	require.NoError(t, err)

	out := &bytes.Buffer{}
	logBuffer := &SafeBuffer{}
	runErr := app.NewApp(out, logBuffer, appConfig).Run(ctx)

	if os.Getenv("LAYERGRAPH_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
	}

	result := &HarnessResult{
		LogOutput: logBuffer.String(),
		Output:    out.String(),
		Err:       runErr,
	}
	if runErr == nil {
		require.NoError(t, json.Unmarshal(out.Bytes(), &result.Plan), "plan output must be valid JSON")
	}
	return result
}
