// Package testutil provides shared helpers for integration-style tests:
// a thread-safe log buffer, an app harness that loads schema files from a
// temp directory, and small mock modules for registering test callbacks.
package testutil

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/restflow/internal/app"
	"github.com/vk/restflow/internal/hcl"
	"github.com/vk/restflow/internal/registry"
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

// HarnessResult holds the outcomes of starting an app from test schemas.
type HarnessResult struct {
	LogOutput string
	Err       error
	App       *app.App
}

// SetupAppTest writes the given schema files into a temporary directory and
// builds an app from them using the provided test modules. Startup panics
// (bad schemas, registry mismatches) are recovered and surfaced as Err so
// tests can assert on the failure instead of crashing.
func SetupAppTest(t *testing.T, files map[string]string, modules ...registry.Module) *HarnessResult {
	t.Helper()

	tmpDir := t.TempDir()
	for name, content := range files {
		filePath := filepath.Join(tmpDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0644))
	}

	appConfig := &app.Config{
		SchemasPath: tmpDir,
		ListenAddr:  ":0",
		LogLevel:    "debug",
		LogFormat:   "text",
	}

	logBuffer := &SafeBuffer{}

	var testApp *app.App
	var panicErr any
	func() {
		defer func() {
			if r := recover(); r != nil {
				panicErr = r
			}
		}()
		testApp = app.NewApp(logBuffer, appConfig, hcl.NewLoader(), modules...)
	}()

	if os.Getenv("RESTFLOW_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
	}

	if panicErr != nil {
		return &HarnessResult{
			LogOutput: logBuffer.String(),
			Err:       fmt.Errorf("application startup panicked | %v", panicErr),
		}
	}

	return &HarnessResult{
		LogOutput: logBuffer.String(),
		App:       testApp,
	}
}
