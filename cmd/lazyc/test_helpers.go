// test_helpers.go
package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

//
// -----------------------------------------------------------------------------
// Shared fixtures
// -----------------------------------------------------------------------------

// minimalGraphYAML returns a small graph with a constant, a format provider
// and an alias.
func minimalGraphYAML() string {
	return `constants:
  host: localhost
  port: 5432
providers:
  dsn:
    format: "postgres://%v:%v"
    args: [host, port]
  url:
    ref: dsn
`
}

// cyclicGraphYAML returns a graph whose providers a and b reference each other.
func cyclicGraphYAML() string {
	return `providers:
  a: { ref: b }
  b: { ref: a }
  ok: { format: "fine" }
`
}

//
// -----------------------------------------------------------------------------
// Small helpers
// -----------------------------------------------------------------------------

// writeTempFile writes a file under dir/name and returns its full path.
func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

// runResult captures one run() invocation.
type runResult struct {
	code   int
	stdout string
	stderr string
}

// runCLI calls run with args and captures both output streams.
func runCLI(t *testing.T, args ...string) runResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return runResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}
