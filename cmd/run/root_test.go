package run

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execRun runs the command like the binary would and returns its stdout.
// Flags keep their values between executions, so every call sets all of them.
func execRun(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	RunCmd.SetOut(&out)
	RunCmd.SetErr(&bytes.Buffer{})
	RunCmd.SetArgs(append([]string{"--format", "auto"}, args...))
	err := RunCmd.Execute()
	return out.String(), err
}

func TestRunCreatesAndReusesSnapshot(t *testing.T) {
	file := filepath.Join(t.TempDir(), "db.json")

	out, err := execRun(t, "--file", file, "--query", "HSET links abc https://example.com")
	require.NoError(t, err)
	assert.Equal(t, "Result: Key 'abc' added to new table 'links'\n", out)
	assert.FileExists(t, file)

	out, err = execRun(t, "--file", file, "--query", "HGET links abc")
	require.NoError(t, err)
	assert.Equal(t, "Result: https://example.com\n", out)

	out, err = execRun(t, "--file", file, "--query", "HGET links nope")
	require.NoError(t, err)
	assert.Equal(t, "Result: nil: key 'nope' not found\n", out)
}

func TestRunPositionalQuery(t *testing.T) {
	file := filepath.Join(t.TempDir(), "db.yaml")

	out, err := execRun(t, "--file", file, "--query=", "SPUSH", "first")
	require.NoError(t, err)
	assert.Equal(t, "Result: OK\n", out)

	// the extension selects yaml
	content, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(content), "- first")

	out, err = execRun(t, "--file", file, "--query=", "SPOP")
	require.NoError(t, err)
	assert.Equal(t, "Result: first\n", out)
}

func TestRunQueryErrorStillSucceeds(t *testing.T) {
	file := filepath.Join(t.TempDir(), "db.json")

	out, err := execRun(t, "--file", file, "--query", "FOO bar")
	require.NoError(t, err)
	assert.Empty(t, out)

	// the snapshot is written anyway
	assert.FileExists(t, file)
}

func TestRunBrokenSnapshot(t *testing.T) {
	file := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.WriteFile(file, []byte("this is not json"), 0o644))

	out, err := execRun(t, "--file", file, "--query", "QPUSH x")
	require.NoError(t, err)
	assert.Equal(t, "Result: OK\n", out)

	// the database is written back
	out, err = execRun(t, "--file", file, "--query", "QPOP")
	require.NoError(t, err)
	assert.Equal(t, "Result: x\n", out)
}

func TestRunInvalidFlags(t *testing.T) {
	file := filepath.Join(t.TempDir(), "db.json")

	_, err := execRun(t, "--file=", "--query", "PING")
	assert.Error(t, err, "missing file")

	_, err = execRun(t, "--file", file, "--query", "PING", "HGET", "t", "k")
	assert.Error(t, err, "query given twice")

	_, err = execRun(t, "--file", file, "--query=")
	assert.Error(t, err, "no query")

	_, err = execRun(t, "--file", file, "--query", "PING", "--format", "xml")
	assert.Error(t, err, "invalid format")
	assert.NoFileExists(t, file)
}
