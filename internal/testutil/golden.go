package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// UpdateGoldenEnv rewrites golden files instead of comparing when set.
const UpdateGoldenEnv = "TASKCTL_UPDATE_GOLDEN"

// Golden compares got with testdata/<name>.golden. Line endings are
// normalized so checkouts with CRLF conversion still match.
func Golden(t testing.TB, name string, got []byte) {
	t.Helper()

	goldenPath := filepath.Join("testdata", name+".golden")

	if os.Getenv(UpdateGoldenEnv) != "" {
		require.NoError(t, os.MkdirAll(filepath.Dir(goldenPath), 0o755))
		require.NoError(t, os.WriteFile(goldenPath, got, 0o644))
		return
	}

	want, err := os.ReadFile(goldenPath)
	require.NoErrorf(t, err, "failed to read golden file %s (set %s=1 to create it)", goldenPath, UpdateGoldenEnv)

	assert.Equal(t, string(normalizeNewlines(want)), string(normalizeNewlines(got)), "output mismatch for %s", name)
}

// GoldenString is like Golden but takes a string.
func GoldenString(t testing.TB, name string, got string) {
	t.Helper()
	Golden(t, name, []byte(got))
}

func normalizeNewlines(b []byte) []byte {
	return bytes.ReplaceAll(b, []byte("\r\n"), []byte("\n"))
}
