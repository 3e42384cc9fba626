package testutils

import (
	"path/filepath"
	"testing"
)

// TempSQLitePath returns a database path inside a per-test temp dir that is
// removed when the test ends
func TempSQLitePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "dialogue_test.db")
}
