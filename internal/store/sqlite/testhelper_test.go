// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Learning Commons Contributors

package sqlite_test

import (
	"path/filepath"
	"testing"
)

// testDBPath returns a path for a throwaway SQLite database.
func testDBPath(t *testing.T, name string) string {
	t.Helper()
	return filepath.Join(t.TempDir(), name+".db")
}
