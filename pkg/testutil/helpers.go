// Package testutil provides common utility functions for testing.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// Ptr returns a pointer to v, for optional fields in test fixtures.
func Ptr[T any](v T) *T {
	return &v
}

// WriteConfig writes contents to deal.yaml in a per-test temporary directory
// and returns its path.
func WriteConfig(t testing.TB, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "deal.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}
