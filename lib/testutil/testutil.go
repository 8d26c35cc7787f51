package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// Timeout bounds every context handed out by Context.
const Timeout = 10 * time.Second

// Context returns a context that is cancelled when the test ends or after Timeout,
// whichever comes first.
func Context(t testing.TB) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), Timeout)
	t.Cleanup(cancel)
	return ctx
}

// WriteFile writes `contents` to `name` inside a fresh temporary directory and
// returns the full path.
func WriteFile(t testing.TB, name, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	err := os.WriteFile(path, []byte(contents), 0o644)
	if err != nil {
		t.Fatal(err)
	}
	return path
}
