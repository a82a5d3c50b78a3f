package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// AssertLogged checks that every fragment appears in the captured log output.
func AssertLogged(t *testing.T, logs string, fragments ...string) {
	t.Helper()

	for _, f := range fragments {
		require.True(t,
			strings.Contains(logs, f),
			"expected log output to contain %q", f,
		)
	}
}

// AssertNotExists checks that the slash-separated path under root was never
// written.
func AssertNotExists(t *testing.T, root, name string) {
	t.Helper()

	_, err := os.Stat(filepath.Join(root, filepath.FromSlash(name)))
	require.ErrorIs(t, err, os.ErrNotExist, "expected %s not to exist", name)
}
