package error_handling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/inception/internal/inception"
	harness "github.com/vk/inception/internal/integration_tests"
	"github.com/vk/inception/internal/testutil"
)

// Test for: a merge whose target has no indicator fails alone.
func TestErrorHandling_MissingIndicatorIsIsolated(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	files := map[string]string{
		"inception.hcl": `
merge "broken" {
  target = "broken.html"
  files  = ["parts/*.html"]
}

merge "healthy" {
  target = "healthy.html"
  files  = ["parts/*.html"]
}
`,
		"broken.html":     "<body></body>",
		"healthy.html":    "<body><!-- PARTIALS --></body>",
		"parts/card.html": "<div>card</div>",
	}

	// --- Act ---
	result := harness.RunIntegrationTest(t, files, "inception.hcl")

	// --- Assert ---
	require.Error(t, result.Err)
	assert.ErrorIs(t, result.Err, inception.ErrIndicatorNotFound)
	assert.Contains(t, result.Err.Error(), "inception: src target does not contain a string (`indicator`) where contents should be injected.")
	assert.Contains(t, result.Err.Error(), "1 of 2 merges failed")

	assert.Equal(t, "<body></body>", result.Read(t, "broken.html"))
	assert.Contains(t, result.Read(t, "healthy.html"), "<div>card</div></script>")
	testutil.AssertLogged(t, result.LogOutput, "Merge failed.", "merge=broken", "merge=healthy")
}

// Test for: configuration problems carry the plugin's messages.
func TestErrorHandling_ConfigurationMessages(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		merge   string
		wantMsg string
	}{
		{
			name:    "files missing",
			merge:   "target = \"index.html\"",
			wantMsg: "`files` parameter required in options (array).",
		},
		{
			name:    "wrap tag null",
			merge:   "target = \"index.html\"\n  files = [\"*.txt\"]\n  wrap_tag = null",
			wantMsg: "`wrapTag` parameter must be a non-empty string.",
		},
		{
			name:    "indicator empty",
			merge:   "target = \"index.html\"\n  files = [\"*.txt\"]\n  indicator = \"\"",
			wantMsg: "`indicator` parameter must be a non-empty string.",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			files := map[string]string{
				"inception.hcl": "merge \"cfg\" {\n  " + tc.merge + "\n}\n",
				"index.html":    "<body><!-- PARTIALS --></body>",
			}

			result := harness.RunIntegrationTest(t, files, "inception.hcl")

			require.Error(t, result.Err)
			assert.ErrorIs(t, result.Err, inception.ErrConfiguration)
			assert.Contains(t, result.Err.Error(), tc.wantMsg)
			assert.Equal(t, "<body><!-- PARTIALS --></body>", result.Read(t, "index.html"))
		})
	}
}

// Test for: invalid pipeline files are rejected before any merge runs.
func TestErrorHandling_InvalidPipelineFileIsRejected(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// A missing closing brace is a syntax error.
	files := map[string]string{
		"inception.hcl": `
merge "a" {
  target = "index.html"
`,
		"index.html": "<body><!-- PARTIALS --></body>",
	}

	// --- Act ---
	result := harness.RunIntegrationTest(t, files, "inception.hcl")

	// --- Assert ---
	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "failed to parse")
	assert.NotContains(t, result.LogOutput, "Starting merges.")
}

// Test for: duplicate merge names across files are a startup error.
func TestErrorHandling_DuplicateMergeNames(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"pipelines/a.hcl":  "merge \"site\" {\n  target = \"../index.html\"\n}\n",
		"pipelines/b.yaml": "merges:\n  - name: site\n    target: ../index.html\n",
		"index.html":       "<body><!-- PARTIALS --></body>",
	}

	result := harness.RunIntegrationTest(t, files, "pipelines")

	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), `merge "site"`)
	assert.Contains(t, result.Err.Error(), "already declared")
}
