// Package integration_tests holds the harness for end-to-end tests that run
// pipeline files through the whole application. The scenarios themselves
// live in the subpackages.
package integration_tests

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/vk/inception/internal/app"
	"github.com/vk/inception/internal/config"
	"github.com/vk/inception/internal/hcl_adapter"
	"github.com/vk/inception/internal/testutil"
	"github.com/vk/inception/internal/yaml_adapter"
)

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	LogOutput string
	Err       error
	// Root is the temporary directory the files were written to.
	Root string
}

// Read returns the contents of a file under Root.
func (r *HarnessResult) Read(t *testing.T, name string) string {
	t.Helper()
	return testutil.ReadFile(t, r.Root, name)
}

// Loader returns the loader the CLI uses, accepting HCL and YAML files.
func Loader() config.Loader {
	y := yaml_adapter.NewLoader()
	return config.ByExtension{
		".hcl":  hcl_adapter.NewLoader(),
		".yaml": y,
		".yml":  y,
	}
}

// RunIntegrationTest writes files into a temporary directory and runs the
// application on the pipeline file or directory named by pipelinePath,
// which is relative to that directory.
func RunIntegrationTest(t *testing.T, files map[string]string, pipelinePath string, configure ...func(*app.Config)) *HarnessResult {
	t.Helper()

	root := testutil.WriteFiles(t, files)
	appConfig := &app.Config{
		PipelinePath: filepath.Join(root, filepath.FromSlash(pipelinePath)),
		LogFormat:    "text",
		WorkerCount:  4,
	}
	for _, fn := range configure {
		fn(appConfig)
	}

	testApp, logBuffer := app.SetupAppTest(t, appConfig, Loader(), nil)
	err := testApp.Run(context.Background())

	return &HarnessResult{
		LogOutput: logBuffer.String(),
		Err:       err,
		Root:      root,
	}
}
