package app

import (
	"os"
	"testing"

	"github.com/vk/inception/internal/config"
	"github.com/vk/inception/internal/processors"
	"github.com/vk/inception/internal/testutil"
)

// SetupAppTest creates a new app instance for system testing. Its log output
// is captured at debug level and printed when INCEPTION_TEST_LOGS=true.
func SetupAppTest(t *testing.T, appConfig *Config, loader config.Loader, reg *processors.Registry) (*App, *testutil.SafeBuffer) {
	t.Helper()

	logBuffer := &testutil.SafeBuffer{}
	appConfig.LogLevel = "debug"
	testApp := NewApp(logBuffer, appConfig, loader, reg)

	t.Cleanup(func() {
		if os.Getenv("INCEPTION_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, logBuffer
}
