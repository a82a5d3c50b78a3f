package app

import (
	"io"
	"log/slog"

	"github.com/vk/inception/internal/config"
	"github.com/vk/inception/internal/processors"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW       io.Writer
	logger     *slog.Logger
	config     *Config
	loader     config.Loader
	processors *processors.Registry
}

// NewApp is the constructor for the main application. It returns an App with
// its own isolated logger. A nil registry selects the built-in processors.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader, reg *processors.Registry) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	if reg == nil {
		reg = processors.Default()
	}
	logger.Debug("Processors available.", "names", reg.Names())

	return &App{
		outW:       outW,
		logger:     logger,
		config:     appConfig,
		loader:     loader,
		processors: reg,
	}
}

// Logger returns the application's logger. This is primarily for testing.
func (a *App) Logger() *slog.Logger {
	return a.logger
}
