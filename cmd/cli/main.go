package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/vk/inception/internal/app"
	"github.com/vk/inception/internal/cli"
	"github.com/vk/inception/internal/config"
	"github.com/vk/inception/internal/hcl_adapter"
	"github.com/vk/inception/internal/yaml_adapter"
)

// main is the entrypoint for the inception application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The real main function handles errors and exit codes.
	if err := run(ctx, os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(cli.ExitFailure)
	}
}

// newLoader returns the pipeline file loader for every supported format.
func newLoader() config.Loader {
	y := yaml_adapter.NewLoader()
	return config.ByExtension{
		".hcl":  hcl_adapter.NewLoader(),
		".yaml": y,
		".yml":  y,
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(ctx context.Context, outW io.Writer, args []string) (err error) {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	// Turn an unexpected panic into a clean exit message for the user.
	defer func() {
		if r := recover(); r != nil {
			err = &cli.ExitError{Code: cli.ExitFailure, Message: fmt.Sprintf("application panicked: %v", r)}
		}
	}()

	inceptionApp := app.NewApp(outW, appConfig, newLoader(), nil)
	return inceptionApp.Run(ctx)
}
