package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/1broseidon/glasspane/internal/app"
	"github.com/1broseidon/glasspane/internal/bridge"
	"github.com/1broseidon/glasspane/internal/config"
	"github.com/1broseidon/glasspane/internal/discovery"
	"github.com/1broseidon/glasspane/internal/ipc"
	"github.com/1broseidon/glasspane/internal/logging"
	"github.com/1broseidon/glasspane/internal/platform"
	"github.com/1broseidon/glasspane/internal/runtimepath"
	"github.com/1broseidon/glasspane/internal/tray"
	"github.com/1broseidon/glasspane/internal/tui"
)

func newRunCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the interactive UI and notification-area icon",
		Long: "Start the interactive UI. Only one instance runs at a time; starting a\n" +
			"second one asks the running instance to show its window and exits.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUI(cmd, opts)
		},
	}
}

func runUI(cmd *cobra.Command, opts *globalOptions) error {
	path, err := opts.resolveConfigPath()
	if err != nil {
		return err
	}
	cfg, loadErr := config.Load(path)

	// The UI owns the terminal, so diagnostics go to the log file only.
	logger, closer, err := logging.OpenFile(cfg.GetLoggingConfig(), opts.logLevel)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
	}
	defer closer.Close()
	if loadErr != nil {
		logger.Warn("config recovered", "path", path, "error", loadErr)
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", loadErr)
	}
	for _, w := range cfg.Warnings() {
		logger.Warn("config warning", "path", path, "warning", w)
	}

	backend, err := newBackend()
	if err != nil {
		return err
	}
	var host platform.HostWindow
	if h, err := platform.NewHostWindow(); err != nil {
		logger.Warn("host window unavailable, hide to tray disabled", "error", err)
	} else {
		host = h
	}

	b := bridge.New()
	defer b.Close()

	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return fmt.Errorf("resolve socket path: %w", err)
	}
	srv := ipc.NewServer(socketPath, b, logger)
	if err := srv.Start(); err != nil {
		if !errors.Is(err, ipc.ErrAlreadyRunning) {
			return fmt.Errorf("start ipc server: %w", err)
		}
		if err := ipc.NewClientAt(socketPath).Show(); err != nil {
			return fmt.Errorf("glasspane is already running but did not respond: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "glasspane is already running; asked it to show its window")
		return nil
	}
	defer srv.Stop()

	icon := tray.New(b, "glasspane", logger)
	icon.Start()
	defer icon.Stop()

	enum := discovery.NewEnumerator(backend, logger)
	ctrl := app.New(app.Options{
		Config: cfg,
		Save: func(c *config.Config) error {
			return c.SaveTo(path)
		},
		Opacity: enum.Opacity(),
		Logger:  logger,
	})

	logger.Info("starting", "version", version, "config", path, "socket", socketPath)
	err = tui.Run(tui.Options{
		Controller: ctrl,
		Scanner:    enum,
		Bridge:     b,
		Host:       host,
		Publish:    srv.Publish,
		Logger:     logger,
		Version:    version,
	})
	logger.Info("exiting", "error", err)
	return err
}
