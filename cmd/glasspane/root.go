package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/1broseidon/glasspane/internal/config"
	"github.com/1broseidon/glasspane/internal/discovery"
	"github.com/1broseidon/glasspane/internal/logging"
	"github.com/1broseidon/glasspane/internal/platform"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// newBackend is replaced in tests.
var newBackend = platform.NewBackend

type globalOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:   "glasspane",
		Short: "Per-window transparency for desktop windows",
		Long: "glasspane lists top-level windows, sets their opacity and keeps a rule file\n" +
			"so chosen opacities are re-applied on every scan. Without a subcommand it\n" +
			"starts the interactive UI with a notification-area icon.",
		Version:      version,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUI(cmd, opts)
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "rule file (default <user config dir>/glasspane/config.yaml)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newRunCmd(opts),
		newListCmd(opts),
		newApplyCmd(opts),
		newRecoverCmd(opts),
		newRulesCmd(opts),
		newConfigCmd(opts),
		newMCPCmd(opts),
	)
	root.AddCommand(newRemoteCmds()...)
	return root
}

func (o *globalOptions) resolveConfigPath() (string, error) {
	if o.configPath != "" {
		return o.configPath, nil
	}
	return config.DefaultConfigPath()
}

// stderrLogger is used by one-shot commands; they only report warnings
// unless asked for more.
func (o *globalOptions) stderrLogger() *slog.Logger {
	level := o.logLevel
	if level == "" {
		level = "warn"
	}
	return logging.Stderr(level)
}

// loadTolerant loads the rule file for read-only use, logging anything that
// had to be recovered from.
func (o *globalOptions) loadTolerant(logger *slog.Logger) (*config.Config, string) {
	path, err := o.resolveConfigPath()
	if err != nil {
		logger.Warn("no config path", "error", err)
		return config.DefaultConfig(), ""
	}
	cfg, err := config.Load(path)
	if err != nil {
		logger.Warn("config recovered", "path", path, "error", err)
	}
	for _, w := range cfg.Warnings() {
		logger.Warn("config warning", "path", path, "warning", w)
	}
	return cfg, path
}

// loadStrict loads the rule file for commands that write it back.
func (o *globalOptions) loadStrict() (*config.Config, string, error) {
	path, err := o.resolveConfigPath()
	if err != nil {
		return nil, "", err
	}
	res, err := config.LoadFromPath(path)
	if err != nil {
		return nil, "", err
	}
	return res.Config, path, nil
}

func (o *globalOptions) enumerator(logger *slog.Logger) (*discovery.Enumerator, error) {
	backend, err := newBackend()
	if err != nil {
		return nil, err
	}
	return discovery.NewEnumerator(backend, logger), nil
}

// scan enumerates windows. A failed enumeration primitive still returns the
// windows visited before it failed; that is only an error when nothing was
// found.
func scan(enum *discovery.Enumerator, cfg *config.Config, logger *slog.Logger) ([]discovery.Snapshot, error) {
	snaps, err := enum.Enumerate(cfg)
	if err != nil {
		if len(snaps) == 0 {
			return nil, err
		}
		logger.Warn("window enumeration incomplete", "count", len(snaps), "error", err)
	}
	return snaps, nil
}
