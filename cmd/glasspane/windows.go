package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/1broseidon/glasspane/internal/config"
	"github.com/1broseidon/glasspane/internal/discovery"
	"github.com/1broseidon/glasspane/internal/opacity"
)

func newListCmd(opts *globalOptions) *cobra.Command {
	var format, title, executable string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List top-level windows",
		Long: "List visible top-level windows with their executable, size and current\n" +
			"transparency. Scanning applies the stored rules, as the UI does.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := opts.stderrLogger()
			cfg, _ := opts.loadTolerant(logger)
			enum, err := opts.enumerator(logger)
			if err != nil {
				return err
			}
			snaps, err := scan(enum, cfg, logger)
			if err != nil {
				return err
			}
			snaps = discovery.Filter(snaps, title, executable)
			return printSnapshots(cmd.OutOrStdout(), snaps, format)
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "output format: yaml or table (default table on a terminal, yaml otherwise)")
	cmd.Flags().StringVar(&title, "title", "", "only windows whose title contains this text")
	cmd.Flags().StringVar(&executable, "executable", "", "only windows whose executable contains this text")
	return cmd
}

func newApplyCmd(opts *globalOptions) *cobra.Command {
	var (
		percent           int
		title, executable string
		persist           bool
	)
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Set the opacity of matching windows",
		Long: "Set the opacity of every window whose title and executable contain the\n" +
			"given text. 100 removes transparency. With --persist a rule is stored\n" +
			"for each window so later scans re-apply it; a rule replaces rules with\n" +
			"the same title or executable, so windows of one executable keep one rule.",
		Example: "  glasspane apply --executable notepad.exe --opacity 80 --persist",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if percent < 0 || percent > 100 {
				return fmt.Errorf("%w: %d", opacity.ErrInvalidPercent, percent)
			}
			if title == "" && executable == "" {
				return fmt.Errorf("apply needs --title or --executable")
			}
			logger := opts.stderrLogger()

			cfg, path, err := opts.loadStrict()
			if err != nil {
				return err
			}
			enum, err := opts.enumerator(logger)
			if err != nil {
				return err
			}
			snaps, err := scan(enum, cfg, logger)
			if err != nil {
				return err
			}
			targets := discovery.Filter(snaps, title, executable)
			if len(targets) == 0 {
				return fmt.Errorf("no window matches")
			}

			out := cmd.OutOrStdout()
			failed := 0
			var persisted []discovery.Snapshot
			for _, w := range targets {
				if err := enum.Opacity().Apply(w.Handle, percent); err != nil {
					logger.Warn("failed to apply opacity",
						"handle", uintptr(w.Handle),
						"title", w.Title,
						"opacity", percent,
						"error", err,
					)
					failed++
					continue
				}
				fmt.Fprintf(out, "%d%%  %s  (%s)\n", percent, w.Title, w.Executable)
				if persist {
					cfg.PersistWindow(w.Title, w.Executable, percent)
					persisted = append(persisted, w)
				}
			}
			if len(persisted) > 0 {
				if err := cfg.SaveTo(path); err != nil {
					return err
				}
				fmt.Fprintf(out, "stored %d rule(s)\n", storedRules(cfg, persisted))
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d windows could not be changed", failed, len(targets))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&percent, "opacity", 100, "opacity percentage 0-100")
	cmd.Flags().StringVar(&title, "title", "", "windows whose title contains this text")
	cmd.Flags().StringVar(&executable, "executable", "", "windows whose executable contains this text")
	cmd.Flags().BoolVar(&persist, "persist", false, "store a rule per window (one rule per executable survives)")
	return cmd
}

func newRecoverCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "recover",
		Short: "Make every window fully opaque again",
		Long: "Remove transparency from every visible top-level window. The rule file\n" +
			"is not read or changed, so stored rules apply again on the next scan.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := opts.stderrLogger()
			enum, err := opts.enumerator(logger)
			if err != nil {
				return err
			}
			// An empty rule set enumerates without changing anything.
			snaps, err := scan(enum, nil, logger)
			if err != nil {
				return err
			}
			restored := 0
			for _, w := range snaps {
				if !w.Transparency.Valid {
					continue
				}
				if err := enum.Opacity().Apply(w.Handle, 100); err != nil {
					logger.Warn("failed to restore opacity", "handle", uintptr(w.Handle), "title", w.Title, "error", err)
					continue
				}
				restored++
			}
			fmt.Fprintf(cmd.OutOrStdout(), "restored %d of %d windows\n", restored, len(snaps))
			return nil
		},
	}
}

// storedRules counts the distinct rules left for windows after persisting
// them one by one.
func storedRules(cfg *config.Config, windows []discovery.Snapshot) int {
	seen := make(map[[2]string]bool)
	for _, w := range windows {
		if cfg.StoredFor(w.Title, w.Executable) {
			seen[[2]string{w.Title, w.Executable}] = true
		}
	}
	return len(seen)
}

func printSnapshots(w io.Writer, snaps []discovery.Snapshot, format string) error {
	if format == "" {
		format = "yaml"
		if isTerminal(w) {
			format = "table"
		}
	}
	switch format {
	case "yaml":
		if snaps == nil {
			snaps = []discovery.Snapshot{}
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(snaps); err != nil {
			return fmt.Errorf("encode windows: %w", err)
		}
		return enc.Close()
	case "table":
		_, err := fmt.Fprintln(w, snapshotTable(snaps))
		return err
	default:
		return fmt.Errorf("unsupported format %q (use yaml or table)", format)
	}
}

func snapshotTable(snaps []discovery.Snapshot) string {
	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("HANDLE", "TITLE", "EXECUTABLE", "SIZE", "CLOAKED", "TRANSPARENCY").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
	for _, s := range snaps {
		t.Row(
			fmt.Sprintf("%#x", uintptr(s.Handle)),
			s.Title,
			s.Executable,
			fmt.Sprintf("%dx%d", s.Width, s.Height),
			strconv.FormatBool(s.Cloaked),
			s.Transparency.String(),
		)
	}
	return t.String()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
