package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/1broseidon/glasspane/internal/config"
	"github.com/1broseidon/glasspane/internal/opacity"
)

func newRulesCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Maintain the opacity rules",
		Long: "Rules map a title and/or executable substring to an opacity. The first\n" +
			"matching rule wins; windows without a match get the default opacity.",
	}
	cmd.AddCommand(
		newRulesListCmd(opts),
		newRulesAddCmd(opts),
		newRulesRemoveCmd(opts),
		newRulesDefaultCmd(opts),
	)
	return cmd
}

func newRulesListCmd(opts *globalOptions) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List rules in match order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _ := opts.loadTolerant(opts.stderrLogger())
			return printRules(cmd.OutOrStdout(), cfg, format)
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "output format: yaml or table (default table on a terminal, yaml otherwise)")
	return cmd
}

func newRulesAddCmd(opts *globalOptions) *cobra.Command {
	var (
		title, executable string
		percent           int
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a rule, replacing rules with the same title or executable",
		Example: "  glasspane rules add --executable code.exe --opacity 85\n" +
			"  glasspane rules add --title \"Untitled - Notepad\" --opacity 60",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rule := config.WindowRule{Opacity: percent}
			if cmd.Flags().Changed("title") {
				rule.Title = config.String(title)
			}
			if cmd.Flags().Changed("executable") {
				rule.Executable = config.String(executable)
			}
			if rule.Inert() {
				return fmt.Errorf("a rule needs --title or --executable")
			}
			if percent < 0 || percent > 100 {
				return fmt.Errorf("%w: %d", opacity.ErrInvalidPercent, percent)
			}

			cfg, path, err := opts.loadStrict()
			if err != nil {
				return err
			}
			cfg.PutRule(rule)
			if err := cfg.SaveTo(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s\n", rule.Describe())
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "match windows whose title contains this text")
	cmd.Flags().StringVar(&executable, "executable", "", "match windows whose executable contains this text")
	cmd.Flags().IntVar(&percent, "opacity", 0, "opacity percentage 0-100")
	_ = cmd.MarkFlagRequired("opacity")
	return cmd
}

func newRulesRemoveCmd(opts *globalOptions) *cobra.Command {
	var title, executable string
	cmd := &cobra.Command{
		Use:   "remove [INDEX]",
		Short: "Remove a rule by index, or every rule keyed to a title or executable",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			byKey := title != "" || executable != ""
			if (len(args) == 1) == byKey {
				return fmt.Errorf("give either an INDEX or --title/--executable")
			}

			cfg, path, err := opts.loadStrict()
			if err != nil {
				return err
			}

			var removed int
			if len(args) == 1 {
				i, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid index %q", args[0])
				}
				if err := cfg.RemoveRuleAt(i); err != nil {
					return err
				}
				removed = 1
			} else {
				removed = removeKeyed(cfg, title, executable)
			}

			if removed > 0 {
				if err := cfg.SaveTo(path); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d rule(s)\n", removed)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "remove rules whose title is exactly this text")
	cmd.Flags().StringVar(&executable, "executable", "", "remove rules whose executable is exactly this text")
	return cmd
}

// removeKeyed drops rules keyed to title or executable. Empty arguments
// match nothing.
func removeKeyed(cfg *config.Config, title, executable string) int {
	kept := cfg.SpecificWindows[:0]
	removed := 0
	for _, r := range cfg.SpecificWindows {
		if (title != "" && r.Title != nil && *r.Title == title) ||
			(executable != "" && r.Executable != nil && *r.Executable == executable) {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	cfg.SpecificWindows = kept
	return removed
}

func newRulesDefaultCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "default [PERCENT|none]",
		Short: "Show, set or clear the default opacity",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				cfg, _ := opts.loadTolerant(opts.stderrLogger())
				fmt.Fprintln(out, formatDefault(cfg.DefaultOpacity))
				return nil
			}

			cfg, path, err := opts.loadStrict()
			if err != nil {
				return err
			}
			if strings.EqualFold(args[0], "none") {
				cfg.DefaultOpacity = nil
			} else {
				p, err := strconv.Atoi(strings.TrimSuffix(args[0], "%"))
				if err != nil {
					return fmt.Errorf("invalid percentage %q", args[0])
				}
				if p < 0 || p > 100 {
					return fmt.Errorf("%w: %d", opacity.ErrInvalidPercent, p)
				}
				cfg.DefaultOpacity = config.Int(p)
			}
			if err := cfg.SaveTo(path); err != nil {
				return err
			}
			fmt.Fprintf(out, "default opacity: %s\n", formatDefault(cfg.DefaultOpacity))
			return nil
		},
	}
}

func formatDefault(p *int) string {
	if p == nil {
		return "none"
	}
	return fmt.Sprintf("%d%%", *p)
}

func printRules(w io.Writer, cfg *config.Config, format string) error {
	if format == "" {
		format = "yaml"
		if isTerminal(w) {
			format = "table"
		}
	}
	switch format {
	case "yaml":
		data, err := cfg.Marshal()
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case "table":
		_, err := fmt.Fprintf(w, "default opacity: %s\n%s\n", formatDefault(cfg.DefaultOpacity), rulesTable(cfg.SpecificWindows))
		return err
	default:
		return fmt.Errorf("unsupported format %q (use yaml or table)", format)
	}
}

func rulesTable(list []config.WindowRule) string {
	field := func(s *string) string {
		if s == nil {
			return "*"
		}
		return strconv.Quote(*s)
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "TITLE", "EXECUTABLE", "OPACITY")
	for i, r := range list {
		t.Row(strconv.Itoa(i), field(r.Title), field(r.Executable), fmt.Sprintf("%d%%", r.Opacity))
	}
	return t.String()
}

func newConfigCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the rule file",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "path",
			Short: "Print the rule file path",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				path, err := opts.resolveConfigPath()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			},
		},
		&cobra.Command{
			Use:   "validate",
			Short: "Check the rule file strictly",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				path, err := opts.resolveConfigPath()
				if err != nil {
					return err
				}
				res, err := config.LoadFromPath(path)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, w := range res.Config.Warnings() {
					fmt.Fprintf(out, "warning: %s\n", w)
				}
				if !res.Exists {
					fmt.Fprintf(out, "%s: not found, defaults apply\n", path)
					return nil
				}
				fmt.Fprintf(out, "%s: ok (%d rules)\n", path, len(res.Config.SpecificWindows))
				return nil
			},
		},
		&cobra.Command{
			Use:   "print",
			Short: "Print the rule file as loaded",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, _ := opts.loadTolerant(opts.stderrLogger())
				return printRules(cmd.OutOrStdout(), cfg, "yaml")
			},
		},
	)
	return cmd
}
