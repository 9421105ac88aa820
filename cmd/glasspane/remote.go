package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/1broseidon/glasspane/internal/ipc"
)

// newClient is replaced in tests.
var newClient = ipc.NewClient

func newRemoteCmds() []*cobra.Command {
	simple := func(use, short string, call func(*ipc.Client) error) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := call(newClient()); err != nil {
					return fmt.Errorf("%s: %w", use, err)
				}
				return nil
			},
		}
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Show the state of the running instance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := newClient().GetStatus()
			if err != nil {
				return fmt.Errorf("status: %w", err)
			}
			visibility := "hidden"
			if st.Visible {
				visibility = "visible"
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "window:   %s\n", visibility)
			fmt.Fprintf(out, "windows:  %d\n", st.WindowCount)
			if st.Selected != "" {
				fmt.Fprintf(out, "selected: %s\n", st.Selected)
			}
			fmt.Fprintf(out, "uptime:   %s\n", (time.Duration(st.UptimeSeconds) * time.Second).String())
			return nil
		},
	}

	return []*cobra.Command{
		simple("show", "Show the running instance's window", (*ipc.Client).Show),
		simple("hide", "Hide the running instance to the notification area", (*ipc.Client).Hide),
		simple("refresh", "Ask the running instance to rescan windows", (*ipc.Client).Refresh),
		simple("exit", "Stop the running instance", (*ipc.Client).Exit),
		status,
	}
}
