package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/1broseidon/glasspane/internal/mcp"
)

func newMCPCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Model Context Protocol server",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server on stdio",
		Long: "Start the MCP server on stdio. It is meant to be launched by an MCP\n" +
			"client, for example:\n\n" +
			"  claude mcp add glasspane -- glasspane mcp serve",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// stdout carries the protocol; logs go to stderr.
			logger := opts.stderrLogger()
			path, err := opts.resolveConfigPath()
			if err != nil {
				return err
			}
			backend, err := newBackend()
			if err != nil {
				return err
			}
			server := mcp.NewServer(mcp.Options{
				Backend:    backend,
				ConfigPath: path,
				Version:    version,
				Logger:     logger,
			})

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.Run(ctx)
		},
	})
	return cmd
}
