// Package cmd wires the chatctx CLI: the serve command that exposes the chat
// environment API, and version information.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "chatctx",
	Short: "chatctx serves flattened chat environments for agent sessions",
	Long: `chatctx loads a session's agents, users, and toolsets, merges per-request
settings over the active agent's defaults, and serves the resulting
environment snapshot over HTTP for prompt rendering.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
