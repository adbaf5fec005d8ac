// Package cli wires the promptguard commands.
package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "promptguard",
	Short: "Role reconstruction for flattened chat prompts",
	Long: "Promptguard splits a flattened chat prompt back into role-tagged messages, " +
		"so only turns from the bot's own accounts come back as assistant turns. Single Go binary.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(hookCmd)
	rootCmd.AddCommand(transformCmd)
	rootCmd.AddCommand(decisionsCmd)
	rootCmd.AddCommand(configCmd)
}
