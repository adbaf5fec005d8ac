package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/promptguard/promptguard/internal/hooks"
)

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Handle host shim hook events",
}

var hookReadyCmd = &cobra.Command{
	Use:   "ready",
	Short: "Handle the host ready signal",
	Run: func(cmd *cobra.Command, args []string) {
		hooks.Handle("ready", os.Stdin)
	},
}

var hookStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Handle the host stop signal",
	Run: func(cmd *cobra.Command, args []string) {
		hooks.Handle("stop", os.Stdin)
	},
}

var hookGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Guard one generate request",
	Run: func(cmd *cobra.Command, args []string) {
		hooks.Handle("generate", os.Stdin)
	},
}

func init() {
	hookCmd.AddCommand(hookReadyCmd)
	hookCmd.AddCommand(hookStopCmd)
	hookCmd.AddCommand(hookGenerateCmd)
}
