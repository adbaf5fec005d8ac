package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/promptguard/promptguard/internal/guard"
	"github.com/promptguard/promptguard/internal/server"
)

var transformCmd = &cobra.Command{
	Use:   "transform",
	Short: "Run one guard request from stdin",
	Long: "Reads a guard request JSON object on stdin, runs it through the pipeline, and " +
		"prints the response JSON on stdout. Meant for poking at template changes without " +
		"a running server or host.",
	RunE: runTransform,
}

func init() {
	transformCmd.Flags().StringVarP(&configPath, "config", "c", "", "config file (default ~/.promptguard/config.yaml)")
}

func runTransform(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctrl, err := guard.New(cfg, newLogger(cfg))
	if err != nil {
		return fmt.Errorf("build guard: %w", err)
	}
	// One-shot run, no host lifecycle to wait for.
	ctrl.Activate()

	var req guard.Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}
	if req.Prompt == "" {
		return fmt.Errorf("request has no prompt")
	}
	if req.Path == "" {
		req.Path = guard.PathGroup
	}
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}

	res, err := ctrl.Guard(req)
	if err != nil {
		return fmt.Errorf("guard: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(server.ResponseFor(req.RequestID, res))
}
