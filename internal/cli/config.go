package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/promptguard/promptguard/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the promptguard config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file to edit",
	RunE:  runConfigInit,
}

func init() {
	configInitCmd.Flags().StringVarP(&configPath, "config", "c", "", "config file (default ~/.promptguard/config.yaml)")
	configCmd.AddCommand(configInitCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path, err := resolveConfigPath()
	if err != nil {
		return fmt.Errorf("resolve config path: %w", err)
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config already exists at %s", path)
	}
	if err := config.Default().Save(path); err != nil {
		return err
	}
	fmt.Printf("Wrote default config to %s\n", path)
	return nil
}
