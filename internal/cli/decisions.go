package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/promptguard/promptguard/internal/store"
)

var decisionsLimit int

var decisionsCmd = &cobra.Command{
	Use:   "decisions",
	Short: "Show recent guard decisions",
	RunE:  runDecisions,
}

func init() {
	decisionsCmd.Flags().IntVarP(&decisionsLimit, "limit", "n", 20, "maximum number of rows")
}

// openDB is a helper that opens the decision database for CLI commands.
func openDB() (*store.DB, error) {
	dbPath := os.Getenv("PROMPTGUARD_DB")
	if dbPath == "" {
		var err error
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			return nil, err
		}
	}
	return store.Open(dbPath)
}

func runDecisions(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	decs, err := db.GetRecentDecisions(decisionsLimit)
	if err != nil {
		return fmt.Errorf("get decisions: %w", err)
	}
	if len(decs) == 0 {
		fmt.Println("No decisions recorded yet.")
		return nil
	}

	for _, d := range decs {
		ts := time.UnixMilli(d.CreatedAt).Format("2006-01-02 15:04:05")
		line := fmt.Sprintf("%s  %-10s %-7s %s", ts, d.Outcome, d.Path, d.RequestID)
		if d.ChatID != "" {
			line += "  chat=" + d.ChatID
		}
		if d.Outcome == "structured" {
			line += fmt.Sprintf("  messages=%d", d.MessageCount)
		} else if d.Reason != "" {
			line += "  " + d.Reason
		}
		fmt.Println(line)
	}

	counts, err := db.CountDecisionsByOutcome()
	if err != nil {
		return fmt.Errorf("count decisions: %w", err)
	}
	fmt.Println()
	fmt.Printf("structured=%d fallback=%d error=%d\n",
		counts["structured"], counts["fallback"], counts["error"])

	return nil
}
