package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/taskpulse/taskpulse/internal/engine"
	"github.com/taskpulse/taskpulse/internal/ui"
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Bulk-import tasks from a JSON file",
	Long: `Bulk-import tasks from a JSON array of recurrence descriptions, the
format onboarding flows produce. Each entry's next concrete due time is
computed from its recurrence fields (weekdays, day of month, month). Entries
whose ID already exists are skipped, so re-running an import is safe.

Example entry:
  {"title": "Take out recycling", "priority": "medium",
   "frequency": "weekly", "weekdays": ["wednesday"], "timeOfDay": "08:00"}`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read import file: %w", err)
	}

	var protos []engine.ProtoTask
	if err := json.Unmarshal(data, &protos); err != nil {
		return fmt.Errorf("parse import file %s: %w", args[0], err)
	}

	eng, st, err := GetEngine()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	added := eng.BulkImport(protos)
	skipped := len(protos) - added
	cmd.Printf("%s Imported %d task(s), skipped %d\n", ui.StyleSuccess.Render("✔"), added, skipped)
	return nil
}
