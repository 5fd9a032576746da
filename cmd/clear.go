package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/taskpulse/taskpulse/internal/ui"
)

// clearCmd represents the clear command
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all tasks",
	Long: `Delete every task in the collection. A timestamped backup of the data
file is written next to it first, unless --no-backup is given.`,
	Args: cobra.NoArgs,
	RunE: runClear,
}

var (
	clearYes      bool
	clearNoBackup bool
)

func init() {
	rootCmd.AddCommand(clearCmd)

	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "skip confirmation")
	clearCmd.Flags().BoolVar(&clearNoBackup, "no-backup", false, "do not write a backup before clearing")
}

func runClear(cmd *cobra.Command, args []string) error {
	if !clearYes {
		cmd.Println("This deletes every task. Re-run with --yes to confirm.")
		return nil
	}

	eng, st, err := GetEngine()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	n := len(eng.Tasks())
	if n == 0 {
		cmd.Println("Nothing to clear.")
		return nil
	}

	if !clearNoBackup {
		backupPath := GetTaskFilePath() + ".bak-" + time.Now().Format("20060102-150405")
		if err := st.Backup(backupPath); err != nil {
			return fmt.Errorf("backup before clear: %w", err)
		}
		cmd.Println(ui.StyleSubtle.Render("Backup written to " + backupPath))
	}

	eng.ClearAll()
	cmd.Printf("%s Cleared %d task(s)\n", ui.StyleError.Render("✘"), n)
	return nil
}
