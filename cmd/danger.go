package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/taskpulse/taskpulse/internal/ui"
)

// dangerCmd represents the danger command
var dangerCmd = &cobra.Command{
	Use:   "danger",
	Short: "Show only the danger zone",
	Long: `Show tasks that need attention right now: due within 30 minutes or
overdue by less than a day, excluding low-priority and routine personal-care
tasks.`,
	Args: cobra.NoArgs,
	RunE: runDanger,
}

func init() {
	rootCmd.AddCommand(dangerCmd)
}

func runDanger(cmd *cobra.Command, args []string) error {
	eng, st, err := GetEngine()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	cmd.Print(ui.RenderDangerZone(eng.DangerZoneTasks(), time.Now()))
	return nil
}
