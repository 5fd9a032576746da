package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/taskpulse/taskpulse/internal/ui"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the current ranking",
	Long: `Show all incomplete tasks ordered by dynamic priority score, with each
task's movement since the previous ranking cycle.

Examples:
  taskpulse list
  taskpulse list --all    # include completed tasks`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var listAll bool

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().BoolVar(&listAll, "all", false, "also show completed tasks")
}

func runList(cmd *cobra.Command, args []string) error {
	eng, st, err := GetEngine()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	now := time.Now()
	ranked := eng.RankedTasks()

	if len(ranked) == 0 {
		cmd.Println("No tasks to rank.")
		cmd.Println("Add one with: taskpulse add \"Your task here\"")
	} else {
		cmd.Print(ui.RenderRanked(ranked, now))
	}

	if danger := eng.DangerZoneTasks(); len(danger) > 0 {
		cmd.Println()
		cmd.Print(ui.RenderDangerZone(danger, now))
	}

	if listAll {
		done := 0
		for _, t := range eng.Tasks() {
			if t.IsCompleted {
				if done == 0 {
					cmd.Println()
					cmd.Println(ui.StyleSubtle.Render("Completed:"))
				}
				done++
				cmd.Printf("  %s %s (%s)\n",
					ui.StyleSuccess.Render("✔"),
					ui.StyleSubtle.Render(t.Title),
					shortID(t.ID),
				)
			}
		}
	}

	cmd.Println()
	cmd.Println(ui.StyleSubtle.Render("Last updated: " + eng.LastUpdated().Local().Format(time.Kitchen)))
	return nil
}
