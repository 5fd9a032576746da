package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/taskpulse/taskpulse/internal/ui"
	"github.com/taskpulse/taskpulse/models"
)

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a task's fields",
	Long: `Update a task. Only the provided flags change; everything else keeps its
current value. Clearing the due date is --due none.

Examples:
  taskpulse update 3f2a --priority high
  taskpulse update 3f2a --due "2026-09-01 17:00" --frequency monthly
  taskpulse update 3f2a --due none`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdate,
}

var (
	updateTitle     string
	updatePriority  string
	updateFrequency string
	updateDue       string
)

func init() {
	rootCmd.AddCommand(updateCmd)

	updateCmd.Flags().StringVar(&updateTitle, "title", "", "new title")
	updateCmd.Flags().StringVar(&updatePriority, "priority", "", "new base priority (high, medium, low)")
	updateCmd.Flags().StringVar(&updateFrequency, "frequency", "", "new recurrence class")
	updateCmd.Flags().StringVar(&updateDue, "due", "", "new due date+time, or 'none' to clear")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	eng, st, err := GetEngine()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	id, ok, err := resolveOrNotice(cmd, eng, args[0])
	if err != nil || !ok {
		return err
	}

	var task models.Task
	found := false
	for _, t := range eng.Tasks() {
		if t.ID == id {
			task = t
			found = true
			break
		}
	}
	if !found {
		cmd.Printf("No task matches '%s', nothing done.\n", args[0])
		return nil
	}

	if updateTitle != "" {
		task.Title = strings.TrimSpace(updateTitle)
	}
	if updatePriority != "" {
		task.BasePriority = models.NormalizeBasePriority(updatePriority)
	}
	if updateFrequency != "" {
		task.Frequency = models.NormalizeFrequency(updateFrequency)
	}
	if updateDue != "" {
		if strings.EqualFold(updateDue, "none") {
			task.DueAt = nil
		} else {
			dueAt, err := parseDueFlag(updateDue)
			if err != nil {
				return err
			}
			task.DueAt = dueAt
		}
	}

	updated, found, err := eng.UpdateTask(task)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if !found {
		cmd.Printf("No task matches '%s', nothing done.\n", args[0])
		return nil
	}

	rank := "-"
	if updated.LastRankPosition != nil {
		rank = fmt.Sprintf("#%d", *updated.LastRankPosition)
	}
	cmd.Printf("%s Updated %s, now at rank %s\n", ui.StyleSuccess.Render("✔"), ui.StyleTitle.Render(updated.Title), rank)
	return nil
}
