package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/taskpulse/taskpulse/internal/ui"
	"github.com/taskpulse/taskpulse/models"
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a task and see where it ranks",
	Long: `Add a task to the collection. The engine recomputes the ranking
synchronously, so the fresh rank is printed right away.

Examples:
  taskpulse add "Submit expense report" --priority high --due "2026-09-01 17:00"
  taskpulse add "Water the plants" --priority low --frequency weekly`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

var (
	addPriority  string
	addFrequency string
	addDue       string
)

func init() {
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().StringVar(&addPriority, "priority", "medium", "base priority (high, medium, low)")
	addCmd.Flags().StringVar(&addFrequency, "frequency", "once", "recurrence class (daily, weekly, monthly, yearly, once)")
	addCmd.Flags().StringVar(&addDue, "due", "", "due date+time (RFC 3339 or \"2006-01-02 15:04\")")
}

// parseDueFlag accepts RFC 3339 or a local "2006-01-02 15:04" timestamp.
func parseDueFlag(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04", s, time.Local); err == nil {
		return &t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		return &t, nil
	}
	return nil, fmt.Errorf("could not parse due time %q (want RFC 3339, \"2006-01-02 15:04\", or \"2006-01-02\")", s)
}

func runAdd(cmd *cobra.Command, args []string) error {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		return fmt.Errorf("title cannot be empty")
	}

	dueAt, err := parseDueFlag(addDue)
	if err != nil {
		return err
	}

	eng, st, err := GetEngine()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	task := models.NewTask("", title)
	task.BasePriority = models.NormalizeBasePriority(addPriority)
	task.Frequency = models.NormalizeFrequency(addFrequency)
	task.DueAt = dueAt

	created, err := eng.AddTask(task)
	if err != nil {
		return fmt.Errorf("add task: %w", err)
	}

	rank := "-"
	if created.LastRankPosition != nil {
		rank = fmt.Sprintf("#%d", *created.LastRankPosition)
	}
	cmd.Printf("%s Added %s (%s) at rank %s\n",
		ui.StyleSuccess.Render("✔"),
		ui.StyleTitle.Render(created.Title),
		shortID(created.ID),
		rank,
	)
	return nil
}
