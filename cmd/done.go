package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/taskpulse/taskpulse/internal/engine"
	"github.com/taskpulse/taskpulse/internal/ui"
)

// doneCmd represents the done command
var doneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Mark a task as completed",
	Long: `Mark a task as completed. Completed tasks drop out of the ranking and
the danger zone immediately. Any unambiguous ID prefix works.`,
	Args: cobra.ExactArgs(1),
	RunE: runDone,
}

// undoneCmd represents the undone command
var undoneCmd = &cobra.Command{
	Use:   "undone <id>",
	Short: "Mark a completed task as incomplete again",
	Long: `Reverse a completion. The task re-enters the ranking with no previous
rank, so it shows no movement on its first cycle back.`,
	Args: cobra.ExactArgs(1),
	RunE: runUndone,
}

func init() {
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(undoneCmd)
}

// resolveOrNotice resolves an ID prefix. A missing task is a no-op, not an
// error: the command prints a notice and the caller returns nil.
func resolveOrNotice(cmd *cobra.Command, eng *engine.Engine, idOrPrefix string) (string, bool, error) {
	id, err := eng.ResolveID(idOrPrefix)
	if err != nil {
		if errors.Is(err, engine.ErrNotFound) {
			cmd.Printf("No task matches '%s', nothing done.\n", idOrPrefix)
			return "", false, nil
		}
		return "", false, err
	}
	return id, true, nil
}

func runDone(cmd *cobra.Command, args []string) error {
	eng, st, err := GetEngine()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	id, ok, err := resolveOrNotice(cmd, eng, args[0])
	if err != nil || !ok {
		return err
	}

	task, found := eng.CompleteTask(id)
	if !found {
		cmd.Printf("No task matches '%s', nothing done.\n", args[0])
		return nil
	}
	cmd.Printf("%s Completed %s\n", ui.StyleSuccess.Render("✔"), ui.StyleTitle.Render(task.Title))
	return nil
}

func runUndone(cmd *cobra.Command, args []string) error {
	eng, st, err := GetEngine()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	id, ok, err := resolveOrNotice(cmd, eng, args[0])
	if err != nil || !ok {
		return err
	}

	task, found := eng.UncompleteTask(id)
	if !found {
		cmd.Printf("No task matches '%s', nothing done.\n", args[0])
		return nil
	}

	rank := "-"
	if task.LastRankPosition != nil {
		rank = fmt.Sprintf("#%d", *task.LastRankPosition)
	}
	cmd.Printf("%s Reopened %s, back at rank %s\n", ui.StyleWarning.Render("↺"), ui.StyleTitle.Render(task.Title), rank)
	return nil
}
