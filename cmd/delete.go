package cmd

import (
	"github.com/spf13/cobra"
	"github.com/taskpulse/taskpulse/internal/ui"
)

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a task",
	Args:    cobra.ExactArgs(1),
	RunE:    runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	eng, st, err := GetEngine()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	id, ok, err := resolveOrNotice(cmd, eng, args[0])
	if err != nil || !ok {
		return err
	}

	task, found := eng.DeleteTask(id)
	if !found {
		cmd.Printf("No task matches '%s', nothing done.\n", args[0])
		return nil
	}
	cmd.Printf("%s Deleted %s\n", ui.StyleError.Render("✘"), ui.StyleTitle.Render(task.Title))
	return nil
}
