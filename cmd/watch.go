package cmd

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/taskpulse/taskpulse/internal/engine"
	"github.com/taskpulse/taskpulse/internal/ui"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live view of the ranking",
	Long: `Watch the ranking update in place. The engine recomputes on its
periodic cadence; the view refreshes every second so countdowns stay
current. Press q to quit.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

// watchTickMsg drives the per-second view refresh.
type watchTickMsg time.Time

type watchModel struct {
	eng *engine.Engine
}

func watchTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return watchTickMsg(t)
	})
}

func (m watchModel) Init() tea.Cmd {
	return watchTick()
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	case watchTickMsg:
		return m, watchTick()
	}
	return m, nil
}

func (m watchModel) View() string {
	now := time.Now()
	s := ui.StyleHeader.Render("TaskPulse") + "\n\n"

	ranked := m.eng.RankedTasks()
	if len(ranked) == 0 {
		s += "No tasks to rank.\n"
	} else {
		s += ui.RenderRanked(ranked, now)
	}

	if danger := m.eng.DangerZoneTasks(); len(danger) > 0 {
		s += "\n" + ui.RenderDangerZone(danger, now)
	}

	s += "\n" + ui.StyleSubtle.Render(fmt.Sprintf("Last cycle: %s · q to quit", m.eng.LastUpdated().Local().Format("15:04:05")))
	return s
}

func runWatch(cmd *cobra.Command, args []string) error {
	eng, st, err := GetEngine()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if err := eng.Start(); err != nil {
		return fmt.Errorf("start engine: %w", err)
	}
	// Teardown must cancel the periodic cycle; no recompute fires after this.
	defer func() { _ = eng.Stop() }()

	p := tea.NewProgram(watchModel{eng: eng})
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("watch view: %w", err)
	}
	return nil
}
