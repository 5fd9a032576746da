package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskpulse/taskpulse/internal/engine"
)

// withTempProject points the config at a throwaway directory so command
// tests never touch a real task file. viper.Set wins over defaults and
// config files, so InitConfig keeps these values.
func withTempProject(t *testing.T) string {
	t.Helper()
	viper.Reset()
	dir := t.TempDir()
	viper.Set("project.rootDir", dir)
	viper.Set("data.file", "tasks.json")
	viper.Set("data.format", "json")
	viper.Set("engine.recomputeIntervalSeconds", 30)
	t.Cleanup(viper.Reset)
	return dir
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	b := bytes.NewBufferString("")
	rootCmd.SetOut(b)
	rootCmd.SetErr(b)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return b.String()
}

func TestAddListDoneFlow(t *testing.T) {
	withTempProject(t)

	out := execute(t, "add", "Submit quarterly report", "--priority", "high", "--due", "2030-01-02 15:00")
	assert.Contains(t, out, "Added")
	assert.Contains(t, out, "Submit quarterly report")
	assert.Contains(t, out, "rank #1")

	out = execute(t, "list")
	assert.Contains(t, out, "Submit quarterly report")
	assert.Contains(t, out, "high")

	// Grab the persisted ID and complete the task.
	eng, st, err := GetEngine()
	require.NoError(t, err)
	tasks := eng.Tasks()
	require.Len(t, tasks, 1)
	id := tasks[0].ID
	require.NoError(t, st.Close())

	out = execute(t, "done", id)
	assert.Contains(t, out, "Completed")

	out = execute(t, "list")
	assert.Contains(t, out, "No tasks to rank.")
}

func TestDoneUnknownIDIsNoOp(t *testing.T) {
	withTempProject(t)

	out := execute(t, "done", "does-not-exist")
	assert.Contains(t, out, "nothing done")
}

func TestClearRequiresConfirmation(t *testing.T) {
	withTempProject(t)

	execute(t, "add", "Keep me")

	out := execute(t, "clear")
	assert.Contains(t, out, "--yes")

	eng, st, err := GetEngine()
	require.NoError(t, err)
	assert.Len(t, eng.Tasks(), 1)
	require.NoError(t, st.Close())

	out = execute(t, "clear", "--yes")
	assert.Contains(t, out, "Cleared 1 task")
}

func TestImportCommand(t *testing.T) {
	dir := withTempProject(t)

	protos := []engine.ProtoTask{
		{ID: "imp-1", Title: "Water the plants", Priority: "low", Frequency: "weekly", Weekdays: []string{"saturday"}},
		{ID: "imp-2", Title: "Pay rent", Priority: "high", Frequency: "monthly", DayOfMonth: 1},
	}
	data, err := json.Marshal(protos)
	require.NoError(t, err)
	importPath := filepath.Join(dir, "import.json")
	require.NoError(t, os.WriteFile(importPath, data, 0o644))

	out := execute(t, "import", importPath)
	assert.Contains(t, out, "Imported 2 task(s), skipped 0")

	// Idempotent on re-run.
	out = execute(t, "import", importPath)
	assert.Contains(t, out, "Imported 0 task(s), skipped 2")
}

func TestListAllShowsCompletedImportedTask(t *testing.T) {
	dir := withTempProject(t)

	// Imported IDs can be arbitrarily short, unlike generated UUIDs.
	protos := []engine.ProtoTask{
		{ID: "p1", Title: "Renew passport", Priority: "high", Frequency: "yearly", Month: "december"},
	}
	data, err := json.Marshal(protos)
	require.NoError(t, err)
	importPath := filepath.Join(dir, "import.json")
	require.NoError(t, os.WriteFile(importPath, data, 0o644))

	execute(t, "import", importPath)
	execute(t, "done", "p1")

	out := execute(t, "list", "--all")
	assert.Contains(t, out, "Renew passport")
	assert.Contains(t, out, "(p1)")
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "p1", shortID("p1"))
	assert.Equal(t, "12345678", shortID("12345678"))
	assert.Equal(t, "3f2a9c1d", shortID("3f2a9c1d-0000-4000-8000-000000000000"))
}

func TestParseDueFlag(t *testing.T) {
	tests := []struct {
		in      string
		wantNil bool
		wantErr bool
	}{
		{"", true, false},
		{"2030-01-02T15:00:00Z", false, false},
		{"2030-01-02 15:00", false, false},
		{"2030-01-02", false, false},
		{"next tuesday", false, true},
	}
	for _, tt := range tests {
		got, err := parseDueFlag(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.wantNil, got == nil, "input %q", tt.in)
	}
}
