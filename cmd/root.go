package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/taskpulse/taskpulse/internal/engine"
	"github.com/taskpulse/taskpulse/store"
)

var (
	// cfgFile is the path to the configuration file.
	cfgFile string
	// verbose enables verbose output.
	verbose bool
	// version is the application version.
	version = "0.1.0"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "taskpulse",
	Short: "TaskPulse ranks your tasks by dynamic urgency.",
	Long: `TaskPulse keeps a locally stored task list and continuously ranks it by a
dynamic priority score combining base priority, recurrence class, and time to
deadline. Tasks due imminently surface in a separate danger zone.`,
	Version: version,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(InitConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is $HOME/.taskpulse.yaml or ./.taskpulse.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	// Bind persistent flags to Viper
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// GetVersion returns the application version.
func GetVersion() string {
	return version
}

// shortID returns a compact 8-char prefix of a UUID for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// GetTaskFilePath returns the full path to the tasks file.
func GetTaskFilePath() string {
	config := GetConfig()
	return filepath.Join(config.Project.RootDir, config.Data.File)
}

// GetStore initializes and returns the task store.
func GetStore() (store.TaskStore, error) {
	s := store.NewFileTaskStore()
	config := GetConfig()

	taskFilePath := GetTaskFilePath()

	err := s.Initialize(map[string]string{
		"dataFile":       taskFilePath,
		"dataFileFormat": config.Data.Format,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store at %s: %w", taskFilePath, err)
	}
	return s, nil
}

// GetEngine constructs the priority engine on top of the configured store.
// One engine instance per invocation, owned by the command that asked for it;
// commands that start the periodic cycle are responsible for stopping it.
func GetEngine() (*engine.Engine, store.TaskStore, error) {
	s, err := GetStore()
	if err != nil {
		return nil, nil, err
	}

	interval := time.Duration(GetConfig().Engine.RecomputeIntervalSeconds) * time.Second
	eng, err := engine.New(s, engine.WithInterval(interval))
	if err != nil {
		_ = s.Close()
		return nil, nil, fmt.Errorf("failed to create engine: %w", err)
	}
	return eng, s, nil
}
