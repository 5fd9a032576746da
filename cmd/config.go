package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/taskpulse/taskpulse/types"
)

const (
	configName = ".taskpulse"
	envPrefix  = "TASKPULSE"
)

// GlobalAppConfig holds the global application configuration instance.
var GlobalAppConfig types.AppConfig

// validate is a single validator instance; it caches struct info.
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// validateAppConfig performs validation on the AppConfig struct.
func validateAppConfig(config *types.AppConfig) error {
	return validate.Struct(config)
}

// setConfigDefaults registers the defaults viper falls back to when neither
// config file nor environment provides a value.
func setConfigDefaults() {
	viper.SetDefault("project.rootDir", ".taskpulse")
	viper.SetDefault("data.file", "tasks.json")
	viper.SetDefault("data.format", "json")
	viper.SetDefault("engine.recomputeIntervalSeconds", 30)
}

// InitConfig reads in config file and ENV variables if set.
func InitConfig() {
	// Load .env file first if present. It's okay if it doesn't exist.
	_ = godotenv.Load()

	// Environment variable handling must be set up BEFORE reading the config
	// file so env vars can influence config loading.
	viper.SetEnvPrefix(envPrefix) // e.g., TASKPULSE_VERBOSE
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setConfigDefaults()

	cfgFileFlag := viper.GetString("config") // Value from --config flag

	if cfgFileFlag != "" {
		viper.SetConfigFile(cfgFileFlag)
	} else {
		// Project-local config dir first, then home and working directory.
		projectConfigDir := viper.GetString("project.rootDir")
		if _, err := os.Stat(projectConfigDir); !os.IsNotExist(err) {
			viper.AddConfigPath(projectConfigDir)
		}
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigName(configName)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFileFlag != "" {
			cobra.CheckErr(fmt.Errorf("failed to read config file %s: %w", cfgFileFlag, err))
		}
		// Running without a config file is fine; defaults apply.
	}

	if err := viper.Unmarshal(&GlobalAppConfig); err != nil {
		cobra.CheckErr(fmt.Errorf("failed to unmarshal config: %w", err))
	}
	if err := validateAppConfig(&GlobalAppConfig); err != nil {
		cobra.CheckErr(fmt.Errorf("invalid configuration: %w", err))
	}

	if GlobalAppConfig.Verbose {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.WarnLevel)
	}
}

// GetConfig returns the loaded application configuration.
func GetConfig() *types.AppConfig {
	return &GlobalAppConfig
}
