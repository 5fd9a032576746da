package types

// AppConfig represents the complete application configuration
type AppConfig struct {
	Verbose bool          `mapstructure:"verbose"`
	Config  string        `mapstructure:"config"`
	Project ProjectConfig `mapstructure:"project" validate:"required"`
	Data    DataConfig    `mapstructure:"data" validate:"required"`
	Engine  EngineConfig  `mapstructure:"engine" validate:"required"`
}

// ProjectConfig holds project-related settings
type ProjectConfig struct {
	RootDir string `mapstructure:"rootDir" validate:"required"`
}

// DataConfig holds data storage configuration
type DataConfig struct {
	File   string `mapstructure:"file" validate:"required"`
	Format string `mapstructure:"format" validate:"required,oneof=json yaml toml"`
}

// EngineConfig holds ranking engine settings
type EngineConfig struct {
	// RecomputeIntervalSeconds is the cadence of the periodic ranking cycle.
	RecomputeIntervalSeconds int `mapstructure:"recomputeIntervalSeconds" validate:"required,min=1"`
}
