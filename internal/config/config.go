package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// FileName is the configuration file looked up in the config directory.
const FileName = "fretboard.cfg.json"

// EnvPrefix prefixes environment overrides, e.g. FRETBOARD_LOGLEVEL or
// FRETBOARD_OUTPUT_DIR.
const EnvPrefix = "FRETBOARD"

// ViewConfig holds the initial view of a new session.
type ViewConfig struct {
	StartFret  int    `json:"startFret" mapstructure:"startFret"`
	EndFret    int    `json:"endFret" mapstructure:"endFret"`
	Visibility string `json:"visibility" mapstructure:"visibility"`
	Enharmonic int    `json:"enharmonic" mapstructure:"enharmonic"`
}

// OutputConfig holds save and export settings.
type OutputConfig struct {
	Dir      string `json:"dir" mapstructure:"dir"`
	Compress bool   `json:"compress" mapstructure:"compress"`
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file. A missing file
// leaves the defaults in place; a malformed one is an error.
func Load(configDir string) error {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./fretboard-logs")
	viper.SetDefault("defaultPreset", "tapping_12_str_matched_reciprocal")
	viper.SetDefault("presetsFile", "")

	viper.SetDefault("view.startFret", 0)
	viper.SetDefault("view.endFret", 16)
	viper.SetDefault("view.visibility", "transparent")
	viper.SetDefault("view.enharmonic", 0)

	viper.SetDefault("output.dir", ".")
	viper.SetDefault("output.compress", false)

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}

	return nil
}

// GetViewConfig returns the configured initial view.
func GetViewConfig() ViewConfig {
	return ViewConfig{
		StartFret:  viper.GetInt("view.startFret"),
		EndFret:    viper.GetInt("view.endFret"),
		Visibility: viper.GetString("view.visibility"),
		Enharmonic: viper.GetInt("view.enharmonic"),
	}
}

// GetOutputConfig returns the configured output settings.
func GetOutputConfig() OutputConfig {
	return OutputConfig{
		Dir:      viper.GetString("output.dir"),
		Compress: viper.GetBool("output.compress"),
	}
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}
