package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(body), 0644))
	return dir
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := writeConfig(t, `{
		"logLevel": "debug",
		"defaultPreset": "guitar",
		"view": { "startFret": 3, "endFret": 12 }
	}`)

	err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", viper.GetString("logLevel"))
	assert.Equal(t, "guitar", viper.GetString("defaultPreset"))
	assert.Equal(t, 3, viper.GetInt("view.startFret"))
	assert.Equal(t, 12, viper.GetInt("view.endFret"))
	assert.Equal(t, "transparent", viper.GetString("view.visibility"))
}

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(writeConfig(t, `{}`)))

	assert.Equal(t, "info", viper.GetString("logLevel"))
	assert.Equal(t, "./fretboard-logs", viper.GetString("logsDir"))
	assert.Equal(t, "tapping_12_str_matched_reciprocal", viper.GetString("defaultPreset"))
	assert.Equal(t, "", viper.GetString("presetsFile"))
	assert.Equal(t, ".", viper.GetString("output.dir"))
	assert.Equal(t, false, viper.GetBool("output.compress"))
}

func TestLoad_MissingFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(t.TempDir()))
	assert.Equal(t, "info", viper.GetString("logLevel"))
}

func TestLoad_MalformedFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	err := Load(writeConfig(t, `{"logLevel": `))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Setenv("FRETBOARD_OUTPUT_DIR", "/tmp/boards")
	t.Setenv("FRETBOARD_LOGLEVEL", "warn")

	require.NoError(t, Load(writeConfig(t, `{"output": {"dir": "./ignored"}}`)))

	assert.Equal(t, "/tmp/boards", GetOutputConfig().Dir)
	assert.Equal(t, "warn", GetString("logLevel"))
}

func TestGetViewConfig(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(writeConfig(t, `{
		"view": { "endFret": 10, "visibility": "hidden", "enharmonic": 1 }
	}`)))

	assert.Equal(t, ViewConfig{
		StartFret:  0,
		EndFret:    10,
		Visibility: "hidden",
		Enharmonic: 1,
	}, GetViewConfig())
}

func TestGetOutputConfig_Override(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(writeConfig(t, `{"output": {"dir": "/tmp/out", "compress": true}}`)))

	assert.Equal(t, OutputConfig{Dir: "/tmp/out", Compress: true}, GetOutputConfig())
}

func TestGetString(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testKey", "testValue")
	assert.Equal(t, "testValue", GetString("testKey"))
}

func TestGetInt(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testInt", 42)
	assert.Equal(t, 42, GetInt("testInt"))
}

func TestGetBool(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testBool", true)
	assert.Equal(t, true, GetBool("testBool"))
}
