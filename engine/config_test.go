package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lumen.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadApplicationConfigMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := LoadApplicationConfig(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultApplicationConfig(), cfg)
}

func TestLoadApplicationConfigReadsValues(t *testing.T) {
	path := writeConfig(t, `
name = "Demo"
start_width = 800
start_height = 600
log_level = "debug"
frames_in_flight = 3
field_of_view = 60.0
near_clip = 0.5
far_clip = 100.0
angular_velocity = 45.0
`)

	cfg, err := LoadApplicationConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "Demo", cfg.Name)
	assert.Equal(t, uint32(800), cfg.StartWidth)
	assert.Equal(t, uint32(600), cfg.StartHeight)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 3, cfg.FramesInFlight)
	assert.Equal(t, float32(60.0), cfg.FieldOfView)
	assert.Equal(t, float32(45.0), cfg.AngularVelocity)
}

func TestLoadApplicationConfigMalformedFileFails(t *testing.T) {
	path := writeConfig(t, `name = [broken`)

	_, err := LoadApplicationConfig(path)
	assert.Error(t, err)
}

func TestLoadApplicationConfigPartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `name = "Partial"`)

	cfg, err := LoadApplicationConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "Partial", cfg.Name)
	assert.Equal(t, 2, cfg.FramesInFlight)
	assert.Equal(t, float32(45.0), cfg.FieldOfView)
}

func TestConfigNormalizeClampsFramesInFlight(t *testing.T) {
	path := writeConfig(t, `frames_in_flight = 9`)
	cfg, err := LoadApplicationConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.FramesInFlight)

	path = writeConfig(t, `frames_in_flight = 0`)
	cfg, err = LoadApplicationConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.FramesInFlight)
}

func TestConfigNormalizeRepairsDegenerateValues(t *testing.T) {
	path := writeConfig(t, `
start_width = 0
start_height = 0
field_of_view = 200.0
near_clip = -1.0
far_clip = 0.05
`)

	cfg, err := LoadApplicationConfig(path)
	require.NoError(t, err)

	assert.Equal(t, uint32(1280), cfg.StartWidth)
	assert.Equal(t, uint32(720), cfg.StartHeight)
	assert.Equal(t, float32(45.0), cfg.FieldOfView)
	assert.Equal(t, float32(0.1), cfg.NearClip)
	assert.Greater(t, cfg.FarClip, cfg.NearClip)
}
