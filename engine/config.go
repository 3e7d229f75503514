package engine

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/lumenengine/lumen/engine/math"
)

// ApplicationConfig carries everything the shell reads from lumen.toml.
// Values are normalized after load; a missing file yields the defaults.
type ApplicationConfig struct {
	Name        string `toml:"name"`
	StartPosX   uint32 `toml:"start_pos_x"`
	StartPosY   uint32 `toml:"start_pos_y"`
	StartWidth  uint32 `toml:"start_width"`
	StartHeight uint32 `toml:"start_height"`
	LogLevel    string `toml:"log_level"`

	// Number of frames kept in flight; one uniform region pair exists
	// per frame. Clamped to [1,3].
	FramesInFlight int `toml:"frames_in_flight"`

	// Transform composition tunables.
	FieldOfView     float32 `toml:"field_of_view"`
	NearClip        float32 `toml:"near_clip"`
	FarClip         float32 `toml:"far_clip"`
	AngularVelocity float32 `toml:"angular_velocity"`
}

func DefaultApplicationConfig() *ApplicationConfig {
	return &ApplicationConfig{
		Name:            "Lumen",
		StartPosX:       100,
		StartPosY:       100,
		StartWidth:      1280,
		StartHeight:     720,
		LogLevel:        "info",
		FramesInFlight:  2,
		FieldOfView:     45.0,
		NearClip:        0.1,
		FarClip:         10.0,
		AngularVelocity: 90.0,
	}
}

// LoadApplicationConfig reads the TOML file at path over the defaults.
// A missing file is not an error; a malformed one is.
func LoadApplicationConfig(path string) (*ApplicationConfig, error) {
	cfg := DefaultApplicationConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.normalize()
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.normalize()
	return cfg, nil
}

func (c *ApplicationConfig) normalize() {
	c.FramesInFlight = math.Clamp(c.FramesInFlight, 1, 3)
	if c.StartWidth == 0 {
		c.StartWidth = 1280
	}
	if c.StartHeight == 0 {
		c.StartHeight = 720
	}
	if c.FieldOfView <= 0 || c.FieldOfView >= 180 {
		c.FieldOfView = 45.0
	}
	if c.NearClip <= 0 {
		c.NearClip = 0.1
	}
	if c.FarClip <= c.NearClip {
		c.FarClip = c.NearClip + 10.0
	}
}
