// Package sim owns the per-frame particle simulation: orientation, effect
// resolution, the countdown state machine and the render frame.
package sim

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pelletier/go-toml/v2"

	"github.com/gekko3d/particleart/particles"
)

// Control ranges. Values outside are clamped by Sanitize.
const (
	MaxParticleCount = 50000
	MinParticleSize  = 0.01
	MaxParticleSize  = 0.2
	MaxSpeed         = 5
	MaxNoise         = 10
	MinOpacity       = 0.1
	MaxOpacity       = 1
	MinSensitivity   = 1
	MaxSensitivity   = 10

	DefaultColor            = "#0099ff"
	DefaultCountdownMessage = "HAPPY NEW YEAR"
)

// Config is the complete set of user controls. A Config value is treated as
// immutable for the duration of a frame.
type Config struct {
	Model                  particles.ShapeKind  `toml:"model" json:"model"`
	Effect                 particles.EffectKind `toml:"effect" json:"effect"`
	Color                  string               `toml:"color" json:"color"`
	ParticleCount          int                  `toml:"particle_count" json:"particleCount"`
	ParticleSize           float32              `toml:"particle_size" json:"particleSize"`
	Speed                  float32              `toml:"speed" json:"speed"`
	Noise                  float32              `toml:"noise" json:"noise"`
	Opacity                float32              `toml:"opacity" json:"opacity"`
	InteractionSensitivity int                  `toml:"interaction_sensitivity" json:"interactionSensitivity"`
	CountdownMessage       string               `toml:"countdown_message" json:"countdownMessage,omitempty"`
}

func DefaultConfig() Config {
	return Config{
		Model:                  particles.Heart,
		Effect:                 particles.EffectNone,
		Color:                  DefaultColor,
		ParticleCount:          15000,
		ParticleSize:           0.05,
		Speed:                  1.0,
		Noise:                  0.5,
		Opacity:                0.8,
		InteractionSensitivity: 5,
		CountdownMessage:       DefaultCountdownMessage,
	}
}

// Sanitize clamps every field into its control range. Unknown enums,
// unparsable colours and non-finite numbers fall back to the defaults.
func (c Config) Sanitize() Config {
	def := DefaultConfig()
	if !c.Model.Valid() {
		c.Model = def.Model
	}
	if !c.Effect.Valid() {
		c.Effect = def.Effect
	}
	if _, err := ParseColor(c.Color); err != nil {
		c.Color = def.Color
	}
	c.ParticleCount = min(MaxParticleCount, max(0, c.ParticleCount))
	c.ParticleSize = clampOr(c.ParticleSize, MinParticleSize, MaxParticleSize, def.ParticleSize)
	c.Speed = clampOr(c.Speed, 0, MaxSpeed, def.Speed)
	c.Noise = clampOr(c.Noise, 0, MaxNoise, def.Noise)
	c.Opacity = clampOr(c.Opacity, MinOpacity, MaxOpacity, def.Opacity)
	c.InteractionSensitivity = min(MaxSensitivity, max(MinSensitivity, c.InteractionSensitivity))
	if strings.TrimSpace(c.CountdownMessage) == "" {
		c.CountdownMessage = def.CountdownMessage
	}
	return c
}

func clampOr(v, lo, hi, fallback float32) float32 {
	if math32.IsNaN(v) {
		return fallback
	}
	return min(hi, max(lo, v))
}

// RGB returns the configured colour with components in [0,1].
func (c Config) RGB() mgl32.Vec3 {
	rgb, err := ParseColor(c.Color)
	if err != nil {
		rgb, _ = ParseColor(DefaultColor)
	}
	return rgb
}

// ParseColor parses "#rrggbb" or "#rgb".
func ParseColor(s string) (mgl32.Vec3, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return mgl32.Vec3{}, fmt.Errorf("invalid colour %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return mgl32.Vec3{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return mgl32.Vec3{
		float32(v>>16&0xff) / 255,
		float32(v>>8&0xff) / 255,
		float32(v&0xff) / 255,
	}, nil
}

// DecodeConfig reads a TOML document on top of the defaults. Keys that are
// not Config fields are rejected.
func DecodeConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg.Sanitize(), nil
}

func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := DecodeConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// EncodeConfig renders cfg as TOML.
func EncodeConfig(cfg Config) ([]byte, error) {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return data, nil
}
