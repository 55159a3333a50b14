package sim

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/particleart/particles"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, particles.Heart, cfg.Model)
	assert.Equal(t, particles.EffectNone, cfg.Effect)
	assert.Equal(t, 15000, cfg.ParticleCount)
	assert.Equal(t, cfg, cfg.Sanitize())
	assert.InDelta(t, 0x99/255.0, cfg.RGB().Y(), 1e-6)
}

func TestConfig_SanitizeClamps(t *testing.T) {
	cfg := Config{
		Model:                  particles.ShapeKind(42),
		Effect:                 particles.EffectKind(-1),
		Color:                  "blue",
		ParticleCount:          -10,
		ParticleSize:           math32.NaN(),
		Speed:                  9,
		Noise:                  -1,
		Opacity:                0,
		InteractionSensitivity: 99,
	}.Sanitize()

	def := DefaultConfig()
	assert.Equal(t, def.Model, cfg.Model)
	assert.Equal(t, def.Effect, cfg.Effect)
	assert.Equal(t, DefaultColor, cfg.Color)
	assert.Equal(t, 0, cfg.ParticleCount)
	assert.Equal(t, def.ParticleSize, cfg.ParticleSize)
	assert.Equal(t, float32(MaxSpeed), cfg.Speed)
	assert.Equal(t, float32(0), cfg.Noise)
	assert.Equal(t, float32(MinOpacity), cfg.Opacity)
	assert.Equal(t, MaxSensitivity, cfg.InteractionSensitivity)
	assert.Equal(t, DefaultCountdownMessage, cfg.CountdownMessage)

	assert.Equal(t, MaxParticleCount, Config{ParticleCount: 1 << 20}.Sanitize().ParticleCount)
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#ff8000")
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec3{1, 128.0 / 255, 0}, c)

	short, err := ParseColor("#fff")
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, short)

	_, err = ParseColor("#12345")
	assert.Error(t, err)
	_, err = ParseColor("#gggggg")
	assert.Error(t, err)
}

func TestDecodeConfig(t *testing.T) {
	cfg, err := DecodeConfig([]byte(`
model = "Saturn"
effect = "snow"
color = "#fff"
particle_count = 80000
speed = -3.0
countdown_message = "GO"
`))
	require.NoError(t, err)
	assert.Equal(t, particles.Saturn, cfg.Model)
	assert.Equal(t, particles.EffectSnow, cfg.Effect)
	assert.Equal(t, "#fff", cfg.Color)
	assert.Equal(t, MaxParticleCount, cfg.ParticleCount)
	assert.Equal(t, float32(0), cfg.Speed)
	assert.Equal(t, "GO", cfg.CountdownMessage)
	assert.Equal(t, DefaultConfig().Opacity, cfg.Opacity)

	_, err = DecodeConfig([]byte(`gravity = 9.8`))
	assert.Error(t, err, "unknown keys are rejected")

	_, err = DecodeConfig([]byte(`model = "cube"`))
	assert.Error(t, err)
}

func TestLoadConfig_RoundTrip(t *testing.T) {
	want := DefaultConfig()
	want.Model = particles.DNA
	want.Effect = particles.EffectInk
	want.ParticleSize = 0.12

	data, err := EncodeConfig(want)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "particles.toml")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	got, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
