package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	content := `
data_dir = "/tmp/hf"
log_level = "debug"

[server]
addr = "127.0.0.1:9000"

[camera]
device_id = 2

[tracking]
fps = 30
record = false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/hf", cfg.DataDir)
	assert.Equal(t, "/tmp/hf/handframe.db", cfg.DBPath())
	assert.Equal(t, log.DebugLevel, cfg.Level())
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, 2, cfg.Camera.DeviceID)
	assert.Equal(t, 30, cfg.Tracking.FPS)
	assert.False(t, cfg.Tracking.Record)

	// untouched sections keep their defaults
	assert.Equal(t, Default().Detector, cfg.Detector)
	assert.Equal(t, Default().Camera.Width, cfg.Camera.Width)
	assert.Equal(t, Default().Tracking.KeepFrames, cfg.Tracking.KeepFrames)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed", "fps = = 3"},
		{"bad level", `log_level = "loud"`},
		{"zero fps", "[tracking]\nfps = 0"},
		{"confidence out of range", "[detector]\nmin_confidence = 1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), FileName)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0600))

			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)
	cfg := Default()
	cfg.Tray = true
	cfg.Tracking.KeepFrames = 42

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
