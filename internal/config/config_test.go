package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	os.Clearenv()
	cfg := Load()

	assert.Equal(t, ModeRun, cfg.Mode)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 2000, cfg.FloorArea)
	assert.Equal(t, 8, cfg.SpotLength)
	assert.Equal(t, 12, cfg.SpotWidth)
	assert.Equal(t, []string{"ABC1234", "XYZ5678", "DEF9876", "GHI6543", "BCM3628"}, cfg.Plates)
	assert.Zero(t, cfg.Seed)
	assert.Equal(t, "parking_map.json", cfg.OutputPath)
	assert.False(t, cfg.UploadEnabled())
	assert.Equal(t, "parking_map.json", cfg.S3Key)
	assert.Equal(t, uint(3), cfg.UploadMaxTries)
	assert.Equal(t, 500*time.Millisecond, cfg.UploadRetryPeriod)
	assert.Equal(t, "parking-allocator", cfg.OTelServiceName)
	assert.Equal(t, "http://localhost:4318", cfg.OTelEndpoint)
	assert.True(t, cfg.OTelDisabled)
	assert.Equal(t, "development", cfg.Environment)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PARKING_MODE", "serve")
	t.Setenv("PARKING_FLOOR_AREA", "192")
	t.Setenv("PARKING_PLATES", " AAA111 , ,BBB222,")
	t.Setenv("PARKING_SEED", "99")
	t.Setenv("PARKING_S3_BUCKET", "lots")
	t.Setenv("PARKING_UPLOAD_RETRY_INTERVAL", "2s")
	t.Setenv("OTEL_SDK_DISABLED", "true")

	cfg := Load()

	assert.Equal(t, ModeServe, cfg.Mode)
	assert.Equal(t, 192, cfg.FloorArea)
	assert.Equal(t, []string{"AAA111", "BBB222"}, cfg.Plates)
	assert.Equal(t, uint64(99), cfg.Seed)
	assert.True(t, cfg.UploadEnabled())
	assert.Equal(t, 2*time.Second, cfg.UploadRetryPeriod)
	assert.True(t, cfg.OTelDisabled)
}

func TestEmptyPlateListIsKept(t *testing.T) {
	t.Setenv("PARKING_PLATES", "")

	assert.Empty(t, Load().Plates)
}

func TestInvalidValuesFallBackToDefault(t *testing.T) {
	t.Setenv("PARKING_FLOOR_AREA", "lots")
	t.Setenv("PARKING_SEED", "-1")
	t.Setenv("OTEL_SDK_DISABLED", "maybe")
	t.Setenv("PARKING_UPLOAD_RETRY_INTERVAL", "soon")
	t.Setenv("PARKING_UPLOAD_MAX_TRIES", "-1")

	cfg := Load()

	assert.Equal(t, 2000, cfg.FloorArea)
	assert.Zero(t, cfg.Seed)
	assert.True(t, cfg.OTelDisabled)
	assert.Equal(t, 500*time.Millisecond, cfg.UploadRetryPeriod)
	assert.Equal(t, uint(3), cfg.UploadMaxTries)
}

func TestUploadMaxTriesFromEnv(t *testing.T) {
	t.Setenv("PARKING_UPLOAD_MAX_TRIES", "5")
	assert.Equal(t, uint(5), Load().UploadMaxTries)

	t.Setenv("PARKING_UPLOAD_MAX_TRIES", "2.5")
	assert.Equal(t, uint(3), Load().UploadMaxTries)
}

func TestTelemetryDefaultFollowsMode(t *testing.T) {
	tests := []struct {
		name     string
		mode     string
		disabled string
		want     bool
	}{
		{name: "run defaults to off", mode: ModeRun, want: true},
		{name: "serve defaults to on", mode: ModeServe, want: false},
		{name: "run enabled explicitly", mode: ModeRun, disabled: "false", want: false},
		{name: "serve disabled explicitly", mode: ModeServe, disabled: "true", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			t.Setenv("PARKING_MODE", tt.mode)
			if tt.disabled != "" {
				t.Setenv("OTEL_SDK_DISABLED", tt.disabled)
			}

			assert.Equal(t, tt.want, Load().OTelDisabled)
		})
	}
}
