package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	ModeRun   = "run"
	ModeServe = "serve"
)

var defaultPlates = []string{"ABC1234", "XYZ5678", "DEF9876", "GHI6543", "BCM3628"}

type Config struct {
	Mode string
	Port string

	FloorArea  int
	SpotLength int
	SpotWidth  int
	Plates     []string
	// Seed fixes the spot selection sequence; zero means pick one at random.
	Seed uint64

	OutputPath string

	S3Bucket          string
	S3Key             string
	S3Region          string
	S3Endpoint        string
	AWSAccessKeyID    string
	AWSSecretKey      string
	UploadMaxTries    uint
	UploadRetryPeriod time.Duration

	OTelServiceName string
	OTelEndpoint    string
	OTelDisabled    bool
	Environment     string
}

// Load reads the configuration from the environment. Telemetry export is off
// by default for a one-shot run and on by default when serving.
func Load() *Config {
	mode := envOr("PARKING_MODE", ModeRun)
	return &Config{
		Mode:              mode,
		Port:              envOr("APP_PORT", "8080"),
		FloorArea:         envOrInt("PARKING_FLOOR_AREA", 2000),
		SpotLength:        envOrInt("PARKING_SPOT_LENGTH", 8),
		SpotWidth:         envOrInt("PARKING_SPOT_WIDTH", 12),
		Plates:            envOrList("PARKING_PLATES", defaultPlates),
		Seed:              envOrUint64("PARKING_SEED", 0),
		OutputPath:        envOr("PARKING_OUTPUT_PATH", "parking_map.json"),
		S3Bucket:          os.Getenv("PARKING_S3_BUCKET"),
		S3Key:             envOr("PARKING_S3_KEY", "parking_map.json"),
		S3Region:          envOr("AWS_REGION", "us-east-1"),
		S3Endpoint:        os.Getenv("PARKING_S3_ENDPOINT"),
		AWSAccessKeyID:    os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretKey:      os.Getenv("AWS_SECRET_ACCESS_KEY"),
		UploadMaxTries:    envOrUint("PARKING_UPLOAD_MAX_TRIES", 3),
		UploadRetryPeriod: envOrDuration("PARKING_UPLOAD_RETRY_INTERVAL", 500*time.Millisecond),
		OTelServiceName:   envOr("OTEL_SERVICE_NAME", "parking-allocator"),
		OTelEndpoint:      envOr("OTEL_EXPORTER_OTLP_ENDPOINT", "http://localhost:4318"),
		OTelDisabled:      envOrBool("OTEL_SDK_DISABLED", mode == ModeRun),
		Environment:       envOr("SCOUT_ENVIRONMENT", "development"),
	}
}

// UploadEnabled reports whether a remote bucket is configured.
func (c *Config) UploadEnabled() bool {
	return c.S3Bucket != ""
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func envOrInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envOrUint(key string, fallback uint) uint {
	if v, ok := os.LookupEnv(key); ok {
		if u, err := strconv.ParseUint(v, 10, 0); err == nil {
			return uint(u)
		}
	}
	return fallback
}

func envOrUint64(key string, fallback uint64) uint64 {
	if v, ok := os.LookupEnv(key); ok {
		if u, err := strconv.ParseUint(v, 10, 64); err == nil {
			return u
		}
	}
	return fallback
}

func envOrBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envOrDuration(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// envOrList splits a comma separated value, dropping blank entries. A set
// but empty variable yields an empty list.
func envOrList(key string, fallback []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok {
		return append([]string(nil), fallback...)
	}

	items := []string{}
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
