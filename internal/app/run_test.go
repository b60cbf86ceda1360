package app

import (
	"context"
	"errors"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"parking-allocator/internal/config"
	"parking-allocator/internal/parking"
)

type fakeUploader struct {
	err   error
	calls int
	path  string
	body  []byte
}

func (f *fakeUploader) Upload(_ context.Context, localPath, bucket, key string) error {
	f.calls++
	f.path = localPath
	body, err := os.ReadFile(localPath)
	if err != nil {
		return err
	}
	f.body = body
	return f.err
}

func testConfig(t *testing.T, floorArea int, plates ...string) *config.Config {
	t.Helper()
	return &config.Config{
		FloorArea:  floorArea,
		SpotLength: 8,
		SpotWidth:  12,
		Plates:     plates,
		OutputPath: filepath.Join(t.TempDir(), "parking_map.json"),
		S3Key:      "parking_map.json",
	}
}

func newRunner(cfg *config.Config, uploader *fakeUploader) *Runner {
	r := &Runner{
		Config:    cfg,
		Telemetry: parking.NewNoopTelemetryProvider(),
		Rand:      rand.New(rand.NewPCG(1, 1)),
	}
	if uploader != nil {
		r.Uploader = uploader
	}
	return r
}

func readOutput(t *testing.T, report *Report) parking.Assignments {
	t.Helper()
	data, err := os.ReadFile(report.OutputPath)
	require.NoError(t, err)
	assert.Equal(t, report.Snapshot, data)
	parsed, err := parking.ParseAssignments(data)
	require.NoError(t, err)
	return parsed
}

func TestRunTwoSpotsThreeVehicles(t *testing.T) {
	report, err := newRunner(testConfig(t, 96*2, "A", "B", "C"), nil).Run(context.Background())
	require.NoError(t, err)

	parsed := readOutput(t, report)
	assert.Len(t, parsed, 2)
	assert.Len(t, report.Result.Unparked, 1)
	assert.NotEqual(t, parsed["A"], parsed["B"])
	assert.Equal(t, report.Result.Parked, parsed)
}

func TestRunLotSmallerThanOneSpot(t *testing.T) {
	report, err := newRunner(testConfig(t, 50, "A", "B"), nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "{}", string(report.Snapshot))
	assert.Empty(t, readOutput(t, report))
}

func TestRunWithoutVehicles(t *testing.T) {
	report, err := newRunner(testConfig(t, 96*5), nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "{}", string(report.Snapshot))
	assert.Zero(t, report.Result.Attempts)
}

func TestRunSingleVehicle(t *testing.T) {
	report, err := newRunner(testConfig(t, 96, "ABC1234"), nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "{\n  \"ABC1234\": 0\n}", string(report.Snapshot))
}

func TestRunOverwritesPreviousOutput(t *testing.T) {
	cfg := testConfig(t, 96, "ABC1234")
	require.NoError(t, os.WriteFile(cfg.OutputPath, []byte(`{"STALE": 9, "OLDER": 3}`), 0o644))

	report, err := newRunner(cfg, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, parking.Assignments{"ABC1234": 0}, readOutput(t, report))
}

func TestRunUploadsWhenBucketConfigured(t *testing.T) {
	cfg := testConfig(t, 96*3, "A", "B")
	cfg.S3Bucket = "lots"
	uploader := &fakeUploader{}

	report, err := newRunner(cfg, uploader).Run(context.Background())
	require.NoError(t, err)

	assert.True(t, report.Uploaded)
	assert.NoError(t, report.UploadErr)
	assert.Equal(t, 1, uploader.calls)
	assert.Equal(t, cfg.OutputPath, uploader.path)
	assert.Equal(t, report.Snapshot, uploader.body)
}

func TestRunSkipsUploadWithoutBucket(t *testing.T) {
	uploader := &fakeUploader{}

	report, err := newRunner(testConfig(t, 96, "A"), uploader).Run(context.Background())
	require.NoError(t, err)

	assert.False(t, report.Uploaded)
	assert.Zero(t, uploader.calls)
}

func TestRunUploadFailureIsNotFatal(t *testing.T) {
	cfg := testConfig(t, 96*2, "A")
	cfg.S3Bucket = "lots"
	denied := errors.New("access denied")

	report, err := newRunner(cfg, &fakeUploader{err: denied}).Run(context.Background())
	require.NoError(t, err)

	assert.False(t, report.Uploaded)
	assert.ErrorIs(t, report.UploadErr, denied)
	assert.Len(t, readOutput(t, report), 1, "local artifact must survive a failed upload")
}

func TestRunLocalWriteFailureIsFatal(t *testing.T) {
	cfg := testConfig(t, 96, "A")
	cfg.OutputPath = filepath.Join(t.TempDir(), "missing-dir", "parking_map.json")
	uploader := &fakeUploader{}
	cfg.S3Bucket = "lots"

	_, err := newRunner(cfg, uploader).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write parking map: ")
	assert.Zero(t, uploader.calls)
}

func TestRunInvalidSpotSize(t *testing.T) {
	cfg := testConfig(t, 96, "A")
	cfg.SpotWidth = 0

	_, err := newRunner(cfg, nil).Run(context.Background())
	assert.ErrorIs(t, err, parking.ErrInvalidSpotSize)
}

func TestFailRunMarksSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	_, span := tp.Tracer("test").Start(context.Background(), "allocation.run")

	cause := errors.New("marshal failed")
	err := failRun(span, "render snapshot", cause)
	span.End()

	assert.ErrorIs(t, err, cause)
	assert.EqualError(t, err, "render snapshot: marshal failed")

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Equal(t, "marshal failed", ended[0].Status().Description)
	require.Len(t, ended[0].Events(), 1)
	assert.Equal(t, "exception", ended[0].Events()[0].Name)
}
