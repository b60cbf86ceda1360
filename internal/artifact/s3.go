package artifact

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/cenkalti/backoff/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"parking-allocator/internal/logging"
)

var tracer = otel.Tracer("parking-allocator-artifact")

// PutObjectAPI is the part of the S3 client the uploader needs.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Config struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	// Endpoint points the client at an S3-compatible store instead of AWS.
	Endpoint string

	MaxTries        uint
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

type S3Uploader struct {
	client          PutObjectAPI
	maxTries        uint
	initialInterval time.Duration
	maxInterval     time.Duration
}

func NewS3Uploader(ctx context.Context, cfg S3Config) (*S3Uploader, error) {
	opts := []func(*awsconfig.LoadOptions) error{}
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return NewS3UploaderWithClient(client, cfg), nil
}

func NewS3UploaderWithClient(client PutObjectAPI, cfg S3Config) *S3Uploader {
	u := &S3Uploader{
		client:          client,
		maxTries:        cfg.MaxTries,
		initialInterval: cfg.InitialInterval,
		maxInterval:     cfg.MaxInterval,
	}
	if u.maxTries == 0 {
		u.maxTries = 3
	}
	if u.initialInterval <= 0 {
		u.initialInterval = 500 * time.Millisecond
	}
	if u.maxInterval <= 0 {
		u.maxInterval = 5 * time.Second
	}
	return u
}

func (u *S3Uploader) Upload(ctx context.Context, localPath, bucket, key string) error {
	ctx, span := tracer.Start(ctx, "artifact.upload",
		trace.WithAttributes(
			attribute.String("s3.bucket", bucket),
			attribute.String("s3.key", key),
			attribute.String("file.path", localPath),
		))
	defer span.End()

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = u.initialInterval
	bo.MaxInterval = u.maxInterval

	var tries int
	_, err := backoff.Retry(ctx, func() (*s3.PutObjectOutput, error) {
		tries++
		out, err := u.putFile(ctx, localPath, bucket, key)
		if err != nil {
			logging.Debug(ctx, "Upload attempt failed", "attempt", tries, "error", err)
		}
		return out, err
	},
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(u.maxTries),
	)

	span.SetAttributes(attribute.Int("upload.attempts", tries))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("upload %s to %s/%s: %w", localPath, bucket, key, err)
	}

	logging.Info(ctx, fmt.Sprintf("File uploaded successfully to %s/%s", bucket, key),
		"bucket", bucket,
		"key", key,
	)
	return nil
}

func (u *S3Uploader) putFile(ctx context.Context, localPath, bucket, key string) (*s3.PutObjectOutput, error) {
	f, err := os.Open(localPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}
	defer f.Close()

	return u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String("application/json"),
	})
}
