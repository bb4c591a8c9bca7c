package storyboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gofrs/flock"
)

// Sink stores generated files and reports where they ended up.
type Sink interface {
	Put(ctx context.Context, name string, r io.Reader) (string, error)
}

// Locker is implemented by sinks that must not be written by two renders at
// once.
type Locker interface {
	Lock(ctx context.Context) (unlock func(), err error)
}

// ErrLocked is returned when another render holds the output lock.
var ErrLocked = errors.New("storyboard: output location is locked by another render")

const lockName = ".render.lock"

// DirSink writes into a local directory, creating it when missing.
type DirSink struct {
	dir         string
	lockTimeout time.Duration
}

// NewDirSink returns a sink for dir.
func NewDirSink(dir string) *DirSink {
	return &DirSink{dir: dir, lockTimeout: 5 * time.Second}
}

func (d *DirSink) Dir() string { return d.dir }

func (d *DirSink) Put(_ context.Context, name string, r io.Reader) (string, error) {
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return "", fmt.Errorf("storyboard.DirSink.Put: %w", err)
	}
	target := filepath.Join(d.dir, name)
	tmp, err := os.CreateTemp(d.dir, "."+name+".*")
	if err != nil {
		return "", fmt.Errorf("storyboard.DirSink.Put: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("storyboard.DirSink.Put: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("storyboard.DirSink.Put: close: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return "", fmt.Errorf("storyboard.DirSink.Put: rename: %w", err)
	}
	return target, nil
}

// Lock takes an exclusive file lock inside the directory.
func (d *DirSink) Lock(ctx context.Context) (func(), error) {
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return nil, fmt.Errorf("storyboard.DirSink.Lock: %w", err)
	}
	lock := flock.New(filepath.Join(d.dir, lockName))

	lockCtx, cancel := context.WithTimeout(ctx, d.lockTimeout)
	defer cancel()
	ok, err := lock.TryLockContext(lockCtx, 100*time.Millisecond)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return nil, fmt.Errorf("storyboard.DirSink.Lock: %w", err)
	}
	if !ok {
		return nil, ErrLocked
	}
	return func() { _ = lock.Unlock() }, nil
}

// S3API is the part of the S3 client used by S3Sink.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Sink uploads into a bucket under an optional key prefix.
type S3Sink struct {
	client S3API
	bucket string
	prefix string
}

// NewS3Sink returns a sink writing to bucket.
func NewS3Sink(client S3API, bucket, prefix string) (*S3Sink, error) {
	if bucket == "" {
		return nil, errors.New("storyboard.NewS3Sink: bucket is required")
	}
	return &S3Sink{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}, nil
}

func (s *S3Sink) Put(ctx context.Context, name string, r io.Reader) (string, error) {
	key := path.Join(s.prefix, name)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(contentType(name)),
	})
	if err != nil {
		return "", fmt.Errorf("storyboard.S3Sink.Put: %w", err)
	}
	return "s3://" + s.bucket + "/" + key, nil
}

func contentType(name string) string {
	switch filepath.Ext(name) {
	case ".json":
		return "application/json"
	case ".mp4":
		return "video/mp4"
	default:
		return "application/octet-stream"
	}
}

// S3Config holds the connection settings of an S3 compatible store.
type S3Config struct {
	Endpoint     string
	Region       string
	AccessKey    string
	SecretKey    string //nolint:gosec // credential config
	UsePathStyle bool
}

// NewS3Client builds a client for AWS or any S3 compatible service such as
// MinIO. An empty endpoint uses the AWS default resolution; empty keys fall
// back to the default credential chain.
func NewS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storyboard.NewS3Client: load config: %w", err)
	}

	var endpoint *string
	if cfg.Endpoint != "" {
		if _, err := url.ParseRequestURI(cfg.Endpoint); err != nil {
			return nil, fmt.Errorf("storyboard.NewS3Client: invalid endpoint: %w", err)
		}
		endpoint = aws.String(cfg.Endpoint)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if endpoint != nil {
			o.BaseEndpoint = endpoint
		}
	}), nil
}
