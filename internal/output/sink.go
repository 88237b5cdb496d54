// Package output writes rendered persona documents to a local path or an
// S3 object.
package output

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/cognicore/persona/pkg/persona/internalerr"
)

const s3Scheme = "s3://"

// ObjectPutter is the slice of the S3 client used for uploads.
type ObjectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Sink delivers document bodies. The S3 client is created on first use
// unless one is supplied.
type Sink struct {
	S3 ObjectPutter
}

// Write stores body at dest using a default Sink.
func Write(ctx context.Context, dest, body string) error {
	return (&Sink{}).Write(ctx, dest, body)
}

// Write stores body at dest. Destinations of the form s3://bucket/key are
// uploaded; anything else is a local file whose parent directories are
// created as needed.
func (s *Sink) Write(ctx context.Context, dest, body string) error {
	if strings.TrimSpace(dest) == "" {
		return fmt.Errorf("%w: empty output destination", internalerr.ErrInvalidInput)
	}
	if !IsS3(dest) {
		return writeFile(dest, body)
	}

	bucket, key, err := ParseS3(dest)
	if err != nil {
		return err
	}
	if s.S3 == nil {
		awsCfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			return fmt.Errorf("unable to load SDK config: %w", err)
		}
		s.S3 = s3.NewFromConfig(awsCfg)
	}

	_, err = s.S3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        strings.NewReader(body),
		ContentType: aws.String("text/plain; charset=utf-8"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload object to S3: %w", err)
	}
	return nil
}

// IsS3 reports whether dest names an S3 object.
func IsS3(dest string) bool {
	return strings.HasPrefix(dest, s3Scheme)
}

// ParseS3 splits s3://bucket/key.
func ParseS3(dest string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(dest, s3Scheme)
	if !ok {
		return "", "", fmt.Errorf("%w: %q is not an s3 URL", internalerr.ErrInvalidInput, dest)
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" || strings.HasSuffix(key, "/") {
		return "", "", fmt.Errorf("%w: %q needs both bucket and object key", internalerr.ErrInvalidInput, dest)
	}
	return bucket, key, nil
}

func writeFile(path, body string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
