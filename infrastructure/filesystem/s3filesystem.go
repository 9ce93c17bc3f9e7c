package filesystem

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type S3FileSystem struct {
	client *s3.Client
	bucket string
}

func NewS3FileSystem(ctx context.Context, bucket string) (*S3FileSystem, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &S3FileSystem{client: s3.NewFromConfig(cfg), bucket: bucket}, nil
}

// ReadFile copies the object to outStream. A missing key wraps fs.ErrNotExist.
func (f *S3FileSystem) ReadFile(ctx context.Context, key string, outStream io.Writer) error {
	resp, err := f.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return fmt.Errorf("object %s in bucket %s: %w", key, f.bucket, fs.ErrNotExist)
		}
		return fmt.Errorf("failed to get object %s from bucket %s: %w", key, f.bucket, err)
	}
	defer resp.Body.Close()

	if _, err := io.Copy(outStream, resp.Body); err != nil {
		return fmt.Errorf("failed to copy object %s from bucket %s: %w", key, f.bucket, err)
	}
	return nil
}

func (f *S3FileSystem) WriteFile(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := f.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(f.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to put object %s to bucket %s: %w", key, f.bucket, err)
	}
	return nil
}

// ListFiles returns the keys under prefix.
func (f *S3FileSystem) ListFiles(ctx context.Context, prefix string) ([]string, error) {
	var keys []string

	paginator := s3.NewListObjectsV2Paginator(f.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(f.bucket),
		Prefix: aws.String(prefix),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects in bucket %s: %w", f.bucket, err)
		}

		for _, obj := range page.Contents {
			if obj.Key != nil {
				keys = append(keys, *obj.Key)
			}
		}
	}

	return keys, nil
}

// Blob binds a key so the object can back a JSON collection.
func (f *S3FileSystem) Blob(prefix, name string) *S3Blob {
	return &S3Blob{fs: f, key: path.Join(prefix, name)}
}

type S3Blob struct {
	fs  *S3FileSystem
	key string
}

func (b *S3Blob) Read(ctx context.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := b.fs.ReadFile(ctx, b.key, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (b *S3Blob) Write(ctx context.Context, data []byte) error {
	return b.fs.WriteFile(ctx, b.key, data, "application/json")
}

func (b *S3Blob) Name() string {
	return "s3://" + b.fs.bucket + "/" + b.key
}
