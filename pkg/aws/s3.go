package aws

import (
	"context"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// NewS3Client creates a new S3 client from AWS config. Path-style addressing
// is forced when a custom endpoint is configured (LocalStack has no virtual hosts).
func NewS3Client(cfg sdkaws.Config) *s3.Client {
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if Endpoint() != "" {
			o.UsePathStyle = true
		}
	})
}

// ObjectGetter reads a whole object into memory.
type ObjectGetter interface {
	GetObjectBytes(ctx context.Context, bucket, key string) ([]byte, error)
}

// ObjectDownloader fetches objects with the S3 transfer manager, which splits
// large objects into concurrent ranged GETs.
type ObjectDownloader struct {
	downloader *manager.Downloader
}

// NewObjectDownloader wraps an S3 client in a transfer-manager downloader.
func NewObjectDownloader(client manager.DownloadAPIClient) *ObjectDownloader {
	return &ObjectDownloader{
		downloader: manager.NewDownloader(client, func(d *manager.Downloader) {
			d.PartSize = 8 * 1024 * 1024
		}),
	}
}

// GetObjectBytes downloads bucket/key and returns its content.
func (d *ObjectDownloader) GetObjectBytes(ctx context.Context, bucket, key string) ([]byte, error) {
	buf := manager.NewWriteAtBuffer(nil)
	_, err := d.downloader.Download(ctx, buf, &s3.GetObjectInput{
		Bucket: sdkaws.String(bucket),
		Key:    sdkaws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 download s3://%s/%s failed: %w", bucket, key, err)
	}
	return buf.Bytes(), nil
}
