// Package blob streams uploaded files to S3 and enforces the upload
// allow-list before any I/O.
package blob

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/abcretail/backoffice/internal/aws"
)

// StoredObject describes a blob after a successful upload.
type StoredObject struct {
	Key string
	URL string
}

// Uploader writes objects into one bucket.
type Uploader struct {
	client aws.S3API
	bucket string
}

// NewUploader returns an Uploader bound to a bucket.
func NewUploader(client aws.S3API, bucket string) *Uploader {
	return &Uploader{
		client: client,
		bucket: bucket,
	}
}

// Upload streams body into the bucket under a collision-free key derived from
// the original file name. Callers are expected to have validated the file first.
func (u *Uploader) Upload(ctx context.Context, filename, contentType string, body io.Reader, size int64) (*StoredObject, error) {
	key := fmt.Sprintf("%s_%s", uuid.NewString(), filepath.Base(filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        &u.bucket,
		Key:           &key,
		Body:          body,
		ContentType:   &contentType,
		ContentLength: &size,
	})
	if err != nil {
		return nil, fmt.Errorf("put object %s/%s: %w", u.bucket, key, err)
	}

	return &StoredObject{
		Key: key,
		URL: fmt.Sprintf("https://%s.s3.amazonaws.com/%s", u.bucket, key),
	}, nil
}
