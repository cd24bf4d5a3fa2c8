// file: blob/s3.go
package blob

import (
	"context"
	"fmt"
	"io"
	"strings"

	"founders-fest/logger"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/s3/s3manager/s3manageriface"
)

// S3Store keeps every logical bucket as a key prefix inside one S3 bucket.
type S3Store struct {
	uploader      s3manageriface.UploaderAPI
	bucket        string
	publicBaseURL string
}

// NewS3Store uploads through sess into bucket. publicBaseURL overrides the
// default virtual-hosted URL, e.g. for a CDN in front of the bucket.
func NewS3Store(sess *session.Session, bucket, publicBaseURL string) *S3Store {
	return newS3Store(s3manager.NewUploader(sess), bucket, aws.StringValue(sess.Config.Region), publicBaseURL)
}

func newS3Store(u s3manageriface.UploaderAPI, bucket, region, publicBaseURL string) *S3Store {
	base := strings.TrimRight(publicBaseURL, "/")
	if base == "" {
		base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}
	return &S3Store{uploader: u, bucket: bucket, publicBaseURL: base}
}

// Upload streams r to s3://<bucket>/<logical bucket>/<objectPath>.
func (s *S3Store) Upload(ctx context.Context, bucket, objectPath string, r io.Reader, contentType string) (string, error) {
	key, err := cleanKey(bucket, objectPath)
	if err != nil {
		return "", err
	}
	input := &s3manager.UploadInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   r,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.uploader.UploadWithContext(ctx, input); err != nil {
		logger.Error.Printf("[blob.S3] Upload %s failed: %v", key, err)
		return "", fmt.Errorf("s3 upload %s: %w", key, err)
	}
	logger.Debug.Printf("[blob.S3] Uploaded s3://%s/%s", s.bucket, key)
	return s.publicBaseURL + "/" + key, nil
}
