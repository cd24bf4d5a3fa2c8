// file: blob/blob_test.go
package blob

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/s3/s3manager/s3manageriface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectPath(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	p := ObjectPath("/logos/", ".PNG", now)
	assert.Regexp(t, regexp.MustCompile(`^logos/1700000000123_[0-9a-f-]{36}\.png$`), p)

	assert.NotEqual(t, p, ObjectPath("logos", ".png", now), "names are unique even in the same millisecond")
	for _, ext := range []string{"", ".", "png", ".html/../x", ".toolongextension"} {
		assert.Regexp(t, `^1700000000123_[0-9a-f-]{36}$`, ObjectPath("", ext, now), ext)
	}
}

func TestCleanKey(t *testing.T) {
	key, err := cleanKey("stall-bookings", "../../etc/passwd")
	require.NoError(t, err)
	assert.Equal(t, "stall-bookings/etc/passwd", key)

	_, err = cleanKey("../x", "a.png")
	assert.Error(t, err)
	_, err = cleanKey("b", "/")
	assert.Error(t, err)
}

func TestLocalStore_Upload(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalStore(dir, "http://localhost:8080")

	url, err := s.Upload(context.Background(), "stall-bookings", "logos/1_a.png", strings.NewReader("png-bytes"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/uploads/stall-bookings/logos/1_a.png", url)

	data, err := os.ReadFile(filepath.Join(dir, "stall-bookings", "logos", "1_a.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

type fakeUploader struct {
	s3manageriface.UploaderAPI
	input *s3manager.UploadInput
	body  string
	err   error
}

func (f *fakeUploader) UploadWithContext(_ aws.Context, in *s3manager.UploadInput, _ ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error) {
	f.input = in
	b, _ := io.ReadAll(in.Body)
	f.body = string(b)
	if f.err != nil {
		return nil, f.err
	}
	return &s3manager.UploadOutput{Location: "ignored"}, nil
}

func TestS3Store_Upload(t *testing.T) {
	up := &fakeUploader{}
	s := newS3Store(up, "ff-assets", "ap-south-1", "")

	url, err := s.Upload(context.Background(), "award-nominations", "payments/9_b.pdf", strings.NewReader("pdf"), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "https://ff-assets.s3.ap-south-1.amazonaws.com/award-nominations/payments/9_b.pdf", url)
	assert.Equal(t, "ff-assets", aws.StringValue(up.input.Bucket))
	assert.Equal(t, "award-nominations/payments/9_b.pdf", aws.StringValue(up.input.Key))
	assert.Equal(t, "application/pdf", aws.StringValue(up.input.ContentType))
	assert.Equal(t, "pdf", up.body)

	cdn := newS3Store(up, "ff-assets", "ap-south-1", "https://cdn.example.com/")
	url, err = cdn.Upload(context.Background(), "stall-bookings", "logos/x.png", strings.NewReader(""), "")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/stall-bookings/logos/x.png", url)

	up.err = errors.New("access denied")
	_, err = s.Upload(context.Background(), "stall-bookings", "logos/y.png", strings.NewReader(""), "")
	assert.Error(t, err)
}
