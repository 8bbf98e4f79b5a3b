package upload

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path"
	"regexp"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meusugar/server/internal/apperr"
	"github.com/meusugar/server/internal/config"
	"github.com/meusugar/server/internal/logging"
)

func TestClassify(t *testing.T) {
	ft, err := Classify("image/PNG", MaxImageSize)
	require.NoError(t, err)
	assert.Equal(t, FileImage, ft)

	ft, err = Classify("video/mp4", MaxVideoSize)
	require.NoError(t, err)
	assert.Equal(t, FileVideo, ft)

	_, err = Classify("image/jpeg", MaxImageSize+1)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	_, err = Classify("video/webm", MaxVideoSize+1)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	_, err = Classify("application/pdf", 10)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

type memStore struct {
	key, contentType string
	data             []byte
	err              error
}

func (m *memStore) Put(_ context.Context, key, contentType string, body io.Reader, _ int64) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.key, m.contentType = key, contentType
	m.data, _ = io.ReadAll(body)
	return "https://cdn.example/" + key, nil
}

var keyPattern = regexp.MustCompile(`^1767225600000-[0-9a-f]{13}\.(png|mp4)$`)

func TestRelay_Upload(t *testing.T) {
	store := &memStore{}
	r := NewRelay(store, logging.Discard())
	r.now = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }

	res, err := r.Upload(context.Background(), File{Name: "foto.PNG", ContentType: "image/png", Size: 3, Body: bytes.NewReader([]byte("abc"))})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, FileImage, res.FileType)
	assert.Regexp(t, keyPattern, res.FileName)
	assert.Equal(t, "https://cdn.example/"+res.FileName, res.URL)
	assert.Equal(t, []byte("abc"), store.data)

	res, err = r.Upload(context.Background(), File{Name: "clip", ContentType: "video/mp4", Size: 1, Body: bytes.NewReader([]byte("x"))})
	require.NoError(t, err)
	assert.Regexp(t, keyPattern, res.FileName, "extension from content type")
}

func TestRelay_ExtensionFollowsContentType(t *testing.T) {
	r := NewRelay(&memStore{}, logging.Discard())
	cases := []struct{ name, contentType, ext string }{
		{"x.html", "image/png", ".png"},
		{"payload.svg", "image/JPEG", ".jpg"},
		{"movie.mp4", "video/quicktime", ".mov"},
		{"noext", "video/x-msvideo", ".avi"},
	}
	for _, c := range cases {
		res, err := r.Upload(context.Background(), File{Name: c.name, ContentType: c.contentType, Size: 1, Body: bytes.NewReader([]byte("x"))})
		require.NoError(t, err, c.name)
		assert.Equal(t, c.ext, path.Ext(res.FileName), c.name)
	}
}

func TestRelay_Errors(t *testing.T) {
	_, err := NewRelay(nil, logging.Discard()).Upload(context.Background(), File{ContentType: "image/png"})
	assert.Equal(t, apperr.KindUnavailable, apperr.KindOf(err))

	r := NewRelay(&memStore{err: errors.New("bucket missing")}, logging.Discard())
	_, err = r.Upload(context.Background(), File{Name: "a.png", ContentType: "image/png", Size: 1, Body: bytes.NewReader(nil)})
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "bucket missing")

	_, err = r.Upload(context.Background(), File{Name: "a.exe", ContentType: "application/octet-stream", Size: 1})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestS3Store_Put(t *testing.T) {
	origPut := putObject
	defer func() { putObject = origPut }()

	var got *s3.PutObjectInput
	putObject = func(_ *s3.Client, _ context.Context, in *s3.PutObjectInput) error {
		got = in
		return nil
	}

	store, err := NewS3Store(context.Background(), config.S3Config{
		Bucket:    "uploads",
		Region:    "us-east-1",
		Endpoint:  "http://minio:9000/",
		AccessKey: "ak",
		SecretKey: "sk",
	})
	require.NoError(t, err)

	url, err := store.Put(context.Background(), "1-abc.png", "image/png", bytes.NewReader([]byte("x")), 1)
	require.NoError(t, err)
	assert.Equal(t, "http://minio:9000/uploads/1-abc.png", url)
	require.NotNil(t, got)
	assert.Equal(t, "uploads", aws.ToString(got.Bucket))
	assert.Equal(t, "1-abc.png", aws.ToString(got.Key))
	assert.Equal(t, "image/png", aws.ToString(got.ContentType))

	putObject = func(*s3.Client, context.Context, *s3.PutObjectInput) error { return errors.New("denied") }
	_, err = store.Put(context.Background(), "k", "image/png", bytes.NewReader(nil), 0)
	assert.ErrorContains(t, err, "denied")
}

func TestNewS3Store_PublicURL(t *testing.T) {
	store, err := NewS3Store(context.Background(), config.S3Config{
		Bucket: "uploads", Region: "us-east-1", Endpoint: "http://minio:9000",
		AccessKey: "ak", SecretKey: "sk", PublicURL: "https://cdn.meusugar.com/",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.meusugar.com", store.publicURL)
}
