// Package upload validates admin media uploads and relays them to object storage.
package upload

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/meusugar/server/internal/apperr"
	"github.com/meusugar/server/internal/logging"
)

const (
	MaxImageSize int64 = 10 << 20
	MaxVideoSize int64 = 50 << 20
)

// FileType is the media class of an upload.
type FileType string

const (
	FileImage FileType = "image"
	FileVideo FileType = "video"
)

var (
	imageTypes = map[string]string{
		"image/jpeg": "jpg",
		"image/jpg":  "jpg",
		"image/png":  "png",
		"image/gif":  "gif",
		"image/webp": "webp",
	}
	videoTypes = map[string]string{
		"video/mp4":       "mp4",
		"video/webm":      "webm",
		"video/quicktime": "mov",
		"video/x-msvideo": "avi",
	}
)

// Classify checks the content type and size of an upload.
func Classify(contentType string, size int64) (FileType, error) {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if _, ok := imageTypes[ct]; ok {
		if size > MaxImageSize {
			return "", apperr.Validation("file too large, images are limited to 10MB")
		}
		return FileImage, nil
	}
	if _, ok := videoTypes[ct]; ok {
		if size > MaxVideoSize {
			return "", apperr.Validation("file too large, videos are limited to 50MB")
		}
		return FileVideo, nil
	}
	return "", apperr.Validation("invalid file type, use JPG, PNG, GIF or WEBP images or MP4, WEBM, MOV or AVI videos")
}

// ObjectStore stores an object and returns its public URL.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
}

// File is an upload received from a client.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Result describes a stored upload.
type Result struct {
	Success  bool     `json:"success"`
	URL      string   `json:"url"`
	FileName string   `json:"fileName"`
	FileType FileType `json:"fileType"`
}

// Relay forwards validated uploads to an ObjectStore. A nil store means
// uploads are not configured.
type Relay struct {
	store ObjectStore
	log   logging.Logger
	now   func() time.Time
}

func NewRelay(store ObjectStore, log logging.Logger) *Relay {
	return &Relay{store: store, log: log, now: time.Now}
}

func (r *Relay) Configured() bool {
	return r.store != nil
}

func (r *Relay) Upload(ctx context.Context, f File) (Result, error) {
	if r.store == nil {
		return Result{}, apperr.Unavailable("upload storage not configured", nil)
	}
	ft, err := Classify(f.ContentType, f.Size)
	if err != nil {
		return Result{}, err
	}

	key := r.objectKey(f.ContentType)
	url, err := r.store.Put(ctx, key, strings.ToLower(f.ContentType), f.Body, f.Size)
	if err != nil {
		return Result{}, apperr.Internal(fmt.Sprintf("upload failed: %v", err), err)
	}

	r.log.Info(ctx, "file uploaded", "key", key, "type", string(ft), "size", f.Size)
	return Result{Success: true, URL: url, FileName: key, FileType: ft}, nil
}

// objectKey is {unixMillis}-{random}.{ext}. The extension follows the validated
// content type, never the client file name.
func (r *Relay) objectKey(contentType string) string {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	ext, ok := imageTypes[ct]
	if !ok {
		ext = videoTypes[ct]
	}
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:13]
	return fmt.Sprintf("%d-%s.%s", r.now().UnixMilli(), random, ext)
}
