// Package blobstore stores document contents by object key. Metadata lives
// in Postgres; only bytes live here.
package blobstore

import (
	"context"
	"errors"
	"io"
)

var (
	ErrBlobNotFound       = errors.New("blob not found")
	ErrFileTooLarge       = errors.New("file exceeds maximum allowed size")
	ErrInvalidContentType = errors.New("content type is not allowed")
)

// MaxFileSize is the maximum accepted document size (25 MB).
const MaxFileSize = 25 * 1024 * 1024

// AllowedContentTypes lists the document MIME types accepted for upload.
var AllowedContentTypes = map[string]bool{
	"application/pdf":    true,
	"image/png":          true,
	"image/jpeg":         true,
	"image/dicom":        true,
	"application/dicom":  true,
	"text/plain":         true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// Object describes stored content returned by Get.
type Object struct {
	Key         string
	ContentType string
	Size        int64
}

// BlobStore is the contract for document content backends.
type BlobStore interface {
	// Put stores size bytes from r under key.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	// Get opens the content stored under key. The caller closes the reader.
	Get(ctx context.Context, key string) (io.ReadCloser, *Object, error)
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// CheckUpload validates an upload before any bytes are stored.
func CheckUpload(contentType string, size int64) error {
	if !AllowedContentTypes[contentType] {
		return ErrInvalidContentType
	}
	if size > MaxFileSize {
		return ErrFileTooLarge
	}
	return nil
}
