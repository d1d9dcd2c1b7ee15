// Package storage wraps the Cloudinary SDK for member photo and
// document uploads.
package storage

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// ErrDisabled is returned when no CLOUDINARY_URL was configured.
var ErrDisabled = errors.New("file storage is not configured")

// Uploader pushes files to Cloudinary. A zero-value Uploader (nil
// client) is valid and rejects every upload with ErrDisabled, so the
// rest of the app never has to nil-check.
type Uploader struct {
	cld *cloudinary.Cloudinary
}

// NewUploader builds an Uploader from a cloudinary:// URL. An empty URL
// yields a disabled uploader and no error.
func NewUploader(url string) (*Uploader, error) {
	if url == "" {
		return &Uploader{}, nil
	}
	cld, err := cloudinary.NewFromURL(url)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %w", err)
	}
	return &Uploader{cld: cld}, nil
}

// Enabled reports whether uploads will be accepted.
func (u *Uploader) Enabled() bool { return u != nil && u.cld != nil }

// Upload stores a multipart file under the given folder and returns its
// public HTTPS URL.
func (u *Uploader) Upload(ctx context.Context, fh *multipart.FileHeader, folder string) (string, error) {
	if !u.Enabled() {
		return "", ErrDisabled
	}
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	res, err := u.cld.Upload.Upload(ctx, f, uploader.UploadParams{Folder: folder})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	return res.SecureURL, nil
}
