package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Uploader stores binary assets on the external media host and returns the
// public URL. The database keeps only these reference URLs.
type Uploader interface {
	UploadImage(ctx context.Context, file io.Reader, folder string) (string, error)
	UploadRaw(ctx context.Context, file io.Reader, folder, filename string) (string, error)
}

// CloudinaryUploader implements Uploader against Cloudinary.
type CloudinaryUploader struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryUploader constructs an uploader from a cloudinary:// URL.
func NewCloudinaryUploader(cloudinaryURL string) (*CloudinaryUploader, error) {
	if cloudinaryURL == "" {
		return nil, fmt.Errorf("cloudinary url not configured")
	}
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, err
	}
	return &CloudinaryUploader{cld: cld}, nil
}

// UploadImage stores an image asset in the given folder.
func (u *CloudinaryUploader) UploadImage(ctx context.Context, file io.Reader, folder string) (string, error) {
	resp, err := u.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:       folder,
		ResourceType: "image",
	})
	if err != nil {
		return "", err
	}
	return resp.SecureURL, nil
}

// UploadRaw stores a non-image asset (PDF, spreadsheet) in the given folder.
// Raw uploads keep a /raw/upload/ URL path, which clients rely on for the
// event calendar PDF.
func (u *CloudinaryUploader) UploadRaw(ctx context.Context, file io.Reader, folder, filename string) (string, error) {
	resp, err := u.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:       folder,
		ResourceType: "raw",
		PublicID:     fmt.Sprintf("%d-%s", time.Now().UnixMilli(), filename),
	})
	if err != nil {
		return "", err
	}
	return resp.SecureURL, nil
}
