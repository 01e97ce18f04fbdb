package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/meinhoongagan/marketplace/config"
)

// Uploader stores an image and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, file interface{}, publicID, folder string) (string, error)
}

// CloudinaryUploader uploads to the hosted media API.
type CloudinaryUploader struct {
	cld     *cloudinary.Cloudinary
	preset  string
	timeout time.Duration
}

// NewCloudinaryUploader initializes the Cloudinary client
func NewCloudinaryUploader(cfg config.CloudinaryConfig) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, err
	}
	return &CloudinaryUploader{cld: cld, preset: cfg.UploadPreset, timeout: cfg.Timeout}, nil
}

// Upload sends file (a path, reader or URL) and returns the secure URL.
func (u *CloudinaryUploader) Upload(ctx context.Context, file interface{}, publicID, folder string) (string, error) {
	if u.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.timeout)
		defer cancel()
	}

	resp, err := u.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		PublicID:     publicID,
		Folder:       folder,
		UploadPreset: u.preset,
	})
	if err != nil {
		return "", err
	}
	if resp.Error.Message != "" {
		return "", fmt.Errorf("cloudinary: %s", resp.Error.Message)
	}
	return resp.SecureURL, nil
}

type unconfiguredUploader struct{}

func (unconfiguredUploader) Upload(context.Context, interface{}, string, string) (string, error) {
	return "", fmt.Errorf("media uploads are not configured")
}

// Media is the process-wide uploader; main wires Cloudinary, tests swap it.
var Media Uploader = unconfiguredUploader{}
