package media

import (
	"context"
	"fmt"
	"os"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryUploader pushes locally staged files to the Cloudinary media host.
type CloudinaryUploader struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryUploader(cloudName, apiKey, apiSecret string) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to configure cloudinary: %w", err)
	}
	return &CloudinaryUploader{cld: cld}, nil
}

// Upload sends a staged file to the media host and returns its hosted URL.
// The local file is removed on both the success and failure paths so temp
// storage does not leak.
func (u *CloudinaryUploader) Upload(ctx context.Context, localPath string) (string, error) {
	defer os.Remove(localPath)

	resp, err := u.cld.Upload.Upload(ctx, localPath, uploader.UploadParams{ResourceType: "auto"})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	if resp.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload: %s", resp.Error.Message)
	}

	return resp.SecureURL, nil
}
