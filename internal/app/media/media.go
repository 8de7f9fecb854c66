// Package media hosts uploaded images on an external service. Handlers
// depend on the Uploader interface so tests can substitute a fake.
package media

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Uploader stores and removes hosted images.
type Uploader interface {
	// Upload stores the image under the given folder and returns its
	// public URL.
	Upload(ctx context.Context, r io.Reader, folder string) (string, error)

	// Destroy removes a hosted image by its public ID. Removal is
	// best-effort; callers log failures and continue.
	Destroy(ctx context.Context, publicID string) error
}

// Cloudinary implements Uploader against the Cloudinary API.
type Cloudinary struct {
	cld *cloudinary.Cloudinary
	log *zap.Logger
}

// NewCloudinary builds an Uploader from account credentials.
func NewCloudinary(cloudName, apiKey, apiSecret string, logger *zap.Logger) (*Cloudinary, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, fmt.Errorf("cloudinary credentials are incomplete")
	}
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}
	return &Cloudinary{cld: cld, log: logger}, nil
}

func (c *Cloudinary) Upload(ctx context.Context, r io.Reader, folder string) (string, error) {
	res, err := c.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:   folder,
		PublicID: uuid.NewString(),
	})
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	c.log.Info("image uploaded",
		zap.String("folder", folder),
		zap.String("public_id", res.PublicID))
	return res.SecureURL, nil
}

func (c *Cloudinary) Destroy(ctx context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}
	if _, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID}); err != nil {
		return fmt.Errorf("destroy image %s: %w", publicID, err)
	}
	return nil
}

// PublicIDFromURL derives the "folder/name" public ID from a hosted
// image URL, e.g.
// https://res.cloudinary.com/acct/image/upload/v123/blogs/abc.png -> blogs/abc.
// Returns "" when the URL does not look like a hosted image.
func PublicIDFromURL(url string) string {
	const marker = "/upload/"
	i := strings.Index(url, marker)
	if i < 0 {
		return ""
	}
	rest := url[i+len(marker):]

	// Skip the version segment if present.
	if strings.HasPrefix(rest, "v") {
		if j := strings.Index(rest, "/"); j > 0 {
			if isDigits(rest[1:j]) {
				rest = rest[j+1:]
			}
		}
	}
	if rest == "" {
		return ""
	}

	// Drop the file extension.
	if j := strings.LastIndex(rest, "."); j > strings.LastIndex(rest, "/") {
		rest = rest[:j]
	}
	return rest
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
