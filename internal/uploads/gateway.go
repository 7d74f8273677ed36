package uploads

import (
	"context"
	"fmt"
	"strings"

	"github.com/EMNTV/excellencemedianumerique/internal/common"
	"github.com/EMNTV/excellencemedianumerique/internal/logging"
)

// ImageGateway validates image uploads before the collaborator is
// called and converts collaborator failures into the placeholder URL,
// so an article can always be created even when the media host is down.
type ImageGateway struct {
	uploader Uploader
	logger   logging.Logger
}

// NewImageGateway wires a gateway around an Uploader.
func NewImageGateway(u Uploader, logger logging.Logger) *ImageGateway {
	return &ImageGateway{uploader: u, logger: logger.With("component", "uploads")}
}

// UploadImage stores an image and returns its URL. Files over the size
// limit or with a non-image content type are rejected with
// common.ErrValidation before the collaborator is called. A
// collaborator failure is not an error: the fixed placeholder URL is
// returned instead.
func (g *ImageGateway) UploadImage(ctx context.Context, name, contentType string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty file", common.ErrValidation)
	}
	if len(data) > common.MaxUploadSize {
		return "", fmt.Errorf("%w: file exceeds %d bytes", common.ErrValidation, common.MaxUploadSize)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("%w: unsupported content type %q", common.ErrValidation, contentType)
	}

	url, err := g.uploader.Upload(ctx, name, contentType, data)
	if err != nil {
		g.logger.Warn(ctx, "image upload failed, using placeholder", "name", name, "error", err)
		return common.PlaceholderImageURL, nil
	}
	return url, nil
}
