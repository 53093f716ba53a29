package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"strings"

	"github.com/google/uuid"
	"github.com/nfnt/resize"
	log "github.com/sirupsen/logrus"
)

const (
	maxImageSide  = 1024
	maxImageBytes = 10 << 20
	imagePrefix   = "recipes/images/"
)

// Limits on the decoded size, checked before any pixel is allocated.
const (
	maxDecodeSide   = 8192
	maxDecodePixels = 40_000_000
)

// ImageService stores recipe images sent as base64 data URIs.
type ImageService struct {
	store ObjectStore
}

var _ IImageService = (*ImageService)(nil)

// NewImageService creates a new ImageService instance
func NewImageService(store ObjectStore) *ImageService {
	return &ImageService{store: store}
}

// Save decodes a data URI such as "data:image/png;base64,....", scales the
// image down to fit maxImageSide, and stores it. It returns the object key.
func (s *ImageService) Save(ctx context.Context, dataURI string) (string, error) {
	raw, err := decodeDataURI(dataURI)
	if err != nil {
		return "", err
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return "", invalid("image", "unsupported or corrupt image")
	}
	if cfg.Width > maxDecodeSide || cfg.Height > maxDecodeSide || cfg.Width*cfg.Height > maxDecodePixels {
		return "", invalid("image", "image dimensions %dx%d are too large", cfg.Width, cfg.Height)
	}

	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", invalid("image", "unsupported or corrupt image")
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxImageSide || bounds.Dy() > maxImageSide {
		img = resize.Thumbnail(maxImageSide, maxImageSide, img, resize.Lanczos3)
	}

	var buf bytes.Buffer
	ext, contentType := "png", "image/png"
	if format == "jpeg" {
		ext, contentType = "jpg", "image/jpeg"
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})
	} else {
		err = png.Encode(&buf, img)
	}
	if err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}

	key := fmt.Sprintf("%s%s.%s", imagePrefix, uuid.New(), ext)
	if err := s.store.Put(ctx, key, contentType, buf.Bytes()); err != nil {
		return "", err
	}
	return key, nil
}

// Discard removes a stored image, logging instead of failing.
func (s *ImageService) Discard(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.store.Delete(ctx, key); err != nil {
		log.WithError(err).WithField("key", key).Warn("failed to delete image")
	}
}

// URL returns the public location of a stored image.
func (s *ImageService) URL(key string) string {
	if key == "" {
		return ""
	}
	return s.store.URL(key)
}

func decodeDataURI(dataURI string) ([]byte, error) {
	header, payload, ok := strings.Cut(dataURI, ",")
	if !ok || !strings.HasPrefix(header, "data:image/") || !strings.HasSuffix(header, ";base64") {
		return nil, invalid("image", "expected a base64 encoded data:image URI")
	}
	if base64.StdEncoding.DecodedLen(len(payload)) > maxImageBytes {
		return nil, invalid("image", "image is too large")
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, invalid("image", "invalid base64 payload")
	}
	return raw, nil
}
