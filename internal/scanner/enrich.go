package scanner

import (
	"fmt"
	"image"
	"io"

	// Register decoders for DecodeConfig.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/cespare/xxhash/v2"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"media-catalog/internal/filesystem"
	"media-catalog/internal/snapshot"
)

// probeDimensions reads only the image header.
func probeDimensions(path string, retry filesystem.RetryConfig) (*snapshot.Dimensions, error) {
	f, err := filesystem.OpenWithRetry(path, retry)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("decoding image header: %w", err)
	}
	return &snapshot.Dimensions{Width: cfg.Width, Height: cfg.Height}, nil
}

func hashContent(path string, retry filesystem.RetryConfig) (string, error) {
	f, err := filesystem.OpenWithRetry(path, retry)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("reading content: %w", err)
	}
	return fmt.Sprintf("%016x", h.Sum64()), nil
}
