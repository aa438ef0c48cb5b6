// Package preview materializes decoded layers as images: it pulls slots out
// of a software texture array, applies the document orientation, and encodes
// the result for inspection on disk.
package preview

import (
	"fmt"
	"image"
)

// Encoder encodes an image into preview bytes.
type Encoder interface {
	// Encode encodes an image to bytes in the preview format.
	Encode(img image.Image) ([]byte, error)

	// Format returns the format name (e.g. "png", "webp").
	Format() string

	// FileExtension returns the appropriate file extension.
	FileExtension() string
}

// NewEncoder creates an encoder for the given format and quality.
func NewEncoder(format string, quality int) (Encoder, error) {
	switch format {
	case "png":
		return &PNGEncoder{}, nil
	case "jpeg", "jpg":
		return &JPEGEncoder{Quality: quality}, nil
	case "webp":
		return &WebPEncoder{Quality: quality}, nil
	default:
		return nil, fmt.Errorf("unsupported preview format: %q (supported: png, jpeg, webp)", format)
	}
}
