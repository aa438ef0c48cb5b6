package preview

import (
	"bytes"
	"fmt"
	"image"

	"github.com/gen2brain/webp"
)

// WebPEncoder encodes previews as WebP.
type WebPEncoder struct {
	Quality int // 1-100, default 85
}

func (e *WebPEncoder) Encode(img image.Image) ([]byte, error) {
	quality := e.Quality
	if quality <= 0 {
		quality = 85
	}
	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, webp.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("webp: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *WebPEncoder) Format() string        { return "webp" }
func (e *WebPEncoder) FileExtension() string { return ".webp" }

// DecodeWebP decodes WebP preview bytes back into an image.
func DecodeWebP(data []byte) (image.Image, error) {
	return webp.Decode(bytes.NewReader(data))
}
