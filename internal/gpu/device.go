// Package gpu declares the minimal device surface the decoder needs:
// texture-array allocation, sub-region upload, and queue submission.
// Real device backends live with the compositor; this package ships a
// software implementation for tools and tests.
package gpu

import "fmt"

// Device allocates texture arrays and flushes queued uploads.
type Device interface {
	// CreateTextureArray allocates an RGBA8 texture array of the given
	// dimensions with layers slots.
	CreateTextureArray(width, height, layers int) (TextureArray, error)

	// Submit flushes all queued uploads to the device.
	Submit() error
}

// TextureArray is a layered RGBA8 texture. Concurrent uploads are allowed
// as long as every write targets a disjoint (x, y, layer, w, h) region.
type TextureArray interface {
	// UploadSubregion writes w*h*4 rgba bytes at (x, y) of the given layer.
	UploadSubregion(x, y, layer, w, h int, rgba []byte) error

	Width() int
	Height() int
	Layers() int
}

// regionError describes an upload that does not fit the target texture.
func regionError(x, y, layer, w, h, texW, texH, texLayers int) error {
	return fmt.Errorf("gpu: upload (%d,%d %dx%d) layer %d does not fit texture %dx%d with %d layers",
		x, y, w, h, layer, texW, texH, texLayers)
}
