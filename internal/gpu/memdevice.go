package gpu

import (
	"fmt"
	"image"
)

// MemDevice is a software Device holding texture data in host memory.
// Uploads land immediately; Submit is a no-op.
type MemDevice struct{}

// CreateTextureArray allocates one zeroed RGBA image per slot.
func (MemDevice) CreateTextureArray(width, height, layers int) (TextureArray, error) {
	if width <= 0 || height <= 0 || layers <= 0 {
		return nil, fmt.Errorf("gpu: invalid texture array %dx%d with %d layers", width, height, layers)
	}
	slots := make([]*image.RGBA, layers)
	for i := range slots {
		slots[i] = image.NewRGBA(image.Rect(0, 0, width, height))
	}
	return &MemTextureArray{w: width, h: height, slots: slots}, nil
}

// Submit is a no-op: software uploads are synchronous.
func (MemDevice) Submit() error { return nil }

// MemTextureArray stores each slot as an image.RGBA.
// Concurrent UploadSubregion calls are safe for disjoint regions: every
// write touches only the destination rows of its own rectangle.
type MemTextureArray struct {
	w, h  int
	slots []*image.RGBA
}

func (t *MemTextureArray) Width() int  { return t.w }
func (t *MemTextureArray) Height() int { return t.h }
func (t *MemTextureArray) Layers() int { return len(t.slots) }

// Slot returns the backing image for a layer slot. The image is shared, not
// copied; callers rendering previews should treat it as read-only.
func (t *MemTextureArray) Slot(layer int) (*image.RGBA, error) {
	if layer < 0 || layer >= len(t.slots) {
		return nil, fmt.Errorf("gpu: slot %d of %d", layer, len(t.slots))
	}
	return t.slots[layer], nil
}

// UploadSubregion copies tightly-packed rgba rows into the slot image.
func (t *MemTextureArray) UploadSubregion(x, y, layer, w, h int, rgba []byte) error {
	if x < 0 || y < 0 || w <= 0 || h <= 0 ||
		layer < 0 || layer >= len(t.slots) ||
		x+w > t.w || y+h > t.h {
		return regionError(x, y, layer, w, h, t.w, t.h, len(t.slots))
	}
	if len(rgba) != w*h*4 {
		return fmt.Errorf("gpu: upload %dx%d needs %d bytes, got %d", w, h, w*h*4, len(rgba))
	}

	img := t.slots[layer]
	rowBytes := w * 4
	for row := 0; row < h; row++ {
		dst := img.Pix[(y+row)*img.Stride+x*4:]
		copy(dst[:rowBytes], rgba[row*rowBytes:(row+1)*rowBytes])
	}
	return nil
}
