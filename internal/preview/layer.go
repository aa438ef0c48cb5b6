package preview

import (
	"fmt"
	"image"

	"github.com/mfauzaan/mica/internal/gpu"
	"github.com/mfauzaan/mica/internal/silica"
)

// ExportImage is one oriented preview ready for encoding.
type ExportImage struct {
	Name  string
	Slot  uint32
	Image *image.RGBA // oriented per the document; bounds equal TargetSize
}

// LayerImage extracts a layer's slot from a software texture array and
// returns it with the document orientation and flips applied.
func LayerImage(doc *silica.Document, tex *gpu.MemTextureArray, layer *silica.Layer) (*ExportImage, error) {
	img, err := tex.Slot(int(layer.Image))
	if err != nil {
		return nil, fmt.Errorf("layer %s: %w", layer.UUID, err)
	}
	name := layer.Name
	if name == "" {
		name = fmt.Sprintf("layer-%d", layer.Image)
	}
	return &ExportImage{
		Name:  name,
		Slot:  layer.Image,
		Image: Oriented(img, doc.Orientation, doc.Flipped),
	}, nil
}

// CollectLayers walks the document tree bottom-first and extracts every
// layer, visible or not, plus the composite flat-layer when present.
func CollectLayers(doc *silica.Document, tex *gpu.MemTextureArray) ([]*ExportImage, error) {
	var out []*ExportImage
	var walk func(g *silica.Group) error
	walk = func(g *silica.Group) error {
		for _, child := range g.Children {
			switch n := child.(type) {
			case *silica.Group:
				if err := walk(n); err != nil {
					return err
				}
			case *silica.Layer:
				img, err := LayerImage(doc, tex, n)
				if err != nil {
					return err
				}
				out = append(out, img)
			}
		}
		return nil
	}
	if err := walk(&doc.Layers); err != nil {
		return nil, err
	}
	if doc.Composite != nil {
		img, err := LayerImage(doc, tex, doc.Composite)
		if err != nil {
			return nil, err
		}
		img.Name = "composite"
		out = append(out, img)
	}
	return out, nil
}
