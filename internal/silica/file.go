package silica

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/mfauzaan/mica/internal/gpu"
	"github.com/mfauzaan/mica/internal/nsarchive"
	"github.com/mfauzaan/mica/internal/zipmap"
)

// descriptorEntry is the keyed-archive document descriptor inside the
// container.
const descriptorEntry = "Document.archive"

// Open memory-maps a .procreate container, decodes the document, and loads
// every layer into a texture array allocated on dev. The mapping is scoped
// to the call: all decode workers are joined before it returns.
//
// The texture array holds one slot per layer plus a final slot for the
// composite flat-layer.
func Open(ctx context.Context, path string, dev gpu.Device) (*Document, gpu.TextureArray, error) {
	archive, err := zipmap.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer archive.Close()
	return load(ctx, archive, dev)
}

// OpenBytes decodes a container held in memory. The buffer must stay valid
// for the duration of the call.
func OpenBytes(ctx context.Context, data []byte, dev gpu.Device) (*Document, gpu.TextureArray, error) {
	archive, err := zipmap.OpenBytes(data)
	if err != nil {
		return nil, nil, err
	}
	defer archive.Close()
	return load(ctx, archive, dev)
}

func load(ctx context.Context, archive *zipmap.Reader, dev gpu.Device) (*Document, gpu.TextureArray, error) {
	raw, err := archive.Entry(descriptorEntry, nil)
	if err != nil {
		return nil, nil, err
	}
	ka, err := nsarchive.Parse(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", descriptorEntry, err)
	}
	root, err := ka.Root()
	if err != nil {
		return nil, nil, err
	}

	size, err := fetchSize(ka, root, "size")
	if err != nil {
		return nil, nil, err
	}
	tileSize, err := ka.Uint(root, "tileSize")
	if err != nil {
		return nil, nil, err
	}
	if size.Width == 0 || size.Height == 0 || tileSize == 0 {
		return nil, nil, fmt.Errorf("document %dx%d tile %d: %w", size.Width, size.Height, tileSize, ErrInvalidValue)
	}
	grid := NewTileGrid(size, uint32(tileSize))

	hierarchy, err := decodeChildrenIR(ka, root, "unwrappedLayers")
	if err != nil {
		return nil, nil, err
	}
	layerCount := 0
	for _, ir := range hierarchy {
		layerCount += ir.layerCount()
	}

	// One slot per layer, one reserved for the composite flat-layer.
	tex, err := dev.CreateTextureArray(int(size.Width), int(size.Height), layerCount+1)
	if err != nil {
		return nil, nil, err
	}

	ld := &loader{
		ka:      ka,
		archive: archive,
		grid:    grid,
		size:    size,
		names:   archive.Names(),
		tex:     tex,
		counter: &atomic.Uint32{},
	}

	children := make([]Node, len(hierarchy))
	g, gctx := errgroup.WithContext(ctx)
	for i, ir := range hierarchy {
		g.Go(func() error {
			node, err := ld.loadNode(gctx, ir)
			if err != nil {
				return err
			}
			children[i] = node
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	doc := &Document{
		Size:     size,
		TileSize: uint32(tileSize),
		Layers: Group{
			Hidden:   false,
			Name:     "Root Layer",
			Children: children,
		},
	}

	if doc.AuthorName, err = ka.StringOpt(root, "authorName"); err != nil {
		return nil, nil, err
	}
	if doc.Name, err = ka.StringOpt(root, "name"); err != nil {
		return nil, nil, err
	}
	orientation, err := ka.Uint(root, "orientation")
	if err != nil {
		return nil, nil, err
	}
	doc.Orientation = uint32(orientation)
	if doc.Flipped.Horizontally, err = ka.Bool(root, "flippedHorizontally"); err != nil {
		return nil, nil, err
	}
	if doc.Flipped.Vertically, err = ka.Bool(root, "flippedVertically"); err != nil {
		return nil, nil, err
	}
	if doc.BackgroundHidden, err = ka.Bool(root, "backgroundHidden"); err != nil {
		return nil, nil, err
	}
	if doc.StrokeCount, err = ka.Uint(root, "strokeCount"); err != nil {
		return nil, nil, err
	}
	if doc.BackgroundColor, err = fetchBackgroundColor(ka, root); err != nil {
		return nil, nil, err
	}

	// The composite flat-layer is a convenience cache: it loads after the
	// tree so its slot is deterministically the reserved last one, and any
	// failure just leaves it absent.
	if compositeDict, err := ka.DictOpt(root, "composite"); err == nil && compositeDict != nil {
		if composite, err := ld.loadLayer(ctx, layerIR{coder: compositeDict}); err == nil {
			doc.Composite = composite
		}
	}

	if err := dev.Submit(); err != nil {
		return nil, nil, err
	}
	return doc, tex, nil
}

// fetchSize reads a {width, height} dictionary.
func fetchSize(ka *nsarchive.Archive, d nsarchive.Dict, key string) (Size, error) {
	sd, err := ka.Dict(d, key)
	if err != nil {
		return Size{}, err
	}
	w, err := ka.Uint(sd, "width")
	if err != nil {
		return Size{}, fmt.Errorf("%q: %w", key, err)
	}
	h, err := ka.Uint(sd, "height")
	if err != nil {
		return Size{}, fmt.Errorf("%q: %w", key, err)
	}
	return Size{Width: uint32(w), Height: uint32(h)}, nil
}

// fetchBackgroundColor reads the 16-byte little-endian f32 quad.
func fetchBackgroundColor(ka *nsarchive.Archive, root nsarchive.Dict) ([4]float32, error) {
	var c [4]float32
	raw, err := ka.Bytes(root, "backgroundColor")
	if err != nil {
		return c, err
	}
	if len(raw) != 16 {
		return c, fmt.Errorf("backgroundColor is %d bytes, want 16: %w", len(raw), ErrInvalidValue)
	}
	for i := range c {
		c[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
	}
	return c, nil
}
