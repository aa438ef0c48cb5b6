package silica

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mfauzaan/mica/internal/codec"
	"github.com/mfauzaan/mica/internal/gpu"
	"github.com/mfauzaan/mica/internal/nsarchive"
	"github.com/mfauzaan/mica/internal/zipmap"
)

// tileIndexRe extracts the column~row pair from a tile entry name once the
// layer UUID prefix and the extension are stripped.
var tileIndexRe = regexp.MustCompile(`(\d+)~(\d+)`)

// loader carries everything a layer needs to decode itself: the archive,
// the grid geometry, the destination texture, and the shared slot counter.
// It is read-only during the fan-out except for the counter and the
// scratch-buffer pool.
type loader struct {
	ka      *nsarchive.Archive
	archive *zipmap.Reader
	grid    TileGrid
	size    Size
	names   []string
	tex     gpu.TextureArray
	counter *atomic.Uint32

	// bufPool recycles the compressed-read scratch buffers across tiles.
	bufPool sync.Pool
}

// loadNode loads a subtree, fanning the children of each group out onto
// their own goroutines. The first failure cancels the whole load.
func (ld *loader) loadNode(ctx context.Context, ir nodeIR) (Node, error) {
	switch ir := ir.(type) {
	case layerIR:
		return ld.loadLayer(ctx, ir)
	case groupIR:
		return ld.loadGroup(ctx, ir)
	default:
		return nil, fmt.Errorf("unexpected IR node %T", ir)
	}
}

func (ld *loader) loadGroup(ctx context.Context, ir groupIR) (*Group, error) {
	hidden, err := ld.ka.Bool(ir.coder, "isHidden")
	if err != nil {
		return nil, err
	}
	name, err := ld.ka.StringOpt(ir.coder, "name")
	if err != nil {
		return nil, err
	}

	children := make([]Node, len(ir.children))
	g, ctx := errgroup.WithContext(ctx)
	for i, child := range ir.children {
		g.Go(func() error {
			node, err := ld.loadNode(ctx, child)
			if err != nil {
				return err
			}
			children[i] = node
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Group{Hidden: hidden, Name: name, Children: children}, nil
}

// loadLayer reads the layer's scalar fields, claims the next texture slot,
// and decodes every tile of the layer in parallel into that slot.
func (ld *loader) loadLayer(ctx context.Context, ir layerIR) (*Layer, error) {
	ka := ld.ka
	coder := ir.coder

	id, err := ka.String(coder, "UUID")
	if err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("layer UUID %q: %w", id, ErrInvalidValue)
	}

	// Newer revisions store the mode under extendedBlend; the legacy blend
	// key remains as the fallback.
	code, ok, err := ka.UintOpt(coder, "extendedBlend")
	if err != nil {
		return nil, err
	}
	if !ok {
		code, err = ka.Uint(coder, "blend")
		if err != nil {
			return nil, err
		}
	}
	blend, err := BlendingModeFromCode(uint32(code))
	if err != nil {
		return nil, fmt.Errorf("layer %s: %w", id, err)
	}

	clipped, err := ka.Bool(coder, "clipped")
	if err != nil {
		return nil, err
	}
	hidden, err := ka.Bool(coder, "hidden")
	if err != nil {
		return nil, err
	}
	name, err := ka.StringOpt(coder, "name")
	if err != nil {
		return nil, err
	}
	opacity, err := ka.Float(coder, "opacity")
	if err != nil {
		return nil, err
	}
	version, err := ka.Uint(coder, "version")
	if err != nil {
		return nil, err
	}

	slot := ld.counter.Add(1) - 1

	g, ctx := errgroup.WithContext(ctx)
	for _, entry := range ld.names {
		if !strings.HasPrefix(entry, id) {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return ld.loadTile(id, entry, slot)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Layer{
		Blend:   blend,
		Clipped: clipped,
		Hidden:  hidden,
		Name:    name,
		Opacity: float32(opacity),
		Size:    ld.size,
		UUID:    id,
		Version: version,
		Image:   slot,
	}, nil
}

// loadTile decodes one tile entry and uploads it to its sub-rectangle of
// the layer's texture slot.
func (ld *loader) loadTile(id, entry string, slot uint32) error {
	rest := entry[len(id):]
	ext := ""
	if dot := strings.IndexByte(rest, '.'); dot >= 0 {
		ext = rest[dot+1:]
		rest = rest[:dot]
	}

	m := tileIndexRe.FindStringSubmatch(rest)
	if m == nil {
		return tileErr(id, 0, 0, fmt.Errorf("malformed tile name %q: %w", entry, ErrInvalidValue))
	}
	col64, err := strconv.ParseUint(m[1], 10, 32)
	if err != nil {
		return tileErr(id, 0, 0, fmt.Errorf("tile name %q: %w", entry, ErrInvalidValue))
	}
	row64, err := strconv.ParseUint(m[2], 10, 32)
	if err != nil {
		return tileErr(id, 0, 0, fmt.Errorf("tile name %q: %w", entry, ErrInvalidValue))
	}
	col, row := uint32(col64), uint32(row64)
	if col >= ld.grid.Columns || row >= ld.grid.Rows {
		return tileErr(id, col, row, fmt.Errorf("tile outside %dx%d grid: %w", ld.grid.Columns, ld.grid.Rows, ErrInvalidValue))
	}

	rect := ld.grid.TileRect(col, row)
	want := int(rect.Width) * int(rect.Height) * 4 // RGBA8

	scratch, _ := ld.bufPool.Get().([]byte)
	buf, err := ld.archive.Entry(entry, scratch)
	if err != nil {
		return tileErr(id, col, row, err)
	}

	var pix []byte
	if ext == "lz4" {
		pix, err = codec.DecodeLZ4(buf, want)
	} else {
		pix, err = codec.DecodeLZO(buf, want)
	}
	ld.bufPool.Put(buf[:0])
	if err != nil {
		return tileErr(id, col, row, err)
	}

	x, y := ld.grid.Origin(col, row)
	if err := ld.tex.UploadSubregion(int(x), int(y), int(slot), int(rect.Width), int(rect.Height), pix); err != nil {
		return tileErr(id, col, row, err)
	}
	return nil
}
