// Package silica decodes Procreate illustration documents: the keyed-archive
// descriptor, the per-layer grids of compressed RGBA tiles, and the layer
// tree they describe. Tile pixels land in a GPU texture array during load;
// Flatten turns the tree into the linear list a compositor consumes.
package silica

// Flipped holds the document's mirror flags.
type Flipped struct {
	Horizontally bool
	Vertically   bool
}

// Document is a fully decoded illustration file. It is immutable after
// load; the associated texture array holds one slot per layer plus one
// reserved for the composite flat-layer.
type Document struct {
	AuthorName string // "" when the file carries no author
	Name       string // "" when the file carries no name

	Size     Size
	TileSize uint32

	// Orientation counts 90° counter-clockwise quarter turns the render
	// target applies; the Flipped mirrors apply to the canvas before those
	// turns.
	Orientation uint32
	Flipped     Flipped

	// BackgroundColor is sRGB-linear RGBA. Consumers suppress it when
	// BackgroundHidden is set.
	BackgroundColor  [4]float32
	BackgroundHidden bool

	StrokeCount uint64

	// Layers is the root of the layer tree. Children are ordered
	// bottom-first: Children[0] draws under Children[1].
	Layers Group

	// Composite is the pre-flattened snapshot of the whole document, when
	// the file carries one. Always the last texture-array slot.
	Composite *Layer
}

// Node is one entry of the layer tree: a Layer or a Group.
type Node interface {
	node()
}

// Group is a named collection of tree nodes.
type Group struct {
	Hidden   bool
	Name     string // "" when unnamed
	Children []Node // bottom-first draw order
}

func (*Group) node() {}

// Layer is a single raster layer. Image is its slot in the document's
// texture array; slots are dense in [0, layer count) but carry no ordering.
type Layer struct {
	Blend   BlendingMode
	Clipped bool
	Hidden  bool
	Name    string // "" when unnamed
	Opacity float32
	Size    Size
	UUID    string
	Version uint64
	Image   uint32
}

func (*Layer) node() {}

// LayerCount returns the number of layers in the subtree.
func (g *Group) LayerCount() int {
	n := 0
	for _, c := range g.Children {
		switch c := c.(type) {
		case *Layer:
			n++
		case *Group:
			n += c.LayerCount()
		}
	}
	return n
}
