package silica

// Size is a pixel extent.
type Size struct {
	Width  uint32
	Height uint32
}

// TileGrid describes how a canvas splits into a grid of uniform tiles.
// Interior tiles are TileSize square; the rightmost column and the bottom
// row are shrunk by Diff so the grid covers the canvas exactly.
type TileGrid struct {
	Columns  uint32
	Rows     uint32
	Diff     Size
	TileSize uint32
}

// NewTileGrid computes the grid for a canvas and tile edge length.
func NewTileGrid(size Size, tileSize uint32) TileGrid {
	columns := (size.Width + tileSize - 1) / tileSize
	rows := (size.Height + tileSize - 1) / tileSize
	return TileGrid{
		Columns: columns,
		Rows:    rows,
		Diff: Size{
			Width:  columns*tileSize - size.Width,
			Height: rows*tileSize - size.Height,
		},
		TileSize: tileSize,
	}
}

// TileRect returns the pixel extent of the tile at (col, row).
func (g TileGrid) TileRect(col, row uint32) Size {
	s := Size{Width: g.TileSize, Height: g.TileSize}
	if col == g.Columns-1 {
		s.Width = g.TileSize - g.Diff.Width
	}
	if row == g.Rows-1 {
		s.Height = g.TileSize - g.Diff.Height
	}
	return s
}

// Origin returns the pixel origin of the tile at (col, row).
func (g TileGrid) Origin(col, row uint32) (x, y uint32) {
	return col * g.TileSize, row * g.TileSize
}
