package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mfauzaan/mica/internal/gpu"
	"github.com/mfauzaan/mica/internal/silica"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: micainfo <file.procreate>\n")
		os.Exit(1)
	}

	doc, tex, err := silica.Open(context.Background(), os.Args[1], gpu.MemDevice{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("File: %s\n", os.Args[1])
	if doc.Name != "" {
		fmt.Printf("Name: %s\n", doc.Name)
	}
	if doc.AuthorName != "" {
		fmt.Printf("Author: %s\n", doc.AuthorName)
	}
	fmt.Printf("Canvas: %d x %d, tile size %d\n", doc.Size.Width, doc.Size.Height, doc.TileSize)

	grid := silica.NewTileGrid(doc.Size, doc.TileSize)
	fmt.Printf("Tile grid: %d x %d (edge tile %dx%d)\n",
		grid.Columns, grid.Rows,
		grid.TileSize-grid.Diff.Width, grid.TileSize-grid.Diff.Height)

	fmt.Printf("Orientation: %d quarter turn(s) CCW, flipped h=%v v=%v\n",
		doc.Orientation, doc.Flipped.Horizontally, doc.Flipped.Vertically)
	fmt.Printf("Background: RGBA(%.3f, %.3f, %.3f, %.3f), hidden=%v\n",
		doc.BackgroundColor[0], doc.BackgroundColor[1],
		doc.BackgroundColor[2], doc.BackgroundColor[3], doc.BackgroundHidden)
	fmt.Printf("Strokes: %d\n", doc.StrokeCount)
	fmt.Printf("Texture array: %d slot(s) of %dx%d\n", tex.Layers(), tex.Width(), tex.Height())
	if doc.Composite != nil {
		fmt.Printf("Composite flat-layer: slot %d\n", doc.Composite.Image)
	}

	fmt.Printf("\nLayer tree (bottom to top):\n")
	printGroup(&doc.Layers, 1)

	records := silica.Flatten(&doc.Layers)
	fmt.Printf("\nComposite order (%d record(s)):\n", len(records))
	for i, rec := range records {
		clip := "-"
		if rec.Clipped {
			clip = fmt.Sprintf("clip->%d", rec.ClipSlot)
		}
		fmt.Printf("  %2d: slot %-3d %-13s opacity %.2f  %s\n",
			i, rec.Slot, rec.Blend, rec.Opacity, clip)
	}
}

func printGroup(g *silica.Group, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, child := range g.Children {
		switch n := child.(type) {
		case *silica.Group:
			fmt.Printf("%s[group] %s hidden=%v\n", indent, nameOr(n.Name, "(unnamed)"), n.Hidden)
			printGroup(n, depth+1)
		case *silica.Layer:
			fmt.Printf("%s[layer] %s slot=%d blend=%s opacity=%.2f clipped=%v hidden=%v uuid=%s\n",
				indent, nameOr(n.Name, "(unnamed)"), n.Image, n.Blend, n.Opacity, n.Clipped, n.Hidden, n.UUID)
		}
	}
}

func nameOr(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}
