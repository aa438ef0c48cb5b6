package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/mfauzaan/mica/internal/gpu"
	"github.com/mfauzaan/mica/internal/preview"
	"github.com/mfauzaan/mica/internal/silica"
)

func main() {
	outDir := flag.String("out", "layers", "output directory for layer previews")
	format := flag.String("format", "png", "preview format: png, jpeg, webp")
	quality := flag.Int("quality", 85, "encode quality for lossy formats (1-100)")
	compositeOnly := flag.Bool("composite", false, "export only the composite flat-layer")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: micadump [flags] <file.procreate>\n")
		flag.PrintDefaults()
		os.Exit(1)
	}
	path := flag.Arg(0)

	enc, err := preview.NewEncoder(*format, *quality)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	doc, tex, err := silica.Open(context.Background(), path, gpu.MemDevice{})
	if err != nil {
		log.Fatalf("Error opening %s: %v", path, err)
	}
	mem, ok := tex.(*gpu.MemTextureArray)
	if !ok {
		log.Fatalf("Error: preview export needs the software device")
	}

	if *verbose {
		w, h := preview.TargetSize(doc)
		log.Printf("Loaded %s: canvas %dx%d, target %dx%d, %d layer(s)",
			path, doc.Size.Width, doc.Size.Height, w, h, doc.Layers.LayerCount())
	}

	images, err := preview.CollectLayers(doc, mem)
	if err != nil {
		log.Fatalf("Error extracting layers: %v", err)
	}
	if *compositeOnly {
		if doc.Composite == nil {
			log.Fatalf("Error: %s has no composite flat-layer", path)
		}
		images = images[len(images)-1:]
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("Error creating %s: %v", *outDir, err)
	}

	pb := newProgress(len(images))
	for _, img := range images {
		data, err := enc.Encode(img.Image)
		if err != nil {
			pb.Interrupt()
			log.Fatalf("Error encoding %s: %v", img.Name, err)
		}
		name := fmt.Sprintf("%02d-%s%s", img.Slot, sanitize(img.Name), enc.FileExtension())
		if err := os.WriteFile(filepath.Join(*outDir, name), data, 0o644); err != nil {
			pb.Interrupt()
			log.Fatalf("Error writing %s: %v", name, err)
		}
		pb.Step(name)
	}
	pb.Finish()

	if *verbose {
		log.Printf("Wrote %d preview(s) to %s", len(images), *outDir)
	}
}

// sanitize makes a layer name safe to use as a file name.
func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '-'
		}
		return r
	}, name)
}
