// ABOUTME: Reads image headers to report asset dimensions and format
// ABOUTME: GIF/PNG via the standard decoders, WebP via golang.org/x/image

package asset

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/png"
	"os"

	_ "golang.org/x/image/webp"
)

// Info describes a probed asset.
type Info struct {
	Path   string
	Format string
	Width  int
	Height int
}

// Probe decodes only the header of the file at path.
func Probe(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("opening asset: %w", err)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return Info{}, fmt.Errorf("probing %s: %w", path, err)
	}
	return Info{Path: path, Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}
