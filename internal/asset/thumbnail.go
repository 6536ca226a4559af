// ABOUTME: Renders the first frame of an asset as ANSI half-block art
// ABOUTME: Scaled with golang.org/x/image/draw to fit a cell box, two pixel rows per line

package asset

import (
	"fmt"
	"image"
	"os"
	"strings"

	"golang.org/x/image/draw"
)

// Thumbnail decodes the first frame of the image at path and renders it
// into at most maxCols columns and maxRows lines. Each line ends with a
// color reset.
func Thumbnail(path string, maxCols, maxRows int) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening asset: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return halfBlocks(img, maxCols, maxRows), nil
}

// fitBox scales w x h down to fit maxW x maxH, keeping the aspect ratio.
// Neither side drops below one pixel.
func fitBox(w, h, maxW, maxH int) (int, int) {
	if w > maxW {
		h = h * maxW / w
		w = maxW
	}
	if h > maxH {
		w = w * maxH / h
		h = maxH
	}
	return max(w, 1), max(h, 1)
}

func halfBlocks(img image.Image, maxCols, maxRows int) []string {
	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 || maxCols <= 0 || maxRows <= 0 {
		return nil
	}

	w, h := fitBox(bounds.Dx(), bounds.Dy(), maxCols, maxRows*2)
	scaled := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, bounds, draw.Over, nil)

	lines := make([]string, 0, (h+1)/2)
	for y := 0; y < h; y += 2 {
		var b strings.Builder
		for x := range w {
			tr, tg, tb := rgbAt(scaled, x, y)
			var br, bg, bb uint8
			if y+1 < h {
				br, bg, bb = rgbAt(scaled, x, y+1)
			}
			fmt.Fprintf(&b, "\x1b[48;2;%d;%d;%dm\x1b[38;2;%d;%d;%dm▄", tr, tg, tb, br, bg, bb)
		}
		b.WriteString("\x1b[0m")
		lines = append(lines, b.String())
	}
	return lines
}

func rgbAt(img image.Image, x, y int) (uint8, uint8, uint8) {
	r, g, b, _ := img.At(x, y).RGBA()
	return uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)
}
