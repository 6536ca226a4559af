// ABOUTME: Tests for the asset resolver: suffix filtering, uniformity, missing directories
// ABOUTME: Also probes and thumbnails generated GIFs to check decoding

package asset

import (
	"image"
	"image/color"
	"image/gif"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), []byte("x"), 0o600); err != nil {
			t.Fatal(err)
		}
	}
}

func TestResolve_FiltersBySuffixCaseInsensitive(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, dir, "a.gif", "B.GIF", "notes.txt", "c.gif.bak")
	if err := os.Mkdir(filepath.Join(dir, "sub.gif"), 0o700); err != nil {
		t.Fatal(err)
	}

	r := New(dir, "")
	got := r.List()
	want := []string{filepath.Join(dir, "B.GIF"), filepath.Join(dir, "a.gif")}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("List() = %v, want %v", got, want)
	}

	for range 50 {
		p, ok := r.Resolve()
		if !ok {
			t.Fatal("Resolve() reported none with matching files present")
		}
		if p != want[0] && p != want[1] {
			t.Fatalf("Resolve() = %q, not a matching file", p)
		}
	}
}

func TestResolve_None(t *testing.T) {
	t.Parallel()

	empty := t.TempDir()
	touch(t, empty, "readme.md")

	tests := []struct {
		name string
		dir  string
	}{
		{name: "missing directory", dir: filepath.Join(t.TempDir(), "nope")},
		{name: "no matching files", dir: empty},
		{name: "path is a file", dir: filepath.Join(empty, "readme.md")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if p, ok := New(tt.dir, ".gif").Resolve(); ok {
				t.Errorf("Resolve() = (%q, true), want none", p)
			}
		})
	}
}

func TestResolve_CustomSuffix(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, dir, "a.gif", "b.WebP")

	p, ok := New(dir, ".webp").Resolve()
	if !ok || filepath.Base(p) != "b.WebP" {
		t.Errorf("Resolve() = (%q, %v), want b.WebP", p, ok)
	}
}

func TestResolve_Uniform(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, dir, "one.gif", "two.gif", "three.gif")
	r := New(dir, ".gif")

	const trials = 10000
	counts := map[string]int{}
	for range trials {
		p, ok := r.Resolve()
		if !ok {
			t.Fatal("Resolve() returned none")
		}
		counts[filepath.Base(p)]++
	}

	if len(counts) != 3 {
		t.Fatalf("saw %d distinct assets, want 3: %v", len(counts), counts)
	}
	// Binomial sd for p=1/3, n=10000 is ~47; allow 5 sd.
	expected := float64(trials) / 3
	for name, n := range counts {
		if math.Abs(float64(n)-expected) > 235 {
			t.Errorf("%s chosen %d times, expected about %.0f", name, n, expected)
		}
	}
}

func TestResolve_InjectedRandomness(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, dir, "x.gif")
	var asked int
	r := &Resolver{Dir: dir, Suffix: ".gif", Intn: func(n int) int { asked = n; return 0 }}

	if _, ok := r.Resolve(); !ok || asked != 1 {
		t.Errorf("Intn called with n=%d, want 1", asked)
	}
}

func TestProbe_GIF(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "thinking.gif")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	img := image.NewPaletted(image.Rect(0, 0, 12, 7), color.Palette{color.Black, color.White})
	if err := gif.EncodeAll(f, &gif.GIF{Image: []*image.Paletted{img, img}, Delay: []int{5, 5}}); err != nil {
		t.Fatal(err)
	}
	f.Close()

	info, err := Probe(path)
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if info.Format != "gif" || info.Width != 12 || info.Height != 7 {
		t.Errorf("Probe() = %+v", info)
	}
}

func TestProbe_NotAnImage(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, dir, "fake.gif")
	if _, err := Probe(filepath.Join(dir, "fake.gif")); err == nil {
		t.Error("expected error probing a non-image")
	}
}

func writeGIF(t *testing.T, path string, w, h int, c color.Color) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img := image.NewPaletted(image.Rect(0, 0, w, h), color.Palette{color.Black, c})
	for y := range h {
		for x := range w {
			img.SetColorIndex(x, y, 1)
		}
	}
	if err := gif.Encode(f, img, nil); err != nil {
		t.Fatal(err)
	}
}

func TestThumbnail_FitsBox(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name             string
		w, h             int
		maxCols, maxRows int
		wantLines        int
		wantCols         int
	}{
		{name: "small stays", w: 4, h: 4, maxCols: 10, maxRows: 10, wantLines: 2, wantCols: 4},
		{name: "wide scales by width", w: 40, h: 20, maxCols: 10, maxRows: 10, wantLines: 3, wantCols: 10},
		{name: "tall scales by height", w: 10, h: 40, maxCols: 10, maxRows: 4, wantLines: 4, wantCols: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), "a.gif")
			writeGIF(t, path, tt.w, tt.h, color.RGBA{R: 255, A: 255})

			lines, err := Thumbnail(path, tt.maxCols, tt.maxRows)
			if err != nil {
				t.Fatalf("Thumbnail: %v", err)
			}
			if len(lines) != tt.wantLines {
				t.Fatalf("got %d lines, want %d", len(lines), tt.wantLines)
			}
			for i, line := range lines {
				if n := strings.Count(line, "▄"); n != tt.wantCols {
					t.Errorf("line %d has %d cells, want %d", i, n, tt.wantCols)
				}
				if !strings.HasSuffix(line, "\x1b[0m") {
					t.Errorf("line %d missing reset", i)
				}
			}
		})
	}
}

func TestThumbnail_Colors(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "red.gif")
	writeGIF(t, path, 2, 2, color.RGBA{R: 255, A: 255})
	lines, err := Thumbnail(path, 8, 8)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(lines[0], "\x1b[48;2;255;0;0m\x1b[38;2;255;0;0m▄") {
		t.Errorf("unexpected cell encoding: %q", lines[0])
	}
}

func TestThumbnail_NotAnImage(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, dir, "fake.gif")
	if _, err := Thumbnail(filepath.Join(dir, "fake.gif"), 8, 8); err == nil {
		t.Error("expected error for a non-image")
	}
}
