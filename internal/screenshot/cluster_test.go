package screenshot

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alishwani-112/auto-subdomain/internal/workspace"
)

// gradient renders a smooth horizontal ramp; stripes renders high-frequency
// bands. The two produce clearly different perceptual hashes while two
// renders of the same pattern hash identically.
func gradient() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 128, 128))
	for y := 0; y < 128; y++ {
		for x := 0; x < 128; x++ {
			v := uint8(x * 2)
			img.Set(x, y, color.RGBA{v, v, v, 255})
		}
	}
	return img
}

func stripes() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 128, 128))
	for y := 0; y < 128; y++ {
		for x := 0; x < 128; x++ {
			v := uint8(0)
			if (x/8)%2 == 0 {
				v = 255
			}
			img.Set(x, y, color.RGBA{v, v, v, 255})
		}
	}
	return img
}

func writePNG(t *testing.T, dir, name string, img image.Image) {
	t.Helper()
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestClusterDirGroupsSimilarPages(t *testing.T) {
	t.Parallel()

	ws := workspace.New(t.TempDir())
	dir, err := ws.ScreenshotDir()
	if err != nil {
		t.Fatal(err)
	}

	writePNG(t, dir, "a.example.com.png", gradient())
	writePNG(t, dir, "b.example.com.png", gradient())
	writePNG(t, dir, "c.example.com.png", stripes())
	// unreadable files are skipped, not fatal
	if err := os.WriteFile(filepath.Join(dir, "broken.png"), []byte("not a png"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := ClusterDir(ws); err != nil {
		t.Fatalf("ClusterDir() error: %v", err)
	}

	lines, err := ws.ReadLines(workspace.ClustersFile)
	if err != nil {
		t.Fatalf("ReadLines() error: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 clusters, got %d: %v", len(lines), lines)
	}

	var pairLine string
	for _, l := range lines {
		if strings.Contains(l, "a.example.com.png") {
			pairLine = l
		}
	}
	if pairLine == "" {
		t.Fatalf("no cluster contains a.example.com.png: %v", lines)
	}
	if !strings.Contains(pairLine, "b.example.com.png") {
		t.Fatalf("identical captures split across clusters: %v", lines)
	}
	if strings.Contains(pairLine, "c.example.com.png") {
		t.Fatalf("dissimilar capture merged into the pair cluster: %v", lines)
	}
}

func TestClusterDirEmpty(t *testing.T) {
	t.Parallel()

	ws := workspace.New(t.TempDir())
	if _, err := ws.ScreenshotDir(); err != nil {
		t.Fatal(err)
	}

	if err := ClusterDir(ws); err != nil {
		t.Fatalf("ClusterDir() error: %v", err)
	}
	if !ws.Exists(workspace.ClustersFile) {
		t.Fatal("clusters artifact should exist even with no screenshots")
	}
}
