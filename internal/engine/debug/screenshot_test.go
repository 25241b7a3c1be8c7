package debug

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ftrvxmtrx/tga"

	"github.com/MetisArom/Sputterer/internal/preview"
)

func fixedClock() time.Time {
	return time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
}

func TestGenerateFilename(t *testing.T) {
	tests := []struct {
		dir    string
		format preview.Format
		expect string
	}{
		{"", preview.FormatWebP, "shot_2024-03-09_14-05-07.webp"},
		{"out", preview.FormatTGA, filepath.Join("out", "shot_2024-03-09_14-05-07.tga")},
	}

	for _, tt := range tests {
		sc := NewScreenshotCapture(tt.dir, "shot", tt.format)
		sc.now = fixedClock
		if got := sc.GenerateFilename(); got != tt.expect {
			t.Errorf("GenerateFilename() = %q, expected %q", got, tt.expect)
		}
	}
}

func TestFlipRows(t *testing.T) {
	// Two rows, bottom row first as GL returns them.
	pixels := []byte{
		255, 0, 0, 255, 255, 0, 0, 255, // bottom: red
		0, 0, 255, 255, 0, 0, 255, 255, // top: blue
	}
	img, err := FlipRows(pixels, 2, 2)
	if err != nil {
		t.Fatalf("FlipRows failed: %v", err)
	}
	if got := img.NRGBAAt(0, 0); got != (color.NRGBA{0, 0, 255, 255}) {
		t.Errorf("top-left = %v, expected blue", got)
	}
	if got := img.NRGBAAt(1, 1); got != (color.NRGBA{255, 0, 0, 255}) {
		t.Errorf("bottom-right = %v, expected red", got)
	}

	if _, err := FlipRows(pixels, 3, 2); err == nil {
		t.Error("expected size mismatch error")
	}
}

func TestCaptureFromPixels(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	sc := NewScreenshotCapture(dir, "frame", preview.FormatTGA)
	sc.now = fixedClock

	pixels := make([]byte, 4*3*4)
	for i := range pixels {
		pixels[i] = 200
	}

	path, err := sc.CaptureFromPixels(pixels, 4, 3)
	if err != nil {
		t.Fatalf("CaptureFromPixels failed: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("written to %q, expected dir %q", path, dir)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("screenshot missing: %v", err)
	}
	defer f.Close()

	img, err := tga.Decode(f)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 3 {
		t.Errorf("bounds = %v, expected 4x3", b)
	}
}
