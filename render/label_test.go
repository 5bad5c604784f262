package render

import (
	"os"
	"path/filepath"
	"testing"

	"gocv.io/x/gocv"
	"golang.org/x/image/font/gofont/goregular"
)

// writeTestFont writes a real TTF to a temp file for font loading tests
func writeTestFont(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "regular.ttf")

	if err := os.WriteFile(path, goregular.TTF, 0o644); err != nil {
		t.Fatalf("writing font fixture: %v", err)
	}

	return path
}

// TestNewTTFLabelErrors covers a missing font file and unparseable font data
func TestNewTTFLabelErrors(t *testing.T) {

	if _, err := NewTTFLabel(filepath.Join(t.TempDir(), "missing.ttf"), 16); err == nil {
		t.Errorf("expected error for missing font file")
	}

	bad := filepath.Join(t.TempDir(), "bad.ttf")

	if err := os.WriteFile(bad, []byte("not a font"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	if _, err := NewTTFLabel(bad, 16); err == nil {
		t.Errorf("expected error for invalid font data")
	}
}

// TestTTFLabelPut covers text being drawn onto the frame, a black frame
// must pick up non zero pixels from the white text
func TestTTFLabelPut(t *testing.T) {

	label, err := NewTTFLabel(writeTestFont(t), 24)

	if err != nil {
		t.Fatalf("NewTTFLabel failed: %v", err)
	}

	img := gocv.NewMatWithSize(64, 256, gocv.MatTypeCV8UC3)
	defer img.Close()

	if err := label.Put(&img, "track 1", 8, 40, White); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	mean := img.Mean()

	if mean.Val1 == 0 && mean.Val2 == 0 && mean.Val3 == 0 {
		t.Errorf("frame unchanged, expected drawn text pixels")
	}
}
