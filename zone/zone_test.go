package zone

import (
	"image"
	"testing"

	"github.com/centroidlabs/trackcam"
)

// square is a 100x100 zone covering (0,0)-(100,100)
func square(t *testing.T, minOverlap float64) *Zone {
	t.Helper()

	z, err := New([]image.Point{
		image.Pt(0, 0), image.Pt(100, 0), image.Pt(100, 100), image.Pt(0, 100),
	}, minOverlap)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	return z
}

func det(left, top, right, bottom int) trackcam.Detection {
	return trackcam.Detection{
		Box: trackcam.BoxRect{Left: left, Top: top, Right: right, Bottom: bottom},
	}
}

func TestNewValidation(t *testing.T) {

	pts := []image.Point{image.Pt(0, 0), image.Pt(10, 0), image.Pt(10, 10)}

	if _, err := New(pts[:2], 0.5); err == nil {
		t.Errorf("expected error for degenerate polygon")
	}
	if _, err := New(pts, 0); err == nil {
		t.Errorf("expected error for zero overlap fraction")
	}
	if _, err := New(pts, 1.5); err == nil {
		t.Errorf("expected error for overlap fraction above 1")
	}
	if _, err := New(pts, 0.5); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFilter(t *testing.T) {

	z := square(t, 0.5)

	tests := []struct {
		name string
		det  trackcam.Detection
		want bool
	}{
		{"fully inside", det(10, 10, 40, 40), true},
		{"fully outside", det(200, 200, 240, 240), false},
		{"half inside", det(80, 10, 120, 50), true},
		{"quarter inside", det(90, 90, 130, 130), false},
		{"on boundary", det(0, 0, 100, 100), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := z.Filter([]trackcam.Detection{tc.det})
			if kept := len(got) == 1; kept != tc.want {
				t.Errorf("kept=%v, want %v", kept, tc.want)
			}
		})
	}
}

func TestFilterNilZone(t *testing.T) {

	var z *Zone

	dets := []trackcam.Detection{det(0, 0, 10, 10), det(500, 500, 600, 600)}

	if got := z.Filter(dets); len(got) != len(dets) {
		t.Errorf("nil zone filtered detections: got %d, want %d", len(got), len(dets))
	}
}

// TestFilterTriangle covers overlap against a non rectangular zone
func TestFilterTriangle(t *testing.T) {

	z, err := New([]image.Point{
		image.Pt(0, 0), image.Pt(100, 0), image.Pt(0, 100),
	}, 0.9)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// box in the triangle's corner is fully covered
	if got := z.Filter([]trackcam.Detection{det(5, 5, 25, 25)}); len(got) != 1 {
		t.Errorf("corner box was filtered out")
	}

	// box straddling the hypotenuse is only half covered
	if got := z.Filter([]trackcam.Detection{det(40, 40, 60, 60)}); len(got) != 0 {
		t.Errorf("hypotenuse box passed a 0.9 overlap requirement")
	}
}
