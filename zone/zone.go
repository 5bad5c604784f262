// Package zone filters detections to a polygonal region of interest so the
// tracking pipeline only sees objects inside the part of the frame that
// matters for a deployment.
package zone

import (
	"fmt"
	"image"
	"math"

	clipper "github.com/ctessum/go.clipper"

	"github.com/centroidlabs/trackcam"
)

// Zone is a closed polygon in frame pixel coordinates.  A detection passes
// the filter when the overlap between its bounding box and the polygon is
// at least MinOverlap of the box area.
type Zone struct {
	// polygon is the zone outline as a clipper path
	polygon clipper.Path
	// minOverlap is the box overlap fraction required, in range (0, 1]
	minOverlap float64
}

// New creates a Zone from at least three polygon vertices.  minOverlap is
// the fraction of a detection's box area that must fall inside the polygon
// for the detection to be kept, in the range (0, 1].
func New(points []image.Point, minOverlap float64) (*Zone, error) {

	if len(points) < 3 {
		return nil, fmt.Errorf("zone polygon needs at least 3 points, got %d", len(points))
	}

	if minOverlap <= 0 || minOverlap > 1 {
		return nil, fmt.Errorf("minOverlap must be in (0, 1], got %v", minOverlap)
	}

	var path clipper.Path

	for _, pt := range points {
		path = append(path, &clipper.IntPoint{X: clipper.CInt(pt.X), Y: clipper.CInt(pt.Y)})
	}

	return &Zone{
		polygon:    path,
		minOverlap: minOverlap,
	}, nil
}

// Filter returns the detections whose bounding box overlaps the zone by at
// least the configured fraction.  A nil Zone keeps every detection.
func (z *Zone) Filter(dets []trackcam.Detection) []trackcam.Detection {

	if z == nil {
		return dets
	}

	var kept []trackcam.Detection

	for _, det := range dets {
		if z.overlap(det.Box) >= z.minOverlap {
			kept = append(kept, det)
		}
	}

	return kept
}

// overlap computes the fraction of the box area covered by the zone polygon
func (z *Zone) overlap(box trackcam.BoxRect) float64 {

	boxPath := clipper.Path{
		&clipper.IntPoint{X: clipper.CInt(box.Left), Y: clipper.CInt(box.Top)},
		&clipper.IntPoint{X: clipper.CInt(box.Right), Y: clipper.CInt(box.Top)},
		&clipper.IntPoint{X: clipper.CInt(box.Right), Y: clipper.CInt(box.Bottom)},
		&clipper.IntPoint{X: clipper.CInt(box.Left), Y: clipper.CInt(box.Bottom)},
	}

	boxArea := math.Abs(clipper.Area(boxPath))

	if boxArea == 0 {
		return 0
	}

	// clip the box against the zone polygon and sum the piece areas
	c := clipper.NewClipper(clipper.IoNone)
	c.AddPath(z.polygon, clipper.PtSubject, true)
	c.AddPath(boxPath, clipper.PtClip, true)

	solution, ok := c.Execute1(clipper.CtIntersection, clipper.PftNonZero, clipper.PftNonZero)

	if !ok {
		return 0
	}

	var overlapArea float64

	for _, path := range solution {
		overlapArea += math.Abs(clipper.Area(path))
	}

	return overlapArea / boxArea
}
