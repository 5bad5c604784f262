package render

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/centroidlabs/trackcam/tracker"
)

// TrailStyle defines the parameters used for rendering the trail style
type TrailStyle struct {
	// LineSame defines if the color of the trail line should be the
	// same color as that of the bounding box.  If set to false then use
	// the color specified at LineColor
	LineSame      bool
	LineColor     color.RGBA
	LineThickness int
	// CircleSame defines if the color of the centroid circle should be the
	// same color as that of the bounding box.  If set to false then use
	// the color specified at CircleColor
	CircleSame   bool
	CircleColor  color.RGBA
	CircleRadius int
}

// DefaultTrailStyle returns default trail style settings
func DefaultTrailStyle() TrailStyle {
	return TrailStyle{
		LineSame:      false,
		LineColor:     Yellow,
		LineThickness: 1,
		CircleSame:    true,
		CircleColor:   Pink,
		CircleRadius:  3,
	}
}

// Trail draws the centroid history lines behind each tracked object on the
// source image
func Trail(img *gocv.Mat, tracked []tracker.TrackedObject,
	trail *tracker.Trail, style TrailStyle) {

	for _, obj := range tracked {

		objClr := TrackColor(obj.TrackID)

		// determine style colors to use
		lineClr := objClr
		if !style.LineSame {
			lineClr = style.LineColor
		}

		circleClr := objClr
		if !style.CircleSame {
			circleClr = style.CircleColor
		}

		points := trail.GetPoints(obj.TrackID)

		// draw trail lines between historic centroid points
		for i := 1; i < len(points); i++ {
			prev := image.Pt(points[i-1].X, points[i-1].Y)
			next := image.Pt(points[i].X, points[i].Y)
			gocv.Line(img, prev, next, lineClr, style.LineThickness)
		}

		// mark the current centroid
		gocv.Circle(img, image.Pt(obj.Centroid.X, obj.Centroid.Y),
			style.CircleRadius, circleClr, -1)
	}
}
