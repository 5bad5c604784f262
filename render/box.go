// Package render draws tracking overlays, bounding boxes, identity labels
// and centroid trails, onto video frames.
package render

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/centroidlabs/trackcam/tracker"
)

// boxLabel is an internal struct to hold details on the boxes to be
// rendered on top of the image
type boxLabel struct {
	rect    image.Rectangle
	clr     color.RGBA
	text    string
	textPos image.Point
}

// TrackedBoxes renders the bounding boxes around tracked objects, labelled
// with the class name and stable track ID.  Box colors cycle by track ID
// so an identity keeps its color across frames.
func TrackedBoxes(img *gocv.Mat, tracked []tracker.TrackedObject,
	classNames []string, font Font, lineThickness int) {

	// keep a record of all box labels for later rendering
	boxLabels := make([]boxLabel, 0)

	for _, obj := range tracked {

		boxLeft := int(obj.Rect.X1)
		boxTop := int(obj.Rect.Y1)
		boxRight := int(obj.Rect.X2)
		boxBottom := int(obj.Rect.Y2)

		useClr := TrackColor(obj.TrackID)

		// draw rectangle around detected object
		rect := image.Rect(boxLeft, boxTop, boxRight, boxBottom)
		gocv.Rectangle(img, rect, useClr, lineThickness)

		// create text for label
		name := "object"
		if obj.Label >= 0 && obj.Label < len(classNames) {
			name = classNames[obj.Label]
		}

		text := fmt.Sprintf("%s %d %.2f", name, obj.TrackID, obj.Prob)
		textSize := gocv.GetTextSize(text, font.Face, font.Scale, font.Thickness)

		// Calculate the alignment of text label
		var centerX int

		switch font.Alignment {
		case Center:
			centerX = (boxLeft + boxRight) / 2

		case Right:
			centerX = boxRight - (textSize.X / 2) - font.RightPad + (lineThickness / 2)

		case Left:
			fallthrough
		default:
			centerX = boxLeft + (textSize.X / 2) + font.LeftPad - (lineThickness / 2)
		}

		// Adjust the label position so the text is centered horizontally
		labelPosition := image.Pt(centerX-textSize.X/2, boxTop-font.BottomPad)

		// create box for placing text on
		bRect := image.Rect(centerX-textSize.X/2-font.LeftPad,
			boxTop-textSize.Y-font.TopPad-font.BottomPad,
			centerX+textSize.X/2+font.RightPad, boxTop)

		boxLabels = append(boxLabels, boxLabel{
			rect:    bRect,
			clr:     useClr,
			text:    text,
			textPos: labelPosition,
		})
	}

	// draw all precalculated box labels so they are the top most layer on
	// the image and don't get overlapped by trail lines
	for _, box := range boxLabels {
		// draw box text gets written on
		gocv.Rectangle(img, box.rect, box.clr, -1)

		// Draw the label over box
		gocv.PutTextWithParams(img, box.text, box.textPos,
			font.Face, font.Scale, font.Color, font.Thickness,
			font.LineType, false)
	}
}
