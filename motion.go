package trackcam

import (
	"image"

	"gocv.io/x/gocv"
)

const (
	// default minimum contour area in pixels for a region to be reported
	MinContourArea = 500.0
	// binary threshold applied to the foreground mask
	maskThreshold = 25.0
)

// MotionDetector is a Detector producing bounding boxes around moving
// regions using background subtraction.  It needs no model file which
// makes it useful for development and for scenes where any movement is
// worth tracking.
type MotionDetector struct {
	// bg is the KNN background subtractor maintaining the scene model
	bg gocv.BackgroundSubtractorKNN
	// mask holds the foreground mask of the current frame
	mask gocv.Mat
	// kernel used for morphological noise removal
	kernel gocv.Mat
	// minArea is the minimum contour area reported as a detection
	minArea float64
	// ids generates the per detection ID numbers
	ids *IDGenerator
}

// NewMotionDetector creates a motion based Detector.  minArea is the
// minimum contour area in pixels to report, pass 0 to use MinContourArea.
func NewMotionDetector(minArea float64) *MotionDetector {

	if minArea <= 0 {
		minArea = MinContourArea
	}

	return &MotionDetector{
		bg:      gocv.NewBackgroundSubtractorKNN(),
		mask:    gocv.NewMat(),
		kernel:  gocv.GetStructuringElement(gocv.MorphRect, image.Pt(5, 5)),
		minArea: minArea,
		ids:     NewIDGenerator(),
	}
}

// Detect returns a Detection for each moving region in the frame larger
// than the minimum contour area.  All detections carry class 0.
func (m *MotionDetector) Detect(img gocv.Mat, frameNum int) ([]Detection, error) {

	if img.Empty() {
		return nil, nil
	}

	m.bg.Apply(img, &m.mask)

	// clean up the foreground mask before contour extraction
	gocv.Threshold(m.mask, &m.mask, maskThreshold, 255, gocv.ThresholdBinary)
	gocv.MorphologyEx(m.mask, &m.mask, gocv.MorphOpen, m.kernel)
	gocv.MorphologyEx(m.mask, &m.mask, gocv.MorphClose, m.kernel)

	contours := gocv.FindContours(m.mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	var dets []Detection

	for i := 0; i < contours.Size(); i++ {

		contour := contours.At(i)
		area := gocv.ContourArea(contour)

		if area < m.minArea {
			continue
		}

		rect := gocv.BoundingRect(contour)

		// confidence grows with contour area and saturates at 1.0
		prob := float32(area / (m.minArea * 4))
		if prob > 1.0 {
			prob = 1.0
		}

		dets = append(dets, Detection{
			Class: 0,
			Box: BoxRect{
				Left:   rect.Min.X,
				Top:    rect.Min.Y,
				Right:  rect.Max.X,
				Bottom: rect.Max.Y,
			},
			Probability: prob,
			ID:          m.ids.GetNext(),
		})
	}

	return dets, nil
}

// Close frees the OpenCV resources held by the detector
func (m *MotionDetector) Close() error {

	if err := m.bg.Close(); err != nil {
		return err
	}

	if err := m.mask.Close(); err != nil {
		return err
	}

	return m.kernel.Close()
}
