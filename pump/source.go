package pump

import (
	"fmt"
	"os"
	"strconv"

	"gocv.io/x/gocv"
)

// Source produces video frames for the pump.  Read fills the given Mat
// with the next frame and reports false once the source is exhausted.
type Source interface {
	Read(img *gocv.Mat) bool
	Close() error
}

// VideoSource wraps a gocv video capture of either a video file or a
// camera device
type VideoSource struct {
	capture *gocv.VideoCapture
}

// OpenVideoSource opens the named video source.  If device is a path to an
// existing file it is opened as a video file, otherwise it is treated as a
// numeric camera device ID.
func OpenVideoSource(device string) (*VideoSource, error) {

	if _, err := os.Stat(device); err == nil {

		capture, err := gocv.VideoCaptureFile(device)

		if err != nil {
			return nil, fmt.Errorf("error opening video file %s: %w", device, err)
		}

		return &VideoSource{capture: capture}, nil
	}

	id, err := strconv.Atoi(device)

	if err != nil {
		return nil, fmt.Errorf("video source %q is neither a file nor a camera ID", device)
	}

	capture, err := gocv.VideoCaptureDevice(id)

	if err != nil {
		return nil, fmt.Errorf("error opening camera %d: %w", id, err)
	}

	return &VideoSource{capture: capture}, nil
}

// Read fills img with the next frame
func (v *VideoSource) Read(img *gocv.Mat) bool {

	if ok := v.capture.Read(img); !ok {
		return false
	}

	return !img.Empty()
}

// Close releases the video resource
func (v *VideoSource) Close() error {
	return v.capture.Close()
}
