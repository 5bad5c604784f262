package trackcam

import (
	"sync"

	"gocv.io/x/gocv"
)

// BoxRect are the dimensions of the bounding box of a detected object in
// frame pixel coordinates
type BoxRect struct {
	Left   int
	Right  int
	Top    int
	Bottom int
}

// Detection defines the attributes of a single object detected in a frame
type Detection struct {
	// Class is the line number in the labels file the detector was trained
	// on defining the Class of the detected object
	Class int
	// Box are the bounding box dimensions of the object location
	Box BoxRect
	// Probability is the confidence score of the object detected
	Probability float32
	// ID is a unique ID assigned to the detection result
	ID int64
}

// Detector produces the objects found in a single video frame.  Model
// loading and inference live entirely behind this interface, the tracking
// pipeline only consumes the resulting boxes, labels and scores.
type Detector interface {
	// Detect returns the objects found in the given frame.  Implementations
	// are called once per frame in strict sequence by the frame pump.
	Detect(img gocv.Mat, frameNum int) ([]Detection, error)
}

// IDGenerator is a struct to hold a counter for generating the next
// incremental detection ID number
type IDGenerator struct {
	id int64
	sync.Mutex
}

// NewIDGenerator returns a new detection ID generator starting at 1
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{}
}

// GetNext returns the next incremental number
func (id *IDGenerator) GetNext() int64 {
	id.Lock()
	defer id.Unlock()
	id.id++
	return id.id
}
