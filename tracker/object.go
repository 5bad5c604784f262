package tracker

// Object represents an object detected in a single video frame.  The
// tracker only uses the bounding box, the label and probability pass
// through untouched for re-association after an Update call.
type Object struct {
	// Rect is the bounding box of the detected object
	Rect Rect
	// Label is the class label of the object detected
	Label int
	// Prob is the confidence/probability of the object detected
	Prob float32
	// ID is a unique ID given to this detection which can be used to match
	// the input detection object and tracked object
	ID int64
}

// NewObject is a constructor function for the Object struct
func NewObject(rect Rect, label int, prob float32, id int64) Object {
	return Object{
		Rect:  rect,
		Label: label,
		Prob:  prob,
		ID:    id,
	}
}

// TrackedObject is a detection enriched with the stable track identity it
// was re-associated with after a tracker Update
type TrackedObject struct {
	Object
	// TrackID is the stable identity assigned across frames, or 0 when no
	// live track existed to associate with
	TrackID int64
	// Centroid is the detection's own bounding box centroid
	Centroid Point
}
