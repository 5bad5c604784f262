// Package sink delivers enriched detection records to external stores.
// Delivery is fire and forget, a bounded queue decouples the per frame
// tracking loop from store latency and failures are logged and dropped so
// they can never stall or crash the frame pump.
package sink

import "context"

// Record is a single enriched detection as logged per frame
type Record struct {
	// TrackID is the stable identity the detection was associated with
	TrackID int64 `json:"track_id"`
	// ClassName is the detector's class label for this detection
	ClassName string `json:"class_name"`
	// Confidence is the detector's score for this detection
	Confidence float32 `json:"confidence"`
	// X1, Y1, X2, Y2 are the bounding box corners in frame pixels
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
	// FrameIndex is the frame the detection was made in
	FrameIndex int `json:"frame_index"`
}

// Sink accepts one batch of enriched detections per frame
type Sink interface {
	Write(ctx context.Context, records []Record) error
}

// Multi fans a batch out to several sinks, returning the first error after
// attempting all of them
type Multi []Sink

// Write delivers the batch to every sink
func (m Multi) Write(ctx context.Context, records []Record) error {

	var firstErr error

	for _, s := range m {
		if err := s.Write(ctx, records); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
