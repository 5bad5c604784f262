// Package pump drives the per frame tracking cycle: acquire a frame, run
// the detector, feed the tracker, re-associate identities onto the
// detections, hand the annotated result to the caller and enqueue the
// enriched batch for logging.
package pump

import (
	"context"
	"fmt"
	"log"
	"time"

	"gocv.io/x/gocv"

	"github.com/centroidlabs/trackcam"
	"github.com/centroidlabs/trackcam/sink"
	"github.com/centroidlabs/trackcam/tracker"
	"github.com/centroidlabs/trackcam/zone"
)

// DefaultFPS is the frame rate used when the config gives none
const DefaultFPS = 30

// OnFrame is the render hook called once per processed frame with the
// frame image and the identity enriched detections.  The Mat is only valid
// for the duration of the call.
type OnFrame func(img *gocv.Mat, tracked []tracker.TrackedObject, frameNum int)

// Config holds the collaborators and settings of a pump run
type Config struct {
	// FPS is the tick rate frames are processed at, defaults to DefaultFPS
	FPS int
	// Detector produces per frame detections, required
	Detector trackcam.Detector
	// Tracker assigns stable identities, required.  It must be fresh for
	// each run so identities cannot leak across independent runs.
	Tracker *tracker.CentroidTracker
	// Zone optionally restricts detections to a region of interest
	Zone *zone.Zone
	// Labels are the class names used for log records, indexed by class
	Labels []string
	// Queue optionally receives the enriched detections of each frame
	Queue *sink.Queue
	// OnFrame is an optional per frame render hook
	OnFrame OnFrame
}

// FramePump runs the tracking cycle against a frame source.  It is the
// only caller of the tracker, Update calls are strictly sequential and the
// state after frame N reflects exactly the detections of frame N.
type FramePump struct {
	source   Source
	cfg      Config
	interval time.Duration
}

// New creates a pump for the given frame source
func New(source Source, cfg Config) (*FramePump, error) {

	if source == nil {
		return nil, fmt.Errorf("source is required")
	}

	if cfg.Detector == nil {
		return nil, fmt.Errorf("detector is required")
	}

	if cfg.Tracker == nil {
		return nil, fmt.Errorf("tracker is required")
	}

	fps := cfg.FPS
	if fps <= 0 {
		fps = DefaultFPS
	}

	return &FramePump{
		source:   source,
		cfg:      cfg,
		interval: time.Duration(float64(time.Second) / float64(fps)),
	}, nil
}

// Run processes frames until the context is cancelled or the source is
// exhausted.  The source is released on return.  Detector errors are
// logged and retried on the next tick, they never terminate the run.
func (p *FramePump) Run(ctx context.Context) error {

	defer func() {
		if err := p.source.Close(); err != nil {
			log.Printf("error closing frame source: %v", err)
		}
	}()

	img := gocv.NewMat()
	defer img.Close()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	frameNum := 0

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-ticker.C:

			if ok := p.source.Read(&img); !ok {
				// source exhausted, a normal end of run
				return nil
			}

			p.processFrame(&img, frameNum)
			frameNum++
		}
	}
}

// processFrame runs one full detect, track, associate, log cycle
func (p *FramePump) processFrame(img *gocv.Mat, frameNum int) {

	dets, err := p.cfg.Detector.Detect(*img, frameNum)

	if err != nil {
		// keep the run alive and retry on the next tick
		log.Printf("frame %d: detector failed, retrying next tick: %v", frameNum, err)
		return
	}

	dets = p.cfg.Zone.Filter(dets)

	// convert detections to tracker objects, keeping rect order aligned
	// with detection order
	objects := make([]tracker.Object, len(dets))
	rects := make([]tracker.Rect, len(dets))

	for i, det := range dets {
		rects[i] = tracker.NewRect(
			float32(det.Box.Left), float32(det.Box.Top),
			float32(det.Box.Right), float32(det.Box.Bottom))
		objects[i] = tracker.NewObject(rects[i], det.Class, det.Probability, det.ID)
	}

	p.cfg.Tracker.Update(rects)
	tracked := tracker.Assign(p.cfg.Tracker, objects)

	if p.cfg.OnFrame != nil {
		p.cfg.OnFrame(img, tracked, frameNum)
	}

	if p.cfg.Queue != nil {
		p.cfg.Queue.Push(p.records(tracked, frameNum))
	}
}

// records builds the enriched log batch for a frame
func (p *FramePump) records(tracked []tracker.TrackedObject, frameNum int) []sink.Record {

	if len(tracked) == 0 {
		return nil
	}

	records := make([]sink.Record, len(tracked))

	for i, obj := range tracked {

		name := "object"
		if obj.Label >= 0 && obj.Label < len(p.cfg.Labels) {
			name = p.cfg.Labels[obj.Label]
		}

		records[i] = sink.Record{
			TrackID:    obj.TrackID,
			ClassName:  name,
			Confidence: obj.Prob,
			X1:         int(obj.Rect.X1),
			Y1:         int(obj.Rect.Y1),
			X2:         int(obj.Rect.X2),
			Y2:         int(obj.Rect.Y2),
			FrameIndex: frameNum,
		}
	}

	return records
}
