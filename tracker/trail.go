package tracker

import "sync"

// history represents the recent centroid positions of one track
type history struct {
	points []Point
}

// Trail keeps a bounded history of track centroids used for drawing a
// trail line behind each tracked object
type Trail struct {
	// size is the maximum number of most recent points to keep per track
	size int
	// history of tracked centroids keyed by track ID
	history map[int64]*history
	sync.Mutex
}

// NewTrail returns a new trail history instance.  Size is the number of
// most recent points to keep and specifies the maximum length of the trail
// to maintain per track
func NewTrail(size int) *Trail {
	return &Trail{
		size:    size,
		history: make(map[int64]*history),
	}
}

// Reset clears all history
func (t *Trail) Reset() {
	t.Lock()
	defer t.Unlock()

	t.history = make(map[int64]*history)
}

// Add records a tracked object's centroid in its track history
func (t *Trail) Add(obj TrackedObject) {
	t.Lock()
	defer t.Unlock()

	// init history if none exists yet for track id
	if _, exists := t.history[obj.TrackID]; !exists {
		t.history[obj.TrackID] = &history{}
	}

	track := t.history[obj.TrackID]
	track.points = append(track.points, obj.Centroid)

	// check if history is exceeded and drop oldest point
	if len(track.points) > t.size {
		track.points = track.points[1:]
	}
}

// GetPoints gets the point history for a specific track id
func (t *Trail) GetPoints(id int64) []Point {
	t.Lock()
	defer t.Unlock()

	if _, exists := t.history[id]; exists {
		points := make([]Point, len(t.history[id].points))
		copy(points, t.history[id].points)
		return points
	}

	return nil
}

// Prune drops history for any track ID not in the live set so trails do
// not accumulate for identities the tracker has removed
func (t *Trail) Prune(live []int64) {
	t.Lock()
	defer t.Unlock()

	keep := make(map[int64]bool, len(live))
	for _, id := range live {
		keep[id] = true
	}

	for id := range t.history {
		if !keep[id] {
			delete(t.history, id)
		}
	}
}
