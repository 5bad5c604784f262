package tracker

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// trackSlot holds the state of one tracked identity inside the arena.  A
// freed slot is recycled for later registrations, track IDs never are.
type trackSlot struct {
	id       int64
	centroid Point
	missed   int
}

// CentroidTracker assigns stable identities to a stream of bounding box
// detections arriving one batch per frame.  Each Update decides which
// detections are continuations of existing tracks, which are new objects,
// and which existing tracks have vanished.
//
// The tracker is single threaded and must be driven by strictly sequential
// Update calls, state after call N reflects exactly the detections of
// frame N.  Construct a fresh tracker for each independent run so stale
// identities cannot leak between runs.
type CentroidTracker struct {
	// maxDisappeared is the number of consecutive frames an object may go
	// unmatched before its track is removed
	maxDisappeared int
	// maxDistance is the maximum centroid distance, in input coordinate
	// units, for a match to be accepted
	maxDistance float64
	// nextID is the last track ID issued, IDs are monotonically
	// increasing and never reused within the tracker's lifetime
	nextID int64
	// slots is the arena of track state, indexed by slot number
	slots []trackSlot
	// free lists arena slots released by deregistered tracks
	free []int
	// index maps a live track ID to its arena slot
	index map[int64]int
	// order lists live track IDs in registration order, this is the
	// iteration order used for matching and tie breaking
	order []int64
}

// NewCentroidTracker creates a new tracker. maxDisappeared is the number of
// consecutive unmatched frames tolerated before a track is dropped and
// maxDistance is the matching gate in input coordinate units, both must be
// positive.
func NewCentroidTracker(maxDisappeared int, maxDistance float64) (*CentroidTracker, error) {

	if maxDisappeared <= 0 {
		return nil, fmt.Errorf("maxDisappeared must be positive, got %d", maxDisappeared)
	}

	if maxDistance <= 0 {
		return nil, fmt.Errorf("maxDistance must be positive, got %v", maxDistance)
	}

	return &CentroidTracker{
		maxDisappeared: maxDisappeared,
		maxDistance:    maxDistance,
		index:          make(map[int64]int),
	}, nil
}

// Reset clears all tracked state.  The ID counter is not reset so tracks
// registered after a Reset continue with fresh identities.
func (ct *CentroidTracker) Reset() {
	ct.slots = ct.slots[:0]
	ct.free = ct.free[:0]
	ct.order = ct.order[:0]
	ct.index = make(map[int64]int)
}

// Update consumes the bounding boxes detected in the current frame and
// returns the id to centroid mapping of all live tracks after this frame.
// Boxes are matched greedily to existing tracks by smallest centroid
// distance, unmatched boxes register new tracks and tracks unmatched for
// more than maxDisappeared consecutive frames are removed.
func (ct *CentroidTracker) Update(rects []Rect) map[int64]Point {

	// no live tracks yet, register every input in order
	if len(ct.order) == 0 {
		for _, r := range rects {
			ct.register(r.Centroid())
		}
		return ct.snapshot()
	}

	// no input boxes this frame, age every live track
	if len(rects) == 0 {
		ct.missAll()
		return ct.snapshot()
	}

	centroids := make([]Point, len(rects))
	for i, r := range rects {
		centroids[i] = r.Centroid()
	}

	// rows iterate live tracks in registration order, columns iterate
	// inputs in the order given
	rows := len(ct.order)
	cols := len(centroids)

	dist := mat.NewDense(rows, cols, nil)
	for i, id := range ct.order {
		c := ct.slots[ct.index[id]].centroid
		for j := range centroids {
			dist.Set(i, j, c.Distance(centroids[j]))
		}
	}

	// greedy assignment, repeatedly commit the globally smallest remaining
	// pair.  Ties break to the first occurrence in row-major scan order
	// and the loop stops once the minimum exceeds the distance gate.  This
	// is an O(R*C) approximation, not an optimal assignment, which is fine
	// at the small object counts of live video and its behaviour is part
	// of the tracker's contract.
	rowUsed := make([]bool, rows)
	colUsed := make([]bool, cols)

	for n := 0; n < rows && n < cols; n++ {

		best := math.Inf(1)
		bi, bj := -1, -1

		for i := 0; i < rows; i++ {
			if rowUsed[i] {
				continue
			}
			for j := 0; j < cols; j++ {
				if colUsed[j] {
					continue
				}
				if d := dist.At(i, j); d < best {
					best = d
					bi, bj = i, j
				}
			}
		}

		if bi < 0 || best > ct.maxDistance {
			break
		}

		rowUsed[bi] = true
		colUsed[bj] = true

		slot := &ct.slots[ct.index[ct.order[bi]]]
		slot.centroid = centroids[bj]
		slot.missed = 0
	}

	// age unmatched tracks, collecting removals first since deregister
	// mutates the order list the row indexes refer to
	var gone []int64

	for i, id := range ct.order {
		if rowUsed[i] {
			continue
		}
		slot := &ct.slots[ct.index[id]]
		slot.missed++
		if slot.missed > ct.maxDisappeared {
			gone = append(gone, id)
		}
	}

	for _, id := range gone {
		ct.deregister(id)
	}

	// register unmatched inputs as new tracks
	for j, used := range colUsed {
		if !used {
			ct.register(centroids[j])
		}
	}

	return ct.snapshot()
}

// IDs returns the live track IDs in registration order
func (ct *CentroidTracker) IDs() []int64 {
	ids := make([]int64, len(ct.order))
	copy(ids, ct.order)
	return ids
}

// Centroid returns the last known centroid for a live track ID
func (ct *CentroidTracker) Centroid(id int64) (Point, bool) {
	slot, ok := ct.index[id]
	if !ok {
		return Point{}, false
	}
	return ct.slots[slot].centroid, true
}

// Missed returns the consecutive unmatched frame count for a live track ID
func (ct *CentroidTracker) Missed(id int64) (int, bool) {
	slot, ok := ct.index[id]
	if !ok {
		return 0, false
	}
	return ct.slots[slot].missed, true
}

// Len returns the number of live tracks
func (ct *CentroidTracker) Len() int {
	return len(ct.order)
}

// register creates a new track for an unmatched input centroid
func (ct *CentroidTracker) register(c Point) {

	ct.nextID++

	slot := trackSlot{
		id:       ct.nextID,
		centroid: c,
	}

	var at int

	// reuse a freed arena slot before growing the table
	if n := len(ct.free); n > 0 {
		at = ct.free[n-1]
		ct.free = ct.free[:n-1]
		ct.slots[at] = slot
	} else {
		at = len(ct.slots)
		ct.slots = append(ct.slots, slot)
	}

	ct.index[ct.nextID] = at
	ct.order = append(ct.order, ct.nextID)
}

// deregister releases a track, its arena slot is marked free rather than
// shifting others so remaining tracks keep a stable iteration order
func (ct *CentroidTracker) deregister(id int64) {

	at, ok := ct.index[id]
	if !ok {
		return
	}

	delete(ct.index, id)
	ct.free = append(ct.free, at)

	for i, oid := range ct.order {
		if oid == id {
			ct.order = append(ct.order[:i], ct.order[i+1:]...)
			break
		}
	}
}

// missAll increments the missed counter of every live track and removes
// those past the disappearance limit
func (ct *CentroidTracker) missAll() {

	var gone []int64

	for _, id := range ct.order {
		slot := &ct.slots[ct.index[id]]
		slot.missed++
		if slot.missed > ct.maxDisappeared {
			gone = append(gone, id)
		}
	}

	for _, id := range gone {
		ct.deregister(id)
	}
}

// snapshot builds the id to centroid mapping of all live tracks
func (ct *CentroidTracker) snapshot() map[int64]Point {
	out := make(map[int64]Point, len(ct.order))
	for _, id := range ct.order {
		out[id] = ct.slots[ct.index[id]].centroid
	}
	return out
}
