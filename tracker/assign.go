package tracker

import (
	"math"
)

// Assign re-associates input detections with the identity whose current
// centroid is nearest to each detection's own centroid.  Ties break to the
// first minimum found scanning live IDs in the tracker's iteration order.
// The tracker's Update contract only returns positions, labels and
// confidence scores are carried by the detections themselves, so this is
// the required post step after every Update call.
func Assign(ct *CentroidTracker, objects []Object) []TrackedObject {

	out := make([]TrackedObject, 0, len(objects))

	for _, obj := range objects {

		c := obj.Rect.Centroid()

		tracked := TrackedObject{
			Object:   obj,
			Centroid: c,
		}

		best := math.Inf(1)

		for _, id := range ct.order {
			d := ct.slots[ct.index[id]].centroid.Distance(c)
			if d < best {
				best = d
				tracked.TrackID = id
			}
		}

		out = append(out, tracked)
	}

	return out
}
