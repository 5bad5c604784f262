/*
trackcam assigns stable identities to per-frame object detections from a
video stream.  The core is a centroid based multi-object tracker that
consumes one batch of bounding boxes per frame and maintains an id to
position mapping across frames, deciding which detections continue
existing tracks, which are new objects, and which tracks have vanished.

The detector itself is an opaque collaborator behind the Detector
interface.  A background subtraction based MotionDetector is included so
the example apps run without an inference runtime.

See example code and usage in the example subdirectory.
*/
package trackcam
