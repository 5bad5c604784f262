/*
trackcam demo streams a video file over HTTP with multi-object tracking
overlays and logs the enriched detections to SQLite and/or a remote
logging endpoint.

The whole video is buffered into memory and replayed to each connecting
client at the configured frame rate, each client connection gets its own
fresh tracker so identities never leak between runs.
*/
package main

import (
	"flag"
	"fmt"
	"image"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"gocv.io/x/gocv"

	"github.com/centroidlabs/trackcam"
	"github.com/centroidlabs/trackcam/pump"
	"github.com/centroidlabs/trackcam/render"
	"github.com/centroidlabs/trackcam/sink"
	"github.com/centroidlabs/trackcam/tracker"
	"github.com/centroidlabs/trackcam/zone"
)

// Demo holds the shared state of the streaming server
type Demo struct {
	// vidBuffer buffers the video frames into memory
	vidBuffer []gocv.Mat
	// labels are the class names used on overlays and log records
	labels []string
	// queue drains detection records to the configured sinks
	queue *sink.Queue
	// zone optionally restricts detections to a region of interest
	zone *zone.Zone
	// ttf optionally draws a TrueType status header on each frame
	ttf *render.TTFLabel
	// tracking settings shared by every client run
	fps            int
	maxDisappeared int
	maxDistance    float64
	minArea        float64
}

// bufferSource replays buffered frames in a loop as a pump Source
type bufferSource struct {
	frames []gocv.Mat
	next   int
	mu     sync.Mutex
}

func (b *bufferSource) Read(img *gocv.Mat) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.frames) == 0 {
		return false
	}

	b.frames[b.next].CopyTo(img)

	b.next++
	if b.next >= len(b.frames) {
		b.next = 0
	}

	return true
}

// Close is a no-op, the underlying buffer is shared across client runs
func (b *bufferSource) Close() error {
	return nil
}

// NewDemo buffers the video and prepares the shared tracking settings
func NewDemo(vidFile string, fps, maxDisappeared int, maxDistance, minArea float64) (*Demo, error) {

	d := &Demo{
		labels:         []string{"motion"},
		fps:            fps,
		maxDisappeared: maxDisappeared,
		maxDistance:    maxDistance,
		minArea:        minArea,
	}

	if err := d.bufferVideo(vidFile); err != nil {
		return nil, fmt.Errorf("error buffering video: %w", err)
	}

	return d, nil
}

// bufferVideo reads in the video frames and saves them to a buffer
func (d *Demo) bufferVideo(vidFile string) error {

	video, err := gocv.VideoCaptureFile(vidFile)

	if err != nil {
		return err
	}

	defer video.Close()

	d.vidBuffer = make([]gocv.Mat, 0)

	for {
		img := gocv.NewMat()

		// read the next frame from the video
		if ok := video.Read(&img); !ok {
			// reached last video frame
			break
		}

		if img.Empty() {
			continue
		}

		d.vidBuffer = append(d.vidBuffer, img)
	}

	if len(d.vidBuffer) == 0 {
		return fmt.Errorf("no frames read from %s", vidFile)
	}

	log.Printf("Buffered %d video frames", len(d.vidBuffer))

	return nil
}

// Stream is the HTTP handler function used to stream annotated video
// frames to the browser
func (d *Demo) Stream(w http.ResponseWriter, r *http.Request) {

	log.Printf("New client connection established")

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")

	flusher, _ := w.(http.Flusher)

	// each client run gets a fresh tracker and detector so no identities
	// or background model leak across runs
	ct, err := tracker.NewCentroidTracker(d.maxDisappeared, d.maxDistance)

	if err != nil {
		log.Printf("Error creating tracker: %v", err)
		http.Error(w, "tracker configuration invalid", http.StatusInternalServerError)
		return
	}

	detector := trackcam.NewMotionDetector(d.minArea)
	defer detector.Close()

	trail := tracker.NewTrail(30)
	font := render.DefaultFont()

	onFrame := func(img *gocv.Mat, tracked []tracker.TrackedObject, frameNum int) {

		for _, obj := range tracked {
			trail.Add(obj)
		}
		trail.Prune(ct.IDs())

		render.TrackedBoxes(img, tracked, d.labels, font, 2)
		render.Trail(img, tracked, trail, render.DefaultTrailStyle())

		if d.ttf != nil {
			header := fmt.Sprintf("frame %d, %d tracks", frameNum, ct.Len())
			if err := d.ttf.Put(img, header, 8, 28, render.Yellow); err != nil {
				log.Printf("Error drawing header: %v", err)
			}
		}

		buf, err := gocv.IMEncode(".jpg", *img)

		if err != nil {
			log.Printf("Error encoding frame %d: %v", frameNum, err)
			return
		}

		defer buf.Close()

		w.Write([]byte("--frame\r\n"))
		w.Write([]byte("Content-Type: image/jpeg\r\n\r\n"))
		w.Write(buf.GetBytes())
		w.Write([]byte("\r\n"))

		if flusher != nil {
			flusher.Flush()
		}
	}

	p, err := pump.New(&bufferSource{frames: d.vidBuffer}, pump.Config{
		FPS:      d.fps,
		Detector: detector,
		Tracker:  ct,
		Zone:     d.zone,
		Labels:   d.labels,
		Queue:    d.queue,
		OnFrame:  onFrame,
	})

	if err != nil {
		log.Printf("Error creating pump: %v", err)
		return
	}

	// runs until the client disconnects
	if err := p.Run(r.Context()); err != nil {
		log.Printf("Client disconnected: %v", err)
	}
}

// parseZone parses a polygon given as "x1,y1;x2,y2;..." flag text
func parseZone(text string, minOverlap float64) (*zone.Zone, error) {

	if text == "" {
		return nil, nil
	}

	var points []image.Point

	for _, pair := range strings.Split(text, ";") {

		coords := strings.Split(strings.TrimSpace(pair), ",")

		if len(coords) != 2 {
			return nil, fmt.Errorf("invalid zone point %q", pair)
		}

		x, err := strconv.Atoi(strings.TrimSpace(coords[0]))
		if err != nil {
			return nil, fmt.Errorf("invalid zone point %q: %w", pair, err)
		}

		y, err := strconv.Atoi(strings.TrimSpace(coords[1]))
		if err != nil {
			return nil, fmt.Errorf("invalid zone point %q: %w", pair, err)
		}

		points = append(points, image.Pt(x, y))
	}

	return zone.New(points, minOverlap)
}

func main() {
	// disable logging timestamps
	log.SetFlags(0)

	// read in cli flags
	vidFile := flag.String("v", "../data/palace.mp4", "Video file to run object tracking on")
	httpAddr := flag.String("a", "localhost:8080", "HTTP Address to run server on, format address:port")
	labelFile := flag.String("l", "", "Optional text file containing detector class labels")
	fontFile := flag.String("font", "", "Optional TTF font file for the on frame status header")
	fontSize := flag.Float64("fontsize", 20, "Point size of the status header font")
	dbFile := flag.String("db", "", "Optional SQLite file to log detections to")
	logURL := flag.String("log", "", "Optional HTTP endpoint to post detection batches to")
	fps := flag.Int("fps", 30, "Frames per second to process")
	maxDisappeared := flag.Int("maxdis", 15, "Frames an object may go unmatched before its track is removed")
	maxDistance := flag.Float64("maxdist", 80, "Maximum centroid distance in pixels for a match")
	minArea := flag.Float64("minarea", 500, "Minimum moving contour area in pixels to detect")
	zoneFlag := flag.String("zone", "", "Optional detection zone polygon, format x1,y1;x2,y2;x3,y3...")
	zoneOverlap := flag.Float64("zoneoverlap", 0.5, "Fraction of a box that must overlap the zone")

	flag.Parse()

	demo, err := NewDemo(*vidFile, *fps, *maxDisappeared, *maxDistance, *minArea)

	if err != nil {
		log.Fatalf("Error creating demo: %v", err)
	}

	if *labelFile != "" {
		demo.labels, err = trackcam.LoadLabels(*labelFile)
		if err != nil {
			log.Fatalf("Error loading labels: %v", err)
		}
	}

	if *fontFile != "" {
		demo.ttf, err = render.NewTTFLabel(*fontFile, *fontSize)
		if err != nil {
			log.Fatalf("Error loading font: %v", err)
		}
	}

	demo.zone, err = parseZone(*zoneFlag, *zoneOverlap)

	if err != nil {
		log.Fatalf("Error parsing zone: %v", err)
	}

	// assemble the logging sinks, batches fan out to all of them
	var sinks sink.Multi
	var store *sink.SQLiteStore

	if *dbFile != "" {
		store, err = sink.NewSQLiteStore(*dbFile)
		if err != nil {
			log.Fatalf("Error opening detection store: %v", err)
		}
		sinks = append(sinks, store)
	}

	if *logURL != "" {
		sinks = append(sinks, sink.NewHTTPSink(*logURL, nil))
	}

	if len(sinks) > 0 {
		demo.queue = sink.NewQueue(sinks, 64)
	}

	http.HandleFunc("/stream", demo.Stream)

	log.Println(fmt.Sprintf("Open browser and view video at http://%s/stream", *httpAddr))

	err = http.ListenAndServe(*httpAddr, nil)

	// flush buffered detection batches before exiting
	if demo.queue != nil {
		demo.queue.Close()
	}

	if store != nil {
		store.Close()
	}

	log.Fatalf("Error running HTTP server: %v", err)
}
