package main

import (
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	viou "github.com/swdee/go-viou"
	"github.com/swdee/go-viou/mot"
	"github.com/swdee/go-viou/render"
	"github.com/swdee/go-viou/tracker"
	"github.com/swdee/go-viou/vistrack"
	"gocv.io/x/gocv"
)

func main() {

	// disable logging timestamps
	log.SetFlags(0)

	detFile := flag.String("d", "", "MOT detections CSV file to load")
	imgDir := flag.String("i", "", "Directory to read frame images from")
	imgPattern := flag.String("p", "%06d.jpg", "Frame image file name pattern")
	vidFile := flag.String("v", "", "Video file to read frames from instead of an image directory")
	outFile := flag.String("o", "tracks.csv", "Output CSV file to write track results to")
	annotFile := flag.String("a", "", "Optional annotated video file to render track results to")
	algorithm := flag.String("t", vistrack.MIL, "Visual tracker algorithm, one of mil, kcf, or csrt")
	ratio := flag.Float64("kr", 1.0, "Upper fraction of the box height handed to the visual tracker, 1.0 uses the full box")
	sigmaL := flag.Float64("sigmal", 0.3, "Minimum score for a detection to be considered at all")
	sigmaH := flag.Float64("sigmah", 0.5, "Minimum best score a track must reach to be kept")
	sigmaIOU := flag.Float64("sigmaiou", 0.5, "Minimum IoU for associating a detection with a track")
	tMin := flag.Int("tmin", 2, "Minimum number of real detections a track must have to be kept")
	ttl := flag.Int("ttl", 3, "Number of frames a lost track is visually extended for")
	classList := flag.String("c", "", "Comma delimited list of class IDs to keep, eg: 1,2,7")
	withClasses := flag.Bool("wc", false, "Detections file carries class and visibility columns")
	labelFile := flag.String("l", "", "Optional labels text file with one class name per line")
	roiStr := flag.String("roi", "", "Optional region of interest as x,y,w,h,minvisible, eg: 0,0,640,480,0.5")
	fps := flag.Float64("fps", 30, "FPS of the annotated output video")
	ttfFile := flag.String("ttf", "", "Optional TTF font for the annotated video caption, needed for non-Latin label sets")
	ttfSize := flag.Float64("ttfsize", 20, "Point size of the TTF caption font")

	flag.Parse()

	if *detFile == "" {
		log.Fatal("A detections file must be given with -d")
	}

	if *imgDir == "" && *vidFile == "" {
		log.Fatal("A frame source must be given with -i or -v")
	}

	// load detections per frame
	dets, err := mot.LoadDetections(*detFile, *withClasses)

	if err != nil {
		log.Fatalf("Error loading detections: %v", err)
	}

	// build detection filter
	filter := mot.Filter{
		MinScore: float32(*sigmaL),
	}

	if *classList != "" {
		filter.Classes, err = parseClasses(*classList)

		if err != nil {
			log.Fatalf("Error parsing class list: %v", err)
		}
	}

	if *roiStr != "" {
		filter.Region, err = parseROI(*roiStr)

		if err != nil {
			log.Fatalf("Error parsing ROI: %v", err)
		}
	}

	// open frame source
	var source viou.FrameSource
	// closeFrame is set when the source decodes frames on demand and the
	// caller owns each returned Mat
	closeFrame := false
	numFrames := len(dets)

	if *vidFile != "" {
		vs, err := viou.NewVideoSource(*vidFile)

		if err != nil {
			log.Fatalf("Error opening video: %v", err)
		}

		if vs.Len() > numFrames {
			numFrames = vs.Len()
		}

		source = vs

	} else {
		source = viou.NewPatternSource(*imgDir, *imgPattern)
		closeFrame = true
	}

	defer source.Close()

	// create the visual tracker factory
	factory, err := vistrack.NewFactory(*algorithm, float32(*ratio))

	if err != nil {
		log.Fatalf("Error creating visual tracker factory: %v", err)
	}

	cfg := tracker.Config{
		SigmaIOU: float32(*sigmaIOU),
		SigmaH:   float32(*sigmaH),
		TMin:     *tMin,
		TTL:      *ttl,
	}

	sess := tracker.NewSession(cfg, factory)

	// run tracking over all frames
	start := time.Now()

	for n := 1; n <= numFrames; n++ {

		frame, err := source.Frame(n)

		if err != nil {
			log.Fatalf("Error reading frame %d: %v", n, err)
		}

		var frameDets []tracker.Detection

		if n <= len(dets) {
			frameDets = filter.Apply(dets[n-1])
		}

		err = sess.Update(frame, frameDets)

		if closeFrame {
			frame.Close()
		}

		if err != nil {
			log.Fatalf("Error tracking frame %d: %v", n, err)
		}
	}

	tracks, err := sess.Finish()

	if err != nil {
		log.Fatalf("Error finishing tracking: %v", err)
	}

	log.Printf("Tracked %d frames in %s, %d tracks kept", numFrames,
		time.Since(start).Round(time.Millisecond), len(tracks))

	// write track results
	err = mot.SaveTracks(*outFile, tracks)

	if err != nil {
		log.Fatalf("Error saving track results: %v", err)
	}

	log.Printf("Track results written to %s", *outFile)

	if *annotFile == "" {
		return
	}

	// load class names for labelling the annotated video
	var labels []string

	if *labelFile != "" {
		labels, err = viou.LoadLabels(*labelFile)

		if err != nil {
			log.Fatalf("Error loading labels: %v", err)
		}
	}

	var caption *render.TTFFont

	if *ttfFile != "" {
		caption, err = render.LoadTTFFont(*ttfFile, *ttfSize)

		if err != nil {
			log.Fatalf("Error loading TTF font: %v", err)
		}

		defer caption.Close()
	}

	err = writeAnnotated(*annotFile, source, closeFrame, tracks, numFrames,
		labels, caption, *fps)

	if err != nil {
		log.Fatalf("Error writing annotated video: %v", err)
	}

	log.Printf("Annotated video written to %s", *annotFile)
}

// writeAnnotated renders the track results over the source frames and writes
// them out as a video file
func writeAnnotated(file string, source viou.FrameSource, closeFrame bool,
	tracks []*tracker.Track, numFrames int, labels []string,
	caption *render.TTFFont, fps float64) error {

	var writer *gocv.VideoWriter
	font := render.DefaultFont()
	style := render.DefaultTrailStyle()

	for n := 1; n <= numFrames; n++ {

		frame, err := source.Frame(n)

		if err != nil {
			return fmt.Errorf("error reading frame %d: %w", n, err)
		}

		if writer == nil {
			writer, err = gocv.VideoWriterFile(file, "mp4v", fps,
				frame.Cols(), frame.Rows(), true)

			if err != nil {
				if closeFrame {
					frame.Close()
				}

				return fmt.Errorf("error creating video writer: %w", err)
			}

			defer writer.Close()
		}

		canvas := frame.Clone()

		if closeFrame {
			frame.Close()
		}

		render.Trail(&canvas, tracks, n, style)
		render.TrackBoxes(&canvas, tracks, n, labels, font, 2)

		if caption != nil {
			text := fmt.Sprintf("frame %d / %d", n, numFrames)

			err = caption.DrawLabel(&canvas, text, 8, 24, render.White)

			if err != nil {
				canvas.Close()
				return fmt.Errorf("error drawing caption on frame %d: %w", n, err)
			}
		}

		err = writer.Write(canvas)
		canvas.Close()

		if err != nil {
			return fmt.Errorf("error writing frame %d: %w", n, err)
		}
	}

	return nil
}

// parseClasses parses a comma delimited list of class IDs
func parseClasses(list string) ([]int, error) {

	parts := strings.Split(list, ",")
	classes := make([]int, 0, len(parts))

	for _, part := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(part))

		if err != nil {
			return nil, fmt.Errorf("invalid class ID %q: %w", part, err)
		}

		classes = append(classes, id)
	}

	return classes, nil
}

// parseROI parses a region of interest given as x,y,w,h,minvisible
func parseROI(str string) (*mot.ROI, error) {

	parts := strings.Split(str, ",")

	if len(parts) != 5 {
		return nil, fmt.Errorf("ROI must have 5 values, got %d", len(parts))
	}

	vals := make([]float64, 5)

	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)

		if err != nil {
			return nil, fmt.Errorf("invalid ROI value %q: %w", part, err)
		}

		vals[i] = v
	}

	return mot.NewRectROI(float32(vals[0]), float32(vals[1]),
		float32(vals[2]), float32(vals[3]), vals[4]), nil
}
