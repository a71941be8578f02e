package mot

import (
	"errors"
	"image"
	"math"

	clipper "github.com/ctessum/go.clipper"
	"github.com/swdee/go-viou/tracker"
)

// Filter restricts a frame's detections before they reach the tracking
// core.  The zero value keeps everything
type Filter struct {
	// MinScore is the low detection score floor (sigma l)
	MinScore float32
	// Classes is the class label allowlist, empty keeps all classes
	Classes []int
	// Region keeps only detections sufficiently visible inside a region
	// of interest, nil disables region filtering
	Region *ROI
}

// Apply returns the detections that pass all configured filters
func (f Filter) Apply(dets []tracker.Detection) []tracker.Detection {

	out := make([]tracker.Detection, 0, len(dets))

	for _, det := range dets {

		if det.Score < f.MinScore {
			continue
		}

		if len(f.Classes) > 0 && !containsInt(f.Classes, det.Label) {
			continue
		}

		if f.Region != nil && !f.Region.Contains(det.Box) {
			continue
		}

		out = append(out, det)
	}

	return out
}

// containsInt checks if a given int exists in the slice
func containsInt(slice []int, item int) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}

	return false
}

// roiScale lifts coordinates into clipper's integer space at sub pixel
// precision.  Ratios of clipped areas are unaffected by the scale
const roiScale = 256

// ROI is a polygonal region of interest.  A detection passes when the
// clipped area of its box inside the region covers at least the minimum
// visible ratio of the box
type ROI struct {
	poly       clipper.Path
	minVisible float64
}

// NewRectROI creates a rectangular region of interest from x, y, width
// and height.  minVisible is the minimum visible area ratio in [0,1],
// eg: 0.5 requires half of a detection box inside the region
func NewRectROI(x, y, w, h float32, minVisible float64) *ROI {
	return &ROI{
		poly:       rectPath(tracker.NewRect(x, y, w, h)),
		minVisible: minVisible,
	}
}

// NewPolyROI creates a region of interest from an arbitrary closed
// polygon of at least 3 points
func NewPolyROI(points []image.Point, minVisible float64) (*ROI, error) {

	if len(points) < 3 {
		return nil, errors.New("a region polygon needs at least 3 points")
	}

	poly := make(clipper.Path, 0, len(points))

	for _, p := range points {
		poly = append(poly, &clipper.IntPoint{
			X: clipper.CInt(p.X * roiScale),
			Y: clipper.CInt(p.Y * roiScale),
		})
	}

	return &ROI{
		poly:       poly,
		minVisible: minVisible,
	}, nil
}

// Contains reports whether the box is sufficiently visible inside the
// region
func (r *ROI) Contains(box tracker.Rect) bool {

	boxPath := rectPath(box)
	boxArea := math.Abs(clipper.Area(boxPath))

	if boxArea == 0 {
		return false
	}

	// clip the box against the region polygon
	c := clipper.NewClipper(clipper.IoNone)
	c.AddPath(boxPath, clipper.PtSubject, true)
	c.AddPath(r.poly, clipper.PtClip, true)

	solution, ok := c.Execute1(clipper.CtIntersection, clipper.PftNonZero,
		clipper.PftNonZero)

	if !ok {
		return false
	}

	visible := 0.0

	for _, p := range solution {
		visible += math.Abs(clipper.Area(p))
	}

	return visible/boxArea >= r.minVisible
}

// rectPath converts a rectangle to a clipper polygon path
func rectPath(r tracker.Rect) clipper.Path {
	return clipper.Path{
		&clipper.IntPoint{X: ci(r.TLX()), Y: ci(r.TLY())},
		&clipper.IntPoint{X: ci(r.BRX()), Y: ci(r.TLY())},
		&clipper.IntPoint{X: ci(r.BRX()), Y: ci(r.BRY())},
		&clipper.IntPoint{X: ci(r.TLX()), Y: ci(r.BRY())},
	}
}

// ci converts a coordinate to clipper's scaled integer space
func ci(v float32) clipper.CInt {
	return clipper.CInt(math.Round(float64(v) * roiScale))
}
