// Package vistrack provides OpenCV backed short term visual trackers for
// the tracking core, selected by algorithm name behind a factory.
package vistrack

import (
	"fmt"
	"strings"

	"github.com/swdee/go-viou/tracker"
	"gocv.io/x/gocv"
	"gocv.io/x/gocv/contrib"
)

// Supported visual tracker algorithm names
const (
	// MIL is the Multiple Instance Learning tracker
	MIL = "MIL"
	// KCF is the Kernelized Correlation Filter tracker
	KCF = "KCF"
	// CSRT is the Channel and Spatial Reliability tracker, slower but
	// more accurate than KCF
	CSRT = "CSRT"
)

// VisTracker wraps a GoCV single object tracker and applies the
// visibility ratio, tracking only the upper portion of the object's
// height and restoring the full height on every predicted box.  A ratio
// below 1 helps with objects whose lower part is frequently occluded,
// eg: pedestrians in a crowd
type VisTracker struct {
	tr    gocv.Tracker
	ratio float32
	// failed is set when tracker initialization was rejected, all
	// updates then report a lost object
	failed bool
}

// NewFactory returns a tracker.VisualTrackerFactory producing visual
// trackers of the named algorithm, one of MIL, KCF or CSRT.  The
// visibility ratio must be in the range (0,1], a value of 1 tracks the
// full box
func NewFactory(algorithm string, visibilityRatio float32) (tracker.VisualTrackerFactory, error) {

	alg := strings.ToUpper(strings.TrimSpace(algorithm))

	switch alg {
	case MIL, KCF, CSRT:
	default:
		return nil, fmt.Errorf("unknown visual tracker algorithm %q", algorithm)
	}

	if visibilityRatio <= 0 || visibilityRatio > 1 {
		return nil, fmt.Errorf("visibility ratio %f is outside the range (0,1]",
			visibilityRatio)
	}

	return func(seed tracker.Rect, frame gocv.Mat) (tracker.VisualTracker, error) {

		var tr gocv.Tracker

		switch alg {
		case MIL:
			tr = gocv.NewTrackerMIL()
		case KCF:
			tr = contrib.NewTrackerKCF()
		case CSRT:
			tr = contrib.NewTrackerCSRT()
		}

		v := &VisTracker{
			tr:    tr,
			ratio: visibilityRatio,
		}

		if ok := tr.Init(frame, v.shrink(seed).ToImage()); !ok {
			// initialization rejected, treat the object as already lost
			// rather than failing the whole run
			v.failed = true
		}

		return v, nil
	}, nil
}

// Update runs the wrapped tracker against the given frame.  ok is false
// when the object was lost
func (v *VisTracker) Update(frame gocv.Mat) (tracker.Rect, bool) {

	if v.failed {
		return tracker.Rect{}, false
	}

	r, ok := v.tr.Update(frame)

	if !ok {
		return tracker.Rect{}, false
	}

	return v.grow(tracker.RectFromImage(r)), true
}

// Close releases the wrapped tracker
func (v *VisTracker) Close() {
	v.tr.Close()
}

// shrink reduces the box to the upper visibility portion of its height
func (v *VisTracker) shrink(box tracker.Rect) tracker.Rect {
	return tracker.NewRect(box.X(), box.Y(), box.Width(), box.Height()*v.ratio)
}

// grow restores a tracked box back to the full object height
func (v *VisTracker) grow(box tracker.Rect) tracker.Rect {
	return tracker.NewRect(box.X(), box.Y(), box.Width(), box.Height()/v.ratio)
}
