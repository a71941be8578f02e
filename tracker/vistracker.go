package tracker

import (
	"gocv.io/x/gocv"
)

// VisualTracker is the narrow interface the Session consumes for short
// term single object tracking, used to bridge detection gaps both forward
// and during backward merging.  Multiple independent instances may be live
// at once, one per track currently bridging a gap plus transient instances
// used for backward probing
type VisualTracker interface {
	// Update runs the tracker against the given frame and returns the
	// predicted box.  ok is false when the tracker lost the object, in
	// which case the box is meaningless
	Update(frame gocv.Mat) (box Rect, ok bool)
	// Close releases any resources held by the tracker
	Close()
}

// VisualTrackerFactory seeds a new visual tracker instance with the given
// box on the given frame.  The tracking algorithm and visibility ratio are
// bound by the factory provider, eg: vistrack.NewFactory, the Session never
// inspects them
type VisualTrackerFactory func(seed Rect, frame gocv.Mat) (VisualTracker, error)
