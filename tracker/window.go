package tracker

import (
	"gocv.io/x/gocv"
)

// FrameWindow is a bounded buffer holding the most recent decoded frames,
// oldest evicted first.  A Session sized to a gap budget of ttl keeps
// ttl+1 frames so backward merging can probe up to ttl frames behind the
// current one.  Frames are cloned on push and released on eviction, the
// caller remains free to reuse or close its own Mat
type FrameWindow struct {
	frames []gocv.Mat
	size   int
}

// NewFrameWindow creates a frame window holding at most size frames.
// A size below 1 is treated as 1
func NewFrameWindow(size int) *FrameWindow {

	if size < 1 {
		size = 1
	}

	return &FrameWindow{
		frames: make([]gocv.Mat, 0, size),
		size:   size,
	}
}

// Push appends a frame to the window, evicting and releasing the oldest
// frame when the window is full
func (w *FrameWindow) Push(frame gocv.Mat) {

	w.frames = append(w.frames, frame.Clone())

	if len(w.frames) > w.size {
		w.frames[0].Close()
		w.frames = w.frames[1:]
	}
}

// Len returns the number of buffered frames
func (w *FrameWindow) Len() int {
	return len(w.frames)
}

// Current returns the most recently pushed frame
func (w *FrameWindow) Current() gocv.Mat {
	return w.frames[len(w.frames)-1]
}

// Previous returns the frame pushed before the current one.  ok is false
// when no earlier frame is buffered
func (w *FrameWindow) Previous() (gocv.Mat, bool) {

	if len(w.frames) < 2 {
		return gocv.Mat{}, false
	}

	return w.frames[len(w.frames)-2], true
}

// Backward returns the buffered frames before the current one ordered
// newest first, the walk order used for backward merging
func (w *FrameWindow) Backward() []gocv.Mat {

	if len(w.frames) < 2 {
		return nil
	}

	back := make([]gocv.Mat, 0, len(w.frames)-1)

	for i := len(w.frames) - 2; i >= 0; i-- {
		back = append(back, w.frames[i])
	}

	return back
}

// Close releases all buffered frames
func (w *FrameWindow) Close() {
	for _, f := range w.frames {
		f.Close()
	}

	w.frames = nil
}
