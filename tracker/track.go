package tracker

import (
	"fmt"
)

// TrackState represents the lifecycle state of a track
type TrackState int

const (
	// Active tracks have an unspent gap budget and are eligible for
	// direct detection matching
	Active TrackState = 0
	// Extendable tracks have spent their gap budget and await a
	// re-attaching detection via backward merging
	Extendable TrackState = 1
	// Finished is the terminal accepted state emitted in the output
	Finished TrackState = 2
)

// String returns a readable name of the track state
func (s TrackState) String() string {
	switch s {
	case Active:
		return "active"
	case Extendable:
		return "extendable"
	case Finished:
		return "finished"
	default:
		return fmt.Sprintf("unknown state %d", int(s))
	}
}

// Track represents a single tracked object.  It holds one box and score
// entry per frame from its start frame onwards with no holes, where each
// entry is either a real observation or a visually predicted one.  A Track
// is exclusively owned and mutated by its Session
type Track struct {
	// id is the unique track ID, assigned in creation order
	id int
	// startFrame is the frame number of the first observation
	startFrame int
	// boxes holds one bounding box per frame
	boxes []Rect
	// scores holds one tagged score per frame, same length as boxes
	scores []Score
	// classes holds the class label of every real detection consumed
	classes []int
	// maxScore is the running maximum of matched detection scores
	maxScore float32
	// detCount is the number of real detections matched
	detCount int
	// ttl is the remaining gap budget, the number of consecutive frames
	// the track may still survive on visual prediction alone
	ttl int
	// vis is the running visual tracker, present only while bridging a gap
	vis VisualTracker
	// state is the current lifecycle state
	state TrackState
	// class is the majority voted class label, set by the finalizer
	class int
}

// newTrack creates a track from a detection that could not be matched or
// backward merged
func newTrack(id, frameNum int, det Detection, ttl int) *Track {
	return &Track{
		id:         id,
		startFrame: frameNum,
		boxes:      []Rect{det.Box},
		scores:     []Score{RealScore(det.Score)},
		classes:    []int{det.Label},
		maxScore:   det.Score,
		detCount:   1,
		ttl:        ttl,
		state:      Active,
		class:      -1,
	}
}

// TrackID returns the unique ID of the track
func (t *Track) TrackID() int {
	return t.id
}

// StartFrame returns the frame number of the first observation
func (t *Track) StartFrame() int {
	return t.startFrame
}

// EndFrame returns the frame number of the last entry
func (t *Track) EndFrame() int {
	return t.startFrame + len(t.boxes) - 1
}

// Len returns the number of frame entries on the track
func (t *Track) Len() int {
	return len(t.boxes)
}

// Boxes returns the per frame bounding boxes of the track
func (t *Track) Boxes() []Rect {
	return t.boxes
}

// Scores returns the per frame tagged scores of the track
func (t *Track) Scores() []Score {
	return t.scores
}

// Classes returns the class labels of all real detections consumed
func (t *Track) Classes() []int {
	return t.classes
}

// LastBox returns the most recent box of the track
func (t *Track) LastBox() Rect {
	return t.boxes[len(t.boxes)-1]
}

// MaxScore returns the highest detection score matched to the track
func (t *Track) MaxScore() float32 {
	return t.maxScore
}

// DetCount returns the number of real detections matched to the track,
// predicted entries are excluded
func (t *Track) DetCount() int {
	return t.detCount
}

// TTL returns the remaining gap budget of the track
func (t *Track) TTL() int {
	return t.ttl
}

// State returns the current lifecycle state of the track
func (t *Track) State() TrackState {
	return t.state
}

// Class returns the majority voted class label of a finished track.  It
// returns -1 before finalization
func (t *Track) Class() int {
	return t.class
}

// extend appends a matched detection to the track
func (t *Track) extend(det Detection) {
	t.boxes = append(t.boxes, det.Box)
	t.scores = append(t.scores, RealScore(det.Score))
	t.classes = append(t.classes, det.Label)
	t.detCount++

	if det.Score > t.maxScore {
		t.maxScore = det.Score
	}
}

// appendPredicted appends a visually predicted box to the track
func (t *Track) appendPredicted(box Rect) {
	t.boxes = append(t.boxes, box)
	t.scores = append(t.scores, PredictedScore())
}

// spliceBackward re-attaches the track to a detection found offset frames
// after the entry it anchors to.  Unconfirmed predictions past the
// attachment point are dropped, then the backward walked boxes and the
// detection itself are stitched onto the tail.  walked is ordered newest
// to oldest, its last entry lands on the attachment frame which already
// has a box, so it is skipped
func (t *Track) spliceBackward(walked []Rect, offset int, det Detection) {

	if offset > 1 {
		t.boxes = t.boxes[:len(t.boxes)-offset+1]
		t.scores = t.scores[:len(t.scores)-offset+1]
	}

	for i := len(walked) - 2; i >= 0; i-- {
		t.boxes = append(t.boxes, walked[i])
		t.scores = append(t.scores, PredictedScore())
	}

	t.boxes = append(t.boxes, det.Box)
	t.scores = append(t.scores, RealScore(det.Score))
	t.classes = append(t.classes, det.Label)
	t.detCount++

	if det.Score > t.maxScore {
		t.maxScore = det.Score
	}
}

// trimTail drops the last n entries from the track.  Used by the finalizer
// to remove trailing predictions that were never confirmed by a detection
func (t *Track) trimTail(n int) {
	t.boxes = t.boxes[:len(t.boxes)-n]
	t.scores = t.scores[:len(t.scores)-n]
}

// dropVisualTracker closes and discards the running visual tracker, if any
func (t *Track) dropVisualTracker() {
	if t.vis != nil {
		t.vis.Close()
		t.vis = nil
	}
}

// checkLengths verifies the box and score sequences are equal length.  A
// mismatch indicates a bug in the splicing logic and is a hard error,
// never something to silently patch
func (t *Track) checkLengths() error {

	if len(t.boxes) != len(t.scores) {
		return fmt.Errorf("track %d: %d boxes but %d scores",
			t.id, len(t.boxes), len(t.scores))
	}

	return nil
}

// majorityClass returns the most frequent class label among all real
// detections consumed.  Ties are broken in favour of the label seen first
func (t *Track) majorityClass() int {

	if len(t.classes) == 0 {
		return -1
	}

	counts := make(map[int]int, len(t.classes))
	seen := make(map[int]bool, len(t.classes))
	order := make([]int, 0, len(t.classes))

	for _, c := range t.classes {
		counts[c]++

		if !seen[c] {
			seen[c] = true
			order = append(order, c)
		}
	}

	best := order[0]

	for _, c := range order[1:] {
		if counts[c] > counts[best] {
			best = c
		}
	}

	return best
}
