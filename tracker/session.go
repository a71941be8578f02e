package tracker

import (
	"fmt"
	"sort"

	"gocv.io/x/gocv"
)

// Config holds the track lifecycle parameters of a Session.  The low
// detection score floor (sigma l) is not part of the core, it is applied
// by the caller before detections reach the Session, eg: mot.Filter
type Config struct {
	// SigmaIOU is the minimum IOU for any association, forward or backward
	SigmaIOU float32
	// SigmaH is the minimum peak detection score a track needs to finish
	SigmaH float32
	// TMin is the minimum number of real detections a track needs to finish
	TMin int
	// TTL is the gap budget, the number of consecutive frames a track may
	// survive on visual prediction alone.  Re-attachment through backward
	// merging can bridge gaps of up to 2*TTL frames.  A value of 0 disables
	// visual tracking and degenerates to plain frame by frame IOU tracking
	TTL int
}

// DefaultConfig returns the tracking parameters used in the V-IOU paper
// for the DETRAC benchmark
func DefaultConfig() Config {
	return Config{
		SigmaIOU: 0.5,
		SigmaH:   0.5,
		TMin:     2,
		TTL:      3,
	}
}

// Session performs V-IOU multi-object tracking over a stream of frames
// and their detections.  It owns the active, extendable and finished
// track pools and the frame window.  Processing is strictly frame
// sequential, a Session must not be used concurrently
type Session struct {
	cfg     Config
	factory VisualTrackerFactory
	window  *FrameWindow
	// track pools
	active     []*Track
	extendable []*Track
	finished   []*Track
	// frameNum is the 1-based number of the last processed frame
	frameNum int
	// trackIDCount assigns unique track IDs in creation order
	trackIDCount int
}

// NewSession creates a tracking session.  The factory seeds the short term
// visual trackers used to bridge detection gaps, eg: vistrack.NewFactory
func NewSession(cfg Config, factory VisualTrackerFactory) *Session {
	return &Session{
		cfg:     cfg,
		factory: factory,
		window:  NewFrameWindow(cfg.TTL + 1),
	}
}

// FrameNum returns the number of frames processed so far
func (s *Session) FrameNum() int {
	return s.frameNum
}

// ActiveTracks returns the tracks currently eligible for direct matching
func (s *Session) ActiveTracks() []*Track {
	return s.active
}

// ExtendableTracks returns the tracks awaiting backward re-attachment
func (s *Session) ExtendableTracks() []*Track {
	return s.extendable
}

// Update processes one frame of detections.  Frames must be fed in order
// with no holes, and detections are expected to be pre-filtered (score
// floor, classes, region of interest).  Any returned error is fatal to
// the session
func (s *Session) Update(frame gocv.Mat, dets []Detection) error {

	s.frameNum++
	s.window.Push(frame)

	matches, _, unmatchedDets, err := Associate(s.active, dets, s.cfg.SigmaIOU)

	if err != nil {
		return fmt.Errorf("frame %d: %w", s.frameNum, err)
	}

	updated := make([]*Track, 0, len(s.active)+len(dets))
	matched := make([]bool, len(s.active))

	// fold matched detections into their tracks
	for _, m := range matches {
		track := s.active[m[0]]
		track.extend(dets[m[1]])
		matched[m[0]] = true

		if track.ttl != s.cfg.TTL {
			// a real match makes the running visual tracker obsolete and
			// restores the full gap budget
			track.ttl = s.cfg.TTL
			track.dropVisualTracker()
		}

		updated = append(updated, track)
	}

	// visually extend active tracks that received no detection this frame
	for i, track := range s.active {
		if matched[i] {
			continue
		}

		if track.ttl <= 0 {
			s.demote(track)
			continue
		}

		if track.ttl == s.cfg.TTL {
			// first gap frame, seed a visual tracker with the last box on
			// the previous buffered frame
			prev, ok := s.window.Previous()

			if !ok {
				// no earlier frame buffered to seed from
				s.demote(track)
				continue
			}

			vt, err := s.factory(track.LastBox(), prev)

			if err != nil {
				return fmt.Errorf("frame %d: creating visual tracker for track %d: %w",
					s.frameNum, track.id, err)
			}

			track.vis = vt
		}

		box, ok := track.vis.Update(s.window.Current())

		if !ok {
			// visual update failed, no box is appended this frame
			s.demote(track)
			continue
		}

		track.ttl--
		track.appendPredicted(box)
		updated = append(updated, track)
	}

	s.expireExtendable()

	// try to re-attach unmatched detections to extendable tracks before
	// spawning new tracks from them
	var spawn []Detection

	for _, di := range unmatchedDets {
		track, err := s.backwardMerge(dets[di])

		if err != nil {
			return err
		}

		if track != nil {
			updated = append(updated, track)
		} else {
			spawn = append(spawn, dets[di])
		}
	}

	for _, det := range spawn {
		s.trackIDCount++
		updated = append(updated, newTrack(s.trackIDCount, s.frameNum, det, s.cfg.TTL))
	}

	// re-partition all touched tracks by remaining gap budget.  When the
	// configured budget itself is 0 a spent budget is the normal condition,
	// tracks then stay active until they actually miss a detection
	s.active = s.active[:0]

	for _, track := range updated {
		if track.ttl == 0 && s.cfg.TTL > 0 {
			s.demote(track)
		} else {
			track.state = Active
			s.active = append(s.active, track)
		}
	}

	return nil
}

// demote moves a track to the extendable pool
func (s *Session) demote(track *Track) {
	track.state = Extendable
	s.extendable = append(s.extendable, track)
}

// expireExtendable drops extendable tracks whose re-attachment window has
// passed.  A track survives while it is still within 2*TTL frames of the
// start of its gap, expired tracks are finalized if they qualify and
// discarded otherwise
func (s *Session) expireExtendable() {

	keep := s.extendable[:0]

	for _, track := range s.extendable {
		if track.startFrame+len(track.boxes)+s.cfg.TTL-track.ttl >= s.frameNum {
			keep = append(keep, track)
			continue
		}

		if track.maxScore >= s.cfg.SigmaH && track.detCount >= s.cfg.TMin {
			track.state = Finished
			s.finished = append(s.finished, track)
		} else {
			track.dropVisualTracker()
		}
	}

	s.extendable = keep
}

// backwardMerge visually tracks the detection backward through the frame
// window and tries to re-attach it to an extendable track.  On success the
// re-attached, promoted track is returned and the detection is consumed.
// nil means no candidate accepted and the detection should spawn a new
// track
func (s *Session) backwardMerge(det Detection) (*Track, error) {

	backward := s.window.Backward()

	if len(backward) == 0 || len(s.extendable) == 0 {
		return nil, nil
	}

	vt, err := s.factory(det.Box, s.window.Current())

	if err != nil {
		return nil, fmt.Errorf("frame %d: creating backward visual tracker: %w",
			s.frameNum, err)
	}

	defer vt.Close()

	var walked []Rect

	for _, f := range backward {
		box, ok := vt.Update(f)

		if !ok {
			// cannot probe further back
			break
		}

		walked = append(walked, box)

		for _, track := range s.mergeCandidates() {
			// offset of the attachment point from the track's tail
			offset := track.startFrame + len(track.boxes) + len(walked) - s.frameNum

			if offset < 1 || offset > s.cfg.TTL-track.ttl {
				continue
			}

			anchor := track.boxes[len(track.boxes)-offset]

			if anchor.CalcIoU(box) < s.cfg.SigmaIOU {
				continue
			}

			track.spliceBackward(walked, offset, det)

			if err := track.checkLengths(); err != nil {
				return nil, fmt.Errorf("frame %d: backward merge: %w",
					s.frameNum, err)
			}

			track.ttl = s.cfg.TTL
			track.dropVisualTracker()
			track.state = Active
			s.removeExtendable(track)
			// should not occur under correct sequencing, but a track that
			// was already finalized must not be emitted twice
			s.removeFinished(track)

			return track, nil
		}
	}

	return nil, nil
}

// mergeCandidates returns a snapshot of the extendable pool ordered by
// descending track length, longer tracks are preferred for re-attachment.
// Equal length candidates are ordered by ascending track ID, ie: creation
// order, so merging is deterministic.  Scanning the snapshot keeps the
// pool safe to mutate on acceptance
func (s *Session) mergeCandidates() []*Track {

	cands := make([]*Track, len(s.extendable))
	copy(cands, s.extendable)

	sort.Slice(cands, func(i, j int) bool {
		if len(cands[i].boxes) != len(cands[j].boxes) {
			return len(cands[i].boxes) > len(cands[j].boxes)
		}

		return cands[i].id < cands[j].id
	})

	return cands
}

// removeExtendable removes the given track from the extendable pool
func (s *Session) removeExtendable(track *Track) {
	for i, t := range s.extendable {
		if t == track {
			s.extendable = append(s.extendable[:i], s.extendable[i+1:]...)
			return
		}
	}
}

// removeFinished removes the given track from the finished pool
func (s *Session) removeFinished(track *Track) {
	for i, t := range s.finished {
		if t == track {
			s.finished = append(s.finished[:i], s.finished[i+1:]...)
			return
		}
	}
}

// Finish finalizes the session at stream end and returns the finished
// tracks.  Surviving active and extendable tracks are evaluated once more
// against the acceptance rule, then every finished track has its trailing
// unconfirmed predictions trimmed and its majority vote class computed.
// The session must not be updated after Finish
func (s *Session) Finish() ([]*Track, error) {

	remaining := make([]*Track, 0, len(s.active)+len(s.extendable))
	remaining = append(remaining, s.active...)
	remaining = append(remaining, s.extendable...)

	for _, track := range remaining {
		if track.maxScore >= s.cfg.SigmaH && track.detCount >= s.cfg.TMin {
			track.state = Finished
			s.finished = append(s.finished, track)
		} else {
			track.dropVisualTracker()
		}
	}

	s.active = nil
	s.extendable = nil

	for _, track := range s.finished {
		if n := s.cfg.TTL - track.ttl; n > 0 {
			track.trimTail(n)
		}

		if err := track.checkLengths(); err != nil {
			return nil, fmt.Errorf("finalizing: %w", err)
		}

		track.class = track.majorityClass()
		track.dropVisualTracker()
	}

	s.window.Close()

	return s.finished, nil
}
