package tracker

import (
	"testing"
)

// trackAt creates a single detection track with the given box as its
// last box
func trackAt(id int, box Rect) *Track {
	return newTrack(id, 1, NewDetection(box, 0.9, 0), 3)
}

// matchMap converts matched pairs into a track index to detection index map
func matchMap(matches [][2]int) map[int]int {

	m := make(map[int]int, len(matches))

	for _, pair := range matches {
		m[pair[0]] = pair[1]
	}

	return m
}

func TestAssociateEmpty(t *testing.T) {

	tracks := []*Track{
		trackAt(1, NewRect(0, 0, 10, 10)),
	}
	dets := []Detection{
		NewDetection(NewRect(0, 0, 10, 10), 0.9, 0),
	}

	matches, unTracks, unDets, err := Associate(nil, dets, 0.5)

	if err != nil {
		t.Fatalf("Associate returned an error: %v", err)
	}

	if len(matches) != 0 || len(unTracks) != 0 {
		t.Errorf("Expected no matches without tracks, got %v and %v",
			matches, unTracks)
	}

	if len(unDets) != 1 || unDets[0] != 0 {
		t.Errorf("Expected detection 0 unmatched, got %v", unDets)
	}

	matches, unTracks, unDets, err = Associate(tracks, nil, 0.5)

	if err != nil {
		t.Fatalf("Associate returned an error: %v", err)
	}

	if len(matches) != 0 || len(unDets) != 0 {
		t.Errorf("Expected no matches without detections, got %v and %v",
			matches, unDets)
	}

	if len(unTracks) != 1 || unTracks[0] != 0 {
		t.Errorf("Expected track 0 unmatched, got %v", unTracks)
	}
}

func TestAssociateBijection(t *testing.T) {

	tracks := []*Track{
		trackAt(1, NewRect(0, 0, 10, 10)),
		trackAt(2, NewRect(100, 0, 10, 10)),
	}

	// detections given in the opposite order to the tracks
	dets := []Detection{
		NewDetection(NewRect(101, 0, 10, 10), 0.8, 0),
		NewDetection(NewRect(1, 0, 10, 10), 0.7, 0),
	}

	matches, unTracks, unDets, err := Associate(tracks, dets, 0.5)

	if err != nil {
		t.Fatalf("Associate returned an error: %v", err)
	}

	if len(unTracks) != 0 || len(unDets) != 0 {
		t.Errorf("Expected everything matched, got unmatched %v and %v",
			unTracks, unDets)
	}

	m := matchMap(matches)

	if m[0] != 1 || m[1] != 0 {
		t.Errorf("Expected matches 0-1 and 1-0, got %v", matches)
	}
}

func TestAssociateThreshold(t *testing.T) {

	tracks := []*Track{
		trackAt(1, NewRect(0, 0, 10, 10)),
	}

	// IoU of 1/3 is below the 0.5 minimum
	dets := []Detection{
		NewDetection(NewRect(5, 0, 10, 10), 0.9, 0),
	}

	matches, unTracks, unDets, err := Associate(tracks, dets, 0.5)

	if err != nil {
		t.Fatalf("Associate returned an error: %v", err)
	}

	if len(matches) != 0 {
		t.Errorf("Expected no matches below the IoU minimum, got %v", matches)
	}

	if len(unTracks) != 1 || len(unDets) != 1 {
		t.Errorf("Expected both sides unmatched, got %v and %v",
			unTracks, unDets)
	}
}

func TestAssociateExactMinimum(t *testing.T) {

	tracks := []*Track{
		trackAt(1, NewRect(0, 0, 10, 10)),
	}

	// IoU of exactly 0.5 must still be accepted at sigma 0.5
	dets := []Detection{
		NewDetection(NewRect(0, 0, 10, 5), 0.9, 0),
	}

	matches, _, _, err := Associate(tracks, dets, 0.5)

	if err != nil {
		t.Fatalf("Associate returned an error: %v", err)
	}

	if len(matches) != 1 || matches[0] != [2]int{0, 0} {
		t.Errorf("Expected match at the exact IoU minimum, got %v", matches)
	}
}

func TestAssociateOptimalAssignment(t *testing.T) {

	// both tracks overlap detection 0 equally well, but only track 1 can
	// take detection 1, so the minimum total cost solution is forced
	tracks := []*Track{
		trackAt(1, NewRect(0, 0, 10, 10)),
		trackAt(2, NewRect(2, 0, 10, 10)),
	}

	dets := []Detection{
		NewDetection(NewRect(1, 0, 10, 10), 0.9, 0),
		NewDetection(NewRect(4, 0, 10, 10), 0.8, 0),
	}

	matches, unTracks, unDets, err := Associate(tracks, dets, 0.5)

	if err != nil {
		t.Fatalf("Associate returned an error: %v", err)
	}

	if len(unTracks) != 0 || len(unDets) != 0 {
		t.Errorf("Expected everything matched, got unmatched %v and %v",
			unTracks, unDets)
	}

	m := matchMap(matches)

	if m[0] != 0 || m[1] != 1 {
		t.Errorf("Expected matches 0-0 and 1-1, got %v", matches)
	}
}
