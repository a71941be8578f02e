package mot

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/swdee/go-viou/tracker"
	"gocv.io/x/gocv"
)

func TestSaveTracks(t *testing.T) {

	// run a minimal session so the saved track carries a predicted entry
	// that was later confirmed by a detection
	s := tracker.NewSession(tracker.DefaultConfig(),
		func(seed tracker.Rect, frame gocv.Mat) (tracker.VisualTracker, error) {
			return stillTracker{box: seed}, nil
		})

	frame := gocv.NewMatWithSize(8, 8, gocv.MatTypeCV8UC3)
	defer frame.Close()

	feed := [][]tracker.Detection{
		{tracker.NewDetection(tracker.NewRect(10, 20, 30, 40), 0.9, 2)},
		nil,
		{tracker.NewDetection(tracker.NewRect(11, 20, 30, 40), 0.8, 2)},
	}

	for _, dets := range feed {
		if err := s.Update(frame, dets); err != nil {
			t.Fatalf("Update returned an error: %v", err)
		}
	}

	tracks, err := s.Finish()

	if err != nil {
		t.Fatalf("Finish returned an error: %v", err)
	}

	if len(tracks) != 1 {
		t.Fatalf("Expected 1 finished track, but got %d", len(tracks))
	}

	file := filepath.Join(t.TempDir(), "tracks.csv")

	if err := SaveTracks(file, tracks); err != nil {
		t.Fatalf("SaveTracks returned an error: %v", err)
	}

	data, err := os.ReadFile(file)

	if err != nil {
		t.Fatalf("Error reading output file: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")

	expected := []string{
		"1,1,10.00,20.00,30.00,40.00,0.90,2,-1,-1",
		"2,1,10.00,20.00,30.00,40.00,-1.00,2,-1,-1",
		"3,1,11.00,20.00,30.00,40.00,0.80,2,-1,-1",
	}

	if len(lines) != len(expected) {
		t.Fatalf("Expected %d rows, but got %d", len(expected), len(lines))
	}

	for i, line := range lines {
		if line != expected[i] {
			t.Errorf("Expected row %d to be %q, but got %q",
				i+1, expected[i], line)
		}
	}
}

// stillTracker reports its seed box on every update
type stillTracker struct {
	box tracker.Rect
}

func (s stillTracker) Update(frame gocv.Mat) (tracker.Rect, bool) {
	return s.box, true
}

func (s stillTracker) Close() {}
