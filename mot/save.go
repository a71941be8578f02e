package mot

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/swdee/go-viou/tracker"
)

// SaveTracks writes finished tracks in the MOT challenge result format,
// one row per track frame entry:
//
//	frame, track id, x, y, w, h, score, class, -1, -1
//
// Visually predicted entries have no detection score and are written with
// a score of -1
func SaveTracks(file string, tracks []*tracker.Track) error {

	f, err := os.Create(file)

	if err != nil {
		return fmt.Errorf("error creating file: %w", err)
	}

	defer f.Close()

	w := csv.NewWriter(f)

	for _, track := range tracks {

		scores := track.Scores()

		for i, box := range track.Boxes() {

			score := float32(-1)

			if scores[i].Real() {
				score = scores[i].Value()
			}

			rec := []string{
				strconv.Itoa(track.StartFrame() + i),
				strconv.Itoa(track.TrackID()),
				fmtFloat(box.X()),
				fmtFloat(box.Y()),
				fmtFloat(box.Width()),
				fmtFloat(box.Height()),
				fmtFloat(score),
				strconv.Itoa(track.Class()),
				"-1",
				"-1",
			}

			if err := w.Write(rec); err != nil {
				return fmt.Errorf("error writing track %d: %w",
					track.TrackID(), err)
			}
		}
	}

	w.Flush()

	return w.Error()
}

// fmtFloat formats a coordinate or score with 2 decimal places
func fmtFloat(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', 2, 32)
}
