// Package mot reads and writes MOT challenge files and filters detections
// before they are fed into the tracking core.
package mot

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/swdee/go-viou/tracker"
)

// LoadDetections reads a MOT challenge detection file into per frame
// detection batches.  Rows have the comma separated layout
//
//	frame, id, x, y, w, h, score[, class, visibility]
//
// with 1-based frame numbers.  The returned slice is indexed by frame-1
// and sized to the highest frame number seen, frames without detections
// yield empty batches.  When withClasses is false the class column is
// ignored and all detections are labelled class 0
func LoadDetections(file string, withClasses bool) ([][]tracker.Detection, error) {

	f, err := os.Open(file)

	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}

	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var frames [][]tracker.Detection

	line := 0

	for {
		rec, err := r.Read()

		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("error reading file: %w", err)
		}

		line++

		need := 7

		if withClasses {
			need = 8
		}

		if len(rec) < need {
			return nil, fmt.Errorf("row %d: expected at least %d columns, got %d",
				line, need, len(rec))
		}

		frameF, err := parseFloat(rec, 0, line)

		if err != nil {
			return nil, err
		}

		frame := int(frameF)

		if frame < 1 {
			return nil, fmt.Errorf("row %d: frame number %d is not 1-based",
				line, frame)
		}

		var box [4]float64

		for i := range box {
			// columns 2-5 hold x, y, w, h
			box[i], err = parseFloat(rec, i+2, line)

			if err != nil {
				return nil, err
			}
		}

		score, err := parseFloat(rec, 6, line)

		if err != nil {
			return nil, err
		}

		label := 0

		if withClasses {
			cls, err := parseFloat(rec, 7, line)

			if err != nil {
				return nil, err
			}

			label = int(cls)
		}

		for len(frames) < frame {
			frames = append(frames, nil)
		}

		frames[frame-1] = append(frames[frame-1], tracker.NewDetection(
			tracker.NewRect(float32(box[0]), float32(box[1]),
				float32(box[2]), float32(box[3])),
			float32(score), label))
	}

	return frames, nil
}

// parseFloat parses the given column of a detection file record
func parseFloat(rec []string, col, line int) (float64, error) {

	v, err := strconv.ParseFloat(strings.TrimSpace(rec[col]), 64)

	if err != nil {
		return 0, fmt.Errorf("row %d column %d: %w", line, col+1, err)
	}

	return v, nil
}
