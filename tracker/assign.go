package tracker

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// limitEpsilon nudges the unmatched price above the cost limit so a
// pairing at exactly the limit is still preferred over going unmatched
const limitEpsilon = 1e-9

// Associate matches active tracks against a frame's detections by IOU.
// It builds the cost matrix C[t][d] = 1 - IOU(track last box, detection
// box), forbids any entry with an IOU below sigmaIOU and solves for the
// minimum total cost assignment over the allowed entries.  Matched pairs
// form a partial bijection of (track index, detection index), tracks and
// detections without an allowed partner are returned unmatched.  Empty
// track or detection lists yield no matches without invoking the solver
func Associate(tracks []*Track, dets []Detection, sigmaIOU float32) (
	matches [][2]int, unmatchedTracks, unmatchedDets []int, err error) {

	nRows := len(tracks)
	nCols := len(dets)

	if nRows == 0 || nCols == 0 {
		for i := 0; i < nRows; i++ {
			unmatchedTracks = append(unmatchedTracks, i)
		}
		for j := 0; j < nCols; j++ {
			unmatchedDets = append(unmatchedDets, j)
		}
		return matches, unmatchedTracks, unmatchedDets, nil
	}

	limit := 1 - float64(sigmaIOU)

	costs := mat.NewDense(nRows, nCols, nil)

	for i, track := range tracks {
		last := track.LastBox()

		for j := range dets {
			costs.Set(i, j, 1-float64(last.CalcIoU(dets[j].Box)))
		}
	}

	rowSol, colSol, err := solveWithLimit(costs, limit)

	if err != nil {
		return nil, nil, nil, fmt.Errorf("error solving assignment: %w", err)
	}

	for i, j := range rowSol {
		// never accept a forbidden pairing, even one proposed by the solver
		if j >= 0 && costs.At(i, j) <= limit {
			matches = append(matches, [2]int{i, j})
			continue
		}

		if j >= 0 {
			colSol[j] = -1
		}

		unmatchedTracks = append(unmatchedTracks, i)
	}

	for j, i := range colSol {
		if i < 0 {
			unmatchedDets = append(unmatchedDets, j)
		}
	}

	return matches, unmatchedTracks, unmatchedDets, nil
}

// solveWithLimit solves the rectangular assignment problem over the given
// cost matrix, leaving rows and columns unmatched rather than pairing them
// at a cost above limit.  The matrix is extended to a square problem of
// size rows+cols in which every row and column also has a virtual partner
// priced at just over half the limit, so a real pairing at or below the
// limit beats going unmatched while entries above the limit always lose
func solveWithLimit(costs *mat.Dense, limit float64) ([]int, []int, error) {

	nRows, nCols := costs.Dims()
	n := nRows + nCols
	pad := (limit + limitEpsilon) / 2

	padded := make([][]float64, n)

	for i := range padded {
		padded[i] = make([]float64, n)

		for j := range padded[i] {
			switch {
			case i < nRows && j < nCols:
				c := costs.At(i, j)

				if c > limit {
					// forbidden entry, must never be chosen
					c = large
				}

				padded[i][j] = c

			case i >= nRows && j >= nCols:
				padded[i][j] = 0

			default:
				padded[i][j] = pad
			}
		}
	}

	x := make([]int, n)
	y := make([]int, n)

	ret, err := lapjv(n, padded, x, y)

	if err != nil {
		return nil, nil, err
	}

	if ret != 0 {
		return nil, nil, fmt.Errorf("lapjv returned a non-zero value: %d", ret)
	}

	rowSol := make([]int, nRows)
	colSol := make([]int, nCols)

	for i := 0; i < nRows; i++ {
		rowSol[i] = x[i]

		if x[i] >= nCols {
			rowSol[i] = -1
		}
	}

	for j := 0; j < nCols; j++ {
		colSol[j] = y[j]

		if y[j] >= nRows {
			colSol[j] = -1
		}
	}

	return rowSol, colSol, nil
}
