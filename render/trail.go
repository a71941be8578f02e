package render

import (
	"image"
	"image/color"

	"github.com/swdee/go-viou/tracker"
	"gocv.io/x/gocv"
)

// TrailStyle defines the parameters used for rendering the trail style
type TrailStyle struct {
	// LineSame defines if the color of the trail line should be the
	// same color as that of the bounding box.  If set to false then use
	// the color specified at LineColor
	LineSame      bool
	LineColor     color.RGBA
	LineThickness int
	// CircleSame defines if the color of the midpoint circle should be the
	// same color as that of the bounding box.  If set to false then use
	// the color specified at CircleColor
	CircleSame   bool
	CircleColor  color.RGBA
	CircleRadius int
}

// DefaultTrailStyle returns default trail style settings
func DefaultTrailStyle() TrailStyle {
	return TrailStyle{
		LineSame:      false,
		LineColor:     Yellow,
		LineThickness: 1,
		CircleSame:    true,
		CircleColor:   Pink,
		CircleRadius:  3,
	}
}

// Trail draws each track's path on the source image as a polyline through
// the midpoints of its boxes up to and including the specified frame number.
func Trail(img *gocv.Mat, tracks []*tracker.Track, frameNum int,
	style TrailStyle) {

	for _, trk := range tracks {

		idx := frameNum - trk.StartFrame()

		if idx < 0 {
			continue
		}

		if idx >= trk.Len() {
			idx = trk.Len() - 1
		}

		// Get the color for this object
		objClr := TrackColor(trk.TrackID())

		// determine style colors to use
		lineClr := objClr
		circleClr := objClr

		if !style.LineSame {
			lineClr = style.LineColor
		}

		if !style.CircleSame {
			circleClr = style.CircleColor
		}

		// midpoints of the track boxes up to the current frame
		boxes := trk.Boxes()[:idx+1]
		points := make([]image.Point, len(boxes))

		for i, box := range boxes {
			points[i] = image.Pt(
				int(box.TLX()+box.Width()/2),
				int(box.TLY()+box.Height()/2),
			)
		}

		if len(points) > 2 {
			// draw trail
			for i := 1; i < len(points); i++ {
				// draw line segment of trail
				gocv.Line(img,
					image.Pt(points[i-1].X, points[i-1].Y),
					image.Pt(points[i].X, points[i].Y),
					lineClr, style.LineThickness,
				)
			}
		}

		// draw center point circle on current rect/box
		last := points[len(points)-1]
		gocv.Circle(img, image.Pt(last.X, last.Y),
			style.CircleRadius, circleClr, -1)
	}
}
