package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/swdee/go-viou/tracker"
	"gocv.io/x/gocv"
)

// boxLabel holds the precalculated rendering details of a box's text label
type boxLabel struct {
	rect    image.Rectangle
	clr     color.RGBA
	text    string
	textPos image.Point
}

// TrackBoxes renders the bounding boxes of the given tracks at the specified
// frame number.  Tracks with no box at that frame are skipped.  Boxes that
// were predicted by the visual tracker rather than detected are drawn with a
// single pixel outline and their label suffixed with an asterisk.
func TrackBoxes(img *gocv.Mat, tracks []*tracker.Track, frameNum int,
	classNames []string, font Font, lineThickness int) {

	// keep a record of all box labels for later rendering
	boxLabels := make([]boxLabel, 0)

	for _, trk := range tracks {

		idx := frameNum - trk.StartFrame()

		if idx < 0 || idx >= trk.Len() {
			continue
		}

		box := trk.Boxes()[idx]
		predicted := !trk.Scores()[idx].Real()

		boxLeft := int(box.TLX())
		boxTop := int(box.TLY())
		boxRight := int(box.BRX())
		boxBottom := int(box.BRY())

		// Get the color for this object
		useClr := TrackColor(trk.TrackID())

		useThickness := lineThickness

		if predicted {
			useThickness = 1
		}

		// draw rectangle around tracked object
		rect := image.Rect(boxLeft, boxTop, boxRight, boxBottom)
		gocv.Rectangle(img, rect, useClr, useThickness)

		// create text for label
		text := fmt.Sprintf("%s %d", className(classNames, trk.Class()),
			trk.TrackID())

		if predicted {
			text += " *"
		}

		textSize := gocv.GetTextSize(text, font.Face, font.Scale, font.Thickness)

		// Calculate the alignment of text label
		var centerX int

		switch font.Alignment {
		case Center:
			centerX = (boxLeft + boxRight) / 2

		case Right:
			centerX = boxRight - (textSize.X / 2) - font.RightPad + (lineThickness / 2)

		case Left:
			fallthrough
		default:
			centerX = boxLeft + (textSize.X / 2) + font.LeftPad - (lineThickness / 2)
		}

		// Adjust the label position so the text is centered horizontally
		labelPosition := image.Pt(centerX-textSize.X/2, boxTop-font.BottomPad)

		// create box for placing text on
		bRect := image.Rect(centerX-textSize.X/2-font.LeftPad,
			boxTop-textSize.Y-font.TopPad-font.BottomPad,
			centerX+textSize.X/2+font.RightPad, boxTop)

		// record label rendering details
		nextLabel := boxLabel{
			rect:    bRect,
			clr:     useClr,
			text:    text,
			textPos: labelPosition,
		}
		boxLabels = append(boxLabels, nextLabel)
	}

	// draw all precalculated box labels so they are the top most layer on the
	// image and don't get overlapped by neighbouring boxes
	for _, box := range boxLabels {
		// draw box text gets written on
		gocv.Rectangle(img, box.rect, box.clr, -1)

		// Draw the label over box
		gocv.PutTextWithParams(img, box.text, box.textPos,
			font.Face, font.Scale, font.Color, font.Thickness,
			font.LineType, false)
	}
}

// className returns the class name for the given label index or the index
// itself when no names are loaded
func className(classNames []string, class int) string {

	if class >= 0 && class < len(classNames) {
		return classNames[class]
	}

	return fmt.Sprintf("%d", class)
}
