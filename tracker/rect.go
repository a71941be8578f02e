package tracker

import (
	"image"
	"math"
)

// Tlwh (top-left x, top-left y, width, height) represents a 1x4 matrix
type Tlwh []float32

// Tlbr (top-left x, top-left y, bottom-right x, bottom-right y) represents
// a 1x4 matrix
type Tlbr []float32

// Rect represents a bounding box with Tlwh (top-left x, top-left y, width,
// height) format
type Rect struct {
	Tlwh Tlwh
}

// NewRect creates a new Rect with given coordinates
func NewRect(x, y, width, height float32) Rect {
	return Rect{
		Tlwh: Tlwh{x, y, width, height},
	}
}

// RectFromTlbr creates a Rect from Tlbr (top-left x, top-left y,
// bottom-right x, bottom-right y) coordinates
func RectFromTlbr(xmin, ymin, xmax, ymax float32) Rect {
	return NewRect(xmin, ymin, xmax-xmin, ymax-ymin)
}

// RectFromImage creates a Rect from a standard library image.Rectangle
func RectFromImage(r image.Rectangle) Rect {
	return NewRect(float32(r.Min.X), float32(r.Min.Y),
		float32(r.Dx()), float32(r.Dy()))
}

// X returns the x coordinate of the rectangle
func (r *Rect) X() float32 {
	return r.Tlwh[0]
}

// Y returns the y coordinate of the rectangle
func (r *Rect) Y() float32 {
	return r.Tlwh[1]
}

// Width returns the width of the rectangle
func (r *Rect) Width() float32 {
	return r.Tlwh[2]
}

// Height returns the height of the rectangle
func (r *Rect) Height() float32 {
	return r.Tlwh[3]
}

// TLX returns the top-left x coordinate of the rectangle
func (r *Rect) TLX() float32 {
	return r.Tlwh[0]
}

// TLY returns the top-left y coordinate of the rectangle
func (r *Rect) TLY() float32 {
	return r.Tlwh[1]
}

// BRX returns the bottom-right x coordinate of the rectangle
func (r *Rect) BRX() float32 {
	return r.Tlwh[0] + r.Tlwh[2]
}

// BRY returns the bottom-right y coordinate of the rectangle
func (r *Rect) BRY() float32 {
	return r.Tlwh[1] + r.Tlwh[3]
}

// GetTlbr converts the rectangle to Tlbr (top-left x, top-left y,
// bottom-right x, bottom-right y) format
func (r *Rect) GetTlbr() Tlbr {
	return Tlbr{
		r.Tlwh[0],
		r.Tlwh[1],
		r.Tlwh[0] + r.Tlwh[2],
		r.Tlwh[1] + r.Tlwh[3],
	}
}

// ToImage converts the rectangle to a standard library image.Rectangle,
// rounding coordinates to the nearest pixel
func (r *Rect) ToImage() image.Rectangle {
	return image.Rect(
		int(math.Round(float64(r.TLX()))),
		int(math.Round(float64(r.TLY()))),
		int(math.Round(float64(r.BRX()))),
		int(math.Round(float64(r.BRY()))),
	)
}

// Area returns the area of the rectangle
func (r *Rect) Area() float32 {
	if r.Tlwh[2] <= 0 || r.Tlwh[3] <= 0 {
		return 0
	}

	return r.Tlwh[2] * r.Tlwh[3]
}

// CalcIoU calculates the Intersection over Union (IoU) with another
// rectangle, a value in the range [0,1]
func (r *Rect) CalcIoU(other Rect) float32 {

	ix := float32(math.Max(float64(r.TLX()), float64(other.TLX())))
	iy := float32(math.Max(float64(r.TLY()), float64(other.TLY())))
	ax := float32(math.Min(float64(r.BRX()), float64(other.BRX())))
	ay := float32(math.Min(float64(r.BRY()), float64(other.BRY())))

	iw := ax - ix

	if iw <= 0 {
		return 0
	}

	ih := ay - iy

	if ih <= 0 {
		return 0
	}

	inter := iw * ih
	union := r.Area() + other.Area() - inter

	if union <= 0 {
		return 0
	}

	return inter / union
}
